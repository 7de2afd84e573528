// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/lethe/store"
	"github.com/xmidt-org/lethe/store/db/metric"
	"github.com/xmidt-org/lethe/store/inmem"
	"github.com/xmidt-org/lethe/store/redis"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestSetupStoreInMem(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	s, err := SetupStore(SetupIn{
		Configs:  Configs{},
		Measures: testMeasures(),
		LC:       fxtest.NewLifecycle(t),
		Logger:   zap.NewNop(),
	})
	require.NoError(err)
	assert.IsType(&inmem.InMem{}, s)
}

func TestSetupStoreRedis(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	server := miniredis.RunT(t)
	lc := fxtest.NewLifecycle(t)
	s, err := SetupStore(SetupIn{
		Configs:  Configs{Redis: &redis.Config{Address: server.Addr()}},
		Measures: testMeasures(),
		LC:       lc,
		Logger:   zap.NewNop(),
	})
	require.NoError(err)
	assert.IsType(&redis.Client{}, s)
	lc.RequireStart()

	bin, err := s.CreateBin(context.Background(), false, time.Hour)
	require.NoError(err)
	found, err := s.LookupBin(context.Background(), bin.Name)
	require.NoError(err)
	assert.Equal(bin.Name, found.Name)

	lc.RequireStop()
}

func testMeasures() metric.Measures {
	return metric.Measures{
		QuerySuccessCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: metric.QuerySuccessCounter}, []string{store.TypeLabel}),
		QueryFailureCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: metric.QueryFailureCounter}, []string{store.TypeLabel}),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: metric.QueryDurationSeconds}, []string{store.TypeLabel}),
	}
}
