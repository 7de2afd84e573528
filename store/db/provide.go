// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"github.com/xmidt-org/lethe/store"
	"github.com/xmidt-org/lethe/store/db/metric"
	"github.com/xmidt-org/lethe/store/inmem"
	"github.com/xmidt-org/lethe/store/redis"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Configs struct {
	Redis *redis.Config
}

type SetupIn struct {
	fx.In
	Configs  Configs
	Measures metric.Measures
	LC       fx.Lifecycle
	Logger   *zap.Logger
}

func Provide() fx.Option {
	return fx.Options(
		fx.Provide(
			SetupStore,
		),
	)
}

func SetupStore(in SetupIn) (store.S, error) {
	if in.Configs.Redis != nil {
		in.Logger.Info("using redis store implementation")
		return redis.Provide(*in.Configs.Redis, in.Measures, in.LC, in.Logger)
	}
	in.Logger.Info("using in memory store implementation")
	return inmem.New(), nil
}
