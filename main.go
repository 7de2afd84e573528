// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/arrange"
	"github.com/xmidt-org/lethe/store"
	"github.com/xmidt-org/lethe/store/db"
	"github.com/xmidt-org/lethe/store/db/metric"
	redisstore "github.com/xmidt-org/lethe/store/redis"
	"github.com/xmidt-org/touchstone"
	"github.com/xmidt-org/touchstone/touchhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const applicationName = "lethe"

var (
	GitCommit = "undefined"
	Version   = "undefined"
	BuildTime = "undefined"
)

func main() {
	v, logger, err := setup(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	app := fx.New(
		arrange.LoggerFunc(logger.Sugar().Infof),
		arrange.ForViper(v),
		fx.Supply(logger, v),
		touchstone.Provide(),
		touchhttp.Provide(),
		fx.Provide(
			arrange.UnmarshalKey("prometheus", touchstone.Config{}),
			arrange.UnmarshalKey("prometheus.handler", touchhttp.Config{}),
		),
		metric.ProvideMetrics(),
		db.Provide(),
		fx.Provide(
			provideStoreConfigs,
		),
		fx.Invoke(
			runMetricsServer,
			logStoreReady,
		),
	)

	switch err := app.Err(); {
	case errors.Is(err, pflag.ErrHelp):
		return
	case err == nil:
		app.Run()
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func provideStoreConfigs(v *viper.Viper) (db.Configs, error) {
	var configs db.Configs
	if v.IsSet(redisstore.Redis) {
		var config redisstore.Config
		if err := v.UnmarshalKey(redisstore.Redis, &config); err != nil {
			return db.Configs{}, err
		}
		configs.Redis = &config
	}
	return configs, nil
}

func logStoreReady(s store.S, logger *zap.Logger) {
	logger.Info("storage layer ready")
}
