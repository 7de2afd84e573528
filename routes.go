// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/spf13/viper"
	"github.com/xmidt-org/httpaux"
	"github.com/xmidt-org/touchstone/touchhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultMetricsAddress = ":9361"

type MetricsServerIn struct {
	fx.In
	Metrics touchhttp.Handler
	LC      fx.Lifecycle
	Logger  *zap.Logger
	Viper   *viper.Viper
}

// runMetricsServer exposes the prometheus scrape endpoint and a trivial
// health probe. The bin-facing HTTP API lives in the surrounding service,
// not here.
func runMetricsServer(in MetricsServerIn) {
	address := in.Viper.GetString("servers.metrics.address")
	if address == "" {
		address = defaultMetricsAddress
	}

	router := mux.NewRouter()
	router.Handle("/metrics", in.Metrics).Methods("GET")
	router.Handle("/health", httpaux.ConstantHandler{
		StatusCode: http.StatusOK,
	}).Methods("GET")

	server := &http.Server{
		Addr:    address,
		Handler: router,
	}

	in.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			listener, err := net.Listen("tcp", address)
			if err != nil {
				return err
			}
			in.Logger.Info("metrics server listening", zap.String("address", address))
			go func() {
				if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
					in.Logger.Error("metrics server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
