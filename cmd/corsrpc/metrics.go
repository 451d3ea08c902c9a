// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xmidt-org/corsrpc/server"
	"github.com/xmidt-org/corsrpc/xhttp"
	"github.com/xmidt-org/corsrpc/xlistener"
	"github.com/xmidt-org/corsrpc/xmetrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newRegistry() (xmetrics.Registry, error) {
	return xmetrics.NewRegistry(&xmetrics.Options{
		Subsystem: applicationName,
		Metrics:   server.Metrics(),
	})
}

// registerMetricsServer serves the registry over HTTP when a metrics address is configured
func registerMetricsServer(lc fx.Lifecycle, config Config, logger *zap.Logger, registry xmetrics.Registry) {
	if len(config.MetricsAddress) == 0 {
		return
	}

	logger = logger.With(zap.String("server", "metrics"))
	s := xhttp.NewServer(xhttp.ServerOptions{
		Logger:  logger,
		Address: config.MetricsAddress,
	})

	s.Handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: xhttp.NewErrorLog(logger),
	})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			l, err := xlistener.New(xlistener.Options{
				Logger:  logger,
				Address: config.MetricsAddress,
			})

			if err != nil {
				return err
			}

			go xhttp.NewStarter(logger, s, l)()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			err := s.Shutdown(ctx)
			if err == http.ErrServerClosed {
				return nil
			}

			return err
		},
	})
}
