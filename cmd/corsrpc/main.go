// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/xmidt-org/corsrpc/logging"
	"github.com/xmidt-org/corsrpc/server"
	"github.com/xmidt-org/corsrpc/xmetrics"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const stopTimeout = 15 * time.Second

// runner owns the JSON-RPC server for the lifetime of the application
type runner struct {
	config   Config
	logger   *zap.Logger
	registry xmetrics.Registry
	out      io.Writer

	addr   net.Addr
	handle *server.Handle
}

func (r *runner) start(context.Context) error {
	addr, handle, err := runServer(r.config, r.logger, r.registry, r.out)
	if err != nil {
		return err
	}

	r.addr, r.handle = addr, handle
	return printSnippet(r.out, addr)
}

func (r *runner) stop(ctx context.Context) error {
	if r.handle == nil {
		return nil
	}

	return r.handle.Stop(ctx)
}

// done is closed when the server stops serving, whether stopped or failed
func (r *runner) done() <-chan struct{} {
	return r.handle.Done()
}

func registerRunner(lc fx.Lifecycle, r *runner) {
	lc.Append(fx.Hook{
		OnStart: r.start,
		OnStop:  r.stop,
	})
}

// newApp loads configuration and creates the logger exactly once.  Errors from either are
// returned before any fx application exists.
func newApp(arguments []string, out io.Writer, options ...fx.Option) (*fx.App, *zap.Logger, error) {
	config, err := loadConfig(arguments)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(&config.Log)
	if err != nil {
		return nil, nil, err
	}

	app := fx.New(
		append(
			[]fx.Option{
				fx.Supply(config, logger),
				fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
					return &fxevent.ZapLogger{Logger: l}
				}),
				fx.Provide(
					newRegistry,
					func(config Config, logger *zap.Logger, registry xmetrics.Registry) *runner {
						return &runner{
							config:   config,
							logger:   logger,
							registry: registry,
							out:      out,
						}
					},
				),
				fx.Invoke(
					registerRunner,
					registerMetricsServer,
				),
			},
			options...,
		)...,
	)

	return app, logger, app.Err()
}

func run(arguments []string, stdout, stderr io.Writer) int {
	var r *runner
	app, logger, err := newApp(arguments, stdout, fx.Populate(&r))
	if err != nil {
		fmt.Fprintf(stderr, "unable to start %s: %s\n", applicationName, err)
		return 1
	}

	defer logger.Sync()

	startCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		logger.Error("unable to start", zap.Error(err))
		return 1
	}

	waitCtx, cancelWait := context.WithCancel(context.Background())
	defer cancelWait()
	go func() {
		select {
		case <-r.done():
			cancelWait()
		case <-waitCtx.Done():
		}
	}()

	exitCode := 0
	s, err := server.SignalWait(waitCtx, logger, app.Done(), os.Interrupt, syscall.SIGTERM)
	if err != nil {
		logger.Error("server exited unexpectedly", zap.Error(r.handle.Err()))
		exitCode = 1
	} else {
		logger.Info("stopping", zap.Any("signal", s))
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		logger.Error("unable to stop cleanly", zap.Error(err))
		return 1
	}

	return exitCode
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
