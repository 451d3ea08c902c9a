// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/corsrpc/server"
	"github.com/xmidt-org/corsrpc/xmetrics"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestRegisterRunner(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		out = new(syncBuffer)
		r   *runner
	)

	app := fxtest.New(
		t,
		fx.Supply(Config{Address: server.DefaultAddress}),
		fx.Provide(
			func() *zap.Logger { return zaptest.NewLogger(t) },
			newRegistry,
			func(config Config, logger *zap.Logger, registry xmetrics.Registry) *runner {
				return &runner{config: config, logger: logger, registry: registry, out: out}
			},
		),
		fx.Invoke(registerRunner),
		fx.Populate(&r),
	)

	app.RequireStart()
	require.NotNil(r.addr)
	require.NotNil(r.handle)
	assert.Contains(out.String(), `fetch("http://`+r.addr.String()+`"`)

	_, decoded := call(t, r.addr.String(), "", `{"jsonrpc":"2.0","method":"say_hello","id":1}`)
	assert.JSONEq(`"Hello there!!"`, string(decoded.Result))

	app.RequireStop()
	select {
	case <-r.handle.Done():
	case <-time.After(5 * time.Second):
		assert.Fail("server did not stop")
	}
}

func TestRunnerStopWithoutStart(t *testing.T) {
	r := new(runner)
	assert.NoError(t, r.stop(context.Background()))
}

func TestNewApp(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var (
			assert  = assert.New(t)
			require = require.New(t)

			out = new(syncBuffer)
			r   *runner
		)

		app, logger, err := newApp(
			[]string{"--address", "127.0.0.1:0", "--metrics-address", "127.0.0.1:0", "--log-level", "error"},
			out,
			fx.Populate(&r),
		)

		require.NoError(err)
		require.NotNil(app)
		require.NotNil(logger)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		require.NoError(app.Start(ctx))
		defer app.Stop(ctx)

		host, port, err := net.SplitHostPort(r.addr.String())
		require.NoError(err)
		assert.True(net.ParseIP(host).IsLoopback())
		assert.NotEqual("0", port)
		assert.Contains(out.String(), "Run the following snippet")

		_, decoded := call(t, r.addr.String(), "https://example.com", `{"jsonrpc":"2.0","method":"say_hello","id":1}`)
		assert.JSONEq(`"Hello there!!"`, string(decoded.Result))

		require.NoError(app.Stop(ctx))
	})

	t.Run("InvalidLogLevel", func(t *testing.T) {
		app, logger, err := newApp([]string{"--log-level", "loud"}, io.Discard)
		assert.Nil(t, app)
		assert.Nil(t, logger)
		assert.Error(t, err)
	})

	t.Run("StartFailure", func(t *testing.T) {
		var (
			assert  = assert.New(t)
			require = require.New(t)
		)

		existing, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(err)
		defer existing.Close()

		app, _, err := newApp([]string{"--address", existing.Addr().String(), "--log-level", "error"}, io.Discard)
		require.NoError(err)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		assert.Error(app.Start(ctx))
	})
}

func TestRunFailures(t *testing.T) {
	testData := []struct {
		name      string
		arguments []string
	}{
		{"UnknownFlag", []string{"--unknown"}},
		{"InvalidLogLevel", []string{"--log-level", "loud"}},
	}

	for _, record := range testData {
		t.Run(record.name, func(t *testing.T) {
			var (
				assert = assert.New(t)
				stdout bytes.Buffer
				stderr bytes.Buffer
			)

			assert.Equal(1, run(record.arguments, &stdout, &stderr))
			assert.True(strings.HasPrefix(stderr.String(), "unable to start corsrpc"))
			assert.Empty(stdout.String())
		})
	}
}

func TestMetricsServer(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	// find a free port for the metrics server
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	metricsAddress := l.Addr().String()
	require.NoError(l.Close())

	var r *runner
	app := fxtest.New(
		t,
		fx.Supply(Config{Address: server.DefaultAddress, MetricsAddress: metricsAddress}),
		fx.Provide(
			func() *zap.Logger { return zaptest.NewLogger(t) },
			newRegistry,
			func(config Config, logger *zap.Logger, registry xmetrics.Registry) *runner {
				return &runner{config: config, logger: logger, registry: registry, out: io.Discard}
			},
		),
		fx.Invoke(registerRunner, registerMetricsServer),
		fx.Populate(&r),
	)

	app.RequireStart()
	defer app.RequireStop()

	call(t, r.addr.String(), "", `{"jsonrpc":"2.0","method":"say_hello","id":1}`)

	response, err := http.Get("http://" + metricsAddress + "/metrics")
	require.NoError(err)
	defer response.Body.Close()

	var body bytes.Buffer
	_, err = body.ReadFrom(response.Body)
	require.NoError(err)

	assert.Equal(http.StatusOK, response.StatusCode)
	assert.Contains(body.String(), `xmidt_corsrpc_rpc_calls_total{method="say_hello",outcome="success"} 1`)
}
