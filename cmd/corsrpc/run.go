// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/creachadair/jrpc2"
	"github.com/justinas/alice"
	"github.com/xmidt-org/corsrpc/accesscontrol"
	"github.com/xmidt-org/corsrpc/rpc"
	"github.com/xmidt-org/corsrpc/server"
	"github.com/xmidt-org/corsrpc/xhttp"
	"github.com/xmidt-org/corsrpc/xhttp/xfilter"
	"github.com/xmidt-org/corsrpc/xmetrics"
	"go.uber.org/zap"
)

const (
	SayHelloMethod = "say_hello"
	SayHelloResult = "Hello there!!"
)

// sayHello ignores its parameters and always succeeds
func sayHello(out io.Writer) rpc.Method {
	return func(context.Context, *jrpc2.Request) (interface{}, error) {
		fmt.Fprintln(out, "say_hello method called!")
		return SayHelloResult, nil
	}
}

func newModule(out io.Writer) (*rpc.Module, error) {
	m := rpc.NewModule()
	if err := m.Register(SayHelloMethod, sayHello(out)); err != nil {
		return nil, err
	}

	return m, nil
}

// runServer binds and starts the JSON-RPC server.  The returned address is the concrete
// address the server listens on.
func runServer(config Config, logger *zap.Logger, registry xmetrics.Registry, out io.Writer) (net.Addr, *server.Handle, error) {
	ac, err := accesscontrol.New(config.AccessControl)
	if err != nil {
		return nil, nil, err
	}

	m, err := newModule(out)
	if err != nil {
		return nil, nil, err
	}

	b := server.Builder{
		Name:               applicationName,
		Address:            config.Address,
		MaxConnections:     config.MaxConnections,
		MaxRequestBodySize: config.MaxRequestBodySize,
		ReadTimeout:        config.ReadTimeout,
		ReadHeaderTimeout:  config.ReadHeaderTimeout,
		WriteTimeout:       config.WriteTimeout,
		IdleTimeout:        config.IdleTimeout,
		AccessControl:      ac,
		Filters:            []xfilter.Interface{xfilter.NewRateLimit(config.RateLimit)},
		Middleware:         []alice.Constructor{xhttp.NewCORS(config.CORS, logger)},
		HealthAPI:          config.HealthAPI,
		Logger:             logger,
		Registry:           registry,
	}

	s, err := b.Build()
	if err != nil {
		return nil, nil, err
	}

	h, err := s.Start(m)
	if err != nil {
		return nil, nil, err
	}

	return s.LocalAddr(), h, nil
}
