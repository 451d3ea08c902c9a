// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xhttp

import (
	"errors"
	stdlog "log"
	"net"
	"net/http"
	"time"

	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServerOptions holds the http.Server settings an RPC endpoint exposes through configuration.
type ServerOptions struct {
	// Logger receives the server's internal errors and connection state changes.  If unset,
	// sallust.Default() is used.
	Logger *zap.Logger

	// Address is informational.  Servers built here are always handed an already bound listener.
	Address string

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// MaxHeaderBytes caps request header size.  Zero means the net/http default.
	MaxHeaderBytes int

	// DisableKeepAlives closes each connection after one response.
	DisableKeepAlives bool
}

func (o ServerOptions) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	return sallust.Default()
}

// NewServer creates an *http.Server from options.  The Handler is left nil for the caller to set.
func NewServer(o ServerOptions) *http.Server {
	logger := o.logger().With(zap.String("address", o.Address))
	s := &http.Server{
		Addr:              o.Address,
		ReadTimeout:       o.ReadTimeout,
		ReadHeaderTimeout: o.ReadHeaderTimeout,
		WriteTimeout:      o.WriteTimeout,
		IdleTimeout:       o.IdleTimeout,
		MaxHeaderBytes:    o.MaxHeaderBytes,
		ErrorLog:          NewErrorLog(logger),
		ConnState:         connStateLogger(logger),
	}

	s.SetKeepAlivesEnabled(!o.DisableKeepAlives)
	return s
}

// NewErrorLog bridges net/http's internal error output, e.g. TLS handshake failures, onto zap at the error level.
func NewErrorLog(logger *zap.Logger) *stdlog.Logger {
	if logger == nil {
		logger = sallust.Default()
	}

	if l, err := zap.NewStdLogAt(logger, zapcore.ErrorLevel); err == nil {
		return l
	}

	return zap.NewStdLog(logger)
}

func connStateLogger(logger *zap.Logger) func(net.Conn, http.ConnState) {
	return func(c net.Conn, state http.ConnState) {
		if ce := logger.Check(zapcore.DebugLevel, "connection state"); ce != nil {
			ce.Write(
				zap.Stringer("remoteAddress", c.RemoteAddr()),
				zap.Stringer("state", state),
			)
		}
	}
}

// Servable is the part of *http.Server used to run it on a bound listener
type Servable interface {
	Serve(net.Listener) error
}

// NewStarter returns a closure that serves on the listener and blocks until serving ends.
// A graceful shutdown, signaled by http.ErrServerClosed, is logged at info and any other
// exit at error.  The error from Serve is always returned unchanged.
func NewStarter(logger *zap.Logger, s Servable, l net.Listener) func() error {
	if logger == nil {
		logger = sallust.Default()
	}

	return func() error {
		logger.Info("serving", zap.Stringer("localAddress", l.Addr()))
		err := s.Serve(l)
		switch {
		case errors.Is(err, http.ErrServerClosed):
			logger.Info("server closed")
		default:
			logger.Error("server exited", zap.Error(err))
		}

		return err
	}
}
