// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/xmidt-org/corsrpc/accesscontrol"
	"github.com/xmidt-org/corsrpc/rpc"
	"github.com/xmidt-org/corsrpc/xhttp"
	"github.com/xmidt-org/corsrpc/xhttp/xfilter"
	"github.com/xmidt-org/corsrpc/xlistener"
	"github.com/xmidt-org/corsrpc/xmetrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	DefaultName = "corsrpc"

	// DefaultAddress is the loopback interface on an ephemeral port
	DefaultAddress = xlistener.DefaultAddress
)

var (
	ErrAlreadyStarted     = errors.New("server has already been started")
	ErrUnknownHealthCheck = errors.New("health API method is not registered")
)

// Builder describes a single JSON-RPC server.  The zero value binds 127.0.0.1 on an ephemeral port
// and allows every host and origin.
type Builder struct {
	// Name identifies this server in logs, metrics, and traces.  Defaults to DefaultName.
	Name string

	// Address is the bind address.  Defaults to DefaultAddress.
	Address string

	// Network is the bind network.  Defaults to "tcp".
	Network string

	// MaxConnections limits the number of concurrent connections.  Nonpositive values mean no limit.
	MaxConnections int

	// MaxRequestBodySize limits the size of request bodies.  Defaults to xhttp.DefaultMaxRequestBodySize.
	MaxRequestBodySize int64

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// AccessControl filters requests by host, origin, and requested headers.  If unset, accesscontrol.AllowAll() is used.
	AccessControl *accesscontrol.AccessControl

	// Filters are applied after AccessControl, e.g. a rate limit
	Filters []xfilter.Interface

	// Middleware decorates the server outside of filtering, e.g. the CORS layer
	Middleware []alice.Constructor

	// HealthAPI optionally exposes a registered method via GET
	HealthAPI *rpc.HealthAPI

	// Logger is the server's logger.  If unset, a nop logger is used.
	Logger *zap.Logger

	// Registry supplies the metrics declared by Metrics().  If unset, metrics are discarded.
	Registry xmetrics.Registry
}

func (b *Builder) name() string {
	if len(b.Name) > 0 {
		return b.Name
	}

	return DefaultName
}

func (b *Builder) address() string {
	if len(b.Address) > 0 {
		return b.Address
	}

	return DefaultAddress
}

func (b *Builder) maxRequestBodySize() int64 {
	if b.MaxRequestBodySize > 0 {
		return b.MaxRequestBodySize
	}

	return xhttp.DefaultMaxRequestBodySize
}

func (b *Builder) accessControl() *accesscontrol.AccessControl {
	if b.AccessControl != nil {
		return b.AccessControl
	}

	return accesscontrol.AllowAll()
}

func (b *Builder) logger() *zap.Logger {
	if b.Logger != nil {
		return b.Logger
	}

	return zap.NewNop()
}

func (b *Builder) counter(name string) metrics.Counter {
	if b.Registry != nil {
		return b.Registry.NewCounter(name)
	}

	return discard.NewCounter()
}

func (b *Builder) histogram(name string) metrics.Histogram {
	if b.Registry != nil {
		return b.Registry.NewHistogram(name, 0)
	}

	return discard.NewHistogram()
}

func (b *Builder) gauge(name string) metrics.Gauge {
	if b.Registry != nil {
		return b.Registry.NewGauge(name)
	}

	return discard.NewGauge()
}

// Build binds the server's listener.  If binding fails, for instance because the address
// is in use, the error is returned and nothing is left listening.
func (b Builder) Build() (*Server, error) {
	var (
		name   = b.name()
		logger = b.logger().With(zap.String("server", name))
	)

	listener, err := xlistener.New(xlistener.Options{
		Logger:         logger,
		MaxConnections: b.MaxConnections,
		Rejected:       b.counter(RejectedConnectionsCounter).With(ServerLabel, name),
		Active:         b.gauge(ActiveConnectionsGauge).With(ServerLabel, name),
		Network:        b.Network,
		Address:        b.address(),
	})

	if err != nil {
		return nil, fmt.Errorf("unable to bind %s: %w", b.address(), err)
	}

	logger.Info("bound listener", zap.Stringer("localAddress", listener.Addr()))
	return &Server{
		builder:  b,
		name:     name,
		logger:   logger,
		listener: listener,
	}, nil
}

// Server is a bound, but not yet serving, JSON-RPC server
type Server struct {
	builder  Builder
	name     string
	logger   *zap.Logger
	listener net.Listener

	lock    sync.Mutex
	started bool
}

// LocalAddr returns the concrete address the server is bound to
func (s *Server) LocalAddr() net.Addr {
	return s.listener.Addr()
}

// Close releases the listener of a server that was never started
func (s *Server) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	s.started = true
	return s.listener.Close()
}

// Start freezes the module and begins serving it in a separate goroutine.  If the server cannot
// be started, its listener is closed.
func (s *Server) Start(m *rpc.Module) (*Handle, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.started {
		return nil, ErrAlreadyStarted
	}

	s.started = true
	h, err := s.start(m)
	if err != nil {
		s.listener.Close()
		return nil, err
	}

	return h, nil
}

func (s *Server) start(m *rpc.Module) (*Handle, error) {
	handler, err := rpc.NewHandler(m, rpc.HandlerOptions{
		Logger:   s.logger,
		Calls:    s.builder.counter(RPCCallsCounter),
		Duration: s.builder.histogram(RPCCallDurationHistogram),
	})

	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	router.Handle("/", handler)

	if ha := s.builder.HealthAPI; ha != nil {
		if _, ok := m.Method(ha.Method); !ok {
			handler.Close()
			return nil, fmt.Errorf("%w: %s", ErrUnknownHealthCheck, ha.Method)
		}

		router.Handle(ha.HealthPath(), rpc.NewHealthHandler(handler, ha.Method)).Methods(http.MethodGet)
	}

	var (
		ac       = s.builder.accessControl()
		filters  = append([]xfilter.Interface{ac}, s.builder.Filters...)
		rejected = xfilter.WithRejected(s.builder.counter(RejectedRequestsCounter).With(ServerLabel, s.name))
	)

	// preflights never get past the CORS middleware, so they are checked before it
	chain := alice.New(
		xhttp.RequestID(s.logger),
		xfilter.NewConstructor(xfilter.WithFilters(xfilter.Func(ac.AllowPreflight)), rejected),
	).
		Append(s.builder.Middleware...).
		Append(
			xfilter.NewConstructor(xfilter.WithFilters(filters...), rejected),
			xhttp.MaxBytes(s.builder.maxRequestBodySize()),
		)

	server := xhttp.NewServer(xhttp.ServerOptions{
		Logger:            s.logger,
		Address:           s.listener.Addr().String(),
		ReadTimeout:       s.builder.ReadTimeout,
		ReadHeaderTimeout: s.builder.ReadHeaderTimeout,
		WriteTimeout:      s.builder.WriteTimeout,
		IdleTimeout:       s.builder.IdleTimeout,
	})

	server.Handler = chain.Then(otelhttp.NewHandler(router, s.name))

	starter := xhttp.NewStarter(s.logger, server, s.listener)

	hd := &Handle{
		server:  server,
		handler: handler,
		addr:    s.listener.Addr(),
		done:    make(chan struct{}),
	}

	go hd.serve(starter)
	return hd, nil
}

// Handle controls a running server
type Handle struct {
	server  *http.Server
	handler *rpc.Handler
	addr    net.Addr

	done chan struct{}
	err  error

	stopOnce sync.Once
	stopErr  error
}

func (hd *Handle) serve(starter func() error) {
	defer close(hd.done)
	if err := starter(); !errors.Is(err, http.ErrServerClosed) {
		hd.err = err
	}
}

// LocalAddr returns the address the server is listening on
func (hd *Handle) LocalAddr() net.Addr {
	return hd.addr
}

// Done returns a channel that is closed once the server stops serving
func (hd *Handle) Done() <-chan struct{} {
	return hd.done
}

// Err returns the error that stopped the server, or nil for a graceful stop.  It is only
// meaningful after Done is closed.
func (hd *Handle) Err() error {
	select {
	case <-hd.done:
		return hd.err
	default:
		return nil
	}
}

// Stop gracefully shuts down the server, waiting for in-flight requests until the context
// is done.  Stop is idempotent.
func (hd *Handle) Stop(ctx context.Context) error {
	hd.stopOnce.Do(func() {
		hd.stopErr = hd.server.Shutdown(ctx)
		hd.handler.Close()

		select {
		case <-hd.done:
		case <-ctx.Done():
			if hd.stopErr == nil {
				hd.stopErr = ctx.Err()
			}
		}
	})

	return hd.stopErr
}
