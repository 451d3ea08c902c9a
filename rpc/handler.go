// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"go.uber.org/zap"
)

const (
	// MethodLabel is the metric label holding the method name
	MethodLabel = "method"

	// OutcomeLabel is the metric label holding the result of a call
	OutcomeLabel = "outcome"

	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"

	// UnknownMethod is the MethodLabel value used for calls to methods that are not registered
	UnknownMethod = "unknown"
)

// ErrEmptyModule is returned when a Handler would have no methods to dispatch to
var ErrEmptyModule = errors.New("module has no methods")

// HandlerOptions configures a Handler
type HandlerOptions struct {
	// Logger receives call and jrpc2 server diagnostics at debug level.  If unset, a nop logger is used.
	Logger *zap.Logger

	// Calls is incremented once per call, labeled with MethodLabel and OutcomeLabel.  If unset, a go-kit discard Counter is used.
	Calls metrics.Counter

	// Duration observes the seconds each registered method takes, labeled with MethodLabel.  If unset,
	// durations are only logged.
	Duration metrics.Histogram
}

// Handler is an http.Handler that dispatches JSON-RPC 2.0 requests to the methods of a frozen Module
type Handler struct {
	logger   *zap.Logger
	calls    metrics.Counter
	duration metrics.Histogram
	methods  handler.Map
	bridge   interface {
		http.Handler
		Close() error
	}
}

// NewHandler freezes a module and creates the Handler which serves it
func NewHandler(m *Module, o HandlerOptions) (*Handler, error) {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	if o.Calls == nil {
		o.Calls = discard.NewCounter()
	}

	if o.Duration == nil {
		o.Duration = discard.NewHistogram()
	}

	m.Freeze()
	if m.Len() == 0 {
		return nil, ErrEmptyModule
	}

	h := &Handler{
		logger:   o.Logger,
		calls:    o.Calls,
		duration: o.Duration,
		methods:  make(handler.Map),
	}

	for name, method := range m.snapshot() {
		h.methods[name] = h.instrument(name, method)
	}

	h.bridge = jhttp.NewBridge(h, &jhttp.BridgeOptions{
		Server: &jrpc2.ServerOptions{
			Logger: func(text string) {
				o.Logger.Debug(text)
			},
		},
	})

	return h, nil
}

// instrument decorates a Method with call metrics and logging
func (h *Handler) instrument(name string, method Method) jrpc2.Handler {
	return func(ctx context.Context, req *jrpc2.Request) (interface{}, error) {
		start := time.Now()
		result, err := method(ctx, req)
		elapsed := time.Since(start)

		outcome := OutcomeSuccess
		if err != nil {
			outcome = OutcomeError
		}

		h.calls.With(MethodLabel, name, OutcomeLabel, outcome).Add(1.0)
		h.duration.With(MethodLabel, name).Observe(elapsed.Seconds())
		h.logger.Debug(
			"rpc call",
			zap.String("method", name),
			zap.String("outcome", outcome),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)

		return result, err
	}
}

// Assign implements jrpc2.Assigner.  Calls to unregistered methods are counted, and jrpc2
// answers them with a method not found error.
func (h *Handler) Assign(ctx context.Context, method string) jrpc2.Handler {
	if found := h.methods.Assign(ctx, method); found != nil {
		return found
	}

	h.calls.With(MethodLabel, UnknownMethod, OutcomeLabel, OutcomeNotFound).Add(1.0)
	h.logger.Debug("rpc method not found", zap.String("method", method))
	return nil
}

// Names returns the sorted names of the methods this Handler dispatches to
func (h *Handler) Names() []string {
	return h.methods.Names()
}

// Call invokes a method with no parameters, outside of any HTTP request
func (h *Handler) Call(ctx context.Context, method string) (interface{}, error) {
	found, ok := h.methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchMethod, method)
	}

	msg, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
	})

	if err != nil {
		return nil, err
	}

	parsed, err := jrpc2.ParseRequests(msg)
	if err != nil {
		return nil, err
	}

	return found(ctx, parsed[0].ToRequest())
}

// ServeHTTP dispatches a JSON-RPC 2.0 POST request
func (h *Handler) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	h.bridge.ServeHTTP(response, request)
}

// Close shuts down the underlying jrpc2 server
func (h *Handler) Close() error {
	return h.bridge.Close()
}
