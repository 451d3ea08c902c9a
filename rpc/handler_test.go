// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/creachadair/jrpc2"
	gokitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

func newCallsVec() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "calls"},
		[]string{MethodLabel, OutcomeLabel},
	)
}

func newTestHandler(t *testing.T, calls *prometheus.CounterVec) *Handler {
	m := NewModule()
	require.NoError(t, m.Register("echo", func(_ context.Context, req *jrpc2.Request) (interface{}, error) {
		var params []string
		if req.HasParams() {
			if err := req.UnmarshalParams(&params); err != nil {
				return nil, err
			}
		}

		return strings.Join(params, " "), nil
	}))

	require.NoError(t, m.Register("fail", func(context.Context, *jrpc2.Request) (interface{}, error) {
		return nil, errors.New("expected failure")
	}))

	h, err := NewHandler(m, HandlerOptions{
		Logger: zaptest.NewLogger(t),
		Calls:  gokitprometheus.NewCounter(calls),
	})

	require.NoError(t, err)
	require.NotNil(t, h)
	t.Cleanup(func() { h.Close() })
	return h
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, rpcResponse) {
	request := httptest.NewRequest("POST", "/", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	response := httptest.NewRecorder()
	h.ServeHTTP(response, request)

	var decoded rpcResponse
	if response.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &decoded))
	}

	return response, decoded
}

func TestNewHandlerEmptyModule(t *testing.T) {
	var (
		assert = assert.New(t)
		m      = NewModule()
	)

	h, err := NewHandler(m, HandlerOptions{})
	assert.Nil(h)
	assert.ErrorIs(err, ErrEmptyModule)
	assert.True(m.Frozen())
}

func TestNewHandlerFreezesModule(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		m       = NewModule()
	)

	require.NoError(m.Register("test", constantMethod(1)))
	h, err := NewHandler(m, HandlerOptions{})
	require.NoError(err)
	defer h.Close()

	assert.True(m.Frozen())
	assert.ErrorIs(m.Register("late", constantMethod(2)), ErrModuleFrozen)
	assert.Equal([]string{"test"}, h.Names())
}

func TestHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var (
			assert = assert.New(t)
			calls  = newCallsVec()
			h      = newTestHandler(t, calls)
		)

		response, decoded := post(t, h, `{"jsonrpc":"2.0","id":1,"method":"echo","params":["hello","world"]}`)
		assert.Equal(http.StatusOK, response.Code)
		assert.Equal("2.0", decoded.JSONRPC)
		assert.JSONEq(`1`, string(decoded.ID))
		assert.JSONEq(`"hello world"`, string(decoded.Result))
		assert.Nil(decoded.Error)
		assert.Equal(1.0, testutil.ToFloat64(calls.WithLabelValues("echo", OutcomeSuccess)))
	})

	t.Run("MethodError", func(t *testing.T) {
		var (
			assert  = assert.New(t)
			require = require.New(t)
			calls   = newCallsVec()
			h       = newTestHandler(t, calls)
		)

		response, decoded := post(t, h, `{"jsonrpc":"2.0","id":2,"method":"fail"}`)
		assert.Equal(http.StatusOK, response.Code)
		require.NotNil(decoded.Error)
		assert.Contains(decoded.Error.Message, "expected failure")
		assert.Equal(1.0, testutil.ToFloat64(calls.WithLabelValues("fail", OutcomeError)))
	})

	t.Run("MethodNotFound", func(t *testing.T) {
		var (
			assert  = assert.New(t)
			require = require.New(t)
			calls   = newCallsVec()
			h       = newTestHandler(t, calls)
		)

		response, decoded := post(t, h, `{"jsonrpc":"2.0","id":3,"method":"does_not_exist"}`)
		assert.Equal(http.StatusOK, response.Code)
		require.NotNil(decoded.Error)
		assert.Equal(-32601, decoded.Error.Code)
		assert.Equal(1.0, testutil.ToFloat64(calls.WithLabelValues(UnknownMethod, OutcomeNotFound)))
	})

	t.Run("NotPost", func(t *testing.T) {
		var (
			assert   = assert.New(t)
			h        = newTestHandler(t, newCallsVec())
			request  = httptest.NewRequest("GET", "/", nil)
			response = httptest.NewRecorder()
		)

		h.ServeHTTP(response, request)
		assert.Equal(http.StatusMethodNotAllowed, response.Code)
	})
}

func TestHandlerCall(t *testing.T) {
	var (
		assert = assert.New(t)
		h      = newTestHandler(t, newCallsVec())
	)

	result, err := h.Call(context.Background(), "echo")
	assert.NoError(err)
	assert.Equal("", result)

	result, err = h.Call(context.Background(), "fail")
	assert.Nil(result)
	assert.EqualError(err, "expected failure")

	result, err = h.Call(context.Background(), "missing")
	assert.Nil(result)
	assert.ErrorIs(err, ErrNoSuchMethod)
}

func TestHandlerDuration(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		duration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "duration_seconds"},
			[]string{MethodLabel},
		)

		m = NewModule()
	)

	require.NoError(m.Register("noop", func(context.Context, *jrpc2.Request) (interface{}, error) {
		return nil, nil
	}))

	h, err := NewHandler(m, HandlerOptions{
		Logger:   zaptest.NewLogger(t),
		Duration: gokitprometheus.NewHistogram(duration),
	})

	require.NoError(err)
	defer h.Close()

	post(t, h, `{"jsonrpc":"2.0","id":1,"method":"noop"}`)
	post(t, h, `{"jsonrpc":"2.0","id":2,"method":"noop"}`)
	post(t, h, `{"jsonrpc":"2.0","id":3,"method":"missing"}`)

	// only registered methods are timed
	assert.Equal(1, testutil.CollectAndCount(duration))
	assert.Equal(
		uint64(2),
		histogramCount(t, duration.WithLabelValues("noop").(prometheus.Histogram)),
	)
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	return m.GetHistogram().GetSampleCount()
}
