// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xfilter

import (
	"net/http"
	"strconv"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	gokithttp "github.com/go-kit/kit/transport/http"
	"github.com/justinas/alice"
	"github.com/xmidt-org/sallust/sallusthttp"
	"go.uber.org/zap"
)

// CodeLabel is the label on the rejection counter that holds the response status code
const CodeLabel = "code"

// Option configures a filtering constructor
type Option func(*constructor)

// WithFilters appends filters, in order.  Nil filters are skipped.
func WithFilters(f ...Interface) Option {
	return func(c *constructor) {
		for _, filter := range f {
			if filter != nil {
				c.filters = append(c.filters, filter)
			}
		}
	}
}

// WithErrorEncoder sets how a filter's error becomes a response.  A nil encoder restores
// go-kit's DefaultErrorEncoder, which honors StatusCoder, Headerer, and json.Marshaler.
func WithErrorEncoder(ee gokithttp.ErrorEncoder) Option {
	return func(c *constructor) {
		if ee == nil {
			ee = gokithttp.DefaultErrorEncoder
		}

		c.errorEncoder = ee
	}
}

// WithRejected sets a counter incremented once per rejected request, labeled with CodeLabel.
func WithRejected(rejected metrics.Counter) Option {
	return func(c *constructor) {
		if rejected == nil {
			rejected = discard.NewCounter()
		}

		c.rejected = rejected
	}
}

// NewConstructor returns an Alice-style constructor that runs each request through the filters
// before the decorated handler.  The first filter to return an error ends the request.  With no
// filters, handlers are returned undecorated.
func NewConstructor(o ...Option) alice.Constructor {
	c := &constructor{
		errorEncoder: gokithttp.DefaultErrorEncoder,
		rejected:     discard.NewCounter(),
	}

	for _, f := range o {
		f(c)
	}

	return c.decorate
}

type constructor struct {
	errorEncoder gokithttp.ErrorEncoder
	rejected     metrics.Counter
	filters      []Interface
}

func (c *constructor) decorate(next http.Handler) http.Handler {
	if len(c.filters) == 0 {
		return next
	}

	filters := append([]Interface(nil), c.filters...)
	return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
		for _, f := range filters {
			err := f.Allow(request)
			if err == nil {
				continue
			}

			code := statusCode(err)
			c.rejected.With(CodeLabel, strconv.Itoa(code)).Add(1.0)
			sallusthttp.Get(request).Info(
				"request rejected",
				zap.String("host", request.Host),
				zap.String("origin", request.Header.Get("Origin")),
				zap.Int("code", code),
				zap.Error(err),
			)

			c.errorEncoder(request.Context(), err, response)
			return
		}

		next.ServeHTTP(response, request)
	})
}

// statusCode mirrors the status go-kit's DefaultErrorEncoder would choose for err
func statusCode(err error) int {
	if sc, ok := err.(gokithttp.StatusCoder); ok {
		return sc.StatusCode()
	}

	return http.StatusInternalServerError
}
