// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xhttp

import (
	"net/http"

	"github.com/justinas/alice"
	"github.com/segmentio/ksuid"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// RequestIDHeader is the header that carries a request's correlation identifier
const RequestIDHeader = "X-Request-Id"

// RequestID returns an Alice-style constructor that assigns each request an identifier.  An identifier
// supplied by the client in RequestIDHeader is reused, otherwise a new KSUID is generated.  The identifier
// is echoed in the response and a request-scoped logger carrying it is placed into the request context,
// where sallust.Get or sallusthttp.Get can retrieve it.
func RequestID(logger *zap.Logger) alice.Constructor {
	if logger == nil {
		logger = sallust.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			id := request.Header.Get(RequestIDHeader)
			if len(id) == 0 {
				id = ksuid.New().String()
			}

			response.Header().Set(RequestIDHeader, id)
			requestLogger := logger.With(
				zap.String("requestID", id),
				zap.String("method", request.Method),
				zap.String("remoteAddress", request.RemoteAddr),
			)

			next.ServeHTTP(
				response,
				request.WithContext(sallust.With(request.Context(), requestLogger)),
			)
		})
	}
}
