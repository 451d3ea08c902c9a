// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xhttp

import (
	"bytes"
	"io"
	"net/http"

	"github.com/justinas/alice"
)

// DefaultMaxRequestBodySize is the request body limit used when none is configured, 10 MiB
const DefaultMaxRequestBodySize int64 = 10 * 1024 * 1024

// MaxBytes returns an Alice-style constructor that limits the size of request bodies.  Bodies over the
// limit are rejected with http.StatusRequestEntityTooLarge before reaching the decorated handler, whether
// the size is declared via Content-Length or only discovered while reading, as with chunked requests.
// A nonpositive limit means DefaultMaxRequestBodySize.
func MaxBytes(limit int64) alice.Constructor {
	if limit <= 0 {
		limit = DefaultMaxRequestBodySize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			if request.ContentLength > limit {
				WriteErrorf(response, http.StatusRequestEntityTooLarge, "request body exceeds %d bytes", limit)
				return
			}

			if request.ContentLength < 0 && request.Body != nil && request.Body != http.NoBody {
				// undeclared length: buffer at most one byte past the limit
				body, err := io.ReadAll(io.LimitReader(request.Body, limit+1))
				request.Body.Close()
				if err != nil {
					WriteErrorf(response, http.StatusBadRequest, "unable to read request body: %s", err)
					return
				}

				if int64(len(body)) > limit {
					WriteErrorf(response, http.StatusRequestEntityTooLarge, "request body exceeds %d bytes", limit)
					return
				}

				request.Body = io.NopCloser(bytes.NewReader(body))
				request.ContentLength = int64(len(body))
			}

			if request.Body != nil {
				request.Body = http.MaxBytesReader(response, request.Body, limit)
			}

			next.ServeHTTP(response, request)
		})
	}
}
