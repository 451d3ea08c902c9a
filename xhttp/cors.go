// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xhttp

import (
	"net/http"

	"github.com/justinas/alice"
	"github.com/rs/cors"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

var (
	// DefaultCORSAllowedOrigins permits requests from any origin
	DefaultCORSAllowedOrigins = []string{"*"}

	// DefaultCORSAllowedMethods permits only POST, which is all a JSON-RPC client needs
	DefaultCORSAllowedMethods = []string{http.MethodPost}

	// DefaultCORSAllowedHeaders permits the Content-Type request header
	DefaultCORSAllowedHeaders = []string{"Content-Type"}
)

// CORSOptions describes the Cross-Origin Resource Sharing policy applied to responses.  Unlike
// an access control filter, this policy only affects response headers.
type CORSOptions struct {
	// Disable turns off CORS handling altogether.  No CORS headers are written.
	Disable bool `json:"disable,omitempty"`

	// AllowedOrigins is the set of origins a cross-domain request may be executed from.  The
	// special value "*" allows all origins.  If unset, DefaultCORSAllowedOrigins is used.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`

	// AllowedMethods is the set of HTTP methods permitted for cross-domain requests.  If unset,
	// DefaultCORSAllowedMethods is used.
	AllowedMethods []string `json:"allowedMethods,omitempty"`

	// AllowedHeaders is the set of non-simple headers a client may send.  If unset,
	// DefaultCORSAllowedHeaders is used.
	AllowedHeaders []string `json:"allowedHeaders,omitempty"`

	// ExposedHeaders is the set of response headers that browsers may expose to scripts.
	ExposedHeaders []string `json:"exposedHeaders,omitempty"`

	// AllowCredentials indicates whether cookies and other credentials may accompany requests.
	AllowCredentials bool `json:"allowCredentials,omitempty"`

	// MaxAge is the number of seconds a preflight result may be cached.  Zero means the header is not sent.
	MaxAge int `json:"maxAge,omitempty"`

	// Debug routes the CORS middleware's decision log to the supplied zap logger.
	Debug bool `json:"debug,omitempty"`
}

func (o CORSOptions) allowedOrigins() []string {
	if len(o.AllowedOrigins) > 0 {
		return o.AllowedOrigins
	}

	return DefaultCORSAllowedOrigins
}

func (o CORSOptions) allowedMethods() []string {
	if len(o.AllowedMethods) > 0 {
		return o.AllowedMethods
	}

	return DefaultCORSAllowedMethods
}

func (o CORSOptions) allowedHeaders() []string {
	if len(o.AllowedHeaders) > 0 {
		return o.AllowedHeaders
	}

	return DefaultCORSAllowedHeaders
}

// NewCORS returns an Alice-style constructor that decorates handlers with CORS support.  Preflight
// requests are answered directly by the decorator and never reach the next handler.  If the options
// disable CORS, NilConstructor is returned.
func NewCORS(o CORSOptions, logger *zap.Logger) alice.Constructor {
	if o.Disable {
		return NilConstructor
	}

	if logger == nil {
		logger = sallust.Default()
	}

	co := cors.Options{
		AllowedOrigins:   o.allowedOrigins(),
		AllowedMethods:   o.allowedMethods(),
		AllowedHeaders:   o.allowedHeaders(),
		ExposedHeaders:   o.ExposedHeaders,
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	}

	if o.Debug {
		co.Logger = zap.NewStdLog(logger.Named("cors"))
	}

	return cors.New(co).Handler
}
