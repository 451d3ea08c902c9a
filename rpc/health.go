// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"encoding/json"
	"net/http"

	"github.com/xmidt-org/corsrpc/xhttp"
	"github.com/xmidt-org/sallust/sallusthttp"
	"go.uber.org/zap"
)

// DefaultHealthPath is the path used for a HealthAPI that does not specify one
const DefaultHealthPath = "/health"

// HealthAPI exposes a registered method as a plain HTTP GET endpoint
type HealthAPI struct {
	// Path is the URL path of the endpoint.  Defaults to DefaultHealthPath.
	Path string `json:"path,omitempty"`

	// Method is the name of the method invoked, with no parameters, for each GET
	Method string `json:"method"`
}

// HealthPath returns the configured path, or the default
func (ha HealthAPI) HealthPath() string {
	if len(ha.Path) > 0 {
		return ha.Path
	}

	return DefaultHealthPath
}

// NewHealthHandler creates an http.Handler that answers with {"health": <result>}, or with
// a 500 when the method returns an error.
func NewHealthHandler(h *Handler, method string) http.Handler {
	return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
		result, err := h.Call(request.Context(), method)
		if err != nil {
			sallusthttp.Get(request).Error("health check failed", zap.String("method", method), zap.Error(err))
			xhttp.WriteErrorf(response, http.StatusInternalServerError, "%s", err)
			return
		}

		body, err := json.Marshal(map[string]interface{}{"health": result})
		if err != nil {
			xhttp.WriteErrorf(response, http.StatusInternalServerError, "unable to marshal health result: %s", err)
			return
		}

		response.Header().Set("Content-Type", "application/json")
		response.WriteHeader(http.StatusOK)
		response.Write(body)
	})
}
