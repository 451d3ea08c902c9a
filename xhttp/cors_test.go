// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xhttp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testNewCORSDisabled(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		constructor = NewCORS(CORSOptions{Disable: true}, nil)
		response    = httptest.NewRecorder()
		request     = httptest.NewRequest("POST", "/", nil)
	)

	require.NotNil(constructor)
	request.Header.Set("Origin", "http://example.com")

	constructor(http.HandlerFunc(func(response http.ResponseWriter, _ *http.Request) {
		response.WriteHeader(299)
	})).ServeHTTP(response, request)

	assert.Equal(299, response.Code)
	assert.Empty(response.Header().Get("Access-Control-Allow-Origin"))
}

func testNewCORSActualRequest(t *testing.T) {
	for _, origin := range []string{"http://example.com", "https://some.where.else:8443", "null"} {
		t.Run(origin, func(t *testing.T) {
			var (
				assert  = assert.New(t)
				require = require.New(t)

				nextCalled  = false
				constructor = NewCORS(CORSOptions{Debug: true}, zaptest.NewLogger(t))
				response    = httptest.NewRecorder()
				request     = httptest.NewRequest("POST", "/", strings.NewReader(`{}`))
			)

			require.NotNil(constructor)
			request.Header.Set("Origin", origin)
			request.Header.Set("Content-Type", "application/json")

			constructor(http.HandlerFunc(func(response http.ResponseWriter, _ *http.Request) {
				nextCalled = true
				response.WriteHeader(http.StatusOK)
			})).ServeHTTP(response, request)

			assert.True(nextCalled)
			assert.Equal(http.StatusOK, response.Code)
			assert.Equal("*", response.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func testNewCORSPreflight(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		nextCalled  = false
		constructor = NewCORS(CORSOptions{}, zaptest.NewLogger(t))
		response    = httptest.NewRecorder()
		request     = httptest.NewRequest("OPTIONS", "/", nil)
	)

	require.NotNil(constructor)
	request.Header.Set("Origin", "http://example.com")
	request.Header.Set("Access-Control-Request-Method", "POST")
	request.Header.Set("Access-Control-Request-Headers", "content-type")

	constructor(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		nextCalled = true
	})).ServeHTTP(response, request)

	assert.False(nextCalled)
	assert.True(response.Code >= 200 && response.Code < 300)
	assert.Equal("*", response.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal("POST", response.Header().Get("Access-Control-Allow-Methods"))
}

func testNewCORSRestrictedOrigin(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		constructor = NewCORS(
			CORSOptions{AllowedOrigins: []string{"http://good.com"}},
			zaptest.NewLogger(t),
		)

		next = http.HandlerFunc(func(response http.ResponseWriter, _ *http.Request) {
			response.WriteHeader(http.StatusOK)
		})
	)

	require.NotNil(constructor)
	decorated := constructor(next)

	good := httptest.NewRequest("POST", "/", nil)
	good.Header.Set("Origin", "http://good.com")
	response := httptest.NewRecorder()
	decorated.ServeHTTP(response, good)
	assert.Equal("http://good.com", response.Header().Get("Access-Control-Allow-Origin"))

	bad := httptest.NewRequest("POST", "/", nil)
	bad.Header.Set("Origin", "http://bad.com")
	response = httptest.NewRecorder()
	decorated.ServeHTTP(response, bad)
	assert.Empty(response.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewCORS(t *testing.T) {
	t.Run("Disabled", testNewCORSDisabled)
	t.Run("ActualRequest", testNewCORSActualRequest)
	t.Run("Preflight", testNewCORSPreflight)
	t.Run("RestrictedOrigin", testNewCORSRestrictedOrigin)
}
