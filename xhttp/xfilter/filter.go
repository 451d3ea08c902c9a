// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xfilter

import "net/http"

// Interface decides whether a request may reach the RPC handler.  A non-nil error rejects
// the request, and should implement go-kit's StatusCoder so the client sees a meaningful status.
// *accesscontrol.AccessControl is the main implementation.
type Interface interface {
	Allow(*http.Request) error
}

// Func adapts a plain function to Interface
type Func func(*http.Request) error

// Allow invokes f
func (f Func) Allow(request *http.Request) error {
	return f(request)
}

// Allow returns a filter that admits every request
func Allow() Interface {
	return Func(func(*http.Request) error { return nil })
}

// Reject returns a filter that fails every request with err.  A nil err yields Allow().
func Reject(err error) Interface {
	if err == nil {
		return Allow()
	}

	return Func(func(*http.Request) error { return err })
}
