// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xhttp

import "net/http"

// NilConstructor is an Alice-style decorator that returns its next handler unmodified.  Configuration
// code uses it in place of a nil constructor when a layer, such as CORS, has been disabled.
func NilConstructor(next http.Handler) http.Handler {
	return next
}
