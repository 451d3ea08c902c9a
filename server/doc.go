// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package server bootstraps the JSON-RPC HTTP server.

A Builder binds the listening socket first, so that the concrete address is known (and bind failures
surface) before any method is served.  Start then freezes an rpc.Module and serves it behind the
request id, middleware, access control, and body limit layers.
*/
package server
