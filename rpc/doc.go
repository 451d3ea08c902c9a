// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package rpc holds the JSON-RPC 2.0 method table and the HTTP handler that dispatches to it.

A Module is populated before a server starts and frozen once it does.  The Handler bridges
HTTP POST requests onto a jrpc2 server, so batches, notifications, and protocol errors such as
"method not found" are produced by jrpc2 rather than by this package.
*/
package rpc
