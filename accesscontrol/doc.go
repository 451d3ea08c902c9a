// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package accesscontrol provides an immutable request filtering policy based on the Host,
Origin, and Access-Control-Request-Headers request headers.

An AccessControl never alters responses.  In particular, it does not emit CORS headers,
which are the responsibility of a separate CORS decorator (see xhttp.NewCORS).  A request
that fails the policy is rejected with http.StatusForbidden before any side effects occur.

Patterns are case-insensitive globs in which '*' matches any run of characters:

	localhost:*              any port on localhost
	*.example.com            any subdomain of example.com, without a port
	https://*.example.com    an origin on any subdomain of example.com
*/
package accesscontrol
