// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package accesscontrol

import (
	"net/http"
	"strings"

	"github.com/xmidt-org/corsrpc/xhttp"
)

const (
	// OriginHeader is the request header browsers use to identify the calling origin
	OriginHeader = "Origin"

	// RequestMethodHeader marks a CORS preflight and names the method of the intended request
	RequestMethodHeader = "Access-Control-Request-Method"

	// RequestHeadersHeader lists the headers a preflight request intends to send
	RequestHeadersHeader = "Access-Control-Request-Headers"
)

// Options is the configurable form of an access control policy.  For every list, a nil or empty
// list, or a list containing Any, allows all values.  Patterns are case-insensitive, and '*' matches
// any run of characters other than '/'.  Every other character, including '?', matches only itself.
type Options struct {
	// AllowedHosts are the patterns matched against the Host header, e.g. "localhost:*"
	AllowedHosts []string `json:"allowedHosts,omitempty"`

	// AllowedOrigins are the patterns matched against the Origin header, e.g. "https://*.example.com"
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`

	// AllowedHeaders are the header names a client may request via Access-Control-Request-Headers
	AllowedHeaders []string `json:"allowedHeaders,omitempty"`
}

// AccessControl is an immutable request filter.  It implements xfilter.Interface.
// The zero value allows everything.
type AccessControl struct {
	hosts   patterns
	origins patterns
	headers patterns
}

// New compiles an AccessControl from a set of options.  An error is returned if any pattern is empty or malformed.
func New(o Options) (*AccessControl, error) {
	hosts, err := compile("host", o.AllowedHosts)
	if err != nil {
		return nil, err
	}

	origins, err := compile("origin", o.AllowedOrigins)
	if err != nil {
		return nil, err
	}

	headers, err := compile("header", o.AllowedHeaders)
	if err != nil {
		return nil, err
	}

	return &AccessControl{
		hosts:   hosts,
		origins: origins,
		headers: headers,
	}, nil
}

// AllowAll returns a policy that permits every host, origin, and header
func AllowAll() *AccessControl {
	return new(AccessControl)
}

// Options returns the configurable form of this policy.  The returned slices are copies.
func (ac *AccessControl) Options() Options {
	return Options{
		AllowedHosts:   ac.hosts.strings(),
		AllowedOrigins: ac.origins.strings(),
		AllowedHeaders: ac.headers.strings(),
	}
}

// VerifyHost checks a Host header value.  When hosts are restricted, an empty host is rejected.
func (ac *AccessControl) VerifyHost(host string) error {
	if ac.hosts.any() {
		return nil
	}

	if len(host) == 0 {
		return xhttp.Errorf(http.StatusForbidden, "Host header is required")
	}

	if !ac.hosts.matchesHost(host) {
		return xhttp.Errorf(http.StatusForbidden, "Provided Host header is not whitelisted: %s", host)
	}

	return nil
}

// VerifyOrigin checks an Origin header value.  An empty origin denotes a non-browser client and is always allowed.
func (ac *AccessControl) VerifyOrigin(origin string) error {
	if len(origin) == 0 || ac.origins.matches(origin) {
		return nil
	}

	return xhttp.Errorf(
		http.StatusForbidden,
		"Origin of the request is not whitelisted, CORS headers would not be sent and any side-effects were cancelled as well: %s",
		origin,
	)
}

// VerifyHeaders checks each header name a client intends to send
func (ac *AccessControl) VerifyHeaders(requested []string) error {
	if ac.headers.any() {
		return nil
	}

	for _, name := range requested {
		if !ac.headers.matches(name) {
			return xhttp.Errorf(http.StatusForbidden, "Requested header is not allowed: %s", name)
		}
	}

	return nil
}

// Allow applies the complete policy to a request
func (ac *AccessControl) Allow(request *http.Request) error {
	if err := ac.VerifyHost(request.Host); err != nil {
		return err
	}

	if err := ac.VerifyOrigin(request.Header.Get(OriginHeader)); err != nil {
		return err
	}

	return ac.VerifyHeaders(requestedHeaders(request.Header))
}

// IsPreflight tests if a request is a CORS preflight
func IsPreflight(request *http.Request) bool {
	return request.Method == http.MethodOptions && len(request.Header.Get(RequestMethodHeader)) > 0
}

// AllowPreflight applies the complete policy to CORS preflight requests and admits all others.
// CORS middleware answers preflights itself, so this must run ahead of it.
func (ac *AccessControl) AllowPreflight(request *http.Request) error {
	if !IsPreflight(request) {
		return nil
	}

	return ac.Allow(request)
}

// requestedHeaders splits every Access-Control-Request-Headers value into trimmed, nonempty header names
func requestedHeaders(header http.Header) []string {
	var names []string
	for _, value := range header.Values(RequestHeadersHeader) {
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); len(name) > 0 {
				names = append(names, name)
			}
		}
	}

	return names
}
