// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package accesscontrol

import (
	"fmt"
	"path"
	"strings"
)

// Any is the wildcard entry that allows every value in a list
const Any = "*"

// escaper leaves '*' as the only glob metacharacter, so brackets in IPv6 literals match literally
var escaper = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`, "?", `\?`)

type pattern struct {
	raw  string
	glob string
}

func (p pattern) match(value string) bool {
	// globs were validated when compiled, so errors cannot occur here
	ok, _ := path.Match(p.glob, value)
	return ok
}

// patterns is a compiled list of case-insensitive globs.  A nil patterns allows everything.
type patterns []pattern

func compile(kind string, values []string) (patterns, error) {
	if len(values) == 0 {
		return nil, nil
	}

	p := make(patterns, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if len(v) == 0 {
			return nil, fmt.Errorf("empty %s pattern", kind)
		}

		if v == Any {
			return nil, nil
		}

		glob := escaper.Replace(v)
		if _, err := path.Match(glob, ""); err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", kind, v, err)
		}

		p = append(p, pattern{raw: v, glob: glob})
	}

	return p, nil
}

func (p patterns) any() bool {
	return p == nil
}

func (p patterns) matches(value string) bool {
	if p.any() {
		return true
	}

	value = strings.ToLower(value)
	for _, candidate := range p {
		if candidate.match(value) {
			return true
		}
	}

	return false
}

// matchesHost is like matches, but a pattern without a port only matches hosts without a port
func (p patterns) matchesHost(host string) bool {
	if p.any() {
		return true
	}

	host = strings.ToLower(host)
	for _, candidate := range p {
		if hasPort(candidate.raw) == hasPort(host) && candidate.match(host) {
			return true
		}
	}

	return false
}

// strings returns the original patterns, or nil for the wildcard
func (p patterns) strings() []string {
	if p.any() {
		return nil
	}

	s := make([]string, len(p))
	for i, candidate := range p {
		s[i] = candidate.raw
	}

	return s
}

// hasPort tests if a host[:port] value carries a port, taking IPv6 literals into account
func hasPort(host string) bool {
	colon := strings.LastIndexByte(host, ':')
	if colon < 0 {
		return false
	}

	if strings.HasPrefix(host, "[") {
		return strings.LastIndexByte(host, ']') < colon
	}

	// a bare IPv6 literal has more than one colon and no port
	return strings.IndexByte(host, ':') == colon
}
