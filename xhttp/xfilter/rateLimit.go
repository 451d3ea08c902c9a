// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xfilter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/xmidt-org/corsrpc/xhttp"
	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimitIdleTTL is how long a remote address may go unseen before its bucket is discarded
	DefaultRateLimitIdleTTL = 10 * time.Minute

	// sweepInterval is the number of Allow calls between idle bucket sweeps
	sweepInterval = 512
)

// RateLimitOptions configures a per-remote-address token bucket filter
type RateLimitOptions struct {
	// RPS is the sustained number of requests per second allowed for each remote address.
	// A nonpositive value disables rate limiting.
	RPS float64 `json:"rps,omitempty"`

	// Burst is the maximum burst size.  If nonpositive, the ceiling of RPS is used, with a minimum of 1.
	Burst int `json:"burst,omitempty"`

	// IdleTTL is how long an unused bucket is retained.  If nonpositive, DefaultRateLimitIdleTTL is used.
	IdleTTL time.Duration `json:"idleTTL,omitempty"`

	// Rejection is the error returned for a limited request.  It should implement go-kit's StatusCoder.
	// If unset, an *xhttp.Error with http.StatusTooManyRequests is used.
	Rejection error `json:"-"`
}

// NewRateLimit produces a filter that limits requests from each remote IP address.  If the options
// disable rate limiting, Allow() is returned.
func NewRateLimit(o RateLimitOptions) Interface {
	if o.RPS <= 0 {
		return Allow()
	}

	burst := o.Burst
	if burst <= 0 {
		burst = int(o.RPS)
		if float64(burst) < o.RPS {
			burst++
		}
	}

	idleTTL := o.IdleTTL
	if idleTTL <= 0 {
		idleTTL = DefaultRateLimitIdleTTL
	}

	rejection := o.Rejection
	if rejection == nil {
		rejection = &xhttp.Error{Code: http.StatusTooManyRequests, Text: "rate limit exceeded"}
	}

	return &rateLimiter{
		limit:     rate.Limit(o.RPS),
		burst:     burst,
		idleTTL:   idleTTL,
		rejection: rejection,
		now:       time.Now,
		buckets:   make(map[string]*bucket),
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	rejection error
	now       func() time.Time

	lock    sync.Mutex
	calls   uint64
	buckets map[string]*bucket
}

func (rl *rateLimiter) Allow(request *http.Request) error {
	var (
		key = remoteKey(request)
		now = rl.now()
	)

	rl.lock.Lock()
	defer rl.lock.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}

	b.lastSeen = now
	allowed := b.limiter.AllowN(now, 1)

	rl.calls++
	if rl.calls%sweepInterval == 0 {
		cutoff := now.Add(-rl.idleTTL)
		for k, v := range rl.buckets {
			if v.lastSeen.Before(cutoff) {
				delete(rl.buckets, k)
			}
		}
	}

	if !allowed {
		return rl.rejection
	}

	return nil
}

// remoteKey reduces a request's remote address to its host portion
func remoteKey(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil || len(host) == 0 {
		return request.RemoteAddr
	}

	return host
}
