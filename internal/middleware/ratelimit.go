package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds configuration for the rate limiter middleware.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit (tokens added per second).
	RequestsPerSecond float64
	// Burst is the maximum number of requests allowed in a burst.
	Burst int
}

// callerLimiter tracks one caller's token bucket and when it was last seen.
type callerLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter returns an HTTP middleware that enforces a per-caller
// token-bucket rate limit. Callers are keyed by the X-Principal header when
// present, so a shared NAT does not starve unrelated principals; anonymous
// requests fall back to the client IP. Exceeding the limit yields
// 429 Too Many Requests.
func RateLimiter(cfg RateLimitConfig) func(http.Handler) http.Handler {
	var (
		mu      sync.Mutex
		callers = make(map[string]*callerLimiter)
	)

	getLimiter := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		cl, ok := callers[key]
		if !ok {
			cl = &callerLimiter{limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)}
			callers[key] = cl
		}
		cl.lastSeen = time.Now()
		// Evict buckets idle for 10 minutes so the map does not grow with
		// every IP that ever hit the server.
		if len(callers) > 1024 {
			for k, v := range callers {
				if time.Since(v.lastSeen) > 10*time.Minute {
					delete(callers, k)
				}
			}
		}
		return cl.limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := getLimiter(callerKey(r))
			if !limiter.Allow() {
				writeTooManyRequests(w)
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
			next.ServeHTTP(w, r)
		})
	}
}

// callerKey identifies the caller for rate-limiting purposes: principal name
// when the fronting proxy set one, client IP otherwise. X-Forwarded-For is
// untrusted and ignored to prevent bypass via header spoofing.
func callerKey(r *http.Request) string {
	if name := r.Header.Get("X-Principal"); name != "" {
		return "principal:" + name
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}

func writeTooManyRequests(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "1")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    http.StatusTooManyRequests,
		"message": "rate limit exceeded",
	})
}
