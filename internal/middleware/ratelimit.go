package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vitapredict/obesity-backend/internal/utils"
	"github.com/vitapredict/obesity-backend/internal/utils/ratelimit"
)

// Rate limit categories used by the router. Each category carries its own
// token bucket per client IP.
const (
	RateLimitLogin      = "login"
	RateLimitPrediction = "prediction"
)

// RetryAfterSeconds is the hint returned to throttled clients.
const RetryAfterSeconds = 1

// RateLimit is middleware that limits the rate of requests per client IP for
// one endpoint category. Throttled requests get a 429 with a Retry-After hint.
func RateLimit(store *ratelimit.Store, category string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)

			if !store.GetLimiter(clientIP, category).Allow() {
				log.Warn().
					Str("client_ip", clientIP).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Str("category", category).
					Msg("Rate limit exceeded")

				utils.TooManyRequests(w, RetryAfterSeconds)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP address from the request,
// taking into account common proxy headers.
func getClientIP(r *http.Request) string {
	// Check for X-Forwarded-For header
	xForwardedFor := r.Header.Get("X-Forwarded-For")
	if xForwardedFor != "" {
		// Use the leftmost IP in the list (client IP)
		ips := strings.Split(xForwardedFor, ",")
		return strings.TrimSpace(ips[0])
	}

	// Check for X-Real-IP header
	xRealIP := r.Header.Get("X-Real-IP")
	if xRealIP != "" {
		return xRealIP
	}

	// Fall back to RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If there's no port in the address, use it as is
		return r.RemoteAddr
	}
	return ip
}
