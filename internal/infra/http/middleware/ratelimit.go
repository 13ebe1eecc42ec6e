package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/xavierca1/buyerleads/internal/infra/ratelimit"
	"go.uber.org/zap"
)

// AdmitByOrigin rejects callers over their quota with 429. A limiter error
// lets the request through. Forwarding headers are only honoured when
// trustProxy is set.
func AdmitByOrigin(limiter ratelimit.Limiter, trustProxy bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := ClientIP(r, trustProxy)
			ok, err := limiter.Allow(r.Context(), origin)
			if err != nil {
				logger.Warn("rate limiter unavailable, admitting request", zap.String("origin", origin), zap.Error(err))
				ok = true
			}
			if !ok {
				rateLimited.Inc()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": "Rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP is the connection's remote host. Behind a trusted proxy the first
// X-Forwarded-For hop wins, then X-Real-IP.
func ClientIP(r *http.Request, trustProxy bool) string {
	if !trustProxy {
		return remoteHost(r)
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
