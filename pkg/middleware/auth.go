package middleware

import (
	"crypto/subtle"
	"net/http"

	"otp-service/pkg/utils"

	"go.uber.org/zap"
)

const APIKeyHeader = "X-API-Key"

// APIKey guards admin routes with a shared key. An empty key rejects every
// request so admin routes stay closed unless configured.
func APIKey(key string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				logger.Warn("Admin route called without configured API key", zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access disabled")
				return
			}

			provided := r.Header.Get(APIKeyHeader)
			if provided == "" {
				utils.ResponseUnauthorized(w, "Missing API key")
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				logger.Warn("Invalid API key",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr),
				)
				utils.ResponseUnauthorized(w, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
