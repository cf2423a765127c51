package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"

	dErrors "motoreg/pkg/domain-errors"
	"motoreg/pkg/platform/httputil"
	"motoreg/pkg/platform/middleware/metadata"
)

// Middleware limits requests per client IP. Limiter errors are logged and
// the request passes through; denial writes 429 with the standard headers.
func Middleware(limiter Limiter, logger *slog.Logger, disabled bool) func(http.Handler) http.Handler {
	if disabled && logger != nil {
		logger.Info("rate limiting disabled")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if disabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ip := metadata.GetClientIP(ctx)

			result, err := limiter.Allow(ctx, ip)
			if err != nil {
				if logger != nil {
					logger.ErrorContext(ctx, "rate limit check failed", "error", err.Error())
				}
				next.ServeHTTP(w, r)
				return
			}

			// Headers regardless of outcome.
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
				httputil.WriteError(w, dErrors.New(dErrors.CodeTooManyRequests,
					"too many submissions from this address, try again shortly"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
