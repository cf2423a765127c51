// Package requesttime provides middleware for request-scoped time. All
// operations within a single submission attempt use the same "now": the age
// check, the duplicate-guard deadline, and the success auto-clear window are
// all anchored to the instant the submit arrived.
package requesttime

import (
	"net/http"
	"time"

	"motoreg/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request and stores
// it in the context for consistent time references throughout the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		ctx := requestcontext.WithTime(r.Context(), now)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
