package transport

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/walletgate/walletgate/pkg/api"
)

// Recovery returns middleware that catches panics in the handler chain
// and converts them to generic server error responses. The server
// continues to accept new requests after a panic is recovered.
func Recovery(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panicked",
						"panic", fmt.Sprint(rec),
						"path", r.URL.Path,
						"request_id", RequestIDFromContext(r.Context()),
					)
					api.WriteError(w, api.Internal(api.KindInternal, fmt.Sprintf("panic: %v", rec)))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
