package transport

import (
	"net/http"
	"strings"
)

// Default access-control header values.
const (
	DefaultAllowOrigin = "*"
)

// DefaultAllowHeaders lists the request headers allowed by default.
var DefaultAllowHeaders = []string{"Origin", "X-Requested-With", "Content-Type", "Accept"}

// AccessControlHeaders returns middleware that sets CORS response
// headers on every request. Empty arguments select the defaults.
func AccessControlHeaders(allowOrigin string, allowHeaders []string) Middleware {
	if allowOrigin == "" {
		allowOrigin = DefaultAllowOrigin
	}
	if len(allowHeaders) == 0 {
		allowHeaders = DefaultAllowHeaders
	}
	headerValue := strings.Join(allowHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Headers", headerValue)
			next.ServeHTTP(w, r)
		})
	}
}
