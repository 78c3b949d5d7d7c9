// Package transport provides the HTTP-level glue middleware surrounding
// the authentication pipeline: access-control header injection, network
// header validation, request IDs, panic recovery, and request logging.
//
// Each middleware is a func(http.Handler) http.Handler; Chain composes
// them outermost-first.
package transport
