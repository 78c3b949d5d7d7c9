// Package auth implements walletgate's request authentication and
// authorization pipeline.
//
// Authentication resolves the caller's identity from one of two
// credential forms with fixed precedence: a detached signature
// (X-API-Signature) is always evaluated before a bearer token
// (Authorization), and once a signature header is present the token
// path is never attempted. The token path chains verification,
// a revocation check, and identity resolution, in that order.
//
// Authorization runs after authentication and binds the caller's
// wallet record to the request: a pre-populated wallet reference is
// re-validated against the identity's user, otherwise the user's
// first-created wallet is selected. Both stages communicate through
// explicit request-context values rather than mutating the request.
package auth
