package auth

import (
	"net/http"
	"strings"
)

// Header names and the bearer scheme prefix. The prefix match is exact:
// scheme casing or spacing variations are not stripped and will fail
// verification downstream.
const (
	SignatureHeader     = "X-API-Signature"
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

// CredentialKind tags the credential form found on a request.
type CredentialKind int

const (
	// CredentialNone means no credential header was present.
	CredentialNone CredentialKind = iota

	// CredentialSignature means a detached-signature header was present,
	// possibly with an empty value. Presence alone selects this branch.
	CredentialSignature

	// CredentialBearer means an authorization header was present.
	CredentialBearer
)

// Credential is the tagged union produced by ExtractCredential.
type Credential struct {
	Kind CredentialKind

	// Signature is the detached signature value (CredentialSignature).
	Signature string

	// Raw is the full authorization header value, scheme included
	// (CredentialBearer). Revocation lookups use this form.
	Raw string

	// Token is the scheme-stripped bearer token (CredentialBearer).
	Token string
}

// ExtractCredential reads the credential off a request. Precedence is a
// property of the header's presence, not its content: a signature header
// with an empty value still selects the signature branch, and the token
// path is never considered once the signature header exists.
func ExtractCredential(r *http.Request) Credential {
	if values := r.Header.Values(SignatureHeader); len(values) > 0 {
		return Credential{Kind: CredentialSignature, Signature: values[0]}
	}

	if values := r.Header.Values(AuthorizationHeader); len(values) > 0 {
		raw := values[0]
		return Credential{
			Kind:  CredentialBearer,
			Raw:   raw,
			Token: strings.TrimPrefix(raw, BearerPrefix),
		}
	}

	return Credential{Kind: CredentialNone}
}

// hasBearerHeader reports whether the request carries an authorization
// header at all. Authorization re-checks this independently of the
// authentication stage so it stays composable on its own.
func hasBearerHeader(r *http.Request) bool {
	return len(r.Header.Values(AuthorizationHeader)) > 0
}
