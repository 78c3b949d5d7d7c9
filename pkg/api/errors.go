package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorKind identifies a rejection cause independently of its message,
// so callers and tests can distinguish outcomes without parsing text.
type ErrorKind string

const (
	// KindMissingContext: a signature was presented but no signing
	// context (wallet public key) was pre-populated on the request.
	KindMissingContext ErrorKind = "missing_context"

	// KindUnauthenticated: no credential of any form was present.
	KindUnauthenticated ErrorKind = "unauthenticated"

	// KindSignatureInvalid: the cryptographic signature check failed.
	KindSignatureInvalid ErrorKind = "signature_invalid"

	// KindMissingVerificationKey: no token verification key is
	// configured. This is a server misconfiguration, not a client error.
	KindMissingVerificationKey ErrorKind = "missing_verification_key"

	// KindTokenInvalid: the bearer token is expired, malformed, or
	// signed with the wrong key.
	KindTokenInvalid ErrorKind = "token_invalid"

	// KindRevoked: the token appears in the revocation set.
	KindRevoked ErrorKind = "token_revoked"

	// KindIdentityNotFound: the token verified but its subject matches
	// no account record.
	KindIdentityNotFound ErrorKind = "identity_not_found"

	// KindUnauthorized: the caller lacks a resolvable wallet binding,
	// or authorization ran without a preceding authentication.
	KindUnauthorized ErrorKind = "unauthorized"

	// KindLookupFailed: a store call failed. The underlying detail is
	// logged, never surfaced.
	KindLookupFailed ErrorKind = "lookup_failed"

	// KindRateLimited: the caller exceeded its request budget.
	KindRateLimited ErrorKind = "rate_limited"

	// KindInvalidRequest: a malformed request rejected by transport-level
	// validation (e.g. an unknown network header).
	KindInvalidRequest ErrorKind = "invalid_request"

	// KindInternal: an unexpected server fault outside the store
	// boundary, such as a recovered panic.
	KindInternal ErrorKind = "internal_error"
)

// genericInternalMessage replaces the message of every 5xx error before
// it reaches the caller.
const genericInternalMessage = "Internal Server Error"

// genericUnauthorizedMessage is the default message for 401 rejections
// that deliberately carry no mechanism detail.
const genericUnauthorizedMessage = "Unauthorized"

// Error is a typed pipeline rejection carrying an HTTP status class.
// It implements the error interface and unwraps to its cause.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying error for logging. The cause is
// never rendered into the envelope.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

// BadRequest creates a 400 client error.
func BadRequest(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Status: http.StatusBadRequest, Message: message}
}

// Unauthorized creates a 401 error. An empty message yields the generic
// "Unauthorized" string so rejection paths don't leak which mechanisms
// are configured.
func Unauthorized(kind ErrorKind, message string) *Error {
	if message == "" {
		message = genericUnauthorizedMessage
	}
	return &Error{Kind: kind, Status: http.StatusUnauthorized, Message: message}
}

// Internal creates a 500 error. The message is kept for logs; the
// envelope always shows the generic internal-error string.
func Internal(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Status: http.StatusInternalServerError, Message: message}
}

// TooManyRequests creates a 429 error.
func TooManyRequests(message string) *Error {
	return &Error{Kind: KindRateLimited, Status: http.StatusTooManyRequests, Message: message}
}

// Envelope is the JSON error body rendered to callers:
//
//	{"status": "fail", "data": {"message": "..."}}
type Envelope struct {
	Status string       `json:"status"`
	Data   EnvelopeData `json:"data"`
}

// EnvelopeData holds the envelope message.
type EnvelopeData struct {
	Message string `json:"message"`
}

// PublicMessage returns the message shown to the caller: the specific
// reason for 4xx errors, the fixed generic string for everything 5xx.
func (e *Error) PublicMessage() string {
	if e.Status >= http.StatusInternalServerError {
		return genericInternalMessage
	}
	return e.Message
}

// WriteError renders err as the JSON fail envelope with the error's
// status code. Non-pipeline errors are treated as internal.
func WriteError(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*Error)
	if !ok {
		apiErr = Internal(KindLookupFailed, err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(Envelope{
		Status: "fail",
		Data:   EnvelopeData{Message: apiErr.PublicMessage()},
	})
}
