// Package signature verifies detached request signatures against a
// caller-bound public key.
//
// The signature covers the canonical JSON encoding of the request
// payload fused with the signature itself removed, i.e. the bytes the
// client signed before attaching the signature header. The actual
// cryptographic check is an injectable oracle so deployments can swap
// schemes without touching the pipeline; the default oracle is Ed25519.
package signature

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/walletgate/walletgate/pkg/api"
)

// SignatureField is the payload key the signature is fused under before
// verification. It is excluded from the signed bytes.
const SignatureField = "signature"

// VerifyFunc is the verification oracle. The payload already contains
// the signature under SignatureField. It returns whether the signature
// is valid; an error means the input was malformed, not that the
// signature was wrong.
type VerifyFunc func(payload map[string]any, publicKey string) (bool, error)

// Verifier validates detached signatures via the configured oracle.
type Verifier struct {
	verify VerifyFunc
}

// New creates a Verifier. A nil oracle selects Ed25519Verify.
func New(fn VerifyFunc) *Verifier {
	if fn == nil {
		fn = Ed25519Verify
	}
	return &Verifier{verify: fn}
}

// Verify checks sig over payload against publicKey.
//
// A nil return means the signature is valid. Every other outcome is a
// typed rejection: missing inputs are client errors, a failed or
// erroring check is a 401. The oracle's internal error is never shown
// to the caller.
func (v *Verifier) Verify(sig, publicKey string, payload map[string]any) *api.Error {
	if sig == "" && publicKey == "" {
		return api.BadRequest(api.KindMissingContext,
			"No public key or signature found. Both of these are required to verify a payload against a signature.")
	}
	if publicKey == "" {
		return api.BadRequest(api.KindMissingContext, "No public key found.")
	}
	if sig == "" {
		return api.Unauthorized(api.KindSignatureInvalid, "No signature found.")
	}

	fused := make(map[string]any, len(payload)+1)
	for k, val := range payload {
		fused[k] = val
	}
	fused[SignatureField] = sig

	ok, err := v.verify(fused, publicKey)
	if err != nil {
		return api.Unauthorized(api.KindSignatureInvalid, "Signature verification failed.").WithCause(err)
	}
	if !ok {
		return api.Unauthorized(api.KindSignatureInvalid, "")
	}
	return nil
}

// Ed25519Verify is the default oracle: the signature is base64, the
// public key hex or base64, and the signed bytes are the canonical JSON
// of the payload without the signature field.
func Ed25519Verify(payload map[string]any, publicKey string) (bool, error) {
	sig, _ := payload[SignatureField].(string)

	sigBytes, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return false, fmt.Errorf("decoding signature: %w", err)
	}

	key, err := decodePublicKey(publicKey)
	if err != nil {
		return false, err
	}

	message, err := CanonicalPayload(payload)
	if err != nil {
		return false, err
	}

	return ed25519.Verify(key, message, sigBytes), nil
}

// Sign produces a base64 Ed25519 signature over the canonical encoding
// of payload. Clients and tests use it to build signed requests.
func Sign(payload map[string]any, priv ed25519.PrivateKey) (string, error) {
	message, err := CanonicalPayload(payload)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ed25519.Sign(priv, message)), nil
}

// CanonicalPayload returns the bytes a signature covers: the JSON
// encoding of payload with the signature field removed. encoding/json
// sorts map keys, which gives a stable byte sequence for identical
// payloads.
func CanonicalPayload(payload map[string]any) ([]byte, error) {
	stripped := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == SignatureField {
			continue
		}
		stripped[k] = v
	}

	message, err := json.Marshal(stripped)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	return message, nil
}

// decodePublicKey accepts a hex- or base64-encoded Ed25519 public key.
func decodePublicKey(s string) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		raw, err = base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("decoding public key: %w", err)
		}
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}
