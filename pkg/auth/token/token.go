// Package token verifies bearer JWTs against a locally configured
// verification key: an HMAC shared secret or a PEM-encoded RSA, ECDSA,
// or Ed25519 public key.
//
// Verification failures keep the verifier's specific reason (expired,
// malformed, wrong key) so callers can correct their input; the reasons
// are stable strings independent of the underlying library's phrasing.
package token

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/walletgate/walletgate/pkg/api"
)

// Claims is the decoded claim set of a verified token.
type Claims struct {
	// Subject is the sub claim, used for identity resolution.
	Subject string

	// Raw is the full claim set.
	Raw jwtlib.MapClaims
}

// Verifier validates bearer tokens against a single configured key.
type Verifier struct {
	key     any
	methods []string
}

// New creates a Verifier for the given key. The allowed signing methods
// are derived from the key type: HMAC for shared secrets, the matching
// asymmetric family for public keys.
func New(key any) (*Verifier, error) {
	methods, err := methodsForKey(key)
	if err != nil {
		return nil, err
	}
	return &Verifier{key: key, methods: methods}, nil
}

// Verify parses and validates tokenStr. On success it returns the
// decoded claims; on failure a typed 401 rejection carrying the
// specific reason.
func (v *Verifier) Verify(tokenStr string) (*Claims, *api.Error) {
	tok, err := jwtlib.Parse(tokenStr, func(*jwtlib.Token) (any, error) {
		return v.key, nil
	}, jwtlib.WithValidMethods(v.methods))
	if err != nil {
		return nil, api.Unauthorized(api.KindTokenInvalid, reasonFor(err)).WithCause(err)
	}

	claims, ok := tok.Claims.(jwtlib.MapClaims)
	if !ok || !tok.Valid {
		return nil, api.Unauthorized(api.KindTokenInvalid, "jwt malformed")
	}

	subject, _ := claims.GetSubject()
	return &Claims{Subject: subject, Raw: claims}, nil
}

// reasonFor maps library errors to the stable reason strings surfaced
// to callers.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, jwtlib.ErrTokenExpired):
		return "jwt expired"
	case errors.Is(err, jwtlib.ErrTokenNotValidYet):
		return "jwt not active"
	case errors.Is(err, jwtlib.ErrTokenMalformed):
		return "jwt malformed"
	case errors.Is(err, jwtlib.ErrTokenSignatureInvalid):
		return "invalid signature"
	case errors.Is(err, jwtlib.ErrTokenInvalidIssuer):
		return "jwt issuer invalid"
	case errors.Is(err, jwtlib.ErrTokenInvalidAudience):
		return "jwt audience invalid"
	default:
		return "jwt verification failed"
	}
}

// methodsForKey selects the allowed signing algorithms for a key type.
func methodsForKey(key any) ([]string, error) {
	switch key.(type) {
	case []byte:
		return []string{"HS256", "HS384", "HS512"}, nil
	case *rsa.PublicKey:
		return []string{"RS256", "RS384", "RS512"}, nil
	case *ecdsa.PublicKey:
		return []string{"ES256", "ES384", "ES512"}, nil
	case ed25519.PublicKey:
		return []string{"EdDSA"}, nil
	case nil:
		return nil, fmt.Errorf("token: verification key is required")
	default:
		return nil, fmt.Errorf("token: unsupported key type %T", key)
	}
}

// ParseVerificationKey interprets configured key material: a PEM block
// yields the contained public key, anything else is treated as an HMAC
// shared secret.
func ParseVerificationKey(material string) (any, error) {
	block, _ := pem.Decode([]byte(material))
	if block == nil {
		if material == "" {
			return nil, fmt.Errorf("token: verification key is empty")
		}
		return []byte(material), nil
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		// PKCS#1 RSA keys are still common in the wild.
		if rsaPub, rsaErr := x509.ParsePKCS1PublicKey(block.Bytes); rsaErr == nil {
			return rsaPub, nil
		}
		return nil, fmt.Errorf("token: parsing public key: %w", err)
	}

	switch k := pub.(type) {
	case *rsa.PublicKey, *ecdsa.PublicKey, ed25519.PublicKey:
		return k, nil
	default:
		return nil, fmt.Errorf("token: unsupported public key type %T", pub)
	}
}
