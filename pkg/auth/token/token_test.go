package token

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/walletgate/walletgate/pkg/api"
)

const secret = "test-secret"

func hs256Token(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return tok
}

func newHMACVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := New([]byte(secret))
	if err != nil {
		t.Fatalf("creating verifier: %v", err)
	}
	return v
}

func TestVerify_ValidToken(t *testing.T) {
	v := newHMACVerifier(t)
	tok := hs256Token(t, jwtlib.MapClaims{
		"sub": "reg-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, verr := v.Verify(tok)
	if verr != nil {
		t.Fatalf("unexpected rejection: %v", verr)
	}
	if claims.Subject != "reg-123" {
		t.Errorf("subject = %q, want reg-123", claims.Subject)
	}
}

func TestVerify_RejectionReasons(t *testing.T) {
	v := newHMACVerifier(t)

	wrongKey, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{"sub": "x"}).
		SignedString([]byte("a-different-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	cases := []struct {
		name       string
		token      string
		wantReason string
	}{
		{
			"expired",
			hs256Token(t, jwtlib.MapClaims{"sub": "x", "exp": time.Now().Add(-time.Hour).Unix()}),
			"jwt expired",
		},
		{
			"not yet valid",
			hs256Token(t, jwtlib.MapClaims{"sub": "x", "nbf": time.Now().Add(time.Hour).Unix()}),
			"jwt not active",
		},
		{"malformed", "not-a-token", "jwt malformed"},
		{"empty", "", "jwt malformed"},
		{"wrong key", wrongKey, "invalid signature"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, verr := v.Verify(tc.token)
			if verr == nil {
				t.Fatal("expected rejection")
			}
			if verr.Kind != api.KindTokenInvalid {
				t.Errorf("kind = %q, want %q", verr.Kind, api.KindTokenInvalid)
			}
			if verr.Status != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", verr.Status)
			}
			if verr.Message != tc.wantReason {
				t.Errorf("reason = %q, want %q", verr.Message, tc.wantReason)
			}
		})
	}
}

func TestVerify_AlgorithmConfusionRejected(t *testing.T) {
	// A token signed with "none" must never pass an HMAC verifier.
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, jwtlib.MapClaims{"sub": "x"}).
		SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	v := newHMACVerifier(t)
	if _, verr := v.Verify(tok); verr == nil {
		t.Fatal("expected rejection for alg=none")
	}
}

func TestVerify_EdDSAToken(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}

	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodEdDSA, jwtlib.MapClaims{
		"sub": "reg-ed",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(priv)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	v, err := New(pub)
	if err != nil {
		t.Fatalf("creating verifier: %v", err)
	}

	claims, verr := v.Verify(tok)
	if verr != nil {
		t.Fatalf("unexpected rejection: %v", verr)
	}
	if claims.Subject != "reg-ed" {
		t.Errorf("subject = %q", claims.Subject)
	}
}

func TestNew_RejectsMissingOrUnsupportedKey(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("expected error for nil key")
	}
	if _, err := New(42); err == nil {
		t.Error("expected error for unsupported key type")
	}
}

func TestParseVerificationKey_SharedSecret(t *testing.T) {
	key, err := ParseVerificationKey("plain-secret")
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	if _, ok := key.([]byte); !ok {
		t.Errorf("key type = %T, want []byte", key)
	}
}

func TestParseVerificationKey_Empty(t *testing.T) {
	if _, err := ParseVerificationKey(""); err == nil {
		t.Error("expected error for empty key material")
	}
}

func TestParseVerificationKey_PKIXKeys(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating RSA key: %v", err)
	}
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating ECDSA key: %v", err)
	}
	edPub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generating Ed25519 key: %v", err)
	}

	cases := []struct {
		name string
		pub  any
	}{
		{"rsa", &rsaKey.PublicKey},
		{"ecdsa", &ecKey.PublicKey},
		{"ed25519", edPub},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			der, err := x509.MarshalPKIXPublicKey(tc.pub)
			if err != nil {
				t.Fatalf("marshaling key: %v", err)
			}
			material := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

			key, err := ParseVerificationKey(material)
			if err != nil {
				t.Fatalf("parsing: %v", err)
			}
			if _, err := New(key); err != nil {
				t.Errorf("parsed key unusable: %v", err)
			}
		})
	}
}

func TestParseVerificationKey_PKCS1RSA(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating RSA key: %v", err)
	}
	der := x509.MarshalPKCS1PublicKey(&rsaKey.PublicKey)
	material := string(pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: der}))

	key, err := ParseVerificationKey(material)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	if _, ok := key.(*rsa.PublicKey); !ok {
		t.Errorf("key type = %T, want *rsa.PublicKey", key)
	}
}
