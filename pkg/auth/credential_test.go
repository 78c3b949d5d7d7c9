package auth

import (
	"net/http/httptest"
	"testing"
)

func TestExtractCredential_SignatureHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/me", nil)
	r.Header.Set(SignatureHeader, "c2lnbmF0dXJl")

	cred := ExtractCredential(r)
	if cred.Kind != CredentialSignature {
		t.Fatalf("kind = %v, want CredentialSignature", cred.Kind)
	}
	if cred.Signature != "c2lnbmF0dXJl" {
		t.Errorf("signature = %q", cred.Signature)
	}
}

func TestExtractCredential_BearerHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/me", nil)
	r.Header.Set(AuthorizationHeader, "Bearer abc.def.ghi")

	cred := ExtractCredential(r)
	if cred.Kind != CredentialBearer {
		t.Fatalf("kind = %v, want CredentialBearer", cred.Kind)
	}
	if cred.Token != "abc.def.ghi" {
		t.Errorf("token = %q, want scheme stripped", cred.Token)
	}
	if cred.Raw != "Bearer abc.def.ghi" {
		t.Errorf("raw = %q, want full header value", cred.Raw)
	}
}

func TestExtractCredential_SignatureWinsOverBearer(t *testing.T) {
	r := httptest.NewRequest("POST", "/v1/tx", nil)
	r.Header.Set(SignatureHeader, "sig")
	r.Header.Set(AuthorizationHeader, "Bearer abc.def.ghi")

	cred := ExtractCredential(r)
	if cred.Kind != CredentialSignature {
		t.Fatalf("kind = %v, want signature to take precedence", cred.Kind)
	}
}

func TestExtractCredential_EmptySignatureStillSelectsSignature(t *testing.T) {
	// Presence decides the branch, not content.
	r := httptest.NewRequest("POST", "/v1/tx", nil)
	r.Header.Set(SignatureHeader, "")
	r.Header.Set(AuthorizationHeader, "Bearer abc.def.ghi")

	cred := ExtractCredential(r)
	if cred.Kind != CredentialSignature {
		t.Fatalf("kind = %v, want CredentialSignature for empty-valued header", cred.Kind)
	}
	if cred.Signature != "" {
		t.Errorf("signature = %q, want empty", cred.Signature)
	}
}

func TestExtractCredential_NonBearerSchemeKeptVerbatim(t *testing.T) {
	// Only the exact "Bearer " prefix is stripped; anything else flows to
	// the verifier untouched and fails there.
	r := httptest.NewRequest("GET", "/v1/me", nil)
	r.Header.Set(AuthorizationHeader, "Basic dXNlcjpwYXNz")

	cred := ExtractCredential(r)
	if cred.Kind != CredentialBearer {
		t.Fatalf("kind = %v, want CredentialBearer", cred.Kind)
	}
	if cred.Token != "Basic dXNlcjpwYXNz" {
		t.Errorf("token = %q, want unstripped value", cred.Token)
	}
}

func TestExtractCredential_NoHeaders(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/me", nil)

	cred := ExtractCredential(r)
	if cred.Kind != CredentialNone {
		t.Fatalf("kind = %v, want CredentialNone", cred.Kind)
	}
}
