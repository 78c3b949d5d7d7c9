package revocation

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/walletgate/walletgate/pkg/api"
	"github.com/walletgate/walletgate/pkg/storage"
)

type fakeStore struct {
	revoked map[string]bool
	err     error
}

func (s *fakeStore) FindOne(_ context.Context, accessToken string) (*api.RevokedToken, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.revoked[accessToken] {
		return &api.RevokedToken{AccessToken: accessToken, RevokedAt: time.Now()}, nil
	}
	return nil, storage.ErrNotFound
}

func TestCheck_NotRevoked(t *testing.T) {
	c := New(&fakeStore{})
	if verr := c.Check(context.Background(), "Bearer abc"); verr != nil {
		t.Errorf("unexpected rejection: %v", verr)
	}
}

func TestCheck_Revoked(t *testing.T) {
	c := New(&fakeStore{revoked: map[string]bool{"Bearer abc": true}})

	verr := c.Check(context.Background(), "Bearer abc")
	if verr == nil {
		t.Fatal("expected rejection")
	}
	if verr.Kind != api.KindRevoked {
		t.Errorf("kind = %q, want %q", verr.Kind, api.KindRevoked)
	}
	if verr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", verr.Status)
	}
}

func TestCheck_LookupFailureIsServerError(t *testing.T) {
	// A broken store must not be read as "not revoked".
	c := New(&fakeStore{err: errors.New("connection refused")})

	verr := c.Check(context.Background(), "Bearer abc")
	if verr == nil {
		t.Fatal("expected rejection")
	}
	if verr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", verr.Status)
	}
	if verr.Kind != api.KindLookupFailed {
		t.Errorf("kind = %q, want %q", verr.Kind, api.KindLookupFailed)
	}
}
