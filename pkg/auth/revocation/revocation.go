// Package revocation checks bearer tokens against an external
// revocation set. A revoked token is rejected regardless of its
// cryptographic validity; a failed lookup is a server error, never
// treated as "not revoked".
package revocation

import (
	"context"
	"errors"

	"github.com/walletgate/walletgate/pkg/api"
	"github.com/walletgate/walletgate/pkg/storage"
)

// Checker consults a RevocationStore.
type Checker struct {
	store storage.RevocationStore
}

// New creates a Checker over the given store.
func New(store storage.RevocationStore) *Checker {
	return &Checker{store: store}
}

// Check returns nil when the token is not revoked, a 401 rejection when
// it is, and a 500 rejection when the lookup itself failed.
func (c *Checker) Check(ctx context.Context, accessToken string) *api.Error {
	_, err := c.store.FindOne(ctx, accessToken)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return api.Internal(api.KindLookupFailed, "revocation lookup failed").WithCause(err)
	}
	return api.Unauthorized(api.KindRevoked, "")
}
