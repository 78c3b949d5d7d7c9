package storage

import (
	"context"

	"github.com/walletgate/walletgate/pkg/api"
)

// UserFilter selects a user record. Exactly one field is expected to be
// set; when both are set they must both match.
type UserFilter struct {
	// Subject matches the token subject claim (registration ID).
	Subject string

	// Username matches the account's username.
	Username string
}

// UserStore looks up account records.
type UserStore interface {
	// FindOne returns the user matching the filter, or ErrNotFound.
	FindOne(ctx context.Context, filter UserFilter) (*api.User, error)
}

// WalletFilter selects a wallet record. Zero-valued fields are ignored;
// set fields are combined with AND.
type WalletFilter struct {
	ID     string
	UserID string
}

// WalletStore looks up wallet records.
type WalletStore interface {
	// FindOne returns the wallet matching the filter, or ErrNotFound.
	// Disabled wallets are returned; callers decide whether a disabled
	// record is acceptable.
	FindOne(ctx context.Context, filter WalletFilter) (*api.Wallet, error)

	// FindFirstCreated returns the user's earliest-created wallet that
	// is not disabled, or ErrNotFound.
	FindFirstCreated(ctx context.Context, userID string) (*api.Wallet, error)
}

// RevocationStore looks up explicitly revoked tokens.
type RevocationStore interface {
	// FindOne returns the revocation record for the given access token,
	// or ErrNotFound when the token has not been revoked.
	FindOne(ctx context.Context, accessToken string) (*api.RevokedToken, error)
}
