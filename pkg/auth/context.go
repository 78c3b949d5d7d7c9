package auth

import (
	"context"

	"github.com/walletgate/walletgate/pkg/api"
)

// IdentityKind distinguishes how a caller authenticated.
type IdentityKind int

const (
	// IdentitySignature is a raw keyholder: the caller proved control of
	// a public key but has no resolved account record.
	IdentitySignature IdentityKind = iota

	// IdentityToken is a persisted account resolved from a verified
	// token's subject claim.
	IdentityToken
)

// Identity is the authenticated principal of a request. It is created
// only on successful verification and never modified afterwards.
type Identity struct {
	Kind IdentityKind

	// PublicKey is set for signature identities.
	PublicKey string

	// Subject is the token subject claim (token identities).
	Subject string

	// User is the resolved account record (token identities, when an
	// identity store is configured).
	User *api.User
}

// UserID returns the identity's resolved user ID, or empty when the
// identity has no persisted account.
func (id *Identity) UserID() string {
	if id == nil || id.User == nil {
		return ""
	}
	return id.User.ID
}

// identityKey is a private type for the identity context key.
type identityKey struct{}

// walletKey is a private type for the wallet context key.
type walletKey struct{}

// WithIdentity stores the authenticated identity in the context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext retrieves the authenticated identity, or nil when
// the request is unauthenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	if v, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return v
	}
	return nil
}

// WithWallet stores a wallet record in the context. Before
// authentication this is the signing context populated by an upstream
// lookup; after authorization it is the validated wallet binding.
func WithWallet(ctx context.Context, w *api.Wallet) context.Context {
	return context.WithValue(ctx, walletKey{}, w)
}

// WalletFromContext retrieves the wallet record from the context, or
// nil when none is set.
func WalletFromContext(ctx context.Context) *api.Wallet {
	if v, ok := ctx.Value(walletKey{}).(*api.Wallet); ok {
		return v
	}
	return nil
}
