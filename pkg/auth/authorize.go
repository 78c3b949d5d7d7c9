package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/walletgate/walletgate/pkg/api"
	"github.com/walletgate/walletgate/pkg/storage"
)

// AuthorizerConfig configures the authorization resolver.
type AuthorizerConfig struct {
	// Wallets resolves wallet records. Required.
	Wallets storage.WalletStore

	// Logger receives warn/error entries. Defaults to slog.Default().
	Logger *slog.Logger
}

// Authorizer binds the verified identity's wallet to the request.
type Authorizer struct {
	wallets storage.WalletStore
	logger  *slog.Logger
}

// NewAuthorizer creates an Authorizer. It panics when no wallet store
// is provided, since an authorizer without one can never succeed.
func NewAuthorizer(cfg AuthorizerConfig) *Authorizer {
	if cfg.Wallets == nil {
		panic("auth: wallet store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Authorizer{wallets: cfg.Wallets, logger: logger}
}

// Authorize resolves and attaches the wallet the caller may act on.
//
// It re-examines the bearer header itself instead of trusting that
// authentication ran first, so it composes independently in tests while
// still enforcing authenticate-before-authorize at runtime: a bearer
// request without an identity in the context is rejected. Requests
// without a bearer header pass through unbound; signature-authenticated
// requests already carry their wallet context from upstream.
//
// A wallet reference already present on the context is re-validated
// against the identity's user and its disabled flag; otherwise the
// user's first-created enabled wallet is selected. Lookup failures are
// server errors, distinct from the not-found rejection.
func (a *Authorizer) Authorize(ctx context.Context, r *http.Request) (context.Context, *api.Error) {
	if !hasBearerHeader(r) {
		return ctx, nil
	}

	identity := IdentityFromContext(ctx)
	if identity == nil {
		a.logger.Warn("authorization attempted without authenticated identity", "path", r.URL.Path)
		return ctx, api.Unauthorized(api.KindUnauthorized, "")
	}

	userID := identity.UserID()
	if userID == "" {
		a.logger.Warn("authenticated identity has no user record", "subject", identity.Subject)
		return ctx, api.Unauthorized(api.KindUnauthorized, "")
	}

	var wallet *api.Wallet
	var err error

	if candidate := WalletFromContext(ctx); candidate != nil {
		wallet, err = a.wallets.FindOne(ctx, storage.WalletFilter{ID: candidate.ID, UserID: userID})
		if errors.Is(err, storage.ErrNotFound) {
			a.logger.Warn("wallet record not found", "user_id", userID, "wallet_id", candidate.ID)
			return ctx, api.Unauthorized(api.KindUnauthorized, "")
		}
	} else {
		wallet, err = a.wallets.FindFirstCreated(ctx, userID)
		if errors.Is(err, storage.ErrNotFound) {
			a.logger.Warn("wallet record not found", "user_id", userID)
			return ctx, api.Unauthorized(api.KindUnauthorized, "")
		}
	}

	if err != nil {
		a.logger.Error("wallet lookup failed", "user_id", userID, "error", err)
		return ctx, api.Internal(api.KindLookupFailed, "wallet lookup failed").WithCause(err)
	}

	if wallet.Disabled {
		a.logger.Warn("wallet is disabled", "user_id", userID, "wallet_id", wallet.ID)
		return ctx, api.Unauthorized(api.KindUnauthorized, "")
	}

	return WithWallet(ctx, wallet), nil
}
