package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/walletgate/walletgate/pkg/api"
	"github.com/walletgate/walletgate/pkg/auth/revocation"
	"github.com/walletgate/walletgate/pkg/auth/signature"
	"github.com/walletgate/walletgate/pkg/auth/token"
	"github.com/walletgate/walletgate/pkg/storage"
)

// AuthenticatorConfig configures the authentication orchestrator.
// Users and Revocations may be nil: a nil revocation store disables the
// revocation check, a nil user store disables identity resolution and
// leaves token identities carrying only their subject claim.
type AuthenticatorConfig struct {
	// Tokens verifies bearer tokens. When nil, any request presenting a
	// token is rejected as a server misconfiguration.
	Tokens *token.Verifier

	// Signatures verifies detached signatures. When nil, a default
	// Ed25519-backed verifier is used.
	Signatures *signature.Verifier

	// Users resolves token subjects to account records.
	Users storage.UserStore

	// Revocations holds explicitly revoked tokens.
	Revocations storage.RevocationStore

	// Logger receives warn/error entries. Defaults to slog.Default().
	Logger *slog.Logger
}

// Authenticator is the top-level authentication decision procedure.
type Authenticator struct {
	tokens      *token.Verifier
	signatures  *signature.Verifier
	users       storage.UserStore
	revocations *revocation.Checker
	logger      *slog.Logger
}

// NewAuthenticator creates an Authenticator from the given configuration.
func NewAuthenticator(cfg AuthenticatorConfig) *Authenticator {
	sigs := cfg.Signatures
	if sigs == nil {
		sigs = signature.New(nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var checker *revocation.Checker
	if cfg.Revocations != nil {
		checker = revocation.New(cfg.Revocations)
	}
	return &Authenticator{
		tokens:      cfg.Tokens,
		signatures:  sigs,
		users:       cfg.Users,
		revocations: checker,
		logger:      logger,
	}
}

// Authenticate runs the authenticate-or-reject protocol and returns a
// context carrying the verified identity on success.
//
// Precedence is fixed: a present signature header is always evaluated
// and the token path is never attempted afterwards, even when signature
// verification fails. With a bearer token the order is verification,
// then revocation check, then identity resolution; each step's failure
// is surfaced immediately. A request with no credential at all is
// rejected with a generic message that leaks nothing about which
// mechanisms are configured.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) (context.Context, *Identity, *api.Error) {
	cred := ExtractCredential(r)

	switch cred.Kind {
	case CredentialSignature:
		return a.authenticateSignature(ctx, r, cred)
	case CredentialBearer:
		return a.authenticateToken(ctx, cred)
	default:
		return ctx, nil, api.Unauthorized(api.KindUnauthenticated, "")
	}
}

// authenticateSignature verifies a detached signature against the
// pre-populated signing context.
func (a *Authenticator) authenticateSignature(ctx context.Context, r *http.Request, cred Credential) (context.Context, *Identity, *api.Error) {
	wallet := WalletFromContext(ctx)
	if wallet == nil {
		return ctx, nil, api.BadRequest(api.KindMissingContext, "No wallet data found.")
	}

	payload := requestPayload(r)

	if verr := a.signatures.Verify(cred.Signature, wallet.PublicKey, payload); verr != nil {
		return ctx, nil, verr
	}

	identity := &Identity{Kind: IdentitySignature, PublicKey: wallet.PublicKey}
	return WithIdentity(ctx, identity), identity, nil
}

// authenticateToken verifies a bearer token, checks revocation, and
// resolves the subject to an account record.
func (a *Authenticator) authenticateToken(ctx context.Context, cred Credential) (context.Context, *Identity, *api.Error) {
	if a.tokens == nil {
		a.logger.Error("bearer token presented but no verification key is configured")
		return ctx, nil, api.Internal(api.KindMissingVerificationKey, "no verification key configured")
	}

	claims, verr := a.tokens.Verify(cred.Token)
	if verr != nil {
		return ctx, nil, verr
	}

	// Revocation is checked with the header value as presented, not the
	// scheme-stripped token.
	if a.revocations != nil {
		if verr := a.revocations.Check(ctx, cred.Raw); verr != nil {
			return ctx, nil, verr
		}
	}

	identity := &Identity{Kind: IdentityToken, Subject: claims.Subject}

	if a.users != nil {
		user, err := a.users.FindOne(ctx, storage.UserFilter{Subject: claims.Subject})
		if errors.Is(err, storage.ErrNotFound) {
			a.logger.Warn("token subject has no account record", "subject", claims.Subject)
			return ctx, nil, api.Unauthorized(api.KindIdentityNotFound, "")
		}
		if err != nil {
			a.logger.Error("user lookup failed", "subject", claims.Subject, "error", err)
			return ctx, nil, api.Internal(api.KindLookupFailed, "user lookup failed").WithCause(err)
		}
		identity.User = user
	}

	return WithIdentity(ctx, identity), identity, nil
}

// requestPayload builds the map a signature is verified over: the query
// parameters for read-style requests, the JSON body otherwise. The body
// is restored so downstream handlers can read it again. A body that is
// not a JSON object yields an empty payload, which fails verification
// rather than erroring out.
func requestPayload(r *http.Request) map[string]any {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		payload := make(map[string]any)
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				payload[key] = values[0]
			}
		}
		return payload
	}

	payload := make(map[string]any)
	if r.Body == nil {
		return payload
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return payload
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return make(map[string]any)
		}
	}
	return payload
}
