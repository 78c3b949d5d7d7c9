package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/walletgate/walletgate/pkg/api"
	"github.com/walletgate/walletgate/pkg/observability"
	"github.com/walletgate/walletgate/pkg/storage"
)

// Middleware wires the authentication and authorization pipeline into
// an HTTP handler chain. It runs the orchestrator, then the authorizer,
// rejects with the JSON fail envelope on either outcome, optionally
// enforces a per-subject rate limit, and finally passes the enriched
// request context downstream.
func Middleware(authn *Authenticator, authz *Authorizer, limiter RateLimiter, bypassEndpoints []string) func(http.Handler) http.Handler {
	bypass := make(map[string]bool, len(bypassEndpoints))
	for _, ep := range bypassEndpoints {
		bypass[ep] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypass[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			mechanism := mechanismLabel(ExtractCredential(r).Kind)

			ctx, identity, aerr := authn.Authenticate(r.Context(), r)
			if aerr != nil {
				observability.AuthAttemptsTotal.WithLabelValues(mechanism, "rejected").Inc()
				observability.AuthRejectionsTotal.WithLabelValues(string(aerr.Kind)).Inc()
				logRejection(r, aerr)
				api.WriteError(w, aerr)
				return
			}
			observability.AuthAttemptsTotal.WithLabelValues(mechanism, "ok").Inc()

			if authz != nil {
				ctx, aerr = authz.Authorize(ctx, r)
				if aerr != nil {
					observability.AuthRejectionsTotal.WithLabelValues(string(aerr.Kind)).Inc()
					logRejection(r, aerr)
					api.WriteError(w, aerr)
					return
				}
			}

			if limiter != nil {
				if err := limiter.Allow(ctx, rateLimitKey(identity)); err != nil {
					observability.RateLimitRejectedTotal.Inc()
					slog.Warn("rate limit exceeded", "subject", rateLimitKey(identity), "path", r.URL.Path)
					api.WriteError(w, api.TooManyRequests("rate limit exceeded"))
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WalletContext returns middleware that pre-populates the signing
// context: when the request names a wallet via the X-Wallet-Id header,
// the record is loaded and attached to the context before
// authentication runs. An unknown wallet simply leaves the context
// unset; the signature branch then rejects with its missing-context
// error. Lookup failures are surfaced as server errors.
func WalletContext(wallets storage.WalletStore, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			walletID := r.Header.Get(WalletHeader)
			if walletID == "" {
				next.ServeHTTP(w, r)
				return
			}

			wallet, err := wallets.FindOne(r.Context(), storage.WalletFilter{ID: walletID})
			if errors.Is(err, storage.ErrNotFound) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				logger.Error("wallet context lookup failed", "wallet_id", walletID, "error", err)
				api.WriteError(w, api.Internal(api.KindLookupFailed, "wallet lookup failed"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithWallet(r.Context(), wallet)))
		})
	}
}

// WalletHeader names the wallet providing the request's signing context.
const WalletHeader = "X-Wallet-Id"

// DefaultBypassEndpoints lists endpoints that skip authentication.
var DefaultBypassEndpoints = []string{"/healthz", "/readyz", "/metrics"}

// logRejection logs a pipeline rejection at a severity matching its
// status class: client errors at warn, server errors at error with the
// full underlying detail.
func logRejection(r *http.Request, aerr *api.Error) {
	attrs := []any{
		"kind", string(aerr.Kind),
		"status", aerr.Status,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	}
	if aerr.Status >= http.StatusInternalServerError {
		slog.Error("request rejected", append(attrs, "error", aerr.Error())...)
		return
	}
	slog.Warn("request rejected", attrs...)
}

// mechanismLabel maps a credential kind to its metric label.
func mechanismLabel(kind CredentialKind) string {
	switch kind {
	case CredentialSignature:
		return "signature"
	case CredentialBearer:
		return "token"
	default:
		return "none"
	}
}

// rateLimitKey picks the identifier requests are rate limited by: the
// resolved user, else the token subject, else the signing key.
func rateLimitKey(identity *Identity) string {
	if identity == nil {
		return "anonymous"
	}
	if id := identity.UserID(); id != "" {
		return id
	}
	if identity.Subject != "" {
		return identity.Subject
	}
	return identity.PublicKey
}
