// Command server runs the walletgate gateway: the authentication and
// authorization pipeline mounted in front of a small set of protected
// endpoints.
//
// Configuration is loaded from a YAML file (see pkg/config for the
// discovery order) with WALLETGATE_* environment overrides.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/walletgate/walletgate/pkg/auth"
	"github.com/walletgate/walletgate/pkg/auth/token"
	"github.com/walletgate/walletgate/pkg/config"
	"github.com/walletgate/walletgate/pkg/observability"
	"github.com/walletgate/walletgate/pkg/storage"
	"github.com/walletgate/walletgate/pkg/storage/memory"
	"github.com/walletgate/walletgate/pkg/storage/postgres"
	"github.com/walletgate/walletgate/pkg/transport"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create stores.
	var (
		users       storage.UserStore
		wallets     storage.WalletStore
		revocations storage.RevocationStore
	)
	switch cfg.Storage.Type {
	case "postgres":
		db, err := postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
		if err != nil {
			return fmt.Errorf("creating postgres stores: %w", err)
		}
		defer db.Close()
		users, wallets, revocations = db.Users(), db.Wallets(), db.Revocations()
		slog.Info("storage enabled", "type", "postgres")
	default:
		users = memory.NewUserStore()
		wallets = memory.NewWalletStore()
		revocations = memory.NewRevocationStore()
		slog.Info("storage enabled", "type", "memory")
	}

	// Create the token verifier when a key is configured.
	var tokens *token.Verifier
	if cfg.Auth.TokenKey != "" {
		key, err := token.ParseVerificationKey(cfg.Auth.TokenKey)
		if err != nil {
			return fmt.Errorf("parsing token key: %w", err)
		}
		tokens, err = token.New(key)
		if err != nil {
			return fmt.Errorf("creating token verifier: %w", err)
		}
	} else {
		slog.Warn("no token verification key configured; bearer tokens will be rejected")
	}

	// Assemble the pipeline.
	authn := auth.NewAuthenticator(auth.AuthenticatorConfig{
		Tokens:      tokens,
		Users:       users,
		Revocations: revocations,
	})
	authz := auth.NewAuthorizer(auth.AuthorizerConfig{Wallets: wallets})

	var limiter auth.RateLimiter
	if cfg.Auth.RateLimitPerMinute > 0 {
		limiter = auth.NewInProcessLimiter(cfg.Auth.RateLimitPerMinute)
	}

	pipeline := transport.Chain(
		transport.Recovery(nil),
		transport.RequestID(),
		transport.Logging(nil),
		observability.MetricsMiddleware,
		transport.AccessControlHeaders(cfg.AccessControl.AllowOrigin, cfg.AccessControl.AllowHeaders),
		transport.NetworkHeader(cfg.Network.Allowed),
		auth.WalletContext(wallets, nil),
		auth.Middleware(authn, authz, limiter, cfg.Auth.BypassEndpoints),
	)

	// Build HTTP mux.
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/me", handleMe)
	mux.HandleFunc("GET /v1/wallet", handleWallet)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      pipeline(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in background.
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "storage", cfg.Storage.Type)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error.
	select {
	case <-ctx.Done():
		slog.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// handleMe returns the authenticated identity.
func handleMe(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	resp := map[string]any{}
	switch {
	case identity == nil:
		// Bypass endpoints aside, this should not happen.
	case identity.Kind == auth.IdentitySignature:
		resp["kind"] = "signature"
		resp["public_key"] = identity.PublicKey
	default:
		resp["kind"] = "token"
		resp["subject"] = identity.Subject
		resp["user"] = identity.User
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleWallet returns the wallet bound to the request.
func handleWallet(w http.ResponseWriter, r *http.Request) {
	wallet := auth.WalletFromContext(r.Context())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"wallet": wallet})
}
