// Package postgres provides PostgreSQL implementations of the storage
// contracts. It uses pgx/v5 for connection pooling; all three stores
// share one pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/walletgate/walletgate/pkg/api"
	"github.com/walletgate/walletgate/pkg/storage"
)

// DB wraps a pgx connection pool and hands out the individual stores.
type DB struct {
	pool *pgxpool.Pool
}

// New creates a connection pool against the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*DB, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	db := &DB{pool: pool}

	if cfg.MigrateOnStart {
		if err := db.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return db, nil
}

// Close releases the connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// Users returns the user store backed by this pool.
func (db *DB) Users() *UserStore {
	return &UserStore{pool: db.pool}
}

// Wallets returns the wallet store backed by this pool.
func (db *DB) Wallets() *WalletStore {
	return &WalletStore{pool: db.pool}
}

// Revocations returns the revocation store backed by this pool.
func (db *DB) Revocations() *RevocationStore {
	return &RevocationStore{pool: db.pool}
}

// UserStore is a PostgreSQL-backed storage.UserStore.
type UserStore struct {
	pool *pgxpool.Pool
}

var (
	_ storage.UserStore       = (*UserStore)(nil)
	_ storage.WalletStore     = (*WalletStore)(nil)
	_ storage.RevocationStore = (*RevocationStore)(nil)
)

// FindOne returns the user matching the filter, or ErrNotFound.
func (s *UserStore) FindOne(ctx context.Context, filter storage.UserFilter) (*api.User, error) {
	query := `SELECT id, username, subject, created_at FROM users WHERE 1=1`
	var args []any

	if filter.Subject != "" {
		args = append(args, filter.Subject)
		query += fmt.Sprintf(" AND subject = $%d", len(args))
	}
	if filter.Username != "" {
		args = append(args, filter.Username)
		query += fmt.Sprintf(" AND username = $%d", len(args))
	}
	if len(args) == 0 {
		return nil, storage.ErrNotFound
	}
	query += " LIMIT 1"

	var u api.User
	err := s.pool.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Username, &u.Subject, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// WalletStore is a PostgreSQL-backed storage.WalletStore.
type WalletStore struct {
	pool *pgxpool.Pool
}

// FindOne returns the wallet matching the filter, or ErrNotFound.
// Disabled wallets are returned.
func (s *WalletStore) FindOne(ctx context.Context, filter storage.WalletFilter) (*api.Wallet, error) {
	query := `SELECT id, user_id, public_key, disabled, created_at FROM wallets WHERE 1=1`
	var args []any

	if filter.ID != "" {
		args = append(args, filter.ID)
		query += fmt.Sprintf(" AND id = $%d", len(args))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if len(args) == 0 {
		return nil, storage.ErrNotFound
	}
	query += " LIMIT 1"

	return s.scanWallet(s.pool.QueryRow(ctx, query, args...))
}

// FindFirstCreated returns the user's earliest-created wallet that is
// not disabled, or ErrNotFound.
func (s *WalletStore) FindFirstCreated(ctx context.Context, userID string) (*api.Wallet, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, public_key, disabled, created_at
		FROM wallets
		WHERE user_id = $1 AND NOT disabled
		ORDER BY created_at ASC
		LIMIT 1
	`, userID)
	return s.scanWallet(row)
}

func (s *WalletStore) scanWallet(row pgx.Row) (*api.Wallet, error) {
	var w api.Wallet
	err := row.Scan(&w.ID, &w.UserID, &w.PublicKey, &w.Disabled, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying wallet: %w", err)
	}
	return &w, nil
}

// RevocationStore is a PostgreSQL-backed storage.RevocationStore.
type RevocationStore struct {
	pool *pgxpool.Pool
}

// FindOne returns the revocation record for the token, or ErrNotFound.
func (s *RevocationStore) FindOne(ctx context.Context, accessToken string) (*api.RevokedToken, error) {
	var rec api.RevokedToken
	err := s.pool.QueryRow(ctx, `
		SELECT access_token, revoked_at FROM revoked_tokens WHERE access_token = $1
	`, accessToken).Scan(&rec.AccessToken, &rec.RevokedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying revoked token: %w", err)
	}
	return &rec, nil
}
