// Package memory provides in-memory implementations of the storage
// contracts for testing and lightweight deployments. Records are lost
// when the process restarts.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/walletgate/walletgate/pkg/api"
	"github.com/walletgate/walletgate/pkg/storage"
)

// UserStore is an in-memory storage.UserStore.
type UserStore struct {
	mu    sync.RWMutex
	users []*api.User
}

// Ensure the adapters satisfy their contracts at compile time.
var (
	_ storage.UserStore       = (*UserStore)(nil)
	_ storage.WalletStore     = (*WalletStore)(nil)
	_ storage.RevocationStore = (*RevocationStore)(nil)
)

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{}
}

// Add inserts a user record.
func (s *UserStore) Add(user *api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, user)
}

// FindOne returns the first user matching the filter, or ErrNotFound.
func (s *UserStore) FindOne(_ context.Context, filter storage.UserFilter) (*api.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if filter.Subject != "" && u.Subject != filter.Subject {
			continue
		}
		if filter.Username != "" && u.Username != filter.Username {
			continue
		}
		copied := *u
		return &copied, nil
	}
	return nil, storage.ErrNotFound
}

// WalletStore is an in-memory storage.WalletStore.
type WalletStore struct {
	mu      sync.RWMutex
	wallets []*api.Wallet
}

// NewWalletStore creates an empty in-memory wallet store.
func NewWalletStore() *WalletStore {
	return &WalletStore{}
}

// Add inserts a wallet record.
func (s *WalletStore) Add(wallet *api.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets = append(s.wallets, wallet)
}

// FindOne returns the first wallet matching the filter, or ErrNotFound.
// Disabled wallets are returned.
func (s *WalletStore) FindOne(_ context.Context, filter storage.WalletFilter) (*api.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.wallets {
		if filter.ID != "" && w.ID != filter.ID {
			continue
		}
		if filter.UserID != "" && w.UserID != filter.UserID {
			continue
		}
		copied := *w
		return &copied, nil
	}
	return nil, storage.ErrNotFound
}

// FindFirstCreated returns the user's earliest-created wallet that is
// not disabled, or ErrNotFound.
func (s *WalletStore) FindFirstCreated(_ context.Context, userID string) (*api.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var first *api.Wallet
	for _, w := range s.wallets {
		if w.UserID != userID || w.Disabled {
			continue
		}
		if first == nil || w.CreatedAt.Before(first.CreatedAt) {
			first = w
		}
	}
	if first == nil {
		return nil, storage.ErrNotFound
	}
	copied := *first
	return &copied, nil
}

// RevocationStore is an in-memory storage.RevocationStore.
type RevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]*api.RevokedToken
}

// NewRevocationStore creates an empty in-memory revocation store.
func NewRevocationStore() *RevocationStore {
	return &RevocationStore{revoked: make(map[string]*api.RevokedToken)}
}

// Revoke marks an access token as revoked.
func (s *RevocationStore) Revoke(accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[accessToken] = &api.RevokedToken{
		AccessToken: accessToken,
		RevokedAt:   time.Now(),
	}
}

// FindOne returns the revocation record for the token, or ErrNotFound.
func (s *RevocationStore) FindOne(_ context.Context, accessToken string) (*api.RevokedToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.revoked[accessToken]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}
