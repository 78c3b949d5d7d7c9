package api

import "time"

// User is a persisted account record. Subject is the stable external
// identifier carried in token subject claims (historically called the
// registration ID).
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

// Wallet is a resource record owned by a user. PublicKey is the key
// detached signatures are checked against when this wallet provides the
// signing context for a request. Disabled wallets are never bound to a
// request.
type Wallet struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PublicKey string    `json:"public_key"`
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"created_at"`
}

// RevokedToken marks a bearer token as permanently invalid regardless
// of its cryptographic validity. The set is append-only; the pipeline
// only ever reads it.
type RevokedToken struct {
	AccessToken string    `json:"access_token"`
	RevokedAt   time.Time `json:"revoked_at"`
}
