// Package api defines the domain records and error model shared across
// the walletgate pipeline.
//
// Records (User, Wallet, RevokedToken) mirror the rows held by the
// backing stores. Error carries the pipeline's rejection taxonomy: a
// machine-readable kind, an HTTP status class, and a human-readable
// message. WriteError renders errors into the JSON fail envelope and
// replaces 5xx messages with a fixed generic string so that internal
// detail never reaches the caller.
package api
