// Package storage defines the query-by-filter store contracts the
// pipeline depends on, plus sentinel errors shared across adapter
// implementations.
//
// Adapters (memory, postgres) implement UserStore, WalletStore, and
// RevocationStore. The pipeline accesses all three read-only; revocation
// writes happen outside this codebase. Implementations must support
// concurrent reads.
package storage
