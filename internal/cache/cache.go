// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache memoizes provider result sets under a time-bounded store
// keyed by query fingerprint. Entries are visible only while younger than
// the TTL; expired entries read as misses. Two backends share one contract:
// an in-memory map and a persistent SQLite database.
package cache

import (
	"context"

	"github.com/pdiddy/lineage-engine/pkg/types"
)

// Store maps a query fingerprint to a previously computed result set.
// Implementations are safe for concurrent use; concurrent writes to the
// same fingerprint are last-write-wins.
type Store interface {
	// Get returns the cached records for key and whether the entry was
	// present and unexpired. A miss is not an error.
	Get(ctx context.Context, key string) ([]types.Record, bool, error)

	// Put stores records under key with the current timestamp, overwriting
	// any prior entry.
	Put(ctx context.Context, key string, records []types.Record) error

	// Close releases backend resources.
	Close() error
}
