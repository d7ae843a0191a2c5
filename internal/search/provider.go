// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"

	"github.com/pdiddy/lineage-engine/pkg/types"
)

// Provider searches a single genealogical data source. Each provider
// (historical records, collection catalog) implements this interface.
type Provider interface {
	Name() string
	Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Record, error)
}

// Stub is a canned-response Provider for offline runs and tests. It
// returns its configured records or error regardless of the query.
type Stub struct {
	ProviderName string
	Records      []types.Record
	Err          error

	Calls int
}

// Name returns the provider identifier.
func (s *Stub) Name() string {
	if s.ProviderName == "" {
		return "stub"
	}
	return s.ProviderName
}

// Search returns the canned records with the provider name filled in.
func (s *Stub) Search(_ context.Context, _ Query, _ types.SearchConfig) ([]types.Record, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]types.Record, len(s.Records))
	copy(out, s.Records)
	for i := range out {
		if out[i].Provider == "" {
			out[i].Provider = s.Name()
		}
	}
	return out, nil
}
