// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries genealogical record providers and returns a
// unified, deduplicated, confidence-ranked result list.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/lineage-engine/pkg/types"
)

// Output holds the merged matches, dedup statistics and per-provider
// failures of one search.
type Output struct {
	Matches     []types.Match
	DupsRemoved int
	Failures    []Failure
}

// Failure records that a single provider could not serve the query.
type Failure struct {
	Provider string
	Err      error
}

// Search fans the query out to all clients concurrently, then scores,
// deduplicates and ranks the combined results. A provider failure drops
// that provider's results but keeps the rest; only when every provider
// fails does Search return an error.
func Search(ctx context.Context, query Query, clients []*Client, cfg types.SearchConfig, logger *log.Logger) (Output, error) {
	if query.IsEmpty() {
		return Output{}, fmt.Errorf("query is empty: provide a name, place or record type")
	}
	if len(clients) == 0 {
		return Output{}, fmt.Errorf("no search providers configured")
	}
	if logger == nil {
		logger = log.Default()
	}

	type clientResult struct {
		records []types.Record
		err     error
	}

	// Results are indexed by client position so the merged order, and with
	// it equal-confidence tie-breaks, never depends on completion order.
	results := make([]clientResult, len(clients))
	var wg sync.WaitGroup

	for i, c := range clients {
		wg.Add(1)
		go func(i int, c *Client) {
			defer wg.Done()
			records, err := c.Fetch(ctx, query, cfg)
			results[i] = clientResult{records: records, err: err}
		}(i, c)
	}
	wg.Wait()

	var all []types.Record
	var failures []Failure
	for i, cr := range results {
		if cr.err != nil {
			name := clients[i].Provider().Name()
			failures = append(failures, Failure{Provider: name, Err: cr.err})
			logger.Warn("provider failed", "provider", name, "error", cr.err)
			continue
		}
		all = append(all, cr.records...)
	}

	if len(failures) == len(clients) {
		errs := make([]error, len(failures))
		for i, f := range failures {
			errs[i] = f.Err
		}
		return Output{Failures: failures}, fmt.Errorf("all providers failed: %w", errors.Join(errs...))
	}

	matches := score(all, query, cfg)
	merged, removed := merge(matches, cfg.DedupThreshold)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Confidence > merged[j].Confidence
	})

	if cfg.MaxResults > 0 && len(merged) > cfg.MaxResults {
		merged = merged[:cfg.MaxResults]
	}

	return Output{
		Matches:     merged,
		DupsRemoved: removed,
		Failures:    failures,
	}, nil
}

// score converts raw records into matches with a confidence against the
// queried name. Collection entries are classified by record type and get
// a confidence floor, since a catalog title rarely resembles a person's
// name even when the collection is worth browsing.
func score(records []types.Record, query Query, cfg types.SearchConfig) []types.Match {
	name := query.FullName()
	matches := make([]types.Match, 0, len(records))
	for _, r := range records {
		m := types.Match{Record: r, Kind: types.KindRecord}
		m.Confidence = Similarity(name, r.Title)
		if r.RecordType == "Collection" {
			m.Kind = types.KindCollection
			if m.Confidence < cfg.CollectionFloor {
				m.Confidence = cfg.CollectionFloor
			}
		}
		matches = append(matches, m)
	}
	return matches
}

// merge collapses matches that refer to the same underlying record,
// keeping the higher-confidence copy. Matches sharing a source identifier
// are always the same record; otherwise titles of the same kind are
// compared against the similarity threshold.
func merge(matches []types.Match, threshold float64) ([]types.Match, int) {
	var merged []types.Match
	removed := 0
	for _, m := range matches {
		idx := -1
		for i := range merged {
			if sameRecord(merged[i], m, threshold) {
				idx = i
				break
			}
		}
		if idx >= 0 {
			removed++
			if m.Confidence > merged[idx].Confidence {
				merged[idx] = m
			}
			continue
		}
		merged = append(merged, m)
	}
	return merged, removed
}

func sameRecord(a, b types.Match, threshold float64) bool {
	if a.FSID != "" && a.FSID == b.FSID {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	return Similarity(a.Title, b.Title) > threshold
}

// FormatTable writes matches as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Matches) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %-12s  %-12s  %-5s  %s\n",
		"Rank", "Title", "Type", "Date", "Conf", "Provider")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, m := range out.Matches {
		fmt.Fprintf(w, "%-4d  %-50s  %-12s  %-12s  %-5.2f  %s\n",
			i+1, truncate(m.Title, 50), truncate(m.RecordType, 12),
			truncate(m.DateRange, 12), m.Confidence, m.Provider)
	}

	fmt.Fprintf(w, "\n%d results", len(out.Matches))
	if out.DupsRemoved > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", out.DupsRemoved)
	}
	fmt.Fprintln(w)
	for _, f := range out.Failures {
		fmt.Fprintf(w, "warning: provider %s failed: %v\n", f.Provider, f.Err)
	}
}

// FormatJSON writes matches as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Matches)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
