// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/lineage-engine/internal/httputil"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

// collectionsPath is the record-collection catalog endpoint, relative to
// the configured API base URL.
const collectionsPath = "/platform/collections/records"

// gedcomxMediaType is the media type the collections API serves.
const gedcomxMediaType = "application/x-gedcomx-v1+json"

// CollectionsProvider queries the record-collection catalog. Collections
// describe whole record sets (a census year, a parish register) rather
// than individual people, so their results rank below direct record hits.
type CollectionsProvider struct {
	Client *http.Client
}

// Name returns the provider identifier.
func (p *CollectionsProvider) Name() string { return "familysearch_collections" }

// Search lists the record collections available for browsing. The catalog
// endpoint takes no person parameters; relevance against the query is left
// to the ranking step.
func (p *CollectionsProvider) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Record, error) {
	reqURL := strings.TrimRight(cfg.BaseURL, "/") + collectionsPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", gedcomxMediaType)
	req.Header.Set("User-Agent", cfg.UserAgent)
	if cfg.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.AccessToken)
	}

	resp, err := httputil.Do(ctx, p.Client, req, p.Name())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var cr collectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, &httputil.ParseError{Provider: p.Name(), Err: err}
	}

	limit := resultCount(query, cfg)
	records := make([]types.Record, 0, len(cr.Collections))
	for _, c := range cr.Collections {
		if len(records) >= limit {
			break
		}
		desc := c.Description
		if desc == "" && c.Size > 0 {
			desc = fmt.Sprintf("%d records", c.Size)
		}
		records = append(records, types.Record{
			Title:       c.Title,
			URL:         absoluteURL(cfg.BaseURL, c.Links.Self.Href),
			RecordType:  "Collection",
			Description: desc,
			FSID:        c.ID,
			Provider:    p.Name(),
		})
	}
	return records, nil
}

// Collections API JSON structures (GEDCOM X subset).
type collectionsResponse struct {
	Collections []collectionEntry `json:"collections"`
}

type collectionEntry struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Size        int             `json:"size"`
	Links       collectionLinks `json:"links"`
}

type collectionLinks struct {
	Self collectionLink `json:"self"`
}

type collectionLink struct {
	Href string `json:"href"`
}
