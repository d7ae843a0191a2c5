// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/lineage-engine/internal/httputil"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

// recordsPath is the historical-records search endpoint, relative to the
// configured API base URL.
const recordsPath = "/search/records/results"

// maxResultsCap bounds how many results a single request may ask for.
const maxResultsCap = 100

// RecordsProvider queries the historical records search API.
type RecordsProvider struct {
	Client *http.Client
}

// Name returns the provider identifier.
func (p *RecordsProvider) Name() string { return "familysearch_records" }

// Search queries the records API and returns matching records.
func (p *RecordsProvider) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Record, error) {
	if query.IsEmpty() {
		return nil, fmt.Errorf("empty records query")
	}

	params := url.Values{
		"count": {fmt.Sprintf("%d", resultCount(query, cfg))},
	}
	if query.GivenName != "" {
		params.Set("givenName", query.GivenName)
	}
	if query.Surname != "" {
		params.Set("surname", query.Surname)
	}
	if query.Year != 0 {
		params.Set("eventDate", fmt.Sprintf("%d", query.Year))
	}
	if query.Place != "" {
		params.Set("place", query.Place)
	}
	if query.RecordType != "" {
		params.Set("recordType", query.RecordType)
	}

	reqURL := strings.TrimRight(cfg.BaseURL, "/") + recordsPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", cfg.UserAgent)
	if cfg.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.AccessToken)
	}

	resp, err := httputil.Do(ctx, p.Client, req, p.Name())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var rr recordsResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, &httputil.ParseError{Provider: p.Name(), Err: err}
	}

	records := make([]types.Record, 0, len(rr.Entries))
	for _, e := range rr.Entries {
		records = append(records, types.Record{
			Title:       e.Title,
			URL:         absoluteURL(cfg.BaseURL, e.URL),
			RecordType:  e.RecordType,
			DateRange:   e.DateRange,
			Place:       e.Place,
			Description: e.Description,
			FSID:        e.FSID,
			Provider:    p.Name(),
		})
	}
	return records, nil
}

// resultCount returns the per-request result count, preferring the query's
// own limit over the configured default.
func resultCount(query Query, cfg types.SearchConfig) int {
	n := query.MaxResults
	if n <= 0 {
		n = cfg.MaxResults
	}
	if n <= 0 {
		n = 20
	}
	if n > maxResultsCap {
		n = maxResultsCap
	}
	return n
}

// absoluteURL prefixes base onto API-relative links.
func absoluteURL(base, link string) string {
	if link == "" || strings.Contains(link, "://") {
		return link
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(link, "/")
}

// Records API JSON structures.
type recordsResponse struct {
	Total   int            `json:"total"`
	Entries []recordsEntry `json:"entries"`
}

type recordsEntry struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	RecordType  string `json:"recordType"`
	DateRange   string `json:"dateRange"`
	Place       string `json:"place"`
	Description string `json:"description"`
	FSID        string `json:"fsId"`
}
