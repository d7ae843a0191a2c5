// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/lineage-engine/internal/httputil"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

const recordsFixture = `{
	"total": 2,
	"entries": [
		{
			"title": "John Smith",
			"url": "/ark:/61903/1:1:ABCD-123",
			"recordType": "Census",
			"dateRange": "1850",
			"place": "Boston, Massachusetts",
			"fsId": "ABCD-123"
		},
		{
			"title": "Jon Smith",
			"url": "https://example.org/records/2",
			"recordType": "Birth",
			"fsId": "EFGH-456"
		}
	]
}`

func recordsTestConfig(baseURL string) types.SearchConfig {
	cfg := testSearchConfig()
	cfg.BaseURL = baseURL
	cfg.AccessToken = "tok123"
	cfg.HTTPConfig.UserAgent = "lineage-engine-test"
	return cfg
}

func TestRecordsProviderSearch(t *testing.T) {
	var gotQuery string
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != recordsPath {
			t.Errorf("path = %q, want %q", r.URL.Path, recordsPath)
		}
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, recordsFixture)
	}))
	defer srv.Close()

	p := &RecordsProvider{Client: srv.Client()}
	query := Query{GivenName: "John", Surname: "Smith", Year: 1850, Place: "Boston", RecordType: "Census"}
	records, err := p.Search(context.Background(), query, recordsTestConfig(srv.URL))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	for _, param := range []string{"givenName=John", "surname=Smith", "eventDate=1850", "place=Boston", "recordType=Census", "count=20"} {
		if !containsParam(gotQuery, param) {
			t.Errorf("query %q missing %q", gotQuery, param)
		}
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	first := records[0]
	if first.Title != "John Smith" || first.RecordType != "Census" || first.FSID != "ABCD-123" {
		t.Errorf("first record = %+v", first)
	}
	if want := srv.URL + "/ark:/61903/1:1:ABCD-123"; first.URL != want {
		t.Errorf("relative URL not resolved: %q, want %q", first.URL, want)
	}
	if records[1].URL != "https://example.org/records/2" {
		t.Errorf("absolute URL rewritten: %q", records[1].URL)
	}
	if first.Provider != "familysearch_records" {
		t.Errorf("provider = %q", first.Provider)
	}
}

func TestRecordsProviderRejectsEmptyQuery(t *testing.T) {
	p := &RecordsProvider{Client: http.DefaultClient}
	if _, err := p.Search(context.Background(), Query{Year: 1850}, recordsTestConfig("http://unused")); err == nil {
		t.Error("expected an error for an empty query")
	}
}

func TestRecordsProviderParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer srv.Close()

	p := &RecordsProvider{Client: srv.Client()}
	_, err := p.Search(context.Background(), Query{Surname: "Smith"}, recordsTestConfig(srv.URL))
	if !httputil.IsParse(err) {
		t.Errorf("err = %v, want a parse error", err)
	}
}

func TestRecordsProviderStatusClassification(t *testing.T) {
	tests := []struct {
		status    int
		transient bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusUnauthorized, false},
		{http.StatusNotFound, false},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))

		p := &RecordsProvider{Client: srv.Client()}
		_, err := p.Search(context.Background(), Query{Surname: "Smith"}, recordsTestConfig(srv.URL))
		srv.Close()

		if err == nil {
			t.Errorf("HTTP %d: expected an error", tt.status)
			continue
		}
		if got := httputil.IsTransient(err); got != tt.transient {
			t.Errorf("HTTP %d: IsTransient = %v, want %v (err %v)", tt.status, got, tt.transient, err)
		}
	}
}

// containsParam reports whether the encoded query string has the given
// key=value pair.
func containsParam(rawQuery, param string) bool {
	for _, kv := range splitQuery(rawQuery) {
		if kv == param {
			return true
		}
	}
	return false
}

func splitQuery(rawQuery string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(rawQuery); i++ {
		if i == len(rawQuery) || rawQuery[i] == '&' {
			parts = append(parts, rawQuery[start:i])
			start = i + 1
		}
	}
	return parts
}
