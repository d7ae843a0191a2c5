// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/lineage-engine/pkg/types"
)

// ResultFile is the on-disk representation of a search and its results.
// A search can be saved to a file and reloaded later without re-querying
// the providers.
type ResultFile struct {
	Query   QueryParams      `yaml:"query"`
	Config  ResultFileConfig `yaml:"config"`
	Matches []types.Match    `yaml:"matches"`
	Summary ResultSummary    `yaml:"summary"`
}

// QueryParams stores the query parameters in a serializable form.
type QueryParams struct {
	GivenName  string `yaml:"given_name,omitempty"`
	Surname    string `yaml:"surname,omitempty"`
	Year       int    `yaml:"year,omitempty"`
	Place      string `yaml:"place,omitempty"`
	RecordType string `yaml:"record_type,omitempty"`
	MaxResults int    `yaml:"max_results,omitempty"`
}

// ResultFileConfig stores the search configuration that produced the results.
type ResultFileConfig struct {
	MaxResults      int     `yaml:"max_results"`
	DedupThreshold  float64 `yaml:"dedup_threshold"`
	CollectionFloor float64 `yaml:"collection_floor"`
}

// ResultSummary stores result statistics and a timestamp.
type ResultSummary struct {
	Total             int       `yaml:"total"`
	DuplicatesRemoved int       `yaml:"duplicates_removed"`
	ProviderErrors    []string  `yaml:"provider_errors,omitempty"`
	Timestamp         time.Time `yaml:"timestamp"`
}

// WriteResultFile saves query parameters and results to a YAML file.
func WriteResultFile(path string, query Query, cfg types.SearchConfig, out Output) error {
	rf := ResultFile{
		Query: QueryParams{
			GivenName:  query.GivenName,
			Surname:    query.Surname,
			Year:       query.Year,
			Place:      query.Place,
			RecordType: query.RecordType,
			MaxResults: query.MaxResults,
		},
		Config: ResultFileConfig{
			MaxResults:      cfg.MaxResults,
			DedupThreshold:  cfg.DedupThreshold,
			CollectionFloor: cfg.CollectionFloor,
		},
		Matches: out.Matches,
		Summary: ResultSummary{
			Total:             len(out.Matches),
			DuplicatesRemoved: out.DupsRemoved,
			Timestamp:         time.Now(),
		},
	}
	for _, f := range out.Failures {
		rf.Summary.ProviderErrors = append(rf.Summary.ProviderErrors,
			fmt.Sprintf("%s: %v", f.Provider, f.Err))
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved search from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}

// ToQuery converts stored QueryParams back into a Query struct.
func (p QueryParams) ToQuery() Query {
	return Query{
		GivenName:  p.GivenName,
		Surname:    p.Surname,
		Year:       p.Year,
		Place:      p.Place,
		RecordType: p.RecordType,
		MaxResults: p.MaxResults,
	}
}
