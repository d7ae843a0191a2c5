// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the lineage-engine pipeline.
package types

// Record represents a single genealogical record as returned by one provider.
// A Record is owned by the client that produced it until it is handed to the
// aggregator for merging.
type Record struct {
	// Title is the display name of the record (usually the person's name).
	Title string `json:"title" yaml:"title"`

	// URL links to the record on the provider's site.
	URL string `json:"url" yaml:"url"`

	// RecordType classifies the record (e.g. "Census", "Birth", "Marriage").
	RecordType string `json:"record_type" yaml:"record_type"`

	// DateRange holds the life-event date or range, when known (e.g. "1850"
	// or "1850-1860").
	DateRange string `json:"date_range,omitempty" yaml:"date_range,omitempty"`

	// Place is the event location, when known.
	Place string `json:"place,omitempty" yaml:"place,omitempty"`

	// Description is free-text detail from the provider.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// FSID is the provider-assigned identifier, when present. Records from
	// different providers that share an FSID describe the same entity.
	FSID string `json:"fs_id,omitempty" yaml:"fs_id,omitempty"`

	// Provider identifies which provider found this record
	// (e.g. "familysearch_records", "familysearch_collections").
	Provider string `json:"provider" yaml:"provider"`
}

// MatchKind classifies a merged result.
type MatchKind string

const (
	// KindRecord is an ordinary search hit.
	KindRecord MatchKind = "record"

	// KindCollection is a canonical collection-catalog entry. Collection
	// entries carry a higher confidence floor than free-text hits.
	KindCollection MatchKind = "collection"
)

// Match is a Record annotated with a merge confidence and a classification.
// Matches are created by the aggregator during merging and are immutable
// afterwards.
type Match struct {
	Record `yaml:",inline"`

	// Confidence is a value between 0.0 and 1.0 expressing how likely the
	// record matches the query's intended entity.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Kind distinguishes collection-catalog entries from search hits.
	Kind MatchKind `json:"kind" yaml:"kind"`
}
