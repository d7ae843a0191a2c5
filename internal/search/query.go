// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"strings"
)

// Query holds the search parameters for one logical lookup.
type Query struct {
	GivenName  string
	Surname    string
	Year       int
	Place      string
	RecordType string
	MaxResults int
}

// IsEmpty reports whether the query contains no searchable terms.
func (q Query) IsEmpty() bool {
	return q.GivenName == "" && q.Surname == "" && q.Place == "" && q.RecordType == ""
}

// FullName returns the queried person's display name.
func (q Query) FullName() string {
	return strings.TrimSpace(q.GivenName + " " + q.Surname)
}

// String describes the query for log and error messages.
func (q Query) String() string {
	s := q.FullName()
	if s == "" {
		s = "(unnamed)"
	}
	if q.Year != 0 {
		s = fmt.Sprintf("%s, %d", s, q.Year)
	}
	if q.Place != "" {
		s = fmt.Sprintf("%s, %s", s, q.Place)
	}
	return s
}

// Fingerprint returns a normalized cache key for the query. Two logically
// identical queries, differing only in case or whitespace, produce the same
// fingerprint. Every parameter is included under a fixed field order, so the
// key does not depend on how the caller assembled the query.
func (q Query) Fingerprint() string {
	fields := []string{
		"given=" + normalizeTerm(q.GivenName),
		"surname=" + normalizeTerm(q.Surname),
		fmt.Sprintf("year=%d", q.Year),
		"place=" + normalizeTerm(q.Place),
		"type=" + normalizeTerm(q.RecordType),
		fmt.Sprintf("max=%d", q.MaxResults),
	}
	return strings.Join(fields, "|")
}

// normalizeTerm lowercases s and collapses interior whitespace.
func normalizeTerm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
