// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
)

// Similarity returns a 0..1 score for how likely a and b name the same
// person or record. It takes the higher of an edit-distance ratio and a
// token-overlap ratio, so both spelling variants ("Jon"/"John") and
// reordered names ("Smith, John"/"John Smith") score high.
func Similarity(a, b string) float64 {
	na, nb := normalizeName(a), normalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	edit := levenshtein.Similarity(na, nb, levenshtein.NewParams())
	overlap := tokenOverlap(na, nb)
	if overlap > edit {
		return overlap
	}
	return edit
}

// tokenOverlap returns the Jaccard ratio of the word sets of a and b.
func tokenOverlap(a, b string) float64 {
	ta := strings.Fields(a)
	tb := strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	set := make(map[string]bool, len(ta))
	for _, tok := range ta {
		set[tok] = true
	}

	union := len(set)
	shared := 0
	for _, tok := range tb {
		if set[tok] {
			set[tok] = false
			shared++
		} else {
			union++
		}
	}
	return float64(shared) / float64(union)
}

// normalizeName returns a lowercased, punctuation-stripped version of s.
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
