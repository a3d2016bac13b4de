// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"strings"

	"github.com/pdiddy/crossref-reconcile/pkg/types"
)

// FilterCandidates applies the query's exact-match constraints to a raw
// candidate list. A zero-valued constraint means no constraint; the two
// filters compose as AND. Filtering is pure and order-preserving. A record
// with no derivable year is excluded whenever a year filter is active.
func FilterCandidates(records []types.CandidateRecord, pubType string, pubYear int) []types.CandidateRecord {
	if pubType == "" && pubYear == 0 {
		return records
	}

	var kept []types.CandidateRecord
	for _, r := range records {
		if pubType != "" && r.Type != pubType {
			continue
		}
		if pubYear != 0 {
			year, ok := r.PublicationYear()
			if !ok || year != pubYear {
				continue
			}
		}
		kept = append(kept, r)
	}
	return kept
}

// FirstAuthorSurname extracts the surname of a record's first author:
// the family name when present, otherwise the last whitespace-delimited
// token of the given name. Records with no authors have no surname.
func FirstAuthorSurname(r types.CandidateRecord) string {
	if len(r.Authors) == 0 {
		return ""
	}
	first := r.Authors[0]
	if first.Family != "" {
		return first.Family
	}
	fields := strings.Fields(first.Given)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
