// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the reconciliation engine:
// citation queries, catalog records, scored candidates, and the wire shapes
// of the reconciliation protocol.
package types

// CitationQuery is a free-text bibliographic description of a work to be
// matched against the catalog. Title is required; the remaining fields are
// optional constraints, with zero values meaning absent.
type CitationQuery struct {
	// Title is the work's title as supplied by the caller.
	Title string `json:"title" yaml:"title"`

	// Author is the family name of the first author, when known.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// PublicationType restricts matches to an exact catalog type
	// (e.g. "journal-article", "book").
	PublicationType string `json:"publication_type,omitempty" yaml:"publication_type,omitempty"`

	// PublicationYear restricts matches to an exact publication year.
	PublicationYear int `json:"publication_year,omitempty" yaml:"publication_year,omitempty"`
}

// Name is a person's name as the catalog records it.
type Name struct {
	Given  string `json:"given,omitempty" yaml:"given,omitempty"`
	Family string `json:"family,omitempty" yaml:"family,omitempty"`
}

// DateField holds a catalog date in date-parts form: the outer slice is a
// group of dates, each inner slice is [year, month, day] with trailing
// elements optional.
type DateField struct {
	DateParts [][]int `json:"date-parts" yaml:"date-parts"`
}

// CandidateRecord is one catalog work being evaluated as a possible match.
// The engine only reads it; the field set mirrors the portion of the
// Crossref work schema the engine and the preview page consume.
type CandidateRecord struct {
	// DOI is the catalog's unique identifier for the work.
	DOI string `json:"DOI" yaml:"doi"`

	// Titles holds the work's titles; the first entry is canonical.
	Titles []string `json:"title" yaml:"title"`

	// Authors lists the work's authors in catalog order.
	Authors []Name `json:"author,omitempty" yaml:"author,omitempty"`

	// Type is the catalog's publication type, when recorded.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Published is the publication date in date-parts form, when recorded.
	Published *DateField `json:"published,omitempty" yaml:"published,omitempty"`

	// Publisher and ContainerTitle are carried for the preview page.
	Publisher      string   `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	ContainerTitle []string `json:"container-title,omitempty" yaml:"container_title,omitempty"`
}

// Title returns the record's canonical title. ok is false when the record
// has no usable title, in which case the record cannot be scored.
func (r CandidateRecord) Title() (title string, ok bool) {
	if len(r.Titles) == 0 || r.Titles[0] == "" {
		return "", false
	}
	return r.Titles[0], true
}

// PublicationYear derives the publication year from the first element of the
// first date-parts group. ok is false when no year is recorded.
func (r CandidateRecord) PublicationYear() (year int, ok bool) {
	if r.Published == nil || len(r.Published.DateParts) == 0 || len(r.Published.DateParts[0]) == 0 {
		return 0, false
	}
	return r.Published.DateParts[0][0], true
}

// ScoredCandidate pairs a catalog record with its confidence score, an
// integer between 0 and 100 inclusive.
type ScoredCandidate struct {
	Score  int             `json:"score" yaml:"score"`
	Record CandidateRecord `json:"record" yaml:"record"`
}
