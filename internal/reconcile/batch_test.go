// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"reflect"
	"testing"

	"github.com/pdiddy/crossref-reconcile/pkg/types"
)

func TestParseQueryBatch(t *testing.T) {
	data := `{
		"q9": {"query": "Attention Is All You Need", "properties": [{"pid": "author", "v": "Vaswani"}]},
		"q1": {"query": "A Book", "type": "book"},
		"q5": {"query": "Dated Work", "properties": [{"pid": "publication_year", "v": 2020}]}
	}`

	batch, err := ParseQueryBatch([]byte(data))
	if err != nil {
		t.Fatalf("ParseQueryBatch() error: %v", err)
	}

	wantKeys := []string{"q9", "q1", "q5"}
	if !reflect.DeepEqual(batch.Keys, wantKeys) {
		t.Errorf("keys = %v, want %v", batch.Keys, wantKeys)
	}

	if q := batch.Queries["q9"]; q.Title != "Attention Is All You Need" || q.Author != "Vaswani" {
		t.Errorf("q9 = %+v", q)
	}
	if q := batch.Queries["q1"]; q.PublicationType != "book" {
		t.Errorf("q1 = %+v", q)
	}
	if q := batch.Queries["q5"]; q.PublicationYear != 2020 {
		t.Errorf("q5 = %+v", q)
	}
}

func TestParseQueryBatchProperties(t *testing.T) {
	tests := []struct {
		name string
		data string
		want types.CitationQuery
	}{
		{
			"year as JSON string",
			`{"k": {"query": "t", "properties": [{"pid": "publication_year", "v": "1998"}]}}`,
			types.CitationQuery{Title: "t", PublicationYear: 1998},
		},
		{
			"year as JSON number",
			`{"k": {"query": "t", "properties": [{"pid": "publication_year", "v": 1998}]}}`,
			types.CitationQuery{Title: "t", PublicationYear: 1998},
		},
		{
			"non-numeric year ignored",
			`{"k": {"query": "t", "properties": [{"pid": "publication_year", "v": "last year"}]}}`,
			types.CitationQuery{Title: "t"},
		},
		{
			"unknown pid ignored",
			`{"k": {"query": "t", "properties": [{"pid": "publisher", "v": "Springer"}]}}`,
			types.CitationQuery{Title: "t"},
		},
		{
			"no properties",
			`{"k": {"query": "t"}}`,
			types.CitationQuery{Title: "t"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := ParseQueryBatch([]byte(tt.data))
			if err != nil {
				t.Fatalf("ParseQueryBatch() error: %v", err)
			}
			if got := batch.Queries["k"]; got != tt.want {
				t.Errorf("query = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseQueryBatchMalformed(t *testing.T) {
	for _, data := range []string{"", "[]", `{"k": 5}`, `{"k": {"query": "t"`} {
		if _, err := ParseQueryBatch([]byte(data)); err == nil {
			t.Errorf("ParseQueryBatch(%q) did not fail", data)
		}
	}
}
