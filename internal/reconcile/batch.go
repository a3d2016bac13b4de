// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/crossref-reconcile/pkg/types"
)

// ParseQueryBatch decodes a protocol batch (a JSON object mapping caller
// keys to query requests) into a QueryBatch, preserving the object's key
// order. encoding/json maps discard order, so the object is walked token
// by token.
func ParseQueryBatch(data []byte) (types.QueryBatch, error) {
	var batch types.QueryBatch

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return batch, fmt.Errorf("parsing query batch: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return batch, fmt.Errorf("parsing query batch: expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return batch, fmt.Errorf("parsing query batch: %w", err)
		}
		key := tok.(string)

		var req types.QueryRequest
		if err := dec.Decode(&req); err != nil {
			return batch, fmt.Errorf("parsing query %q: %w", key, err)
		}
		batch.Add(key, toCitation(req))
	}

	if _, err := dec.Token(); err != nil {
		return batch, fmt.Errorf("parsing query batch: %w", err)
	}
	return batch, nil
}

// toCitation converts a protocol query request into a citation query.
// Unrecognized property ids contribute no constraint, as do
// publication_year values that are not whole numbers.
func toCitation(req types.QueryRequest) types.CitationQuery {
	q := types.CitationQuery{
		Title:           req.Query,
		PublicationType: req.Type,
	}
	for _, p := range req.Properties {
		switch p.PID {
		case "author":
			q.Author = string(p.V)
		case "publication_year":
			if year, ok := p.V.Int(); ok {
				q.PublicationYear = year
			}
		}
	}
	return q
}
