// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// QueryRequest is one entry of a reconciliation batch as protocol clients
// send it: the free-text query, an optional type constraint, and a list of
// property constraints.
type QueryRequest struct {
	Query      string     `json:"query"`
	Type       string     `json:"type,omitempty"`
	Properties []Property `json:"properties,omitempty"`
}

// Property is a {pid, v} constraint attached to a query. Recognized pids
// are "author" and "publication_year"; unrecognized pids are ignored.
type Property struct {
	PID string        `json:"pid"`
	V   PropertyValue `json:"v"`
}

// PropertyValue accepts either a JSON string or a JSON number, since
// protocol clients send both for the same property.
type PropertyValue string

func (v *PropertyValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = PropertyValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = PropertyValue(n.String())
	return nil
}

// Int converts the value to an integer year. ok is false for values that
// are not whole numbers.
func (v PropertyValue) Int() (n int, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(v)))
	return n, err == nil
}

// QueryBatch is an ordered mapping of caller-supplied keys to citation
// queries. Keys are opaque to the engine, but their order is preserved
// through to the output so protocol clients see stable ordering.
type QueryBatch struct {
	Keys    []string
	Queries map[string]CitationQuery
}

// Add appends a query under key, keeping first-insertion order.
func (b *QueryBatch) Add(key string, q CitationQuery) {
	if b.Queries == nil {
		b.Queries = make(map[string]CitationQuery)
	}
	if _, ok := b.Queries[key]; !ok {
		b.Keys = append(b.Keys, key)
	}
	b.Queries[key] = q
}

// TypeDescriptor identifies a publication type in protocol output. The
// engine sets both fields to the catalog's type string.
type TypeDescriptor struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// ReconciledCandidate is the protocol projection of a scored candidate.
// Match is always true for candidates that passed the score threshold; the
// flag is mandated by the protocol and does not assert verified identity.
type ReconciledCandidate struct {
	ID    string           `json:"id" yaml:"id"`
	Name  string           `json:"name" yaml:"name"`
	Score int              `json:"score" yaml:"score"`
	Match bool             `json:"match" yaml:"match"`
	Type  []TypeDescriptor `json:"type,omitempty" yaml:"type,omitempty"`
}

// BatchResult maps each batch key to its ranked candidate list. Keys
// marshal in insertion order, which encoding/json's map handling cannot
// provide.
type BatchResult struct {
	Keys    []string
	Results map[string][]ReconciledCandidate
}

// Add records the candidate list for key, keeping first-insertion order.
func (r *BatchResult) Add(key string, candidates []ReconciledCandidate) {
	if r.Results == nil {
		r.Results = make(map[string][]ReconciledCandidate)
	}
	if _, ok := r.Results[key]; !ok {
		r.Keys = append(r.Keys, key)
	}
	r.Results[key] = candidates
}

// resultEntry is the per-key wrapper the protocol expects.
type resultEntry struct {
	Result []ReconciledCandidate `json:"result"`
}

// MarshalJSON writes the mapping as a JSON object with keys in insertion
// order. Candidate lists are never null: an empty list marshals as [].
func (r BatchResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		entry := resultEntry{Result: r.Results[key]}
		if entry.Result == nil {
			entry.Result = []ReconciledCandidate{}
		}
		v, err := json.Marshal(entry)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Manifest is the static service descriptor protocol clients fetch to
// discover the service's capabilities.
type Manifest struct {
	Name            string           `json:"name"`
	DefaultTypes    []TypeDescriptor `json:"defaultTypes"`
	IdentifierSpace string           `json:"identifierSpace"`
	SchemaSpace     string           `json:"schemaSpace"`
	View            ViewTemplate     `json:"view"`
	Preview         PreviewTemplate  `json:"preview"`
	Suggest         SuggestService   `json:"suggest"`
}

// ViewTemplate is the URL template for viewing a record in the catalog's
// own UI; {{id}} is substituted by the client.
type ViewTemplate struct {
	URL string `json:"url"`
}

// PreviewTemplate describes the human-preview endpoint and its iframe size.
type PreviewTemplate struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SuggestService advertises the property-suggest endpoint.
type SuggestService struct {
	Property SuggestEndpoint `json:"property"`
}

// SuggestEndpoint locates one suggest service.
type SuggestEndpoint struct {
	ServiceURL  string `json:"service_url"`
	ServicePath string `json:"service_path"`
}

// SuggestProperty is one queryable property advertised to clients.
type SuggestProperty struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ID          string `json:"id"`
}
