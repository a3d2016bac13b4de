// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"context"
	"fmt"

	"github.com/pdiddy/crossref-reconcile/pkg/types"
)

// Catalog is the external bibliographic catalog the engine depends on.
// Search returns up to rows candidate records for a bibliographic query,
// in the catalog's own relevance order. WorkByDOI fetches one record's
// full metadata for the preview page.
type Catalog interface {
	Search(ctx context.Context, title, author string, rows int) ([]types.CandidateRecord, error)
	WorkByDOI(ctx context.Context, doi string) (types.CandidateRecord, error)
}

// Engine reconciles citation queries against a catalog. It holds no
// per-call state and is safe for concurrent use.
type Engine struct {
	catalog Catalog
	cfg     types.MatchConfig
}

// NewEngine builds an engine around the given catalog. Zero config fields
// fall back to the documented defaults (threshold 40, candidate cap 3).
func NewEngine(catalog Catalog, cfg types.MatchConfig) *Engine {
	if cfg.Threshold <= 0 {
		cfg.Threshold = types.DefaultThreshold
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = types.DefaultMaxCandidates
	}
	return &Engine{catalog: catalog, cfg: cfg}
}

// Process reconciles a single citation query: it fetches candidates from
// the catalog, filters them by the query's type and year, scores each
// remaining candidate that has a title, and keeps those whose score
// strictly exceeds the threshold. Candidates are returned in the order the
// catalog ranked them, not re-sorted by score.
//
// A catalog transport failure is wrapped and propagated; no retry is
// attempted.
func (e *Engine) Process(ctx context.Context, query types.CitationQuery) ([]types.ScoredCandidate, error) {
	records, err := e.catalog.Search(ctx, query.Title, query.Author, e.cfg.MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("catalog search for %q: %w", query.Title, err)
	}

	records = FilterCandidates(records, query.PublicationType, query.PublicationYear)

	var kept []types.ScoredCandidate
	for _, rec := range records {
		title, ok := rec.Title()
		if !ok {
			continue
		}
		score := Score(query.Title, title, query.Author, FirstAuthorSurname(rec))
		if score > e.cfg.Threshold {
			kept = append(kept, types.ScoredCandidate{Score: score, Record: rec})
		}
	}
	return kept, nil
}

// ProcessBatch reconciles each query of the batch sequentially, in key
// insertion order, and assembles the keyed result mapping. The first
// failing query aborts the batch: no partial mapping is returned.
func (e *Engine) ProcessBatch(ctx context.Context, batch types.QueryBatch) (types.BatchResult, error) {
	result := types.BatchResult{Results: make(map[string][]types.ReconciledCandidate, len(batch.Keys))}
	for _, key := range batch.Keys {
		scored, err := e.Process(ctx, batch.Queries[key])
		if err != nil {
			return types.BatchResult{}, fmt.Errorf("query %q: %w", key, err)
		}
		result.Add(key, Project(scored))
	}
	return result, nil
}

// Project converts scored candidates into the protocol output shape. The
// match flag is always true for candidates that passed the threshold.
func Project(scored []types.ScoredCandidate) []types.ReconciledCandidate {
	out := make([]types.ReconciledCandidate, 0, len(scored))
	for _, sc := range scored {
		title, _ := sc.Record.Title()
		rc := types.ReconciledCandidate{
			ID:    sc.Record.DOI,
			Name:  title,
			Score: sc.Score,
			Match: true,
		}
		if sc.Record.Type != "" {
			rc.Type = []types.TypeDescriptor{{ID: sc.Record.Type, Name: sc.Record.Type}}
		}
		out = append(out, rc)
	}
	return out
}
