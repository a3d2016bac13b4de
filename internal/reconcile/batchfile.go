// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/crossref-reconcile/pkg/types"
)

// BatchFile is the on-disk representation of a reconciliation batch for
// the CLI: a list of keyed citation queries.
type BatchFile struct {
	Queries []BatchFileQuery `yaml:"queries"`
}

// BatchFileQuery is one keyed query entry. Key is optional; entries
// without one are keyed by position ("q1", "q2", ...).
type BatchFileQuery struct {
	Key    string `yaml:"key,omitempty"`
	Title  string `yaml:"title"`
	Author string `yaml:"author,omitempty"`
	Type   string `yaml:"type,omitempty"`
	Year   int    `yaml:"year,omitempty"`
}

// ResultFile is the on-disk representation of batch results, in the order
// the queries were processed.
type ResultFile struct {
	Results   []ResultFileEntry `yaml:"results"`
	Timestamp time.Time         `yaml:"timestamp"`
}

// ResultFileEntry holds one key's ranked candidates.
type ResultFileEntry struct {
	Key        string                      `yaml:"key"`
	Candidates []types.ReconciledCandidate `yaml:"candidates"`
}

// ReadBatchFile loads a YAML batch file into a QueryBatch, preserving
// entry order.
func ReadBatchFile(path string) (types.QueryBatch, error) {
	var batch types.QueryBatch

	data, err := os.ReadFile(path)
	if err != nil {
		return batch, fmt.Errorf("reading batch file: %w", err)
	}
	var bf BatchFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return batch, fmt.Errorf("parsing batch file: %w", err)
	}

	for i, entry := range bf.Queries {
		key := entry.Key
		if key == "" {
			key = fmt.Sprintf("q%d", i+1)
		}
		batch.Add(key, types.CitationQuery{
			Title:           entry.Title,
			Author:          entry.Author,
			PublicationType: entry.Type,
			PublicationYear: entry.Year,
		})
	}
	return batch, nil
}

// WriteResultFile saves batch results to a YAML file in key order.
func WriteResultFile(path string, result types.BatchResult) error {
	rf := ResultFile{Timestamp: time.Now()}
	for _, key := range result.Keys {
		rf.Results = append(rf.Results, ResultFileEntry{
			Key:        key,
			Candidates: result.Results[key],
		})
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
