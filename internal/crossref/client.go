// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crossref implements the catalog client for the Crossref works
// API. Each call is a single best-effort round trip; failures are wrapped
// in ErrUnavailable and surfaced immediately, never retried.
package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pdiddy/crossref-reconcile/pkg/types"
)

// worksBase is the Crossref works endpoint. Declared as a var so tests can
// substitute an httptest server.
var worksBase = "https://api.crossref.org/works"

// ErrUnavailable indicates the catalog call failed at the transport or
// HTTP layer. Callers detect it with errors.Is.
var ErrUnavailable = errors.New("crossref unavailable")

const defaultTimeout = 30 * time.Second

// Client queries the Crossref REST API.
type Client struct {
	httpClient *http.Client
	mailto     string
	userAgent  string
}

// NewClient builds a client from catalog configuration.
func NewClient(cfg types.CatalogConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		mailto:     cfg.Mailto,
		userAgent:  cfg.UserAgent,
	}
}

// Search returns up to rows candidate records for a bibliographic query,
// in Crossref's own relevance order. The title is the primary search key;
// a non-empty author narrows the query.
func (c *Client) Search(ctx context.Context, title, author string, rows int) ([]types.CandidateRecord, error) {
	params := url.Values{
		"query.bibliographic": {title},
		"rows":                {strconv.Itoa(rows)},
	}
	if author != "" {
		params.Set("query.author", author)
	}
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}

	var wr worksResponse
	if err := c.get(ctx, worksBase+"?"+params.Encode(), &wr); err != nil {
		return nil, err
	}
	return wr.Message.Items, nil
}

// WorkByDOI fetches the full metadata record for one DOI.
func (c *Client) WorkByDOI(ctx context.Context, doi string) (types.CandidateRecord, error) {
	var wr workResponse
	if err := c.get(ctx, worksBase+"/"+url.PathEscape(doi), &wr); err != nil {
		return types.CandidateRecord{}, err
	}
	return wr.Message, nil
}

func (c *Client) get(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing crossref response: %w", err)
	}
	return nil
}

// Crossref API JSON envelopes.
type worksResponse struct {
	Message worksMessage `json:"message"`
}

type worksMessage struct {
	Items []types.CandidateRecord `json:"items"`
}

type workResponse struct {
	Message types.CandidateRecord `json:"message"`
}
