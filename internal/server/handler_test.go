// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/crossref-reconcile/internal/crossref"
	"github.com/pdiddy/crossref-reconcile/internal/reconcile"
	"github.com/pdiddy/crossref-reconcile/pkg/types"
)

// stubCatalog serves fixed records and can simulate an outage.
type stubCatalog struct {
	records []types.CandidateRecord
	// failTitle makes Search fail for one query title.
	failTitle string
}

func (s *stubCatalog) Search(_ context.Context, title, _ string, _ int) ([]types.CandidateRecord, error) {
	if s.failTitle != "" && s.failTitle == title {
		return nil, fmt.Errorf("%w: connection refused", crossref.ErrUnavailable)
	}
	return s.records, nil
}

func (s *stubCatalog) WorkByDOI(_ context.Context, doi string) (types.CandidateRecord, error) {
	for _, r := range s.records {
		if r.DOI == doi {
			return r, nil
		}
	}
	return types.CandidateRecord{}, fmt.Errorf("%w: HTTP 404", crossref.ErrUnavailable)
}

func vaswaniRecord() types.CandidateRecord {
	return types.CandidateRecord{
		DOI:            "10.5555/3295222",
		Titles:         []string{"Attention is all you need"},
		Authors:        []types.Name{{Given: "Ashish", Family: "Vaswani"}},
		Type:           "proceedings-article",
		Published:      &types.DateField{DateParts: [][]int{{2017, 12}}},
		Publisher:      "Curran Associates",
		ContainerTitle: []string{"Advances in Neural Information Processing Systems"},
	}
}

func newTestHandler(catalog *stubCatalog) http.Handler {
	engine := reconcile.NewEngine(catalog, types.MatchConfig{})
	return New(engine, catalog, "http://reconcile.example.org/").Routes()
}

func TestManifest(t *testing.T) {
	handler := newTestHandler(&stubCatalog{})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var m types.Manifest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, "Crossref Reconciliation Service", m.Name)
	assert.Equal(t, "http://reconcile.example.org/preview?id={{id}}", m.Preview.URL)
	assert.Equal(t, "/suggest", m.Suggest.Property.ServicePath)
	assert.NotNil(t, m.DefaultTypes)
}

func TestManifestJSONP(t *testing.T) {
	handler := newTestHandler(&stubCatalog{})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?callback=jsonp123", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/javascript", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "jsonp123("))
	assert.True(t, strings.HasSuffix(body, ")"))
}

func TestReconcilePost(t *testing.T) {
	handler := newTestHandler(&stubCatalog{records: []types.CandidateRecord{vaswaniRecord()}})

	queries := `{"q1": {"query": "Attention Is All You Need", "properties": [{"pid": "author", "v": "Vaswani"}]}}`
	form := url.Values{"queries": {queries}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]struct {
		Result []types.ReconciledCandidate `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out["q1"].Result, 1)

	got := out["q1"].Result[0]
	assert.Equal(t, "10.5555/3295222", got.ID)
	assert.Equal(t, "Attention is all you need", got.Name)
	assert.True(t, got.Match)
	assert.GreaterOrEqual(t, got.Score, 95)
	require.Len(t, got.Type, 1)
	assert.Equal(t, "proceedings-article", got.Type[0].ID)
}

func TestReconcileGetQueries(t *testing.T) {
	handler := newTestHandler(&stubCatalog{records: []types.CandidateRecord{vaswaniRecord()}})

	queries := url.QueryEscape(`{"q1": {"query": "Attention Is All You Need"}}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/queries?queries="+queries, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"10.5555/3295222"`)
}

func TestReconcileKeyOrderInResponse(t *testing.T) {
	handler := newTestHandler(&stubCatalog{records: []types.CandidateRecord{vaswaniRecord()}})

	queries := url.QueryEscape(`{"zz": {"query": "Attention is all you need"}, "aa": {"query": "Attention is all you need"}}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/queries?queries="+queries, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Less(t, strings.Index(body, `"zz"`), strings.Index(body, `"aa"`))
}

func TestReconcileTypeMismatchGivesEmptyResult(t *testing.T) {
	handler := newTestHandler(&stubCatalog{records: []types.CandidateRecord{vaswaniRecord()}})

	queries := url.QueryEscape(`{"q1": {"query": "Attention is all you need", "type": "book"}}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/queries?queries="+queries, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"q1": {"result": []}}`, rec.Body.String())
}

func TestReconcileCatalogOutageIs502(t *testing.T) {
	catalog := &stubCatalog{
		records:   []types.CandidateRecord{vaswaniRecord()},
		failTitle: "failing query",
	}
	handler := newTestHandler(catalog)

	queries := url.QueryEscape(`{"q1": {"query": "Attention is all you need"}, "q2": {"query": "failing query"}}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/queries?queries="+queries, nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "q1")
}

func TestReconcileBadRequests(t *testing.T) {
	handler := newTestHandler(&stubCatalog{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/queries", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/queries?queries=not-json", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownPathIs404(t *testing.T) {
	handler := newTestHandler(&stubCatalog{})

	for _, path := range []string{"/favicon.ico", "/unknown", "/queries/extra"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, "path %s", path)
		assert.NotContains(t, rec.Body.String(), "Crossref Reconciliation Service")
	}
}

func TestQueriesEndpointIsGetOnly(t *testing.T) {
	handler := newTestHandler(&stubCatalog{records: []types.CandidateRecord{vaswaniRecord()}})

	queries := url.Values{"queries": {`{"q1": {"query": "Attention is all you need"}}`}}
	req := httptest.NewRequest(http.MethodPost, "/queries", strings.NewReader(queries.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSuggest(t *testing.T) {
	handler := newTestHandler(&stubCatalog{})

	tests := []struct {
		prefix  string
		wantIDs []string
	}{
		{"auth", []string{"author"}},
		{"publication", []string{"publication_year"}},
		{"year", []string{"publication_year"}},
		{"", []string{"author", "publication_year"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run("prefix="+tt.prefix, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/suggest?prefix="+url.QueryEscape(tt.prefix), nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var out map[string][]types.SuggestProperty
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
			var ids []string
			for _, p := range out["result"] {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestPreview(t *testing.T) {
	handler := newTestHandler(&stubCatalog{records: []types.CandidateRecord{vaswaniRecord()}})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/preview?id="+url.QueryEscape("10.5555/3295222"), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "Attention is all you need")
	assert.Contains(t, body, "DOI: 10.5555/3295222")
	assert.Contains(t, body, "Author(s): Ashish Vaswani")
	assert.Contains(t, body, "Type: proceedings-article")
	assert.Contains(t, body, "Publication Date: 2017")
	assert.Contains(t, body, "Publisher: Curran Associates")
	assert.Contains(t, body, "Container: Advances in Neural Information Processing Systems")
}

func TestPreviewErrors(t *testing.T) {
	handler := newTestHandler(&stubCatalog{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/preview", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/preview?id=10.1%2Funknown", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCORSHeaders(t *testing.T) {
	handler := newTestHandler(&stubCatalog{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealthcheck(t *testing.T) {
	handler := newTestHandler(&stubCatalog{})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
