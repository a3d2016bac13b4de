// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the reconciliation protocol over HTTP: the
// service manifest, the batch reconciliation endpoint, property
// suggestions, and the human-readable record preview.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdiddy/crossref-reconcile/internal/crossref"
	"github.com/pdiddy/crossref-reconcile/internal/reconcile"
	"github.com/pdiddy/crossref-reconcile/pkg/types"
)

// suggestProperties lists the query properties the service understands.
var suggestProperties = []types.SuggestProperty{
	{Name: "author", Description: "Family name of first author.", ID: "author"},
	{Name: "publication year", Description: "Year of the publication.", ID: "publication_year"},
}

// Handler serves the reconciliation protocol endpoints.
type Handler struct {
	engine   *reconcile.Engine
	catalog  reconcile.Catalog
	manifest types.Manifest
}

// New builds a handler around the engine and its catalog. domain is the
// public base URL of this service, used in the manifest's preview and
// suggest templates.
func New(engine *reconcile.Engine, catalog reconcile.Catalog, domain string) *Handler {
	return &Handler{
		engine:   engine,
		catalog:  catalog,
		manifest: buildManifest(domain),
	}
}

// buildManifest assembles the static service descriptor.
func buildManifest(domain string) types.Manifest {
	domain = strings.TrimRight(domain, "/")
	return types.Manifest{
		Name:            "Crossref Reconciliation Service",
		DefaultTypes:    []types.TypeDescriptor{},
		IdentifierSpace: "http://localhost/identifier",
		SchemaSpace:     "http://localhost/schema",
		View: types.ViewTemplate{
			URL: "https://search.crossref.org/?from_ui=yes&q={{id}}",
		},
		Preview: types.PreviewTemplate{
			URL:    domain + "/preview?id={{id}}",
			Height: 250,
			Width:  350,
		},
		Suggest: types.SuggestService{
			Property: types.SuggestEndpoint{
				ServiceURL:  domain,
				ServicePath: "/suggest",
			},
		},
	}
}

// Routes wires the endpoint handlers into a mux wrapped with CORS and
// per-request instrumentation.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handleRoot)
	mux.HandleFunc("/queries", h.handleQueries)
	mux.HandleFunc("/suggest", h.handleSuggest)
	mux.HandleFunc("/preview", h.handlePreview)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	return corsMiddleware(instrumentMiddleware(mux))
}

// handleRoot serves the manifest on GET (with optional JSONP callback) and
// reconciles a form-encoded batch on POST. The mux routes every unmatched
// path here, so anything but "/" itself is a 404; this also keeps the
// metrics path label bounded.
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		if callback := r.URL.Query().Get("callback"); callback != "" {
			data, err := json.Marshal(h.manifest)
			if err != nil {
				h.writeError(w, "Unable to encode manifest", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "text/javascript")
			fmt.Fprintf(w, "%s(%s)", callback, data)
			return
		}
		h.writeJSON(w, h.manifest)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			h.writeError(w, "Malformed form body", http.StatusBadRequest)
			return
		}
		h.reconcileBatch(w, r, r.PostFormValue("queries"))
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleQueries reconciles a batch passed as a query parameter. The
// endpoint is GET only; form-encoded batches go to the root endpoint.
func (h *Handler) handleQueries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.reconcileBatch(w, r, r.URL.Query().Get("queries"))
}

// reconcileBatch parses and processes one batch. A catalog outage surfaces
// as a single 502 for the whole batch; no partial mapping is returned.
func (h *Handler) reconcileBatch(w http.ResponseWriter, r *http.Request, raw string) {
	if raw == "" {
		h.writeError(w, "Missing queries parameter", http.StatusBadRequest)
		return
	}

	batch, err := reconcile.ParseQueryBatch([]byte(raw))
	if err != nil {
		h.writeError(w, "Malformed queries: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.engine.ProcessBatch(r.Context(), batch)
	if err != nil {
		slog.Error("Batch reconciliation failed", "err", err, "queries", len(batch.Keys))
		if errors.Is(err, crossref.ErrUnavailable) {
			h.writeError(w, "Catalog unavailable", http.StatusBadGateway)
			return
		}
		h.writeError(w, "Reconciliation failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, result)
}

// handleSuggest filters the advertised properties by a case-insensitive
// substring of their names.
func (h *Handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	prefix := strings.ToLower(r.URL.Query().Get("prefix"))

	matched := []types.SuggestProperty{}
	for _, p := range suggestProperties {
		if strings.Contains(strings.ToLower(p.Name), prefix) {
			matched = append(matched, p)
		}
	}
	h.writeJSON(w, map[string][]types.SuggestProperty{"result": matched})
}

func (h *Handler) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message, "status", code)
	http.Error(w, message, code)
}
