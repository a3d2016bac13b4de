// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pdiddy/crossref-reconcile/internal/crossref"
	"github.com/pdiddy/crossref-reconcile/pkg/types"
)

// previewTmpl renders a single record as a small HTML fragment sized for
// the manifest's preview iframe.
var previewTmpl = template.Must(template.New("preview").Parse(`<html>
    <head><meta charset="utf-8" /></head>
    <body>
    <div style="font-weight:bold">
        {{.Title}}
    </div>
    <div style="font-size:12px">
        {{range .Fields}}<p>{{.Label}}: {{.Value}}</p>
        {{end}}
    </div>
    </body>
</html>
`))

type previewField struct {
	Label string
	Value string
}

type previewData struct {
	Title  string
	Fields []previewField
}

// handlePreview fetches one record by identifier and renders it for human
// inspection. Absent metadata fields are omitted rather than rendered
// empty.
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.writeError(w, "Missing id parameter", http.StatusBadRequest)
		return
	}

	record, err := h.catalog.WorkByDOI(r.Context(), id)
	if err != nil {
		slog.Error("Preview lookup failed", "id", id, "err", err)
		if errors.Is(err, crossref.ErrUnavailable) {
			h.writeError(w, "Catalog unavailable", http.StatusBadGateway)
			return
		}
		h.writeError(w, "Preview failed", http.StatusInternalServerError)
		return
	}

	title, _ := record.Title()
	data := previewData{Title: title, Fields: previewFields(record)}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewTmpl.Execute(w, data); err != nil {
		slog.Error("Unable to render preview", "id", id, "err", err)
	}
}

// previewFields maps record metadata to labeled display fields, in a fixed
// order.
func previewFields(record types.CandidateRecord) []previewField {
	var fields []previewField

	if record.DOI != "" {
		fields = append(fields, previewField{"DOI", record.DOI})
	}
	if len(record.Authors) > 0 {
		names := make([]string, 0, len(record.Authors))
		for _, a := range record.Authors {
			names = append(names, strings.TrimSpace(a.Given+" "+a.Family))
		}
		fields = append(fields, previewField{"Author(s)", strings.Join(names, "; ")})
	}
	if record.Type != "" {
		fields = append(fields, previewField{"Type", record.Type})
	}
	if year, ok := record.PublicationYear(); ok {
		fields = append(fields, previewField{"Publication Date", fmt.Sprintf("%d", year)})
	}
	if record.Publisher != "" {
		fields = append(fields, previewField{"Publisher", record.Publisher})
	}
	if len(record.ContainerTitle) > 0 && record.ContainerTitle[0] != "" {
		fields = append(fields, previewField{"Container", record.ContainerTitle[0]})
	}
	return fields
}
