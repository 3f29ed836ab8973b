package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/japaniel/citylex/pkg/catalog"
	"github.com/japaniel/citylex/pkg/export"
)

// maxFormMemory bounds multipart form parsing.
const maxFormMemory = 1 << 20

type fieldView struct {
	ID     string `json:"id"`
	Column string `json:"column"`
}

type sourceView struct {
	ID       string      `json:"id"`
	Relation string      `json:"relation"`
	Tagset   string      `json:"tagset,omitempty"`
	Fields   []fieldView `json:"fields"`
}

type catalogView struct {
	Sources       []sourceView `json:"sources"`
	Columns       []string     `json:"columns"`
	OutputFormats []string     `json:"output_formats"`
}

func newCatalogView(cat *catalog.Catalog) catalogView {
	view := catalogView{}
	for _, src := range cat.Sources() {
		sv := sourceView{ID: string(src.ID), Relation: src.Relation, Tagset: string(src.Tagset)}
		for _, m := range src.Mappings {
			sv.Fields = append(sv.Fields, fieldView{ID: string(m.Field), Column: m.To.String()})
		}
		view.Sources = append(view.Sources, sv)
	}
	for _, col := range catalog.FixedColumns {
		view.Columns = append(view.Columns, col.String())
	}
	for _, col := range catalog.DerivedColumns {
		view.Columns = append(view.Columns, col.String())
	}
	for _, f := range export.Formats {
		view.OutputFormats = append(view.OutputFormats, f.Name)
	}
	return view
}

// handleCatalog lists the selectable sources and fields.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, s.catalog)
}

// handleExport reads the selection form and answers with the export as an
// attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		exportsTotal.WithLabelValues(outcomeClientError).Inc()
		respondError(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	sel := export.Selection{
		Sources:      r.PostForm["sources[]"],
		Fields:       r.PostForm["fields[]"],
		OutputFormat: r.PostFormValue("output_format"),
		Licenses:     r.PostForm["licenses"],
	}

	start := time.Now()
	res, err := s.exporter.Export(r.Context(), sel)
	exportDurationHistogram.Observe(time.Since(start).Seconds())
	if err != nil {
		s.exportFailed(w, err)
		return
	}

	exportsTotal.WithLabelValues(outcomeOK).Inc()
	exportRowsTotal.Add(float64(res.Rows))
	exportBytesTotal.Add(float64(len(res.Body)))

	w.Header().Set("Content-Type", res.Format.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+res.Format.Filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Body)))
	w.Header().Set("X-Export-Id", res.ID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Body); err != nil {
		s.logger.Warn("write export body", zap.String("export_id", res.ID), zap.Error(err))
	}
}

func (s *Server) exportFailed(w http.ResponseWriter, err error) {
	var invalid *export.InvalidSelectionError
	switch {
	case errors.As(err, &invalid):
		exportsTotal.WithLabelValues(outcomeClientError).Inc()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(invalid.Error()))
	case export.IsClientError(err):
		exportsTotal.WithLabelValues(outcomeClientError).Inc()
		respondError(w, err.Error(), http.StatusBadRequest)
	default:
		exportsTotal.WithLabelValues(outcomeServerError).Inc()
		s.logger.Error("export failed", zap.Error(err))
		respondError(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleHealth reports whether the lexicon store can be reached.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.check != nil {
		if err := s.check(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			respondError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
	}
	respondJSON(w, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": message,
	})
}
