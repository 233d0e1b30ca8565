package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alexiusacademia/gobeam/internal/beam"
	"github.com/alexiusacademia/gobeam/internal/engine"
	"github.com/alexiusacademia/gobeam/internal/export"
	"github.com/alexiusacademia/gobeam/internal/units"
	"github.com/alexiusacademia/gobeam/internal/version"
)

// AnalyzeRequest is a model document plus analysis options. All values SI.
type AnalyzeRequest struct {
	export.Document
	Resolution int `json:"resolution,omitempty"`
}

// SeriesExtremes bundles the extremes of one diagram series.
type SeriesExtremes struct {
	Min       engine.Extreme `json:"min"`
	Max       engine.Extreme `json:"max"`
	Governing engine.Extreme `json:"governing"`
}

// AnalyzeResponse is the full analysis result with per-series extremes.
type AnalyzeResponse struct {
	*engine.Result
	Maxima map[engine.Quantity]SeriesExtremes `json:"maxima"`
}

// BatchRequest analyzes several documents in one call.
type BatchRequest struct {
	Items      []export.Document `json:"items"`
	Resolution int               `json:"resolution,omitempty"`
}

// BatchEntry is one batch outcome, result or error.
type BatchEntry struct {
	Index  int              `json:"index"`
	Result *AnalyzeResponse `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// BatchResponse reports how many items analyzed cleanly plus every
// per-item outcome.
type BatchResponse struct {
	Count   int          `json:"count"`
	Results []BatchEntry `json:"results"`
}

// ImportEntry is one workbook row outcome, keyed by its sheet row.
type ImportEntry struct {
	Row    int              `json:"row"`
	Result *AnalyzeResponse `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// ImportResponse mirrors BatchResponse for XLSX uploads.
type ImportResponse struct {
	Count   int           `json:"count"`
	Results []ImportEntry `json:"results"`
}

// ReportRequest renders a PDF report. Units picks the display unit system,
// defaulting to SI.
type ReportRequest struct {
	export.Document
	Resolution int    `json:"resolution,omitempty"`
	Units      string `json:"units,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok", "version": version.Version})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	b, err := req.Document.Model()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := s.run(r.Context(), b, req.Resolution)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, newAnalyzeResponse(res))
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		http.Error(w, "No items", http.StatusBadRequest)
		return
	}

	resp := BatchResponse{Results: make([]BatchEntry, 0, len(req.Items))}
	for i, doc := range req.Items {
		entry := BatchEntry{Index: i}
		if res, err := s.runDocument(r.Context(), doc, req.Resolution); err != nil {
			entry.Error = err.Error()
		} else {
			entry.Result = newAnalyzeResponse(res)
			resp.Count++
		}
		resp.Results = append(resp.Results, entry)
	}
	writeJSON(w, resp)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	items, err := export.ReadBatch(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := ImportResponse{Results: make([]ImportEntry, 0, len(items))}
	for _, it := range items {
		entry := ImportEntry{Row: it.Row}
		if it.Err != nil {
			entry.Error = it.Err.Error()
		} else if res, err := s.run(r.Context(), it.Beam, 0); err != nil {
			entry.Error = err.Error()
		} else {
			entry.Result = newAnalyzeResponse(res)
			resp.Count++
		}
		resp.Results = append(resp.Results, entry)
	}
	writeJSON(w, resp)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Units == "" {
		req.Units = "si"
	}
	sys, err := units.SystemByID(req.Units)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := req.Document.Model()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := s.run(r.Context(), b, req.Resolution)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteReport(&buf, b, res, sys); err != nil {
		s.log.Error("report rendering failed", "err", err)
		http.Error(w, "Report rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="beam-report.pdf"`)
	w.Write(buf.Bytes())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	if limit > 100 {
		limit = 100
	}

	recs, err := s.repo.RecentAnalyses(r.Context(), limit)
	if err != nil {
		s.log.Error("history query failed", "err", err)
		http.Error(w, "Storage error", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []AnalysisRecord{}
	}
	writeJSON(w, recs)
}

// run analyzes a validated model and appends the outcome to the history
// when a repository is attached. History failures are logged, not
// surfaced; the analysis result is still good.
func (s *Server) run(ctx context.Context, b *beam.Beam, resolution int) (*engine.Result, error) {
	res, err := engine.AnalyzeWithOptions(b, engine.Options{Resolution: resolution})
	if err != nil {
		return nil, err
	}
	if s.repo != nil {
		rec := AnalysisRecord{
			Class:         res.Class.String(),
			Length:        res.Length,
			Supports:      len(b.Supports),
			Loads:         len(b.Loads),
			TotalLoad:     b.TotalLoad(),
			MaxMoment:     res.AbsExtreme(engine.Moment).Value,
			MaxDeflection: res.AbsExtreme(engine.Deflection).Value,
			Warnings:      len(res.Warnings),
		}
		if _, err := s.repo.SaveAnalysis(ctx, rec); err != nil {
			s.log.Warn("history save failed", "err", err)
		}
	}
	return res, nil
}

func (s *Server) runDocument(ctx context.Context, doc export.Document, resolution int) (*engine.Result, error) {
	b, err := doc.Model()
	if err != nil {
		return nil, err
	}
	return s.run(ctx, b, resolution)
}

func newAnalyzeResponse(res *engine.Result) *AnalyzeResponse {
	maxima := make(map[engine.Quantity]SeriesExtremes, len(engine.Quantities))
	for _, q := range engine.Quantities {
		lo, hi := res.Extremes(q)
		maxima[q] = SeriesExtremes{Min: lo, Max: hi, Governing: res.AbsExtreme(q)}
	}
	return &AnalyzeResponse{Result: res, Maxima: maxima}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
