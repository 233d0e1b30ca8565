package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/alexiusacademia/gobeam/internal/beam"
	"github.com/alexiusacademia/gobeam/internal/engine"
	"github.com/alexiusacademia/gobeam/internal/export"
)

func testServer(t *testing.T, cfg Config, repo Repository) *httptest.Server {
	t.Helper()
	if cfg.RateRPS == 0 {
		cfg.RateRPS = 1000
		cfg.RateBurst = 1000
	}
	s := New(cfg, log.New(io.Discard), repo)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts
}

// simpleDoc is a 6 m simple span carrying 10 kN at midspan.
func simpleDoc() export.Document {
	return export.Document{
		Beam:     export.BeamDoc{Length: 6, EI: 30000},
		Supports: []export.SupportDoc{{Position: 0}, {Position: 6}},
		Loads:    []export.LoadDoc{{Type: export.LoadTypePoint, Position: 3, Magnitude: 10000}},
	}
}

func continuousDoc() export.Document {
	return export.Document{
		Beam:     export.BeamDoc{Length: 10, EI: 25000},
		Supports: []export.SupportDoc{{Position: 0}, {Position: 5}, {Position: 10}},
		Loads: []export.LoadDoc{{
			Type: export.LoadTypeDistributed,
			Start: 0, End: 10,
			StartIntensity: 3000, EndIntensity: 3000,
		}},
	}
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(data)
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", jsonBody(t, body))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	ts := testServer(t, Config{}, nil)

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Request-ID"); got == "" {
		t.Error("response is missing X-Request-ID")
	}

	var body map[string]string
	decodeJSON(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf(`status = %q, want "ok"`, body["status"])
	}
	if body["version"] == "" {
		t.Error("health response is missing the version")
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	ts := testServer(t, Config{}, nil)

	resp := postJSON(t, ts.URL+"/api/analyze", AnalyzeRequest{Document: simpleDoc()})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var ar AnalyzeResponse
	decodeJSON(t, resp, &ar)

	if ar.Class != beam.Determinate {
		t.Errorf("Class = %v, want determinate", ar.Class)
	}
	if len(ar.Reactions) != 2 {
		t.Fatalf("len(Reactions) = %d, want 2", len(ar.Reactions))
	}
	for _, re := range ar.Reactions {
		if re.Value != 5000 {
			t.Errorf("reaction %s = %g, want 5000", re.Name, re.Value)
		}
	}
	gov := ar.Maxima[engine.Moment].Governing
	if gov.X != 3 || abs(gov.Value-15000) > 1e-6 {
		t.Errorf("governing moment = %+v, want 15000 at x=3", gov)
	}
	if len(ar.X) == 0 || len(ar.X) != len(ar.Deflection) {
		t.Errorf("series lengths x=%d deflection=%d", len(ar.X), len(ar.Deflection))
	}
}

func TestAnalyzeEndpointRejects(t *testing.T) {
	ts := testServer(t, Config{}, nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{`},
		{name: "negative length", body: `{"beam":{"length_m":-1,"ei_nm2":1},"supports":[{"position_m":0}]}`},
		{name: "one support", body: `{"beam":{"length_m":6,"ei_nm2":1},"supports":[{"position_m":0}]}`},
		{name: "unknown load", body: `{"beam":{"length_m":6,"ei_nm2":1},"supports":[{"position_m":0},{"position_m":6}],"loads":[{"type":"torsion"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/analyze", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestBatchEndpoint(t *testing.T) {
	ts := testServer(t, Config{}, nil)

	bad := simpleDoc()
	bad.Beam.Length = -1
	req := BatchRequest{Items: []export.Document{simpleDoc(), bad, continuousDoc()}}

	resp := postJSON(t, ts.URL+"/api/batch", req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var br BatchResponse
	decodeJSON(t, resp, &br)

	if br.Count != 2 {
		t.Errorf("Count = %d, want 2", br.Count)
	}
	if len(br.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(br.Results))
	}
	if br.Results[0].Error != "" || br.Results[0].Result == nil {
		t.Errorf("results[0] = %+v, want a clean result", br.Results[0])
	}
	if br.Results[1].Error == "" {
		t.Error("results[1] should carry the validation error")
	}
	if br.Results[2].Result == nil || br.Results[2].Result.Class != beam.Indeterminate {
		t.Errorf("results[2] should be the indeterminate model")
	}

	empty := postJSON(t, ts.URL+"/api/batch", BatchRequest{})
	empty.Body.Close()
	if empty.StatusCode != http.StatusBadRequest {
		t.Errorf("empty batch status = %d, want 400", empty.StatusCode)
	}
}

func TestImportEndpoint(t *testing.T) {
	ts := testServer(t, Config{}, nil)

	var workbook bytes.Buffer
	if err := export.WriteBatchTemplate(&workbook); err != nil {
		t.Fatal(err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "batch.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(workbook.Bytes()); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	resp, err := http.Post(ts.URL+"/api/import", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var ir ImportResponse
	decodeJSON(t, resp, &ir)
	if ir.Count != 1 || len(ir.Results) != 1 {
		t.Fatalf("response = %+v, want one clean row", ir)
	}
	if ir.Results[0].Row != 2 || ir.Results[0].Result == nil {
		t.Errorf("results[0] = %+v, want row 2 with a result", ir.Results[0])
	}

	noFile, err := http.Post(ts.URL+"/api/import", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	noFile.Body.Close()
	if noFile.StatusCode != http.StatusBadRequest {
		t.Errorf("missing file status = %d, want 400", noFile.StatusCode)
	}
}

func TestReportEndpoint(t *testing.T) {
	ts := testServer(t, Config{}, nil)

	resp := postJSON(t, ts.URL+"/api/report", ReportRequest{Document: simpleDoc(), Units: "si-kn"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", got)
	}
	if got := resp.Header.Get("Content-Disposition"); !strings.Contains(got, "attachment") {
		t.Errorf("Content-Disposition = %q, want an attachment", got)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("body does not start with a PDF header")
	}

	badUnits := postJSON(t, ts.URL+"/api/report", ReportRequest{Document: simpleDoc(), Units: "bananas"})
	badUnits.Body.Close()
	if badUnits.StatusCode != http.StatusBadRequest {
		t.Errorf("bad units status = %d, want 400", badUnits.StatusCode)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	repo := NewMemoryRepository()
	ts := testServer(t, Config{}, repo)

	for i := 0; i < 2; i++ {
		resp := postJSON(t, ts.URL+"/api/analyze", AnalyzeRequest{Document: simpleDoc()})
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("analyze %d status = %d", i, resp.StatusCode)
		}
	}

	resp, err := http.Get(ts.URL + "/api/history")
	if err != nil {
		t.Fatal(err)
	}
	var recs []AnalysisRecord
	decodeJSON(t, resp, &recs)
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	if recs[0].ID <= recs[1].ID {
		t.Errorf("history not newest-first: ids %d, %d", recs[0].ID, recs[1].ID)
	}
	if recs[0].Class != "determinate" || recs[0].TotalLoad != 10000 {
		t.Errorf("recs[0] = %+v", recs[0])
	}

	limited, err := http.Get(ts.URL + "/api/history?limit=1")
	if err != nil {
		t.Fatal(err)
	}
	var one []AnalysisRecord
	decodeJSON(t, limited, &one)
	if len(one) != 1 {
		t.Errorf("limited history length = %d, want 1", len(one))
	}

	bad, err := http.Get(ts.URL + "/api/history?limit=wat")
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", bad.StatusCode)
	}
}

func TestHistoryDisabledWithoutRepo(t *testing.T) {
	ts := testServer(t, Config{}, nil)
	resp, err := http.Get(ts.URL + "/api/history")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := testServer(t, Config{}, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/analyze", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
