package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	htmlreport "github.com/panbanda/qosrank/internal/report"
)

func writeRankingJSON(t *testing.T, ws workspace) string {
	t.Helper()
	path := filepath.Join(ws.dir, "ranking.json")
	if _, err := run(t, "-c", ws.config, "rank", "--no-cache", "-f", "json", "-o", path, ws.dataset); err != nil {
		t.Fatalf("rank failed: %v", err)
	}
	return path
}

func TestReportRenderCommand(t *testing.T) {
	ws := newWorkspace(t)
	reportPath := writeRankingJSON(t, ws)
	htmlPath := filepath.Join(ws.dir, "ranking.html")

	if _, err := run(t, "report", "render", "-o", htmlPath, "--dataset", "QWS sample", reportPath); err != nil {
		t.Fatalf("report render failed: %v", err)
	}
	html := readFile(t, htmlPath)
	for _, want := range []string{"<title>QoS Ranking - QWS sample</title>", "CasUsers", "VIKOR Rank"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestReportRenderErrors(t *testing.T) {
	ws := newWorkspace(t)

	if _, err := run(t, "report", "render"); err == nil || !strings.Contains(err.Error(), "exactly one JSON report") {
		t.Errorf("render without args error = %v", err)
	}

	weights := filepath.Join(ws.dir, "weights.json")
	if _, err := run(t, "-c", ws.config, "weights", "-f", "json", "-o", weights, ws.dataset); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "report", "render", "-o", filepath.Join(ws.dir, "x.html"), weights); err == nil {
		t.Error("rendering a weights document should fail")
	}
}

func TestReportHandler(t *testing.T) {
	ws := newWorkspace(t)
	reportPath := writeRankingJSON(t, ws)

	renderer, err := htmlreport.NewRenderer()
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	reportHandler(renderer, reportPath, htmlreport.Metadata{Dataset: "qws.csv"})(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "MAPPMatching") {
		t.Error("served page missing alternatives")
	}

	rec = httptest.NewRecorder()
	reportHandler(renderer, filepath.Join(ws.dir, "gone.json"), htmlreport.Metadata{})(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status for missing report = %d, want 500", rec.Code)
	}
}
