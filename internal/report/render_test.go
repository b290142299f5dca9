package report

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/panbanda/qosrank/internal/testutil"
	"github.com/panbanda/qosrank/pkg/engine"
	"github.com/panbanda/qosrank/pkg/models"
	"github.com/panbanda/qosrank/pkg/report"
)

func sampleReport(t *testing.T) *report.Report {
	t.Helper()
	res, err := engine.New().Run(context.Background(), testutil.QWSSample(t))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return res.Report
}

func TestNewRenderData(t *testing.T) {
	rep := sampleReport(t)
	data := NewRenderData(rep, Metadata{Dataset: "qws.csv"})

	if data.Metadata.GeneratedAt.IsZero() {
		t.Error("GeneratedAt should default to now")
	}
	if len(data.Methods) != len(rep.Methods) {
		t.Fatalf("Methods = %d, want %d", len(data.Methods), len(rep.Methods))
	}
	if len(data.Rows) != len(rep.Rows) || len(data.Chart.Labels) != len(rep.Rows) {
		t.Fatalf("Rows = %d, labels = %d, want %d", len(data.Rows), len(data.Chart.Labels), len(rep.Rows))
	}
	for _, row := range data.Rows {
		if len(row.Values) != len(rep.Criteria) || len(row.Cells) != len(rep.Methods) {
			t.Errorf("row %s has %d values and %d cells", row.ID, len(row.Values), len(row.Cells))
		}
	}

	leaders := map[string]bool{}
	for _, l := range data.Leaders {
		leaders[l.Method] = true
	}
	for _, m := range rep.Methods {
		if !leaders[m.Title()] {
			t.Errorf("no rank-1 leader for %s", m.Title())
		}
	}

	total := 0.0
	for _, c := range data.Criteria {
		total += c.Percent
	}
	if total < 99.9999 || total > 100.0001 {
		t.Errorf("weight percentages sum to %v, want 100", total)
	}
	if len(data.Agreement) != len(rep.Agreement) {
		t.Errorf("Agreement = %d, want %d", len(data.Agreement), len(rep.Agreement))
	}
}

func TestRankClass(t *testing.T) {
	tests := []struct {
		rank, worst int
		want        string
	}{
		{1, 9, "good"},
		{9, 9, "danger"},
		{3, 9, "warning"},
		{5, 9, ""},
		{1, 1, "good"},
	}
	for _, tt := range tests {
		if got := rankClass(tt.rank, tt.worst); got != tt.want {
			t.Errorf("rankClass(%d, %d) = %q, want %q", tt.rank, tt.worst, got, tt.want)
		}
	}
}

func TestAgreementClass(t *testing.T) {
	if agreementClass(0.9) != "good" || agreementClass(0.6) != "warning" || agreementClass(-0.2) != "danger" {
		t.Error("agreementClass thresholds changed")
	}
}

func TestRender(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error: %v", err)
	}

	rep, err := sampleReport(t).SortBy(models.MethodVIKOR)
	if err != nil {
		t.Fatal(err)
	}
	meta := Metadata{
		Dataset:        "qws.csv",
		GeneratedAt:    time.Date(2024, 12, 10, 9, 30, 0, 0, time.UTC),
		QosrankVersion: "1.0.0",
	}

	var buf bytes.Buffer
	if err := r.Render(rep, meta, &buf); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		"<title>QoS Ranking - qws.csv</title>",
		"QoS Ranking (by VIKOR)",
		"Best Alternatives",
		"Criterion Weights",
		"Score Summary",
		"Generated 2024-12-10 09:30 by qosrank 1.0.0",
		"WASPAS Score",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
	for _, row := range rep.Rows {
		if !strings.Contains(html, row.ID) {
			t.Errorf("rendered HTML missing alternative %q", row.ID)
		}
	}
}

func TestRenderToFileAndLoadReport(t *testing.T) {
	dir := t.TempDir()
	rep := sampleReport(t)

	reportPath := filepath.Join(dir, "ranking.json")
	data, err := json.Marshal(rep)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(reportPath, data, 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadReport(reportPath)
	if err != nil {
		t.Fatalf("LoadReport() error: %v", err)
	}
	if len(loaded.Rows) != len(rep.Rows) || len(loaded.Methods) != len(rep.Methods) {
		t.Errorf("LoadReport() = %d rows, %d methods", len(loaded.Rows), len(loaded.Methods))
	}

	r, err := NewRenderer()
	if err != nil {
		t.Fatal(err)
	}
	htmlPath := filepath.Join(dir, "ranking.html")
	if err := r.RenderToFile(loaded, Metadata{}, htmlPath); err != nil {
		t.Fatalf("RenderToFile() error: %v", err)
	}
	if !testutil.FileExists(htmlPath) {
		t.Error("RenderToFile() did not create the file")
	}
}

func TestLoadReportErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadReport(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadReport() should fail on a missing file")
	}

	other := filepath.Join(dir, "weights.json")
	if err := os.WriteFile(other, []byte(`{"alternatives": 3, "criteria": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadReport(other)
	if err == nil || !strings.Contains(err.Error(), "not a ranking report") {
		t.Errorf("LoadReport() error = %v, want not a ranking report", err)
	}
}
