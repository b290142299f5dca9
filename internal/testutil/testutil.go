// Package testutil holds fixtures shared by tests across packages.
package testutil

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/qosrank/pkg/models"
)

// QWSCriteria are the QoS columns of the QWS web-service dataset.
var QWSCriteria = []string{
	"Response Time", "Availability", "Throughput", "Successability",
	"Reliability", "Compliance", "Best Practices", "Latency", "Documentation",
}

// WriteFile writes content to a file in the real filesystem.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
}

// ReadFile reads content from a file.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error: %v", path, err)
	}
	return string(data)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Matrix builds a decision matrix with ids s0, s1, ... from positional rows.
func Matrix(t *testing.T, criteria []string, rows ...[]float64) *models.DecisionMatrix {
	t.Helper()
	rs := make([]models.Row, len(rows))
	for i, r := range rows {
		if len(r) != len(criteria) {
			t.Fatalf("row %d has %d values, want %d", i, len(r), len(criteria))
		}
		values := make(map[string]float64, len(criteria))
		for j, c := range criteria {
			values[c] = r[j]
		}
		rs[i] = models.Row{ID: fmt.Sprintf("s%d", i), Values: values}
	}
	m, err := models.NewDecisionMatrix(models.Schema{Criteria: criteria}, rs)
	if err != nil {
		t.Fatalf("NewDecisionMatrix error: %v", err)
	}
	return m
}

// RandomMatrix builds an n x len(criteria) matrix with values in
// [0, scale) drawn from rng.
func RandomMatrix(t *testing.T, rng *rand.Rand, n int, criteria []string, scale float64) *models.DecisionMatrix {
	t.Helper()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, len(criteria))
		for j := range rows[i] {
			rows[i][j] = rng.Float64() * scale
		}
	}
	return Matrix(t, criteria, rows...)
}

// QWSSample returns five alternatives from the QWS dataset.
func QWSSample(t *testing.T) *models.DecisionMatrix {
	t.Helper()
	return Matrix(t, QWSCriteria,
		[]float64{302.75, 89, 7.1, 90, 73, 78, 80, 187.75, 32},
		[]float64{482, 85, 16, 95, 73, 100, 84, 1, 2},
		[]float64{3321.4, 89, 1.4, 96, 73, 78, 80, 2.6, 96},
		[]float64{126.17, 98, 12, 100, 67, 78, 82, 22.77, 89},
		[]float64{107, 87, 1.9, 95, 73, 89, 62, 58.33, 93},
	)
}
