package report

import (
	"github.com/panbanda/qosrank/pkg/models"
	"github.com/panbanda/qosrank/pkg/stats"
)

// MethodScore is one alternative's score and rank under one method.
type MethodScore struct {
	Score float64 `json:"score" toon:"score"`
	Rank  int     `json:"rank" toon:"rank"`
}

// Row is one alternative with its source data and per-method results.
// A method that was not run leaves its field nil.
type Row struct {
	Index       int                `json:"index" toon:"index"`
	ID          string             `json:"id" toon:"id"`
	Attributes  map[string]string  `json:"attributes,omitempty" toon:"attributes"`
	Values      map[string]float64 `json:"values" toon:"values"`
	WASPAS      *MethodScore       `json:"waspas,omitempty" toon:"waspas"`
	VIKOR       *MethodScore       `json:"vikor,omitempty" toon:"vikor"`
	FuzzyTOPSIS *MethodScore       `json:"fuzzy_topsis,omitempty" toon:"fuzzy_topsis"`
}

// Score returns the row's result for method.
func (r *Row) Score(method models.Method) (MethodScore, bool) {
	var s *MethodScore
	switch method {
	case models.MethodWASPAS:
		s = r.WASPAS
	case models.MethodVIKOR:
		s = r.VIKOR
	case models.MethodFuzzyTOPSIS:
		s = r.FuzzyTOPSIS
	}
	if s == nil {
		return MethodScore{}, false
	}
	return *s, true
}

func (r *Row) set(method models.Method, s MethodScore) {
	switch method {
	case models.MethodWASPAS:
		r.WASPAS = &s
	case models.MethodVIKOR:
		r.VIKOR = &s
	case models.MethodFuzzyTOPSIS:
		r.FuzzyTOPSIS = &s
	}
}

// MethodSummary describes the score distribution of one method.
type MethodSummary struct {
	Method models.Method `json:"method" toon:"method"`
	stats.Summary
}

// Agreement is the rank correlation between two methods.
type Agreement struct {
	A   models.Method `json:"a" toon:"a"`
	B   models.Method `json:"b" toon:"b"`
	Rho float64       `json:"rho" toon:"rho"`
}

// Report is the merged ranking table. SortedBy is empty when rows are in
// input order.
type Report struct {
	Methods    []models.Method    `json:"methods" toon:"methods"`
	Criteria   []models.Criterion `json:"criteria" toon:"criteria"`
	Attributes []string           `json:"attributes,omitempty" toon:"attributes"`
	Weights    map[string]float64 `json:"weights" toon:"weights"`
	SortedBy   models.Method      `json:"sorted_by,omitempty" toon:"sorted_by"`
	Total      int                `json:"total" toon:"total"`
	Rows       []Row              `json:"rows" toon:"rows"`
	Summary    []MethodSummary    `json:"summary" toon:"summary"`
	Agreement  []Agreement        `json:"agreement,omitempty" toon:"agreement"`
	Warnings   []models.Warning   `json:"warnings,omitempty" toon:"warnings"`
}
