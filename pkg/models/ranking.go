package models

import (
	"fmt"
	"strings"
)

// Method identifies a ranking method.
type Method string

const (
	MethodWASPAS      Method = "waspas"
	MethodVIKOR       Method = "vikor"
	MethodFuzzyTOPSIS Method = "fuzzy_topsis"
)

// AllMethods lists the supported methods in report column order.
func AllMethods() []Method {
	return []Method{MethodWASPAS, MethodVIKOR, MethodFuzzyTOPSIS}
}

// ParseMethod converts a string to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "waspas":
		return MethodWASPAS, nil
	case "vikor":
		return MethodVIKOR, nil
	case "fuzzy_topsis", "fuzzy-topsis", "topsis":
		return MethodFuzzyTOPSIS, nil
	default:
		return "", fmt.Errorf("unknown ranking method %q", s)
	}
}

// Title returns the display name of the method.
func (m Method) Title() string {
	switch m {
	case MethodWASPAS:
		return "WASPAS"
	case MethodVIKOR:
		return "VIKOR"
	case MethodFuzzyTOPSIS:
		return "Fuzzy TOPSIS"
	default:
		return string(m)
	}
}

// Score is one alternative's result under one method. Rank 1 is the most
// preferred alternative for that method.
type Score struct {
	ID    string  `json:"id" toon:"id"`
	Score float64 `json:"score" toon:"score"`
	Rank  int     `json:"rank" toon:"rank"`
}

// Ranking is a method's output, one Score per alternative in input order.
type Ranking struct {
	Method Method  `json:"method" toon:"method"`
	Scores []Score `json:"scores" toon:"scores"`
}
