package report

import "time"

// Metadata contains report generation metadata.
type Metadata struct {
	Dataset        string    `json:"dataset"`
	GeneratedAt    time.Time `json:"generated_at"`
	QosrankVersion string    `json:"qosrank_version"`
}

// MethodColumn is one ranked method shown in the HTML tables.
type MethodColumn struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// CriterionView is a criterion with its weight expressed as a percentage.
type CriterionView struct {
	Name     string  `json:"name"`
	Polarity string  `json:"polarity"`
	Weight   float64 `json:"weight"`
	Percent  float64 `json:"percent"`
}

// Cell is one method's score and rank for a row.
type Cell struct {
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
	Class string  `json:"class"`
}

// RowView is one alternative in the ranking table.
type RowView struct {
	ID     string    `json:"id"`
	Values []float64 `json:"values"`
	Cells  []Cell    `json:"cells"`
}

// Leader is the best alternative under one method.
type Leader struct {
	Method string  `json:"method"`
	ID     string  `json:"id"`
	Score  float64 `json:"score"`
}

// AgreementView is a rank correlation between two methods.
type AgreementView struct {
	Pair  string  `json:"pair"`
	Rho   float64 `json:"rho"`
	Class string  `json:"class"`
}

// ChartSeries feeds the score chart: one series per method over Labels.
type ChartSeries struct {
	Labels []string             `json:"labels"`
	Series map[string][]float64 `json:"series"`
}
