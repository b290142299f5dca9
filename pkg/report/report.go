// Package report merges per-method rankings with the source rows.
package report

import (
	"sort"
	"strconv"

	"github.com/panbanda/qosrank/pkg/models"
	"github.com/panbanda/qosrank/pkg/stats"
)

// Build assembles a report in input row order. It performs no scoring:
// every ranking must carry exactly one score per matrix row, in row order.
func Build(m *models.DecisionMatrix, crits []models.Criterion, weights models.WeightVector, rankings []models.Ranking, warnings []models.Warning) (*Report, error) {
	if m == nil || m.Rows() == 0 {
		return nil, models.NewConfigurationError("matrix", "decision matrix is empty")
	}

	r := &Report{
		Criteria:   crits,
		Attributes: m.AttributeNames(),
		Weights:    weights.Map(),
		Total:      m.Rows(),
		Rows:       make([]Row, m.Rows()),
		Warnings:   warnings,
	}
	for i := range r.Rows {
		r.Rows[i] = Row{
			Index:      i,
			ID:         m.ID(i),
			Attributes: m.Attributes(i),
			Values:     m.Values(i),
		}
	}

	seen := make(map[models.Method]bool, len(rankings))
	for _, rk := range rankings {
		if seen[rk.Method] {
			return nil, models.NewConfigurationError("ranking.methods", "method %q ranked twice", rk.Method)
		}
		seen[rk.Method] = true
		if len(rk.Scores) != m.Rows() {
			return nil, models.NewDataShapeError(-1, "", "%s ranking has %d scores for %d alternatives",
				rk.Method, len(rk.Scores), m.Rows())
		}

		scores := make([]float64, len(rk.Scores))
		for i, s := range rk.Scores {
			if s.ID != m.ID(i) {
				return nil, models.NewDataShapeError(i, "", "%s ranking has id %q, want %q", rk.Method, s.ID, m.ID(i))
			}
			r.Rows[i].set(rk.Method, MethodScore{Score: s.Score, Rank: s.Rank})
			scores[i] = s.Score
		}
		r.Methods = append(r.Methods, rk.Method)
		r.Summary = append(r.Summary, MethodSummary{Method: rk.Method, Summary: stats.Summarize(scores)})
	}

	r.Agreement = agreement(r.Rows, r.Methods)
	return r, nil
}

func agreement(rows []Row, methods []models.Method) []Agreement {
	ranks := make([][]int, len(methods))
	for k, method := range methods {
		ranks[k] = make([]int, len(rows))
		for i := range rows {
			s, _ := rows[i].Score(method)
			ranks[k][i] = s.Rank
		}
	}

	var out []Agreement
	for a := 0; a < len(methods); a++ {
		for b := a + 1; b < len(methods); b++ {
			if rho, ok := stats.RankCorrelation(ranks[a], ranks[b]); ok {
				out = append(out, Agreement{A: methods[a], B: methods[b], Rho: rho})
			}
		}
	}
	return out
}

// Has reports whether method was ranked.
func (r *Report) Has(method models.Method) bool {
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// SortBy returns a copy ordered by ascending rank under method, ties broken
// by input order. An empty method restores input order.
func (r *Report) SortBy(method models.Method) (*Report, error) {
	if method != "" && !r.Has(method) {
		return nil, models.NewConfigurationError("output.sort", "method %q was not ranked", method)
	}

	out := *r
	out.SortedBy = method
	out.Rows = append([]Row(nil), r.Rows...)
	sort.SliceStable(out.Rows, func(a, b int) bool {
		if method != "" {
			ra, _ := out.Rows[a].Score(method)
			rb, _ := out.Rows[b].Score(method)
			if ra.Rank != rb.Rank {
				return ra.Rank < rb.Rank
			}
		}
		return out.Rows[a].Index < out.Rows[b].Index
	})
	return &out, nil
}

// Top returns a copy holding the first n rows. n <= 0 keeps every row.
func (r *Report) Top(n int) *Report {
	out := *r
	if n > 0 && n < len(r.Rows) {
		out.Rows = append([]Row(nil), r.Rows[:n]...)
	}
	return &out
}

// Header returns the flat column names: id, attributes, criteria, then a
// score and rank column per ranked method.
func (r *Report) Header() []string {
	h := []string{"id"}
	h = append(h, r.Attributes...)
	for _, c := range r.Criteria {
		h = append(h, c.Name)
	}
	for _, m := range r.Methods {
		h = append(h, string(m)+"_score", string(m)+"_rank")
	}
	return h
}

// Records returns one flat record per row, matching Header.
func (r *Report) Records() [][]string {
	out := make([][]string, len(r.Rows))
	for i := range r.Rows {
		row := &r.Rows[i]
		rec := make([]string, 0, 1+len(r.Attributes)+len(r.Criteria)+2*len(r.Methods))
		rec = append(rec, row.ID)
		for _, a := range r.Attributes {
			rec = append(rec, row.Attributes[a])
		}
		for _, c := range r.Criteria {
			rec = append(rec, FormatFloat(row.Values[c.Name]))
		}
		for _, m := range r.Methods {
			s, _ := row.Score(m)
			rec = append(rec, FormatFloat(s.Score), strconv.Itoa(s.Rank))
		}
		out[i] = rec
	}
	return out
}

// FormatFloat renders v with the shortest exact representation.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
