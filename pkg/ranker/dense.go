package ranker

import (
	"sort"

	"github.com/panbanda/qosrank/pkg/models"
)

// Order is the direction in which scores are preferred.
type Order int

const (
	// Descending ranks the highest score first.
	Descending Order = iota
	// Ascending ranks the lowest score first.
	Ascending
)

// DenseRank assigns ranks starting at 1. Equal scores share a rank and the
// next distinct score gets the following integer, so there are no gaps.
// Scores are compared exactly.
func DenseRank(scores []float64, order Order) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if order == Ascending {
			return scores[idx[a]] < scores[idx[b]]
		}
		return scores[idx[a]] > scores[idx[b]]
	})

	ranks := make([]int, len(scores))
	rank := 0
	for pos, i := range idx {
		if pos == 0 || scores[i] != scores[idx[pos-1]] {
			rank++
		}
		ranks[i] = rank
	}
	return ranks
}

// NewRanking pairs ids with scores and their dense ranks, keeping input order.
func NewRanking(method models.Method, ids []string, scores []float64, order Order) models.Ranking {
	ranks := DenseRank(scores, order)
	out := models.Ranking{Method: method, Scores: make([]models.Score, len(scores))}
	for i := range scores {
		out.Scores[i] = models.Score{ID: ids[i], Score: scores[i], Rank: ranks[i]}
	}
	return out
}
