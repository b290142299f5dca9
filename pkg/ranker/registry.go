package ranker

import (
	"sort"

	"github.com/panbanda/qosrank/pkg/models"
)

// Registry maps methods to configured rankers.
type Registry struct {
	rankers map[models.Method]Ranker
}

// NewRegistry creates a registry holding rs. A later ranker replaces an
// earlier one with the same method.
func NewRegistry(rs ...Ranker) *Registry {
	reg := &Registry{rankers: make(map[models.Method]Ranker, len(rs))}
	for _, r := range rs {
		reg.Register(r)
	}
	return reg
}

// Register adds or replaces the ranker for r.Method().
func (reg *Registry) Register(r Ranker) {
	reg.rankers[r.Method()] = r
}

// Get returns the ranker for method.
func (reg *Registry) Get(method models.Method) (Ranker, bool) {
	r, ok := reg.rankers[method]
	return r, ok
}

// Methods returns the registered methods in report column order.
func (reg *Registry) Methods() []models.Method {
	order := make(map[models.Method]int)
	for i, m := range models.AllMethods() {
		order[m] = i
	}
	out := make([]models.Method, 0, len(reg.rankers))
	for m := range reg.rankers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, iok := order[out[i]]
		oj, jok := order[out[j]]
		if iok != jok {
			return iok
		}
		if oi != oj {
			return oi < oj
		}
		return out[i] < out[j]
	})
	return out
}

// Select returns the rankers for methods, in the order given. Duplicates are
// ignored. An empty selection returns every registered ranker.
func (reg *Registry) Select(methods []models.Method) ([]Ranker, error) {
	if len(methods) == 0 {
		methods = reg.Methods()
	}
	seen := make(map[models.Method]bool, len(methods))
	out := make([]Ranker, 0, len(methods))
	for _, m := range methods {
		if seen[m] {
			continue
		}
		seen[m] = true
		r, ok := reg.rankers[m]
		if !ok {
			return nil, models.NewConfigurationError("ranking.methods", "method %q is not available", m)
		}
		out = append(out, r)
	}
	return out, nil
}
