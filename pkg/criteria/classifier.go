// Package criteria assigns a benefit/cost polarity to each decision criterion.
package criteria

import (
	"sort"
	"strings"

	"github.com/panbanda/qosrank/pkg/models"
)

// DefaultCostNames returns the criterion names treated as lower-is-better
// when no override applies.
func DefaultCostNames() []string {
	return []string{"response time", "latency"}
}

// Classifier infers polarities from criterion names. Explicit overrides
// take precedence over inference.
type Classifier struct {
	costNames map[string]struct{}
	overrides map[string]models.Polarity
}

// Option configures the Classifier.
type Option func(*Classifier)

// WithCostNames replaces the set of lower-is-better names.
// Matching is case-insensitive and ignores a trailing unit such as "(ms)".
func WithCostNames(names ...string) Option {
	return func(c *Classifier) {
		c.costNames = make(map[string]struct{}, len(names))
		for _, n := range names {
			c.costNames[Canonical(n)] = struct{}{}
		}
	}
}

// WithOverrides sets explicit criterion -> polarity assignments.
func WithOverrides(overrides map[string]models.Polarity) Option {
	return func(c *Classifier) {
		c.overrides = make(map[string]models.Polarity, len(overrides))
		for k, v := range overrides {
			c.overrides[k] = v
		}
	}
}

// New creates a classifier using DefaultCostNames.
func New(opts ...Option) *Classifier {
	c := &Classifier{}
	WithCostNames(DefaultCostNames()...)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns one polarity per criterion, in the given order. It fails
// with a ConfigurationError when an override names a criterion that is not
// among the given criteria.
func (c *Classifier) Classify(criteria []string) (models.Polarities, error) {
	resolved, err := c.resolveOverrides(criteria)
	if err != nil {
		return nil, err
	}

	out := make(models.Polarities, len(criteria))
	for j, name := range criteria {
		if p, ok := resolved[j]; ok {
			out[j] = p
			continue
		}
		if _, cost := c.costNames[Canonical(name)]; cost {
			out[j] = models.Cost
		} else {
			out[j] = models.Benefit
		}
	}
	return out, nil
}

// ClassifyMatrix classifies the criteria of m.
func (c *Classifier) ClassifyMatrix(m *models.DecisionMatrix) (models.Polarities, error) {
	return c.Classify(m.Criteria())
}

// resolveOverrides maps override keys to column indexes. An exact name
// match wins over a canonical one.
func (c *Classifier) resolveOverrides(criteria []string) (map[int]models.Polarity, error) {
	if len(c.overrides) == 0 {
		return nil, nil
	}

	exact := make(map[string]int, len(criteria))
	canonical := make(map[string]int, len(criteria))
	for j, name := range criteria {
		exact[name] = j
		if _, taken := canonical[Canonical(name)]; !taken {
			canonical[Canonical(name)] = j
		}
	}

	// Sorted for a deterministic error when several keys are unknown.
	keys := make([]string, 0, len(c.overrides))
	for k := range c.overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	resolved := make(map[int]models.Polarity, len(keys))
	for _, key := range keys {
		p := c.overrides[key]
		if p != models.Benefit && p != models.Cost {
			return nil, models.NewConfigurationError("criteria.polarity", "criterion %q has invalid polarity %q", key, p)
		}
		j, ok := exact[key]
		if !ok {
			j, ok = canonical[Canonical(key)]
		}
		if !ok {
			return nil, models.NewConfigurationError("criteria.polarity", "unknown criterion %q", key)
		}
		resolved[j] = p
	}
	return resolved, nil
}

// Canonical lowercases name, trims it and strips a trailing parenthesized
// unit, so "Response Time (ms)" and "response time" compare equal.
func Canonical(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if strings.HasSuffix(s, ")") {
		if open := strings.LastIndex(s, "("); open > 0 {
			s = strings.TrimSpace(s[:open])
		}
	}
	return s
}
