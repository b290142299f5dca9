// Package engine runs the ranking pipeline: classify criteria, normalize,
// derive entropy weights, rank with every selected method and assemble the
// report.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/panbanda/qosrank/pkg/config"
	"github.com/panbanda/qosrank/pkg/criteria"
	"github.com/panbanda/qosrank/pkg/models"
	"github.com/panbanda/qosrank/pkg/normalize"
	"github.com/panbanda/qosrank/pkg/ranker"
	"github.com/panbanda/qosrank/pkg/ranker/fuzzytopsis"
	"github.com/panbanda/qosrank/pkg/ranker/vikor"
	"github.com/panbanda/qosrank/pkg/ranker/waspas"
	"github.com/panbanda/qosrank/pkg/report"
	"github.com/panbanda/qosrank/pkg/weights"
	"github.com/sourcegraph/conc"
	"gonum.org/v1/gonum/mat"
)

// Engine is a configured ranking pipeline. It is safe for concurrent use;
// each Run works on its own data.
type Engine struct {
	classifier *criteria.Classifier
	normalizer *normalize.Normalizer
	weighter   *weights.EntropyWeighter
	registry   *ranker.Registry
	methods    []models.Method
	sink       EventSink
	sequential bool
}

// Option is a functional option for configuring Engine.
type Option func(*Engine)

// WithClassifier replaces the default criteria classifier.
func WithClassifier(c *criteria.Classifier) Option {
	return func(e *Engine) {
		e.classifier = c
	}
}

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(e *Engine) {
		e.normalizer = n
	}
}

// WithWeighter replaces the default entropy weighter.
func WithWeighter(w *weights.EntropyWeighter) Option {
	return func(e *Engine) {
		e.weighter = w
	}
}

// WithRankers registers rankers, replacing any with the same method.
func WithRankers(rs ...ranker.Ranker) Option {
	return func(e *Engine) {
		for _, r := range rs {
			e.registry.Register(r)
		}
	}
}

// WithMethods selects which registered methods Run executes, in order.
// Empty selects every registered method.
func WithMethods(methods ...models.Method) Option {
	return func(e *Engine) {
		e.methods = append([]models.Method(nil), methods...)
	}
}

// WithSink sets the event sink. The default discards events.
func WithSink(s EventSink) Option {
	return func(e *Engine) {
		if s == nil {
			s = NopSink{}
		}
		e.sink = s
	}
}

// WithSequential runs rankers one after another instead of concurrently.
// Results are identical either way.
func WithSequential(sequential bool) Option {
	return func(e *Engine) {
		e.sequential = sequential
	}
}

// New creates an engine with the default classifier, normalizer and
// weighter, and WASPAS and VIKOR registered with their default parameters.
// Fuzzy TOPSIS has no default thresholds and must be added with WithRankers.
func New(opts ...Option) *Engine {
	e := &Engine{
		classifier: criteria.New(),
		normalizer: normalize.New(),
		weighter:   weights.New(),
		registry:   ranker.NewRegistry(),
		sink:       NopSink{},
	}
	w, _ := waspas.New()
	v, _ := vikor.New()
	e.registry.Register(w)
	e.registry.Register(v)

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFromConfig builds an engine from cfg. Fuzzy TOPSIS is registered only
// when cfg lists at least one fuzzy criterion; selecting it without one
// fails with a ConfigurationError.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	overrides, err := cfg.Polarities()
	if err != nil {
		return nil, err
	}
	methods, err := cfg.Methods()
	if err != nil {
		return nil, err
	}
	workers := cfg.Ranking.Workers

	w, err := waspas.New(waspas.WithLambda(cfg.Ranking.Lambda), waspas.WithWorkers(workers))
	if err != nil {
		return nil, err
	}
	v, err := vikor.New(vikor.WithV(cfg.Ranking.V), vikor.WithWorkers(workers))
	if err != nil {
		return nil, err
	}
	rankers := []ranker.Ranker{w, v}

	if len(cfg.Fuzzy.Criteria) > 0 {
		crits := make([]fuzzytopsis.Criterion, len(cfg.Fuzzy.Criteria))
		for i, fc := range cfg.Fuzzy.Criteria {
			crits[i] = fuzzytopsis.Criterion{Name: fc.Name, Low: fc.Low, High: fc.High}
		}
		ft, err := fuzzytopsis.New(crits, fuzzytopsis.WithWorkers(workers))
		if err != nil {
			return nil, err
		}
		rankers = append(rankers, ft)
	} else {
		for _, m := range methods {
			if m == models.MethodFuzzyTOPSIS {
				return nil, models.NewConfigurationError("fuzzy.criteria",
					"fuzzy_topsis is selected but no fuzzy criterion thresholds are configured")
			}
		}
	}

	base := []Option{
		WithClassifier(criteria.New(
			criteria.WithCostNames(cfg.Criteria.CostNames...),
			criteria.WithOverrides(overrides),
		)),
		WithNormalizer(normalize.New(normalize.WithWorkers(workers))),
		WithWeighter(weights.New(weights.WithWorkers(workers))),
		WithRankers(rankers...),
		WithMethods(methods...),
		WithSequential(workers == 1),
	}
	return New(append(base, opts...)...), nil
}

// Methods returns the methods Run executes.
func (e *Engine) Methods() ([]models.Method, error) {
	rs, err := e.registry.Select(e.methods)
	if err != nil {
		return nil, err
	}
	out := make([]models.Method, len(rs))
	for i, r := range rs {
		out[i] = r.Method()
	}
	return out, nil
}

// Prepared is the ranking input shared by every method.
type Prepared struct {
	Input      ranker.Input
	Normalized *mat.Dense
	Criteria   []models.Criterion
	Weights    *weights.Result
	Warnings   []models.Warning
}

// Result is the outcome of a full Run.
type Result struct {
	Criteria   []models.Criterion `json:"criteria"`
	Weights    *weights.Result    `json:"weights"`
	Normalized *mat.Dense         `json:"-"`
	Rankings   []models.Ranking   `json:"rankings"`
	Report     *report.Report     `json:"report"`
	Warnings   []models.Warning   `json:"warnings,omitempty"`
}

// Prepare classifies, normalizes and weighs m.
func (e *Engine) Prepare(ctx context.Context, m *models.DecisionMatrix) (*Prepared, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m == nil || m.Rows() == 0 || m.Cols() == 0 {
		return nil, models.NewConfigurationError("matrix", "decision matrix is empty")
	}
	n, k := m.Rows(), m.Cols()

	e.start(StageClassify, "", n, k)
	pol, err := e.classifier.ClassifyMatrix(m)
	e.done(StageClassify, "", n, k, nil, err)
	if err != nil {
		return nil, fmt.Errorf("classifying criteria: %w", err)
	}

	e.start(StageNormalize, "", n, k)
	norm, err := e.normalizer.Normalize(m, pol)
	if err != nil {
		e.done(StageNormalize, "", n, k, nil, err)
		return nil, fmt.Errorf("normalizing: %w", err)
	}
	e.done(StageNormalize, "", n, k, norm.Warnings, nil)

	e.start(StageWeights, "", n, k)
	wr, err := e.weighter.Weigh(m.Criteria(), norm.Values)
	if err != nil {
		e.done(StageWeights, "", n, k, nil, err)
		return nil, fmt.Errorf("weighting: %w", err)
	}
	e.done(StageWeights, "", n, k, wr.Warnings, nil)

	warnings := append(append([]models.Warning(nil), norm.Warnings...), wr.Warnings...)
	return &Prepared{
		Input: ranker.Input{
			Matrix:     m,
			Normalized: norm.Values,
			Weights:    wr.Weights,
			Polarities: pol,
		},
		Normalized: norm.Values,
		Criteria:   pol.Describe(m),
		Weights:    wr,
		Warnings:   warnings,
	}, nil
}

// Run executes the whole pipeline on m. The rankers read the same
// immutable input and may run concurrently; their results are collected
// in method order.
func (e *Engine) Run(ctx context.Context, m *models.DecisionMatrix) (*Result, error) {
	rankers, err := e.registry.Select(e.methods)
	if err != nil {
		return nil, err
	}

	p, err := e.Prepare(ctx, m)
	if err != nil {
		return nil, err
	}

	results := make([]*ranker.Result, len(rankers))
	errs := make([]error, len(rankers))
	rankOne := func(i int) {
		r := rankers[i]
		e.start(StageRank, r.Method(), m.Rows(), m.Cols())
		results[i], errs[i] = r.Rank(ctx, p.Input)
		var warnings []models.Warning
		if results[i] != nil {
			warnings = results[i].Warnings
		}
		e.done(StageRank, r.Method(), m.Rows(), m.Cols(), warnings, errs[i])
	}

	if e.sequential {
		for i := range rankers {
			rankOne(i)
		}
	} else {
		wg := conc.NewWaitGroup()
		for i := range rankers {
			wg.Go(func() {
				rankOne(i)
			})
		}
		wg.Wait()
	}

	warnings := p.Warnings
	rankings := make([]models.Ranking, 0, len(rankers))
	var failed []error
	for i, res := range results {
		if errs[i] != nil {
			failed = append(failed, fmt.Errorf("%s: %w", rankers[i].Method(), errs[i]))
			continue
		}
		rankings = append(rankings, res.Ranking)
		warnings = append(warnings, res.Warnings...)
	}
	if len(failed) > 0 {
		return nil, errors.Join(failed...)
	}

	e.start(StageReport, "", m.Rows(), m.Cols())
	rep, err := report.Build(m, p.Criteria, p.Input.Weights, rankings, warnings)
	e.done(StageReport, "", m.Rows(), m.Cols(), nil, err)
	if err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}

	return &Result{
		Criteria:   p.Criteria,
		Weights:    p.Weights,
		Normalized: p.Normalized,
		Rankings:   rankings,
		Report:     rep,
		Warnings:   warnings,
	}, nil
}

func (e *Engine) start(stage Stage, method models.Method, n, k int) {
	e.sink.Emit(Event{Stage: stage, Method: method, Alternatives: n, Criteria: k})
}

func (e *Engine) done(stage Stage, method models.Method, n, k int, warnings []models.Warning, err error) {
	e.sink.Emit(Event{Stage: stage, Method: method, Done: true, Alternatives: n, Criteria: k, Warnings: warnings, Err: err})
}
