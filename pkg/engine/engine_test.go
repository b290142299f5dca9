package engine

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/panbanda/qosrank/internal/testutil"
	"github.com/panbanda/qosrank/pkg/config"
	"github.com/panbanda/qosrank/pkg/models"
	"github.com/panbanda/qosrank/pkg/ranker"
	"github.com/panbanda/qosrank/pkg/ranker/fuzzytopsis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) completed() map[Stage]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[Stage]int)
	for _, e := range r.events {
		if e.Done {
			out[e.Stage]++
		}
	}
	return out
}

func TestRun_DefaultEngine(t *testing.T) {
	m := testutil.QWSSample(t)

	res, err := New().Run(context.Background(), m)
	require.NoError(t, err)

	assert.Equal(t, []models.Method{models.MethodWASPAS, models.MethodVIKOR}, res.Report.Methods)
	require.Len(t, res.Rankings, 2)
	assert.Len(t, res.Report.Rows, 5)
	assert.InDelta(t, 1.0, res.Weights.Weights.Sum(), 1e-9)

	assert.Equal(t, models.Cost, res.Criteria[0].Polarity, "Response Time")
	assert.Equal(t, models.Cost, res.Criteria[7].Polarity, "Latency")
	assert.Equal(t, models.Benefit, res.Criteria[1].Polarity, "Availability")

	for i, row := range res.Report.Rows {
		assert.Equal(t, m.ID(i), row.ID, "report keeps input order")
		require.NotNil(t, row.WASPAS)
		require.NotNil(t, row.VIKOR)
		assert.Nil(t, row.FuzzyTOPSIS)
	}
}

func TestRun_AllMethodsWithEvents(t *testing.T) {
	m := testutil.QWSSample(t)
	ft, err := fuzzytopsis.New([]fuzzytopsis.Criterion{{Name: "Availability", Low: 70, High: 85}})
	require.NoError(t, err)

	sink := &recordingSink{}
	e := New(WithRankers(ft), WithSink(sink))

	res, err := e.Run(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, models.AllMethods(), res.Report.Methods)

	done := sink.completed()
	assert.Equal(t, 1, done[StageClassify])
	assert.Equal(t, 1, done[StageNormalize])
	assert.Equal(t, 1, done[StageWeights])
	assert.Equal(t, 3, done[StageRank])
	assert.Equal(t, 1, done[StageReport])

	// Availability [89 85 89 98 87] against 70/85: only 85 is Medium.
	for i, row := range res.Report.Rows {
		require.NotNil(t, row.FuzzyTOPSIS)
		want := 1
		if i == 1 {
			want = 2
		}
		assert.Equal(t, want, row.FuzzyTOPSIS.Rank, row.ID)
	}
}

func TestRun_SequentialMatchesConcurrent(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	ft, err := fuzzytopsis.New([]fuzzytopsis.Criterion{{Name: "Availability", Low: 30, High: 70}})
	require.NoError(t, err)

	for trial := 0; trial < 10; trial++ {
		m := testutil.RandomMatrix(t, rng, 2+rng.Intn(40), testutil.QWSCriteria, 100)

		seq, err := New(WithRankers(ft), WithSequential(true)).Run(context.Background(), m)
		require.NoError(t, err)
		par, err := New(WithRankers(ft)).Run(context.Background(), m)
		require.NoError(t, err)

		assert.Equal(t, seq.Rankings, par.Rankings)
		assert.Equal(t, seq.Report.Rows, par.Report.Rows)
	}
}

func TestRun_MethodSelection(t *testing.T) {
	m := testutil.QWSSample(t)

	res, err := New(WithMethods(models.MethodVIKOR)).Run(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, []models.Method{models.MethodVIKOR}, res.Report.Methods)

	_, err = New(WithMethods(models.MethodFuzzyTOPSIS)).Run(context.Background(), m)
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

type failingRanker struct {
	method models.Method
	err    error
}

func (f failingRanker) Method() models.Method { return f.method }

func (f failingRanker) Rank(context.Context, ranker.Input) (*ranker.Result, error) {
	return nil, f.err
}

func TestRun_ReportsEveryFailedMethod(t *testing.T) {
	errWASPAS := models.NewDataShapeError(-1, "", "got 2 weights for 5 criteria")
	errVIKOR := errors.New("vikor failed")

	for _, sequential := range []bool{true, false} {
		_, err := New(
			WithRankers(
				failingRanker{models.MethodWASPAS, errWASPAS},
				failingRanker{models.MethodVIKOR, errVIKOR},
			),
			WithSequential(sequential),
		).Run(context.Background(), testutil.QWSSample(t))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "waspas: ")
		assert.Contains(t, err.Error(), "vikor: vikor failed")
		assert.ErrorIs(t, err, models.ErrDataShape)
		assert.ErrorIs(t, err, errVIKOR)
	}
}

func TestRun_Errors(t *testing.T) {
	_, err := New().Run(context.Background(), nil)
	assert.ErrorIs(t, err, models.ErrConfiguration)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New().Run(ctx, testutil.QWSSample(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.ExampleConfig()
	cfg.Ranking.Lambda = 0.8
	cfg.Ranking.Workers = 1
	cfg.Criteria.Polarity = map[string]string{"Documentation": "cost"}

	e, err := NewFromConfig(cfg)
	require.NoError(t, err)

	methods, err := e.Methods()
	require.NoError(t, err)
	assert.Equal(t, models.AllMethods(), methods)

	res, err := e.Run(context.Background(), testutil.QWSSample(t))
	require.NoError(t, err)
	assert.Equal(t, models.Cost, res.Criteria[8].Polarity)
}

func TestNewFromConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"fuzzy without thresholds", func(c *config.Config) {}},
		{"lambda out of range", func(c *config.Config) {
			c.Fuzzy = config.ExampleConfig().Fuzzy
			c.Ranking.Lambda = 2
		}},
		{"unknown override", func(c *config.Config) {
			c.Ranking.Methods = []string{"waspas"}
			c.Criteria.Polarity = map[string]string{"Jitter": "cost"}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.modify(cfg)

			e, err := NewFromConfig(cfg)
			if err == nil {
				// Unknown overrides are only detectable against a matrix.
				_, err = e.Run(context.Background(), testutil.QWSSample(t))
			}
			assert.ErrorIs(t, err, models.ErrConfiguration)
		})
	}
}

func TestEventSinkFunc(t *testing.T) {
	var got []Stage
	sink := MultiSink{EventSinkFunc(func(e Event) { got = append(got, e.Stage) }), NopSink{}}
	sink.Emit(Event{Stage: StageWeights})
	assert.Equal(t, []Stage{StageWeights}, got)
}
