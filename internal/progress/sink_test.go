package progress

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/panbanda/qosrank/internal/testutil"
	"github.com/panbanda/qosrank/pkg/engine"
	"github.com/panbanda/qosrank/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageSink_EngineRun(t *testing.T) {
	m := testutil.Matrix(t, []string{"Availability", "Latency"},
		[]float64{90, 5},
		[]float64{80, 5},
		[]float64{70, 5},
	)

	var buf bytes.Buffer
	sink := NewStageSink(2, WithWriter(&buf), WithVerbose(true))
	_, err := engine.New(engine.WithSink(sink)).Run(context.Background(), m)
	require.NoError(t, err)
	sink.Finish()

	require.NoError(t, sink.Err())
	warnings := sink.Warnings()
	require.NotEmpty(t, warnings)
	assert.Equal(t, models.WarnConstantColumn, warnings[0].Kind)
	assert.Contains(t, buf.String(), "warning: normalize: Latency")
}

func TestStageSink_QuietHidesWarnings(t *testing.T) {
	var buf bytes.Buffer
	sink := NewStageSink(1, WithWriter(&buf))
	sink.Emit(engine.Event{Stage: engine.StageNormalize, Done: true, Warnings: []models.Warning{
		{Stage: "normalize", Kind: models.WarnConstantColumn, Criterion: "Latency", Row: -1, Message: "constant column"},
	}})
	sink.Finish()

	assert.Len(t, sink.Warnings(), 1)
	assert.NotContains(t, buf.String(), "warning:")
}

func TestStageSink_RecordsFirstError(t *testing.T) {
	var buf bytes.Buffer
	sink := NewStageSink(2, WithWriter(&buf))
	sink.Emit(engine.Event{Stage: engine.StageRank, Method: models.MethodVIKOR})
	sink.Emit(engine.Event{Stage: engine.StageRank, Method: models.MethodVIKOR, Done: true, Err: errors.New("boom")})
	sink.Emit(engine.Event{Stage: engine.StageRank, Method: models.MethodWASPAS, Done: true, Err: errors.New("later")})
	sink.Finish()
	sink.Finish()

	require.Error(t, sink.Err())
	assert.Equal(t, "rank VIKOR: boom", sink.Err().Error())
	assert.True(t, strings.Contains(buf.String(), "rank VIKOR: boom"))

	// Events after Finish are ignored.
	sink.Emit(engine.Event{Stage: engine.StageReport, Done: true, Warnings: []models.Warning{{Stage: "report"}}})
	assert.Empty(t, sink.Warnings())
}

func TestStageSink_ConcurrentEmit(t *testing.T) {
	sink := NewStageSink(3, WithWriter(io.Discard))
	done := make(chan struct{})
	for _, m := range models.AllMethods() {
		go func() {
			sink.Emit(engine.Event{Stage: engine.StageRank, Method: m})
			sink.Emit(engine.Event{Stage: engine.StageRank, Method: m, Done: true,
				Warnings: []models.Warning{{Stage: string(m), Row: -1}}})
			done <- struct{}{}
		}()
	}
	for range models.AllMethods() {
		<-done
	}
	sink.Finish()
	assert.Len(t, sink.Warnings(), 3)
}
