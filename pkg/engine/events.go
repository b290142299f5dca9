package engine

import "github.com/panbanda/qosrank/pkg/models"

// Stage names a pipeline step.
type Stage string

const (
	StageClassify  Stage = "classify"
	StageNormalize Stage = "normalize"
	StageWeights   Stage = "weights"
	StageRank      Stage = "rank"
	StageReport    Stage = "report"
)

// Event reports the start (Done false) or completion (Done true) of a stage.
// Method is set for StageRank only. Warnings are those the stage produced
// and are only set on completion.
type Event struct {
	Stage        Stage
	Method       models.Method
	Done         bool
	Alternatives int
	Criteria     int
	Warnings     []models.Warning
	Err          error
}

// EventSink receives pipeline events. Rankers run concurrently, so Emit
// must be safe for concurrent use.
type EventSink interface {
	Emit(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// Emit implements EventSink.
func (f EventSinkFunc) Emit(e Event) { f(e) }

// NopSink discards every event.
type NopSink struct{}

// Emit implements EventSink.
func (NopSink) Emit(Event) {}

// MultiSink fans events out to several sinks in order.
type MultiSink []EventSink

// Emit implements EventSink.
func (m MultiSink) Emit(e Event) {
	for _, s := range m {
		s.Emit(e)
	}
}
