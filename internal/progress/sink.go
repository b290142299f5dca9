package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/panbanda/qosrank/pkg/engine"
	"github.com/panbanda/qosrank/pkg/models"
)

// prepStages counts the classify, normalize, weights and report stages.
const prepStages = 4

// StageSink is an engine.EventSink that advances a progress bar once per
// completed stage and collects warnings. Rankers emit from their own
// goroutines, so every method takes the lock.
type StageSink struct {
	mu       sync.Mutex
	tracker  *Tracker
	out      io.Writer
	verbose  bool
	colored  bool
	warnings []models.Warning
	err      error
	finished bool
}

// SinkOption configures a StageSink.
type SinkOption func(*StageSink)

// WithWriter sends the bar and messages to w instead of stderr.
func WithWriter(w io.Writer) SinkOption {
	return func(s *StageSink) {
		s.out = w
	}
}

// WithVerbose prints collected warnings when the sink finishes.
func WithVerbose(verbose bool) SinkOption {
	return func(s *StageSink) {
		s.verbose = verbose
	}
}

// WithColor colors the warning lines.
func WithColor(colored bool) SinkOption {
	return func(s *StageSink) {
		s.colored = colored
	}
}

// NewStageSink creates a sink for a run over the given number of methods.
func NewStageSink(methods int, opts ...SinkOption) *StageSink {
	s := &StageSink{out: os.Stderr}
	for _, opt := range opts {
		opt(s)
	}
	s.tracker = newTracker(s.out, "ranking", prepStages+methods)
	return s
}

// Emit implements engine.EventSink.
func (s *StageSink) Emit(e engine.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return
	}
	if !e.Done {
		s.tracker.Describe(label(e))
		return
	}
	if e.Err != nil && s.err == nil {
		s.err = fmt.Errorf("%s: %w", label(e), e.Err)
	}
	s.warnings = append(s.warnings, e.Warnings...)
	s.tracker.Tick()
}

// Finish clears the bar, reports a failed stage and, when verbose, prints
// the collected warnings. It is safe to call more than once.
func (s *StageSink) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return
	}
	s.finished = true

	if s.err != nil {
		s.tracker.FinishError(s.err)
	} else {
		s.tracker.FinishSuccess()
	}
	if !s.verbose {
		return
	}
	for _, w := range s.warnings {
		if s.colored {
			color.New(color.FgYellow).Fprintf(s.out, "warning: %s\n", w)
		} else {
			fmt.Fprintf(s.out, "warning: %s\n", w)
		}
	}
}

// Warnings returns the warnings collected so far.
func (s *StageSink) Warnings() []models.Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Warning(nil), s.warnings...)
}

// Err returns the first stage failure, if any.
func (s *StageSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func label(e engine.Event) string {
	if e.Method != "" {
		return fmt.Sprintf("%s %s", e.Stage, e.Method.Title())
	}
	return string(e.Stage)
}
