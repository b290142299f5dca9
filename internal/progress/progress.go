package progress

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

var stageTheme = progressbar.Theme{
	Saucer:        "=",
	SaucerHead:    ">",
	SaucerPadding: " ",
	BarStart:      "[",
	BarEnd:        "]",
}

// Tracker counts completed pipeline stages on a terminal bar. The label
// names the run and Describe shows the stage in flight.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
	out   io.Writer
}

func newTracker(w io.Writer, label string, stages int) *Tracker {
	return &Tracker{
		bar: progressbar.NewOptions(stages,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(label),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionUseANSICodes(true),
			progressbar.OptionSetElapsedTime(false),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetTheme(stageTheme),
		),
		label: label,
		out:   w,
	}
}

func (t *Tracker) Describe(stage string) {
	t.bar.Describe(fmt.Sprintf("%s: %s", t.label, stage))
}

// Tick marks one stage done. Safe for concurrent use.
func (t *Tracker) Tick() {
	_ = t.bar.Add(1)
}

// FinishSuccess removes the bar without leaving output.
func (t *Tracker) FinishSuccess() {
	t.clear()
}

// FinishError removes the bar and names the failure.
func (t *Tracker) FinishError(err error) {
	t.clear()
	fmt.Fprintf(t.out, "  %s error: %v\n", t.label, err)
}

func (t *Tracker) clear() {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}
