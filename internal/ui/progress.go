// Package ui draws the terminal progress of a conversion run.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Phase represents a stage of one conversion run
type Phase string

const (
	PhaseReading    Phase = "Reading"
	PhaseReshaping  Phase = "Reshaping"
	PhaseGenerating Phase = "Generating"
)

var barTheme = progressbar.Theme{
	Saucer:        "█",
	SaucerHead:    "█",
	SaucerPadding: "░",
	BarStart:      "[",
	BarEnd:        "]",
}

func label(phase Phase) string {
	return "[" + string(phase) + "]"
}

// ProgressBar is the bar of a single phase
type ProgressBar struct {
	bar   *progressbar.ProgressBar
	phase Phase
}

func newBar(phase Phase, total int, w io.Writer) *ProgressBar {
	return &ProgressBar{
		phase: phase,
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(label(phase)),
			progressbar.OptionSetTheme(barTheme),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetRenderBlankState(true),
		),
	}
}

// silentBar satisfies callers of a disabled pipeline
func silentBar(phase Phase) *ProgressBar {
	return &ProgressBar{
		phase: phase,
		bar:   progressbar.NewOptions(-1, progressbar.OptionSetWriter(io.Discard)),
	}
}

// Increment advances the bar by one item
func (pb *ProgressBar) Increment() error {
	return pb.bar.Add(1)
}

// Describe shows detail, such as a file name, next to the phase label
func (pb *ProgressBar) Describe(detail string) {
	pb.bar.Describe(label(pb.phase) + " " + detail)
	pb.bar.RenderBlank()
}

// Finish completes the bar
func (pb *ProgressBar) Finish() error {
	return pb.bar.Finish()
}

// Pipeline hands out one bar per phase, in order, finishing the previous
// bar whenever the next phase starts.
type Pipeline struct {
	phases   []Phase
	next     int
	active   *ProgressBar
	disabled bool
	out      io.Writer
}

// NewPipeline creates a pipeline drawing to stdout
func NewPipeline(phases []Phase) *Pipeline {
	return NewPipelineWithOutput(phases, os.Stdout)
}

// NewPipelineWithOutput creates a pipeline drawing to out
func NewPipelineWithOutput(phases []Phase, out io.Writer) *Pipeline {
	return &Pipeline{phases: phases, out: out}
}

// Disable turns off all output, e.g. when stdout is not a terminal
func (p *Pipeline) Disable() {
	p.disabled = true
}

// NextPhase finishes the running phase and starts the next one with total
// items. It returns nil once every phase has been used.
func (p *Pipeline) NextPhase(total int) *ProgressBar {
	p.Finish()

	if p.next >= len(p.phases) {
		return nil
	}
	phase := p.phases[p.next]
	p.next++

	if p.disabled {
		p.active = silentBar(phase)
	} else {
		p.active = newBar(phase, total, p.out)
	}
	return p.active
}

// Finish completes the running phase, if any
func (p *Pipeline) Finish() {
	if p.active != nil {
		p.active.Finish()
		p.active = nil
	}
}

// PrintSummary prints a closing line below the bars
func (p *Pipeline) PrintSummary(message string) {
	if p.disabled {
		return
	}
	fmt.Fprintln(p.out, message)
}
