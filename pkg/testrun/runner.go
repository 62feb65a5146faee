package testrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ErrNoProject reports a working directory without the project marker file.
var ErrNoProject = errors.New("not in the root of a project")

// DefaultProjectMarker is the file that marks a Maven project root.
const DefaultProjectMarker = "pom.xml"

// Runner executes the test command repeatedly, archiving reports after every
// run. Runs are strictly sequential.
type Runner struct {
	invoker   Invoker
	harvester *Harvester
	fs        afero.Fs
	marker    string
	now       func() time.Time
	onEvent   func(Event)
	log       logrus.FieldLogger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithProjectMarker sets the file required in the project root.
func WithProjectMarker(name string) RunnerOption {
	return func(r *Runner) {
		if name != "" {
			r.marker = name
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// WithEvents registers a callback for run loop events. It is called from
// the loop goroutine and from the output pump.
func WithEvents(fn func(Event)) RunnerOption {
	return func(r *Runner) { r.onEvent = fn }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) RunnerOption {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRunner returns a Runner that invokes inv and harvests with h. The
// project marker is looked up with fsys relative to h's root.
func NewRunner(inv Invoker, h *Harvester, fsys afero.Fs, opts ...RunnerOption) *Runner {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	r := &Runner{
		invoker:   inv,
		harvester: h,
		fs:        fsys,
		marker:    DefaultProjectMarker,
		now:       time.Now,
		log:       quiet,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes count runs. Each run removes stale reports, checks the
// project marker, invokes the command and archives the new reports before
// the next run starts. A run without reports aborts the sequence. The
// returned Progress covers the runs that completed.
func (r *Runner) Run(ctx context.Context, count int) (Progress, error) {
	progress := NewProgress(count)
	for run := 1; run <= count; run++ {
		if err := ctx.Err(); err != nil {
			return progress, err
		}
		if err := r.harvester.Clean(); err != nil {
			return progress, fmt.Errorf("run %d: %w", run, err)
		}
		marker := resolve(r.harvester.root, r.marker)
		if ok, err := afero.Exists(r.fs, marker); err != nil || !ok {
			return progress, fmt.Errorf("%w: %s not found", ErrNoProject, marker)
		}

		start := r.now()
		r.emit(Event{Type: EventRunStarted, Run: run, Progress: progress, When: start})
		log := r.log.WithField("run", fmt.Sprintf("%d/%d", run, count))
		log.Debug("starting test command")

		code, err := r.invoker.Invoke(ctx, func(line string) {
			r.emit(Event{Type: EventOutput, Run: run, Line: line, When: r.now()})
		})
		if err != nil {
			return progress, fmt.Errorf("run %d: %w", run, err)
		}

		finished := r.now()
		archived, err := r.harvester.Archive(finished)
		if err != nil {
			return progress, fmt.Errorf("run %d: %w", run, err)
		}
		progress = progress.Advance(finished.Sub(start))

		log.WithFields(logrus.Fields{
			"exit_code": code,
			"duration":  finished.Sub(start).Round(time.Millisecond),
			"eta":       progress.ETA().Round(time.Second),
		}).Info("run finished")
		r.emit(Event{Type: EventRunCompleted, Run: run, ExitCode: code, Archived: archived, Progress: progress, When: finished})
	}
	return progress, nil
}

func (r *Runner) emit(evt Event) {
	if r.onEvent != nil {
		r.onEvent(evt)
	}
}
