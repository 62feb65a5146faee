package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dkoosis/testalot/internal/config"
	"github.com/dkoosis/testalot/internal/progress"
	"github.com/dkoosis/testalot/pkg/testrun"
)

// eventBuffer is how many events the progress view may fall behind by.
const eventBuffer = 256

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [count]",
		Short: "Run the test suite repeatedly, then report",
		Long: "Runs the test command count times, archiving the Surefire reports of every run, " +
			"then reports on everything in the archive. Count defaults to the configured runs.",
		Args: countArgs,
		RunE: a.runSuite,
	}
}

// runSuite executes the configured number of runs and then reports on the
// archive. An explicit count argument wins over the configuration.
func (a *app) runSuite(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	count := cfg.Runs
	if len(args) == 1 {
		if count, err = parseCount(args[0]); err != nil {
			return err
		}
	}
	log := a.newLogger(cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	interactive := !cfg.NoProgress && a.isTTY(a.stderr)

	var runErr error
	if interactive {
		runErr = a.runWithView(ctx, cfg, count, log)
	} else {
		runErr = a.runStreaming(ctx, cfg, count, log)
	}
	var ve viewError
	if errors.As(runErr, &ve) {
		if err := a.report(cfg, log, []string{a.harvester(cfg, log).ArchivePath()}); err != nil {
			return errors.Join(runErr, err)
		}
		return runErr
	}
	if runErr != nil {
		return runErr
	}
	return a.report(cfg, log, []string{a.harvester(cfg, log).ArchivePath()})
}

func (a *app) harvester(cfg config.Config, log logrus.FieldLogger) *testrun.Harvester {
	return testrun.NewHarvester(a.fs, a.dir, cfg.ReportsDir, cfg.ArchiveDir, log)
}

func (a *app) runner(cfg config.Config, log logrus.FieldLogger, onEvent func(testrun.Event)) *testrun.Runner {
	return testrun.NewRunner(a.newInvoker(cfg, a.dir), a.harvester(cfg, log), a.fs,
		testrun.WithProjectMarker(cfg.ProjectMarker),
		testrun.WithClock(a.now),
		testrun.WithEvents(onEvent),
		testrun.WithLogger(log),
	)
}

// runStreaming passes command output straight through to stderr and logs
// one line per finished run.
func (a *app) runStreaming(ctx context.Context, cfg config.Config, count int, log logrus.FieldLogger) error {
	r := a.runner(cfg, log, func(evt testrun.Event) {
		if evt.Type == testrun.EventOutput {
			fmt.Fprintln(a.stderr, evt.Line)
		}
	})
	_, err := r.Run(ctx, count)
	return err
}

// viewError reports a progress view that failed before the runs finished.
// The runs are cancelled but the archive is still reported on.
type viewError struct{ err error }

func (e viewError) Error() string { return "progress view: " + e.err.Error() }
func (e viewError) Unwrap() error { return e.err }

// runWithView drives the progress view while the runs execute in the
// background. Quitting the view cancels the remaining runs, and so does a
// view that fails.
func (a *app) runWithView(ctx context.Context, cfg config.Config, count int, log logrus.FieldLogger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The view owns the terminal; log only what the user must see.
	runLog := a.newLogger(cfg)
	runLog.SetOutput(io.Discard)

	sink := progress.NewSink(eventBuffer)
	r := a.runner(cfg, runLog, sink.Send)

	done := make(chan error, 1)
	go func() {
		_, err := r.Run(ctx, count)
		sink.Close()
		done <- err
	}()

	viewErr := a.view(ctx, count, sink.Events(), cancel, a.stderr)
	if viewErr != nil {
		cancel()
	}
	sink.Stop()
	runErr := <-done
	if viewErr == nil {
		return runErr
	}
	if runErr == nil {
		log.WithError(viewErr).Warn("progress view failed after the last run")
		return nil
	}
	if errors.Is(runErr, context.Canceled) {
		return viewError{viewErr}
	}
	return runErr
}
