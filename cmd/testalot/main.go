// Command testalot runs a Maven test suite repeatedly and reports on the
// slowest and flakiest tests across the archived Surefire reports.
//
// Usage:
//
//	testalot <count>             run the suite count times, then report
//	testalot run [count]         same, count defaults to the configured runs
//	testalot report [paths...]   report on existing reports only
//
// Exit codes: 0 success, 1 run or report failure, 2 usage error.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dkoosis/testalot/internal/config"
	"github.com/dkoosis/testalot/internal/progress"
	"github.com/dkoosis/testalot/internal/version"
	"github.com/dkoosis/testalot/pkg/render"
	"github.com/dkoosis/testalot/pkg/testrun"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// usageError marks a bad invocation. It maps to exit code 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// app carries everything a command touches outside its arguments.
type app struct {
	stdout io.Writer
	stderr io.Writer
	fs     afero.Fs
	dir    string
	getenv func(string) string
	isTTY  func(io.Writer) bool
	width  func(io.Writer) int
	now    func() time.Time

	// newInvoker builds the test command runner for one suite.
	newInvoker func(cfg config.Config, dir string) testrun.Invoker
	// view renders the progress of interactive runs.
	view func(ctx context.Context, total int, events <-chan testrun.Event, cancel context.CancelFunc, out io.Writer) error

	configPath string
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		fs:     afero.NewOsFs(),
		dir:    ".",
		getenv: os.Getenv,
		isTTY:  isTTYWriter,
		width:  termWidth,
		now:    time.Now,
		newInvoker: func(cfg config.Config, dir string) testrun.Invoker {
			return &testrun.ExecInvoker{Command: cfg.Command, Dir: dir}
		},
		view: progress.Run,
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return newApp(stdout, stderr).execute(ctx, args)
}

func (a *app) execute(ctx context.Context, args []string) int {
	if args == nil {
		args = []string{} // cobra falls back to os.Args on nil
	}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	fmt.Fprintf(a.stderr, "testalot: %v\n", err)
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(a.stderr, "Run 'testalot --help' for usage.\n")
		return 2
	}
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "testalot <count>",
		Short: "Find slow and flaky Maven tests",
		Long: "Runs the test command count times in the current Maven project, archives the " +
			"Surefire reports of every run, then prints the slowest and the flaky tests.",
		Version:       version.String(),
		Args:          countArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usagef("missing run count")
			}
			return a.runSuite(cmd, args)
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default "+config.LocalFile+" or the user config dir)")
	flags.String("format", config.DefaultFormat, fmt.Sprintf("report format, one of %v", render.Formats))
	flags.Int("top", config.DefaultTop, "number of slow tests to list")
	flags.String("theme", config.DefaultTheme, fmt.Sprintf("terminal theme, one of %v", render.ThemeNames))
	flags.String("command", config.DefaultCommand, "test command to run")
	flags.String("archive-dir", config.DefaultArchiveDir, "directory archived reports are kept in")
	flags.Bool("debug", false, "enable debug logging")
	flags.Bool("no-progress", false, "stream command output instead of showing a progress view")

	root.AddCommand(a.runCmd(), a.reportCmd())
	return root
}

// countArgs accepts at most one positive integer argument.
func countArgs(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return usagef("expected at most one run count, got %d arguments", len(args))
	}
	if len(args) == 1 {
		if _, err := parseCount(args[0]); err != nil {
			return err
		}
	}
	return nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, usagef("run count %q is not a number", s)
	}
	if n < 1 {
		return 0, usagef("run count must be at least 1, got %d", n)
	}
	return n, nil
}

// loadConfig resolves defaults, the config file, the environment and the
// flags set on cmd, in increasing priority.
func (a *app) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cli, err := flagOverrides(cmd)
	if err != nil {
		return config.Config{}, err
	}
	file, _, err := config.Load(a.fs, a.configPath)
	if err != nil {
		return config.Config{}, err
	}
	return config.Resolve(file, config.FromEnv(a.getenv), cli)
}

// flagOverrides collects the flags the user actually set. Values checked
// here are usage errors; everything else is left to config validation.
func flagOverrides(cmd *cobra.Command) (config.Overrides, error) {
	var o config.Overrides
	flags := cmd.Flags()
	if flags.Changed("format") {
		v, _ := flags.GetString("format")
		if !contains(render.Formats, v) {
			return o, usagef("unknown output format %q (want one of %v)", v, render.Formats)
		}
		o.Format = &v
	}
	if flags.Changed("theme") {
		v, _ := flags.GetString("theme")
		if !contains(render.ThemeNames, v) {
			return o, usagef("unknown theme %q (want one of %v)", v, render.ThemeNames)
		}
		o.Theme = &v
	}
	if flags.Changed("top") {
		v, _ := flags.GetInt("top")
		if v < 1 {
			return o, usagef("--top must be at least 1, got %d", v)
		}
		o.Top = &v
	}
	if flags.Changed("command") {
		v, _ := flags.GetString("command")
		o.Command = &v
	}
	if flags.Changed("archive-dir") {
		v, _ := flags.GetString("archive-dir")
		o.ArchiveDir = &v
	}
	if flags.Changed("debug") {
		v, _ := flags.GetBool("debug")
		o.Debug = &v
	}
	if flags.Changed("no-progress") {
		v, _ := flags.GetBool("no-progress")
		o.NoProgress = &v
	}
	return o, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (a *app) newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(a.stderr)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:    !a.isTTY(a.stderr),
		FullTimestamp:    true,
		TimestampFormat:  "15:04:05",
		PadLevelText:     true,
		QuoteEmptyFields: true,
	})
	log.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width of w, or 0 when w is not a terminal.
func termWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
