package testrun

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const report = `<testsuite>
  <testcase name="t" classname="a.B" time="0.5"/>
</testsuite>
`

// fakeInvoker writes a report into each module's reports directory.
type fakeInvoker struct {
	t       *testing.T
	fs      afero.Fs
	modules []string
	calls   int
	lines   []string
	code    int
	err     error
}

func (f *fakeInvoker) Invoke(_ context.Context, onLine func(string)) (int, error) {
	f.calls++
	for _, m := range f.modules {
		dir := filepath.Join("/proj", m, DefaultReportsDir)
		exists, err := afero.DirExists(f.fs, dir)
		require.NoError(f.t, err)
		assert.False(f.t, exists, "stale reports must be removed before a run")
		require.NoError(f.t, f.fs.MkdirAll(dir, 0o755))
		require.NoError(f.t, afero.WriteFile(f.fs, filepath.Join(dir, "TEST-a.B.xml"), []byte(report), 0o644))
	}
	for _, l := range f.lines {
		onLine(l)
	}
	return f.code, f.err
}

type stepClock struct {
	at   time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	t := c.at
	c.at = c.at.Add(c.step)
	return t
}

func newProject(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/proj", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/proj/pom.xml", []byte("<project/>"), 0o644))
	return fsys
}

func archiveNames(t *testing.T, fsys afero.Fs) []string {
	t.Helper()
	entries, err := afero.ReadDir(fsys, "/proj/"+DefaultArchiveDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunner_ArchivesEveryRun(t *testing.T) {
	fsys := newProject(t)
	inv := &fakeInvoker{t: t, fs: fsys, modules: []string{"."}, lines: []string{"[INFO] BUILD SUCCESS"}, code: 1}
	clock := &stepClock{at: time.Date(2021, 2, 9, 11, 44, 42, 0, time.UTC), step: time.Minute}

	var events []Event
	r := NewRunner(inv, NewHarvester(fsys, "/proj", "", "", nil), fsys,
		WithClock(clock.now),
		WithEvents(func(e Event) { events = append(events, e) }))

	progress, err := r.Run(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, inv.calls)
	assert.Equal(t, 3, progress.Done)
	assert.Equal(t, 0, progress.Remaining())

	names := archiveNames(t, fsys)
	assert.Len(t, names, 3)
	for _, n := range names {
		assert.Regexp(t, `^surefire-reports-20210209T\d{6}$`, n)
	}

	exists, err := afero.DirExists(fsys, "/proj/"+DefaultReportsDir)
	require.NoError(t, err)
	assert.False(t, exists, "reports are moved, not copied")

	require.Len(t, events, 9)
	assert.Equal(t, EventRunStarted, events[0].Type)
	assert.Equal(t, EventOutput, events[1].Type)
	assert.Equal(t, "[INFO] BUILD SUCCESS", events[1].Line)
	assert.Equal(t, EventRunCompleted, events[2].Type)
	assert.Equal(t, 1, events[2].ExitCode)
	assert.Equal(t, 1, events[2].Progress.Done)
	assert.Equal(t, 3, events[8].Run)
}

func TestRunner_MultiModule(t *testing.T) {
	fsys := newProject(t)
	inv := &fakeInvoker{t: t, fs: fsys, modules: []string{"core", "web"}}
	clock := &stepClock{at: time.Date(2021, 2, 9, 11, 44, 42, 0, time.UTC), step: time.Minute}

	r := NewRunner(inv, NewHarvester(fsys, "/proj", "", "", nil), fsys, WithClock(clock.now))
	_, err := r.Run(context.Background(), 1)
	require.NoError(t, err)

	// Started at 11:44:42, the clock steps one minute to the finish.
	assert.Equal(t, []string{
		"surefire-reports-20210209T114542-1",
		"surefire-reports-20210209T114542-2",
	}, archiveNames(t, fsys))

	ok, err := afero.Exists(fsys, "/proj/target/testalot/surefire-reports-20210209T114542-2/TEST-a.B.xml")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunner_TokenCollisionMovesForward(t *testing.T) {
	fsys := newProject(t)
	inv := &fakeInvoker{t: t, fs: fsys, modules: []string{"."}}
	frozen := time.Date(2021, 2, 9, 11, 44, 42, 0, time.UTC)

	r := NewRunner(inv, NewHarvester(fsys, "/proj", "", "", nil), fsys,
		WithClock(func() time.Time { return frozen }))
	_, err := r.Run(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"surefire-reports-20210209T114442",
		"surefire-reports-20210209T114443",
		"surefire-reports-20210209T114444",
	}, archiveNames(t, fsys))
}

func TestRunner_NoReportsAbortsSequence(t *testing.T) {
	fsys := newProject(t)
	inv := &fakeInvoker{t: t, fs: fsys, code: 1}

	r := NewRunner(inv, NewHarvester(fsys, "/proj", "", "", nil), fsys)
	progress, err := r.Run(context.Background(), 5)
	require.ErrorIs(t, err, ErrNoReports)
	assert.Equal(t, 1, inv.calls)
	assert.Equal(t, 0, progress.Done)
}

func TestRunner_RequiresProjectMarker(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/proj", 0o755))
	inv := &fakeInvoker{t: t, fs: fsys, modules: []string{"."}}

	r := NewRunner(inv, NewHarvester(fsys, "/proj", "", "", nil), fsys)
	_, err := r.Run(context.Background(), 1)
	require.ErrorIs(t, err, ErrNoProject)
	assert.Contains(t, err.Error(), "pom.xml")
	assert.Zero(t, inv.calls)

	r = NewRunner(inv, NewHarvester(fsys, "/proj", "", "", nil), fsys, WithProjectMarker("build.gradle"))
	require.NoError(t, afero.WriteFile(fsys, "/proj/build.gradle", nil, 0o644))
	_, err = r.Run(context.Background(), 1)
	require.NoError(t, err)
}

func TestRunner_InvokerError(t *testing.T) {
	fsys := newProject(t)
	boom := errors.New("exec: mvn: not found")
	inv := &fakeInvoker{t: t, fs: fsys, err: boom}

	r := NewRunner(inv, NewHarvester(fsys, "/proj", "", "", nil), fsys)
	_, err := r.Run(context.Background(), 2)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, inv.calls)
}

func TestRunner_CancelledContext(t *testing.T) {
	fsys := newProject(t)
	inv := &fakeInvoker{t: t, fs: fsys, modules: []string{"."}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(inv, NewHarvester(fsys, "/proj", "", "", nil), fsys)
	_, err := r.Run(ctx, 2)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, inv.calls)
}
