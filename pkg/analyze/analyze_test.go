package analyze

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/testalot/pkg/surefire"
)

var base = time.Date(2021, 2, 9, 11, 44, 42, 0, time.UTC)

func outcome(name string, kind surefire.Kind, d time.Duration, run int, module int) surefire.Outcome {
	at := base.Add(time.Duration(run) * time.Minute)
	token := surefire.NewRunToken(at)
	return surefire.Outcome{
		Name:      name,
		Kind:      kind,
		Duration:  d,
		Timestamp: at,
		Path:      "target/testalot/" + surefire.RunDirName(token, module) + "/TEST-" + name + ".xml",
	}
}

func TestSlowest_RanksByMaximum(t *testing.T) {
	outcomes := []surefire.Outcome{
		outcome("A", surefire.Pass, 10*time.Second, 0, 0),
		outcome("B", surefire.Pass, 5*time.Second, 0, 0),
		outcome("C", surefire.Fail, 20*time.Second, 0, 0),
		outcome("A", surefire.Pass, 1*time.Second, 1, 0),
		outcome("B", surefire.Pass, 5*time.Second, 1, 0),
	}

	rep := Slowest(outcomes, 2)
	require.Len(t, rep.Tests, 2)
	assert.Equal(t, "C", rep.Tests[0].Name)
	assert.Equal(t, surefire.Fail, rep.Tests[0].Kind)
	assert.Equal(t, "A", rep.Tests[1].Name)
	assert.Equal(t, 10*time.Second, rep.Tests[1].Slowest)
	assert.Equal(t, 1*time.Second, rep.Tests[1].Fastest)
	assert.Equal(t, 2, rep.Tests[1].Runs)

	assert.Equal(t, 41*time.Second, rep.Total)
	assert.Equal(t, 31*time.Second, rep.SlowTotal)
	assert.Equal(t, 75, rep.Percentage) // 3100/41 = 75.6
	assert.Equal(t, 3, rep.Distinct)
}

func TestSlowest_DefaultTopAndShortList(t *testing.T) {
	var outcomes []surefire.Outcome
	for i := 0; i < 15; i++ {
		outcomes = append(outcomes, outcome(string(rune('a'+i)), surefire.Pass, time.Duration(i)*time.Second, 0, 0))
	}
	assert.Len(t, Slowest(outcomes, 0).Tests, DefaultTop)
	assert.Len(t, Slowest(outcomes, -3).Tests, DefaultTop)
	assert.Len(t, Slowest(outcomes[:3], 10).Tests, 3)
}

func TestSlowest_TiesKeepFirstSeen(t *testing.T) {
	outcomes := []surefire.Outcome{
		outcome("first", surefire.Pass, 3*time.Second, 0, 0),
		outcome("second", surefire.Pass, 3*time.Second, 0, 0),
		outcome("first", surefire.Error, 3*time.Second, 1, 0),
	}
	rep := Slowest(outcomes, 10)
	require.Len(t, rep.Tests, 2)
	assert.Equal(t, "first", rep.Tests[0].Name)
	assert.Equal(t, "second", rep.Tests[1].Name)
	assert.Equal(t, surefire.Pass, rep.Tests[0].Kind, "equal durations keep the first record")
}

func TestSlowest_Median(t *testing.T) {
	outcomes := []surefire.Outcome{
		outcome("m", surefire.Pass, 1*time.Second, 0, 0),
		outcome("m", surefire.Pass, 9*time.Second, 1, 0),
		outcome("m", surefire.Pass, 2*time.Second, 2, 0),
	}
	rep := Slowest(outcomes, 1)
	require.Len(t, rep.Tests, 1)
	assert.Equal(t, 2*time.Second, rep.Tests[0].Median)
}

func TestSlowest_ZeroTotal(t *testing.T) {
	rep := Slowest([]surefire.Outcome{outcome("z", surefire.Pass, 0, 0, 0)}, 10)
	assert.Equal(t, 0, rep.Percentage)

	rep = Slowest(nil, 10)
	assert.Empty(t, rep.Tests)
	assert.Equal(t, 0, rep.Percentage)
}

func TestIsFlaky(t *testing.T) {
	tests := map[string]bool{
		"...": false,
		"..x": true,
		"":    false,
		".":   false,
		"xxx": false,
		"EE.": true,
		"xE":  true,
	}
	for history, want := range tests {
		assert.Equal(t, want, IsFlaky(history), "history %q", history)
	}
}

func TestFlaky_ChronologicalHistories(t *testing.T) {
	// Deliberately out of chronological order.
	outcomes := []surefire.Outcome{
		outcome("z.Last.t()", surefire.Pass, time.Second, 2, 0),
		outcome("a.First.t()", surefire.Fail, time.Second, 1, 0),
		outcome("z.Last.t()", surefire.Error, time.Second, 0, 0),
		outcome("a.First.t()", surefire.Pass, time.Second, 0, 0),
		outcome("m.Stable.t()", surefire.Pass, time.Second, 0, 0),
		outcome("m.Stable.t()", surefire.Pass, time.Second, 1, 0),
		outcome("z.Last.t()", surefire.Pass, time.Second, 1, 0),
	}

	rep, err := Flaky(outcomes)
	require.NoError(t, err)

	want := []FlakyTest{
		{Name: "a.First.t()", History: ".x"},
		{Name: "z.Last.t()", History: "E.."},
	}
	if diff := cmp.Diff(want, rep.Tests); diff != "" {
		t.Errorf("flaky tests mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, rep.Runs)
	assert.Equal(t, 3, rep.Distinct)
}

func TestFlaky_EqualTimestampsKeepCollectionOrder(t *testing.T) {
	a := outcome("t", surefire.Fail, time.Second, 0, 1)
	b := outcome("t", surefire.Pass, time.Second, 0, 2)
	h := Histories([]surefire.Outcome{a, b})
	assert.Equal(t, "x.", h["t"])
}

func TestFlaky_NoneFlaky(t *testing.T) {
	rep, err := Flaky([]surefire.Outcome{
		outcome("t", surefire.Pass, time.Second, 0, 0),
		outcome("t", surefire.Pass, time.Second, 1, 0),
	})
	require.NoError(t, err)
	assert.Empty(t, rep.Tests)
	assert.Equal(t, 2, rep.Runs)
}

func TestCountRuns_FoldsModules(t *testing.T) {
	outcomes := []surefire.Outcome{
		outcome("a", surefire.Pass, time.Second, 0, 1),
		outcome("b", surefire.Pass, time.Second, 0, 2),
	}
	runs, err := CountRuns(outcomes)
	require.NoError(t, err)
	assert.Equal(t, 1, runs)

	outcomes = append(outcomes, outcome("a", surefire.Pass, time.Second, 1, 1))
	runs, err = CountRuns(outcomes)
	require.NoError(t, err)
	assert.Equal(t, 2, runs)
}

func TestCountRuns_MissingToken(t *testing.T) {
	bad := surefire.Outcome{Name: "x", Path: "target/surefire-reports/TEST-x.xml"}
	_, err := CountRuns([]surefire.Outcome{outcome("a", surefire.Pass, 0, 0, 0), bad})
	require.ErrorIs(t, err, ErrNoRunToken)
	assert.Contains(t, err.Error(), "target/surefire-reports/TEST-x.xml")

	_, err = Flaky([]surefire.Outcome{bad})
	require.ErrorIs(t, err, ErrNoRunToken)
}

func TestAnalyze_EmptyCollection(t *testing.T) {
	rep, err := Analyze(nil, 10)
	require.NoError(t, err)
	assert.Empty(t, rep.Slow.Tests)
	assert.Empty(t, rep.Flaky.Tests)
	assert.Equal(t, 0, rep.Flaky.Runs)
	assert.Equal(t, 0, rep.Slow.Percentage)
}

func TestAnalyze_Totals(t *testing.T) {
	rep, err := Analyze([]surefire.Outcome{
		outcome("a", surefire.Pass, time.Second, 0, 0),
		outcome("a", surefire.Fail, time.Second, 1, 0),
		outcome("b", surefire.Error, time.Second, 1, 0),
	}, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Outcomes)
	assert.Equal(t, 2, rep.Distinct)
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, 1, rep.Errored)
	assert.Len(t, rep.Flaky.Tests, 1)
	assert.Equal(t, 2, rep.Flaky.Runs)
}

func TestRunTotals_Chronological(t *testing.T) {
	totals, err := RunTotals([]surefire.Outcome{
		outcome("a", surefire.Pass, 2*time.Second, 1, 1),
		outcome("b", surefire.Pass, 3*time.Second, 1, 2),
		outcome("a", surefire.Pass, 4*time.Second, 0, 0),
	})
	require.NoError(t, err)
	want := []RunTotal{
		{Token: "20210209T114442", Total: 4 * time.Second},
		{Token: "20210209T114542", Total: 5 * time.Second},
	}
	if diff := cmp.Diff(want, totals); diff != "" {
		t.Errorf("run totals mismatch (-want +got):\n%s", diff)
	}
}
