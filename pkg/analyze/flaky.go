package analyze

import (
	"sort"
	"strings"

	"github.com/dkoosis/testalot/pkg/surefire"
)

// FlakyTest is a test whose outcome changed across runs.
type FlakyTest struct {
	Name    string
	History string // one symbol per outcome, oldest first
}

// FlakyReport lists flaky tests and the number of runs they were drawn from.
type FlakyReport struct {
	Tests    []FlakyTest
	Runs     int
	Distinct int
}

// Histories returns every test's chronological outcome string. Outcomes are
// ordered by timestamp; equal timestamps keep collection order.
func Histories(outcomes []surefire.Outcome) map[string]string {
	sorted := make([]surefire.Outcome, len(outcomes))
	copy(sorted, outcomes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	builders := make(map[string]*strings.Builder)
	for _, o := range sorted {
		b, ok := builders[o.Name]
		if !ok {
			b = &strings.Builder{}
			builders[o.Name] = b
		}
		b.WriteByte(o.Kind.Symbol())
	}

	out := make(map[string]string, len(builders))
	for name, b := range builders {
		out[name] = b.String()
	}
	return out
}

// IsFlaky reports whether history holds at least two distinct symbols.
func IsFlaky(history string) bool {
	if history == "" {
		return false
	}
	first := history[0]
	for i := 1; i < len(history); i++ {
		if history[i] != first {
			return true
		}
	}
	return false
}

// Flaky finds tests whose outcome differs between runs. Every outcome must
// come from an archived run directory; see CountRuns.
func Flaky(outcomes []surefire.Outcome) (FlakyReport, error) {
	runs, err := CountRuns(outcomes)
	if err != nil {
		return FlakyReport{}, err
	}

	histories := Histories(outcomes)
	rep := FlakyReport{Runs: runs, Distinct: len(histories)}
	for name, h := range histories {
		if IsFlaky(h) {
			rep.Tests = append(rep.Tests, FlakyTest{Name: name, History: h})
		}
	}
	sort.Slice(rep.Tests, func(i, j int) bool {
		return rep.Tests[i].Name < rep.Tests[j].Name
	})
	return rep, nil
}
