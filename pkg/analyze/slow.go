// Package analyze aggregates Surefire outcomes across runs into slow-test
// and flaky-test reports.
package analyze

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/dkoosis/testalot/pkg/surefire"
)

// DefaultTop is the number of slow tests reported when none is requested.
const DefaultTop = 10

// SlowTest is one ranked entry of the slow-test report.
type SlowTest struct {
	Name    string
	Kind    surefire.Kind // outcome of the slowest sample
	Slowest time.Duration
	Fastest time.Duration
	Median  time.Duration
	Runs    int // outcomes observed for this test
}

// SlowReport ranks tests by their worst observed duration.
type SlowReport struct {
	Tests      []SlowTest
	Total      time.Duration // every outcome's duration
	SlowTotal  time.Duration // every outcome's duration for the ranked tests
	Percentage int           // floor(SlowTotal*100/Total), 0 when Total is 0
	Distinct   int
}

type extremes struct {
	slow, fast surefire.Outcome
	samples    []float64
	total      time.Duration
}

// Slowest ranks the n slowest tests by maximum duration. Ties keep the first
// record seen, and identities with equal maxima keep first-seen order.
func Slowest(outcomes []surefire.Outcome, n int) SlowReport {
	if n <= 0 {
		n = DefaultTop
	}

	var (
		order  []string
		byName = make(map[string]*extremes)
		rep    SlowReport
	)
	for _, o := range outcomes {
		rep.Total += o.Duration
		e, ok := byName[o.Name]
		if !ok {
			e = &extremes{slow: o, fast: o}
			byName[o.Name] = e
			order = append(order, o.Name)
		}
		if o.Duration > e.slow.Duration {
			e.slow = o
		}
		if o.Duration < e.fast.Duration {
			e.fast = o
		}
		e.samples = append(e.samples, float64(o.Duration))
		e.total += o.Duration
	}
	rep.Distinct = len(order)

	sort.SliceStable(order, func(i, j int) bool {
		return byName[order[i]].slow.Duration > byName[order[j]].slow.Duration
	})
	if len(order) > n {
		order = order[:n]
	}

	rep.Tests = make([]SlowTest, 0, len(order))
	for _, name := range order {
		e := byName[name]
		rep.SlowTotal += e.total
		rep.Tests = append(rep.Tests, SlowTest{
			Name:    name,
			Kind:    e.slow.Kind,
			Slowest: e.slow.Duration,
			Fastest: e.fast.Duration,
			Median:  median(e.samples),
			Runs:    len(e.samples),
		})
	}
	rep.Percentage = percentage(rep.SlowTotal, rep.Total)
	return rep
}

func percentage(part, whole time.Duration) int {
	if whole <= 0 {
		return 0
	}
	return int(int64(part) * 100 / int64(whole))
}

func median(samples []float64) time.Duration {
	m, err := stats.Median(samples)
	if err != nil {
		return 0
	}
	return time.Duration(m)
}
