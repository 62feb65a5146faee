package analyze

import "github.com/dkoosis/testalot/pkg/surefire"

// Report is the combined result of both analyzers.
type Report struct {
	Slow     SlowReport
	Flaky    FlakyReport
	Runs     []RunTotal
	Outcomes int
	Distinct int
	Failed   int // outcomes of kind Fail
	Errored  int // outcomes of kind Error
}

// Analyze runs the slow and flaky analyzers over the same outcomes.
func Analyze(outcomes []surefire.Outcome, top int) (Report, error) {
	flaky, err := Flaky(outcomes)
	if err != nil {
		return Report{}, err
	}
	runs, err := RunTotals(outcomes)
	if err != nil {
		return Report{}, err
	}
	rep := Report{
		Slow:     Slowest(outcomes, top),
		Flaky:    flaky,
		Runs:     runs,
		Outcomes: len(outcomes),
		Distinct: flaky.Distinct,
	}
	for _, o := range outcomes {
		switch o.Kind {
		case surefire.Fail:
			rep.Failed++
		case surefire.Error:
			rep.Errored++
		}
	}
	return rep, nil
}
