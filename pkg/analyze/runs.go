package analyze

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dkoosis/testalot/pkg/surefire"
)

// ErrNoRunToken reports an outcome whose path is outside any archived run
// directory.
var ErrNoRunToken = errors.New("report path carries no run token")

// CountRuns returns the number of distinct runs in outcomes. Reports of
// several modules from one run count once.
func CountRuns(outcomes []surefire.Outcome) (int, error) {
	seen := make(map[string]struct{})
	for _, o := range outcomes {
		token, ok := surefire.RunToken(o.Path)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrNoRunToken, o.Path)
		}
		seen[token] = struct{}{}
	}
	return len(seen), nil
}

// RunTotal is the summed test time of one run.
type RunTotal struct {
	Token string
	Total time.Duration
}

// RunTotals sums outcome durations per run, oldest run first.
func RunTotals(outcomes []surefire.Outcome) ([]RunTotal, error) {
	sums := make(map[string]time.Duration)
	for _, o := range outcomes {
		token, ok := surefire.RunToken(o.Path)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoRunToken, o.Path)
		}
		sums[token] += o.Duration
	}
	out := make([]RunTotal, 0, len(sums))
	for token, total := range sums {
		out = append(out, RunTotal{Token: token, Total: total})
	}
	// Tokens are timestamps in a fixed-width layout, so lexical order is chronological.
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out, nil
}
