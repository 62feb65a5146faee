package testrun

import "time"

// Progress is the state of a run sequence: how many runs are planned, how
// many completed and how long the completed ones took.
type Progress struct {
	Total   int
	Done    int
	Elapsed time.Duration
}

// NewProgress starts a sequence of total runs.
func NewProgress(total int) Progress {
	return Progress{Total: total}
}

// Advance returns the progress after one more run that took d.
func (p Progress) Advance(d time.Duration) Progress {
	p.Done++
	p.Elapsed += d
	return p
}

// Remaining returns the number of runs still to go.
func (p Progress) Remaining() int {
	if p.Done >= p.Total {
		return 0
	}
	return p.Total - p.Done
}

// ETA estimates the time left as the mean run duration times the remaining
// runs. It is zero until the first run completes.
func (p Progress) ETA() time.Duration {
	if p.Done == 0 {
		return 0
	}
	return p.Elapsed / time.Duration(p.Done) * time.Duration(p.Remaining())
}

// Fraction returns the completed share in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(min(p.Done, p.Total)) / float64(p.Total)
}
