// Package surefire parses Maven Surefire XML reports into per-test outcomes.
package surefire

import (
	"errors"
	"fmt"
	"time"
)

// Kind is the outcome of one test in one run.
type Kind int

const (
	Pass Kind = iota
	Fail
	Error
)

// ErrMalformedEntry reports a test entry carrying more than one outcome
// marker, or a marker outside any entry.
var ErrMalformedEntry = errors.New("malformed test entry")

// String returns "PASS", "FAIL" or "ERROR".
func (k Kind) String() string {
	switch k {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Error:
		return "ERROR"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Symbol returns the one-character form used in outcome histories.
func (k Kind) Symbol() byte {
	switch k {
	case Fail:
		return 'x'
	case Error:
		return 'E'
	default:
		return '.'
	}
}

// Escalate moves a passing test to kind to. Only Pass can be escalated, and
// only to Fail or Error.
func (k Kind) Escalate(to Kind) (Kind, error) {
	if k != Pass {
		return k, fmt.Errorf("%w: already %s, got another %s marker", ErrMalformedEntry, k, to)
	}
	if to != Fail && to != Error {
		return k, fmt.Errorf("%w: cannot escalate to %s", ErrMalformedEntry, to)
	}
	return to, nil
}

// Outcome is one test's result from one report document.
type Outcome struct {
	Name      string        // classname + "." + name + "()"
	Kind      Kind
	Duration  time.Duration
	Timestamp time.Time // modification time of the source document
	Path      string    // source document
}
