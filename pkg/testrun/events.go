// Package testrun runs a test command repeatedly and archives the Surefire
// reports of every run.
package testrun

import "time"

// EventType identifies a run loop event.
type EventType string

const (
	EventRunStarted   EventType = "run_started"
	EventOutput       EventType = "output"
	EventRunCompleted EventType = "run_completed"
)

// Event reports progress of the run loop.
type Event struct {
	Type     EventType
	Run      int // 1-based
	Line     string
	ExitCode int
	Archived []string
	Progress Progress
	When     time.Time
}
