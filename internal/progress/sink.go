package progress

import (
	"sync"

	"github.com/dkoosis/testalot/pkg/testrun"
)

// Sink forwards runner events to the view. Output lines are dropped when the
// view falls behind; run boundaries are always delivered until Stop.
type Sink struct {
	ch   chan testrun.Event
	stop chan struct{}
	once sync.Once
}

// NewSink returns a Sink buffering up to buffer events.
func NewSink(buffer int) *Sink {
	return &Sink{ch: make(chan testrun.Event, buffer), stop: make(chan struct{})}
}

// Events is the channel the view reads from.
func (s *Sink) Events() <-chan testrun.Event { return s.ch }

// Send delivers evt. It never blocks after Stop.
func (s *Sink) Send(evt testrun.Event) {
	if evt.Type == testrun.EventOutput {
		select {
		case s.ch <- evt:
		default:
		}
		return
	}
	select {
	case s.ch <- evt:
	case <-s.stop:
	}
}

// Close ends the event stream. Call it once the runner has returned.
func (s *Sink) Close() { close(s.ch) }

// Stop releases senders blocked on a view that is no longer reading.
func (s *Sink) Stop() { s.once.Do(func() { close(s.stop) }) }
