package metric

import (
	"time"

	"github.com/viant/gmetric/counter"
)

type operationCounter interface {
	Begin(started time.Time) counter.OnDone
	IncrementValue(value interface{}) int64
}

// Recorder records attempts of one strategy, nil or counter-less recorder is a nop
type Recorder struct {
	strategy string
	counter  operationCounter
}

// Done completes an attempt with its outcome event
type Done func(end time.Time, event Event) int64

// Strategy returns recorded strategy name
func (r *Recorder) Strategy() string {
	if r == nil {
		return ""
	}
	return r.strategy
}

// Start begins attempt timing
func (r *Recorder) Start(started time.Time) Done {
	if r == nil || r.counter == nil {
		return func(time.Time, Event) int64 { return 0 }
	}
	onDone := r.counter.Begin(started)
	return func(end time.Time, event Event) int64 {
		r.counter.IncrementValue(event)
		return onDone(end)
	}
}
