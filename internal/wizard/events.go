package wizard

import (
	"context"
	"time"
)

// EventKind classifies a step event.
type EventKind string

const (
	EventInvalid   EventKind = "invalid"
	EventSubmitted EventKind = "submitted"
	EventFailed    EventKind = "failed"
	EventFatal     EventKind = "fatal"
	EventCompleted EventKind = "completed"
)

// Event describes something that happened to a step. Step is the zero-based
// index of the step; EventCompleted carries the last one. It never carries
// the values the user entered.
type Event struct {
	Kind       EventKind
	Step       int
	Title      string
	Identifier string
	// Fields lists the failing fields of an EventInvalid.
	Fields   []string
	Err      error
	Duration time.Duration
	Time     time.Time
}

// Observer receives step events synchronously, after the controller has
// released its lock.
type Observer interface {
	Observe(ctx context.Context, e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, e Event)

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, e Event) {
	f(ctx, e)
}
