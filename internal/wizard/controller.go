// Package wizard sequences the onboarding steps: validate, submit, advance.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/form"
	"github.com/finatech/onboard/internal/logger"
	"github.com/finatech/onboard/internal/metrics"
	"github.com/finatech/onboard/internal/onboard"
)

var (
	// ErrSubmissionInFlight is returned by Advance while another submission runs.
	ErrSubmissionInFlight = errors.New("submission already in flight")
	// ErrCompleted is returned by Advance once every step is done.
	ErrCompleted = errors.New("onboarding already completed")
	// ErrMissingIdentifier is the fatal precondition failure of steps 2-4.
	ErrMissingIdentifier = onboard.ErrMissingIdentifier
)

// fatalBanner is shown once the session can no longer continue.
const fatalBanner = "Não foi possível continuar o cadastro. Reinicie o processo."

// Result is what an Advance call did.
type Result int

const (
	// Invalid means validation failed; nothing was submitted.
	Invalid Result = iota
	// Advanced means the step was submitted and the index moved forward.
	Advanced
	// Failed means the submission failed; the index is unchanged.
	Failed
	// Fatal means the session is unusable.
	Fatal
)

func (r Result) String() string {
	switch r {
	case Invalid:
		return "invalid"
	case Advanced:
		return "advanced"
	case Failed:
		return "failed"
	case Fatal:
		return "fatal"
	}
	return fmt.Sprintf("result(%d)", int(r))
}

// Option configures a Controller.
type Option func(*Controller)

// WithObserver registers an observer for step events.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

// WithSteps replaces the step definitions.
func WithSteps(steps []*onboard.Step) Option {
	return func(c *Controller) { c.steps = steps }
}

// Controller owns the state of one onboarding session.
type Controller struct {
	mu         sync.Mutex
	submitter  api.Submitter
	steps      []*onboard.Step
	observers  []Observer
	index      int
	identifier string
	values     []form.Values
	errs       form.Errors
	banner     string
	submitting bool
	fatal      error
}

// New creates a controller at the first step.
func New(submitter api.Submitter, opts ...Option) *Controller {
	c := &Controller{
		submitter: submitter,
		steps:     onboard.Steps(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.values = make([]form.Values, len(c.steps))
	for i, s := range c.steps {
		c.values[i] = s.Schema.Defaults()
	}
	return c
}

// State is a point-in-time copy of the controller state.
type State struct {
	Index      int
	StepCount  int
	Step       *onboard.Step
	Identifier string
	Values     form.Values
	Errors     form.Errors
	Banner     string
	Submitting bool
	Fatal      error
}

// Completed reports whether the terminal step was reached.
func (s State) Completed() bool {
	return s.Index >= s.StepCount
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Index:      c.index,
		StepCount:  len(c.steps),
		Identifier: c.identifier,
		Errors:     form.Errors{},
		Banner:     c.banner,
		Submitting: c.submitting,
		Fatal:      c.fatal,
	}
	for k, v := range c.errs {
		st.Errors[k] = v
	}
	if c.index < len(c.steps) {
		st.Step = c.steps[c.index]
		st.Values = c.values[c.index].Clone()
	}
	return st
}

// Index is the active step index; StepCount() means completed.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// StepCount is the number of steps.
func (c *Controller) StepCount() int {
	return len(c.steps)
}

// Identifier is the carried end-user identifier, empty before step 1 succeeds.
func (c *Controller) Identifier() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identifier
}

// Completed reports whether every step was submitted.
func (c *Controller) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index >= len(c.steps)
}

// StepValues returns a copy of the values entered on step i.
func (c *Controller) StepValues(i int) form.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.values) {
		return nil
	}
	return c.values[i].Clone()
}

// SetValue updates a field of the active step. Errors shown for fields of
// the step are re-evaluated so errors of fields that are no longer required
// disappear.
func (c *Controller) SetValue(name, value string) {
	c.SetValues(form.Values{name: value})
}

// SetValues updates several fields of the active step at once.
func (c *Controller) SetValues(values form.Values) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index >= len(c.steps) {
		return
	}

	for k, v := range values {
		c.values[c.index][k] = v
	}
	if len(c.errs) == 0 {
		return
	}
	out := form.Validate(c.steps[c.index].Schema, c.values[c.index], form.Force)
	for field := range c.errs {
		if msg, ok := out.Errors[field]; ok {
			c.errs[field] = msg
		} else {
			delete(c.errs, field)
		}
	}
}

// CheckField validates one field of the active step leniently, for inline
// feedback while the user types.
func (c *Controller) CheckField(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index >= len(c.steps) {
		return ""
	}
	return form.ValidateField(c.steps[c.index].Schema, c.values[c.index], name, form.Lenient)
}

// Advance validates the active step and, when valid, submits it. On success
// the index moves forward; step 1 also sets the carried identifier.
func (c *Controller) Advance(ctx context.Context) (Result, error) {
	c.mu.Lock()
	if c.fatal != nil {
		err := c.fatal
		c.mu.Unlock()
		return Fatal, err
	}
	if c.index >= len(c.steps) {
		c.mu.Unlock()
		return Invalid, ErrCompleted
	}
	if c.submitting {
		c.mu.Unlock()
		return Invalid, ErrSubmissionInFlight
	}

	index := c.index
	step := c.steps[index]
	values := c.values[index].Clone()
	identifier := c.identifier

	out := form.Validate(step.Schema, values, form.Force)
	if !out.Valid() {
		c.errs = out.Errors
		c.banner = ""
		c.mu.Unlock()

		metrics.RecordValidationFailure(index)
		logger.Debug("Step %d invalid: %v", index+1, out.Fields())
		c.notify(ctx, Event{Kind: EventInvalid, Step: index, Title: step.Title, Fields: out.Fields()})
		return Invalid, nil
	}

	c.errs = nil
	c.submitting = true
	c.mu.Unlock()

	start := time.Now()
	outcome, err := step.Submit(ctx, c.submitter, values, identifier)
	duration := time.Since(start)

	c.mu.Lock()
	c.submitting = false

	if errors.Is(err, ErrMissingIdentifier) {
		c.fatal = err
		c.banner = fatalBanner
		c.mu.Unlock()

		logger.Error("Step %d: %v", index+1, err)
		c.notify(ctx, Event{Kind: EventFatal, Step: index, Title: step.Title, Err: err})
		return Fatal, err
	}

	if err != nil {
		c.banner = step.FailureMessage
		c.mu.Unlock()

		metrics.RecordSubmission(index, "failure", duration)
		logger.Error("Step %d (%s) submission failed: %v", index+1, step.Title, err)
		c.notify(ctx, Event{Kind: EventFailed, Step: index, Title: step.Title, Err: err, Duration: duration})
		return Failed, err
	}

	if outcome.Identifier != "" && !step.NeedsIdentifier {
		c.identifier = outcome.Identifier
	}
	c.banner = ""
	c.index++
	completed := c.index >= len(c.steps)
	identifier = c.identifier
	c.mu.Unlock()

	metrics.RecordSubmission(index, "success", duration)
	logger.Info("Step %d (%s) submitted in %s", index+1, step.Title, duration)
	c.notify(ctx, Event{Kind: EventSubmitted, Step: index, Title: step.Title, Identifier: identifier, Duration: duration})
	if completed {
		metrics.CompletedTotal.Inc()
		c.notify(ctx, Event{Kind: EventCompleted, Step: index, Identifier: identifier})
	}
	return Advanced, nil
}

func (c *Controller) notify(ctx context.Context, e Event) {
	e.Time = time.Now()
	for _, o := range c.observers {
		o.Observe(ctx, e)
	}
}
