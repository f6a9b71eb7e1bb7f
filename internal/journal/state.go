package journal

import (
	"encoding/json"
	"time"

	"github.com/finatech/onboard/internal/nats"
)

// StepRecord is what happened on one step.
type StepRecord struct {
	Step      int       `json:"step"`
	Title     string    `json:"title"`
	Attempts  int       `json:"attempts"`
	Invalid   int       `json:"invalid"`
	Submitted bool      `json:"submitted"`
	LastError string    `json:"last_error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// State is a session journey reduced from its events.
type State struct {
	Session    string              `json:"session"`
	Label      string              `json:"label"`
	Identifier string              `json:"identifier,omitempty"`
	StartedAt  time.Time           `json:"started_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	Steps      map[int]*StepRecord `json:"steps"`
	Completed  bool                `json:"completed"`
	Fatal      string              `json:"fatal,omitempty"`
}

// NewState returns an empty journey.
func NewState(session string) *State {
	return &State{Session: session, Steps: make(map[int]*StepRecord)}
}

// Apply reduces one event into the state.
func (st *State) Apply(event Event) {
	if event.Timestamp.After(st.UpdatedAt) {
		st.UpdatedAt = event.Timestamp
	}

	switch event.Type {
	case nats.EventTypeSession:
		st.applySessionEvent(event)
	case nats.EventTypeStep:
		st.applyStepEvent(event)
	}
}

func (st *State) applySessionEvent(event Event) {
	switch event.Action {
	case ActionStart:
		st.Label = event.Data
		st.StartedAt = event.Timestamp
	case ActionComplete:
		st.Completed = true
	case ActionFatal:
		var meta StepMeta
		_ = json.Unmarshal(event.Meta, &meta)
		st.Fatal = meta.Error
	}
}

func (st *State) step(n int, title string) *StepRecord {
	rec, ok := st.Steps[n]
	if !ok {
		rec = &StepRecord{Step: n}
		st.Steps[n] = rec
	}
	if title != "" {
		rec.Title = title
	}
	return rec
}

func (st *State) applyStepEvent(event Event) {
	var meta StepMeta
	_ = json.Unmarshal(event.Meta, &meta)

	rec := st.step(meta.Step, event.Data)
	rec.UpdatedAt = event.Timestamp

	switch event.Action {
	case "invalid":
		rec.Invalid++
	case "submitted":
		rec.Attempts++
		rec.Submitted = true
		rec.LastError = ""
		if meta.Identifier != "" {
			st.Identifier = meta.Identifier
		}
	case "failed":
		rec.Attempts++
		rec.LastError = meta.Error
	}
}

// StepsDone counts submitted steps.
func (st *State) StepsDone() int {
	n := 0
	for _, rec := range st.Steps {
		if rec.Submitted {
			n++
		}
	}
	return n
}

// Status is a one-word summary for listings.
func (st *State) Status() string {
	switch {
	case st.Fatal != "":
		return "fatal"
	case st.Completed:
		return "completed"
	case st.StartedAt.IsZero() && len(st.Steps) == 0:
		return "empty"
	}
	return "in progress"
}
