package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/logger"
	"github.com/finatech/onboard/internal/nats"
	"github.com/finatech/onboard/internal/wizard"
)

// Observer journals the wizard events of one session. Publishing failures
// are logged and never interrupt the wizard.
func (s *Store) Observer(session string) wizard.Observer {
	return wizard.ObserverFunc(func(ctx context.Context, e wizard.Event) {
		event, ok := toEvent(session, e)
		if !ok {
			return
		}
		if _, err := s.PublishEvent(ctx, event); err != nil {
			logger.Warn("journal: %v", err)
		}
	})
}

func toEvent(session string, e wizard.Event) (Event, bool) {
	meta := StepMeta{
		Step:       e.Step,
		Identifier: e.Identifier,
		Fields:     e.Fields,
		DurationMS: e.Duration.Milliseconds(),
	}
	if e.Err != nil {
		meta.Error = errorText(e.Err)
	}

	event := Event{
		Timestamp: e.Time,
		Session:   session,
		Type:      nats.EventTypeStep,
		Action:    string(e.Kind),
		Data:      e.Title,
	}

	switch e.Kind {
	case wizard.EventInvalid, wizard.EventSubmitted, wizard.EventFailed:
	case wizard.EventCompleted:
		event.Type, event.Action = nats.EventTypeSession, ActionComplete
	case wizard.EventFatal:
		event.Type, event.Action = nats.EventTypeSession, ActionFatal
	default:
		return Event{}, false
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return Event{}, false
	}
	event.Meta = data
	return event, true
}

// errorText is the journaled form of a step error. Response bodies may echo
// submitted values, so status errors keep only method and status code.
func errorText(err error) string {
	var se *api.StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("%s: status %d", se.Method, se.StatusCode)
	}
	return err.Error()
}
