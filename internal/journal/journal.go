// Package journal records the onboarding journey of each session as an
// append-only event log on JetStream. Only step outcomes are recorded, never
// the values the user typed.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/finatech/onboard/internal/logger"
	"github.com/finatech/onboard/internal/nats"
	"github.com/nats-io/nats.go/jetstream"
)

// Actions of session events.
const (
	ActionStart    = "start"
	ActionComplete = "complete"
	ActionFatal    = "fatal"
)

// Event is one entry of the journal.
type Event struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Session   string          `json:"session"`
	Type      string          `json:"type"`   // session, step
	Action    string          `json:"action"` // start, complete, fatal, invalid, submitted, failed
	Meta      json.RawMessage `json:"meta,omitempty"`
	Data      string          `json:"data"` // step title or session label
}

// StepMeta is the metadata of step events.
type StepMeta struct {
	Step       int      `json:"step"`
	Identifier string   `json:"identifier,omitempty"`
	Fields     []string `json:"fields,omitempty"`
	Error      string   `json:"error,omitempty"`
	DurationMS int64    `json:"duration_ms,omitempty"`
}

// Store publishes and reads journal events.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
}

// NewStore creates a Store over the journal stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{js: js, stream: stream}
}

// PublishEvent appends an event to onboard.{session}.{type}.
func (s *Store) PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(event.Session, event.Type)
	logger.Debug("Publishing event: session=%s type=%s action=%s", event.Session, event.Type, event.Action)

	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}
	return ack, nil
}

// Start records the beginning of a session.
func (s *Store) Start(ctx context.Context, session, label string) error {
	_, err := s.PublishEvent(ctx, Event{
		Session: session,
		Type:    nats.EventTypeSession,
		Action:  ActionStart,
		Data:    label,
	})
	return err
}

// readEvents fetches every event matching subject, in stream order.
func (s *Store) readEvents(ctx context.Context, subject string) ([]Event, error) {
	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: subject,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	var events []Event
	const batchSize = 1000
	malformed := 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			var event Event
			meta, _ := msg.Metadata()
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				malformed++
				if meta != nil {
					logger.Warn("Skipping malformed event (seq=%d): %v", meta.Sequence.Stream, err)
				}
				_ = msg.Ack()
				continue
			}
			if event.ID == "" && meta != nil {
				event.ID = strconv.FormatUint(meta.Sequence.Stream, 10)
			}
			events = append(events, event)
			_ = msg.Ack()
		}
		if err := msgs.Error(); err != nil {
			logger.Debug("Fetch ended: %v", err)
		}
		if count < batchSize {
			break
		}
	}

	if malformed > 0 {
		logger.Warn("Skipped %d malformed events", malformed)
	}
	return events, nil
}

// LoadState rebuilds the journey of one session.
func (s *Store) LoadState(ctx context.Context, session string) (*State, error) {
	events, err := s.readEvents(ctx, nats.SubjectForSession(session))
	if err != nil {
		return nil, err
	}
	state := NewState(session)
	for _, e := range events {
		state.Apply(e)
	}
	logger.Debug("State loaded for %s: %d events", session, len(events))
	return state, nil
}

// ListSessions returns every journaled session, most recent activity first.
func (s *Store) ListSessions(ctx context.Context) ([]*State, error) {
	events, err := s.readEvents(ctx, nats.SubjectAll)
	if err != nil {
		return nil, err
	}

	bySession := map[string]*State{}
	for _, e := range events {
		st, ok := bySession[e.Session]
		if !ok {
			st = NewState(e.Session)
			bySession[e.Session] = st
		}
		st.Apply(e)
	}

	out := make([]*State, 0, len(bySession))
	for _, st := range bySession {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].Session < out[j].Session
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}
