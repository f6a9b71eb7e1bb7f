package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	streamName = "onboard_events"

	// subjectRoot prefixes every journal subject.
	subjectRoot = "onboard"

	// Event types
	EventTypeSession = "session"
	EventTypeStep    = "step"
)

// SubjectAll matches the events of every session.
const SubjectAll = subjectRoot + ".>"

// SubjectForSession returns the wildcard subject pattern for all events in a session.
// Example: "onboard.maria-3f2a.>"
func SubjectForSession(session string) string {
	return fmt.Sprintf("%s.%s.>", subjectRoot, session)
}

// SubjectForEvent returns the specific subject for an event type in a session.
// Example: "onboard.maria-3f2a.step"
func SubjectForEvent(session, eventType string) string {
	return fmt.Sprintf("%s.%s.%s", subjectRoot, session, eventType)
}

// SetupStream creates or updates the journal stream with 30-day retention.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{SubjectAll},
		Storage:  jetstream.FileStorage,
		MaxAge:   30 * 24 * time.Hour,
	})
}
