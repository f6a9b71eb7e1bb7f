package journal

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/nats"
	"github.com/finatech/onboard/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	ctx := context.Background()

	e, err := nats.Open(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	return NewStore(e.JS, e.Stream), ctx
}

func TestLoadState_Journey(t *testing.T) {
	store, ctx := setupTestStore(t)

	require.NoError(t, store.Start(ctx, "maria-1a2b", "maria"))

	obs := store.Observer("maria-1a2b")
	obs.Observe(ctx, wizard.Event{Kind: wizard.EventInvalid, Step: 0, Title: "Dados pessoais", Fields: []string{"document"}})
	obs.Observe(ctx, wizard.Event{Kind: wizard.EventSubmitted, Step: 0, Title: "Dados pessoais", Identifier: "user-42", Duration: 120 * time.Millisecond})
	obs.Observe(ctx, wizard.Event{Kind: wizard.EventFailed, Step: 1, Title: "Endereço", Err: errors.New("status 500")})

	st, err := store.LoadState(ctx, "maria-1a2b")
	require.NoError(t, err)

	assert.Equal(t, "maria", st.Label)
	assert.Equal(t, "user-42", st.Identifier)
	assert.Equal(t, "in progress", st.Status())
	assert.Equal(t, 1, st.StepsDone())

	require.Contains(t, st.Steps, 0)
	assert.Equal(t, 1, st.Steps[0].Invalid)
	assert.Equal(t, 1, st.Steps[0].Attempts)
	assert.True(t, st.Steps[0].Submitted)

	require.Contains(t, st.Steps, 1)
	assert.False(t, st.Steps[1].Submitted)
	assert.Equal(t, "status 500", st.Steps[1].LastError)

	obs.Observe(ctx, wizard.Event{Kind: wizard.EventSubmitted, Step: 1, Title: "Endereço", Identifier: "user-42"})
	obs.Observe(ctx, wizard.Event{Kind: wizard.EventCompleted, Step: 3, Identifier: "user-42"})

	st, err = store.LoadState(ctx, "maria-1a2b")
	require.NoError(t, err)
	assert.Empty(t, st.Steps[1].LastError)
	assert.Equal(t, 2, st.Steps[1].Attempts)
	assert.True(t, st.Completed)
	assert.Equal(t, "completed", st.Status())
}

func TestObserver_StatusErrorOmitsBody(t *testing.T) {
	store, ctx := setupTestStore(t)

	err := fmt.Errorf("create end user: %w", &api.StatusError{
		Method:     "POST",
		URL:        "http://core/api/v1/endusers",
		StatusCode: 422,
		Body:       `{"document":"529.982.247-25 already registered"}`,
	})
	store.Observer("s1").Observe(ctx, wizard.Event{Kind: wizard.EventFailed, Step: 0, Title: "Dados pessoais", Err: err})

	st, err := store.LoadState(ctx, "s1")
	require.NoError(t, err)
	require.Contains(t, st.Steps, 0)
	assert.Equal(t, "POST: status 422", st.Steps[0].LastError)
	assert.NotContains(t, st.Steps[0].LastError, "529")
}

func TestLoadState_Fatal(t *testing.T) {
	store, ctx := setupTestStore(t)

	store.Observer("s1").Observe(ctx, wizard.Event{Kind: wizard.EventFatal, Step: 1, Err: wizard.ErrMissingIdentifier})

	st, err := store.LoadState(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "fatal", st.Status())
	assert.Contains(t, st.Fatal, "identifier")
}

func TestLoadState_UnknownSession(t *testing.T) {
	store, ctx := setupTestStore(t)

	st, err := store.LoadState(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, "empty", st.Status())
	assert.Empty(t, st.Steps)
}

func TestListSessions(t *testing.T) {
	store, ctx := setupTestStore(t)

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	_, err := store.PublishEvent(ctx, Event{Session: "old", Type: nats.EventTypeSession, Action: ActionStart, Timestamp: base})
	require.NoError(t, err)
	_, err = store.PublishEvent(ctx, Event{Session: "new", Type: nats.EventTypeSession, Action: ActionStart, Timestamp: base.Add(time.Hour)})
	require.NoError(t, err)

	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "new", sessions[0].Session)
	assert.Equal(t, "old", sessions[1].Session)
}

func TestToEvent_NeverCarriesValues(t *testing.T) {
	event, ok := toEvent("s", wizard.Event{Kind: wizard.EventInvalid, Step: 2, Fields: []string{"value"}})
	require.True(t, ok)
	assert.Equal(t, nats.EventTypeStep, event.Type)
	assert.JSONEq(t, `{"step":2,"fields":["value"]}`, string(event.Meta))

	_, ok = toEvent("s", wizard.Event{Kind: "unknown"})
	assert.False(t, ok)
}
