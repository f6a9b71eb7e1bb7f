package main

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/finatech/onboard/internal/journal"
)

func TestRenderSessions(t *testing.T) {
	done := journal.NewState("loja-centro-1a2b3c4d")
	done.Label = "Loja Centro"
	done.Completed = true
	done.UpdatedAt = time.Date(2026, 3, 2, 14, 30, 0, 0, time.Local)
	for n := 1; n <= 4; n++ {
		done.Steps[n] = &journal.StepRecord{Step: n, Submitted: true}
	}

	open := journal.NewState("session-9f8e7d6c")
	open.Steps[1] = &journal.StepRecord{Step: 1, Submitted: true}
	open.Steps[2] = &journal.StepRecord{Step: 2, Invalid: 2}

	out := ansi.Strip(renderSessions([]*journal.State{done, open}))

	assert.Contains(t, out, "loja-centro-1a2b3c4d")
	assert.Contains(t, out, "Loja Centro")
	assert.Contains(t, out, "4/4")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "02/03/2026 14:30")
	assert.Contains(t, out, "1/4")
	assert.Contains(t, out, "in progress")
}

func TestRenderJourney(t *testing.T) {
	st := journal.NewState("session-9f8e7d6c")
	st.Identifier = "user-7"
	st.Fatal = "missing end-user identifier"
	st.Steps[3] = &journal.StepRecord{Step: 3, Title: "Veículo", Attempts: 1, LastError: "status 422"}
	st.Steps[1] = &journal.StepRecord{Step: 1, Title: "Dados pessoais", Attempts: 1, Submitted: true}

	out := ansi.Strip(renderJourney(st))

	assert.Contains(t, out, "Sessão session-9f8e7d6c (fatal)")
	assert.Contains(t, out, "Protocolo: user-7")
	assert.Contains(t, out, "Erro fatal: missing end-user identifier")
	assert.Contains(t, out, "status 422")
	assert.Less(t, strings.Index(out, "Dados pessoais"), strings.Index(out, "Veículo"), "steps are listed in order")
}
