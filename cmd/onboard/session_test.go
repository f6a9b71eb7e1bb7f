package main

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var validToken = regexp.MustCompile(`^[a-z0-9-]+$`)

func TestSessionID(t *testing.T) {
	tests := []struct {
		label  string
		prefix string
	}{
		{"Maria da Silva", "maria-da-silva-"},
		{"Loja Centro / São Paulo", "loja-centro-sao-paulo-"},
		{"", "session-"},
		{"***", "session-"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			id := sessionID(tt.label)
			assert.True(t, strings.HasPrefix(id, tt.prefix), id)
			assert.Len(t, id, len(tt.prefix)+8)
			assert.Regexp(t, validToken, id)
		})
	}
}

func TestSessionIDIsUnique(t *testing.T) {
	assert.NotEqual(t, sessionID("loja"), sessionID("loja"))
}

func TestSessionIDTruncatesLongLabels(t *testing.T) {
	id := sessionID(strings.Repeat("concessionaria ", 10))
	assert.LessOrEqual(t, len(id), maxLabelLength+9)
	assert.NotContains(t, id, "--")
	assert.Regexp(t, validToken, id)
}
