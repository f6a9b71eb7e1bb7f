package wizard

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/finatech/onboard/internal/form"
)

func TestFormatTypedAmount(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"0", ""},
		{"5", "R$ 0,05"},
		{"R$ 0,055", "R$ 0,55"},
		{"123456", "R$ 1.234,56"},
		{"R$ 1.234,5", "R$ 123,45"},
		{"abc", ""},
		{"9999999999999999", "R$ 9.999.999.999,99"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTypedAmount(tt.in))
		})
	}
}

func TestMaskedFieldKeepsPlaceholders(t *testing.T) {
	f := newField(form.Field{Name: "zipCode", Mask: "99999-999"})

	f.SetValue("0131")
	assert.Equal(t, "0131", f.input.Value())
	assert.Equal(t, "0131_-___", f.Value())

	f.SetValue("")
	assert.Empty(t, f.Value())
}

func TestNumberFieldKeepsDigits(t *testing.T) {
	f := newField(form.Field{Name: "number", Type: form.TypeNumber})
	f.Focus()

	for _, r := range "12a3" {
		f.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	assert.Equal(t, "123", f.Value())
}

func TestPickerCyclesAndFilters(t *testing.T) {
	f := newField(form.Field{
		Name: "state",
		Type: form.TypeEnum,
		Options: []form.Option{
			{Label: "Minas Gerais", Value: "MG"},
			{Label: "Rio de Janeiro", Value: "RJ"},
			{Label: "São Paulo", Value: "SP"},
		},
	})
	assert.Empty(t, f.Value())

	changed, _ := f.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	assert.True(t, changed)
	assert.Equal(t, "MG", f.Value(), "first move picks the first option")

	f.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	assert.Equal(t, "SP", f.Value(), "left wraps around")

	f.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	f.Update(tea.KeyPressMsg{Code: 'i', Text: "i"})
	assert.Equal(t, "RJ", f.Value())
	assert.Equal(t, "ri", f.filter)

	changed, _ = f.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	assert.False(t, changed, "a single match has nowhere to move")

	f.Update(tea.KeyPressMsg{Code: tea.KeyBackspace})
	assert.Equal(t, "r", f.filter)

	f.Blur()
	assert.Empty(t, f.filter)
}

func TestPickerTypeAheadWithoutMatchKeepsSelection(t *testing.T) {
	f := newField(form.Field{
		Name:    "hasDriverLicense",
		Type:    form.TypeBoolean,
		Default: "false",
	})
	assert.Equal(t, "false", f.Value())
	assert.Equal(t, "Não", f.selectedLabel())

	changed, _ := f.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	assert.False(t, changed)
	assert.Equal(t, "false", f.Value())
}

func TestSetChoicesClearsMissingSelection(t *testing.T) {
	f := newField(form.Field{Name: "brand", Type: form.TypeEnum})
	f.SetChoices([]form.Option{{Label: "Fiat", Value: "21"}})
	f.SetValue("21")

	f.SetChoices([]form.Option{{Label: "Fiat", Value: "21"}, {Label: "Ford", Value: "22"}})
	assert.Equal(t, "21", f.Value())

	f.SetChoices([]form.Option{{Label: "Ford", Value: "22"}})
	assert.Empty(t, f.Value())
}
