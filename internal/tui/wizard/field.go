package wizard

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/finatech/onboard/internal/form"
	"github.com/finatech/onboard/internal/mask"
)

// maxCurrencyDigits keeps typed amounts well inside int64 minor units.
const maxCurrencyDigits = 12

// currencyFields are number fields entered as Brazilian currency.
var currencyFields = map[string]bool{
	"value":       true,
	"grossIncome": true,
}

// field is one input of a step form: a text input, optionally masked, or a
// picker over a list of options.
type field struct {
	def    form.Field
	input  textinput.Model
	picker bool

	choices  []form.Option
	selected string // picker value
	filter   string // picker type-ahead
}

func newField(def form.Field) *field {
	f := &field{def: def}
	if def.Type == form.TypeEnum || def.Type == form.TypeBoolean {
		f.picker = true
		f.choices = def.Options
		if def.Type == form.TypeBoolean && len(f.choices) == 0 {
			f.choices = []form.Option{{Label: "Sim", Value: "true"}, {Label: "Não", Value: "false"}}
		}
		f.selected = def.Default
		return f
	}

	f.input = textinput.New()
	f.input.Prompt = ""
	f.input.SetStyles(inputStyles)
	f.input.SetWidth(50)
	f.input.Placeholder = placeholderFor(def)
	if def.Default != "" {
		f.input.SetValue(def.Default)
	}
	return f
}

func placeholderFor(def form.Field) string {
	switch {
	case def.Type == form.TypeDate:
		return "dd/mm/aaaa"
	case def.Mask != "":
		return def.Mask
	case currencyFields[def.Name]:
		return "R$ 0,00"
	}
	return ""
}

// Name is the field name.
func (f *field) Name() string { return f.def.Name }

// pattern is the display mask of the field, if any.
func (f *field) pattern() string {
	return f.def.Mask
}

// Value is the raw value handed to the validator. Masked values keep their
// placeholders, so an incomplete entry reads "123.456.789-0_".
func (f *field) Value() string {
	if f.picker {
		return f.selected
	}
	v := f.input.Value()
	if p := f.pattern(); p != "" {
		return mask.Apply(p, v)
	}
	return v
}

// SetValue replaces the field content without emitting changes.
func (f *field) SetValue(v string) {
	if f.picker {
		f.selected = v
		return
	}
	if p := f.pattern(); p != "" {
		v = mask.Partial(p, v)
	}
	f.input.SetValue(v)
	f.input.CursorEnd()
}

// SetChoices replaces the picker options. A selection no longer offered is
// cleared.
func (f *field) SetChoices(choices []form.Option) {
	f.choices = choices
	f.filter = ""
	if f.selected == "" {
		return
	}
	for _, c := range choices {
		if c.Value == f.selected {
			return
		}
	}
	f.selected = ""
}

// Label of the selected choice, or "" when nothing is picked.
func (f *field) selectedLabel() string {
	for _, c := range f.choices {
		if c.Value == f.selected {
			return c.Label
		}
	}
	return ""
}

func (f *field) Focus() tea.Cmd {
	if f.picker {
		return nil
	}
	return f.input.Focus()
}

func (f *field) Blur() {
	f.filter = ""
	if !f.picker {
		f.input.Blur()
	}
}

func (f *field) SetWidth(w int) {
	if !f.picker {
		f.input.SetWidth(w)
	}
}

// Update handles a key press. changed reports whether the value moved.
func (f *field) Update(msg tea.KeyPressMsg) (changed bool, cmd tea.Cmd) {
	if f.picker {
		return f.updatePicker(msg), nil
	}

	before := f.input.Value()
	f.input, cmd = f.input.Update(msg)
	f.reformat()
	return f.input.Value() != before, cmd
}

// reformat applies the display mask or currency format to the typed text.
func (f *field) reformat() {
	v := f.input.Value()
	switch {
	case f.pattern() != "":
		v = mask.Partial(f.pattern(), v)
	case currencyFields[f.def.Name]:
		v = formatTypedAmount(v)
	case f.def.Type == form.TypeNumber:
		v = mask.Digits(v)
	default:
		return
	}
	if v != f.input.Value() {
		f.input.SetValue(v)
		f.input.CursorEnd()
	}
}

// formatTypedAmount reads the typed digits as cents: "123456" shows
// "R$ 1.234,56".
func formatTypedAmount(v string) string {
	digits := strings.TrimLeft(mask.Digits(v), "0")
	if digits == "" {
		return ""
	}
	if len(digits) > maxCurrencyDigits {
		digits = digits[:maxCurrencyDigits]
	}
	units, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return ""
	}
	return mask.FormatCurrency(units)
}

func (f *field) filtered() []form.Option {
	if f.filter == "" {
		return f.choices
	}
	q := strings.ToLower(f.filter)
	var out []form.Option
	for _, c := range f.choices {
		if strings.Contains(strings.ToLower(c.Label), q) {
			out = append(out, c)
		}
	}
	return out
}

// updatePicker moves through the filtered choices with left/right and
// narrows them by typing. Every move commits the choice.
func (f *field) updatePicker(msg tea.KeyPressMsg) bool {
	switch key := msg.String(); key {
	case "left", "right":
		opts := f.filtered()
		if len(opts) == 0 {
			return false
		}
		idx := -1
		for i, c := range opts {
			if c.Value == f.selected {
				idx = i
				break
			}
		}
		switch {
		case idx < 0:
			idx = 0
		case key == "right":
			idx = (idx + 1) % len(opts)
		default:
			idx = (idx - 1 + len(opts)) % len(opts)
		}
		return f.pick(opts[idx].Value)

	case "backspace":
		if f.filter == "" {
			return false
		}
		r := []rune(f.filter)
		f.filter = string(r[:len(r)-1])
		return false

	default:
		if msg.Text == "" {
			return false
		}
		f.filter += msg.Text
		if opts := f.filtered(); len(opts) > 0 {
			return f.pick(opts[0].Value)
		}
		return false
	}
}

func (f *field) pick(v string) bool {
	if v == f.selected {
		return false
	}
	f.selected = v
	return true
}

// View renders the input line of the field.
func (f *field) View(focused bool) string {
	if !f.picker {
		return f.input.View()
	}

	label := f.selectedLabel()
	var value string
	if label == "" {
		if len(f.choices) == 0 {
			value = stylePickerEmpty.Render("sem opções")
		} else {
			value = stylePickerEmpty.Render("selecione")
		}
	} else {
		value = stylePickerValue.Render(label)
	}
	if !focused {
		return value
	}

	line := stylePickerArrow.Render("‹ ") + value + stylePickerArrow.Render(" ›")
	if f.filter != "" {
		line += "  " + styleFieldHint.Render("filtro: "+f.filter)
	}
	return line
}
