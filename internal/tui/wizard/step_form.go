package wizard

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/finatech/onboard/internal/form"
	"github.com/finatech/onboard/internal/onboard"
)

// stepForm holds the inputs of one step.
type stepForm struct {
	step   *onboard.Step
	fields []*field
	byName map[string]*field
	focus  int
	width  int
}

func newStepForm(step *onboard.Step, values form.Values) *stepForm {
	s := &stepForm{step: step, byName: map[string]*field{}, width: 60}
	for _, def := range step.Schema.Fields() {
		f := newField(def)
		if v, ok := values[def.Name]; ok {
			f.SetValue(v)
		}
		s.fields = append(s.fields, f)
		s.byName[def.Name] = f
	}
	return s
}

// Field looks a field up by name.
func (s *stepForm) Field(name string) *field {
	return s.byName[name]
}

// rawValues reads every field, visible or not.
func (s *stepForm) rawValues() form.Values {
	v := make(form.Values, len(s.fields))
	for _, f := range s.fields {
		v[f.Name()] = f.Value()
	}
	return v
}

// Values is the snapshot handed to the controller. Hidden fields read empty
// so stale input never reaches a payload.
func (s *stepForm) Values() form.Values {
	raw := s.rawValues()
	out := make(form.Values, len(raw))
	for name, v := range raw {
		if s.visible(name, raw) {
			out[name] = v
		} else {
			out[name] = ""
		}
	}
	return out
}

// visible decides whether a field applies to the current answers. A
// conditionally required field is shown only while required; a field without
// rules follows the fields of its group ("company.address.complement"
// follows "company.address.*").
func (s *stepForm) visible(name string, values form.Values) bool {
	rules := s.step.Schema.Rules(name)
	for _, r := range rules {
		if r.Kind == form.KindRequiredIf {
			return s.step.Schema.Required(name, values)
		}
	}
	if len(rules) > 0 {
		return true
	}

	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return true
	}
	group := name[:dot+1]
	for _, f := range s.fields {
		other := f.Name()
		if other == name || !strings.HasPrefix(other, group) || len(s.step.Schema.Rules(other)) == 0 {
			continue
		}
		if s.visible(other, values) {
			return true
		}
	}
	return false
}

// visibleFields lists the fields shown for the current answers.
func (s *stepForm) visibleFields() []*field {
	raw := s.rawValues()
	out := make([]*field, 0, len(s.fields))
	for _, f := range s.fields {
		if s.visible(f.Name(), raw) {
			out = append(out, f)
		}
	}
	return out
}

// Focused returns the focused field, nil when none is visible.
func (s *stepForm) Focused() *field {
	vis := s.visibleFields()
	if len(vis) == 0 {
		return nil
	}
	if s.focus >= len(vis) {
		s.focus = len(vis) - 1
	}
	return vis[s.focus]
}

// FocusField moves focus to name when it is visible.
func (s *stepForm) FocusField(name string) tea.Cmd {
	for i, f := range s.visibleFields() {
		if f.Name() == name {
			s.focus = i
			return s.refocus()
		}
	}
	return nil
}

func (s *stepForm) refocus() tea.Cmd {
	cur := s.Focused()
	var cmd tea.Cmd
	for _, f := range s.fields {
		if f == cur {
			cmd = f.Focus()
		} else {
			f.Blur()
		}
	}
	return cmd
}

// Move shifts focus by delta, wrapping around.
func (s *stepForm) Move(delta int) tea.Cmd {
	n := len(s.visibleFields())
	if n == 0 {
		return nil
	}
	s.focus = ((s.focus+delta)%n + n) % n
	return s.refocus()
}

// SetWidth sizes the text inputs.
func (s *stepForm) SetWidth(w int) {
	s.width = w
	for _, f := range s.fields {
		f.SetWidth(w - 4)
	}
}

// View renders the visible fields with their messages. errs are submission
// errors; hints are inline notes such as lenient checks or lookup state.
func (s *stepForm) View(errs form.Errors, hints map[string]string) string {
	raw := s.rawValues()
	focused := s.Focused()

	var b strings.Builder
	for _, f := range s.visibleFields() {
		labelStyle := styleLabel
		if f == focused {
			labelStyle = styleLabelFocused
		}
		b.WriteString(labelStyle.Render(f.def.Label))
		if s.step.Schema.Required(f.Name(), raw) {
			b.WriteString(styleRequiredMark.Render(" *"))
		}
		b.WriteString("\n")
		b.WriteString(f.View(f == focused))
		b.WriteString("\n")

		if msg := errs[f.Name()]; msg != "" {
			b.WriteString(styleFieldError.Render("✗ " + msg))
			b.WriteString("\n")
		} else if hint := hints[f.Name()]; hint != "" {
			b.WriteString(styleFieldHint.Render(hint))
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
