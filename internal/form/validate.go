package form

import (
	"maps"
	"sort"
	"strings"

	"github.com/finatech/onboard/internal/mask"
)

// Mode selects how masked values that still have placeholders are treated.
type Mode int

const (
	// Lenient defers format, length and custom rules of a masked value that
	// still contains placeholders. Used while the user is typing.
	Lenient Mode = iota
	// Force strips placeholders first and validates what is left. An
	// untouched mask counts as empty. Used on submission.
	Force
)

// Errors maps field name to the message of its first failing rule.
type Errors map[string]string

// Outcome is the result of one validation pass.
type Outcome struct {
	Errors Errors
}

// Valid reports whether no field failed.
func (o Outcome) Valid() bool {
	return len(o.Errors) == 0
}

// Fields returns the failing field names in sorted order.
func (o Outcome) Fields() []string {
	names := make([]string, 0, len(o.Errors))
	for name := range o.Errors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal compares two outcomes.
func (o Outcome) Equal(other Outcome) bool {
	return maps.Equal(o.Errors, other.Errors)
}

// Validate evaluates every field of the schema against a snapshot of values.
// Rules of a field run in declaration order and the first failure is
// reported. It has no side effects.
func Validate(s *Schema, values Values, mode Mode) Outcome {
	errs := Errors{}
	for _, f := range s.fields {
		rules := s.rules[f.Name]
		if len(rules) == 0 {
			continue
		}

		value := values[f.Name]
		deferred := false
		if f.Mask != "" && mask.HasPlaceholder(value) {
			if mode == Force {
				value = mask.Strip(f.Mask, value)
			} else {
				deferred = true
			}
		}
		empty := strings.TrimSpace(value) == ""

		for _, r := range rules {
			if !r.active(values) {
				continue
			}
			if !r.check(value, empty, deferred, values) {
				errs[f.Name] = r.Message
				break
			}
		}
	}
	return Outcome{Errors: errs}
}

// ValidateField evaluates a single field, for inline feedback while typing.
// It returns "" when the field passes.
func ValidateField(s *Schema, values Values, name string, mode Mode) string {
	f, ok := s.Field(name)
	if !ok {
		return ""
	}
	single := &Schema{
		fields: []Field{f},
		index:  map[string]int{name: 0},
		rules:  map[string][]Rule{name: s.rules[name]},
	}
	return Validate(single, values, mode).Errors[name]
}
