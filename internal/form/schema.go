// Package form holds declarative field schemas and the rule evaluator that
// validates a snapshot of field values against them.
package form

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// CarriedIdentifier is the one name a rule may reference outside its own
// step: the end-user identifier produced by the first step.
const CarriedIdentifier = "carriedIdentifier"

// ErrUnknownField is returned when a rule references a field the schema does not declare.
var ErrUnknownField = errors.New("rule references unknown field")

// Type is the semantic type of a field.
type Type int

const (
	TypeString Type = iota
	TypeNumber
	TypeDate
	TypeBoolean
	TypeEnum
)

// Option is one choice of an enum field.
type Option struct {
	Label string `json:"Label"`
	Value string `json:"Value"`
}

// Field describes one input of a step.
type Field struct {
	Name    string
	Label   string
	Type    Type
	Default string
	Mask    string   // display mask; empty for free text
	Options []Option // static choices of an enum field
}

// Values is a snapshot of field name to raw value. Nested payload members use
// dotted names such as "company.address.zipCode".
type Values map[string]string

// Clone returns an independent copy.
func (v Values) Clone() Values {
	if v == nil {
		return Values{}
	}
	return maps.Clone(v)
}

// Bool interprets a boolean field value.
func (v Values) Bool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(v[name])) {
	case "true", "1", "yes", "sim":
		return true
	}
	return false
}

// Schema is an immutable ordered set of fields with their rules.
type Schema struct {
	fields []Field
	index  map[string]int
	rules  map[string][]Rule
}

// NewSchema builds a schema and checks that every rule only references
// declared fields or CarriedIdentifier.
func NewSchema(fields []Field, rules map[string][]Rule) (*Schema, error) {
	s := &Schema{
		fields: fields,
		index:  make(map[string]int, len(fields)),
		rules:  make(map[string][]Rule, len(rules)),
	}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		s.index[f.Name] = i
	}

	for name, list := range rules {
		if _, ok := s.index[name]; !ok {
			return nil, fmt.Errorf("%w: rules for %q", ErrUnknownField, name)
		}
		for _, r := range list {
			for _, ref := range r.references() {
				if ref == CarriedIdentifier {
					continue
				}
				if _, ok := s.index[ref]; !ok {
					return nil, fmt.Errorf("%w: %s on %q reads %q", ErrUnknownField, r, name, ref)
				}
			}
			if r.Kind == KindCustom && r.Predicate == nil {
				return nil, fmt.Errorf("custom rule on %q has no predicate", name)
			}
		}
		s.rules[name] = append([]Rule(nil), list...)
	}
	return s, nil
}

// MustSchema is NewSchema for static definitions; it panics on error.
func MustSchema(fields []Field, rules map[string][]Rule) *Schema {
	s, err := NewSchema(fields, rules)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Rules returns the rules attached to a field.
func (s *Schema) Rules(name string) []Rule {
	return s.rules[name]
}

// Defaults returns the default value of every field.
func (s *Schema) Defaults() Values {
	v := make(Values, len(s.fields))
	for _, f := range s.fields {
		v[f.Name] = f.Default
	}
	return v
}

// Required reports whether a field is currently required given a snapshot.
func (s *Schema) Required(name string, values Values) bool {
	for _, r := range s.rules[name] {
		if (r.Kind == KindRequired || r.Kind == KindRequiredIf) && r.active(values) {
			return true
		}
	}
	return false
}
