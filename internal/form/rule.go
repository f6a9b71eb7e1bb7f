package form

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Kind discriminates the rule variants.
type Kind int

const (
	KindRequired Kind = iota
	KindRequiredIf
	KindFormat
	KindLengthExact
	KindCustom
)

// String returns the rule kind name.
func (k Kind) String() string {
	switch k {
	case KindRequired:
		return "required"
	case KindRequiredIf:
		return "required-if"
	case KindFormat:
		return "format"
	case KindLengthExact:
		return "length-exact"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Predicate is a custom check over a field value and a read-only snapshot of
// its siblings. It returns true when the value is acceptable.
type Predicate func(value string, values Values) bool

// Rule is a single constraint on a field. Only the members relevant to Kind
// are set; use the constructors below.
type Rule struct {
	Kind    Kind
	Message string

	// KindRequiredIf: the rule is active when Values[When] is one of Is.
	When string
	Is   []string

	// KindFormat: either a compiled pattern or a validator tag such as "email".
	Pattern *regexp.Regexp
	Tag     string

	// KindLengthExact
	Length int

	// KindCustom. Refs names the sibling fields the predicate reads.
	Predicate Predicate
	Refs      []string
}

// Required fails on an empty value.
func Required(message string) Rule {
	return Rule{Kind: KindRequired, Message: message}
}

// RequiredIf fails on an empty value while field holds any of values.
func RequiredIf(field, message string, values ...string) Rule {
	return Rule{Kind: KindRequiredIf, Message: message, When: field, Is: values}
}

// Match fails when a non-empty value does not match pattern.
func Match(pattern, message string) Rule {
	return Rule{Kind: KindFormat, Message: message, Pattern: regexp.MustCompile(pattern)}
}

// Tag fails when a non-empty value does not pass a go-playground validator
// tag, e.g. Tag("email", "...").
func Tag(tag, message string) Rule {
	return Rule{Kind: KindFormat, Message: message, Tag: tag}
}

// LengthExact fails when a non-empty value is not exactly n characters long.
func LengthExact(n int, message string) Rule {
	return Rule{Kind: KindLengthExact, Message: message, Length: n}
}

// Custom fails when a non-empty value is rejected by pred. refs lists the
// sibling fields pred reads.
func Custom(message string, pred Predicate, refs ...string) Rule {
	return Rule{Kind: KindCustom, Message: message, Predicate: pred, Refs: refs}
}

// active reports whether a conditional rule applies to this snapshot.
func (r Rule) active(values Values) bool {
	if r.Kind != KindRequiredIf {
		return true
	}
	return slices.Contains(r.Is, values[r.When])
}

// check evaluates the rule. empty is the emptiness of the value after mask
// handling; deferred skips the format, length and custom rules.
func (r Rule) check(value string, empty, deferred bool, values Values) bool {
	switch r.Kind {
	case KindRequired, KindRequiredIf:
		return !empty
	}
	if empty || deferred {
		return true
	}
	switch r.Kind {
	case KindFormat:
		if r.Pattern != nil {
			return r.Pattern.MatchString(value)
		}
		return validate.Var(value, r.Tag) == nil
	case KindLengthExact:
		return len([]rune(value)) == r.Length
	case KindCustom:
		return r.Predicate(value, values)
	}
	return true
}

// references lists the fields this rule depends on besides its own.
func (r Rule) references() []string {
	switch r.Kind {
	case KindRequiredIf:
		return []string{r.When}
	case KindCustom:
		return r.Refs
	}
	return nil
}

func (r Rule) String() string {
	switch r.Kind {
	case KindRequiredIf:
		return fmt.Sprintf("required-if(%s in %v)", r.When, r.Is)
	case KindLengthExact:
		return fmt.Sprintf("length-exact(%d)", r.Length)
	case KindFormat:
		if r.Pattern != nil {
			return fmt.Sprintf("format(%s)", r.Pattern)
		}
		return fmt.Sprintf("format(%s)", r.Tag)
	}
	return r.Kind.String()
}
