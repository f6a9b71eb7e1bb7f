// Package mask handles display masks for Brazilian document, phone and postal
// code inputs, and the normalization of masked or formatted values back to
// their canonical form.
package mask

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Placeholder marks a mask slot that has not been filled yet.
const Placeholder = '_'

// Mask patterns. '9' is a digit slot, 'a' a letter slot, '*' any
// alphanumeric; every other rune is a literal.
const (
	CPF   = "999.999.999-99"
	RG    = "99.999.999-9"
	Phone = "(+55) 99 99999-9999"
	CEP   = "99999-999"
	CNPJ  = "99.999.999/9999-99"
	Date  = "99/99/9999"
)

// ErrInvalidCurrency is returned when a value has no digits to parse.
var ErrInvalidCurrency = errors.New("invalid currency value")

// ErrInvalidDate is returned for dates in neither dd/mm/yyyy nor yyyy-mm-dd form.
var ErrInvalidDate = errors.New("invalid date")

func isSlot(r rune) bool {
	return r == '9' || r == 'a' || r == '*'
}

func accepts(slot, r rune) bool {
	switch slot {
	case '9':
		return unicode.IsDigit(r)
	case 'a':
		return unicode.IsLetter(r)
	default:
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}
}

// Apply fits the significant characters of input into pattern. Unfilled
// slots are rendered as Placeholder. Input with no usable character yields "".
func Apply(pattern, input string) string {
	return render(pattern, extract(pattern, input), false)
}

// Partial renders only the filled part of the mask, without placeholders or
// trailing literals. It is the form shown while a value is being edited.
func Partial(pattern, input string) string {
	return render(pattern, extract(pattern, input), true)
}

// extract collects the characters typed by the user. The literal prefix of
// the pattern (the "(+55) " of a phone) is not user input and is dropped.
func extract(pattern, input string) []rune {
	lit := literalPrefix(pattern)
	if lit != "" && strings.HasPrefix(input, lit) {
		input = input[len(lit):]
	}
	chars := significant(input)
	if digits := Digits(lit); digits != "" && len(chars) > countSlots(pattern) && strings.HasPrefix(string(chars), digits) {
		chars = chars[len(digits):]
	}
	return chars
}

func render(pattern string, chars []rune, partial bool) string {
	if len(chars) == 0 {
		return ""
	}

	var b, pending strings.Builder
	i := 0
	for _, p := range pattern {
		if !isSlot(p) {
			pending.WriteRune(p)
			continue
		}
		for i < len(chars) && !accepts(p, chars[i]) {
			i++
		}
		if i >= len(chars) && partial {
			break
		}
		b.WriteString(pending.String())
		pending.Reset()
		if i < len(chars) {
			b.WriteRune(chars[i])
			i++
		} else {
			b.WriteRune(Placeholder)
		}
	}
	if !partial {
		b.WriteString(pending.String())
	}
	return b.String()
}

func significant(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return out
}

func countSlots(pattern string) int {
	n := 0
	for _, r := range pattern {
		if isSlot(r) {
			n++
		}
	}
	return n
}

func literalPrefix(pattern string) string {
	for i, r := range pattern {
		if isSlot(r) {
			return pattern[:i]
		}
	}
	return pattern
}

// HasPlaceholder reports whether a masked value still has unfilled slots.
func HasPlaceholder(s string) bool {
	return strings.ContainsRune(s, Placeholder)
}

// StripPlaceholders removes unfilled slots. A value whose slots are all
// unfilled collapses to "".
func StripPlaceholders(s string) string {
	stripped := strings.ReplaceAll(s, string(Placeholder), "")
	if len(significant(stripped)) == 0 {
		return ""
	}
	return strings.TrimRightFunc(stripped, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ')'
	})
}

// Strip is StripPlaceholders aware of the pattern's literal prefix, so an
// untouched "(+55) __ _____-____" also collapses to "".
func Strip(pattern, s string) string {
	if pattern != "" && len(extract(pattern, strings.ReplaceAll(s, string(Placeholder), ""))) == 0 {
		return ""
	}
	return StripPlaceholders(s)
}

// Digits keeps only the decimal digits of s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneDigits strips a phone number down to digits. The country code from
// the mask prefix is kept, matching what the backend stores.
func PhoneDigits(s string) string {
	return Digits(StripPlaceholders(s))
}

// ParseCurrency converts a Brazilian formatted amount ("R$ 1.234,56") into
// integer minor units (123456). '.' is a thousands separator and ',' the
// decimal separator. Missing cents count as zero.
func ParseCurrency(s string) (int64, error) {
	s = strings.TrimSpace(s)
	negative := strings.HasPrefix(strings.TrimSpace(strings.TrimPrefix(s, "R$")), "-")

	intPart, fracPart := s, ""
	if idx := strings.LastIndex(s, ","); idx >= 0 {
		intPart, fracPart = s[:idx], s[idx+1:]
	}
	intDigits := Digits(intPart)
	fracDigits := Digits(fracPart)
	if intDigits == "" && fracDigits == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}
	if intDigits == "" {
		intDigits = "0"
	}
	switch {
	case len(fracDigits) == 0:
		fracDigits = "00"
	case len(fracDigits) == 1:
		fracDigits += "0"
	case len(fracDigits) > 2:
		fracDigits = fracDigits[:2]
	}

	units, err := strconv.ParseInt(intDigits+fracDigits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidCurrency, s, err)
	}
	if negative {
		units = -units
	}
	return units, nil
}

// FormatCurrency renders minor units as "R$ 1.234,56".
func FormatCurrency(units int64) string {
	sign := ""
	if units < 0 {
		sign = "-"
		units = -units
	}
	whole := strconv.FormatInt(units/100, 10)
	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}
	return fmt.Sprintf("R$ %s%s,%02d", sign, grouped.String(), units%100)
}

// FormatAmount renders a float amount as currency, rounding to cents.
func FormatAmount(amount float64) string {
	if amount < 0 {
		return FormatCurrency(-int64(-amount*100 + 0.5))
	}
	return FormatCurrency(int64(amount*100 + 0.5))
}

// NormalizeDate converts "dd/mm/yyyy" (or an already canonical
// "yyyy-mm-dd") to "yyyy-mm-dd".
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ValidCPF checks the two verification digits of a CPF. Separators are ignored.
func ValidCPF(s string) bool {
	d := Digits(s)
	if len(d) != 11 || allSame(d) {
		return false
	}
	return checkDigit(d[:9], 10) == int(d[9]-'0') &&
		checkDigit(d[:10], 11) == int(d[10]-'0')
}

func checkDigit(digits string, weight int) int {
	sum := 0
	for _, r := range digits {
		sum += int(r-'0') * weight
		weight--
	}
	rem := (sum * 10) % 11
	if rem == 10 {
		return 0
	}
	return rem
}

// ValidCNPJ checks the two verification digits of a CNPJ. Separators are ignored.
func ValidCNPJ(s string) bool {
	d := Digits(s)
	if len(d) != 14 || allSame(d) {
		return false
	}
	first := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	second := append([]int{6}, first...)
	return cnpjDigit(d[:12], first) == int(d[12]-'0') &&
		cnpjDigit(d[:13], second) == int(d[13]-'0')
}

func cnpjDigit(digits string, weights []int) int {
	sum := 0
	for i, r := range digits {
		sum += int(r-'0') * weights[i]
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
