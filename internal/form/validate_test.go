package form

import (
	"testing"

	"github.com/finatech/onboard/internal/mask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func documentSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema(
		[]Field{
			{Name: "document", Mask: mask.CPF},
			{Name: "email"},
			{Name: "kind", Type: TypeEnum},
			{Name: "registry"},
			{Name: "nickname"},
		},
		map[string][]Rule{
			"document": {
				Required("Preencha o documento"),
				LengthExact(14, "O CPF deve conter 11 caracteres"),
				Custom("CPF inválido", func(v string, _ Values) bool { return mask.ValidCPF(v) }),
			},
			"email": {
				Required("Digite o seu E-mail"),
				Tag("email", "O E-mail deve ser válido"),
			},
			"registry": {
				RequiredIf("kind", "Digite o CNPJ", "business-owner"),
				Match(`^\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}$`, "CNPJ inválido"),
			},
		},
	)
	require.NoError(t, err)
	return s
}

func TestValidate_MaskedLeniency(t *testing.T) {
	s := documentSchema(t)

	tests := []struct {
		name     string
		document string
		mode     Mode
		wantErr  string
	}{
		{"incomplete value deferred while typing", "123.456.789-0_", Lenient, ""},
		{"untouched mask deferred while typing", "___.___.___-__", Lenient, ""},
		{"complete value with bad check digits", "123.456.789-00", Lenient, "CPF inválido"},
		{"complete valid value", "123.456.789-09", Lenient, ""},
		{"incomplete value on submit", "123.456.789-0_", Force, "O CPF deve conter 11 caracteres"},
		{"untouched mask on submit is empty", "___.___.___-__", Force, "Preencha o documento"},
		{"complete value on submit", "123.456.789-09", Force, ""},
		{"empty", "", Lenient, "Preencha o documento"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Validate(s, Values{"document": tt.document, "email": "a@b.com"}, tt.mode)
			assert.Equal(t, tt.wantErr, out.Errors["document"])
		})
	}
}

func TestValidate_FirstFailureWins(t *testing.T) {
	s := documentSchema(t)

	// A 13 character value fails both length and checksum; only length is reported.
	out := Validate(s, Values{"document": "123.456.789-0", "email": "x@y.io"}, Force)
	require.False(t, out.Valid())
	assert.Equal(t, Errors{"document": "O CPF deve conter 11 caracteres"}, out.Errors)
}

func TestValidate_EmptySkipsFormatRules(t *testing.T) {
	s := documentSchema(t)

	out := Validate(s, Values{"document": "123.456.789-09", "email": "   "}, Force)
	assert.Equal(t, "Digite o seu E-mail", out.Errors["email"])

	out = Validate(s, Values{"document": "123.456.789-09", "email": "not-an-email"}, Force)
	assert.Equal(t, "O E-mail deve ser válido", out.Errors["email"])
}

func TestValidate_RequiredIf(t *testing.T) {
	s := documentSchema(t)
	base := Values{"document": "123.456.789-09", "email": "a@b.com"}

	salaried := base.Clone()
	salaried["kind"] = "salaried"
	assert.True(t, Validate(s, salaried, Force).Valid(), "inactive conditional rule never errors")
	assert.False(t, s.Required("registry", salaried))

	owner := base.Clone()
	owner["kind"] = "business-owner"
	out := Validate(s, owner, Force)
	assert.Equal(t, Errors{"registry": "Digite o CNPJ"}, out.Errors)
	assert.True(t, s.Required("registry", owner))

	owner["registry"] = "11.222.333/0001-81"
	assert.True(t, Validate(s, owner, Force).Valid())

	// Format rules still run on a non-empty value when the condition is inactive.
	salaried["registry"] = "garbage"
	assert.Equal(t, "CNPJ inválido", Validate(s, salaried, Force).Errors["registry"])
}

func TestValidate_Idempotent(t *testing.T) {
	s := documentSchema(t)
	values := Values{"document": "123.456.789-00", "email": "bad", "kind": "business-owner"}
	snapshot := values.Clone()

	first := Validate(s, values, Force)
	second := Validate(s, values, Force)
	assert.True(t, first.Equal(second))
	assert.Equal(t, []string{"document", "email", "registry"}, first.Fields())
	assert.Equal(t, snapshot, values, "validation must not mutate values")
}

func TestValidateField(t *testing.T) {
	s := documentSchema(t)
	assert.Equal(t, "CPF inválido", ValidateField(s, Values{"document": "111.111.111-11"}, "document", Lenient))
	assert.Equal(t, "", ValidateField(s, Values{"document": "111.111.111-1_"}, "document", Lenient))
	assert.Equal(t, "", ValidateField(s, Values{}, "missing", Force))
}

func TestNewSchema_ReferenceCheck(t *testing.T) {
	fields := []Field{{Name: "situation"}, {Name: "role"}}

	_, err := NewSchema(fields, map[string][]Rule{
		"role": {RequiredIf("zipCode", "x", "1")},
	})
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = NewSchema(fields, map[string][]Rule{
		"unknown": {Required("x")},
	})
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = NewSchema(fields, map[string][]Rule{
		"role": {Custom("x", func(string, Values) bool { return true }, "fullName")},
	})
	assert.ErrorIs(t, err, ErrUnknownField, "custom predicates may not read other steps")

	_, err = NewSchema(fields, map[string][]Rule{
		"role": {Custom("x", func(_ string, v Values) bool { return v[CarriedIdentifier] != "" }, CarriedIdentifier)},
	})
	assert.NoError(t, err)

	_, err = NewSchema([]Field{{Name: "a"}, {Name: "a"}}, nil)
	assert.Error(t, err)

	assert.Panics(t, func() {
		MustSchema(fields, map[string][]Rule{"role": {Custom("x", nil)}})
	})
}

func TestSchema_Defaults(t *testing.T) {
	s := MustSchema([]Field{
		{Name: "defaultVehicle", Type: TypeBoolean, Default: "true"},
		{Name: "value", Type: TypeNumber},
	}, nil)

	d := s.Defaults()
	assert.Equal(t, Values{"defaultVehicle": "true", "value": ""}, d)
	assert.True(t, d.Bool("defaultVehicle"))
	assert.False(t, d.Bool("value"))

	f, ok := s.Field("value")
	require.True(t, ok)
	assert.Equal(t, TypeNumber, f.Type)
	assert.Len(t, s.Fields(), 2)
}
