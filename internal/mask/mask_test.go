package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    string
	}{
		{"empty input", CPF, "", ""},
		{"complete cpf", CPF, "12345678909", "123.456.789-09"},
		{"partial cpf", CPF, "1234567890", "123.456.789-0_"},
		{"remask masked value", CPF, "123.456.789-0_", "123.456.789-0_"},
		{"letters skipped in digit slots", CPF, "12a3", "123.___.___-__"},
		{"rg", RG, "123456789", "12.345.678-9"},
		{"cep", CEP, "01310100", "01310-100"},
		{"phone", Phone, "11987654321", "(+55) 11 98765-4321"},
		{"phone with country code typed", Phone, "5511987654321", "(+55) 11 98765-4321"},
		{"phone remasked", Phone, "(+55) 11 9____-____", "(+55) 11 9____-____"},
		{"overflow dropped", CEP, "0131010099", "01310-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.pattern, tt.input))
		})
	}
}

func TestPartial(t *testing.T) {
	assert.Equal(t, "", Partial(Phone, ""))
	assert.Equal(t, "(+55) 11", Partial(Phone, "11"))
	assert.Equal(t, "(+55) 11 9", Partial(Phone, "(+55) 119"))
	assert.Equal(t, "123.4", Partial(CPF, "1234"))
	assert.Equal(t, "123", Partial(CPF, "123"))

	// Backspace over the trailing digit removes it instead of re-adding a separator.
	assert.Equal(t, "(+55) 1", Partial(Phone, "(+55) 1"))
}

func TestStrip(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    string
	}{
		{CPF, "123.456.789-0_", "123.456.789-0"},
		{CPF, "___.___.___-__", ""},
		{CPF, "123.456.789-09", "123.456.789-09"},
		{Phone, "(+55) __ _____-____", ""},
		{Phone, "(+55) 11 9____-____", "(+55) 11 9"},
		{"", "12_", "12"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Strip(tt.pattern, tt.input))
		})
	}
}

func TestHasPlaceholder(t *testing.T) {
	assert.True(t, HasPlaceholder("123.456.789-0_"))
	assert.False(t, HasPlaceholder("123.456.789-00"))
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "12345678909", Digits("123.456.789-09"))
	assert.Equal(t, "123456789", Digits("12.345.678-9"))
	assert.Equal(t, "5511987654321", PhoneDigits("(+55) 11 98765-4321"))
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"R$ 1.234,56", 123456},
		{"R$1.234,56", 123456},
		{"1.234,5", 123450},
		{"R$ 50.000", 5000000},
		{"R$ 0,99", 99},
		{",5", 50},
		{"R$ 12,345", 1234},
		{"R$ -10,00", -1000},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCurrency(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseCurrency("R$ ")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", FormatCurrency(123456))
	assert.Equal(t, "R$ 0,05", FormatCurrency(5))
	assert.Equal(t, "R$ 1.000.000,00", FormatCurrency(100000000))
	assert.Equal(t, "R$ -12,00", FormatCurrency(-1200))
	assert.Equal(t, "R$ 1.523,47", FormatAmount(1523.47))

	units, err := ParseCurrency(FormatCurrency(987654321))
	require.NoError(t, err)
	assert.Equal(t, int64(987654321), units)
}

func TestNormalizeDate(t *testing.T) {
	got, err := NormalizeDate("07/03/1990")
	require.NoError(t, err)
	assert.Equal(t, "1990-03-07", got)

	got, err = NormalizeDate("1990-03-07")
	require.NoError(t, err)
	assert.Equal(t, "1990-03-07", got)

	_, err = NormalizeDate("31/02/1990")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestValidCPF(t *testing.T) {
	assert.True(t, ValidCPF("123.456.789-09"))
	assert.True(t, ValidCPF("52998224725"))
	assert.False(t, ValidCPF("123.456.789-00"))
	assert.False(t, ValidCPF("111.111.111-11"))
	assert.False(t, ValidCPF("123.456.789-0"))
}

func TestValidCNPJ(t *testing.T) {
	assert.True(t, ValidCNPJ("11.222.333/0001-81"))
	assert.False(t, ValidCNPJ("11.222.333/0001-80"))
	assert.False(t, ValidCNPJ("00.000.000/0000-00"))
}
