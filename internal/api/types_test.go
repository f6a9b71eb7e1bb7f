package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode_UnmarshalJSON(t *testing.T) {
	var models ModelsAndYears
	err := json.Unmarshal([]byte(`{
		"Modelos": [{"Label": "Onix 1.0", "Value": 5585}],
		"Anos": [{"Label": "2014 Gasolina", "Value": "2014-1"}]
	}`), &models)
	require.NoError(t, err)

	assert.Equal(t, Code("5585"), models.Models[0].Value)
	assert.Equal(t, Code("2014-1"), models.Years[0].Value)

	var c Code
	require.NoError(t, json.Unmarshal([]byte("null"), &c))
	assert.Equal(t, Code(""), c)
	assert.Error(t, json.Unmarshal([]byte("{}"), &c))
}

func TestYearOf(t *testing.T) {
	year, err := YearOf("2014-1")
	require.NoError(t, err)
	assert.Equal(t, 2014, year)

	year, err = YearOf("32000")
	require.NoError(t, err)
	assert.Equal(t, 32000, year)

	_, err = YearOf("")
	assert.Error(t, err)
}

func TestOccupationRequest_OmitsCompanyExtras(t *testing.T) {
	data, err := json.Marshal(OccupationRequest{
		EndUser: "u1",
		Type:    OccupationSalaried,
		Company: Company{Name: "ACME"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"endUser": "u1", "role": "", "grossIncome": 0, "serviceTime": 0,
		"retirementTime": 0, "type": 1, "company": {"name": "ACME"}
	}`, string(data))
}

func TestStatusError(t *testing.T) {
	err := &StatusError{Method: "POST", URL: "http://x/api", StatusCode: 422, Body: "bad"}
	assert.Equal(t, "POST http://x/api: status 422: bad", err.Error())
	err.Body = ""
	assert.Equal(t, "POST http://x/api: status 422", err.Error())
}
