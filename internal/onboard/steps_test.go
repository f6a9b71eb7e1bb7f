package onboard

import (
	"context"
	"errors"
	"testing"

	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubmitter struct {
	calls      []any
	err        error
	identifier string
}

func (r *recordingSubmitter) CreateEndUser(_ context.Context, req api.EndUserRequest) (*api.EndUser, error) {
	r.calls = append(r.calls, req)
	if r.err != nil {
		return nil, r.err
	}
	return &api.EndUser{ID: r.identifier, FullName: req.FullName}, nil
}

func (r *recordingSubmitter) CreateAddress(_ context.Context, req api.AddressRequest) error {
	r.calls = append(r.calls, req)
	return r.err
}

func (r *recordingSubmitter) CreateFinancing(_ context.Context, req api.FinancingRequest) error {
	r.calls = append(r.calls, req)
	return r.err
}

func (r *recordingSubmitter) CreateOccupation(_ context.Context, req api.OccupationRequest) error {
	r.calls = append(r.calls, req)
	return r.err
}

func personalValues() form.Values {
	return form.Values{
		"fullName":               "  Maria da Silva ",
		"document":               "529.982.247-25",
		"nationalIdentification": "12.345.678-9",
		"motherName":             "Ana da Silva",
		"birthDate":              "15/03/1990",
		"hasDriverLicense":       "true",
		"email":                  "maria@example.com",
		"phone":                  "(+55) 11 98765-4321",
	}
}

func TestSteps_Order(t *testing.T) {
	steps := Steps()
	require.Len(t, steps, StepCount)

	titles := make([]string, len(steps))
	for i, s := range steps {
		titles[i] = s.Title
		assert.Equal(t, StepID(i), s.ID)
	}
	assert.Equal(t, []string{"Dados pessoais", "Endereço", "Veículo", "Dados profissionais"}, titles)

	assert.False(t, steps[0].NeedsIdentifier)
	for _, s := range steps[1:] {
		assert.True(t, s.NeedsIdentifier, s.Title)
	}
	assert.Nil(t, StepAt(StepCount))
	assert.Nil(t, StepAt(-1))
}

func TestPersonalStep_Validation(t *testing.T) {
	s := StepAt(int(StepPersonal)).Schema

	out := form.Validate(s, s.Defaults(), form.Force)
	assert.Equal(t, form.Errors{
		"fullName":               "Digite o seu nome completo",
		"motherName":             "Digite o nome completo da sua mãe",
		"document":               "Preencha o documento",
		"nationalIdentification": "Digite o seu RG",
		"birthDate":              "Digite a sua data de nascimento",
		"phone":                  "Digite o seu telefone",
		"email":                  "Digite o seu E-mail",
	}, out.Errors)

	assert.True(t, form.Validate(s, personalValues(), form.Force).Valid())

	v := personalValues()
	v["document"] = "123.456.789-00"
	v["email"] = "maria"
	out = form.Validate(s, v, form.Force)
	assert.Equal(t, "CPF inválido", out.Errors["document"])
	assert.Equal(t, "O E-mail deve ser válido", out.Errors["email"])

	v = personalValues()
	v["document"] = "529.982.2__-__"
	assert.Empty(t, form.Validate(s, v, form.Lenient).Errors["document"])
	assert.Equal(t, "O CPF deve conter 11 caracteres", form.Validate(s, v, form.Force).Errors["document"])
}

func TestPersonalStep_PartialBirthDate(t *testing.T) {
	s := StepAt(int(StepPersonal)).Schema
	v := form.Values{"birthDate": "15/03/19__"}

	assert.Empty(t, form.ValidateField(s, v, "birthDate", form.Lenient))
	assert.Equal(t, "Data de nascimento inválida", form.ValidateField(s, v, "birthDate", form.Force))

	v["birthDate"] = "__/__/____"
	assert.Equal(t, "Digite a sua data de nascimento", form.ValidateField(s, v, "birthDate", form.Force))
}

func TestPersonalStep_BuildPayload(t *testing.T) {
	payload, err := StepAt(int(StepPersonal)).BuildPayload(personalValues(), "")
	require.NoError(t, err)

	assert.Equal(t, api.EndUserRequest{
		FullName:               "Maria da Silva",
		MotherName:             "Ana da Silva",
		Document:               "52998224725",
		NationalIdentification: "123456789",
		BirthDate:              "1990-03-15",
		Email:                  "maria@example.com",
		Phone:                  "5511987654321",
		HasDriverLicense:       true,
	}, payload)
}

func TestPersonalStep_SubmitReturnsIdentifier(t *testing.T) {
	sub := &recordingSubmitter{identifier: "user-1"}
	out, err := StepAt(int(StepPersonal)).Submit(context.Background(), sub, personalValues(), "")
	require.NoError(t, err)
	assert.Equal(t, "user-1", out.Identifier)
	assert.Len(t, sub.calls, 1)

	sub = &recordingSubmitter{}
	_, err = StepAt(int(StepPersonal)).Submit(context.Background(), sub, personalValues(), "")
	assert.Error(t, err, "empty id from the backend is a failure")
}

func TestSubmit_MissingIdentifier(t *testing.T) {
	for _, s := range Steps()[1:] {
		t.Run(s.Title, func(t *testing.T) {
			sub := &recordingSubmitter{}
			_, err := s.Submit(context.Background(), sub, s.Schema.Defaults(), "")
			assert.True(t, errors.Is(err, ErrMissingIdentifier))
			assert.Empty(t, sub.calls, "no call is made without the identifier")
		})
	}
}

func TestSubmit_PropagatesGatewayError(t *testing.T) {
	boom := errors.New("boom")
	sub := &recordingSubmitter{err: boom}
	s := StepAt(int(StepAddress))
	_, err := s.Submit(context.Background(), sub, form.Values{"zipCode": "01310-100"}, "user-1")
	assert.ErrorIs(t, err, boom)
}

func TestAddressStep(t *testing.T) {
	s := StepAt(int(StepAddress))
	values := form.Values{
		"zipCode":      "01310-100",
		"street":       "Avenida Paulista",
		"number":       "1000",
		"neighborhood": "Bela Vista",
		"city":         "São Paulo",
		"state":        "SP",
	}
	assert.True(t, form.Validate(s.Schema, values, form.Force).Valid(), "complement is optional")

	payload, err := s.BuildPayload(values, "user-1")
	require.NoError(t, err)
	req := payload.(api.AddressRequest)
	assert.Equal(t, "01310100", req.ZipCode)
	assert.Equal(t, "user-1", req.EndUser)

	values["zipCode"] = "0131_-___"
	assert.Equal(t, "CEP incompleto", form.Validate(s.Schema, values, form.Force).Errors["zipCode"])
}

func TestFinancingStep_DefaultVehicle(t *testing.T) {
	s := StepAt(int(StepFinancing))

	defaults := s.Schema.Defaults()
	assert.Equal(t, "true", defaults["defaultVehicle"])
	assert.True(t, form.Validate(s.Schema, defaults, form.Force).Valid())

	payload, err := s.BuildPayload(defaults, "user-1")
	require.NoError(t, err)
	assert.Equal(t, api.FinancingRequest{EndUser: "user-1", DefaultVehicle: true}, payload)
}

func TestFinancingStep_ChosenVehicle(t *testing.T) {
	s := StepAt(int(StepFinancing))

	out := form.Validate(s.Schema, form.Values{"defaultVehicle": "false"}, form.Force)
	assert.Equal(t, form.Errors{
		"brand":        "Selecione a marca",
		"year":         "Selecione o ano",
		"model":        "Selecione o modelo",
		"licenseState": "Selecione o estado",
		"value":        "Informe o valor a financiar",
		"installment":  "Selecione o número de parcelas",
	}, out.Errors)

	values := form.Values{
		"defaultVehicle": "false",
		"brand":          "GM - Chevrolet",
		"year":           "2014-1",
		"model":          "Onix 1.0",
		"licenseState":   "SP",
		"value":          "R$ 45.000,00",
		"installment":    "f-48",
	}
	assert.True(t, form.Validate(s.Schema, values, form.Force).Valid())

	payload, err := s.BuildPayload(values, "user-1")
	require.NoError(t, err)
	assert.Equal(t, api.FinancingRequest{
		EndUser:        "user-1",
		Brand:          "GM - Chevrolet",
		Model:          "Onix 1.0",
		Year:           "2014",
		LicensingState: "SP",
		FinancingValue: 4500000,
		Installment:    "f-48",
	}, payload)

	values["value"] = "R$ 0,00"
	assert.Equal(t, "Valor inválido", form.Validate(s.Schema, values, form.Force).Errors["value"])
}

func TestProfessionalStep_Requirements(t *testing.T) {
	s := StepAt(int(StepProfessional)).Schema

	tests := []struct {
		situation Situation
		want      []string
	}{
		{Salaried, []string{"company.name", "grossIncome", "role", "serviceTime"}},
		{PublicServant, []string{"company.name", "grossIncome", "role", "serviceTime"}},
		{SelfEmployed, []string{"grossIncome", "role", "serviceTime"}},
		{Retired, []string{"grossIncome", "retirementTime"}},
		{BusinessOwner, []string{
			"company.address.city", "company.address.neighborhood", "company.address.number",
			"company.address.state", "company.address.street", "company.address.zipCode",
			"company.name", "company.registry", "grossIncome", "serviceTime",
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.situation), func(t *testing.T) {
			out := form.Validate(s, form.Values{"professionalSituation": string(tt.situation)}, form.Force)
			assert.Equal(t, tt.want, out.Fields())
		})
	}

	out := form.Validate(s, form.Values{"professionalSituation": "astronaut"}, form.Force)
	assert.Equal(t, "Selecione uma situação profissional", out.Errors["professionalSituation"])
}

func TestProfessionalStep_BusinessOwnerPayload(t *testing.T) {
	s := StepAt(int(StepProfessional))
	values := form.Values{
		"professionalSituation":        string(BusinessOwner),
		"company.name":                 "  ACME Ltda ",
		"role":                         "Gerente",
		"grossIncome":                  "R$ 12.500,00",
		"serviceTime":                  "7",
		"company.registry":             "11.222.333/0001-81",
		"company.address.zipCode":      "01310-100",
		"company.address.street":       "Avenida Paulista",
		"company.address.number":       "200",
		"company.address.neighborhood": "Bela Vista",
		"company.address.city":         "São Paulo",
		"company.address.state":        "SP",
	}
	require.True(t, form.Validate(s.Schema, values, form.Force).Valid())

	payload, err := s.BuildPayload(values, "user-1")
	require.NoError(t, err)
	req := payload.(api.OccupationRequest)

	assert.Equal(t, "ACME Ltda", req.Company.Name)
	assert.Equal(t, "11222333000181", req.Company.Registry)
	require.NotNil(t, req.Company.Address)
	assert.Equal(t, "01310100", req.Company.Address.ZipCode)
	assert.Equal(t, api.OccupationBusinessOwner, req.Type)
	assert.Equal(t, int64(1250000), req.GrossIncome)
	assert.Equal(t, 7, req.ServiceTime)
	assert.Empty(t, req.Role, "business owners have no role")
}

func TestProfessionalStep_SalariedPayloadOmitsCompanyExtras(t *testing.T) {
	s := StepAt(int(StepProfessional))
	values := form.Values{
		"professionalSituation": string(Salaried),
		"company.name":          "ACME",
		"role":                  "Analista",
		"grossIncome":           "R$ 4.000",
		"serviceTime":           "3",
		"company.registry":      "11.222.333/0001-81",
	}
	payload, err := s.BuildPayload(values, "user-1")
	require.NoError(t, err)
	req := payload.(api.OccupationRequest)

	assert.Empty(t, req.Company.Registry)
	assert.Nil(t, req.Company.Address)
	assert.Equal(t, "Analista", req.Role)
	assert.Equal(t, int64(400000), req.GrossIncome)
	assert.Equal(t, api.OccupationSalaried, req.Type)
}

func TestProfessionalStep_RetiredPayload(t *testing.T) {
	s := StepAt(int(StepProfessional))
	payload, err := s.BuildPayload(form.Values{
		"professionalSituation": string(Retired),
		"grossIncome":           "R$ 2.100,50",
		"retirementTime":        "4",
		"serviceTime":           "30",
	}, "user-1")
	require.NoError(t, err)
	req := payload.(api.OccupationRequest)
	assert.Equal(t, 4, req.RetirementTime)
	assert.Zero(t, req.ServiceTime)
	assert.Equal(t, api.OccupationRetired, req.Type)
}
