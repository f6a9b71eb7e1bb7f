// Package onboard defines the four onboarding steps: their field schemas,
// defaults, payload builders and submit actions.
package onboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/form"
	"github.com/finatech/onboard/internal/mask"
)

// ErrMissingIdentifier is returned when a step that needs the end-user
// identifier is submitted without one. It is fatal for the session.
var ErrMissingIdentifier = errors.New("missing end-user identifier")

// ErrInvalidPayload is returned when values that passed validation still
// cannot be normalized.
var ErrInvalidPayload = errors.New("invalid payload")

// StepID indexes the steps in order.
type StepID int

const (
	StepPersonal StepID = iota
	StepAddress
	StepFinancing
	StepProfessional
)

// StepCount is the number of steps; it is also the index of the completed state.
const StepCount = 4

// Outcome is what a successful submission produced.
type Outcome struct {
	// Identifier is set by the personal data step only.
	Identifier string
}

// Step is an immutable step definition.
type Step struct {
	ID    StepID
	Title string
	// FailureMessage is the banner shown when the submission fails.
	FailureMessage string
	// NeedsIdentifier is false only for the step that creates the end user.
	NeedsIdentifier bool
	Schema          *form.Schema

	build func(values form.Values, identifier string) (any, error)
	send  func(ctx context.Context, s api.Submitter, payload any) (Outcome, error)
}

// BuildPayload normalizes values into the request body. It is pure.
func (s *Step) BuildPayload(values form.Values, identifier string) (any, error) {
	return s.build(values, identifier)
}

// Submit builds the payload and sends it. Steps that need the identifier
// fail with ErrMissingIdentifier before any call is made.
func (s *Step) Submit(ctx context.Context, sub api.Submitter, values form.Values, identifier string) (Outcome, error) {
	if s.NeedsIdentifier && identifier == "" {
		return Outcome{}, fmt.Errorf("step %d (%s): %w", s.ID+1, s.Title, ErrMissingIdentifier)
	}
	payload, err := s.BuildPayload(values, identifier)
	if err != nil {
		return Outcome{}, err
	}
	return s.send(ctx, sub, payload)
}

// Steps returns the step definitions in order.
func Steps() []*Step {
	return []*Step{personalStep, addressStep, financingStep, professionalStep}
}

// StepAt returns the definition at index i, or nil past the last step.
func StepAt(i int) *Step {
	steps := Steps()
	if i < 0 || i >= len(steps) {
		return nil
	}
	return steps[i]
}

func notBlank(v string) string {
	return strings.TrimSpace(v)
}

func validCPF(v string, _ form.Values) bool { return mask.ValidCPF(v) }

func validCNPJ(v string, _ form.Values) bool { return mask.ValidCNPJ(v) }

func validBirthDate(v string, _ form.Values) bool {
	d, err := mask.NormalizeDate(v)
	if err != nil {
		return false
	}
	t, _ := time.Parse("2006-01-02", d)
	return t.Before(time.Now()) && t.Year() > 1900
}

func validAmount(v string, _ form.Values) bool {
	units, err := mask.ParseCurrency(v)
	return err == nil && units > 0
}

func wholeNumber(v string, _ form.Values) bool {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	return err == nil && n >= 0
}

// atoiOrZero reads an optional whole number.
func atoiOrZero(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidPayload, v)
	}
	return n, nil
}

func submitted(ctx context.Context, call func(context.Context) error) (Outcome, error) {
	if err := call(ctx); err != nil {
		return Outcome{}, err
	}
	return Outcome{}, nil
}

var personalStep = &Step{
	ID:             StepPersonal,
	Title:          "Dados pessoais",
	FailureMessage: "Erro ao criar usuário",
	Schema: form.MustSchema(
		[]form.Field{
			{Name: "fullName", Label: "Nome completo"},
			{Name: "document", Label: "CPF", Mask: mask.CPF},
			{Name: "nationalIdentification", Label: "RG", Mask: mask.RG},
			{Name: "motherName", Label: "Nome da mãe (completo)"},
			{Name: "birthDate", Label: "Data de nascimento", Type: form.TypeDate, Mask: mask.Date},
			{Name: "hasDriverLicense", Label: "Possui CNH?", Type: form.TypeBoolean, Default: "false"},
			{Name: "email", Label: "E-mail"},
			{Name: "phone", Label: "Telefone", Mask: mask.Phone},
		},
		map[string][]form.Rule{
			"fullName":   {form.Required("Digite o seu nome completo")},
			"motherName": {form.Required("Digite o nome completo da sua mãe")},
			"document": {
				form.Required("Preencha o documento"),
				form.LengthExact(14, "O CPF deve conter 11 caracteres"),
				form.Custom("CPF inválido", validCPF),
			},
			"nationalIdentification": {
				form.Required("Digite o seu RG"),
				form.LengthExact(12, "O RG deve conter no minimo 12 caracteres"),
			},
			"birthDate": {
				form.Required("Digite a sua data de nascimento"),
				form.Custom("Data de nascimento inválida", validBirthDate),
			},
			"phone": {
				form.Required("Digite o seu telefone"),
				form.LengthExact(19, "Telefone incompleto"),
			},
			"email": {
				form.Required("Digite o seu E-mail"),
				form.Tag("email", "O E-mail deve ser válido"),
			},
		},
	),
	build: func(v form.Values, _ string) (any, error) {
		birth, err := mask.NormalizeDate(v["birthDate"])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return api.EndUserRequest{
			FullName:               notBlank(v["fullName"]),
			MotherName:             notBlank(v["motherName"]),
			Document:               mask.Digits(v["document"]),
			NationalIdentification: mask.Digits(v["nationalIdentification"]),
			BirthDate:              birth,
			Email:                  notBlank(v["email"]),
			Phone:                  mask.PhoneDigits(v["phone"]),
			HasDriverLicense:       v.Bool("hasDriverLicense"),
		}, nil
	},
	send: func(ctx context.Context, s api.Submitter, payload any) (Outcome, error) {
		user, err := s.CreateEndUser(ctx, payload.(api.EndUserRequest))
		if err != nil {
			return Outcome{}, err
		}
		if user == nil || user.ID == "" {
			return Outcome{}, errors.New("end user created without an id")
		}
		return Outcome{Identifier: user.ID}, nil
	},
}

var addressStep = &Step{
	ID:              StepAddress,
	Title:           "Endereço",
	FailureMessage:  "Erro ao salvar endereço",
	NeedsIdentifier: true,
	Schema: form.MustSchema(
		[]form.Field{
			{Name: "zipCode", Label: "CEP", Mask: mask.CEP},
			{Name: "street", Label: "Endereço"},
			{Name: "number", Label: "Número", Type: form.TypeNumber},
			{Name: "complement", Label: "Complemento"},
			{Name: "neighborhood", Label: "Bairro"},
			{Name: "city", Label: "Cidade"},
			{Name: "state", Label: "Estado"},
		},
		map[string][]form.Rule{
			"zipCode": {
				form.Required("Digite o CEP"),
				form.LengthExact(9, "CEP incompleto"),
			},
			"street":       {form.Required("Digite o endereço")},
			"number":       {form.Required("Digite o número")},
			"neighborhood": {form.Required("Digite o bairro")},
			"city":         {form.Required("Digite a cidade")},
			"state":        {form.Required("Digite o estado")},
		},
	),
	build: func(v form.Values, id string) (any, error) {
		return api.AddressRequest{
			ZipCode:      mask.Digits(v["zipCode"]),
			Street:       notBlank(v["street"]),
			Number:       notBlank(v["number"]),
			Complement:   notBlank(v["complement"]),
			Neighborhood: notBlank(v["neighborhood"]),
			City:         notBlank(v["city"]),
			State:        notBlank(v["state"]),
			EndUser:      id,
		}, nil
	},
	send: func(ctx context.Context, s api.Submitter, payload any) (Outcome, error) {
		return submitted(ctx, func(ctx context.Context) error {
			return s.CreateAddress(ctx, payload.(api.AddressRequest))
		})
	},
}

// picking is the defaultVehicle value meaning the user will choose a vehicle.
const picking = "false"

var financingStep = &Step{
	ID:              StepFinancing,
	Title:           "Veículo",
	FailureMessage:  "Financiamento com baixa probabilidade",
	NeedsIdentifier: true,
	Schema: form.MustSchema(
		[]form.Field{
			{Name: "defaultVehicle", Label: "Veículo", Type: form.TypeEnum, Default: "true", Options: vehicleChoices},
			{Name: "brand", Label: "Marca", Type: form.TypeEnum},
			{Name: "year", Label: "Ano", Type: form.TypeEnum},
			{Name: "model", Label: "Modelo", Type: form.TypeEnum},
			{Name: "licenseState", Label: "UF Licenciamento", Type: form.TypeEnum, Options: LicenseStates},
			{Name: "value", Label: "Valor a financiar", Type: form.TypeNumber},
			{Name: "installment", Label: "Parcelas", Type: form.TypeEnum},
		},
		map[string][]form.Rule{
			"defaultVehicle": {form.Required("Selecione uma opção")},
			"brand":          {form.RequiredIf("defaultVehicle", "Selecione a marca", picking)},
			"year":           {form.RequiredIf("defaultVehicle", "Selecione o ano", picking)},
			"model":          {form.RequiredIf("defaultVehicle", "Selecione o modelo", picking)},
			"licenseState":   {form.RequiredIf("defaultVehicle", "Selecione o estado", picking)},
			"value": {
				form.RequiredIf("defaultVehicle", "Informe o valor a financiar", picking),
				form.Custom("Valor inválido", validAmount),
			},
			"installment": {form.RequiredIf("defaultVehicle", "Selecione o número de parcelas", picking)},
		},
	),
	build: func(v form.Values, id string) (any, error) {
		req := api.FinancingRequest{
			EndUser:        id,
			DefaultVehicle: v.Bool("defaultVehicle"),
		}
		if req.DefaultVehicle {
			return req, nil
		}
		req.Brand = notBlank(v["brand"])
		req.Model = notBlank(v["model"])
		year, _, _ := strings.Cut(v["year"], "-")
		req.Year = year
		req.LicensingState = notBlank(v["licenseState"])
		req.Installment = notBlank(v["installment"])
		if raw := notBlank(v["value"]); raw != "" {
			units, err := mask.ParseCurrency(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
			}
			req.FinancingValue = units
		}
		return req, nil
	},
	send: func(ctx context.Context, s api.Submitter, payload any) (Outcome, error) {
		return submitted(ctx, func(ctx context.Context) error {
			return s.CreateFinancing(ctx, payload.(api.FinancingRequest))
		})
	},
}

var (
	withRole    = []string{string(Salaried), string(PublicServant), string(SelfEmployed)}
	withCompany = []string{string(Salaried), string(PublicServant), string(BusinessOwner)}
	working     = []string{string(Salaried), string(BusinessOwner), string(PublicServant), string(SelfEmployed)}
	ownsCompany = string(BusinessOwner)
)

var professionalStep = &Step{
	ID:              StepProfessional,
	Title:           "Dados profissionais",
	FailureMessage:  "Erro ao salvar dados profissionais",
	NeedsIdentifier: true,
	Schema: form.MustSchema(
		[]form.Field{
			{Name: "professionalSituation", Label: "Situação profissional", Type: form.TypeEnum, Default: string(Salaried), Options: situationOptions()},
			{Name: "company.name", Label: "Nome da empresa"},
			{Name: "role", Label: "Profissão", Type: form.TypeEnum, Options: roleOptions()},
			{Name: "grossIncome", Label: "Renda mensal", Type: form.TypeNumber},
			{Name: "serviceTime", Label: "Tempo de serviço (anos)", Type: form.TypeNumber},
			{Name: "retirementTime", Label: "Tempo de aposentadoria (anos)", Type: form.TypeNumber},
			{Name: "company.registry", Label: "CNPJ", Mask: mask.CNPJ},
			{Name: "company.address.zipCode", Label: "CEP da empresa", Mask: mask.CEP},
			{Name: "company.address.street", Label: "Endereço da empresa"},
			{Name: "company.address.number", Label: "Número", Type: form.TypeNumber},
			{Name: "company.address.complement", Label: "Complemento"},
			{Name: "company.address.neighborhood", Label: "Bairro"},
			{Name: "company.address.city", Label: "Cidade"},
			{Name: "company.address.state", Label: "Estado"},
		},
		map[string][]form.Rule{
			"professionalSituation": {
				form.Required("Selecione uma situação profissional"),
				form.Custom("Selecione uma situação profissional", func(v string, _ form.Values) bool { return knownSituation(v) }),
			},
			"role":         {form.RequiredIf("professionalSituation", "Selecione uma profissão", withRole...)},
			"company.name": {form.RequiredIf("professionalSituation", "Informe o nome da empresa", withCompany...)},
			"grossIncome": {
				form.Required("Informe a renda mensal"),
				form.Custom("Valor inválido", validAmount),
			},
			"serviceTime": {
				form.RequiredIf("professionalSituation", "Informe o tempo de serviço", working...),
				form.Custom("Informe um número inteiro", wholeNumber),
			},
			"retirementTime": {
				form.RequiredIf("professionalSituation", "Informe o tempo de aposentadoria", string(Retired)),
				form.Custom("Informe um número inteiro", wholeNumber),
			},
			"company.registry": {
				form.RequiredIf("professionalSituation", "Digite o CNPJ", ownsCompany),
				form.LengthExact(18, "O CNPJ deve conter 14 números"),
				form.Custom("CNPJ inválido", validCNPJ),
			},
			"company.address.zipCode": {
				form.RequiredIf("professionalSituation", "Digite o CEP", ownsCompany),
				form.LengthExact(9, "CEP incompleto"),
			},
			"company.address.street":       {form.RequiredIf("professionalSituation", "Digite o endereço", ownsCompany)},
			"company.address.number":       {form.RequiredIf("professionalSituation", "Digite o número", ownsCompany)},
			"company.address.neighborhood": {form.RequiredIf("professionalSituation", "Digite o bairro", ownsCompany)},
			"company.address.city":         {form.RequiredIf("professionalSituation", "Digite a cidade", ownsCompany)},
			"company.address.state":        {form.RequiredIf("professionalSituation", "Digite o estado", ownsCompany)},
		},
	),
	build: func(v form.Values, id string) (any, error) {
		situation := Situation(v["professionalSituation"])
		income, err := mask.ParseCurrency(v["grossIncome"])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		req := api.OccupationRequest{
			EndUser:     id,
			GrossIncome: income,
			Type:        situation.OccupationType(),
			Company:     api.Company{Name: notBlank(v["company.name"])},
		}

		if situation != BusinessOwner && situation != Retired {
			req.Role = notBlank(v["role"])
		}
		if situation == Retired {
			if req.RetirementTime, err = atoiOrZero(v["retirementTime"]); err != nil {
				return nil, err
			}
		} else if req.ServiceTime, err = atoiOrZero(v["serviceTime"]); err != nil {
			return nil, err
		}

		if situation == BusinessOwner {
			req.Company.Registry = mask.Digits(v["company.registry"])
			req.Company.Address = &api.CompanyAddress{
				ZipCode:      mask.Digits(v["company.address.zipCode"]),
				Street:       notBlank(v["company.address.street"]),
				Number:       notBlank(v["company.address.number"]),
				Complement:   notBlank(v["company.address.complement"]),
				Neighborhood: notBlank(v["company.address.neighborhood"]),
				City:         notBlank(v["company.address.city"]),
				State:        notBlank(v["company.address.state"]),
			}
		}
		return req, nil
	},
	send: func(ctx context.Context, s api.Submitter, payload any) (Outcome, error) {
		return submitted(ctx, func(ctx context.Context) error {
			return s.CreateOccupation(ctx, payload.(api.OccupationRequest))
		})
	},
}
