package onboard

import (
	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/form"
)

// Situation is the professional situation chosen on the last step.
type Situation string

const (
	Salaried      Situation = "salaried"
	Retired       Situation = "retired"
	BusinessOwner Situation = "business-owner"
	PublicServant Situation = "public-servant"
	SelfEmployed  Situation = "self-employed"
)

// Situations lists the variants in display order.
var Situations = []Situation{Salaried, Retired, BusinessOwner, PublicServant, SelfEmployed}

// Label is the Portuguese name shown to the user.
func (s Situation) Label() string {
	switch s {
	case Salaried:
		return "Assalariado"
	case Retired:
		return "Aposentado"
	case BusinessOwner:
		return "Empresário"
	case PublicServant:
		return "Funcionário Público"
	case SelfEmployed:
		return "Autônomo"
	}
	return string(s)
}

// OccupationType maps the situation to the backend enum. Unknown values map to 0.
func (s Situation) OccupationType() api.OccupationType {
	switch s {
	case Salaried:
		return api.OccupationSalaried
	case Retired:
		return api.OccupationRetired
	case BusinessOwner:
		return api.OccupationBusinessOwner
	case PublicServant:
		return api.OccupationPublicServant
	case SelfEmployed:
		return api.OccupationSelfEmployed
	}
	return api.OccupationOther
}

func situationOptions() []form.Option {
	opts := make([]form.Option, len(Situations))
	for i, s := range Situations {
		opts[i] = form.Option{Label: s.Label(), Value: string(s)}
	}
	return opts
}

func knownSituation(v string) bool {
	for _, s := range Situations {
		if string(s) == v {
			return true
		}
	}
	return false
}

// LicenseStates are the federative units a vehicle can be licensed in.
var LicenseStates = []form.Option{
	{Label: "Acre", Value: "AC"},
	{Label: "Alagoas", Value: "AL"},
	{Label: "Amapá", Value: "AP"},
	{Label: "Amazonas", Value: "AM"},
	{Label: "Bahia", Value: "BA"},
	{Label: "Ceará", Value: "CE"},
	{Label: "Distrito Federal", Value: "DF"},
	{Label: "Espírito Santo", Value: "ES"},
	{Label: "Goiás", Value: "GO"},
	{Label: "Maranhão", Value: "MA"},
	{Label: "Mato Grosso", Value: "MT"},
	{Label: "Mato Grosso do Sul", Value: "MS"},
	{Label: "Minas Gerais", Value: "MG"},
	{Label: "Pará", Value: "PA"},
	{Label: "Paraíba", Value: "PB"},
	{Label: "Paraná", Value: "PR"},
	{Label: "Pernambuco", Value: "PE"},
	{Label: "Piauí", Value: "PI"},
	{Label: "Rio de Janeiro", Value: "RJ"},
	{Label: "Rio Grande do Norte", Value: "RN"},
	{Label: "Rio Grande do Sul", Value: "RS"},
	{Label: "Rondônia", Value: "RO"},
	{Label: "Roraima", Value: "RR"},
	{Label: "Santa Catarina", Value: "SC"},
	{Label: "São Paulo", Value: "SP"},
	{Label: "Sergipe", Value: "SE"},
	{Label: "Tocantins", Value: "TO"},
}

// Roles offered on the professional step.
var Roles = []string{
	"Administrador",
	"Advogado",
	"Analista",
	"Arquiteto",
	"Assistente administrativo",
	"Auxiliar",
	"Bancário",
	"Comerciante",
	"Consultor",
	"Contador",
	"Dentista",
	"Desenvolvedor",
	"Eletricista",
	"Enfermeiro",
	"Engenheiro",
	"Farmacêutico",
	"Gerente",
	"Médico",
	"Motorista",
	"Policial",
	"Professor",
	"Representante comercial",
	"Técnico",
	"Vendedor",
	"Outro",
}

func roleOptions() []form.Option {
	opts := make([]form.Option, len(Roles))
	for i, r := range Roles {
		opts[i] = form.Option{Label: r, Value: r}
	}
	return opts
}

// vehicleChoices are the two answers to "do you already know the vehicle".
var vehicleChoices = []form.Option{
	{Label: "Já sei qual veículo desejo", Value: "false"},
	{Label: "Ainda não sei qual veículo desejo", Value: "true"},
}
