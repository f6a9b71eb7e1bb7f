// Package testfixtures provides the shared fixtures and mocks of the TUI tests.
package testfixtures

import (
	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/form"
)

// FixedEndUserID is the identifier MockGateway assigns.
const FixedEndUserID = "user-7"

// Valid answers for the first two steps.
var (
	PersonalValues = form.Values{
		"fullName": "Maria da Silva", "document": "529.982.247-25", "nationalIdentification": "12.345.678-9",
		"motherName": "Ana da Silva", "birthDate": "15/03/1990", "email": "maria@example.com",
		"phone": "(+55) 11 98765-4321", "hasDriverLicense": "true",
	}

	AddressValues = form.Values{
		"zipCode": "01310-100", "street": "Avenida Paulista", "number": "1000",
		"neighborhood": "Bela Vista", "city": "São Paulo", "state": "SP",
	}

	// DefaultVehicleValues skips the vehicle choice on step 3.
	DefaultVehicleValues = form.Values{"defaultVehicle": "true"}
)

// Catalog entries served by MockGateway.
var (
	Fiat  = api.Option{Label: "Fiat", Value: "21"}
	GM    = api.Option{Label: "GM - Chevrolet", Value: "23"}
	Onix  = api.Option{Label: "Onix", Value: "5585"}
	Uno   = api.Option{Label: "Uno", Value: "1010"}
	Y2019 = api.Option{Label: "2019 Gasolina", Value: "2019-1"}
	Y2014 = api.Option{Label: "2014 Gasolina", Value: "2014-1"}
)

// Installments is the plan list MockGateway returns.
var Installments = []api.InstallmentOption{
	{ID: "48", Installments: 48, InstallmentValue: 1234.56},
	{ID: "60", Installments: 60, InstallmentValue: 999.9},
}

// Addresses maps the zip codes MockGateway resolves.
var Addresses = map[string]api.Address{
	"01310100": {ZipCode: "01310100", Street: "Avenida Paulista", Neighborhood: "Bela Vista", City: "São Paulo", State: "SP"},
	"20040002": {ZipCode: "20040002", Street: "Rua da Assembleia", Neighborhood: "Centro", City: "Rio de Janeiro", State: "RJ"},
}
