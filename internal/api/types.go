// Package api defines the wire types exchanged with the onboarding backends
// and the gateway interfaces the wizard talks to.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// EndUserRequest is the step 1 payload.
type EndUserRequest struct {
	FullName               string `json:"fullName" validate:"required"`
	MotherName             string `json:"motherName" validate:"required"`
	Document               string `json:"document" validate:"required,len=11,numeric"`
	NationalIdentification string `json:"nationalIdentification" validate:"required,numeric"`
	BirthDate              string `json:"birthDate" validate:"required,datetime=2006-01-02"`
	Email                  string `json:"email" validate:"required,email"`
	Phone                  string `json:"phone" validate:"required,numeric"`
	HasDriverLicense       bool   `json:"hasDriverLicense"`
}

// EndUser is the created end user. ID is the identifier carried to later steps.
type EndUser struct {
	ID       string `json:"id"`
	FullName string `json:"fullName,omitempty"`
}

// AddressRequest is the step 2 payload.
type AddressRequest struct {
	ZipCode      string `json:"zipCode" validate:"required,len=8,numeric"`
	Street       string `json:"street" validate:"required"`
	Number       string `json:"number" validate:"required"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	EndUser      string `json:"endUser" validate:"required"`
}

// FinancingRequest is the step 3 payload. FinancingValue is in minor units.
type FinancingRequest struct {
	EndUser        string `json:"endUser" validate:"required"`
	Brand          string `json:"brand" validate:"required_if=DefaultVehicle false"`
	Model          string `json:"model" validate:"required_if=DefaultVehicle false"`
	Year           string `json:"year" validate:"required_if=DefaultVehicle false"`
	LicensingState string `json:"licensingState" validate:"required_if=DefaultVehicle false"`
	FinancingValue int64  `json:"financingValue" validate:"min=0"`
	Installment    string `json:"installment" validate:"required_if=DefaultVehicle false"`
	DefaultVehicle bool   `json:"defaultVehicle"`
}

// OccupationType is the numeric professional situation sent to the backend.
type OccupationType int

const (
	OccupationOther         OccupationType = 0
	OccupationSalaried      OccupationType = 1
	OccupationRetired       OccupationType = 2
	OccupationBusinessOwner OccupationType = 3
	OccupationPublicServant OccupationType = 4
	OccupationSelfEmployed  OccupationType = 5
)

// CompanyAddress is only sent for business owners.
type CompanyAddress struct {
	ZipCode      string `json:"zipCode"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// Company is the employer, institution or owned business.
type Company struct {
	Name     string          `json:"name"`
	Registry string          `json:"registry,omitempty"`
	Address  *CompanyAddress `json:"address,omitempty"`
}

// OccupationRequest is the step 4 payload. GrossIncome is in minor units.
type OccupationRequest struct {
	EndUser        string         `json:"endUser" validate:"required"`
	Role           string         `json:"role"`
	GrossIncome    int64          `json:"grossIncome" validate:"gt=0"`
	ServiceTime    int            `json:"serviceTime" validate:"min=0"`
	RetirementTime int            `json:"retirementTime" validate:"min=0"`
	Type           OccupationType `json:"type" validate:"min=0,max=5"`
	Company        Company        `json:"company"`
}

// Code is a catalog value that the vehicle catalog encodes either as a JSON
// string ("59", "2014-1") or as a number (5585).
type Code string

// UnmarshalJSON accepts strings and numbers.
func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("catalog code: %w", err)
	}
	*c = Code(n.String())
	return nil
}

// Option is a catalog entry.
type Option struct {
	Label string `json:"Label"`
	Value Code   `json:"Value"`
}

// ModelsAndYears is the models-by-brand response.
type ModelsAndYears struct {
	Models []Option `json:"Modelos"`
	Years  []Option `json:"Anos"`
}

// YearOf extracts the model year from a catalog year code such as "2014-1".
func YearOf(code string) (int, error) {
	head, _, _ := strings.Cut(code, "-")
	year, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, fmt.Errorf("invalid year code %q", code)
	}
	return year, nil
}

// Address is the result of a postal code lookup.
type Address struct {
	ZipCode      string `json:"zipCode"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// InstallmentOption is one financing plan returned by the installment lookup.
type InstallmentOption struct {
	ID               Code    `json:"id"`
	Installments     int     `json:"installments"`
	InstallmentValue float64 `json:"installmentValue"`
}

// InstallmentList is the installment lookup response envelope.
type InstallmentList struct {
	InstallmentValues []InstallmentOption `json:"installmentValues"`
}
