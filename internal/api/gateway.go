package api

import (
	"context"
	"errors"
	"fmt"
)

// Submitter creates the per-step resources on the core API.
type Submitter interface {
	CreateEndUser(ctx context.Context, req EndUserRequest) (*EndUser, error)
	CreateAddress(ctx context.Context, req AddressRequest) error
	CreateFinancing(ctx context.Context, req FinancingRequest) error
	CreateOccupation(ctx context.Context, req OccupationRequest) error
}

// Catalog queries the vehicle catalog.
type Catalog interface {
	Brands(ctx context.Context) ([]Option, error)
	ModelsByBrand(ctx context.Context, brand string) (*ModelsAndYears, error)
	ModelsByYear(ctx context.Context, brand, year string) ([]Option, error)
	YearsByModel(ctx context.Context, brand, model string) ([]Option, error)
}

// AddressLookup resolves postal codes.
type AddressLookup interface {
	LookupAddress(ctx context.Context, zipCode string) (*Address, error)
	LookupCompanyAddress(ctx context.Context, zipCode string) (*Address, error)
}

// InstallmentLookup lists financing plans for a vehicle year and amount.
type InstallmentLookup interface {
	Installments(ctx context.Context, year int, financingValue int64) ([]InstallmentOption, error)
}

// Gateway is every outbound call the wizard makes.
type Gateway interface {
	Submitter
	Catalog
	AddressLookup
	InstallmentLookup
}

// ErrNotFound is returned by lookups that resolve to nothing.
var ErrNotFound = errors.New("not found")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
}
