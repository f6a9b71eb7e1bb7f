package testfixtures

import (
	"context"
	"sync"

	"github.com/finatech/onboard/internal/api"
)

// MockGateway is an in-memory api.Gateway. Every call is recorded by name
// ("enduser", "models:23", "address:01310100", ...) and can be made to fail
// with FailOn. It is safe for concurrent use.
type MockGateway struct {
	mu           sync.Mutex
	calls        []string
	failOn       map[string]error
	financings   []api.FinancingRequest
	installments []int64
}

var _ api.Gateway = (*MockGateway)(nil)

// NewMockGateway creates a gateway serving the package fixtures.
func NewMockGateway() *MockGateway {
	return &MockGateway{failOn: map[string]error{}}
}

// FailOn makes the named call return err.
func (g *MockGateway) FailOn(name string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failOn[name] = err
}

// Calls returns the recorded call names in order.
func (g *MockGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

// Financings returns the financing requests received.
func (g *MockGateway) Financings() []api.FinancingRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]api.FinancingRequest(nil), g.financings...)
}

// InstallmentValues returns the financing values of the installment lookups.
func (g *MockGateway) InstallmentValues() []int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]int64(nil), g.installments...)
}

func (g *MockGateway) record(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, name)
	return g.failOn[name]
}

func (g *MockGateway) CreateEndUser(_ context.Context, _ api.EndUserRequest) (*api.EndUser, error) {
	if err := g.record("enduser"); err != nil {
		return nil, err
	}
	return &api.EndUser{ID: FixedEndUserID}, nil
}

func (g *MockGateway) CreateAddress(_ context.Context, _ api.AddressRequest) error {
	return g.record("address")
}

func (g *MockGateway) CreateFinancing(_ context.Context, req api.FinancingRequest) error {
	g.mu.Lock()
	g.financings = append(g.financings, req)
	g.mu.Unlock()
	return g.record("financing")
}

func (g *MockGateway) CreateOccupation(_ context.Context, _ api.OccupationRequest) error {
	return g.record("occupation")
}

func (g *MockGateway) Brands(_ context.Context) ([]api.Option, error) {
	if err := g.record("brands"); err != nil {
		return nil, err
	}
	return []api.Option{Fiat, GM}, nil
}

func (g *MockGateway) ModelsByBrand(_ context.Context, brand string) (*api.ModelsAndYears, error) {
	if err := g.record("models:" + brand); err != nil {
		return nil, err
	}
	if brand == string(Fiat.Value) {
		return &api.ModelsAndYears{Models: []api.Option{Uno}, Years: []api.Option{Y2014}}, nil
	}
	return &api.ModelsAndYears{Models: []api.Option{Onix}, Years: []api.Option{Y2019, Y2014}}, nil
}

func (g *MockGateway) ModelsByYear(_ context.Context, brand, year string) ([]api.Option, error) {
	if err := g.record("modelsByYear:" + brand + ":" + year); err != nil {
		return nil, err
	}
	if brand == string(Fiat.Value) {
		return []api.Option{Uno}, nil
	}
	return []api.Option{Onix}, nil
}

func (g *MockGateway) YearsByModel(_ context.Context, brand, model string) ([]api.Option, error) {
	if err := g.record("yearsByModel:" + brand + ":" + model); err != nil {
		return nil, err
	}
	return []api.Option{Y2019, Y2014}, nil
}

func (g *MockGateway) LookupAddress(_ context.Context, zip string) (*api.Address, error) {
	return g.lookup("address:"+zip, zip)
}

func (g *MockGateway) LookupCompanyAddress(_ context.Context, zip string) (*api.Address, error) {
	return g.lookup("companyAddress:"+zip, zip)
}

func (g *MockGateway) lookup(name, zip string) (*api.Address, error) {
	if err := g.record(name); err != nil {
		return nil, err
	}
	addr, ok := Addresses[zip]
	if !ok {
		return nil, api.ErrNotFound
	}
	return &addr, nil
}

func (g *MockGateway) Installments(_ context.Context, _ int, value int64) ([]api.InstallmentOption, error) {
	g.mu.Lock()
	g.installments = append(g.installments, value)
	g.mu.Unlock()
	if err := g.record("installments"); err != nil {
		return nil, err
	}
	return append([]api.InstallmentOption(nil), Installments...), nil
}
