package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/finatech/onboard/internal/api"
)

// Core API paths.
const (
	PathEndUsers     = "/api/v1/endusers"
	PathAddresses    = "/api/v1/endusers/adresses"
	PathFinancings   = "/api/v1/endusers/financings"
	PathOccupations  = "/api/v1/endusers/occupations"
	PathInstallments = "/api/v1/financing-factors/installment"
)

// CreateEndUser posts the personal data step and returns the created user.
func (c *Client) CreateEndUser(ctx context.Context, req api.EndUserRequest) (*api.EndUser, error) {
	res, err := c.postJSON(ctx, c.cfg.CoreURL+PathEndUsers, req)
	if err != nil {
		return nil, fmt.Errorf("create end user: %w", err)
	}
	var user api.EndUser
	if err := decode(res, &user); err != nil {
		return nil, fmt.Errorf("create end user: %w", err)
	}
	if user.ID == "" {
		return nil, errors.New("create end user: response has no id")
	}
	return &user, nil
}

// CreateAddress posts the address step.
func (c *Client) CreateAddress(ctx context.Context, req api.AddressRequest) error {
	if _, err := c.postJSON(ctx, c.cfg.CoreURL+PathAddresses, req); err != nil {
		return fmt.Errorf("create address: %w", err)
	}
	return nil
}

// CreateFinancing posts the financing step.
func (c *Client) CreateFinancing(ctx context.Context, req api.FinancingRequest) error {
	if _, err := c.postJSON(ctx, c.cfg.CoreURL+PathFinancings, req); err != nil {
		return fmt.Errorf("create financing: %w", err)
	}
	return nil
}

// CreateOccupation posts the professional data step.
func (c *Client) CreateOccupation(ctx context.Context, req api.OccupationRequest) error {
	if _, err := c.postJSON(ctx, c.cfg.CoreURL+PathOccupations, req); err != nil {
		return fmt.Errorf("create occupation: %w", err)
	}
	return nil
}

// Installments lists financing plans for a model year and an amount in minor units.
func (c *Client) Installments(ctx context.Context, year int, financingValue int64) ([]api.InstallmentOption, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("financingValue", strconv.FormatInt(financingValue, 10))

	res, err := c.get(ctx, c.cfg.CoreURL+PathInstallments+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("installments: %w", err)
	}
	var list api.InstallmentList
	if err := decode(res, &list); err != nil {
		return nil, fmt.Errorf("installments: %w", err)
	}
	return list.InstallmentValues, nil
}
