package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/mask"
)

// ErrInvalidZipCode is returned for zip codes that do not have eight digits.
var ErrInvalidZipCode = errors.New("zip code must have 8 digits")

// viaCEP is the personal address lookup response.
type viaCEP struct {
	ZipCode      string `json:"cep"`
	Street       string `json:"logradouro"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	// Erro is true (or "true") when the zip code does not exist.
	Erro any `json:"erro"`
}

func (v viaCEP) notFound() bool {
	switch e := v.Erro.(type) {
	case bool:
		return e
	case string:
		return strings.EqualFold(e, "true")
	}
	return false
}

// brasilAPI is the company address lookup response.
type brasilAPI struct {
	ZipCode      string `json:"cep"`
	State        string `json:"state"`
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
	Street       string `json:"street"`
}

func zipDigits(zip string) (string, error) {
	d := mask.Digits(zip)
	if len(d) != 8 {
		return "", fmt.Errorf("%q: %w", zip, ErrInvalidZipCode)
	}
	return d, nil
}

func notFoundStatus(err error) bool {
	var se *api.StatusError
	return errors.As(err, &se) && (se.StatusCode == http.StatusNotFound || se.StatusCode == http.StatusBadRequest)
}

// LookupAddress resolves a zip code for the personal address step.
func (c *Client) LookupAddress(ctx context.Context, zipCode string) (*api.Address, error) {
	zip, err := zipDigits(zipCode)
	if err != nil {
		return nil, err
	}

	res, err := c.get(ctx, fmt.Sprintf("%s/ws/%s/json/", c.cfg.PostalURL, zip))
	if err != nil {
		if notFoundStatus(err) {
			return nil, fmt.Errorf("address %s: %w", zip, api.ErrNotFound)
		}
		return nil, fmt.Errorf("address %s: %w", zip, err)
	}
	var out viaCEP
	if err := decode(res, &out); err != nil {
		return nil, fmt.Errorf("address %s: %w", zip, err)
	}
	if out.notFound() {
		return nil, fmt.Errorf("address %s: %w", zip, api.ErrNotFound)
	}
	return &api.Address{
		ZipCode:      zip,
		Street:       out.Street,
		Neighborhood: out.Neighborhood,
		City:         out.City,
		State:        out.State,
	}, nil
}

// LookupCompanyAddress resolves a zip code for the company address.
func (c *Client) LookupCompanyAddress(ctx context.Context, zipCode string) (*api.Address, error) {
	zip, err := zipDigits(zipCode)
	if err != nil {
		return nil, err
	}

	res, err := c.get(ctx, fmt.Sprintf("%s/api/cep/v2/%s", c.cfg.CompanyPostalURL, zip))
	if err != nil {
		if notFoundStatus(err) {
			return nil, fmt.Errorf("company address %s: %w", zip, api.ErrNotFound)
		}
		return nil, fmt.Errorf("company address %s: %w", zip, err)
	}
	var out brasilAPI
	if err := decode(res, &out); err != nil {
		return nil, fmt.Errorf("company address %s: %w", zip, err)
	}
	return &api.Address{
		ZipCode:      zip,
		Street:       out.Street,
		Neighborhood: out.Neighborhood,
		City:         out.City,
		State:        out.State,
	}, nil
}
