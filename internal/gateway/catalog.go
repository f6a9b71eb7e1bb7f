package gateway

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/finatech/onboard/internal/api"
)

// Vehicle catalog paths.
const (
	PathBrands       = "/api/veiculos/ConsultarMarcas"
	PathModels       = "/api/veiculos/ConsultarModelos"
	PathModelsByYear = "/api/veiculos/ConsultarModelosAtravesDoAno"
	PathYearsByModel = "/api/veiculos/ConsultarAnoModelo"
)

const gasolineFuelType = "1"

// catalogForm carries the reference table and vehicle type every catalog
// query needs.
func (c *Client) catalogForm() url.Values {
	f := url.Values{}
	f.Set("codigoTabelaReferencia", c.cfg.ReferenceTable)
	f.Set("codigoTipoVeiculo", c.cfg.VehicleType)
	return f
}

// catalogError is the body the catalog answers with, status 200, when a
// query matches nothing.
type catalogError struct {
	Code  string `json:"codigo"`
	Error string `json:"erro"`
}

// decodeCatalog decodes v, mapping the catalog's object-shaped error body
// to api.ErrNotFound when a list was expected.
func decodeCatalog(res *response, v any, wantList bool) error {
	body := bytes.TrimSpace(res.Body)
	if wantList && len(body) > 0 && body[0] == '{' {
		var ce catalogError
		if err := decode(res, &ce); err == nil && ce.Error != "" {
			return fmt.Errorf("%s: %w", ce.Error, api.ErrNotFound)
		}
	}
	return decode(res, v)
}

// Brands lists the vehicle brands.
func (c *Client) Brands(ctx context.Context) ([]api.Option, error) {
	res, err := c.postForm(ctx, c.cfg.CatalogURL+PathBrands, c.catalogForm())
	if err != nil {
		return nil, fmt.Errorf("brands: %w", err)
	}
	var brands []api.Option
	if err := decodeCatalog(res, &brands, true); err != nil {
		return nil, fmt.Errorf("brands: %w", err)
	}
	return brands, nil
}

// ModelsByBrand lists the models and years of a brand.
func (c *Client) ModelsByBrand(ctx context.Context, brand string) (*api.ModelsAndYears, error) {
	f := c.catalogForm()
	f.Set("codigoMarca", brand)

	res, err := c.postForm(ctx, c.cfg.CatalogURL+PathModels, f)
	if err != nil {
		return nil, fmt.Errorf("models of brand %s: %w", brand, err)
	}
	var out api.ModelsAndYears
	if err := decodeCatalog(res, &out, false); err != nil {
		return nil, fmt.Errorf("models of brand %s: %w", brand, err)
	}
	return &out, nil
}

// ModelsByYear lists the models of a brand for a catalog year code ("2014-1").
func (c *Client) ModelsByYear(ctx context.Context, brand, year string) ([]api.Option, error) {
	modelYear, _, _ := strings.Cut(year, "-")

	f := c.catalogForm()
	f.Set("codigoMarca", brand)
	f.Set("ano", year)
	f.Set("codigoTipoCombustivel", gasolineFuelType)
	f.Set("anoModelo", modelYear)

	res, err := c.postForm(ctx, c.cfg.CatalogURL+PathModelsByYear, f)
	if err != nil {
		return nil, fmt.Errorf("models of brand %s in %s: %w", brand, year, err)
	}
	var models []api.Option
	if err := decodeCatalog(res, &models, true); err != nil {
		return nil, fmt.Errorf("models of brand %s in %s: %w", brand, year, err)
	}
	return models, nil
}

// YearsByModel lists the years a model was offered in.
func (c *Client) YearsByModel(ctx context.Context, brand, model string) ([]api.Option, error) {
	f := c.catalogForm()
	f.Set("codigoMarca", brand)
	f.Set("codigoModelo", model)

	res, err := c.postForm(ctx, c.cfg.CatalogURL+PathYearsByModel, f)
	if err != nil {
		return nil, fmt.Errorf("years of model %s: %w", model, err)
	}
	var years []api.Option
	if err := decodeCatalog(res, &years, true); err != nil {
		return nil, fmt.Errorf("years of model %s: %w", model, err)
	}
	return years, nil
}
