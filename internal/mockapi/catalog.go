package mockapi

import (
	"net/http"
	"strings"

	"github.com/finatech/onboard/internal/api"
	"github.com/labstack/echo/v4"
)

// catalogModel is one model of the mock catalog with the year codes it
// was offered in.
type catalogModel struct {
	api.Option
	Years []string
}

type catalogBrand struct {
	api.Option
	Models []catalogModel
}

func yearOption(code string) api.Option {
	head, _, _ := strings.Cut(code, "-")
	if head == "32000" {
		return api.Option{Label: "Zero KM Gasolina", Value: api.Code(code)}
	}
	return api.Option{Label: head + " Gasolina", Value: api.Code(code)}
}

var catalog = []catalogBrand{
	{
		Option: api.Option{Label: "Fiat", Value: "21"},
		Models: []catalogModel{
			{Option: api.Option{Label: "Argo 1.0 6V Flex.", Value: "8396"}, Years: []string{"2023-1", "2022-1", "2021-1"}},
			{Option: api.Option{Label: "Mobi LIKE 1.0 Fire Flex 5p.", Value: "7593"}, Years: []string{"2022-1", "2021-1", "2017-1"}},
			{Option: api.Option{Label: "Uno Mille 1.0 Fire", Value: "1411"}, Years: []string{"2009-1", "2008-1"}},
		},
	},
	{
		Option: api.Option{Label: "GM - Chevrolet", Value: "23"},
		Models: []catalogModel{
			{Option: api.Option{Label: "Onix HATCH LT 1.0 8V FlexPower 5p Mec.", Value: "5585"}, Years: []string{"2019-1", "2016-1", "2014-1"}},
			{Option: api.Option{Label: "Tracker LT 1.0 Turbo", Value: "9371"}, Years: []string{"32000-1", "2023-1"}},
		},
	},
	{
		Option: api.Option{Label: "VW - VolksWagen", Value: "59"},
		Models: []catalogModel{
			{Option: api.Option{Label: "Gol 1.0 Flex 12V 5p", Value: "8120"}, Years: []string{"2022-1", "2019-1"}},
			{Option: api.Option{Label: "Polo 1.0 Flex 12V 5p", Value: "8531"}, Years: []string{"2023-1", "2019-1"}},
		},
	},
}

func findBrand(code string) (catalogBrand, bool) {
	for _, b := range catalog {
		if string(b.Value) == code {
			return b, true
		}
	}
	return catalogBrand{}, false
}

// notFoundBody is what the catalog answers, with status 200, for unknown codes.
var notFoundBody = map[string]string{"codigo": "0", "erro": "nadaencontrado"}

func (s *Server) registerCatalog(g *echo.Group) {
	g.POST("/ConsultarMarcas", s.brands)
	g.POST("/ConsultarModelos", s.modelsByBrand)
	g.POST("/ConsultarModelosAtravesDoAno", s.modelsByYear)
	g.POST("/ConsultarAnoModelo", s.yearsByModel)
}

func requireCatalogForm(c echo.Context) error {
	if c.FormValue("codigoTabelaReferencia") == "" || c.FormValue("codigoTipoVeiculo") == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "codigoTabelaReferencia and codigoTipoVeiculo are required")
	}
	return nil
}

func (s *Server) brands(c echo.Context) error {
	if err := requireCatalogForm(c); err != nil {
		return err
	}
	out := make([]api.Option, len(catalog))
	for i, b := range catalog {
		out[i] = b.Option
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) modelsByBrand(c echo.Context) error {
	if err := requireCatalogForm(c); err != nil {
		return err
	}
	brand, ok := findBrand(c.FormValue("codigoMarca"))
	if !ok {
		return c.JSON(http.StatusOK, notFoundBody)
	}

	var out api.ModelsAndYears
	seen := map[string]bool{}
	for _, m := range brand.Models {
		out.Models = append(out.Models, m.Option)
		for _, y := range m.Years {
			if !seen[y] {
				seen[y] = true
				out.Years = append(out.Years, yearOption(y))
			}
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) modelsByYear(c echo.Context) error {
	if err := requireCatalogForm(c); err != nil {
		return err
	}
	brand, ok := findBrand(c.FormValue("codigoMarca"))
	year := c.FormValue("ano")
	if !ok || year == "" {
		return c.JSON(http.StatusOK, notFoundBody)
	}

	out := []api.Option{}
	for _, m := range brand.Models {
		for _, y := range m.Years {
			if y == year {
				out = append(out, m.Option)
				break
			}
		}
	}
	if len(out) == 0 {
		return c.JSON(http.StatusOK, notFoundBody)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) yearsByModel(c echo.Context) error {
	if err := requireCatalogForm(c); err != nil {
		return err
	}
	brand, ok := findBrand(c.FormValue("codigoMarca"))
	if !ok {
		return c.JSON(http.StatusOK, notFoundBody)
	}
	model := c.FormValue("codigoModelo")
	for _, m := range brand.Models {
		if string(m.Value) == model {
			out := make([]api.Option, len(m.Years))
			for i, y := range m.Years {
				out[i] = yearOption(y)
			}
			return c.JSON(http.StatusOK, out)
		}
	}
	return c.JSON(http.StatusOK, notFoundBody)
}
