package mockapi

import (
	"net/http"

	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/mask"
	"github.com/labstack/echo/v4"
)

// addresses known to the mock, keyed by zip digits.
var addresses = map[string]api.Address{
	"01310100": {ZipCode: "01310100", Street: "Avenida Paulista", Neighborhood: "Bela Vista", City: "São Paulo", State: "SP"},
	"20040002": {ZipCode: "20040002", Street: "Rua da Assembleia", Neighborhood: "Centro", City: "Rio de Janeiro", State: "RJ"},
	"30130010": {ZipCode: "30130010", Street: "Praça Sete de Setembro", Neighborhood: "Centro", City: "Belo Horizonte", State: "MG"},
	"70040010": {ZipCode: "70040010", Street: "Setor Bancário Sul", Neighborhood: "Asa Sul", City: "Brasília", State: "DF"},
}

func (s *Server) registerPostal(e *echo.Echo) {
	e.GET("/ws/:zip/json/", s.viaCEP)
	e.GET("/api/cep/v2/:zip", s.brasilAPI)
}

func (s *Server) viaCEP(c echo.Context) error {
	zip := mask.Digits(c.Param("zip"))
	if len(zip) != 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid zip code")
	}
	addr, ok := addresses[zip]
	if !ok {
		return c.JSON(http.StatusOK, map[string]any{"erro": true})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"cep":        zip[:5] + "-" + zip[5:],
		"logradouro": addr.Street,
		"bairro":     addr.Neighborhood,
		"localidade": addr.City,
		"uf":         addr.State,
	})
}

func (s *Server) brasilAPI(c echo.Context) error {
	zip := mask.Digits(c.Param("zip"))
	addr, ok := addresses[zip]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "CEP "+zip+" não encontrado")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"cep":          zip,
		"state":        addr.State,
		"city":         addr.City,
		"neighborhood": addr.Neighborhood,
		"street":       addr.Street,
	})
}
