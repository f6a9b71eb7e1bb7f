package mockapi

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/finatech/onboard/internal/api"
	"github.com/labstack/echo/v4"
)

// monthlyRate is the interest the mock prices installments with.
const monthlyRate = 0.0199

// installmentTerms are the plans the mock offers.
var installmentTerms = []int{12, 24, 36, 48, 60}

func (s *Server) registerCore(g *echo.Group) {
	g.POST("/endusers", s.createEndUser)
	g.POST("/endusers/adresses", s.createAddress)
	g.POST("/endusers/financings", s.createFinancing)
	g.POST("/endusers/occupations", s.createOccupation)
	g.GET("/financing-factors/installment", s.installments)
}

func (s *Server) failing() error {
	if s.failStatus != 0 {
		return echo.NewHTTPError(s.failStatus, http.StatusText(s.failStatus))
	}
	return nil
}

func (s *Server) requireEndUser(id string) error {
	if !s.store.knows(id) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("end user %s not found", id))
	}
	return nil
}

func (s *Server) createEndUser(c echo.Context) error {
	if err := s.failing(); err != nil {
		return err
	}
	req, err := bindRequest[api.EndUserRequest](c)
	if err != nil {
		return err
	}
	id := s.store.createEndUser(req)
	return c.JSON(http.StatusCreated, api.EndUser{ID: id, FullName: req.FullName})
}

func (s *Server) createAddress(c echo.Context) error {
	if err := s.failing(); err != nil {
		return err
	}
	req, err := bindRequest[api.AddressRequest](c)
	if err != nil {
		return err
	}
	if err := s.requireEndUser(req.EndUser); err != nil {
		return err
	}
	s.store.addAddress(req)
	return c.NoContent(http.StatusCreated)
}

func (s *Server) createFinancing(c echo.Context) error {
	if err := s.failing(); err != nil {
		return err
	}
	req, err := bindRequest[api.FinancingRequest](c)
	if err != nil {
		return err
	}
	if err := s.requireEndUser(req.EndUser); err != nil {
		return err
	}
	s.store.addFinancing(req)
	if !req.DefaultVehicle && req.FinancingValue > s.maxFinancing {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "financing value above the approval limit")
	}
	return c.NoContent(http.StatusCreated)
}

func (s *Server) createOccupation(c echo.Context) error {
	if err := s.failing(); err != nil {
		return err
	}
	req, err := bindRequest[api.OccupationRequest](c)
	if err != nil {
		return err
	}
	if err := s.requireEndUser(req.EndUser); err != nil {
		return err
	}
	if req.Type == api.OccupationBusinessOwner && (req.Company.Registry == "" || req.Company.Address == nil) {
		return echo.NewHTTPError(http.StatusBadRequest, "company registry and address are required")
	}
	s.store.addOccupation(req)
	return c.NoContent(http.StatusCreated)
}

func (s *Server) installments(c echo.Context) error {
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil || year < 1900 {
		return echo.NewHTTPError(http.StatusBadRequest, "year is required")
	}
	value, err := strconv.ParseInt(c.QueryParam("financingValue"), 10, 64)
	if err != nil || value <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "financingValue must be positive")
	}

	return c.JSON(http.StatusOK, api.InstallmentList{InstallmentValues: Installments(year, value)})
}

// Installments prices a financing of value minor units over the mock's
// terms. Older vehicles get fewer terms.
func Installments(year int, value int64) []api.InstallmentOption {
	principal := float64(value) / 100
	opts := make([]api.InstallmentOption, 0, len(installmentTerms))
	for _, n := range installmentTerms {
		if year < 2010 && n > 36 {
			break
		}
		pmt := principal * monthlyRate / (1 - math.Pow(1+monthlyRate, float64(-n)))
		opts = append(opts, api.InstallmentOption{
			ID:               api.Code(fmt.Sprintf("f-%d", n)),
			Installments:     n,
			InstallmentValue: math.Round(pmt*100) / 100,
		})
	}
	return opts
}
