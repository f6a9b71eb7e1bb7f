package onboard

import (
	"errors"
	"fmt"

	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/form"
	"github.com/finatech/onboard/internal/mask"
)

// ErrSelectionOrder is returned when a vehicle level is picked before the
// level it depends on.
var ErrSelectionOrder = errors.New("vehicle selection out of order")

// Stage is the position in the brand -> year -> model cascade.
type Stage int

const (
	StageNoBrand Stage = iota
	StageBrandSelected
	StageYearSelected
	StageModelSelected
)

func (s Stage) String() string {
	switch s {
	case StageNoBrand:
		return "no-brand"
	case StageBrandSelected:
		return "brand-selected"
	case StageYearSelected:
		return "year-selected"
	case StageModelSelected:
		return "model-selected"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Lookup names one of the remote lookups the financing step issues.
type Lookup int

const (
	LookupBrands Lookup = iota
	LookupModels
	LookupModelsByYear
	LookupYearsByModel
	LookupInstallments
	lookupCount
)

func (l Lookup) String() string {
	switch l {
	case LookupBrands:
		return "brands"
	case LookupModels:
		return "models"
	case LookupModelsByYear:
		return "models-by-year"
	case LookupYearsByModel:
		return "years-by-model"
	case LookupInstallments:
		return "installments"
	}
	return fmt.Sprintf("lookup(%d)", int(l))
}

// Ticket tags an issued lookup. Only the latest ticket of a lookup is
// accepted when its response arrives.
type Ticket struct {
	Lookup Lookup
	Seq    uint64
}

// VehicleSelection is the cascading brand/year/model state of the financing
// step. It is not safe for concurrent use; the TUI drives it from its update
// loop.
type VehicleSelection struct {
	stage Stage

	Brand api.Option
	Year  api.Option
	Model api.Option

	Brands       []api.Option
	Years        []api.Option
	Models       []api.Option
	ModelYears   []api.Option
	Installments []api.InstallmentOption

	issued [lookupCount]uint64
}

// NewVehicleSelection returns an empty selection at StageNoBrand.
func NewVehicleSelection() *VehicleSelection {
	return &VehicleSelection{}
}

// Stage reports the current cascade stage.
func (v *VehicleSelection) Stage() Stage { return v.stage }

// Issue tags a new request for l, superseding every earlier one.
func (v *VehicleSelection) Issue(l Lookup) Ticket {
	v.issued[l]++
	return Ticket{Lookup: l, Seq: v.issued[l]}
}

// Current reports whether t is the latest ticket issued for its lookup.
func (v *VehicleSelection) Current(t Ticket) bool {
	return t.Seq != 0 && v.issued[t.Lookup] == t.Seq
}

// invalidate drops the results of l and makes in-flight responses stale.
func (v *VehicleSelection) invalidate(lookups ...Lookup) {
	for _, l := range lookups {
		v.issued[l]++
		switch l {
		case LookupModels:
			v.Years, v.Models = nil, nil
		case LookupModelsByYear:
			v.Models = nil
		case LookupYearsByModel:
			v.ModelYears = nil
		case LookupInstallments:
			v.Installments = nil
		}
	}
}

// SelectBrand picks a brand, clearing year and model, and returns the ticket
// for the models-by-brand lookup.
func (v *VehicleSelection) SelectBrand(o api.Option) Ticket {
	v.invalidate(LookupModels, LookupModelsByYear, LookupYearsByModel, LookupInstallments)
	v.Brand, v.Year, v.Model = o, api.Option{}, api.Option{}
	v.stage = StageBrandSelected
	return v.Issue(LookupModels)
}

// SelectYear picks a year, clearing the model, and returns the ticket for
// the models-by-year lookup.
func (v *VehicleSelection) SelectYear(o api.Option) (Ticket, error) {
	if v.stage < StageBrandSelected {
		return Ticket{}, fmt.Errorf("year before brand: %w", ErrSelectionOrder)
	}
	v.invalidate(LookupModelsByYear, LookupYearsByModel, LookupInstallments)
	v.Year, v.Model = o, api.Option{}
	v.stage = StageYearSelected
	return v.Issue(LookupModelsByYear), nil
}

// SelectModel picks a model and returns the ticket for the years-by-model lookup.
func (v *VehicleSelection) SelectModel(o api.Option) (Ticket, error) {
	if v.stage < StageYearSelected {
		return Ticket{}, fmt.Errorf("model before year: %w", ErrSelectionOrder)
	}
	v.invalidate(LookupYearsByModel)
	v.Model = o
	v.stage = StageModelSelected
	return v.Issue(LookupYearsByModel), nil
}

// Reset returns to StageNoBrand. The brand list is kept.
func (v *VehicleSelection) Reset() {
	v.invalidate(LookupModels, LookupModelsByYear, LookupYearsByModel, LookupInstallments)
	v.Brand, v.Year, v.Model = api.Option{}, api.Option{}, api.Option{}
	v.stage = StageNoBrand
}

// ApplyBrands stores the brand list if t is current.
func (v *VehicleSelection) ApplyBrands(t Ticket, brands []api.Option) bool {
	if t.Lookup != LookupBrands || !v.Current(t) {
		return false
	}
	v.Brands = brands
	return true
}

// ApplyModels stores the models-by-brand response if t is current. The
// response carries the year choices.
func (v *VehicleSelection) ApplyModels(t Ticket, res *api.ModelsAndYears) bool {
	if t.Lookup != LookupModels || !v.Current(t) || res == nil {
		return false
	}
	v.Years, v.Models = res.Years, res.Models
	return true
}

// ApplyModelsByYear narrows the model choices to the selected year.
func (v *VehicleSelection) ApplyModelsByYear(t Ticket, models []api.Option) bool {
	if t.Lookup != LookupModelsByYear || !v.Current(t) {
		return false
	}
	v.Models = models
	return true
}

// ApplyYearsByModel stores the years available for the selected model.
func (v *VehicleSelection) ApplyYearsByModel(t Ticket, years []api.Option) bool {
	if t.Lookup != LookupYearsByModel || !v.Current(t) {
		return false
	}
	v.ModelYears = years
	return true
}

// ApplyInstallments stores installment options if t is current.
func (v *VehicleSelection) ApplyInstallments(t Ticket, opts []api.InstallmentOption) bool {
	if t.Lookup != LookupInstallments || !v.Current(t) {
		return false
	}
	v.Installments = opts
	return true
}

// ModelYear is the numeric year of the selected year code.
func (v *VehicleSelection) ModelYear() (int, error) {
	if v.stage < StageYearSelected {
		return 0, fmt.Errorf("no year selected: %w", ErrSelectionOrder)
	}
	return api.YearOf(string(v.Year.Value))
}

// Values are the form values the selection contributes to the financing
// step: brand and model labels, and the year code.
func (v *VehicleSelection) Values() form.Values {
	return form.Values{
		"brand": v.Brand.Label,
		"year":  string(v.Year.Value),
		"model": v.Model.Label,
	}
}

// InstallmentLabel renders an option as "48x de R$ 1.234,56".
func InstallmentLabel(o api.InstallmentOption) string {
	return fmt.Sprintf("%dx de %s", o.Installments, mask.FormatAmount(o.InstallmentValue))
}
