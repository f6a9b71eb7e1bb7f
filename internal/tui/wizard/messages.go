package wizard

import (
	tea "charm.land/bubbletea/v2"

	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/onboard"
	engine "github.com/finatech/onboard/internal/wizard"
)

// Sender delivers messages to the running program from other goroutines.
// *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// SubmitDoneMsg is sent when a step submission returns.
type SubmitDoneMsg struct {
	Result engine.Result
	Err    error
}

// BrandsLoadedMsg carries the brand list.
type BrandsLoadedMsg struct {
	Ticket onboard.Ticket
	Brands []api.Option
	Err    error
}

// ModelsLoadedMsg carries the models and years of a brand.
type ModelsLoadedMsg struct {
	Ticket onboard.Ticket
	Result *api.ModelsAndYears
	Err    error
}

// OptionsLoadedMsg carries models-by-year or years-by-model results.
type OptionsLoadedMsg struct {
	Ticket  onboard.Ticket
	Options []api.Option
	Err     error
}

// InstallmentsDueMsg is sent by the debouncer when the installment lookup
// should run.
type InstallmentsDueMsg struct{}

// InstallmentsLoadedMsg carries the installment options.
type InstallmentsLoadedMsg struct {
	Ticket  onboard.Ticket
	Options []api.InstallmentOption
	Err     error
}

// AddressLoadedMsg carries a postal code lookup for the field group prefix
// ("" for the home address, "company.address." for the company).
type AddressLoadedMsg struct {
	Prefix  string
	Seq     uint64
	Address *api.Address
	Err     error
}
