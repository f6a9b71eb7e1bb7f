package wizard

import (
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/form"
	"github.com/finatech/onboard/internal/logger"
	"github.com/finatech/onboard/internal/mask"
	"github.com/finatech/onboard/internal/metrics"
	"github.com/finatech/onboard/internal/onboard"
)

// Field group prefixes of the two address forms.
const (
	homeAddress    = ""
	companyAddress = "company.address."
)

// loadBrands issues the brand lookup.
func (m *Model) loadBrands() tea.Cmd {
	t := m.vehicle.Issue(onboard.LookupBrands)
	ctx, gw := m.ctx, m.gw
	m.hints["brand"] = "Carregando marcas..."
	return func() tea.Msg {
		brands, err := gw.Brands(ctx)
		return BrandsLoadedMsg{Ticket: t, Brands: brands, Err: err}
	}
}

// findOption returns the option with the given code.
func findOption(opts []api.Option, code string) (api.Option, bool) {
	for _, o := range opts {
		if string(o.Value) == code {
			return o, true
		}
	}
	return api.Option{}, false
}

func toChoices(opts []api.Option) []form.Option {
	out := make([]form.Option, len(opts))
	for i, o := range opts {
		out[i] = form.Option{Label: o.Label, Value: string(o.Value)}
	}
	return out
}

// syncVehicleFields mirrors the selection into the pickers of the financing step.
func (m *Model) syncVehicleFields() {
	v := m.vehicle
	set := func(name string, choices []form.Option, selected string) {
		if f := m.form.Field(name); f != nil {
			f.SetChoices(choices)
			f.selected = selected
		}
	}
	set("brand", toChoices(v.Brands), string(v.Brand.Value))
	set("year", toChoices(v.Years), string(v.Year.Value))
	set("model", toChoices(v.Models), string(v.Model.Value))

	if f := m.form.Field("installment"); f != nil {
		choices := make([]form.Option, len(v.Installments))
		for i, o := range v.Installments {
			choices[i] = form.Option{Label: onboard.InstallmentLabel(o), Value: string(o.ID)}
		}
		f.SetChoices(choices)
	}

	if len(v.ModelYears) > 0 {
		labels := make([]string, len(v.ModelYears))
		for i, y := range v.ModelYears {
			labels[i] = y.Label
		}
		m.hints["model"] = "Anos disponíveis: " + strings.Join(labels, ", ")
	} else {
		delete(m.hints, "model")
	}
}

// onVehicleChange reacts to an edit of a financing step field.
func (m *Model) onVehicleChange(name string) tea.Cmd {
	f := m.form.Field(name)
	ctx, gw := m.ctx, m.gw

	switch name {
	case "defaultVehicle":
		if f.Value() == "true" {
			m.vehicle.Reset()
			m.debouncer.Cancel()
			m.syncVehicleFields()
			return nil
		}
		if len(m.vehicle.Brands) == 0 {
			return m.loadBrands()
		}

	case "brand":
		brand, ok := findOption(m.vehicle.Brands, f.Value())
		if !ok {
			return nil
		}
		t := m.vehicle.SelectBrand(brand)
		m.syncVehicleFields()
		m.hints["year"] = "Carregando anos..."
		return func() tea.Msg {
			res, err := gw.ModelsByBrand(ctx, string(brand.Value))
			return ModelsLoadedMsg{Ticket: t, Result: res, Err: err}
		}

	case "year":
		year, ok := findOption(m.vehicle.Years, f.Value())
		if !ok {
			return nil
		}
		t, err := m.vehicle.SelectYear(year)
		if err != nil {
			logger.Warn("year selection: %v", err)
			return nil
		}
		brand := string(m.vehicle.Brand.Value)
		m.syncVehicleFields()
		m.scheduleInstallments()
		return func() tea.Msg {
			models, err := gw.ModelsByYear(ctx, brand, string(year.Value))
			return OptionsLoadedMsg{Ticket: t, Options: models, Err: err}
		}

	case "model":
		model, ok := findOption(m.vehicle.Models, f.Value())
		if !ok {
			return nil
		}
		t, err := m.vehicle.SelectModel(model)
		if err != nil {
			logger.Warn("model selection: %v", err)
			return nil
		}
		brand := string(m.vehicle.Brand.Value)
		m.syncVehicleFields()
		return func() tea.Msg {
			years, err := gw.YearsByModel(ctx, brand, string(model.Value))
			return OptionsLoadedMsg{Ticket: t, Options: years, Err: err}
		}

	case "value":
		m.scheduleInstallments()
	}
	return nil
}

// scheduleInstallments drops the current installment options and runs the
// lookup once the user stops typing. Each call replaces the pending one.
func (m *Model) scheduleInstallments() {
	m.vehicle.Issue(onboard.LookupInstallments)
	m.vehicle.Installments = nil
	m.syncVehicleFields()

	if m.sender == nil {
		return
	}
	sender := m.sender
	m.debouncer.Schedule(func() {
		sender.Send(InstallmentsDueMsg{})
	})
}

// lookupInstallments issues the installment lookup for the selected year and
// typed amount.
func (m *Model) lookupInstallments() tea.Cmd {
	if m.form == nil || m.form.Field("installment") == nil {
		return nil
	}
	year, err := m.vehicle.ModelYear()
	if err != nil {
		return nil
	}
	units, err := mask.ParseCurrency(m.form.Field("value").Value())
	if err != nil || units <= 0 {
		return nil
	}

	t := m.vehicle.Issue(onboard.LookupInstallments)
	ctx, gw := m.ctx, m.gw
	m.hints["installment"] = "Calculando parcelas..."
	return func() tea.Msg {
		opts, err := gw.Installments(ctx, year, units)
		return InstallmentsLoadedMsg{Ticket: t, Options: opts, Err: err}
	}
}

// applyLookup records the outcome of a vehicle lookup and reports whether
// the result should be applied.
func (m *Model) applyLookup(t onboard.Ticket, err error, field, failure string) bool {
	kind := t.Lookup.String()
	metrics.RecordLookup(kind, err)
	if !m.vehicle.Current(t) {
		metrics.RecordStaleLookup(kind)
		logger.Debug("Discarding stale %s response (seq=%d)", kind, t.Seq)
		return false
	}
	if err != nil {
		logger.Warn("%s lookup failed: %v", kind, err)
		m.hints[field] = failure
		return false
	}
	delete(m.hints, field)
	return true
}

func (m *Model) handleLookup(msg tea.Msg) {
	if m.form == nil || m.form.Field("brand") == nil {
		return
	}
	switch msg := msg.(type) {
	case BrandsLoadedMsg:
		if m.applyLookup(msg.Ticket, msg.Err, "brand", "Não foi possível carregar as marcas") {
			m.vehicle.ApplyBrands(msg.Ticket, msg.Brands)
		}
	case ModelsLoadedMsg:
		if m.applyLookup(msg.Ticket, msg.Err, "year", "Não foi possível carregar os modelos") {
			m.vehicle.ApplyModels(msg.Ticket, msg.Result)
		}
	case OptionsLoadedMsg:
		field := "model"
		if m.applyLookup(msg.Ticket, msg.Err, field, "Não foi possível carregar os modelos") {
			if msg.Ticket.Lookup == onboard.LookupYearsByModel {
				m.vehicle.ApplyYearsByModel(msg.Ticket, msg.Options)
			} else {
				m.vehicle.ApplyModelsByYear(msg.Ticket, msg.Options)
			}
		}
	case InstallmentsLoadedMsg:
		if m.applyLookup(msg.Ticket, msg.Err, "installment", "Não foi possível calcular as parcelas") {
			m.vehicle.ApplyInstallments(msg.Ticket, msg.Options)
		}
	}
	m.syncVehicleFields()
	m.ctl.SetValues(m.values())
}

// lookupAddress resolves a completed zip code of the address group prefix.
func (m *Model) lookupAddress(prefix string) tea.Cmd {
	zip := mask.Digits(m.form.Field(prefix + "zipCode").Value())
	if len(zip) != 8 || zip == m.addrZip[prefix] {
		return nil
	}
	m.addrZip[prefix] = zip
	m.addrSeq[prefix]++
	seq := m.addrSeq[prefix]
	m.hints[prefix+"zipCode"] = "Buscando endereço..."

	lookup := m.gw.LookupAddress
	if prefix == companyAddress {
		lookup = m.gw.LookupCompanyAddress
	}
	ctx := m.ctx
	return func() tea.Msg {
		addr, err := lookup(ctx, zip)
		return AddressLoadedMsg{Prefix: prefix, Seq: seq, Address: addr, Err: err}
	}
}

// applyAddress fills the address fields from a lookup, if it is still the
// latest one for its group.
func (m *Model) applyAddress(msg AddressLoadedMsg) {
	metrics.RecordLookup("address", msg.Err)
	if msg.Seq != m.addrSeq[msg.Prefix] || m.form == nil || m.form.Field(msg.Prefix+"zipCode") == nil {
		metrics.RecordStaleLookup("address")
		return
	}
	zipField := msg.Prefix + "zipCode"
	switch {
	case errors.Is(msg.Err, api.ErrNotFound):
		m.hints[zipField] = "CEP não encontrado"
		return
	case msg.Err != nil:
		logger.Warn("address lookup failed: %v", msg.Err)
		m.hints[zipField] = "Não foi possível consultar o CEP"
		return
	}
	delete(m.hints, zipField)

	fill := map[string]string{
		"street":       msg.Address.Street,
		"neighborhood": msg.Address.Neighborhood,
		"city":         msg.Address.City,
		"state":        msg.Address.State,
	}
	for name, v := range fill {
		if f := m.form.Field(msg.Prefix + name); f != nil && v != "" {
			f.SetValue(v)
		}
	}
	m.ctl.SetValues(m.values())
}
