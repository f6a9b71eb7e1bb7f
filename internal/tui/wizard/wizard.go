// Package wizard is the terminal front-end of the onboarding wizard. It only
// drives the controller: every rule lives in the onboard and wizard packages.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/debounce"
	"github.com/finatech/onboard/internal/form"
	"github.com/finatech/onboard/internal/logger"
	"github.com/finatech/onboard/internal/onboard"
	engine "github.com/finatech/onboard/internal/wizard"
)

// ErrCancelled is returned when the user leaves before finishing.
var ErrCancelled = errors.New("onboarding cancelled by user")

// Result is the outcome of a wizard run.
type Result struct {
	Completed  bool
	Identifier string
}

// Config wires the model to its collaborators.
type Config struct {
	Controller *engine.Controller
	Gateway    api.Gateway
	Debounce   time.Duration
	Session    string
}

// Model is the bubbletea model of the onboarding wizard.
type Model struct {
	ctx       context.Context
	ctl       *engine.Controller
	gw        api.Gateway
	sender    Sender
	debouncer *debounce.Debouncer
	session   string

	form      *stepForm
	formIndex int
	vehicle   *onboard.VehicleSelection
	hints     map[string]string
	addrSeq   map[string]uint64
	addrZip   map[string]string

	spinner    spinner.Model
	submitting bool
	cancelled  bool
	summary    string
	width      int
	height     int
}

// New creates the model. Call SetSender before running it so debounced
// lookups can reach the program.
func New(ctx context.Context, cfg Config) *Model {
	delay := cfg.Debounce
	if delay <= 0 {
		delay = debounce.DefaultDelay
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return &Model{
		ctx:       ctx,
		ctl:       cfg.Controller,
		gw:        cfg.Gateway,
		debouncer: debounce.New(delay),
		session:   cfg.Session,
		formIndex: -1,
		vehicle:   onboard.NewVehicleSelection(),
		hints:     map[string]string{},
		addrSeq:   map[string]uint64{},
		addrZip:   map[string]string{},
		spinner:   s,
		width:     80,
		height:    40,
	}
}

// SetSender sets the destination of debounced messages.
func (m *Model) SetSender(s Sender) {
	m.sender = s
}

// Run is the entry point of the wizard. It runs a standalone program and
// returns once the user completes or leaves.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	m := New(ctx, cfg)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	m.SetSender(p)

	finalModel, err := p.Run()
	m.debouncer.Cancel()
	if err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	wm, ok := finalModel.(*Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	res := &Result{Completed: wm.ctl.Completed(), Identifier: wm.ctl.Identifier()}
	if wm.cancelled && !res.Completed {
		return res, ErrCancelled
	}
	if st := wm.ctl.State(); st.Fatal != nil {
		return res, st.Fatal
	}
	return res, nil
}

// Init builds the form of the active step.
func (m *Model) Init() tea.Cmd {
	return m.enterStep()
}

// enterStep rebuilds the form when the controller moved to another step.
func (m *Model) enterStep() tea.Cmd {
	st := m.ctl.State()
	if st.Completed() {
		m.form = nil
		m.debouncer.Cancel()
		m.summary = renderMarkdown(completionMarkdown(st.Identifier, m.stepTitles()), m.contentWidth())
		return nil
	}
	if st.Index == m.formIndex && m.form != nil {
		return nil
	}

	m.formIndex = st.Index
	m.form = newStepForm(st.Step, st.Values)
	m.form.SetWidth(m.contentWidth())
	m.hints = map[string]string{}

	cmds := []tea.Cmd{m.form.refocus()}
	if st.Step.ID == onboard.StepFinancing {
		m.syncVehicleFields()
		cmds = append(cmds, m.loadBrands())
	}
	return tea.Batch(cmds...)
}

func (m *Model) stepTitles() []string {
	var titles []string
	for _, s := range onboard.Steps() {
		titles = append(titles, s.Title)
	}
	return titles
}

// values is the snapshot of the active form. On the financing step the
// cascade contributes brand and model labels and the year code.
func (m *Model) values() form.Values {
	if m.form == nil {
		return form.Values{}
	}
	v := m.form.Values()
	if m.form.step.ID == onboard.StepFinancing && v["defaultVehicle"] == "false" {
		for k, val := range m.vehicle.Values() {
			v[k] = val
		}
	}
	return v
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.form != nil {
			m.form.SetWidth(m.contentWidth())
		}
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case SubmitDoneMsg:
		return m, m.handleSubmitDone(msg)

	case InstallmentsDueMsg:
		return m, m.lookupInstallments()

	case BrandsLoadedMsg, ModelsLoadedMsg, OptionsLoadedMsg, InstallmentsLoadedMsg:
		m.handleLookup(msg)
		return m, nil

	case AddressLoadedMsg:
		m.applyAddress(msg)
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		m.cancelled = true
		m.debouncer.Cancel()
		return tea.Quit
	}

	st := m.ctl.State()
	if st.Completed() || st.Fatal != nil {
		switch key {
		case "enter", "esc", "q":
			return tea.Quit
		}
		return nil
	}

	switch key {
	case "esc":
		m.cancelled = true
		m.debouncer.Cancel()
		return tea.Quit
	case "tab", "down":
		return m.form.Move(1)
	case "shift+tab", "up":
		return m.form.Move(-1)
	case "enter":
		return m.submit()
	}

	if m.submitting {
		return nil
	}
	f := m.form.Focused()
	if f == nil {
		return nil
	}
	changed, cmd := f.Update(msg)
	if !changed {
		return cmd
	}
	return tea.Batch(cmd, m.onChange(f))
}

// onChange syncs the controller and starts the lookups an edit triggers.
func (m *Model) onChange(f *field) tea.Cmd {
	name := f.Name()
	m.ctl.SetValues(m.values())

	if f.pattern() != "" {
		if msg := m.ctl.CheckField(name); msg != "" {
			m.hints[name] = msg
		} else {
			delete(m.hints, name)
		}
	}

	switch m.form.step.ID {
	case onboard.StepAddress:
		if name == "zipCode" {
			return m.lookupAddress(homeAddress)
		}
	case onboard.StepFinancing:
		cmd := m.onVehicleChange(name)
		m.ctl.SetValues(m.values())
		return cmd
	case onboard.StepProfessional:
		if name == companyAddress+"zipCode" {
			return m.lookupAddress(companyAddress)
		}
	}
	return nil
}

// submit hands the step to the controller. The controller itself rejects a
// second submission while one is in flight.
func (m *Model) submit() tea.Cmd {
	if m.submitting || m.form == nil {
		return nil
	}
	m.ctl.SetValues(m.values())
	m.submitting = true

	ctx, ctl := m.ctx, m.ctl
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := ctl.Advance(ctx)
		return SubmitDoneMsg{Result: res, Err: err}
	})
}

func (m *Model) handleSubmitDone(msg SubmitDoneMsg) tea.Cmd {
	m.submitting = false
	switch msg.Result {
	case engine.Advanced:
		return m.enterStep()
	case engine.Invalid:
		st := m.ctl.State()
		for _, f := range m.form.visibleFields() {
			if _, bad := st.Errors[f.Name()]; bad {
				return m.form.FocusField(f.Name())
			}
		}
	case engine.Failed:
		logger.Warn("Step %d submission failed: %v", m.formIndex+1, msg.Err)
	case engine.Fatal:
		logger.Error("Onboarding halted: %v", msg.Err)
		m.debouncer.Cancel()
	}
	return nil
}

func (m *Model) contentWidth() int {
	w := m.modalWidth() - 6
	if w < 40 {
		w = 40
	}
	return w
}

func (m *Model) modalWidth() int {
	w := m.width - 10
	if w < 60 {
		w = 60
	}
	if w > 100 {
		w = 100
	}
	return w
}

// View renders the wizard UI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	content := m.renderModal(m.renderBody())

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// renderBody renders the step, completion or fatal content.
func (m *Model) renderBody() string {
	st := m.ctl.State()

	if st.Completed() {
		return m.summary + "\n\n" + renderHintBar("enter", "sair")
	}

	var sections []string
	sections = append(sections, m.renderProgress(st.Index))

	if st.Fatal != nil {
		sections = append(sections,
			"",
			styleBanner.Render("Sessão inválida, reinicie o cadastro"),
			styleFieldError.Render(st.Fatal.Error()),
			"",
			renderHintBar("enter", "sair"),
		)
		return strings.Join(sections, "\n")
	}

	if st.Banner != "" {
		sections = append(sections, "", styleBanner.Render(st.Banner))
	}
	sections = append(sections, "", m.form.View(st.Errors, m.hints), "")

	bar := NewButtonBar(stepButtons(st.Index == st.StepCount-1, m.submitting))
	bar.SetWidth(m.contentWidth())
	sections = append(sections, bar.Render())
	if m.submitting {
		sections = append(sections, m.spinner.View()+" Enviando...")
	}

	sections = append(sections, "", renderHintBar(
		"tab/↑↓", "navegar",
		"←→", "escolher",
		"enter", "continuar",
		"esc", "sair",
	))
	return strings.Join(sections, "\n")
}

// renderProgress renders the step trail: done, current and pending steps.
func (m *Model) renderProgress(current int) string {
	parts := make([]string, 0, len(m.stepTitles()))
	for i, title := range m.stepTitles() {
		switch {
		case i < current:
			parts = append(parts, styleProgressDone.Render("✓ "+title))
		case i == current:
			parts = append(parts, styleProgressCurrent.Render("● "+title))
		default:
			parts = append(parts, styleProgressTodo.Render("○ "+title))
		}
	}
	return strings.Join(parts, styleHintSeparator.Render(" ─ "))
}

// renderModal wraps the content in a modal container with a title.
func (m *Model) renderModal(body string) string {
	st := m.ctl.State()
	title := "Finatech - Cadastro concluído"
	if !st.Completed() {
		title = fmt.Sprintf("Finatech - Etapa %d de %d: %s", st.Index+1, st.StepCount, st.Step.Title)
	}

	content := styleModalTitle.Render(title) + "\n\n" + body
	modal := styleModalContainer.Width(m.modalWidth()).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
