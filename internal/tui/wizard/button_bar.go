package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// Button represents a single button in the button bar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with consistent styling.
type ButtonBar struct {
	buttons []Button
	width   int
}

// NewButtonBar creates a new button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		width:   60,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

var (
	buttonNormalStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#cdd6f4")).
				Background(lipgloss.Color("#313244")).
				Padding(0, 2).
				MarginLeft(1).
				MarginRight(1)

	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6c7086")).
				Background(lipgloss.Color("#181825")).
				Padding(0, 2).
				MarginLeft(1).
				MarginRight(1)

	buttonFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1e1e2e")).
				Background(lipgloss.Color("#b4befe")).
				Bold(true).
				Padding(0, 2).
				MarginLeft(1).
				MarginRight(1)
)

// Render renders the button bar centered in its width.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(b.buttons))
	for _, btn := range b.buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, buttonDisabledStyle.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, buttonFocusedStyle.Render(btn.Label))
		default:
			rendered = append(rendered, buttonNormalStyle.Render(btn.Label))
		}
	}

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}

// stepButtons creates the Sair/Continuar set of a step. The next button is
// disabled while a submission is in flight and reads "Concluir" on the last
// step.
func stepButtons(last, submitting bool) []Button {
	next := Button{Label: "Continuar →", State: ButtonFocused}
	if last {
		next.Label = "Concluir"
	}
	if submitting {
		next = Button{Label: "Enviando...", State: ButtonDisabled}
	}
	return []Button{{Label: "Sair", State: ButtonNormal}, next}
}
