package wizard

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/textinput"
	"charm.land/lipgloss/v2"

	"github.com/finatech/onboard/internal/tui/theme"
)

// Palette of the active theme
var (
	palette = theme.Current()

	colorPrimary       = theme.Color(palette.Primary)
	colorText          = theme.Color(palette.FgBase)
	colorBase          = theme.Color(palette.BgBase)
	colorSubtext0      = theme.Color(palette.FgMuted)
	colorSubtext1      = theme.Color(palette.FgSubtle)
	colorSurface2      = theme.Color(palette.BgSurface2)
	colorOverlay0      = theme.Color(palette.BgOverlay)
	colorBorderFocused = theme.Color(palette.Tertiary)
	colorRed           = theme.Color(palette.Error)
	colorGreen         = theme.Color(palette.Success)
	colorPeach         = theme.Color(palette.Warning)
)

// Modal styles
var (
	styleModalContainer = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorderFocused).
				Background(colorBase).
				Padding(1, 2)

	styleModalTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			Align(lipgloss.Center)
)

// Form styles
var (
	styleLabel        = lipgloss.NewStyle().Foreground(colorSubtext0)
	styleLabelFocused = lipgloss.NewStyle().Foreground(colorBorderFocused).Bold(true)
	styleRequiredMark = lipgloss.NewStyle().Foreground(colorPeach)
	styleFieldError   = lipgloss.NewStyle().Foreground(colorRed)
	styleFieldHint    = lipgloss.NewStyle().Foreground(colorOverlay0).Italic(true)
	stylePickerValue  = lipgloss.NewStyle().Foreground(colorText)
	stylePickerEmpty  = lipgloss.NewStyle().Foreground(colorOverlay0)
	stylePickerArrow  = lipgloss.NewStyle().Foreground(colorPrimary)

	styleBanner = lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorRed).
			Bold(true).
			Padding(0, 1)

	styleProgressDone    = lipgloss.NewStyle().Foreground(colorGreen)
	styleProgressCurrent = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	styleProgressTodo    = lipgloss.NewStyle().Foreground(colorSurface2)
)

// Hint bar styles
var (
	styleHintKey = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Bold(true)

	styleHintDesc = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	styleHintSeparator = lipgloss.NewStyle().
				Foreground(colorSurface2)
)

// inputStyles is shared by every text field.
var inputStyles = textinput.Styles{
	Focused: textinput.StyleState{
		Text:        lipgloss.NewStyle().Foreground(colorText),
		Placeholder: lipgloss.NewStyle().Foreground(colorSubtext0),
		Prompt:      lipgloss.NewStyle().Foreground(colorBorderFocused),
	},
	Blurred: textinput.StyleState{
		Text:        lipgloss.NewStyle().Foreground(colorSubtext0),
		Placeholder: lipgloss.NewStyle().Foreground(colorSubtext0),
		Prompt:      lipgloss.NewStyle().Foreground(colorOverlay0),
	},
	Cursor: textinput.CursorStyle{
		Color: colorPrimary,
		Shape: tea.CursorBar,
	},
}

// renderHintBar renders a hint bar with the given key-description pairs.
// Example: renderHintBar("tab", "próximo", "enter", "continuar")
// Returns: "tab próximo • enter continuar"
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(" " + styleHintSeparator.Render("•") + " ")
		}
		b.WriteString(styleHintKey.Render(pairs[i]) + " " + styleHintDesc.Render(pairs[i+1]))
	}
	return b.String()
}
