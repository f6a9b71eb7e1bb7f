package testfixtures

import (
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	uv "github.com/charmbracelet/ultraviolet"
)

// Initialize test environment
func init() {
	// Ascii profile keeps rendered output free of color sequences
	lipgloss.Writer.Profile = colorprofile.Ascii
}

// Canonical terminal size for all tests
const (
	TestTermWidth  = 100
	TestTermHeight = 60
)

// RenderPlain draws styled content on a width x height screen and returns
// the visible text, one line per screen row.
func RenderPlain(content string, width, height int) string {
	canvas := uv.NewScreenBuffer(width, height)
	uv.NewStyledString(content).Draw(canvas, uv.Rect(0, 0, width, height))
	return canvas.String()
}
