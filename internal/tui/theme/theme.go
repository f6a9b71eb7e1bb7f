// Package theme holds the color palette shared by the wizard and the CLI.
package theme

import (
	"image/color"
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgBase     string
	BgSurface2 string
	BgOverlay  string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string

	// Status colors
	Success string
	Warning string
	Error   string
}

var (
	current     *Theme
	currentOnce sync.Once
)

// Current returns the active theme.
func Current() *Theme {
	currentOnce.Do(func() {
		current = NewCatppuccinMocha()
	})
	return current
}

// Color converts a palette entry for lipgloss.
func Color(hex string) color.Color {
	return lipgloss.Color(hex)
}
