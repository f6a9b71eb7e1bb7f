package theme

// NewCatppuccinMocha creates the default Catppuccin Mocha theme.
func NewCatppuccinMocha() *Theme {
	return &Theme{
		Name:   "catppuccin-mocha",
		IsDark: true,

		Primary:   "#cba6f7", // Mauve
		Secondary: "#89b4fa", // Blue
		Tertiary:  "#b4befe", // Lavender

		BgBase:     "#1e1e2e",
		BgSurface2: "#585b70",
		BgOverlay:  "#6c7086",

		FgMuted:  "#a6adc8", // Subtext0
		FgSubtle: "#bac2de", // Subtext1
		FgBase:   "#cdd6f4", // Text

		Success: "#a6e3a1", // Green
		Warning: "#fab387", // Peach
		Error:   "#f38ba8", // Red
	}
}
