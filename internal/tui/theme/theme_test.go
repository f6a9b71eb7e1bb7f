package theme

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestCurrentIsCatppuccinMocha(t *testing.T) {
	th := Current()
	assert.Equal(t, "catppuccin-mocha", th.Name)
	assert.Same(t, th, Current())

	tests := []struct {
		name, got, want string
	}{
		{"Primary (Mauve)", th.Primary, "#cba6f7"},
		{"Secondary (Blue)", th.Secondary, "#89b4fa"},
		{"Tertiary (Lavender)", th.Tertiary, "#b4befe"},
		{"BgBase", th.BgBase, "#1e1e2e"},
		{"FgBase (Text)", th.FgBase, "#cdd6f4"},
		{"Error (Red)", th.Error, "#f38ba8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestInterpolateColor(t *testing.T) {
	assert.Equal(t, "#000000", InterpolateColor("#000000", "#ffffff", 0))
	assert.Equal(t, "#ffffff", InterpolateColor("#000000", "#ffffff", 1))
	assert.Equal(t, "#7f7f7f", InterpolateColor("#000000", "#ffffff", 0.5))
}

func TestParseHexColor(t *testing.T) {
	r, g, b := ParseHexColor("#cba6f7")
	assert.Equal(t, [3]uint8{0xcb, 0xa6, 0xf7}, [3]uint8{r, g, b})

	r, g, b = ParseHexColor("nope")
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, b})
}

func TestApplyGradientKeepsText(t *testing.T) {
	out := ApplyGradient("Fina tech", "#cba6f7", "#89b4fa")
	assert.Equal(t, "Fina tech", ansi.Strip(out))
	assert.Empty(t, ApplyGradient("", "#000000", "#ffffff"))
}
