package wizard

import (
	"fmt"
	"strings"

	"charm.land/glamour/v2"
)

const (
	thankYouTitle = "Obrigado por confiar na Finatech!"
	thankYouBody  = "Em breve um de nossos consultores entrará em contato com você."
)

// completionMarkdown is the summary shown once every step was submitted.
func completionMarkdown(identifier string, titles []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", thankYouTitle, thankYouBody)
	b.WriteString("## Etapas concluídas\n\n")
	for _, t := range titles {
		fmt.Fprintf(&b, "- ✓ %s\n", t)
	}
	if identifier != "" {
		fmt.Fprintf(&b, "\nProtocolo: `%s`\n", identifier)
	}
	return b.String()
}

// renderMarkdown renders markdown with glamour, falling back to the plain
// text when rendering fails.
func renderMarkdown(content string, width int) string {
	if width > 100 {
		width = 100
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}
