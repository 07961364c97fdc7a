package pretty_print

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sierrasoftworks/humane-errors-go"
)

// renderHumaneError builds a formatted string for CLI display, not logging.
func renderHumaneError(options *PrintOptions, err error) string { //nolint:golint-sl
	paint := func(s lipgloss.Style, text string) string {
		if options.NoColor {
			return text
		}
		return s.Render(text)
	}

	var he humane.Error
	if !errors.As(err, &he) {
		return paint(errStyle(options.Theme), "✗ "+err.Error()) + "\n" //nolint:wideevents
	}

	var causes []string
	advice := make([]string, 0)
	for cur := error(he); cur != nil; cur = errors.Unwrap(cur) {
		causes = append(causes, cur.Error()) //nolint:wideevents

		if adv, ok := cur.(interface{ Advice() []string }); ok {
			advice = append(adv.Advice(), advice...)
		}
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(errColor(options.Theme))
	section := secondaryStyle(options.Theme).Bold(true)
	cause := secondaryStyle(options.Theme).Italic(true)
	bullet := paint(infoStyle(options.Theme), "•")

	var b strings.Builder
	b.WriteString(paint(header, "✗ "+he.Error())) //nolint:wideevents
	b.WriteString("\n")

	if len(advice) > 0 {
		b.WriteString("\n" + paint(section, "What you can do:") + "\n")
		for _, tip := range advice {
			b.WriteString("  " + bullet + " " + tip + "\n")
		}
	}

	if len(causes) > 1 {
		b.WriteString("\n" + paint(section, "Root causes:") + "\n")
		for _, c := range causes[1:] {
			b.WriteString("  " + bullet + " " + paint(cause, c) + "\n")
		}
	}

	return b.String()
}
