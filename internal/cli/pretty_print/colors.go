package pretty_print

import (
	"os"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

type Theme string

const (
	AsciiStyle      Theme = "ascii"
	DarkStyle       Theme = "dark"
	DraculaStyle    Theme = "dracula"
	TokyoNightStyle Theme = "tokyo-night"
	LightStyle      Theme = "light"
	NoTTYStyle      Theme = "notty"
)

func AllThemes() []Theme {
	return []Theme{
		AsciiStyle,
		DarkStyle,
		DraculaStyle,
		TokyoNightStyle,
		LightStyle,
		NoTTYStyle,
	}
}

func AllThemeNames() []string {
	themes := AllThemes()
	names := make([]string, len(themes))
	for i, theme := range themes {
		names[i] = string(theme)
	}
	return names
}

var styleMap = map[Theme]ansi.StyleConfig{
	AsciiStyle:      styles.ASCIIStyleConfig,
	DarkStyle:       styles.DarkStyleConfig,
	DraculaStyle:    styles.DraculaStyleConfig,
	TokyoNightStyle: styles.TokyoNightStyleConfig,
	LightStyle:      styles.LightStyleConfig,
	NoTTYStyle:      styles.NoTTYStyleConfig,
}

// IsTerminal reports whether fd is attached to a terminal. TERM=dumb always
// counts as no terminal.
func IsTerminal(fd uintptr) bool {
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// role names a slot of the chroma palette of a glamour theme.
type role func(c *ansi.Chroma) ansi.StylePrimitive

var (
	textRole      role = func(c *ansi.Chroma) ansi.StylePrimitive { return c.Text }
	secondaryRole role = func(c *ansi.Chroma) ansi.StylePrimitive { return c.KeywordType }
	errRole       role = func(c *ansi.Chroma) ansi.StylePrimitive { return c.GenericDeleted }
	warnRole      role = func(c *ansi.Chroma) ansi.StylePrimitive { return c.LiteralString }
	infoRole      role = func(c *ansi.Chroma) ansi.StylePrimitive { return c.LiteralStringEscape }
	okRole        role = func(c *ansi.Chroma) ansi.StylePrimitive { return c.NameAttribute }
)

// color resolves r for theme. Themes without a chroma block (ascii, notty)
// yield the fallback.
func color(theme Theme, r role, fallback string) lipgloss.Color {
	cfg, ok := styleMap[theme]
	if !ok || cfg.CodeBlock.Chroma == nil {
		return lipgloss.Color(fallback)
	}
	if c := r(cfg.CodeBlock.Chroma).Color; c != nil {
		return lipgloss.Color(*c)
	}
	return lipgloss.Color(fallback)
}

func styleFor(theme Theme, r role, fallback string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(color(theme, r, fallback))
}

func boldStyle(theme Theme) lipgloss.Style      { return styleFor(theme, textRole, "15").Bold(true) }
func normalStyle(theme Theme) lipgloss.Style    { return styleFor(theme, textRole, "15") }
func secondaryStyle(theme Theme) lipgloss.Style { return styleFor(theme, secondaryRole, "8") }
func errStyle(theme Theme) lipgloss.Style       { return styleFor(theme, errRole, "9") }
func warnStyle(theme Theme) lipgloss.Style      { return styleFor(theme, warnRole, "11") }
func infoStyle(theme Theme) lipgloss.Style      { return styleFor(theme, infoRole, "12") }
func okStyle(theme Theme) lipgloss.Style        { return styleFor(theme, okRole, "10") }

func okColor(theme Theme) lipgloss.Color  { return color(theme, okRole, "10") }
func errColor(theme Theme) lipgloss.Color { return color(theme, errRole, "9") }
