package pretty_print

import (
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
)

// PrintOptions controls how messages are formatted
type PrintOptions struct {
	// Theme is the theme to use for the print options
	Theme Theme

	// Writer receives the output. Error messages default to stderr.
	Writer io.Writer

	// IndentSize controls the number of spaces used for indentation
	IndentSize int

	// NoColor disables colored output
	NoColor bool

	// LevelIcons maps print levels to their display icons
	LevelIcons map[PrintLevel]string

	// IconStyles maps print levels to their display styles
	IconStyles map[PrintLevel]themeStyleFunc

	ContextStyle themeStyleFunc
	MessageStyle themeStyleFunc

	// Error holds an error to be rendered with humane-errors formatting
	Error error

	// NoNewline disables the newline at the end of the message
	NoNewline bool
}

type themeStyleFunc func(theme Theme) lipgloss.Style

// DefaultOptions returns the default print options. The theme comes from
// output.theme and falls back to notty when stdout is not a terminal.
func DefaultOptions() *PrintOptions {
	options := &PrintOptions{
		Theme:      TokyoNightStyle,
		Writer:     os.Stdout,
		IndentSize: 4,
		LevelIcons: map[PrintLevel]string{
			OkLvl:    "✓",
			InfoLvl:  "ℹ",
			WarnLvl:  "!",
			ErrLvl:   "✗",
			DebugLvl: "D",
			NoOp:     "",
		},
		IconStyles: map[PrintLevel]themeStyleFunc{
			NoOp:     secondaryStyle,
			OkLvl:    okStyle,
			InfoLvl:  infoStyle,
			WarnLvl:  warnStyle,
			ErrLvl:   errStyle,
			DebugLvl: secondaryStyle,
		},
		ContextStyle: secondaryStyle,
		MessageStyle: normalStyle,
	}

	theme := viper.GetString("output.theme")
	if theme != "" && slices.Contains(AllThemeNames(), theme) {
		options.Theme = Theme(theme)
	}

	tty := IsTerminal(os.Stdout.Fd())
	if !tty {
		options.Theme = NoTTYStyle
	}

	if _, hasNoColor := os.LookupEnv("NO_COLOR"); hasNoColor || !tty {
		options.NoColor = true
	}

	return options
}

// markdownRenderer renders markdown for theme with word wrap at width.
func (o *PrintOptions) markdownRenderer(width int) (*glamour.TermRenderer, error) {
	theme := o.Theme
	if o.NoColor {
		theme = NoTTYStyle
	}
	return glamour.NewTermRenderer(
		glamour.WithStandardStyle(string(theme)),
		glamour.WithWordWrap(width),
	)
}

// Option is a function that modifies PrintOptions
type Option func(*PrintOptions)

// WithIndentSize sets the indent size
func WithIndentSize(size int) Option {
	return func(o *PrintOptions) {
		o.IndentSize = size
	}
}

// WithNoColor enables or disables colors
func WithNoColor(noColor bool) Option {
	return func(o *PrintOptions) {
		o.NoColor = noColor
	}
}

// WithIcon sets a custom icon for a print level
func WithIcon(level PrintLevel, icon string) Option {
	return func(o *PrintOptions) {
		o.LevelIcons[level] = icon
	}
}

// WithError sets an error to be rendered using humane-errors formatting
func WithError(err error) Option {
	return func(o *PrintOptions) {
		o.Error = err
	}
}

// WithoutNewline disables the newline at the end of the message
func WithoutNewline() Option {
	return func(o *PrintOptions) {
		o.NoNewline = true
	}
}

// WithWriter redirects the output, e.g. to stderr when stdout carries protocol
// traffic.
func WithWriter(w io.Writer) Option {
	return func(o *PrintOptions) {
		o.Writer = w
	}
}
