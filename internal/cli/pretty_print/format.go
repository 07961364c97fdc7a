package pretty_print

import (
	"strings"
)

type PrintLevel int

const (
	NoOp PrintLevel = iota
	DebugLvl
	InfoLvl
	OkLvl
	WarnLvl
	ErrLvl
)

func resolve(opts []Option) *PrintOptions {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// FormatWithOptions formats a message with custom options and returns it as a string
func FormatWithOptions(lvl PrintLevel, msg string, context []string, opts ...Option) string {
	return format(resolve(opts), lvl, msg, context)
}

func format(options *PrintOptions, lvl PrintLevel, msg string, context []string) string {
	if lvl == ErrLvl && options.Error != nil {
		return renderHumaneError(options, options.Error)
	}

	icon, ok := options.LevelIcons[lvl]
	if !ok {
		icon = options.LevelIcons[InfoLvl]
	}

	style, ok := options.IconStyles[lvl]
	if !ok {
		style = options.IconStyles[InfoLvl]
	}

	render := func(s themeStyleFunc, text string) string {
		if options.NoColor {
			return text
		}
		return s(options.Theme).Render(text)
	}

	var b strings.Builder
	b.WriteString(render(style, icon))
	b.WriteString(" ")
	b.WriteString(render(options.MessageStyle, msg))

	indent := strings.Repeat(" ", options.IndentSize)
	for _, c := range context {
		b.WriteString("\n")
		b.WriteString(indent)
		b.WriteString(render(options.ContextStyle, c))
	}

	if !options.NoNewline {
		b.WriteString("\n")
	}
	return b.String()
}

// FormatError formats an error using humane-errors formatting.
func FormatError(err error, context ...string) string {
	return FormatWithOptions(ErrLvl, "", context, WithError(err))
}
