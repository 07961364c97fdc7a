package pretty_print

import (
	"fmt"
	"os"

	humane "github.com/sierrasoftworks/humane-errors-go"
)

// PrettyPrintWithOptions formats and prints a message with custom options.
// Error level output goes to stderr unless a writer is given.
func PrettyPrintWithOptions(lvl PrintLevel, msg string, context []string, opts ...Option) (int, humane.Error) {
	options := DefaultOptions()
	if lvl == ErrLvl {
		options.Writer = os.Stderr
	}
	for _, opt := range opts {
		opt(options)
	}

	n, err := fmt.Fprint(options.Writer, format(options, lvl, msg, context))
	if err != nil {
		return n, humane.Wrap(err, "failed to write formatted output", "check that stdout/stderr is writable")
	}
	return n, nil
}

// PrintWarn prints a warning to stdout.
func PrintWarn(msg string, context ...string) {
	_, _ = PrettyPrintWithOptions(WarnLvl, msg, context)
}

// PrintError prints err to stderr with its advice and causes.
func PrintError(err error, context ...string) {
	_, _ = PrettyPrintWithOptions(ErrLvl, "", context, WithError(err))
}
