package protocol

import (
	"fmt"

	"github.com/sierrasoftworks/humane-errors-go"
)

// ErrMalformedEnvelope is the cause of every error returned by Parse.
var ErrMalformedEnvelope = humane.New("malformed envelope",
	`every input line must be a single JSON object {"src": ..., "dest": ..., "body": {"type": ...}}`,
	"the body type must be one of echo, init, generate, broadcast, read, topology or their _ok replies",
)

func parseError(format string, args ...any) humane.Error {
	return humane.Wrap(ErrMalformedEnvelope, fmt.Sprintf(format, args...))
}
