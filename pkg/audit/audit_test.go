package audit_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spechtlabs/floodnode/pkg/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.UnixMilli(1700000000123)
}

func TestFileLogger(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audit.txt")
	l := audit.NewFileLogger(path, audit.WithClock(fixedClock))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file must be opened lazily")

	l.Record(audit.Request, []byte(`{"src":"c1","dest":"n1","body":{"type":"read","msg_id":1}}`))
	l.Record(audit.Response, []byte(`{"src":"n1","dest":"c1","body":{"type":"read_ok","in_reply_to":1,"messages":[]}}`))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"1700000000123 - Request: {\"src\":\"c1\",\"dest\":\"n1\",\"body\":{\"type\":\"read\",\"msg_id\":1}}\n"+
			"1700000000123 - Response: {\"src\":\"n1\",\"dest\":\"c1\",\"body\":{\"type\":\"read_ok\",\"in_reply_to\":1,\"messages\":[]}}\n",
		string(data))
	assert.Zero(t, l.Failures())
}

func TestFileLoggerAppends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audit.txt")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

	l := audit.NewFileLogger(path, audit.WithClock(fixedClock))
	l.Record(audit.Request, []byte("x"))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing\n1700000000123 - Request: x\n", string(data))
}

func TestFileLoggerFailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "dir", "audit.txt")
	l := audit.NewFileLogger(path)

	assert.NotPanics(t, func() {
		l.Record(audit.Request, []byte("a"))
		l.Record(audit.Response, []byte("b"))
	})
	assert.Equal(t, uint64(2), l.Failures())
	assert.NoError(t, l.Close())
}

func TestDirectionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Request", audit.Request.String())
	assert.Equal(t, "Response", audit.Response.String())
	assert.Equal(t, "Direction(7)", audit.Direction(7).String())
}

func TestNop(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		audit.Nop().Record(audit.Request, []byte("ignored"))
	})
}
