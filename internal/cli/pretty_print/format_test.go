package pretty_print

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	humane "github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/floodnode/pkg/cluster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnvForNoTTY(t *testing.T) {
	t.Helper()
	t.Setenv("TERM", "dumb")
	t.Setenv("NO_COLOR", "1")
}

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func TestFormatWithOptions(t *testing.T) {
	setEnvForNoTTY(t)

	tests := []struct {
		name    string
		lvl     PrintLevel
		msg     string
		context []string
		opts    []Option
		want    string
	}{
		{
			name:    "info with context",
			lvl:     InfoLvl,
			msg:     "Hello",
			context: []string{"ctx1", "ctx2"},
			opts:    []Option{WithNoColor(true)},
			want:    "ℹ Hello\n    ctx1\n    ctx2\n",
		},
		{
			name: "ok without newline",
			lvl:  OkLvl,
			msg:  "done",
			opts: []Option{WithoutNewline()},
			want: "✓ done",
		},
		{
			name:    "custom indent",
			lvl:     WarnLvl,
			msg:     "careful",
			context: []string{"detail"},
			opts:    []Option{WithIndentSize(2)},
			want:    "! careful\n  detail\n",
		},
		{
			name: "custom icon",
			lvl:  InfoLvl,
			msg:  "node",
			opts: []Option{WithIcon(InfoLvl, "•")},
			want: "• node\n",
		},
		{
			name: "unknown level falls back to info",
			lvl:  PrintLevel(42),
			msg:  "odd",
			want: "ℹ odd\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatWithOptions(tc.lvl, tc.msg, tc.context, tc.opts...)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatError(t *testing.T) {
	setEnvForNoTTY(t)

	t.Run("humane error with advice and cause", func(t *testing.T) {
		err := humane.Wrap(humane.New("disk full"), "failed to write audit log", "free some space")
		got := stripANSI(FormatError(err))

		assert.True(t, strings.HasPrefix(got, "✗ failed to write audit log"), got)
		assert.Contains(t, got, "What you can do:")
		assert.Contains(t, got, "free some space")
		assert.Contains(t, got, "Root causes:")
		assert.Contains(t, got, "disk full")
	})

	t.Run("plain error", func(t *testing.T) {
		got := stripANSI(FormatError(assert.AnError))
		assert.Equal(t, "✗ "+assert.AnError.Error()+"\n", got)
	})
}

func TestPrettyPrintWithWriter(t *testing.T) {
	setEnvForNoTTY(t)

	var buf bytes.Buffer
	n, err := PrettyPrintWithOptions(ErrLvl, "boom", nil, WithWriter(&buf))
	require.Nil(t, err)
	assert.Equal(t, "✗ boom\n", buf.String())
	assert.Equal(t, buf.Len(), n)
}

func TestAllThemeNames(t *testing.T) {
	names := AllThemeNames()
	assert.Len(t, names, len(AllThemes()))
	assert.Contains(t, names, "tokyo-night")
	assert.Contains(t, names, "notty")

	for _, theme := range AllThemes() {
		_, ok := styleMap[theme]
		assert.True(t, ok, "theme %s has no style config", theme)
	}
}

func TestStylesDoNotPanicWithoutChroma(t *testing.T) {
	for _, theme := range AllThemes() {
		assert.NotPanics(t, func() {
			_ = okStyle(theme).Render("x")
			_ = errColor(theme)
			_ = boldStyle(theme).Render("x")
		}, string(theme))
	}
}

func TestRenderSimulationReport(t *testing.T) {
	setEnvForNoTTY(t)

	report := SimulationReport{
		Topology: "ring",
		Values:   3,
		Stats:    cluster.Stats{Rounds: 4, Delivered: 20, Dropped: 1, NodeMessages: 12},
		Nodes: []cluster.NodeDisplayData{
			{ID: "n0", Neighbors: 2, Accepted: 3, Complete: true},
			{ID: "n1", Neighbors: 2, Accepted: 2, Missing: 1},
		},
	}

	out, err := RenderSimulationReport(report, WithNoColor(true))
	require.Nil(t, err)

	plain := stripANSI(out)
	assert.Contains(t, plain, "ring")
	assert.Contains(t, plain, "diverged")
	assert.Contains(t, plain, "n0")
	assert.Contains(t, plain, "n1")
	assert.Contains(t, plain, "Complete")

	report.Converged = true
	var buf bytes.Buffer
	require.Nil(t, PrintSimulationReport(report, WithWriter(&buf)))
	assert.Contains(t, stripANSI(buf.String()), "converged")
}
