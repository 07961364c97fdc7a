package pretty_print

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	humane "github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/floodnode/pkg/cluster"
	"golang.org/x/term"
)

const defaultWidth = 80

// SimulationReport is the outcome of a simulated cluster run.
type SimulationReport struct {
	Topology  string
	Values    int
	Stats     cluster.Stats
	Nodes     []cluster.NodeDisplayData
	Converged bool
}

// RenderSimulationReport renders a summary box followed by one table row per
// node.
func RenderSimulationReport(r SimulationReport, opts ...Option) (string, humane.Error) {
	options := resolve(opts)

	md, err := options.markdownRenderer(width(options))
	if err != nil {
		return "", humane.Wrap(err, "failed to create markdown renderer", "pick one of the themes listed by --help")
	}

	table, err := md.Render(nodeTable(r.Nodes))
	if err != nil {
		return "", humane.Wrap(err, "failed to render node table")
	}

	return summaryBox(options, r) + "\n" + table, nil
}

// PrintSimulationReport writes the rendered report to the configured writer.
func PrintSimulationReport(r SimulationReport, opts ...Option) humane.Error {
	out, herr := RenderSimulationReport(r, opts...)
	if herr != nil {
		return herr
	}

	options := resolve(opts)
	if _, err := fmt.Fprint(options.Writer, out); err != nil {
		return humane.Wrap(err, "failed to write simulation report")
	}
	return nil
}

func summaryBox(options *PrintOptions, r SimulationReport) string {
	label := boldStyle(options.Theme)
	value := normalStyle(options.Theme)
	if options.NoColor {
		label = lipgloss.NewStyle()
		value = lipgloss.NewStyle()
	}

	outcome := "converged"
	border := okColor(options.Theme)
	if !r.Converged {
		outcome = "diverged"
		border = errColor(options.Theme)
	}

	rows := [][2]string{
		{"Topology:", r.Topology},
		{"Nodes:", strconv.Itoa(len(r.Nodes))},
		{"Values:", strconv.Itoa(r.Values)},
		{"Rounds:", strconv.Itoa(r.Stats.Rounds)},
		{"Delivered:", strconv.Itoa(r.Stats.Delivered)},
		{"Dropped:", strconv.Itoa(r.Stats.Dropped)},
		{"Relays:", strconv.Itoa(r.Stats.NodeMessages)},
		{"Outcome:", outcome},
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s %s", label.Width(11).Render(row[0]), value.Render(row[1])))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		MarginLeft(2)
	if !options.NoColor {
		box = box.BorderForeground(border)
	}

	return box.Render(strings.Join(lines, "\n"))
}

func nodeTable(nodes []cluster.NodeDisplayData) string {
	var b strings.Builder
	b.WriteString("| Node | Neighbors | Accepted | Missing | Complete |\n")
	b.WriteString("|------|----------:|---------:|--------:|:--------:|\n")
	for _, n := range nodes {
		complete := "✗"
		if n.Complete {
			complete = "✓"
		}
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %s |\n", n.ID, n.Neighbors, n.Accepted, n.Missing, complete)
	}
	return b.String()
}

func width(options *PrintOptions) int {
	f, ok := options.Writer.(*os.File)
	if !ok {
		return defaultWidth
	}

	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}
