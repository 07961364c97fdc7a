package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/floodnode/internal/cli/pretty_print"
	"github.com/spechtlabs/floodnode/pkg/cluster"
	"github.com/spf13/viper"
)

const roundInterval = 250 * time.Millisecond

// simModel delivers one round of envelopes per tick and shows how far every
// value has spread.
type simModel struct {
	ctx       context.Context
	sim       *simulation
	maxRounds int

	rows    []cluster.NodeDisplayData
	changed map[string]bool

	spinner  spinner.Model
	progress progress.Model

	done  bool
	err   humane.Error
	width int
}

type tickMsg time.Time

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#626262")).
			Padding(0, 1)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	changedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86C")).
			Bold(true)

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

func newSimModel(ctx context.Context, sim *simulation, maxRounds int) simModel {
	return simModel{
		ctx:       ctx,
		sim:       sim,
		maxRounds: maxRounds,
		rows:      sim.network.DisplayData(),
		changed:   map[string]bool{},
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(changedStyle)),
		progress:  progress.New(progress.WithDefaultGradient()),
	}
}

func (m simModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func (m simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(max(msg.Width-4, 10), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		if m.done {
			return m, nil
		}
		m.step()
		if m.done {
			return m, nil
		}
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		if p, ok := pm.(progress.Model); ok {
			m.progress = p
		}
		return m, cmd
	}

	return m, nil
}

// step delivers one round and records which nodes accepted new values.
func (m *simModel) step() {
	network := m.sim.network
	if network.Quiescent() {
		m.done = true
		return
	}
	if network.Stats().Rounds >= m.maxRounds {
		m.done = true
		m.err = humane.Wrap(cluster.ErrNotQuiescent, fmt.Sprintf("still busy after %d rounds", m.maxRounds))
		return
	}

	network.Step(m.ctx)

	rows := network.DisplayData()
	clear(m.changed)
	for i, row := range rows {
		if i < len(m.rows) && row.Accepted != m.rows[i].Accepted {
			m.changed[row.ID] = true
		}
	}
	m.rows = rows
	m.done = network.Quiescent()
}

// spread is the share of (node, value) pairs already accepted.
func (m simModel) spread() float64 {
	if len(m.rows) == 0 || m.sim.values == 0 {
		return 1
	}
	accepted := 0
	for _, row := range m.rows {
		accepted += row.Accepted
	}
	return float64(accepted) / float64(len(m.rows)*m.sim.values)
}

func (m simModel) View() string {
	var sb strings.Builder

	status := m.spinner.View() + " delivering"
	if m.done {
		status = "done"
	}

	stats := m.sim.network.Stats()
	title := fmt.Sprintf("floodnode simulation - %s - round %d - %s", m.sim.topology, stats.Rounds, status)
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	sb.WriteString(m.progress.ViewAs(min(m.spread(), 1)))
	sb.WriteString("\n\n")

	header := fmt.Sprintf("%-10s %-10s %-10s %-10s", "Node", "Neighbors", "Accepted", "Missing")
	sb.WriteString(headerStyle.Render(header))
	sb.WriteString("\n")

	for _, row := range m.rows {
		style := normalStyle
		switch {
		case m.changed[row.ID]:
			style = changedStyle
		case row.Complete:
			style = completeStyle
		}

		line := fmt.Sprintf("%-10s %-10d %-10d %-10d", truncateString(row.ID, 10), row.Neighbors, row.Accepted, row.Missing)
		sb.WriteString(style.Render(line))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render(fmt.Sprintf("delivered %d  dropped %d  relays %d", stats.Delivered, stats.Dropped, stats.NodeMessages)))
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("Press 'q' or Ctrl+C to quit"))
	sb.WriteString("\n")

	return sb.String()
}

func tickCmd() tea.Cmd {
	return tea.Tick(roundInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// runTUI shows the simulation live and prints the report once the user quits.
func runTUI(ctx context.Context, sim *simulation) humane.Error {
	model := newSimModel(ctx, sim, viper.GetInt("simulate.maxRounds"))

	final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return humane.Wrap(err, "simulation view failed", "run without --tui in non-interactive terminals")
	}

	if fm, ok := final.(simModel); ok && fm.err != nil {
		pretty_print.PrintWarn(fm.err.Error())
	}

	return pretty_print.PrintSimulationReport(sim.report())
}
