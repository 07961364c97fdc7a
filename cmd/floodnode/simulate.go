package main

import (
	"context"
	"errors"
	"strings"

	"github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/floodnode/internal/cli/cmd"
	"github.com/spechtlabs/floodnode/internal/cli/pretty_print"
	"github.com/spechtlabs/floodnode/pkg/cluster"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func init() {
	flags := simulateCmd.Flags()

	flags.IntP("nodes", "n", 5, "number of nodes in the simulated cluster")
	viper.SetDefault("simulate.nodes", 5)
	cmd.BindFlag(flags, "simulate.nodes", "nodes")

	flags.String("topology", "grid", "built-in topology: "+strings.Join(cluster.TopologyNames(), ", "))
	viper.SetDefault("simulate.topology", "grid")
	cmd.BindFlag(flags, "simulate.topology", "topology")
	_ = simulateCmd.RegisterFlagCompletionFunc("topology", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return cluster.TopologyNames(), cobra.ShellCompDirectiveNoFileComp
	})

	flags.String("topology-file", "", "YAML or JSON file mapping node ids to neighbors; overrides --nodes and --topology")
	viper.SetDefault("simulate.topologyFile", "")
	cmd.BindFlag(flags, "simulate.topologyFile", "topology-file")

	flags.IntP("values", "k", 10, "number of values broadcast by the client")
	viper.SetDefault("simulate.values", 10)
	cmd.BindFlag(flags, "simulate.values", "values")

	flags.Float64("drop-rate", 0, "probability in [0,1] that a node-to-node envelope is lost")
	viper.SetDefault("simulate.dropRate", 0.0)
	cmd.BindFlag(flags, "simulate.dropRate", "drop-rate")

	flags.Uint64("seed", 1, "seed for broadcast targets and drops")
	viper.SetDefault("simulate.seed", 1)
	cmd.BindFlag(flags, "simulate.seed", "seed")

	flags.Int("max-rounds", 10_000, "give up when the network is still busy after this many delivery rounds")
	viper.SetDefault("simulate.maxRounds", 10_000)
	cmd.BindFlag(flags, "simulate.maxRounds", "max-rounds")

	flags.Bool("tui", false, "watch the values spread round by round")
	viper.SetDefault("simulate.tui", false)
	cmd.BindFlag(flags, "simulate.tui", "tui")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [--nodes|-n <int>] [--topology <string>] [--topology-file <string>] [--values|-k <int>] [--drop-rate <float>] [--seed <int>] [--max-rounds <int>] [--tui]",
	Short: "Flood values through an in-process cluster and report convergence",
	Long: `Build a cluster of nodes in this process, wire them with a topology and
broadcast values at random nodes. Envelopes are delivered in rounds until the
network is quiet, then every node's accepted values are compared.

The cluster converged when every node holds every broadcast value. With a
drop rate above zero relays can be lost and the cluster may diverge, since
nodes never retransmit.`,
	Example: `# ten values over a 5 node grid
floodnode simulate

# a 25 node ring with 10% loss, watched live
floodnode simulate -n 25 --topology ring --drop-rate 0.1 --tui

# a hand written topology
floodnode simulate --topology-file topo.yaml -k 100`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runSimulate(cmd.Context()); err != nil {
			return err
		}
		return nil
	},
}

type simulation struct {
	network  *cluster.Network
	topology string
	values   int
}

func runSimulate(ctx context.Context) humane.Error {
	sim, err := newSimulation(ctx)
	if err != nil {
		return err
	}

	if viper.GetBool("simulate.tui") {
		return runTUI(ctx, sim)
	}

	if _, err := sim.network.Run(ctx); err != nil && !errors.Is(err, cluster.ErrNotQuiescent) {
		return err
	}

	report := sim.report()
	otelzap.L().DebugContext(ctx, "Simulation finished",
		zap.String("topology", report.Topology),
		zap.Int("rounds", report.Stats.Rounds),
		zap.Int("dropped", report.Stats.Dropped),
		zap.Bool("converged", report.Converged),
	)

	return pretty_print.PrintSimulationReport(report)
}

// newSimulation builds the cluster, initializes every node, installs the
// topology and queues the client broadcasts without delivering them.
func newSimulation(ctx context.Context) (*simulation, humane.Error) {
	ids, topo, name, err := loadTopology()
	if err != nil {
		return nil, err
	}

	values := viper.GetInt("simulate.values")
	if values < 0 {
		return nil, humane.New("--values must not be negative")
	}

	network, err := cluster.NewNetwork(ids,
		cluster.WithSeed(viper.GetUint64("simulate.seed")),
		cluster.WithDropRate(viper.GetFloat64("simulate.dropRate")),
		cluster.WithMaxSteps(viper.GetInt("simulate.maxRounds")),
	)
	if err != nil {
		return nil, err
	}

	if err := network.Init(ctx); err != nil {
		return nil, err
	}
	if err := network.SetTopology(ctx, topo); err != nil {
		return nil, err
	}

	network.ResetStats()

	if !topo.Connected() {
		otelzap.L().WarnContext(ctx, "Topology is not connected, the cluster cannot converge", zap.String("topology", name))
	}

	for v := range values {
		if _, err := network.BroadcastRandom(v); err != nil {
			return nil, err
		}
	}

	return &simulation{network: network, topology: name, values: values}, nil
}

func loadTopology() ([]string, cluster.Topology, string, humane.Error) {
	if path := viper.GetString("simulate.topologyFile"); path != "" {
		topo, err := cluster.LoadTopology(path)
		if err != nil {
			return nil, nil, "", err
		}
		return topo.Nodes(), topo, path, nil
	}

	count := viper.GetInt("simulate.nodes")
	if count < 1 {
		return nil, nil, "", humane.New("--nodes must be at least 1")
	}

	ids := cluster.NodeIDs(count)
	name := viper.GetString("simulate.topology")
	topo, err := cluster.NewTopology(name, ids)
	if err != nil {
		return nil, nil, "", humane.Wrap(err, "unknown topology", "use one of: "+strings.Join(cluster.TopologyNames(), ", "))
	}
	return ids, topo, name, nil
}

func (s *simulation) report() pretty_print.SimulationReport {
	return pretty_print.SimulationReport{
		Topology:  s.topology,
		Values:    s.values,
		Stats:     s.network.Stats(),
		Nodes:     s.network.DisplayData(),
		Converged: s.network.Converged(),
	}
}
