package cmd

import (
	"slices"

	humane "github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/floodnode/internal/cli/pretty_print"
	"github.com/spechtlabs/floodnode/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var shutdownObservability func()

// FlushObservability flushes and tears down the loggers and providers set up
// by the root command. Safe to call more than once.
func FlushObservability() {
	if shutdownObservability != nil {
		shutdownObservability()
		shutdownObservability = nil
	}
}

func NewRootCmd() *cobra.Command {
	cobra.OnInitialize(initConfig)

	cmdRoot := cobra.Command{
		Use:   "floodnode",
		Short: "floodnode is a flood broadcast node speaking the Maelstrom protocol",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			theme := viper.GetString("output.theme")
			if !slices.Contains(pretty_print.AllThemeNames(), theme) {
				viper.Set("output.theme", string(pretty_print.TokyoNightStyle))
				return humane.New("invalid theme: "+theme, "use one of: ascii, dark, dracula, tokyo-night, light, notty")
			}

			shutdownObservability = utils.InitObservability()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			FlushObservability()
		},
		// main renders returned errors with pretty_print.PrintError
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmdRoot.AddCommand(newVersionCmd())

	addCommonFlags(&cmdRoot)
	return &cmdRoot
}

// NewNodeRootCmd is the floodnode binary's root: with no subcommand it runs a
// node on stdin/stdout using runE.
func NewNodeRootCmd(runE func(cmd *cobra.Command, args []string) error) *cobra.Command {
	cmdRoot := NewRootCmd()
	addNodeFlags(cmdRoot)

	cmdRoot.Use = "floodnode [--config|-c <string>] [--debug] [--audit] [--audit-path <string>] [--max-line-bytes <int>] [--admin] [--admin-port <int>]"
	cmdRoot.Long = `floodnode runs one node of a Maelstrom cluster. It reads one JSON envelope
per line on stdin and writes its replies, one per line, to stdout. Logs go to
stderr so stdout only ever carries protocol traffic.

The node answers echo, init, generate, broadcast, read and topology requests.
Broadcast values are flooded to the neighbors assigned by the last topology
message and deduplicated, so every value is relayed at most once per node.

Every raw line read or written is appended to the audit log (default
/tmp/log.txt) unless --audit=false.

Configuration is read from flags, the environment (FLOODNODE_ prefix) and an
optional config.yaml in $HOME/.config/floodnode/ or /etc/floodnode/.`
	cmdRoot.Example = `# run under maelstrom
maelstrom test -w broadcast --bin ./floodnode --node-count 5 --time-limit 20

# expose state and metrics on :9090
floodnode --admin --admin-port 9090

# no audit log, verbose logging
FLOODNODE_AUDIT_ENABLED=false floodnode --debug`
	cmdRoot.Args = cobra.ExactArgs(0)
	cmdRoot.RunE = runE

	return cmdRoot
}
