package cmd

import (
	humane "github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/floodnode/internal/cli/pretty_print"
	"github.com/spechtlabs/floodnode/pkg/audit"
	"github.com/spechtlabs/floodnode/pkg/transport"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var configFileName string

// BindFlag binds the flag name of flags to the viper key.
func BindFlag(flags *pflag.FlagSet, key, name string) {
	if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(humane.Wrap(err, "fatal binding flag", "check that the flag name matches the viper key")) //nolint:nopanic // flag binding errors are programming errors
	}
}

func addCommonFlags(cmd *cobra.Command) {
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	cmd.PersistentFlags().StringVarP(&configFileName, "config", "c", "", "Name of the config file")
	_ = cmd.RegisterFlagCompletionFunc("config", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "yaml", "yml"}, cobra.ShellCompDirectiveDefault
	})

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	viper.SetDefault("debug", false)
	BindFlag(cmd.PersistentFlags(), "debug", "debug")

	cmd.PersistentFlags().StringP("theme", "t", string(pretty_print.TokyoNightStyle), "theme to use for human readable output")
	viper.SetDefault("output.theme", string(pretty_print.TokyoNightStyle))
	BindFlag(cmd.PersistentFlags(), "output.theme", "theme")
	_ = cmd.RegisterFlagCompletionFunc("theme", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return pretty_print.AllThemeNames(), cobra.ShellCompDirectiveDefault
	})
}

// addNodeFlags are local to the root command: they configure the node that
// runs on stdin/stdout and are meaningless to subcommands.
func addNodeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.Bool("audit", true, "append every inbound and outbound line to the audit log")
	viper.SetDefault("audit.enabled", true)
	BindFlag(flags, "audit.enabled", "audit")

	flags.String("audit-path", audit.DefaultPath, "path of the audit log")
	viper.SetDefault("audit.path", audit.DefaultPath)
	BindFlag(flags, "audit.path", "audit-path")

	flags.Int("max-line-bytes", transport.DefaultMaxLineBytes, "longest accepted input line; longer lines are skipped")
	viper.SetDefault("transport.maxLineBytes", transport.DefaultMaxLineBytes)
	BindFlag(flags, "transport.maxLineBytes", "max-line-bytes")

	flags.Bool("admin", false, "serve the read-only admin API")
	viper.SetDefault("admin.enabled", false)
	BindFlag(flags, "admin.enabled", "admin")

	flags.Int("admin-port", 9090, "port of the admin API")
	viper.SetDefault("admin.port", 9090)
	BindFlag(flags, "admin.port", "admin-port")
}
