package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version represents the Version of the floodnode binary, should be set via ldflags -X
	Version string

	// Date represents the Date of when the floodnode binary was build, should be set via ldflags -X
	Date string

	// Commit represents the Commit-hash from which the floodnode binary was build, should be set via ldflags -X
	Commit string
)

//nolint:golint-sl // CLI user output
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Shows version information",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Version: %s\n", Version)
			_, _ = fmt.Fprintf(out, "Date:    %s\n", Date)
			_, _ = fmt.Fprintf(out, "Commit:  %s\n", Commit)
		},
	}
}
