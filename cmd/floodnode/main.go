package main

import (
	"os"

	"github.com/spechtlabs/floodnode/internal/cli/cmd"
	"github.com/spechtlabs/floodnode/internal/cli/pretty_print"
)

func main() {
	cmdRoot := cmd.NewNodeRootCmd(runNode)

	cmdRoot.AddCommand(simulateCmd)

	err := cmdRoot.Execute()
	cmd.FlushObservability()
	if err != nil {
		pretty_print.PrintError(err)
		os.Exit(1)
	}
}
