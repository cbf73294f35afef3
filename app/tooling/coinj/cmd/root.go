// Package cmd contains the coinj commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewRoot constructs the root command with every sub command attached.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "coinj",
		Short:         "Run the COINjecture consensus core from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newHashCmd(),
		newMerkleCmd(),
		newHeaderCmd(),
		newVerifyCmd(),
		newTiersCmd(),
		newVectorsCmd(),
		newKeygenCmd(),
		newAddressCmd(),
		newRPCCmd(),
		newVersionCmd(),
	)

	return root
}

// Execute runs the root command and exits on failure.
func Execute() {
	root := NewRoot()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

// =============================================================================

// readInput returns the content named by arg, where "-" is stdin.
func readInput(cmd *cobra.Command, arg string) ([]byte, error) {
	if arg == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}

	return os.ReadFile(arg)
}

// printJSON writes v to the command output in a human readable form.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
