package cmd

import (
	"fmt"

	"github.com/coinjecture/core/foundation/blockchain/golden"
	"github.com/spf13/cobra"
)

func newVectorsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "vectors",
		Short: "Generate and check the frozen vector set",
	}

	var out string
	gen := &cobra.Command{
		Use:   "gen",
		Short: "Regenerate the vector set from the core",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := golden.Generate()
			if err != nil {
				return err
			}

			if out == "" {
				return printJSON(cmd, set)
			}

			if err := golden.Write(out, set); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote version %d vector set to %s\n", set.Version, out)
			return nil
		},
	}
	gen.Flags().StringVarP(&out, "out", "o", "", "File to write the vector set to.")

	var file string
	check := &cobra.Command{
		Use:   "check",
		Short: "Check the core reproduces every vector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := golden.Frozen()
			if file != "" {
				set, err = golden.Load(file)
			}
			if err != nil {
				return err
			}

			mm := golden.Check(set)
			for _, m := range mm {
				fmt.Fprintln(cmd.OutOrStdout(), "MISMATCH", m)
			}

			if len(mm) != 0 {
				return fmt.Errorf("%d vectors not reproduced", len(mm))
			}

			total := len(set.SHA256) + len(set.Merkle) + len(set.Headers) + len(set.SubsetSum)
			fmt.Fprintf(cmd.OutOrStdout(), "all %d vectors reproduced\n", total)
			return nil
		},
	}
	check.Flags().StringVarP(&file, "file", "f", "", "Vector set file, the frozen set when empty.")

	c.AddCommand(gen, check)

	return c
}
