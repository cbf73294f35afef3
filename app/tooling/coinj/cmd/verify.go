package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/coinjecture/core/foundation/blockchain/verifier"
	"github.com/spf13/cobra"
)

// verifyInput is the document the verify command consumes.
type verifyInput struct {
	Problem  verifier.Problem  `json:"problem"`
	Solution verifier.Solution `json:"solution"`
	Budget   *verifier.Budget  `json:"budget,omitempty"`
}

func readVerifyInput(cmd *cobra.Command, arg string) (verifyInput, verifier.Budget, error) {
	data, err := readInput(cmd, arg)
	if err != nil {
		return verifyInput{}, verifier.Budget{}, err
	}

	var in verifyInput
	if err := json.Unmarshal(data, &in); err != nil {
		return verifyInput{}, verifier.Budget{}, err
	}

	if in.Budget != nil {
		return in, *in.Budget, nil
	}

	b, err := verifier.BudgetForTier(in.Problem.Tier)
	if err != nil {
		return verifyInput{}, verifier.Budget{}, err
	}

	return in, b, nil
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>",
		Short: "Verify a subset-sum solution described by a JSON file, - for stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, budget, err := readVerifyInput(cmd, args[0])
			if err != nil {
				return err
			}

			res, err := verifier.Verify(in.Problem, in.Solution, budget)
			if err != nil {
				return err
			}

			return printJSON(cmd, res)
		},
	}
}

func newTiersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "Print the hardware tiers with their element ranges and budgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIER\tELEMENTS\tMAX OPS\tMAX DURATION MS\tMAX MEMORY BYTES")

			for _, t := range verifier.Tiers() {
				lo, hi := t.ElementRange()

				b, err := verifier.BudgetForTier(t)
				if err != nil {
					return err
				}

				fmt.Fprintf(w, "%s\t%d-%d\t%d\t%d\t%d\n", t, lo, hi, b.MaxOps, b.MaxDurationMs, b.MaxMemoryBytes)
			}

			return w.Flush()
		},
	}
}

