package cmd

import (
	"fmt"

	"github.com/coinjecture/core/foundation/blockchain/golden"
	"github.com/coinjecture/core/foundation/blockchain/hash"
	"github.com/coinjecture/core/foundation/blockchain/merkle"
	"github.com/spf13/cobra"
)

func newMerkleCmd() *cobra.Command {
	var derive string
	var count int
	var proof int

	c := &cobra.Command{
		Use:   "merkle [leaf...]",
		Short: "Print the merkle root of hex encoded leaves",
		RunE: func(cmd *cobra.Command, args []string) error {
			var leaves []hash.Hash

			switch {
			case derive != "":
				if count < 0 || count > 1<<20 {
					return fmt.Errorf("count %d out of range", count)
				}
				leaves = golden.Derive(derive, count)

			default:
				for _, arg := range args {
					h, err := hash.FromHex(arg)
					if err != nil {
						return fmt.Errorf("leaf %q: %w", arg, err)
					}
					leaves = append(leaves, h)
				}
			}

			if proof < 0 {
				fmt.Fprintln(cmd.OutOrStdout(), merkle.Root(leaves).Hex())
				return nil
			}

			tree := merkle.NewTree(leaves)

			p, err := tree.Proof(proof)
			if err != nil {
				return err
			}

			out := struct {
				Root   hash.Hash     `json:"root"`
				Leaf   hash.Hash     `json:"leaf"`
				Hashes []hash.Hash   `json:"hashes"`
				Order  []merkle.Side `json:"order"`
			}{
				Root:   tree.Root(),
				Leaf:   leaves[proof],
				Hashes: p.Hashes,
				Order:  p.Order,
			}

			return printJSON(cmd, out)
		},
	}

	c.Flags().StringVar(&derive, "derive", "", "Derive leaves by hashing the format applied to each position.")
	c.Flags().IntVar(&count, "count", 0, "Number of leaves to derive.")
	c.Flags().IntVar(&proof, "proof", -1, "Print the inclusion proof for the leaf at this position.")

	return c
}
