package cmd

import (
	"errors"
	"fmt"

	"github.com/coinjecture/core/foundation/blockchain/hash"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

func newHashCmd() *cobra.Command {
	var asHex bool
	var file string

	c := &cobra.Command{
		Use:   "hash [data]",
		Short: "Print the hash of a string, hex value or file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte

			switch {
			case file != "":
				b, err := readInput(cmd, file)
				if err != nil {
					return err
				}
				data = b

			case len(args) == 0:
				return errors.New("data or --file required")

			case asHex:
				b, err := hexutil.Decode(args[0])
				if err != nil {
					return fmt.Errorf("decoding hex: %w", err)
				}
				data = b

			default:
				data = []byte(args[0])
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash.Sum(data).Hex())
			return nil
		},
	}

	c.Flags().BoolVar(&asHex, "hex", false, "Treat the data as a 0x prefixed hex value.")
	c.Flags().StringVarP(&file, "file", "f", "", "Hash the content of the file, - for stdin.")

	return c
}
