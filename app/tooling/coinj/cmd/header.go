package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coinjecture/core/foundation/blockchain/hash"
	"github.com/coinjecture/core/foundation/blockchain/header"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

// headerView is the printed form of a header.
type headerView struct {
	Header     header.BlockHeader `json:"header"`
	Hash       hash.Hash          `json:"hash"`
	Encoded    hexutil.Bytes      `json:"encoded"`
	EncodedLen int                `json:"encoded_len"`
}

func newHeaderView(h header.BlockHeader) (headerView, error) {
	data, err := header.Encode(h)
	if err != nil {
		return headerView{}, err
	}

	hv := headerView{
		Header:     h,
		Hash:       hash.Sum(data),
		Encoded:    data,
		EncodedLen: len(data),
	}

	return hv, nil
}

func newHeaderCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "header",
		Short: "Encode, decode and hash block headers",
	}

	c.AddCommand(
		&cobra.Command{
			Use:   "genesis",
			Short: "Print the frozen genesis header",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				hv, err := newHeaderView(header.Genesis())
				if err != nil {
					return err
				}
				return printJSON(cmd, hv)
			},
		},
		&cobra.Command{
			Use:   "hash <file>",
			Short: "Print the hash of a JSON header, - for stdin",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				h, err := readHeader(cmd, args[0])
				if err != nil {
					return err
				}

				hh, err := h.Hash()
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), hh.Hex())
				return nil
			},
		},
		&cobra.Command{
			Use:   "encode <file>",
			Short: "Print the canonical encoding of a JSON header, - for stdin",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				h, err := readHeader(cmd, args[0])
				if err != nil {
					return err
				}

				hv, err := newHeaderView(h)
				if err != nil {
					return err
				}
				return printJSON(cmd, hv)
			},
		},
		&cobra.Command{
			Use:   "decode <hex>",
			Short: "Strictly decode a canonical header encoding",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := hexutil.Decode(strings.TrimSpace(args[0]))
				if err != nil {
					return fmt.Errorf("decoding hex: %w", err)
				}

				h, err := header.Decode(data)
				if err != nil {
					return err
				}

				hv, err := newHeaderView(h)
				if err != nil {
					return err
				}
				return printJSON(cmd, hv)
			},
		},
		newSignCmd(),
		newCheckSigCmd(),
	)

	return c
}

func readHeader(cmd *cobra.Command, arg string) (header.BlockHeader, error) {
	data, err := readInput(cmd, arg)
	if err != nil {
		return header.BlockHeader{}, err
	}

	var h header.BlockHeader
	if err := json.Unmarshal(data, &h); err != nil {
		return header.BlockHeader{}, err
	}

	return h, nil
}
