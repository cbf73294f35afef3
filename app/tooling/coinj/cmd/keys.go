package cmd

import (
	"fmt"

	"github.com/coinjecture/core/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

func newKeygenCmd() *cobra.Command {
	var out string

	c := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a miner key pair and print its miner address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			privateKey, err := crypto.GenerateKey()
			if err != nil {
				return err
			}

			if err := crypto.SaveECDSA(out, privateKey); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), signature.MinerAddress(privateKey.PublicKey).Hex())
			return nil
		},
	}
	c.Flags().StringVarP(&out, "out", "o", "miner.ecdsa", "Path to write the private key to.")

	return c
}

func newAddressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address <key>",
		Short: "Print the miner address of a private key file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			privateKey, err := crypto.LoadECDSA(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), signature.MinerAddress(privateKey.PublicKey).Hex())
			return nil
		},
	}
}

func newSignCmd() *cobra.Command {
	var key string

	c := &cobra.Command{
		Use:   "sign <file>",
		Short: "Sign a JSON header with a miner key, - for stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			privateKey, err := crypto.LoadECDSA(key)
			if err != nil {
				return err
			}

			h, err := readHeader(cmd, args[0])
			if err != nil {
				return err
			}

			if h.MinerAddress != signature.MinerAddress(privateKey.PublicKey) {
				return fmt.Errorf("header names miner %s, key belongs to %s", h.MinerAddress, signature.MinerAddress(privateKey.PublicKey))
			}

			sig, err := signature.SignHeader(h, privateKey)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(sig))
			return nil
		},
	}
	c.Flags().StringVarP(&key, "key", "k", "miner.ecdsa", "Path to the miner private key.")

	return c
}

func newCheckSigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checksig <file> <signature>",
		Short: "Check a signature attests to a JSON header",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := readHeader(cmd, args[0])
			if err != nil {
				return err
			}

			sig, err := hexutil.Decode(args[1])
			if err != nil {
				return fmt.Errorf("decoding signature: %w", err)
			}

			if err := signature.VerifyHeader(h, sig); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "signature valid for miner", h.MinerAddress)
			return nil
		},
	}
}
