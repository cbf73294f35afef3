package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/coinjecture/core/foundation/blockchain/corerpc"
	"github.com/coinjecture/core/foundation/blockchain/ffi"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func newRPCCmd() *cobra.Command {
	var addr string
	var timeout time.Duration

	c := &cobra.Command{
		Use:   "rpc",
		Short: "Call a remote core over gRPC",
	}
	c.PersistentFlags().StringVar(&addr, "addr", "localhost:9080", "Address of the core RPC service.")
	c.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "Deadline for the call.")

	// call dials the remote core and runs fn against it.
	call := func(fn func(ctx context.Context, client *corerpc.Client) error) error {
		client, err := corerpc.Dial(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return fn(ctx, client)
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the versions of the remote core",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(func(ctx context.Context, client *corerpc.Client) error {
				v, codec, err := client.Version(ctx)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "core %s codec %d\n", v, codec)
				return nil
			})
		},
	}

	hash := &cobra.Command{
		Use:   "hash <data>",
		Short: "Hash a string with the remote core",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(func(ctx context.Context, client *corerpc.Client) error {
				h, err := client.Hash(ctx, []byte(args[0]))
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), h.Hex())
				return nil
			})
		},
	}

	verify := &cobra.Command{
		Use:   "verify <file>",
		Short: "Verify a subset-sum solution with the remote core",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, budget, err := readVerifyInput(cmd, args[0])
			if err != nil {
				return err
			}

			return call(func(ctx context.Context, client *corerpc.Client) error {
				res, err := client.Verify(ctx, in.Problem, in.Solution, budget)
				if err != nil {
					return fmt.Errorf("%s: %w", corerpc.ResultOf(err), err)
				}

				return printJSON(cmd, res)
			})
		},
	}

	c.AddCommand(version, hash, verify)

	return c
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the core and codec versions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "core %s codec %d\n", ffi.Version(), ffi.CodecVersion())
		},
	}
}
