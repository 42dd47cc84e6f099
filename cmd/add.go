package cmd

import (
	"fmt"

	"github.com/dukerupert/wgpeerctl/internal/peerops"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <peer-block-file> [preferred-temp-dir]",
	Short: "Append a peer section to the configuration",
	Long: `Reads a fully-formed [Peer] block from the given file and appends it to
the WireGuard configuration. Adding a public key that is already present is
an error; add never overwrites an existing peer.`,
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if err := checkMutationArgs("add", args); err != nil {
		return err
	}

	svc := peerops.New(cfg)
	res, err := svc.Add(args[0], tempDirArg(args))
	if err != nil {
		return err
	}
	fmt.Println(res.Status)
	return nil
}
