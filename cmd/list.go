package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dukerupert/wgpeerctl/internal/peerops"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the peers in the configuration",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	svc := peerops.New(cfg)
	peers, err := svc.Peers()
	if err != nil {
		return err
	}

	if len(peers) == 0 {
		fmt.Println("No peers configured.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PUBLIC KEY\tALLOWED IPS\tENDPOINT")
	fmt.Fprintln(w, "──────────\t───────────\t────────")
	for _, p := range peers {
		endpoint := p.Endpoint
		if endpoint == "" {
			endpoint = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.PublicKey, p.AllowedIPs, endpoint)
	}
	return w.Flush()
}
