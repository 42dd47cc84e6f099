package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dukerupert/wgpeerctl/internal/peerops"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var removeYes bool

var removeCmd = &cobra.Command{
	Use:   "remove <peer-public-key> [preferred-temp-dir]",
	Short: "Remove the peer section(s) matching a public key",
	Long: `Removes every [Peer] section whose PublicKey equals the given value.
Removing a key that is not present succeeds and leaves the file untouched.
The file is snapshotted into the backup directory before anything is
deleted.`,
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	if err := checkMutationArgs("remove", args); err != nil {
		return err
	}
	identity := args[0]

	if !removeYes && term.IsTerminal(int(os.Stdin.Fd())) {
		ok, err := confirm(fmt.Sprintf("Remove peer %s from %s? [y/N]: ", identity, cfg.ConfigFile))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	svc := peerops.New(cfg)
	res, err := svc.Remove(identity, tempDirArg(args))
	if err != nil {
		return err
	}

	fmt.Println(res.Status)
	if res.HealedDuplicates {
		fmt.Printf("Note: %d sections carried this key; all were removed.\n", res.Removed)
	}
	if res.Removed > 0 && res.BackupPath != "" {
		fmt.Printf("Backup: %s\n", res.BackupPath)
	}
	return nil
}

func confirm(prompt string) (bool, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
