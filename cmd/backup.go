package cmd

import (
	"fmt"

	"github.com/dukerupert/wgpeerctl/internal/peerops"
	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [backup-file]",
	Short: "Recommit a backup snapshot over the configuration",
	Long: `Atomically replaces the configuration with a snapshot from the backup
directory. Without an argument the most recent snapshot is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List the snapshots in the backup directory",
	RunE:  runBackups,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(backupsCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	snapshot := ""
	if len(args) == 1 {
		snapshot = args[0]
	}

	svc := peerops.New(cfg)
	res, err := svc.Restore(snapshot, "")
	if err != nil {
		return err
	}
	fmt.Println(res.Status)
	return nil
}

func runBackups(cmd *cobra.Command, args []string) error {
	svc := peerops.New(cfg)
	snapshots, err := svc.Backups()
	if err != nil {
		return err
	}

	if len(snapshots) == 0 {
		fmt.Println("No backups found.")
		return nil
	}
	for _, s := range snapshots {
		fmt.Println(s)
	}
	return nil
}
