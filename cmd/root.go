package cmd

import (
	"fmt"
	"os"

	"github.com/dukerupert/wgpeerctl/internal/audit"
	"github.com/dukerupert/wgpeerctl/internal/settings"
	"github.com/spf13/cobra"
)

var (
	Version = "dev"

	cfgPath string
	cfg     *settings.Settings
)

var rootCmd = &cobra.Command{
	Use:   "wgpeerctl",
	Short: "Safely mutate a WireGuard server's peer configuration",
	Long: `wgpeerctl adds and removes [Peer] sections in a WireGuard server
configuration file while the daemon and its file watcher may be reading it.
Every change is staged in a scratch directory and committed with a single
atomic rename; removals are snapshotted first and every attempt lands in an
append-only audit log.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = s
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "settings file (default ~/.config/wgpeerctl/config.yaml)")
	rootCmd.Version = Version
}

// tempDirArg returns the optional trailing temp-dir argument of add/remove.
func tempDirArg(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return ""
}

// usageError records an argument error in the audit log, so even invocations
// rejected before any work leave a trace, then passes the error through.
func usageError(op string, err error) error {
	log := &audit.Log{Path: cfg.AuditLog}
	if recErr := log.Record(audit.Error, "%s: %v", op, err); recErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", recErr)
	}
	return err
}

// checkMutationArgs enforces the <required-arg> [preferred-temp-dir] arity of
// add and remove. Validation runs inside RunE rather than cobra's Args hook
// so settings are loaded and the rejection can be audited.
func checkMutationArgs(op string, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError(op, fmt.Errorf("accepts 1 or 2 args, received %d", len(args)))
	}
	return nil
}
