package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dukerupert/wgpeerctl/internal/peerops"
	"github.com/dukerupert/wgpeerctl/tui/peerlist"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and remove peers interactively",
	RunE:  runTui,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTui(cmd *cobra.Command, args []string) error {
	svc := peerops.New(cfg)
	peers, err := svc.Peers()
	if err != nil {
		return err
	}

	p := tea.NewProgram(peerlist.New(svc, peers), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running peer browser: %w", err)
	}
	return nil
}
