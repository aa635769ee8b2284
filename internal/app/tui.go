package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rselbach/Ports/internal/manager"
	"github.com/rselbach/Ports/internal/scan"
	"github.com/rselbach/Ports/internal/store"
	"github.com/rselbach/Ports/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive port and server browser",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI() error {
	scanner := scan.New(cfg.ScanTTL.Duration)
	mgr := manager.New(cfg, scanner)

	saved, err := store.Load(cfg.StateFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	mgr.Restore(saved)

	err = tui.Start(versionString, mgr, scanner)

	// Whatever is running when the TUI exits is what comes back next time.
	if saveErr := store.Save(cfg.StateFile, mgr.SavedServers()); saveErr != nil {
		fmt.Fprintln(os.Stderr, saveErr)
	}
	mgr.StopAll()
	return err
}
