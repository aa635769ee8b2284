// Package app wires the cobra command tree: `ports list`, `ports serve`,
// and the interactive `ports tui` default.
package app

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rselbach/Ports/internal/config"
)

var (
	versionString = "dev"

	cfgPath string
	noColor bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ports",
	Short: "List listening TCP ports and serve directories over HTTP",
	Long: `ports shows which processes are listening on which TCP ports and can
serve local directories as static HTTP servers, on localhost or the LAN.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}

		path := cfgPath
		explicit := path != ""
		if !explicit {
			path = config.DefaultPath()
		}
		loaded, err := config.Load(path)
		if err != nil && explicit {
			return err
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		cfg = loaded
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func SetVersionBuildCommitString(version, commit, buildDate string) {
	if version == "" {
		version = "dev"
	}
	versionString = version
	if commit != "" {
		versionString += " (" + commit
		if buildDate != "" {
			versionString += ", " + buildDate
		}
		versionString += ")"
	}
	rootCmd.Version = versionString
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
