package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rselbach/Ports/internal/output"
	"github.com/rselbach/Ports/internal/scan"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List TCP ports in LISTEN state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner := scan.New(cfg.ScanTTL.Duration)
		records := scanner.Refresh()

		if listJSON {
			s, err := output.ToJSON(records)
			if err != nil {
				return err
			}
			fmt.Println(s)
			return nil
		}
		output.PortTable(os.Stdout, records)
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print records as JSON")
	rootCmd.AddCommand(listCmd)
}
