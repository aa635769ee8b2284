package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rselbach/Ports/internal/manager"
	"github.com/rselbach/Ports/internal/scan"
)

var (
	servePort uint16
	serveLAN  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve DIR",
	Short: "Serve a directory over HTTP until interrupted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner := scan.New(cfg.ScanTTL.Duration)
		mgr := manager.New(cfg, scanner)

		srv, err := mgr.StartServer(servePort, args[0], serveLAN)
		if err != nil {
			return err
		}

		host := "localhost"
		if serveLAN {
			host, _ = os.Hostname()
		}
		fmt.Printf("serving %s on http://%s:%d/ (ctrl-c to stop)\n", srv.Root(), host, srv.Port())

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		mgr.StopAll()
		return nil
	},
}

func init() {
	serveCmd.Flags().Uint16VarP(&servePort, "port", "p", 0, "port to bind (0 picks a free one)")
	serveCmd.Flags().BoolVar(&serveLAN, "lan", false, "accept connections from the local network")
	rootCmd.AddCommand(serveCmd)
}
