package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/rselbach/Ports/pkg/model"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	processColor = color.New(color.FgGreen)
)

// PortTable writes the records as an aligned table.
func PortTable(w io.Writer, records []model.ListeningPort) {
	if len(records) == 0 {
		fmt.Fprintln(w, "no listening ports found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerColor.Sprint("PORT\tPID\tPROCESS\tADDRESS"))
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", r.Port, r.PID, processColor.Sprint(r.Process), r.Address)
	}
	tw.Flush()
}

// ServerTable writes the running-server list as an aligned table.
func ServerTable(w io.Writer, servers []model.SavedServer) {
	if len(servers) == 0 {
		fmt.Fprintln(w, "no servers running")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerColor.Sprint("PORT\tDIRECTORY\tSCOPE"))
	for _, s := range servers {
		scope := "localhost"
		if s.ExposeToLAN {
			scope = "lan"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Port, s.Directory, scope)
	}
	tw.Flush()
}
