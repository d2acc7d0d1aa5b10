package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sercanarga/pciaccess/internal/access"
	"github.com/sercanarga/pciaccess/internal/pci"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all PCI devices",
	Long:  "Enumerates all PCI devices reachable through the selected access method.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newContext(false)
		if err != nil {
			return err
		}
		defer ctx.Close()

		if err := ctx.Scan(); err != nil {
			return fmt.Errorf("scanning devices: %w", err)
		}

		devices := ctx.Devices()
		if len(devices) == 0 {
			fmt.Println("No PCI devices found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ADDRESS\tVENDOR\tDEVICE\tREV\tCLASS\tDRIVER")
		for _, d := range devices {
			d.FillInfo(access.FillIdent | access.FillClass | access.FillClassExt | access.FillDriver)

			class := fmt.Sprintf("%04x", d.Class)
			if !ctx.NumericIDs {
				class = pci.ClassName(d.Class)
			}
			fmt.Fprintf(w, "%s\t%04x\t%04x\t%02x\t%s\t%s\n",
				d.Addr, d.VendorID, d.DeviceID, d.Revision, class, d.Driver)
		}
		w.Flush()

		fmt.Printf("\nTotal: %d devices (method: %s)\n", len(devices), ctx.Method())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
