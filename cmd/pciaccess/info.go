package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sercanarga/pciaccess/internal/access"
	"github.com/sercanarga/pciaccess/internal/color"
	"github.com/sercanarga/pciaccess/internal/pci"
)

var infoCmd = &cobra.Command{
	Use:   "info <address>",
	Short: "Show detailed information about one device",
	Long:  "Shows identity, resources and capability chains for the device at the given address (DDDD:BB:DD.F or BB:DD.F).",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := pci.ParseAddr(args[0])
		if err != nil {
			return err
		}

		ctx, err := newContext(false)
		if err != nil {
			return err
		}
		defer ctx.Close()

		if err := ctx.Scan(); err != nil {
			return fmt.Errorf("scanning devices: %w", err)
		}

		var dev *access.Device
		for _, d := range ctx.Devices() {
			if d.Addr == addr {
				dev = d
				break
			}
		}
		if dev == nil {
			return fmt.Errorf("no device at %s", addr)
		}

		known := dev.FillInfo(access.FillIdent | access.FillClass | access.FillClassExt |
			access.FillSubsys | access.FillIRQ | access.FillBases | access.FillSizes |
			access.FillROMBase | access.FillCaps | access.FillExtCaps |
			access.FillDriver | access.FillNUMANode | access.FillIOMMUGroup |
			access.FillPhysSlot | access.FillLabel)

		fmt.Println(color.Header(dev.Addr.String()))
		fmt.Printf("Device:  %04x:%04x (rev %02x)\n", dev.VendorID, dev.DeviceID, dev.Revision)
		if ctx.NumericIDs {
			fmt.Printf("Class:   %04x, prog-if %02x\n", dev.Class, dev.ProgIF)
		} else {
			fmt.Printf("Class:   %s [%04x]\n", pci.ClassName(dev.Class), dev.Class)
		}
		if known&access.FillSubsys != 0 {
			fmt.Printf("Subsys:  %04x:%04x\n", dev.SubsysVendor, dev.SubsysDevice)
		}
		if known&access.FillIRQ != 0 && dev.IRQ >= 0 {
			fmt.Printf("IRQ:     %d\n", dev.IRQ)
		}
		if known&access.FillNUMANode != 0 && dev.NUMANode >= 0 {
			fmt.Printf("NUMA:    %d\n", dev.NUMANode)
		}
		if known&access.FillIOMMUGroup != 0 && dev.IOMMUGroup >= 0 {
			fmt.Printf("IOMMU:   group %d\n", dev.IOMMUGroup)
		}
		if dev.Driver != "" {
			fmt.Printf("Driver:  %s\n", dev.Driver)
		}
		if dev.PhysSlot != "" {
			fmt.Printf("Slot:    %s\n", dev.PhysSlot)
		}
		if dev.Label != "" {
			fmt.Printf("Label:   %s\n", dev.Label)
		}

		if known&access.FillBases != 0 {
			for i := range dev.Bases {
				if !dev.Bases[i].IsDisabled() {
					fmt.Println(dev.Bases[i].String())
				}
			}
		}
		if known&access.FillROMBase != 0 && !dev.ROM.IsDisabled() {
			fmt.Printf("ROM: at 0x%x, size %s\n", dev.ROM.Base, dev.ROM.SizeHuman())
		}

		if known&access.FillCaps != 0 {
			for _, c := range dev.Capabilities() {
				if c.Type == pci.CapExtended {
					fmt.Printf("Extended capability [%03x] %04x: %s\n", c.Offset, c.ID, c.Name())
				} else {
					fmt.Printf("Capability [%02x] %02x: %s\n", c.Offset, c.ID, c.Name())
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
