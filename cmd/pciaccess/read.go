package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sercanarga/pciaccess/internal/access"
	"github.com/sercanarga/pciaccess/internal/hexutil"
	"github.com/sercanarga/pciaccess/internal/pci"
)

var readLen int

var readCmd = &cobra.Command{
	Use:   "read <address> [offset]",
	Short: "Hex-dump a device's configuration space",
	Long:  "Reads configuration space of the device at the given address and prints a hex dump. The offset defaults to 0.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := pci.ParseAddr(args[0])
		if err != nil {
			return err
		}
		offset := 0
		if len(args) == 2 {
			o, err := strconv.ParseInt(args[1], 0, 32)
			if err != nil || o < 0 {
				return fmt.Errorf("bad offset %q", args[1])
			}
			offset = int(o)
		}
		if offset+readLen > pci.ConfigSpaceSize {
			return fmt.Errorf("range %#x+%#x exceeds config space", offset, readLen)
		}

		ctx, err := newContext(false)
		if err != nil {
			return err
		}
		defer ctx.Close()

		if err := ctx.Scan(); err != nil {
			return fmt.Errorf("scanning devices: %w", err)
		}
		dev := findDevice(ctx, addr)
		if dev == nil {
			return fmt.Errorf("no device at %s", addr)
		}

		buf := make([]byte, readLen)
		if !dev.ReadBlock(offset, buf) {
			return fmt.Errorf("reading %#x bytes at %#x from %s failed", readLen, offset, addr)
		}
		fmt.Print(hexutil.Dump(buf, offset))
		return nil
	},
}

func findDevice(ctx *access.Context, addr pci.Addr) *access.Device {
	for _, d := range ctx.Devices() {
		if d.Addr == addr {
			return d
		}
	}
	return nil
}

func init() {
	readCmd.Flags().IntVarP(&readLen, "length", "l", pci.ConfigSpaceLegacySize, "number of bytes to read")
	rootCmd.AddCommand(readCmd)
}
