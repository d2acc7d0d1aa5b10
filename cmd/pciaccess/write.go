package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sercanarga/pciaccess/internal/color"
	"github.com/sercanarga/pciaccess/internal/hexutil"
	"github.com/sercanarga/pciaccess/internal/pci"
)

var writeCmd = &cobra.Command{
	Use:   "write <address> <offset> <hex-bytes>",
	Short: "Write bytes into a device's configuration space",
	Long: `Writes the given hex bytes at the given offset of the device's
configuration space. Writing configuration registers can hang or damage the
machine; know what you are doing.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := pci.ParseAddr(args[0])
		if err != nil {
			return err
		}
		o, err := strconv.ParseInt(args[1], 0, 32)
		if err != nil || o < 0 {
			return fmt.Errorf("bad offset %q", args[1])
		}
		offset := int(o)
		data, err := hexutil.ToBytes(args[2])
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return fmt.Errorf("no bytes to write")
		}
		if offset+len(data) > pci.ConfigSpaceSize {
			return fmt.Errorf("range %#x+%#x exceeds config space", offset, len(data))
		}

		ctx, err := newContext(true)
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

		if !dev.WriteBlock(offset, data) {
			return fmt.Errorf("writing %d bytes at %#x to %s failed", len(data), offset, addr)
		}
		fmt.Println(color.OK(fmt.Sprintf("wrote %d bytes at %#x to %s", len(data), offset, addr)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)
}
