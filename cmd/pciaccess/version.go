package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sercanarga/pciaccess/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pciaccess %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
