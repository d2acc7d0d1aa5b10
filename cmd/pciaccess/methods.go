package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sercanarga/pciaccess/internal/access"
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List available access methods and their parameters",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Access methods, in detection order:")
		for _, m := range access.Methods() {
			fmt.Printf("  %s\n", m.Name())
		}

		ctx := access.New()
		defer ctx.Close()

		fmt.Println("\nParameters:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, p := range ctx.Params() {
			def := p.Value
			if def == "" {
				def = "(none)"
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\n", p.Name, def, p.Help)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(methodsCmd)
}
