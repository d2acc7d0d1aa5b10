package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sercanarga/pciaccess/internal/access"
	"github.com/sercanarga/pciaccess/internal/color"
	"github.com/sercanarga/pciaccess/internal/config"

	// Access backends register themselves with the method registry.
	_ "github.com/sercanarga/pciaccess/internal/backend/dump"
	_ "github.com/sercanarga/pciaccess/internal/backend/ecam"
	_ "github.com/sercanarga/pciaccess/internal/backend/proc"
	_ "github.com/sercanarga/pciaccess/internal/backend/sysfs"
)

var (
	flagConfig  string
	flagMethod  string
	flagParams  []string
	flagVerbose bool
	flagNumeric bool
)

var rootCmd = &cobra.Command{
	Use:   "pciaccess",
	Short: "Portable PCI configuration-space access tool",
	Long: `pciaccess enumerates PCI/PCIe devices and reads or writes their
configuration space through whichever access method the host supports
(sysfs, procfs, memory-mapped ECAM, or a dump-file replay).

The access method is auto-detected; force one with --method and tune it
with --param name=value (see "pciaccess methods" for the vocabulary).`,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", defaultConfigPath(), "configuration file")
	rootCmd.PersistentFlags().StringVarP(&flagMethod, "method", "A", "", "force an access method by name")
	rootCmd.PersistentFlags().StringArrayVarP(&flagParams, "param", "O", nil, "set an access-method parameter (name=value)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVarP(&flagNumeric, "numeric", "n", false, "show numeric IDs instead of names")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.Fail(err.Error()))
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.config/pciaccess.yaml"
}

// newContext builds and initializes an access context from the config file
// and command-line flags. Callers own Close.
func newContext(writable bool) (*access.Context, error) {
	var cfg *config.Config
	var err error
	if flagConfig != "" {
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = &config.Config{}
	}

	if flagVerbose || cfg.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	ctx := access.New()
	ctx.NumericIDs = flagNumeric || cfg.Numeric
	ctx.WritesEnabled = writable
	ctx.Errorf = func(format string, args ...any) {
		fmt.Fprintln(os.Stderr, color.Failf(format, args...))
		os.Exit(1)
	}
	ctx.Warnf = func(format string, args ...any) {
		fmt.Fprintln(os.Stderr, color.Warnf(format, args...))
	}
	if flagVerbose || cfg.Verbose {
		ctx.Debugf = func(format string, args ...any) {
			fmt.Fprintln(os.Stderr, color.Dim(fmt.Sprintf(format, args...)))
		}
	} else {
		ctx.Debugf = func(format string, args ...any) {}
	}

	for name, value := range cfg.Params {
		if err := ctx.SetParam(name, value); err != nil {
			return nil, err
		}
	}
	for _, kv := range flagParams {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("bad --param %q: expected name=value", kv)
		}
		if err := ctx.SetParam(name, value); err != nil {
			return nil, err
		}
	}

	method := flagMethod
	if method == "" {
		method = cfg.Method
	}
	if err := ctx.Init(method); err != nil {
		return nil, err
	}
	return ctx, nil
}
