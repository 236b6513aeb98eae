package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/microware/internal/registry"
	"github.com/vovakirdan/microware/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check microgame sources against the lifecycle contract",
	Long: `Parse every package below dir (default: internal/games) and report each
microgame that misses a lifecycle method, has a bad prompt or duration, can
never resolve, or disagrees with its registry descriptor.

Errors make the command exit with status 1. Warnings do not.

Examples:
  microware validate
  microware validate ./internal/games/catch`,
	Args: cobra.MaximumNArgs(1),
	Run:  runValidate,
}

func runValidate(_ *cobra.Command, args []string) {
	dir := "internal/games"
	if len(args) == 1 {
		dir = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report, err := validate.Dir(dir, validate.Options{
		Band:    band(cfg),
		Catalog: registry.Default,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report.Write(os.Stdout)
	if report.Errors() > 0 {
		os.Exit(1)
	}
}
