package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/microware/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered microgames",
	Long:  `Shows every microgame in the catalog with its prompt and round duration.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No microgames registered.")
		return
	}

	fmt.Println("Registered microgames:")
	fmt.Println()

	// Calculate column widths
	keyLen, promptLen := 3, 6 // "Key", "Prompt" headers
	for _, g := range games {
		keyLen = max(keyLen, len(g.Key))
		promptLen = max(promptLen, len(g.Prompt))
	}

	// Print header
	fmt.Printf("  %-*s  %-*s  %-6s  %s\n", keyLen, "Key", promptLen, "Prompt", "Time", "Name")
	fmt.Printf("  %-*s  %-*s  %-6s  %s\n", keyLen, "---", promptLen, "------", "----", "----")

	// Print games
	for _, g := range games {
		fmt.Printf("  %-*s  %-*s  %-6s  %s\n", keyLen, g.Key, promptLen, g.Prompt, g.Duration, g.Name)
	}

	fmt.Println()
	fmt.Println("Run 'microware play --debug-game <key>' to practice one microgame.")
}
