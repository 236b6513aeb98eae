package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/microware/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
	flagScoresRun   string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show best runs and microgame stats",
	Long: `Display the best recorded runs and how every microgame has gone so far.
Debug runs are never listed.

Examples:
  microware scores
  microware scores --limit 20
  microware scores --run 5f0c9a3e-...
  microware scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all recorded runs")
	scoresCmd.Flags().StringVar(&flagScoresRun, "run", "", "Show the rounds of one run")
}

func runScores(_ *cobra.Command, _ []string) {
	// Open run history
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearRuns(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		fmt.Println("Run history cleared.")
		return
	}

	if flagScoresRun != "" {
		showRun(store, flagScoresRun)
		return
	}

	runs, err := store.TopRuns(flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	total, _ := store.RunCount()
	fmt.Printf("Best Runs (%d recorded)\n", total)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'microware play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-16s  %s\n", "Rank", "Score", "Rounds", "Speed", "Date", "Run")
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-16s  %s\n", "----", "-----", "------", "-----", "----", "---")

	for i, r := range runs {
		dateStr := r.EndedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-6d  x%-5.2f  %-16s  %s\n", i+1, r.Score, r.Rounds, r.Speed, dateStr, r.RunID)
	}

	stats, err := store.KeyStats()
	if err != nil || len(stats) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Microgames")
	fmt.Println()
	fmt.Printf("  %-10s  %-6s  %-6s  %-5s  %s\n", "Key", "Played", "Won", "Rate", "Avg")
	fmt.Printf("  %-10s  %-6s  %-6s  %-5s  %s\n", "---", "------", "---", "----", "---")
	for _, k := range stats {
		fmt.Printf("  %-10s  %-6d  %-6d  %3.0f%%   %.1fs\n",
			k.Key, k.Played, k.Won, k.WinRate()*100, k.AvgElapsed.Seconds())
	}
}

// showRun prints every round of one run in play order.
func showRun(store *storage.Store, runID string) {
	rounds, err := store.RunRounds(runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving rounds: %v\n", err)
		return
	}
	if len(rounds) == 0 {
		fmt.Printf("No rounds recorded for run %s.\n", runID)
		return
	}

	fmt.Printf("Run %s\n", runID)
	fmt.Println()
	fmt.Printf("  %-3s  %-10s  %-7s  %-6s  %s\n", "#", "Key", "Result", "Speed", "Time")
	fmt.Printf("  %-3s  %-10s  %-7s  %-6s  %s\n", "-", "---", "------", "-----", "----")
	for _, r := range rounds {
		result := "FAIL"
		switch {
		case r.Won && r.TimedOut:
			result = "SURVIVE"
		case r.Won:
			result = "WIN"
		case r.TimedOut:
			result = "TIMEOUT"
		}
		fmt.Printf("  %-3d  %-10s  %-7s  x%-5.2f  %.1fs\n", r.Index+1, r.Key, result, r.Speed, r.Elapsed.Seconds())
	}
}
