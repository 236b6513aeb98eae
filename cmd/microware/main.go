// microware chains very short timed microgames into a run played in the
// terminal, until the player runs out of lives.
//
// Usage:
//
//	microware play                   - Play a run (title screen first)
//	microware play --debug-game KEY  - Play a single microgame in debug mode
//	microware list                   - List registered microgames
//	microware scores                 - Show best runs and microgame stats
//	microware serve                  - Start SSH server for remote play
//	microware validate [dir]         - Check microgame sources
//
// Global flags:
//
//	--fps <rate>          - Scheduler polls per second (default: 60)
//	--seed <value>        - RNG seed for reproducible runs
//	--db <path>           - Run history database (default: ~/.microware/runs.db)
//	--config <path>       - Config YAML
//	--difficulty <name>   - easy, normal or hard
//	--log-file <path>     - Where the TUI writes its log (default: discard)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/microware/internal/config"
	"github.com/vovakirdan/microware/internal/registry"

	// Import microgames to register them
	_ "github.com/vovakirdan/microware/internal/games/all"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "microware",
	Short: "Microware - microgame madness in your terminal",
	Long: `Microware throws a stream of tiny timed challenges at you.
Win to score, fail to lose a life, and watch everything speed up.

Available commands:
  play      - Play a run
  list      - Show all registered microgames
  scores    - View best runs and per-microgame stats
  serve     - Start SSH server for remote play
  validate  - Check microgame sources against the lifecycle contract

Examples:
  microware play
  microware play --difficulty hard
  microware play --debug-game catch
  microware serve --ssh :2222
  microware validate ./internal/games`,
	Run: runPlay,
}

func init() {
	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (scheduler polls per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.microware/runs.db", "Path to run history database")
	pf.StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
}

// loadConfig reads the config file and applies the difficulty preset.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return cfg, err
	}
	preset.Apply(&cfg)
	return cfg, cfg.Validate()
}

// band returns the duration band configured for the catalog check.
func band(cfg config.Config) registry.Band {
	return registry.Band{Min: cfg.Registry.MinDuration, Max: cfg.Registry.MaxDuration}
}

// openLog returns a logger writing to --log-file, or one that discards
// everything. The TUI owns the terminal, so nothing goes to stderr.
// The caller runs the returned cleanup.
func openLog() (*log.Logger, func(), error) {
	if flagLogFile == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "microware",
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }, nil
}

// checkCatalog logs catalog issues. Out-of-band durations never stop play.
func checkCatalog(logger *log.Logger, cfg config.Config) {
	for _, issue := range registry.Default.Check(band(cfg)) {
		if issue.Severity == registry.Error {
			logger.Error("catalog", "game", issue.Key, "issue", issue.Message)
		} else {
			logger.Warn("catalog", "game", issue.Key, "issue", issue.Message)
		}
	}
}
