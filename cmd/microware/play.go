package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/microware/internal/audio"
	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/platform/tui"
	"github.com/vovakirdan/microware/internal/registry"
	"github.com/vovakirdan/microware/internal/storage"
)

var flagDebugGame string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run",
	Long: `Start microware on the title screen.

Controls:
  Space/Enter  - Start a run
  D            - Debug menu (play one microgame)
  Tab          - Scoreboard
  Esc          - Abort the round (counts as a fail) or go back
  Q            - Quit from the title
  Ctrl+C       - Quit anywhere

Each microgame tells you its controls with its prompt: arrows, space,
letters or the mouse.

Difficulty options:
  easy    - 5 lives, gentler speed curve
  normal  - 4 lives
  hard    - 3 lives, starts at speed x1.4

Examples:
  microware play
  microware play --difficulty easy
  microware play --debug-game type
  microware play --config ./my-microware.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDebugGame, "debug-game", "", "Play a single microgame in debug mode")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagDebugGame != "" && !registry.Exists(flagDebugGame) {
		fmt.Fprintf(os.Stderr, "Error: unknown microgame %q\n", flagDebugGame)
		fmt.Fprintln(os.Stderr, "Run 'microware list' to see available microgames.")
		os.Exit(1)
	}

	logger, closeLog, err := openLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	checkCatalog(logger, cfg)

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Open run history
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run history: %v\n", err)
		// Continue without storage - runs still work
		store = nil
	}

	runErr := tui.Run(tui.Options{
		Config:  cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Catalog:   registry.Default,
		Store:     store,
		Logger:    logger,
		Sink:      audio.Tee{audio.LogSink{Logger: logger}, audio.BellSink{W: os.Stdout}},
		DebugGame: flagDebugGame,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
