package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/superbreak/internal/core"
	"github.com/vovakirdan/superbreak/internal/games/superbreak"
	"github.com/vovakirdan/superbreak/internal/platform/tui"
	"github.com/vovakirdan/superbreak/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a game of superbreak.

Controls:
  Mouse       - Move the paddle
  Left/A      - Nudge the paddle left
  Right/D     - Nudge the paddle right
  P/Esc       - Pause
  R           - Restart
  Ctrl+S      - Save a screenshot
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - Slower ball, wider paddle
  normal - Configuration as loaded
  hard   - Faster ball, narrower paddle

Examples:
  superbreak play
  superbreak play --difficulty easy
  superbreak play --config ./my-superbreak.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	gameCfg, err := loadConfig()
	if err != nil {
		fatalf("%v", err)
	}

	logger, closer := openLogger("superbreak")
	defer closer.Close()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
	}

	game, err := superbreak.New(gameCfg, superbreak.WithLogger(logger))
	if err != nil {
		fatalf("creating game: %v", err)
	}

	opts := tui.Options{
		Logger:   logger,
		MaxDelta: gameCfg.Timing.MaxDelta,
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
	} else {
		opts.Store = store
	}

	logger.Info("game started", "screen_w", width, "screen_h", height, "difficulty", flagDifficulty)
	runErr := tui.Run(game, cfg, opts)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		closer.Close()
		fatalf("running game: %v", runErr)
	}
	logger.Info("game ended", "score", game.State().Score)
}
