// superbreak is a breakout game played with superellipse blocks and paddle,
// rendered in the terminal.
//
// Usage:
//
//	superbreak play          - Play a game
//	superbreak serve         - Start SSH server for remote play
//	superbreak scores        - Show high scores
//	superbreak sim           - Run a headless simulation
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--db <path>           - Set database path (default: ~/.superbreak/scores.db)
//	--log <path>          - Set log file path (default: ~/.superbreak/superbreak.log)
//	--config <path>       - Use a custom game config YAML
//	--difficulty <preset> - easy, normal or hard
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/superbreak/internal/config"
)

var (
	// Global flags
	flagFPS        int
	flagDBPath     string
	flagLogPath    string
	flagConfig     string
	flagDifficulty string
	flagDebug      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "superbreak",
	Short: "Superbreak - breakout with superellipses in your terminal",
	Long: `Superbreak is a breakout game where the blocks and the paddle are
superellipses. Steer the paddle with the mouse or the arrow keys, keep
combos going between paddle touches and clear every block for a bonus.

Available commands:
  play     - Play a game
  serve    - Start SSH server for remote play
  scores   - View high scores
  sim      - Run a headless simulation
  config   - Print the effective game configuration

Examples:
  superbreak play
  superbreak play --difficulty hard
  superbreak serve --ssh :2222
  superbreak scores
  superbreak sim --ticks 6000`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.superbreak/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "~/.superbreak/superbreak.log", "Path to log file")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log every block hit")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the game configuration and applies the difficulty preset.
func loadConfig() (config.Config, error) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	config.ApplyPreset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openLogger opens the log file. The terminal is owned by the game, so logs
// never go to stdout while playing. Falls back to discarding on error.
func openLogger(prefix string) (*log.Logger, io.Closer) {
	level := log.InfoLevel
	if flagDebug {
		level = log.DebugLevel
	}

	var out io.Writer = io.Discard
	var closer io.Closer = io.NopCloser(nil)
	if path := expandHome(flagLogPath); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			// #nosec G304 -- path comes from the user's own flag
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600); err == nil {
				out, closer = f, f
			}
		}
	}

	return log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), closer
}

// expandHome resolves a leading ~ in a path.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, path[1:])
}

// fatalf prints an error and exits.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
