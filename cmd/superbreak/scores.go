package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/superbreak/internal/games/superbreak"
	"github.com/vovakirdan/superbreak/internal/platform/tui"
	"github.com/vovakirdan/superbreak/internal/storage"
)

var (
	flagScoresTUI   bool
	flagScoresClear bool
	flagScoresLimit int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top superbreak scores.

Examples:
  superbreak scores
  superbreak scores --limit 25
  superbreak scores --tui
  superbreak scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores in an interactive table")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all recorded scores")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
}

func runScores(_ *cobra.Command, _ []string) {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatalf("opening scores database: %v", err)
	}
	defer store.Close()

	switch {
	case flagScoresClear:
		if err := store.ClearScores(superbreak.GameID); err != nil {
			store.Close()
			fatalf("clearing scores: %v", err)
		}
		fmt.Println("Scores cleared.")
		return

	case flagScoresTUI:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, superbreak.GameID, "Superbreak", width, height); err != nil {
			store.Close()
			fatalf("running scoreboard: %v", err)
		}
		return
	}

	scores, err := store.TopScores(superbreak.GameID, flagScoresLimit)
	if err != nil {
		store.Close()
		fatalf("retrieving scores: %v", err)
	}

	// Display scores
	fmt.Println("High Scores - Superbreak")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'superbreak play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-8s  %-5s  %s\n", "Rank", "Score", "Blocks", "Clear", "Date")
	fmt.Printf("  %-4s  %-8s  %-8s  %-5s  %s\n", "----", "-----", "------", "-----", "----")

	for i, entry := range scores {
		cleared := ""
		if entry.FullClear {
			cleared = "yes"
		}
		blocks := fmt.Sprintf("%d/%d", entry.Destroyed, entry.Total)
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-8s  %-5s  %s\n", i+1, entry.Score, blocks, cleared, dateStr)
	}

	// Show summary
	fmt.Println()
	if stats, err := store.GetGameStats(superbreak.GameID); err == nil {
		fmt.Printf("Best: %d  Games: %d  Full clears: %d\n", stats.HighScore, stats.GamesCount, stats.FullClears)
	}
}
