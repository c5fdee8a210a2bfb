package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/superbreak/internal/storage"
)

type fakeScores struct {
	entries []storage.ScoreEntry
	stats   *storage.GameStats
	err     error
}

func (f fakeScores) TopScores(string, int) ([]storage.ScoreEntry, error) {
	return f.entries, f.err
}

func (f fakeScores) GetGameStats(string) (*storage.GameStats, error) {
	return f.stats, f.err
}

func TestScoreRows(t *testing.T) {
	at := time.Date(2024, 3, 9, 18, 5, 0, 0, time.UTC)
	rows := scoreRows([]storage.ScoreEntry{
		{Score: 520, Destroyed: 32, Total: 32, FullClear: true, CreatedAt: at},
		{Score: 60, CreatedAt: at},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"#1", "520", "32/32", "yes", "Mar 09 18:05"}, []string(rows[0]))
	assert.Equal(t, []string{"#2", "60", "-", "", "Mar 09 18:05"}, []string(rows[1]))
}

func TestScoreboardView(t *testing.T) {
	src := fakeScores{
		entries: []storage.ScoreEntry{{Score: 140, Destroyed: 3, Total: 32, CreatedAt: time.Now()}},
		stats:   &storage.GameStats{GamesCount: 1, HighScore: 140, AvgScore: 140},
	}
	m := NewScoreboardModel(src, "superbreak", "Superbreak", 80, 24)

	view := m.View()
	assert.Contains(t, view, "HIGH SCORES - Superbreak")
	assert.Contains(t, view, "1 games")
	assert.Contains(t, view, "140")
}

func TestScoreboardEmptyAndError(t *testing.T) {
	empty := NewScoreboardModel(fakeScores{stats: &storage.GameStats{}}, "superbreak", "Superbreak", 80, 24)
	assert.Contains(t, empty.View(), "No scores recorded yet.")

	broken := NewScoreboardModel(fakeScores{err: errors.New("locked")}, "superbreak", "Superbreak", 80, 24)
	assert.Contains(t, broken.View(), "Error: locked")
}

func TestScoreboardQuit(t *testing.T) {
	m := NewScoreboardModel(nil, "superbreak", "Superbreak", 80, 24)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotNil(t, cmd)
	assert.Empty(t, next.View())
}
