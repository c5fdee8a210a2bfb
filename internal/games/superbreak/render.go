package superbreak

import (
	"fmt"

	"github.com/vovakirdan/superbreak/internal/core"
	"github.com/vovakirdan/superbreak/internal/games/superbreak/surface"
)

// Visual characters for rendering
const (
	BlockChar  = '█'
	PaddleChar = '▀'
	BallChar   = '●'
)

// Render draws the current frame.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.view.tooSmall() {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small", core.ColorDefault)
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH), core.ColorGray)
		return
	}

	g.renderBlocks(dst)
	g.renderObstacle(dst, g.session.Paddle(), PaddleChar, core.ColorWhite)
	g.renderBall(dst)
	g.renderHUD(dst)
	g.renderOverlay(dst)
}

func (g *Game) renderBlocks(dst *core.Screen) {
	grid := g.session.Grid()
	for _, b := range g.last.Blocks {
		o := grid.At(b.Key.Row, b.Key.Col)
		if o == nil {
			continue
		}
		g.renderObstacle(dst, *o, BlockChar, core.RowColor(b.Key.Row))
	}
}

// renderObstacle fills every cell whose center lies inside the superellipse.
// Shapes thinner than a cell still get their center cell.
func (g *Game) renderObstacle(dst *core.Screen, o surface.Obstacle, glyph rune, color core.Color) {
	r := g.view.cellRect(o.Bounds())
	drawn := false
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			if o.Contains(g.view.worldPoint(x, y)) {
				g.plot(dst, x, y, glyph, color)
				drawn = true
			}
		}
	}
	if !drawn {
		x, y := g.view.cellOf(o.Center())
		g.plot(dst, x, y, glyph, color)
	}
}

func (g *Game) renderBall(dst *core.Screen) {
	ball := g.session.Ball()
	r := g.view.cellRect(ball.Bounds())
	r2 := ball.Radius * ball.Radius
	drawn := false
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			if g.view.worldPoint(x, y).Sub(ball.Pos).LenSq() <= r2 {
				g.plot(dst, x, y, BallChar, core.ColorYellow)
				drawn = true
			}
		}
	}
	if !drawn {
		x, y := g.view.cellOf(ball.Pos)
		g.plot(dst, x, y, BallChar, core.ColorYellow)
	}
}

// plot draws inside the play field only, so nothing leaks into the HUD.
func (g *Game) plot(dst *core.Screen, x, y int, glyph rune, color core.Color) {
	if g.view.inField(x, y) {
		dst.SetColored(x, y, glyph, color)
	}
}

// renderHUD draws score, combo and block count on the top row.
func (g *Game) renderHUD(dst *core.Screen) {
	dst.DrawText(1, 0, fmt.Sprintf("Score: %d", g.last.Score))

	if g.last.Combo > 1 {
		dst.DrawTextCentered(0, fmt.Sprintf("Combo x%d", g.last.Combo), core.ColorOrange)
	}

	blocks := fmt.Sprintf("Blocks: %d/%d", g.last.Destroyed, g.last.Total)
	dst.DrawText(dst.Width()-len(blocks)-1, 0, blocks)
}

func (g *Game) renderOverlay(dst *core.Screen) {
	var title, hint string
	var color core.Color

	switch {
	case g.last.Paused:
		title, hint, color = "PAUSED", "p to resume", core.ColorCyan
	case g.last.FullWin:
		title, hint, color = fmt.Sprintf("All blocks destroyed! Score: %d", g.last.Score), "r to play again", core.ColorGreen
	case g.last.PartialWin:
		title, hint, color = "You broke out!", "Destroy every block for a higher score", core.ColorBlue
	default:
		return
	}

	mid := dst.Height() / 2
	w := core.Clamp(max(len([]rune(title)), len([]rune(hint)))+4, 0, dst.Width())
	box := core.NewRect((dst.Width()-w)/2, mid-1, w, 4)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, color)

	dst.DrawTextCentered(mid, title, color)
	dst.DrawTextCentered(mid+1, hint, core.ColorGray)
}
