package core

// Color is a foreground color for a screen cell. The platform layer maps it
// to an ANSI code.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
)

// rowPalette cycles by block row, top to bottom.
var rowPalette = []Color{ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorCyan, ColorBlue, ColorMagenta}

// RowColor returns the palette color for a block row.
func RowColor(row int) Color {
	if row < 0 {
		row = -row
	}
	return rowPalette[row%len(rowPalette)]
}
