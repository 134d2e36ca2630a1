package img2ascii

import (
	"strconv"
	"strings"

	"github.com/wbrown/img2ascii/imageutil"
)

// ESC starts an ANSI escape sequence.
const ESC = "\u001b"

// Grid is the character-mapped image: one ramp index per pixel, row-major.
// Colors, when present, holds the source color of each cell for colored
// renderers.
type Grid struct {
	Width  int
	Height int
	Cells  []int
	Ramp   Ramp
	Colors []imageutil.RGB
}

// At returns the glyph at column x, row y.
func (g *Grid) At(x, y int) rune {
	return g.Ramp[g.Cells[y*g.Width+x]]
}

// Rows returns each row as a string of glyphs, without spacers.
func (g *Grid) Rows() []string {
	rows := make([]string, g.Height)
	for y := range rows {
		var sb strings.Builder
		for x := 0; x < g.Width; x++ {
			sb.WriteRune(g.At(x, y))
		}
		rows[y] = sb.String()
	}
	return rows
}

// Text renders the grid as plain text: every glyph is followed by spacer
// and every row, the last included, ends in a newline.
func (g *Grid) Text(spacer string) string {
	var sb strings.Builder
	sb.Grow(g.Height * (g.Width*(4+len(spacer)) + 1))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			sb.WriteRune(g.At(x, y))
			sb.WriteString(spacer)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ANSI renders the grid with 24-bit foreground colors taken from the
// source pixels. Consecutive cells sharing a color share one escape, and
// every row ends with a reset. Without colors it degrades to Text.
func (g *Grid) ANSI(spacer string) string {
	if len(g.Colors) != len(g.Cells) {
		return g.Text(spacer)
	}
	var sb strings.Builder
	for y := 0; y < g.Height; y++ {
		var current string
		for x := 0; x < g.Width; x++ {
			code := fgCode(g.Colors[y*g.Width+x])
			if code != current {
				writeANSICode(&sb, code)
				current = code
			}
			sb.WriteRune(g.At(x, y))
			sb.WriteString(spacer)
		}
		// Reset colors at the end of each line
		sb.WriteString(ESC + "[0m\n")
	}
	return sb.String()
}

// fgCode formats a 24-bit foreground SGR parameter list.
func fgCode(c imageutil.RGB) string {
	var b strings.Builder
	b.WriteString("38;2;")
	b.WriteString(strconv.Itoa(int(c.R)))
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(int(c.G)))
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(int(c.B)))
	return b.String()
}

func writeANSICode(sb *strings.Builder, code string) {
	sb.WriteString(ESC)
	sb.WriteByte('[')
	sb.WriteString(code)
	sb.WriteByte('m')
}
