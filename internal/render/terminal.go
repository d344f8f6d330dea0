package render

import (
	"fmt"
	"unicode/utf8"

	"github.com/daniacca/metabocell/internal/cellular"
	"github.com/gdamore/tcell/v2"
)

// EmptyGlyph marks a position without a cell.
const EmptyGlyph = '·'

// TerminalView draws tissue snapshots on a tcell screen, one glyph per
// position followed by a status line.
type TerminalView struct {
	screen       tcell.Screen
	styles       map[cellular.CellState]tcell.Style
	defaultStyle tcell.Style
}

// NewTerminalView wraps an initialized screen.
func NewTerminalView(screen tcell.Screen) *TerminalView {
	return &TerminalView{
		screen: screen,
		styles: map[cellular.CellState]tcell.Style{
			cellular.Healthy:   tcell.StyleDefault.Foreground(tcell.ColorGreen),
			cellular.Cancerous: tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
		},
		defaultStyle: tcell.StyleDefault.Foreground(tcell.ColorYellow),
	}
}

// SetStyle overrides the style used for a state.
func (v *TerminalView) SetStyle(state cellular.CellState, style tcell.Style) {
	v.styles[state] = style
}

// StyleFor returns the style used to draw a state.
func (v *TerminalView) StyleFor(state cellular.CellState) tcell.Style {
	if style, ok := v.styles[state]; ok {
		return style
	}
	return v.defaultStyle
}

// Glyph is the first letter of the state name.
func Glyph(state cellular.CellState) rune {
	r, _ := utf8.DecodeRuneInString(string(state))
	if r == utf8.RuneError {
		return '?'
	}
	return r
}

// Draw renders the snapshot at the top-left corner and shows the screen.
func (v *TerminalView) Draw(snap cellular.TissueSnapshot) {
	v.screen.Clear()

	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for y := range snap.Height {
		for x := range snap.Width {
			v.screen.SetContent(x, y, EmptyGlyph, nil, dim)
		}
	}
	for _, c := range snap.Cells {
		v.screen.SetContent(c.X, c.Y, Glyph(c.State), nil, v.StyleFor(c.State))
	}

	status := fmt.Sprintf("tick %d  cells %d  energy %d", snap.Tick, len(snap.Cells), snap.TotalEnergy)
	v.drawText(0, snap.Height, status, tcell.StyleDefault)
	v.screen.Show()
}

func (v *TerminalView) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
