package cli

import (
	"fmt"
	"strings"

	"github.com/justinabrahms/checkers/internal/checkers"
)

// RenderBoard draws the board with the selected piece in brackets and its
// legal destinations marked with '*'.
func RenderBoard(g *checkers.Game) string {
	b := g.Board()
	selected, hasSelection := g.Selected()
	targets := make(map[checkers.Square]bool)
	for _, sq := range g.ValidMoves() {
		targets[sq] = true
	}

	var sb strings.Builder
	sb.WriteString("    ")
	for col := 0; col < checkers.Size; col++ {
		fmt.Fprintf(&sb, " %d ", col)
	}
	sb.WriteString("\n")

	for row := 0; row < checkers.Size; row++ {
		fmt.Fprintf(&sb, " %d  ", row)
		for col := 0; col < checkers.Size; col++ {
			sq := checkers.Square{Row: row, Col: col}
			cell := " "
			switch p, ok := b.Piece(row, col); {
			case ok:
				cell = p.String()
			case targets[sq]:
				cell = "*"
			case checkers.IsDarkSquare(row, col):
				cell = "."
			}
			if hasSelection && sq == selected {
				fmt.Fprintf(&sb, "[%s]", cell)
			} else {
				fmt.Fprintf(&sb, " %s ", cell)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// StatusLine summarizes whose turn it is or who won.
func StatusLine(g *checkers.Game) string {
	if g.IsGameOver() {
		winner := g.Winner()
		if winner == checkers.NoColor {
			winner = g.CurrentPlayer().Opponent()
		}
		return fmt.Sprintf("Game over: %s wins", winner)
	}

	line := fmt.Sprintf("%s to move", g.CurrentPlayer())
	if g.MustCapture() {
		line += " (capture required)"
	}
	if sel, ok := g.Selected(); ok {
		line += fmt.Sprintf(", selected %s", sel)
	}
	return line
}
