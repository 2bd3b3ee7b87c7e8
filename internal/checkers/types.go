package checkers

import (
	"encoding/json"
	"fmt"
)

// Size is the number of rows and columns on the board.
const Size = 8

type GameStatus string

const (
	StatusActive   GameStatus = "active"
	StatusRedWon   GameStatus = "red_won"
	StatusBlackWon GameStatus = "black_won"
)

// Phase is the turn protocol state of a game.
type Phase string

const (
	PhaseNoSelection   Phase = "no_selection"
	PhasePieceSelected Phase = "piece_selected"
	PhaseGameOver      Phase = "game_over"
)

// Square addresses a cell by row and column. It is encoded on the wire as a
// two element array [row, col].
type Square struct {
	Row int
	Col int
}

func (s Square) String() string {
	return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
}

// InBounds reports whether s lies on the board.
func (s Square) InBounds() bool {
	return InBounds(s.Row, s.Col)
}

func (s Square) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Row, s.Col})
}

func (s *Square) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("square must be a [row, col] array: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("square must have exactly 2 coordinates, got %d", len(pair))
	}
	s.Row, s.Col = pair[0], pair[1]
	return nil
}

func containsSquare(squares []Square, target Square) bool {
	for _, sq := range squares {
		if sq == target {
			return true
		}
	}
	return false
}
