package checkers

import (
	"encoding/json"
	"fmt"
)

// Color identifies a side. The zero value means "no color" and is used for
// empty squares and for a game that has no winner yet.
type Color uint8

const (
	NoColor Color = iota
	Red
	Black
)

// FirstPlayer moves first in a new game.
const FirstPlayer = Red

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Black:
		return "black"
	default:
		return ""
	}
}

// Opponent returns the other side. NoColor has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case Red:
		return Black
	case Black:
		return Red
	default:
		return NoColor
	}
}

// ParseColor accepts the wire names "red" and "black".
func ParseColor(s string) (Color, error) {
	switch s {
	case "red":
		return Red, nil
	case "black":
		return Black, nil
	default:
		return NoColor, fmt.Errorf("unknown color %q", s)
	}
}

// MarshalJSON encodes NoColor as null so an unset winner serializes the way
// the snapshot format expects.
func (c Color) MarshalJSON() ([]byte, error) {
	if c == NoColor {
		return []byte("null"), nil
	}
	return json.Marshal(c.String())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = NoColor
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Direction is a unit diagonal step.
type Direction struct {
	DRow int
	DCol int
}

var (
	// Toward row 0, the black back rank.
	upDirections = []Direction{{-1, -1}, {-1, 1}}
	// Toward row 7, the red back rank.
	downDirections = []Direction{{1, -1}, {1, 1}}
)

// Piece is a single checker. The zero value is an empty square.
type Piece struct {
	Color Color `json:"color"`
	King  bool  `json:"king"`
}

// Empty reports whether p represents no piece.
func (p Piece) Empty() bool {
	return p.Color == NoColor
}

// Directions returns the unit diagonals p may move along. Red men move toward
// decreasing rows, black men toward increasing rows, kings in all four.
func (p Piece) Directions() []Direction {
	var dirs []Direction
	if p.Color == Red || p.King {
		dirs = append(dirs, upDirections...)
	}
	if p.Color == Black || p.King {
		dirs = append(dirs, downDirections...)
	}
	return dirs
}

// CanMoveDirection reports whether a displacement of (dRow, dCol) is diagonal
// and points in a direction p is allowed to travel.
func (p Piece) CanMoveDirection(dRow, dCol int) bool {
	if dRow == 0 || abs(dRow) != abs(dCol) {
		return false
	}
	if p.King {
		return true
	}
	switch p.Color {
	case Red:
		return dRow < 0
	case Black:
		return dRow > 0
	default:
		return false
	}
}

// PromotionRow is the row on which a man of p's color becomes a king.
func (p Piece) PromotionRow() int {
	if p.Color == Red {
		return 0
	}
	return Size - 1
}

func (p Piece) String() string {
	switch {
	case p.Color == Red && p.King:
		return "R"
	case p.Color == Red:
		return "r"
	case p.Color == Black && p.King:
		return "B"
	case p.Color == Black:
		return "b"
	default:
		return "."
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
