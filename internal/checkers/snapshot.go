package checkers

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidSnapshot is returned when a snapshot does not describe a
// well-formed game.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is the persisted form of a Game. Its JSON encoding is the wire
// format shared with the session layer and must round-trip exactly.
type Snapshot struct {
	Board         [][]*Piece `json:"board"`
	CurrentPlayer Color      `json:"current_player"`
	SelectedPiece *Square    `json:"selected_piece"`
	ValidMoves    []Square   `json:"valid_moves"`
	MustCapture   bool       `json:"must_capture"`
	Winner        Color      `json:"winner"`
}

// Snapshot captures the full state of g.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Board:         make([][]*Piece, Size),
		CurrentPlayer: g.current,
		ValidMoves:    make([]Square, len(g.validMoves)),
		MustCapture:   g.mustCapture,
		Winner:        g.winner,
	}
	for row := 0; row < Size; row++ {
		s.Board[row] = make([]*Piece, Size)
		for col := 0; col < Size; col++ {
			if p, ok := g.board.Piece(row, col); ok {
				s.Board[row][col] = &p
			}
		}
	}
	if g.selected != nil {
		sel := *g.selected
		s.SelectedPiece = &sel
	}
	copy(s.ValidMoves, g.validMoves)
	return s
}

// Load rebuilds a Game from s. The snapshot's shape is checked once here so
// the engine can trust its own state afterwards.
func Load(s Snapshot) (*Game, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	g := &Game{
		board:       EmptyBoard(),
		current:     s.CurrentPlayer,
		validMoves:  append([]Square(nil), s.ValidMoves...),
		mustCapture: s.MustCapture,
		winner:      s.Winner,
	}
	for row, cells := range s.Board {
		for col, p := range cells {
			if p != nil {
				g.board.Place(row, col, *p)
			}
		}
	}
	if s.SelectedPiece != nil {
		sel := *s.SelectedPiece
		g.selected = &sel
	}
	return g, nil
}

// Validate checks the structural invariants of s: an 8x8 board with pieces
// of a known color on dark squares only, a known player to move, and
// in-range coordinates whose selection points at one of that player's pieces.
func (s Snapshot) Validate() error {
	if len(s.Board) != Size {
		return fmt.Errorf("%w: board has %d rows, want %d", ErrInvalidSnapshot, len(s.Board), Size)
	}
	for row, cells := range s.Board {
		if len(cells) != Size {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidSnapshot, row, len(cells), Size)
		}
		for col, p := range cells {
			if p == nil {
				continue
			}
			if p.Color != Red && p.Color != Black {
				return fmt.Errorf("%w: piece at (%d,%d) has no color", ErrInvalidSnapshot, row, col)
			}
			if !IsDarkSquare(row, col) {
				return fmt.Errorf("%w: piece at (%d,%d) is on a light square", ErrInvalidSnapshot, row, col)
			}
		}
	}

	if s.CurrentPlayer != Red && s.CurrentPlayer != Black {
		return fmt.Errorf("%w: current_player must be red or black", ErrInvalidSnapshot)
	}

	if sel := s.SelectedPiece; sel != nil {
		if !sel.InBounds() {
			return fmt.Errorf("%w: selected_piece %s out of range", ErrInvalidSnapshot, sel)
		}
		p := s.Board[sel.Row][sel.Col]
		if p == nil || p.Color != s.CurrentPlayer {
			return fmt.Errorf("%w: selected_piece %s does not hold a %s piece", ErrInvalidSnapshot, sel, s.CurrentPlayer)
		}
	} else if len(s.ValidMoves) > 0 {
		return fmt.Errorf("%w: valid_moves without a selected_piece", ErrInvalidSnapshot)
	}

	for _, sq := range s.ValidMoves {
		if !sq.InBounds() {
			return fmt.Errorf("%w: valid move %s out of range", ErrInvalidSnapshot, sq)
		}
	}
	return nil
}

// ParseSnapshot decodes and validates a JSON snapshot.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if s.ValidMoves == nil {
		s.ValidMoves = []Square{}
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}
