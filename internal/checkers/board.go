package checkers

// Board is the 8x8 grid. Cells hold Piece values; the zero Piece is an empty
// cell. A Board is owned by exactly one Game and copied with Clone.
type Board struct {
	squares [Size][Size]Piece
}

// NewBoard returns a board in the standard starting position: black men on
// the dark squares of rows 0-2, red men on the dark squares of rows 5-7.
func NewBoard() *Board {
	b := &Board{}
	b.placeInitialPieces(Black, 0, 3)
	b.placeInitialPieces(Red, Size-3, Size)
	return b
}

// EmptyBoard returns a board with no pieces on it.
func EmptyBoard() *Board {
	return &Board{}
}

func (b *Board) placeInitialPieces(color Color, startRow, endRow int) {
	for row := startRow; row < endRow; row++ {
		for col := 0; col < Size; col++ {
			if IsDarkSquare(row, col) {
				b.squares[row][col] = Piece{Color: color}
			}
		}
	}
}

// IsDarkSquare reports whether (row, col) is a playable square.
func IsDarkSquare(row, col int) bool {
	return (row+col)%2 == 1
}

// InBounds reports whether (row, col) lies on the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// Piece returns the piece at (row, col). Out of bounds coordinates and empty
// cells both report false.
func (b *Board) Piece(row, col int) (Piece, bool) {
	if !InBounds(row, col) {
		return Piece{}, false
	}
	p := b.squares[row][col]
	return p, !p.Empty()
}

// Place puts p at (row, col), replacing whatever was there. It reports false
// for out of bounds coordinates.
func (b *Board) Place(row, col int, p Piece) bool {
	if !InBounds(row, col) {
		return false
	}
	b.squares[row][col] = p
	return true
}

// Remove clears (row, col).
func (b *Board) Remove(row, col int) {
	if InBounds(row, col) {
		b.squares[row][col] = Piece{}
	}
}

func (b *Board) occupied(row, col int) bool {
	_, ok := b.Piece(row, col)
	return ok
}

// CaptureTargets returns the landing squares of every jump available to the
// piece at (row, col), in the order of the piece's directions.
func (b *Board) CaptureTargets(row, col int) []Square {
	piece, ok := b.Piece(row, col)
	if !ok {
		return nil
	}

	var targets []Square
	for _, d := range piece.Directions() {
		landRow, landCol := row+2*d.DRow, col+2*d.DCol
		if !InBounds(landRow, landCol) || b.occupied(landRow, landCol) {
			continue
		}
		mid, ok := b.Piece(row+d.DRow, col+d.DCol)
		if ok && mid.Color != piece.Color {
			targets = append(targets, Square{Row: landRow, Col: landCol})
		}
	}
	return targets
}

// SimpleMoveTargets returns the adjacent empty squares the piece at (row, col)
// may step to, ignoring any captures.
func (b *Board) SimpleMoveTargets(row, col int) []Square {
	piece, ok := b.Piece(row, col)
	if !ok {
		return nil
	}

	var targets []Square
	for _, d := range piece.Directions() {
		toRow, toCol := row+d.DRow, col+d.DCol
		if InBounds(toRow, toCol) && !b.occupied(toRow, toCol) {
			targets = append(targets, Square{Row: toRow, Col: toCol})
		}
	}
	return targets
}

// ValidMoves returns the destinations of the piece at (row, col). Captures
// take precedence: if the piece has any, only captures are returned. With
// captureOnly set, simple moves are never returned.
func (b *Board) ValidMoves(row, col int, captureOnly bool) []Square {
	captures := b.CaptureTargets(row, col)
	if len(captures) > 0 || captureOnly {
		return captures
	}
	return b.SimpleMoveTargets(row, col)
}

// ApplyMove relocates the piece on from to to. If the move is a jump the
// jumped piece is removed and its square returned with captured set. ApplyMove
// does not check legality and does not promote; see PromoteIfEligible.
func (b *Board) ApplyMove(from, to Square) (capturedAt Square, captured bool) {
	if !from.InBounds() || !to.InBounds() {
		return Square{}, false
	}
	piece, ok := b.Piece(from.Row, from.Col)
	if !ok {
		return Square{}, false
	}

	b.squares[to.Row][to.Col] = piece
	b.squares[from.Row][from.Col] = Piece{}

	if abs(to.Row-from.Row) != 2 {
		return Square{}, false
	}
	mid := Square{Row: (from.Row + to.Row) / 2, Col: (from.Col + to.Col) / 2}
	b.Remove(mid.Row, mid.Col)
	return mid, true
}

// PromoteIfEligible crowns the piece at (row, col) if it stands on its
// promotion row. It reports whether a promotion happened. Kings stay kings.
func (b *Board) PromoteIfEligible(row, col int) bool {
	piece, ok := b.Piece(row, col)
	if !ok || piece.King || row != piece.PromotionRow() {
		return false
	}
	piece.King = true
	b.squares[row][col] = piece
	return true
}

// HasCaptures reports whether any piece of color has a jump available.
func (b *Board) HasCaptures(color Color) bool {
	return b.anyPiece(color, func(row, col int) bool {
		return len(b.CaptureTargets(row, col)) > 0
	})
}

// HasValidMoves reports whether any piece of color can move at all.
func (b *Board) HasValidMoves(color Color) bool {
	return b.anyPiece(color, func(row, col int) bool {
		return len(b.ValidMoves(row, col, false)) > 0
	})
}

func (b *Board) anyPiece(color Color, fn func(row, col int) bool) bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b.squares[row][col].Color == color && fn(row, col) {
				return true
			}
		}
	}
	return false
}

// Count returns the number of pieces of color on the board.
func (b *Board) Count(color Color) int {
	n := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b.squares[row][col].Color == color {
				n++
			}
		}
	}
	return n
}

// Clone returns an independent copy of b.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}
