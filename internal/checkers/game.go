package checkers

// Game is the turn state machine. It owns its board and enforces forced
// captures, chain captures, promotion and game over. All operations either
// succeed and mutate the game or are rejected and leave it untouched.
type Game struct {
	board       *Board
	current     Color
	selected    *Square
	validMoves  []Square
	mustCapture bool
	winner      Color
}

// NewGame starts a game from the standard position with FirstPlayer to move.
func NewGame() *Game {
	return NewGameFromBoard(NewBoard(), FirstPlayer)
}

// NewGameFromBoard starts a game from an arbitrary position with toMove to
// move. The board is copied. If toMove has no legal move the game is already
// over.
func NewGameFromBoard(b *Board, toMove Color) *Game {
	g := &Game{
		board:   b.Clone(),
		current: toMove,
	}
	g.checkForCaptures()
	if !g.board.HasValidMoves(g.current) {
		g.winner = g.current.Opponent()
	}
	return g
}

// CreateNewGame returns the snapshot of a freshly started game.
func CreateNewGame() Snapshot {
	return NewGame().Snapshot()
}

// Board returns a copy of the current position.
func (g *Game) Board() *Board {
	return g.board.Clone()
}

func (g *Game) CurrentPlayer() Color {
	return g.current
}

// Selected returns the selected square, if any.
func (g *Game) Selected() (Square, bool) {
	if g.selected == nil {
		return Square{}, false
	}
	return *g.selected, true
}

// ValidMoves returns the legal destinations of the selected piece.
func (g *Game) ValidMoves() []Square {
	return append([]Square(nil), g.validMoves...)
}

func (g *Game) MustCapture() bool {
	return g.mustCapture
}

// Winner returns the winning color or NoColor while the game is running.
func (g *Game) Winner() Color {
	return g.winner
}

// IsGameOver reports whether the player to move has no legal move.
func (g *Game) IsGameOver() bool {
	return g.winner != NoColor || !g.board.HasValidMoves(g.current)
}

func (g *Game) Status() GameStatus {
	switch g.winner {
	case Red:
		return StatusRedWon
	case Black:
		return StatusBlackWon
	default:
		return StatusActive
	}
}

func (g *Game) Phase() Phase {
	switch {
	case g.IsGameOver():
		return PhaseGameOver
	case g.selected != nil:
		return PhasePieceSelected
	default:
		return PhaseNoSelection
	}
}

// pieceMoves returns the destinations of the current player's piece at
// (row, col), or nil if the square does not hold one.
func (g *Game) pieceMoves(row, col int, captureOnly bool) []Square {
	piece, ok := g.board.Piece(row, col)
	if !ok || piece.Color != g.current {
		return nil
	}
	return g.board.ValidMoves(row, col, captureOnly)
}

func (g *Game) checkForCaptures() bool {
	g.mustCapture = g.board.HasCaptures(g.current)
	return g.mustCapture
}

// SelectPiece selects the current player's piece at (row, col). While a
// capture is available anywhere for the current player only pieces that can
// capture may be selected, and only their captures are offered.
func (g *Game) SelectPiece(row, col int) bool {
	if g.IsGameOver() {
		return false
	}
	piece, ok := g.board.Piece(row, col)
	if !ok || piece.Color != g.current {
		return false
	}

	var moves []Square
	if g.mustCapture {
		moves = g.pieceMoves(row, col, true)
		if len(moves) == 0 {
			return false
		}
	} else {
		moves = g.pieceMoves(row, col, false)
	}

	g.selected = &Square{Row: row, Col: col}
	g.validMoves = moves
	return true
}

// AttemptMove moves the selected piece to (row, col) if that is one of its
// legal destinations. After a jump the same piece must keep jumping while it
// can; the turn passes only once the chain is exhausted.
func (g *Game) AttemptMove(row, col int) bool {
	if g.selected == nil || g.IsGameOver() {
		return false
	}
	to := Square{Row: row, Col: col}
	if !containsSquare(g.validMoves, to) {
		return false
	}

	from := *g.selected
	_, captured := g.board.ApplyMove(from, to)
	g.board.PromoteIfEligible(to.Row, to.Col)

	if captured {
		if next := g.pieceMoves(to.Row, to.Col, true); len(next) > 0 {
			g.selected = &to
			g.validMoves = next
			return true
		}
	}

	g.endTurn()
	return true
}

func (g *Game) endTurn() {
	g.current = g.current.Opponent()
	g.selected = nil
	g.validMoves = nil
	g.checkForCaptures()

	if !g.board.HasValidMoves(g.current) {
		g.winner = g.current.Opponent()
	}
}
