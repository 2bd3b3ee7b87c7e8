package web

import (
	"github.com/justinabrahms/checkers/internal/checkers"
)

// GameView is the snapshot plus the derived fields a client needs to render
// the game without running the rules itself.
type GameView struct {
	checkers.Snapshot
	GameOver    bool                `json:"game_over"`
	Status      checkers.GameStatus `json:"status"`
	Phase       checkers.Phase      `json:"phase"`
	RedPieces   int                 `json:"red_pieces"`
	BlackPieces int                 `json:"black_pieces"`
}

func newGameView(snap checkers.Snapshot) (GameView, error) {
	g, err := checkers.Load(snap)
	if err != nil {
		return GameView{}, err
	}
	b := g.Board()
	return GameView{
		Snapshot:    snap,
		GameOver:    g.IsGameOver(),
		Status:      g.Status(),
		Phase:       g.Phase(),
		RedPieces:   b.Count(checkers.Red),
		BlackPieces: b.Count(checkers.Black),
	}, nil
}

// SquareRequest names a board square. Pointers distinguish a missing
// coordinate from 0.
type SquareRequest struct {
	Row *int `json:"row" validate:"required,min=0,max=7"`
	Col *int `json:"col" validate:"required,min=0,max=7"`
}

// OperationResponse reports whether a select or move was accepted. Rejected
// operations still return the unchanged game.
type OperationResponse struct {
	Accepted bool     `json:"accepted"`
	Game     GameView `json:"game"`
}
