package checkers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type playStep struct {
	selectRow, selectCol int
	moveRow, moveCol     int
}

// playSnapshots returns the snapshot after each operation of a short opening
// and of a double jump, so the list includes selections, a mid-chain position
// and turn changes.
func playSnapshots(t *testing.T) []Snapshot {
	t.Helper()
	var snaps []Snapshot
	play := func(g *Game, steps []playStep) {
		snaps = append(snaps, g.Snapshot())
		for _, step := range steps {
			if step.selectRow >= 0 {
				require.True(t, g.SelectPiece(step.selectRow, step.selectCol))
				snaps = append(snaps, g.Snapshot())
			}
			require.True(t, g.AttemptMove(step.moveRow, step.moveCol))
			snaps = append(snaps, g.Snapshot())
		}
	}

	play(NewGame(), []playStep{
		{5, 2, 4, 3},
		{2, 5, 3, 4},
		{4, 3, 2, 5},
	})
	play(chainGame(t), []playStep{
		{5, 0, 3, 2},
		{-1, -1, 1, 4},
	})
	return snaps
}

// chainGame has red to move with a double jump from (5,0) over (4,1) and
// (2,3).
func chainGame(t *testing.T) *Game {
	return gameFrom(t, Red, map[Square]Piece{
		sq(5, 0): man(Red),
		sq(4, 1): man(Black),
		sq(2, 3): man(Black),
		sq(0, 7): man(Black),
	})
}

func TestLoadContinuesChainCapture(t *testing.T) {
	g := chainGame(t)
	require.True(t, g.SelectPiece(5, 0))
	require.True(t, g.AttemptMove(3, 2))

	data, err := json.Marshal(g.Snapshot())
	require.NoError(t, err)
	snap, err := ParseSnapshot(data)
	require.NoError(t, err)
	require.NotNil(t, snap.SelectedPiece)
	assert.Equal(t, sq(3, 2), *snap.SelectedPiece)
	assert.Equal(t, Red, snap.CurrentPlayer)
	assert.True(t, snap.MustCapture)

	loaded, err := Load(snap)
	require.NoError(t, err)
	assert.Equal(t, snap, loaded.Snapshot())

	assert.False(t, loaded.AttemptMove(2, 1), "only the jump continues the chain")
	require.True(t, loaded.AttemptMove(1, 4))
	assert.Equal(t, Black, loaded.CurrentPlayer())
	assert.Equal(t, 1, loaded.Board().Count(Black))
	_, selected := loaded.Selected()
	assert.False(t, selected)
}

func TestSnapshotJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(CreateNewGame())
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &parsed))

	for _, field := range []string{"board", "current_player", "selected_piece", "valid_moves", "must_capture", "winner"} {
		assert.Contains(t, parsed, field)
	}
	assert.Equal(t, "red", parsed["current_player"])
	assert.Nil(t, parsed["selected_piece"])
	assert.Nil(t, parsed["winner"])
	assert.Equal(t, false, parsed["must_capture"])
	assert.Equal(t, []interface{}{}, parsed["valid_moves"])

	board := parsed["board"].([]interface{})
	require.Len(t, board, Size)
	row0 := board[0].([]interface{})
	assert.Nil(t, row0[0])
	assert.Equal(t, map[string]interface{}{"color": "black", "king": false}, row0[1])
}

func TestSnapshotSelectionEncoding(t *testing.T) {
	g := NewGame()
	require.True(t, g.SelectPiece(5, 0))

	data, err := json.Marshal(g.Snapshot())
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, []interface{}{float64(5), float64(0)}, parsed["selected_piece"])
	assert.Equal(t, []interface{}{[]interface{}{float64(4), float64(1)}}, parsed["valid_moves"])
}

func TestSnapshotRoundTrip(t *testing.T) {
	for i, snap := range playSnapshots(t) {
		g, err := Load(snap)
		require.NoError(t, err, "snapshot %d", i)
		assert.Equal(t, snap, g.Snapshot(), "snapshot %d", i)

		data, err := json.Marshal(snap)
		require.NoError(t, err)
		parsed, err := ParseSnapshot(data)
		require.NoError(t, err)
		assert.Equal(t, snap, parsed, "snapshot %d", i)

		again, err := json.Marshal(parsed)
		require.NoError(t, err)
		assert.JSONEq(t, string(data), string(again))
	}
}

func TestLoadedGameContinues(t *testing.T) {
	g := NewGame()
	require.True(t, g.SelectPiece(5, 2))

	loaded, err := Load(g.Snapshot())
	require.NoError(t, err)
	require.True(t, loaded.AttemptMove(4, 1))
	assert.Equal(t, Black, loaded.CurrentPlayer())
}

func TestSnapshotIsDetached(t *testing.T) {
	g := NewGame()
	snap := g.Snapshot()
	snap.Board[5][0].King = true

	p, _ := g.Board().Piece(5, 0)
	assert.False(t, p.King)
}

func TestParseSnapshotRejectsMalformedInput(t *testing.T) {
	valid := func() map[string]interface{} {
		data, err := json.Marshal(CreateNewGame())
		require.NoError(t, err)
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	testCases := []struct {
		name   string
		mutate func(m map[string]interface{})
	}{
		{"short board", func(m map[string]interface{}) {
			m["board"] = m["board"].([]interface{})[:7]
		}},
		{"short row", func(m map[string]interface{}) {
			board := m["board"].([]interface{})
			board[3] = board[3].([]interface{})[:4]
		}},
		{"unknown color", func(m map[string]interface{}) {
			m["current_player"] = "white"
		}},
		{"missing current player", func(m map[string]interface{}) {
			delete(m, "current_player")
		}},
		{"piece on light square", func(m map[string]interface{}) {
			board := m["board"].([]interface{})
			board[4].([]interface{})[0] = map[string]interface{}{"color": "red", "king": false}
		}},
		{"piece without color", func(m map[string]interface{}) {
			board := m["board"].([]interface{})
			board[4].([]interface{})[1] = map[string]interface{}{"king": true}
		}},
		{"selection out of range", func(m map[string]interface{}) {
			m["selected_piece"] = []interface{}{8, 1}
		}},
		{"selection of opponent piece", func(m map[string]interface{}) {
			m["selected_piece"] = []interface{}{2, 1}
		}},
		{"selection with three coordinates", func(m map[string]interface{}) {
			m["selected_piece"] = []interface{}{5, 0, 1}
		}},
		{"moves without selection", func(m map[string]interface{}) {
			m["valid_moves"] = []interface{}{[]interface{}{4, 1}}
		}},
		{"move out of range", func(m map[string]interface{}) {
			m["selected_piece"] = []interface{}{5, 0}
			m["valid_moves"] = []interface{}{[]interface{}{4, -1}}
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := valid()
			tc.mutate(m)
			data, err := json.Marshal(m)
			require.NoError(t, err)

			_, err = ParseSnapshot(data)
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}

	_, err := ParseSnapshot([]byte("not json"))
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestParseSnapshotAcceptsMissingValidMoves(t *testing.T) {
	data, err := json.Marshal(CreateNewGame())
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	delete(m, "valid_moves")
	data, err = json.Marshal(m)
	require.NoError(t, err)

	s, err := ParseSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, []Square{}, s.ValidMoves)
}
