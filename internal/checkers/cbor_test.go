package checkers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCBORRoundTrip(t *testing.T) {
	for i, snap := range playSnapshots(t) {
		data, err := EncodeCBOR(snap)
		require.NoError(t, err)

		decoded, err := DecodeCBOR(data)
		require.NoError(t, err)
		assert.Equal(t, snap, decoded, "snapshot %d", i)
	}
}

func TestCBORRoundTripWithWinnerAndKings(t *testing.T) {
	b := EmptyBoard()
	b.Place(7, 6, king(Red))
	b.Place(6, 7, man(Black))
	snap := NewGameFromBoard(b, Black).Snapshot()
	require.Equal(t, Red, snap.Winner)

	data, err := EncodeCBOR(snap)
	require.NoError(t, err)
	decoded, err := DecodeCBOR(data)
	require.NoError(t, err)
	assert.Equal(t, snap, decoded)
}

func TestDecodeCBORRejectsGarbage(t *testing.T) {
	_, err := DecodeCBOR([]byte{0xff, 0x00, 0x13})
	assert.ErrorIs(t, err, ErrInvalidSnapshot)

	snap := CreateNewGame()
	snap.Board = snap.Board[:3]
	data, err := EncodeCBOR(snap)
	require.NoError(t, err)
	_, err = DecodeCBOR(data)
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}
