package rulegen

import (
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameFEN(t *testing.T) {
	frame := NewFrame(map[Square]Piece{"e1": "K", "e8": "k", "a2": "P"})
	assert.Equal(t, "4k3/8/8/8/8/8/P7/4K3 w - - 0 1", frame.FEN())
}

func TestFrameFEN_EmptyBoard(t *testing.T) {
	frame := NewFrame(map[Square]Piece{})
	assert.Equal(t, "8/8/8/8/8/8/8/8 w - - 0 1", frame.FEN())
}

func TestFrameFEN_ParsesDownstream(t *testing.T) {
	frame := NewFrame(map[Square]Piece{"e1": "K", "h1": "R", "e8": "k", "d5": "q"})
	fenFunc, err := chess.FEN(frame.FEN())
	require.NoError(t, err)
	game := chess.NewGame(fenFunc)
	assert.NotNil(t, game.Position())
}

// Cross-check the attack oracle against full move generation: a square the
// oracle calls attacked must be a reachable rook destination, and a blocked
// one must not be.
func TestSquareUnderAttack_MatchesMoveGeneration(t *testing.T) {
	open := NewFrame(map[Square]Piece{"a1": "R", "e1": "K", "h8": "k"})
	assert.True(t, SquareUnderAttack("a8", White, open))
	assert.True(t, hasMove(t, open, "a1", "a8"))

	blocked := NewFrame(map[Square]Piece{"a1": "R", "a4": "N", "e1": "K", "h8": "k"})
	assert.False(t, SquareUnderAttack("a8", White, blocked))
	assert.False(t, hasMove(t, blocked, "a1", "a8"))
}

func hasMove(t *testing.T, frame Frame, from, to string) bool {
	t.Helper()
	fenFunc, err := chess.FEN(frame.FEN())
	require.NoError(t, err)
	game := chess.NewGame(fenFunc)
	for _, m := range game.ValidMoves() {
		if m.S1().String() == from && m.S2().String() == to {
			return true
		}
	}
	return false
}
