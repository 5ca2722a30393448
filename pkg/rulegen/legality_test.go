package rulegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPathClear(t *testing.T) {
	occupied := map[Square]bool{"d4": true}
	assert.False(t, IsPathClear("d1", "d7", occupied))
	assert.True(t, IsPathClear("d1", "d3", occupied))
	assert.True(t, IsPathClear("a4", "c4", occupied))
	// Misaligned squares are never clear.
	assert.False(t, IsPathClear("d1", "e3", occupied))
}

func TestCanAttackWithPath_KnightIgnoresBlockers(t *testing.T) {
	occupied := map[Square]bool{"f2": true, "g2": true, "f3": true}
	assert.True(t, CanAttackWithPath("g1", "e2", Knight, occupied))
	assert.False(t, CanAttackWithPath("h1", "e1", Rook, map[Square]bool{"f1": true}))
}

func TestSquareUnderAttack(t *testing.T) {
	frame := NewFrame(map[Square]Piece{"e1": "K", "e8": "r"})
	assert.True(t, SquareUnderAttack("e1", Black, frame))

	// A blocker on the file cuts the attack off.
	blocked := NewFrame(map[Square]Piece{"e1": "K", "e4": "N", "e8": "r"})
	assert.False(t, SquareUnderAttack("e1", Black, blocked))

	// The blocker itself is attacked.
	assert.True(t, SquareUnderAttack("e4", Black, blocked))
}

func TestSquareUnderAttack_Pawn(t *testing.T) {
	frame := NewFrame(map[Square]Piece{"d5": "p"})
	assert.True(t, SquareUnderAttack("c4", Black, frame))
	assert.True(t, SquareUnderAttack("e4", Black, frame))
	assert.False(t, SquareUnderAttack("d4", Black, frame))
	assert.False(t, SquareUnderAttack("c6", Black, frame))

	white := NewFrame(map[Square]Piece{"d4": "P"})
	assert.True(t, SquareUnderAttack("e5", White, white))
	assert.False(t, SquareUnderAttack("e3", White, white))
}

func TestKingInCheck(t *testing.T) {
	frame := NewFrame(map[Square]Piece{"e1": "K", "h4": "b"})
	assert.True(t, KingInCheck("e1", White, frame))

	frame = NewFrame(map[Square]Piece{"e1": "K", "h5": "b"})
	assert.False(t, KingInCheck("e1", White, frame))
}

func TestCastlingPositionLegal(t *testing.T) {
	cfg, ok := CastlingConfigByName("white_kingside")
	require.True(t, ok)

	clear := NewFrame(map[Square]Piece{"e1": "K", "h1": "R"})
	assert.True(t, CastlingPositionLegal(clear, cfg, AllCheckRules))

	blocked := NewFrame(map[Square]Piece{"e1": "K", "g1": "N", "h1": "R"})
	assert.False(t, CastlingPositionLegal(blocked, cfg, AllCheckRules))

	missingRook := NewFrame(map[Square]Piece{"e1": "K"})
	assert.False(t, CastlingPositionLegal(missingRook, cfg, AllCheckRules))
}

func TestCastlingPositionLegal_CheckRuleSelection(t *testing.T) {
	cfg, ok := CastlingConfigByName("white_kingside")
	require.True(t, ok)

	// Black rook hits f1, the square the king crosses.
	frame := NewFrame(map[Square]Piece{"e1": "K", "h1": "R", "f8": "r"})

	assert.False(t, CastlingPositionLegal(frame, cfg, AllCheckRules))
	assert.False(t, CastlingPositionLegal(frame, cfg, CheckRules{ThroughCheck: true}))
	// With only the in-check and into-check rules enabled the crossing
	// square is not examined.
	assert.True(t, CastlingPositionLegal(frame, cfg, CheckRules{InCheck: true, IntoCheck: true}))
}

func TestCastlingRightsIntact(t *testing.T) {
	cfg, ok := CastlingConfigByName("white_kingside")
	require.True(t, ok)

	home := NewFrame(map[Square]Piece{"e1": "K", "h1": "R"})
	kingOff := NewFrame(map[Square]Piece{"e2": "K", "h1": "R"})

	assert.True(t, CastlingRightsIntact([]Frame{home, home, home}, cfg))
	// The king left home in a middle frame and came back: right is gone even
	// though the final position looks fine.
	assert.False(t, CastlingRightsIntact([]Frame{home, kingOff, home}, cfg))
}

func TestCastlingRightsIntact_SkipsResolvedFrame(t *testing.T) {
	cfg, ok := CastlingConfigByName("white_kingside")
	require.True(t, ok)

	home := NewFrame(map[Square]Piece{"e1": "K", "h1": "R"})
	resolved := NewFrame(map[Square]Piece{"g1": "K", "f1": "R"})
	assert.True(t, CastlingRightsIntact([]Frame{home, home, resolved}, cfg))
}

func TestCastlingLegal_Temporal(t *testing.T) {
	cfg, ok := CastlingConfigByName("white_kingside")
	require.True(t, ok)

	home := NewFrame(map[Square]Piece{"e1": "K", "h1": "R", "b4": "N"})
	kingOff := NewFrame(map[Square]Piece{"e2": "K", "h1": "R", "b4": "N"})
	rookOff := NewFrame(map[Square]Piece{"e1": "K", "h2": "R", "b4": "N"})

	assert.True(t, CastlingLegal([]Frame{home, home, home}, cfg, AllCheckRules))
	assert.False(t, CastlingLegal([]Frame{home, kingOff, home}, cfg, AllCheckRules))
	assert.False(t, CastlingLegal([]Frame{home, rookOff, home}, cfg, AllCheckRules))
	assert.False(t, CastlingLegal(nil, cfg, AllCheckRules))
}

func TestEnPassantEligible(t *testing.T) {
	// Black pawn double-steps d7 to d5 beside the white pawn on e5.
	prev := NewFrame(map[Square]Piece{"e5": "P", "d7": "p"})
	curr := NewFrame(map[Square]Piece{"e5": "P", "d5": "p"})
	assert.True(t, EnPassantEligible(prev, curr, "e5", "d5"))
}

func TestEnPassantEligible_SingleStep(t *testing.T) {
	// The pawn arrived on d5 from d6, not from its start rank.
	prev := NewFrame(map[Square]Piece{"e5": "P", "d6": "p"})
	curr := NewFrame(map[Square]Piece{"e5": "P", "d5": "p"})
	assert.False(t, EnPassantEligible(prev, curr, "e5", "d5"))
}

func TestEnPassantEligible_StalePosition(t *testing.T) {
	// Both frames show the pawn already on d5: the double step did not
	// happen on this transition.
	curr := NewFrame(map[Square]Piece{"e5": "P", "d5": "p"})
	assert.False(t, EnPassantEligible(curr, curr, "e5", "d5"))
}

func TestEnPassantEligible_NotAdjacent(t *testing.T) {
	prev := NewFrame(map[Square]Piece{"g5": "P", "d7": "p"})
	curr := NewFrame(map[Square]Piece{"g5": "P", "d5": "p"})
	assert.False(t, EnPassantEligible(prev, curr, "g5", "d5"))
}

func TestEnPassantEligible_WrongRank(t *testing.T) {
	prev := NewFrame(map[Square]Piece{"e4": "P", "d6": "p"})
	curr := NewFrame(map[Square]Piece{"e4": "P", "d4": "p"})
	assert.False(t, EnPassantEligible(prev, curr, "e4", "d4"))
}

func TestEnPassantExposesKing_FilePin(t *testing.T) {
	// Rook on e8 pins the e5 pawn against the king on e1: capturing d5 en
	// passant opens the file.
	frame := NewFrame(map[Square]Piece{"e1": "K", "e5": "P", "d5": "p", "e8": "r"})
	assert.True(t, EnPassantExposesKing(frame, "e5", "d5"))
}

func TestEnPassantExposesKing_RankCheck(t *testing.T) {
	// Rook on h5 and king on a5: removing both pawns from the fifth rank
	// leaves the king attacked.
	frame := NewFrame(map[Square]Piece{"a5": "K", "d5": "P", "e5": "p", "h5": "r"})
	assert.True(t, EnPassantExposesKing(frame, "d5", "e5"))
}

func TestEnPassantExposesKing_Safe(t *testing.T) {
	frame := NewFrame(map[Square]Piece{"a1": "K", "e5": "P", "d5": "p", "h8": "r"})
	assert.False(t, EnPassantExposesKing(frame, "e5", "d5"))
}

func TestValidateSupply(t *testing.T) {
	ok := NewFrame(map[Square]Piece{"e1": "K", "d1": "Q", "a1": "R", "h1": "R"})
	assert.NoError(t, ValidateSupply(ok))

	tooMany := NewFrame(map[Square]Piece{"a1": "Q", "b1": "Q", "e1": "K"})
	assert.Error(t, ValidateSupply(tooMany))
}
