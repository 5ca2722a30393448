package rulegen

import (
	"fmt"
	"math/rand"
)

// MovementGenerator produces basic movement-legality cases: one piece on an
// otherwise empty board and a question about a single move. Predictive mode
// shows one frame with the target highlighted; explicit mode shows the move
// performed across two frames.
type MovementGenerator struct {
	Mode Mode
}

func (g MovementGenerator) Family() string { return "basic_movement" }

var movementPieceTypes = []PieceType{Knight, Bishop, Rook, Queen, King, Pawn}

func (g MovementGenerator) Generate(n int, rng *rand.Rand) []Case {
	var all []Case
	counts := splitCounts(n, len(movementPieceTypes))

	for i, pt := range movementPieceTypes {
		nValid := counts[i] / 2
		nInvalid := counts[i] - nValid

		all = append(all, fill(nValid, func(caseNum int) *Case {
			return g.propose(rng, pt, true, caseNum)
		})...)
		all = append(all, fill(nInvalid, func(caseNum int) *Case {
			return g.propose(rng, pt, false, caseNum)
		})...)
	}

	shuffleCases(all, rng)
	return all
}

// moveLegal is the validation oracle for this family: single-piece move
// geometry on an empty board. Pawns move forward one step, or two from their
// start rank; every other type follows its attack geometry.
func moveLegal(from, to Square, t PieceType, c Color) bool {
	if !to.Valid() || from == to {
		return false
	}
	if t != Pawn {
		return CanAttack(from, to, t)
	}
	dir, startRank := 1, 1
	if c == Black {
		dir, startRank = -1, 6
	}
	if to.File() != from.File() {
		return false
	}
	dr := (to.Rank() - from.Rank()) * dir
	if dr == 1 {
		return true
	}
	return dr == 2 && from.Rank() == startRank
}

func (g MovementGenerator) propose(rng *rand.Rand, pt PieceType, valid bool, caseNum int) *Case {
	color := pickColor(rng)

	var start, target Square
	found := false
	for i := 0; i < 100; i++ {
		start = g.startSquare(rng, pt, color)
		var ok bool
		if valid {
			target, ok = g.validTarget(rng, pt, color, start)
		} else {
			target, ok = g.invalidTarget(rng, pt, color, start)
		}
		if ok && target != start && moveLegal(start, target, pt, color) == valid {
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	piece := NewPiece(pt, color)
	subtype := "invalid"
	expected := AnswerNo
	if valid {
		subtype = "valid"
		expected = AnswerYes
	}

	c := Case{
		CaseID:    fmt.Sprintf("L1_%s_%s_%d", pt, subtype, caseNum),
		Type:      "basic_movement",
		Subtype:   subtype,
		PieceType: pt.String(),
		Expected:  expected,
		Reasoning: movementReasoning(pt, start, target, valid),
	}

	switch g.Mode {
	case ModeExplicit:
		c.States = []Frame{
			NewFrame(map[Square]Piece{start: piece}),
			NewFrame(map[Square]Piece{target: piece}),
		}
		c.Question = "Is this a legal move according to chess rules?"
	default:
		c.States = []Frame{
			NewFrame(map[Square]Piece{start: piece}, target),
		}
		c.Question = fmt.Sprintf("Can the %s at %s move to %s?", pt.Title(), start, target)
	}
	return &c
}

func (g MovementGenerator) startSquare(rng *rand.Rand, pt PieceType, c Color) Square {
	if pt != Pawn {
		return randomSquare(rng)
	}
	// Keep pawns off the back ranks and away from promotion.
	var rank int
	if c == White {
		rank = 1 + rng.Intn(5) // ranks 2-6
	} else {
		rank = 2 + rng.Intn(5) // ranks 3-7
	}
	sq, _ := NewSquare(rng.Intn(8), rank)
	return sq
}

func (g MovementGenerator) validTarget(rng *rand.Rand, pt PieceType, c Color, start Square) (Square, bool) {
	switch pt {
	case Knight:
		moves := knightMoves(start, nil)
		if len(moves) == 0 {
			return "", false
		}
		return pick(rng, moves), true
	case Bishop:
		d := 1 + rng.Intn(5)
		off := pick(rng, diagonalOffsets[:])
		return start.Offset(off[0]*d, off[1]*d)
	case Rook:
		d := (1 + rng.Intn(6)) * (rng.Intn(2)*2 - 1)
		if rng.Intn(2) == 0 {
			return start.Offset(d, 0)
		}
		return start.Offset(0, d)
	case Queen:
		if rng.Intn(2) == 0 {
			return g.validTarget(rng, Rook, c, start)
		}
		return g.validTarget(rng, Bishop, c, start)
	case King:
		off := pick(rng, kingOffsets[:])
		return start.Offset(off[0], off[1])
	default: // pawn
		dir := 1
		if c == Black {
			dir = -1
		}
		dist := 1
		onStart := (c == White && start.Rank() == 1) || (c == Black && start.Rank() == 6)
		if onStart && rng.Intn(2) == 0 {
			dist = 2
		}
		return start.Offset(0, dir*dist)
	}
}

func (g MovementGenerator) invalidTarget(rng *rand.Rand, pt PieceType, c Color, start Square) (Square, bool) {
	switch pt {
	case Knight:
		d := 1 + rng.Intn(4)
		if rng.Intn(2) == 0 {
			// straight
			if rng.Intn(2) == 0 {
				return start.Offset(d*(rng.Intn(2)*2-1), 0)
			}
			return start.Offset(0, d*(rng.Intn(2)*2-1))
		}
		off := pick(rng, diagonalOffsets[:])
		return start.Offset(off[0]*d, off[1]*d)
	case Bishop:
		d := 1 + rng.Intn(5)
		if rng.Intn(2) == 0 {
			return start.Offset(d*(rng.Intn(2)*2-1), 0)
		}
		return start.Offset(0, d*(rng.Intn(2)*2-1))
	case Rook:
		d := 2 + rng.Intn(3)
		off := pick(rng, diagonalOffsets[:])
		return start.Offset(off[0]*d, off[1]*d)
	case Queen:
		off := pick(rng, knightOffsets[:])
		return start.Offset(off[0], off[1])
	case King:
		d := 2 + rng.Intn(3)
		off := pick(rng, kingOffsets[:])
		return start.Offset(off[0]*d, off[1]*d)
	default: // pawn
		dir := 1
		if c == Black {
			dir = -1
		}
		switch rng.Intn(3) {
		case 0: // backward
			return start.Offset(0, -dir)
		case 1: // sideways
			return start.Offset(rng.Intn(2)*2-1, 0)
		default: // too far
			return start.Offset(0, dir*(3+rng.Intn(3)))
		}
	}
}

func movementReasoning(pt PieceType, start, target Square, valid bool) string {
	if valid {
		switch pt {
		case Knight:
			return fmt.Sprintf("Valid L-shape move from %s to %s", start, target)
		case Bishop:
			return fmt.Sprintf("Valid diagonal move from %s to %s", start, target)
		case Rook:
			return fmt.Sprintf("Valid straight line move from %s to %s", start, target)
		case Queen:
			return fmt.Sprintf("Valid queen move from %s to %s", start, target)
		case King:
			return fmt.Sprintf("Valid one-square move from %s to %s", start, target)
		default:
			return fmt.Sprintf("Valid pawn advance from %s to %s", start, target)
		}
	}
	switch pt {
	case Knight:
		return "Knight cannot move in a straight or diagonal line"
	case Bishop:
		return "Bishop cannot move in a straight line"
	case Rook:
		return "Rook cannot move diagonally"
	case Queen:
		return "Queen cannot move in an L-shape"
	case King:
		return "King can only move one square at a time"
	default:
		return "Invalid pawn movement pattern"
	}
}
