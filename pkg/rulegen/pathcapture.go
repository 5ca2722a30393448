package rulegen

import (
	"fmt"
	"math/rand"
)

// PathCaptureGenerator produces temporal path-blocking cases: a slider lined
// up against an enemy pawn while a third piece moves on or off the line
// between two frames. Explicit mode appends a frame with the capture (or the
// unchanged position for illegal captures) resolved.
type PathCaptureGenerator struct {
	Mode Mode
}

func (g PathCaptureGenerator) Family() string { return "path_capture" }

var pathCapturePieceTypes = []PieceType{Rook, Bishop, Queen}

func (g PathCaptureGenerator) Generate(n int, rng *rand.Rand) []Case {
	var all []Case
	counts := splitCounts(n, len(pathCapturePieceTypes))

	for i, pt := range pathCapturePieceTypes {
		perSubtype := splitCounts(counts[i], 4)

		all = append(all, fill(perSubtype[0], func(caseNum int) *Case {
			return g.proposeCleared(rng, pt, caseNum)
		})...)
		all = append(all, fill(perSubtype[1], func(caseNum int) *Case {
			return g.proposeStillBlocked(rng, pt, caseNum)
		})...)
		all = append(all, fill(perSubtype[2], func(caseNum int) *Case {
			return g.proposeNewlyBlocked(rng, pt, caseNum)
		})...)
		all = append(all, fill(perSubtype[3], func(caseNum int) *Case {
			return g.proposeWrongPattern(rng, pt, caseNum)
		})...)
	}

	shuffleCases(all, rng)
	return all
}

// captureAnswer is the validation oracle for this family: in the frame the
// question refers to, can the attacker take the pawn along a clear line?
func captureAnswer(frame Frame, attacker, target Square) string {
	p, ok := frame.Pieces[attacker]
	if !ok {
		return AnswerNo
	}
	occupied := frame.Occupied()
	delete(occupied, attacker)
	delete(occupied, target)
	if CanAttackWithPath(attacker, target, p.Type(), occupied) {
		return AnswerYes
	}
	return AnswerNo
}

type captureSetup struct {
	attackerSq Square
	targetSq   Square
	path       []Square
}

// proposeSetup draws an attacker square and a target 4-6 squares away along
// a line the piece type can use, leaving at least two open path squares.
func (g PathCaptureGenerator) proposeSetup(rng *rand.Rand, pt PieceType) (captureSetup, bool) {
	for i := 0; i < 100; i++ {
		attackerSq := randomSquare(rng)
		dist := 4 + rng.Intn(3)

		moveLike := pt
		if pt == Queen {
			moveLike = pick(rng, []PieceType{Rook, Bishop})
		}

		var targetSq Square
		var ok bool
		if moveLike == Rook {
			d := dist * (rng.Intn(2)*2 - 1)
			if rng.Intn(2) == 0 {
				targetSq, ok = attackerSq.Offset(d, 0)
			} else {
				targetSq, ok = attackerSq.Offset(0, d)
			}
		} else {
			off := pick(rng, diagonalOffsets[:])
			targetSq, ok = attackerSq.Offset(off[0]*dist, off[1]*dist)
		}
		if !ok {
			continue
		}

		path, aligned := PathBetween(attackerSq, targetSq)
		if aligned && len(path) >= 2 {
			return captureSetup{attackerSq: attackerSq, targetSq: targetSq, path: path}, true
		}
	}
	return captureSetup{}, false
}

func (g PathCaptureGenerator) build(pt PieceType, subtype string, caseNum int, state1, state2 Frame, expected, reasoning string) *Case {
	c := Case{
		CaseID:    fmt.Sprintf("L2_%s_%s_%d", pt, subtype, caseNum),
		Type:      "path_capture",
		Subtype:   subtype,
		PieceType: pt.String(),
		States:    []Frame{state1, state2},
		Expected:  expected,
		Reasoning: reasoning,
	}
	return &c
}

func (g PathCaptureGenerator) finish(c *Case, attacker, target Square) *Case {
	// Re-validate the intended label against the oracle before accepting.
	if captureAnswer(c.FinalFrame(), attacker, target) != c.Expected {
		return nil
	}
	if g.Mode == ModeExplicit {
		resolved := c.FinalFrame().Clone()
		if c.Expected == AnswerYes {
			p := resolved.Pieces[attacker]
			delete(resolved.Pieces, attacker)
			resolved.Pieces[target] = p
		}
		c.States = append(c.States, resolved)
		c.Question = fmt.Sprintf("Was the capture of the pawn at %s legal?", target)
	} else {
		pt := c.States[0].Pieces[attacker].Type()
		c.Question = fmt.Sprintf("Can the %s at %s capture the pawn at %s?", pt.Title(), attacker, target)
	}
	for _, frame := range c.States {
		if ValidateSupply(frame) != nil {
			return nil
		}
	}
	return c
}

// proposeCleared: a knight stands on the line in frame 1 and jumps off it in
// frame 2, so the capture becomes possible.
func (g PathCaptureGenerator) proposeCleared(rng *rand.Rand, pt PieceType, caseNum int) *Case {
	setup, ok := g.proposeSetup(rng, pt)
	if !ok {
		return nil
	}
	attackerColor := pickColor(rng)
	blockerColor := pickColor(rng)

	blockerStart := pick(rng, setup.path)
	forbidden := map[Square]bool{setup.attackerSq: true, setup.targetSq: true, blockerStart: true}

	var offPath []Square
	for _, sq := range knightMoves(blockerStart, forbidden) {
		onPath := false
		for _, p := range setup.path {
			if sq == p {
				onPath = true
				break
			}
		}
		if !onPath {
			offPath = append(offPath, sq)
		}
	}
	if len(offPath) == 0 {
		return nil
	}
	blockerEnd := pick(rng, offPath)

	attacker := NewPiece(pt, attackerColor)
	pawn := NewPiece(Pawn, attackerColor.Opposite())
	knight := NewPiece(Knight, blockerColor)

	state1 := NewFrame(map[Square]Piece{setup.attackerSq: attacker, setup.targetSq: pawn, blockerStart: knight})
	state2 := NewFrame(map[Square]Piece{setup.attackerSq: attacker, setup.targetSq: pawn, blockerEnd: knight})

	c := g.build(pt, "path_cleared", caseNum, state1, state2, AnswerYes,
		fmt.Sprintf("Knight moved from %s to %s, path is now clear", blockerStart, blockerEnd))
	return g.finish(c, setup.attackerSq, setup.targetSq)
}

// proposeStillBlocked: a queen slides from one path square to another, so the
// line stays shut.
func (g PathCaptureGenerator) proposeStillBlocked(rng *rand.Rand, pt PieceType, caseNum int) *Case {
	setup, ok := g.proposeSetup(rng, pt)
	if !ok || len(setup.path) < 2 {
		return nil
	}
	attackerColor := pickColor(rng)
	blockerColor := pickColor(rng)

	i := rng.Intn(len(setup.path))
	j := rng.Intn(len(setup.path) - 1)
	if j >= i {
		j++
	}
	blockerStart, blockerEnd := setup.path[i], setup.path[j]

	// The blocking queen's own slide must be geometrically legal and clear.
	if !CanAttack(blockerStart, blockerEnd, Queen) {
		return nil
	}
	occupied := map[Square]bool{setup.attackerSq: true, setup.targetSq: true}
	if !IsPathClear(blockerStart, blockerEnd, occupied) {
		return nil
	}

	attacker := NewPiece(pt, attackerColor)
	pawn := NewPiece(Pawn, attackerColor.Opposite())
	queen := NewPiece(Queen, blockerColor)

	state1 := NewFrame(map[Square]Piece{setup.attackerSq: attacker, setup.targetSq: pawn, blockerStart: queen})
	state2 := NewFrame(map[Square]Piece{setup.attackerSq: attacker, setup.targetSq: pawn, blockerEnd: queen})

	c := g.build(pt, "still_blocked", caseNum, state1, state2, AnswerNo,
		fmt.Sprintf("Queen moved from %s to %s but still blocks the path", blockerStart, blockerEnd))
	return g.finish(c, setup.attackerSq, setup.targetSq)
}

// proposeNewlyBlocked: the line starts clear and a knight jumps onto it.
func (g PathCaptureGenerator) proposeNewlyBlocked(rng *rand.Rand, pt PieceType, caseNum int) *Case {
	setup, ok := g.proposeSetup(rng, pt)
	if !ok {
		return nil
	}
	attackerColor := pickColor(rng)
	blockerColor := pickColor(rng)

	blockerEnd := pick(rng, setup.path)
	forbidden := map[Square]bool{setup.attackerSq: true, setup.targetSq: true}
	for _, sq := range setup.path {
		forbidden[sq] = true
	}

	// Work backwards: any square a knight could have jumped from.
	starts := knightMoves(blockerEnd, forbidden)
	if len(starts) == 0 {
		return nil
	}
	blockerStart := pick(rng, starts)

	attacker := NewPiece(pt, attackerColor)
	pawn := NewPiece(Pawn, attackerColor.Opposite())
	knight := NewPiece(Knight, blockerColor)

	state1 := NewFrame(map[Square]Piece{setup.attackerSq: attacker, setup.targetSq: pawn, blockerStart: knight})
	state2 := NewFrame(map[Square]Piece{setup.attackerSq: attacker, setup.targetSq: pawn, blockerEnd: knight})

	c := g.build(pt, "path_blocked", caseNum, state1, state2, AnswerNo,
		fmt.Sprintf("Knight moved from %s to %s and now blocks the path", blockerStart, blockerEnd))
	return g.finish(c, setup.attackerSq, setup.targetSq)
}

// proposeWrongPattern: the attacker is not even aligned with the pawn in the
// way its geometry allows; a wandering knight adds temporal noise.
func (g PathCaptureGenerator) proposeWrongPattern(rng *rand.Rand, pt PieceType, caseNum int) *Case {
	for i := 0; i < 100; i++ {
		attackerSq := randomSquare(rng)

		var targetSq Square
		var ok bool
		var reason string
		switch pt {
		case Rook:
			d := 2 + rng.Intn(3)
			off := pick(rng, diagonalOffsets[:])
			targetSq, ok = attackerSq.Offset(off[0]*d, off[1]*d)
			reason = "Rook cannot move diagonally"
		case Bishop:
			d := (2 + rng.Intn(3)) * (rng.Intn(2)*2 - 1)
			if rng.Intn(2) == 0 {
				targetSq, ok = attackerSq.Offset(d, 0)
			} else {
				targetSq, ok = attackerSq.Offset(0, d)
			}
			reason = "Bishop cannot move in a straight line"
		default:
			off := pick(rng, knightOffsets[:])
			targetSq, ok = attackerSq.Offset(off[0], off[1])
			reason = "Queen cannot move in an L-shape"
		}
		if !ok {
			continue
		}

		attackerColor := pickColor(rng)
		attacker := NewPiece(pt, attackerColor)
		pawn := NewPiece(Pawn, attackerColor.Opposite())

		state1Pieces := map[Square]Piece{attackerSq: attacker, targetSq: pawn}
		state2Pieces := map[Square]Piece{attackerSq: attacker, targetSq: pawn}

		forbidden := map[Square]bool{attackerSq: true, targetSq: true}
		if extraStart, found := safeKnightSquare(rng, forbidden); found {
			if moves := knightMoves(extraStart, forbidden); len(moves) > 0 {
				extraEnd := pick(rng, moves)
				extraKnight := NewPiece(Knight, pickColor(rng))
				state1Pieces[extraStart] = extraKnight
				state2Pieces[extraEnd] = extraKnight
			}
		}

		c := g.build(pt, "invalid_pattern", caseNum,
			NewFrame(state1Pieces), NewFrame(state2Pieces), AnswerNo, reason)
		return g.finish(c, attackerSq, targetSq)
	}
	return nil
}
