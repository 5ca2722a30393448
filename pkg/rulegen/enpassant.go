package rulegen

import (
	"fmt"
	"math/rand"
)

// EnPassantGenerator covers the three basic en passant conditions: the
// captured pawn started from its home rank, moved two squares, and ended
// adjacent to the capturing pawn. Each case spans three frames with a white
// knight moving in between so the pawn's double step is the most recent black
// move when the question is asked.
type EnPassantGenerator struct {
	Mode Mode
}

func (g EnPassantGenerator) Family() string { return "en_passant_basic" }

func (g EnPassantGenerator) Generate(n int, rng *rand.Rand) []Case {
	nValidBasic := n * 15 / 100
	nValidCorrect := n * 15 / 100
	nInvalid := n - nValidBasic - nValidCorrect
	invalidCounts := splitCounts(nInvalid, 5)

	var all []Case
	all = append(all, fill(nValidBasic, func(caseNum int) *Case {
		return g.proposeValid(rng, caseNum)
	})...)
	all = append(all, fill(nValidCorrect, func(caseNum int) *Case {
		return g.proposeCorrectPawn(rng, caseNum)
	})...)
	all = append(all, fill(invalidCounts[0], func(caseNum int) *Case {
		return g.proposeNotFromStart(rng, caseNum)
	})...)
	all = append(all, fill(invalidCounts[1], func(caseNum int) *Case {
		return g.proposeOneSquare(rng, caseNum)
	})...)
	all = append(all, fill(invalidCounts[2], func(caseNum int) *Case {
		return g.proposeNotAdjacent(rng, caseNum)
	})...)
	all = append(all, fill(invalidCounts[3], func(caseNum int) *Case {
		return g.proposeConfusion(rng, caseNum)
	})...)
	all = append(all, fill(invalidCounts[4], func(caseNum int) *Case {
		return g.proposeWrongPawn(rng, caseNum)
	})...)

	shuffleCases(all, rng)
	return all
}

// epAnswer is the oracle: the capture is legal iff the target pawn's double
// step is visible between the last two frames and the capturer sits beside it.
func epAnswer(states []Frame, capturer, target Square) string {
	if len(states) < 2 {
		return AnswerNo
	}
	prev, curr := states[len(states)-2], states[len(states)-1]
	if EnPassantEligible(prev, curr, capturer, target) {
		return AnswerYes
	}
	return AnswerNo
}

// knightDistractor places a white knight off the forbidden squares and picks
// a jump for it, returning start and end squares.
func knightDistractor(rng *rand.Rand, forbidden map[Square]bool) (Square, Square, bool) {
	start, ok := safeKnightSquare(rng, forbidden)
	if !ok {
		return "", "", false
	}
	forbidden[start] = true
	moves := knightMoves(start, forbidden)
	if len(moves) == 0 {
		return "", "", false
	}
	return start, pick(rng, moves), true
}

func (g EnPassantGenerator) finish(c *Case, capturer, target Square) *Case {
	if epAnswer(c.States, capturer, target) != c.Expected {
		return nil
	}
	if g.Mode == ModeExplicit {
		resolved := c.FinalFrame().Clone()
		if c.Expected == AnswerYes {
			landing, _ := target.Offset(0, 1)
			p := resolved.Pieces[capturer]
			delete(resolved.Pieces, capturer)
			delete(resolved.Pieces, target)
			resolved.Pieces[landing] = p
		}
		c.States = append(c.States, resolved)
		c.Question = fmt.Sprintf("Was the en passant capture of the black pawn at %s legal?", target)
	}
	for _, frame := range c.States {
		if ValidateSupply(frame) != nil {
			return nil
		}
	}
	return c
}

func epCase(id, subtype string, states []Frame, target Square, expected, reasoning string) *Case {
	return &Case{
		CaseID:    id,
		Type:      "en_passant_basic",
		Subtype:   subtype,
		PieceType: Pawn.String(),
		States:    states,
		Question:  fmt.Sprintf("Can white capture the black pawn at %s en passant?", target),
		Expected:  expected,
		Reasoning: reasoning,
	}
}

func (g EnPassantGenerator) proposeValid(rng *rand.Rand, caseNum int) *Case {
	blackFile := 1 + rng.Intn(6)
	blackStart, _ := NewSquare(blackFile, 6)
	blackEnd, _ := NewSquare(blackFile, 4)
	epTarget, _ := NewSquare(blackFile, 5)

	whiteFile := pick(rng, adjacentFiles(blackFile))
	whiteSq, _ := NewSquare(whiteFile, 4)

	forbidden := map[Square]bool{whiteSq: true, blackStart: true, blackEnd: true, epTarget: true}
	knightStart, knightEnd, ok := knightDistractor(rng, forbidden)
	if !ok {
		return nil
	}

	states := []Frame{
		NewFrame(map[Square]Piece{whiteSq: "P", blackStart: "p", knightStart: "N"}),
		NewFrame(map[Square]Piece{whiteSq: "P", blackStart: "p", knightEnd: "N"}),
		NewFrame(map[Square]Piece{whiteSq: "P", blackEnd: "p", knightEnd: "N"}),
	}

	c := epCase(fmt.Sprintf("L3_valid_%d", caseNum), "all_conditions_met", states, blackEnd, AnswerYes,
		fmt.Sprintf("Black pawn just moved 2 squares from %s to %s, white pawn at %s is adjacent, capture square %s is clear",
			blackStart, blackEnd, whiteSq, epTarget))
	return g.finish(c, whiteSq, blackEnd)
}

func (g EnPassantGenerator) proposeNotFromStart(rng *rand.Rand, caseNum int) *Case {
	blackFile := 1 + rng.Intn(6)
	blackStart, _ := NewSquare(blackFile, 5)
	blackEnd, _ := NewSquare(blackFile, 4)

	whiteFile := pick(rng, adjacentFiles(blackFile))
	whiteSq, _ := NewSquare(whiteFile, 4)

	forbidden := map[Square]bool{whiteSq: true, blackStart: true, blackEnd: true}
	knightStart, knightEnd, ok := knightDistractor(rng, forbidden)
	if !ok {
		return nil
	}

	states := []Frame{
		NewFrame(map[Square]Piece{whiteSq: "P", blackStart: "p", knightStart: "N"}),
		NewFrame(map[Square]Piece{whiteSq: "P", blackStart: "p", knightEnd: "N"}),
		NewFrame(map[Square]Piece{whiteSq: "P", blackEnd: "p", knightEnd: "N"}),
	}

	c := epCase(fmt.Sprintf("L3_not_from_start_%d", caseNum), "not_from_start", states, blackEnd, AnswerNo,
		fmt.Sprintf("Black pawn was not on starting rank (started from %s, not rank 7)", blackStart))
	return g.finish(c, whiteSq, blackEnd)
}

func (g EnPassantGenerator) proposeOneSquare(rng *rand.Rand, caseNum int) *Case {
	blackFile := 1 + rng.Intn(6)
	blackStart, _ := NewSquare(blackFile, 6)
	blackEnd, _ := NewSquare(blackFile, 5)

	whiteFile := pick(rng, adjacentFiles(blackFile))
	whiteSq, _ := NewSquare(whiteFile, 4)

	forbidden := map[Square]bool{whiteSq: true, blackStart: true, blackEnd: true}
	knightStart, knightEnd, ok := knightDistractor(rng, forbidden)
	if !ok {
		return nil
	}

	states := []Frame{
		NewFrame(map[Square]Piece{whiteSq: "P", blackStart: "p", knightStart: "N"}),
		NewFrame(map[Square]Piece{whiteSq: "P", blackStart: "p", knightEnd: "N"}),
		NewFrame(map[Square]Piece{whiteSq: "P", blackEnd: "p", knightEnd: "N"}),
	}

	c := epCase(fmt.Sprintf("L3_one_square_%d", caseNum), "moved_one_square", states, blackEnd, AnswerNo,
		fmt.Sprintf("Black pawn only moved 1 square from %s to %s", blackStart, blackEnd))
	return g.finish(c, whiteSq, blackEnd)
}

func (g EnPassantGenerator) proposeNotAdjacent(rng *rand.Rand, caseNum int) *Case {
	blackFile := rng.Intn(4)
	blackStart, _ := NewSquare(blackFile, 6)
	blackEnd, _ := NewSquare(blackFile, 4)
	epTarget, _ := NewSquare(blackFile, 5)

	var farFiles []int
	for f := 0; f < 8; f++ {
		if abs(f-blackFile) >= 2 {
			farFiles = append(farFiles, f)
		}
	}
	whiteSq, _ := NewSquare(pick(rng, farFiles), 4)

	forbidden := map[Square]bool{whiteSq: true, blackStart: true, blackEnd: true, epTarget: true}
	knightStart, knightEnd, ok := knightDistractor(rng, forbidden)
	if !ok {
		return nil
	}

	states := []Frame{
		NewFrame(map[Square]Piece{whiteSq: "P", blackStart: "p", knightStart: "N"}),
		NewFrame(map[Square]Piece{whiteSq: "P", blackStart: "p", knightEnd: "N"}),
		NewFrame(map[Square]Piece{whiteSq: "P", blackEnd: "p", knightEnd: "N"}),
	}

	c := epCase(fmt.Sprintf("L3_not_adjacent_%d", caseNum), "not_adjacent", states, blackEnd, AnswerNo,
		fmt.Sprintf("White pawn at %s is not adjacent to black pawn at %s", whiteSq, blackEnd))
	return g.finish(c, whiteSq, blackEnd)
}

// proposeConfusion: two black pawns on rank 5; the one asked about only ever
// moved a single square, while its neighbour has been sitting there.
func (g EnPassantGenerator) proposeConfusion(rng *rand.Rand, caseNum int) *Case {
	whiteFile := 2 + rng.Intn(4)
	whiteSq, _ := NewSquare(whiteFile, 4)

	adj := adjacentFiles(whiteFile)
	if len(adj) < 2 {
		return nil
	}
	pawnASq, _ := NewSquare(adj[0], 4)
	epTargetA, _ := NewSquare(adj[0], 5)
	pawnBStart, _ := NewSquare(adj[1], 5)
	pawnBEnd, _ := NewSquare(adj[1], 4)

	forbidden := map[Square]bool{whiteSq: true, pawnASq: true, pawnBStart: true, pawnBEnd: true, epTargetA: true}
	knightStart, knightEnd, ok := knightDistractor(rng, forbidden)
	if !ok {
		return nil
	}

	states := []Frame{
		NewFrame(map[Square]Piece{whiteSq: "P", pawnASq: "p", pawnBStart: "p", knightStart: "N"}),
		NewFrame(map[Square]Piece{whiteSq: "P", pawnASq: "p", pawnBStart: "p", knightEnd: "N"}),
		NewFrame(map[Square]Piece{whiteSq: "P", pawnASq: "p", pawnBEnd: "p", knightEnd: "N"}),
	}

	c := epCase(fmt.Sprintf("L3_confusion_%d", caseNum), "multi_pawn_confusion", states, pawnBEnd, AnswerNo,
		fmt.Sprintf("The pawn at %s only moved 1 square from %s; en passant requires a double-step move", pawnBEnd, pawnBStart))
	return g.finish(c, whiteSq, pawnBEnd)
}

// proposeWrongPawn: one pawn did just double-step, but the question names the
// stationary one.
func (g EnPassantGenerator) proposeWrongPawn(rng *rand.Rand, caseNum int) *Case {
	c := g.proposeTwoPawns(rng, fmt.Sprintf("L3_wrong_pawn_%d", caseNum), "wrong_pawn_asked", false)
	return c
}

// proposeCorrectPawn: same shape, but the question names the pawn that
// actually double-stepped.
func (g EnPassantGenerator) proposeCorrectPawn(rng *rand.Rand, caseNum int) *Case {
	c := g.proposeTwoPawns(rng, fmt.Sprintf("L3_correct_pawn_%d", caseNum), "correct_pawn_identified", true)
	return c
}

func (g EnPassantGenerator) proposeTwoPawns(rng *rand.Rand, id, subtype string, askMoved bool) *Case {
	whiteFile := 2 + rng.Intn(4)
	whiteSq, _ := NewSquare(whiteFile, 4)

	adj := adjacentFiles(whiteFile)
	if len(adj) < 2 {
		return nil
	}
	pawnAStart, _ := NewSquare(adj[0], 6)
	pawnAEnd, _ := NewSquare(adj[0], 4)
	epTargetA, _ := NewSquare(adj[0], 5)
	pawnBSq, _ := NewSquare(adj[1], 4)
	epTargetB, _ := NewSquare(adj[1], 5)

	forbidden := map[Square]bool{
		whiteSq: true, pawnAStart: true, pawnAEnd: true,
		pawnBSq: true, epTargetA: true, epTargetB: true,
	}
	knightStart, knightEnd, ok := knightDistractor(rng, forbidden)
	if !ok {
		return nil
	}

	states := []Frame{
		NewFrame(map[Square]Piece{whiteSq: "P", pawnAStart: "p", pawnBSq: "p", knightStart: "N"}),
		NewFrame(map[Square]Piece{whiteSq: "P", pawnAStart: "p", pawnBSq: "p", knightEnd: "N"}),
		NewFrame(map[Square]Piece{whiteSq: "P", pawnAEnd: "p", pawnBSq: "p", knightEnd: "N"}),
	}

	if askMoved {
		c := epCase(id, subtype, states, pawnAEnd, AnswerYes,
			fmt.Sprintf("The pawn at %s just moved 2 squares from %s; capture square %s is clear", pawnAEnd, pawnAStart, epTargetA))
		return g.finish(c, whiteSq, pawnAEnd)
	}
	c := epCase(id, subtype, states, pawnBSq, AnswerNo,
		fmt.Sprintf("The pawn at %s did not just make a double-step move; the pawn at %s did", pawnBSq, pawnAEnd))
	return g.finish(c, whiteSq, pawnBSq)
}
