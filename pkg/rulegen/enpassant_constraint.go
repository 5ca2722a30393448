package rulegen

import (
	"fmt"
	"math/rand"
)

// EnPassantConstraintGenerator layers the timing and king-safety constraints
// on top of basic en passant: the capture must be taken immediately, must not
// expose the capturing side's king, and cannot be played while that king is
// in check unless it resolves it.
type EnPassantConstraintGenerator struct {
	Mode Mode
}

func (g EnPassantConstraintGenerator) Family() string { return "en_passant_constraint" }

type epPinConfig struct {
	king, white, attacker Square
	attackerPiece         Piece
	blackStart, blackEnd  Square
}

// Pin configurations are restricted to ranks and files so the capture always
// opens the pinning line. Diagonal pins would need the pawn itself on the
// diagonal, which the two-pawn removal breaks in less uniform ways.
var epPinConfigs = []epPinConfig{
	{"e1", "e5", "e8", "r", "d7", "d5"},
	{"e1", "e5", "e8", "q", "f7", "f5"},
	{"d1", "d5", "d8", "r", "c7", "c5"},
	{"d1", "d5", "d8", "q", "e7", "e5"},
	{"a5", "d5", "h5", "r", "e7", "e5"},
	{"h5", "f5", "a5", "q", "e7", "e5"},
}

// Check configurations: the white king already stands in check and the en
// passant capture happens far enough away that it cannot interpose.
var epCheckConfigs = []epPinConfig{
	{"a1", "d5", "h1", "r", "e7", "e5"},
	{"e1", "a5", "e2", "q", "b7", "b5"},
	{"e1", "b5", "h4", "b", "c7", "c5"},
	{"e1", "g5", "c2", "n", "h7", "h5"},
}

func (g EnPassantConstraintGenerator) Generate(n int, rng *rand.Rand) []Case {
	nValid := n * 20 / 100
	nInvalid := n - nValid
	invalidCounts := splitCounts(nInvalid, 3)

	var all []Case
	all = append(all, fill(nValid, func(caseNum int) *Case {
		return g.proposeValid(rng, caseNum)
	})...)
	all = append(all, fill(invalidCounts[0], func(caseNum int) *Case {
		return g.proposeMissedTiming(rng, caseNum)
	})...)
	all = append(all, fill(invalidCounts[1], func(caseNum int) *Case {
		return g.proposePinned(rng, caseNum)
	})...)
	all = append(all, fill(invalidCounts[2], func(caseNum int) *Case {
		return g.proposeInCheck(rng, caseNum)
	})...)

	shuffleCases(all, rng)
	return all
}

// epConstraintAnswer extends the eligibility oracle with king safety: the
// capture is simulated and rejected if the capturing side's king would stand
// in check afterwards.
func epConstraintAnswer(states []Frame, capturer, target Square) string {
	if epAnswer(states, capturer, target) != AnswerYes {
		return AnswerNo
	}
	if EnPassantExposesKing(states[len(states)-1], capturer, target) {
		return AnswerNo
	}
	return AnswerYes
}

func (g EnPassantConstraintGenerator) finish(c *Case, capturer, target Square) *Case {
	if epConstraintAnswer(c.States, capturer, target) != c.Expected {
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
		c.Question = "Was the en passant capture legal?"
	}
	for _, frame := range c.States {
		if ValidateSupply(frame) != nil {
			return nil
		}
	}
	return c
}

var epExtraPieces = []Piece{"N", "B", "n", "b"}

func (g EnPassantConstraintGenerator) proposeValid(rng *rand.Rand, caseNum int) *Case {
	blackFile := 1 + rng.Intn(6)
	blackStart, _ := NewSquare(blackFile, 6)
	blackEnd, _ := NewSquare(blackFile, 4)
	epTarget, _ := NewSquare(blackFile, 5)

	whiteFile := pick(rng, adjacentFiles(blackFile))
	whiteSq, _ := NewSquare(whiteFile, 4)

	forbidden := map[Square]bool{whiteSq: true, blackStart: true, blackEnd: true, epTarget: true}
	var extras [2]Square
	for i := range extras {
		sq := randomSquare(rng)
		for attempts := 0; forbidden[sq] && attempts < 50; attempts++ {
			sq = randomSquare(rng)
		}
		if forbidden[sq] {
			return nil
		}
		forbidden[sq] = true
		extras[i] = sq
	}

	extra1 := pick(rng, epExtraPieces)
	extra2 := pick(rng, epExtraPieces)

	states := []Frame{
		NewFrame(map[Square]Piece{whiteSq: "P", blackStart: "p", extras[0]: extra1, extras[1]: extra2}),
		NewFrame(map[Square]Piece{whiteSq: "P", blackEnd: "p", extras[0]: extra1, extras[1]: extra2}),
	}

	c := &Case{
		CaseID:    fmt.Sprintf("L4_valid_%d", caseNum),
		Type:      "en_passant_constraint",
		Subtype:   "valid",
		PieceType: Pawn.String(),
		States:    states,
		Question:  "Can white capture the black pawn en passant?",
		Expected:  AnswerYes,
		Reasoning: "All conditions met, no constraints violated",
	}
	return g.finish(c, whiteSq, blackEnd)
}

var missedTimingKnightJumps = [][2]Square{
	{"b1", "c3"}, {"g1", "f3"}, {"b1", "a3"}, {"g1", "h3"},
	{"b8", "c6"}, {"g8", "f6"}, {"b8", "a6"}, {"g8", "h6"},
	{"a1", "c2"}, {"h1", "f2"}, {"a8", "c7"}, {"h8", "f7"},
}

// proposeMissedTiming: the double step happened a move ago and something else
// moved in between, so the one-move window is gone.
func (g EnPassantConstraintGenerator) proposeMissedTiming(rng *rand.Rand, caseNum int) *Case {
	blackFile := 1 + rng.Intn(6)
	blackStart, _ := NewSquare(blackFile, 6)
	blackMid, _ := NewSquare(blackFile, 4)

	whiteFile := pick(rng, adjacentFiles(blackFile))
	whiteSq, _ := NewSquare(whiteFile, 4)

	var moverStart, moverEnd Square
	var mover Piece
	var moverName string
	if rng.Intn(2) == 0 {
		moverName = "rook"
		if rng.Intn(2) == 0 {
			startFile := pick(rng, []int{0, 7})
			startRank := pick(rng, []int{0, 7})
			moverStart, _ = NewSquare(startFile, startRank)
			moverEnd, _ = NewSquare(pick(rng, []int{2, 3, 4}), startRank)
		} else {
			startFile := pick(rng, []int{0, 7})
			moverStart, _ = NewSquare(startFile, 0)
			moverEnd, _ = NewSquare(startFile, 2)
		}
		mover = pick(rng, []Piece{"R", "r"})
	} else {
		moverName = "knight"
		jump := pick(rng, missedTimingKnightJumps)
		moverStart, moverEnd = jump[0], jump[1]
		mover = pick(rng, []Piece{"N", "n"})
	}

	occupied := map[Square]bool{whiteSq: true, blackStart: true, blackMid: true}
	if occupied[moverStart] || occupied[moverEnd] || moverStart == moverEnd {
		return nil
	}
	occupied[moverStart] = true
	occupied[moverEnd] = true

	extraSq := randomSquare(rng)
	for attempts := 0; occupied[extraSq] && attempts < 50; attempts++ {
		extraSq = randomSquare(rng)
	}
	if occupied[extraSq] {
		return nil
	}
	extra := pick(rng, epExtraPieces)

	states := []Frame{
		NewFrame(map[Square]Piece{whiteSq: "P", blackStart: "p", moverStart: mover, extraSq: extra}),
		NewFrame(map[Square]Piece{whiteSq: "P", blackMid: "p", moverStart: mover, extraSq: extra}),
		NewFrame(map[Square]Piece{whiteSq: "P", blackMid: "p", moverEnd: mover, extraSq: extra}),
	}

	c := &Case{
		CaseID:    fmt.Sprintf("L4_scenario_a_%d", caseNum),
		Type:      "en_passant_constraint",
		Subtype:   "missed_timing",
		PieceType: Pawn.String(),
		States:    states,
		Question:  "Can white capture the black pawn en passant in the position shown in the final state?",
		Expected:  AnswerNo,
		Reasoning: fmt.Sprintf("A %s moved after the double step, the one-move timing window is closed", moverName),
	}
	return g.finish(c, whiteSq, blackMid)
}

func (g EnPassantConstraintGenerator) proposePinned(rng *rand.Rand, caseNum int) *Case {
	cfg := pick(rng, epPinConfigs)
	c := g.fromConfig(cfg, fmt.Sprintf("L4_scenario_b_%d", caseNum), "causes_check_pin",
		fmt.Sprintf("White pawn is pinned by %s at %s, capturing would expose the king to check",
			cfg.attackerPiece.Name(), cfg.attacker))
	return g.finish(c, cfg.white, cfg.blackEnd)
}

func (g EnPassantConstraintGenerator) proposeInCheck(rng *rand.Rand, caseNum int) *Case {
	cfg := pick(rng, epCheckConfigs)
	c := g.fromConfig(cfg, fmt.Sprintf("L4_scenario_c_%d", caseNum), "already_in_check",
		fmt.Sprintf("King at %s is currently in check from %s, en passant does not resolve the check",
			cfg.king, cfg.attacker))
	return g.finish(c, cfg.white, cfg.blackEnd)
}

func (g EnPassantConstraintGenerator) fromConfig(cfg epPinConfig, id, subtype, reasoning string) *Case {
	states := []Frame{
		NewFrame(map[Square]Piece{cfg.white: "P", cfg.blackStart: "p", cfg.king: "K", cfg.attacker: cfg.attackerPiece}),
		NewFrame(map[Square]Piece{cfg.white: "P", cfg.blackEnd: "p", cfg.king: "K", cfg.attacker: cfg.attackerPiece}),
	}
	return &Case{
		CaseID:    id,
		Type:      "en_passant_constraint",
		Subtype:   subtype,
		PieceType: Pawn.String(),
		States:    states,
		Question:  "Can white capture the black pawn en passant?",
		Expected:  AnswerNo,
		Reasoning: reasoning,
	}
}
