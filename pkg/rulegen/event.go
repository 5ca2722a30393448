package rulegen

import (
	"fmt"
	"math/rand"
)

// EnPassantEventGenerator is the multiple-choice recognition family: the
// frames show a completed pawn event and the model names what happened.
// Standard cases show a real en passant capture; confusers show a regular
// diagonal capture or a plain advance with no capture at all.
type EnPassantEventGenerator struct{}

func (EnPassantEventGenerator) Family() string { return "en_passant_event" }

func (g EnPassantEventGenerator) Generate(n int, rng *rand.Rand) []Case {
	nStandard := n * 70 / 100
	nConfuser := n - nStandard
	nRegular := nConfuser / 2
	nNoCapture := nConfuser - nRegular

	var all []Case
	all = append(all, fill(nStandard, func(caseNum int) *Case {
		return g.proposeEnPassant(rng, caseNum)
	})...)
	all = append(all, fill(nRegular, func(caseNum int) *Case {
		return g.proposeRegularCapture(rng, caseNum)
	})...)
	all = append(all, fill(nNoCapture, func(caseNum int) *Case {
		return g.proposeNoCapture(rng, caseNum+nRegular)
	})...)

	shuffleCases(all, rng)
	return all
}

// eventFiles draws a white pawn file and an adjacent black pawn file.
func eventFiles(rng *rand.Rand) (int, int) {
	whiteFile := rng.Intn(7)
	return whiteFile, pick(rng, adjacentFiles(whiteFile))
}

func (g EnPassantEventGenerator) proposeEnPassant(rng *rand.Rand, caseNum int) *Case {
	whiteFile, blackFile := eventFiles(rng)
	whiteSq, _ := NewSquare(whiteFile, 4)
	blackStart, _ := NewSquare(blackFile, 6)
	blackMid, _ := NewSquare(blackFile, 4)
	captureSq, _ := NewSquare(blackFile, 5)

	return &Case{
		CaseID:    fmt.Sprintf("en_passant_event_pos_%d", caseNum),
		Type:      "en_passant_event",
		Subtype:   "en_passant",
		PieceType: Pawn.String(),
		States: []Frame{
			NewFrame(map[Square]Piece{whiteSq: "P", blackStart: "p"}),
			NewFrame(map[Square]Piece{whiteSq: "P", blackMid: "p"}),
			NewFrame(map[Square]Piece{captureSq: "P"}),
		},
		Label:    "States shown in chronological order",
		Question: "What happened in this sequence?",
		Options: map[string]string{
			"A": "Castling",
			"B": "En passant capture",
			"C": "Regular capture (not en passant)",
			"D": "None of the above",
		},
		Expected:  "B",
		Reasoning: "White pawn performed en passant capture",
	}
}

func (g EnPassantEventGenerator) proposeRegularCapture(rng *rand.Rand, caseNum int) *Case {
	whiteFile, blackFile := eventFiles(rng)
	whiteSq, _ := NewSquare(whiteFile, 4)
	blackStart, _ := NewSquare(blackFile, 5)
	blackMid, _ := NewSquare(blackFile, 4)

	return &Case{
		CaseID:    fmt.Sprintf("en_passant_event_confuser_%d", caseNum),
		Type:      "en_passant_event",
		Subtype:   "regular_capture",
		PieceType: Pawn.String(),
		States: []Frame{
			NewFrame(map[Square]Piece{whiteSq: "P", blackStart: "p"}),
			NewFrame(map[Square]Piece{whiteSq: "P", blackMid: "p"}),
			NewFrame(map[Square]Piece{blackMid: "P"}),
		},
		Label:    "States shown in chronological order",
		Question: "What happened in this sequence?",
		Options: map[string]string{
			"A": "Castling",
			"B": "En passant capture",
			"C": "Regular capture (not en passant)",
			"D": "None of the above",
		},
		Expected:  "C",
		Reasoning: "Regular diagonal capture, pawn only moved 1 square",
	}
}

func (g EnPassantEventGenerator) proposeNoCapture(rng *rand.Rand, caseNum int) *Case {
	whiteFile, blackFile := eventFiles(rng)
	whiteSq, _ := NewSquare(whiteFile, 4)
	whiteAdvanced, _ := NewSquare(whiteFile, 5)
	blackStart, _ := NewSquare(blackFile, 6)
	blackMid, _ := NewSquare(blackFile, 4)

	return &Case{
		CaseID:    fmt.Sprintf("en_passant_event_confuser_%d", caseNum),
		Type:      "en_passant_event",
		Subtype:   "no_capture",
		PieceType: Pawn.String(),
		States: []Frame{
			NewFrame(map[Square]Piece{whiteSq: "P", blackStart: "p"}),
			NewFrame(map[Square]Piece{whiteSq: "P", blackMid: "p"}),
			NewFrame(map[Square]Piece{whiteAdvanced: "P", blackMid: "p"}),
		},
		Label:    "States shown in chronological order",
		Question: "What happened in this sequence?",
		Options: map[string]string{
			"A": "En passant capture",
			"B": "Regular capture",
			"C": "White pawn advanced, no capture",
			"D": "Castling",
		},
		Expected:  "C",
		Reasoning: "White pawn just advanced, no capture occurred",
	}
}

// CastlingEventGenerator shows either a one-move castle (before/after) or a
// four-frame sequence where the king and rook reach the castled squares in
// separate moves, and asks the model to tell the two apart.
type CastlingEventGenerator struct{}

func (CastlingEventGenerator) Family() string { return "castling_event" }

func (g CastlingEventGenerator) Generate(n int, rng *rand.Rand) []Case {
	nStandard := n * 70 / 100
	nConfuser := n - nStandard

	var all []Case
	all = append(all, fill(nStandard, func(caseNum int) *Case {
		return g.proposeCastled(rng, caseNum)
	})...)
	all = append(all, fill(nConfuser, func(caseNum int) *Case {
		return g.proposeSeparateMoves(rng, caseNum)
	})...)

	shuffleCases(all, rng)
	return all
}

func (g CastlingEventGenerator) proposeCastled(rng *rand.Rand, caseNum int) *Case {
	cfg := whiteCastlingConfig(rng)

	before := NewFrame(map[Square]Piece{cfg.KingStart: "K", cfg.RookStart: "R"})
	after := NewFrame(map[Square]Piece{cfg.KingEnd: "K", cfg.RookEnd: "R"})

	options := map[string]string{
		"A": "Castling kingside",
		"B": "Castling queenside",
		"C": "King and Rook moved separately",
	}
	expected := "A"
	if cfg.Side == "queenside" {
		options["D"] = "None of the above"
		expected = "B"
	} else {
		options["D"] = "Invalid position"
	}

	return &Case{
		CaseID:    fmt.Sprintf("castling_event_pos_%d", caseNum),
		Type:      "castling_event",
		Subtype:   cfg.Side,
		PieceType: King.String(),
		States:    []Frame{before, after},
		Label:     "White just moved",
		Question:  "What happened?",
		Options:   options,
		Expected:  expected,
		Reasoning: fmt.Sprintf("Castling %s occurred", cfg.Side),
	}
}

func (g CastlingEventGenerator) proposeSeparateMoves(rng *rand.Rand, caseNum int) *Case {
	cfg := whiteCastlingConfig(rng)

	// King walks over in two moves, then the rook follows.
	kingMid, _ := cfg.KingStart.Offset(sign(cfg.KingEnd.File()-cfg.KingStart.File()), 0)
	states := []Frame{
		NewFrame(map[Square]Piece{cfg.KingStart: "K", cfg.RookStart: "R"}),
		NewFrame(map[Square]Piece{kingMid: "K", cfg.RookStart: "R"}),
		NewFrame(map[Square]Piece{cfg.KingEnd: "K", cfg.RookStart: "R"}),
		NewFrame(map[Square]Piece{cfg.KingEnd: "K", cfg.RookEnd: "R"}),
	}

	reasoning := "King and Rook moved in separate turns, not castling"
	if cfg.Side == "queenside" {
		reasoning = "Pieces moved separately"
	}

	return &Case{
		CaseID:    fmt.Sprintf("castling_event_confuser_%d", caseNum),
		Type:      "castling_event",
		Subtype:   "separate_moves",
		PieceType: King.String(),
		States:    states,
		Label:     "Four states shown in chronological order",
		Question:  "Was this castling?",
		Options: map[string]string{
			"A": "Yes, castling occurred",
			"B": "No, King and Rook moved separately",
			"C": "No, only King moved",
			"D": "Cannot determine",
		},
		Expected:  "B",
		Reasoning: reasoning,
	}
}
