package rulegen

import (
	"fmt"
	"math/rand"
)

// CastlingRightsGenerator is the minimal castling judgment family: bare
// king-and-rook positions for white with a one-line context label, one
// violated condition per negative case. It trades board complexity for
// isolating each condition.
type CastlingRightsGenerator struct {
	Mode Mode
}

func (g CastlingRightsGenerator) Family() string { return "castling_rights" }

func (g CastlingRightsGenerator) Generate(n int, rng *rand.Rand) []Case {
	nPos := n / 2
	negCounts := splitCounts(n-nPos, 6)

	var all []Case
	all = append(all, fill(nPos, func(caseNum int) *Case {
		return g.proposeValid(rng, caseNum)
	})...)

	proposers := []func(*rand.Rand, int) *Case{
		g.proposeKingMoved,
		g.proposeRookMoved,
		g.proposePathBlocked,
		g.proposeInCheck,
		g.proposeThroughCheck,
		g.proposeIntoCheck,
	}
	for i, propose := range proposers {
		propose := propose
		all = append(all, fill(negCounts[i], func(caseNum int) *Case {
			return propose(rng, caseNum)
		})...)
	}

	shuffleCases(all, rng)
	return all
}

func whiteCastlingConfig(rng *rand.Rand) CastlingConfig {
	if rng.Intn(2) == 0 {
		cfg, _ := CastlingConfigByName("white_kingside")
		return cfg
	}
	cfg, _ := CastlingConfigByName("white_queenside")
	return cfg
}

func (g CastlingRightsGenerator) finish(c *Case, cfg CastlingConfig) *Case {
	want := AnswerNo
	if CastlingLegal(c.States, cfg, AllCheckRules) {
		want = AnswerYes
	}
	if want != c.Expected {
		return nil
	}
	if g.Mode == ModeExplicit {
		resolved := c.FinalFrame().Clone()
		delete(resolved.Pieces, cfg.KingStart)
		delete(resolved.Pieces, cfg.RookStart)
		resolved.Pieces[cfg.KingEnd] = NewPiece(King, White)
		resolved.Pieces[cfg.RookEnd] = NewPiece(Rook, White)
		c.States = append(c.States, resolved)
		c.Question = fmt.Sprintf("Was white's %s castling legal?", cfg.Side)
	} else {
		c.Question = fmt.Sprintf("Can white castle %s?", cfg.Side)
	}
	for _, frame := range c.States {
		if ValidateSupply(frame) != nil {
			return nil
		}
	}
	return c
}

func rightsCase(id, subtype string, states []Frame, label, expected, reasoning string) *Case {
	return &Case{
		CaseID:    id,
		Type:      "castling_rights",
		Subtype:   subtype,
		PieceType: King.String(),
		States:    states,
		Label:     label,
		Expected:  expected,
		Reasoning: reasoning,
	}
}

func (g CastlingRightsGenerator) proposeValid(rng *rand.Rand, caseNum int) *Case {
	cfg := whiteCastlingConfig(rng)
	pieces := map[Square]Piece{cfg.KingStart: "K", cfg.RookStart: "R"}
	states := []Frame{NewFrame(pieces), NewFrame(pieces)}

	c := rightsCase(fmt.Sprintf("castling_rule_pos_%d", caseNum), "valid_"+cfg.Side, states,
		"King and Rook have never moved. Path is clear and safe.",
		AnswerYes, fmt.Sprintf("All conditions met, can castle %s", cfg.Side))
	return g.finish(c, cfg)
}

func (g CastlingRightsGenerator) proposeKingMoved(rng *rand.Rand, caseNum int) *Case {
	cfg := whiteCastlingConfig(rng)
	home := NewFrame(map[Square]Piece{cfg.KingStart: "K", cfg.RookStart: "R"})
	away := NewFrame(map[Square]Piece{"e2": "K", cfg.RookStart: "R"})
	states := []Frame{home, away, home.Clone()}

	c := rightsCase(fmt.Sprintf("castling_rule_neg_king_%d", caseNum), "king_moved", states,
		"States shown in chronological order",
		AnswerNo, "King has moved (even though it returned to original position)")
	return g.finish(c, cfg)
}

func (g CastlingRightsGenerator) proposeRookMoved(rng *rand.Rand, caseNum int) *Case {
	cfg := whiteCastlingConfig(rng)
	temp, _ := cfg.RookStart.Offset(0, 1)
	home := NewFrame(map[Square]Piece{cfg.KingStart: "K", cfg.RookStart: "R"})
	away := NewFrame(map[Square]Piece{cfg.KingStart: "K", temp: "R"})
	states := []Frame{home, away, home.Clone()}

	c := rightsCase(fmt.Sprintf("castling_rule_neg_rook_%d", caseNum), "rook_moved", states,
		"States shown in chronological order",
		AnswerNo, "Rook has moved")
	return g.finish(c, cfg)
}

func (g CastlingRightsGenerator) proposePathBlocked(rng *rand.Rand, caseNum int) *Case {
	cfg := whiteCastlingConfig(rng)
	blockSq := pick(rng, cfg.Path)
	blockers := []Piece{"N", "B"}
	if cfg.Side == "queenside" {
		blockers = []Piece{"N", "B", "Q"}
	}
	pieces := map[Square]Piece{cfg.KingStart: "K", cfg.RookStart: "R", blockSq: pick(rng, blockers)}
	states := []Frame{NewFrame(pieces), NewFrame(pieces)}

	c := rightsCase(fmt.Sprintf("castling_rule_neg_blocked_%d", caseNum), "path_blocked", states,
		"King and Rook have never moved",
		AnswerNo, fmt.Sprintf("Path is blocked by piece at %s", blockSq))
	return g.finish(c, cfg)
}

func (g CastlingRightsGenerator) proposeInCheck(rng *rand.Rand, caseNum int) *Case {
	cfg := whiteCastlingConfig(rng)
	pieces := map[Square]Piece{cfg.KingStart: "K", cfg.RookStart: "R", "e8": "r"}
	states := []Frame{NewFrame(pieces), NewFrame(pieces)}

	c := rightsCase(fmt.Sprintf("castling_rule_neg_check_%d", caseNum), "in_check", states,
		"King and Rook have never moved",
		AnswerNo, "King is currently in check (cannot castle out of check)")
	return g.finish(c, cfg)
}

func (g CastlingRightsGenerator) proposeThroughCheck(rng *rand.Rand, caseNum int) *Case {
	cfg := whiteCastlingConfig(rng)
	attackerSq, attacker := Square("c4"), Piece("b")
	if cfg.Side == "queenside" {
		attackerSq, attacker = "d8", "r"
	}
	pieces := map[Square]Piece{cfg.KingStart: "K", cfg.RookStart: "R", attackerSq: attacker}
	states := []Frame{NewFrame(pieces), NewFrame(pieces)}

	c := rightsCase(fmt.Sprintf("castling_rule_neg_through_%d", caseNum), "through_check", states,
		"King and Rook have never moved",
		AnswerNo, fmt.Sprintf("King would pass through %s which is under attack", cfg.Through))
	return g.finish(c, cfg)
}

func (g CastlingRightsGenerator) proposeIntoCheck(rng *rand.Rand, caseNum int) *Case {
	cfg := whiteCastlingConfig(rng)
	attackerSq, attacker := Square("g8"), Piece("r")
	if cfg.Side == "queenside" {
		attackerSq, attacker = "f4", "b"
	}
	pieces := map[Square]Piece{cfg.KingStart: "K", cfg.RookStart: "R", attackerSq: attacker}
	states := []Frame{NewFrame(pieces), NewFrame(pieces)}

	c := rightsCase(fmt.Sprintf("castling_rule_neg_into_%d", caseNum), "into_check", states,
		"King and Rook have never moved",
		AnswerNo, fmt.Sprintf("After castling, the king would be at %s which is under attack", cfg.KingEnd))
	return g.finish(c, cfg)
}
