package rulegen

import (
	"fmt"
	"math/rand"
	"strings"
)

// CastlingGenerator covers the check-related castling constraints and the
// moved-and-returned temporal cases. Each case picks one of the four castling
// moves and a set of check sub-rules; invalid cases plant real attackers on
// the squares the violated sub-rules protect, while valid cases use blocked
// sliders as distractors so the answer cannot be read off piece presence
// alone.
type CastlingGenerator struct {
	Mode Mode
}

func (g CastlingGenerator) Family() string { return "castling" }

// The two-rule combinations mirror the documented reduction; the full set
// exercises all three at once with every non-empty violation subset.
var checkRuleCombos = []CheckRules{
	{InCheck: true, ThroughCheck: true},
	{InCheck: true, IntoCheck: true},
	{ThroughCheck: true, IntoCheck: true},
}

var allRuleSets = []CheckRules{
	checkRuleCombos[0], checkRuleCombos[1], checkRuleCombos[2], AllCheckRules,
}

var violationSubsets = [][]string{
	{"in"},
	{"through"},
	{"into"},
	{"in", "through"},
	{"in", "into"},
	{"through", "into"},
	{"in", "through", "into"},
}

func (g CastlingGenerator) Generate(n int, rng *rand.Rand) []Case {
	nValid := n * 20 / 100
	nTemporal := (n - nValid) / 5
	nInvalid := n - nValid - nTemporal

	comboShare := nInvalid / 2
	fullShare := nInvalid - comboShare

	var all []Case

	all = append(all, fill(nValid, func(caseNum int) *Case {
		rules := pick(rng, allRuleSets)
		return g.proposeValid(rng, caseNum, rules)
	})...)

	comboCounts := splitCounts(comboShare, len(checkRuleCombos))
	for i, rules := range checkRuleCombos {
		rules := rules
		all = append(all, fill(comboCounts[i], func(caseNum int) *Case {
			violations := comboViolations(rng, rules)
			return g.proposeInvalid(rng, caseNum, rules, violations)
		})...)
	}

	fullCounts := splitCounts(fullShare, len(violationSubsets))
	for i, subset := range violationSubsets {
		subset := subset
		all = append(all, fill(fullCounts[i], func(caseNum int) *Case {
			return g.proposeInvalid(rng, caseNum, AllCheckRules, subset)
		})...)
	}

	temporalCounts := splitCounts(nTemporal, 2)
	all = append(all, fill(temporalCounts[0], func(caseNum int) *Case {
		return g.proposeMoved(rng, caseNum, true)
	})...)
	all = append(all, fill(temporalCounts[1], func(caseNum int) *Case {
		return g.proposeMoved(rng, caseNum, false)
	})...)

	shuffleCases(all, rng)
	return all
}

// comboViolations picks which of the combo's two rules an invalid case
// breaks: the first, the second, or both.
func comboViolations(rng *rand.Rand, rules CheckRules) []string {
	var names []string
	if rules.InCheck {
		names = append(names, "in")
	}
	if rules.ThroughCheck {
		names = append(names, "through")
	}
	if rules.IntoCheck {
		names = append(names, "into")
	}
	switch rng.Intn(3) {
	case 0:
		return names[:1]
	case 1:
		return names[1:2]
	default:
		return names
	}
}

func violationTarget(cfg CastlingConfig, rule string) (Square, string) {
	switch rule {
	case "in":
		return cfg.KingStart, "in_check"
	case "through":
		return cfg.Through, "through_check"
	default:
		return cfg.KingEnd, "into_check"
	}
}

func (g CastlingGenerator) finish(c *Case, cfg CastlingConfig, rules CheckRules) *Case {
	want := AnswerNo
	if CastlingLegal(c.States, cfg, rules) {
		want = AnswerYes
	}
	if want != c.Expected {
		return nil
	}
	if g.Mode == ModeExplicit {
		resolved := c.FinalFrame().Clone()
		delete(resolved.Pieces, cfg.KingStart)
		delete(resolved.Pieces, cfg.RookStart)
		resolved.Pieces[cfg.KingEnd] = NewPiece(King, cfg.Color)
		resolved.Pieces[cfg.RookEnd] = NewPiece(Rook, cfg.Color)
		c.States = append(c.States, resolved)
		c.Question = "Was this castling move legal?"
	} else {
		c.Question = fmt.Sprintf("Can %s castle %s?", cfg.Color, cfg.Side)
	}
	for _, frame := range c.States {
		if ValidateSupply(frame) != nil {
			return nil
		}
	}
	return c
}

func (g CastlingGenerator) proposeValid(rng *rand.Rand, caseNum int, rules CheckRules) *Case {
	cfg := pick(rng, CastlingConfigs)

	counts := make(supplyCounter)
	counts.add(NewPiece(King, cfg.Color))
	counts.add(NewPiece(Rook, cfg.Color))

	critical := []Square{cfg.KingStart, cfg.Through, cfg.KingEnd}

	occupied := map[Square]bool{cfg.KingStart: true, cfg.RookStart: true}
	forbidden := map[Square]bool{cfg.KingStart: true, cfg.RookStart: true}
	for _, sq := range cfg.Path {
		forbidden[sq] = true
	}

	extras := map[Square]Piece{}
	attackerColor := cfg.Color.Opposite()

	var blockedNotes []string
	for i := 0; i < 1+rng.Intn(2); i++ {
		fake := pick(rng, critical)
		ba, ok := placeBlockedAttacker(rng, fake, forbidden, occupied, counts, attackerColor)
		if !ok {
			continue
		}
		extras[ba.attackerSq] = ba.attackerPiece
		extras[ba.blockerSq] = ba.blockerPiece
		forbidden[ba.attackerSq] = true
		forbidden[ba.blockerSq] = true
		occupied[ba.attackerSq] = true
		occupied[ba.blockerSq] = true
		counts.add(ba.attackerPiece)
		counts.add(ba.blockerPiece)
		blockedNotes = append(blockedNotes, fmt.Sprintf("piece at %s is blocked by %s", ba.attackerSq, ba.blockerSq))
	}

	g.addFillers(rng, extras, critical, forbidden, occupied, counts, 4)

	// No extra piece may actually reach a critical square once its own
	// square is vacated from the occupancy set.
	if !extrasHarmless(extras, critical, occupied) {
		return nil
	}

	reasoning := "All castling conditions met"
	if len(blockedNotes) > 0 {
		reasoning += fmt.Sprintf(" (Note: %s)", strings.Join(blockedNotes, "; "))
	}

	pieces := map[Square]Piece{
		cfg.KingStart: NewPiece(King, cfg.Color),
		cfg.RookStart: NewPiece(Rook, cfg.Color),
	}
	for sq, p := range extras {
		pieces[sq] = p
	}

	c := &Case{
		CaseID:    fmt.Sprintf("L5_%s_valid_%d", cfg.Name, caseNum),
		Type:      "castling",
		Subtype:   "valid",
		PieceType: King.String(),
		States:    []Frame{NewFrame(pieces)},
		Expected:  AnswerYes,
		Reasoning: reasoning,
	}
	return g.finish(c, cfg, rules)
}

func (g CastlingGenerator) proposeInvalid(rng *rand.Rand, caseNum int, rules CheckRules, violations []string) *Case {
	cfg := pick(rng, CastlingConfigs)

	counts := make(supplyCounter)
	counts.add(NewPiece(King, cfg.Color))
	counts.add(NewPiece(Rook, cfg.Color))

	occupied := map[Square]bool{cfg.KingStart: true, cfg.RookStart: true}
	forbidden := map[Square]bool{cfg.KingStart: true, cfg.RookStart: true}
	for _, sq := range cfg.Path {
		forbidden[sq] = true
	}

	targets := map[Square]bool{}
	var details []string
	for _, rule := range violations {
		sq, name := violationTarget(cfg, rule)
		if !targets[sq] {
			targets[sq] = true
			details = append(details, name)
		}
	}

	attackerColor := cfg.Color.Opposite()
	extras := map[Square]Piece{}
	realAttackers := map[Square]Square{} // attacker -> target

	attackerTypes := []PieceType{Rook, Bishop, Knight, Queen}
	for target := range targets {
		placed := false
		for attempt := 0; attempt < 50 && !placed; attempt++ {
			t := pick(rng, attackerTypes)
			p := NewPiece(t, attackerColor)
			if !counts.canAdd(p) {
				continue
			}
			positions := attackerSquares(target, t, forbidden, occupied)
			if len(positions) == 0 {
				continue
			}
			pos := pick(rng, positions)
			extras[pos] = p
			realAttackers[pos] = target
			forbidden[pos] = true
			occupied[pos] = true
			counts.add(p)
			placed = true
		}
		if !placed {
			return nil
		}
	}

	// Distractors aim at critical squares nothing really attacks, and must
	// not land on a real attacker's line.
	critical := []Square{cfg.KingStart, cfg.Through, cfg.KingEnd}
	var nonTargeted []Square
	for _, sq := range critical {
		if !targets[sq] {
			nonTargeted = append(nonTargeted, sq)
		}
	}
	for i := 0; i < 1+rng.Intn(2) && len(nonTargeted) > 0; i++ {
		fake := pick(rng, nonTargeted)
		ba, ok := placeBlockedAttacker(rng, fake, forbidden, occupied, counts, attackerColor)
		if !ok {
			continue
		}
		if blocksRealAttacker(realAttackers, extras, ba.attackerSq) || blocksRealAttacker(realAttackers, extras, ba.blockerSq) {
			continue
		}
		extras[ba.attackerSq] = ba.attackerPiece
		extras[ba.blockerSq] = ba.blockerPiece
		forbidden[ba.attackerSq] = true
		forbidden[ba.blockerSq] = true
		occupied[ba.attackerSq] = true
		occupied[ba.blockerSq] = true
		counts.add(ba.attackerPiece)
		counts.add(ba.blockerPiece)
	}

	g.addInvalidFillers(rng, extras, nonTargeted, forbidden, occupied, counts, realAttackers, 5)

	// The planted attackers must still have clear lines after all the
	// placement above.
	for pos, target := range realAttackers {
		occ := copyOccupied(occupied)
		delete(occ, pos)
		if !CanAttackWithPath(pos, target, extras[pos].Type(), occ) {
			return nil
		}
	}

	pieces := map[Square]Piece{
		cfg.KingStart: NewPiece(King, cfg.Color),
		cfg.RookStart: NewPiece(Rook, cfg.Color),
	}
	for sq, p := range extras {
		pieces[sq] = p
	}

	c := &Case{
		CaseID:    fmt.Sprintf("L5_%s_invalid_%d", cfg.Name, caseNum),
		Type:      "castling",
		Subtype:   strings.Join(details, "+"),
		PieceType: King.String(),
		States:    []Frame{NewFrame(pieces)},
		Expected:  AnswerNo,
		Reasoning: fmt.Sprintf("Violates: %s", strings.Join(details, ", ")),
	}
	return g.finish(c, cfg, rules)
}

// proposeMoved builds the moved-and-returned temporal case: frame 2 shows the
// king (or rook) off its home square, frame 3 shows it back. The final
// position alone looks castles-ready.
func (g CastlingGenerator) proposeMoved(rng *rand.Rand, caseNum int, kingMoves bool) *Case {
	cfg := pick(rng, CastlingConfigs)
	king := NewPiece(King, cfg.Color)
	rook := NewPiece(Rook, cfg.Color)

	home := NewFrame(map[Square]Piece{cfg.KingStart: king, cfg.RookStart: rook})

	var away Frame
	var subtype, reasoning string
	if kingMoves {
		off, ok := cfg.KingStart.Offset(0, 1)
		if cfg.Color == Black {
			off, ok = cfg.KingStart.Offset(0, -1)
		}
		if !ok {
			return nil
		}
		away = NewFrame(map[Square]Piece{off: king, cfg.RookStart: rook})
		subtype = "king_moved"
		reasoning = "King has moved (even though it returned to its original square)"
	} else {
		off, ok := cfg.RookStart.Offset(0, 1)
		if cfg.Color == Black {
			off, ok = cfg.RookStart.Offset(0, -1)
		}
		if !ok {
			return nil
		}
		away = NewFrame(map[Square]Piece{cfg.KingStart: king, off: rook})
		subtype = "rook_moved"
		reasoning = "Rook has moved (even though it returned to its original square)"
	}

	c := &Case{
		CaseID:    fmt.Sprintf("L5_%s_%s_%d", cfg.Name, subtype, caseNum),
		Type:      "castling",
		Subtype:   subtype,
		PieceType: King.String(),
		States:    []Frame{home, away, home.Clone()},
		Label:     "States shown in chronological order",
		Expected:  AnswerNo,
		Reasoning: reasoning,
	}
	return g.finish(c, cfg, AllCheckRules)
}

func (g CastlingGenerator) addFillers(rng *rand.Rand, extras map[Square]Piece, critical []Square,
	forbidden, occupied map[Square]bool, counts supplyCounter, upTo int) {
	for len(extras) < upTo {
		placed := false
		for attempt := 0; attempt < 50 && !placed; attempt++ {
			t := pick(rng, []PieceType{Knight, Bishop})
			p := NewPiece(t, pickColor(rng))
			if !counts.canAdd(p) {
				continue
			}
			sq, ok := nonAttackingSquare(rng, critical, forbidden, t, occupied)
			if !ok {
				continue
			}
			extras[sq] = p
			forbidden[sq] = true
			occupied[sq] = true
			counts.add(p)
			placed = true
		}
		if !placed {
			return
		}
	}
}

func (g CastlingGenerator) addInvalidFillers(rng *rand.Rand, extras map[Square]Piece, safeCritical []Square,
	forbidden, occupied map[Square]bool, counts supplyCounter, realAttackers map[Square]Square, upTo int) {
	for len(extras) < upTo {
		placed := false
		for attempt := 0; attempt < 50 && !placed; attempt++ {
			t := pick(rng, []PieceType{Knight, Bishop})
			p := NewPiece(t, pickColor(rng))
			if !counts.canAdd(p) {
				continue
			}
			sq, ok := nonAttackingSquare(rng, safeCritical, forbidden, t, occupied)
			if !ok || blocksRealAttacker(realAttackers, extras, sq) {
				continue
			}
			extras[sq] = p
			forbidden[sq] = true
			occupied[sq] = true
			counts.add(p)
			placed = true
		}
		if !placed {
			return
		}
	}
}

// blocksRealAttacker reports whether sq sits on the line between any planted
// attacker and its target.
func blocksRealAttacker(realAttackers map[Square]Square, extras map[Square]Piece, sq Square) bool {
	for pos, target := range realAttackers {
		if extras[pos].Type() == Knight {
			continue
		}
		path, aligned := PathBetween(pos, target)
		if !aligned {
			continue
		}
		for _, p := range path {
			if p == sq {
				return true
			}
		}
	}
	return false
}

func extrasHarmless(extras map[Square]Piece, critical []Square, occupied map[Square]bool) bool {
	for sq, p := range extras {
		occ := copyOccupied(occupied)
		delete(occ, sq)
		for _, crit := range critical {
			if CanAttackWithPath(sq, crit, p.Type(), occ) {
				return false
			}
		}
	}
	return true
}

func copyOccupied(src map[Square]bool) map[Square]bool {
	dst := make(map[Square]bool, len(src))
	for sq := range src {
		dst[sq] = true
	}
	return dst
}
