package rulegen

// IsPathClear reports whether no occupied square lies strictly between from
// and to. Misaligned squares are never clear.
func IsPathClear(from, to Square, occupied map[Square]bool) bool {
	path, aligned := PathBetween(from, to)
	if !aligned {
		return false
	}
	for _, sq := range path {
		if occupied[sq] {
			return false
		}
	}
	return true
}

// CanAttackWithPath combines geometry with blocking. Knight attacks are never
// blockable and skip the path check.
func CanAttackWithPath(from, to Square, t PieceType, occupied map[Square]bool) bool {
	if !CanAttack(from, to, t) {
		return false
	}
	if t == Knight {
		return true
	}
	return IsPathClear(from, to, occupied)
}

// pawnAttacks reports whether a pawn of color c on from attacks to.
func pawnAttacks(from, to Square, c Color) bool {
	dir := 1
	if c == Black {
		dir = -1
	}
	return abs(to.File()-from.File()) == 1 && to.Rank()-from.Rank() == dir
}

// SquareUnderAttack reports whether any piece of color by in the frame
// attacks target. The attacker's own square is excluded from the occupancy
// used for its path check.
func SquareUnderAttack(target Square, by Color, frame Frame) bool {
	occupied := frame.Occupied()
	for sq, p := range frame.Pieces {
		if p.Color() != by || sq == target {
			continue
		}
		if p.Type() == Pawn {
			if pawnAttacks(sq, target, by) {
				return true
			}
			continue
		}
		delete(occupied, sq)
		hit := CanAttackWithPath(sq, target, p.Type(), occupied)
		occupied[sq] = true
		if hit {
			return true
		}
	}
	return false
}

// KingInCheck reports whether the king of kingColor on kingSq is attacked.
func KingInCheck(kingSq Square, kingColor Color, frame Frame) bool {
	return SquareUnderAttack(kingSq, kingColor.Opposite(), frame)
}

// CheckRules selects which of the three check-related castling sub-rules a
// test family enforces.
type CheckRules struct {
	InCheck      bool // king's start square must not be attacked
	ThroughCheck bool // squares the king crosses must not be attacked
	IntoCheck    bool // king's final square must not be attacked
}

// AllCheckRules enforces all three sub-rules.
var AllCheckRules = CheckRules{InCheck: true, ThroughCheck: true, IntoCheck: true}

// CastlingConfig describes one of the four castling moves.
type CastlingConfig struct {
	Name      string // "white_kingside", ...
	Side      string // "kingside" or "queenside"
	Color     Color
	KingStart Square
	KingEnd   Square
	RookStart Square
	RookEnd   Square
	Through   Square   // the square the king crosses one step before KingEnd
	Path      []Square // squares between king and rook that must be empty
}

var CastlingConfigs = []CastlingConfig{
	{
		Name: "white_kingside", Side: "kingside", Color: White,
		KingStart: "e1", KingEnd: "g1", RookStart: "h1", RookEnd: "f1",
		Through: "f1", Path: []Square{"f1", "g1"},
	},
	{
		Name: "white_queenside", Side: "queenside", Color: White,
		KingStart: "e1", KingEnd: "c1", RookStart: "a1", RookEnd: "d1",
		Through: "d1", Path: []Square{"b1", "c1", "d1"},
	},
	{
		Name: "black_kingside", Side: "kingside", Color: Black,
		KingStart: "e8", KingEnd: "g8", RookStart: "h8", RookEnd: "f8",
		Through: "f8", Path: []Square{"f8", "g8"},
	},
	{
		Name: "black_queenside", Side: "queenside", Color: Black,
		KingStart: "e8", KingEnd: "c8", RookStart: "a8", RookEnd: "d8",
		Through: "d8", Path: []Square{"b8", "c8", "d8"},
	},
}

// CastlingConfigByName returns the config for a name like "white_kingside".
func CastlingConfigByName(name string) (CastlingConfig, bool) {
	for _, cfg := range CastlingConfigs {
		if cfg.Name == name {
			return cfg, true
		}
	}
	return CastlingConfig{}, false
}

// CriticalSquares lists the squares whose safety the enabled sub-rules demand.
func (cfg CastlingConfig) CriticalSquares(rules CheckRules) []Square {
	var sqs []Square
	if rules.InCheck {
		sqs = append(sqs, cfg.KingStart)
	}
	if rules.ThroughCheck {
		sqs = append(sqs, cfg.Through)
	}
	if rules.IntoCheck {
		sqs = append(sqs, cfg.KingEnd)
	}
	return sqs
}

// CastlingPositionLegal checks the single-position part of castling legality:
// king and rook on their start squares, the between-squares empty, and every
// enabled check sub-rule satisfied. It says nothing about move history.
func CastlingPositionLegal(frame Frame, cfg CastlingConfig, rules CheckRules) bool {
	if frame.Pieces[cfg.KingStart] != NewPiece(King, cfg.Color) {
		return false
	}
	if frame.Pieces[cfg.RookStart] != NewPiece(Rook, cfg.Color) {
		return false
	}
	for _, sq := range cfg.Path {
		if sq != cfg.KingStart && sq != cfg.RookStart && frame.Pieces[sq] != "" {
			return false
		}
	}
	enemy := cfg.Color.Opposite()
	for _, sq := range cfg.CriticalSquares(rules) {
		if SquareUnderAttack(sq, enemy, frame) {
			return false
		}
	}
	return true
}

// CastlingRightsIntact reports whether the king and rook sat on their start
// squares in every shown frame. A piece that left and came back in a middle
// frame has moved, and the right is gone even though the final position looks
// castles-ready. Frames showing the castling already performed (king on
// KingEnd with the rook on RookEnd) are the resolved outcome and are skipped.
func CastlingRightsIntact(states []Frame, cfg CastlingConfig) bool {
	king := NewPiece(King, cfg.Color)
	rook := NewPiece(Rook, cfg.Color)
	for _, frame := range states {
		if frame.Pieces[cfg.KingEnd] == king && frame.Pieces[cfg.RookEnd] == rook {
			continue
		}
		if frame.Pieces[cfg.KingStart] != king || frame.Pieces[cfg.RookStart] != rook {
			return false
		}
	}
	return true
}

// CastlingLegal is the full predicate over a frame history: rights intact
// across all frames and the position-level rules satisfied in the latest
// frame that still shows the pre-castling setup.
func CastlingLegal(states []Frame, cfg CastlingConfig, rules CheckRules) bool {
	if len(states) == 0 {
		return false
	}
	if !CastlingRightsIntact(states, cfg) {
		return false
	}
	setup := states[len(states)-1]
	if setup.Pieces[cfg.KingStart] != NewPiece(King, cfg.Color) {
		// Final frame shows the resolved outcome; judge the frame before it.
		if len(states) < 2 {
			return false
		}
		setup = states[len(states)-2]
	}
	return CastlingPositionLegal(setup, cfg, rules)
}

// EnPassantEligible decides whether the pawn on capturer may take the pawn on
// target en passant, given the previous and current frames. The target pawn
// must have double-stepped from its start rank on the immediately preceding
// transition, the two pawns must share a rank on adjacent files, and the
// square behind the target must be empty.
func EnPassantEligible(prev, curr Frame, capturer, target Square) bool {
	cp, ok := curr.Pieces[capturer]
	if !ok || cp.Type() != Pawn {
		return false
	}
	tp, ok := curr.Pieces[target]
	if !ok || tp.Type() != Pawn || tp.Color() == cp.Color() {
		return false
	}
	if capturer.Rank() != target.Rank() {
		return false
	}
	if abs(capturer.File()-target.File()) != 1 {
		return false
	}

	// Rank the double-step lands on: 4 (index) for a black pawn, 3 for white.
	startRank, landRank, dir := 6, 4, 1
	if tp.Color() == White {
		startRank, landRank, dir = 1, 3, -1
	}
	if target.Rank() != landRank {
		return false
	}

	// The previous frame must show the target pawn on its start rank and the
	// landing square empty: the double step happened on this transition.
	startSq, _ := NewSquare(target.File(), startRank)
	if prev.Pieces[startSq] != tp {
		return false
	}
	if _, occupied := prev.Pieces[target]; occupied {
		return false
	}

	// Destination one rank beyond the target in the capturing direction.
	beyond, ok := target.Offset(0, dir)
	if !ok {
		return false
	}
	if _, occupied := curr.Pieces[beyond]; occupied {
		return false
	}
	return true
}

// EnPassantExposesKing simulates the capture (both pawns leave their squares,
// the capturer lands behind the target) and reports whether the capturing
// side's king ends up in check. Pins along ranks and files are the target
// here; diagonal pins are deliberately out of scope.
func EnPassantExposesKing(curr Frame, capturer, target Square) bool {
	cp, ok := curr.Pieces[capturer]
	if !ok || cp.Type() != Pawn {
		return false
	}
	kingSq, ok := curr.FindKing(cp.Color())
	if !ok {
		return false
	}
	dir := 1
	if cp.Color() == Black {
		dir = -1
	}
	beyond, ok := target.Offset(0, dir)
	if !ok {
		return false
	}

	after := curr.Clone()
	delete(after.Pieces, capturer)
	delete(after.Pieces, target)
	after.Pieces[beyond] = cp
	return KingInCheck(kingSq, cp.Color(), after)
}
