package rulegen

// CanAttack reports whether a piece of the given type standing on from could
// attack to on an empty board. Pawn attacks depend on color and are handled
// by the callers that need them (see pawnAttacks in legality.go).
func CanAttack(from, to Square, t PieceType) bool {
	if from == to {
		return false
	}
	df := abs(to.File() - from.File())
	dr := abs(to.Rank() - from.Rank())

	switch t {
	case Rook:
		return df == 0 || dr == 0
	case Bishop:
		return df == dr
	case Queen:
		return df == 0 || dr == 0 || df == dr
	case Knight:
		return (df == 2 && dr == 1) || (df == 1 && dr == 2)
	case King:
		return df <= 1 && dr <= 1
	default:
		return false
	}
}

// PathBetween returns the squares strictly between from and to, ordered from
// the from side, when the two squares share a rank, file or diagonal.
// aligned is false for any other pair; callers must distinguish that from an
// empty path between adjacent aligned squares.
func PathBetween(from, to Square) (path []Square, aligned bool) {
	if from == to {
		return nil, false
	}
	df := to.File() - from.File()
	dr := to.Rank() - from.Rank()
	if df != 0 && dr != 0 && abs(df) != abs(dr) {
		return nil, false
	}

	stepF := sign(df)
	stepR := sign(dr)

	path = []Square{}
	f, r := from.File()+stepF, from.Rank()+stepR
	for f != to.File() || r != to.Rank() {
		sq, _ := NewSquare(f, r)
		path = append(path, sq)
		f += stepF
		r += stepR
	}
	return path, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
