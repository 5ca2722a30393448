package rulegen

import "math/rand"

// Shared random-placement helpers used by the generator family.

var (
	files = []int{0, 1, 2, 3, 4, 5, 6, 7}
	ranks = []int{0, 1, 2, 3, 4, 5, 6, 7}
)

func randomSquare(rng *rand.Rand) Square {
	sq, _ := NewSquare(rng.Intn(8), rng.Intn(8))
	return sq
}

var knightOffsets = [8][2]int{
	{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
	{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
}

var kingOffsets = [8][2]int{
	{0, 1}, {0, -1}, {1, 0}, {-1, 0},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

var diagonalOffsets = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

// knightMoves lists on-board knight targets from sq that avoid forbidden.
func knightMoves(sq Square, forbidden map[Square]bool) []Square {
	var moves []Square
	for _, off := range knightOffsets {
		if to, ok := sq.Offset(off[0], off[1]); ok && !forbidden[to] {
			moves = append(moves, to)
		}
	}
	return moves
}

// safeKnightSquare finds a square outside forbidden from which a knight has
// at least one move that also avoids forbidden.
func safeKnightSquare(rng *rand.Rand, forbidden map[Square]bool) (Square, bool) {
	for i := 0; i < 100; i++ {
		sq := randomSquare(rng)
		if forbidden[sq] {
			continue
		}
		if len(knightMoves(sq, forbidden)) > 0 {
			return sq, true
		}
	}
	return "", false
}

// attackerSquares lists every square from which a piece of type t would
// attack target with a clear path, skipping forbidden squares.
func attackerSquares(target Square, t PieceType, forbidden, occupied map[Square]bool) []Square {
	var positions []Square

	if t == Rook || t == Queen {
		for _, f := range files {
			if f == target.File() {
				continue
			}
			sq, _ := NewSquare(f, target.Rank())
			if !forbidden[sq] && IsPathClear(sq, target, occupied) {
				positions = append(positions, sq)
			}
		}
		for _, r := range ranks {
			if r == target.Rank() {
				continue
			}
			sq, _ := NewSquare(target.File(), r)
			if !forbidden[sq] && IsPathClear(sq, target, occupied) {
				positions = append(positions, sq)
			}
		}
	}

	if t == Bishop || t == Queen {
		for d := 1; d < 8; d++ {
			for _, off := range diagonalOffsets {
				sq, ok := target.Offset(off[0]*d, off[1]*d)
				if ok && !forbidden[sq] && IsPathClear(sq, target, occupied) {
					positions = append(positions, sq)
				}
			}
		}
	}

	if t == Knight {
		for _, off := range knightOffsets {
			if sq, ok := target.Offset(off[0], off[1]); ok && !forbidden[sq] {
				positions = append(positions, sq)
			}
		}
	}

	return positions
}

// nonAttackingSquare finds a square outside forbidden from which a piece of
// type t attacks none of the critical squares.
func nonAttackingSquare(rng *rand.Rand, critical []Square, forbidden map[Square]bool, t PieceType, occupied map[Square]bool) (Square, bool) {
	for i := 0; i < 100; i++ {
		sq := randomSquare(rng)
		if forbidden[sq] {
			continue
		}
		attacks := false
		for _, crit := range critical {
			if CanAttackWithPath(sq, crit, t, occupied) {
				attacks = true
				break
			}
		}
		if !attacks {
			return sq, true
		}
	}
	return "", false
}

// blockedAttacker is a distractor: a slider that lines up against target but
// is cut off by a blocker standing on the line.
type blockedAttacker struct {
	attackerSq    Square
	attackerPiece Piece
	blockerSq     Square
	blockerPiece  Piece
	attackerType  PieceType
	blockerType   PieceType
	targetSq      Square
}

// placeBlockedAttacker positions an apparently-attacking slider plus a piece
// blocking its line to target. Knights cannot be blocked and are never used.
func placeBlockedAttacker(rng *rand.Rand, target Square, forbidden, occupied map[Square]bool, counts supplyCounter, attackerColor Color) (blockedAttacker, bool) {
	sliders := []PieceType{Rook, Bishop, Queen}
	for i := 0; i < 50; i++ {
		attackerType := sliders[rng.Intn(len(sliders))]
		attackerPiece := NewPiece(attackerType, attackerColor)
		if !counts.canAdd(attackerPiece) {
			continue
		}

		var candidates []Square
		if attackerType == Rook || attackerType == Queen {
			for _, f := range files {
				if abs(f-target.File()) >= 2 {
					sq, _ := NewSquare(f, target.Rank())
					if !forbidden[sq] && !occupied[sq] {
						candidates = append(candidates, sq)
					}
				}
			}
			for _, r := range ranks {
				if abs(r-target.Rank()) >= 2 {
					sq, _ := NewSquare(target.File(), r)
					if !forbidden[sq] && !occupied[sq] {
						candidates = append(candidates, sq)
					}
				}
			}
		}
		if attackerType == Bishop || attackerType == Queen {
			for d := 2; d < 8; d++ {
				for _, off := range diagonalOffsets {
					sq, ok := target.Offset(off[0]*d, off[1]*d)
					if ok && !forbidden[sq] && !occupied[sq] {
						candidates = append(candidates, sq)
					}
				}
			}
		}
		if len(candidates) == 0 {
			continue
		}

		rng.Shuffle(len(candidates), func(a, b int) {
			candidates[a], candidates[b] = candidates[b], candidates[a]
		})

		for _, attackerSq := range candidates {
			path, aligned := PathBetween(attackerSq, target)
			if !aligned || len(path) == 0 {
				continue
			}
			var blockerSpots []Square
			for _, sq := range path {
				if !forbidden[sq] && !occupied[sq] {
					blockerSpots = append(blockerSpots, sq)
				}
			}
			if len(blockerSpots) == 0 {
				continue
			}
			blockerSq := blockerSpots[rng.Intn(len(blockerSpots))]

			blockerColor := Color(rng.Intn(2))
			blockerType := Knight
			if rng.Intn(2) == 0 {
				blockerType = Pawn
			}
			blockerPiece := NewPiece(blockerType, blockerColor)
			if !counts.canAdd(blockerPiece) {
				if blockerType == Knight {
					blockerType = Pawn
				} else {
					blockerType = Knight
				}
				blockerPiece = NewPiece(blockerType, blockerColor)
				if !counts.canAdd(blockerPiece) {
					continue
				}
			}

			return blockedAttacker{
				attackerSq:    attackerSq,
				attackerPiece: attackerPiece,
				blockerSq:     blockerSq,
				blockerPiece:  blockerPiece,
				attackerType:  attackerType,
				blockerType:   blockerType,
				targetSq:      target,
			}, true
		}
	}
	return blockedAttacker{}, false
}

// adjacentFiles returns the file indexes next to f.
func adjacentFiles(f int) []int {
	var adj []int
	if f > 0 {
		adj = append(adj, f-1)
	}
	if f < 7 {
		adj = append(adj, f+1)
	}
	return adj
}

func pickColor(rng *rand.Rand) Color {
	return Color(rng.Intn(2))
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}
