package rulegen

import "fmt"

// Color of a piece or side.
type Color int

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType without color.
type PieceType int

const (
	King PieceType = iota
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

var pieceTypeNames = map[PieceType]string{
	King:   "king",
	Queen:  "queen",
	Rook:   "rook",
	Bishop: "bishop",
	Knight: "knight",
	Pawn:   "pawn",
}

func (t PieceType) String() string {
	return pieceTypeNames[t]
}

// Title is the capitalized form used in question text ("Rook", "Pawn").
func (t PieceType) Title() string {
	s := pieceTypeNames[t]
	return string(s[0]-'a'+'A') + s[1:]
}

// Piece is the canonical single-character encoding: uppercase for white,
// lowercase for black ("K", "q", "N", ...).
type Piece string

var pieceSymbols = map[PieceType][2]Piece{
	King:   {"K", "k"},
	Queen:  {"Q", "q"},
	Rook:   {"R", "r"},
	Bishop: {"B", "b"},
	Knight: {"N", "n"},
	Pawn:   {"P", "p"},
}

func NewPiece(t PieceType, c Color) Piece {
	return pieceSymbols[t][c]
}

func (p Piece) Color() Color {
	if len(p) == 1 && p[0] >= 'A' && p[0] <= 'Z' {
		return White
	}
	return Black
}

func (p Piece) Type() PieceType {
	switch p {
	case "K", "k":
		return King
	case "Q", "q":
		return Queen
	case "R", "r":
		return Rook
	case "B", "b":
		return Bishop
	case "N", "n":
		return Knight
	default:
		return Pawn
	}
}

// Name returns the long form used in verification text, e.g. "White Knight".
func (p Piece) Name() string {
	color := "White"
	if p.Color() == Black {
		color = "Black"
	}
	t := p.Type().String()
	return color + " " + string(t[0]-'a'+'A') + t[1:]
}

// Square names one of the 64 board cells in its canonical "e4" form.
type Square string

// NewSquare builds a square from zero-based file and rank indexes. The second
// return is false when the coordinates fall off the board.
func NewSquare(file, rank int) (Square, bool) {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return "", false
	}
	return Square([]byte{byte('a' + file), byte('1' + rank)}), true
}

func (s Square) File() int { return int(s[0] - 'a') }
func (s Square) Rank() int { return int(s[1] - '1') }

func (s Square) Valid() bool {
	return len(s) == 2 && s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8'
}

// Offset returns the square displaced by (df, dr) files/ranks, or ok=false
// when the result is off the board.
func (s Square) Offset(df, dr int) (Square, bool) {
	return NewSquare(s.File()+df, s.Rank()+dr)
}

// Frame is one temporal snapshot: piece placement plus squares highlighted
// for emphasis in the rendered image. Highlights carry no rule semantics.
type Frame struct {
	Pieces      map[Square]Piece `json:"pieces" bson:"pieces"`
	Highlighted []Square         `json:"highlighted,omitempty" bson:"highlighted,omitempty"`
}

func NewFrame(pieces map[Square]Piece, highlighted ...Square) Frame {
	return Frame{Pieces: pieces, Highlighted: highlighted}
}

// Occupied returns the set of occupied squares.
func (f Frame) Occupied() map[Square]bool {
	occ := make(map[Square]bool, len(f.Pieces))
	for sq := range f.Pieces {
		occ[sq] = true
	}
	return occ
}

func (f Frame) Clone() Frame {
	pieces := make(map[Square]Piece, len(f.Pieces))
	for sq, p := range f.Pieces {
		pieces[sq] = p
	}
	hl := append([]Square(nil), f.Highlighted...)
	return Frame{Pieces: pieces, Highlighted: hl}
}

// FindKing locates the king of the given color, ok=false if absent.
func (f Frame) FindKing(c Color) (Square, bool) {
	want := NewPiece(King, c)
	for sq, p := range f.Pieces {
		if p == want {
			return sq, true
		}
	}
	return "", false
}

// supplyLimits is the standard per-color piece supply. Generators track a
// running counter against it so no frame exceeds what a real game can hold.
var supplyLimits = map[PieceType]int{
	King:   1,
	Queen:  1,
	Rook:   2,
	Bishop: 2,
	Knight: 2,
	Pawn:   8,
}

type supplyCounter map[Piece]int

func (sc supplyCounter) canAdd(p Piece) bool {
	return sc[p] < supplyLimits[p.Type()]
}

func (sc supplyCounter) add(p Piece) {
	sc[p]++
}

// countSupply builds a counter from an existing frame.
func countSupply(f Frame) supplyCounter {
	sc := make(supplyCounter)
	for _, p := range f.Pieces {
		sc.add(p)
	}
	return sc
}

// ValidateSupply reports an error when any piece count in the frame exceeds
// the standard supply, or when two highlighted entries name invalid squares.
func ValidateSupply(f Frame) error {
	sc := make(supplyCounter)
	for sq, p := range f.Pieces {
		if !sq.Valid() {
			return fmt.Errorf("invalid square %q", sq)
		}
		if !sc.canAdd(p) {
			return fmt.Errorf("too many %s pieces", p.Name())
		}
		sc.add(p)
	}
	return nil
}
