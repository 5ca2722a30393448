package rulegen

import "strings"

// FEN encodes the frame's piece placement as a FEN string with white to move
// and no castling or en passant availability. The frames produced here are
// synthetic snapshots, so the move counters carry no information.
func (f Frame) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq, _ := NewSquare(file, rank)
			p, ok := f.Pieces[sq]
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(string(p))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteString(" w - - 0 1")
	return sb.String()
}
