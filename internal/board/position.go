package board

import (
	"strconv"
	"strings"
)

// maxPerPiece bounds the occupied-square index for one colored piece.
// Eight promotions plus the original pieces never exceed ten of a kind;
// the extra slots tolerate test positions.
const maxPerPiece = 16

// squareList is a small unordered set of squares, copyable by value so
// Position snapshots stay cheap.
type squareList struct {
	n  int
	sq [maxPerPiece]Square
}

func (l *squareList) add(s Square) {
	l.sq[l.n] = s
	l.n++
}

func (l *squareList) remove(s Square) {
	for i := 0; i < l.n; i++ {
		if l.sq[i] == s {
			l.n--
			l.sq[i] = l.sq[l.n]
			return
		}
	}
}

// PositionKey is the comparable identity of a Position: its fifteen
// bitboards. Repetition counting keys on this, so en passant and castling
// rights deliberately do not participate.
type PositionKey [15]Bitboard

// Position is a piece layout: one bitboard per colored piece, one union
// per color, the full occupancy, and an occupied-square index per colored
// piece for fast iteration. Place and Remove do not validate their
// arguments; misuse corrupts the position.
type Position struct {
	Pieces   [2][6]Bitboard
	Occupied [2]Bitboard
	All      Bitboard

	index [2][6]squareList
}

// Place puts a piece on a square.
func (p *Position) Place(pc Piece, sq Square) {
	c, pt := pc.Color(), pc.Type()
	bb := SquareBB(sq)
	p.Pieces[c][pt] |= bb
	p.Occupied[c] |= bb
	p.All |= bb
	p.index[c][pt].add(sq)
}

// Remove takes a piece off a square.
func (p *Position) Remove(pc Piece, sq Square) {
	c, pt := pc.Color(), pc.Type()
	bb := SquareBB(sq)
	p.Pieces[c][pt] &^= bb
	p.Occupied[c] &^= bb
	p.All &^= bb
	p.index[c][pt].remove(sq)
}

// Squares returns the occupied squares of a colored piece. The slice
// aliases internal storage and is only valid until the next mutation.
func (p *Position) Squares(c Color, pt PieceType) []Square {
	l := &p.index[c][pt]
	return l.sq[:l.n]
}

// Count returns how many of a colored piece are on the board.
func (p *Position) Count(c Color, pt PieceType) int {
	return p.index[c][pt].n
}

// KingSquare returns the square of the given color's king. Undefined when
// that king is absent.
func (p *Position) KingSquare(c Color) Square {
	return p.Pieces[c][King].LSB()
}

// PieceAt returns the piece occupying a square, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	if p.All&bb == 0 {
		return NoPiece
	}
	c := White
	if p.Occupied[Black]&bb != 0 {
		c = Black
	}
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt]&bb != 0 {
			return NewPiece(pt, c)
		}
	}
	return NoPiece
}

// Apply plays a move on the bare board: captured piece off first (one rank
// behind the destination for en passant), then the mover off its origin,
// then the mover or its promotion onto the destination, then the rook for
// castling.
func (p *Position) Apply(m Move) {
	us := m.Piece.Color()

	if m.IsCapture() {
		capturedSq := m.To
		if m.IsEnPassant() {
			if us == White {
				capturedSq -= 8
			} else {
				capturedSq += 8
			}
		}
		if captured := p.PieceAt(capturedSq); captured != NoPiece {
			p.Remove(captured, capturedSq)
		}
	}

	p.Remove(m.Piece, m.From)
	if m.IsPromotion() {
		p.Place(NewPiece(m.PromotionPiece(), us), m.To)
	} else {
		p.Place(m.Piece, m.To)
	}

	if m.IsKingsideCastle() {
		rook := NewPiece(Rook, us)
		if us == White {
			p.Remove(rook, H1)
			p.Place(rook, F1)
		} else {
			p.Remove(rook, H8)
			p.Place(rook, F8)
		}
	} else if m.IsQueensideCastle() {
		rook := NewPiece(Rook, us)
		if us == White {
			p.Remove(rook, A1)
			p.Place(rook, D1)
		} else {
			p.Remove(rook, A8)
			p.Place(rook, D8)
		}
	}
}

// Key returns the position's fifteen-bitboard identity.
func (p *Position) Key() PositionKey {
	var k PositionKey
	i := 0
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			k[i] = p.Pieces[c][pt]
			i++
		}
	}
	k[12] = p.Occupied[White]
	k[13] = p.Occupied[Black]
	k[14] = p.All
	return k
}

// Compare orders positions lexicographically over the fifteen bitboards.
// The order is arbitrary but total, which is all repetition keys need.
func (p *Position) Compare(other *Position) int {
	a, b := p.Key(), other.Key()
	for i := range a {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// BoardFEN emits the piece placement field of a FEN record: ranks 8 down
// to 1, run-length encoded, separated by slashes.
func (p *Position) BoardFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.PieceAt(NewSquare(file, rank))
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(pc.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// String renders the position as an 8x8 diagram, rank 8 first.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte('1' + byte(rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			pc := p.PieceAt(NewSquare(file, rank))
			if pc == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(pc.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
