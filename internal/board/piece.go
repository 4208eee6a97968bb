package board

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType is an uncolored piece kind.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

func (pt PieceType) String() string {
	names := [...]string{"pawn", "knight", "bishop", "rook", "queen", "king"}
	if pt >= NoPieceType {
		return "none"
	}
	return names[pt]
}

// Piece is a colored piece. The encoding pt + 6*color is shared by every
// component: the Position bitboard array, the occupied-square index, and
// move records all use the same twelve values.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	NoPiece
)

// NewPiece combines a piece type and a color.
func NewPiece(pt PieceType, c Color) Piece {
	return Piece(pt) + 6*Piece(c)
}

// Type returns the uncolored kind of the piece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the side the piece belongs to. Undefined for NoPiece.
func (p Piece) Color() Color {
	return Color(p / 6)
}

// IsWhite reports whether the piece belongs to White.
func (p Piece) IsWhite() bool {
	return p < BlackPawn
}

// String returns the FEN letter for the piece, uppercase for White.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	return string("PNBRQKpnbrqk"[p])
}

// PieceFromChar converts a FEN letter into a Piece, or NoPiece if the
// character is not one of the twelve piece letters.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	}
	return NoPiece
}
