package board

import "fmt"

// Castle-path masks: every square the king traverses, origin included.
const (
	whiteKingsidePath  = Bitboard(1<<E1 | 1<<F1 | 1<<G1)
	whiteQueensidePath = Bitboard(1<<C1 | 1<<D1 | 1<<E1)
	blackKingsidePath  = Bitboard(1<<E8 | 1<<F8 | 1<<G8)
	blackQueensidePath = Bitboard(1<<C8 | 1<<D8 | 1<<E8)
)

// stateNode is the cheap-to-copy per-ply snapshot: the position plus the
// side to move, castling rights, en passant state, and the clocks. Undo
// restores a whole node at a time.
type stateNode struct {
	pos         Position
	whiteToMove bool
	wCastleK    bool
	wCastleQ    bool
	bCastleK    bool
	bCastleQ    bool
	epSquare    Square
	epPossible  bool
	halfMoves   int
	moveNumber  int
}

// GameState is a full game: the current node, a repetition count per
// position, and the stack of past nodes used to undo moves.
type GameState struct {
	node    stateNode
	repeats map[PositionKey]int
	history []stateNode
}

// NewGameState returns the standard initial position.
func NewGameState() *GameState {
	gs, err := ParseFEN(StartFEN)
	if err != nil {
		panic("board: start position FEN failed to parse: " + err.Error())
	}
	return gs
}

// Pos returns the current position. The pointer is invalidated by the next
// MakeMove or UndoMove.
func (gs *GameState) Pos() *Position {
	return &gs.node.pos
}

// WhitesMove reports whether it is White's turn.
func (gs *GameState) WhitesMove() bool {
	return gs.node.whiteToMove
}

// SideToMove returns the color whose turn it is.
func (gs *GameState) SideToMove() Color {
	if gs.node.whiteToMove {
		return White
	}
	return Black
}

// EnPassantPossible reports whether an en passant capture may be available.
func (gs *GameState) EnPassantPossible() bool {
	return gs.node.epPossible
}

// EnPassantTarget returns the capture destination square. Only meaningful
// when EnPassantPossible is true.
func (gs *GameState) EnPassantTarget() Square {
	return gs.node.epSquare
}

// HalfMoves returns the number of plies since the last pawn move or
// capture.
func (gs *GameState) HalfMoves() int {
	return gs.node.halfMoves
}

// MoveNumber returns the full move counter, 1 in the initial position.
func (gs *GameState) MoveNumber() int {
	return gs.node.moveNumber
}

// InCheck reports whether the side to move is in check.
func (gs *GameState) InCheck() bool {
	return InCheck(gs.SideToMove(), &gs.node.pos)
}

// Repetitions returns how many times the current position has occurred
// since this state was constructed.
func (gs *GameState) Repetitions() int {
	return gs.repeats[gs.node.pos.Key()]
}

// CastleThroughKingside returns the kingside castle-path mask for the side
// to move, or zero when that right is gone.
func (gs *GameState) CastleThroughKingside() Bitboard {
	if gs.node.whiteToMove {
		if gs.node.wCastleK {
			return whiteKingsidePath
		}
		return 0
	}
	if gs.node.bCastleK {
		return blackKingsidePath
	}
	return 0
}

// CastleThroughQueenside returns the queenside castle-path mask for the
// side to move, or zero when that right is gone.
func (gs *GameState) CastleThroughQueenside() Bitboard {
	if gs.node.whiteToMove {
		if gs.node.wCastleQ {
			return whiteQueensidePath
		}
		return 0
	}
	if gs.node.bCastleQ {
		return blackQueensidePath
	}
	return 0
}

// MakeMove plays a move: the current node is pushed for undo, the position
// is updated, and the derived state (castling rights, en passant, clocks,
// repetition count, side to move) follows.
func (gs *GameState) MakeMove(m Move) {
	gs.history = append(gs.history, gs.node)
	gs.node.pos.Apply(m)

	us := m.Piece.Color()
	switch {
	case m.Piece.Type() == King:
		if us == White {
			gs.node.wCastleK = false
			gs.node.wCastleQ = false
		} else {
			gs.node.bCastleK = false
			gs.node.bCastleQ = false
		}
	case m.Piece.Type() == Rook:
		switch m.From {
		case A1:
			gs.node.wCastleQ = false
		case H1:
			gs.node.wCastleK = false
		case A8:
			gs.node.bCastleQ = false
		case H8:
			gs.node.bCastleK = false
		}
	}

	if m.IsDoublePush() {
		gs.node.epPossible = true
		if us == White {
			gs.node.epSquare = m.To - 8
		} else {
			gs.node.epSquare = m.To + 8
		}
	} else {
		gs.node.epPossible = false
	}

	if m.Piece.Type() == Pawn || m.IsCapture() {
		gs.node.halfMoves = 0
	} else {
		gs.node.halfMoves++
	}
	if !gs.node.whiteToMove {
		gs.node.moveNumber++
	}

	gs.repeats[gs.node.pos.Key()]++
	gs.node.whiteToMove = !gs.node.whiteToMove
}

// UndoMove reverts the most recent MakeMove. The history must be
// non-empty; undoing past the initial state is a programmer error.
func (gs *GameState) UndoMove() {
	key := gs.node.pos.Key()
	if gs.repeats[key] <= 1 {
		delete(gs.repeats, key)
	} else {
		gs.repeats[key]--
	}
	last := len(gs.history) - 1
	gs.node = gs.history[last]
	gs.history = gs.history[:last]
}

// FlipMove hands the turn to the other side without touching anything
// else. The evaluator uses it to measure both sides' mobility.
func (gs *GameState) FlipMove() {
	gs.node.whiteToMove = !gs.node.whiteToMove
}

// ConvertMove resolves long algebraic notation ("e2e4", "e7e8q") against
// the legal moves of the current state, so the returned move carries the
// right flags for castling, captures, en passant, and promotion.
func (gs *GameState) ConvertMove(s string) (Move, error) {
	from, to, promo, err := parseMoveText(s)
	if err != nil {
		return NoMove, err
	}
	for _, m := range gs.GenerateMoves() {
		if m.From != from || m.To != to {
			continue
		}
		if m.IsPromotion() {
			if m.PromotionPiece() == promo {
				return m, nil
			}
			continue
		}
		if promo == NoPieceType {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("move %q is not legal here", s)
}

// String returns the FEN of the current state.
func (gs *GameState) String() string {
	return gs.FEN()
}
