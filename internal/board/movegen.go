package board

// Legal move generation. Pseudo-legal moves are enumerated category by
// category, then filtered by applying each move to a copy of the bare
// position and rejecting any that leave the mover's king attacked.

// GenerateMoves returns every legal move for the side to move. For legal
// positions it cannot fail; a state with no king for the side to move is a
// programmer error and produces garbage.
func (gs *GameState) GenerateMoves() []Move {
	pseudo := gs.generatePseudoLegal()
	us := gs.SideToMove()
	legal := pseudo[:0]
	for _, m := range pseudo {
		after := gs.node.pos
		after.Apply(m)
		if !InCheck(us, &after) {
			legal = append(legal, m)
		}
	}
	return legal
}

func (gs *GameState) generatePseudoLegal() []Move {
	p := &gs.node.pos
	us := gs.SideToMove()
	them := us.Other()
	own := p.Occupied[us]
	enemies := p.Occupied[them]
	occ := p.All

	moves := make([]Move, 0, 48)

	// King moves.
	king := NewPiece(King, us)
	kingSq := p.KingSquare(us)
	moves = appendTargets(moves, kingSq, KingAttacks(kingSq)&^own, king, enemies)

	// Castling.
	moves = gs.appendCastling(moves, p, us, occ)

	// En passant captures.
	moves = gs.appendEnPassant(moves, p, us)

	// Normal pawn moves.
	moves = appendPawnMoves(moves, p, us, enemies, occ)

	// Knight moves.
	knight := NewPiece(Knight, us)
	for _, from := range p.Squares(us, Knight) {
		moves = appendTargets(moves, from, KnightAttacks(from)&^own, knight, enemies)
	}

	// Sliding pieces.
	rook := NewPiece(Rook, us)
	for _, from := range p.Squares(us, Rook) {
		moves = appendTargets(moves, from, RookAttacks(from, occ)&^own, rook, enemies)
	}
	bishop := NewPiece(Bishop, us)
	for _, from := range p.Squares(us, Bishop) {
		moves = appendTargets(moves, from, BishopAttacks(from, occ)&^own, bishop, enemies)
	}
	queen := NewPiece(Queen, us)
	for _, from := range p.Squares(us, Queen) {
		moves = appendTargets(moves, from, QueenAttacks(from, occ)&^own, queen, enemies)
	}

	return moves
}

// appendTargets emits one quiet or capture move per target square.
func appendTargets(moves []Move, from Square, targets Bitboard, pc Piece, enemies Bitboard) []Move {
	for targets != 0 {
		to := targets.PopLSB()
		flag := FlagQuiet
		if enemies.IsSet(to) {
			flag = FlagCapture
		}
		moves = append(moves, Move{From: from, To: to, Piece: pc, Flags: flag})
	}
	return moves
}

// appendCastling emits castling moves. A side may castle when it still
// holds the right, the king and rook stand on their home squares, every
// square on the king's path is empty (other than the king's own) and
// unattacked, and for queenside the b-file square is also empty.
func (gs *GameState) appendCastling(moves []Move, p *Position, us Color, occ Bitboard) []Move {
	king := NewPiece(King, us)
	kingFrom, rookK, rookQ, bFile := E1, H1, A1, B1
	kingToK, kingToQ := G1, C1
	if us == Black {
		kingFrom, rookK, rookQ, bFile = E8, H8, A8, B8
		kingToK, kingToQ = G8, C8
	}

	if path := gs.CastleThroughKingside(); path != 0 {
		if p.Pieces[us][King].IsSet(kingFrom) && p.Pieces[us][Rook].IsSet(rookK) &&
			occ&path&^SquareBB(kingFrom) == 0 && pathUnattacked(p, path, us, occ) {
			moves = append(moves, Move{From: kingFrom, To: kingToK, Piece: king, Flags: FlagKingCastle})
		}
	}
	if path := gs.CastleThroughQueenside(); path != 0 {
		if p.Pieces[us][King].IsSet(kingFrom) && p.Pieces[us][Rook].IsSet(rookQ) &&
			occ&path&^SquareBB(kingFrom) == 0 && !occ.IsSet(bFile) && pathUnattacked(p, path, us, occ) {
			moves = append(moves, Move{From: kingFrom, To: kingToQ, Piece: king, Flags: FlagQueenCastle})
		}
	}
	return moves
}

func pathUnattacked(p *Position, path Bitboard, us Color, occ Bitboard) bool {
	for path != 0 {
		if AttacksTo(p, path.PopLSB(), us, occ) != 0 {
			return false
		}
	}
	return true
}

// appendEnPassant emits en passant captures: the two file-bounded diagonal
// origins behind the target square are checked for a friendly pawn. Only a
// target on the sixth rank (third for Black) counts, so a state whose turn
// was handed over by FlipMove never captures onto its own vacated square.
func (gs *GameState) appendEnPassant(moves []Move, p *Position, us Color) []Move {
	if !gs.node.epPossible {
		return moves
	}
	ep := gs.node.epSquare
	if (us == White && ep.Rank() != 5) || (us == Black && ep.Rank() != 2) {
		return moves
	}
	pawn := NewPiece(Pawn, us)
	pawns := p.Pieces[us][Pawn]
	file := ep.File()
	if us == White {
		if file < 7 && pawns.IsSet(ep-7) {
			moves = append(moves, Move{From: ep - 7, To: ep, Piece: pawn, Flags: FlagEnPassant})
		}
		if file > 0 && pawns.IsSet(ep-9) {
			moves = append(moves, Move{From: ep - 9, To: ep, Piece: pawn, Flags: FlagEnPassant})
		}
	} else {
		if file > 0 && pawns.IsSet(ep+7) {
			moves = append(moves, Move{From: ep + 7, To: ep, Piece: pawn, Flags: FlagEnPassant})
		}
		if file < 7 && pawns.IsSet(ep+9) {
			moves = append(moves, Move{From: ep + 9, To: ep, Piece: pawn, Flags: FlagEnPassant})
		}
	}
	return moves
}

// appendPawnMoves emits single pushes, double pushes, and diagonal
// captures, with the four promotion variants on the back rank. The target
// sets are computed for all pawns at once with directional shifts.
func appendPawnMoves(moves []Move, p *Position, us Color, enemies, occ Bitboard) []Move {
	pawn := NewPiece(Pawn, us)
	pawns := p.Pieces[us][Pawn]
	empty := ^occ

	var push1, push2, capL, capR, promoRank Bitboard
	var fromPush, fromDouble, fromL, fromR int
	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		capL = pawns.NorthWest() & enemies
		capR = pawns.NorthEast() & enemies
		promoRank = Rank8
		fromPush, fromDouble, fromL, fromR = -8, -16, -7, -9
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		capL = pawns.SouthWest() & enemies
		capR = pawns.SouthEast() & enemies
		promoRank = Rank1
		fromPush, fromDouble, fromL, fromR = 8, 16, 9, 7
	}

	emit := func(targets Bitboard, fromDelta int, base MoveFlag) {
		for targets != 0 {
			to := targets.PopLSB()
			from := Square(int(to) + fromDelta)
			if promoRank.IsSet(to) && base != FlagDoublePush {
				promo := FlagPromoteKnight
				if base == FlagCapture {
					promo = FlagPromoteKnightCapture
				}
				for i := MoveFlag(0); i < 4; i++ {
					moves = append(moves, Move{From: from, To: to, Piece: pawn, Flags: promo + i})
				}
			} else {
				moves = append(moves, Move{From: from, To: to, Piece: pawn, Flags: base})
			}
		}
	}

	emit(push1, fromPush, FlagQuiet)
	emit(push2, fromDouble, FlagDoublePush)
	emit(capL, fromL, FlagCapture)
	emit(capR, fromR, FlagCapture)
	return moves
}
