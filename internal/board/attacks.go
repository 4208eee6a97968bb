package board

import "sync"

// Attack tables for the non-sliding pieces, filled once by Initialize.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
)

var (
	initOnce   sync.Once
	magicsUsed MagicNumbers
)

// Initialize builds every precomputed attack table: knight and king boards
// by offset enumeration and the rook/bishop magic tables by randomized
// search. It is safe to call from concurrent isready handlers; only the
// first call does any work. hint optionally supplies multipliers from a
// previous run, and the return value reports the multipliers in use so the
// caller can persist them.
func Initialize(hint *MagicNumbers) MagicNumbers {
	initOnce.Do(func() {
		initLeaperTables()
		magicsUsed = initMagicTables(hint)
	})
	return magicsUsed
}

func initLeaperTables() {
	knightOffsets := [8][2]int{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
	kingOffsets := [8][2]int{
		{0, 1}, {1, 1}, {1, 0}, {1, -1},
		{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
	}
	for sq := A1; sq <= H8; sq++ {
		file, rank := sq.File(), sq.Rank()
		for _, d := range knightOffsets {
			if f, r := file+d[0], rank+d[1]; f >= 0 && f <= 7 && r >= 0 && r <= 7 {
				knightAttacks[sq] = knightAttacks[sq].Set(NewSquare(f, r))
			}
		}
		for _, d := range kingOffsets {
			if f, r := file+d[0], rank+d[1]; f >= 0 && f <= 7 && r >= 0 && r <= 7 {
				kingAttacks[sq] = kingAttacks[sq].Set(NewSquare(f, r))
			}
		}
	}
}

// KnightAttacks returns the knight attack set from a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack set from a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// AttacksTo returns the squares holding pieces of victim's opponent that
// attack sq under the supplied occupancy. Knight and king attack boards
// are symmetric, so the board from sq intersected with the enemy pieces
// gives the attackers directly; sliders go through the magic tables; pawn
// attackers sit on the two diagonals a pawn would capture from, which
// depend on the victim's color.
func AttacksTo(p *Position, sq Square, victim Color, occ Bitboard) Bitboard {
	enemy := victim.Other()
	attackers := knightAttacks[sq] & p.Pieces[enemy][Knight]
	attackers |= kingAttacks[sq] & p.Pieces[enemy][King]
	attackers |= BishopAttacks(sq, occ) & (p.Pieces[enemy][Bishop] | p.Pieces[enemy][Queen])
	attackers |= RookAttacks(sq, occ) & (p.Pieces[enemy][Rook] | p.Pieces[enemy][Queen])

	file, rank := sq.File(), sq.Rank()
	pawns := p.Pieces[enemy][Pawn]
	if victim == White {
		if rank < 7 && file > 0 && pawns.IsSet(sq+7) {
			attackers = attackers.Set(sq + 7)
		}
		if rank < 7 && file < 7 && pawns.IsSet(sq+9) {
			attackers = attackers.Set(sq + 9)
		}
	} else {
		if rank > 0 && file < 7 && pawns.IsSet(sq-7) {
			attackers = attackers.Set(sq - 7)
		}
		if rank > 0 && file > 0 && pawns.IsSet(sq-9) {
			attackers = attackers.Set(sq - 9)
		}
	}
	return attackers
}

// InCheck reports whether the given color's king is attacked.
func InCheck(c Color, p *Position) bool {
	return AttacksTo(p, p.KingSquare(c), c, p.All) != 0
}
