package board

import (
	"testing"

	"github.com/gavlegoat/chess/internal/testutil"
)

// An empty legal move list must mean checkmate (in check) or stalemate
// (not in check), and a non-empty list means neither.
func TestNoMovesMeansGameOver(t *testing.T) {
	cases := []struct {
		name     string
		fen      string
		gameOver bool
		inCheck  bool
	}{
		{"fools mate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", true, true},
		{"queen mate", "3k4/3Q4/3K4/8/8/8/8/8 b - - 0 1", true, true},
		{"back rank mate", "4R2k/5ppp/8/8/8/8/8/6K1 b - - 0 1", true, true},
		{"corner stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", true, false},
		{"ordinary position", "6k1/5ppp/8/8/8/8/8/K3R3 b - - 0 1", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gs, err := ParseFEN(tc.fen)
			testutil.AssertNoError(t, err)
			moves := gs.GenerateMoves()
			testutil.AssertEqual(t, len(moves) == 0, tc.gameOver)
			testutil.AssertEqual(t, gs.InCheck(), tc.inCheck)
		})
	}
}

// Every generated move must leave the mover's own king safe.
func TestLegalMovesLeaveKingSafe(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/8/8/8/4Pp2/8/8/4K3 b - e3 0 1",
	}
	for _, fen := range fens {
		gs, err := ParseFEN(fen)
		testutil.AssertNoError(t, err)
		mover := gs.SideToMove()
		for _, m := range gs.GenerateMoves() {
			gs.MakeMove(m)
			testutil.AssertTrue(t, !InCheck(mover, gs.Pos()), "%s: %v leaves the king in check", fen, m)
			gs.UndoMove()
		}
	}
}

func TestCastlingGeneration(t *testing.T) {
	hasMove := func(gs *GameState, want Move) bool {
		for _, m := range gs.GenerateMoves() {
			if m == want {
				return true
			}
		}
		return false
	}
	wk := Move{From: E1, To: G1, Piece: WhiteKing, Flags: FlagKingCastle}
	wq := Move{From: E1, To: C1, Piece: WhiteKing, Flags: FlagQueenCastle}

	open, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, hasMove(open, wk), "kingside castle missing")
	testutil.AssertTrue(t, hasMove(open, wq), "queenside castle missing")

	// A rook covering f1 forbids kingside castling (the king passes
	// through an attacked square) but not queenside.
	attacked, err := ParseFEN("r4k2/5r2/8/8/8/8/8/R3K2R w KQ - 0 1")
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, !hasMove(attacked, wk), "castling through an attacked square")
	testutil.AssertTrue(t, hasMove(attacked, wq), "queenside castle missing")

	// Queenside needs b1 empty even though the king never crosses it.
	blockedB, err := ParseFEN("4k3/8/8/8/8/8/8/RN2K2R w KQ - 0 1")
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, !hasMove(blockedB, wq), "queenside castle with b1 occupied")
	testutil.AssertTrue(t, hasMove(blockedB, wk), "kingside castle missing")

	// No castling out of check.
	inCheck, err := ParseFEN("4k3/8/8/8/8/8/4r3/R3K2R w KQ - 0 1")
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, !hasMove(inCheck, wk), "castling while in check")
	testutil.AssertTrue(t, !hasMove(inCheck, wq), "castling while in check")
}

func TestAttacksTo(t *testing.T) {
	gs, err := ParseFEN("4k3/8/8/3p4/8/2N5/8/4K2R w - - 0 1")
	testutil.AssertNoError(t, err)
	p := gs.Pos()

	// The knight on c3 is the only white piece attacking d5.
	attackers := AttacksTo(p, D5, Black, p.All)
	testutil.AssertTrue(t, attackers.IsSet(C3), "knight on c3 attacks d5")
	testutil.AssertEqual(t, attackers.PopCount(), 1)

	// The rook on h1 attacks along the first rank and the h-file.
	attackers = AttacksTo(p, H8, Black, p.All)
	testutil.AssertTrue(t, attackers.IsSet(H1), "rook on h1 attacks h8")

	// Pawn attackers depend on the victim's color: the white pawn on c4
	// attacks b5 and d5 but sits harmlessly in front of the pawn on d3.
	gs2, err := ParseFEN("4k3/8/8/8/2P5/3p4/8/4K3 w - - 0 1")
	testutil.AssertNoError(t, err)
	p2 := gs2.Pos()
	attackers = AttacksTo(p2, D3, Black, p2.All)
	testutil.AssertEqual(t, attackers.PopCount(), 0)
	attackers = AttacksTo(p2, B5, Black, p2.All)
	testutil.AssertTrue(t, attackers.IsSet(C4), "white pawn on c4 attacks b5")
}

func TestInCheckDetection(t *testing.T) {
	cases := []struct {
		fen   string
		color Color
		want  bool
	}{
		{StartFEN, White, false},
		{"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", White, true},
		{"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", Black, false},
		{"rnbq1bnr/pppkpppp/8/1B1p4/4P3/8/PPPP1PPP/RNBQK1NR b KQ - 3 3", Black, true},
	}
	for _, tc := range cases {
		gs, err := ParseFEN(tc.fen)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, InCheck(tc.color, gs.Pos()), tc.want)
	}
}

func TestPromotionGeneration(t *testing.T) {
	gs, err := ParseFEN("3r4/2P5/8/8/8/8/8/k3K3 w - - 0 1")
	testutil.AssertNoError(t, err)
	var pushes, captures int
	for _, m := range gs.GenerateMoves() {
		if !m.IsPromotion() {
			continue
		}
		if m.IsCapture() {
			captures++
			testutil.AssertEqual(t, m.To, D8)
		} else {
			pushes++
			testutil.AssertEqual(t, m.To, C8)
		}
	}
	testutil.AssertEqual(t, pushes, 4)
	testutil.AssertEqual(t, captures, 4)
}
