package engine

import (
	"math"
	"testing"

	"github.com/gavlegoat/chess/internal/board"
	"github.com/gavlegoat/chess/internal/testutil"
)

func evalFEN(t *testing.T, fen string) float64 {
	t.Helper()
	gs, err := board.ParseFEN(fen)
	testutil.AssertNoError(t, err)
	return NewBasicEvaluator().Evaluate(gs)
}

func TestEvaluateStartPosition(t *testing.T) {
	if got := evalFEN(t, board.StartFEN); got != 0 {
		t.Errorf("start position evaluates to %v, want 0", got)
	}
}

// Mirrored positions must evaluate to opposite scores.
func TestEvaluateAntisymmetry(t *testing.T) {
	pairs := [][2]string{
		{
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1",
			"rnbqkbnr/pppp1ppp/8/4p3/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		},
		{
			"rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R b KQkq - 1 1",
			"rnbqkb1r/pppppppp/5n2/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 1 1",
		},
		{
			"4k3/8/8/8/8/8/8/QQ2K3 w - - 0 1",
			"qq2k3/8/8/8/8/8/8/4K3 b - - 0 1",
		},
	}
	for _, pair := range pairs {
		a, b := evalFEN(t, pair[0]), evalFEN(t, pair[1])
		if math.Abs(a+b) > 1e-9 {
			t.Errorf("mirrored positions evaluate to %v and %v, want opposites", a, b)
		}
	}
}

func TestEvaluateMaterial(t *testing.T) {
	// White is up a queen; mobility also favors White, so the score must
	// exceed the bare material difference.
	score := evalFEN(t, "4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
	testutil.AssertTrue(t, score >= 9, "queen-up position scores %v, want >= 9", score)

	// A rook for Black mirrors negative.
	score = evalFEN(t, "r3k3/8/8/8/8/8/8/4K3 w - - 0 1")
	testutil.AssertTrue(t, score <= -5, "rook-down position scores %v, want <= -5", score)
}

func TestEvaluateDoesNotDisturbState(t *testing.T) {
	gs, err := board.ParseFEN(board.StartFEN)
	testutil.AssertNoError(t, err)
	before := gs.FEN()
	NewBasicEvaluator().Evaluate(gs)
	testutil.AssertEqual(t, gs.FEN(), before)
}

func TestPawnStructurePenalties(t *testing.T) {
	gs, err := board.ParseFEN("4k3/8/8/8/8/3P4/P2P4/4K3 w - - 0 1")
	testutil.AssertNoError(t, err)
	// The d-file is doubled (-0.5); the a-pawn is isolated (-0.5); the
	// doubled d-pawns are isolated too (-0.5).
	testutil.AssertEqual(t, pawnStructure(gs.Pos(), board.White), -1.5)
	testutil.AssertEqual(t, pawnStructure(gs.Pos(), board.Black), 0.0)
}

func TestBishopPair(t *testing.T) {
	with := evalFEN(t, "4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1")
	without := evalFEN(t, "4k3/8/8/8/8/8/8/2B1K3 w - - 0 1")
	testutil.AssertTrue(t, with > without, "bishop pair %v should beat lone bishop %v", with, without)
}
