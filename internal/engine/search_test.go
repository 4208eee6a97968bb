package engine

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/gavlegoat/chess/internal/board"
	"github.com/gavlegoat/chess/internal/testutil"
)

func newTestSearcher() *AlphaBetaSearcher {
	return NewAlphaBetaSearcher(NewBasicEvaluator())
}

// From the start position at depth two nothing material can happen, so
// the engine maximizes mobility: e4 or e3, answered by e5 or e6, for a
// dead-even score.
func TestSearchOpeningDepthTwo(t *testing.T) {
	gs := board.NewGameState()
	searcher := newTestSearcher()
	info := NewSearchInfo()
	var stop atomic.Bool

	limits := &SearchLimits{MaxDepth: 2}
	score, best, err := searcher.Search(gs, limits, info, &stop)
	testutil.AssertNoError(t, err)

	e4 := mustConvert(t, gs, "e2e4")
	e3 := mustConvert(t, gs, "e2e3")
	testutil.AssertTrue(t, best == e4 || best == e3, "best move %v, want e2e4 or e2e3", best)
	testutil.AssertTrue(t, math.Abs(score) <= 0.001, "score %v, want ~0", score)

	pv := info.PV()
	testutil.AssertEqual(t, len(pv), 2)
	testutil.AssertTrue(t, pv[0] == e4 || pv[0] == e3, "pv head %v, want e2e4 or e2e3", pv[0])
	reply := pv[1].String()
	testutil.AssertTrue(t, reply == "e7e5" || reply == "e7e6", "pv reply %v, want e7e5 or e7e6", reply)

	testutil.AssertEqual(t, info.Depth(), 2)
	testutil.AssertTrue(t, math.Abs(info.Score()) <= 0.001, "info score %v, want ~0", info.Score())
	testutil.AssertTrue(t, info.Nodes() > 0, "nodes should have been counted")
}

// Black mates in two: 1...Qd7+ 2.Kb8 Qb7#. The PV stops at the mate even
// though the nominal depth is four plies.
func TestSearchMateInTwo(t *testing.T) {
	gs, err := board.ParseFEN("2K5/8/2k5/8/8/8/8/3q4 b - - 0 1")
	testutil.AssertNoError(t, err)

	qd7 := mustConvert(t, gs, "d1d7")
	gs.MakeMove(qd7)
	kb8 := mustConvert(t, gs, "c8b8")
	gs.MakeMove(kb8)
	qb7 := mustConvert(t, gs, "d7b7")
	gs.UndoMove()
	gs.UndoMove()

	searcher := newTestSearcher()
	info := NewSearchInfo()
	var stop atomic.Bool

	limits := &SearchLimits{MateIn: 2}
	score, best, err := searcher.Search(gs, limits, info, &stop)
	testutil.AssertNoError(t, err)

	testutil.AssertTrue(t, score <= -100, "score %v, want <= -100 (Black mates)", score)
	testutil.AssertEqual(t, best, qd7)
	testutil.AssertEqual(t, info.PV(), []board.Move{qd7, kb8, qb7})
}

func TestSearchNodeCap(t *testing.T) {
	gs := board.NewGameState()
	searcher := newTestSearcher()
	info := NewSearchInfo()
	var stop atomic.Bool

	limits := &SearchLimits{MaxNodes: 200}
	_, best, err := searcher.Search(gs, limits, info, &stop)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, best != board.NoMove, "a best move from depth one should survive the cap")
	testutil.AssertTrue(t, info.Nodes() <= 201, "visited %d nodes, cap was 200", info.Nodes())
	testutil.AssertTrue(t, stop.Load(), "hitting the node cap should raise the stop flag")
}

func TestSearchRestrictedRootMoves(t *testing.T) {
	gs := board.NewGameState()
	searcher := newTestSearcher()
	info := NewSearchInfo()
	var stop atomic.Bool

	a3 := mustConvert(t, gs, "a2a3")
	limits := &SearchLimits{MaxDepth: 1, SearchMoves: []board.Move{a3}}
	_, best, err := searcher.Search(gs, limits, info, &stop)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, best, a3)
}

func TestSearchStoppedBeforeAnyMove(t *testing.T) {
	gs := board.NewGameState()
	searcher := newTestSearcher()
	info := NewSearchInfo()
	var stop atomic.Bool
	stop.Store(true)

	_, _, err := searcher.Search(gs, &SearchLimits{MaxDepth: 3}, info, &stop)
	if err != ErrNoMove {
		t.Errorf("got error %v, want ErrNoMove", err)
	}
}

// Deeper iterations replace the PV; the committed depth is monotone.
func TestSearchIterativeDeepening(t *testing.T) {
	gs := board.NewGameState()
	searcher := newTestSearcher()
	info := NewSearchInfo()
	var stop atomic.Bool

	_, best, err := searcher.Search(gs, &SearchLimits{MaxDepth: 3}, info, &stop)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, info.Depth(), 3)

	// The committed PV starts with the best move and plays out legally.
	pv := info.PV()
	testutil.AssertTrue(t, len(pv) >= 2, "pv %v too short for depth 3", pv)
	testutil.AssertEqual(t, pv[0], best)
	for _, m := range pv {
		legal := false
		for _, lm := range gs.GenerateMoves() {
			if lm == m {
				legal = true
				break
			}
		}
		testutil.AssertTrue(t, legal, "pv move %v is not legal in sequence", m)
		gs.MakeMove(m)
	}
	for range pv {
		gs.UndoMove()
	}
}

func mustConvert(t *testing.T, gs *board.GameState, tok string) board.Move {
	t.Helper()
	m, err := gs.ConvertMove(tok)
	if err != nil {
		t.Fatalf("ConvertMove(%q): %v", tok, err)
	}
	return m
}
