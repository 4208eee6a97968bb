package engine

import (
	"errors"
	"math"
	"sync/atomic"

	"github.com/gavlegoat/chess/internal/board"
)

// MateScore is the magnitude reported for checkmate, in pawns. It is a
// flat constant rather than a depth-scaled infinity, so principal
// variations near mate can come up short of the nominal depth.
const MateScore = 1000.0

// ErrNoMove is returned when the search is stopped before any root move
// has been scored.
var ErrNoMove = errors.New("stopped before finding any moves")

// AlphaBetaSearcher is an iterative-deepening negamax searcher with
// alpha-beta pruning, a capture-only quiescence extension, and move
// ordering driven by the principal variation of the previous iteration.
type AlphaBetaSearcher struct {
	eval Evaluator
}

// NewAlphaBetaSearcher builds a searcher around the given evaluator.
func NewAlphaBetaSearcher(eval Evaluator) *AlphaBetaSearcher {
	return &AlphaBetaSearcher{eval: eval}
}

// Initialize warms up the evaluator.
func (s *AlphaBetaSearcher) Initialize(gs *board.GameState) {
	s.eval.Initialize(gs)
}

// Search runs root iterations of increasing depth until a limit is hit or
// the stop flag is set, then returns the best root move found and its
// score in pawns from White's perspective. Scores inside the recursion are
// always from the side to move; only the public return is re-signed.
func (s *AlphaBetaSearcher) Search(gs *board.GameState, limits *SearchLimits, info *SearchInfo, stop *atomic.Bool) (float64, board.Move, error) {
	ctx := &searchCtx{eval: s.eval, limits: limits, info: info, stop: stop}

	bestMove := board.NoMove
	bestScore := 0.0
	found := false

	maxDepth := limits.EffectiveDepth()
	for depth := 1; depth <= maxDepth; depth++ {
		if stop.Load() {
			break
		}

		rootMoves := gs.GenerateMoves()
		if len(limits.SearchMoves) > 0 {
			rootMoves = restrictMoves(rootMoves, limits.SearchMoves)
		}
		if len(rootMoves) == 0 {
			break
		}

		pv := info.PV()
		var pvMove board.Move
		if len(pv) > 0 {
			pvMove = pv[0]
		}
		queue := newMoveQueue(gs.Pos(), rootMoves, pvMove)

		iterScore := math.Inf(-1)
		iterBest := board.NoMove
		var iterPV []board.Move
		completed := true

		for queue.Len() > 0 {
			if stop.Load() {
				completed = false
				break
			}
			m := queue.Next()

			var childTail []board.Move
			if len(pv) > 1 && m == pv[0] {
				childTail = pv[1:]
			}

			gs.MakeMove(m)
			child := ctx.alphaBeta(gs, depth-1, math.Inf(-1), -iterScore, false, childTail)
			gs.UndoMove()
			if stop.Load() {
				completed = false
				break
			}

			if score := -child.Score; score > iterScore {
				iterScore = score
				iterBest = m
				iterPV = append([]board.Move{m}, child.PV...)
			}
		}

		// The best root move and score are committed even when the
		// iteration was interrupted; the PV is only replaced after a
		// fully completed depth.
		if iterBest != board.NoMove {
			bestMove = iterBest
			bestScore = iterScore
			found = true
			info.SetScore(whiteSigned(iterScore, gs.WhitesMove()))
		}
		if !completed {
			break
		}
		info.SetPV(iterPV)
		info.SetDepth(depth)
	}

	if !found {
		return 0, board.NoMove, ErrNoMove
	}
	return whiteSigned(bestScore, gs.WhitesMove()), bestMove, nil
}

func whiteSigned(score float64, whiteToMove bool) float64 {
	if whiteToMove {
		return score
	}
	return -score
}

func restrictMoves(moves, allowed []board.Move) []board.Move {
	kept := moves[:0]
	for _, m := range moves {
		for _, a := range allowed {
			if m == a {
				kept = append(kept, m)
				break
			}
		}
	}
	return kept
}

// searchCtx bundles the state threaded through one go command's recursion.
type searchCtx struct {
	eval   Evaluator
	limits *SearchLimits
	info   *SearchInfo
	stop   *atomic.Bool
}

// alphaBeta is a fail-hard negamax search. At the horizon it continues as
// a capture-only quiescence search in which the side to move may stand pat
// on the static evaluation instead of capturing; a quiescence node that
// considered no captures returns the static evaluation signed to the side
// to move.
// pvTail is the remaining principal variation along the current line and
// promotes its head to the front of the move ordering.
func (ctx *searchCtx) alphaBeta(gs *board.GameState, depth int, alpha, beta float64, quiescence bool, pvTail []board.Move) SearchResult {
	if ctx.stop.Load() {
		return SearchResult{}
	}
	if n := ctx.info.AddNode(); ctx.limits.MaxNodes > 0 && n > ctx.limits.MaxNodes {
		ctx.stop.Store(true)
		return SearchResult{}
	}

	if depth == 0 && !quiescence {
		quiescence = true
	}

	moves := gs.GenerateMoves()
	if len(moves) == 0 {
		if gs.InCheck() {
			return SearchResult{Score: -MateScore}
		}
		return SearchResult{Score: 0}
	}

	if quiescence {
		standPat := ctx.staticEval(gs)
		if standPat >= beta {
			return SearchResult{Score: beta}
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var pvMove board.Move
	if len(pvTail) > 0 {
		pvMove = pvTail[0]
	}
	queue := newMoveQueue(gs.Pos(), moves, pvMove)

	var localPV []board.Move
	searchedAny := false
	for queue.Len() > 0 {
		m := queue.Next()
		if quiescence && !m.IsCapture() {
			continue
		}
		searchedAny = true

		var childTail []board.Move
		if len(pvTail) > 1 && m == pvTail[0] {
			childTail = pvTail[1:]
		}
		childDepth := depth - 1
		if childDepth < 0 {
			childDepth = 0
		}

		gs.MakeMove(m)
		child := ctx.alphaBeta(gs, childDepth, -beta, -alpha, quiescence, childTail)
		gs.UndoMove()
		if ctx.stop.Load() {
			return SearchResult{}
		}

		score := -child.Score
		if score >= beta {
			return SearchResult{Score: beta}
		}
		if score > alpha {
			alpha = score
			localPV = append([]board.Move{m}, child.PV...)
		}
	}

	if quiescence && !searchedAny {
		return SearchResult{Score: ctx.staticEval(gs)}
	}
	return SearchResult{Score: alpha, PV: localPV}
}

// staticEval signs the White-positive evaluation to the side to move.
func (ctx *searchCtx) staticEval(gs *board.GameState) float64 {
	e := ctx.eval.Evaluate(gs)
	if !gs.WhitesMove() {
		e = -e
	}
	return e
}
