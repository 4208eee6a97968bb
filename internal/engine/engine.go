// Package engine contains the playing brain: the evaluator and searcher
// abstractions, the iterative-deepening alpha-beta searcher, and the
// resource governor that runs beside it.
package engine

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gavlegoat/chess/internal/board"
)

// SearchLimits constrains one search. Zero values mean unlimited; a fresh
// SearchLimits is an infinite search.
type SearchLimits struct {
	MoveTime    time.Duration // wall-clock budget, enforced by the governor
	MaxNodes    uint64
	MaxDepth    int
	MateIn      int // moves; limits the search to 2*MateIn plies
	SearchMoves []board.Move
	Infinite    bool
	Ponder      bool
}

// MaxSearchDepth bounds iterative deepening when no depth cap is given.
const MaxSearchDepth = 64

// EffectiveDepth returns the deepest root iteration the limits allow.
func (l *SearchLimits) EffectiveDepth() int {
	if l.MateIn > 0 {
		return 2 * l.MateIn
	}
	if l.MaxDepth > 0 {
		return l.MaxDepth
	}
	return MaxSearchDepth
}

// SearchInfo is the progress record shared between the search worker and
// the governor. The scalar fields tolerate concurrent readers; the PV is
// guarded by a mutex and only read or replaced while it is held.
type SearchInfo struct {
	score atomic.Uint64 // math.Float64bits
	depth atomic.Int32
	nodes atomic.Uint64
	timeMS atomic.Int64

	mu sync.Mutex
	pv []board.Move
}

// NewSearchInfo returns a zeroed progress record.
func NewSearchInfo() *SearchInfo {
	return &SearchInfo{}
}

// Score returns the last committed score in pawns, White-positive.
func (si *SearchInfo) Score() float64 {
	return math.Float64frombits(si.score.Load())
}

// SetScore records the current score in pawns, White-positive.
func (si *SearchInfo) SetScore(s float64) {
	si.score.Store(math.Float64bits(s))
}

// Depth returns the last completed iteration depth.
func (si *SearchInfo) Depth() int {
	return int(si.depth.Load())
}

// SetDepth records a completed iteration depth.
func (si *SearchInfo) SetDepth(d int) {
	si.depth.Store(int32(d))
}

// Nodes returns the number of nodes visited so far.
func (si *SearchInfo) Nodes() uint64 {
	return si.nodes.Load()
}

// AddNode counts one visited node and returns the running total.
func (si *SearchInfo) AddNode() uint64 {
	return si.nodes.Add(1)
}

// TimeMS returns the elapsed search time in milliseconds, as last written
// by the governor.
func (si *SearchInfo) TimeMS() int64 {
	return si.timeMS.Load()
}

// SetTimeMS records the elapsed search time.
func (si *SearchInfo) SetTimeMS(ms int64) {
	si.timeMS.Store(ms)
}

// PV returns a copy of the current principal variation.
func (si *SearchInfo) PV() []board.Move {
	si.mu.Lock()
	defer si.mu.Unlock()
	pv := make([]board.Move, len(si.pv))
	copy(pv, si.pv)
	return pv
}

// SetPV replaces the principal variation. Called once per completed depth.
func (si *SearchInfo) SetPV(pv []board.Move) {
	si.mu.Lock()
	defer si.mu.Unlock()
	si.pv = pv
}

// SearchResult carries a subtree's score and the PV extension below it.
type SearchResult struct {
	Score float64
	PV    []board.Move
}

// Evaluator maps a game state to a score in pawns, positive for White.
type Evaluator interface {
	// Initialize may warm up internal state before a search.
	Initialize(gs *board.GameState)
	// Evaluate scores the state. It may mutate the state while working
	// (e.g. flipping the side to move) but must restore it before
	// returning.
	Evaluate(gs *board.GameState) float64
}

// Searcher finds a move under the given limits. Implementations own their
// internal state exclusively; the caller owns gs until Search returns and
// must not touch it concurrently. Search reports progress through info and
// honors stop cooperatively.
type Searcher interface {
	Initialize(gs *board.GameState)
	Search(gs *board.GameState, limits *SearchLimits, info *SearchInfo, stop *atomic.Bool) (float64, board.Move, error)
}
