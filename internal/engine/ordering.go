package engine

import (
	"container/heap"

	"github.com/gavlegoat/chess/internal/board"
)

// Move ordering. Each node builds a fresh priority queue over its moves:
// the expected PV move first, then captures by most-valuable-victim /
// least-valuable-attacker, then everything else. Draining the queue yields
// every move exactly once.

// Ordering weights; the king never appears as a victim.
var orderValue = [6]int{1, 3, 3, 5, 9, 20}

const (
	pvScore      = 1 << 24
	captureScore = 1 << 16
)

type moveQueue struct {
	moves  []board.Move
	scores []int
}

// newMoveQueue scores the moves against the node's PV move and the piece
// values of capture targets, then heapifies. The queue is parameterized
// for this node only and is discarded after the node is searched.
func newMoveQueue(p *board.Position, moves []board.Move, pvMove board.Move) *moveQueue {
	q := &moveQueue{
		moves:  moves,
		scores: make([]int, len(moves)),
	}
	for i, m := range moves {
		q.scores[i] = scoreMove(p, m, pvMove)
	}
	heap.Init(q)
	return q
}

func scoreMove(p *board.Position, m board.Move, pvMove board.Move) int {
	if m == pvMove && m != board.NoMove {
		return pvScore
	}
	if !m.IsCapture() {
		return 0
	}
	victim := board.Pawn
	if !m.IsEnPassant() {
		victim = p.PieceAt(m.To).Type()
	}
	return captureScore + 16*orderValue[victim] - orderValue[m.Piece.Type()]
}

func (q *moveQueue) Len() int { return len(q.moves) }

func (q *moveQueue) Less(i, j int) bool { return q.scores[i] > q.scores[j] }

func (q *moveQueue) Swap(i, j int) {
	q.moves[i], q.moves[j] = q.moves[j], q.moves[i]
	q.scores[i], q.scores[j] = q.scores[j], q.scores[i]
}

func (q *moveQueue) Push(x any) {
	m := x.(board.Move)
	q.moves = append(q.moves, m)
	q.scores = append(q.scores, 0)
}

func (q *moveQueue) Pop() any {
	n := len(q.moves) - 1
	m := q.moves[n]
	q.moves = q.moves[:n]
	q.scores = q.scores[:n]
	return m
}

// Next removes and returns the best remaining move.
func (q *moveQueue) Next() board.Move {
	return heap.Pop(q).(board.Move)
}
