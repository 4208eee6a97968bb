package engine

import "github.com/gavlegoat/chess/internal/board"

// Material values in pawns.
var pieceValue = [6]float64{1, 3, 3, 5, 9, 0}

const (
	mobilityWeight   = 0.1
	bishopPairBonus  = 0.5
	pawnDefectWeight = 0.5
)

// BasicEvaluator scores material, mobility, the bishop pair, and pawn
// structure. It knows nothing about checkmate; the searcher substitutes
// mate scores before the evaluator is ever consulted.
type BasicEvaluator struct{}

// NewBasicEvaluator returns the reference evaluator.
func NewBasicEvaluator() *BasicEvaluator {
	return &BasicEvaluator{}
}

// Initialize is a no-op; the evaluator keeps no state between calls.
func (e *BasicEvaluator) Initialize(gs *board.GameState) {}

// Evaluate returns the score in pawns, positive when White stands better.
func (e *BasicEvaluator) Evaluate(gs *board.GameState) float64 {
	p := gs.Pos()

	material := 0.0
	for pt := board.Pawn; pt < board.King; pt++ {
		material += pieceValue[pt] * float64(p.Count(board.White, pt)-p.Count(board.Black, pt))
	}

	// Mobility: legal move counts for both sides, the opponent's obtained
	// by flipping the turn.
	toMoveMobility := len(gs.GenerateMoves())
	gs.FlipMove()
	otherMobility := len(gs.GenerateMoves())
	gs.FlipMove()
	whiteMobility, blackMobility := toMoveMobility, otherMobility
	if !gs.WhitesMove() {
		whiteMobility, blackMobility = otherMobility, toMoveMobility
	}
	mobility := mobilityWeight * float64(whiteMobility-blackMobility)

	pair := 0.0
	if p.Count(board.White, board.Bishop) == 2 {
		pair += bishopPairBonus
	}
	if p.Count(board.Black, board.Bishop) == 2 {
		pair -= bishopPairBonus
	}

	structure := pawnStructure(p, board.White) - pawnStructure(p, board.Black)

	return material + mobility + pair + structure
}

// pawnStructure returns the (non-positive) structure penalty for one side:
// half a pawn for each file with doubled pawns and for each isolated pawn
// file.
func pawnStructure(p *board.Position, c board.Color) float64 {
	var files [8]int
	for _, sq := range p.Squares(c, board.Pawn) {
		files[sq.File()]++
	}
	penalty := 0.0
	for f := 0; f < 8; f++ {
		if files[f] >= 2 {
			penalty -= pawnDefectWeight
		}
		if files[f] >= 1 &&
			(f == 0 || files[f-1] == 0) &&
			(f == 7 || files[f+1] == 0) {
			penalty -= pawnDefectWeight
		}
	}
	return penalty
}
