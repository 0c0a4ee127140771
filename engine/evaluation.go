package engine

import (
	mg "chess-ai/chessmg"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	MaxScore  int32 = 32500
	Checkmate int32 = 20000
	DrawScore int32 = 0
)

// MaterialScale is the integer unit of one pawn.
const MaterialScale = 100

// PieceValues in pawns; the king is never traded so it scores nothing.
var PieceValues = [7]int32{
	mg.Pawn:   1,
	mg.Knight: 3,
	mg.Bishop: 3,
	mg.Rook:   5,
	mg.Queen:  9,
	mg.King:   0,
}

// PositionalWeight is the package default multiplier for the raw
// piece-square value. 10 is 0.1 of a pawn per table point at MaterialScale
// 100. Searchers copy it when they are built, so changing it never affects a
// search already in flight.
var PositionalWeight int32 = 10

// SetPositionalWeight replaces the package default. Not safe to call
// concurrently with NewSearcher or DefaultEvaluator.
func SetPositionalWeight(w int32) { PositionalWeight = Max(w, 0) }

// Evaluator scores positions with a fixed positional weight. Each Searcher
// owns one, so hosts can tune the weight per search without touching
// package state.
type Evaluator struct {
	PositionalWeight int32
}

// DefaultEvaluator snapshots the package default weight.
func DefaultEvaluator() Evaluator {
	return Evaluator{PositionalWeight: PositionalWeight}
}

// PieceSquareTables are laid out as seen from White's side of the board:
// index 0 is a8, index 63 is h1. The pawn table is White's; Black's pawns
// read it mirrored. The other tables apply unmirrored to both colors, and the
// king has none.
var PieceSquareTables = [7][64]int32{
	mg.Knight: {
		1, 1, 1, 1, 1, 1, 1, 1,
		1, 2, 2, 2, 2, 2, 2, 1,
		1, 2, 3, 3, 3, 3, 2, 1,
		1, 2, 3, 4, 4, 3, 2, 1,
		1, 2, 3, 4, 4, 3, 2, 1,
		1, 2, 3, 3, 3, 3, 2, 1,
		1, 2, 2, 2, 2, 2, 2, 1,
		1, 1, 1, 1, 1, 1, 1, 1,
	},
	mg.Bishop: {
		4, 3, 2, 1, 1, 2, 3, 4,
		3, 4, 3, 2, 2, 3, 4, 3,
		2, 3, 4, 3, 3, 4, 3, 2,
		1, 2, 3, 4, 4, 3, 2, 1,
		1, 2, 3, 4, 4, 3, 2, 1,
		2, 3, 4, 3, 3, 4, 3, 2,
		3, 4, 3, 2, 2, 3, 4, 3,
		4, 3, 2, 1, 1, 2, 3, 4,
	},
	mg.Queen: {
		1, 1, 1, 3, 1, 1, 1, 1,
		1, 2, 3, 3, 3, 1, 1, 1,
		1, 4, 3, 3, 3, 4, 2, 1,
		1, 2, 3, 3, 3, 2, 2, 1,
		1, 2, 3, 3, 3, 2, 2, 1,
		1, 4, 3, 3, 3, 4, 2, 1,
		1, 1, 2, 3, 3, 1, 1, 1,
		1, 1, 1, 3, 1, 1, 1, 1,
	},
	mg.Rook: {
		4, 3, 4, 4, 4, 4, 3, 4,
		4, 4, 4, 4, 4, 4, 4, 4,
		1, 1, 2, 3, 3, 2, 1, 1,
		1, 2, 3, 4, 4, 3, 2, 1,
		1, 2, 3, 4, 4, 3, 2, 1,
		1, 1, 2, 2, 2, 2, 1, 1,
		4, 4, 4, 4, 4, 4, 4, 4,
		4, 3, 2, 1, 1, 2, 3, 4,
	},
	mg.Pawn: {
		8, 8, 8, 8, 8, 8, 8, 8,
		8, 8, 8, 8, 8, 8, 8, 8,
		5, 6, 6, 7, 7, 6, 6, 5,
		2, 3, 3, 5, 5, 3, 3, 2,
		1, 2, 3, 4, 4, 3, 2, 1,
		1, 1, 2, 3, 3, 2, 1, 1,
		1, 1, 1, 0, 0, 1, 1, 1,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
}

// tableIndex maps a square to its PieceSquareTables slot for piece pc.
func tableIndex(pc mg.Piece, sq mg.Square) int {
	i := sq.Row()*8 + sq.Col()
	if pc.Kind() == mg.Pawn && pc.Color() == mg.Black {
		i ^= 56
	}
	return i
}

// PieceScore is the material plus weighted positional value of one piece,
// always positive, at the package default weight.
func PieceScore(pc mg.Piece, sq mg.Square) int32 {
	return DefaultEvaluator().PieceScore(pc, sq)
}

// Evaluation is Evaluate at the package default weight.
func Evaluation(p *mg.Position) int32 {
	return DefaultEvaluator().Evaluate(p)
}

func (e Evaluator) PieceScore(pc mg.Piece, sq mg.Square) int32 {
	k := pc.Kind()
	return PieceValues[k]*MaterialScale + PieceSquareTables[k][tableIndex(pc, sq)]*e.PositionalWeight
}

// Evaluate scores the position from White's point of view. It relies on
// the terminal flags from the most recent LegalMoves call: a mated side to
// move scores -Checkmate for White and +Checkmate for Black, and stalemate
// scores DrawScore. It never modifies the position.
func (e Evaluator) Evaluate(p *mg.Position) int32 {
	if p.Checkmate() {
		if p.SideToMove() == mg.White {
			return -Checkmate
		}
		return Checkmate
	}
	if p.Stalemate() {
		return DrawScore
	}

	var score int32
	for sq := mg.Square(0); sq < 64; sq++ {
		pc := p.PieceAt(sq)
		if pc == mg.NoPiece {
			continue
		}
		if pc.Color() == mg.White {
			score += e.PieceScore(pc, sq)
		} else {
			score -= e.PieceScore(pc, sq)
		}
	}
	return score
}
