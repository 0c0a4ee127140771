package chessmg

import "math/rand"

var (
	zobristPiece     [16][64]uint64
	zobristCastle    [16]uint64
	zobristEnPassant [8]uint64
	zobristSide      uint64
)

func init() {
	// Fixed seed keeps hashes stable across runs and tests.
	rnd := rand.New(rand.NewSource(0xC0DE))
	for pc := range zobristPiece {
		for sq := range zobristPiece[pc] {
			zobristPiece[pc][sq] = rnd.Uint64()
		}
	}
	for i := range zobristCastle {
		zobristCastle[i] = rnd.Uint64()
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// ComputeZobrist hashes the position from scratch. The incremental key
// returned by Hash must always equal it.
func (p *Position) ComputeZobrist() uint64 {
	var key uint64
	for sq, pc := range p.board {
		if pc != NoPiece {
			key ^= zobristPiece[pc][sq]
		}
	}
	if p.side == Black {
		key ^= zobristSide
	}
	key ^= zobristCastle[p.rights.index()]
	if p.enPassant != NoSquare {
		key ^= zobristEnPassant[p.enPassant.File()]
	}
	return key
}
