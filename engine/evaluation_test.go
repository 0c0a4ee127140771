package engine

import (
	"testing"

	"github.com/rs/zerolog"

	mg "chess-ai/chessmg"
)

func mustFEN(t testing.TB, fen string) *mg.Position {
	t.Helper()
	p, err := mg.ParseFEN(fen)
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	return p
}

func TestEvaluation_StartIsBalanced(t *testing.T) {
	p := mg.NewPosition()
	p.LegalMoves()
	if got := Evaluation(p); got != 0 {
		t.Fatalf("start position: got %d want 0", got)
	}
}

func TestEvaluation_MaterialAndPosition(t *testing.T) {
	p := mustFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	p.LegalMoves()
	// queen 9 pawns plus table value 3 on d1 at weight 10
	if got := Evaluation(p); got != 930 {
		t.Fatalf("lone queen: got %d want 930", got)
	}

	p = mustFEN(t, "3qk3/8/8/8/8/8/8/4K3 w - - 0 1")
	p.LegalMoves()
	if got := Evaluation(p); got != -930 {
		t.Fatalf("black queen: got %d want -930", got)
	}
}

func TestEvaluation_BlackPawnTableIsMirrored(t *testing.T) {
	p := mustFEN(t, "4k3/8/8/3p4/3P4/8/8/4K3 w - - 0 1")
	p.LegalMoves()
	if got := Evaluation(p); got != 0 {
		t.Fatalf("mirrored pawns: got %d want 0", got)
	}
	if got := PieceScore(mg.BlackPawn, 35); got != PieceScore(mg.WhitePawn, 27) {
		t.Fatalf("d5 black pawn %d != d4 white pawn %d", got, PieceScore(mg.WhitePawn, 27))
	}
}

func TestEvaluation_PositionalWeightOverride(t *testing.T) {
	defer SetPositionalWeight(PositionalWeight)
	p := mustFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	p.LegalMoves()

	if got := (Evaluator{PositionalWeight: 0}).Evaluate(p); got != 900 {
		t.Fatalf("weight 0: got %d want 900", got)
	}
	if got := (Evaluator{PositionalWeight: 50}).Evaluate(p); got != 1050 {
		t.Fatalf("weight 50: got %d want 1050", got)
	}
	SetPositionalWeight(50)
	if got := Evaluation(p); got != 1050 {
		t.Fatalf("default weight 50: got %d want 1050", got)
	}
	SetPositionalWeight(-5)
	if PositionalWeight != 0 {
		t.Fatalf("negative weight not clamped: %d", PositionalWeight)
	}
}

func TestSearcher_SnapshotsEvaluator(t *testing.T) {
	defer SetPositionalWeight(PositionalWeight)
	p := mustFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")

	fixed := NewSearcher(SearcherConfig{Evaluator: &Evaluator{PositionalWeight: 0}, Logger: zerolog.Nop()})
	snap := NewSearcher(SearcherConfig{Logger: zerolog.Nop()})
	SetPositionalWeight(0)

	// Queen on every square is worth at least 900 plus one table point.
	_, score, err := snap.FindBestMove(p, p.LegalMoves(), 1)
	if err != nil || score <= 900 {
		t.Fatalf("default searcher lost its weight: score %d err %v", score, err)
	}
	SetPositionalWeight(50)
	_, score, err = fixed.FindBestMove(p, p.LegalMoves(), 1)
	if err != nil || score != 900 {
		t.Fatalf("weight 0 searcher: score %d err %v want 900", score, err)
	}
}

func TestEvaluation_TerminalOverride(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want int32
	}{
		{"white mated", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", -Checkmate},
		{"black mated", "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1", Checkmate},
		{"stalemate with material", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", DrawScore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustFEN(t, tc.fen)
			p.LegalMoves()
			if got := Evaluation(p); got != tc.want {
				t.Fatalf("got %d want %d", got, tc.want)
			}
		})
	}
}

func TestEvaluation_IsPure(t *testing.T) {
	p := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	p.LegalMoves()
	fen, hash := p.ToFEN(), p.Hash()
	first := Evaluation(p)
	for i := 0; i < 3; i++ {
		if got := Evaluation(p); got != first {
			t.Fatalf("call %d: got %d want %d", i, got, first)
		}
	}
	if p.ToFEN() != fen || p.Hash() != hash {
		t.Fatalf("evaluation modified the position")
	}
}
