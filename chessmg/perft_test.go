package chessmg_test

import (
	"strings"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
	"golang.org/x/exp/slices"

	mg "chess-ai/chessmg"
)

var perftSuite = []struct {
	name   string
	fen    string
	counts []uint64 // depth 1, 2, 3...
}{
	{"initial", mg.FENStartPos, []uint64{20, 400, 8902}},
	{"kiwipete", kiwipete, []uint64{48, 2039}},
	{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []uint64{14, 191, 2812}},
	{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []uint64{6, 264, 9467}},
	{"position5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []uint64{44, 1486}},
}

func TestPerft(t *testing.T) {
	for _, tc := range perftSuite {
		t.Run(tc.name, func(t *testing.T) {
			p := mustFEN(t, tc.fen)
			before := p.ToFEN()
			for i, want := range tc.counts {
				if got := mg.Perft(p, i+1); got != want {
					t.Fatalf("perft depth%d: got %d want %d", i+1, got, want)
				}
			}
			if p.ToFEN() != before || p.Plies() != 0 {
				t.Fatalf("perft left the position modified")
			}
		})
	}
}

func TestPerftDivide_SumsToPerft(t *testing.T) {
	p := mustFEN(t, kiwipete)
	var sum uint64
	div := mg.PerftDivide(p, 2)
	for _, n := range div {
		sum += n
	}
	if len(div) != 48 || sum != 2039 {
		t.Fatalf("divide: %d roots summing to %d, want 48 and 2039", len(div), sum)
	}
}

// oracleFENs are compared move-for-move against reference generators.
var oracleFENs = []string{
	mg.FENStartPos,
	kiwipete,
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"4r2k/8/8/8/8/Q2n4/8/4K3 w - - 0 1",
	"k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
	"8/8/8/KPp4r/8/8/8/7k w - c6 0 2",
	"r3k2r/8/8/8/5r2/8/8/R3K2R w KQkq - 0 1",
	"1r5k/P7/8/8/8/8/8/K7 w - - 0 1",
}

func ourMoves(t *testing.T, fen string) []string {
	t.Helper()
	p := mustFEN(t, fen)
	var out []string
	for _, m := range p.LegalMoves() {
		out = append(out, m.String())
	}
	slices.Sort(out)
	return out
}

func TestLegalMoves_MatchDragontooth(t *testing.T) {
	for _, fen := range oracleFENs {
		b := dragontoothmg.ParseFen(fen)
		var want []string
		for _, m := range b.GenerateLegalMoves() {
			want = append(want, strings.ToLower(m.String()))
		}
		slices.Sort(want)
		if got := ourMoves(t, fen); strings.Join(got, " ") != strings.Join(want, " ") {
			t.Fatalf("%s:\n got %v\nwant %v", fen, got, want)
		}
	}
}

func TestLegalMoves_MatchNotnil(t *testing.T) {
	for _, fen := range oracleFENs {
		opt, err := chess.FEN(fen)
		if err != nil {
			t.Fatalf("chess.FEN(%q): %v", fen, err)
		}
		game := chess.NewGame(opt)
		var want []string
		for _, m := range game.ValidMoves() {
			want = append(want, chess.UCINotation{}.Encode(game.Position(), m))
		}
		slices.Sort(want)
		if got := ourMoves(t, fen); strings.Join(got, " ") != strings.Join(want, " ") {
			t.Fatalf("%s:\n got %v\nwant %v", fen, got, want)
		}
	}
}

func TestTerminalStatus_MatchNotnil(t *testing.T) {
	fens := []string{
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
		"R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1",
		mg.FENStartPos,
	}
	for _, fen := range fens {
		opt, err := chess.FEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		status := chess.NewGame(opt).Position().Status()
		p := mustFEN(t, fen)
		p.LegalMoves()
		if p.Checkmate() != (status == chess.Checkmate) || p.Stalemate() != (status == chess.Stalemate) {
			t.Fatalf("%s: checkmate=%v stalemate=%v, reference says %v", fen, p.Checkmate(), p.Stalemate(), status)
		}
	}
}

func dragonPerft(b *dragontoothmg.Board, depth int) uint64 {
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var n uint64
	for _, m := range moves {
		undo := b.Apply(m)
		n += dragonPerft(b, depth-1)
		undo()
	}
	return n
}

func TestPerft_MatchDragontoothDepth3(t *testing.T) {
	for _, fen := range oracleFENs[:4] {
		b := dragontoothmg.ParseFen(fen)
		want := dragonPerft(&b, 3)
		if got := mg.Perft(mustFEN(t, fen), 3); got != want {
			t.Fatalf("%s: perft3 got %d want %d", fen, got, want)
		}
	}
}
