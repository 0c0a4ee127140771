package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	mg "chess-ai/chessmg"
	"chess-ai/engine"
)

func runSession(t *testing.T, cfg hostConfig, script string) (*host, string) {
	t.Helper()
	var out bytes.Buffer
	h := newHost(cfg, &out, zerolog.Nop())
	h.loop(readLines(strings.NewReader(script)))
	return h, out.String()
}

func TestHost_Handshake(t *testing.T) {
	_, out := runSession(t, defaultHostConfig(), "uci\nisready\n")
	for _, want := range []string{"id name", "option name PositionalWeight", "uciok", "readyok"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestHost_GoFindsMate(t *testing.T) {
	_, out := runSession(t, defaultHostConfig(), "position fen 7k/6pp/6Q1/8/8/2B5/8/6K1 w - - 0 1\ngo depth 3\n")
	if !strings.Contains(out, "info depth 1 score cp 20000") {
		t.Fatalf("no mate score reported:\n%s", out)
	}
	if !strings.HasSuffix(out, "bestmove g6g7\n") {
		t.Fatalf("want bestmove g6g7, got:\n%s", out)
	}
	// a mate at depth 1 ends the deepening
	if strings.Contains(out, "info depth 2") {
		t.Fatalf("kept searching after mate:\n%s", out)
	}
}

func TestHost_GoDefaultDepth(t *testing.T) {
	h, out := runSession(t, hostConfig{Depth: 2}, "position startpos\ngo\n")
	if !strings.Contains(out, "info depth 2") {
		t.Fatalf("expected two iterations:\n%s", out)
	}
	i := strings.LastIndex(out, "bestmove ")
	if i < 0 {
		t.Fatalf("no bestmove:\n%s", out)
	}
	m, err := h.pos.ParseMove(strings.TrimSpace(out[i+len("bestmove "):]))
	if err != nil {
		t.Fatalf("bestmove not legal: %v", err)
	}
	if m.Piece.Color() != mg.White {
		t.Fatalf("bestmove for the wrong side: %s", m)
	}
}

func TestHost_GoWithoutMoves(t *testing.T) {
	_, out := runSession(t, defaultHostConfig(), "position fen 7k/5Q2/6K1/8/8/8/8/8 b - - 0 1\ngo depth 2\n")
	if strings.TrimSpace(out) != "bestmove (none)" {
		t.Fatalf("got %q", out)
	}
}

func TestHost_QuitDuringSearch(t *testing.T) {
	h, _ := runSession(t, defaultHostConfig(), "position startpos\ngo infinite\nquit\n")
	if h.run != nil {
		t.Fatalf("search still live after quit")
	}
}

func TestHost_PositionAndUndo(t *testing.T) {
	var out bytes.Buffer
	h := newHost(defaultHostConfig(), &out, zerolog.Nop())

	h.handle("position startpos moves e2e4 e7e5 g1f3")
	if h.pos.Plies() != 3 {
		t.Fatalf("plies %d want 3", h.pos.Plies())
	}
	h.handle("undo")
	if h.pos.Plies() != 2 || h.pos.SideToMove() != mg.White {
		t.Fatalf("after undo: plies %d side %s", h.pos.Plies(), h.pos.SideToMove())
	}

	before := h.pos.ToFEN()
	h.handle("position startpos moves e2e5")
	if h.pos.ToFEN() != before {
		t.Fatalf("illegal move changed the position")
	}
	if !strings.Contains(out.String(), "info string") {
		t.Fatalf("illegal move not reported: %q", out.String())
	}

	out.Reset()
	h.handle("ucinewgame")
	h.handle("undo")
	if !strings.Contains(out.String(), mg.ErrEmptyHistory.Error()) {
		t.Fatalf("undo at start: %q", out.String())
	}
}

func TestHost_SetOption(t *testing.T) {
	before := engine.PositionalWeight
	var out bytes.Buffer
	h := newHost(defaultHostConfig(), &out, zerolog.Nop())

	h.handle("setoption name Depth value 4")
	h.handle("setoption name PositionalWeight value 25")
	h.handle("setoption name Shuffle value true")
	if h.cfg.Depth != 4 || !h.cfg.Shuffle || h.cfg.Weight != 25 {
		t.Fatalf("options not applied: %+v", h.cfg)
	}
	if engine.PositionalWeight != before {
		t.Fatalf("package default changed to %d", engine.PositionalWeight)
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output %q", out.String())
	}

	h.handle("setoption name Depth value zero")
	h.handle("setoption name Hash value 16")
	if got := strings.Count(out.String(), "info string"); got != 2 {
		t.Fatalf("want 2 rejections, got %q", out.String())
	}
	if h.cfg.Depth != 4 {
		t.Fatalf("bad value changed Depth to %d", h.cfg.Depth)
	}
}

func TestHost_SetOptionDuringSearch(t *testing.T) {
	before := engine.PositionalWeight
	var out bytes.Buffer
	h := newHost(defaultHostConfig(), &out, zerolog.Nop())

	h.handle("go infinite")
	task := h.run.task
	h.handle("setoption name PositionalWeight value 20")
	if h.run == nil || h.run.task != task {
		t.Fatalf("setoption disturbed the live search")
	}
	if h.cfg.Weight != 20 || engine.PositionalWeight != before {
		t.Fatalf("weight %d, package default %d", h.cfg.Weight, engine.PositionalWeight)
	}
	h.handle("stop")
	if !strings.Contains(out.String(), "bestmove ") {
		t.Fatalf("no bestmove after stop: %q", out.String())
	}
}

func TestHost_StopBeforeFirstIteration(t *testing.T) {
	var out bytes.Buffer
	h := newHost(defaultHostConfig(), &out, zerolog.Nop())

	// no tick has polled the task, so no depth has completed
	h.handle("go infinite")
	h.handle("stop")
	got := strings.TrimSpace(out.String())
	if !strings.HasPrefix(got, "bestmove ") || got == "bestmove (none)" {
		t.Fatalf("got %q", got)
	}
	if _, err := h.pos.ParseMove(strings.TrimPrefix(got, "bestmove ")); err != nil {
		t.Fatalf("fallback move not legal: %v", err)
	}
}

func TestHost_SecondGoFinishesFirst(t *testing.T) {
	var out bytes.Buffer
	h := newHost(defaultHostConfig(), &out, zerolog.Nop())

	h.handle("go infinite")
	first := h.run.task
	h.handle("go infinite")
	if got := strings.Count(out.String(), "bestmove "); got != 1 {
		t.Fatalf("want the first search reported once, got %q", out.String())
	}
	if !first.Done() || h.run == nil || h.run.task == first {
		t.Fatalf("second go did not replace the first search")
	}
	h.handle("stop")
	if got := strings.Count(out.String(), "bestmove "); got != 2 {
		t.Fatalf("want two bestmoves, got %q", out.String())
	}
}

func TestHost_RejectsSideNotToMoveInCheck(t *testing.T) {
	h, out := runSession(t, defaultHostConfig(),
		"position fen 7k/8/5Q2/8/8/8/8/K7 w - - 0 1\ngo depth 1\n")
	if !strings.Contains(out, "info string") {
		t.Fatalf("bad position not reported:\n%s", out)
	}
	if h.pos.ToFEN() != mg.FENStartPos {
		t.Fatalf("position replaced by %s", h.pos.ToFEN())
	}
	if !strings.Contains(out, "bestmove ") || strings.Contains(out, "bestmove (none)") {
		t.Fatalf("host did not keep searching:\n%s", out)
	}
}

func TestHost_Display(t *testing.T) {
	var out bytes.Buffer
	h := newHost(defaultHostConfig(), &out, zerolog.Nop())
	h.handle("d")
	lines := strings.Split(out.String(), "\n")
	if lines[0] != "bR bN bB bQ bK bB bN bR" || lines[7] != "wR wN wB wQ wK wB wN wR" {
		t.Fatalf("board:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Fen: "+mg.FENStartPos) {
		t.Fatalf("missing fen:\n%s", out.String())
	}

	out.Reset()
	h.handle("position startpos moves e2e4 c7c5")
	h.handle("d")
	for _, want := range []string{"Clock: 0 Move: 2", "Last move: c7c5", "Moves: e2e4 c7c5"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("missing %q in:\n%s", want, out.String())
		}
	}

	flipped := renderBoard(mg.NewPosition(), true)
	if first := strings.SplitN(flipped, "\n", 2)[0]; first != "wR wN wB wK wQ wB wN wR" {
		t.Fatalf("flipped first row %q", first)
	}
}

func TestParsePosition(t *testing.T) {
	p, err := parsePosition(strings.Fields("fen 4k3/8/8/8/8/8/4P3/4K3 w - - 0 1 moves e2e4 e8d7"))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.PieceAt(mg.SquareOf(4, 3)); got != mg.WhitePawn {
		t.Fatalf("e4 holds %s", got.Tag())
	}
	if p.KingSquare(mg.Black) != mg.SquareOf(3, 6) {
		t.Fatalf("black king on %s", p.KingSquare(mg.Black))
	}

	bad := []string{
		"",
		"startfen",
		"fen",
		"fen 8/8/8/8/8/8/8/8 w - - 0 1",
		"startpos e2e4",
	}
	for _, s := range bad {
		if _, err := parsePosition(strings.Fields(s)); err == nil {
			t.Fatalf("%q: expected error", s)
		}
	}

	_, err = parsePosition(strings.Fields("startpos moves e2e4 e2e4"))
	if !errors.Is(err, mg.ErrIllegalMove) {
		t.Fatalf("got %v want ErrIllegalMove", err)
	}
}

func TestParseGo(t *testing.T) {
	gp, err := parseGo(strings.Fields("wtime 60000 btime 50000 winc 100 binc 200 movestogo 30 depth 5"))
	if err != nil {
		t.Fatal(err)
	}
	want := goParams{Depth: 5, WTime: 60000, BTime: 50000, WInc: 100, BInc: 200}
	if gp != want {
		t.Fatalf("got %+v want %+v", gp, want)
	}
	if gp, err = parseGo([]string{"infinite"}); err != nil || !gp.Infinite {
		t.Fatalf("infinite: %+v %v", gp, err)
	}
	for _, s := range []string{"depth", "depth x", "movetime -5", "ponderhit"} {
		if _, err := parseGo(strings.Fields(s)); err == nil {
			t.Fatalf("%q: expected error", s)
		}
	}
}

func TestParseSetOption(t *testing.T) {
	name, value, err := parseSetOption(strings.Fields("name Positional Weight value 12"))
	if err != nil || name != "Positional Weight" || value != "12" {
		t.Fatalf("got %q %q %v", name, value, err)
	}
	if _, _, err := parseSetOption(strings.Fields("value 3")); err == nil {
		t.Fatalf("expected error without name")
	}
}
