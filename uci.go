package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	mg "chess-ai/chessmg"
	"chess-ai/engine"
)

const (
	engineName   = "chess-ai negamax"
	engineAuthor = "chess-ai"
	tickInterval = 10 * time.Millisecond
	maxDepth     = 64
)

// hostConfig holds everything the host decides on behalf of the engine.
type hostConfig struct {
	Depth    int           // depth for "go" without limits
	MoveTime time.Duration // fixed budget for "go" without limits, 0 means depth only
	Weight   int32         // positional weight handed to every search
	Shuffle  bool
	Flip     bool // print the board from Black's side in "d"
}

func defaultHostConfig() hostConfig {
	return hostConfig{Depth: engine.DefaultDepth, Weight: engine.PositionalWeight}
}

// goParams is a parsed "go" command. Times are in milliseconds.
type goParams struct {
	Depth    int
	MoveTime int
	WTime    int
	BTime    int
	WInc     int
	BInc     int
	Infinite bool
}

// searchRun is the host-side state of one "go": the live task, the best
// completed iteration and the clock.
type searchRun struct {
	target   int
	fixed    bool
	infinite bool
	clock    engine.TimeHandler
	task     *engine.Task
	best     engine.Result
	haveBest bool
}

type host struct {
	cfg hostConfig
	pos *mg.Position
	out io.Writer
	log zerolog.Logger
	ctx context.Context
	rng *rand.Rand // picks a move when a search is stopped before depth 1
	run *searchRun
}

func main() {
	var (
		depth    = flag.Int("depth", engine.DefaultDepth, "search depth for go without limits")
		moveTime = flag.Duration("movetime", 0, "time budget for go without limits")
		weight   = flag.Int("weight", int(engine.PositionalWeight), "positional weight, 10 = 0.1 pawn per table point")
		shuffle  = flag.Bool("shuffle", false, "randomize root move order")
		flip     = flag.Bool("flip", false, "print the board from Black's side")
		level    = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -log-level %q: %v\n", *level, err)
		os.Exit(2)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).With().Timestamp().Logger()

	cfg := defaultHostConfig()
	cfg.Depth = *depth
	cfg.MoveTime = *moveTime
	cfg.Weight = int32(*weight)
	cfg.Shuffle = *shuffle
	cfg.Flip = *flip
	h := newHost(cfg, os.Stdout, log)
	h.loop(readLines(os.Stdin))
}

func newHost(cfg hostConfig, out io.Writer, log zerolog.Logger) *host {
	if cfg.Depth < 1 {
		cfg.Depth = engine.DefaultDepth
	}
	cfg.Weight = engine.Max(cfg.Weight, 0)
	return &host{
		cfg: cfg,
		pos: mg.NewPosition(),
		out: out,
		log: log,
		ctx: context.Background(),
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// readLines feeds input lines to the host and closes the channel at EOF.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

// loop is the host's only goroutine touching the position and the task.
// At EOF it lets a running search finish before returning.
func (h *host) loop(lines <-chan string) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	eof := false
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				eof, lines = true, nil
				if h.run == nil {
					return
				}
				continue
			}
			if !h.handle(line) {
				h.cancel()
				return
			}
		case <-ticker.C:
			h.poll()
			if eof && h.run == nil {
				return
			}
		}
	}
}

func (h *host) println(a ...any) { fmt.Fprintln(h.out, a...) }

func (h *host) printf(format string, a ...any) { fmt.Fprintf(h.out, format, a...) }

// handle runs one command and reports false on quit.
func (h *host) handle(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return true
	}
	switch strings.ToLower(tokens[0]) {
	case "uci":
		h.println("id name", engineName)
		h.println("id author", engineAuthor)
		h.printf("option name Depth type spin default %d min 1 max %d\n", h.cfg.Depth, maxDepth)
		h.printf("option name PositionalWeight type spin default %d min 0 max 100\n", h.cfg.Weight)
		h.printf("option name Shuffle type check default %t\n", h.cfg.Shuffle)
		h.println("uciok")
	case "isready":
		h.println("readyok")
	case "ucinewgame":
		h.cancel()
		h.pos = mg.NewPosition()
	case "position":
		h.cancel()
		p, err := parsePosition(tokens[1:])
		if err != nil {
			h.println("info string", err)
			h.log.Warn().Err(err).Str("cmd", line).Msg("position rejected")
			return true
		}
		h.pos = p
	case "go":
		gp, err := parseGo(tokens[1:])
		if err != nil {
			h.println("info string", err)
			return true
		}
		h.startGo(gp)
	case "stop":
		if h.run != nil {
			h.finish()
		}
	case "setoption":
		name, value, err := parseSetOption(tokens[1:])
		if err == nil {
			err = h.setOption(name, value)
		}
		if err != nil {
			h.println("info string", err)
		}
	case "d":
		h.println(renderBoard(h.pos, h.cfg.Flip))
		h.println("Fen:", h.pos.ToFEN())
		h.printf("Key: %016x\n", h.pos.Hash())
		h.printf("Clock: %d Move: %d\n", h.pos.HalfmoveClock(), h.pos.FullmoveNumber())
		if last, ok := h.pos.LastMove(); ok {
			h.println("Last move:", last)
		}
		if played := h.pos.History(); len(played) > 0 {
			h.println("Moves:", strings.Join(moveStrings(played), " "))
		}
		h.pos.LegalMoves()
		switch {
		case h.pos.Checkmate():
			h.println("Status: checkmate")
		case h.pos.Stalemate():
			h.println("Status: stalemate")
		case h.pos.InCheck():
			h.println("Status: check")
		}
	case "undo":
		h.cancel()
		if err := h.pos.UndoMove(); err != nil {
			h.println("info string", err)
		}
	case "quit":
		return false
	default:
		h.println("info string Unknown command:", line)
	}
	return true
}

func (h *host) setOption(name, value string) error {
	switch strings.ToLower(name) {
	case "depth":
		d, err := strconv.Atoi(value)
		if err != nil || d < 1 || d > maxDepth {
			return fmt.Errorf("bad Depth value %q", value)
		}
		h.cfg.Depth = d
	case "positionalweight":
		w, err := strconv.Atoi(value)
		if err != nil || w < 0 {
			return fmt.Errorf("bad PositionalWeight value %q", value)
		}
		// read by the next spawn, never by a live worker
		h.cfg.Weight = int32(w)
	case "shuffle":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("bad Shuffle value %q", value)
		}
		h.cfg.Shuffle = b
	default:
		return fmt.Errorf("unknown option %q", name)
	}
	h.log.Debug().Str("option", name).Str("value", value).Msg("option set")
	return nil
}

// startGo begins host-driven iterative deepening at depth 1. A search
// still running is finished first, so every go gets its bestmove.
func (h *host) startGo(gp goParams) {
	if h.run != nil {
		h.finish()
	}
	h.pos.LegalMoves()
	if h.pos.Checkmate() || h.pos.Stalemate() {
		h.println("bestmove (none)")
		return
	}

	run := &searchRun{target: h.cfg.Depth, infinite: gp.Infinite}
	remaining, inc := gp.WTime, gp.WInc
	if h.pos.SideToMove() == mg.Black {
		remaining, inc = gp.BTime, gp.BInc
	}
	moveTime := gp.MoveTime
	if moveTime == 0 && remaining == 0 && h.cfg.MoveTime > 0 {
		moveTime = int(h.cfg.MoveTime.Milliseconds())
	}
	switch {
	case gp.Depth > 0:
		run.target, run.fixed = engine.Clamp(gp.Depth, 1, maxDepth), true
	case gp.Infinite:
		run.target, run.fixed = maxDepth, true
	case moveTime > 0 || remaining > 0:
		run.target = maxDepth
	default:
		run.fixed = true
	}
	run.clock.Init(remaining, inc, moveTime, run.fixed)
	run.clock.StartTime(h.pos)
	h.run = run
	h.log.Debug().Int("target", run.target).Bool("fixed", run.fixed).
		Dur("budget", run.clock.Remaining()).Str("fen", h.pos.ToFEN()).Msg("go")
	h.spawn(1)
}

func (h *host) spawn(depth int) {
	h.run.task = engine.StartSearch(h.ctx, h.pos, engine.TaskConfig{
		Depth:    depth,
		Searcher: engine.SearcherConfig{
			Shuffle:   h.cfg.Shuffle,
			Evaluator: &engine.Evaluator{PositionalWeight: h.cfg.Weight},
		},
		Logger:   h.log,
	})
}

// poll checks the live task once without blocking.
func (h *host) poll() {
	run := h.run
	if run == nil {
		return
	}
	r, ok := run.task.Poll()
	if !ok {
		if run.haveBest && run.clock.TimeStatus() {
			h.finish()
		}
		return
	}
	if !r.Fresh(run.task, h.pos) {
		h.log.Debug().Str("task_id", r.TaskID.String()).Err(r.Err).Msg("discarding stale result")
		h.finish()
		return
	}
	run.best, run.haveBest = r, true
	h.printf("info depth %d score cp %d nodes %d time %d pv %s\n",
		r.Depth, r.Score, r.Nodes, run.clock.Elapsed().Milliseconds(), r.Move)

	mate := r.Score >= engine.Checkmate || r.Score <= -engine.Checkmate
	if r.Depth >= run.target || run.clock.TimeStatus() || (mate && !run.infinite) {
		h.finish()
		return
	}
	h.spawn(r.Depth + 1)
}

// finish reports the best completed iteration and drops the live task. When
// not even depth 1 has completed it falls back to a random legal move.
func (h *host) finish() {
	run := h.run
	h.cancel()
	if run.haveBest {
		h.println("bestmove", run.best.Move)
		return
	}
	if m, ok := engine.RandomMove(h.pos.LegalMoves(), h.rng); ok {
		h.log.Debug().Str("move", m.String()).Msg("stopped before depth 1, playing a random move")
		h.println("bestmove", m)
		return
	}
	h.println("bestmove (none)")
}

// cancel abandons any live search; its late result will be ignored.
func (h *host) cancel() {
	if h.run == nil {
		return
	}
	h.run.task.Cancel()
	h.run = nil
}

// parsePosition handles the arguments of a "position" command. Moves are
// applied through the legality check, so a bad move rejects the whole command.
func parsePosition(args []string) (*mg.Position, error) {
	if len(args) == 0 {
		return nil, errors.New("malformed position command")
	}
	var (
		p   *mg.Position
		err error
	)
	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "startpos":
		p = mg.NewPosition()
	case "fen":
		n := 0
		for n < len(rest) && strings.ToLower(rest[n]) != "moves" {
			n++
		}
		if n == 0 {
			return nil, errors.New("missing fen")
		}
		if p, err = mg.ParseFEN(strings.Join(rest[:n], " ")); err != nil {
			return nil, err
		}
		rest = rest[n:]
	default:
		return nil, fmt.Errorf("invalid position subcommand %q", args[0])
	}
	if len(rest) == 0 {
		return p, nil
	}
	if strings.ToLower(rest[0]) != "moves" {
		return nil, fmt.Errorf("unexpected token %q", rest[0])
	}
	for _, s := range rest[1:] {
		m, err := p.ParseMove(strings.ToLower(s))
		if err != nil {
			return nil, fmt.Errorf("move %s in %s: %w", s, p.ToFEN(), err)
		}
		if err := p.Play(m); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func parseGo(args []string) (goParams, error) {
	var gp goParams
	for i := 0; i < len(args); i++ {
		tok := strings.ToLower(args[i])
		var dst *int
		switch tok {
		case "infinite":
			gp.Infinite = true
			continue
		case "depth":
			dst = &gp.Depth
		case "movetime":
			dst = &gp.MoveTime
		case "wtime":
			dst = &gp.WTime
		case "btime":
			dst = &gp.BTime
		case "winc":
			dst = &gp.WInc
		case "binc":
			dst = &gp.BInc
		case "movestogo", "nodes", "mate":
			// accepted and ignored
			i++
			continue
		default:
			return gp, fmt.Errorf("unknown go subcommand %q", tok)
		}
		if i+1 >= len(args) {
			return gp, fmt.Errorf("malformed go command option %s", tok)
		}
		i++
		v, err := strconv.Atoi(args[i])
		if err != nil || v < 0 {
			return gp, fmt.Errorf("could not convert %s value %q", tok, args[i])
		}
		*dst = v
	}
	return gp, nil
}

// parseSetOption splits "name <words...> value <words...>".
func parseSetOption(args []string) (name, value string, err error) {
	if len(args) < 2 || strings.ToLower(args[0]) != "name" {
		return "", "", errors.New("malformed setoption command")
	}
	i := 1
	for i < len(args) && strings.ToLower(args[i]) != "value" {
		i++
	}
	name = strings.Join(args[1:i], " ")
	if i < len(args) {
		value = strings.Join(args[i+1:], " ")
	}
	if name == "" {
		return "", "", errors.New("setoption without a name")
	}
	return name, value, nil
}

func moveStrings(moves []mg.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

// renderBoard prints two-character piece tags, rank 8 on top unless flipped.
func renderBoard(p *mg.Position, flip bool) string {
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		row := i
		if flip {
			row = 7 - i
		}
		for j := 0; j < 8; j++ {
			col := j
			if flip {
				col = 7 - j
			}
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(p.PieceAt(mg.SquareAt(row, col)).Tag())
		}
		if i < 7 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
