package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	mg "chess-ai/chessmg"
)

// Result is what a search task delivers, exactly once.
type Result struct {
	TaskID  uuid.UUID
	Move    mg.Move
	Score   int32
	Depth   int
	Hash    uint64 // hash of the position that was searched
	Nodes   uint64
	Elapsed time.Duration
	Err     error
}

// TaskConfig configures a background search.
type TaskConfig struct {
	Depth    int
	Searcher SearcherConfig
	Logger   zerolog.Logger
}

// Task is one background search over a private copy of a position. The
// host owns the Task value: Poll and Cancel must be called from the host's
// goroutine only. The worker goroutine touches nothing but its position copy
// and the result channel.
type Task struct {
	ID    uuid.UUID
	Depth int
	Hash  uint64

	results  chan Result
	cancel   context.CancelFunc
	finished bool
	log      zerolog.Logger
}

// StartSearch clones p and searches the clone in a new goroutine. The
// caller's position may be mutated freely afterwards.
func StartSearch(ctx context.Context, p *mg.Position, cfg TaskConfig) *Task {
	pos := p.Clone()
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		ID:      uuid.New(),
		Depth:   Max(cfg.Depth, 1),
		Hash:    pos.Hash(),
		results: make(chan Result, 1),
		cancel:  cancel,
	}
	t.log = cfg.Logger.With().Str("task_id", t.ID.String()).Int("depth", t.Depth).Logger()
	sc := cfg.Searcher
	sc.Logger = t.log
	t.log.Debug().Str("fen", pos.ToFEN()).Msg("search task started")
	go t.run(ctx, pos, NewSearcher(sc))
	return t
}

func (t *Task) run(ctx context.Context, pos *mg.Position, s *Searcher) {
	defer t.cancel()
	r := Result{TaskID: t.ID, Depth: t.Depth, Hash: t.Hash}
	moves := pos.LegalMoves()
	r.Move, r.Score, r.Err = s.FindBestMoveContext(ctx, pos, moves, t.Depth)
	r.Nodes = s.Stats.Nodes
	r.Elapsed = s.Stats.Elapsed
	// capacity 1 and a single send: never blocks
	t.results <- r
}

// Poll returns the result if it has arrived, without blocking. After a
// result has been returned once, or after Cancel, Poll always reports false.
func (t *Task) Poll() (Result, bool) {
	if t.finished {
		return Result{}, false
	}
	select {
	case r := <-t.results:
		t.finished = true
		return r, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the result arrives or ctx ends. It is meant for tools
// and tests; interactive hosts use Poll.
func (t *Task) Wait(ctx context.Context) (Result, error) {
	if t.finished {
		return Result{}, context.Canceled
	}
	select {
	case r := <-t.results:
		t.finished = true
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Cancel abandons the task. Any result the worker still produces is
// dropped. Calling Cancel more than once is harmless.
func (t *Task) Cancel() {
	if !t.finished {
		t.log.Debug().Msg("search task cancelled")
	}
	t.finished = true
	t.cancel()
}

// Done reports whether the task has delivered its result or been cancelled.
func (t *Task) Done() bool { return t.finished }

// Fresh reports whether r belongs to t and still matches the interactive
// position p. Anything else is stale and must not be applied.
func (r Result) Fresh(t *Task, p *mg.Position) bool {
	return t != nil && r.TaskID == t.ID && r.Hash == p.Hash() && r.Err == nil
}
