package engine

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	mg "chess-ai/chessmg"
)

var (
	// ErrNoLegalMoves is returned when search is asked to choose from an empty
	// move list. Callers must consult Checkmate/Stalemate instead.
	ErrNoLegalMoves = errors.New("search called with no legal moves")

	// ErrSearchAborted is returned when the context is cancelled mid-search.
	ErrSearchAborted = errors.New("search aborted")
)

// DefaultDepth is the bot strength for a plain "go"; deeper searches are left to
// the host's iterative deepening.
const DefaultDepth = 2

// nodes between context polls
const pollInterval = 2047

// SearcherConfig configures a Searcher. The zero value is usable.
type SearcherConfig struct {
	// Shuffle randomizes root move order before searching, so equal-scoring
	// moves vary from game to game. Off by default, which keeps the
	// first-in-generation-order tie-break.
	Shuffle bool
	Seed    int64
	// Evaluator overrides the leaf evaluation. nil takes a snapshot of the
	// package default when the Searcher is built.
	Evaluator *Evaluator
	Logger    zerolog.Logger
}

// SearchStats are reset at the start of every root search.
type SearchStats struct {
	Nodes   uint64
	Cutoffs uint64
	Elapsed time.Duration
}

// Searcher runs negamax with alpha-beta pruning on one position at a time.
// It is not safe for concurrent use; give each goroutine its own.
type Searcher struct {
	cfg   SearcherConfig
	log   zerolog.Logger
	rng   *rand.Rand
	eval  Evaluator
	ctx   context.Context
	stop  bool
	Stats SearchStats
}

func NewSearcher(cfg SearcherConfig) *Searcher {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	eval := DefaultEvaluator()
	if cfg.Evaluator != nil {
		eval = *cfg.Evaluator
	}
	return &Searcher{
		cfg:  cfg,
		log:  cfg.Logger,
		rng:  rand.New(rand.NewSource(seed)),
		eval: eval,
		ctx:  context.Background(),
	}
}

// FindBestMove searches moves (the current legal set of p) to depth plies
// with a fresh deterministic Searcher. ok is false when moves is empty.
func FindBestMove(p *mg.Position, moves []mg.Move, depth int) (best mg.Move, score int32, ok bool) {
	best, score, err := NewSearcher(SearcherConfig{Logger: zerolog.Nop()}).FindBestMove(p, moves, depth)
	return best, score, err == nil
}

// FindBestMove returns the first move in search order attaining the best
// negamax score, and that score from the side to move's point of view.
func (s *Searcher) FindBestMove(p *mg.Position, moves []mg.Move, depth int) (mg.Move, int32, error) {
	return s.FindBestMoveContext(context.Background(), p, moves, depth)
}

// FindBestMoveContext is FindBestMove with cancellation. The context is
// polled every few thousand nodes; on cancellation the position is restored
// and ErrSearchAborted returned.
func (s *Searcher) FindBestMoveContext(ctx context.Context, p *mg.Position, moves []mg.Move, depth int) (mg.Move, int32, error) {
	if len(moves) == 0 {
		s.log.Error().Str("fen", p.ToFEN()).Msg("search invoked without legal moves")
		return mg.NullMove, 0, ErrNoLegalMoves
	}
	depth = Max(depth, 1)
	s.ctx = ctx
	s.stop = false
	s.Stats = SearchStats{}
	start := time.Now()

	if s.cfg.Shuffle {
		moves = slices.Clone(moves)
		s.rng.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })
	}

	best, score := s.rootsearch(p, moves, depth)
	s.Stats.Elapsed = time.Since(start)
	if s.stop {
		s.log.Debug().Int("depth", depth).Uint64("nodes", s.Stats.Nodes).Msg("search aborted")
		return mg.NullMove, 0, ErrSearchAborted
	}
	s.log.Debug().
		Int("depth", depth).
		Int32("score", score).
		Str("move", best.String()).
		Uint64("nodes", s.Stats.Nodes).
		Uint64("cutoffs", s.Stats.Cutoffs).
		Dur("elapsed", s.Stats.Elapsed).
		Msg("search done")
	return best, score, nil
}

// rootsearch is one negamax level that also remembers the move. Its running
// best starts below -Checkmate so that a lost position still yields the
// first move rather than none.
func (s *Searcher) rootsearch(p *mg.Position, moves []mg.Move, depth int) (mg.Move, int32) {
	alpha, beta := -Checkmate, Checkmate
	turn := turnMultiplier(p.SideToMove())
	best := -MaxScore
	bestMove := mg.NullMove
	for _, m := range moves {
		p.MakeMove(m)
		next := p.LegalMoves()
		score := -s.negamax(p, next, depth-1, -beta, -alpha, -turn)
		undo(p)
		if s.stop {
			return mg.NullMove, 0
		}
		if score > best {
			best = score
			bestMove = m
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			s.Stats.Cutoffs++
			break
		}
	}
	return bestMove, best
}

// negamax returns the score of p for the side to move. moves must be the
// legal set of p, generated just before the call so the terminal flags are
// current. Leaves and terminal nodes return turn times the Searcher's
// evaluation of p.
func (s *Searcher) negamax(p *mg.Position, moves []mg.Move, depth int, alpha, beta, turn int32) int32 {
	s.Stats.Nodes++
	if s.Stats.Nodes&pollInterval == 0 && s.ctx.Err() != nil {
		s.stop = true
	}
	if s.stop {
		return 0
	}
	if depth == 0 || len(moves) == 0 {
		return turn * s.eval.Evaluate(p)
	}

	best := -Checkmate
	for _, m := range moves {
		p.MakeMove(m)
		next := p.LegalMoves()
		score := -s.negamax(p, next, depth-1, -beta, -alpha, -turn)
		undo(p)
		if score > best {
			best = score
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			s.Stats.Cutoffs++
			break
		}
	}
	return best
}

// RandomMove picks uniformly among moves. Hosts use it when a search is
// stopped before any depth completed. ok is false when moves is empty.
func RandomMove(moves []mg.Move, rng *rand.Rand) (mg.Move, bool) {
	if len(moves) == 0 {
		return mg.NullMove, false
	}
	return moves[rng.Intn(len(moves))], true
}

// turnMultiplier is +1 when White is to move, -1 for Black.
func turnMultiplier(c mg.Color) int32 {
	if c == mg.White {
		return 1
	}
	return -1
}

func undo(p *mg.Position) {
	if err := p.UndoMove(); err != nil {
		panic(err)
	}
}
