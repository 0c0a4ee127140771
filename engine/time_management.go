package engine

import (
	"time"

	mg "chess-ai/chessmg"
)

// TimeHandler is the wall-clock budget a host layers over depth-bounded
// searches. The engine itself never consults it; the host checks it between
// iterative-deepening steps and cancels the running task when it expires.
type TimeHandler struct {
	remainingTime    int
	increment        int
	moveTime         int
	start            time.Time
	timeForMove      time.Time
	usingCustomDepth bool
}

// Init records the clock state from a UCI go command, all in milliseconds.
// moveTime > 0 overrides the clock-based allocation.
func (th *TimeHandler) Init(remainingTime, increment, moveTime int, useCustomDepth bool) {
	th.remainingTime = remainingTime
	th.increment = increment
	th.moveTime = moveTime
	th.usingCustomDepth = useCustomDepth
}

// StartTime fixes the deadline for the coming move.
func (th *TimeHandler) StartTime(p *mg.Position) {
	th.start = time.Now()
	if th.moveTime > 0 {
		th.timeForMove = th.start.Add(time.Duration(th.moveTime) * time.Millisecond)
		return
	}

	movesLeft := estimateMovesRemaining(GetPiecePhase(p))

	const overheadMs = 30      // reserve for UCI/IO jitter
	const minMoveMs = 5        // never less than this
	const maxFrac = 0.7        // never spend >70% of remaining time
	const panicThreshMs = 1000 // below this, live off the increment
	const panicFrac = 0.90

	rem := th.remainingTime
	inc := th.increment

	var moveTime int
	switch {
	case inc > 0 && rem < panicThreshMs:
		moveTime = int(float64(inc) * panicFrac)
	case inc > 0:
		moveTime = rem/movesLeft + inc
	default:
		moveTime = rem / 40
	}
	moveTime = Min(moveTime, int(float64(rem)*maxFrac))
	moveTime = Min(moveTime, rem-overheadMs)
	moveTime = Max(moveTime, minMoveMs)

	th.timeForMove = th.start.Add(time.Duration(moveTime) * time.Millisecond)
}

// TimeStatus is true once the budget is spent, unless a fixed depth was
// requested.
func (th *TimeHandler) TimeStatus() bool {
	return !th.usingCustomDepth && th.timeForMove.Before(time.Now())
}

// Elapsed is the time since StartTime.
func (th *TimeHandler) Elapsed() time.Duration { return time.Since(th.start) }

// Remaining is the time left before the deadline, never negative.
func (th *TimeHandler) Remaining() time.Duration {
	return Max(time.Until(th.timeForMove), 0)
}

// GetPiecePhase is 24 with all minor and major pieces on the board and 0 with
// only kings and pawns.
func GetPiecePhase(p *mg.Position) (phase int) {
	for sq := mg.Square(0); sq < 64; sq++ {
		switch p.PieceAt(sq).Kind() {
		case mg.Knight, mg.Bishop:
			phase++
		case mg.Rook:
			phase += 2
		case mg.Queen:
			phase += 4
		}
	}
	return Min(phase, 24)
}

func estimateMovesRemaining(phase int) int {
	// Linearly interpolate between 20 (endgame) and 45 (opening/midgame)
	return (phase*25)/24 + 20
}
