package chessmg

import "golang.org/x/exp/slices"

var (
	rookDirs   = []Dir{North, South, East, West}
	bishopDirs = []Dir{NorthEast, NorthWest, SouthEast, SouthWest}
	queenDirs  = AllDirs[:]
)

// LegalMoves returns the legal moves for the side to move in generation order
// (a1..h8 by origin square) and refreshes the InCheck, Checkmate and Stalemate
// flags.
func (p *Position) LegalMoves() []Move {
	a := p.Analyze()
	moves := p.generate(&a, make([]Move, 0, 48))
	p.status = status{inCheck: a.InCheck}
	if len(moves) == 0 {
		p.status.checkmate = a.InCheck
		p.status.stalemate = !a.InCheck
	}
	return moves
}

// IsLegal reports whether m is in the current legal set.
func (p *Position) IsLegal(m Move) bool {
	return slices.Contains(p.LegalMoves(), m)
}

// generate appends every legal move. Pins and single checks restrict
// destinations as each piece is expanded; under double check only the king is
// expanded at all.
func (p *Position) generate(a *Analysis, moves []Move) []Move {
	us := p.side
	doubleCheck := len(a.Checks) >= 2
	for from := Square(0); from < 64; from++ {
		pc := p.board[from]
		if pc == NoPiece || pc.Color() != us {
			continue
		}
		k := pc.Kind()
		if doubleCheck && k != King {
			continue
		}
		switch k {
		case Pawn:
			moves = p.pawnMoves(a, from, moves)
		case Knight:
			moves = p.knightMoves(a, from, moves)
		case Bishop:
			moves = p.slidingMoves(a, from, bishopDirs, moves)
		case Rook:
			moves = p.slidingMoves(a, from, rookDirs, moves)
		case Queen:
			moves = p.slidingMoves(a, from, queenDirs, moves)
		case King:
			moves = p.kingMoves(a, from, moves)
		default:
			panic(invalidBoard("unknown piece %d on %s", pc, from))
		}
	}
	return moves
}

// permits applies the pin and single-check restrictions to a non-king move.
func (a *Analysis) permits(from, to Square) bool {
	if pn, ok := a.PinOf(from); ok && !pn.Covers(to) {
		return false
	}
	if len(a.Checks) == 1 && !a.Checks[0].Resolves(to) {
		return false
	}
	return true
}

func (p *Position) pawnMoves(a *Analysis, from Square, moves []Move) []Move {
	us := p.side
	pc := p.board[from]
	f := forward(us)

	push := func(to Square, captured Piece) {
		if !a.permits(from, to) {
			return
		}
		m := Move{From: from, To: to, Piece: pc, Captured: captured}
		if to.Rank() == promotionRank(us) {
			for _, k := range PromotionKinds {
				m.Promotion = k
				moves = append(moves, m)
			}
			return
		}
		moves = append(moves, m)
	}

	if one, ok := from.Offset(0, f); ok && p.board[one] == NoPiece {
		push(one, NoPiece)
		if from.Rank() == pawnStartRank(us) {
			if two, ok := one.Offset(0, f); ok && p.board[two] == NoPiece {
				push(two, NoPiece)
			}
		}
	}
	for _, df := range [2]int{-1, 1} {
		to, ok := from.Offset(df, f)
		if !ok {
			continue
		}
		target := p.board[to]
		switch {
		case target != NoPiece && target.Color() != us:
			push(to, target)
		case target == NoPiece && to == p.enPassant:
			if m, ok := p.enPassantCapture(from, to); ok {
				moves = append(moves, m)
			}
		}
	}
	return moves
}

// enPassantCapture builds the en-passant move and verifies it by making it.
// Two pawns leave the capture rank at once, which can open a line to the king
// that the pin scan does not see.
func (p *Position) enPassantCapture(from, to Square) (Move, bool) {
	us := p.side
	m := Move{From: from, To: to, Piece: p.board[from], Captured: MakePiece(us.Other(), Pawn), EnPassant: true}
	if p.board[m.victimSquare()] != m.Captured {
		return Move{}, false
	}
	undo := p.Apply(m)
	safe := !p.SquareAttacked(p.kings[us], us.Other())
	undo()
	return m, safe
}

func (p *Position) knightMoves(a *Analysis, from Square, moves []Move) []Move {
	us := p.side
	pc := p.board[from]
	for _, o := range knightOffsets {
		to, ok := from.Offset(o[0], o[1])
		if !ok {
			continue
		}
		target := p.board[to]
		if target != NoPiece && target.Color() == us {
			continue
		}
		if a.permits(from, to) {
			moves = append(moves, Move{From: from, To: to, Piece: pc, Captured: target})
		}
	}
	return moves
}

func (p *Position) slidingMoves(a *Analysis, from Square, dirs []Dir, moves []Move) []Move {
	us := p.side
	pc := p.board[from]
	for _, d := range dirs {
		df, dr := d.Delta()
		for to, ok := from.Offset(df, dr); ok; to, ok = to.Offset(df, dr) {
			target := p.board[to]
			if target != NoPiece && target.Color() == us {
				break
			}
			if a.permits(from, to) {
				moves = append(moves, Move{From: from, To: to, Piece: pc, Captured: target})
			}
			if target != NoPiece {
				break
			}
		}
	}
	return moves
}

func (p *Position) kingMoves(a *Analysis, from Square, moves []Move) []Move {
	us := p.side
	them := us.Other()
	pc := p.board[from]
	for _, o := range kingOffsets {
		to, ok := from.Offset(o[0], o[1])
		if !ok {
			continue
		}
		target := p.board[to]
		if target != NoPiece && target.Color() == us {
			continue
		}
		if !p.attacked(to, them, from) {
			moves = append(moves, Move{From: from, To: to, Piece: pc, Captured: target})
		}
	}
	return p.castleMoves(from, moves)
}

// castleMoves adds castles whose right is held, whose between squares are
// empty, and where the king is not in check and neither crosses nor lands on
// an attacked square. Each condition is tested on its own.
func (p *Position) castleMoves(from Square, moves []Move) []Move {
	us := p.side
	them := us.Other()
	home := SquareOf(4, pawnStartRank(us)-forward(us))
	if from != home {
		return moves
	}
	king := p.board[from]
	rook := MakePiece(us, Rook)
	empty := func(sqs ...Square) bool {
		for _, sq := range sqs {
			if p.board[sq] != NoPiece {
				return false
			}
		}
		return true
	}
	safe := func(sqs ...Square) bool {
		for _, sq := range sqs {
			if p.SquareAttacked(sq, them) {
				return false
			}
		}
		return true
	}

	if p.rights.Kingside(us) && p.board[home+3] == rook &&
		empty(home+1, home+2) && safe(home) && safe(home+1) && safe(home+2) {
		moves = append(moves, Move{From: home, To: home + 2, Piece: king, Castle: true})
	}
	if p.rights.Queenside(us) && p.board[home-4] == rook &&
		empty(home-1, home-2, home-3) && safe(home) && safe(home-1) && safe(home-2) {
		moves = append(moves, Move{From: home, To: home - 2, Piece: king, Castle: true})
	}
	return moves
}
