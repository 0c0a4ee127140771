package chessmg

// MakeMove applies m without checking legality. m must come from the current
// LegalMoves set; anything else corrupts the position. Use Play for moves
// coming from outside the engine.
func (p *Position) MakeMove(m Move) {
	us := p.side
	p.history = append(p.history, undoEntry{
		move:      m,
		rights:    p.rights,
		enPassant: p.enPassant,
		halfmove:  p.halfmove,
		hash:      p.hash,
		status:    p.status,
	})
	p.status = status{}
	p.setEnPassant(NoSquare)

	if m.IsCapture() {
		p.removePiece(m.victimSquare())
	}
	p.removePiece(m.From)
	placed := m.Piece
	if m.IsPromotion() {
		placed = MakePiece(us, m.promotedKind())
	}
	p.addPiece(m.To, placed)

	cr := p.rights
	if m.Piece.Kind() == King {
		p.kings[us] = m.To
		cr.revokeColor(us)
		if m.Castle {
			rf, rt := castleRookSquares(m.To)
			p.addPiece(rt, p.removePiece(rf))
		}
	}
	cr.revokeSquare(m.From)
	cr.revokeSquare(m.To)
	p.setRights(cr)

	if m.Piece.Kind() == Pawn {
		if d := m.To - m.From; d == 16 || d == -16 {
			p.setEnPassant((m.From + m.To) / 2)
		}
	}

	if m.Piece.Kind() == Pawn || m.IsCapture() {
		p.halfmove = 0
	} else {
		p.halfmove++
	}
	if us == Black {
		p.fullmove++
	}
	p.side = us.Other()
	p.hash ^= zobristSide
}

// UndoMove reverts the last MakeMove. It returns ErrEmptyHistory and changes
// nothing when no moves have been played.
func (p *Position) UndoMove() error {
	n := len(p.history)
	if n == 0 {
		return ErrEmptyHistory
	}
	e := p.history[n-1]
	p.history = p.history[:n-1]
	m := e.move
	us := p.side.Other()

	p.board[m.To] = NoPiece
	p.board[m.From] = m.Piece
	if m.IsCapture() {
		p.board[m.victimSquare()] = m.Captured
	}
	if m.Piece.Kind() == King {
		p.kings[us] = m.From
		if m.Castle {
			rf, rt := castleRookSquares(m.To)
			p.board[rf] = p.board[rt]
			p.board[rt] = NoPiece
		}
	}

	p.side = us
	if us == Black {
		p.fullmove--
	}
	p.rights = e.rights
	p.enPassant = e.enPassant
	p.halfmove = e.halfmove
	p.hash = e.hash
	p.status = e.status
	return nil
}

// Apply makes m and returns a closure that undoes it.
func (p *Position) Apply(m Move) func() {
	p.MakeMove(m)
	return func() {
		if err := p.UndoMove(); err != nil {
			panic(err)
		}
	}
}

// Play is the guarded entry point for host-supplied moves. A move absent from
// the current legal set is rejected with ErrIllegalMove and the position is
// not touched.
func (p *Position) Play(m Move) error {
	if !p.IsLegal(m) {
		return illegal(m)
	}
	p.MakeMove(m)
	return nil
}
