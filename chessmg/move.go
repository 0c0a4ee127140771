package chessmg

// Move is an immutable value. Two moves are equal iff every field matches,
// which is what legal-set membership relies on.
type Move struct {
	From      Square
	To        Square
	Piece     Piece
	Captured  Piece
	EnPassant bool
	Castle    bool
	Promotion Kind
}

// NullMove is the zero Move; it never appears in a legal set.
var NullMove = Move{}

// IsCapture reports whether the move removes an enemy piece.
func (m Move) IsCapture() bool { return m.Captured != NoPiece }

// IsPromotion reports whether a pawn reaches its last rank.
func (m Move) IsPromotion() bool {
	return m.Piece.Kind() == Pawn && m.To.Rank() == promotionRank(m.Piece.Color())
}

// promotedKind resolves the kind a promotion produces, queen by default.
func (m Move) promotedKind() Kind {
	if m.Promotion == NoKind {
		return Queen
	}
	return m.Promotion
}

// victimSquare is where the captured piece stands. For en passant that is the
// square behind the destination, not the destination itself.
func (m Move) victimSquare() Square {
	if m.EnPassant {
		return m.To - Square(8*forward(m.Piece.Color()))
	}
	return m.To
}

// castleRookSquares returns the rook's origin and destination for a castle
// landing on kingTo.
func castleRookSquares(kingTo Square) (from, to Square) {
	switch kingTo {
	case 6: // g1
		return 7, 5
	case 2: // c1
		return 0, 3
	case 62: // g8
		return 63, 61
	case 58: // c8
		return 56, 59
	}
	panic(invalidBoard("castle to %s", kingTo))
}

// String returns UCI long algebraic notation ("e2e4", "e7e8q").
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.promotedKind().letter())
	}
	return s
}
