package chessmg

import "fmt"

// MoveRecord is the flat move form handed to UIs and storage layers. Rows
// count from the top of the board (row 0 is rank 8).
type MoveRecord struct {
	StartRow    int
	StartCol    int
	EndRow      int
	EndCol      int
	Promotion   Kind
	IsCastle    bool
	IsEnPassant bool
}

// Record converts m to its external form.
func (m Move) Record() MoveRecord {
	r := MoveRecord{
		StartRow:    m.From.Row(),
		StartCol:    m.From.Col(),
		EndRow:      m.To.Row(),
		EndCol:      m.To.Col(),
		IsCastle:    m.Castle,
		IsEnPassant: m.EnPassant,
	}
	if m.IsPromotion() {
		r.Promotion = m.promotedKind()
	}
	return r
}

// ID is the compact numeric form UI layers key moves by:
// startRow, startCol, endRow, endCol as four decimal digits.
func (r MoveRecord) ID() int {
	return r.StartRow*1000 + r.StartCol*100 + r.EndRow*10 + r.EndCol
}

// MoveFromRecord resolves r against the legal set. A missing promotion kind
// means queen.
func (p *Position) MoveFromRecord(r MoveRecord) (Move, error) {
	if !inBoard(r.StartRow, r.StartCol) || !inBoard(r.EndRow, r.EndCol) {
		return Move{}, fmt.Errorf("%w: record %+v off the board", ErrIllegalMove, r)
	}
	return p.resolve(SquareAt(r.StartRow, r.StartCol), SquareAt(r.EndRow, r.EndCol), r.Promotion)
}

// ParseMove resolves UCI text ("e2e4", "e7e8q") against the legal set.
func (p *Position) ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: malformed %q", ErrIllegalMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	promo := NoKind
	if len(s) == 5 {
		promo = kindFromLetter(s[4])
		if promo == NoKind || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("%w: bad promotion in %q", ErrIllegalMove, s)
		}
	}
	return p.resolve(from, to, promo)
}

func (p *Position) resolve(from, to Square, promo Kind) (Move, error) {
	for _, m := range p.LegalMoves() {
		if m.From != from || m.To != to {
			continue
		}
		if m.Promotion != NoKind && m.Promotion != promoOrQueen(promo) {
			continue
		}
		return m, nil
	}
	return Move{}, fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
}

func promoOrQueen(k Kind) Kind {
	if k == NoKind {
		return Queen
	}
	return k
}

func inBoard(row, col int) bool { return row >= 0 && row < 8 && col >= 0 && col < 8 }

func illegal(m Move) error {
	return fmt.Errorf("%w: %s", ErrIllegalMove, m)
}
