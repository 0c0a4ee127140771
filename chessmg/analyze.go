package chessmg

// Pin records a friendly piece that may only move along Dir (as seen from the
// king) without exposing the king.
type Pin struct {
	Square Square
	Dir    Dir
	line   uint64 // squares from the king (exclusive) to the pinner (inclusive)
}

// Covers reports whether sq lies on the pin line, pinner included.
func (pn Pin) Covers(sq Square) bool { return pn.line&bit(sq) != 0 }

// Check records a piece giving check. Dir is NoDir for knight and pawn checks.
type Check struct {
	Square Square
	Dir    Dir
	block  uint64 // checker square plus, for sliders, the squares between it and the king
}

// Resolves reports whether a non-king move landing on sq answers the check,
// either by capturing the checker or by interposing on the ray.
func (c Check) Resolves(sq Square) bool { return c.block&bit(sq) != 0 }

// Analysis is the attack picture around the side-to-move's king.
type Analysis struct {
	InCheck bool
	Pins    []Pin
	Checks  []Check
}

// PinOf returns the pin on sq, if any.
func (a *Analysis) PinOf(sq Square) (Pin, bool) {
	for _, pn := range a.Pins {
		if pn.Square == sq {
			return pn, true
		}
	}
	return Pin{}, false
}

func bit(sq Square) uint64 { return 1 << uint(sq) }

// slidesAlong reports whether k attacks along rays in direction d.
func slidesAlong(k Kind, d Dir) bool {
	switch k {
	case Queen:
		return true
	case Rook:
		return !d.Diagonal()
	case Bishop:
		return d.Diagonal()
	default:
		return false
	}
}

// Analyze scans the eight rays out of the side-to-move's king, then the knight
// and pawn offsets. On each ray the first friendly piece is a pin candidate;
// a second friendly piece clears the ray. The first enemy piece ends the scan
// and pins the candidate, or checks the king when no candidate was passed, if
// it moves along that ray type.
func (p *Position) Analyze() Analysis {
	p.mustBeValid()
	us := p.side
	them := us.Other()
	king := p.kings[us]
	var a Analysis

	for _, d := range AllDirs {
		df, dr := d.Delta()
		candidate := NoSquare
		var line uint64
		for sq, ok := king.Offset(df, dr); ok; sq, ok = sq.Offset(df, dr) {
			line |= bit(sq)
			pc := p.board[sq]
			if pc == NoPiece {
				continue
			}
			if pc.Color() == us {
				if candidate != NoSquare {
					break
				}
				candidate = sq
				continue
			}
			if slidesAlong(pc.Kind(), d) {
				if candidate == NoSquare {
					a.Checks = append(a.Checks, Check{Square: sq, Dir: d, block: line})
				} else {
					a.Pins = append(a.Pins, Pin{Square: candidate, Dir: d, line: line})
				}
			}
			break
		}
	}

	knight := MakePiece(them, Knight)
	for _, o := range knightOffsets {
		if sq, ok := king.Offset(o[0], o[1]); ok && p.board[sq] == knight {
			a.Checks = append(a.Checks, Check{Square: sq, Dir: NoDir, block: bit(sq)})
		}
	}
	pawn := MakePiece(them, Pawn)
	for _, df := range [2]int{-1, 1} {
		if sq, ok := king.Offset(df, forward(us)); ok && p.board[sq] == pawn {
			a.Checks = append(a.Checks, Check{Square: sq, Dir: NoDir, block: bit(sq)})
		}
	}

	a.InCheck = len(a.Checks) > 0
	return a
}

// SquareAttacked reports whether any piece of side by attacks sq.
func (p *Position) SquareAttacked(sq Square, by Color) bool {
	return p.attacked(sq, by, NoSquare)
}

// attacked is SquareAttacked with one square treated as empty. King moves use
// it with the king's own square so the king cannot shelter behind itself on a
// checking ray.
func (p *Position) attacked(sq Square, by Color, ignore Square) bool {
	pawn := MakePiece(by, Pawn)
	for _, df := range [2]int{-1, 1} {
		if s, ok := sq.Offset(df, -forward(by)); ok && p.board[s] == pawn {
			return true
		}
	}
	knight := MakePiece(by, Knight)
	for _, o := range knightOffsets {
		if s, ok := sq.Offset(o[0], o[1]); ok && p.board[s] == knight {
			return true
		}
	}
	king := MakePiece(by, King)
	for _, o := range kingOffsets {
		if s, ok := sq.Offset(o[0], o[1]); ok && p.board[s] == king {
			return true
		}
	}
	for _, d := range AllDirs {
		df, dr := d.Delta()
		for s, ok := sq.Offset(df, dr); ok; s, ok = s.Offset(df, dr) {
			pc := p.board[s]
			if pc == NoPiece || s == ignore {
				continue
			}
			if pc.Color() == by && slidesAlong(pc.Kind(), d) {
				return true
			}
			break
		}
	}
	return false
}
