package chessmg

import "fmt"

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Kind is the colorless type of a piece. The set is closed; every switch over
// Kind in this package handles all six values.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// PromotionKinds lists the kinds a pawn may promote to, in generation order.
var PromotionKinds = [4]Kind{Queen, Rook, Bishop, Knight}

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// letter is the lowercase UCI/FEN letter for the kind ('p', 'n', ...).
func (k Kind) letter() byte {
	switch k {
	case Pawn:
		return 'p'
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	case King:
		return 'k'
	default:
		return '-'
	}
}

func kindFromLetter(ch byte) Kind {
	switch ch {
	case 'p', 'P':
		return Pawn
	case 'n', 'N':
		return Knight
	case 'b', 'B':
		return Bishop
	case 'r', 'R':
		return Rook
	case 'q', 'Q':
		return Queen
	case 'k', 'K':
		return King
	default:
		return NoKind
	}
}

// Piece is a color and kind packed into one byte.
// Black pieces are encoded as kind|8, so p&7 gives the kind and p&8 the side.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = Piece(Pawn)
	WhiteKnight Piece = Piece(Knight)
	WhiteBishop Piece = Piece(Bishop)
	WhiteRook   Piece = Piece(Rook)
	WhiteQueen  Piece = Piece(Queen)
	WhiteKing   Piece = Piece(King)

	BlackPawn   Piece = Piece(Pawn) | 8
	BlackKnight Piece = Piece(Knight) | 8
	BlackBishop Piece = Piece(Bishop) | 8
	BlackRook   Piece = Piece(Rook) | 8
	BlackQueen  Piece = Piece(Queen) | 8
	BlackKing   Piece = Piece(King) | 8
)

// MakePiece combines a side and a kind. NoKind yields NoPiece.
func MakePiece(c Color, k Kind) Piece {
	if k == NoKind {
		return NoPiece
	}
	if c == Black {
		return Piece(k) | 8
	}
	return Piece(k)
}

// Kind returns the colorless kind of the piece.
func (p Piece) Kind() Kind { return Kind(p & 7) }

// Color returns the owner. NoPiece reports White.
func (p Piece) Color() Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// Tag is the two-character serialization form: "wK", "bp", "--" for empty.
func (p Piece) Tag() string {
	if p == NoPiece {
		return "--"
	}
	c := byte('w')
	if p.Color() == Black {
		c = 'b'
	}
	k := p.Kind().letter()
	if k != 'p' {
		k -= 'a' - 'A'
	}
	return string([]byte{c, k})
}

// PieceFromTag is the inverse of Tag.
func PieceFromTag(tag string) (Piece, error) {
	if tag == "--" {
		return NoPiece, nil
	}
	if len(tag) != 2 || (tag[0] != 'w' && tag[0] != 'b') {
		return NoPiece, fmt.Errorf("invalid piece tag %q", tag)
	}
	k := kindFromLetter(tag[1])
	if k == NoKind {
		return NoPiece, fmt.Errorf("invalid piece tag %q", tag)
	}
	c := White
	if tag[0] == 'b' {
		c = Black
	}
	return MakePiece(c, k), nil
}

// fenChar returns the FEN letter, uppercase for white.
func (p Piece) fenChar() byte {
	ch := p.Kind().letter()
	if p.Color() == White {
		ch -= 'a' - 'A'
	}
	return ch
}

func pieceFromFENChar(ch byte) Piece {
	k := kindFromLetter(ch)
	if k == NoKind {
		return NoPiece
	}
	if ch >= 'a' {
		return MakePiece(Black, k)
	}
	return MakePiece(White, k)
}
