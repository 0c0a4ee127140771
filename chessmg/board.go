package chessmg

import (
	"strings"

	"golang.org/x/exp/slices"
)

// CastleRights holds the four castling permissions independently.
type CastleRights struct {
	WhiteKingside  bool
	WhiteQueenside bool
	BlackKingside  bool
	BlackQueenside bool
}

// AllCastleRights is the starting set.
var AllCastleRights = CastleRights{true, true, true, true}

// Kingside reports the kingside right for c.
func (cr CastleRights) Kingside(c Color) bool {
	if c == White {
		return cr.WhiteKingside
	}
	return cr.BlackKingside
}

// Queenside reports the queenside right for c.
func (cr CastleRights) Queenside(c Color) bool {
	if c == White {
		return cr.WhiteQueenside
	}
	return cr.BlackQueenside
}

// index packs the rights into 0..15 for Zobrist lookup.
func (cr CastleRights) index() int {
	i := 0
	if cr.WhiteKingside {
		i |= 1
	}
	if cr.WhiteQueenside {
		i |= 2
	}
	if cr.BlackKingside {
		i |= 4
	}
	if cr.BlackQueenside {
		i |= 8
	}
	return i
}

// revokeColor clears both rights of c.
func (cr *CastleRights) revokeColor(c Color) {
	if c == White {
		cr.WhiteKingside, cr.WhiteQueenside = false, false
	} else {
		cr.BlackKingside, cr.BlackQueenside = false, false
	}
}

// revokeSquare clears the right tied to a rook home square. It is applied to
// both the origin and the destination of every move, which covers rook moves
// and rook captures alike.
func (cr *CastleRights) revokeSquare(sq Square) {
	switch sq {
	case 0:
		cr.WhiteQueenside = false
	case 7:
		cr.WhiteKingside = false
	case 56:
		cr.BlackQueenside = false
	case 63:
		cr.BlackKingside = false
	}
}

func (cr CastleRights) String() string {
	var sb strings.Builder
	if cr.WhiteKingside {
		sb.WriteByte('K')
	}
	if cr.WhiteQueenside {
		sb.WriteByte('Q')
	}
	if cr.BlackKingside {
		sb.WriteByte('k')
	}
	if cr.BlackQueenside {
		sb.WriteByte('q')
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// undoEntry is one history record: the move plus every piece of state it
// overwrote. Rights and en passant are restored verbatim on undo.
type undoEntry struct {
	move      Move
	rights    CastleRights
	enPassant Square
	halfmove  int
	hash      uint64
	status    status
}

// status holds the terminal flags written by LegalMoves.
type status struct {
	inCheck   bool
	checkmate bool
	stalemate bool
}

// Position is the mutable game state. It is changed only through MakeMove,
// UndoMove and Play.
type Position struct {
	board     [64]Piece
	side      Color
	kings     [2]Square
	rights    CastleRights
	enPassant Square
	halfmove  int
	fullmove  int
	history   []undoEntry
	status    status
	hash      uint64
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	p, err := ParseFEN(FENStartPos)
	if err != nil {
		panic(err)
	}
	return p
}

// NewPositionFromBoard builds a position from a raw board. The board must hold
// exactly one king of each color.
func NewPositionFromBoard(board [64]Piece, side Color, rights CastleRights, enPassant Square) (*Position, error) {
	p := &Position{board: board, side: side, rights: rights, enPassant: enPassant, fullmove: 1}
	if err := p.locateKings(); err != nil {
		return nil, err
	}
	if err := p.checkSetup(); err != nil {
		return nil, err
	}
	p.hash = p.ComputeZobrist()
	return p, nil
}

// checkSetup rejects placements no game can reach and the move generator
// cannot play from. The side that just moved must not be left in check.
func (p *Position) checkSetup() error {
	for sq, pc := range p.board {
		if r := Square(sq).Rank(); pc.Kind() == Pawn && (r == 0 || r == 7) {
			return invalidBoard("pawn on back rank square %s", Square(sq))
		}
	}
	if p.enPassant != NoSquare {
		want := 5
		if p.side == Black {
			want = 2
		}
		if !p.enPassant.Valid() || p.enPassant.Rank() != want {
			return invalidBoard("en passant square %s impossible with %s to move", p.enPassant, p.side)
		}
	}
	if p.SquareAttacked(p.kings[p.side.Other()], p.side) {
		return invalidBoard("%s king in check with %s to move", p.side.Other(), p.side)
	}
	return nil
}

// locateKings fills the king cache by scanning. Only used at construction;
// afterwards the cache is maintained incrementally.
func (p *Position) locateKings() error {
	var count [2]int
	p.kings = [2]Square{NoSquare, NoSquare}
	for sq, pc := range p.board {
		if pc.Kind() == King {
			count[pc.Color()]++
			p.kings[pc.Color()] = Square(sq)
		}
	}
	if count[White] != 1 || count[Black] != 1 {
		return invalidBoard("want one king per side, have white=%d black=%d", count[White], count[Black])
	}
	return nil
}

// Clone returns an independent deep copy, suitable for handing to another
// goroutine.
func (p *Position) Clone() *Position {
	c := *p
	c.history = slices.Clone(p.history)
	return &c
}

func (p *Position) PieceAt(sq Square) Piece { return p.board[sq] }

// Board returns a copy of the 64 cells.
func (p *Position) Board() [64]Piece { return p.board }

func (p *Position) SideToMove() Color { return p.side }

// KingSquare returns the cached king location for c.
func (p *Position) KingSquare(c Color) Square { return p.kings[c] }

func (p *Position) CastleRights() CastleRights { return p.rights }

// EnPassant returns the en-passant target square or NoSquare.
func (p *Position) EnPassant() Square { return p.enPassant }

func (p *Position) HalfmoveClock() int  { return p.halfmove }
func (p *Position) FullmoveNumber() int { return p.fullmove }

// Plies is the number of moves on the history stack.
func (p *Position) Plies() int { return len(p.history) }

// History returns the applied moves, oldest first.
func (p *Position) History() []Move {
	out := make([]Move, len(p.history))
	for i, e := range p.history {
		out[i] = e.move
	}
	return out
}

// LastMove returns the most recent move, if any.
func (p *Position) LastMove() (Move, bool) {
	if len(p.history) == 0 {
		return Move{}, false
	}
	return p.history[len(p.history)-1].move, true
}

// InCheck, Checkmate and Stalemate are valid only right after LegalMoves.
func (p *Position) InCheck() bool   { return p.status.inCheck }
func (p *Position) Checkmate() bool { return p.status.checkmate }
func (p *Position) Stalemate() bool { return p.status.stalemate }

// Hash returns the incrementally maintained Zobrist key.
func (p *Position) Hash() uint64 { return p.hash }

// Validate checks the structural invariants. It returns *InvalidBoardError on
// failure.
func (p *Position) Validate() error {
	var count [2]int
	for sq, pc := range p.board {
		if pc.Kind() != King {
			continue
		}
		count[pc.Color()]++
		if p.kings[pc.Color()] != Square(sq) {
			return invalidBoard("%s king cache says %s, board has king on %s", pc.Color(), p.kings[pc.Color()], Square(sq))
		}
	}
	if count[White] != 1 || count[Black] != 1 {
		return invalidBoard("want one king per side, have white=%d black=%d", count[White], count[Black])
	}
	if err := p.checkSetup(); err != nil {
		return err
	}
	if p.hash != p.ComputeZobrist() {
		return invalidBoard("zobrist key out of sync")
	}
	return nil
}

// mustBeValid panics when the king cache no longer points at kings. It is a
// cheap guard run before rule code relies on the cache.
func (p *Position) mustBeValid() {
	for c := White; c <= Black; c++ {
		sq := p.kings[c]
		if !sq.Valid() || p.board[sq] != MakePiece(c, King) {
			panic(invalidBoard("%s king missing from %s", c, sq))
		}
	}
}

// String renders the board with two-character tags, rank 8 first.
func (p *Position) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(p.board[SquareAt(row, col)].Tag())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// addPiece places pc on an empty square and updates the hash.
func (p *Position) addPiece(sq Square, pc Piece) {
	p.board[sq] = pc
	p.hash ^= zobristPiece[pc][sq]
}

// removePiece clears sq and returns what was there.
func (p *Position) removePiece(sq Square) Piece {
	pc := p.board[sq]
	if pc == NoPiece {
		return NoPiece
	}
	p.board[sq] = NoPiece
	p.hash ^= zobristPiece[pc][sq]
	return pc
}

func (p *Position) setEnPassant(sq Square) {
	if p.enPassant != NoSquare {
		p.hash ^= zobristEnPassant[p.enPassant.File()]
	}
	p.enPassant = sq
	if sq != NoSquare {
		p.hash ^= zobristEnPassant[sq.File()]
	}
}

func (p *Position) setRights(cr CastleRights) {
	if cr == p.rights {
		return
	}
	p.hash ^= zobristCastle[p.rights.index()]
	p.hash ^= zobristCastle[cr.index()]
	p.rights = cr
}
