package chessmg

import "fmt"

// Square is a board index 0..63, rank*8+file, with a1 = 0 and h8 = 63.
type Square int

const NoSquare Square = -1

// SquareOf builds a square from zero-based file and rank.
func SquareOf(file, rank int) Square { return Square(rank*8 + file) }

// SquareAt builds a square from the display convention where row 0 is rank 8.
func SquareAt(row, col int) Square { return SquareOf(col, 7-row) }

func (s Square) File() int { return int(s) & 7 }
func (s Square) Rank() int { return int(s) >> 3 }

// Row is the display row, 0 at the top (rank 8).
func (s Square) Row() int { return 7 - s.Rank() }

// Col is the display column, identical to File.
func (s Square) Col() int { return s.File() }

func (s Square) Valid() bool { return s >= 0 && s < 64 }

// Offset moves the square by whole files and ranks, reporting false when the
// result falls off the board.
func (s Square) Offset(df, dr int) (Square, bool) {
	f, r := s.File()+df, s.Rank()+dr
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return NoSquare, false
	}
	return SquareOf(f, r), true
}

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{'a' + byte(s.File()), '1' + byte(s.Rank())})
}

// ParseSquare reads algebraic coordinates such as "e4".
func ParseSquare(str string) (Square, error) {
	if len(str) != 2 || str[0] < 'a' || str[0] > 'h' || str[1] < '1' || str[1] > '8' {
		return NoSquare, fmt.Errorf("invalid square %q", str)
	}
	return SquareOf(int(str[0]-'a'), int(str[1]-'1')), nil
}

// Dir is one of the eight ray directions scanned from a king.
type Dir int8

const (
	NoDir Dir = iota - 1
	North
	South
	East
	West
	NorthEast
	NorthWest
	SouthEast
	SouthWest
)

// AllDirs lists the orthogonal directions first, then the diagonals.
var AllDirs = [8]Dir{North, South, East, West, NorthEast, NorthWest, SouthEast, SouthWest}

var dirDelta = [8][2]int{
	North:     {0, 1},
	South:     {0, -1},
	East:      {1, 0},
	West:      {-1, 0},
	NorthEast: {1, 1},
	NorthWest: {-1, 1},
	SouthEast: {1, -1},
	SouthWest: {-1, -1},
}

// Delta returns the (file, rank) step for the direction.
func (d Dir) Delta() (int, int) { return dirDelta[d][0], dirDelta[d][1] }

// Diagonal reports whether bishops (rather than rooks) slide along d.
func (d Dir) Diagonal() bool { return d >= NorthEast }

func (d Dir) String() string {
	switch d {
	case North:
		return "N"
	case South:
		return "S"
	case East:
		return "E"
	case West:
		return "W"
	case NorthEast:
		return "NE"
	case NorthWest:
		return "NW"
	case SouthEast:
		return "SE"
	case SouthWest:
		return "SW"
	default:
		return "-"
	}
}

var knightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}

var kingOffsets = [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}

// forward is the rank step a pawn of color c advances by.
func forward(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

// promotionRank is the farthest rank for c's pawns.
func promotionRank(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

func pawnStartRank(c Color) int {
	if c == White {
		return 1
	}
	return 6
}
