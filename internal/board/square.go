package board

import (
	"fmt"

	"chessrules/internal/core"
)

const (
	Rows = 8
	Cols = 8
)

// Square is an immutable board coordinate. Row 0 is rank 8, column 0 is file a.
type Square struct {
	row int8
	col int8
}

// NewSquare validates the coordinate and returns the square
func NewSquare(row, col int) (Square, error) {
	if !inBounds(row, col) {
		return Square{}, fmt.Errorf("%w: row %d, col %d", core.ErrOutOfBounds, row, col)
	}
	return Square{row: int8(row), col: int8(col)}, nil
}

// MustSquare is NewSquare for coordinates known to be valid; it panics otherwise
func MustSquare(row, col int) Square {
	sq, err := NewSquare(row, col)
	if err != nil {
		panic(err)
	}
	return sq
}

// ParseSquare reads an alphanumeric label such as "e2"
func ParseSquare(label string) (Square, error) {
	if len(label) != 2 {
		return Square{}, fmt.Errorf("%w: %q", core.ErrOutOfBounds, label)
	}
	file, rank := label[0], label[1]
	if file >= 'A' && file <= 'H' {
		file += 'a' - 'A'
	}
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, fmt.Errorf("%w: %q", core.ErrOutOfBounds, label)
	}
	return Square{row: int8('8' - rank), col: int8(file - 'a')}, nil
}

// AlphaCol maps a column index 0..7 to its file letter a..h
func AlphaCol(col int) string {
	if col < 0 || col >= Cols {
		return "?"
	}
	return string(rune('a' + col))
}

func (s Square) Row() int { return int(s.row) }
func (s Square) Col() int { return int(s.col) }

// Rank returns the chess rank number 1..8
func (s Square) Rank() int { return Rows - int(s.row) }

// Label returns the alphanumeric name such as "e2"
func (s Square) Label() string {
	return fmt.Sprintf("%s%d", AlphaCol(s.Col()), s.Rank())
}

func (s Square) String() string {
	return s.Label()
}

// offset returns the square shifted by (dr, dc), false when it leaves the board
func (s Square) offset(dr, dc int) (Square, bool) {
	r, c := int(s.row)+dr, int(s.col)+dc
	if !inBounds(r, c) {
		return Square{}, false
	}
	return Square{row: int8(r), col: int8(c)}, true
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}
