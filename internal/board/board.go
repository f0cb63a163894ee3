// Package board implements the chess position: squares, pieces, legal move
// generation and move application with all special rules.
package board

import (
	"fmt"
	"strings"

	"chessrules/internal/core"
)

// backRank lists the starting piece kinds from file a to h
var backRank = [Cols]core.PieceKind{
	core.Rook, core.Knight, core.Bishop, core.Queen,
	core.King, core.Bishop, core.Knight, core.Rook,
}

type Board struct {
	squares   [Rows][Cols]*Piece
	lastMove  *Move
	moveCount int
}

// New returns a board in the standard starting position
func New() *Board {
	b := Empty()
	for c := 0; c < Cols; c++ {
		b.squares[0][c] = NewPiece(core.ColorBlack, backRank[c])
		b.squares[1][c] = NewPiece(core.ColorBlack, core.Pawn)
		b.squares[6][c] = NewPiece(core.ColorWhite, core.Pawn)
		b.squares[7][c] = NewPiece(core.ColorWhite, backRank[c])
	}
	return b
}

// Empty returns a board with no pieces
func Empty() *Board {
	return &Board{}
}

// Place puts p on sq, replacing any occupant
func (b *Board) Place(sq Square, p *Piece) {
	b.squares[sq.row][sq.col] = p
}

// Remove clears sq and returns the piece that was there
func (b *Board) Remove(sq Square) *Piece {
	p := b.squares[sq.row][sq.col]
	b.squares[sq.row][sq.col] = nil
	return p
}

// At returns the piece on sq or nil
func (b *Board) At(sq Square) *Piece {
	return b.squares[sq.row][sq.col]
}

// LastMove returns the most recently applied move
func (b *Board) LastMove() (Move, bool) {
	if b.lastMove == nil {
		return Move{}, false
	}
	return *b.lastMove, true
}

func (b *Board) MoveCount() int {
	return b.moveCount
}

// Clone returns a deep copy; move caches are not carried over
func (b *Board) Clone() *Board {
	c := &Board{moveCount: b.moveCount}
	for r := 0; r < Rows; r++ {
		for f := 0; f < Cols; f++ {
			if p := b.squares[r][f]; p != nil {
				c.squares[r][f] = p.clone()
			}
		}
	}
	if b.lastMove != nil {
		m := *b.lastMove
		c.lastMove = &m
	}
	return c
}

// Equal compares piece placement only: color and kind on every square
func (b *Board) Equal(o *Board) bool {
	if b == nil || o == nil {
		return b == o
	}
	for r := 0; r < Rows; r++ {
		for f := 0; f < Cols; f++ {
			p, q := b.squares[r][f], o.squares[r][f]
			if (p == nil) != (q == nil) {
				return false
			}
			if p != nil && (p.color != q.color || p.kind != q.kind) {
				return false
			}
		}
	}
	return true
}

// Key returns a compact placement key; equal boards have equal keys
func (b *Board) Key() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		empty := 0
		for f := 0; f < Cols; f++ {
			p := b.squares[r][f]
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r < Rows-1 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// Grid returns one string per row, '.' marking empty squares
func (b *Board) Grid() [Rows]string {
	var grid [Rows]string
	for r := 0; r < Rows; r++ {
		row := make([]byte, Cols)
		for f := 0; f < Cols; f++ {
			row[f] = '.'
			if p := b.squares[r][f]; p != nil {
				row[f] = p.Letter()
			}
		}
		grid[r] = string(row)
	}
	return grid
}

// ToASCII creates an ASCII representation of the board
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < Rows; r++ {
		sb.WriteString(fmt.Sprintf("%d ", Rows-r))
		for f := 0; f < Cols; f++ {
			piece := b.squares[r][f]
			if piece == nil {
				sb.WriteString(". ")
			} else {
				sb.WriteString(fmt.Sprintf("%c ", piece.Letter()))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", Rows-r))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}

// KingSquare locates the king of the given color
func (b *Board) KingSquare(color core.Color) (Square, bool) {
	for r := 0; r < Rows; r++ {
		for f := 0; f < Cols; f++ {
			if p := b.squares[r][f]; p != nil && p.color == color && p.kind == core.King {
				return Square{row: int8(r), col: int8(f)}, true
			}
		}
	}
	return Square{}, false
}

// occupied calls fn for every square holding a piece of the given color
func (b *Board) occupied(color core.Color, fn func(Square, *Piece) bool) {
	for r := 0; r < Rows; r++ {
		for f := 0; f < Cols; f++ {
			if p := b.squares[r][f]; p != nil && p.color == color {
				if !fn(Square{row: int8(r), col: int8(f)}, p) {
					return
				}
			}
		}
	}
}
