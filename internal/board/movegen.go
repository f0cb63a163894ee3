package board

import "chessrules/internal/core"

type offset struct{ dr, dc int }

var (
	knightOffsets = []offset{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets   = []offset{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	diagonals     = []offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	orthogonals   = []offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	allRays       = append(append([]offset{}, diagonals...), orthogonals...)
)

// generator computes candidate moves for the piece standing on from.
// Generators read the board and never mutate it.
type generator func(b *Board, from Square, p *Piece) []Move

var generators = map[core.PieceKind]generator{
	core.Pawn:   pawnMoves,
	core.Knight: knightMoves,
	core.Bishop: rayMoves(diagonals),
	core.Rook:   rayMoves(orthogonals),
	core.Queen:  rayMoves(allRays),
	core.King:   kingMoves,
}

// candidateMoves returns pseudo-legal moves, before the king-safety filter
func candidateMoves(b *Board, from Square) []Move {
	p := b.At(from)
	if p == nil {
		return nil
	}
	gen, ok := generators[p.kind]
	if !ok {
		return nil
	}
	return gen(b, from, p)
}

// forward is the row delta a pawn of this color advances by
func forward(color core.Color) int {
	if color == core.ColorWhite {
		return -1
	}
	return 1
}

func pawnStartRow(color core.Color) int {
	if color == core.ColorWhite {
		return 6
	}
	return 1
}

func lastRow(color core.Color) int {
	if color == core.ColorWhite {
		return 0
	}
	return Rows - 1
}

func homeRow(color core.Color) int {
	if color == core.ColorWhite {
		return Rows - 1
	}
	return 0
}

func pawnMoves(b *Board, from Square, p *Piece) []Move {
	var moves []Move
	dir := forward(p.color)

	if one, ok := from.offset(dir, 0); ok && b.At(one) == nil {
		moves = append(moves, NewMove(from, one))
		if from.Row() == pawnStartRow(p.color) {
			if two, ok := from.offset(2*dir, 0); ok && b.At(two) == nil {
				moves = append(moves, NewMove(from, two))
			}
		}
	}

	for _, dc := range []int{-1, 1} {
		target, ok := from.offset(dir, dc)
		if !ok {
			continue
		}
		if victim := b.At(target); victim != nil {
			if victim.color != p.color {
				moves = append(moves, NewMove(from, target))
			}
			continue
		}
		if b.enPassantVictim(from, target, p.color) != nil {
			moves = append(moves, NewMove(from, target))
		}
	}
	return moves
}

// enPassantVictim returns the square of the pawn captured en passant when a
// pawn of color moves diagonally from -> target onto an empty square
func (b *Board) enPassantVictim(from, target Square, color core.Color) *Square {
	if b.lastMove == nil {
		return nil
	}
	last := *b.lastMove
	adjacent := Square{row: from.row, col: target.col}
	if last.Final != adjacent {
		return nil
	}
	victim := b.At(adjacent)
	if victim == nil || victim.kind != core.Pawn || victim.color == color {
		return nil
	}
	if d := last.Initial.Row() - last.Final.Row(); d != 2 && d != -2 {
		return nil
	}
	if last.Initial.Row() != pawnStartRow(victim.color) {
		return nil
	}
	return &adjacent
}

func knightMoves(b *Board, from Square, p *Piece) []Move {
	return stepMoves(b, from, p, knightOffsets)
}

func stepMoves(b *Board, from Square, p *Piece, offsets []offset) []Move {
	var moves []Move
	for _, o := range offsets {
		to, ok := from.offset(o.dr, o.dc)
		if !ok {
			continue
		}
		if q := b.At(to); q != nil && q.color == p.color {
			continue
		}
		moves = append(moves, NewMove(from, to))
	}
	return moves
}

func rayMoves(dirs []offset) generator {
	return func(b *Board, from Square, p *Piece) []Move {
		var moves []Move
		for _, d := range dirs {
			to, ok := from.offset(d.dr, d.dc)
			for ok {
				q := b.At(to)
				if q != nil {
					if q.color != p.color {
						moves = append(moves, NewMove(from, to))
					}
					break
				}
				moves = append(moves, NewMove(from, to))
				to, ok = to.offset(d.dr, d.dc)
			}
		}
		return moves
	}
}

func kingMoves(b *Board, from Square, p *Piece) []Move {
	moves := stepMoves(b, from, p, kingOffsets)
	if to, ok := b.castleTarget(from, p, Rows-1); ok {
		moves = append(moves, NewMove(from, to))
	}
	if to, ok := b.castleTarget(from, p, 0); ok {
		moves = append(moves, NewMove(from, to))
	}
	return moves
}

// castleTarget checks castling toward the rook on rookCol and returns the
// king's destination
func (b *Board) castleTarget(from Square, king *Piece, rookCol int) (Square, bool) {
	row := homeRow(king.color)
	if king.moved || from.Row() != row || from.Col() != 4 {
		return Square{}, false
	}
	rook := b.squares[row][rookCol]
	if rook == nil || rook.kind != core.Rook || rook.color != king.color || rook.moved {
		return Square{}, false
	}

	step := 1
	if rookCol < from.Col() {
		step = -1
	}
	for c := from.Col() + step; c != rookCol; c += step {
		if b.squares[row][c] != nil {
			return Square{}, false
		}
	}

	enemy := core.OppositeColor(king.color)
	for i := 0; i <= 2; i++ {
		sq := Square{row: int8(row), col: int8(from.Col() + i*step)}
		if b.IsAttacked(sq, enemy) {
			return Square{}, false
		}
	}
	return Square{row: int8(row), col: int8(from.Col() + 2*step)}, true
}

// IsAttacked reports whether any piece of color by could capture on sq
func (b *Board) IsAttacked(sq Square, by core.Color) bool {
	// pawns capture toward their forward direction, so look one row behind
	for _, dc := range []int{-1, 1} {
		if from, ok := sq.offset(-forward(by), dc); ok {
			if p := b.At(from); p != nil && p.color == by && p.kind == core.Pawn {
				return true
			}
		}
	}
	if b.attackedByStep(sq, by, knightOffsets, core.Knight) ||
		b.attackedByStep(sq, by, kingOffsets, core.King) {
		return true
	}
	return b.attackedByRay(sq, by, diagonals, core.Bishop) ||
		b.attackedByRay(sq, by, orthogonals, core.Rook)
}

func (b *Board) attackedByStep(sq Square, by core.Color, offsets []offset, kind core.PieceKind) bool {
	for _, o := range offsets {
		if from, ok := sq.offset(o.dr, o.dc); ok {
			if p := b.At(from); p != nil && p.color == by && p.kind == kind {
				return true
			}
		}
	}
	return false
}

// attackedByRay also matches queens on either ray family
func (b *Board) attackedByRay(sq Square, by core.Color, dirs []offset, kind core.PieceKind) bool {
	for _, d := range dirs {
		from, ok := sq.offset(d.dr, d.dc)
		for ok {
			if p := b.At(from); p != nil {
				if p.color == by && (p.kind == kind || p.kind == core.Queen) {
					return true
				}
				break
			}
			from, ok = from.offset(d.dr, d.dc)
		}
	}
	return false
}
