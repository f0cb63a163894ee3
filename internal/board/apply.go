package board

import (
	"fmt"

	"chessrules/internal/core"
)

// Effects describes the side effects of an applied move
type Effects struct {
	Capture    bool           `json:"capture"`
	Promoted   bool           `json:"promoted"`
	Castled    bool           `json:"castled"`
	EnPassant  bool           `json:"enPassant"`
	Captured   core.PieceKind `json:"-"`
	PromotedTo core.PieceKind `json:"-"`
}

// LegalMoves returns the moves of the piece on sq that do not leave its own
// king in check, and caches them on the piece
func (b *Board) LegalMoves(sq Square) []Move {
	p := b.At(sq)
	if p == nil {
		return nil
	}
	var legal []Move
	for _, m := range candidateMoves(b, sq) {
		if b.keepsKingSafe(m, p.color) {
			legal = append(legal, m)
		}
	}
	p.moves = legal
	return legal
}

// keepsKingSafe trial-applies m on a copy and checks the mover's king
func (b *Board) keepsKingSafe(m Move, color core.Color) bool {
	trial := b.Clone()
	trial.play(m, core.Queen)
	return !trial.IsInCheck(color)
}

// ApplyMove validates m against the legal moves of the piece on its initial
// square and applies it. promotion is used only when a pawn reaches the last
// rank; core.NoKind means queen. The board is unchanged on error.
func (b *Board) ApplyMove(m Move, promotion core.PieceKind) (Effects, error) {
	p := b.At(m.Initial)
	if p == nil {
		return Effects{}, fmt.Errorf("%w: no piece on %s", core.ErrIllegalMove, m.Initial)
	}
	if promotion == core.NoKind {
		promotion = core.Queen
	}
	if !promotion.IsPromotionChoice() {
		return Effects{}, fmt.Errorf("%w: cannot promote to %s", core.ErrIllegalMove, promotion)
	}
	if !containsMove(b.LegalMoves(m.Initial), m) {
		return Effects{}, fmt.Errorf("%w: %s %s", core.ErrIllegalMove, p, m)
	}
	return b.play(m, promotion), nil
}

// play performs m without validation
func (b *Board) play(m Move, promotion core.PieceKind) Effects {
	var fx Effects
	p := b.Remove(m.Initial)

	if victim := b.At(m.Final); victim != nil {
		fx.Capture = true
		fx.Captured = victim.kind
	}

	switch p.kind {
	case core.Pawn:
		if !fx.Capture && m.Initial.col != m.Final.col {
			if sq := b.enPassantVictim(m.Initial, m.Final, p.color); sq != nil {
				b.Remove(*sq)
				fx.Capture = true
				fx.EnPassant = true
				fx.Captured = core.Pawn
			}
		}
		if m.Final.Row() == lastRow(p.color) {
			p = &Piece{color: p.color, kind: promotion}
			fx.Promoted = true
			fx.PromotedTo = promotion
		}
	case core.King:
		if d := m.Final.Col() - m.Initial.Col(); d == 2 || d == -2 {
			rookFrom, rookTo := Cols-1, m.Initial.Col()+1
			if d < 0 {
				rookFrom, rookTo = 0, m.Initial.Col()-1
			}
			rook := b.squares[m.Initial.row][rookFrom]
			b.squares[m.Initial.row][rookFrom] = nil
			rook.moved = true
			b.squares[m.Initial.row][rookTo] = rook
			fx.Castled = true
		}
	}

	p.moved = true
	p.moves = nil
	b.Place(m.Final, p)

	last := m
	b.lastMove = &last
	b.moveCount++
	return fx
}

// IsInCheck reports whether the king of color is attacked
func (b *Board) IsInCheck(color core.Color) bool {
	king, ok := b.KingSquare(color)
	if !ok {
		return false
	}
	return b.IsAttacked(king, core.OppositeColor(color))
}

// HasAnyLegalMove reports whether color can make at least one legal move
func (b *Board) HasAnyLegalMove(color core.Color) bool {
	found := false
	b.occupied(color, func(sq Square, _ *Piece) bool {
		found = len(b.LegalMoves(sq)) > 0
		return !found
	})
	return found
}

// AllLegalMoves lists every legal move of color
func (b *Board) AllLegalMoves(color core.Color) []Move {
	var all []Move
	b.occupied(color, func(sq Square, _ *Piece) bool {
		all = append(all, b.LegalMoves(sq)...)
		return true
	})
	return all
}
