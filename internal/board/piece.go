package board

import "chessrules/internal/core"

// Piece is owned by the square holding it
type Piece struct {
	color core.Color
	kind  core.PieceKind
	moved bool
	moves []Move // cached by the last LegalMoves query, stale after any mutation
}

func NewPiece(color core.Color, kind core.PieceKind) *Piece {
	return &Piece{color: color, kind: kind}
}

func (p *Piece) Color() core.Color    { return p.color }
func (p *Piece) Kind() core.PieceKind { return p.kind }
func (p *Piece) HasMoved() bool       { return p.moved }

// Moves returns the moves cached by the last legality query for this piece
func (p *Piece) Moves() []Move {
	out := make([]Move, len(p.moves))
	copy(out, p.moves)
	return out
}

// Letter returns the piece letter, upper case for white and lower case for black
func (p *Piece) Letter() byte {
	l := p.kind.Letter()
	if p.color == core.ColorBlack {
		l += 'a' - 'A'
	}
	return l
}

func (p *Piece) String() string {
	return p.color.Name() + " " + p.kind.String()
}

func (p *Piece) clone() *Piece {
	return &Piece{color: p.color, kind: p.kind, moved: p.moved}
}

// PieceFromLetter builds an unmoved piece from its letter, nil for unknown letters
func PieceFromLetter(letter byte) *Piece {
	kind, ok := core.ParseKind(letter)
	if !ok {
		return nil
	}
	color := core.ColorWhite
	if letter >= 'a' && letter <= 'z' {
		color = core.ColorBlack
	}
	return NewPiece(color, kind)
}
