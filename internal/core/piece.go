package core

// PieceKind is the closed set of chess piece types
type PieceKind byte

const (
	NoKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{"none", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (k PieceKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Letter returns the upper-case piece letter, 0 for NoKind
func (k PieceKind) Letter() byte {
	letters := [...]byte{0, 'P', 'N', 'B', 'R', 'Q', 'K'}
	if int(k) < len(letters) {
		return letters[k]
	}
	return 0
}

// ParseKind maps a piece letter (either case) to its kind
func ParseKind(letter byte) (PieceKind, bool) {
	switch letter {
	case 'p', 'P':
		return Pawn, true
	case 'n', 'N':
		return Knight, true
	case 'b', 'B':
		return Bishop, true
	case 'r', 'R':
		return Rook, true
	case 'q', 'Q':
		return Queen, true
	case 'k', 'K':
		return King, true
	default:
		return NoKind, false
	}
}

// IsPromotionChoice reports whether a pawn may promote to this kind
func (k PieceKind) IsPromotionChoice() bool {
	return k == Knight || k == Bishop || k == Rook || k == Queen
}
