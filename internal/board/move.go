package board

import (
	"fmt"

	"chessrules/internal/core"
)

// Move pairs an initial and a final square; equality is by value
type Move struct {
	Initial Square
	Final   Square
}

func NewMove(initial, final Square) Move {
	return Move{Initial: initial, Final: final}
}

// String returns the coordinate notation, e.g. "e2e4"
func (m Move) String() string {
	return m.Initial.Label() + m.Final.Label()
}

// ParseMove reads coordinate notation with an optional promotion letter ("e7e8q").
// The promotion kind is core.NoKind when absent.
func ParseMove(text string) (Move, core.PieceKind, error) {
	if len(text) < 4 || len(text) > 5 {
		return Move{}, core.NoKind, fmt.Errorf("%w: malformed move %q", core.ErrIllegalMove, text)
	}
	from, err := ParseSquare(text[0:2])
	if err != nil {
		return Move{}, core.NoKind, err
	}
	to, err := ParseSquare(text[2:4])
	if err != nil {
		return Move{}, core.NoKind, err
	}
	promo := core.NoKind
	if len(text) == 5 {
		kind, ok := core.ParseKind(text[4])
		if !ok || !kind.IsPromotionChoice() {
			return Move{}, core.NoKind, fmt.Errorf("%w: bad promotion piece %q", core.ErrIllegalMove, text[4:])
		}
		promo = kind
	}
	return NewMove(from, to), promo, nil
}

func containsMove(moves []Move, m Move) bool {
	for _, c := range moves {
		if c == m {
			return true
		}
	}
	return false
}
