package core

type State int

const (
	StateInProgress State = iota
	StateCheck
	StateCheckmate
	StateStalemate
	StateDrawn // threefold repetition
)

func (s State) String() string {
	switch s {
	case StateCheck:
		return "check"
	case StateCheckmate:
		return "checkmate"
	case StateStalemate:
		return "stalemate"
	case StateDrawn:
		return "drawn"
	default:
		return "in_progress"
	}
}

// IsTerminal reports whether no further moves are accepted in this state
func (s State) IsTerminal() bool {
	return s == StateCheckmate || s == StateStalemate || s == StateDrawn
}

type Color byte

const (
	ColorWhite Color = iota + 1
	ColorBlack
)

func (c Color) String() string {
	if c == ColorWhite {
		return "w"
	} else if c == ColorBlack {
		return "b"
	} else {
		return "-"
	}
}

// Name returns the capitalized color name used in player-facing messages
func (c Color) Name() string {
	if c == ColorWhite {
		return "White"
	}
	return "Black"
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// ParseState is the inverse of State.String
func ParseState(s string) (State, bool) {
	for st := StateInProgress; st <= StateDrawn; st++ {
		if st.String() == s {
			return st, true
		}
	}
	return StateInProgress, false
}

// ParseColor reads the "w" / "b" wire form
func ParseColor(s string) (Color, bool) {
	switch s {
	case "w":
		return ColorWhite, true
	case "b":
		return ColorBlack, true
	default:
		return 0, false
	}
}
