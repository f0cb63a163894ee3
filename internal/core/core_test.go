package core

import (
	"fmt"
	"testing"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrGameNotFound, ErrCodeGameNotFound},
		{fmt.Errorf("%w: e2e5", ErrIllegalMove), ErrCodeInvalidMove},
		{fmt.Errorf("%w: i9", ErrOutOfBounds), ErrCodeOutOfBounds},
		{ErrNoPieceSelected, ErrCodeNoPieceSelected},
		{ErrGameOver, ErrCodeGameOver},
		{fmt.Errorf("disk full"), ErrCodeInternalError},
	}
	for _, tt := range tests {
		if got := ErrorCode(tt.err); got != tt.want {
			t.Errorf("ErrorCode(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestParseState(t *testing.T) {
	for _, st := range []State{StateInProgress, StateCheck, StateCheckmate, StateStalemate, StateDrawn} {
		got, ok := ParseState(st.String())
		if !ok || got != st {
			t.Errorf("ParseState(%q) = %v, %v", st.String(), got, ok)
		}
	}
	if _, ok := ParseState("resigned"); ok {
		t.Error("ParseState(resigned) succeeded")
	}
}

func TestParseColor(t *testing.T) {
	if c, ok := ParseColor("w"); !ok || c != ColorWhite {
		t.Errorf("ParseColor(w) = %v, %v", c, ok)
	}
	if c, ok := ParseColor("b"); !ok || c != ColorBlack {
		t.Errorf("ParseColor(b) = %v, %v", c, ok)
	}
	if _, ok := ParseColor("-"); ok {
		t.Error("ParseColor(-) succeeded")
	}
	if OppositeColor(ColorBlack) != ColorWhite {
		t.Error("OppositeColor(black) != white")
	}
}
