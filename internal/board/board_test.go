package board

import (
	"errors"
	"testing"

	"chessrules/internal/core"

	"github.com/google/go-cmp/cmp"
)

// setup builds a board from label -> piece letter placements
func setup(t *testing.T, placements map[string]byte) *Board {
	t.Helper()
	b := Empty()
	for label, letter := range placements {
		sq, err := ParseSquare(label)
		if err != nil {
			t.Fatalf("ParseSquare(%q) error: %v", label, err)
		}
		p := PieceFromLetter(letter)
		if p == nil {
			t.Fatalf("PieceFromLetter(%q) = nil", letter)
		}
		b.Place(sq, p)
	}
	return b
}

func sq(t *testing.T, label string) Square {
	t.Helper()
	s, err := ParseSquare(label)
	if err != nil {
		t.Fatalf("ParseSquare(%q) error: %v", label, err)
	}
	return s
}

func mv(t *testing.T, text string) Move {
	t.Helper()
	m, _, err := ParseMove(text)
	if err != nil {
		t.Fatalf("ParseMove(%q) error: %v", text, err)
	}
	return m
}

func labels(moves []Move) map[string]bool {
	out := make(map[string]bool, len(moves))
	for _, m := range moves {
		out[m.String()] = true
	}
	return out
}

func play(t *testing.T, b *Board, moves ...string) {
	t.Helper()
	for _, text := range moves {
		m, promo, err := ParseMove(text)
		if err != nil {
			t.Fatalf("ParseMove(%q) error: %v", text, err)
		}
		if _, err := b.ApplyMove(m, promo); err != nil {
			t.Fatalf("ApplyMove(%s) error: %v", text, err)
		}
	}
}

func TestNewSquare(t *testing.T) {
	tests := []struct {
		row, col int
		label    string
		wantErr  bool
	}{
		{0, 0, "a8", false},
		{7, 7, "h1", false},
		{6, 4, "e2", false},
		{-1, 0, "", true},
		{0, 8, "", true},
		{8, 3, "", true},
	}

	for _, tt := range tests {
		got, err := NewSquare(tt.row, tt.col)
		if tt.wantErr {
			if !errors.Is(err, core.ErrOutOfBounds) {
				t.Errorf("NewSquare(%d, %d) error = %v, want ErrOutOfBounds", tt.row, tt.col, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewSquare(%d, %d) error: %v", tt.row, tt.col, err)
		}
		if got.Label() != tt.label {
			t.Errorf("NewSquare(%d, %d).Label() = %q, want %q", tt.row, tt.col, got.Label(), tt.label)
		}
		back, err := ParseSquare(tt.label)
		if err != nil || back != got {
			t.Errorf("ParseSquare(%q) = %v, %v; want %v", tt.label, back, err, got)
		}
	}
}

func TestParseSquareRejectsGarbage(t *testing.T) {
	for _, label := range []string{"", "e", "e9", "i1", "e22", "11"} {
		if _, err := ParseSquare(label); !errors.Is(err, core.ErrOutOfBounds) {
			t.Errorf("ParseSquare(%q) error = %v, want ErrOutOfBounds", label, err)
		}
	}
}

func TestAlphaCol(t *testing.T) {
	var got string
	for c := 0; c < Cols; c++ {
		got += AlphaCol(c)
	}
	if got != "abcdefgh" {
		t.Errorf("AlphaCol(0..7) = %q, want %q", got, "abcdefgh")
	}
}

func TestSquareAsMapKey(t *testing.T) {
	seen := map[Square]int{}
	seen[MustSquare(6, 4)]++
	seen[sq(t, "e2")]++
	if seen[MustSquare(6, 4)] != 2 {
		t.Errorf("equal squares did not share a map key: %v", seen)
	}
}

func TestParseMove(t *testing.T) {
	m, promo, err := ParseMove("e7e8n")
	if err != nil {
		t.Fatalf("ParseMove error: %v", err)
	}
	if m.String() != "e7e8" || promo != core.Knight {
		t.Errorf("ParseMove(e7e8n) = %s, %s", m, promo)
	}
	for _, bad := range []string{"e2", "e2e9", "e7e8k", "e7e8x", "e2e4e5"} {
		if _, _, err := ParseMove(bad); err == nil {
			t.Errorf("ParseMove(%q) succeeded, want error", bad)
		}
	}
}

func TestStartingPosition(t *testing.T) {
	b := New()
	if got := len(b.AllLegalMoves(core.ColorWhite)); got != 20 {
		t.Errorf("white legal moves = %d, want 20", got)
	}
	if got := len(b.AllLegalMoves(core.ColorBlack)); got != 20 {
		t.Errorf("black legal moves = %d, want 20", got)
	}
	want := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"
	if got := b.Key(); got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
	if b.IsInCheck(core.ColorWhite) || b.IsInCheck(core.ColorBlack) {
		t.Error("starting position reports check")
	}
}

func TestLegalMovesCachedOnPiece(t *testing.T) {
	b := New()
	g1 := sq(t, "g1")
	moves := b.LegalMoves(g1)
	if diff := cmp.Diff(map[string]bool{"g1f3": true, "g1h3": true}, labels(moves)); diff != "" {
		t.Errorf("knight moves mismatch (-want +got):\n%s", diff)
	}
	if got := b.At(g1).Moves(); len(got) != 2 {
		t.Errorf("cached moves = %v, want 2 entries", got)
	}
	if b.MoveCount() != 0 {
		t.Errorf("LegalMoves changed MoveCount to %d", b.MoveCount())
	}
}

func TestSlidingPiecesStopAtBlockers(t *testing.T) {
	b := setup(t, map[string]byte{
		"d4": 'R', "d6": 'p', "d2": 'P', "a1": 'K', "h8": 'k',
	})
	got := labels(b.LegalMoves(sq(t, "d4")))
	want := map[string]bool{
		"d4d5": true, "d4d6": true, "d4d3": true,
		"d4a4": true, "d4b4": true, "d4c4": true,
		"d4e4": true, "d4f4": true, "d4g4": true, "d4h4": true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rook moves mismatch (-want +got):\n%s", diff)
	}
}

func TestPinnedPieceCannotLeaveLine(t *testing.T) {
	b := setup(t, map[string]byte{"e1": 'K', "e2": 'N', "e8": 'r', "a8": 'k'})
	if moves := b.LegalMoves(sq(t, "e2")); len(moves) != 0 {
		t.Errorf("pinned knight has moves %v", moves)
	}
}

func TestApplyMoveRejectsIllegal(t *testing.T) {
	b := New()
	before := b.Clone()
	_, err := b.ApplyMove(mv(t, "e2e5"), core.NoKind)
	if !errors.Is(err, core.ErrIllegalMove) {
		t.Fatalf("ApplyMove(e2e5) error = %v, want ErrIllegalMove", err)
	}
	if !b.Equal(before) || b.MoveCount() != 0 {
		t.Error("illegal move changed the board")
	}
	if _, err := b.ApplyMove(mv(t, "e4e5"), core.NoKind); !errors.Is(err, core.ErrIllegalMove) {
		t.Errorf("ApplyMove from empty square error = %v, want ErrIllegalMove", err)
	}
}

func TestApplyMoveBookkeeping(t *testing.T) {
	b := New()
	play(t, b, "e2e4")
	last, ok := b.LastMove()
	if !ok || last.String() != "e2e4" {
		t.Errorf("LastMove() = %v, %v; want e2e4", last, ok)
	}
	if b.MoveCount() != 1 {
		t.Errorf("MoveCount() = %d, want 1", b.MoveCount())
	}
	if p := b.At(sq(t, "e4")); p == nil || !p.HasMoved() || p.Kind() != core.Pawn {
		t.Errorf("e4 holds %v, want moved pawn", p)
	}
	if b.At(sq(t, "e2")) != nil {
		t.Error("e2 not emptied")
	}
}

func TestCapture(t *testing.T) {
	b := New()
	play(t, b, "e2e4", "d7d5")
	fx, err := b.ApplyMove(mv(t, "e4d5"), core.NoKind)
	if err != nil {
		t.Fatal(err)
	}
	if !fx.Capture || fx.Captured != core.Pawn || fx.EnPassant || fx.Castled || fx.Promoted {
		t.Errorf("effects = %+v, want plain pawn capture", fx)
	}
}

func TestCastling(t *testing.T) {
	tests := []struct {
		name      string
		pieces    map[string]byte
		move      string
		rookFrom  string
		rookTo    string
		wantLegal bool
	}{
		{"white kingside", map[string]byte{"e1": 'K', "h1": 'R', "e8": 'k'}, "e1g1", "h1", "f1", true},
		{"white queenside", map[string]byte{"e1": 'K', "a1": 'R', "e8": 'k'}, "e1c1", "a1", "d1", true},
		{"black kingside", map[string]byte{"e8": 'k', "h8": 'r', "e1": 'K'}, "e8g8", "h8", "f8", true},
		{"black queenside", map[string]byte{"e8": 'k', "a8": 'r', "e1": 'K'}, "e8c8", "a8", "d8", true},
		{"white kingside blocked", map[string]byte{"e1": 'K', "h1": 'R', "g1": 'N', "e8": 'k'}, "e1g1", "", "", false},
		{"white queenside blocked at b1", map[string]byte{"e1": 'K', "a1": 'R', "b1": 'N', "e8": 'k'}, "e1c1", "", "", false},
		{"black kingside transit attacked", map[string]byte{"e8": 'k', "h8": 'r', "e1": 'K', "f1": 'R'}, "e8g8", "", "", false},
		{"black queenside destination attacked", map[string]byte{"e8": 'k', "a8": 'r', "e1": 'K', "c1": 'R'}, "e8c8", "", "", false},
		{"white out of check", map[string]byte{"e1": 'K', "h1": 'R', "e8": 'k', "e5": 'r'}, "e1g1", "", "", false},
		{"queenside b-file attack allowed", map[string]byte{"e1": 'K', "a1": 'R', "e8": 'k', "b8": 'r'}, "e1c1", "a1", "d1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setup(t, tt.pieces)
			m := mv(t, tt.move)
			legal := labels(b.LegalMoves(m.Initial))[tt.move]
			if legal != tt.wantLegal {
				t.Fatalf("castling %s legal = %v, want %v", tt.move, legal, tt.wantLegal)
			}
			if !tt.wantLegal {
				return
			}
			fx, err := b.ApplyMove(m, core.NoKind)
			if err != nil {
				t.Fatal(err)
			}
			if !fx.Castled {
				t.Error("effects.Castled = false")
			}
			if b.At(sq(t, tt.rookFrom)) != nil {
				t.Errorf("rook still on %s", tt.rookFrom)
			}
			if r := b.At(sq(t, tt.rookTo)); r == nil || r.Kind() != core.Rook || !r.HasMoved() {
				t.Errorf("%s holds %v, want moved rook", tt.rookTo, r)
			}
		})
	}
}

func TestCastlingLostAfterKingOrRookMoves(t *testing.T) {
	b := setup(t, map[string]byte{"e1": 'K', "h1": 'R', "a1": 'R', "e8": 'k', "a7": 'p'})
	play(t, b, "h1h2", "a7a6", "h2h1", "a6a5")
	got := labels(b.LegalMoves(sq(t, "e1")))
	if got["e1g1"] {
		t.Error("kingside castling allowed after rook moved")
	}
	if !got["e1c1"] {
		t.Error("queenside castling lost although a1 rook never moved")
	}

	play(t, b, "e1e2", "a5a4", "e2e1", "a4a3")
	if labels(b.LegalMoves(sq(t, "e1")))["e1c1"] {
		t.Error("queenside castling allowed after king moved")
	}
}

func TestEnPassant(t *testing.T) {
	b := New()
	play(t, b, "e2e4", "a7a6", "e4e5", "d7d5")

	e5 := sq(t, "e5")
	if !labels(b.LegalMoves(e5))["e5d6"] {
		t.Fatal("en passant e5d6 not offered right after d7d5")
	}
	fx, err := b.ApplyMove(mv(t, "e5d6"), core.NoKind)
	if err != nil {
		t.Fatal(err)
	}
	if !fx.EnPassant || !fx.Capture {
		t.Errorf("effects = %+v, want en passant capture", fx)
	}
	if b.At(sq(t, "d5")) != nil {
		t.Error("captured pawn still on d5")
	}
}

func TestEnPassantExpires(t *testing.T) {
	b := New()
	play(t, b, "e2e4", "a7a6", "e4e5", "d7d5", "h2h3", "h7h6")
	if labels(b.LegalMoves(sq(t, "e5")))["e5d6"] {
		t.Error("en passant still offered one ply later")
	}
}

func TestEnPassantNeedsDoubleStep(t *testing.T) {
	b := New()
	play(t, b, "e2e4", "d7d6", "e4e5", "d6d5")
	if labels(b.LegalMoves(sq(t, "e5")))["e5d6"] {
		t.Error("en passant offered after two single steps")
	}
}

func TestPromotion(t *testing.T) {
	tests := []struct {
		name  string
		promo core.PieceKind
		want  core.PieceKind
	}{
		{"default queen", core.NoKind, core.Queen},
		{"knight", core.Knight, core.Knight},
		{"rook", core.Rook, core.Rook},
		{"bishop", core.Bishop, core.Bishop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setup(t, map[string]byte{"a7": 'P', "e1": 'K', "h8": 'k'})
			fx, err := b.ApplyMove(mv(t, "a7a8"), tt.promo)
			if err != nil {
				t.Fatal(err)
			}
			if !fx.Promoted || fx.PromotedTo != tt.want {
				t.Errorf("effects = %+v, want promotion to %s", fx, tt.want)
			}
			if p := b.At(sq(t, "a8")); p == nil || p.Kind() != tt.want || p.Color() != core.ColorWhite {
				t.Errorf("a8 holds %v, want white %s", p, tt.want)
			}
		})
	}
}

func TestPromotionRejectsKing(t *testing.T) {
	b := setup(t, map[string]byte{"h2": 'p', "e1": 'K', "a8": 'k'})
	if _, err := b.ApplyMove(mv(t, "h2h1"), core.King); !errors.Is(err, core.ErrIllegalMove) {
		t.Fatalf("promotion to king error = %v, want ErrIllegalMove", err)
	}
	if _, err := b.ApplyMove(mv(t, "h2h1"), core.NoKind); err != nil {
		t.Fatal(err)
	}
	if p := b.At(sq(t, "h1")); p == nil || p.Kind() != core.Queen || p.Color() != core.ColorBlack {
		t.Errorf("h1 holds %v, want black queen", p)
	}
}

func TestCheckmateAndStalemate(t *testing.T) {
	t.Run("fool's mate", func(t *testing.T) {
		b := New()
		play(t, b, "f2f3", "e7e5", "g2g4", "d8h4")
		if !b.IsInCheck(core.ColorWhite) {
			t.Error("white not in check")
		}
		if b.HasAnyLegalMove(core.ColorWhite) {
			t.Error("white still has legal moves")
		}
	})

	t.Run("stalemate", func(t *testing.T) {
		b := setup(t, map[string]byte{"a8": 'k', "b6": 'Q', "c1": 'K'})
		if b.IsInCheck(core.ColorBlack) {
			t.Error("black in check")
		}
		if b.HasAnyLegalMove(core.ColorBlack) {
			t.Error("black has legal moves")
		}
	})

	t.Run("check with escape", func(t *testing.T) {
		b := setup(t, map[string]byte{"e8": 'k', "e1": 'R', "a1": 'K'})
		if !b.IsInCheck(core.ColorBlack) || !b.HasAnyLegalMove(core.ColorBlack) {
			t.Error("want check with an escape")
		}
	})
}

func TestEqualIgnoresMoveCount(t *testing.T) {
	a := New()
	b := New()
	play(t, b, "g1f3", "g8f6", "f3g1", "f6g8")
	if !a.Equal(b) {
		t.Error("boards with the same placement are not equal")
	}
	if a.Key() != b.Key() {
		t.Error("equal boards have different keys")
	}
	play(t, b, "e2e4")
	if a.Equal(b) {
		t.Error("different placements compare equal")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := New()
	c := a.Clone()
	play(t, c, "e2e4")
	if a.At(sq(t, "e4")) != nil || a.MoveCount() != 0 {
		t.Error("mutating a clone changed the original")
	}
}

func TestToASCII(t *testing.T) {
	want := "  a b c d e f g h\n" +
		"8 r n b q k b n r  8\n" +
		"7 p p p p p p p p  7\n" +
		"6 . . . . . . . .  6\n" +
		"5 . . . . . . . .  5\n" +
		"4 . . . . . . . .  4\n" +
		"3 . . . . . . . .  3\n" +
		"2 P P P P P P P P  2\n" +
		"1 R N B Q K B N R  1\n" +
		"  a b c d e f g h"
	if diff := cmp.Diff(want, New().ToASCII()); diff != "" {
		t.Errorf("ToASCII mismatch (-want +got):\n%s", diff)
	}
}
