package game

import (
	"fmt"
	"strings"

	"chessrules/internal/board"
)

const (
	// HistoryLimit is the number of post-move snapshots kept for the
	// repetition window: 8 plies span three occurrences 4 plies apart
	HistoryLimit = 9

	windowStride = 4
)

// RepetitionPolicy selects how threefold repetition is detected
type RepetitionPolicy int

const (
	// PolicyWindow compares snapshots 0, 4 and 8 of the 9-slot window
	PolicyWindow RepetitionPolicy = iota
	// PolicyOccurrence counts every occurrence of a position over the game
	PolicyOccurrence
)

func (p RepetitionPolicy) String() string {
	if p == PolicyOccurrence {
		return "occurrence"
	}
	return "window"
}

// ParsePolicy accepts "window", "occurrence" or the empty string (window)
func ParsePolicy(s string) (RepetitionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "window":
		return PolicyWindow, nil
	case "occurrence":
		return PolicyOccurrence, nil
	default:
		return PolicyWindow, fmt.Errorf("unknown repetition policy %q (use: window, occurrence)", s)
	}
}

// Repetition reports a detected threefold repetition and the move numbers of
// the three occurrences
type Repetition struct {
	Detected bool   `json:"detected"`
	Moves    [3]int `json:"moves"`
}

// Snapshot is a board copy taken after a completed move
type Snapshot struct {
	Board      *board.Board
	MoveNumber int
}

// History is a bounded FIFO of board snapshots
type History struct {
	limit     int
	snapshots []Snapshot
}

func NewHistory(limit int) *History {
	return &History{
		limit:     limit,
		snapshots: make([]Snapshot, 0, limit),
	}
}

// Push records a copy of b, evicting the oldest snapshot beyond the limit
func (h *History) Push(b *board.Board) {
	if len(h.snapshots) >= h.limit {
		copy(h.snapshots, h.snapshots[1:])
		h.snapshots = h.snapshots[:len(h.snapshots)-1]
	}
	h.snapshots = append(h.snapshots, Snapshot{Board: b.Clone(), MoveNumber: b.MoveCount()})
}

func (h *History) Len() int {
	return len(h.snapshots)
}

// Snapshots returns the recorded snapshots, oldest first
func (h *History) Snapshots() []Snapshot {
	out := make([]Snapshot, len(h.snapshots))
	copy(out, h.snapshots)
	return out
}

// Threefold checks a full window for snapshot[0] == snapshot[4] == snapshot[8]
func (h *History) Threefold() Repetition {
	if len(h.snapshots) < HistoryLimit {
		return Repetition{}
	}
	first := h.snapshots[0]
	mid := h.snapshots[windowStride]
	last := h.snapshots[2*windowStride]
	if !last.Board.Equal(mid.Board) || !mid.Board.Equal(first.Board) {
		return Repetition{}
	}
	return Repetition{
		Detected: true,
		Moves:    [3]int{first.MoveNumber, mid.MoveNumber, last.MoveNumber},
	}
}

// occurrenceCounter tracks every position key seen during the game
type occurrenceCounter struct {
	seen map[string][]int
}

func newOccurrenceCounter() *occurrenceCounter {
	return &occurrenceCounter{seen: make(map[string][]int)}
}

// record adds b and reports a repetition on the third occurrence
func (o *occurrenceCounter) record(b *board.Board) Repetition {
	key := b.Key()
	o.seen[key] = append(o.seen[key], b.MoveCount())
	moves := o.seen[key]
	if len(moves) < 3 {
		return Repetition{}
	}
	return Repetition{Detected: true, Moves: [3]int{moves[0], moves[1], moves[2]}}
}
