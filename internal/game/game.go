// Package game orchestrates a chess board with turn alternation, the
// snapshot history used for repetition detection and end-of-game states.
// A Game is not safe for concurrent use; callers serialize access.
package game

import (
	"fmt"

	"chessrules/internal/board"
	"chessrules/internal/core"

	"github.com/apex/log"
)

// MoveResult tracks the outcome of a move
type MoveResult struct {
	Move        board.Move    `json:"-"`
	PlayerColor core.Color    `json:"playerColor"`
	Effects     board.Effects `json:"effects"`
	MoveNumber  int           `json:"moveNumber"`
	GameState   core.State    `json:"gameState"`
	Message     string        `json:"message,omitempty"`
}

type config struct {
	policy  RepetitionPolicy
	initial *board.Board
	turn    core.Color
}

type Option func(*config)

// WithRepetitionPolicy selects the threefold repetition detector
func WithRepetitionPolicy(p RepetitionPolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithPosition starts the game (and every reset) from a composed position
func WithPosition(b *board.Board, turn core.Color) Option {
	return func(c *config) {
		c.initial = b.Clone()
		c.turn = turn
	}
}

type Game struct {
	cfg         config
	board       *board.Board
	history     *History
	occurrences *occurrenceCounter
	turn        core.Color
	state       core.State
	repetition  Repetition
	selected    *board.Square
	hovered     *board.Square
	lastResult  *MoveResult
}

func New(opts ...Option) *Game {
	cfg := config{policy: PolicyWindow, turn: core.ColorWhite}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newGame(cfg)
}

func newGame(cfg config) *Game {
	b := board.New()
	if cfg.initial != nil {
		b = cfg.initial.Clone()
	}
	g := &Game{
		cfg:         cfg,
		board:       b,
		history:     NewHistory(HistoryLimit),
		occurrences: newOccurrenceCounter(),
		turn:        cfg.turn,
	}
	g.record()
	g.evaluate()
	return g
}

// Reset discards board, history and flags and returns to the initial position.
// The fresh state is built first and swapped in whole.
func (g *Game) Reset() {
	*g = *newGame(g.cfg)
}

func (g *Game) Policy() RepetitionPolicy { return g.cfg.policy }
func (g *Game) Turn() core.Color         { return g.turn }
func (g *Game) State() core.State        { return g.state }
func (g *Game) Repetition() Repetition   { return g.repetition }
func (g *Game) LastResult() *MoveResult  { return g.lastResult }
func (g *Game) MoveCount() int           { return g.board.MoveCount() }

// Board returns a copy of the current position
func (g *Game) Board() *board.Board {
	return g.board.Clone()
}

// History returns the snapshots of the repetition window, oldest first
func (g *Game) History() []Snapshot {
	return g.history.Snapshots()
}

// Select looks up the piece on (row, col) without changing any state
func (g *Game) Select(row, col int) (*board.Piece, error) {
	sq, err := board.NewSquare(row, col)
	if err != nil {
		return nil, err
	}
	return g.board.At(sq), nil
}

// Grab marks the piece on sq as selected and returns its legal moves
func (g *Game) Grab(sq board.Square) ([]board.Move, error) {
	if g.state.IsTerminal() {
		return nil, fmt.Errorf("%w: %s", core.ErrGameOver, g.state)
	}
	p := g.board.At(sq)
	if p == nil {
		return nil, fmt.Errorf("%w: %s is empty", core.ErrNoPieceSelected, sq)
	}
	if p.Color() != g.turn {
		return nil, fmt.Errorf("%w: %s to move", core.ErrIllegalMove, g.turn.Name())
	}
	g.selected = &sq
	return g.board.LegalMoves(sq), nil
}

// Release clears the selection
func (g *Game) Release() {
	g.selected = nil
}

// Hover records the square under the pointer, nil clears it
func (g *Game) Hover(sq *board.Square) {
	if sq == nil {
		g.hovered = nil
		return
	}
	h := *sq
	g.hovered = &h
}

// MoveSelected moves the grabbed piece to target
func (g *Game) MoveSelected(target board.Square, promotion core.PieceKind) (*MoveResult, error) {
	if g.selected == nil {
		return nil, core.ErrNoPieceSelected
	}
	return g.AttemptMove(board.NewMove(*g.selected, target), promotion)
}

// AttemptMove validates and applies m for the side to move. On error the
// game is unchanged.
func (g *Game) AttemptMove(m board.Move, promotion core.PieceKind) (*MoveResult, error) {
	if g.state.IsTerminal() {
		return nil, fmt.Errorf("%w: %s", core.ErrGameOver, g.state)
	}
	p := g.board.At(m.Initial)
	if p == nil {
		return nil, fmt.Errorf("%w: %s is empty", core.ErrNoPieceSelected, m.Initial)
	}
	if p.Color() != g.turn {
		return nil, fmt.Errorf("%w: %s to move", core.ErrIllegalMove, g.turn.Name())
	}

	fx, err := g.board.ApplyMove(m, promotion)
	if err != nil {
		return nil, err
	}

	mover := g.turn
	g.turn = core.OppositeColor(g.turn)
	g.selected = nil
	g.record()
	g.evaluate()

	g.lastResult = &MoveResult{
		Move:        m,
		PlayerColor: mover,
		Effects:     fx,
		MoveNumber:  g.board.MoveCount(),
		GameState:   g.state,
		Message:     g.Message(),
	}
	return g.lastResult, nil
}

// record appends the current position to the history and runs repetition detection
func (g *Game) record() {
	g.history.Push(g.board)

	var rep Repetition
	if g.cfg.policy == PolicyOccurrence {
		rep = g.occurrences.record(g.board)
	} else {
		rep = g.history.Threefold()
	}
	if rep.Detected && !g.repetition.Detected {
		g.repetition = rep
		log.WithFields(log.Fields{
			"policy": g.cfg.policy.String(),
			"moves":  fmt.Sprintf("%d, %d, %d", rep.Moves[0], rep.Moves[1], rep.Moves[2]),
		}).Info("threefold repetition detected")
	}
}

// evaluate derives the state for the side to move
func (g *Game) evaluate() {
	inCheck := g.board.IsInCheck(g.turn)
	canMove := g.board.HasAnyLegalMove(g.turn)

	switch {
	case inCheck && !canMove:
		g.state = core.StateCheckmate
	case !canMove:
		g.state = core.StateStalemate
	case g.repetition.Detected:
		g.state = core.StateDrawn
	case inCheck:
		g.state = core.StateCheck
	default:
		g.state = core.StateInProgress
	}
}

// Message returns the end-of-game message, empty while the game is running
func (g *Game) Message() string {
	switch g.state {
	case core.StateCheckmate:
		return fmt.Sprintf("Checkmate! %s wins.", core.OppositeColor(g.turn).Name())
	case core.StateStalemate:
		return "Stalemate! The game is drawn."
	case core.StateDrawn:
		m := g.repetition.Moves
		return fmt.Sprintf("Threefold repetition on moves %d, %d, %d. The game is drawn.", m[0], m[1], m[2])
	default:
		return ""
	}
}
