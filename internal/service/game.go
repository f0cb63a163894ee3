package service

import (
	"context"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/game"
	"chessrules/internal/storage"

	"github.com/apex/log"
)

// GameView is a consistent copy of one session taken under its lock
type GameView struct {
	ID         string
	Policy     game.RepetitionPolicy
	Render     game.RenderState
	LastResult *game.MoveResult
}

// Selection is the outcome of grabbing a piece
type Selection struct {
	Square board.Square
	Piece  string // "White knight"
	Moves  []board.Move
}

func viewOf(id string, g *game.Game) GameView {
	v := GameView{
		ID:     id,
		Policy: g.Policy(),
		Render: g.RenderState(),
	}
	if r := g.LastResult(); r != nil {
		res := *r
		v.LastResult = &res
	}
	return v
}

// GetGame returns the current view of a session
func (s *Service) GetGame(gameID string) (GameView, error) {
	var v GameView
	err := s.withGame(gameID, func(g *game.Game) error {
		v = viewOf(gameID, g)
		return nil
	})
	return v, err
}

// Select grabs the piece on the labelled square for the side to move
func (s *Service) Select(gameID, label string) (Selection, error) {
	sq, err := board.ParseSquare(label)
	if err != nil {
		return Selection{}, err
	}

	var sel Selection
	err = s.withGame(gameID, func(g *game.Game) error {
		moves, err := g.Grab(sq)
		if err != nil {
			return err
		}
		p, _ := g.Select(sq.Row(), sq.Col())
		sel = Selection{Square: sq, Piece: p.String(), Moves: moves}
		return nil
	})
	return sel, err
}

// Release clears the selection of a session
func (s *Service) Release(gameID string) error {
	return s.withGame(gameID, func(g *game.Game) error {
		g.Release()
		return nil
	})
}

// Hover records the hovered square; an empty label clears it
func (s *Service) Hover(gameID, label string) error {
	var sq *board.Square
	if label != "" {
		parsed, err := board.ParseSquare(label)
		if err != nil {
			return err
		}
		sq = &parsed
	}
	return s.withGame(gameID, func(g *game.Game) error {
		g.Hover(sq)
		return nil
	})
}

// MakeMove parses and applies a coordinate-notation move ("e2e4", "e7e8n")
func (s *Service) MakeMove(gameID, text string) (*game.MoveResult, GameView, error) {
	m, promo, err := board.ParseMove(text)
	if err != nil {
		return nil, GameView{}, err
	}

	var (
		result *game.MoveResult
		view   GameView
	)
	err = s.withGame(gameID, func(g *game.Game) error {
		res, err := g.AttemptMove(m, promo)
		if err != nil {
			return err
		}
		result = res
		view = viewOf(gameID, g)
		s.journalMove(gameID, g, res)
		s.waiter.NotifyGame(gameID, res.MoveNumber)
		return nil
	})
	if err != nil {
		return nil, GameView{}, err
	}

	if result.GameState.IsTerminal() {
		log.WithFields(log.Fields{
			"game_id": gameID,
			"state":   result.GameState.String(),
			"moves":   result.MoveNumber,
		}).Info(result.Message)
	}
	return result, view, nil
}

// journalMove writes the move and any terminal state; caller holds the session lock
func (s *Service) journalMove(gameID string, g *game.Game, res *game.MoveResult) {
	if s.store == nil {
		return
	}
	now := time.Now().UTC()
	record := storage.MoveRecord{
		GameID:             gameID,
		MoveNumber:         res.MoveNumber,
		MoveUCI:            res.Move.String(),
		PlacementAfterMove: g.Board().Key(),
		PlayerColor:        res.PlayerColor.String(),
		Capture:            res.Effects.Capture,
		Castled:            res.Effects.Castled,
		EnPassant:          res.Effects.EnPassant,
		MoveTimeUTC:        now,
	}
	if res.Effects.Promoted {
		record.PromotedTo = res.Effects.PromotedTo.String()
	}
	if err := s.store.RecordMove(record); err != nil {
		log.WithError(err).WithField("game_id", gameID).Warn("failed to journal move")
	}
	if res.GameState.IsTerminal() {
		if err := s.store.RecordGameEnd(gameID, res.GameState.String(), now); err != nil {
			log.WithError(err).WithField("game_id", gameID).Warn("failed to journal game end")
		}
	}
}

// Reset returns a session to its initial position
func (s *Service) Reset(gameID string) (GameView, error) {
	var view GameView
	err := s.withGame(gameID, func(g *game.Game) error {
		g.Reset()
		view = viewOf(gameID, g)
		if s.store != nil {
			if err := s.store.ResetGame(gameID); err != nil {
				log.WithError(err).WithField("game_id", gameID).Warn("failed to journal reset")
			}
		}
		s.waiter.NotifyGame(gameID, g.MoveCount())
		return nil
	})
	if err == nil {
		log.WithField("game_id", gameID).Info("game reset")
	}
	return view, err
}

// History returns the snapshots of the repetition window, oldest first
func (s *Service) History(gameID string) ([]game.Snapshot, game.RepetitionPolicy, error) {
	var (
		snaps  []game.Snapshot
		policy game.RepetitionPolicy
	)
	err := s.withGame(gameID, func(g *game.Game) error {
		snaps = g.History()
		policy = g.Policy()
		return nil
	})
	return snaps, policy, err
}

// Board returns a copy of the session's current position
func (s *Service) Board(gameID string) (*board.Board, error) {
	var b *board.Board
	err := s.withGame(gameID, func(g *game.Game) error {
		b = g.Board()
		return nil
	})
	return b, err
}

// WaitForChange blocks until the session's move count differs from
// moveCount, the wait times out, the session is removed or ctx is done, and
// then returns the current view.
func (s *Service) WaitForChange(ctx context.Context, gameID string, moveCount int) (GameView, error) {
	var (
		ready <-chan struct{}
		view  GameView
	)
	err := s.withGame(gameID, func(g *game.Game) error {
		if g.MoveCount() != moveCount {
			view = viewOf(gameID, g)
			return nil
		}
		ready = s.waiter.RegisterWait(ctx, gameID, moveCount)
		return nil
	})
	if err != nil || ready == nil {
		return view, err
	}

	select {
	case <-ready:
	case <-ctx.Done():
	}
	return s.GetGame(gameID)
}
