package game

import (
	"chessrules/internal/board"
	"chessrules/internal/core"
)

// RenderState is the read-only projection a presentation layer draws from
type RenderState struct {
	Grid       [board.Rows]string
	Selected   *board.Square
	LegalMoves []board.Move // moves of the selected piece
	LastMove   *board.Move
	Hovered    *board.Square
	Turn       core.Color
	State      core.State
	MoveCount  int
	Repetition Repetition
	Message    string
}

func (g *Game) RenderState() RenderState {
	rs := RenderState{
		Grid:       g.board.Grid(),
		Turn:       g.turn,
		State:      g.state,
		MoveCount:  g.board.MoveCount(),
		Repetition: g.repetition,
		Message:    g.Message(),
	}
	if g.selected != nil {
		sel := *g.selected
		rs.Selected = &sel
		rs.LegalMoves = g.board.LegalMoves(sel)
	}
	if last, ok := g.board.LastMove(); ok {
		rs.LastMove = &last
	}
	if g.hovered != nil {
		h := *g.hovered
		rs.Hovered = &h
	}
	return rs
}
