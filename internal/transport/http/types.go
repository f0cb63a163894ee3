package http

import (
	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/service"
)

// buildGameResponse converts a session view to its wire form
func buildGameResponse(v service.GameView) core.GameResponse {
	rs := v.Render
	resp := core.GameResponse{
		GameID:    v.ID,
		Grid:      rs.Grid,
		Turn:      rs.Turn.String(),
		State:     rs.State.String(),
		MoveCount: rs.MoveCount,
		Policy:    v.Policy.String(),
		Message:   rs.Message,
	}
	if rs.Selected != nil {
		resp.Selected = rs.Selected.Label()
		resp.LegalMoves = moveStrings(rs.LegalMoves)
	}
	if rs.Hovered != nil {
		resp.Hovered = rs.Hovered.Label()
	}
	if rs.Repetition.Detected {
		resp.Repetition = &core.RepetitionInfo{Moves: rs.Repetition.Moves}
	}
	if v.LastResult != nil {
		resp.LastMove = moveInfo(v.LastResult)
	} else if rs.LastMove != nil {
		resp.LastMove = &core.MoveInfo{Move: rs.LastMove.String()}
	}
	return resp
}

func moveInfo(r *game.MoveResult) *core.MoveInfo {
	info := &core.MoveInfo{
		Move:        r.Move.String(),
		PlayerColor: r.PlayerColor.String(),
		MoveNumber:  r.MoveNumber,
		Capture:     r.Effects.Capture,
		Castled:     r.Effects.Castled,
		EnPassant:   r.Effects.EnPassant,
	}
	if r.Effects.Capture {
		info.Captured = r.Effects.Captured.String()
	}
	if r.Effects.Promoted {
		info.PromotedTo = r.Effects.PromotedTo.String()
	}
	return info
}

func moveStrings(moves []board.Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	return out
}
