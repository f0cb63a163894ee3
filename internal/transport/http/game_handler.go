package http

import (
	"strconv"

	"chessrules/internal/core"
	"chessrules/internal/game"

	"github.com/gofiber/fiber/v2"
)

func invalidGameID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "invalid game ID format",
		Code:    core.ErrCodeInvalidRequest,
		Details: "game ID must be a valid UUID",
	})
}

// CreateGame starts a session, optionally with a repetition policy
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, err := validatedBody[core.CreateGameRequest](c)
	if err != nil {
		return err
	}

	policy := h.svc.DefaultPolicy()
	if req.Repetition != "" {
		if policy, err = game.ParsePolicy(req.Repetition); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error:   "invalid repetition policy",
				Code:    core.ErrCodeInvalidRequest,
				Details: err.Error(),
			})
		}
	}

	id, err := h.svc.CreateGame(policy)
	if err != nil {
		return sendError(c, "failed to create game", err)
	}

	view, err := h.svc.GetGame(id)
	if err != nil {
		return sendError(c, "failed to create game", err)
	}
	return c.Status(fiber.StatusCreated).JSON(buildGameResponse(view))
}

// GetGame returns the render state; with wait=true it long-polls for a change
// of the move count given in moveCount
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	id := c.Params("gameId")
	if !isValidUUID(id) {
		return invalidGameID(c)
	}

	if c.Query("wait", "false") != "true" {
		view, err := h.svc.GetGame(id)
		if err != nil {
			return sendError(c, "game not found", err)
		}
		return c.JSON(buildGameResponse(view))
	}

	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil {
		moveCount = -1
	}

	view, err := h.svc.WaitForChange(c.Context(), id, moveCount)
	if err != nil {
		return sendError(c, "game not found", err)
	}
	return c.JSON(buildGameResponse(view))
}

// SelectPiece grabs the piece on a square and returns its legal moves
func (h *HTTPHandler) SelectPiece(c *fiber.Ctx) error {
	id := c.Params("gameId")
	if !isValidUUID(id) {
		return invalidGameID(c)
	}
	req, err := validatedBody[core.SquareRequest](c)
	if err != nil {
		return err
	}

	sel, err := h.svc.Select(id, req.Square)
	if err != nil {
		return sendError(c, "cannot select piece", err)
	}
	return c.JSON(core.SelectResponse{
		Square:     sel.Square.Label(),
		Piece:      sel.Piece,
		LegalMoves: moveStrings(sel.Moves),
	})
}

// HoverSquare records the square under the pointer
func (h *HTTPHandler) HoverSquare(c *fiber.Ctx) error {
	id := c.Params("gameId")
	if !isValidUUID(id) {
		return invalidGameID(c)
	}
	req, err := validatedBody[core.HoverRequest](c)
	if err != nil {
		return err
	}

	if err := h.svc.Hover(id, req.Square); err != nil {
		return sendError(c, "cannot hover square", err)
	}
	view, err := h.svc.GetGame(id)
	if err != nil {
		return sendError(c, "game not found", err)
	}
	return c.JSON(buildGameResponse(view))
}

// MakeMove submits a move in coordinate notation
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	id := c.Params("gameId")
	if !isValidUUID(id) {
		return invalidGameID(c)
	}
	req, err := validatedBody[core.MoveRequest](c)
	if err != nil {
		return err
	}

	_, view, err := h.svc.MakeMove(id, req.Move)
	if err != nil {
		return sendError(c, "invalid move", err)
	}
	return c.JSON(buildGameResponse(view))
}

// ResetGame returns the session to its initial position
func (h *HTTPHandler) ResetGame(c *fiber.Ctx) error {
	id := c.Params("gameId")
	if !isValidUUID(id) {
		return invalidGameID(c)
	}

	view, err := h.svc.Reset(id)
	if err != nil {
		return sendError(c, "game not found", err)
	}
	return c.JSON(buildGameResponse(view))
}

// DeleteGame ends and cleans up a session
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	id := c.Params("gameId")
	if !isValidUUID(id) {
		return invalidGameID(c)
	}

	if err := h.svc.DeleteGame(id); err != nil {
		return sendError(c, "game not found", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetBoard returns the ASCII board and placement key
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	id := c.Params("gameId")
	if !isValidUUID(id) {
		return invalidGameID(c)
	}

	b, err := h.svc.Board(id)
	if err != nil {
		return sendError(c, "game not found", err)
	}
	return c.JSON(core.BoardResponse{
		Key:   b.Key(),
		Board: b.ToASCII(),
	})
}

// GetHistory returns the snapshots of the repetition window
func (h *HTTPHandler) GetHistory(c *fiber.Ctx) error {
	id := c.Params("gameId")
	if !isValidUUID(id) {
		return invalidGameID(c)
	}

	snaps, policy, err := h.svc.History(id)
	if err != nil {
		return sendError(c, "game not found", err)
	}

	resp := core.HistoryResponse{
		GameID:    id,
		Policy:    policy.String(),
		Snapshots: make([]core.SnapshotInfo, 0, len(snaps)),
	}
	for _, s := range snaps {
		resp.Snapshots = append(resp.Snapshots, core.SnapshotInfo{
			MoveNumber: s.MoveNumber,
			Key:        s.Board.Key(),
		})
	}
	return c.JSON(resp)
}
