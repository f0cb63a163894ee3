package cli

import (
	"fmt"

	"chessrules/internal/cli"
	"chessrules/internal/game"
	"chessrules/internal/service"

	"github.com/apex/log"
)

// CLIHandler drives a single session from terminal commands
type CLIHandler struct {
	svc    *service.Service
	view   *cli.CLI
	policy game.RepetitionPolicy
	gameID string
}

func New(svc *service.Service, view *cli.CLI) *CLIHandler {
	return &CLIHandler{
		svc:    svc,
		view:   view,
		policy: svc.DefaultPolicy(),
	}
}

// GameID returns the active session, empty before the first game starts
func (h *CLIHandler) GameID() string {
	return h.gameID
}

// Run starts a game and processes commands until quit or input error
func (h *CLIHandler) Run() error {
	if !h.startGame() {
		return fmt.Errorf("could not start a game")
	}

	for {
		cmd, err := h.view.GetCommand(h.getPrompt())
		if err != nil {
			return err
		}

		// Process command - returns false to exit
		if !h.ProcessCommand(cmd) {
			return nil
		}
	}
}

func (h *CLIHandler) getPrompt() string {
	v, err := h.svc.GetGame(h.gameID)
	if err != nil || v.Render.State.IsTerminal() {
		return "> "
	}
	return h.view.Prompt(v.Render.Turn)
}

// ProcessCommand handles one command; returns false to exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:

	case cli.CmdNew:
		if h.gameID != "" {
			if err := h.svc.DeleteGame(h.gameID); err != nil {
				log.WithError(err).WithField("game_id", h.gameID).Warn("failed to close previous game")
			}
			h.gameID = ""
		}
		h.startGame()

	case cli.CmdReset:
		v, err := h.svc.Reset(h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage("Game reset.")
		h.view.DisplayBoard(v.Render)

	case cli.CmdMove:
		result, v, err := h.svc.MakeMove(h.gameID, cmd.Args[0])
		if err != nil {
			h.view.ShowError(fmt.Errorf("invalid move: %w", err))
			return true
		}
		h.view.ShowMove(result)
		h.view.DisplayBoard(v.Render)
		h.view.ShowStatus(v.Render)

	case cli.CmdMoves:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: moves <square>")
			return true
		}
		h.showMoves(cmd.Args[0])

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}

		theme, err := cli.ParseTheme(cmd.Args[0])
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		_ = h.view.SetTheme(theme)
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		if v, err := h.svc.GetGame(h.gameID); err == nil {
			h.view.DisplayBoard(v.Render)
		}

	case cli.CmdVerbose:
		verbose := h.view.ToggleVerbose()
		h.view.ShowMessage(fmt.Sprintf("Verbose mode: %t", verbose))

	case cli.CmdHistory:
		snaps, policy, err := h.svc.History(h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		v, _ := h.svc.GetGame(h.gameID)
		h.view.ShowHistory(policy, snaps, v.Render.Repetition)

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

// showMoves highlights the legal targets of a piece; the selection is
// released afterwards so it does not linger in the session
func (h *CLIHandler) showMoves(label string) {
	sel, err := h.svc.Select(h.gameID, label)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	defer func() {
		if err := h.svc.Release(h.gameID); err != nil {
			h.view.ShowError(err)
		}
	}()

	if v, err := h.svc.GetGame(h.gameID); err == nil {
		h.view.DisplayBoard(v.Render)
	}
	h.view.ShowLegalMoves(sel.Piece, sel.Square, sel.Moves)
}

func (h *CLIHandler) startGame() bool {
	id, err := h.svc.CreateGame(h.policy)
	if err != nil {
		h.view.ShowError(fmt.Errorf("could not start the game: %w", err))
		return false
	}
	h.gameID = id

	v, err := h.svc.GetGame(id)
	if err != nil {
		h.view.ShowError(err)
		return false
	}
	h.view.ShowMessage("Game started.")
	h.view.DisplayBoard(v.Render)
	return true
}
