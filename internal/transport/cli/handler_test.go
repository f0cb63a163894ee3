package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"chessrules/internal/cli"
	"chessrules/internal/core"
	"chessrules/internal/service"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
)

func TestMain(m *testing.M) {
	log.SetHandler(discard.Default)
	os.Exit(m.Run())
}

// runScript feeds input lines to a fresh handler and returns the output
func runScript(t *testing.T, input string) (*CLIHandler, *service.Service, string) {
	t.Helper()
	var out bytes.Buffer
	svc := service.New()
	view := cli.New(cli.NewScanReader(strings.NewReader(input), &out), &out)
	h := New(svc, view)
	if err := h.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return h, svc, out.String()
}

func TestRunPlaysMoves(t *testing.T) {
	h, svc, out := runScript(t, "e2e4\ne7e5\nquit\n")

	if !strings.Contains(out, "Game started.") {
		t.Errorf("missing start banner:\n%s", out)
	}
	if !strings.Contains(out, "[w]> ") || !strings.Contains(out, "[b]> ") {
		t.Errorf("prompts do not follow the turn:\n%s", out)
	}

	v, err := svc.GetGame(h.GameID())
	if err != nil {
		t.Fatalf("GetGame() error: %v", err)
	}
	if v.Render.MoveCount != 2 || v.Render.Turn != core.ColorWhite {
		t.Errorf("after script: moveCount %d turn %v, want 2 white", v.Render.MoveCount, v.Render.Turn)
	}
}

func TestRunEndsAtEOF(t *testing.T) {
	h, svc, _ := runScript(t, "e2e4\n")
	if svc.GameCount() != 1 || h.GameID() == "" {
		t.Errorf("GameCount() = %d, want the started game", svc.GameCount())
	}
}

func TestInvalidMoveReported(t *testing.T) {
	h, svc, out := runScript(t, "e2e5\ne4e5\nquit\n")

	if n := strings.Count(out, "Error: invalid move:"); n != 2 {
		t.Errorf("error count = %d, want 2:\n%s", n, out)
	}
	v, _ := svc.GetGame(h.GameID())
	if v.Render.MoveCount != 0 {
		t.Errorf("MoveCount = %d after rejected moves, want 0", v.Render.MoveCount)
	}
}

func TestMovesCommand(t *testing.T) {
	h, svc, out := runScript(t, "moves g1\nmoves e4\nmoves\nquit\n")

	if !strings.Contains(out, "White knight on g1:") {
		t.Errorf("missing knight moves:\n%s", out)
	}
	for _, target := range []string{"f3", "h3"} {
		if !strings.Contains(out, target) {
			t.Errorf("target %s not listed:\n%s", target, out)
		}
	}
	if !strings.Contains(out, "Usage: moves <square>") {
		t.Errorf("missing usage message:\n%s", out)
	}
	if !strings.Contains(out, "Error:") {
		t.Errorf("empty square selection not reported:\n%s", out)
	}

	v, _ := svc.GetGame(h.GameID())
	if v.Render.Selected != nil {
		t.Errorf("selection left at %v after moves command", v.Render.Selected)
	}
}

func TestRepetitionAndReset(t *testing.T) {
	script := strings.Join([]string{
		"g1f3", "g8f6", "f3g1", "f6g8",
		"g1f3", "g8f6", "f3g1", "f6g8",
		"history", "e2e4", "reset", "e2e4", "quit",
	}, "\n") + "\n"
	h, svc, out := runScript(t, script)

	if !strings.Contains(out, "Game Over: Threefold repetition on moves 0, 4, 8") {
		t.Errorf("missing draw message:\n%s", out)
	}
	if !strings.Contains(out, "Repeated on moves 0, 4, 8") {
		t.Errorf("history did not report the repetition:\n%s", out)
	}
	if !strings.Contains(out, "game is over") {
		t.Errorf("move after draw not rejected:\n%s", out)
	}
	if !strings.Contains(out, "Game reset.") {
		t.Errorf("missing reset confirmation:\n%s", out)
	}

	v, _ := svc.GetGame(h.GameID())
	if v.Render.State != core.StateInProgress || v.Render.MoveCount != 1 {
		t.Errorf("after reset: state %v moveCount %d, want in progress 1", v.Render.State, v.Render.MoveCount)
	}
}

func TestNewReplacesSession(t *testing.T) {
	var out bytes.Buffer
	svc := service.New()
	view := cli.New(cli.NewScanReader(strings.NewReader("e2e4\nnew\nquit\n"), &out), &out)
	h := New(svc, view)

	if err := h.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if svc.GameCount() != 1 {
		t.Errorf("GameCount() = %d, want previous session closed", svc.GameCount())
	}
	v, _ := svc.GetGame(h.GameID())
	if v.Render.MoveCount != 0 {
		t.Errorf("new game MoveCount = %d, want 0", v.Render.MoveCount)
	}
	if strings.Count(out.String(), "Game started.") != 2 {
		t.Errorf("expected two start banners:\n%s", out.String())
	}
}

func TestColorAndVerbose(t *testing.T) {
	_, _, out := runScript(t, "color purple\ncolor green\nverbose\ne2e4\nquit\n")

	if !strings.Contains(out, "Error: invalid theme: purple") {
		t.Errorf("bad theme not rejected:\n%s", out)
	}
	if !strings.Contains(out, "Color theme set to: green") {
		t.Errorf("theme not set:\n%s", out)
	}
	if !strings.Contains(out, "Verbose mode: true") {
		t.Errorf("verbose not toggled:\n%s", out)
	}
	if !strings.Contains(out, "1. White: e2e4") {
		t.Errorf("verbose move line missing:\n%s", out)
	}
}
