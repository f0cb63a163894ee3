// Package main follows a chess-server session in the terminal, redrawing the
// board whenever a move lands.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"chessrules/internal/cli"
	"chessrules/internal/client"
	"chessrules/internal/core"
	"chessrules/internal/logging"

	"github.com/apex/log"
)

func main() {
	var (
		apiURL     = flag.String("api", "http://localhost:8080", "chess-server base URL")
		gameID     = flag.String("game", "", "Session to follow (creates one if empty)")
		repetition = flag.String("repetition", "", "Repetition policy for a created session: window or occurrence")
		themeName  = flag.String("theme", "", "Board theme: off, brown, green, gray (default brown on a terminal)")
		logLevel   = flag.String("log-level", "info", "Log level: debug, info, warn, error or off")
	)
	flag.Parse()

	if err := logging.Setup(os.Stderr, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	theme := cli.ThemeOff
	if logging.IsTerminal(os.Stdout) {
		theme = cli.ThemeBrown
	}
	if *themeName != "" {
		var err error
		if theme, err = cli.ParseTheme(*themeName); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	c := client.New(*apiURL)
	if _, err := c.Health(); err != nil {
		log.WithError(err).WithField("api", c.BaseURL()).Fatal("server unreachable")
	}

	var (
		resp *core.GameResponse
		err  error
	)
	if *gameID == "" {
		resp, err = c.CreateGame(*repetition)
		if err != nil {
			log.WithError(err).Fatal("failed to create game")
		}
		log.WithField("game_id", resp.GameID).Info("game created, play it through the API")
	} else {
		if resp, err = c.GetGame(*gameID); err != nil {
			log.WithError(err).WithField("game_id", *gameID).Fatal("failed to load game")
		}
	}

	view := cli.New(nil, os.Stdout)
	_ = view.SetTheme(theme)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	updates := make(chan *core.GameResponse)
	go follow(c, resp, updates)

	for {
		select {
		case <-quit:
			return
		case r, ok := <-updates:
			if !ok {
				return
			}
			rs, err := client.RenderState(r)
			if err != nil {
				log.WithError(err).Error("unreadable game state")
				return
			}
			view.ShowMessage(fmt.Sprintf("Game %s, move %d", r.GameID, r.MoveCount))
			view.DisplayBoard(rs)
			view.ShowStatus(rs)
		}
	}
}

// follow sends the initial state and every changed state until the session
// disappears or the server fails
func follow(c *client.Client, resp *core.GameResponse, updates chan<- *core.GameResponse) {
	defer close(updates)

	id := resp.GameID
	updates <- resp
	last := resp.MoveCount

	for {
		next, err := c.WaitForChange(id, last)
		if client.IsNotFound(err) {
			log.WithField("game_id", id).Info("game ended on the server")
			return
		}
		if err != nil {
			log.WithError(err).WithField("game_id", id).Error("poll failed")
			return
		}
		// A timed-out wait returns the unchanged state
		if next.MoveCount == last && next.State == resp.State {
			continue
		}
		resp, last = next, next.MoveCount
		updates <- next
	}
}
