// Package main runs a local two-player chess game in the terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"chessrules/internal/cli"
	"chessrules/internal/game"
	"chessrules/internal/logging"
	"chessrules/internal/service"
	"chessrules/internal/storage"
	clitransport "chessrules/internal/transport/cli"

	"github.com/apex/log"
	"github.com/chzyer/readline"
)

const shutdownTimeout = 2 * time.Second

// lineEditor maps readline's interrupt to end of input
type lineEditor struct {
	*readline.Instance
}

func (l lineEditor) Readline() (string, error) {
	line, err := l.Instance.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return line, err
}

func main() {
	var (
		themeName   = flag.String("theme", "", "Board theme: off, brown, green, gray (default brown on a terminal)")
		repetition  = flag.String("repetition", "window", "Threefold repetition detector: window or occurrence")
		storagePath = flag.String("storage-path", "", "Path to SQLite journal (disables journaling if empty)")
		historyFile = flag.String("history-file", ".chess_history", "Readline history file")
		logLevel    = flag.String("log-level", "warn", "Log level: debug, info, warn, error or off")
	)
	flag.Parse()

	if err := logging.Setup(os.Stderr, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	policy, err := game.ParsePolicy(*repetition)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	theme := cli.ThemeOff
	if logging.IsTerminal(os.Stdout) {
		theme = cli.ThemeBrown
	}
	if *themeName != "" {
		if theme, err = cli.ParseTheme(*themeName); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	opts := []service.Option{service.WithDefaultPolicy(policy)}
	if *storagePath != "" {
		store, err := storage.NewStore(*storagePath, false)
		if err != nil {
			log.WithError(err).Fatal("failed to open storage")
		}
		if err := store.InitDB(); err != nil {
			log.WithError(err).Fatal("failed to initialize schema")
		}
		opts = append(opts, service.WithStore(store))
	}
	svc := service.New(opts...)
	defer func() {
		if err := svc.Shutdown(shutdownTimeout); err != nil {
			log.WithError(err).Warn("shutdown incomplete")
		}
	}()

	var input cli.LineReader
	if logging.IsTerminal(os.Stdin) {
		rl, err := readline.NewEx(&readline.Config{
			HistoryFile:     *historyFile,
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			log.WithError(err).Fatal("failed to start line editor")
		}
		defer rl.Close()
		input = lineEditor{rl}
	} else {
		input = cli.NewScanReader(os.Stdin, os.Stdout)
	}

	view := cli.New(input, os.Stdout)
	_ = view.SetTheme(theme)
	handler := clitransport.New(svc, view)

	view.ShowWelcome()
	if err := handler.Run(); err != nil {
		log.WithError(err).Error("input error")
	}
}
