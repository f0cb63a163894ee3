// Package logging configures the process-wide apex logger for the binaries.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/discard"
	"github.com/apex/log/handlers/text"
	"golang.org/x/term"
)

// Setup installs a handler writing to w at the named level ("debug", "info",
// "warn", "error", "fatal" or "off"). Terminals get the colored cli handler,
// anything else the text handler.
func Setup(w io.Writer, level string) error {
	if level == "off" {
		log.SetHandler(discard.Default)
		return nil
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	if IsTerminal(w) {
		log.SetHandler(cli.New(w))
	} else {
		log.SetHandler(text.New(w))
	}
	log.SetLevel(lvl)
	return nil
}

// IsTerminal reports whether w is a file attached to a terminal
func IsTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
