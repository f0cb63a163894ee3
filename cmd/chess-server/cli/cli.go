// Package cli implements the `db` maintenance subcommands of chess-server.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"chessrules/internal/storage"
)

const timeLayout = "2006-01-02 15:04:05"

// Run is the entry point for the CLI mini-app
func Run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:], out)
	case "delete":
		return runDelete(args[1:], out)
	case "query":
		return runQuery(args[1:], out)
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

func openStore(path string) (*storage.Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path required")
	}
	store, err := storage.NewStore(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func runInit(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(out)
	path := fs.String("path", "", "Database file path (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintf(out, "Database initialized at: %s\n", *path)
	return nil
}

func runDelete(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(out)
	path := fs.String("path", "", "Database file path (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintf(out, "Database deleted: %s\n", *path)
	return nil
}

func runQuery(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	fs.SetOutput(out)
	path := fs.String("path", "", "Database file path (required)")
	gameID := fs.String("gameId", "", "Game ID to filter (optional, * for all)")
	state := fs.String("state", "", "End state to filter: checkmate, stalemate, drawn (optional, * for all)")
	moves := fs.Bool("moves", false, "List the journaled moves of the matching games")

	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	games, err := store.QueryGames(*gameID, *state)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(games) == 0 {
		fmt.Fprintln(out, "No games found")
		return nil
	}

	// Print results in tabular format
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tRepetition\tMoves\tResult\tStart Time\tEnd Time")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, g := range games {
		result := g.EndState
		if result == "" {
			result = "in progress"
		}
		end := "-"
		if g.EndTimeUTC.Valid {
			end = g.EndTimeUTC.Time.Format(timeLayout)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			g.GameID,
			g.RepetitionPolicy,
			g.MoveCount,
			result,
			g.StartTimeUTC.Format(timeLayout),
			end,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nFound %d game(s)\n", len(games))

	if *moves {
		for _, g := range games {
			if err := printMoves(out, store, g.GameID); err != nil {
				return err
			}
		}
	}
	return nil
}

func printMoves(out io.Writer, store *storage.Store, gameID string) error {
	records, err := store.QueryMoves(gameID)
	if err != nil {
		return fmt.Errorf("move query failed: %w", err)
	}

	fmt.Fprintf(out, "\nMoves of %s:\n", gameID)
	if len(records) == 0 {
		fmt.Fprintln(out, "  (none)")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tColor\tMove\tNotes\tPlacement")
	for _, m := range records {
		var notes []string
		if m.Capture {
			notes = append(notes, "capture")
		}
		if m.EnPassant {
			notes = append(notes, "en passant")
		}
		if m.Castled {
			notes = append(notes, "castle")
		}
		if m.PromotedTo != "" {
			notes = append(notes, "="+m.PromotedTo)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			m.MoveNumber, m.PlayerColor, m.MoveUCI, strings.Join(notes, ","), m.PlacementAfterMove)
	}
	return w.Flush()
}
