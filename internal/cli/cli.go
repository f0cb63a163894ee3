// Package cli is the terminal view: command parsing, themed board rendering
// and message output.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdReset
	CmdMove
	CmdMoves
	CmdColor
	CmdVerbose
	CmdHistory
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

// Terminal color codes
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
)

type themeColors struct {
	lightBg  string
	darkBg   string
	lastBg   string // squares of the last move
	targetBg string // legal targets of the selected piece
	white    string
	black    string
	reset    string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg:  "\033[48;5;230m", // Beige
		darkBg:   "\033[48;5;94m",  // Brown
		lastBg:   "\033[48;5;186m",
		targetBg: "\033[48;5;108m",
		white:    "\033[97m",
		black:    "\033[30m",
		reset:    Reset,
	},
	ThemeGreen: {
		lightBg:  "\033[48;5;157m", // Light green
		darkBg:   "\033[48;5;22m",  // Dark green
		lastBg:   "\033[48;5;185m",
		targetBg: "\033[48;5;67m",
		white:    "\033[97m",
		black:    "\033[30m",
		reset:    Reset,
	},
	ThemeGray: {
		lightBg:  "\033[48;5;251m", // Light gray
		darkBg:   "\033[48;5;240m", // Dark gray
		lastBg:   "\033[48;5;179m",
		targetBg: "\033[48;5;73m",
		white:    "\033[97m",
		black:    "\033[30m",
		reset:    Reset,
	},
}

// ParseTheme validates a theme name
func ParseTheme(name string) (ColorTheme, error) {
	theme := ColorTheme(strings.ToLower(name))
	if _, ok := themes[theme]; !ok {
		return ThemeOff, fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", name)
	}
	return theme, nil
}

// LineReader supplies input lines; *readline.Instance satisfies it
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// scanReader reads lines from a plain reader and echoes prompts to out
type scanReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewScanReader adapts r for input that is not an interactive terminal
func NewScanReader(r io.Reader, out io.Writer) LineReader {
	return &scanReader{scanner: bufio.NewScanner(r), out: out}
}

func (s *scanReader) SetPrompt(prompt string) {
	fmt.Fprint(s.out, prompt)
}

func (s *scanReader) Readline() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

type CLI struct {
	input   LineReader
	output  io.Writer
	theme   ColorTheme
	verbose bool
}

func New(input LineReader, output io.Writer) *CLI {
	return &CLI{
		input:  input,
		output: output,
		theme:  ThemeOff,
	}
}

// GetCommand shows prompt and reads one command; EOF reads as quit
func (c *CLI) GetCommand(prompt string) (*Command, error) {
	c.input.SetPrompt(prompt)
	line, err := c.input.Readline()
	if err == io.EOF {
		return &Command{Type: CmdQuit}, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseCommand(line), nil
}

// ParseCommand maps an input line to a command; unknown words are moves
func ParseCommand(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "new":
		return &Command{Type: CmdNew}
	case "reset":
		return &Command{Type: CmdReset}
	case "moves":
		return &Command{Type: CmdMoves, Args: args}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "verbose":
		return &Command{Type: CmdVerbose}
	case "history":
		return &Command{Type: CmdHistory}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	default:
		return &Command{Type: CmdMove, Args: []string{cmd}}
	}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) Theme() ColorTheme {
	return c.theme
}

func (c *CLI) ToggleVerbose() bool {
	c.verbose = !c.verbose
	return c.verbose
}

func (c *CLI) IsVerbose() bool {
	return c.verbose
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

// Prompt returns the prompt for the side to move, colored unless the theme is off
func (c *CLI) Prompt(turn core.Color) string {
	if c.theme == ThemeOff {
		return fmt.Sprintf("[%s]> ", turn)
	}
	color := Blue
	if turn == core.ColorBlack {
		color = Red
	}
	return fmt.Sprintf("%s[%s]%s%s>%s ", color, turn, Reset, Yellow, Reset)
}

// DisplayBoard draws the board of rs with the last move and the legal
// targets of the selected piece highlighted
func (c *CLI) DisplayBoard(rs game.RenderState) {
	theme := themes[c.theme]

	last := map[board.Square]bool{}
	if rs.LastMove != nil {
		last[rs.LastMove.Initial] = true
		last[rs.LastMove.Final] = true
	}
	targets := map[board.Square]bool{}
	for _, m := range rs.LegalMoves {
		targets[m.Final] = true
	}

	var sb strings.Builder
	sb.WriteString("\n  a b c d e f g h\n")

	for r := 0; r < board.Rows; r++ {
		sb.WriteString(fmt.Sprintf("%d ", board.Rows-r))
		for f := 0; f < board.Cols; f++ {
			piece := rs.Grid[r][f]
			sq := board.MustSquare(r, f)

			if c.theme == ThemeOff {
				switch {
				case targets[sq] && piece == '.':
					sb.WriteString("* ")
				case targets[sq]:
					sb.WriteString(fmt.Sprintf("%c*", piece))
				default:
					sb.WriteString(fmt.Sprintf("%c ", piece))
				}
				continue
			}

			bg := theme.darkBg
			if (r+f)%2 == 0 {
				bg = theme.lightBg
			}
			if last[sq] {
				bg = theme.lastBg
			}
			if targets[sq] {
				bg = theme.targetBg
			}

			if piece == '.' {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
			} else {
				color := theme.black
				if piece >= 'A' && piece <= 'Z' {
					color = theme.white
				}
				sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, color, piece, theme.reset))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", board.Rows-r))
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  <move>           - Make a move (e.g., e2e4, g1f3, e7e8n to underpromote)
  moves <square>   - Show the legal moves of the piece on a square
  new              - Start a new game
  reset            - Restart the current game
  history          - Show the positions kept for repetition detection
  color <theme>    - Set board color theme (off|brown|green|gray)
  verbose          - Toggle detailed move information
  quit/exit        - Exit the program
  help/?           - Show this help message`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Chess!")
	c.ShowMessage("Enter moves in coordinate notation, e.g. 'e2e4'. Type 'help' for commands.")
	c.ShowMessage("")
}

// ShowMove reports an applied move; effects are listed in verbose mode
func (c *CLI) ShowMove(result *game.MoveResult) {
	if !c.verbose {
		return
	}
	var notes []string
	fx := result.Effects
	if fx.EnPassant {
		notes = append(notes, "en passant")
	} else if fx.Capture {
		notes = append(notes, "captures "+fx.Captured.String())
	}
	if fx.Castled {
		notes = append(notes, "castles")
	}
	if fx.Promoted {
		notes = append(notes, "promotes to "+fx.PromotedTo.String())
	}
	line := fmt.Sprintf("%d. %s: %s", result.MoveNumber, result.PlayerColor.Name(), result.Move)
	if len(notes) > 0 {
		line += " (" + strings.Join(notes, ", ") + ")"
	}
	c.ShowMessage(line)
}

// ShowLegalMoves lists the targets of the piece on sq
func (c *CLI) ShowLegalMoves(piece string, sq board.Square, moves []board.Move) {
	if len(moves) == 0 {
		c.ShowMessage(fmt.Sprintf("%s on %s has no legal moves", piece, sq))
		return
	}
	targets := make([]string, 0, len(moves))
	for _, m := range moves {
		targets = append(targets, m.Final.Label())
	}
	c.ShowMessage(fmt.Sprintf("%s on %s: %s", piece, sq, strings.Join(targets, " ")))
}

// ShowHistory prints the positions of the repetition window
func (c *CLI) ShowHistory(policy game.RepetitionPolicy, snaps []game.Snapshot, rep game.Repetition) {
	c.ShowMessage(fmt.Sprintf("Repetition policy: %s", policy))
	for _, s := range snaps {
		c.ShowMessage(fmt.Sprintf("%3d  %s", s.MoveNumber, s.Board.Key()))
	}
	if rep.Detected {
		c.ShowMessage(fmt.Sprintf("Repeated on moves %d, %d, %d", rep.Moves[0], rep.Moves[1], rep.Moves[2]))
	}
}

// ShowStatus prints check and end-of-game information for rs
func (c *CLI) ShowStatus(rs game.RenderState) {
	switch {
	case rs.State == core.StateCheck:
		c.ShowMessage(fmt.Sprintf("%s is in check.", rs.Turn.Name()))
	case rs.State.IsTerminal():
		c.ShowMessage(fmt.Sprintf("\nGame Over: %s", rs.Message))
		c.ShowMessage("Start again with 'new' or 'reset'.")
	}
}
