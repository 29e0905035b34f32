// Package cli is the terminal view: it reads commands and draws boards,
// move lists and results.
package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"minichess/internal/board"
	"minichess/internal/core"
	"minichess/internal/storage"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdResume
	CmdMove
	CmdMoves
	CmdPlay
	CmdUndo
	CmdColor
	CmdVerbose
	CmdHistory
	CmdEval
	CmdResults
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg   string
	darkBg    string
	highlight string
	white     string
	black     string
	reset     string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg:   "\033[48;5;230m", // Beige
		darkBg:    "\033[48;5;94m",  // Brown
		highlight: "\033[48;5;179m",
		white:     "\033[97m",
		black:     "\033[30m",
		reset:     "\033[0m",
	},
	ThemeGreen: {
		lightBg:   "\033[48;5;157m", // Light green
		darkBg:    "\033[48;5;22m",  // Dark green
		highlight: "\033[48;5;185m",
		white:     "\033[97m",
		black:     "\033[30m",
		reset:     "\033[0m",
	},
	ThemeGray: {
		lightBg:   "\033[48;5;251m", // Light gray
		darkBg:    "\033[48;5;240m", // Dark gray
		highlight: "\033[48;5;110m",
		white:     "\033[97m",
		black:     "\033[30m",
		reset:     "\033[0m",
	},
}

type CLI struct {
	input   LineReader
	output  io.Writer
	theme   ColorTheme
	unicode bool
	verbose bool
}

func New(input LineReader, output io.Writer) *CLI {
	return &CLI{
		input:  input,
		output: output,
		theme:  ThemeOff,
	}
}

// GetCommand prints the prompt and reads one command. End of input is
// reported as CmdQuit.
func (c *CLI) GetCommand(prompt string) (*Command, error) {
	line, err := c.input.ReadLine(prompt)
	if err == io.EOF {
		return &Command{Type: CmdQuit}, nil
	}
	if err != nil {
		return nil, err
	}

	input := strings.TrimSpace(line)
	if input == "" {
		return &Command{Type: CmdNone}, nil
	}

	return ParseCommand(input), nil
}

// ParseCommand maps one input line to a command, anything unrecognized is
// taken as a move
func ParseCommand(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "new":
		return &Command{Type: CmdNew, Args: args}
	case "resume":
		return &Command{Type: CmdResume, Args: args, Raw: input}
	case "moves":
		return &Command{Type: CmdMoves, Args: args}
	case "play":
		return &Command{Type: CmdPlay, Args: args}
	case "undo":
		return &Command{Type: CmdUndo, Args: args}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "verbose":
		return &Command{Type: CmdVerbose}
	case "history":
		return &Command{Type: CmdHistory}
	case "eval":
		return &Command{Type: CmdEval}
	case "results":
		return &Command{Type: CmdResults, Args: args}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	default:
		// Assume it's a move
		return &Command{Type: CmdMove, Args: []string{parts[0]}, Raw: input}
	}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) SetUnicode(on bool) {
	c.unicode = on
}

func (c *CLI) SetVerbose(on bool) {
	c.verbose = on
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

// ShowResponseError prints a processor error with its code
func (c *CLI) ShowResponseError(e *core.ErrorResponse) {
	if e == nil {
		c.ShowMessage("Error: unknown failure")
		return
	}
	c.ShowMessage(fmt.Sprintf("Error [%s]: %s", e.Code, e.Error))
}

// DisplayBoard draws the board from white's side. Squares listed in
// highlight get the theme's highlight background, or brackets without a theme.
func (c *CLI) DisplayBoard(b *board.Board, highlight ...string) {
	theme := themes[c.theme]
	marked := make(map[string]bool, len(highlight))
	for _, sq := range highlight {
		marked[sq] = true
	}

	var sb strings.Builder
	sb.WriteString("\n  a b c d e f g h\n")

	for r := 0; r < 8; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for f := 0; f < 8; f++ {
			piece := b[r][f]
			glyph := c.glyph(piece)
			square := board.Algebraic(r, f)

			if c.theme == ThemeOff {
				switch {
				case marked[square] && piece == board.Empty:
					sb.WriteString("* ")
				case marked[square]:
					sb.WriteString(glyph + "*")
				default:
					sb.WriteString(glyph + " ")
				}
				continue
			}

			bg := theme.darkBg
			if (r+f)%2 == 0 {
				bg = theme.lightBg
			}
			if marked[square] {
				bg = theme.highlight
			}

			if piece == board.Empty {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
			} else {
				color := theme.black
				if piece.IsWhite() {
					color = theme.white
				}
				sb.WriteString(fmt.Sprintf("%s%s%s %s", bg, color, glyph, theme.reset))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

func (c *CLI) glyph(p board.Piece) string {
	if p == board.Empty {
		if c.theme == ThemeOff {
			return "."
		}
		return " "
	}
	if c.unicode {
		return p.Symbol()
	}
	return string(p.Letter())
}

// DisplayPosition draws the board encoded in a FEN string
func (c *CLI) DisplayPosition(fen string, highlight ...string) {
	b, _, err := board.ParseFEN(fen)
	if err != nil {
		c.ShowError(err)
		return
	}
	c.DisplayBoard(&b, highlight...)
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new [mode]       - Start a new game (pvp|pvai|aivai), default from -mode
  resume <FEN>     - Resume from a specific board position
  <move>           - Make a move (e.g., e2e4, g1f3, e4xd5)
  moves <square>   - Show where the piece on a square can go
  play [count]     - Let the computer play up to count moves in a row
  undo [count]     - Undo last move(s), default 1
  history          - Show game move history and positions
  eval             - Show the static evaluation of the position
  results [state]  - List archived games (needs -results-db)
  color <theme>    - Set board color theme (off|brown|green|gray)
  verbose          - Toggle detailed move information
  quit/exit        - Exit the program
  help/?           - Show this help message

During any game:
  Press ENTER      - Execute computer move (when it's computer's turn)`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Chess!")
	c.ShowMessage("Commands: new, resume <FEN>, <move>, moves, undo, history, eval, quit/exit, help/?")
	c.ShowMessage("Example: 'resume 4k3/8/8/8/8/8/8/4K2R w - - 0 1' to start from a puzzle.")
	c.ShowMessage("Press ENTER to execute computer moves when it's computer's turn.")
	c.ShowMessage("")
}

func (c *CLI) ShowGameHistory(g core.GameResponse) {
	c.ShowMessage(fmt.Sprintf("Starting FEN: %s\n", g.StartFEN))

	if len(g.Moves) == 0 {
		c.ShowMessage("(no moves)")
	}

	moves := g.Moves
	if fields := strings.Fields(g.StartFEN); len(moves) > 0 && len(fields) > 1 && fields[1] == "b" {
		// Black moved first, pad the white column
		moves = append([]string{"..."}, moves...)
	}
	for i := 0; i < len(moves); i += 2 {
		moveNum := i/2 + 1
		white := moves[i]
		if i+1 < len(moves) {
			c.ShowMessage(fmt.Sprintf("%d. %s | %s", moveNum, white, moves[i+1]))
		} else {
			c.ShowMessage(fmt.Sprintf("%d. %s | ...", moveNum, white))
		}
	}
	c.ShowMessage(fmt.Sprintf("\nCurrent FEN: %s", g.FEN))
	c.ShowMessage(fmt.Sprintf("Game state: %s", g.State))
	c.ShowMessage(fmt.Sprintf("Clocks: white %s, black %s",
		formatClock(g.Clocks.WhiteMs), formatClock(g.Clocks.BlackMs)))
}

func (c *CLI) ShowComputerMove(info *core.MoveInfo) {
	if info == nil {
		return
	}
	if c.verbose {
		c.ShowMessage(fmt.Sprintf("Computer (%s): %s (depth=%d, score=%d, nodes=%d)",
			info.PlayerColor, info.Move, info.Depth, info.Score, info.Nodes))
	} else {
		c.ShowMessage(fmt.Sprintf("Computer (%s): %s", info.PlayerColor, info.Move))
	}
}

func (c *CLI) ShowHumanMove(info *core.MoveInfo) {
	if c.verbose && info != nil {
		c.ShowMessage(fmt.Sprintf("Your move: %s", info.Move))
	}
}

// ShowCheck warns the side to move
func (c *CLI) ShowCheck(g core.GameResponse) {
	if g.InCheck && g.State == core.StateActive.String() {
		c.ShowMessage(fmt.Sprintf("%s is in check!", colorName(g.Turn)))
	}
}

func (c *CLI) ShowGameOver(g core.GameResponse) {
	outcome := g.State
	if g.Winner != "" {
		outcome = fmt.Sprintf("%s wins by %s", colorName(g.Winner), g.State)
	}
	c.ShowMessage(fmt.Sprintf("\nGame Over: %s", outcome))
	c.ShowMessage("Start a new game with 'new' or 'resume'.")
}

func (c *CLI) ShowLegalMoves(resp core.LegalMovesResponse) {
	if len(resp.To) == 0 {
		c.ShowMessage(fmt.Sprintf("No moves from %s", resp.From))
		return
	}
	c.ShowMessage(fmt.Sprintf("%s: %s", resp.From, strings.Join(resp.To, " ")))
}

func (c *CLI) ShowEval(e core.EvalResponse) {
	c.ShowMessage(fmt.Sprintf("Evaluation: %+.2f (white %d moves, black %d moves)",
		float64(e.Score)/100, e.WhiteMoves, e.BlackMoves))
}

func (c *CLI) ShowResults(games []storage.GameRecord) {
	if len(games) == 0 {
		c.ShowMessage("No archived games")
		return
	}
	for _, g := range games {
		outcome := g.State
		if g.Winner != "" {
			outcome = fmt.Sprintf("%s wins by %s", colorName(g.Winner), g.State)
		}
		c.ShowMessage(fmt.Sprintf("%s  %s  %-5s %-6s %3d moves  %s",
			g.EndTimeUTC.Local().Format("2006-01-02 15:04"), shortID(g.GameID),
			g.Mode, g.Difficulty, g.MoveCount, outcome))
	}
}

func colorName(c string) string {
	switch c {
	case "w":
		return "White"
	case "b":
		return "Black"
	default:
		return c
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatClock(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
