package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"minichess/internal/cli"
	"minichess/internal/core"
	"minichess/internal/processor"
	"minichess/internal/transport"
)

const (
	computerMoveTimeout = 2 * time.Minute
	defaultPlayCount    = 1
	maxPlayCount        = 500
	resultsLimit        = 20
)

type CLIHandler struct {
	proc     transport.Executor
	view     transport.View
	archive  transport.Archive
	settings core.GameSettings
	gameID   string
}

// New creates a handler; archive may be nil when results are not kept
func New(proc transport.Executor, view transport.View, settings core.GameSettings, archive transport.Archive) *CLIHandler {
	return &CLIHandler{
		proc:     proc,
		view:     view,
		archive:  archive,
		settings: settings,
	}
}

// Run is the main game loop, it returns when the input ends, the user quits
// or ctx is cancelled
func (h *CLIHandler) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		prompt := h.getPrompt()

		cmd, err := h.view.GetCommand(prompt)
		if err != nil {
			return err
		}

		// Process command - returns false to exit
		if !h.ProcessCommand(ctx, cmd) {
			return nil
		}
	}
	return ctx.Err()
}

// Start begins a game from fen (or the initial position) before the loop
func (h *CLIHandler) Start(ctx context.Context, fen string) {
	h.startGame(ctx, h.settings, fen)
}

// getPrompt shows whose turn it is while a game runs
func (h *CLIHandler) getPrompt() string {
	g, ok := h.current()
	if !ok || g.State != core.StateActive.String() {
		return "> "
	}
	if nextIsComputer(g) {
		h.view.ShowMessage("ENTER to execute computer move")
	}
	return fmt.Sprintf("[%s]> ", g.Turn)
}

// ProcessCommand handles one command, returns false to exit
func (h *CLIHandler) ProcessCommand(ctx context.Context, cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:
		// Empty command triggers computer move if it's computer's turn
		if g, ok := h.current(); ok && g.State == core.StateActive.String() && nextIsComputer(g) {
			h.playComputer(ctx, 1)
		}

	case cli.CmdNew:
		settings := h.settings
		if len(cmd.Args) > 0 {
			settings.Mode = core.Mode(strings.ToLower(cmd.Args[0]))
		}
		h.startGame(ctx, settings, "")

	case cli.CmdResume:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: resume <FEN string>")
			return true
		}
		h.startGame(ctx, h.settings, strings.Join(cmd.Args, " "))

	case cli.CmdMove:
		if strings.EqualFold(cmd.Args[0], processor.ComputerMove) {
			return h.ProcessCommand(ctx, &cli.Command{Type: cli.CmdNone})
		}
		h.handleMove(ctx, cmd.Args[0])

	case cli.CmdMoves:
		h.handleLegalMoves(cmd.Args)

	case cli.CmdPlay:
		count := defaultPlayCount
		if len(cmd.Args) > 0 {
			n, err := strconv.Atoi(cmd.Args[0])
			if err != nil || n < 1 || n > maxPlayCount {
				h.view.ShowMessage(fmt.Sprintf("Invalid count. Usage: play [1-%d]", maxPlayCount))
				return true
			}
			count = n
		}
		if h.requireGame() {
			h.playComputer(ctx, count)
		}

	case cli.CmdUndo:
		h.handleUndo(cmd.Args)

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}

		theme := cli.ColorTheme(strings.ToLower(cmd.Args[0]))
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		if g, ok := h.current(); ok {
			h.view.DisplayPosition(g.FEN)
		}

	case cli.CmdVerbose:
		verbose := h.view.ToggleVerbose()
		h.view.ShowMessage(fmt.Sprintf("Verbose mode: %t", verbose))

	case cli.CmdHistory:
		if g, ok := h.current(); ok {
			h.view.ShowGameHistory(g)
		} else {
			h.view.ShowMessage("No active game.")
		}

	case cli.CmdEval:
		if !h.requireGame() {
			return true
		}
		resp := h.proc.Execute(processor.NewEvaluateCommand(h.gameID))
		if !resp.Success {
			h.view.ShowResponseError(resp.Error)
			return true
		}
		h.view.ShowEval(resp.Data.(core.EvalResponse))

	case cli.CmdResults:
		h.handleResults(ctx, cmd.Args)

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

func (h *CLIHandler) handleMove(ctx context.Context, move string) {
	if !h.requireGame() {
		return
	}

	resp := h.proc.Execute(processor.NewMakeMoveCommand(h.gameID, core.MoveRequest{Move: move}))
	if !resp.Success {
		if resp.Error != nil && resp.Error.Code == core.ErrCodeNotHumanTurn {
			h.view.ShowMessage("It's not a human player's turn. Press ENTER to execute computer move.")
			return
		}
		h.view.ShowResponseError(resp.Error)
		return
	}

	g := resp.Data.(core.GameResponse)
	h.view.ShowHumanMove(g.LastMove)
	if !h.showPosition(g) {
		return
	}

	// Answer straight away when the computer plays the other side
	if nextIsComputer(g) {
		h.playComputer(ctx, 1)
	}
}

// playComputer lets the engine move up to count times, stopping early when
// a human is to move or the game ends
func (h *CLIHandler) playComputer(ctx context.Context, count int) {
	for i := 0; i < count && ctx.Err() == nil; i++ {
		g, ok := h.current()
		if !ok || g.State != core.StateActive.String() {
			return
		}
		if !nextIsComputer(g) {
			if i == 0 {
				h.view.ShowMessage("It's a human player's turn.")
			}
			return
		}

		moveCtx, cancel := context.WithTimeout(ctx, computerMoveTimeout)
		resp := h.proc.PlayComputerMove(moveCtx, h.gameID)
		cancel()
		if !resp.Success {
			h.view.ShowResponseError(resp.Error)
			return
		}

		before := len(g.Moves)
		g = resp.Data.(core.GameResponse)
		if len(g.Moves) == before {
			h.view.ShowMessage("Computer found no move.")
			return
		}
		h.view.ShowComputerMove(g.LastMove)
		if !h.showPosition(g) {
			return
		}
	}
}

func (h *CLIHandler) handleLegalMoves(args []string) {
	if len(args) < 1 {
		h.view.ShowMessage("Usage: moves <square>")
		return
	}
	if !h.requireGame() {
		return
	}

	resp := h.proc.Execute(processor.NewLegalMovesCommand(h.gameID, core.LegalMovesRequest{Square: strings.ToLower(args[0])}))
	if !resp.Success {
		h.view.ShowResponseError(resp.Error)
		return
	}

	moves := resp.Data.(core.LegalMovesResponse)
	h.view.ShowLegalMoves(moves)
	if g, ok := h.current(); ok && len(moves.To) > 0 {
		h.view.DisplayPosition(g.FEN, moves.To...)
	}
}

func (h *CLIHandler) handleUndo(args []string) {
	if !h.requireGame() {
		return
	}

	count := 1
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			count = n
		} else {
			h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
			return
		}
	}

	resp := h.proc.Execute(processor.NewUndoMoveCommand(h.gameID, core.UndoRequest{Count: count}))
	if !resp.Success {
		h.view.ShowResponseError(resp.Error)
		return
	}

	if count == 1 {
		h.view.ShowMessage("Move undone")
	} else {
		h.view.ShowMessage(fmt.Sprintf("%d moves undone", count))
	}
	h.showPosition(resp.Data.(core.GameResponse))
}

func (h *CLIHandler) handleResults(ctx context.Context, args []string) {
	if h.archive == nil {
		h.view.ShowMessage("Results are not archived. Start with -results-db <file>.")
		return
	}

	state := ""
	if len(args) > 0 {
		state = strings.ToLower(args[0])
	}

	flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := h.archive.Flush(flushCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		h.view.ShowError(err)
		return
	}

	games, err := h.archive.QueryGames(state, resultsLimit)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	h.view.ShowResults(games)
}

// startGame replaces the current game with a new one
func (h *CLIHandler) startGame(ctx context.Context, settings core.GameSettings, fen string) {
	resp := h.proc.Execute(processor.NewCreateGameCommand(core.CreateGameRequest{
		Settings: settings,
		FEN:      fen,
	}))
	if !resp.Success {
		h.view.ShowResponseError(resp.Error)
		return
	}

	if h.gameID != "" {
		h.proc.Execute(processor.NewDeleteGameCommand(h.gameID))
	}

	g := resp.Data.(core.GameResponse)
	h.gameID = g.GameID

	h.view.ShowMessage(fmt.Sprintf("Game started (%s, %s).", settings.Mode, settings.Difficulty))
	if h.showPosition(g) && nextIsComputer(g) && !bothComputer(g) {
		h.playComputer(ctx, 1)
	}
}

// showPosition draws the board and reports check or the end of the game,
// it returns whether the game is still active
func (h *CLIHandler) showPosition(g core.GameResponse) bool {
	h.view.DisplayPosition(g.FEN)

	if g.State == core.StateActive.String() {
		h.view.ShowCheck(g)
		return true
	}
	h.view.ShowGameOver(g)
	return false
}

// current fetches the running game
func (h *CLIHandler) current() (core.GameResponse, bool) {
	if h.gameID == "" {
		return core.GameResponse{}, false
	}
	resp := h.proc.Execute(processor.NewGetGameCommand(h.gameID))
	if !resp.Success {
		return core.GameResponse{}, false
	}
	return resp.Data.(core.GameResponse), true
}

func (h *CLIHandler) requireGame() bool {
	if h.gameID == "" {
		h.view.ShowMessage("No active game. Use 'new' or 'resume <FEN>'.")
		return false
	}
	return true
}

func nextIsComputer(g core.GameResponse) bool {
	p := g.Players.White
	if g.Turn == core.ColorBlack.String() {
		p = g.Players.Black
	}
	return p.IsComputer()
}

func bothComputer(g core.GameResponse) bool {
	return g.Players.White.IsComputer() && g.Players.Black.IsComputer()
}
