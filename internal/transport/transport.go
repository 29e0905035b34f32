// Package transport holds the contracts between the game processor and the
// front ends that drive it.
package transport

import (
	"context"

	"minichess/internal/board"
	"minichess/internal/cli"
	"minichess/internal/core"
	"minichess/internal/processor"
	"minichess/internal/storage"
)

// Executor runs processor commands
type Executor interface {
	Execute(cmd processor.Command) processor.ProcessorResponse
	PlayComputerMove(ctx context.Context, gameID string) processor.ProcessorResponse
}

// Archive lists finished games
type Archive interface {
	Flush(ctx context.Context) error
	QueryGames(state string, limit int) ([]storage.GameRecord, error)
}

// View abstracts display/output operations
type View interface {
	GetCommand(prompt string) (*cli.Command, error)
	SetTheme(theme cli.ColorTheme) error
	ToggleVerbose() bool
	DisplayBoard(b *board.Board, highlight ...string)
	DisplayPosition(fen string, highlight ...string)
	ShowMessage(msg string)
	ShowError(err error)
	ShowResponseError(e *core.ErrorResponse)
	ShowGameHistory(g core.GameResponse)
	ShowComputerMove(info *core.MoveInfo)
	ShowHumanMove(info *core.MoveInfo)
	ShowCheck(g core.GameResponse)
	ShowGameOver(g core.GameResponse)
	ShowLegalMoves(resp core.LegalMovesResponse)
	ShowEval(e core.EvalResponse)
	ShowResults(games []storage.GameRecord)
	ShowHelp()
}
