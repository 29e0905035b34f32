package core

import "errors"

// Error codes
const (
	ErrCodeGameNotFound   = "GAME_NOT_FOUND"
	ErrCodeInvalidMove    = "INVALID_MOVE"
	ErrCodeNotHumanTurn   = "NOT_HUMAN_TURN"
	ErrCodeGameOver       = "GAME_OVER"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeInvalidFEN     = "INVALID_FEN"
	ErrCodeInternalError  = "INTERNAL_ERROR"
	ErrCodeResourceLimit  = "RESOURCE_LIMIT"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrIllegalMove      = errors.New("illegal move")
	ErrNotYourTurn      = errors.New("piece does not belong to the side to move")
	ErrGameOver         = errors.New("game is over")
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrInvalidFEN       = errors.New("invalid FEN")
	ErrComputerThinking = errors.New("computer move in progress")
	ErrNoMoveAvailable  = errors.New("no move available")
)

// CodeFor maps an error onto its response code
func CodeFor(err error) string {
	switch {
	case errors.Is(err, ErrGameNotFound):
		return ErrCodeGameNotFound
	case errors.Is(err, ErrIllegalMove), errors.Is(err, ErrNotYourTurn):
		return ErrCodeInvalidMove
	case errors.Is(err, ErrGameOver), errors.Is(err, ErrNoMoveAvailable):
		return ErrCodeGameOver
	case errors.Is(err, ErrInvalidFEN):
		return ErrCodeInvalidFEN
	case errors.Is(err, ErrNothingToUndo), errors.Is(err, ErrComputerThinking):
		return ErrCodeInvalidRequest
	default:
		return ErrCodeInternalError
	}
}
