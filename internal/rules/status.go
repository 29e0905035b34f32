package rules

import (
	"minichess/internal/board"
	"minichess/internal/core"
)

// Status classifies the position for the side about to move.
//
// Games end by king capture: a missing king is checkmate for the side that
// still has one, and both missing is a draw. Otherwise the side to move
// having no pseudo-legal move is stalemate.
func Status(b *board.Board, sideToMove core.Color) core.Outcome {
	if o, over := kingCapture(b); over {
		return o
	}
	if !HasAnyMove(b, sideToMove) {
		return core.Outcome{State: core.StateStalemate}
	}
	return core.Outcome{State: core.StateActive}
}

// StrictStatus classifies with check-safe moves: no safe move while in check
// is checkmate, without check it is stalemate
func StrictStatus(b *board.Board, sideToMove core.Color) core.Outcome {
	if o, over := kingCapture(b); over {
		return o
	}
	if len(StrictMoves(b, sideToMove)) > 0 {
		return core.Outcome{State: core.StateActive}
	}
	if IsInCheck(b, sideToMove) {
		return core.Outcome{State: core.StateCheckmate, Winner: core.OppositeColor(sideToMove)}
	}
	return core.Outcome{State: core.StateStalemate}
}

func kingCapture(b *board.Board) (core.Outcome, bool) {
	white := b.HasKing(core.ColorWhite)
	black := b.HasKing(core.ColorBlack)
	switch {
	case white && black:
		return core.Outcome{}, false
	case white:
		return core.Outcome{State: core.StateCheckmate, Winner: core.ColorWhite}, true
	case black:
		return core.Outcome{State: core.StateCheckmate, Winner: core.ColorBlack}, true
	default:
		return core.Outcome{State: core.StateDraw}, true
	}
}
