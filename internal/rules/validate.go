package rules

import (
	"minichess/internal/board"
	"minichess/internal/core"
)

// IsLegalMove reports whether m is among the pseudo-legal moves of the
// piece on its source square, and that piece belongs to side
func IsLegalMove(b *board.Board, m Move, side core.Color) bool {
	if !m.InBounds() || !b[m.FromRow][m.FromCol].BelongsTo(side) {
		return false
	}
	var buf [32]Move
	for _, cand := range appendPieceMoves(buf[:0], b, m.FromRow, m.FromCol) {
		if cand == m {
			return true
		}
	}
	return false
}

// WouldLeaveKingInCheck plays m on a copy and reports whether side's king is
// attacked afterwards
func WouldLeaveKingInCheck(b *board.Board, m Move, side core.Color) bool {
	next, _ := Apply(*b, m)
	return IsInCheck(&next, side)
}

// IsLegalMoveStrict is IsLegalMove with the self-check filter applied
func IsLegalMoveStrict(b *board.Board, m Move, side core.Color) bool {
	return IsLegalMove(b, m, side) && !WouldLeaveKingInCheck(b, m, side)
}

// StrictMovesFrom is LegalMovesFrom without the moves that expose the mover's king
func StrictMovesFrom(b *board.Board, row, col int) []Move {
	moves := LegalMovesFrom(b, row, col)
	if len(moves) == 0 {
		return moves
	}
	side := b[row][col].Color()
	kept := moves[:0]
	for _, m := range moves {
		if !WouldLeaveKingInCheck(b, m, side) {
			kept = append(kept, m)
		}
	}
	return kept
}

// StrictMoves is AllMoves with the self-check filter applied
func StrictMoves(b *board.Board, c core.Color) []Move {
	moves := AllMoves(b, c)
	kept := moves[:0]
	for _, m := range moves {
		if !WouldLeaveKingInCheck(b, m, c) {
			kept = append(kept, m)
		}
	}
	return kept
}
