// Package rules implements move generation, attack detection and game-state
// classification over a board.Board.
//
// Generation is pseudo-legal: moves that leave the mover's king attacked are
// produced like any other. The check-safe variants (IsLegalMoveStrict,
// StrictMovesFrom, StrictStatus) are opt-in.
package rules

import (
	"fmt"

	"minichess/internal/board"
)

// Move is a from/to square pair in grid coordinates
type Move struct {
	FromRow, FromCol int
	ToRow, ToCol     int
}

// NoMove is returned when no candidate exists; it is not a board instruction
var NoMove = Move{}

func (m Move) IsNone() bool {
	return m == NoMove
}

// Tuple returns the move as [fromRow, fromCol, toRow, toCol]
func (m Move) Tuple() [4]int {
	return [4]int{m.FromRow, m.FromCol, m.ToRow, m.ToCol}
}

func (m Move) InBounds() bool {
	return board.InBounds(m.FromRow, m.FromCol) && board.InBounds(m.ToRow, m.ToCol)
}

func (m Move) String() string {
	if !m.InBounds() {
		return fmt.Sprintf("(%d,%d)->(%d,%d)", m.FromRow, m.FromCol, m.ToRow, m.ToCol)
	}
	return board.Algebraic(m.FromRow, m.FromCol) + board.Algebraic(m.ToRow, m.ToCol)
}

// Apply returns the board after m, with the captured piece
func Apply(b board.Board, m Move) (board.Board, board.Piece) {
	return b.Apply(m.FromRow, m.FromCol, m.ToRow, m.ToCol)
}
