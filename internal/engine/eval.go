// Package engine chooses moves for computer players: a fixed-depth minimax
// search with alpha-beta pruning over pseudo-legal moves.
package engine

import (
	"minichess/internal/board"
	"minichess/internal/core"
	"minichess/internal/rules"
)

// Material values in centipawns
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

// MobilityWeight scales the difference in pseudo-legal move counts
const MobilityWeight = 10

var pieceValues = [7]int{0, PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue}

// Piece-square tables are indexed [7-row][col] for white and [row][col] for
// black. Only pawns and knights have one.
var pawnTable = [8][8]int{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{50, 50, 50, 50, 50, 50, 50, 50},
	{10, 10, 20, 30, 30, 20, 10, 10},
	{5, 5, 10, 25, 25, 10, 5, 5},
	{0, 0, 0, 20, 20, 0, 0, 0},
	{5, -5, -10, 0, 0, -10, -5, 5},
	{5, 10, 10, -20, -20, 10, 10, 5},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

var knightTable = [8][8]int{
	{-50, -40, -30, -30, -30, -30, -40, -50},
	{-40, -20, 0, 0, 0, 0, -20, -40},
	{-30, 0, 10, 15, 15, 10, 0, -30},
	{-30, 5, 15, 20, 20, 15, 5, -30},
	{-30, 0, 15, 20, 20, 15, 0, -30},
	{-30, 5, 10, 15, 15, 10, 5, -30},
	{-40, -20, 0, 5, 5, 0, -20, -40},
	{-50, -40, -30, -30, -30, -30, -40, -50},
}

func positionValue(p board.Piece, row, col int) int {
	evalRow := row
	if p.IsWhite() {
		evalRow = 7 - row
	}
	switch p.Type() {
	case board.Pawn:
		return pawnTable[evalRow][col]
	case board.Knight:
		return knightTable[evalRow][col]
	default:
		return 0
	}
}

// Evaluate scores the board from white's point of view: signed material and
// piece-square values plus the mobility difference
func Evaluate(b *board.Board) int {
	score := 0
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := b[r][c]
			if p == board.Empty {
				continue
			}
			v := pieceValues[p.Type()] + positionValue(p, r, c)
			if p.IsWhite() {
				score += v
			} else {
				score -= v
			}
		}
	}

	white := rules.CountMoves(b, core.ColorWhite)
	black := rules.CountMoves(b, core.ColorBlack)
	return score + (white-black)*MobilityWeight
}
