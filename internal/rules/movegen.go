package rules

import (
	"minichess/internal/board"
	"minichess/internal/core"
)

type offset [2]int

var (
	knightOffsets = []offset{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets   = []offset{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}

	diagonalDirs = []offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	straightDirs = []offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	queenDirs    = kingOffsets
)

// pawnDirection is the row delta of a forward pawn step
func pawnDirection(c core.Color) int {
	if c == core.ColorWhite {
		return -1
	}
	return 1
}

func pawnHomeRow(c core.Color) int {
	if c == core.ColorWhite {
		return 6
	}
	return 1
}

// LegalMovesFrom returns every pseudo-legal move of the piece on (row, col).
// An empty or off-board square yields no moves.
func LegalMovesFrom(b *board.Board, row, col int) []Move {
	return appendPieceMoves(nil, b, row, col)
}

// AllMoves concatenates the moves of every piece of color c, scanning
// squares row by row
func AllMoves(b *board.Board, c core.Color) []Move {
	return AppendAllMoves(nil, b, c)
}

// AppendAllMoves is AllMoves appending into dst
func AppendAllMoves(dst []Move, b *board.Board, c core.Color) []Move {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if b[r][f].BelongsTo(c) {
				dst = appendPieceMoves(dst, b, r, f)
			}
		}
	}
	return dst
}

// CountMoves returns len(AllMoves(b, c))
func CountMoves(b *board.Board, c core.Color) int {
	var buf [256]Move
	return len(AppendAllMoves(buf[:0], b, c))
}

// HasAnyMove reports whether color c has at least one pseudo-legal move
func HasAnyMove(b *board.Board, c core.Color) bool {
	var buf [32]Move
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if b[r][f].BelongsTo(c) && len(appendPieceMoves(buf[:0], b, r, f)) > 0 {
				return true
			}
		}
	}
	return false
}

func appendPieceMoves(dst []Move, b *board.Board, row, col int) []Move {
	if !board.InBounds(row, col) {
		return dst
	}
	piece := b[row][col]

	switch piece.Type() {
	case board.Pawn:
		return appendPawnMoves(dst, b, row, col, piece.Color())
	case board.Knight:
		return appendStepMoves(dst, b, row, col, knightOffsets)
	case board.Bishop:
		return appendSlidingMoves(dst, b, row, col, diagonalDirs)
	case board.Rook:
		return appendSlidingMoves(dst, b, row, col, straightDirs)
	case board.Queen:
		return appendSlidingMoves(dst, b, row, col, queenDirs)
	case board.King:
		return appendStepMoves(dst, b, row, col, kingOffsets)
	}
	return dst
}

func appendPawnMoves(dst []Move, b *board.Board, row, col int, c core.Color) []Move {
	dir := pawnDirection(c)
	piece := b[row][col]

	// Forward move
	next := row + dir
	if board.InBounds(next, col) && b[next][col] == board.Empty {
		dst = append(dst, Move{row, col, next, col})

		// Double push from the home rank
		two := next + dir
		if row == pawnHomeRow(c) && board.InBounds(two, col) && b[two][col] == board.Empty {
			dst = append(dst, Move{row, col, two, col})
		}
	}

	// Captures
	for _, dc := range [2]int{-1, 1} {
		tc := col + dc
		if board.InBounds(next, tc) && piece.IsOpponentOf(b[next][tc]) {
			dst = append(dst, Move{row, col, next, tc})
		}
	}
	return dst
}

func appendStepMoves(dst []Move, b *board.Board, row, col int, offsets []offset) []Move {
	piece := b[row][col]
	for _, o := range offsets {
		tr, tc := row+o[0], col+o[1]
		if !board.InBounds(tr, tc) {
			continue
		}
		if target := b[tr][tc]; target == board.Empty || piece.IsOpponentOf(target) {
			dst = append(dst, Move{row, col, tr, tc})
		}
	}
	return dst
}

func appendSlidingMoves(dst []Move, b *board.Board, row, col int, dirs []offset) []Move {
	piece := b[row][col]
	for _, d := range dirs {
		tr, tc := row+d[0], col+d[1]
		for board.InBounds(tr, tc) {
			target := b[tr][tc]
			if target != board.Empty {
				if piece.IsOpponentOf(target) {
					dst = append(dst, Move{row, col, tr, tc})
				}
				break // Blocked
			}
			dst = append(dst, Move{row, col, tr, tc})
			tr += d[0]
			tc += d[1]
		}
	}
	return dst
}
