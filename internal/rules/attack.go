package rules

import (
	"minichess/internal/board"
	"minichess/internal/core"
)

// IsSquareAttacked reports whether any piece of color by could capture on
// (row, col), ignoring whether that capture would be legal for the attacker
func IsSquareAttacked(b *board.Board, row, col int, by core.Color) bool {
	if !board.InBounds(row, col) {
		return false
	}
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if r == row && f == col {
				continue
			}
			if b[r][f].BelongsTo(by) && canAttack(b, r, f, row, col) {
				return true
			}
		}
	}
	return false
}

// IsInCheck reports whether the king of color c is attacked. A side with no
// king is never in check.
func IsInCheck(b *board.Board, c core.Color) bool {
	row, col, ok := b.FindKing(c)
	if !ok {
		return false
	}
	return IsSquareAttacked(b, row, col, core.OppositeColor(c))
}

// canAttack checks the attack pattern of the piece on the source square
// against the target, independent of what occupies the target
func canAttack(b *board.Board, fr, fc, tr, tc int) bool {
	piece := b[fr][fc]
	dr, dc := tr-fr, tc-fc
	adr, adc := abs(dr), abs(dc)

	switch piece.Type() {
	case board.Pawn:
		return dr == pawnDirection(piece.Color()) && adc == 1
	case board.Knight:
		return (adr == 2 && adc == 1) || (adr == 1 && adc == 2)
	case board.Bishop:
		return adr == adc && isPathClear(b, fr, fc, tr, tc)
	case board.Rook:
		return (dr == 0 || dc == 0) && isPathClear(b, fr, fc, tr, tc)
	case board.Queen:
		return (adr == adc || dr == 0 || dc == 0) && isPathClear(b, fr, fc, tr, tc)
	case board.King:
		return adr <= 1 && adc <= 1
	}
	return false
}

// isPathClear reports whether every square strictly between source and
// target on a straight or diagonal line is empty
func isPathClear(b *board.Board, fr, fc, tr, tc int) bool {
	sr, sc := sign(tr-fr), sign(tc-fc)
	r, c := fr+sr, fc+sc
	for r != tr || c != tc {
		if b[r][c] != board.Empty {
			return false
		}
		r += sr
		c += sc
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
