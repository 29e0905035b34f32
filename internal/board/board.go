package board

import (
	"fmt"
	"strings"

	"minichess/internal/core"
)

// Board is an 8x8 grid indexed [row][col], row 0 is black's back rank and
// col 0 is the a-file. Boards are values; assigning one copies it.
type Board [8][8]Piece

var initial = Board{
	{-Rook, -Knight, -Bishop, -Queen, -King, -Bishop, -Knight, -Rook},
	{-Pawn, -Pawn, -Pawn, -Pawn, -Pawn, -Pawn, -Pawn, -Pawn},
	{},
	{},
	{},
	{},
	{Pawn, Pawn, Pawn, Pawn, Pawn, Pawn, Pawn, Pawn},
	{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook},
}

// Initial returns the standard starting layout
func Initial() Board {
	return initial
}

func InBounds(row, col int) bool {
	return row >= 0 && row < 8 && col >= 0 && col < 8
}

// At returns the piece on a square, Empty when the square is off the board
func (b *Board) At(row, col int) Piece {
	if !InBounds(row, col) {
		return Empty
	}
	return b[row][col]
}

// Apply moves the piece on the source square onto the destination and
// returns the resulting board with whatever was captured. The receiver is
// left untouched.
func (b Board) Apply(fromRow, fromCol, toRow, toCol int) (Board, Piece) {
	if !InBounds(fromRow, fromCol) || !InBounds(toRow, toCol) {
		return b, Empty
	}
	captured := b[toRow][toCol]
	b[toRow][toCol] = b[fromRow][fromCol]
	b[fromRow][fromCol] = Empty
	return b, captured
}

// FindKing locates the king of the given color
func (b *Board) FindKing(c core.Color) (row, col int, ok bool) {
	king := Make(King, c)
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if b[r][f] == king {
				return r, f, true
			}
		}
	}
	return 0, 0, false
}

func (b *Board) HasKing(c core.Color) bool {
	_, _, ok := b.FindKing(c)
	return ok
}

// Mirror swaps every piece's color and flips the board vertically
func (b Board) Mirror() Board {
	var m Board
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			m[7-r][f] = -b[r][f]
		}
	}
	return m
}

// Count returns how many pieces of the exact signed value are on the board
func (b *Board) Count(p Piece) int {
	n := 0
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if b[r][f] == p {
				n++
			}
		}
	}
	return n
}

// ASCII creates an ASCII representation of the board
func (b *Board) ASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < 8; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for f := 0; f < 8; f++ {
			sb.WriteString(fmt.Sprintf("%c ", b[r][f].Letter()))
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
