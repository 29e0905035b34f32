package board

import "minichess/internal/core"

// Piece encodes type by magnitude and color by sign, positive is white
type Piece int8

const (
	Empty  Piece = 0
	Pawn   Piece = 1
	Knight Piece = 2
	Bishop Piece = 3
	Rook   Piece = 4
	Queen  Piece = 5
	King   Piece = 6
)

// Make returns the signed piece for a type and color
func Make(kind Piece, c core.Color) Piece {
	kind = kind.Type()
	if c == core.ColorBlack {
		return -kind
	}
	return kind
}

func (p Piece) IsWhite() bool { return p > 0 }
func (p Piece) IsBlack() bool { return p < 0 }
func (p Piece) IsEmpty() bool { return p == 0 }

// Type strips the color, returning Pawn..King or Empty
func (p Piece) Type() Piece {
	if p < 0 {
		return -p
	}
	return p
}

func (p Piece) Color() core.Color {
	switch {
	case p > 0:
		return core.ColorWhite
	case p < 0:
		return core.ColorBlack
	default:
		return core.ColorNone
	}
}

// BelongsTo reports whether p is a piece of color c
func (p Piece) BelongsTo(c core.Color) bool {
	return p != Empty && p.Color() == c
}

// IsOpponentOf reports whether both squares hold pieces of different colors
func (p Piece) IsOpponentOf(o Piece) bool {
	return (p > 0 && o < 0) || (p < 0 && o > 0)
}

const letters = ".PNBRQK"

// Letter is the FEN-style letter, uppercase for white, '.' for empty
func (p Piece) Letter() byte {
	t := p.Type()
	if t > King {
		return '?'
	}
	l := letters[t]
	if p < 0 {
		l += 'a' - 'A'
	}
	return l
}

var symbols = map[Piece]string{
	Pawn: "♙", Knight: "♘", Bishop: "♗", Rook: "♖", Queen: "♕", King: "♔",
	-Pawn: "♟", -Knight: "♞", -Bishop: "♝", -Rook: "♜", -Queen: "♛", -King: "♚",
}

// Symbol is the unicode chess glyph, empty for Empty
func (p Piece) Symbol() string {
	return symbols[p]
}

func (p Piece) Name() string {
	switch p.Type() {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "Empty"
	}
}
