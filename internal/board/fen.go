package board

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"

	"minichess/internal/core"
)

const (
	StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"
)

// defaultFields completes a FEN given with only its leading fields
var defaultFields = []string{"", "w", "-", "-", "0", "1"}

var toLib = map[Piece]chess.Piece{
	Pawn: chess.WhitePawn, Knight: chess.WhiteKnight, Bishop: chess.WhiteBishop,
	Rook: chess.WhiteRook, Queen: chess.WhiteQueen, King: chess.WhiteKing,
	-Pawn: chess.BlackPawn, -Knight: chess.BlackKnight, -Bishop: chess.BlackBishop,
	-Rook: chess.BlackRook, -Queen: chess.BlackQueen, -King: chess.BlackKing,
}

var fromLib = func() map[chess.Piece]Piece {
	m := make(map[chess.Piece]Piece, len(toLib))
	for p, lp := range toLib {
		m[lp] = p
	}
	return m
}()

// libSquare converts grid coordinates to the library's A1=0 square numbering
func libSquare(row, col int) chess.Square {
	return chess.Square((7-row)*8 + col)
}

// ParseFEN reads the placement and side-to-move fields of a FEN string.
// Missing trailing fields take defaults (white to move, move 1). Castling
// and en passant fields are accepted but ignored since those capabilities
// are not modeled.
func ParseFEN(fen string) (Board, core.Color, error) {
	var b Board

	fields := strings.Fields(fen)
	if n := len(fields); n > 0 && n < len(defaultFields) {
		fields = append(fields, defaultFields[n:]...)
	}
	fen = strings.Join(fields, " ")

	pos := &chess.Position{}
	if err := pos.UnmarshalText([]byte(fen)); err != nil {
		return b, core.ColorNone, fmt.Errorf("%w: %v", core.ErrInvalidFEN, err)
	}

	lb := pos.Board()
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if lp := lb.Piece(libSquare(r, c)); lp != chess.NoPiece {
				b[r][c] = fromLib[lp]
			}
		}
	}

	for _, c := range []core.Color{core.ColorWhite, core.ColorBlack} {
		if b.Count(Make(King, c)) > 1 {
			return b, core.ColorNone, fmt.Errorf("%w: more than one %s king", core.ErrInvalidFEN, c.Name())
		}
	}

	turn := core.ColorWhite
	if pos.Turn() == chess.Black {
		turn = core.ColorBlack
	}
	return b, turn, nil
}

// FEN encodes the board with the given side to move and fullmove number
func (b *Board) FEN(turn core.Color, fullmove int) string {
	m := make(map[chess.Square]chess.Piece)
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if p := b[r][c]; p != Empty {
				m[libSquare(r, c)] = toLib[p]
			}
		}
	}
	if fullmove < 1 {
		fullmove = 1
	}
	return fmt.Sprintf("%s %s - - 0 %d", chess.NewBoard(m).String(), turn, fullmove)
}
