package rules

import (
	"fmt"
	"strings"

	"minichess/internal/board"
	"minichess/internal/core"
)

// Notation renders a move as <from><to>, with an x between the squares when
// something was captured
func Notation(m Move, captured board.Piece) string {
	sep := ""
	if captured != board.Empty {
		sep = "x"
	}
	return board.Algebraic(m.FromRow, m.FromCol) + sep + board.Algebraic(m.ToRow, m.ToCol)
}

// ParseMove accepts "e2e4", "e2-e4" and "e2xe4"
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) == 5 {
		switch s[2] {
		case 'x', 'X', '-':
			s = s[:2] + s[3:]
		}
	}
	if len(s) != 4 {
		return NoMove, fmt.Errorf("%w: malformed move %q", core.ErrIllegalMove, s)
	}

	fr, fc, ok := board.ParseSquare(s[:2])
	if !ok {
		return NoMove, fmt.Errorf("%w: bad source square %q", core.ErrIllegalMove, s[:2])
	}
	tr, tc, ok := board.ParseSquare(s[2:])
	if !ok {
		return NoMove, fmt.Errorf("%w: bad target square %q", core.ErrIllegalMove, s[2:])
	}
	return Move{fr, fc, tr, tc}, nil
}
