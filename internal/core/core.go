package core

import "time"

type Color byte

const (
	ColorNone Color = iota
	ColorWhite
	ColorBlack
)

func (c Color) String() string {
	if c == ColorWhite {
		return "w"
	} else if c == ColorBlack {
		return "b"
	} else {
		return "-"
	}
}

// Name returns the capitalized color name used in user-facing messages
func (c Color) Name() string {
	switch c {
	case ColorWhite:
		return "White"
	case ColorBlack:
		return "Black"
	default:
		return "Nobody"
	}
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

type State int

const (
	StateActive  State = iota
	StatePending       // Computer is calculating a move
	StateCheckmate
	StateStalemate
	StateDraw
	StateTimeout
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePending:
		return "pending"
	case StateCheckmate:
		return "checkmate"
	case StateStalemate:
		return "stalemate"
	case StateDraw:
		return "draw"
	case StateTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// IsOver reports whether the state is terminal
func (s State) IsOver() bool {
	return s != StateActive && s != StatePending
}

// Outcome is the terminal classification of a position, Winner is ColorNone
// unless the state attributes a win
type Outcome struct {
	State  State
	Winner Color
}

func (o Outcome) String() string {
	if o.Winner == ColorNone {
		return o.State.String()
	}
	return o.Winner.Name() + " wins by " + o.State.String()
}

// GameResult is what the settlement layer receives when a game ends
type GameResult struct {
	GameID        string
	Outcome       Outcome
	Moves         int
	Duration      time.Duration
	CapturedWhite []int8   // white pieces taken by black
	CapturedBlack []int8   // black pieces taken by white
	History       []string // move notation in play order
	InitialFEN    string
	FinalFEN      string
	Settings      GameSettings
}
