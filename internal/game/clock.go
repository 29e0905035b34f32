package game

import (
	"time"

	"minichess/internal/core"
)

// Clock holds the remaining thinking time of both sides
type Clock struct {
	White time.Duration
	Black time.Duration
}

func NewClock(budget time.Duration) Clock {
	return Clock{White: budget, Black: budget}
}

func (c Clock) Left(color core.Color) time.Duration {
	if color == core.ColorBlack {
		return c.Black
	}
	return c.White
}

// Spend returns the clock after color used d
func (c Clock) Spend(color core.Color, d time.Duration) Clock {
	if color == core.ColorBlack {
		c.Black -= d
	} else {
		c.White -= d
	}
	return c
}

func (c Clock) Expired(color core.Color) bool {
	return c.Left(color) <= 0
}
