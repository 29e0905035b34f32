package core

import (
	"github.com/google/uuid"
)

type PlayerType int

const (
	PlayerHuman PlayerType = iota + 1
	PlayerComputer
)

func (t PlayerType) String() string {
	if t == PlayerComputer {
		return "computer"
	}
	return "human"
}

// Player is the complete game entity with all state
type Player struct {
	ID         string     `json:"id"`
	Color      Color      `json:"color"`
	Type       PlayerType `json:"type"`
	Depth      int        `json:"depth,omitempty"`      // Only for computer
	Randomness int        `json:"randomness,omitempty"` // Only for computer
}

// PlayerConfig for requests and configuration
type PlayerConfig struct {
	Type       PlayerType `json:"type" validate:"required,oneof=1 2"`
	Depth      int        `json:"depth,omitempty" validate:"omitempty,min=1,max=5"`
	Randomness int        `json:"randomness,omitempty" validate:"omitempty,min=0,max=100"`
}

// NewPlayer creates a Player from PlayerConfig
func NewPlayer(config PlayerConfig, color Color) *Player {
	player := &Player{
		ID:    uuid.New().String(),
		Color: color,
		Type:  config.Type,
	}

	if config.Type == PlayerComputer {
		player.Depth = config.Depth
		player.Randomness = config.Randomness
	}

	return player
}

// IsComputer reports whether the engine plays this side
func (p *Player) IsComputer() bool {
	return p != nil && p.Type == PlayerComputer
}
