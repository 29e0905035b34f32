package core

import (
	"fmt"
	"time"
)

type Mode string

const (
	ModePvP   Mode = "pvp"
	ModePvAI  Mode = "pvai"
	ModeAIvAI Mode = "aivai"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Depth is the search depth in plies for the difficulty
func (d Difficulty) Depth() int {
	switch d {
	case DifficultyEasy:
		return 2
	case DifficultyHard:
		return 4
	default:
		return 3
	}
}

// Randomness is the root score perturbation factor for the difficulty,
// each root move is shifted by up to ±Randomness*5 centipawns
func (d Difficulty) Randomness() int {
	switch d {
	case DifficultyEasy:
		return 50
	case DifficultyHard:
		return 5
	default:
		return 20
	}
}

type TimeControl string

const (
	TimeBlitz     TimeControl = "blitz"
	TimeRapid     TimeControl = "rapid"
	TimeClassical TimeControl = "classical"
)

// Budget is the clock each side starts with
func (tc TimeControl) Budget() time.Duration {
	switch tc {
	case TimeBlitz:
		return 5 * time.Minute
	case TimeClassical:
		return 30 * time.Minute
	default:
		return 15 * time.Minute
	}
}

// GameSettings arrive from the surrounding application, Strict enables the
// check-safe move filter for submitted moves
type GameSettings struct {
	Mode        Mode        `json:"mode" validate:"required,oneof=pvp pvai aivai"`
	Difficulty  Difficulty  `json:"difficulty" validate:"required,oneof=easy medium hard"`
	TimeControl TimeControl `json:"timeControl" validate:"required,oneof=blitz rapid classical"`
	Strict      bool        `json:"strict"`
}

// DefaultSettings is a two-player rapid game at medium strength
func DefaultSettings() GameSettings {
	return GameSettings{
		Mode:        ModePvP,
		Difficulty:  DifficultyMedium,
		TimeControl: TimeRapid,
	}
}

// PlayerConfigs derives the player setup for a mode, in PvAI the human takes white
func (s GameSettings) PlayerConfigs() (white, black PlayerConfig, err error) {
	human := PlayerConfig{Type: PlayerHuman}
	computer := PlayerConfig{
		Type:       PlayerComputer,
		Depth:      s.Difficulty.Depth(),
		Randomness: s.Difficulty.Randomness(),
	}

	switch s.Mode {
	case ModePvP:
		return human, human, nil
	case ModePvAI:
		return human, computer, nil
	case ModeAIvAI:
		return computer, computer, nil
	default:
		return white, black, fmt.Errorf("unknown game mode: %q", s.Mode)
	}
}
