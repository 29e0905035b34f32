package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID      string    `db:"game_id"`
	Mode        string    `db:"mode"`
	Difficulty  string    `db:"difficulty"`
	TimeControl string    `db:"time_control"`
	Strict      bool      `db:"strict"`
	State       string    `db:"state"`
	Winner      string    `db:"winner"` // "w", "b" or "" for no winner
	MoveCount   int       `db:"move_count"`
	DurationMs  int64     `db:"duration_ms"`
	InitialFEN  string    `db:"initial_fen"`
	FinalFEN    string    `db:"final_fen"`
	EndTimeUTC  time.Time `db:"end_time_utc"`
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID      int64  `db:"move_id"`
	GameID      string `db:"game_id"`
	MoveNumber  int    `db:"move_number"`
	Notation    string `db:"notation"`
	PlayerColor string `db:"player_color"` // "w" or "b"
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	mode TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	time_control TEXT NOT NULL,
	strict INTEGER NOT NULL DEFAULT 0,
	state TEXT NOT NULL,
	winner TEXT NOT NULL DEFAULT '' CHECK(winner IN ('', 'w', 'b')),
	move_count INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	initial_fen TEXT NOT NULL,
	final_fen TEXT NOT NULL,
	end_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	notation TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_state ON games(state);
`
