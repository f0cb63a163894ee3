package storage

import (
	"database/sql"
	"time"
)

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID           string       `db:"game_id"`
	RepetitionPolicy string       `db:"repetition_policy"`
	StartTimeUTC     time.Time    `db:"start_time_utc"`
	EndState         string       `db:"end_state"` // empty while the game runs
	EndTimeUTC       sql.NullTime `db:"end_time_utc"`
	MoveCount        int          `db:"-"` // aggregated from moves
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID             int64     `db:"move_id"`
	GameID             string    `db:"game_id"`
	MoveNumber         int       `db:"move_number"`
	MoveUCI            string    `db:"move_uci"`
	PlacementAfterMove string    `db:"placement_after_move"`
	PlayerColor        string    `db:"player_color"` // "w" or "b"
	Capture            bool      `db:"capture"`
	Castled            bool      `db:"castled"`
	EnPassant          bool      `db:"en_passant"`
	PromotedTo         string    `db:"promoted_to"`
	MoveTimeUTC        time.Time `db:"move_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	repetition_policy TEXT NOT NULL CHECK(repetition_policy IN ('window', 'occurrence')),
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	end_state TEXT NOT NULL DEFAULT '',
	end_time_utc DATETIME
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	move_uci TEXT NOT NULL,
	placement_after_move TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	capture INTEGER NOT NULL DEFAULT 0,
	castled INTEGER NOT NULL DEFAULT 0,
	en_passant INTEGER NOT NULL DEFAULT 0,
	promoted_to TEXT NOT NULL DEFAULT '',
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_end_state ON games(end_state);
`
