// Package storage archives finished games in SQLite. It is attached to the
// service as a result listener and never blocks play: writes are queued to a
// single writer goroutine and dropped once the store is degraded.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"minichess/internal/core"
)

// Store handles SQLite database operations with async writes
type Store struct {
	db           *sql.DB
	path         string
	writeChan    chan func(*sql.Tx) error
	healthStatus atomic.Bool
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	now          func() time.Time
}

// NewStore opens the archive at path and creates the schema if needed
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// One writer, a few readers
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		db:        db,
		path:      path,
		writeChan: make(chan func(*sql.Tx) error, 256),
		ctx:       ctx,
		cancel:    cancel,
		now:       time.Now,
	}
	s.healthStatus.Store(true)

	if err := s.InitDB(); err != nil {
		cancel()
		db.Close()
		return nil, err
	}

	s.wg.Add(1)
	go s.writerLoop()

	return s, nil
}

// InitDB creates the database schema
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return tx.Commit()
}

// writerLoop processes async write operations
func (s *Store) writerLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			// Drain what is already queued
			for {
				select {
				case fn := <-s.writeChan:
					if s.healthStatus.Load() {
						s.executeWrite(fn)
					}
				default:
					return
				}
			}

		case fn := <-s.writeChan:
			if !s.healthStatus.Load() {
				continue
			}
			s.executeWrite(fn)
		}
	}
}

// executeWrite runs a transactional write operation
func (s *Store) executeWrite(fn func(*sql.Tx) error) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("Storage degraded: failed to begin transaction: %v", err)
		s.healthStatus.Store(false)
		return
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		log.Printf("Storage degraded: write operation failed: %v", err)
		s.healthStatus.Store(false)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Storage degraded: failed to commit: %v", err)
		s.healthStatus.Store(false)
	}
}

// enqueue hands a write to the writer, dropping it when the queue is full
func (s *Store) enqueue(what string, fn func(*sql.Tx) error) {
	if !s.healthStatus.Load() {
		return
	}
	select {
	case s.writeChan <- fn:
	default:
		log.Printf("Storage write queue full, dropping %s", what)
	}
}

// GameEnded records a finished game and its moves
func (s *Store) GameEnded(result core.GameResult) {
	winner := ""
	if result.Outcome.Winner != core.ColorNone {
		winner = result.Outcome.Winner.String()
	}
	rec := GameRecord{
		GameID:      result.GameID,
		Mode:        string(result.Settings.Mode),
		Difficulty:  string(result.Settings.Difficulty),
		TimeControl: string(result.Settings.TimeControl),
		Strict:      result.Settings.Strict,
		State:       result.Outcome.State.String(),
		Winner:      winner,
		MoveCount:   result.Moves,
		DurationMs:  result.Duration.Milliseconds(),
		InitialFEN:  result.InitialFEN,
		FinalFEN:    result.FinalFEN,
		EndTimeUTC:  s.now().UTC(),
	}
	moves := moveRecords(result)

	s.enqueue("game record", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT OR REPLACE INTO games (
			game_id, mode, difficulty, time_control, strict,
			state, winner, move_count, duration_ms,
			initial_fen, final_fen, end_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.GameID, rec.Mode, rec.Difficulty, rec.TimeControl, rec.Strict,
			rec.State, rec.Winner, rec.MoveCount, rec.DurationMs,
			rec.InitialFEN, rec.FinalFEN, rec.EndTimeUTC,
		)
		if err != nil {
			return err
		}

		// A replayed game replaces its earlier move list
		if _, err = tx.Exec(`DELETE FROM moves WHERE game_id = ?`, rec.GameID); err != nil {
			return err
		}
		for _, m := range moves {
			_, err = tx.Exec(`INSERT INTO moves (
				game_id, move_number, notation, player_color
			) VALUES (?, ?, ?, ?)`,
				m.GameID, m.MoveNumber, m.Notation, m.PlayerColor,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// moveRecords numbers the history from 1, colors alternate from the side to
// move in the initial position
func moveRecords(result core.GameResult) []MoveRecord {
	color := core.ColorWhite
	if fields := strings.Fields(result.InitialFEN); len(fields) > 1 && fields[1] == "b" {
		color = core.ColorBlack
	}

	records := make([]MoveRecord, len(result.History))
	for i, notation := range result.History {
		records[i] = MoveRecord{
			GameID:      result.GameID,
			MoveNumber:  i + 1,
			Notation:    notation,
			PlayerColor: color.String(),
		}
		color = core.OppositeColor(color)
	}
	return records
}

// Flush blocks until every write queued before the call has been executed
func (s *Store) Flush(ctx context.Context) error {
	if !s.healthStatus.Load() {
		return nil
	}
	done := make(chan struct{})
	select {
	case s.writeChan <- func(*sql.Tx) error { close(done); return nil }:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsHealthy returns the current health status
func (s *Store) IsHealthy() bool {
	return s.healthStatus.Load()
}

// QueryGames lists archived games, newest first. An empty or "*" state
// matches every game; limit <= 0 means no limit.
func (s *Store) QueryGames(state string, limit int) ([]GameRecord, error) {
	query := `SELECT
		game_id, mode, difficulty, time_control, strict,
		state, winner, move_count, duration_ms,
		initial_fen, final_fen, end_time_utc
	FROM games WHERE 1=1`

	var args []any
	if state != "" && state != "*" {
		query += " AND state = ?"
		args = append(args, state)
	}
	query += " ORDER BY end_time_utc DESC, game_id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		err := rows.Scan(
			&g.GameID, &g.Mode, &g.Difficulty, &g.TimeControl, &g.Strict,
			&g.State, &g.Winner, &g.MoveCount, &g.DurationMs,
			&g.InitialFEN, &g.FinalFEN, &g.EndTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return games, nil
}

// QueryMoves returns the archived moves of a game in play order
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	rows, err := s.db.Query(`SELECT move_id, game_id, move_number, notation, player_color
		FROM moves WHERE game_id = ? ORDER BY move_number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		if err := rows.Scan(&m.MoveID, &m.GameID, &m.MoveNumber, &m.Notation, &m.PlayerColor); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return moves, nil
}

// Close drains queued writes and closes the database
func (s *Store) Close() error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		log.Printf("Warning: storage writer shutdown timeout, some writes may be lost")
	}

	return s.db.Close()
}
