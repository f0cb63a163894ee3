// Package storage journals sessions and moves to SQLite. Writes are queued
// and applied by a single writer goroutine; the journal is read back only by
// maintenance commands.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apex/log"
	_ "github.com/mattn/go-sqlite3"
)

const (
	writeQueueSize = 1000
	drainTimeout   = 2 * time.Second
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
	closeOnce    sync.Once
	closeErr     error
}

// NewStore creates a new storage instance with async writer
func NewStore(dataSourceName string, devMode bool) (*Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL in development for concurrent readers while the writer runs
	if devMode {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		db:        db,
		path:      dataSourceName,
		writeChan: make(chan func(*sql.Tx) error, writeQueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.healthStatus.Store(true)

	s.wg.Add(1)
	go s.writerLoop()

	return s, nil
}

// writerLoop processes async write operations
func (s *Store) writerLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			// Drain remaining writes with timeout
			deadline := time.After(drainTimeout)
			for {
				select {
				case fn := <-s.writeChan:
					if s.healthStatus.Load() {
						s.executeWrite(fn)
					}
				case <-deadline:
					return
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
		s.degrade(err, "failed to begin transaction")
		return
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		s.degrade(err, "write operation failed")
		return
	}

	if err := tx.Commit(); err != nil {
		s.degrade(err, "failed to commit")
	}
}

func (s *Store) degrade(err error, msg string) {
	log.WithError(err).WithField("path", s.path).Error("storage degraded: " + msg)
	s.healthStatus.Store(false)
}

// enqueue hands fn to the writer. A degraded store or a full queue drops the
// write; callers never block on the journal.
func (s *Store) enqueue(what string, fn func(*sql.Tx) error) error {
	if !s.healthStatus.Load() {
		return nil
	}

	select {
	case s.writeChan <- fn:
		return nil
	default:
		log.WithField("record", what).Warn("storage write queue full, dropping write")
		return nil
	}
}

// RecordNewGame asynchronously records a new session
func (s *Store) RecordNewGame(record GameRecord) error {
	return s.enqueue("game", func(tx *sql.Tx) error {
		query := `INSERT INTO games (
			game_id, repetition_policy, start_time_utc
		) VALUES (?, ?, ?)`

		_, err := tx.Exec(query, record.GameID, record.RepetitionPolicy, record.StartTimeUTC)
		return err
	})
}

// RecordMove asynchronously records a move
func (s *Store) RecordMove(record MoveRecord) error {
	return s.enqueue("move", func(tx *sql.Tx) error {
		query := `INSERT INTO moves (
			game_id, move_number, move_uci, placement_after_move, player_color,
			capture, castled, en_passant, promoted_to, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.MoveNumber, record.MoveUCI,
			record.PlacementAfterMove, record.PlayerColor,
			record.Capture, record.Castled, record.EnPassant, record.PromotedTo,
			record.MoveTimeUTC,
		)
		return err
	})
}

// RecordGameEnd asynchronously stores the terminal state of a session
func (s *Store) RecordGameEnd(gameID, state string, at time.Time) error {
	return s.enqueue("game end", func(tx *sql.Tx) error {
		query := `UPDATE games SET end_state = ?, end_time_utc = ? WHERE game_id = ?`
		_, err := tx.Exec(query, state, at, gameID)
		return err
	})
}

// ResetGame asynchronously drops the moves of a session and clears its end state
func (s *Store) ResetGame(gameID string) error {
	return s.enqueue("reset", func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM moves WHERE game_id = ?`, gameID); err != nil {
			return err
		}
		_, err := tx.Exec(`UPDATE games SET end_state = '', end_time_utc = NULL WHERE game_id = ?`, gameID)
		return err
	})
}

// IsHealthy returns the current health status
func (s *Store) IsHealthy() bool {
	return s.healthStatus.Load()
}

// Close drains queued writes and closes the database connection
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(drainTimeout):
			log.Warn("storage writer shutdown timeout, some writes may be lost")
		}

		s.closeErr = s.db.Close()
	})
	return s.closeErr
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

// DeleteDB removes the database file
func (s *Store) DeleteDB() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	// ☣ DESTRUCTIVE: Removes database file
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete database file: %w", err)
	}

	return nil
}

// QueryGames retrieves sessions with optional filtering; "*" or empty matches all
func (s *Store) QueryGames(gameID, endState string) ([]GameRecord, error) {
	query := `SELECT
		g.game_id, g.repetition_policy, g.start_time_utc, g.end_state, g.end_time_utc,
		COUNT(m.move_id)
	FROM games g LEFT JOIN moves m ON m.game_id = g.game_id WHERE 1=1`

	var args []interface{}

	if gameID != "" && gameID != "*" {
		query += " AND g.game_id = ?"
		args = append(args, gameID)
	}

	if endState != "" && endState != "*" {
		query += " AND g.end_state = ?"
		args = append(args, endState)
	}

	query += " GROUP BY g.game_id ORDER BY g.start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		err := rows.Scan(
			&g.GameID, &g.RepetitionPolicy, &g.StartTimeUTC, &g.EndState, &g.EndTimeUTC,
			&g.MoveCount,
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

// QueryMoves retrieves the moves of one session in play order
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	query := `SELECT
		move_id, game_id, move_number, move_uci, placement_after_move, player_color,
		capture, castled, en_passant, promoted_to, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY move_number`

	rows, err := s.db.Query(query, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(
			&m.MoveID, &m.GameID, &m.MoveNumber, &m.MoveUCI, &m.PlacementAfterMove, &m.PlayerColor,
			&m.Capture, &m.Castled, &m.EnPassant, &m.PromotedTo, &m.MoveTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return moves, nil
}
