// Package service manages concurrent chess sessions, each an independent
// game guarded by its own lock, with optional journaling to storage.
package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/storage"

	"github.com/apex/log"
	"github.com/google/uuid"
)

// session serializes access to one game
type session struct {
	mu      sync.Mutex
	game    *game.Game
	created time.Time
}

// Service is the session registry with optional persistence
type Service struct {
	games  map[string]*session
	mu     sync.RWMutex
	store  *storage.Store // nil if persistence disabled
	waiter *WaitRegistry
	policy game.RepetitionPolicy
}

type Option func(*Service)

// WithStore journals sessions and moves to store
func WithStore(store *storage.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithDefaultPolicy sets the repetition policy of sessions created without one
func WithDefaultPolicy(p game.RepetitionPolicy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithWaitTimeout bounds long-poll waits
func WithWaitTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.waiter = NewWaitRegistry(d)
	}
}

// New creates a new service instance
func New(opts ...Option) *Service {
	s := &Service{
		games:  make(map[string]*session),
		policy: game.PolicyWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.waiter == nil {
		s.waiter = NewWaitRegistry(WaitTimeout)
	}
	return s
}

// DefaultPolicy returns the repetition policy used when none is requested
func (s *Service) DefaultPolicy() game.RepetitionPolicy {
	return s.policy
}

// CreateGame starts a session in the standard position and returns its ID
func (s *Service) CreateGame(policy game.RepetitionPolicy, opts ...game.Option) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.generateGameID()
	opts = append(opts, game.WithRepetitionPolicy(policy))
	s.games[id] = &session{
		game:    game.New(opts...),
		created: time.Now().UTC(),
	}

	if s.store != nil {
		err := s.store.RecordNewGame(storage.GameRecord{
			GameID:           id,
			RepetitionPolicy: policy.String(),
			StartTimeUTC:     s.games[id].created,
		})
		if err != nil {
			log.WithError(err).WithField("game_id", id).Warn("failed to journal new game")
		}
	}

	log.WithFields(log.Fields{
		"game_id": id,
		"policy":  policy.String(),
	}).Info("game created")

	return id, nil
}

// generateGameID creates a new unique game ID; caller holds s.mu
func (s *Service) generateGameID() string {
	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// lookup returns the session for gameID
func (s *Service) lookup(gameID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}
	return sess, nil
}

// withGame runs fn on the game with the session lock held
func (s *Service) withGame(gameID string, fn func(*game.Game) error) error {
	sess, err := s.lookup(gameID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.game)
}

// DeleteGame removes a session from memory and releases its waiters
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	if _, ok := s.games[gameID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}
	delete(s.games, gameID)
	s.mu.Unlock()

	s.waiter.RemoveGame(gameID)
	log.WithField("game_id", gameID).Info("game deleted")
	return nil
}

// GameCount returns the number of live sessions
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Shutdown releases waiters, clears sessions and closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error
	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, err)
	}

	s.mu.Lock()
	s.games = make(map[string]*session)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage close: %w", err))
		}
	}

	return errors.Join(errs...)
}
