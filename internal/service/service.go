package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"minichess/internal/board"
	"minichess/internal/core"
	"minichess/internal/game"
	"minichess/internal/rules"
)

// ResultListener is the settlement hook: it receives every game that a move
// (or a loaded position) brought to a terminal state
type ResultListener interface {
	GameEnded(result core.GameResult)
}

// ResultListenerFunc adapts a function to ResultListener
type ResultListenerFunc func(core.GameResult)

func (f ResultListenerFunc) GameEnded(result core.GameResult) { f(result) }

// Service is a pure state manager for chess games
type Service struct {
	games     map[string]*game.Game
	mu        sync.RWMutex
	listeners []ResultListener
	waiter    *WaitRegistry
	gameOpts  []game.Option
}

// New creates a new service instance; opts are passed to every created game
func New(opts ...game.Option) *Service {
	return &Service{
		games:    make(map[string]*game.Game),
		waiter:   NewWaitRegistry(),
		gameOpts: opts,
	}
}

// AddListener registers a result listener
func (s *Service) AddListener(l ResultListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// CreateGame creates game with player configuration
func (s *Service) CreateGame(id string, whiteConfig, blackConfig core.PlayerConfig, initial board.Board, startingTurn core.Color, settings core.GameSettings) error {
	s.mu.Lock()

	if _, exists := s.games[id]; exists {
		s.mu.Unlock()
		return fmt.Errorf("game %s already exists", id)
	}

	// Create players with UUIDs and config
	whitePlayer := core.NewPlayer(whiteConfig, core.ColorWhite)
	blackPlayer := core.NewPlayer(blackConfig, core.ColorBlack)

	g := game.New(initial, startingTurn, whitePlayer, blackPlayer, settings, s.gameOpts...)
	s.games[id] = g

	ended, listeners := s.endedLocked(id, g)
	s.mu.Unlock()

	s.publish(ended, listeners)
	return nil
}

// GetGame retrieves a game by ID
func (s *Service) GetGame(gameID string) (*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}
	return g, nil
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Ensure UUID uniqueness (handle potential conflicts)
	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// ApplyMove validates and plays a move, notifying waiters and, when the game
// ends, result listeners
func (s *Service) ApplyMove(gameID string, m rules.Move) (rules.MoveRecord, error) {
	s.mu.Lock()

	g, ok := s.games[gameID]
	if !ok {
		s.mu.Unlock()
		return rules.MoveRecord{}, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}

	record, err := g.ApplyMove(m)
	if err != nil {
		s.mu.Unlock()
		return rules.MoveRecord{}, err
	}

	moveCount := g.MoveCount()
	ended, listeners := s.endedLocked(gameID, g)
	s.mu.Unlock()

	s.waiter.NotifyGame(gameID, moveCount)
	s.publish(ended, listeners)
	return record, nil
}

// View runs fn with the game while holding the read lock, fn must not retain g
func (s *Service) View(gameID string, fn func(g *game.Game) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}
	return fn(g)
}

// ApplyPendingMove plays a computer move only if the game is still waiting
// for it: state pending and ply count unchanged since the search started.
// A stale result reports applied=false without error.
func (s *Service) ApplyPendingMove(gameID string, ply int, m rules.Move, result *game.MoveResult) (applied bool, err error) {
	s.mu.Lock()

	g, ok := s.games[gameID]
	if !ok {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}
	if g.State() != core.StatePending || g.MoveCount() != ply {
		s.mu.Unlock()
		return false, nil
	}

	record, err := g.ApplyMove(m)
	if err != nil {
		g.SetState(core.StateActive)
		s.mu.Unlock()
		return false, err
	}
	if result != nil {
		result.Move = record.Notation
		g.SetLastResult(result)
	}

	moveCount := g.MoveCount()
	ended, listeners := s.endedLocked(gameID, g)
	s.mu.Unlock()

	s.waiter.NotifyGame(gameID, moveCount)
	s.publish(ended, listeners)
	return true, nil
}

// ResetPending returns a game to active if it is still pending at ply,
// used when a computer move could not be produced
func (s *Service) ResetPending(gameID string, ply int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return false, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}
	if g.State() != core.StatePending || g.MoveCount() != ply {
		return false, nil
	}
	g.SetState(core.StateActive)
	return true, nil
}

// UpdateGameState sets the game's transient state (pending/active)
func (s *Service) UpdateGameState(gameID string, state core.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}

	g.SetState(state)
	return nil
}

// SetLastMoveResult stores metadata about the last move
func (s *Service) SetLastMoveResult(gameID string, result *game.MoveResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}

	g.SetLastResult(result)
	return nil
}

// UndoMoves removes the specified number of moves from game history
func (s *Service) UndoMoves(gameID string, count int) error {
	s.mu.Lock()

	g, ok := s.games[gameID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}

	if err := g.UndoMoves(count); err != nil {
		s.mu.Unlock()
		return err
	}
	moveCount := g.MoveCount()
	s.mu.Unlock()

	s.waiter.NotifyGame(gameID, moveCount)
	return nil
}

// RegisterWait returns a channel signalled once the game's move count
// differs from moveCount, or the wait times out
func (s *Service) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	return s.waiter.RegisterWait(ctx, gameID, moveCount)
}

// DeleteGame removes a game from memory
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}

	s.waiter.RemoveGame(gameID)
	delete(s.games, gameID)
	return nil
}

// GameCount returns the number of games held
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// Close cleans up resources
func (s *Service) Close() error {
	err := s.waiter.Shutdown(time.Second)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Clear all games
	s.games = make(map[string]*game.Game)
	return err
}

// endedLocked builds the result of a finished game; the caller holds s.mu
func (s *Service) endedLocked(gameID string, g *game.Game) (*core.GameResult, []ResultListener) {
	if !g.State().IsOver() || len(s.listeners) == 0 {
		return nil, nil
	}
	result := g.Result(gameID)
	return &result, append([]ResultListener(nil), s.listeners...)
}

func (s *Service) publish(result *core.GameResult, listeners []ResultListener) {
	if result == nil {
		return
	}
	for _, l := range listeners {
		l.GameEnded(*result)
	}
}
