package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// WaitTimeout is the maximum time a caller can wait for a move
	WaitTimeout = 2 * time.Minute

	// WaitChannelBuffer size for notification channels
	WaitChannelBuffer = 1
)

// WaitRegistry wakes callers waiting for a game's move count to change,
// which is how a computer move computed in the background is observed
type WaitRegistry struct {
	mu       sync.RWMutex
	waiters  map[string][]*WaitRequest // gameID → waiting callers
	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// WaitRequest represents a single caller waiting for game updates
type WaitRequest struct {
	MoveCount int           // Last known move count
	Notify    chan struct{} // Buffered channel for notifications
	Timer     *time.Timer   // Timeout timer
	GameID    string        // Game being watched

	fired chan struct{}
	once  sync.Once
}

// NewWaitRegistry creates a new wait registry
func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*WaitRequest),
		shutdown: make(chan struct{}),
	}
}

// RegisterWait registers a caller to wait for game state changes. The
// returned channel receives once, on change, timeout or shutdown.
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	req := &WaitRequest{
		MoveCount: moveCount,
		Notify:    make(chan struct{}, WaitChannelBuffer),
		GameID:    gameID,
		fired:     make(chan struct{}),
	}

	select {
	case <-w.shutdown:
		req.signal()
		return req.Notify
	default:
	}

	req.Timer = time.AfterFunc(WaitTimeout, req.signal)
	w.waiters[gameID] = append(w.waiters[gameID], req)

	// Cleanup on context cancellation
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
		case <-req.fired:
		case <-w.shutdown:
			req.signal()
		}
		w.removeWaiter(gameID, req)
	}()

	return req.Notify
}

// NotifyGame notifies all callers waiting on a game about a state change
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.RLock()
	waitList := append([]*WaitRequest(nil), w.waiters[gameID]...)
	w.mu.RUnlock()

	for _, req := range waitList {
		// Only notify if move count changed
		if req.MoveCount != currentMoveCount {
			req.signal()
		}
	}
}

// RemoveGame wakes every waiter of a game (called before game deletion)
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.RLock()
	waitList := append([]*WaitRequest(nil), w.waiters[gameID]...)
	w.mu.RUnlock()

	for _, req := range waitList {
		req.signal()
	}
}

// Pending returns the number of registered waiters for a game
func (w *WaitRegistry) Pending(gameID string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.waiters[gameID])
}

// Shutdown wakes all waiters and waits for their cleanup goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	// Closing under mu orders the close against RegisterWait's wg.Add
	w.mu.Lock()
	w.stopOnce.Do(func() { close(w.shutdown) })
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out")
	}
}

// signal delivers the single wakeup of a request
func (req *WaitRequest) signal() {
	req.once.Do(func() {
		req.Notify <- struct{}{}
		close(req.fired)
	})
}

// removeWaiter removes a specific waiter from the registry
func (w *WaitRegistry) removeWaiter(gameID string, req *WaitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	// Clean up empty entries
	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}

	if req.Timer != nil {
		req.Timer.Stop()
	}
}
