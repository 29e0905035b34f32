package processor

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"minichess/internal/board"
	"minichess/internal/core"
	"minichess/internal/engine"
	"minichess/internal/rules"
)

// EngineTask contains computer move calculation request and response channel
type EngineTask struct {
	GameID   string
	Board    board.Board // Copy owned by the task
	Color    core.Color
	Ply      int          // Game ply count when the task was submitted
	Player   *core.Player // Search depth and randomness
	Response chan<- EngineResult
}

// EngineResult contains the outcome of an engine calculation
type EngineResult struct {
	GameID string
	Ply    int
	Move   rules.Move // rules.NoMove when nothing can be played
	Score  float64
	Depth  int
	Nodes  int
	Error  error
}

// EngineQueue manages async engine computations
type EngineQueue struct {
	tasks   chan EngineTask
	workers int
	seed    int64
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
}

// NewEngineQueue creates a queue with specified worker count. Worker i draws
// its root noise from seed+i; seed 0 picks a time-based seed.
func NewEngineQueue(workerCount int, seed int64) *EngineQueue {
	if workerCount < 1 {
		workerCount = 2 // Default
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &EngineQueue{
		tasks:   make(chan EngineTask, 100), // Buffered for queueing
		workers: workerCount,
		seed:    seed,
		ctx:     ctx,
		cancel:  cancel,
	}

	q.start()
	return q
}

// start initializes the worker pool
func (q *EngineQueue) start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
}

// worker processes engine tasks
func (q *EngineQueue) worker(id int) {
	defer q.wg.Done()

	// Each worker gets its own searcher and random source
	searcher := engine.NewSearcher(rand.New(rand.NewSource(q.seed + int64(id))))

	for {
		select {
		case task, ok := <-q.tasks:
			if !ok {
				return // Channel closed
			}

			result := q.processTask(searcher, task)

			// Response is buffered; a receiver that left simply never reads it
			select {
			case task.Response <- result:
			default:
				log.Printf("engine worker %d: discarding result for game %s", id, task.GameID)
			}

		case <-q.ctx.Done():
			return
		}
	}
}

// processTask executes a single engine calculation
func (q *EngineQueue) processTask(searcher *engine.Searcher, task EngineTask) EngineResult {
	result := EngineResult{
		GameID: task.GameID,
		Ply:    task.Ply,
	}

	if !task.Player.IsComputer() {
		result.Error = fmt.Errorf("%s is not a computer player", task.Color.Name())
		return result
	}

	search := searcher.Search(task.Board, task.Color, task.Player.Depth, task.Player.Randomness)
	result.Move = search.Move
	result.Score = search.Score
	result.Depth = search.Depth
	result.Nodes = search.Nodes
	return result
}

// Submit adds a task to the queue
func (q *EngineQueue) Submit(task EngineTask) error {
	select {
	case <-q.ctx.Done():
		return fmt.Errorf("queue is shutting down")
	default:
	}

	select {
	case q.tasks <- task:
		return nil
	case <-q.ctx.Done():
		return fmt.Errorf("queue is shutting down")
	default:
		return fmt.Errorf("queue is full")
	}
}

// SubmitAsync submits a task without blocking for the result. The callback
// runs once with the result, or never if ctx ends first.
func (q *EngineQueue) SubmitAsync(ctx context.Context, task EngineTask, callback func(EngineResult)) error {
	respChan := make(chan EngineResult, 1)
	task.Response = respChan

	if err := q.Submit(task); err != nil {
		return err
	}

	// Handle result in background
	go func() {
		select {
		case result := <-respChan:
			callback(result)
		case <-ctx.Done():
			// Caller abandoned the move, the worker's send lands in the buffer
		case <-q.ctx.Done():
		}
	}()

	return nil
}

// Shutdown gracefully stops the queue
func (q *EngineQueue) Shutdown(timeout time.Duration) error {
	q.once.Do(q.cancel)

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout exceeded")
	}
}
