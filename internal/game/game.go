package game

import (
	"fmt"
	"time"

	"minichess/internal/board"
	"minichess/internal/core"
	"minichess/internal/rules"
)

// Snapshot is one position in the game history
type Snapshot struct {
	Board    board.Board
	NextTurn core.Color        // Whose turn it is at this position
	Record   *rules.MoveRecord // Move that created this position (nil for initial)
	Clock    Clock             // Remaining time when this position was reached
}

// MoveResult tracks search metadata of the last move
type MoveResult struct {
	Move        string
	PlayerColor core.Color
	Score       int
	Depth       int
	Nodes       int
}

type Game struct {
	snapshots  []Snapshot
	players    map[core.Color]*core.Player
	settings   core.GameSettings
	state      core.State
	winner     core.Color
	lastResult *MoveResult

	startTime time.Time
	turnStart time.Time
	now       func() time.Time
}

// Option customizes a new Game
type Option func(*Game)

// WithClock replaces time.Now, used by tests to drive the game clocks
func WithClock(now func() time.Time) Option {
	return func(g *Game) {
		g.now = now
	}
}

func New(initial board.Board, startingTurn core.Color, whitePlayer, blackPlayer *core.Player, settings core.GameSettings, opts ...Option) *Game {
	g := &Game{
		players: map[core.Color]*core.Player{
			core.ColorWhite: whitePlayer,
			core.ColorBlack: blackPlayer,
		},
		settings: settings,
		state:    core.StateActive,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.startTime = g.now()
	g.turnStart = g.startTime
	g.snapshots = []Snapshot{{
		Board:    initial,
		NextTurn: startingTurn,
		Clock:    NewClock(settings.TimeControl.Budget()),
	}}

	// A loaded position may already be decided
	g.setOutcome(g.classify(&initial, startingTurn))
	return g
}

func (g *Game) SetLastResult(result *MoveResult) {
	g.lastResult = result
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

// Board returns a copy of the current position
func (g *Game) Board() board.Board {
	return g.CurrentSnapshot().Board
}

func (g *Game) NextTurn() core.Color {
	return g.CurrentSnapshot().NextTurn
}

func (g *Game) NextPlayer() *core.Player {
	return g.players[g.NextTurn()]
}

func (g *Game) Player(color core.Color) *core.Player {
	return g.players[color]
}

func (g *Game) Settings() core.GameSettings {
	return g.settings
}

func (g *Game) State() core.State {
	return g.state
}

// SetState is used for the transient pending state; terminal states come from moves
func (g *Game) SetState(s core.State) {
	g.state = s
}

func (g *Game) Winner() core.Color {
	return g.winner
}

func (g *Game) Outcome() core.Outcome {
	return core.Outcome{State: g.state, Winner: g.winner}
}

func (g *Game) StartTime() time.Time {
	return g.startTime
}

// MoveCount is the number of plies played
func (g *Game) MoveCount() int {
	return len(g.snapshots) - 1
}

// CurrentFEN returns the current position in FEN notation
func (g *Game) CurrentFEN() string {
	snap := g.CurrentSnapshot()
	return snap.Board.FEN(snap.NextTurn, 1+g.MoveCount()/2)
}

func (g *Game) InitialFEN() string {
	first := g.snapshots[0]
	return first.Board.FEN(first.NextTurn, 1)
}

// InCheck reports whether the side to move has its king attacked
func (g *Game) InCheck() bool {
	b := g.Board()
	return rules.IsInCheck(&b, g.NextTurn())
}

// LegalMovesFrom lists the destinations a submitted move from (row, col)
// may use, honoring the strict setting
func (g *Game) LegalMovesFrom(row, col int) []rules.Move {
	b := g.Board()
	if g.settings.Strict {
		return rules.StrictMovesFrom(&b, row, col)
	}
	return rules.LegalMovesFrom(&b, row, col)
}

// ApplyMove validates m for the side to move and appends the resulting
// position. The game state is reclassified afterwards.
func (g *Game) ApplyMove(m rules.Move) (rules.MoveRecord, error) {
	if g.state.IsOver() {
		return rules.MoveRecord{}, fmt.Errorf("%w: %s", core.ErrGameOver, g.Outcome())
	}

	snap := g.CurrentSnapshot()
	b := snap.Board
	side := snap.NextTurn

	if !m.InBounds() {
		return rules.MoveRecord{}, fmt.Errorf("%w: %s is off the board", core.ErrIllegalMove, m)
	}
	if p := b[m.FromRow][m.FromCol]; !p.BelongsTo(side) {
		if p == board.Empty {
			return rules.MoveRecord{}, fmt.Errorf("%w: no piece on %s", core.ErrIllegalMove, board.Algebraic(m.FromRow, m.FromCol))
		}
		return rules.MoveRecord{}, fmt.Errorf("%w: %s to move", core.ErrNotYourTurn, side.Name())
	}

	legal := rules.IsLegalMove
	if g.settings.Strict {
		legal = rules.IsLegalMoveStrict
	}
	if !legal(&b, m, side) {
		return rules.MoveRecord{}, fmt.Errorf("%w: %s", core.ErrIllegalMove, m)
	}

	record := rules.NewRecord(&b, m)
	next, _ := rules.Apply(b, m)

	now := g.now()
	clock := snap.Clock.Spend(side, now.Sub(g.turnStart))
	g.turnStart = now

	nextTurn := core.OppositeColor(side)
	g.snapshots = append(g.snapshots, Snapshot{
		Board:    next,
		NextTurn: nextTurn,
		Record:   &record,
		Clock:    clock,
	})

	if clock.Expired(side) {
		g.setOutcome(core.Outcome{State: core.StateTimeout, Winner: nextTurn})
	} else {
		g.setOutcome(g.classify(&next, nextTurn))
	}
	return record, nil
}

// UndoMoves removes the last count plies and reopens the game
func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	available := g.MoveCount()
	if available < count {
		return fmt.Errorf("%w: cannot undo %d moves, only %d played", core.ErrNothingToUndo, count, available)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	g.turnStart = g.now()
	g.lastResult = nil

	snap := g.CurrentSnapshot()
	g.setOutcome(g.classify(&snap.Board, snap.NextTurn))
	return nil
}

// Moves returns the notation of every played move
func (g *Game) Moves() []string {
	moves := []string{}
	for _, snap := range g.snapshots[1:] {
		moves = append(moves, snap.Record.Notation)
	}
	return moves
}

// Records returns the history of played moves, oldest first
func (g *Game) Records() []rules.MoveRecord {
	records := make([]rules.MoveRecord, 0, g.MoveCount())
	for _, snap := range g.snapshots[1:] {
		records = append(records, *snap.Record)
	}
	return records
}

// Captured lists the pieces of color c taken so far, in capture order
func (g *Game) Captured(c core.Color) []board.Piece {
	var pieces []board.Piece
	for _, snap := range g.snapshots[1:] {
		if p := snap.Record.Captured; p.BelongsTo(c) {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

// Remaining returns the clock of color c, counting the running turn
func (g *Game) Remaining(c core.Color) time.Duration {
	snap := g.CurrentSnapshot()
	left := snap.Clock.Left(c)
	if c == snap.NextTurn && !g.state.IsOver() {
		left -= g.now().Sub(g.turnStart)
	}
	return max(left, 0)
}

// Result summarizes a game for result listeners
func (g *Game) Result(gameID string) core.GameResult {
	toInt8 := func(ps []board.Piece) []int8 {
		out := make([]int8, len(ps))
		for i, p := range ps {
			out[i] = int8(p)
		}
		return out
	}
	return core.GameResult{
		GameID:        gameID,
		Outcome:       g.Outcome(),
		Moves:         g.MoveCount(),
		Duration:      g.now().Sub(g.startTime),
		CapturedWhite: toInt8(g.Captured(core.ColorWhite)),
		CapturedBlack: toInt8(g.Captured(core.ColorBlack)),
		History:       g.Moves(),
		InitialFEN:    g.InitialFEN(),
		FinalFEN:      g.CurrentFEN(),
		Settings:      g.settings,
	}
}

func (g *Game) classify(b *board.Board, sideToMove core.Color) core.Outcome {
	if g.settings.Strict {
		return rules.StrictStatus(b, sideToMove)
	}
	return rules.Status(b, sideToMove)
}

func (g *Game) setOutcome(o core.Outcome) {
	g.state = o.State
	g.winner = o.Winner
}
