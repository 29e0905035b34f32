package processor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"minichess/internal/board"
	"minichess/internal/core"
	"minichess/internal/engine"
	"minichess/internal/game"
	"minichess/internal/rules"
	"minichess/internal/service"
)

// Options configures a Processor
type Options struct {
	Workers int   // Engine worker goroutines
	Seed    int64 // Base seed of the engines' random sources, 0 for time-based
}

// Processor handles command execution and coordinates between service and engine layers
type Processor struct {
	svc      *service.Service
	queue    *EngineQueue
	validate *validator.Validate
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a processor with its own engine worker pool
func New(svc *service.Service, opts Options) *Processor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Processor{
		svc:      svc,
		queue:    NewEngineQueue(opts.Workers, opts.Seed),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdUndoMove:
		return p.handleUndoMove(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdLegalMoves:
		return p.handleLegalMoves(cmd)
	case CmdEvaluate:
		return p.handleEvaluate(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrCodeInvalidRequest)
	}
}

// handleCreateGame creates a new game from settings and an optional FEN
func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrCodeInvalidRequest)
	}
	if err := p.validate.Struct(args); err != nil {
		return p.errorResponse(fmt.Sprintf("invalid request: %v", err), core.ErrCodeInvalidRequest)
	}

	initial, turn := board.Initial(), core.ColorWhite
	if fen := strings.TrimSpace(args.FEN); fen != "" {
		b, t, err := board.ParseFEN(fen)
		if err != nil {
			return p.errorFrom(err)
		}
		initial, turn = b, t
	}

	white, black, err := args.Settings.PlayerConfigs()
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrCodeInvalidRequest)
	}

	gameID := p.svc.GenerateGameID()
	if err = p.svc.CreateGame(gameID, white, black, initial, turn, args.Settings); err != nil {
		return p.errorResponse(fmt.Sprintf("failed to create game: %v", err), core.ErrCodeInternalError)
	}

	return p.gameResponse(gameID)
}

// handleGetGame retrieves game state
func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	return p.gameResponse(cmd.GameID)
}

// handleMakeMove processes human moves and computer move triggers
func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrCodeInvalidRequest)
	}
	args.Move = strings.ToLower(strings.TrimSpace(args.Move))
	if err := p.validate.Struct(args); err != nil {
		return p.errorResponse("invalid move format", core.ErrCodeInvalidMove)
	}

	var (
		state     core.State
		outcome   core.Outcome
		turn      core.Color
		nextIsCPU bool
	)
	err := p.svc.View(cmd.GameID, func(g *game.Game) error {
		state, outcome, turn = g.State(), g.Outcome(), g.NextTurn()
		nextIsCPU = g.NextPlayer().IsComputer()
		return nil
	})
	if err != nil {
		return p.errorFrom(err)
	}

	// Validate game state
	switch {
	case state == core.StatePending:
		return p.errorFrom(core.ErrComputerThinking)
	case state.IsOver():
		return p.errorResponse(fmt.Sprintf("game is over: %s", outcome), core.ErrCodeGameOver)
	}

	if args.Move == ComputerMove {
		if !nextIsCPU {
			return p.errorResponse("not computer player's turn", core.ErrCodeNotHumanTurn)
		}
		if err = p.triggerComputerMove(cmd.GameID); err != nil {
			return p.errorResponse(err.Error(), core.ErrCodeResourceLimit)
		}

		resp := p.gameResponse(cmd.GameID)
		resp.Pending = true
		return resp
	}

	// Handle human move
	if nextIsCPU {
		return p.errorResponse("not human player's turn", core.ErrCodeNotHumanTurn)
	}

	m, err := rules.ParseMove(args.Move)
	if err != nil {
		return p.errorFrom(err)
	}
	record, err := p.svc.ApplyMove(cmd.GameID, m)
	if err != nil {
		return p.errorFrom(err)
	}

	result := &game.MoveResult{Move: record.Notation, PlayerColor: turn}
	if err = p.svc.SetLastMoveResult(cmd.GameID, result); err != nil {
		return p.errorFrom(err)
	}
	return p.gameResponse(cmd.GameID)
}

// handleUndoMove reverts game state
func (p *Processor) handleUndoMove(cmd Command) ProcessorResponse {
	args := core.UndoRequest{Count: 1}
	if req, ok := cmd.Args.(core.UndoRequest); ok {
		args = req
	}
	if err := p.validate.Struct(args); err != nil {
		return p.errorResponse(fmt.Sprintf("invalid request: %v", err), core.ErrCodeInvalidRequest)
	}

	var state core.State
	if err := p.svc.View(cmd.GameID, func(g *game.Game) error {
		state = g.State()
		return nil
	}); err != nil {
		return p.errorFrom(err)
	}
	if state == core.StatePending {
		return p.errorResponse("cannot undo while computer move is in progress", core.ErrCodeInvalidRequest)
	}

	if err := p.svc.UndoMoves(cmd.GameID, args.Count); err != nil {
		return p.errorFrom(err)
	}
	return p.gameResponse(cmd.GameID)
}

// handleDeleteGame removes a game
func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	var state core.State
	if err := p.svc.View(cmd.GameID, func(g *game.Game) error {
		state = g.State()
		return nil
	}); err != nil {
		return p.errorFrom(err)
	}

	// Only block deletion if actively computing
	if state == core.StatePending {
		return p.errorResponse("cannot delete game while computer move is in progress", core.ErrCodeInvalidRequest)
	}

	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.errorFrom(err)
	}
	return ProcessorResponse{Success: true}
}

// handleGetBoard returns board visualization
func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	var resp core.BoardResponse
	err := p.svc.View(cmd.GameID, func(g *game.Game) error {
		b := g.Board()
		resp = core.BoardResponse{FEN: g.CurrentFEN(), Board: b.ASCII()}
		return nil
	})
	if err != nil {
		return p.errorFrom(err)
	}
	return ProcessorResponse{Success: true, Data: resp}
}

// handleLegalMoves lists destinations for the piece on a square
func (p *Processor) handleLegalMoves(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.LegalMovesRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrCodeInvalidRequest)
	}
	if err := p.validate.Struct(args); err != nil {
		return p.errorResponse(fmt.Sprintf("invalid request: %v", err), core.ErrCodeInvalidRequest)
	}
	row, col, ok := board.ParseSquare(args.Square)
	if !ok {
		return p.errorResponse(fmt.Sprintf("invalid square %q", args.Square), core.ErrCodeInvalidRequest)
	}

	resp := core.LegalMovesResponse{From: board.Algebraic(row, col), To: []string{}}
	err := p.svc.View(cmd.GameID, func(g *game.Game) error {
		for _, m := range g.LegalMovesFrom(row, col) {
			resp.To = append(resp.To, board.Algebraic(m.ToRow, m.ToCol))
		}
		return nil
	})
	if err != nil {
		return p.errorFrom(err)
	}
	return ProcessorResponse{Success: true, Data: resp}
}

// handleEvaluate reports the static evaluation of the current position
func (p *Processor) handleEvaluate(cmd Command) ProcessorResponse {
	var resp core.EvalResponse
	err := p.svc.View(cmd.GameID, func(g *game.Game) error {
		b := g.Board()
		resp = core.EvalResponse{
			FEN:        g.CurrentFEN(),
			Score:      engine.Evaluate(&b),
			WhiteMoves: rules.CountMoves(&b, core.ColorWhite),
			BlackMoves: rules.CountMoves(&b, core.ColorBlack),
		}
		return nil
	})
	if err != nil {
		return p.errorFrom(err)
	}
	return ProcessorResponse{Success: true, Data: resp}
}

// triggerComputerMove marks the game pending and queues the search
func (p *Processor) triggerComputerMove(gameID string) error {
	var task EngineTask
	err := p.svc.View(gameID, func(g *game.Game) error {
		task = EngineTask{
			GameID: gameID,
			Board:  g.Board(),
			Color:  g.NextTurn(),
			Ply:    g.MoveCount(),
			Player: g.NextPlayer(),
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err = p.svc.UpdateGameState(gameID, core.StatePending); err != nil {
		return err
	}

	err = p.queue.SubmitAsync(p.ctx, task, func(result EngineResult) {
		p.applyEngineResult(task.Color, result)
	})
	if err != nil {
		if rerr := p.svc.UpdateGameState(gameID, core.StateActive); rerr != nil {
			log.Printf("Failed to reopen game %s: %v", gameID, rerr)
		}
		return fmt.Errorf("engine unavailable: %w", err)
	}
	return nil
}

// applyEngineResult plays a finished search if the game still waits for it
func (p *Processor) applyEngineResult(color core.Color, result EngineResult) {
	if result.Error != nil {
		log.Printf("Engine error for game %s: %v", result.GameID, result.Error)
		p.reopen(result)
		return
	}
	if result.Move.IsNone() {
		log.Printf("Engine found no move for game %s", result.GameID)
		p.reopen(result)
		return
	}

	applied, err := p.svc.ApplyPendingMove(result.GameID, result.Ply, result.Move, &game.MoveResult{
		PlayerColor: color,
		Score:       int(math.Round(result.Score)),
		Depth:       result.Depth,
		Nodes:       result.Nodes,
	})
	switch {
	case errors.Is(err, core.ErrGameNotFound):
		// Game was deleted
	case err != nil:
		log.Printf("Engine move %s rejected for game %s: %v", result.Move, result.GameID, err)
	case !applied:
		log.Printf("Discarding stale engine move for game %s", result.GameID)
	}
}

// reopen returns a pending game to active when no move could be applied
func (p *Processor) reopen(result EngineResult) {
	if _, err := p.svc.ResetPending(result.GameID, result.Ply); err != nil && !errors.Is(err, core.ErrGameNotFound) {
		log.Printf("Failed to reopen game %s: %v", result.GameID, err)
	}
}

// WaitForMove blocks until the game's ply count moves past moveCount or the
// game leaves the pending state, then returns the game
func (p *Processor) WaitForMove(ctx context.Context, gameID string, moveCount int) ProcessorResponse {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := p.svc.RegisterWait(ctx, gameID, moveCount)

	// Engine errors reopen the game without a move, so poll as well
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		var settled bool
		if err := p.svc.View(gameID, func(g *game.Game) error {
			settled = g.MoveCount() != moveCount || g.State() != core.StatePending
			return nil
		}); err != nil {
			return p.errorFrom(err)
		}
		if settled {
			return p.gameResponse(gameID)
		}

		select {
		case <-ch:
		case <-ticker.C:
		case <-ctx.Done():
			return p.errorResponse(ctx.Err().Error(), core.ErrCodeInternalError)
		}
	}
}

// PlayComputerMove triggers the engine for the side to move and waits for
// its move to be applied
func (p *Processor) PlayComputerMove(ctx context.Context, gameID string) ProcessorResponse {
	var moveCount int
	if err := p.svc.View(gameID, func(g *game.Game) error {
		moveCount = g.MoveCount()
		return nil
	}); err != nil {
		return p.errorFrom(err)
	}

	resp := p.Execute(NewMakeMoveCommand(gameID, core.MoveRequest{Move: ComputerMove}))
	if !resp.Success {
		return resp
	}
	return p.WaitForMove(ctx, gameID, moveCount)
}

// gameResponse builds the standard game response
func (p *Processor) gameResponse(gameID string) ProcessorResponse {
	var resp core.GameResponse
	err := p.svc.View(gameID, func(g *game.Game) error {
		resp = buildGameResponse(gameID, g)
		return nil
	})
	if err != nil {
		return p.errorFrom(err)
	}
	return ProcessorResponse{Success: true, Data: resp}
}

func buildGameResponse(gameID string, g *game.Game) core.GameResponse {
	resp := core.GameResponse{
		GameID:   gameID,
		FEN:      g.CurrentFEN(),
		StartFEN: g.InitialFEN(),
		Turn:     g.NextTurn().String(),
		State:    g.State().String(),
		Moves:    g.Moves(),
		Players: core.PlayersResponse{
			White: g.Player(core.ColorWhite),
			Black: g.Player(core.ColorBlack),
		},
		InCheck: g.InCheck(),
		Clocks: core.ClockResponse{
			WhiteMs: g.Remaining(core.ColorWhite).Milliseconds(),
			BlackMs: g.Remaining(core.ColorBlack).Milliseconds(),
		},
	}
	if w := g.Winner(); w != core.ColorNone {
		resp.Winner = w.String()
	}

	// Include last move if available
	if result := g.LastResult(); result != nil {
		resp.LastMove = &core.MoveInfo{
			Move:        result.Move,
			PlayerColor: result.PlayerColor.String(),
			Score:       result.Score,
			Depth:       result.Depth,
			Nodes:       result.Nodes,
		}
	}
	return resp
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}

// errorFrom maps a wrapped sentinel onto its response code
func (p *Processor) errorFrom(err error) ProcessorResponse {
	return p.errorResponse(err.Error(), core.CodeFor(err))
}

// Close cleans up resources
func (p *Processor) Close() error {
	p.cancel()
	return p.queue.Shutdown(5 * time.Second)
}
