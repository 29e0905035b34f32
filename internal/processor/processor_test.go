package processor

import (
	"context"
	"strings"
	"testing"
	"time"

	"minichess/internal/board"
	"minichess/internal/core"
	"minichess/internal/rules"
	"minichess/internal/service"
	"minichess/internal/testutil"
)

func newTestProcessor(t *testing.T) (*Processor, *service.Service) {
	t.Helper()
	svc := service.New()
	p := New(svc, Options{Workers: 2, Seed: 7})
	t.Cleanup(func() {
		p.Close()
		svc.Close()
	})
	return p, svc
}

func createGame(t *testing.T, p *Processor, mode core.Mode, fen string) core.GameResponse {
	t.Helper()
	settings := core.DefaultSettings()
	settings.Mode = mode
	resp := p.Execute(NewCreateGameCommand(core.CreateGameRequest{Settings: settings, FEN: fen}))
	if !resp.Success {
		t.Fatalf("create game: %+v", resp.Error)
	}
	return resp.Data.(core.GameResponse)
}

func assertErrorCode(t *testing.T, resp ProcessorResponse, code string) {
	t.Helper()
	if resp.Success || resp.Error == nil {
		t.Fatalf("expected error %s, got success", code)
	}
	testutil.AssertEqual(t, resp.Error.Code, code, resp.Error.Error)
}

func playMove(p *Processor, gameID, move string) ProcessorResponse {
	return p.Execute(NewMakeMoveCommand(gameID, core.MoveRequest{Move: move}))
}

func TestCreateGame(t *testing.T) {
	p, _ := newTestProcessor(t)

	g := createGame(t, p, core.ModePvP, "")
	testutil.AssertEqual(t, g.FEN, board.StartingFEN)
	testutil.AssertEqual(t, g.State, "active")
	testutil.AssertEqual(t, g.Turn, "w")
	testutil.AssertEqual(t, g.Clocks.BlackMs, (15 * time.Minute).Milliseconds(), "black clock is not running")
	testutil.AssertEqual(t, g.Players.Black.Type, core.PlayerHuman)

	ai := createGame(t, p, core.ModePvAI, "")
	testutil.AssertEqual(t, ai.Players.White.Type, core.PlayerHuman)
	testutil.AssertEqual(t, ai.Players.Black.Type, core.PlayerComputer)
	testutil.AssertEqual(t, ai.Players.Black.Depth, 3)

	loaded := createGame(t, p, core.ModePvP, "4k3/8/8/8/8/8/8/4K3 b - - 0 1")
	testutil.AssertEqual(t, loaded.Turn, "b")
}

func TestCreateGameRejects(t *testing.T) {
	p, _ := newTestProcessor(t)

	bad := core.DefaultSettings()
	bad.Mode = "bogus"
	assertErrorCode(t, p.Execute(NewCreateGameCommand(core.CreateGameRequest{Settings: bad})), core.ErrCodeInvalidRequest)

	assertErrorCode(t, p.Execute(NewCreateGameCommand(core.CreateGameRequest{
		Settings: core.DefaultSettings(),
		FEN:      "this is not a position",
	})), core.ErrCodeInvalidFEN)

	assertErrorCode(t, p.Execute(Command{Type: CmdCreateGame, Args: "nope"}), core.ErrCodeInvalidRequest)
	assertErrorCode(t, p.Execute(Command{Type: CommandType(99)}), core.ErrCodeInvalidRequest)
}

func TestHumanMoves(t *testing.T) {
	p, _ := newTestProcessor(t)
	id := createGame(t, p, core.ModePvP, "").GameID

	resp := playMove(p, id, "e2e4")
	testutil.AssertTrue(t, resp.Success)
	g := resp.Data.(core.GameResponse)
	testutil.AssertEqual(t, g.Moves, []string{"e2e4"})
	testutil.AssertEqual(t, g.Turn, "b")
	testutil.AssertEqual(t, g.LastMove.Move, "e2e4")
	testutil.AssertEqual(t, g.LastMove.PlayerColor, "w")

	tests := []struct {
		name string
		move string
		code string
	}{
		{"wrong side", "d2d4", core.ErrCodeInvalidMove},
		{"illegal geometry", "d7d4", core.ErrCodeInvalidMove},
		{"malformed", "zz", core.ErrCodeInvalidMove},
		{"bad square", "e7e9", core.ErrCodeInvalidMove},
		{"computer trigger in pvp", ComputerMove, core.ErrCodeNotHumanTurn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertErrorCode(t, playMove(p, id, tt.move), tt.code)
		})
	}

	resp = playMove(p, id, " D7-D5 ")
	testutil.AssertTrue(t, resp.Success, "case and separator are normalized")
	resp = playMove(p, id, "e4xd5")
	testutil.AssertEqual(t, resp.Data.(core.GameResponse).Moves, []string{"e2e4", "d7d5", "e4xd5"})

	assertErrorCode(t, playMove(p, "missing", "e2e4"), core.ErrCodeGameNotFound)
}

func TestComputerReplies(t *testing.T) {
	p, _ := newTestProcessor(t)
	id := createGame(t, p, core.ModePvAI, "").GameID

	assertErrorCode(t, playMove(p, id, ComputerMove), core.ErrCodeNotHumanTurn)
	testutil.AssertTrue(t, playMove(p, id, "e2e4").Success)
	assertErrorCode(t, playMove(p, id, "d2d4"), core.ErrCodeNotHumanTurn)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	resp := p.PlayComputerMove(ctx, id)
	if !resp.Success {
		t.Fatalf("computer move: %+v", resp.Error)
	}

	g := resp.Data.(core.GameResponse)
	testutil.AssertEqual(t, len(g.Moves), 2)
	testutil.AssertEqual(t, g.Turn, "w")
	testutil.AssertEqual(t, g.State, "active")
	testutil.AssertEqual(t, g.LastMove.PlayerColor, "b")
	testutil.AssertEqual(t, g.LastMove.Depth, 3)
	testutil.AssertTrue(t, g.LastMove.Nodes > 0)
	testutil.AssertEqual(t, g.LastMove.Move, g.Moves[1])
}

func TestComputerTakesKingAndReportsResult(t *testing.T) {
	p, svc := newTestProcessor(t)

	results := make(chan core.GameResult, 1)
	svc.AddListener(service.ResultListenerFunc(func(r core.GameResult) { results <- r }))

	id := createGame(t, p, core.ModeAIvAI, "k7/8/8/8/8/8/8/R3K3 w - - 0 1").GameID

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	resp := p.PlayComputerMove(ctx, id)
	testutil.AssertTrue(t, resp.Success)

	g := resp.Data.(core.GameResponse)
	testutil.AssertEqual(t, g.Moves, []string{"a1xa8"})
	testutil.AssertEqual(t, g.State, "checkmate")
	testutil.AssertEqual(t, g.Winner, "w")

	select {
	case r := <-results:
		testutil.AssertEqual(t, r.GameID, id)
		testutil.AssertEqual(t, r.Outcome.Winner, core.ColorWhite)
	case <-time.After(time.Second):
		t.Fatal("result listener not called")
	}

	assertErrorCode(t, playMove(p, id, ComputerMove), core.ErrCodeGameOver)
}

func TestStaleEngineResultIsDiscarded(t *testing.T) {
	p, svc := newTestProcessor(t)
	id := createGame(t, p, core.ModeAIvAI, "").GameID
	e2e4 := rules.Move{FromRow: 6, FromCol: 4, ToRow: 4, ToCol: 4}

	testutil.AssertNoError(t, svc.UpdateGameState(id, core.StatePending))
	p.applyEngineResult(core.ColorWhite, EngineResult{GameID: id, Ply: 3, Move: e2e4})

	g, _ := svc.GetGame(id)
	testutil.AssertEqual(t, g.MoveCount(), 0, "result for another ply")
	testutil.AssertEqual(t, g.State(), core.StatePending)

	// no move reopens the game
	p.applyEngineResult(core.ColorWhite, EngineResult{GameID: id, Ply: 0, Move: rules.NoMove})
	testutil.AssertEqual(t, g.State(), core.StateActive)

	// nothing to apply once the game is gone
	testutil.AssertTrue(t, p.Execute(NewDeleteGameCommand(id)).Success)
	p.applyEngineResult(core.ColorWhite, EngineResult{GameID: id, Ply: 0, Move: e2e4})
}

func TestPendingBlocksCommands(t *testing.T) {
	p, svc := newTestProcessor(t)
	id := createGame(t, p, core.ModePvP, "").GameID
	testutil.AssertNoError(t, svc.UpdateGameState(id, core.StatePending))

	assertErrorCode(t, playMove(p, id, "e2e4"), core.ErrCodeInvalidRequest)
	assertErrorCode(t, p.Execute(NewUndoMoveCommand(id, core.UndoRequest{Count: 1})), core.ErrCodeInvalidRequest)
	assertErrorCode(t, p.Execute(NewDeleteGameCommand(id)), core.ErrCodeInvalidRequest)
}

func TestUndo(t *testing.T) {
	p, _ := newTestProcessor(t)
	id := createGame(t, p, core.ModePvP, "").GameID

	assertErrorCode(t, p.Execute(NewUndoMoveCommand(id, core.UndoRequest{Count: 1})), core.ErrCodeInvalidRequest)
	assertErrorCode(t, p.Execute(NewUndoMoveCommand(id, core.UndoRequest{Count: 0})), core.ErrCodeInvalidRequest)

	playMove(p, id, "e2e4")
	playMove(p, id, "e7e5")
	resp := p.Execute(NewUndoMoveCommand(id, core.UndoRequest{Count: 2}))
	testutil.AssertTrue(t, resp.Success)
	testutil.AssertEqual(t, resp.Data.(core.GameResponse).FEN, board.StartingFEN)

	// default count is one
	playMove(p, id, "e2e4")
	resp = p.Execute(Command{Type: CmdUndoMove, GameID: id})
	testutil.AssertEqual(t, len(resp.Data.(core.GameResponse).Moves), 0)
}

func TestQueries(t *testing.T) {
	p, _ := newTestProcessor(t)
	id := createGame(t, p, core.ModePvP, "").GameID

	resp := p.Execute(NewLegalMovesCommand(id, core.LegalMovesRequest{Square: "e2"}))
	testutil.AssertEqual(t, resp.Data, core.LegalMovesResponse{From: "e2", To: []string{"e3", "e4"}})

	resp = p.Execute(NewLegalMovesCommand(id, core.LegalMovesRequest{Square: "e5"}))
	testutil.AssertEqual(t, resp.Data, core.LegalMovesResponse{From: "e5", To: []string{}})

	assertErrorCode(t, p.Execute(NewLegalMovesCommand(id, core.LegalMovesRequest{Square: "z9"})), core.ErrCodeInvalidRequest)
	assertErrorCode(t, p.Execute(NewLegalMovesCommand(id, core.LegalMovesRequest{Square: "e22"})), core.ErrCodeInvalidRequest)

	resp = p.Execute(NewEvaluateCommand(id))
	testutil.AssertEqual(t, resp.Data, core.EvalResponse{FEN: board.StartingFEN, Score: 0, WhiteMoves: 20, BlackMoves: 20})

	resp = p.Execute(NewGetBoardCommand(id))
	br := resp.Data.(core.BoardResponse)
	testutil.AssertTrue(t, strings.Contains(br.Board, "r n b q k b n r"))

	resp = p.Execute(NewGetGameCommand(id))
	testutil.AssertEqual(t, resp.Data.(core.GameResponse).GameID, id)

	testutil.AssertTrue(t, p.Execute(NewDeleteGameCommand(id)).Success)
	assertErrorCode(t, p.Execute(NewGetGameCommand(id)), core.ErrCodeGameNotFound)
	assertErrorCode(t, p.Execute(NewGetBoardCommand(id)), core.ErrCodeGameNotFound)
	assertErrorCode(t, p.Execute(NewEvaluateCommand(id)), core.ErrCodeGameNotFound)
}

func TestEngineUnavailableReopensGame(t *testing.T) {
	p, svc := newTestProcessor(t)
	g := createGame(t, p, core.ModeAIvAI, "")

	testutil.AssertNoError(t, p.queue.Shutdown(time.Second))

	assertErrorCode(t, playMove(p, g.GameID, ComputerMove), core.ErrCodeResourceLimit)

	game, err := svc.GetGame(g.GameID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, game.State(), core.StateActive, "rolled back from pending")
	testutil.AssertEqual(t, game.MoveCount(), 0)
}
