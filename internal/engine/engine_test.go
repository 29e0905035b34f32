package engine

import (
	"math"
	"math/rand"
	"testing"

	"minichess/internal/board"
	"minichess/internal/core"
	"minichess/internal/rules"
	"minichess/internal/testutil"
)

func mustFEN(t *testing.T, fen string) board.Board {
	t.Helper()
	b, _, err := board.ParseFEN(fen)
	testutil.AssertNoError(t, err, "ParseFEN(%q)", fen)
	return b
}

func newSearcher(seed int64) *Searcher {
	return NewSearcher(rand.New(rand.NewSource(seed)))
}

func TestEvaluateStartIsBalanced(t *testing.T) {
	b := board.Initial()
	testutil.AssertEqual(t, Evaluate(&b), 0)
}

func TestEvaluateTerms(t *testing.T) {
	// lone kings: material and mobility cancel out
	kings := mustFEN(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	testutil.AssertEqual(t, Evaluate(&kings), 0)

	// pawn on e2: 100 material, 50 from the table, one extra move of mobility
	pawn := mustFEN(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	testutil.AssertEqual(t, Evaluate(&pawn), 160)

	testutil.AssertEqual(t, positionValue(board.Knight, 7, 6), -40, "white knight on g1")
	testutil.AssertEqual(t, positionValue(-board.Knight, 0, 6), -40, "black knight on g8")
	testutil.AssertEqual(t, positionValue(board.Rook, 4, 4), 0, "rooks have no table")
}

func TestEvaluateAntisymmetric(t *testing.T) {
	fens := []string{
		"4k3/8/8/3q4/8/8/8/R3K3 w - - 0 1",
		"r3k2r/8/8/8/2B5/8/8/4K2Q w - - 0 1",
		"1b2k3/8/8/8/8/8/1R6/Q3K3 w - - 0 1",
	}
	for _, fen := range fens {
		b := mustFEN(t, fen)
		m := b.Mirror()
		if got, want := Evaluate(&m), -Evaluate(&b); got != want {
			t.Errorf("%s: Evaluate(mirror) = %d, want %d", fen, got, want)
		}
	}
}

func TestChooseMoveDeterministicWithoutRandomness(t *testing.T) {
	b := board.Initial()
	first := newSearcher(1).ChooseMove(b, core.ColorWhite, 2, 0)
	second := newSearcher(99).ChooseMove(b, core.ColorWhite, 2, 0)

	testutil.AssertFalse(t, first.IsNone())
	testutil.AssertEqual(t, first, second)
	testutil.AssertTrue(t, rules.IsLegalMove(&b, first, core.ColorWhite), "chosen move %s", first)
}

func TestChooseMoveSameSeedSameMove(t *testing.T) {
	b := board.Initial()
	a := newSearcher(42).ChooseMove(b, core.ColorWhite, 2, 50)
	c := newSearcher(42).ChooseMove(b, core.ColorWhite, 2, 50)
	testutil.AssertEqual(t, a, c)
}

func TestRootNoiseOnlyForWhite(t *testing.T) {
	tests := []struct {
		name   string
		side   core.Color
		varied bool
	}{
		{"white varies", core.ColorWhite, true},
		{"black is deterministic", core.ColorBlack, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := board.Initial()
			best := newSearcher(0).ChooseMove(b, tt.side, 1, 0)

			seen := make(map[rules.Move]bool)
			for seed := int64(0); seed < 20; seed++ {
				seen[newSearcher(seed).ChooseMove(b, tt.side, 1, 100)] = true
			}

			if tt.varied {
				testutil.AssertTrue(t, len(seen) > 1, "20 noisy searches all chose the same move")
				return
			}
			testutil.AssertEqual(t, len(seen), 1, "distinct moves")
			testutil.AssertTrue(t, seen[best], "noisy choice %v should match the noise-free move %v", seen, best)
		})
	}
}

func TestCapturesHangingQueen(t *testing.T) {
	b := mustFEN(t, "7k/8/8/q7/8/8/8/R6K w - - 0 1")
	testutil.AssertEqual(t, newSearcher(1).ChooseMove(b, core.ColorWhite, 2, 0), rules.Move{FromRow: 7, FromCol: 0, ToRow: 3, ToCol: 0})

	// same position with colors swapped, black to move
	testutil.AssertEqual(t, newSearcher(1).ChooseMove(b.Mirror(), core.ColorBlack, 2, 0), rules.Move{FromRow: 0, FromCol: 0, ToRow: 4, ToCol: 0})
}

func TestTakesTheKing(t *testing.T) {
	b := mustFEN(t, "3k4/8/8/8/8/8/8/3Q3K w - - 0 1")
	res := newSearcher(1).Search(b, core.ColorWhite, 3, 0)
	testutil.AssertEqual(t, res.Move, rules.Move{FromRow: 7, FromCol: 3, ToRow: 0, ToCol: 3})
	testutil.AssertTrue(t, res.Score > KingValue/2, "score %v", res.Score)
}

func TestNoMoveAvailable(t *testing.T) {
	// white king boxed in by its own stuck pawns
	var boxed board.Board
	boxed[0][0] = board.King
	boxed[0][1], boxed[1][0], boxed[1][1] = board.Pawn, board.Pawn, board.Pawn
	boxed[7][7] = -board.King
	testutil.AssertEqual(t, newSearcher(1).ChooseMove(boxed, core.ColorWhite, 3, 20), rules.NoMove)

	noKing := board.Initial()
	noKing[0][4] = board.Empty
	res := newSearcher(1).Search(noKing, core.ColorWhite, 2, 0)
	testutil.AssertEqual(t, res.Move, rules.NoMove)
	testutil.AssertEqual(t, res.Move.Tuple(), [4]int{0, 0, 0, 0})
}

func TestSearchClampsDepth(t *testing.T) {
	b := board.Initial()
	s := newSearcher(1)
	testutil.AssertEqual(t, s.Search(b, core.ColorWhite, 0, 0).Depth, MinDepth)
	res := s.Search(b, core.ColorWhite, 1, 0)
	testutil.AssertEqual(t, res.Nodes, 20, "depth 1 visits each root child once")
	testutil.AssertEqual(t, s.Nodes(), 20)
}

func TestSearchDoesNotMutateBoard(t *testing.T) {
	b := board.Initial()
	before := b
	newSearcher(1).Search(b, core.ColorWhite, 3, 10)
	testutil.AssertEqual(t, b, before)
}

// fullMinimax is an unpruned reference with the same leaf rules
func fullMinimax(b *board.Board, depth int, maximizing bool) float64 {
	if depth == 0 || isOver(b) {
		return float64(Evaluate(b))
	}
	side := core.ColorBlack
	if maximizing {
		side = core.ColorWhite
	}
	moves := rules.AllMoves(b, side)
	if len(moves) == 0 {
		return float64(Evaluate(b))
	}
	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	for _, m := range moves {
		next, _ := rules.Apply(*b, m)
		score := fullMinimax(&next, depth-1, !maximizing)
		if maximizing {
			best = math.Max(best, score)
		} else {
			best = math.Min(best, score)
		}
	}
	return best
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	tests := []struct {
		fen   string
		side  core.Color
		depth int
	}{
		{"4k3/8/8/3q4/8/2N5/8/4K3 w - - 0 1", core.ColorWhite, 3},
		{"4k3/8/8/3q4/8/2N5/8/4K3 b - - 0 1", core.ColorBlack, 3},
		{"r3k3/pp6/8/8/8/8/6PP/3RK3 w - - 0 1", core.ColorWhite, 2},
	}
	for _, tt := range tests {
		b := mustFEN(t, tt.fen)
		res := newSearcher(1).Search(b, tt.side, tt.depth, 0)
		want := fullMinimax(&b, tt.depth, tt.side == core.ColorWhite)
		testutil.AssertEqual(t, res.Score, want, tt.fen)
	}
}
