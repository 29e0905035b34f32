package engine

import (
	"math"
	"math/rand"
	"time"

	"minichess/internal/board"
	"minichess/internal/core"
	"minichess/internal/rules"
)

// Search bounds
const (
	MinDepth = 1
	MaxDepth = 6
)

// SearchResult is the outcome of a root search. Move is rules.NoMove when
// the side to move has nothing to play.
type SearchResult struct {
	Move  rules.Move
	Score float64
	Depth int
	Nodes int
}

// Searcher runs one search at a time. Its random source only perturbs root
// scores, so a Searcher must not be shared between goroutines.
type Searcher struct {
	rng   *rand.Rand
	nodes int
}

// NewSearcher creates a searcher drawing root noise from rng. A nil rng gets
// a time-seeded source.
func NewSearcher(rng *rand.Rand) *Searcher {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Searcher{rng: rng}
}

// ChooseMove returns the best move for side, or rules.NoMove
func (s *Searcher) ChooseMove(b board.Board, side core.Color, depth, randomness int) rules.Move {
	return s.Search(b, side, depth, randomness).Move
}

// Search runs minimax to depth plies from b with side to move. When white
// is to move each root child's score is shifted by (u-0.5)*randomness*10
// before comparison; black's root and randomness 0 give deterministic play.
func (s *Searcher) Search(b board.Board, side core.Color, depth, randomness int) SearchResult {
	s.nodes = 0
	depth = min(max(depth, MinDepth), MaxDepth)
	res := SearchResult{Move: rules.NoMove, Depth: depth}

	if isOver(&b) {
		return res
	}
	moves := rules.AllMoves(&b, side)
	if len(moves) == 0 {
		return res
	}

	maximizing := side == core.ColorWhite
	alpha, beta := math.Inf(-1), math.Inf(1)
	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}

	for _, m := range moves {
		next, _ := rules.Apply(b, m)
		score := s.minimax(&next, depth-1, !maximizing, alpha, beta)
		if maximizing && randomness > 0 {
			score += (s.rng.Float64() - 0.5) * float64(randomness) * 10
		}

		if maximizing {
			if score > best {
				best, res.Move = score, m
			}
			alpha = math.Max(alpha, score)
		} else {
			if score < best {
				best, res.Move = score, m
			}
			beta = math.Min(beta, score)
		}
		if beta <= alpha {
			break
		}
	}

	res.Score = best
	res.Nodes = s.nodes
	return res
}

// Nodes is the node count of the last search
func (s *Searcher) Nodes() int {
	return s.nodes
}

func (s *Searcher) minimax(b *board.Board, depth int, maximizing bool, alpha, beta float64) float64 {
	s.nodes++
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

	if maximizing {
		best := math.Inf(-1)
		for _, m := range moves {
			next, _ := rules.Apply(*b, m)
			score := s.minimax(&next, depth-1, false, alpha, beta)
			best = math.Max(best, score)
			alpha = math.Max(alpha, score)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := math.Inf(1)
	for _, m := range moves {
		next, _ := rules.Apply(*b, m)
		score := s.minimax(&next, depth-1, true, alpha, beta)
		best = math.Min(best, score)
		beta = math.Min(beta, score)
		if beta <= alpha {
			break
		}
	}
	return best
}

// isOver is the leaf condition: a king has been captured
func isOver(b *board.Board) bool {
	return !b.HasKing(core.ColorWhite) || !b.HasKing(core.ColorBlack)
}
