package rules

import "minichess/internal/board"

// MoveKind tags a played move. Only Normal and Capture are produced by this
// generator; the others are reserved so history consumers can switch over
// the full set once promotion, castling and en passant exist.
type MoveKind int

const (
	KindNormal MoveKind = iota
	KindCapture
	KindPromotion
	KindCastle
	KindEnPassant
)

func (k MoveKind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindCapture:
		return "capture"
	case KindPromotion:
		return "promotion"
	case KindCastle:
		return "castle"
	case KindEnPassant:
		return "en-passant"
	default:
		return "unknown"
	}
}

// CastleSide qualifies a KindCastle record
type CastleSide int

const (
	CastleNone CastleSide = iota
	CastleKingSide
	CastleQueenSide
)

// MoveRecord is one entry of a game's history. Promotion and Castle are only
// meaningful for their matching Kind.
type MoveRecord struct {
	Move      Move
	Piece     board.Piece
	Captured  board.Piece
	Kind      MoveKind
	Promotion board.Piece
	Castle    CastleSide
	Notation  string
}

// NewRecord describes m as played on b, before the move is applied
func NewRecord(b *board.Board, m Move) MoveRecord {
	piece := b.At(m.FromRow, m.FromCol)
	captured := b.At(m.ToRow, m.ToCol)
	kind := KindNormal
	if captured != board.Empty {
		kind = KindCapture
	}
	return MoveRecord{
		Move:     m,
		Piece:    piece,
		Captured: captured,
		Kind:     kind,
		Notation: Notation(m, captured),
	}
}
