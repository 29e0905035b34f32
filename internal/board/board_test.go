package board

import (
	"strings"
	"testing"

	"minichess/internal/core"
	"minichess/internal/testutil"
)

func TestInitial(t *testing.T) {
	b := Initial()

	tests := []struct {
		row, col int
		want     Piece
	}{
		{0, 0, -Rook},
		{7, 0, Rook},
		{1, 0, -Pawn},
		{6, 0, Pawn},
		{0, 4, -King},
		{7, 4, King},
		{7, 3, Queen},
		{4, 4, Empty},
	}
	for _, tt := range tests {
		if got := b[tt.row][tt.col]; got != tt.want {
			t.Errorf("Initial()[%d][%d] = %d, want %d", tt.row, tt.col, got, tt.want)
		}
	}

	// mutating a copy must not leak into the next call
	b[4][4] = Queen
	if Initial()[4][4] != Empty {
		t.Error("Initial() returned a shared board")
	}
}

func TestAlgebraicRoundTrip(t *testing.T) {
	t.Parallel()
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			s := Algebraic(r, c)
			gr, gc, ok := ParseSquare(s)
			if !ok || gr != r || gc != c {
				t.Errorf("ParseSquare(Algebraic(%d, %d) = %q) = (%d, %d, %v)", r, c, s, gr, gc, ok)
			}
		}
	}
}

func TestAlgebraic(t *testing.T) {
	tests := []struct {
		row, col int
		want     string
	}{
		{7, 0, "a1"},
		{0, 7, "h8"},
		{6, 4, "e2"},
		{4, 4, "e4"},
		{-1, 0, ""},
		{0, 8, ""},
	}
	for _, tt := range tests {
		if got := Algebraic(tt.row, tt.col); got != tt.want {
			t.Errorf("Algebraic(%d, %d) = %q, want %q", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestParseSquareRejects(t *testing.T) {
	for _, s := range []string{"", "e", "e9", "i1", "e0", "e44", "11"} {
		if _, _, ok := ParseSquare(s); ok {
			t.Errorf("ParseSquare(%q) ok = true, want false", s)
		}
	}
	r, c, ok := ParseSquare("E2")
	testutil.AssertTrue(t, ok && r == 6 && c == 4, "uppercase file")
}

func TestInBoundsAndAt(t *testing.T) {
	b := Initial()
	testutil.AssertFalse(t, InBounds(8, 0))
	testutil.AssertFalse(t, InBounds(0, -1))
	testutil.AssertTrue(t, InBounds(7, 7))
	testutil.AssertEqual(t, b.At(-1, 3), Empty)
	testutil.AssertEqual(t, b.At(7, 4), King)
}

func TestPiecePredicates(t *testing.T) {
	tests := []struct {
		p            Piece
		white, black bool
		kind         Piece
		color        core.Color
		letter       byte
	}{
		{Pawn, true, false, Pawn, core.ColorWhite, 'P'},
		{-Knight, false, true, Knight, core.ColorBlack, 'n'},
		{-King, false, true, King, core.ColorBlack, 'k'},
		{Queen, true, false, Queen, core.ColorWhite, 'Q'},
		{Empty, false, false, Empty, core.ColorNone, '.'},
	}
	for _, tt := range tests {
		if tt.p.IsWhite() != tt.white || tt.p.IsBlack() != tt.black {
			t.Errorf("%d: IsWhite/IsBlack = %v/%v", tt.p, tt.p.IsWhite(), tt.p.IsBlack())
		}
		testutil.AssertEqual(t, tt.p.Type(), tt.kind, "Type of %d", tt.p)
		testutil.AssertEqual(t, tt.p.Color(), tt.color, "Color of %d", tt.p)
		testutil.AssertEqual(t, tt.p.Letter(), tt.letter, "Letter of %d", tt.p)
		testutil.AssertEqual(t, tt.p.IsEmpty(), tt.p == Empty)
	}
	testutil.AssertTrue(t, Rook.IsOpponentOf(-Pawn))
	testutil.AssertFalse(t, Rook.IsOpponentOf(Pawn))
	testutil.AssertFalse(t, Rook.IsOpponentOf(Empty))
	testutil.AssertEqual(t, Make(Queen, core.ColorBlack), -Queen)
	testutil.AssertEqual(t, Make(-Queen, core.ColorWhite), Queen)
}

func TestApply(t *testing.T) {
	b := Initial()
	next, captured := b.Apply(6, 4, 4, 4)

	testutil.AssertEqual(t, captured, Empty)
	testutil.AssertEqual(t, next[4][4], Pawn)
	testutil.AssertEqual(t, next[6][4], Empty)
	testutil.AssertEqual(t, b[6][4], Pawn, "receiver must be untouched")

	next[3][3] = -Pawn
	after, captured := next.Apply(4, 4, 3, 3)
	testutil.AssertEqual(t, captured, -Pawn)
	testutil.AssertEqual(t, after[3][3], Pawn)
}

func TestFindKingAndMirror(t *testing.T) {
	b := Initial()
	r, c, ok := b.FindKing(core.ColorBlack)
	testutil.AssertTrue(t, ok && r == 0 && c == 4)

	b[0][4] = Empty
	testutil.AssertFalse(t, b.HasKing(core.ColorBlack))
	testutil.AssertTrue(t, b.HasKing(core.ColorWhite))

	start := Initial()
	testutil.AssertEqual(t, start.Mirror(), start, "start position is mirror-symmetric")
}

func TestFENRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		turn core.Color
	}{
		{"start", StartingFEN, core.ColorWhite},
		{"open game", "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w - - 0 2", core.ColorWhite},
		{"kings only black to move", "4k3/8/8/8/8/8/8/4K3 b - - 0 1", core.ColorBlack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, turn, err := ParseFEN(tt.fen)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, turn, tt.turn)

			fields := strings.Fields(tt.fen)
			got := b.FEN(turn, 1)
			testutil.AssertEqual(t, strings.Fields(got)[0], fields[0])
		})
	}
}

func TestParseFENStartMatchesInitial(t *testing.T) {
	b, _, err := ParseFEN(StartingFEN)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, b, Initial())
}

func TestParseFENErrors(t *testing.T) {
	for _, fen := range []string{"not a fen", "8/8/8 w - - 0 1", "kk6/8/8/8/8/8/8/4K3 w - - 0 1"} {
		_, _, err := ParseFEN(fen)
		testutil.AssertErrorIs(t, err, core.ErrInvalidFEN, "ParseFEN(%q)", fen)
	}
}

func TestASCII(t *testing.T) {
	b := Initial()
	ascii := b.ASCII()
	lines := strings.Split(ascii, "\n")
	testutil.AssertEqual(t, len(lines), 10)
	testutil.AssertEqual(t, lines[1], "8 r n b q k b n r  8")
	testutil.AssertEqual(t, lines[4], "5 . . . . . . . .  5")
}

func TestParseFENPadsMissingFields(t *testing.T) {
	tests := []struct {
		fen  string
		turn core.Color
	}{
		{"4k3/8/8/8/8/8/8/4K3", core.ColorWhite},
		{"4k3/8/8/8/8/8/8/4K3 b", core.ColorBlack},
		{"4k3/8/8/8/8/8/8/4K3 b -", core.ColorBlack},
		{"4k3/8/8/8/8/8/8/4K3 w - -", core.ColorWhite},
		{"  4k3/8/8/8/8/8/8/4K3 b - - 3 ", core.ColorBlack},
	}
	for _, tt := range tests {
		t.Run(tt.fen, func(t *testing.T) {
			b, turn, err := ParseFEN(tt.fen)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, turn, tt.turn)
			testutil.AssertTrue(t, b.HasKing(core.ColorWhite) && b.HasKing(core.ColorBlack))
		})
	}
}
