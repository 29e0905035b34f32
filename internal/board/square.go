package board

const (
	files = "abcdefgh"
	ranks = "87654321"
)

// Algebraic returns the file+rank name of a square, "" when out of bounds
func Algebraic(row, col int) string {
	if !InBounds(row, col) {
		return ""
	}
	return string([]byte{files[col], ranks[row]})
}

// ParseSquare is the inverse of Algebraic
func ParseSquare(s string) (row, col int, ok bool) {
	if len(s) != 2 {
		return 0, 0, false
	}
	f, r := s[0], s[1]
	if f >= 'A' && f <= 'H' {
		f += 'a' - 'A'
	}
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return 0, 0, false
	}
	return int('8' - r), int(f - 'a'), true
}
