package core

// Request types

type CreateGameRequest struct {
	Settings GameSettings `json:"settings" validate:"required"`
	FEN      string       `json:"fen,omitempty" validate:"omitempty,max=100"`
}

type MoveRequest struct {
	Move string `json:"move" validate:"required,min=4,max=5"` // "cccc" for computer move, "e2e4" / "e4xd5" otherwise
}

type UndoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=300"`
}

type LegalMovesRequest struct {
	Square string `json:"square" validate:"required,len=2"`
}

// Response types

type GameResponse struct {
	GameID   string          `json:"gameId"`
	FEN      string          `json:"fen"`
	StartFEN string          `json:"startFen"`
	Turn     string          `json:"turn"`  // "w" or "b"
	State    string          `json:"state"` // "active", "checkmate", etc
	Winner   string          `json:"winner,omitempty"`
	Moves    []string        `json:"moves"`
	Players  PlayersResponse `json:"players"`
	LastMove *MoveInfo       `json:"lastMove,omitempty"`
	InCheck  bool            `json:"inCheck,omitempty"`
	Clocks   ClockResponse   `json:"clocks"`
}

type PlayersResponse struct {
	White *Player `json:"white"`
	Black *Player `json:"black"`
}

type ClockResponse struct {
	WhiteMs int64 `json:"whiteMs"`
	BlackMs int64 `json:"blackMs"`
}

type MoveInfo struct {
	Move        string `json:"move"`
	PlayerColor string `json:"playerColor"` // "w" or "b"
	Score       int    `json:"score,omitempty"`
	Depth       int    `json:"depth,omitempty"`
	Nodes       int    `json:"nodes,omitempty"`
}

type BoardResponse struct {
	FEN   string `json:"fen"`
	Board string `json:"board"` // ASCII representation
}

type LegalMovesResponse struct {
	From string   `json:"from"`
	To   []string `json:"to"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type EvalResponse struct {
	FEN        string `json:"fen"`
	Score      int    `json:"score"` // centipawns, positive favors white
	WhiteMoves int    `json:"whiteMoves"`
	BlackMoves int    `json:"blackMoves"`
}
