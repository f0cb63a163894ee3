package core

// Request types

type CreateGameRequest struct {
	Repetition string `json:"repetition,omitempty" validate:"omitempty,oneof=window occurrence"`
}

type SquareRequest struct {
	Square string `json:"square" validate:"required,len=2"` // "e2"
}

type HoverRequest struct {
	Square string `json:"square" validate:"omitempty,len=2"` // empty clears the hover
}

type MoveRequest struct {
	Move string `json:"move" validate:"required,min=4,max=5"` // coordinate notation, optional promotion letter
}

// Response types

type GameResponse struct {
	GameID     string          `json:"gameId"`
	Grid       [8]string       `json:"grid"`  // row 0 is rank 8, '.' for empty
	Turn       string          `json:"turn"`  // "w" or "b"
	State      string          `json:"state"` // "in_progress", "check", "checkmate", etc
	MoveCount  int             `json:"moveCount"`
	Selected   string          `json:"selected,omitempty"`
	LegalMoves []string        `json:"legalMoves,omitempty"`
	Hovered    string          `json:"hovered,omitempty"`
	LastMove   *MoveInfo       `json:"lastMove,omitempty"`
	Repetition *RepetitionInfo `json:"repetition,omitempty"`
	Policy     string          `json:"policy"`
	Message    string          `json:"message,omitempty"`
}

type MoveInfo struct {
	Move        string `json:"move"`
	PlayerColor string `json:"playerColor,omitempty"` // "w" or "b"
	MoveNumber  int    `json:"moveNumber,omitempty"`
	Capture     bool   `json:"capture,omitempty"`
	Captured    string `json:"captured,omitempty"`
	Castled     bool   `json:"castled,omitempty"`
	EnPassant   bool   `json:"enPassant,omitempty"`
	PromotedTo  string `json:"promotedTo,omitempty"`
}

type RepetitionInfo struct {
	Moves [3]int `json:"moves"`
}

type SelectResponse struct {
	Square     string   `json:"square"`
	Piece      string   `json:"piece"`
	LegalMoves []string `json:"legalMoves"`
}

type BoardResponse struct {
	Key   string `json:"key"`
	Board string `json:"board"` // ASCII representation
}

type SnapshotInfo struct {
	MoveNumber int    `json:"moveNumber"`
	Key        string `json:"key"`
}

type HistoryResponse struct {
	GameID    string         `json:"gameId"`
	Policy    string         `json:"policy"`
	Snapshots []SnapshotInfo `json:"snapshots"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage"` // "ok", "degraded" or "disabled"
	Games   int    `json:"games"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
