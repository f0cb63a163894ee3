package core

import "errors"

// Rule violations, all recoverable by the caller
var (
	ErrOutOfBounds     = errors.New("square out of bounds")
	ErrIllegalMove     = errors.New("illegal move")
	ErrNoPieceSelected = errors.New("no piece selected")
	ErrGameOver        = errors.New("game is over")
	ErrGameNotFound    = errors.New("game not found")
)

// Error codes
const (
	ErrCodeGameNotFound      = "GAME_NOT_FOUND"
	ErrCodeInvalidMove       = "INVALID_MOVE"
	ErrCodeOutOfBounds       = "OUT_OF_BOUNDS"
	ErrCodeNoPieceSelected   = "NO_PIECE_SELECTED"
	ErrCodeGameOver          = "GAME_OVER"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrCodeInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// ErrorCode maps an engine error to its transport error code
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrGameNotFound):
		return ErrCodeGameNotFound
	case errors.Is(err, ErrIllegalMove):
		return ErrCodeInvalidMove
	case errors.Is(err, ErrOutOfBounds):
		return ErrCodeOutOfBounds
	case errors.Is(err, ErrNoPieceSelected):
		return ErrCodeNoPieceSelected
	case errors.Is(err, ErrGameOver):
		return ErrCodeGameOver
	default:
		return ErrCodeInternalError
	}
}
