// Package client is a typed client for the chess-server session API.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"

	"github.com/gofiber/fiber/v2"
)

const (
	requestTimeout = 10 * time.Second
	pollTimeout    = 35 * time.Second // above the server's long-poll timeout
)

// APIError is a non-2xx response decoded from the server's error body
type APIError struct {
	Status int
	Body   core.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Body.Details != "" {
		return fmt.Sprintf("%d %s: %s (%s)", e.Status, e.Body.Code, e.Body.Error, e.Body.Details)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Body.Code, e.Body.Error)
}

// IsNotFound reports whether err is a GAME_NOT_FOUND response
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Body.Code == core.ErrCodeGameNotFound
}

type Client struct {
	baseURL string
	timeout time.Duration
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: requestTimeout,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(method, path string, timeout time.Duration, body, result any) error {
	var a *fiber.Agent
	switch method {
	case fiber.MethodGet:
		a = fiber.Get(c.baseURL + path)
	case fiber.MethodPost:
		a = fiber.Post(c.baseURL + path)
	case fiber.MethodDelete:
		a = fiber.Delete(c.baseURL + path)
	default:
		return fmt.Errorf("unsupported method %s", method)
	}
	a.Timeout(timeout)
	if body != nil {
		a.JSON(body)
	}
	if err := a.Parse(); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	status, respBody, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}

	if status >= fiber.StatusBadRequest {
		apiErr := &APIError{Status: status}
		if err := json.Unmarshal(respBody, &apiErr.Body); err != nil {
			apiErr.Body.Error = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

func gamePath(gameID string, suffix ...string) string {
	p := "/api/v1/games/" + url.PathEscape(gameID)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

// API Methods

func (c *Client) Health() (*core.HealthResponse, error) {
	var resp core.HealthResponse
	err := c.do(fiber.MethodGet, "/health", c.timeout, nil, &resp)
	return &resp, err
}

// CreateGame starts a session; an empty policy selects the server default
func (c *Client) CreateGame(policy string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.do(fiber.MethodPost, "/api/v1/games", c.timeout, &core.CreateGameRequest{Repetition: policy}, &resp)
	return &resp, err
}

func (c *Client) GetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.do(fiber.MethodGet, gamePath(gameID), c.timeout, nil, &resp)
	return &resp, err
}

// WaitForChange long-polls until the move count of the session differs from
// moveCount or the server's wait times out
func (c *Client) WaitForChange(gameID string, moveCount int) (*core.GameResponse, error) {
	var resp core.GameResponse
	path := fmt.Sprintf("%s?wait=true&moveCount=%d", gamePath(gameID), moveCount)
	err := c.do(fiber.MethodGet, path, pollTimeout, nil, &resp)
	return &resp, err
}

func (c *Client) Select(gameID, square string) (*core.SelectResponse, error) {
	var resp core.SelectResponse
	err := c.do(fiber.MethodPost, gamePath(gameID, "select"), c.timeout, &core.SquareRequest{Square: square}, &resp)
	return &resp, err
}

func (c *Client) Hover(gameID, square string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.do(fiber.MethodPost, gamePath(gameID, "hover"), c.timeout, &core.HoverRequest{Square: square}, &resp)
	return &resp, err
}

func (c *Client) MakeMove(gameID, move string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.do(fiber.MethodPost, gamePath(gameID, "moves"), c.timeout, &core.MoveRequest{Move: move}, &resp)
	return &resp, err
}

func (c *Client) Reset(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.do(fiber.MethodPost, gamePath(gameID, "reset"), c.timeout, nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(gameID string) error {
	return c.do(fiber.MethodDelete, gamePath(gameID), c.timeout, nil, nil)
}

func (c *Client) GetBoard(gameID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.do(fiber.MethodGet, gamePath(gameID, "board"), c.timeout, nil, &resp)
	return &resp, err
}

func (c *Client) History(gameID string) (*core.HistoryResponse, error) {
	var resp core.HistoryResponse
	err := c.do(fiber.MethodGet, gamePath(gameID, "history"), c.timeout, nil, &resp)
	return &resp, err
}

// RenderState rebuilds the drawable projection from a game response
func RenderState(resp *core.GameResponse) (game.RenderState, error) {
	rs := game.RenderState{
		Grid:      resp.Grid,
		MoveCount: resp.MoveCount,
		Message:   resp.Message,
	}

	var ok bool
	if rs.Turn, ok = core.ParseColor(resp.Turn); !ok {
		return rs, fmt.Errorf("unknown turn %q", resp.Turn)
	}
	if rs.State, ok = core.ParseState(resp.State); !ok {
		return rs, fmt.Errorf("unknown state %q", resp.State)
	}

	if resp.LastMove != nil {
		m, _, err := board.ParseMove(resp.LastMove.Move)
		if err != nil {
			return rs, fmt.Errorf("last move: %w", err)
		}
		rs.LastMove = &m
	}
	if resp.Selected != "" {
		sq, err := board.ParseSquare(resp.Selected)
		if err != nil {
			return rs, fmt.Errorf("selected square: %w", err)
		}
		rs.Selected = &sq
		for _, text := range resp.LegalMoves {
			m, _, err := board.ParseMove(text)
			if err != nil {
				return rs, fmt.Errorf("legal move: %w", err)
			}
			rs.LegalMoves = append(rs.LegalMoves, m)
		}
	}
	if resp.Hovered != "" {
		sq, err := board.ParseSquare(resp.Hovered)
		if err != nil {
			return rs, fmt.Errorf("hovered square: %w", err)
		}
		rs.Hovered = &sq
	}
	if resp.Repetition != nil {
		rs.Repetition = game.Repetition{Detected: true, Moves: resp.Repetition.Moves}
	}
	return rs, nil
}
