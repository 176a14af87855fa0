package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/schema"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/sessions"
)

var ErrBadRequest = errors.New("bad request")

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

func decode(dec *schema.Decoder, dst any, src url.Values) error {
	if err := dec.Decode(dst, src); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

type NewGameDTO struct {
	Rows      int `schema:"rows,required"`
	Cols      int `schema:"cols,required"`
	MineCount int `schema:"mine_count,required"`
}

func (dto NewGameDTO) Params() mines.GameParams {
	return mines.GameParams{Rows: dto.Rows, Cols: dto.Cols, MineCount: dto.MineCount}
}

// Check validates the requested board and refuses boards with more than
// maxCells cells.
func (dto NewGameDTO) Check(maxCells int) error {
	p := dto.Params()
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Size() > maxCells {
		return fmt.Errorf(
			"%w: board of %d cells exceeds the limit of %d", ErrBadRequest, p.Size(), maxCells,
		)
	}
	return nil
}

// RevealDTO addresses a cell either by index or by row and col.
type RevealDTO struct {
	Index *int `schema:"index"`
	Row   *int `schema:"row"`
	Col   *int `schema:"col"`
}

func (dto RevealDTO) Resolve(p mines.GameParams) (int, error) {
	switch {
	case dto.Index != nil:
		return *dto.Index, nil
	case dto.Row != nil && dto.Col != nil:
		if !p.ValidatePosition(*dto.Row, *dto.Col) {
			return 0, fmt.Errorf(
				"%w: %d:%d is off the board", mines.ErrInvalidIndex, *dto.Row, *dto.Col,
			)
		}
		return p.Index(*dto.Row, *dto.Col), nil
	default:
		return 0, fmt.Errorf("%w: index or row and col required", ErrBadRequest)
	}
}

type HighscoresDTO struct {
	Rows      int `schema:"rows"`
	Cols      int `schema:"cols"`
	MineCount int `schema:"mine_count"`
	Limit     int `schema:"limit"`
}

func (dto HighscoresDTO) Params() (*mines.GameParams, error) {
	if dto.Rows == 0 && dto.Cols == 0 && dto.MineCount == 0 {
		return nil, nil
	}
	p := &mines.GameParams{Rows: dto.Rows, Cols: dto.Cols, MineCount: dto.MineCount}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

type GameSessionDTO struct {
	SessionID      string        `json:"session_id"`
	Grid           mines.Grid    `json:"grid"`
	Rows           int           `json:"rows"`
	Cols           int           `json:"cols"`
	MineCount      int           `json:"mine_count"`
	Outcome        mines.Outcome `json:"outcome"`
	Remaining      int           `json:"remaining"`
	ElapsedSeconds float64       `json:"elapsed_seconds"`
	CreatedAt      int64         `json:"created_at"`
	StartedAt      *int64        `json:"started_at,omitempty"`
	EndedAt        *int64        `json:"ended_at,omitempty"`
}

func unixMilli(t time.Time) *int64 {
	if t.IsZero() {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func NewGameSessionDTO(s sessions.Snapshot) *GameSessionDTO {
	return &GameSessionDTO{
		SessionID:      s.ID.String(),
		Grid:           s.Grid,
		Rows:           s.Params.Rows,
		Cols:           s.Params.Cols,
		MineCount:      s.Params.MineCount,
		Outcome:        s.Outcome,
		Remaining:      s.Remaining,
		ElapsedSeconds: s.Elapsed.Seconds(),
		CreatedAt:      s.CreatedAt.UnixMilli(),
		StartedAt:      unixMilli(s.StartedAt),
		EndedAt:        unixMilli(s.EndedAt),
	}
}

type NewGameResponse struct {
	Session *GameSessionDTO `json:"session"`
	Ticket  string          `json:"ticket"`
}

type RevealResponse struct {
	Session  *GameSessionDTO `json:"session"`
	Revealed []int           `json:"revealed"`
}
