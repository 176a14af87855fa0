package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vancomm/sweeper/internal/mines"
)

var ErrAlreadyRecorded = errors.New("score already recorded for session")

// Score is the result of one finished game. Boards themselves are never
// stored.
type Score struct {
	SessionID  string    `json:"session_id" db:"session_id"`
	Rows       int       `json:"rows" db:"rows"`
	Cols       int       `json:"cols" db:"cols"`
	MineCount  int       `json:"mine_count" db:"mine_count"`
	Won        bool      `json:"won" db:"won"`
	ElapsedMs  int64     `json:"elapsed_ms" db:"elapsed_ms"`
	FinishedAt time.Time `json:"finished_at" db:"finished_at"`
}

func (s Score) Params() mines.GameParams {
	return mines.GameParams{Rows: s.Rows, Cols: s.Cols, MineCount: s.MineCount}
}

type Filter struct {
	Params *mines.GameParams
	Limit  int
}

const DefaultLimit = 10

func (f Filter) limit() int {
	if f.Limit <= 0 {
		return DefaultLimit
	}
	return f.Limit
}

// Scores records finished games and lists the fastest wins.
type Scores interface {
	Record(ctx context.Context, score Score) error
	Highscores(ctx context.Context, filter Filter) ([]Score, error)
}
