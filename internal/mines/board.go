package mines

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Cell struct {
	mine     bool
	adjacent int
	revealed bool
}

// Board holds the state of a single game. It is not safe for concurrent use;
// hosts serialize calls per board.
type Board struct {
	GameParams

	cells     []Cell
	remaining int
	outcome   Outcome
	exploded  int

	startedAt time.Time
	endedAt   time.Time
	now       func() time.Time
}

type Option func(*Board)

// WithClock replaces time.Now as the source of the session clock.
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		b.now = now
	}
}

// NewGame places params.MineCount mines at distinct positions drawn
// uniformly from the whole board.
func NewGame(params GameParams, r *rand.Rand, opts ...Option) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	indexes := make([]int, params.Size())
	for i := range indexes {
		indexes[i] = i
	}
	r.Shuffle(len(indexes), func(i, j int) {
		indexes[i], indexes[j] = indexes[j], indexes[i]
	})

	return NewBoard(params, indexes[:params.MineCount], opts...)
}

// NewBoard builds a board with mines at exactly the given indexes.
func NewBoard(params GameParams, mines []int, opts ...Option) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(mines) != params.MineCount {
		return nil, fmt.Errorf(
			"%w: expected %d mines, got %d",
			ErrInvalidConfiguration, params.MineCount, len(mines),
		)
	}

	b := &Board{
		GameParams: params,
		cells:      make([]Cell, params.Size()),
		remaining:  params.Size(),
		outcome:    InProgress,
		exploded:   -1,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}

	for _, m := range mines {
		if !params.InBounds(m) {
			return nil, fmt.Errorf(
				"%w: mine index %d out of range", ErrInvalidConfiguration, m,
			)
		}
		if b.cells[m].mine {
			return nil, fmt.Errorf(
				"%w: duplicate mine index %d", ErrInvalidConfiguration, m,
			)
		}
		b.cells[m].mine = true
	}
	for _, m := range mines {
		for n := range params.Neighbors(m) {
			b.cells[n].adjacent++
		}
	}

	Log.WithFields(logrus.Fields{
		"params": params.String(),
	}).Debug("board generated")

	return b, nil
}

func (b *Board) Params() GameParams {
	return b.GameParams
}

func (b *Board) Outcome() Outcome {
	return b.outcome
}

// Remaining is the number of cells not yet revealed, mines included.
func (b *Board) Remaining() int {
	return b.remaining
}

func (b *Board) StartedAt() time.Time {
	return b.startedAt
}

func (b *Board) EndedAt() time.Time {
	return b.endedAt
}

// Elapsed is zero before the first reveal and stops once the game is over.
func (b *Board) Elapsed() time.Duration {
	switch {
	case b.startedAt.IsZero():
		return 0
	case b.outcome.Terminal():
		return b.endedAt.Sub(b.startedAt)
	default:
		return b.now().Sub(b.startedAt)
	}
}

// Mines lists mine indexes once the game is over and nil before that.
func (b *Board) Mines() []int {
	if !b.outcome.Terminal() {
		return nil
	}
	var mines []int
	for i, c := range b.cells {
		if c.mine {
			mines = append(mines, i)
		}
	}
	return mines
}

type CellView struct {
	Index    int   `json:"index"`
	Revealed bool  `json:"revealed"`
	Mine     *bool `json:"mine,omitempty"`
	Adjacent *int  `json:"adjacent,omitempty"`
}

// Cell exposes what a player may know about cell i: whether it is a mine
// only after the game ended, and its count only once revealed.
func (b *Board) Cell(i int) (CellView, error) {
	if !b.InBounds(i) {
		return CellView{}, fmt.Errorf(
			"%w: %d not in [0, %d)", ErrInvalidIndex, i, b.Size(),
		)
	}
	c := b.cells[i]
	v := CellView{Index: i, Revealed: c.revealed}
	if b.outcome.Terminal() {
		mine := c.mine
		v.Mine = &mine
	}
	if c.revealed {
		adjacent := c.adjacent
		v.Adjacent = &adjacent
	}
	return v, nil
}

func (b *Board) end(outcome Outcome) {
	b.outcome = outcome
	b.endedAt = b.now()
	Log.WithFields(logrus.Fields{
		"params":  b.GameParams.String(),
		"outcome": outcome.String(),
		"elapsed": b.Elapsed().String(),
	}).Debug("game over")
}

