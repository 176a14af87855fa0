package mines

import (
	"fmt"
	"iter"
	"strings"
)

// MaxSize is the largest number of cells a board may have.
const MaxSize = 1 << 26

type GameParams struct {
	Rows      int `json:"rows" yaml:"rows"`
	Cols      int `json:"cols" yaml:"cols"`
	MineCount int `json:"mine_count" yaml:"mine_count"`
}

func (p GameParams) Unpack() (rows, cols, mineCount int) {
	return p.Rows, p.Cols, p.MineCount
}

func (p GameParams) Size() int {
	return p.Rows * p.Cols
}

// Validate reports ErrInvalidConfiguration unless both dimensions are
// positive, Rows*Cols is at most MaxSize and 0 < MineCount < Rows*Cols.
func (p GameParams) Validate() error {
	if p.Rows <= 0 || p.Cols <= 0 {
		return fmt.Errorf(
			"%w: dimensions must be positive (rows = %d, cols = %d)",
			ErrInvalidConfiguration, p.Rows, p.Cols,
		)
	}
	if p.Rows > MaxSize/p.Cols {
		return fmt.Errorf(
			"%w: board of %d x %d cells exceeds %d cells",
			ErrInvalidConfiguration, p.Rows, p.Cols, MaxSize,
		)
	}
	if p.MineCount <= 0 || p.MineCount >= p.Size() {
		return fmt.Errorf(
			"%w: mine count must be in (0, %d), got %d",
			ErrInvalidConfiguration, p.Size(), p.MineCount,
		)
	}
	return nil
}

func (p GameParams) InBounds(i int) bool {
	return 0 <= i && i < p.Size()
}

func (p GameParams) Index(row, col int) int {
	return row*p.Cols + col
}

func (p GameParams) Position(i int) (row, col int) {
	return i / p.Cols, i % p.Cols
}

// ValidatePosition reports whether row:col lies on the board.
func (p GameParams) ValidatePosition(row, col int) bool {
	return 0 <= row && row < p.Rows && 0 <= col && col < p.Cols
}

// Neighbors yields the orthogonal neighbors of i. Left and right neighbors
// are checked against the row of i so the last cell of one row is never
// adjacent to the first cell of the next.
func (p GameParams) Neighbors(i int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if i >= p.Cols && !yield(i-p.Cols) {
			return
		}
		if i < p.Size()-p.Cols && !yield(i+p.Cols) {
			return
		}
		if i%p.Cols != 0 && !yield(i-1) {
			return
		}
		if i%p.Cols != p.Cols-1 && !yield(i+1) {
			return
		}
	}
}

func (p GameParams) String() string {
	return fmt.Sprintf("%dx%d(%d)", p.Rows, p.Cols, p.MineCount)
}

// ParseParams is the inverse of [GameParams.String].
func ParseParams(s string) (*GameParams, error) {
	p := &GameParams{}
	fields := strings.NewReplacer("x", " ", "(", " ", ")", " ").Replace(s)
	n, err := fmt.Sscanf(fields, "%d %d %d", &p.Rows, &p.Cols, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params (s = "%s", n = %d, err = %w)`, s, n, err,
		)
	}
	return p, nil
}
