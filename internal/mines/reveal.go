package mines

import (
	"fmt"
	"time"

	"github.com/gammazero/deque"
)

type Result struct {
	Outcome  Outcome       `json:"outcome"`
	Elapsed  time.Duration `json:"-"`
	Revealed []int         `json:"revealed"`
}

func (r Result) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}

// Reveal opens cell i. A mine loses the game. Any other cell is revealed
// together with the zero-count region connected to it and that region's
// numbered border; the clicked cell always expands into its neighbors.
// Revealing an already open cell changes nothing.
func (b *Board) Reveal(i int) (Result, error) {
	if b.outcome.Terminal() {
		return b.result(nil), fmt.Errorf(
			"%w: game is %s", ErrGameAlreadyOver, b.outcome,
		)
	}
	if !b.InBounds(i) {
		return b.result(nil), fmt.Errorf(
			"%w: %d not in [0, %d)", ErrInvalidIndex, i, b.Size(),
		)
	}

	if b.startedAt.IsZero() {
		b.startedAt = b.now()
	}

	if b.cells[i].mine {
		b.exploded = i
		b.end(Lost)
		return b.result(nil), nil
	}

	revealed := b.flood(i)
	if b.remaining == b.MineCount {
		b.end(Won)
	}
	return b.result(revealed), nil
}

func (b *Board) result(revealed []int) Result {
	return Result{
		Outcome:  b.outcome,
		Elapsed:  b.Elapsed(),
		Revealed: revealed,
	}
}

func (b *Board) open(i int) {
	b.cells[i].revealed = true
	b.remaining--
}

// flood marks cells revealed as they are queued, so every cell is handled
// at most once. Only the root and zero-count cells are queued for expansion.
func (b *Board) flood(root int) []int {
	if b.cells[root].revealed {
		return nil
	}

	var todo deque.Deque[int]
	b.open(root)
	revealed := []int{root}
	todo.PushBack(root)

	for todo.Len() != 0 {
		i := todo.PopBack()
		for n := range b.Neighbors(i) {
			c := &b.cells[n]
			if c.mine || c.revealed {
				continue
			}
			b.open(n)
			revealed = append(revealed, n)
			if c.adjacent == 0 {
				todo.PushBack(n)
			}
		}
	}

	return revealed
}
