package mines

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevealFloodsWholeBoard(t *testing.T) {
	// . . .
	// . * .
	// . . .
	b, err := NewBoard(GameParams{Rows: 3, Cols: 3, MineCount: 1}, []int{4})
	require.NoError(t, err)

	res, err := b.Reveal(0)
	require.NoError(t, err)

	assert.Equal(t, Won, res.Outcome)
	assert.Equal(t, []int{0, 1, 2, 3, 5, 6, 7, 8}, slices.Sorted(slices.Values(res.Revealed)))
	assert.Equal(t, 1, b.Remaining())
	assert.Equal(t, Won, b.Outcome())
}

func TestRevealDiagonalMine(t *testing.T) {
	// * .
	// . .
	// the mine is diagonal to cell 3, so 3 has no adjacent mines and opens
	// both of its numbered neighbours
	b, err := NewBoard(GameParams{Rows: 2, Cols: 2, MineCount: 1}, []int{0})
	require.NoError(t, err)
	assert.Equal(t, 0, b.cells[3].adjacent)
	assert.Equal(t, 1, b.cells[1].adjacent)
	assert.Equal(t, 1, b.cells[2].adjacent)

	res, err := b.Reveal(3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, slices.Sorted(slices.Values(res.Revealed)))
	assert.Equal(t, Won, res.Outcome)
}

func TestRevealNumberedCellsStopFlood(t *testing.T) {
	// . 1 .
	// 1 * 1
	// . 1 .
	b, err := NewBoard(GameParams{Rows: 3, Cols: 3, MineCount: 1}, []int{4})
	require.NoError(t, err)

	// the clicked cell expands even though it is numbered; 3 and 5 are
	// numbered leaves so the bottom row stays hidden
	res, err := b.Reveal(1)
	require.NoError(t, err)
	assert.Equal(t, InProgress, res.Outcome)
	assert.Equal(t, []int{0, 1, 2, 3, 5}, slices.Sorted(slices.Values(res.Revealed)))
	assert.Equal(t, 4, b.Remaining())

	res, err = b.Reveal(7)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 7, 8}, slices.Sorted(slices.Values(res.Revealed)))
	assert.Equal(t, Won, res.Outcome)
}

func TestRevealZeroRegionBorder(t *testing.T) {
	// * 1 0 1
	// 1 0 1 *
	b, err := NewBoard(GameParams{Rows: 2, Cols: 4, MineCount: 2}, []int{0, 7})
	require.NoError(t, err)

	// 2 has no adjacent mines either but is only reachable through the
	// numbered border of 5
	res, err := b.Reveal(5)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 5, 6}, slices.Sorted(slices.Values(res.Revealed)))
	assert.Equal(t, 4, b.Remaining())
	assert.Equal(t, InProgress, res.Outcome)
}

func TestRevealInvalidIndex(t *testing.T) {
	b, err := NewBoard(GameParams{Rows: 3, Cols: 3, MineCount: 1}, []int{4})
	require.NoError(t, err)

	for _, i := range []int{9, -1, 100} {
		_, err = b.Reveal(i)
		assert.ErrorIs(t, err, ErrInvalidIndex)
	}
	assert.Equal(t, 9, b.Remaining())
	assert.True(t, b.StartedAt().IsZero(), "invalid reveal must not start the clock")
}

func TestRevealMineLoses(t *testing.T) {
	b, err := NewBoard(GameParams{Rows: 3, Cols: 3, MineCount: 1}, []int{4})
	require.NoError(t, err)

	_, err = b.Reveal(1)
	require.NoError(t, err)
	remaining := b.Remaining()

	res, err := b.Reveal(4)
	require.NoError(t, err)
	assert.Equal(t, Lost, res.Outcome)
	assert.Empty(t, res.Revealed)
	assert.Equal(t, remaining, b.Remaining())

	res, err = b.Reveal(0)
	assert.ErrorIs(t, err, ErrGameAlreadyOver)
	assert.Equal(t, Lost, res.Outcome)
	assert.Equal(t, remaining, b.Remaining())

	_, err = b.Reveal(9)
	assert.ErrorIs(t, err, ErrGameAlreadyOver)
}

func TestRevealAfterWin(t *testing.T) {
	b, err := NewBoard(GameParams{Rows: 1, Cols: 2, MineCount: 1}, []int{1})
	require.NoError(t, err)

	res, err := b.Reveal(0)
	require.NoError(t, err)
	assert.Equal(t, Won, res.Outcome)

	_, err = b.Reveal(1)
	assert.ErrorIs(t, err, ErrGameAlreadyOver)
	assert.Equal(t, Won, b.Outcome())
}

func TestRevealIdempotent(t *testing.T) {
	b, err := NewBoard(GameParams{Rows: 3, Cols: 3, MineCount: 1}, []int{4})
	require.NoError(t, err)

	_, err = b.Reveal(1)
	require.NoError(t, err)
	remaining := b.Remaining()

	for _, i := range []int{0, 1, 3} {
		res, err := b.Reveal(i)
		require.NoError(t, err)
		assert.Empty(t, res.Revealed)
		assert.Equal(t, InProgress, res.Outcome)
		assert.Equal(t, remaining, b.Remaining())
	}
}

func TestRevealRandomGames(t *testing.T) {
	params := []GameParams{
		{Rows: 9, Cols: 9, MineCount: 10},
		{Rows: 16, Cols: 16, MineCount: 40},
		{Rows: 16, Cols: 30, MineCount: 99},
		{Rows: 5, Cols: 40, MineCount: 3},
	}
	r := rand.New(rand.NewPCG(5, 6))

	for _, p := range params {
		t.Run(p.String(), func(t *testing.T) {
			for range 50 {
				b, err := NewGame(p, r)
				require.NoError(t, err)

				for !b.Outcome().Terminal() {
					before := b.Remaining()
					res, err := b.Reveal(r.IntN(p.Size()))
					require.NoError(t, err)

					seen := map[int]bool{}
					for _, i := range res.Revealed {
						assert.False(t, seen[i], "cell %d revealed twice", i)
						seen[i] = true
						assert.False(t, b.cells[i].mine)
					}
					assert.Equal(t, before-len(res.Revealed), b.Remaining())
					assert.GreaterOrEqual(t, b.Remaining(), p.MineCount)
					if res.Outcome == Lost {
						assert.Equal(t, before, b.Remaining())
					}
				}

				if b.Outcome() == Won {
					assert.Equal(t, p.MineCount, b.Remaining())
				}
			}
		})
	}
}

func TestRevealLargeBoard(t *testing.T) {
	p := GameParams{Rows: 1000, Cols: 1000, MineCount: 1}
	b, err := NewBoard(p, []int{p.Size() - 1})
	require.NoError(t, err)

	res, err := b.Reveal(0)
	require.NoError(t, err)
	assert.Equal(t, Won, res.Outcome)
	assert.Len(t, res.Revealed, p.Size()-1)
}

func TestElapsed(t *testing.T) {
	clock := newFakeClock()
	b, err := NewBoard(
		GameParams{Rows: 3, Cols: 3, MineCount: 1}, []int{4}, WithClock(clock.Now),
	)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	assert.Zero(t, b.Elapsed(), "clock starts on first reveal")

	res, err := b.Reveal(1)
	require.NoError(t, err)
	assert.Zero(t, res.Elapsed)
	assert.Equal(t, clock.Now(), b.StartedAt())

	clock.Advance(3 * time.Second)
	assert.Equal(t, 3*time.Second, b.Elapsed())

	clock.Advance(2 * time.Second)
	res, err = b.Reveal(4)
	require.NoError(t, err)
	assert.Equal(t, Lost, res.Outcome)
	assert.Equal(t, 5*time.Second, res.Elapsed)
	assert.Equal(t, 5.0, res.ElapsedSeconds())

	clock.Advance(time.Hour)
	assert.Equal(t, 5*time.Second, b.Elapsed(), "clock freezes once the game is over")
	assert.Equal(t, b.StartedAt().Add(5*time.Second), b.EndedAt())
}

func TestElapsedWon(t *testing.T) {
	clock := newFakeClock()
	b, err := NewBoard(
		GameParams{Rows: 3, Cols: 3, MineCount: 1}, []int{4}, WithClock(clock.Now),
	)
	require.NoError(t, err)

	_, err = b.Reveal(1)
	require.NoError(t, err)
	clock.Advance(7 * time.Second)

	res, err := b.Reveal(7)
	require.NoError(t, err)
	assert.Equal(t, Won, res.Outcome)
	assert.Equal(t, 7*time.Second, res.Elapsed)

	clock.Advance(time.Minute)
	assert.Equal(t, 7*time.Second, b.Elapsed())
}
