package sessions

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/mines"
)

func TestMain(m *testing.M) {
	mines.Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestStore(c *clock) *Store {
	return New(
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithClock(c.Now),
	)
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(&clock{t: time.Now()})

	session, err := s.Create(mines.GameParams{Rows: 9, Cols: 9, MineCount: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)

	snap := got.Snapshot()
	assert.Equal(t, mines.InProgress, snap.Outcome)
	assert.Equal(t, 81, snap.Remaining)
	assert.Len(t, snap.Grid, 81)

	_, err = s.Get(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	s.Delete(session.ID)
	_, err = s.Get(session.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateInvalid(t *testing.T) {
	s := newTestStore(&clock{t: time.Now()})

	_, err := s.Create(mines.GameParams{Rows: 1, Cols: 1, MineCount: 1})
	assert.ErrorIs(t, err, mines.ErrInvalidConfiguration)
	assert.Equal(t, 0, s.Len())
}

func TestConcurrentReveals(t *testing.T) {
	s := newTestStore(&clock{t: time.Now()})
	params := mines.GameParams{Rows: 30, Cols: 30, MineCount: 5}
	session, err := s.Create(params)
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		revealed = map[int]int{}
	)
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := w; i < params.Size(); i += 8 {
				res, _, err := session.Reveal(i)
				if err != nil {
					return
				}
				mu.Lock()
				for _, j := range res.Revealed {
					revealed[j]++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	for i, n := range revealed {
		assert.Equal(t, 1, n, "cell %d revealed %d times", i, n)
	}
	snap := session.Snapshot()
	assert.Equal(t, params.Size()-len(revealed), snap.Remaining)
}

func TestEvict(t *testing.T) {
	c := &clock{t: time.Now()}
	s := newTestStore(c)

	params := mines.GameParams{Rows: 3, Cols: 3, MineCount: 1}
	old, err := s.Create(params)
	require.NoError(t, err)

	c.Advance(30 * time.Minute)
	fresh, err := s.Create(params)
	require.NoError(t, err)

	c.Advance(45 * time.Minute)
	assert.Equal(t, 1, s.Evict(time.Hour))

	_, err = s.Get(old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestEvictKeepsActiveGames(t *testing.T) {
	c := &clock{t: time.Now()}
	s := newTestStore(c)

	// . * . .
	// . * . .
	// . * . .
	board, err := mines.NewBoard(mines.GameParams{Rows: 3, Cols: 4, MineCount: 3}, []int{1, 5, 9})
	require.NoError(t, err)
	active := s.add(board)

	idle, err := s.Create(mines.GameParams{Rows: 3, Cols: 3, MineCount: 1})
	require.NoError(t, err)

	c.Advance(50 * time.Minute)
	_, snap, err := active.Reveal(0)
	require.NoError(t, err)
	require.Equal(t, mines.InProgress, snap.Outcome)

	// rejected reveals do not count as activity
	_, _, err = idle.Reveal(-1)
	require.ErrorIs(t, err, mines.ErrInvalidIndex)

	c.Advance(20 * time.Minute)
	assert.Equal(t, 1, s.Evict(time.Hour))

	_, err = s.Get(active.ID)
	assert.NoError(t, err)
	_, err = s.Get(idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	c.Advance(45 * time.Minute)
	assert.Equal(t, 1, s.Evict(time.Hour))
	assert.Equal(t, 0, s.Len())
}

func TestEvictFinished(t *testing.T) {
	c := &clock{t: time.Now()}
	s := newTestStore(c)

	session, err := s.Create(mines.GameParams{Rows: 1, Cols: 2, MineCount: 1})
	require.NoError(t, err)

	// one of the two cells ends the game either way
	_, snap, err := session.Reveal(0)
	require.NoError(t, err)
	require.True(t, snap.Outcome.Terminal())

	c.Advance(time.Minute)
	assert.Equal(t, 0, s.Evict(2*time.Minute))
	c.Advance(2 * time.Minute)
	assert.Equal(t, 1, s.Evict(2*time.Minute))
}

func TestRun(t *testing.T) {
	c := &clock{t: time.Now()}
	s := newTestStore(c)
	_, err := s.Create(mines.GameParams{Rows: 3, Cols: 3, MineCount: 1})
	require.NoError(t, err)
	c.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- s.Run(ctx, time.Millisecond, time.Minute)
	}()

	assert.Eventually(t, func() bool {
		return s.Len() == 0
	}, time.Second, time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
