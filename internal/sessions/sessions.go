package sessions

import (
	"context"
	"errors"
	"hash/maphash"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/mines"
)

var ErrNotFound = errors.New("session not found")

// Session confines one board to one game. Every access to the board goes
// through the session lock.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu         sync.Mutex
	board      *mines.Board
	now        func() time.Time
	lastActive time.Time
}

type Snapshot struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Params    mines.GameParams
	Outcome   mines.Outcome
	Remaining int
	Elapsed   time.Duration
	StartedAt time.Time
	EndedAt   time.Time
	Grid      mines.Grid
}

// Params never change over the life of a board, so no lock is needed.
func (s *Session) Params() mines.GameParams {
	return s.board.Params()
}

func (s *Session) Reveal(index int) (mines.Result, Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.board.Reveal(index)
	if err == nil {
		s.lastActive = s.now()
	}
	return res, s.snapshot(), err
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Params:    s.board.Params(),
		Outcome:   s.board.Outcome(),
		Remaining: s.board.Remaining(),
		Elapsed:   s.board.Elapsed(),
		StartedAt: s.board.StartedAt(),
		EndedAt:   s.board.EndedAt(),
		Grid:      s.board.PlayerGrid(),
	}
}

// expired reports whether the game ended before cutoff or, while it is still
// being played, whether its last reveal (or its creation) was before cutoff.
func (s *Session) expired(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board.Outcome().Terminal() {
		return s.board.EndedAt().Before(cutoff)
	}
	return s.lastActive.Before(cutoff)
}

type Store struct {
	log logrus.FieldLogger
	now func() time.Time

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

type Option func(*Store)

func WithRand(r *rand.Rand) Option {
	return func(s *Store) {
		s.rnd = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		s.log = log
	}
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func New(opts ...Option) *Store {
	s := &Store{
		log:      logrus.StandardLogger(),
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = createRand()
	}
	return s
}

func (s *Store) Create(params mines.GameParams) (*Session, error) {
	s.rndMu.Lock()
	board, err := mines.NewGame(params, s.rnd, mines.WithClock(s.now))
	s.rndMu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.add(board), nil
}

func (s *Store) add(board *mines.Board) *Session {
	now := s.now()
	session := &Session{
		ID:         uuid.New(),
		CreatedAt:  now,
		board:      board,
		now:        s.now,
		lastActive: now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"session": session.ID,
		"params":  board.Params().String(),
	}).Debug("session created")

	return session
}

func (s *Store) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return session, nil
}

func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

// Evict drops sessions that finished, or saw no reveal, for more than ttl
// and returns how many were removed.
func (s *Store) Evict(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, session := range s.sessions {
		if session.expired(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Run evicts expired sessions every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval, ttl time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Evict(ttl); n > 0 {
				s.log.WithFields(logrus.Fields{
					"evicted": n,
					"left":    s.Len(),
				}).Info("evicted sessions")
			}
		}
	}
}
