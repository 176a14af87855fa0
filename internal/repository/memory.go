package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

type Memory struct {
	mu     sync.RWMutex
	scores []Score
	seen   map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{seen: make(map[string]struct{})}
}

func (m *Memory) Record(ctx context.Context, score Score) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.seen[score.SessionID]; ok {
		return ErrAlreadyRecorded
	}
	m.seen[score.SessionID] = struct{}{}
	m.scores = append(m.scores, score)
	return nil
}

func (m *Memory) Highscores(ctx context.Context, filter Filter) ([]Score, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	highscores := make([]Score, 0)
	for _, s := range m.scores {
		if !s.Won {
			continue
		}
		if filter.Params != nil && s.Params() != *filter.Params {
			continue
		}
		highscores = append(highscores, s)
	}
	slices.SortStableFunc(highscores, func(a, b Score) int {
		return cmp.Or(
			cmp.Compare(a.ElapsedMs, b.ElapsedMs),
			a.FinishedAt.Compare(b.FinishedAt),
		)
	})
	if len(highscores) > filter.limit() {
		highscores = highscores[:filter.limit()]
	}
	return highscores, nil
}
