package records

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/vancomm/minesweeper/internal/mines"
)

type Memory struct {
	mu    sync.Mutex
	clock quartz.Clock
	best  map[mines.Difficulty]Record
}

func NewMemory(clock quartz.Clock) *Memory {
	return &Memory{
		clock: clock,
		best:  make(map[mines.Difficulty]Record),
	}
}

func (m *Memory) Get(_ context.Context, difficulty mines.Difficulty) (time.Duration, error) {
	if err := checkDifficulty(difficulty); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.best[difficulty]
	if !ok {
		return 0, ErrNoRecord
	}
	return r.BestTime, nil
}

func (m *Memory) Submit(_ context.Context, difficulty mines.Difficulty, d time.Duration) (bool, error) {
	if err := checkDifficulty(difficulty); err != nil {
		return false, err
	}
	// stored like the postgres store, in whole milliseconds
	d = d.Truncate(time.Millisecond)
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.best[difficulty]; ok && r.BestTime <= d {
		return false, nil
	}
	m.best[difficulty] = Record{
		Difficulty: difficulty,
		BestTime:   d,
		SetAt:      m.clock.Now(),
	}
	return true, nil
}

// List returns records ordered by board size.
func (m *Memory) List(_ context.Context) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]Record, 0, len(m.best))
	for _, r := range m.best {
		list = append(list, r)
	}
	slices.SortFunc(list, func(a, b Record) int {
		return cmp.Compare(mines.Presets[a.Difficulty].Size, mines.Presets[b.Difficulty].Size)
	})
	return list, nil
}
