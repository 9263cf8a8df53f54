// Package lobby hosts many games at once on top of a [SessionStore]. Moves on
// the same session are serialized; elapsed time runs from the first reveal
// until the game ends, and winning times go to a [records.Store].
package lobby

import (
	"context"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/records"
)

type Registry struct {
	log     *logrus.Logger
	store   SessionStore
	records records.Store
	clock   quartz.Clock
	newRand func() *rand.Rand

	mu    sync.Mutex
	locks map[int64]*sessionLock
}

// sessionLock is shared by every call touching one session and dropped from
// the registry once the last of them is done.
type sessionLock struct {
	sync.Mutex
	refs int
}

type Option func(*Registry)

func WithClock(clock quartz.Clock) Option {
	return func(r *Registry) {
		r.clock = clock
	}
}

// WithRand replaces the source used for mine placement.
func WithRand(newRand func() *rand.Rand) Option {
	return func(r *Registry) {
		r.newRand = newRand
	}
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func NewRegistry(
	log *logrus.Logger, store SessionStore, recs records.Store, opts ...Option,
) *Registry {
	r := &Registry{
		log:     log,
		store:   store,
		records: recs,
		clock:   quartz.NewReal(),
		newRand: createRand,
		locks:   make(map[int64]*sessionLock),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) lock(id int64) *sessionLock {
	r.mu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = new(sessionLock)
		r.locks[id] = l
	}
	l.refs++
	r.mu.Unlock()

	l.Lock()
	return l
}

func (r *Registry) unlock(id int64, l *sessionLock) {
	l.Unlock()

	r.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(r.locks, id)
	}
	r.mu.Unlock()
}

func (r *Registry) New(ctx context.Context, params mines.GameParams) (*Session, error) {
	game, err := mines.NewGame(params, r.newRand())
	if err != nil {
		return nil, err
	}
	state, err := game.Bytes()
	if err != nil {
		return nil, fmt.Errorf("unable to encode game: %w", err)
	}
	stored := &StoredSession{
		Params:  game.Params(),
		Outcome: game.Outcome(),
		State:   state,
	}
	stored.ID, err = r.store.CreateSession(ctx, stored)
	if err != nil {
		return nil, fmt.Errorf("unable to create session: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"session_id": stored.ID,
		"seed":       params.Seed(),
	}).Debug("created game session")

	return r.view(stored, game), nil
}

func (r *Registry) Get(ctx context.Context, id int64) (*Session, error) {
	stored, err := r.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	game, err := mines.DecodeGameSession(stored.State, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid stored state of session %d: %w", id, err)
	}
	return r.view(stored, game), nil
}

func (r *Registry) Reveal(ctx context.Context, id int64, row, col int) (*Session, error) {
	return r.update(ctx, id, func(g *mines.GameSession) ([]mines.CellUpdate, error) {
		move, err := g.Reveal(row, col)
		return move.Updates, err
	})
}

func (r *Registry) Chord(ctx context.Context, id int64, row, col int) (*Session, error) {
	return r.update(ctx, id, func(g *mines.GameSession) ([]mines.CellUpdate, error) {
		move, err := g.Chord(row, col)
		return move.Updates, err
	})
}

func (r *Registry) ToggleFlag(ctx context.Context, id int64, row, col int) (*Session, error) {
	return r.update(ctx, id, func(g *mines.GameSession) ([]mines.CellUpdate, error) {
		_, err := g.ToggleFlag(row, col)
		return nil, err
	})
}

func (r *Registry) Forfeit(ctx context.Context, id int64) (*Session, error) {
	return r.update(ctx, id, func(g *mines.GameSession) ([]mines.CellUpdate, error) {
		return nil, g.Forfeit()
	})
}

// Batch applies newline-separated commands (see executeCommand). If any
// command fails nothing is saved and a *CommandError is returned.
func (r *Registry) Batch(ctx context.Context, id int64, batch string) (*Session, error) {
	return r.update(ctx, id, func(g *mines.GameSession) ([]mines.CellUpdate, error) {
		return nil, executeBatch(g, batch)
	})
}

func (r *Registry) update(
	ctx context.Context,
	id int64,
	apply func(g *mines.GameSession) ([]mines.CellUpdate, error),
) (*Session, error) {
	defer r.unlock(id, r.lock(id))

	stored, err := r.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	game, err := mines.DecodeGameSession(stored.State, r.newRand())
	if err != nil {
		return nil, fmt.Errorf("invalid stored state of session %d: %w", id, err)
	}

	started := game.Started()
	updates, err := apply(game)
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	if !started && game.Started() {
		stored.StartedAt = &now
	}
	newRecord := false
	if game.Over() && stored.EndedAt == nil {
		stored.EndedAt = &now
		newRecord = r.finish(ctx, stored, game)
	}

	stored.Outcome = game.Outcome()
	if stored.State, err = game.Bytes(); err != nil {
		return nil, fmt.Errorf("unable to encode game: %w", err)
	}
	if err := r.store.UpdateSession(ctx, stored); err != nil {
		return nil, fmt.Errorf("unable to save session %d: %w", id, err)
	}

	s := r.view(stored, game)
	s.NewRecord = newRecord
	s.Updates = updates
	return s, nil
}

// finish logs a finished game and submits a winning time. Failing to store a
// record does not fail the move.
func (r *Registry) finish(ctx context.Context, stored *StoredSession, game *mines.GameSession) bool {
	elapsed := r.elapsed(stored)
	log := r.log.WithFields(logrus.Fields{
		"session_id": stored.ID,
		"outcome":    game.Outcome(),
		"elapsed":    elapsed,
	})
	log.Info("game over")

	params := game.Params()
	if game.Outcome() != mines.Won || !params.Ranked() {
		return false
	}
	ok, err := r.records.Submit(ctx, params.Difficulty, elapsed)
	if err != nil {
		log.WithError(err).Error("unable to submit best time")
		return false
	}
	if ok {
		log.Info("new best time for ", params.Difficulty)
	}
	return ok
}

func (r *Registry) elapsed(stored *StoredSession) time.Duration {
	switch {
	case stored.StartedAt == nil:
		return 0
	case stored.EndedAt != nil:
		return stored.EndedAt.Sub(*stored.StartedAt)
	default:
		return r.clock.Since(*stored.StartedAt)
	}
}

func (r *Registry) view(stored *StoredSession, game *mines.GameSession) *Session {
	return &Session{
		ID:        stored.ID,
		Snapshot:  game.Snapshot(),
		StartedAt: stored.StartedAt,
		EndedAt:   stored.EndedAt,
		Elapsed:   r.elapsed(stored),
	}
}
