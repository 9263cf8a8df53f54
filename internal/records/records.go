// Package records keeps the best completion time for each ranked difficulty.
package records

import (
	"context"
	"errors"
	"time"

	"github.com/vancomm/minesweeper/internal/mines"
)

var (
	ErrNoRecord          = errors.New("no record for difficulty")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

type Record struct {
	Difficulty mines.Difficulty
	BestTime   time.Duration
	SetAt      time.Time
}

// Store persists best times. Submit replaces the stored time only when d is
// strictly better and reports whether it did.
type Store interface {
	Get(ctx context.Context, difficulty mines.Difficulty) (time.Duration, error)
	Submit(ctx context.Context, difficulty mines.Difficulty, d time.Duration) (bool, error)
	List(ctx context.Context) ([]Record, error)
}

func checkDifficulty(difficulty mines.Difficulty) error {
	if _, ok := mines.Presets[difficulty]; !ok {
		return ErrUnknownDifficulty
	}
	return nil
}
