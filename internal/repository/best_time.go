package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/records"
)

type BestTime struct {
	Difficulty string
	BestMs     int64
	SetAt      time.Time
}

func (b BestTime) Record() records.Record {
	return records.Record{
		Difficulty: mines.Difficulty(b.Difficulty),
		BestTime:   time.Duration(b.BestMs) * time.Millisecond,
		SetAt:      b.SetAt,
	}
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}

func (q *Queries) Get(ctx context.Context, difficulty mines.Difficulty) (time.Duration, error) {
	var bestMs int64
	err := q.db.QueryRow(ctx, `
		SELECT best_ms
		FROM best_time
		WHERE difficulty = $1;`,
		string(difficulty),
	).Scan(&bestMs)
	if errors.Is(err, pgx.ErrNoRows) {
		if !isKnownDifficulty(difficulty) {
			return 0, records.ErrUnknownDifficulty
		}
		return 0, records.ErrNoRecord
	}
	if err != nil {
		return 0, err
	}
	return time.Duration(bestMs) * time.Millisecond, nil
}

// Submit upserts the best time; the row is only touched when the new time is
// strictly lower.
func (q *Queries) Submit(
	ctx context.Context, difficulty mines.Difficulty, d time.Duration,
) (bool, error) {
	var updated string
	err := q.db.QueryRow(ctx, `
		INSERT INTO best_time (
			difficulty, best_ms
		)
		VALUES (
			@difficulty, @best_ms
		)
		ON CONFLICT (difficulty) DO UPDATE
		SET best_ms = EXCLUDED.best_ms
			, set_at = now()
		WHERE best_time.best_ms > EXCLUDED.best_ms
		RETURNING difficulty;`,
		pgx.NamedArgs{
			"difficulty": string(difficulty),
			"best_ms":    d.Milliseconds(),
		},
	).Scan(&updated)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	case isForeignKeyViolation(err):
		return false, records.ErrUnknownDifficulty
	case err != nil:
		return false, err
	}
	return true, nil
}

func (q *Queries) List(ctx context.Context) ([]records.Record, error) {
	rows, err := q.db.Query(ctx, `
		SELECT b.difficulty, b.best_ms, b.set_at
		FROM best_time b
			JOIN difficulty d ON d.name = b.difficulty
		ORDER BY d.size;`,
	)
	if err != nil {
		return nil, err
	}
	bestTimes, err := pgx.CollectRows(rows, pgx.RowToStructByName[BestTime])
	if err != nil {
		return nil, err
	}
	list := make([]records.Record, len(bestTimes))
	for i, b := range bestTimes {
		list[i] = b.Record()
	}
	return list, nil
}

func isKnownDifficulty(difficulty mines.Difficulty) bool {
	_, ok := mines.Presets[difficulty]
	return ok
}
