package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper/internal/lobby"
	"github.com/vancomm/minesweeper/internal/mines"
)

type GameSession struct {
	GameSessionId int64
	Size          int
	MineCount     int
	Difficulty    string
	Outcome       string
	State         []byte
	StartedAt     *time.Time
	EndedAt       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (g GameSession) Stored() (*lobby.StoredSession, error) {
	var outcome mines.Outcome
	if err := outcome.UnmarshalText([]byte(g.Outcome)); err != nil {
		return nil, err
	}
	return &lobby.StoredSession{
		ID: g.GameSessionId,
		Params: mines.GameParams{
			Size:       g.Size,
			MineCount:  g.MineCount,
			Difficulty: mines.Difficulty(g.Difficulty),
		},
		Outcome:   outcome,
		State:     g.State,
		StartedAt: g.StartedAt,
		EndedAt:   g.EndedAt,
	}, nil
}

func (q *Queries) CreateSession(ctx context.Context, s *lobby.StoredSession) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO game_session (
			size, mine_count, difficulty, outcome, state, started_at, ended_at
		)
		VALUES (
			@size, @mine_count, @difficulty, @outcome, @state, @started_at, @ended_at
		)
		RETURNING game_session_id;`,
		pgx.NamedArgs{
			"size":       s.Params.Size,
			"mine_count": s.Params.MineCount,
			"difficulty": string(s.Params.Difficulty),
			"outcome":    s.Outcome.String(),
			"state":      s.State,
			"started_at": s.StartedAt,
			"ended_at":   s.EndedAt,
		},
	).Scan(&id)
	return id, err
}

func (q *Queries) GetSession(ctx context.Context, id int64) (*lobby.StoredSession, error) {
	rows, _ := q.db.Query(ctx, `
		SELECT *
		FROM game_session
		WHERE game_session_id = $1;`,
		id,
	)
	session, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[GameSession])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lobby.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return session.Stored()
}

func (q *Queries) UpdateSession(ctx context.Context, s *lobby.StoredSession) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE game_session
		SET outcome = @outcome
			, state = @state
			, started_at = @started_at
			, ended_at = @ended_at
			, updated_at = now()
		WHERE game_session_id = @game_session_id;`,
		pgx.NamedArgs{
			"game_session_id": s.ID,
			"outcome":         s.Outcome.String(),
			"state":           s.State,
			"started_at":      s.StartedAt,
			"ended_at":        s.EndedAt,
		},
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return lobby.ErrSessionNotFound
	}
	return nil
}
