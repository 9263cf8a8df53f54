package lobby

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/vancomm/minesweeper/internal/mines"
)

// Session is what the registry hands back after every call: the visible game
// plus timing. Updates is only set by single-cell moves.
type Session struct {
	ID        int64
	Snapshot  mines.Snapshot
	StartedAt *time.Time
	EndedAt   *time.Time
	Elapsed   time.Duration
	NewRecord bool
	Updates   []mines.CellUpdate
}

type sessionJSON struct {
	SessionId string `json:"session_id"`
	mines.Snapshot
	StartedAt *int64             `json:"started_at,omitempty"`
	EndedAt   *int64             `json:"ended_at,omitempty"`
	ElapsedMs int64              `json:"elapsed_ms"`
	NewRecord bool               `json:"new_record,omitempty"`
	Updates   []mines.CellUpdate `json:"updates,omitempty"`
}

func unixMilli(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func (s Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionJSON{
		SessionId: strconv.FormatInt(s.ID, 10),
		Snapshot:  s.Snapshot,
		StartedAt: unixMilli(s.StartedAt),
		EndedAt:   unixMilli(s.EndedAt),
		ElapsedMs: s.Elapsed.Milliseconds(),
		NewRecord: s.NewRecord,
		Updates:   s.Updates,
	})
}
