package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/records"
)

type RecordsHandler struct {
	log   *logrus.Logger
	store records.Store
}

func NewRecordsHandler(log *logrus.Logger, store records.Store) *RecordsHandler {
	return &RecordsHandler{log: log, store: store}
}

func (h RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		sendError(w, h.log, err)
		return
	}
	dtos := make([]RecordDTO, len(list))
	for i, rec := range list {
		params := mines.Presets[rec.Difficulty]
		dtos[i] = RecordDTO{
			Difficulty: rec.Difficulty,
			Size:       params.Size,
			MineCount:  params.MineCount,
			BestTimeMs: rec.BestTime.Milliseconds(),
			SetAt:      rec.SetAt.UnixMilli(),
		}
	}
	sendJSONOrLog(w, h.log, dtos)
}
