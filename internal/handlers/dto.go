package handlers

import (
	"fmt"
	"net/url"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper/internal/mines"
)

type NewGameDTO struct {
	Difficulty string `schema:"difficulty"`
	Size       *int   `schema:"size"`
	MineCount  *int   `schema:"mine_count"`
}

// Params resolves either a preset name or an explicit size and mine count.
func (dto NewGameDTO) Params() (mines.GameParams, error) {
	if dto.Difficulty != "" {
		params, ok := mines.Preset(dto.Difficulty)
		if !ok {
			return mines.GameParams{}, fmt.Errorf(
				"%w: unknown difficulty %q", mines.ErrInvalidConfiguration, dto.Difficulty,
			)
		}
		return params, nil
	}
	if dto.Size == nil || dto.MineCount == nil {
		return mines.GameParams{}, fmt.Errorf(
			"%w: difficulty or both size and mine_count are required",
			mines.ErrInvalidConfiguration,
		)
	}
	params := mines.CustomParams(*dto.Size, *dto.MineCount)
	return params, params.Validate()
}

type PositionDTO struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func decode[T any](dec *schema.Decoder, src url.Values) (T, error) {
	var dto T
	err := dec.Decode(&dto, src)
	return dto, err
}

type NewGameResponse struct {
	Token   string `json:"token"`
	Session any    `json:"session"`
}

type RecordDTO struct {
	Difficulty mines.Difficulty `json:"difficulty"`
	Size       int              `json:"size"`
	MineCount  int              `json:"mine_count"`
	BestTimeMs int64            `json:"best_time_ms"`
	SetAt      int64            `json:"set_at"`
}
