package mines

import (
	"fmt"
	"strings"
)

// Difficulty labels a preset board; best times are keyed by it.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
	Custom Difficulty = "custom"
)

// MaxSize bounds the board side so the cell count stays small and row-major
// indices cannot overflow.
const MaxSize = 1024

type GameParams struct {
	Size       int        `json:"size"`
	MineCount  int        `json:"mine_count"`
	Difficulty Difficulty `json:"difficulty"`
}

var Presets = map[Difficulty]GameParams{
	Easy:   {Size: 8, MineCount: 10, Difficulty: Easy},
	Medium: {Size: 12, MineCount: 30, Difficulty: Medium},
	Hard:   {Size: 16, MineCount: 60, Difficulty: Hard},
}

// Preset looks a difficulty up case-insensitively.
func Preset(name string) (GameParams, bool) {
	p, ok := Presets[Difficulty(strings.ToLower(name))]
	return p, ok
}

// CustomParams labels size and mine count with the preset they match, or
// [Custom] if none does.
func CustomParams(size, mineCount int) GameParams {
	for _, p := range Presets {
		if p.Size == size && p.MineCount == mineCount {
			return p
		}
	}
	return GameParams{Size: size, MineCount: mineCount, Difficulty: Custom}
}

func (p GameParams) Validate() error {
	if p.Size < 1 {
		return fmt.Errorf("%w: size must be at least 1 (got %d)",
			ErrInvalidConfiguration, p.Size)
	}
	if p.Size > MaxSize {
		return fmt.Errorf("%w: size must be at most %d (got %d)",
			ErrInvalidConfiguration, MaxSize, p.Size)
	}
	if p.MineCount < 0 || p.MineCount >= p.Size*p.Size {
		return fmt.Errorf("%w: mine count must be in [0, %d) (got %d)",
			ErrInvalidConfiguration, p.Size*p.Size, p.MineCount)
	}
	return nil
}

func (p GameParams) InBounds(row, col int) bool {
	return 0 <= row && row < p.Size && 0 <= col && col < p.Size
}

func (p GameParams) Ranked() bool {
	_, ok := Presets[p.Difficulty]
	return ok
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d", p.Size, p.MineCount)
}

func ParseSeed(seed string) (GameParams, error) {
	var size, mineCount int
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d", &size, &mineCount)
	if n != 2 || err != nil {
		return GameParams{}, fmt.Errorf(
			`%w: invalid game params seed (sseed = "%s", n = %d, err = %v)`,
			ErrInvalidConfiguration, sseed, n, err,
		)
	}
	p := CustomParams(size, mineCount)
	return p, p.Validate()
}
