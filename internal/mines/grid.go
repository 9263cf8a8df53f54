package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// CellState is the player-facing value of a single cell. Values 0 to 8 are
// revealed cells carrying their mine count; everything else is a marker.
type CellState int8

const (
	Hidden           CellState = -2
	Flagged          CellState = -1
	CorrectlyFlagged CellState = 64 // post-game-over
	ExplodedMine     CellState = 65
	FalselyFlagged   CellState = 66
	UnflaggedMine    CellState = 67
)

func (s CellState) Revealed() bool {
	return 0 <= s && s <= 8
}

func (s CellState) String() string {
	switch {
	case s == Hidden:
		return "-"
	case s == Flagged, s == CorrectlyFlagged:
		return "F"
	case s == ExplodedMine:
		return "X"
	case s == FalselyFlagged:
		return "x"
	case s == UnflaggedMine:
		return "*"
	case s == 0:
		return "."
	case s.Revealed():
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

// Grid is a row-major square of cell states.
type Grid []CellState

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			if x > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprint(&b, g[y*width+x].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
