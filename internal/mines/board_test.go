package mines

import (
	"math/rand/v2"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Log.SetLevel(logrus.DebugLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	os.Exit(m.Run())
}

func plantedBoard(t *testing.T, size int, mines ...Point) *Board {
	t.Helper()
	b, err := NewBoard(CustomParams(size, len(mines)))
	require.NoError(t, err)
	require.NoError(t, b.plant(mines...))
	return b
}

func bruteCount(b *Board, row, col int) (n int) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			r, c := row+dr, col+dc
			if (dr != 0 || dc != 0) && b.InBounds(r, c) && b.cells[b.index(r, c)].mined {
				n++
			}
		}
	}
	return
}

func TestNewBoardValidation(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		mineCount int
		valid     bool
	}{
		{"zero size", 0, 0, false},
		{"negative size", -3, 1, false},
		{"negative mines", 4, -1, false},
		{"board full of mines", 3, 9, false},
		{"too many mines", 3, 12, false},
		{"too large", MaxSize + 1, 1, false},
		{"huge", 100_000, 1, false},
		{"side squared overflows", 1<<32 + 1, 1, false},
		{"single cell no mines", 1, 0, true},
		{"one safe cell", 3, 8, true},
		{"easy", 8, 10, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, err := NewBoard(CustomParams(test.size, test.mineCount))
			if !test.valid {
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			assert.False(t, b.Placed())
			for row := range test.size {
				for col := range test.size {
					c, err := b.Cell(row, col)
					require.NoError(t, err)
					assert.Equal(t, Cell{State: Hidden}, c)
				}
			}
		})
	}

	b, err := NewBoard(CustomParams(MaxSize, 1))
	require.NoError(t, err)
	assert.Len(t, b.cells, MaxSize*MaxSize)
}

func TestPlaceMinesProtectsFirstCell(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params GameParams
	}{
		{"3x3(1)", CustomParams(3, 1)},
		{"4x4(3)", CustomParams(4, 3)},
		{"3x3(8)", CustomParams(3, 8)},
		{"easy", Presets[Easy]},
		{"medium", Presets[Medium]},
		{"hard", Presets[Hard]},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewPCG(1, 2))
			for row := range test.params.Size {
				for col := range test.params.Size {
					b, err := NewBoard(test.params)
					require.NoError(t, err)
					require.NoError(t, b.PlaceMines(Point{row, col}, r))

					mines := b.Mines()
					assert.Len(t, mines, test.params.MineCount)
					assert.NotContains(t, mines, Point{row, col})
					assert.True(t, b.Placed())
				}
			}
		})
	}
}

func TestPlaceMinesTwice(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	b, err := NewBoard(Presets[Easy])
	require.NoError(t, err)
	require.NoError(t, b.PlaceMines(Point{0, 0}, r))
	before := b.Mines()

	var ae AssertionError
	assert.ErrorAs(t, b.PlaceMines(Point{4, 4}, r), &ae)
	assert.Equal(t, before, b.Mines())
}

func TestPlaceMinesOutOfBounds(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	b, err := NewBoard(Presets[Easy])
	require.NoError(t, err)
	assert.ErrorIs(t, b.PlaceMines(Point{8, 0}, r), ErrOutOfBounds)
	assert.False(t, b.Placed())
}

func TestPlaceMinesSpreadsOverBoard(t *testing.T) {
	// every non-protected cell must be reachable by the sampler
	r := rand.New(rand.NewPCG(1, 2))
	seen := make(map[Point]bool)
	for range 200 {
		b, err := NewBoard(CustomParams(4, 3))
		require.NoError(t, err)
		require.NoError(t, b.PlaceMines(Point{1, 1}, r))
		for _, p := range b.Mines() {
			seen[p] = true
		}
	}
	assert.Len(t, seen, 15)
	assert.False(t, seen[Point{1, 1}])
}

func TestAdjacencyCounts(t *testing.T) {
	//   0 1 2 3
	// 0 2 * 1 0
	// 1 * 3 2 1
	// 2 1 2 * 1
	// 3 0 1 1 1
	b := plantedBoard(t, 4, Point{0, 1}, Point{1, 0}, Point{2, 2})

	tests := []struct {
		name  string
		cell  Point
		count int
	}{
		{"top-left corner", Point{0, 0}, 2},
		{"top-right corner", Point{0, 3}, 0},
		{"bottom-left corner", Point{3, 0}, 0},
		{"bottom-right corner", Point{3, 3}, 1},
		{"top edge", Point{0, 2}, 1},
		{"left edge", Point{2, 0}, 1},
		{"right edge", Point{1, 3}, 1},
		{"bottom edge", Point{3, 2}, 1},
		{"interior surrounded by three", Point{1, 1}, 3},
		{"interior", Point{2, 1}, 2},
		{"interior next to two", Point{1, 2}, 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c, err := b.Cell(test.cell.Row, test.cell.Col)
			require.NoError(t, err)
			assert.False(t, c.Mine)
			assert.Equal(t, test.count, c.Count)
		})
	}
}

func TestAdjacencyCountsRandomBoards(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, params := range []GameParams{Presets[Easy], Presets[Medium], Presets[Hard], CustomParams(5, 24)} {
		b, err := NewBoard(params)
		require.NoError(t, err)
		require.NoError(t, b.PlaceMines(Point{r.IntN(params.Size), r.IntN(params.Size)}, r))
		for row := range params.Size {
			for col := range params.Size {
				c, err := b.Cell(row, col)
				require.NoError(t, err)
				if !c.Mine {
					assert.Equal(t, bruteCount(b, row, col), c.Count, "cell %d:%d of %s", row, col, params.Seed())
				}
			}
		}
	}
}

func TestNeighbors(t *testing.T) {
	b, err := NewBoard(CustomParams(3, 0))
	require.NoError(t, err)

	assert.ElementsMatch(t, []Point{{0, 1}, {1, 0}, {1, 1}}, b.Neighbors(0, 0))
	assert.Len(t, b.Neighbors(0, 1), 5)
	assert.Len(t, b.Neighbors(1, 1), 8)
	assert.Nil(t, b.Neighbors(3, 3))
}

func TestRevealFloodFill(t *testing.T) {
	// a wall of mines in column 3 stops the fill after the numbered column 2
	wall := []Point{{0, 3}, {1, 3}, {2, 3}, {3, 3}, {4, 3}}
	b := plantedBoard(t, 5, wall...)

	res, err := b.Reveal(0, 0)
	require.NoError(t, err)
	assert.Equal(t, Revealed, res.Outcome)
	assert.Len(t, res.Cells, 15)

	revealed := make(map[Point]int)
	for _, u := range res.Cells {
		_, dup := revealed[u.Point]
		assert.False(t, dup, "cell %v revealed twice", u.Point)
		revealed[u.Point] = u.Count
	}
	for row := range 5 {
		for col := range 5 {
			c, err := b.Cell(row, col)
			require.NoError(t, err)
			count, ok := revealed[Point{row, col}]
			switch {
			case col < 2:
				assert.True(t, ok)
				assert.Equal(t, 0, count)
				assert.Equal(t, CellState(0), c.State)
			case col == 2:
				assert.True(t, ok)
				assert.Positive(t, count)
				assert.Equal(t, CellState(count), c.State)
			default:
				assert.False(t, ok)
				assert.Equal(t, Hidden, c.State)
			}
		}
	}

	again, err := b.Reveal(0, 0)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, again.Outcome)
	assert.Empty(t, again.Cells)

	inside, err := b.Reveal(3, 1)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, inside.Outcome)
}

func TestRevealNumberedCellDoesNotSpread(t *testing.T) {
	b := plantedBoard(t, 4, Point{0, 1}, Point{1, 0}, Point{2, 2})

	res, err := b.Reveal(0, 0)
	require.NoError(t, err)
	assert.Equal(t, Revealed, res.Outcome)
	assert.Equal(t, []CellUpdate{{Point: Point{0, 0}, Count: 2}}, res.Cells)
}

func TestRevealSkipsFlaggedCells(t *testing.T) {
	b := plantedBoard(t, 5, Point{4, 4})

	_, err := b.ToggleFlag(0, 4)
	require.NoError(t, err)
	_, err = b.ToggleFlag(2, 2)
	require.NoError(t, err)

	res, err := b.Reveal(2, 2)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, res.Outcome)

	res, err = b.Reveal(0, 0)
	require.NoError(t, err)
	assert.Equal(t, Revealed, res.Outcome)
	assert.Len(t, res.Cells, 22)

	for _, p := range []Point{{0, 4}, {2, 2}} {
		c, err := b.Cell(p.Row, p.Col)
		require.NoError(t, err)
		assert.Equal(t, Flagged, c.State)
	}
	assert.False(t, b.Cleared())
}

func TestRevealMine(t *testing.T) {
	b := plantedBoard(t, 3, Point{1, 1})

	res, err := b.Reveal(1, 1)
	require.NoError(t, err)
	assert.Equal(t, HitMine, res.Outcome)
	assert.Equal(t, Point{1, 1}, res.Hit)
	assert.Empty(t, res.Cells)

	c, err := b.Cell(1, 1)
	require.NoError(t, err)
	assert.Equal(t, Hidden, c.State)
}

func TestRevealErrors(t *testing.T) {
	b, err := NewBoard(CustomParams(3, 1))
	require.NoError(t, err)

	var ae AssertionError
	_, err = b.Reveal(0, 0)
	assert.ErrorAs(t, err, &ae)

	require.NoError(t, b.plant(Point{2, 2}))
	for _, p := range []Point{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		_, err = b.Reveal(p.Row, p.Col)
		assert.ErrorIs(t, err, ErrOutOfBounds)
	}
}

func TestRevealLargeBoard(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	b := plantedBoard(t, 600)

	res, err := b.Reveal(300, 300)
	require.NoError(t, err)
	assert.Len(t, res.Cells, 600*600)
	assert.True(t, b.Cleared())
}

func TestToggleFlag(t *testing.T) {
	b := plantedBoard(t, 3, Point{2, 2})

	state, err := b.ToggleFlag(2, 2)
	require.NoError(t, err)
	assert.Equal(t, Flagged, state)
	assert.Equal(t, 1, b.FlagCount())

	state, err = b.ToggleFlag(2, 2)
	require.NoError(t, err)
	assert.Equal(t, Hidden, state)
	assert.Zero(t, b.FlagCount())

	_, err = b.Reveal(1, 1)
	require.NoError(t, err)
	state, err = b.ToggleFlag(1, 1)
	require.NoError(t, err)
	assert.Equal(t, CellState(1), state)
	assert.Zero(t, b.FlagCount())

	_, err = b.ToggleFlag(3, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestCleared(t *testing.T) {
	b := plantedBoard(t, 2, Point{1, 1})
	assert.False(t, b.Cleared())

	_, err := b.Reveal(0, 0)
	require.NoError(t, err)
	assert.False(t, b.Cleared())

	_, err = b.ToggleFlag(0, 1)
	require.NoError(t, err)
	_, err = b.Reveal(1, 0)
	require.NoError(t, err)
	assert.False(t, b.Cleared(), "flagged safe cell is not revealed")

	_, err = b.ToggleFlag(0, 1)
	require.NoError(t, err)
	_, err = b.Reveal(0, 1)
	require.NoError(t, err)
	assert.True(t, b.Cleared(), "mine does not need a flag")

	_, err = b.ToggleFlag(1, 1)
	require.NoError(t, err)
	assert.True(t, b.Cleared())
}

func TestChord(t *testing.T) {
	tests := []struct {
		name    string
		flags   []Point
		outcome RevealOutcome
		cells   []CellUpdate
	}{
		{
			name:    "satisfied",
			flags:   []Point{{0, 1}, {1, 0}},
			outcome: Revealed,
			cells:   []CellUpdate{{Point: Point{1, 1}, Count: 3}},
		},
		{
			name:    "not enough flags",
			flags:   []Point{{0, 1}},
			outcome: Unchanged,
		},
		{
			name:    "wrong flag",
			flags:   []Point{{0, 1}, {1, 1}},
			outcome: HitMine,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := plantedBoard(t, 4, Point{0, 1}, Point{1, 0}, Point{2, 2})
			_, err := b.Reveal(0, 0)
			require.NoError(t, err)
			for _, f := range test.flags {
				_, err := b.ToggleFlag(f.Row, f.Col)
				require.NoError(t, err)
			}

			res, err := b.Chord(0, 0)
			require.NoError(t, err)
			assert.Equal(t, test.outcome, res.Outcome)
			assert.Equal(t, test.cells, res.Cells)
			if test.outcome == HitMine {
				assert.Equal(t, Point{1, 0}, res.Hit)
			}
		})
	}
}

func TestChordOnHiddenCell(t *testing.T) {
	b := plantedBoard(t, 4, Point{0, 1}, Point{1, 0}, Point{2, 2})
	res, err := b.Chord(3, 3)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, res.Outcome)
}
