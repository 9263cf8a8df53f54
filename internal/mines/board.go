package mines

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Cell is a read-only copy of one board position.
type Cell struct {
	Mine  bool
	Count int
	State CellState
}

type cell struct {
	mined bool
	count int8
	state CellState /* Hidden, Flagged or the revealed count */
}

type RevealOutcome int

const (
	Unchanged RevealOutcome = iota
	Revealed
	HitMine
)

type CellUpdate struct {
	Point
	Count int `json:"count"`
}

type RevealResult struct {
	Outcome RevealOutcome
	Cells   []CellUpdate /* newly revealed, in reveal order */
	Hit     Point        /* set when Outcome is HitMine */
}

// Board is a square minefield. Mines are laid once, after construction, so
// that the first revealed cell can be kept clear.
type Board struct {
	GameParams
	cells  []cell
	placed bool
}

func NewBoard(params GameParams) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	cells := make([]cell, params.Size*params.Size)
	for i := range cells {
		cells[i].state = Hidden
	}
	return &Board{GameParams: params, cells: cells}, nil
}

func (b *Board) Placed() bool {
	return b.placed
}

func (b *Board) index(row, col int) int {
	return row*b.Size + col
}

func (b *Board) point(i int) Point {
	return Point{Row: i / b.Size, Col: i % b.Size}
}

func (b *Board) neighborRange(row, col int) (fromRow, toRow, fromCol, toCol int) {
	fromRow, toRow = max(0, row-1), min(row+1, b.Size-1)
	fromCol, toCol = max(0, col-1), min(col+1, b.Size-1)
	return
}

func (b *Board) eachNeighbor(i int, fn func(j int)) {
	row, col := i/b.Size, i%b.Size
	fromRow, toRow, fromCol, toCol := b.neighborRange(row, col)
	for r := fromRow; r <= toRow; r++ {
		for c := fromCol; c <= toCol; c++ {
			if j := b.index(r, c); j != i {
				fn(j)
			}
		}
	}
}

func (b *Board) Neighbors(row, col int) []Point {
	if !b.InBounds(row, col) {
		return nil
	}
	neighbors := make([]Point, 0, 8)
	b.eachNeighbor(b.index(row, col), func(j int) {
		neighbors = append(neighbors, b.point(j))
	})
	return neighbors
}

func (b *Board) Cell(row, col int) (Cell, error) {
	if !b.InBounds(row, col) {
		return Cell{}, outOfBounds(row, col, b.Size)
	}
	c := b.cells[b.index(row, col)]
	return Cell{Mine: c.mined, Count: int(c.count), State: c.state}, nil
}

// PlaceMines samples MineCount distinct cells uniformly from every cell except
// protected and then computes all adjacency counts.
func (b *Board) PlaceMines(protected Point, r *rand.Rand) error {
	if b.placed {
		return AssertionError{"mines already placed"}
	}
	if !b.InBounds(protected.Row, protected.Col) {
		return outOfBounds(protected.Row, protected.Col, b.Size)
	}

	first := b.index(protected.Row, protected.Col)
	candidates := make([]int, 0, len(b.cells)-1)
	for i := range b.cells {
		if i != first {
			candidates = append(candidates, i)
		}
	}

	layout := make([]int, 0, b.MineCount)
	k := len(candidates)
	for range b.MineCount {
		i := r.IntN(k)
		layout = append(layout, candidates[i])
		k--
		candidates[i] = candidates[k]
	}

	b.layMines(layout)

	Log.WithFields(logrus.Fields{
		"seed":      b.Seed(),
		"protected": protected,
	}).Debug("mines placed")
	return nil
}

// plant lays mines at fixed points.
func (b *Board) plant(points ...Point) error {
	if b.placed {
		return AssertionError{"mines already placed"}
	}
	layout := make([]int, 0, len(points))
	for _, p := range points {
		if !b.InBounds(p.Row, p.Col) {
			return outOfBounds(p.Row, p.Col, b.Size)
		}
		layout = append(layout, b.index(p.Row, p.Col))
	}
	b.layMines(layout)
	return nil
}

// layMines commits a layout in one pass; counts are computed only after every
// mine is known.
func (b *Board) layMines(layout []int) {
	mined := make([]bool, len(b.cells))
	for _, i := range layout {
		mined[i] = true
	}
	for i := range b.cells {
		var n int8
		if !mined[i] {
			b.eachNeighbor(i, func(j int) {
				if mined[j] {
					n++
				}
			})
		}
		b.cells[i].mined = mined[i]
		b.cells[i].count = n
	}
	b.placed = true
}

// Reveal opens a hidden cell. Opening a zero cell opens its whole zero region
// and the numbered ring around it. A mine is reported but left untouched.
func (b *Board) Reveal(row, col int) (RevealResult, error) {
	if !b.InBounds(row, col) {
		return RevealResult{}, outOfBounds(row, col, b.Size)
	}
	if !b.placed {
		return RevealResult{}, AssertionError{"reveal before mines are placed"}
	}

	i := b.index(row, col)
	c := &b.cells[i]
	if c.state != Hidden {
		return RevealResult{Outcome: Unchanged}, nil
	}
	if c.mined {
		return RevealResult{Outcome: HitMine, Hit: Point{row, col}}, nil
	}

	var updates []CellUpdate
	c.state = CellState(c.count)
	stack := []int{i}
	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		updates = append(updates, CellUpdate{Point: b.point(j), Count: int(b.cells[j].count)})
		if b.cells[j].count != 0 {
			continue
		}
		b.eachNeighbor(j, func(k int) {
			n := &b.cells[k]
			if n.state == Hidden && !n.mined {
				n.state = CellState(n.count)
				stack = append(stack, k)
			}
		})
	}

	return RevealResult{Outcome: Revealed, Cells: updates}, nil
}

// Chord opens every hidden neighbor of a revealed number once the number is
// matched by neighboring flags.
func (b *Board) Chord(row, col int) (RevealResult, error) {
	if !b.InBounds(row, col) {
		return RevealResult{}, outOfBounds(row, col, b.Size)
	}

	i := b.index(row, col)
	c := b.cells[i]
	if !c.state.Revealed() || c.count == 0 {
		return RevealResult{Outcome: Unchanged}, nil
	}

	flags := 0
	targets := make([]int, 0, 8)
	b.eachNeighbor(i, func(j int) {
		switch b.cells[j].state {
		case Flagged:
			flags++
		case Hidden:
			targets = append(targets, j)
		}
	})
	if flags != int(c.count) {
		return RevealResult{Outcome: Unchanged}, nil
	}

	result := RevealResult{Outcome: Unchanged}
	for _, j := range targets {
		p := b.point(j)
		res, err := b.Reveal(p.Row, p.Col)
		if err != nil {
			return RevealResult{}, err
		}
		switch res.Outcome {
		case HitMine:
			if result.Outcome != HitMine {
				result.Outcome, result.Hit = HitMine, res.Hit
			}
		case Revealed:
			if result.Outcome == Unchanged {
				result.Outcome = Revealed
			}
			result.Cells = append(result.Cells, res.Cells...)
		}
	}
	return result, nil
}

// ToggleFlag flips a hidden cell to flagged and back; revealed cells keep
// their state.
func (b *Board) ToggleFlag(row, col int) (CellState, error) {
	if !b.InBounds(row, col) {
		return 0, outOfBounds(row, col, b.Size)
	}
	c := &b.cells[b.index(row, col)]
	switch c.state {
	case Hidden:
		c.state = Flagged
	case Flagged:
		c.state = Hidden
	}
	return c.state, nil
}

// Cleared reports whether every safe cell is revealed. Flags do not count.
func (b *Board) Cleared() bool {
	for _, c := range b.cells {
		if !c.mined && !c.state.Revealed() {
			return false
		}
	}
	return true
}

func (b *Board) Mines() []Point {
	var mines []Point
	for i, c := range b.cells {
		if c.mined {
			mines = append(mines, b.point(i))
		}
	}
	return mines
}

func (b *Board) FlagCount() (count int) {
	for _, c := range b.cells {
		if c.state == Flagged {
			count++
		}
	}
	return
}
