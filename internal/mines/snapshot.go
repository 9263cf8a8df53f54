package mines

// Snapshot is a read-only view of a game for rendering. Mine positions appear
// in Grid only once the game is over.
type Snapshot struct {
	GameParams
	Started   bool    `json:"started"`
	Outcome   Outcome `json:"outcome"`
	Flags     int     `json:"flags"`
	MinesLeft int     `json:"mines_left"`
	Grid      Grid    `json:"grid"`
}

func (s *GameSession) Snapshot() Snapshot {
	grid := make(Grid, len(s.board.cells))
	flags := 0
	for i, c := range s.board.cells {
		if c.state == Flagged {
			flags++
		}
		grid[i] = s.visibleState(i, c)
	}
	return Snapshot{
		GameParams: s.board.GameParams,
		Started:    s.started,
		Outcome:    s.outcome,
		Flags:      flags,
		MinesLeft:  s.board.MineCount - flags,
		Grid:       grid,
	}
}

func (s *GameSession) visibleState(i int, c cell) CellState {
	switch s.outcome {
	case Lost:
		switch {
		case i == s.exploded:
			return ExplodedMine
		case c.state == Flagged && c.mined:
			return CorrectlyFlagged
		case c.state == Flagged:
			return FalselyFlagged
		case c.mined:
			return UnflaggedMine
		}
	case Won:
		if c.mined {
			return CorrectlyFlagged
		}
	}
	return c.state
}

func (s Snapshot) String() string {
	return s.Grid.ToString(s.Size)
}
