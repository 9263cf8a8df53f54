package mines

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand/v2"
)

type gameState struct {
	Params   GameParams
	Placed   bool
	Mines    []Point
	Cells    Grid /* Hidden, Flagged or revealed count */
	Started  bool
	Outcome  Outcome
	Exploded int
}

func (s *GameSession) Bytes() ([]byte, error) {
	cells := make(Grid, len(s.board.cells))
	for i, c := range s.board.cells {
		cells[i] = c.state
	}
	state := gameState{
		Params:   s.board.GameParams,
		Placed:   s.board.placed,
		Mines:    s.board.Mines(),
		Cells:    cells,
		Started:  s.started,
		Outcome:  s.outcome,
		Exploded: s.exploded,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeGameSession restores a game written by [GameSession.Bytes]. r is used
// for mine placement if the game has not started yet.
func DecodeGameSession(buf []byte, r *rand.Rand) (*GameSession, error) {
	var state gameState
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&state); err != nil {
		return nil, err
	}

	s, err := NewGame(state.Params, r)
	if err != nil {
		return nil, err
	}
	if len(state.Cells) != len(s.board.cells) {
		return nil, fmt.Errorf("decoded grid has %d cells, want %d",
			len(state.Cells), len(s.board.cells))
	}
	if state.Placed {
		if len(state.Mines) != state.Params.MineCount {
			return nil, fmt.Errorf("decoded board has %d mines, want %d",
				len(state.Mines), state.Params.MineCount)
		}
		seen := make(map[Point]bool, len(state.Mines))
		for _, p := range state.Mines {
			if seen[p] {
				return nil, fmt.Errorf("decoded mine %d:%d is duplicated", p.Row, p.Col)
			}
			seen[p] = true
		}
		if err := s.board.plant(state.Mines...); err != nil {
			return nil, err
		}
	} else if state.Started {
		return nil, fmt.Errorf("decoded game is started without mines")
	}
	if state.Exploded != -1 {
		if state.Outcome != Lost || state.Exploded < 0 || state.Exploded >= len(state.Cells) ||
			!s.board.cells[state.Exploded].mined {
			return nil, fmt.Errorf("decoded exploded cell %d is invalid", state.Exploded)
		}
	}
	for i, st := range state.Cells {
		if st != Hidden && st != Flagged && !st.Revealed() {
			return nil, fmt.Errorf("decoded cell %d has invalid state %d", i, st)
		}
		s.board.cells[i].state = st
	}
	s.started = state.Started
	s.outcome = state.Outcome
	s.exploded = state.Exploded
	return s, nil
}
