package mines

import (
	"fmt"
	"math/rand/v2"
)

type Outcome int

const (
	InProgress Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// [Outcome] implements [encoding.TextMarshaler]
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "in_progress":
		*o = InProgress
	case "won":
		*o = Won
	case "lost":
		*o = Lost
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}

// Move is what a single player action did to the game. InProgress means play
// continues.
type Move struct {
	Outcome Outcome      `json:"outcome"`
	Updates []CellUpdate `json:"updates"`
}

// Placer lays the mines of a fresh board around the first revealed cell.
type Placer func(b *Board, protected Point) error

func RandomPlacer(r *rand.Rand) Placer {
	return func(b *Board, protected Point) error {
		return b.PlaceMines(protected, r)
	}
}

// GameSession is a single game. Mines are placed on the first reveal, and
// once the game is won or lost it no longer accepts moves.
//
// A GameSession is not safe for concurrent use.
type GameSession struct {
	board    *Board
	place    Placer
	started  bool
	outcome  Outcome
	exploded int
}

func NewGame(params GameParams, r *rand.Rand) (*GameSession, error) {
	return NewGameWithPlacer(params, RandomPlacer(r))
}

func NewGameWithPlacer(params GameParams, place Placer) (*GameSession, error) {
	board, err := NewBoard(params)
	if err != nil {
		return nil, err
	}
	s := &GameSession{
		board:    board,
		place:    place,
		outcome:  InProgress,
		exploded: -1,
	}
	return s, nil
}

func (s *GameSession) Params() GameParams {
	return s.board.GameParams
}

func (s *GameSession) Started() bool {
	return s.started
}

func (s *GameSession) Outcome() Outcome {
	return s.outcome
}

func (s *GameSession) Over() bool {
	return s.outcome != InProgress
}

func (s *GameSession) check(row, col int) error {
	if s.Over() {
		return ErrGameAlreadyOver
	}
	if !s.board.InBounds(row, col) {
		return outOfBounds(row, col, s.board.Size)
	}
	return nil
}

func (s *GameSession) Reveal(row, col int) (Move, error) {
	if err := s.check(row, col); err != nil {
		return Move{Outcome: s.outcome}, err
	}

	first := !s.started
	if first {
		if err := s.place(s.board, Point{row, col}); err != nil {
			return Move{Outcome: s.outcome}, fmt.Errorf("unable to place mines: %w", err)
		}
		s.started = true
	}

	res, err := s.board.Reveal(row, col)
	if err != nil {
		return Move{Outcome: s.outcome}, err
	}
	if first && res.Outcome == HitMine {
		return Move{Outcome: s.outcome}, AssertionError{"mine in starting cell"}
	}
	return s.settle(res), nil
}

func (s *GameSession) Chord(row, col int) (Move, error) {
	if err := s.check(row, col); err != nil {
		return Move{Outcome: s.outcome}, err
	}
	if !s.started {
		return Move{Outcome: s.outcome}, nil
	}
	res, err := s.board.Chord(row, col)
	if err != nil {
		return Move{Outcome: s.outcome}, err
	}
	return s.settle(res), nil
}

func (s *GameSession) settle(res RevealResult) Move {
	switch res.Outcome {
	case HitMine:
		s.outcome = Lost
		s.exploded = s.board.index(res.Hit.Row, res.Hit.Col)
	case Revealed:
		if s.board.Cleared() {
			s.outcome = Won
		}
	}
	return Move{Outcome: s.outcome, Updates: res.Cells}
}

func (s *GameSession) ToggleFlag(row, col int) (CellState, error) {
	if err := s.check(row, col); err != nil {
		return 0, err
	}
	return s.board.ToggleFlag(row, col)
}

// Forfeit ends a running game as lost.
func (s *GameSession) Forfeit() error {
	if s.Over() {
		return ErrGameAlreadyOver
	}
	s.outcome = Lost
	return nil
}
