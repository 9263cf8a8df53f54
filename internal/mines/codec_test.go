package mines

import (
	"bytes"
	"encoding/gob"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameSessionBytes(t *testing.T) {
	s := fixedGame(t, 4, Point{0, 1}, Point{1, 0}, Point{2, 2})
	_, err := s.Reveal(3, 0)
	require.NoError(t, err)
	_, err = s.ToggleFlag(2, 2)
	require.NoError(t, err)

	buf, err := s.Bytes()
	require.NoError(t, err)

	decoded, err := DecodeGameSession(buf, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot(), decoded.Snapshot())
	assert.Equal(t, s.board.Mines(), decoded.board.Mines())

	// both copies keep playing the same way
	want, err := s.Reveal(0, 1)
	require.NoError(t, err)
	got, err := decoded.Reveal(0, 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, Lost, decoded.Outcome())
	assert.Equal(t, s.Snapshot(), decoded.Snapshot())
}

func TestGameSessionBytesFinished(t *testing.T) {
	s := fixedGame(t, 4, Point{0, 1}, Point{1, 0}, Point{2, 2})
	_, err := s.Reveal(0, 0)
	require.NoError(t, err)
	_, err = s.Reveal(1, 0)
	require.NoError(t, err)
	require.Equal(t, Lost, s.Outcome())

	buf, err := s.Bytes()
	require.NoError(t, err)
	decoded, err := DecodeGameSession(buf, nil)
	require.NoError(t, err)

	assert.True(t, decoded.Over())
	assert.Equal(t, s.Snapshot(), decoded.Snapshot())
	_, err = decoded.Reveal(3, 3)
	assert.ErrorIs(t, err, ErrGameAlreadyOver)
}

func TestGameSessionBytesNotStarted(t *testing.T) {
	s, err := NewGame(Presets[Medium], rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	_, err = s.ToggleFlag(5, 5)
	require.NoError(t, err)

	buf, err := s.Bytes()
	require.NoError(t, err)
	decoded, err := DecodeGameSession(buf, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)
	assert.False(t, decoded.Started())
	assert.Equal(t, s.Snapshot(), decoded.Snapshot())

	move, err := decoded.Reveal(0, 0)
	require.NoError(t, err)
	assert.NotEqual(t, Lost, move.Outcome)
	assert.Len(t, decoded.board.Mines(), 30)
}

func TestDecodeGameSessionInvalid(t *testing.T) {
	_, err := DecodeGameSession([]byte("not a game"), nil)
	assert.Error(t, err)
}

func TestDecodeGameSessionCorrupt(t *testing.T) {
	valid := func() gameState {
		cells := make(Grid, 16)
		for i := range cells {
			cells[i] = Hidden
		}
		return gameState{
			Params:   CustomParams(4, 3),
			Placed:   true,
			Mines:    []Point{{0, 1}, {1, 0}, {2, 2}},
			Cells:    cells,
			Started:  true,
			Outcome:  InProgress,
			Exploded: -1,
		}
	}

	tests := []struct {
		name    string
		corrupt func(s *gameState)
		valid   bool
	}{
		{"untouched", func(s *gameState) {}, true},
		{"lost on a mine", func(s *gameState) { s.Outcome, s.Exploded = Lost, 4 }, true},
		{"missing mine", func(s *gameState) { s.Mines = s.Mines[:2] }, false},
		{"extra mine", func(s *gameState) { s.Mines = append(s.Mines, Point{3, 3}) }, false},
		{"duplicate mine", func(s *gameState) { s.Mines[2] = s.Mines[0] }, false},
		{"mine out of bounds", func(s *gameState) { s.Mines[2] = Point{4, 0} }, false},
		{"started without mines", func(s *gameState) { s.Placed, s.Mines = false, nil }, false},
		{"exploded while playing", func(s *gameState) { s.Exploded = 1 }, false},
		{"exploded out of range", func(s *gameState) { s.Outcome, s.Exploded = Lost, 16 }, false},
		{"exploded negative", func(s *gameState) { s.Outcome, s.Exploded = Lost, -5 }, false},
		{"exploded safe cell", func(s *gameState) { s.Outcome, s.Exploded = Lost, 0 }, false},
		{"short grid", func(s *gameState) { s.Cells = s.Cells[:15] }, false},
		{"bad cell state", func(s *gameState) { s.Cells[3] = 9 }, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			state := valid()
			test.corrupt(&state)
			var buf bytes.Buffer
			require.NoError(t, gob.NewEncoder(&buf).Encode(state))

			s, err := DecodeGameSession(buf.Bytes(), nil)
			if test.valid {
				require.NoError(t, err)
				assert.Len(t, s.board.Mines(), 3)
				return
			}
			assert.Error(t, err)
			assert.Nil(t, s)
		})
	}
}
