package lobby

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper/internal/mines"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0,
	"o": 2,
	"f": 2,
	"c": 2,
	"r": 0,
}

// CommandError points at the failing line of a batch, counting from 1.
type CommandError struct {
	Line int
	Err  error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func byPiece(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}

func parseRowCol(twoStrings []string) (row int, col int, err error) {
	if row, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("row must be an int")
		return
	}
	if col, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("col must be an int")
		return
	}
	return
}

// executeCommand applies one command to g:
//
//	g        no-op
//	o r c    reveal the cell at r:c
//	f r c    toggle a flag at r:c
//	c r c    chord the cell at r:c
//	r        forfeit
func executeCommand(g *mines.GameSession, c string) error {
	parts := strings.Fields(c)
	if len(parts) == 0 {
		return errors.New("empty command")
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return errors.New("unknown command")
	}
	if nargs != len(parts)-1 {
		return errors.New("invalid number of arguments")
	}
	if parts[0] == "g" {
		return nil
	}
	if parts[0] == "r" {
		return g.Forfeit()
	}
	row, col, err := parseRowCol(parts[1:])
	if err != nil {
		return err
	}
	switch parts[0] {
	case "o":
		_, err = g.Reveal(row, col)
	case "f":
		_, err = g.ToggleFlag(row, col)
	case "c":
		_, err = g.Chord(row, col)
	}
	return err
}

// executeBatch runs newline-separated commands in order and stops early once
// the game is over. The first failing command aborts the batch.
func executeBatch(g *mines.GameSession, batch string) error {
	for i, c := range byPiece(strings.TrimSpace(batch), "\n") {
		if err := executeCommand(g, c); err != nil {
			return &CommandError{Line: i + 1, Err: err}
		}
		if g.Over() {
			break
		}
	}
	return nil
}
