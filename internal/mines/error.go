package mines

import "fmt"

var (
	ErrInvalidConfiguration = fmt.Errorf("invalid game configuration")
	ErrGameAlreadyOver      = fmt.Errorf("game is already over")
	ErrOutOfBounds          = fmt.Errorf("cell coordinates out of bounds")
)

type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return "assertion failed: " + e.message
}

func outOfBounds(row, col, size int) error {
	return fmt.Errorf("%w: (%d, %d) on a %dx%d board", ErrOutOfBounds, row, col, size, size)
}
