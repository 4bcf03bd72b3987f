package chess

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by FEN parsing and other caller-recoverable
// boundary operations. Wrap with fmt.Errorf("%w: ...") for context; compare
// with errors.Is.
var (
	// ErrMalformedFEN means the FEN string itself could not be parsed:
	// wrong field count, unparseable numbers, invalid characters.
	ErrMalformedFEN = errors.New("chess: malformed FEN")
	// ErrIllegalPosition means the FEN parsed but describes a position
	// that cannot arise from legal play: wrong king count, adjacent
	// kings, side not to move attacking the other king, and similar.
	ErrIllegalPosition = errors.New("chess: illegal position")
)

// Programmer errors (popping past the root, pushing an illegal move) are
// not represented as error values: the contract places the burden of
// legality on the caller, and the generator is the sole authority on what
// is legal. Violating that contract panics, matching the teacher's own
// practice of treating out-of-contract input as undefined behavior rather
// than a recoverable error.
func panicf(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}
