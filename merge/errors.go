package merge

import (
	"errors"
	"fmt"
)

// ErrLinkCycle marks a link that re-enters a file already being
// absorbed along the current ancestor path.
var ErrLinkCycle = errors.New("merge: link re-enters a file being absorbed")

// LinkError reports a failure to resolve, parse, or absorb a linked
// file. It wraps the underlying cause.
type LinkError struct {
	Link string
	Err  error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("merge: link %q: %v", e.Link, e.Err)
}

func (e *LinkError) Unwrap() error {
	return e.Err
}
