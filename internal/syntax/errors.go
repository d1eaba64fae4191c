package syntax

import (
	"fmt"

	"github.com/syxlang/syx/internal/types"
)

// ParseError is raised on the first grammar violation in a file. There is
// no recovery: parsing of the file aborts entirely.
type ParseError struct {
	File    string
	Range   types.Range
	Message string
	// Actions holds ranked quick fixes, currently only populated for
	// keyword-not-found errors.
	Actions []types.CodeAction
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Range.Start.Line, e.Range.Start.Character, e.Message)
}
