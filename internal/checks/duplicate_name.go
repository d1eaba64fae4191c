package checks

import (
	"fmt"

	"github.com/syxlang/syx/internal/syntax"
	"github.com/syxlang/syx/internal/types"
)

// CheckDuplicateNames flags function, global, and keyword declarations
// sharing a name, recursing into global bodies. No fix is offered: which
// declaration is the right one is the author's call.
func CheckDuplicateNames(program *syntax.ProgramStatement, _ string) []types.Diagnostic {
	var diagnostics []types.Diagnostic
	declared := make(map[string]bool)
	syntax.Walk(program, func(s syntax.Statement) {
		var name string
		switch v := s.(type) {
		case *syntax.FunctionStatement:
			name = v.Name
		case *syntax.GlobalStatement:
			name = v.Name
		case *syntax.KeywordStatement:
			name = v.Word
		default:
			return
		}
		if declared[name] {
			diagnostics = append(diagnostics, types.Diagnostic{
				Message:  fmt.Sprintf("The name '%s' is already declared", name),
				Range:    s.Range(),
				Severity: types.SeverityError,
				Source:   types.DiagnosticSource,
			})
			return
		}
		declared[name] = true
	})
	return diagnostics
}
