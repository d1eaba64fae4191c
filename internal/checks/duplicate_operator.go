package checks

import (
	"fmt"

	"github.com/syxlang/syx/internal/compiler"
	"github.com/syxlang/syx/internal/syntax"
	"github.com/syxlang/syx/internal/types"
)

// CheckDuplicateOperators flags operators whose compiled pattern source is
// textually identical to an earlier operator's. Comparison is textual, not
// semantic: two differently written but equivalent patterns pass. The fix
// removes the later operator.
func CheckDuplicateOperators(program *syntax.ProgramStatement, filePath string) []types.Diagnostic {
	var diagnostics []types.Diagnostic
	seen := make(map[string]bool)
	syntax.Walk(program, func(s syntax.Statement) {
		op, ok := s.(*syntax.OperatorStatement)
		if !ok {
			return
		}
		source, err := compiler.PatternSource(op)
		if err != nil {
			return
		}
		if seen[source] {
			diagnostics = append(diagnostics, types.Diagnostic{
				Message:  fmt.Sprintf("An operator with pattern %q is already declared", source),
				Range:    op.Range(),
				Severity: types.SeverityError,
				Source:   types.DiagnosticSource,
				Actions: []types.CodeAction{
					types.RemovalEdit("Remove duplicate operator", filePath, op.Range()),
				},
			})
			return
		}
		seen[source] = true
	})
	return diagnostics
}
