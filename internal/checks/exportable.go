// Package checks holds the independent static checks the diagnostic
// engine runs over a parsed program. Each check is a pure function from
// the AST (plus the file path) to a list of diagnostics; the engine fixes
// their execution order.
package checks

import (
	"github.com/syxlang/syx/internal/syntax"
	"github.com/syxlang/syx/internal/types"
)

// CheckExportable flags export modifiers applied to statements outside the
// exportable set, recursing into operator, function, and global bodies.
// The offered fix removes the modifier token.
func CheckExportable(program *syntax.ProgramStatement, filePath string) []types.Diagnostic {
	var diagnostics []types.Diagnostic
	syntax.Walk(program, func(s syntax.Statement) {
		if syntax.ExportableNodeTypes[s.Type()] {
			return
		}
		for _, mod := range s.Modifiers() {
			if mod.Type != syntax.ExportKeyword {
				continue
			}
			diagnostics = append(diagnostics, types.Diagnostic{
				Message:  "'export' cannot be applied to this statement",
				Range:    s.Range(),
				Severity: types.SeverityError,
				Source:   types.DiagnosticSource,
				Actions: []types.CodeAction{
					types.RemovalEdit("Remove 'export' modifier", filePath, mod.Range),
				},
			})
		}
	})
	return diagnostics
}
