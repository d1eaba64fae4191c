package checks

import (
	"fmt"
	"os"
	"strings"

	"github.com/syxlang/syx/internal/compiler"
	"github.com/syxlang/syx/internal/syntax"
	"github.com/syxlang/syx/internal/types"
)

// CheckUnresolvedImports flags import statements whose path, resolved
// relative to the importing file with the declaration extension appended
// if absent, does not name an existing regular `.syx` file. The fix
// removes the import statement.
func CheckUnresolvedImports(program *syntax.ProgramStatement, filePath string) []types.Diagnostic {
	var diagnostics []types.Diagnostic
	for _, s := range program.Statements {
		imp, ok := s.(*syntax.ImportStatement)
		if !ok {
			continue
		}
		resolved := compiler.ResolveImportPath(filePath, imp.Path.Text)
		if importResolves(resolved) {
			continue
		}
		diagnostics = append(diagnostics, types.Diagnostic{
			Message:  fmt.Sprintf("Cannot resolve import '%s'", imp.Path.Text),
			Range:    imp.Range(),
			Severity: types.SeverityError,
			Source:   types.DiagnosticSource,
			Actions: []types.CodeAction{
				types.RemovalEdit("Remove unresolved import", filePath, imp.Range()),
			},
		})
	}
	return diagnostics
}

func importResolves(path string) bool {
	if !strings.HasSuffix(path, compiler.DeclarationExt) {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
