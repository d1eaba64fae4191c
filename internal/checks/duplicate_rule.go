package checks

import (
	"fmt"

	"github.com/syxlang/syx/internal/syntax"
	"github.com/syxlang/syx/internal/types"
)

// CheckDuplicateRules flags a rule declared more than once. The duplicate
// (the later statement) is the one reported and the one the fix removes.
func CheckDuplicateRules(program *syntax.ProgramStatement, filePath string) []types.Diagnostic {
	var diagnostics []types.Diagnostic
	declared := make(map[string]bool)
	for _, rule := range collectRules(program) {
		if declared[rule.RuleName] {
			diagnostics = append(diagnostics, types.Diagnostic{
				Message:  fmt.Sprintf("Rule '%s' is already declared", rule.RuleName),
				Range:    rule.Range(),
				Severity: types.SeverityError,
				Source:   types.DiagnosticSource,
				Actions: []types.CodeAction{
					types.RemovalEdit(fmt.Sprintf("Remove duplicate rule '%s'", rule.RuleName), filePath, rule.Range()),
				},
			})
			continue
		}
		declared[rule.RuleName] = true
	}
	return diagnostics
}
