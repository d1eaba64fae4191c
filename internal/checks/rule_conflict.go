package checks

import (
	"fmt"

	"github.com/syxlang/syx/internal/registry"
	"github.com/syxlang/syx/internal/syntax"
	"github.com/syxlang/syx/internal/types"
)

// CheckRuleConflicts flags pairs of declared rules whose registry entries
// conflict. Conflicts are declared one-directionally in the registry but
// checked symmetrically. Each statement of a conflicting pair gets one
// Warning carrying two fixes: remove either statement.
func CheckRuleConflicts(program *syntax.ProgramStatement, filePath string) []types.Diagnostic {
	rules := collectRules(program)

	var diagnostics []types.Diagnostic
	for i := 0; i < len(rules); i++ {
		for j := i + 1; j < len(rules); j++ {
			a, b := rules[i], rules[j]
			if !registry.Conflicting(a.RuleName, b.RuleName) {
				continue
			}
			fixes := []types.CodeAction{
				types.RemovalEdit(fmt.Sprintf("Remove rule '%s'", a.RuleName), filePath, a.Range()),
				types.RemovalEdit(fmt.Sprintf("Remove rule '%s'", b.RuleName), filePath, b.Range()),
			}
			diagnostics = append(diagnostics,
				conflictDiagnostic(a, b, fixes),
				conflictDiagnostic(b, a, fixes),
			)
		}
	}
	return diagnostics
}

func conflictDiagnostic(at, other *syntax.RuleStatement, fixes []types.CodeAction) types.Diagnostic {
	return types.Diagnostic{
		Message:  fmt.Sprintf("Rule '%s' conflicts with rule '%s'", at.RuleName, other.RuleName),
		Range:    at.Range(),
		Severity: types.SeverityWarning,
		Source:   types.DiagnosticSource,
		Actions:  fixes,
	}
}

func collectRules(program *syntax.ProgramStatement) []*syntax.RuleStatement {
	var rules []*syntax.RuleStatement
	syntax.Walk(program, func(s syntax.Statement) {
		if r, ok := s.(*syntax.RuleStatement); ok {
			rules = append(rules, r)
		}
	})
	return rules
}
