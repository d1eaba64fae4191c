// Package internal hosts the diagnostic engine: it runs the lexer and
// parser over one file and then a fixed sequence of static checks.
package internal

import (
	"errors"
	"os"
	"strings"

	"github.com/syxlang/syx/internal/checks"
	"github.com/syxlang/syx/internal/compiler"
	"github.com/syxlang/syx/internal/syntax"
	"github.com/syxlang/syx/internal/types"
)

// CheckFunc is one independent static check over a parsed program.
type CheckFunc func(program *syntax.ProgramStatement, filePath string) []types.Diagnostic

type namedCheck struct {
	name string
	fn   CheckFunc
}

// allChecks runs in this exact order; their results are concatenated, so
// the report ordering is deterministic for identical content.
var allChecks = []namedCheck{
	{"exportable", checks.CheckExportable},
	{"rule-conflict", checks.CheckRuleConflicts},
	{"duplicate-rule", checks.CheckDuplicateRules},
	{"unresolved-import", checks.CheckUnresolvedImports},
	{"duplicate-operator-pattern", checks.CheckDuplicateOperators},
	{"duplicate-name", checks.CheckDuplicateNames},
}

// CheckNames lists the names of every registered check, in execution
// order.
func CheckNames() []string {
	names := make([]string, 0, len(allChecks))
	for _, c := range allChecks {
		names = append(names, c.name)
	}
	return names
}

// Engine produces diagnostic reports for single files. A zero-configured
// engine runs every check; checks can be ignored by name.
type Engine struct {
	ignoredChecks map[string]bool
}

// NewEngine creates a diagnostic engine with all checks enabled.
func NewEngine() *Engine {
	return &Engine{ignoredChecks: make(map[string]bool)}
}

// IgnoreCheck disables the named check for subsequent reports.
func (e *Engine) IgnoreCheck(name string) {
	e.ignoredChecks[name] = true
}

// Report analyzes one file and returns a full diagnostic report. When
// content is nil the file is read from disk. A parse failure produces
// exactly one Error item carrying the parser's quick fixes, and no checks
// run. Coordinates in the returned report are 0-based.
func (e *Engine) Report(filePath string, content []byte) types.Report {
	report := types.Report{Kind: types.ReportKindFull, Items: []types.Diagnostic{}}

	if content == nil {
		data, err := os.ReadFile(filePath)
		if err != nil {
			report.Items = append(report.Items, types.Diagnostic{
				Message:  err.Error(),
				Severity: types.SeverityError,
				Source:   types.DiagnosticSource,
			})
			return report
		}
		content = data
	}

	program, err := parseByExtension(filePath, string(content))
	if err != nil {
		var parseErr *syntax.ParseError
		if errors.As(err, &parseErr) {
			report.Items = append(report.Items, types.Diagnostic{
				Message:  parseErr.Message,
				Range:    remapRange(parseErr.Range),
				Severity: types.SeverityError,
				Source:   types.DiagnosticSource,
				Actions:  remapActions(parseErr.Actions),
			})
		}
		return report
	}

	for _, check := range allChecks {
		if e.ignoredChecks[check.name] {
			continue
		}
		for _, d := range check.fn(program, filePath) {
			d.Range = remapRange(d.Range)
			d.Actions = remapActions(d.Actions)
			report.Items = append(report.Items, d)
		}
	}
	return report
}

func parseByExtension(filePath, content string) (*syntax.ProgramStatement, error) {
	if strings.HasSuffix(filePath, compiler.UsageExt) {
		program, _, err := syntax.ParseUsageFile(content, filePath)
		return program, err
	}
	return syntax.ParseFile(content, filePath)
}

// remapRange converts the parser's 1-based coordinates to the 0-based
// coordinates of the report, clamping at zero.
func remapRange(r types.Range) types.Range {
	return types.Range{
		Start: remapPosition(r.Start),
		End:   remapPosition(r.End),
	}
}

func remapPosition(p types.Position) types.Position {
	return types.Position{
		Line:      clampDecrement(p.Line),
		Character: clampDecrement(p.Character),
	}
}

func remapActions(actions []types.CodeAction) []types.CodeAction {
	if actions == nil {
		return nil
	}
	remapped := make([]types.CodeAction, len(actions))
	for i, action := range actions {
		edits := make(map[string][]types.TextEdit, len(action.Edits))
		for file, fileEdits := range action.Edits {
			converted := make([]types.TextEdit, len(fileEdits))
			for j, edit := range fileEdits {
				converted[j] = types.TextEdit{Range: remapRange(edit.Range), NewText: edit.NewText}
			}
			edits[file] = converted
		}
		remapped[i] = types.CodeAction{Title: action.Title, Edits: edits}
	}
	return remapped
}

func clampDecrement(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}

// SourceCode stores the lines of a source file for snippet rendering.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads a file and splits it into lines.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return &SourceCode{Lines: strings.Split(string(content), "\n")}, nil
}
