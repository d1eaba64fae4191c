package checks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syxlang/syx/internal/syntax"
	"github.com/syxlang/syx/internal/types"
)

func mustParse(t *testing.T, source string) *syntax.ProgramStatement {
	t.Helper()
	program, err := syntax.ParseFile(source, "test.syx")
	require.NoError(t, err)
	return program
}

func TestCheckExportable(t *testing.T) {
	t.Parallel()
	source := "operator <int> {\n" +
		"\texport compile(py) 'x';\n" +
		"}"
	program := mustParse(t, source)

	diagnostics := CheckExportable(program, "test.syx")
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "'export' cannot be applied to this statement", diagnostics[0].Message)
	assert.Equal(t, types.SeverityError, diagnostics[0].Severity)

	require.Len(t, diagnostics[0].Actions, 1)
	assert.Equal(t, "Remove 'export' modifier", diagnostics[0].Actions[0].Title)
	edits := diagnostics[0].Actions[0].Edits["test.syx"]
	require.Len(t, edits, 1)
	assert.Empty(t, edits[0].NewText)
}

func TestCheckExportableAllowsExportedDeclarations(t *testing.T) {
	t.Parallel()
	program := mustParse(t, "export keyword loop;\nexport global m { keyword x; }")
	assert.Empty(t, CheckExportable(program, "test.syx"))
}

func TestCheckRuleConflicts(t *testing.T) {
	t.Parallel()
	source := "rule 'enforce-single-string-quotes':true;\n" +
		"rule 'enforce-double-string-quotes':true;"
	program := mustParse(t, source)

	diagnostics := CheckRuleConflicts(program, "test.syx")
	require.Len(t, diagnostics, 2, "each side of the pair gets a diagnostic")

	assert.Contains(t, diagnostics[0].Message, "'enforce-single-string-quotes' conflicts with rule 'enforce-double-string-quotes'")
	assert.Contains(t, diagnostics[1].Message, "'enforce-double-string-quotes' conflicts with rule 'enforce-single-string-quotes'")
	for _, d := range diagnostics {
		assert.Equal(t, types.SeverityWarning, d.Severity)
		require.Len(t, d.Actions, 2, "both removal fixes are offered on each side")
		assert.Equal(t, "Remove rule 'enforce-single-string-quotes'", d.Actions[0].Title)
		assert.Equal(t, "Remove rule 'enforce-double-string-quotes'", d.Actions[1].Title)
	}
}

func TestCheckRuleConflictsNonConflicting(t *testing.T) {
	t.Parallel()
	source := "rule 'enforce-single-string-quotes':true;\n" +
		"rule 'semicolons-required':true;"
	program := mustParse(t, source)
	assert.Empty(t, CheckRuleConflicts(program, "test.syx"))
}

func TestCheckDuplicateRules(t *testing.T) {
	t.Parallel()
	source := "rule 'semicolons-required':true;\n" +
		"rule 'semicolons-required':false;"
	program := mustParse(t, source)

	diagnostics := CheckDuplicateRules(program, "test.syx")
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "Rule 'semicolons-required' is already declared", diagnostics[0].Message)
	assert.Equal(t, types.SeverityError, diagnostics[0].Severity)
	assert.Equal(t, 2, diagnostics[0].Range.Start.Line, "the later declaration is the duplicate")
	require.Len(t, diagnostics[0].Actions, 1)
	assert.Equal(t, "Remove duplicate rule 'semicolons-required'", diagnostics[0].Actions[0].Title)
}

func TestCheckUnresolvedImports(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	present := filepath.Join(dir, "ops.syx")
	require.NoError(t, os.WriteFile(present, []byte("keyword x;"), 0o644))
	checked := filepath.Join(dir, "main.syx")

	program := mustParse(t, "import 'ops';\nimport 'missing';")
	diagnostics := CheckUnresolvedImports(program, checked)

	require.Len(t, diagnostics, 1)
	assert.Equal(t, "Cannot resolve import 'missing'", diagnostics[0].Message)
	require.Len(t, diagnostics[0].Actions, 1)
	assert.Equal(t, "Remove unresolved import", diagnostics[0].Actions[0].Title)
}

func TestCheckUnresolvedImportsRejectsDirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "ops.syx"), 0o755))
	checked := filepath.Join(dir, "main.syx")

	program := mustParse(t, "import 'ops';")
	diagnostics := CheckUnresolvedImports(program, checked)
	require.Len(t, diagnostics, 1)
}

func TestCheckDuplicateOperators(t *testing.T) {
	t.Parallel()
	source := "operator <int> +s '+' +s <int> { compile(py) a|0; }\n" +
		"operator <int> +s '+' +s <int> { compile(ts) b|1; }"
	program := mustParse(t, source)

	diagnostics := CheckDuplicateOperators(program, "test.syx")
	require.Len(t, diagnostics, 1)
	assert.Contains(t, diagnostics[0].Message, "already declared")
	assert.Equal(t, 2, diagnostics[0].Range.Start.Line)
	require.Len(t, diagnostics[0].Actions, 1)
	assert.Equal(t, "Remove duplicate operator", diagnostics[0].Actions[0].Title)
}

func TestCheckDuplicateOperatorsTextualComparison(t *testing.T) {
	t.Parallel()
	// comparison is textual: patterns that overlap but are spelled
	// differently are not reported
	source := "operator <int> '+' <int> { compile(py) a|0; }\n" +
		"operator <int> '+' +s <int> { compile(py) a|0; }"
	program := mustParse(t, source)
	assert.Empty(t, CheckDuplicateOperators(program, "test.syx"))
}

func TestCheckDuplicateNames(t *testing.T) {
	t.Parallel()
	source := "keyword loop;\n" +
		"global math {\n" +
		"\tfunction loop <int> { compile(py) 'l'; }\n" +
		"}"
	program := mustParse(t, source)

	diagnostics := CheckDuplicateNames(program, "test.syx")
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "The name 'loop' is already declared", diagnostics[0].Message)
	assert.Equal(t, types.SeverityError, diagnostics[0].Severity)
	assert.Empty(t, diagnostics[0].Actions)
}

func TestCheckDuplicateNamesDistinct(t *testing.T) {
	t.Parallel()
	program := mustParse(t, "keyword loop;\nkeyword until;")
	assert.Empty(t, CheckDuplicateNames(program, "test.syx"))
}
