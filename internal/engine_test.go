package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syxlang/syx/internal/types"
)

func TestReportCleanFile(t *testing.T) {
	t.Parallel()
	engine := NewEngine()
	report := engine.Report("clean.syx", []byte("keyword ruleish;"))

	assert.Equal(t, types.ReportKindFull, report.Kind)
	assert.NotNil(t, report.Items)
	assert.Empty(t, report.Items)
}

func TestReportParseErrorProducesSingleItem(t *testing.T) {
	t.Parallel()
	engine := NewEngine()
	// broken syntax on top of content that would also trip checks
	source := "rule 'enforce-single-string-quotes':true;\n" +
		"rule 'enforce-double-string-quotes':true;\n" +
		"keyword broken"
	report := engine.Report("broken.syx", []byte(source))

	require.Len(t, report.Items, 1, "a parse failure suppresses all checks")
	item := report.Items[0]
	assert.Equal(t, types.SeverityError, item.Severity)
	assert.Contains(t, item.Message, "Expected ';' after statement")
	assert.Equal(t, types.DiagnosticSource, item.Source)
}

func TestReportUnknownRule(t *testing.T) {
	t.Parallel()
	engine := NewEngine()
	report := engine.Report("rules.syx", []byte("rule 'custom-random-rule?';"))

	require.Len(t, report.Items, 1)
	assert.Equal(t, types.SeverityError, report.Items[0].Severity)
	assert.Contains(t, report.Items[0].Message, "Unknown rule 'custom-random-rule?'")
}

func TestReportZeroBasedCoordinates(t *testing.T) {
	t.Parallel()
	engine := NewEngine()
	report := engine.Report("broken.syx", []byte("keyword broken"))

	require.Len(t, report.Items, 1)
	// the lexer reports 1-based positions; the report is 0-based
	assert.Equal(t, 0, report.Items[0].Range.Start.Line)
	assert.Equal(t, 14, report.Items[0].Range.Start.Character)
}

func TestReportRemapsActionEdits(t *testing.T) {
	t.Parallel()
	engine := NewEngine()
	source := "keyword until;\nrule 'function-keyword':untll;"
	report := engine.Report("fixes.syx", []byte(source))

	require.Len(t, report.Items, 1)
	require.NotEmpty(t, report.Items[0].Actions)
	action := report.Items[0].Actions[0]
	assert.Equal(t, "Replace with 'until'", action.Title)

	edits := action.Edits["fixes.syx"]
	require.Len(t, edits, 1)
	assert.Equal(t, 1, edits[0].Range.Start.Line, "edit coordinates are 0-based too")
	assert.Equal(t, 24, edits[0].Range.Start.Character)
}

func TestReportRunsChecksInOrder(t *testing.T) {
	t.Parallel()
	engine := NewEngine()
	// one exportable violation and one conflicting rule pair
	source := "operator <int> { export compile(py) 'x'; }\n" +
		"rule 'enforce-single-string-quotes':true;\n" +
		"rule 'enforce-double-string-quotes':true;"
	report := engine.Report("ordered.syx", []byte(source))

	require.Len(t, report.Items, 3)
	assert.Contains(t, report.Items[0].Message, "'export' cannot be applied")
	assert.Contains(t, report.Items[1].Message, "conflicts with")
	assert.Contains(t, report.Items[2].Message, "conflicts with")
}

func TestReportDeterministic(t *testing.T) {
	t.Parallel()
	engine := NewEngine()
	source := "rule 'enforce-single-string-quotes':true;\n" +
		"rule 'enforce-double-string-quotes':true;\n" +
		"keyword loop;\nkeyword loop;"

	first := engine.Report("same.syx", []byte(source))
	second := engine.Report("same.syx", []byte(source))
	assert.Equal(t, first, second)
}

func TestIgnoreCheck(t *testing.T) {
	t.Parallel()
	source := "rule 'enforce-single-string-quotes':true;\n" +
		"rule 'enforce-double-string-quotes':true;"

	engine := NewEngine()
	engine.IgnoreCheck("rule-conflict")
	report := engine.Report("ignored.syx", []byte(source))
	assert.Empty(t, report.Items)
}

func TestCheckNames(t *testing.T) {
	t.Parallel()
	names := CheckNames()
	assert.Equal(t, []string{
		"exportable",
		"rule-conflict",
		"duplicate-rule",
		"unresolved-import",
		"duplicate-operator-pattern",
		"duplicate-name",
	}, names)
}

func TestReportUsageFile(t *testing.T) {
	t.Parallel()
	engine := NewEngine()
	report := engine.Report("main.sys", []byte("keyword x;::: body"))

	require.Len(t, report.Items, 1)
	assert.Contains(t, report.Items[0].Message, "Only import statements")
}

func TestReportMissingFile(t *testing.T) {
	t.Parallel()
	engine := NewEngine()
	report := engine.Report("does/not/exist.syx", nil)

	require.Len(t, report.Items, 1)
	assert.Equal(t, types.SeverityError, report.Items[0].Severity)
}
