// Package formatter renders diagnostic reports for the terminal.
package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/syxlang/syx/internal"
	"github.com/syxlang/syx/internal/types"
)

const tabWidth = 8

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	fixStyle     = color.New(color.FgGreen, color.Bold)
)

const diagnosticTemplate = `{{header .Severity .Source .Filename .StartLine .StartColumn}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .Padding}}{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines}}{{fixes .Fixes .Padding}}
`

type diagnosticData struct {
	Severity        string
	Source          string
	Filename        string
	StartLine       int
	StartColumn     int
	EndLine         int
	EndColumn       int
	MaxLineNumWidth int
	Padding         string
	Message         string
	Fixes           []string
	SnippetLines    []string
}

// Generate formats a file's diagnostic report into a human-readable
// string. Report coordinates are 0-based; rendering converts them back to
// the 1-based lines readers expect.
func Generate(filename string, report types.Report, snippet *internal.SourceCode) string {
	var builder strings.Builder
	for _, item := range report.Items {
		builder.WriteString(buildDiagnostic(filename, item, snippet))
	}
	return builder.String()
}

func buildDiagnostic(filename string, item types.Diagnostic, snippet *internal.SourceCode) string {
	startLine := item.Range.Start.Line + 1
	endLine := item.Range.End.Line + 1
	maxLineNumWidth := len(fmt.Sprintf("%d", endLine))
	padding := strings.Repeat(" ", maxLineNumWidth+1)

	fixes := make([]string, 0, len(item.Actions))
	for _, action := range item.Actions {
		fixes = append(fixes, action.Title)
	}

	data := diagnosticData{
		Severity:        item.Severity.String(),
		Source:          item.Source,
		Filename:        filename,
		StartLine:       startLine,
		StartColumn:     item.Range.Start.Character + 1,
		EndLine:         endLine,
		EndColumn:       item.Range.End.Character + 1,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         padding,
		Message:         item.Message,
		Fixes:           fixes,
		SnippetLines:    snippet.Lines,
	}

	funcMap := template.FuncMap{
		"header":              header,
		"snippet":             codeSnippet,
		"underlineAndMessage": underlineAndMessage,
		"fixes":               renderFixes,
	}
	tmpl := template.Must(template.New("diagnostic").Funcs(funcMap).Parse(diagnosticTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting diagnostic: %v", err)
	}
	return buf.String()
}

func header(severity, source, filename string, startLine, startColumn int) string {
	var endString string
	switch severity {
	case "ERROR":
		endString = errorStyle.Sprint("error: ")
	case "WARNING":
		endString = warningStyle.Sprint("warning: ")
	default:
		endString = messageStyle.Sprint("info: ")
	}
	endString += messageStyle.Sprintf("%s\n", source)

	endString += lineStyle.Sprint(" --> ")
	endString += fileStyle.Sprintf("%s:%d:%d", filename, startLine, startColumn)
	return endString
}

func codeSnippet(snippetLines []string, startLine, endLine, maxLineNumWidth int, padding string) string {
	var endString string
	endString = lineStyle.Sprintf("%s|\n", padding)

	for i := startLine; i <= endLine; i++ {
		if i-1 < 0 || i-1 >= len(snippetLines) {
			continue
		}
		line := expandTabs(snippetLines[i-1])
		lineNum := fmt.Sprintf("%*d", maxLineNumWidth, i)
		endString += lineStyle.Sprintf("%s | ", lineNum)
		endString += line + "\n"
	}
	return endString
}

func underlineAndMessage(message, padding string, startLine, endLine, startColumn, endColumn int, snippetLines []string) string {
	var endString string
	endString = lineStyle.Sprintf("%s| ", padding)

	if !isValidLineRange(startLine, endLine, snippetLines) {
		endString += messageStyle.Sprintf("%s\n", message)
		return endString
	}

	underlineStart := calculateVisualColumn(snippetLines[startLine-1], startColumn)
	underlineEnd := calculateVisualColumn(snippetLines[endLine-1], endColumn)
	underlineLength := underlineEnd - underlineStart
	if underlineLength < 1 {
		underlineLength = 1
	}

	endString += strings.Repeat(" ", underlineStart)
	endString += messageStyle.Sprintf("%s\n", strings.Repeat("~", underlineLength))

	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", message)
	return endString
}

func renderFixes(fixes []string, padding string) string {
	var endString string
	for _, fix := range fixes {
		endString += fixStyle.Sprint("fix: ")
		endString += lineStyle.Sprintf("%s\n", fix)
	}
	return endString
}

func isValidLineRange(startLine, endLine int, snippetLines []string) bool {
	return startLine > 0 &&
		endLine > 0 &&
		startLine <= endLine &&
		startLine <= len(snippetLines) &&
		endLine <= len(snippetLines)
}

// calculateVisualColumn accounts for tab characters when positioning the
// underline.
func calculateVisualColumn(line string, column int) int {
	visualColumn := 0
	for i, ch := range line {
		if i+1 == column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}

func expandTabs(line string) string {
	var expanded strings.Builder
	column := 0
	for _, ch := range line {
		if ch == '\t' {
			spaceCount := tabWidth - (column % tabWidth)
			expanded.WriteString(strings.Repeat(" ", spaceCount))
			column += spaceCount
		} else {
			expanded.WriteRune(ch)
			column++
		}
	}
	return expanded.String()
}
