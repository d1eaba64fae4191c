package types

import "fmt"

// Position is a line/character location in a source file. The lexer and
// parser produce 1-based positions; the diagnostic engine remaps them to
// 0-based before handing a report to editor clients.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is the span between two positions. Start never exceeds End.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line, r.Start.Character, r.End.Line, r.End.Character)
}

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	default:
		return "UNKNOWN"
	}
}

// TextEdit replaces the text in Range with NewText. An empty NewText
// deletes the range.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// CodeAction is a machine-applicable quick fix attached to a diagnostic.
// Edits maps a file path to the edits to apply in that file.
type CodeAction struct {
	Title string                `json:"title"`
	Edits map[string][]TextEdit `json:"edits"`
}

// Diagnostic represents one problem found in a file.
type Diagnostic struct {
	Message  string       `json:"message"`
	Range    Range        `json:"range"`
	Severity Severity     `json:"severity"`
	Source   string       `json:"source"`
	Actions  []CodeAction `json:"actions,omitempty"`
}

// Report is the result of running the diagnostic engine over one file.
type Report struct {
	Kind  string       `json:"kind"`
	Items []Diagnostic `json:"items"`
}

// DiagnosticSource tags every diagnostic emitted by this toolchain.
const DiagnosticSource = "syx"

// ReportKindFull is the only report kind currently produced: a full
// re-analysis of the file.
const ReportKindFull = "full"

// RemovalEdit builds a single-file code action that deletes the given range.
func RemovalEdit(title, file string, rng Range) CodeAction {
	return CodeAction{
		Title: title,
		Edits: map[string][]TextEdit{
			file: {{Range: rng, NewText: ""}},
		},
	}
}
