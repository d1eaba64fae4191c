// Package registry holds the static dictionary the parser and the
// diagnostic checks consult: registered rules, reserved keywords, and the
// primitive-type pattern table. Nothing here is mutated at runtime.
package registry

// ValueKind describes what a rule accepts on the right-hand side of the
// colon.
type ValueKind int

const (
	// BooleanValue rules accept `true` or `false`.
	BooleanValue ValueKind = iota
	// KeywordValue rules accept the word of a keyword declared earlier in
	// the same file.
	KeywordValue
)

// Entry describes one registered rule.
type Entry struct {
	Name        string
	Kind        ValueKind
	Default     string
	Conflicts   []string
	Description string
}

var entries = map[string]Entry{
	"enforce-single-string-quotes": {
		Name:        "enforce-single-string-quotes",
		Kind:        BooleanValue,
		Default:     "false",
		Conflicts:   []string{"enforce-double-string-quotes"},
		Description: "require string literals to use single quotes",
	},
	"enforce-double-string-quotes": {
		Name:        "enforce-double-string-quotes",
		Kind:        BooleanValue,
		Default:     "false",
		Conflicts:   []string{"enforce-single-string-quotes"},
		Description: "require string literals to use double quotes",
	},
	"semicolons-required": {
		Name:        "semicolons-required",
		Kind:        BooleanValue,
		Default:     "true",
		Description: "require a trailing semicolon on every statement",
	},
	"function-keyword": {
		Name:        "function-keyword",
		Kind:        KeywordValue,
		Description: "keyword that introduces function definitions in compiled output",
	},
	"class-keyword": {
		Name:        "class-keyword",
		Kind:        KeywordValue,
		Description: "keyword that introduces class definitions in compiled output",
	},
}

// Lookup returns the registry entry for the exact rule name.
func Lookup(name string) (Entry, bool) {
	e, ok := entries[name]
	return e, ok
}

// Conflicting reports whether two registered rules conflict. Conflicts are
// declared one-directionally but treated as symmetric.
func Conflicting(a, b string) bool {
	return declaresConflict(a, b) || declaresConflict(b, a)
}

func declaresConflict(a, b string) bool {
	e, ok := entries[a]
	if !ok {
		return false
	}
	for _, c := range e.Conflicts {
		if c == b {
			return true
		}
	}
	return false
}

// primitivePatterns maps primitive type names to the regex fragment an
// occurrence of that type compiles to. The named types carry one capture
// group each; whitespace deliberately captures nothing.
var primitivePatterns = map[string]string{
	"int":        `([0-9]+)`,
	"decimal":    `([0-9]+\.[0-9]+)`,
	"string":     `('[^']*'|"[^"]*")`,
	"boolean":    `(true|false)`,
	"whitespace": `\s*`,
}

// PrimitivePattern returns the regex fragment for a primitive type name.
func PrimitivePattern(name string) (string, bool) {
	p, ok := primitivePatterns[name]
	return p, ok
}

// PrimitiveTypeNames is the closed set of names accepted inside a `<type>`
// placeholder.
var PrimitiveTypeNames = []string{"int", "string", "boolean", "decimal"}

// IsPrimitiveType reports whether name is a valid `<type>` placeholder
// name.
func IsPrimitiveType(name string) bool {
	for _, n := range PrimitiveTypeNames {
		if n == name {
			return true
		}
	}
	return false
}

// ReservedKeywords lists the identifiers the grammar claims for itself.
var ReservedKeywords = []string{
	"operator", "compile", "import", "imports", "export",
	"global", "class", "function", "keyword", "rule",
}
