package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/syxlang/syx/internal/registry"
	"github.com/syxlang/syx/internal/syntax"
)

// OutputGenerator produces target-language text for one source match of an
// operator pattern.
type OutputGenerator func(match string) (string, error)

// OperatorDescriptor is the cross-file-usable form of an exported operator.
type OperatorDescriptor struct {
	// PatternSource is the textual form of the compiled pattern; duplicate
	// detection compares it verbatim.
	PatternSource string
	Pattern       *regexp.Regexp
	// Generators maps a target format to its output generator.
	Generators map[string]OutputGenerator
	// Imports maps a target format to the auxiliary module the generated
	// code requires, if any.
	Imports map[string]string
}

// FunctionDescriptor is the cross-file-usable form of an exported function.
type FunctionDescriptor struct {
	Name        string
	ArgPatterns []string
	// CallPattern matches a full call to this function, name included.
	CallPattern *regexp.Regexp
	// Renames maps a target format to the replacement function name.
	Renames map[string]string
	Imports map[string]string
}

// KeywordDescriptor is the cross-file-usable form of an exported keyword.
type KeywordDescriptor struct {
	Word string
}

// Exports holds every descriptor compiled from one declaration file.
type Exports struct {
	Operators []*OperatorDescriptor
	Functions []*FunctionDescriptor
	Keywords  []*KeywordDescriptor
}

// PatternSource concatenates the regex fragments of an operator statement
// in source order: the fixed pattern for primitive types, `\s*` for
// whitespace identifiers, and escaped literal text for strings.
func PatternSource(op *syntax.OperatorStatement) (string, error) {
	var b strings.Builder
	for _, frag := range op.Fragments {
		switch f := frag.(type) {
		case *syntax.PrimitiveTypeExpression:
			p, ok := registry.PrimitivePattern(f.Name)
			if !ok {
				return "", fmt.Errorf("no pattern for primitive type %q", f.Name)
			}
			b.WriteString(p)
		case *syntax.WhitespaceIdentifierExpression:
			p, _ := registry.PrimitivePattern("whitespace")
			b.WriteString(p)
		case *syntax.StringExpression:
			b.WriteString(regexp.QuoteMeta(f.Text))
		default:
			return "", fmt.Errorf("unsupported operator fragment %T", frag)
		}
	}
	return b.String(), nil
}
