package syntax

import (
	"fmt"

	"github.com/syxlang/syx/internal/types"
)

// NodeType tags every AST variant.
type NodeType int

const (
	NodeProgram NodeType = iota
	NodeOperator
	NodeCompile
	NodeImports
	NodeFunction
	NodeKeyword
	NodeRule
	NodeGlobal
	NodeImport
	NodePrimitiveType
	NodeWhitespaceIdentifier
	NodeVariable
	NodeString
	NodeIdentifier
	NodeBraceBody
	NodeParenBody
	NodeSquareBody
)

// Node is implemented by every AST node.
type Node interface {
	Type() NodeType
	Range() types.Range
}

// Statement is a node that can carry modifier tokens such as `export`.
type Statement interface {
	Node
	Modifiers() []Token
}

// Expression is a node with a literal value.
type Expression interface {
	Node
	Value() string
}

// stmt is embedded by every statement variant and holds the shared
// range and modifier list.
type stmt struct {
	rng  types.Range
	mods []Token
}

func (s *stmt) Range() types.Range { return s.rng }
func (s *stmt) Modifiers() []Token { return s.mods }

func (s *stmt) setRange(r types.Range) { s.rng = r }

// prependModifier is used by the export production: it attaches the
// modifier token and stretches the range to cover it.
func (s *stmt) prependModifier(tok Token) {
	s.mods = append([]Token{tok}, s.mods...)
	s.rng.Start = tok.Range.Start
}

// expr is embedded by every expression variant.
type expr struct {
	rng types.Range
}

func (e *expr) Range() types.Range { return e.rng }

// IsExported reports whether the statement carries an export modifier.
func IsExported(s Statement) bool {
	for _, m := range s.Modifiers() {
		if m.Type == ExportKeyword {
			return true
		}
	}
	return false
}

// ExportableNodeTypes is the closed set of statements an export modifier
// may be applied to.
var ExportableNodeTypes = map[NodeType]bool{
	NodeFunction: true,
	NodeOperator: true,
	NodeKeyword:  true,
	NodeRule:     true,
	NodeGlobal:   true,
}

var (
	_ Statement = (*ProgramStatement)(nil)
	_ Statement = (*OperatorStatement)(nil)
	_ Statement = (*CompileStatement)(nil)
	_ Statement = (*ImportsStatement)(nil)
	_ Statement = (*FunctionStatement)(nil)
	_ Statement = (*KeywordStatement)(nil)
	_ Statement = (*RuleStatement)(nil)
	_ Statement = (*GlobalStatement)(nil)
	_ Statement = (*ImportStatement)(nil)

	_ Expression = (*PrimitiveTypeExpression)(nil)
	_ Expression = (*WhitespaceIdentifierExpression)(nil)
	_ Expression = (*VariableExpression)(nil)
	_ Expression = (*StringExpression)(nil)
	_ Expression = (*IdentifierExpression)(nil)
	_ Expression = (*BraceBodyExpression)(nil)
	_ Expression = (*ParenBodyExpression)(nil)
	_ Expression = (*SquareBodyExpression)(nil)
)

// ProgramStatement is the root node of a parsed file.
type ProgramStatement struct {
	stmt
	FilePath   string
	Statements []Statement
}

func (p *ProgramStatement) Type() NodeType { return NodeProgram }

// OperatorStatement declares a user-defined operator: an ordered list of
// regex fragments and a body of Compile/Imports statements.
type OperatorStatement struct {
	stmt
	Fragments []Expression
	Body      *BraceBodyExpression
}

func (o *OperatorStatement) Type() NodeType { return NodeOperator }

// CompileStatement declares the output template of its enclosing operator
// or function for a list of target formats.
type CompileStatement struct {
	stmt
	Formats  *ParenBodyExpression
	Template []Expression
}

func (c *CompileStatement) Type() NodeType { return NodeCompile }

// FormatNames returns the declared target formats in source order.
func (c *CompileStatement) FormatNames() []string {
	names := make([]string, 0, len(c.Formats.Items))
	for _, item := range c.Formats.Items {
		names = append(names, item.Value())
	}
	return names
}

// ImportsStatement records an auxiliary module the generated code needs,
// per target format.
type ImportsStatement struct {
	stmt
	Formats *ParenBodyExpression
	Module  *StringExpression
}

func (i *ImportsStatement) Type() NodeType { return NodeImports }

// FormatNames returns the declared target formats in source order.
func (i *ImportsStatement) FormatNames() []string {
	names := make([]string, 0, len(i.Formats.Items))
	for _, item := range i.Formats.Items {
		names = append(names, item.Value())
	}
	return names
}

// FunctionStatement declares a rewritable function with typed arguments.
type FunctionStatement struct {
	stmt
	Name string
	Args []*PrimitiveTypeExpression
	Body *BraceBodyExpression
}

func (f *FunctionStatement) Type() NodeType { return NodeFunction }

// KeywordStatement declares a custom keyword.
type KeywordStatement struct {
	stmt
	Word string
}

func (k *KeywordStatement) Type() NodeType { return NodeKeyword }

// RuleStatement sets a registered rule to a value. ValueRange covers the
// value tokens only, for targeted quick fixes.
type RuleStatement struct {
	stmt
	RuleName   string
	RuleValue  string
	ValueRange types.Range
}

func (r *RuleStatement) Type() NodeType { return NodeRule }

// GlobalStatement groups declarations under a shared name.
type GlobalStatement struct {
	stmt
	Name string
	Body *BraceBodyExpression
}

func (g *GlobalStatement) Type() NodeType { return NodeGlobal }

// ImportStatement pulls the exports of another declaration file into scope.
type ImportStatement struct {
	stmt
	Path      *StringExpression
	PathRange types.Range
}

func (i *ImportStatement) Type() NodeType { return NodeImport }

// PrimitiveTypeExpression is a `<type>` placeholder.
type PrimitiveTypeExpression struct {
	expr
	Name string
}

func (p *PrimitiveTypeExpression) Type() NodeType { return NodePrimitiveType }
func (p *PrimitiveTypeExpression) Value() string  { return p.Name }

// WhitespaceIdentifierExpression is the `+s` placeholder.
type WhitespaceIdentifierExpression struct {
	expr
}

func (w *WhitespaceIdentifierExpression) Type() NodeType { return NodeWhitespaceIdentifier }
func (w *WhitespaceIdentifierExpression) Value() string  { return "+s" }

// VariableExpression is an indexed capture reference `name|index`.
type VariableExpression struct {
	expr
	Name  string
	Index int
}

func (v *VariableExpression) Type() NodeType { return NodeVariable }
func (v *VariableExpression) Value() string  { return fmt.Sprintf("%s|%d", v.Name, v.Index) }

// StringExpression is a quoted literal. Text holds the content without
// the quotes.
type StringExpression struct {
	expr
	Text  string
	Quote byte
}

func (s *StringExpression) Type() NodeType { return NodeString }
func (s *StringExpression) Value() string  { return s.Text }

// IdentifierExpression is a bare identifier used as an expression.
type IdentifierExpression struct {
	expr
	Name string
}

func (i *IdentifierExpression) Type() NodeType { return NodeIdentifier }
func (i *IdentifierExpression) Value() string  { return i.Name }

// BraceBodyExpression is a `{ ... }` container of statements.
type BraceBodyExpression struct {
	expr
	Statements []Statement
}

func (b *BraceBodyExpression) Type() NodeType { return NodeBraceBody }
func (b *BraceBodyExpression) Value() string  { return "{}" }

// ParenBodyExpression is a `( ... )` container of expressions.
type ParenBodyExpression struct {
	expr
	Items []Expression
}

func (p *ParenBodyExpression) Type() NodeType { return NodeParenBody }
func (p *ParenBodyExpression) Value() string  { return "()" }

// SquareBodyExpression is a `[ ... ]` container of expressions.
type SquareBodyExpression struct {
	expr
	Items []Expression
}

func (s *SquareBodyExpression) Type() NodeType { return NodeSquareBody }
func (s *SquareBodyExpression) Value() string  { return "[]" }
