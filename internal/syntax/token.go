package syntax

import (
	"fmt"

	"github.com/syxlang/syx/internal/types"
)

// TokenType defines the different kinds of tokens the lexer can produce.
type TokenType int

const (
	EndOfFile TokenType = iota
	Raw                 // any character with no dedicated type, and all string content
	Identifier
	IntNumber

	// Grammar keywords.
	OperatorKeyword
	CompileKeyword
	ImportKeyword
	ImportsKeyword
	ExportKeyword
	GlobalKeyword
	ClassKeyword
	FunctionKeyword
	KeywordKeyword
	RuleKeyword

	// Structural characters.
	OpenBrace
	CloseBrace
	OpenParen
	CloseParen
	OpenSquare
	CloseSquare
	OpenAngle
	CloseAngle
	Semicolon
	Colon
	Comma
	Pipe
	SingleQuote
	DoubleQuote

	// The two-character sequence `+s`, matching any run of whitespace.
	WhitespaceIdentifier
)

var tokenNames = map[TokenType]string{
	EndOfFile:            "end of file",
	Raw:                  "raw",
	Identifier:           "identifier",
	IntNumber:            "number",
	OperatorKeyword:      "'operator'",
	CompileKeyword:       "'compile'",
	ImportKeyword:        "'import'",
	ImportsKeyword:       "'imports'",
	ExportKeyword:        "'export'",
	GlobalKeyword:        "'global'",
	ClassKeyword:         "'class'",
	FunctionKeyword:      "'function'",
	KeywordKeyword:       "'keyword'",
	RuleKeyword:          "'rule'",
	OpenBrace:            "'{'",
	CloseBrace:           "'}'",
	OpenParen:            "'('",
	CloseParen:           "')'",
	OpenSquare:           "'['",
	CloseSquare:          "']'",
	OpenAngle:            "'<'",
	CloseAngle:           "'>'",
	Semicolon:            "';'",
	Colon:                "':'",
	Comma:                "','",
	Pipe:                 "'|'",
	SingleQuote:          "single quote",
	DoubleQuote:          "double quote",
	WhitespaceIdentifier: "'+s'",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a single lexical token with its literal value and source range.
type Token struct {
	Type  TokenType
	Value string
	Range types.Range
}

// keywords maps alphabetic runs to their keyword token type. Runs not in
// this table become Identifier tokens.
var keywords = map[string]TokenType{
	"operator": OperatorKeyword,
	"compile":  CompileKeyword,
	"import":   ImportKeyword,
	"imports":  ImportsKeyword,
	"export":   ExportKeyword,
	"global":   GlobalKeyword,
	"class":    ClassKeyword,
	"function": FunctionKeyword,
	"keyword":  KeywordKeyword,
	"rule":     RuleKeyword,
}

// structural maps single characters to their token type. Inside a string
// these characters are demoted to Raw.
var structural = map[byte]TokenType{
	'{': OpenBrace,
	'}': CloseBrace,
	'(': OpenParen,
	')': CloseParen,
	'[': OpenSquare,
	']': CloseSquare,
	'<': OpenAngle,
	'>': CloseAngle,
	';': Semicolon,
	':': Colon,
	',': Comma,
	'|': Pipe,
}
