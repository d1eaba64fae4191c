package syntax

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/syxlang/syx/internal/registry"
	"github.com/syxlang/syx/internal/suggest"
	"github.com/syxlang/syx/internal/types"
)

// Parser consumes the token stream of one file and builds the AST. Every
// parse call gets its own Parser value; nothing survives across calls.
type Parser struct {
	tokens  []Token
	current int
	file    string
	program *ProgramStatement
}

// booleanValuePattern is the fixed token pattern boolean rule values must
// match.
var booleanValuePattern = regexp.MustCompile(`^(true|false)$`)

// statement sets the parser enforces per context.
var (
	// exportAttachable are the statements `export` may syntactically attach
	// to. The diagnostic engine separately flags exported Compile/Imports
	// statements inside bodies; the parser only rejects statements that can
	// never be exported anywhere.
	exportAttachable = map[NodeType]bool{
		NodeFunction: true,
		NodeOperator: true,
		NodeKeyword:  true,
		NodeRule:     true,
		NodeGlobal:   true,
		NodeCompile:  true,
		NodeImports:  true,
	}

	operatorBodyStatements = map[NodeType]bool{
		NodeCompile: true,
		NodeImports: true,
	}

	globalBodyStatements = map[NodeType]bool{
		NodeFunction: true,
		NodeOperator: true,
		NodeKeyword:  true,
		NodeRule:     true,
		NodeGlobal:   true,
	}
)

// Parse builds the AST of a declaration file. The first grammar violation
// aborts parsing and is returned as a *ParseError.
func Parse(tokens []Token, filePath string) (*ProgramStatement, error) {
	p := &Parser{tokens: tokens, file: filePath}
	p.program = &ProgramStatement{FilePath: filePath}

	for !p.at(EndOfFile) {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		p.program.Statements = append(p.program.Statements, s)
	}

	p.stampProgramRange()
	return p.program, nil
}

func (p *Parser) stampProgramRange() {
	if len(p.program.Statements) == 0 {
		return
	}
	first := p.program.Statements[0]
	last := p.program.Statements[len(p.program.Statements)-1]
	p.program.setRange(types.Range{Start: first.Range().Start, End: last.Range().End})
}

func (p *Parser) parseStatement() (Statement, error) {
	tok := p.peek()
	switch tok.Type {
	case ImportKeyword:
		return p.parseImport()
	case OperatorKeyword:
		return p.parseOperator()
	case CompileKeyword:
		return p.parseCompile()
	case ImportsKeyword:
		return p.parseImports()
	case FunctionKeyword:
		return p.parseFunction()
	case KeywordKeyword:
		return p.parseKeyword()
	case RuleKeyword:
		return p.parseRule()
	case GlobalKeyword:
		return p.parseGlobal()
	case ExportKeyword:
		return p.parseExport()
	default:
		return nil, p.errorAt(tok.Range, "Unexpected token %s", describe(tok))
	}
}

// parseExport re-enters statement parsing and attaches the modifier to the
// result, stretching its range over the modifier token.
func (p *Parser) parseExport() (Statement, error) {
	mod := p.next()

	s, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if !exportAttachable[s.Type()] {
		return nil, p.errorAt(mod.Range, "'export' cannot be applied to this statement")
	}

	switch v := s.(type) {
	case *OperatorStatement:
		v.prependModifier(mod)
	case *CompileStatement:
		v.prependModifier(mod)
	case *ImportsStatement:
		v.prependModifier(mod)
	case *FunctionStatement:
		v.prependModifier(mod)
	case *KeywordStatement:
		v.prependModifier(mod)
	case *RuleStatement:
		v.prependModifier(mod)
	case *GlobalStatement:
		v.prependModifier(mod)
	}
	return s, nil
}

func (p *Parser) parseImport() (Statement, error) {
	start := p.next().Range.Start

	path, err := p.parseString()
	if err != nil {
		return nil, err
	}
	end, err := p.expectSemicolon()
	if err != nil {
		return nil, err
	}

	s := &ImportStatement{Path: path, PathRange: path.Range()}
	s.setRange(types.Range{Start: start, End: end})
	return s, nil
}

func (p *Parser) parseOperator() (Statement, error) {
	start := p.next().Range.Start

	var fragments []Expression
	for {
		tok := p.peek()
		switch tok.Type {
		case OpenAngle:
			frag, err := p.parsePrimitiveType()
			if err != nil {
				return nil, err
			}
			fragments = append(fragments, frag)
		case WhitespaceIdentifier:
			fragments = append(fragments, p.parseWhitespaceIdentifier())
		case SingleQuote, DoubleQuote:
			frag, err := p.parseString()
			if err != nil {
				return nil, err
			}
			fragments = append(fragments, frag)
		case OpenBrace:
			body, err := p.parseBraceBody("operator", operatorBodyStatements)
			if err != nil {
				return nil, err
			}
			s := &OperatorStatement{Fragments: fragments, Body: body}
			s.setRange(types.Range{Start: start, End: body.Range().End})
			return s, nil
		default:
			return nil, p.errorAt(tok.Range, "Expected pattern fragment or '{' but found %s", describe(tok))
		}
	}
}

func (p *Parser) parseCompile() (Statement, error) {
	start := p.next().Range.Start

	formats, err := p.parseFormatList()
	if err != nil {
		return nil, err
	}

	var template []Expression
	for !p.at(Semicolon) {
		e, err := p.parseTemplateExpression()
		if err != nil {
			return nil, err
		}
		template = append(template, e)
	}
	end, err := p.expectSemicolon()
	if err != nil {
		return nil, err
	}

	s := &CompileStatement{Formats: formats, Template: template}
	s.setRange(types.Range{Start: start, End: end})
	return s, nil
}

func (p *Parser) parseImports() (Statement, error) {
	start := p.next().Range.Start

	formats, err := p.parseFormatList()
	if err != nil {
		return nil, err
	}
	module, err := p.parseString()
	if err != nil {
		return nil, err
	}
	end, err := p.expectSemicolon()
	if err != nil {
		return nil, err
	}

	s := &ImportsStatement{Formats: formats, Module: module}
	s.setRange(types.Range{Start: start, End: end})
	return s, nil
}

func (p *Parser) parseFunction() (Statement, error) {
	start := p.next().Range.Start

	name, err := p.expect(Identifier)
	if err != nil {
		return nil, err
	}

	var args []*PrimitiveTypeExpression
	for p.at(OpenAngle) {
		arg, err := p.parsePrimitiveType()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	body, err := p.parseBraceBody("function", operatorBodyStatements)
	if err != nil {
		return nil, err
	}

	s := &FunctionStatement{Name: name.Value, Args: args, Body: body}
	s.setRange(types.Range{Start: start, End: body.Range().End})
	return s, nil
}

func (p *Parser) parseKeyword() (Statement, error) {
	start := p.next().Range.Start

	word, err := p.expect(Identifier)
	if err != nil {
		return nil, err
	}
	end, err := p.expectSemicolon()
	if err != nil {
		return nil, err
	}

	s := &KeywordStatement{Word: word.Value}
	s.setRange(types.Range{Start: start, End: end})
	return s, nil
}

func (p *Parser) parseRule() (Statement, error) {
	start := p.next().Range.Start

	name, err := p.parseString()
	if err != nil {
		return nil, err
	}
	entry, ok := registry.Lookup(name.Text)
	if !ok {
		return nil, p.errorAt(name.Range(), "Unknown rule '%s'", name.Text)
	}

	if _, err := p.expect(Colon); err != nil {
		return nil, err
	}

	value, err := p.parseRuleValue(entry)
	if err != nil {
		return nil, err
	}

	end, err := p.expectSemicolon()
	if err != nil {
		return nil, err
	}

	s := &RuleStatement{RuleName: name.Text, RuleValue: value.Value, ValueRange: value.Range}
	s.setRange(types.Range{Start: start, End: end})
	return s, nil
}

func (p *Parser) parseRuleValue(entry registry.Entry) (Token, error) {
	tok, err := p.expect(Identifier)
	if err != nil {
		return Token{}, err
	}

	switch entry.Kind {
	case registry.BooleanValue:
		if !booleanValuePattern.MatchString(tok.Value) {
			return Token{}, p.errorAt(tok.Range, "Rule '%s' expects true or false, found '%s'", entry.Name, tok.Value)
		}
	case registry.KeywordValue:
		words := p.declaredKeywords()
		if !contains(words, tok.Value) {
			perr := p.errorAt(tok.Range, "Can't find keyword '%s'", tok.Value)
			perr.Actions = p.keywordReplacements(tok, words)
			return Token{}, perr
		}
	}
	return tok, nil
}

// keywordReplacements builds rename quick fixes for every keyword already
// declared in the file, ranked by edit distance against the offending word.
func (p *Parser) keywordReplacements(tok Token, words []string) []types.CodeAction {
	ranked := suggest.Rank(tok.Value, words)
	actions := make([]types.CodeAction, 0, len(ranked))
	for _, w := range ranked {
		actions = append(actions, types.CodeAction{
			Title: fmt.Sprintf("Replace with '%s'", w),
			Edits: map[string][]types.TextEdit{
				p.file: {{Range: tok.Range, NewText: w}},
			},
		})
	}
	return actions
}

// declaredKeywords collects the words of every Keyword statement parsed so
// far, including those nested in global bodies.
func (p *Parser) declaredKeywords() []string {
	var words []string
	var walk func(stmts []Statement)
	walk = func(stmts []Statement) {
		for _, s := range stmts {
			switch v := s.(type) {
			case *KeywordStatement:
				words = append(words, v.Word)
			case *GlobalStatement:
				walk(v.Body.Statements)
			}
		}
	}
	walk(p.program.Statements)
	return words
}

func (p *Parser) parseGlobal() (Statement, error) {
	start := p.next().Range.Start

	name, err := p.expect(Identifier)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBraceBody("global", globalBodyStatements)
	if err != nil {
		return nil, err
	}

	s := &GlobalStatement{Name: name.Value, Body: body}
	s.setRange(types.Range{Start: start, End: body.Range().End})
	return s, nil
}

// parseBraceBody parses `{ ... }` and enforces which statements the
// enclosing construct allows.
func (p *Parser) parseBraceBody(context string, allowed map[NodeType]bool) (*BraceBodyExpression, error) {
	open, err := p.expect(OpenBrace)
	if err != nil {
		return nil, err
	}

	body := &BraceBodyExpression{}
	for !p.at(CloseBrace) {
		if p.at(EndOfFile) {
			return nil, p.errorAt(p.peek().Range, "Expected '}' to close %s body", context)
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if !allowed[s.Type()] {
			return nil, p.errorAt(s.Range(), "This statement is not allowed inside a %s body", context)
		}
		body.Statements = append(body.Statements, s)
	}
	closing := p.next()

	body.rng = types.Range{Start: open.Range.Start, End: closing.Range.End}
	return body, nil
}

// parseFormatList parses the parenthesized comma-separated target-format
// identifiers of compile/imports statements.
func (p *Parser) parseFormatList() (*ParenBodyExpression, error) {
	open, err := p.expect(OpenParen)
	if err != nil {
		return nil, err
	}

	list := &ParenBodyExpression{}
	for {
		ident, err := p.expect(Identifier)
		if err != nil {
			return nil, err
		}
		e := &IdentifierExpression{Name: ident.Value}
		e.rng = ident.Range
		list.Items = append(list.Items, e)

		if p.at(Comma) {
			p.next()
			continue
		}
		break
	}

	closing, err := p.expect(CloseParen)
	if err != nil {
		return nil, err
	}
	list.rng = types.Range{Start: open.Range.Start, End: closing.Range.End}
	return list, nil
}

// parseTemplateExpression parses one element of a compile template: a
// string literal, a whitespace identifier, an indexed variable reference,
// or a bracketed group of further template expressions.
func (p *Parser) parseTemplateExpression() (Expression, error) {
	tok := p.peek()
	switch tok.Type {
	case SingleQuote, DoubleQuote:
		return p.parseString()
	case WhitespaceIdentifier:
		return p.parseWhitespaceIdentifier(), nil
	case Identifier:
		return p.parseVariable()
	case OpenSquare:
		return p.parseSquareBody()
	case EndOfFile:
		return nil, p.errorAt(tok.Range, "Expected ';' after statement, but found %s", describe(tok))
	default:
		return nil, p.errorAt(tok.Range, "Unexpected token %s in template", describe(tok))
	}
}

// parseVariable parses `name|index`.
func (p *Parser) parseVariable() (Expression, error) {
	name := p.next()
	if _, err := p.expect(Pipe); err != nil {
		return nil, err
	}
	num, err := p.expect(IntNumber)
	if err != nil {
		return nil, err
	}
	index, err := strconv.Atoi(num.Value)
	if err != nil {
		return nil, p.errorAt(num.Range, "Invalid capture index '%s'", num.Value)
	}

	e := &VariableExpression{Name: name.Value, Index: index}
	e.rng = types.Range{Start: name.Range.Start, End: num.Range.End}
	return e, nil
}

func (p *Parser) parseSquareBody() (Expression, error) {
	open := p.next()

	body := &SquareBodyExpression{}
	for !p.at(CloseSquare) {
		if p.at(EndOfFile) {
			return nil, p.errorAt(p.peek().Range, "Expected ']' but found %s", describe(p.peek()))
		}
		e, err := p.parseTemplateExpression()
		if err != nil {
			return nil, err
		}
		body.Items = append(body.Items, e)
	}
	closing := p.next()

	body.rng = types.Range{Start: open.Range.Start, End: closing.Range.End}
	return body, nil
}

// parsePrimitiveType parses `<type>`, where type must be one of the fixed
// primitive type names.
func (p *Parser) parsePrimitiveType() (*PrimitiveTypeExpression, error) {
	open, err := p.expect(OpenAngle)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(Identifier)
	if err != nil {
		return nil, err
	}
	if !registry.IsPrimitiveType(name.Value) {
		return nil, p.errorAt(name.Range, "Unknown primitive type '%s'", name.Value)
	}
	closing, err := p.expect(CloseAngle)
	if err != nil {
		return nil, err
	}

	e := &PrimitiveTypeExpression{Name: name.Value}
	e.rng = types.Range{Start: open.Range.Start, End: closing.Range.End}
	return e, nil
}

func (p *Parser) parseWhitespaceIdentifier() Expression {
	tok := p.next()
	e := &WhitespaceIdentifierExpression{}
	e.rng = tok.Range
	return e
}

// parseString accumulates raw characters until the closing quote of the
// same kind. Reaching end of file first is an unterminated-string error
// spanning the whole accumulated region.
func (p *Parser) parseString() (*StringExpression, error) {
	open := p.peek()
	if open.Type != SingleQuote && open.Type != DoubleQuote {
		return nil, p.errorAt(open.Range, "Expected string literal but found %s", describe(open))
	}
	p.next()

	var text []byte
	for {
		tok := p.peek()
		switch tok.Type {
		case open.Type:
			closing := p.next()
			e := &StringExpression{Text: string(text), Quote: open.Value[0]}
			e.rng = types.Range{Start: open.Range.Start, End: closing.Range.End}
			return e, nil
		case EndOfFile:
			return nil, p.errorAt(
				types.Range{Start: open.Range.Start, End: tok.Range.End},
				"Unterminated string literal",
			)
		default:
			text = append(text, p.next().Value...)
		}
	}
}

func (p *Parser) peek() Token {
	if p.current >= len(p.tokens) {
		return Token{Type: EndOfFile}
	}
	return p.tokens[p.current]
}

func (p *Parser) next() Token {
	tok := p.peek()
	if p.current < len(p.tokens) {
		p.current++
	}
	return tok
}

func (p *Parser) at(tt TokenType) bool { return p.peek().Type == tt }

func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return Token{}, p.errorAt(tok.Range, "Expected %s but found %s", tt, describe(tok))
	}
	return p.next(), nil
}

// expectSemicolon consumes the statement terminator and returns its end
// position for range stamping.
func (p *Parser) expectSemicolon() (types.Position, error) {
	tok := p.peek()
	if tok.Type != Semicolon {
		return types.Position{}, p.errorAt(tok.Range, "Expected ';' after statement, but found %s", describe(tok))
	}
	p.next()
	return tok.Range.End, nil
}

func (p *Parser) errorAt(rng types.Range, format string, args ...any) *ParseError {
	return &ParseError{
		File:    p.file,
		Range:   rng,
		Message: fmt.Sprintf(format, args...),
	}
}

func describe(tok Token) string {
	if tok.Type == EndOfFile {
		return "end of file"
	}
	return fmt.Sprintf("'%s'", tok.Value)
}

func contains(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}
