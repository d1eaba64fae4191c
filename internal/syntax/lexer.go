package syntax

import (
	"strings"

	"github.com/syxlang/syx/internal/types"
)

// bodyMarker separates the import section of a usage file from its body
// template. Everything after it is left unconsumed for the compiler.
const bodyMarker = ":::"

// Lexer scans raw source text into a flat token stream. Lexing is total:
// no input can make it fail, unclassifiable characters become Raw tokens.
type Lexer struct {
	input     string
	position  int
	line      int
	character int

	inString bool
	quote    byte

	usage  bool
	rest   string
	tokens []Token
}

// NewLexer returns a lexer for declaration-file source.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, character: 1}
}

// NewUsageLexer returns a lexer for usage-file source. It stops consuming
// at the `:::` marker; the remaining text is available through Rest.
func NewUsageLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, character: 1, usage: true}
}

// Rest returns the unconsumed body template following the `:::` marker.
// It is empty until Tokenize has run and for declaration-file lexers.
func (l *Lexer) Rest() string { return l.rest }

// Tokenize scans the whole input and returns the token list, always
// terminated by an EndOfFile token.
func (l *Lexer) Tokenize() []Token {
	for l.position < len(l.input) {
		c := l.input[l.position]

		// The quote state machine runs before any other classification.
		if c == '\'' || c == '"' {
			l.lexQuote(c)
			continue
		}
		if l.inString {
			l.lexStringChar()
			continue
		}

		if l.usage && strings.HasPrefix(l.input[l.position:], bodyMarker) {
			l.rest = l.input[l.position+len(bodyMarker):]
			break
		}

		switch {
		case c == '/' && l.peekAt(1) == '/':
			l.skipLineComment()
		case c == '+' && l.peekAt(1) == 's':
			start := l.pos()
			l.advance()
			l.advance()
			l.emit(WhitespaceIdentifier, "+s", start)
		case isAlpha(c):
			l.lexWord()
		case isDigit(c):
			l.lexNumber()
		case isSpace(c):
			l.advance()
		default:
			start := l.pos()
			l.advance()
			if tt, ok := structural[c]; ok {
				l.emit(tt, string(c), start)
			} else {
				l.emit(Raw, string(c), start)
			}
		}
	}

	l.emit(EndOfFile, "", l.pos())
	return l.tokens
}

// lexQuote toggles the in-string state. A quote of the other kind inside a
// string is ordinary content.
func (l *Lexer) lexQuote(c byte) {
	start := l.pos()
	l.advance()

	if l.inString && c != l.quote {
		l.emit(Raw, string(c), start)
		return
	}

	tt := SingleQuote
	if c == '"' {
		tt = DoubleQuote
	}
	if l.inString {
		l.inString = false
	} else {
		l.inString = true
		l.quote = c
	}
	l.emit(tt, string(c), start)
}

// lexStringChar emits one character of string content. Structural
// characters, whitespace, everything: inside a string it is all Raw.
func (l *Lexer) lexStringChar() {
	start := l.pos()
	c := l.advance()
	l.emit(Raw, string(c), start)
}

func (l *Lexer) lexWord() {
	start := l.pos()
	from := l.position
	for l.position < len(l.input) && isWordChar(l.input[l.position]) {
		l.advance()
	}
	word := l.input[from:l.position]
	if tt, ok := keywords[word]; ok {
		l.emit(tt, word, start)
		return
	}
	l.emit(Identifier, word, start)
}

func (l *Lexer) lexNumber() {
	start := l.pos()
	from := l.position
	for l.position < len(l.input) && isDigit(l.input[l.position]) {
		l.advance()
	}
	l.emit(IntNumber, l.input[from:l.position], start)
}

func (l *Lexer) skipLineComment() {
	for l.position < len(l.input) && l.input[l.position] != '\n' {
		l.advance()
	}
}

func (l *Lexer) advance() byte {
	c := l.input[l.position]
	l.position++
	if c == '\n' {
		l.line++
		l.character = 1
	} else {
		l.character++
	}
	return c
}

func (l *Lexer) peekAt(offset int) byte {
	if l.position+offset >= len(l.input) {
		return 0
	}
	return l.input[l.position+offset]
}

func (l *Lexer) pos() types.Position {
	return types.Position{Line: l.line, Character: l.character}
}

func (l *Lexer) emit(tt TokenType, value string, start types.Position) {
	l.tokens = append(l.tokens, Token{
		Type:  tt,
		Value: value,
		Range: types.Range{Start: start, End: l.pos()},
	})
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordChar(c byte) bool { return isAlpha(c) || isDigit(c) }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
