package syntax

// ParseUsage builds the AST of a usage file's import section. The token
// stream must come from a usage lexer, which stops at the `:::` marker;
// only import statements may appear before it.
func ParseUsage(tokens []Token, filePath string) (*ProgramStatement, error) {
	p := &Parser{tokens: tokens, file: filePath}
	p.program = &ProgramStatement{FilePath: filePath}

	for !p.at(EndOfFile) {
		tok := p.peek()
		if tok.Type != ImportKeyword {
			return nil, p.errorAt(tok.Range, "Only import statements may appear before ':::' in a usage file")
		}
		s, err := p.parseImport()
		if err != nil {
			return nil, err
		}
		p.program.Statements = append(p.program.Statements, s)
	}

	p.stampProgramRange()
	return p.program, nil
}

// ParseUsageFile tokenizes and parses usage-file source in one step,
// returning the import program and the body template after `:::`.
func ParseUsageFile(source, filePath string) (*ProgramStatement, string, error) {
	lexer := NewUsageLexer(source)
	tokens := lexer.Tokenize()
	program, err := ParseUsage(tokens, filePath)
	if err != nil {
		return nil, "", err
	}
	return program, lexer.Rest(), nil
}

// ParseFile tokenizes and parses declaration-file source in one step.
func ParseFile(source, filePath string) (*ProgramStatement, error) {
	tokens := NewLexer(source).Tokenize()
	return Parse(tokens, filePath)
}

// walkStatements visits every statement in the program depth first,
// descending into operator, function, and global bodies.
func walkStatements(stmts []Statement, visit func(Statement)) {
	for _, s := range stmts {
		visit(s)
		switch v := s.(type) {
		case *OperatorStatement:
			walkStatements(v.Body.Statements, visit)
		case *FunctionStatement:
			walkStatements(v.Body.Statements, visit)
		case *GlobalStatement:
			walkStatements(v.Body.Statements, visit)
		}
	}
}

// Walk visits every statement of the program, including statements nested
// in operator, function, and global bodies.
func Walk(program *ProgramStatement, visit func(Statement)) {
	walkStatements(program.Statements, visit)
}
