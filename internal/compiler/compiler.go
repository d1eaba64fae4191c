// Package compiler turns exported declarations into reusable descriptors
// and applies imported descriptors to usage-file bodies.
package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/syxlang/syx/internal/registry"
	"github.com/syxlang/syx/internal/syntax"
)

// DeclarationExt is the extension of declaration files.
const DeclarationExt = ".syx"

// UsageExt is the extension of usage files.
const UsageExt = ".sys"

// Error is a compile failure. It is fatal to the current file only;
// whether the project build continues is the caller's decision.
type Error struct {
	File    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

func errorf(file, format string, args ...any) *Error {
	return &Error{File: file, Message: fmt.Sprintf(format, args...)}
}

// Compiler holds the per-declaration-file descriptor cache and the target
// configuration. Declaration compilation writes the cache; usage
// compilation reads it. Callers must compile every declaration file a
// usage file imports before compiling that usage file.
type Compiler struct {
	format  string
	rootDir string
	outDir  string
	exports map[string]*Exports
	logger  *zap.Logger
}

// New returns a compiler targeting the given format. rootDir and outDir
// control where compiled usage files are written.
func New(format, rootDir, outDir string, logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{
		format:  format,
		rootDir: rootDir,
		outDir:  outDir,
		exports: make(map[string]*Exports),
		logger:  logger,
	}
}

// Format returns the configured target format.
func (c *Compiler) Format() string { return c.format }

// CompileDeclaration parses a declaration file and stores one descriptor
// per exported statement, overwriting any prior entry for the same path.
// Parse errors propagate to the caller unwrapped.
func (c *Compiler) CompileDeclaration(path, source string) error {
	program, err := syntax.ParseFile(source, path)
	if err != nil {
		return err
	}

	exports := &Exports{}
	if err := c.collectExports(path, program.Statements, exports); err != nil {
		return err
	}

	c.exports[filepath.Clean(path)] = exports
	c.logger.Debug("compiled declaration file",
		zap.String("path", path),
		zap.Int("operators", len(exports.Operators)),
		zap.Int("functions", len(exports.Functions)),
		zap.Int("keywords", len(exports.Keywords)),
	)
	return nil
}

// collectExports builds descriptors for exported statements, descending
// into exported global bodies.
func (c *Compiler) collectExports(file string, stmts []syntax.Statement, exports *Exports) error {
	for _, s := range stmts {
		if !syntax.IsExported(s) {
			continue
		}
		switch v := s.(type) {
		case *syntax.OperatorStatement:
			desc, err := c.buildOperator(file, v)
			if err != nil {
				return err
			}
			exports.Operators = append(exports.Operators, desc)
		case *syntax.FunctionStatement:
			desc, err := c.buildFunction(file, v)
			if err != nil {
				return err
			}
			exports.Functions = append(exports.Functions, desc)
		case *syntax.KeywordStatement:
			exports.Keywords = append(exports.Keywords, &KeywordDescriptor{Word: v.Word})
		case *syntax.GlobalStatement:
			if err := c.collectExports(file, v.Body.Statements, exports); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Compiler) buildOperator(file string, op *syntax.OperatorStatement) (*OperatorDescriptor, error) {
	source, err := PatternSource(op)
	if err != nil {
		return nil, errorf(file, "invalid operator pattern: %v", err)
	}
	pattern, err := regexp.Compile(source)
	if err != nil {
		return nil, errorf(file, "operator pattern %q does not compile: %v", source, err)
	}

	desc := &OperatorDescriptor{
		PatternSource: source,
		Pattern:       pattern,
		Generators:    make(map[string]OutputGenerator),
		Imports:       make(map[string]string),
	}
	for _, s := range op.Body.Statements {
		switch v := s.(type) {
		case *syntax.CompileStatement:
			gen := c.makeGenerator(file, pattern, v.Template)
			for _, format := range v.FormatNames() {
				desc.Generators[format] = gen
			}
		case *syntax.ImportsStatement:
			for _, format := range v.FormatNames() {
				desc.Imports[format] = v.Module.Text
			}
		}
	}
	return desc, nil
}

// makeGenerator builds the output generator for one compile template. The
// matched source text is re-matched against the operator's own pattern to
// recover the capture groups referenced by indexed variables.
func (c *Compiler) makeGenerator(file string, pattern *regexp.Regexp, template []syntax.Expression) OutputGenerator {
	return func(match string) (string, error) {
		groups := pattern.FindStringSubmatch(match)
		if groups == nil {
			return "", errorf(file, "matched text %q no longer matches its own pattern", match)
		}
		var b strings.Builder
		if err := renderTemplate(&b, file, template, groups); err != nil {
			return "", err
		}
		return b.String(), nil
	}
}

// renderTemplate assembles the declared template: literal text verbatim, a
// single space for whitespace identifiers, and the indexed capture for
// variable references.
func renderTemplate(b *strings.Builder, file string, template []syntax.Expression, groups []string) error {
	for _, el := range template {
		switch e := el.(type) {
		case *syntax.StringExpression:
			b.WriteString(e.Text)
		case *syntax.WhitespaceIdentifierExpression:
			b.WriteByte(' ')
		case *syntax.VariableExpression:
			idx := e.Index + 1
			if idx < 1 || idx >= len(groups) {
				return errorf(file, "variable '%s|%d' references a non-existent capture", e.Name, e.Index)
			}
			b.WriteString(groups[idx])
		case *syntax.SquareBodyExpression:
			b.WriteByte('[')
			if err := renderTemplate(b, file, e.Items, groups); err != nil {
				return err
			}
			b.WriteByte(']')
		default:
			return errorf(file, "unsupported template element %T", el)
		}
	}
	return nil
}

func (c *Compiler) buildFunction(file string, fn *syntax.FunctionStatement) (*FunctionDescriptor, error) {
	args := make([]string, 0, len(fn.Args))
	for _, arg := range fn.Args {
		p, ok := registry.PrimitivePattern(arg.Name)
		if !ok {
			return nil, errorf(file, "no pattern for primitive type %q", arg.Name)
		}
		args = append(args, p)
	}

	desc := &FunctionDescriptor{
		Name:        fn.Name,
		ArgPatterns: args,
		CallPattern: callPattern(fn.Name, args),
		Renames:     make(map[string]string),
		Imports:     make(map[string]string),
	}
	for _, s := range fn.Body.Statements {
		switch v := s.(type) {
		case *syntax.CompileStatement:
			rename, err := renameFromTemplate(file, fn.Name, v.Template)
			if err != nil {
				return nil, err
			}
			for _, format := range v.FormatNames() {
				desc.Renames[format] = rename
			}
		case *syntax.ImportsStatement:
			for _, format := range v.FormatNames() {
				desc.Imports[format] = v.Module.Text
			}
		}
	}
	return desc, nil
}

// renameFromTemplate extracts the per-format rename of a function. The
// template must consist of literal strings only.
func renameFromTemplate(file, name string, template []syntax.Expression) (string, error) {
	var b strings.Builder
	for _, el := range template {
		s, ok := el.(*syntax.StringExpression)
		if !ok {
			return "", errorf(file, "compile template of function '%s' must be a literal string", name)
		}
		b.WriteString(s.Text)
	}
	return b.String(), nil
}

// callPattern matches `name(arg, arg, ...)` with optional whitespace
// around arguments.
func callPattern(name string, args []string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(regexp.QuoteMeta(name))
	b.WriteString(`\(\s*`)
	b.WriteString(strings.Join(args, `\s*,\s*`))
	b.WriteString(`\s*\)`)
	return regexp.MustCompile(b.String())
}

// ResolveImportPath resolves an import path relative to the importing
// file, appending the declaration extension if absent.
func ResolveImportPath(importingFile, path string) string {
	if !strings.HasSuffix(path, DeclarationExt) {
		path += DeclarationExt
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(filepath.Dir(importingFile), path))
}

// CompileUsage compiles a usage file against the descriptor cache and
// returns the generated target-language text. Every imported declaration
// file must have been compiled first.
func (c *Compiler) CompileUsage(path, source string) (string, error) {
	program, body, err := syntax.ParseUsageFile(source, path)
	if err != nil {
		return "", err
	}

	var imported []*Exports
	for _, s := range program.Statements {
		imp := s.(*syntax.ImportStatement)
		resolved := ResolveImportPath(path, imp.Path.Text)
		exports, ok := c.exports[resolved]
		if !ok {
			return "", errorf(path, "import '%s' has not been compiled", imp.Path.Text)
		}
		imported = append(imported, exports)
	}

	// Two identical operator patterns imported into one file would make
	// the replacement order ambiguous.
	seen := make(map[string]bool)
	for _, exports := range imported {
		for _, op := range exports.Operators {
			if seen[op.PatternSource] {
				return "", errorf(path, "duplicate operator pattern %q imported", op.PatternSource)
			}
			seen[op.PatternSource] = true
		}
	}

	var requiredImports []string
	record := func(module string) {
		for _, m := range requiredImports {
			if m == module {
				return
			}
		}
		requiredImports = append(requiredImports, module)
	}

	for _, exports := range imported {
		for _, op := range exports.Operators {
			gen, ok := op.Generators[c.format]
			if !ok {
				return "", errorf(path, "operator %q has no output for format '%s'", op.PatternSource, c.format)
			}
			var genErr error
			body = op.Pattern.ReplaceAllStringFunc(body, func(match string) string {
				out, err := gen(match)
				if err != nil && genErr == nil {
					genErr = err
				}
				return out
			})
			if genErr != nil {
				return "", genErr
			}
			if module, ok := op.Imports[c.format]; ok {
				record(module)
			}
		}
		for _, fn := range exports.Functions {
			rename, ok := fn.Renames[c.format]
			if !ok {
				return "", errorf(path, "function '%s' has no rename for format '%s'", fn.Name, c.format)
			}
			body = fn.CallPattern.ReplaceAllStringFunc(body, func(match string) string {
				return rename + strings.TrimPrefix(match, fn.Name)
			})
			if module, ok := fn.Imports[c.format]; ok {
				record(module)
			}
		}
	}

	var b strings.Builder
	for _, module := range requiredImports {
		fmt.Fprintf(&b, "import %s\n", module)
	}
	b.WriteString(body)
	return b.String(), nil
}

// OutputPath maps a usage file's path to its output location: the root
// directory prefix is replaced by the out directory and the extension by
// the target format.
func (c *Compiler) OutputPath(usagePath string) (string, error) {
	rel, err := filepath.Rel(c.rootDir, usagePath)
	if err != nil {
		return "", errorf(usagePath, "not under root directory %s: %v", c.rootDir, err)
	}
	out := filepath.Join(c.outDir, rel)
	out = strings.TrimSuffix(out, filepath.Ext(out)) + "." + c.format
	return out, nil
}

// WriteUsageFile compiles a usage file and writes the result under the out
// directory.
func (c *Compiler) WriteUsageFile(path, source string) (string, error) {
	compiled, err := c.CompileUsage(path, source)
	if err != nil {
		return "", err
	}
	out, err := c.OutputPath(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(out, []byte(compiled), 0o644); err != nil {
		return "", fmt.Errorf("writing output file: %w", err)
	}
	c.logger.Info("compiled usage file", zap.String("in", path), zap.String("out", out))
	return out, nil
}
