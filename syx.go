// Package syx exposes the compiler front end of the syx language: the
// lexer and parsers, the per-file diagnostic engine, and the cross-file
// compiler.
package syx

import (
	"go.uber.org/zap"

	"github.com/syxlang/syx/internal"
	"github.com/syxlang/syx/internal/compiler"
	"github.com/syxlang/syx/internal/syntax"
	"github.com/syxlang/syx/internal/types"
)

// Report analyzes one file and returns its full diagnostic report. When
// content is nil the file is read from disk. Coordinates in the report are
// 0-based.
func Report(filePath string, content []byte) types.Report {
	return internal.NewEngine().Report(filePath, content)
}

// ParseFile tokenizes and parses declaration-file source.
func ParseFile(source, filePath string) (*syntax.ProgramStatement, error) {
	return syntax.ParseFile(source, filePath)
}

// ParseUsageFile tokenizes and parses usage-file source, returning the
// import program and the body template after the `:::` marker.
func ParseUsageFile(source, filePath string) (*syntax.ProgramStatement, string, error) {
	return syntax.ParseUsageFile(source, filePath)
}

// NewCompiler creates a compiler targeting the given format. Declaration
// files must be compiled before the usage files that import them.
func NewCompiler(format, rootDir, outDir string, logger *zap.Logger) *compiler.Compiler {
	return compiler.New(format, rootDir, outDir, logger)
}
