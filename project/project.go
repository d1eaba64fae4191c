// Package project orchestrates the core over whole directory trees:
// configuration loading, file discovery, batched diagnostic runs, and
// full project builds.
package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/syxlang/syx/internal"
	"github.com/syxlang/syx/internal/compiler"
	"github.com/syxlang/syx/internal/syntax"
	"github.com/syxlang/syx/internal/types"
)

// New builds a diagnostic engine from a configuration file. An empty
// configurationPath searches upward from the working directory.
func New(configurationPath string) (*internal.Engine, Config, error) {
	if configurationPath == "" {
		found, err := FindConfig(".")
		if err != nil {
			return nil, Config{}, err
		}
		configurationPath = found
	}

	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, Config{}, err
	}

	engine := internal.NewEngine()
	for _, name := range config.IgnoredChecks {
		engine.IgnoreCheck(strings.TrimSpace(name))
	}
	return engine, config, nil
}

// FileReport pairs a file path with its diagnostic report.
type FileReport struct {
	Path   string       `json:"path"`
	Report types.Report `json:"report"`
}

// ProcessFiles analyzes every given path, walking directories for source
// files, and returns one report per file.
func ProcessFiles(ctx context.Context, logger *zap.Logger, engine *internal.Engine, paths []string) ([]FileReport, error) {
	var all []FileReport
	for _, path := range paths {
		reports, err := ProcessPath(ctx, logger, engine, path)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		all = append(all, reports...)
	}
	return all, nil
}

// ProcessPath analyzes a single file, or every source file under a
// directory using a bounded worker pool.
func ProcessPath(ctx context.Context, logger *zap.Logger, engine *internal.Engine, path string) ([]FileReport, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !hasSourceExtension(path) {
			return nil, nil
		}
		return []FileReport{{Path: path, Report: engine.Report(path, nil)}}, nil
	}

	files, err := discoverSources(path)
	if err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	resultChan := make(chan FileReport, len(files))
	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)

	for _, filePath := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			sem <- struct{}{}
			go func(fp string) {
				defer func() { <-sem }()
				resultChan <- FileReport{Path: fp, Report: engine.Report(fp, nil)}
				bar.Add(1)
			}(filePath)
		}
	}

	reports := make([]FileReport, 0, len(files))
	for range files {
		reports = append(reports, <-resultChan)
	}
	fmt.Println()

	// The worker pool finishes out of order; reports are sorted so runs
	// over identical trees are deterministic.
	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })
	return reports, nil
}

// Build compiles the whole project: declaration files first, in import
// dependency order, then every usage file. Failures are per file; the
// build continues across files and reports them together.
func Build(ctx context.Context, logger *zap.Logger, config Config) error {
	comp := compiler.New(config.Format, config.RootDir, config.OutDir, logger)

	declarations, usages, err := discoverProject(config.RootDir)
	if err != nil {
		return err
	}

	ordered, err := declarationOrder(declarations)
	if err != nil {
		return err
	}

	var failures []error
	for _, path := range ordered {
		if err := ctx.Err(); err != nil {
			return err
		}
		source, err := os.ReadFile(path)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		if err := comp.CompileDeclaration(path, string(source)); err != nil {
			failures = append(failures, err)
			if logger != nil {
				logger.Error("declaration failed", zap.String("file", path), zap.Error(err))
			}
		}
	}

	bar := progressbar.NewOptions(len(usages),
		progressbar.OptionSetDescription("compiling"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
	)
	for _, path := range usages {
		if err := ctx.Err(); err != nil {
			return err
		}
		source, err := os.ReadFile(path)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		if _, err := comp.WriteUsageFile(path, string(source)); err != nil {
			failures = append(failures, err)
			if logger != nil {
				logger.Error("usage file failed", zap.String("file", path), zap.Error(err))
			}
		}
		bar.Add(1)
	}
	fmt.Println()

	return errors.Join(failures...)
}

// declarationOrder sorts declaration files so every file comes after the
// files it imports. Import cycles are an error.
func declarationOrder(files []string) ([]string, error) {
	imports := make(map[string][]string, len(files))
	for _, path := range files {
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		deps, err := syntaxImports(path, string(source))
		if err != nil {
			// Parse failures still get scheduled; compilation reports
			// them with full context.
			imports[filepath.Clean(path)] = nil
			continue
		}
		imports[filepath.Clean(path)] = deps
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int)
	var ordered []string

	var visit func(path string) error
	visit = func(path string) error {
		switch state[path] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("import cycle involving %s", path)
		}
		state[path] = visiting
		for _, dep := range imports[path] {
			if _, known := imports[dep]; known {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		state[path] = done
		ordered = append(ordered, path)
		return nil
	}

	sorted := make([]string, 0, len(imports))
	for path := range imports {
		sorted = append(sorted, path)
	}
	sort.Strings(sorted)
	for _, path := range sorted {
		if err := visit(path); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}

// syntaxImports parses a declaration file and returns the resolved paths
// of the files it imports.
func syntaxImports(path, source string) ([]string, error) {
	program, err := syntax.ParseFile(source, path)
	if err != nil {
		return nil, err
	}
	var deps []string
	for _, s := range program.Statements {
		if imp, ok := s.(*syntax.ImportStatement); ok {
			deps = append(deps, compiler.ResolveImportPath(path, imp.Path.Text))
		}
	}
	return deps, nil
}

func discoverProject(rootDir string) (declarations, usages []string, err error) {
	err = filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case compiler.DeclarationExt:
			declarations = append(declarations, path)
		case compiler.UsageExt:
			usages = append(usages, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking %s: %w", rootDir, err)
	}
	sort.Strings(declarations)
	sort.Strings(usages)
	return declarations, usages, nil
}

func discoverSources(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && hasSourceExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

var sourceExtensions = map[string]bool{
	compiler.DeclarationExt: true,
	compiler.UsageExt:       true,
}

func hasSourceExtension(path string) bool {
	return sourceExtensions[filepath.Ext(path)]
}
