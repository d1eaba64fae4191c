package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syxlang/syx/formatter"
	"github.com/syxlang/syx/internal"
	"github.com/syxlang/syx/internal/types"
	"github.com/syxlang/syx/project"
)

var (
	checkJSONOutput bool
	checkOutPath    string
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Report diagnostics for declaration and usage files",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, _, err := project.New(cfgFile)
		if err != nil {
			// Checking loose files works without a project config.
			engine = internal.NewEngine()
		}

		runCheck(ctx, logger, engine, args, checkJSONOutput, checkOutPath)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSONOutput, "json", false, "Output diagnostics in JSON format")
	checkCmd.Flags().StringVarP(&checkOutPath, "output", "o", "", "Output path (when using JSON)")
}

func runCheck(ctx context.Context, logger *zap.Logger, engine *internal.Engine, paths []string, isJSON bool, jsonOutput string) {
	reports, err := project.ProcessFiles(ctx, logger, engine, paths)
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		os.Exit(1)
	}

	printReports(logger, reports, isJSON, jsonOutput)

	if hasErrors(reports) {
		os.Exit(1)
	}
}

func hasErrors(reports []project.FileReport) bool {
	for _, r := range reports {
		for _, item := range r.Report.Items {
			if item.Severity == types.SeverityError {
				return true
			}
		}
	}
	return false
}

func printReports(logger *zap.Logger, reports []project.FileReport, isJSON bool, jsonOutput string) {
	if !isJSON {
		for _, r := range reports {
			if len(r.Report.Items) == 0 {
				continue
			}
			sourceCode, err := internal.ReadSourceCode(r.Path)
			if err != nil {
				logger.Error("Error reading source file", zap.String("file", r.Path), zap.Error(err))
				continue
			}
			fmt.Println(formatter.Generate(r.Path, r.Report, sourceCode))
		}
		return
	}

	byFile := make(map[string]types.Report, len(reports))
	for _, r := range reports {
		byFile[r.Path] = r.Report
	}
	d, err := json.Marshal(byFile)
	if err != nil {
		logger.Error("Error marshalling reports to JSON", zap.Error(err))
		return
	}
	if jsonOutput == "" {
		fmt.Println(string(d))
		return
	}
	if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
		logger.Error("Error writing JSON output file", zap.Error(err))
	}
}
