package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syxlang/syx/project"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the project to the configured target format",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		_, config, err := project.New(cfgFile)
		if err != nil {
			logger.Error("Failed to load project configuration", zap.Error(err))
			os.Exit(1)
		}

		if err := project.Build(ctx, logger, config); err != nil {
			logger.Error("Build failed", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("Build succeeded",
			zap.String("root", config.RootDir),
			zap.String("out", config.OutDir),
			zap.String("format", config.Format),
		)
	},
}
