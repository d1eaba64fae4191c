package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syxlang/syx/internal"
	"github.com/syxlang/syx/project"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Watch source files and re-run diagnostics on change",
	Run: func(cmd *cobra.Command, args []string) {
		engine, config, err := project.New(cfgFile)
		if err != nil {
			engine = internal.NewEngine()
		}

		dirs := args
		if len(dirs) == 0 {
			if config.RootDir != "" {
				dirs = []string{config.RootDir}
			} else {
				dirs = []string{"."}
			}
		}

		watcher, err := internal.NewWatcher(engine, dirs, logger)
		if err != nil {
			logger.Error("Failed to create watcher", zap.Error(err))
			os.Exit(1)
		}
		if err := watcher.Start(); err != nil {
			logger.Error("Failed to start watching", zap.Error(err))
			os.Exit(1)
		}
		defer watcher.Stop()

		logger.Info("Watching for changes", zap.Strings("dirs", dirs))

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
	},
}
