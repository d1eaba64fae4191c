package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/syxlang/syx/internal/compiler"
	"github.com/syxlang/syx/internal/types"
)

// debounce groups rapid successive writes to the same file into one
// re-analysis.
const debounce = 100 * time.Millisecond

// Watcher re-runs the diagnostic engine whenever a watched source file
// changes, for editor-style live feedback without an editor attached.
type Watcher struct {
	engine     *Engine
	watcher    *fsnotify.Watcher
	watchDirs  []string
	logger     *zap.Logger
	isWatching bool
}

// NewWatcher creates a watcher over the given directories.
func NewWatcher(engine *Engine, dirs []string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	return &Watcher{
		engine:    engine,
		watcher:   fsWatcher,
		watchDirs: dirs,
		logger:    logger,
	}, nil
}

// Start registers every directory under the watch roots and begins
// processing events in the background.
func (w *Watcher) Start() error {
	if w.isWatching {
		return fmt.Errorf("already watching")
	}

	for _, dir := range w.watchDirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return w.watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	w.isWatching = true
	go w.watchLoop()
	return nil
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() error {
	if !w.isWatching {
		w.logger.Warn("not watching")
	}
	w.isWatching = false
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for w.isWatching {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Write != fsnotify.Write {
		return
	}
	if !strings.HasSuffix(event.Name, compiler.DeclarationExt) && !strings.HasSuffix(event.Name, compiler.UsageExt) {
		return
	}

	// wait for a while after file change to consider multiple changes as one
	time.Sleep(debounce)
	report := w.engine.Report(event.Name, nil)
	w.reportDiagnostics(event.Name, report)
}

func (w *Watcher) reportDiagnostics(filename string, report types.Report) {
	if len(report.Items) == 0 {
		w.logger.Info("no problems found", zap.String("file", filename))
		return
	}

	w.logger.Info("problems found",
		zap.String("file", filename),
		zap.Int("count", len(report.Items)),
	)
	for _, item := range report.Items {
		w.logger.Info("diagnostic",
			zap.String("severity", item.Severity.String()),
			zap.String("range", item.Range.String()),
			zap.String("message", item.Message),
		)
	}
}
