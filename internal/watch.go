package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnolang/tdup/internal/types"
)

// debounce is how long to wait after a write before re-running a file, so
// that editors saving in several steps trigger a single run.
const debounce = 100 * time.Millisecond

// StartWatching re-runs supported files under dirs whenever they are
// written and hands each result to onReport.
func (e *Engine) StartWatching(dirs []string, onReport func(tt.FileReport, error)) error {
	if e.isWatching {
		return fmt.Errorf("already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			watcher.Close()
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.watcher = watcher
	e.onReport = onReport
	e.done = make(chan struct{})
	e.isWatching = true
	go e.watchLoop(watcher, e.done)
	return nil
}

func (e *Engine) StopWatching() error {
	if !e.isWatching {
		e.logger.Warn("not watching")
		return nil
	}

	e.isWatching = false
	close(e.done)
	return e.watcher.Close()
}

func (e *Engine) watchLoop(watcher *fsnotify.Watcher, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			e.handleFileEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Write != fsnotify.Write || !e.Supports(event.Name) {
		return
	}

	time.Sleep(debounce)
	report, err := e.Run(event.Name)
	if err != nil {
		e.logger.Error("error processing file", zap.String("file", event.Name), zap.Error(err))
	} else {
		e.logger.Info("file processed",
			zap.String("file", event.Name),
			zap.Int("statements", len(report.Statements)),
			zap.Int("unmatched", len(report.Unmatched)))
	}
	if e.onReport != nil {
		e.onReport(report, err)
	}
}
