// Package chunk is the entry point for tokenizing source trees into
// statements.
package chunk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/tdup/internal"
	tt "github.com/gnolang/tdup/internal/types"
)

// ProgressWriter receives the progress bar of directory runs. Nil hides it.
var ProgressWriter io.Writer = os.Stderr

type FileEngine interface {
	Run(filename string) (tt.FileReport, error)
	RunSource(language string, src []byte) (tt.FileReport, error)
	Supports(filename string) bool
	IgnorePath(pattern string)
	IsIgnored(filename string) bool
}

var _ FileEngine = (*internal.Engine)(nil)

// Processor produces the report of a single file.
type Processor func(FileEngine, string) (tt.FileReport, error)

// New creates an engine from the configuration file.
func New(rootDir, configurationPath string, logger *zap.Logger) (*internal.Engine, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(rootDir, config, configurationPath, logger)
}

// NewWithConfig creates an engine from an already loaded configuration.
// When caching is enabled, changes to configurationPath invalidate the cache.
func NewWithConfig(rootDir string, config Config, configurationPath string, logger *zap.Logger) (*internal.Engine, error) {
	registry, err := config.Registry()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	engine, err := internal.NewEngine(rootDir, registry, logger)
	if err != nil {
		return nil, err
	}

	if config.Cache.Enabled {
		var deps []string
		if configurationPath != "" {
			if _, err := os.Stat(configurationPath); err == nil {
				deps = append(deps, configurationPath)
			}
		}
		dir := config.Cache.Dir
		if dir == "" {
			dir = DefaultConfig().Cache.Dir
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(rootDir, dir)
		}
		if err := engine.EnableCache(dir, deps...); err != nil {
			return nil, err
		}
		engine.Cache().SetMaxAge(config.Cache.MaxAge)
	}

	return engine, nil
}

// ProcessFiles runs every path through ProcessPath and returns the reports
// sorted by filename. Files that fail are logged and left out; their errors
// are joined into the returned error.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine FileEngine,
	paths []string,
	processor Processor,
) ([]tt.FileReport, error) {
	var (
		all  []tt.FileReport
		errs []error
	)
	for _, path := range paths {
		reports, err := ProcessPath(ctx, logger, engine, path, processor)
		all = append(all, reports...)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			errs = append(errs, err)
		}
	}

	sortReports(all)
	return all, errors.Join(errs...)
}

// ProcessPath runs a file, or every supported file below a directory.
// Directory files are processed by a pool of runtime.NumCPU() workers.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine FileEngine,
	path string,
	processor Processor,
) ([]tt.FileReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !engine.Supports(path) || engine.IsIgnored(path) {
			logger.Debug("skipping file", zap.String("file", path))
			return nil, nil
		}
		report, err := processor(engine, path)
		if err != nil {
			logger.Error("Error processing file", zap.String("file", path), zap.Error(err))
			return nil, err
		}
		return []tt.FileReport{report}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && engine.Supports(filePath) && !engine.IsIgnored(filePath) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", path, err)
	}

	bar := newProgressBar(len(files), path)

	var (
		mu      sync.Mutex
		reports = make([]tt.FileReport, 0, len(files))
		errs    []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, filePath := range files {
		if gctx.Err() != nil {
			break
		}
		filePath := filePath
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := processor(engine, filePath)
			_ = bar.Add(1)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("Error processing file", zap.String("file", filePath), zap.Error(err))
				errs = append(errs, err)
				return nil
			}
			reports = append(reports, report)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_ = bar.Finish()

	sortReports(reports)
	return reports, errors.Join(errs...)
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	w := ProgressWriter
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func sortReports(reports []tt.FileReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Filename < reports[j].Filename
	})
}

func ProcessFile(engine FileEngine, filename string) (tt.FileReport, error) {
	return engine.Run(filename)
}

// ProcessSource tokenizes src as the given language.
func ProcessSource(engine FileEngine, language string, src []byte) (tt.FileReport, error) {
	return engine.RunSource(language, src)
}
