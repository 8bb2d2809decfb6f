package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/stackvity/asset-scanner/pkg/util"
)

// DirectoryInfo is a cheap preview of a directory: it lists candidate files
// without parsing any of them.
type DirectoryInfo struct {
	Directory   string   `json:"directory" yaml:"directory" toml:"directory"`
	Valid       bool     `json:"valid" yaml:"valid" toml:"valid"`
	Error       string   `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
	TotalFiles  int      `json:"totalFiles" yaml:"totalFiles" toml:"totalFiles"`
	SampleFiles []string `json:"sampleFiles" yaml:"sampleFiles" toml:"sampleFiles"`
}

// ValidateDirectory checks that path names an existing directory.
func ValidateDirectory(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrDirectoryNotFound, path)
		}
		return fmt.Errorf("cannot access directory %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, path)
	}
	return nil
}

// Enumerator lists the candidate files of a directory in lexical order.
type Enumerator struct {
	pattern        string
	recursive      bool
	ignorePatterns []string
	logger         *slog.Logger
}

// NewEnumerator creates an Enumerator configured from opts.
func NewEnumerator(opts *Options, loggerHandler slog.Handler) *Enumerator {
	return &Enumerator{
		pattern:        FilePattern,
		recursive:      opts.Recursive,
		ignorePatterns: opts.IgnorePatterns,
		logger:         slog.New(loggerHandler).With(slog.String("component", "enumerator")),
	}
}

// Enumerate validates dir and returns the paths, joined onto dir, of every
// file whose name matches FilePattern and no ignore pattern. The result is
// sorted by path relative to dir, so repeated runs plan identical chunks.
// Symbolic links are skipped.
func (e *Enumerator) Enumerate(ctx context.Context, dir string) ([]string, error) {
	if err := ValidateDirectory(dir); err != nil {
		return nil, err
	}

	var (
		rels []string
		err  error
	)
	if e.recursive {
		rels, err = e.walkRecursive(ctx, dir)
	} else {
		rels, err = e.listTopLevel(dir)
	}
	if err != nil {
		return nil, err
	}

	sort.Strings(rels)
	files := make([]string, len(rels))
	for i, rel := range rels {
		files[i] = filepath.Join(dir, filepath.FromSlash(rel))
	}
	e.logger.Debug("Enumerated candidate files",
		slog.String("directory", dir),
		slog.Int("count", len(files)),
		slog.Bool("recursive", e.recursive))
	return files, nil
}

// DirectoryInfo reports whether dir is scannable, how many candidate files it
// holds, and the first SampleFileLimit of their names.
func (e *Enumerator) DirectoryInfo(ctx context.Context, dir string) DirectoryInfo {
	info := DirectoryInfo{Directory: dir, SampleFiles: []string{}}
	files, err := e.Enumerate(ctx, dir)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Valid = true
	info.TotalFiles = len(files)
	for _, f := range files[:min(len(files), SampleFileLimit)] {
		info.SampleFiles = append(info.SampleFiles, filepath.Base(f))
	}
	return info
}

// accept reports whether a regular file at rel should be scanned.
func (e *Enumerator) accept(rel string) bool {
	if ok, _ := filepath.Match(e.pattern, filepath.Base(rel)); !ok {
		return false
	}
	if p := util.FirstMatch(e.ignorePatterns, rel); p != "" {
		e.logger.Debug("Path ignored", slog.String("path", rel), slog.String("pattern", p))
		return false
	}
	return true
}

func (e *Enumerator) listTopLevel(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory %s: %w", dir, err)
	}
	var rels []string
	for _, d := range entries {
		if !d.Type().IsRegular() {
			continue
		}
		if e.accept(d.Name()) {
			rels = append(rels, d.Name())
		}
	}
	return rels, nil
}

func (e *Enumerator) walkRecursive(ctx context.Context, dir string) ([]string, error) {
	var (
		mu   sync.Mutex
		rels []string
	)
	conf := &fastwalk.Config{Follow: false}

	walkErr := fastwalk.Walk(conf, dir, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil {
			e.logger.Warn("Error accessing path during walk", slog.String("path", path), slog.String("error", err.Error()))
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if p := util.FirstMatch(e.ignorePatterns, rel); p != "" {
				e.logger.Debug("Directory ignored", slog.String("path", rel), slog.String("pattern", p))
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !e.accept(rel) {
			return nil
		}
		mu.Lock()
		rels = append(rels, rel)
		mu.Unlock()
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, walkErr
		}
		return nil, fmt.Errorf("directory walk failed: %w", walkErr)
	}
	return rels, nil
}
