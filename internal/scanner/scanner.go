package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"dupfind/internal/config"
	"dupfind/internal/progress"
)

// Scanner walks directory trees collecting video files that pass the
// configured extension, size and exclusion filters
type Scanner struct {
	config     *config.Config
	reporter   *progress.Reporter
	extensions map[string]bool
	minSize    int64
}

// New creates a new Scanner
func New(cfg *config.Config) *Scanner {
	extensions := make(map[string]bool, len(cfg.VideoExtensions))
	for _, ext := range cfg.VideoExtensions {
		extensions[strings.ToLower(ext)] = true
	}

	return &Scanner{
		config:     cfg,
		reporter:   progress.NewReporter(),
		extensions: extensions,
		minSize:    cfg.MinFileSizeBytes(),
	}
}

// SetProgressReporter sets a custom progress reporter
func (s *Scanner) SetProgressReporter(r *progress.Reporter) {
	s.reporter = r
}

// GetProgressReporter returns the scanner's progress reporter
func (s *Scanner) GetProgressReporter() *progress.Reporter {
	return s.reporter
}

// ScanDirectory walks a single root and returns every matching video
// file under it. Unreadable subtrees are recorded as errors and
// skipped, they never abort the scan.
func (s *Scanner) ScanDirectory(ctx context.Context, root string) (*ScanResult, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	if info, err := os.Stat(absRoot); err != nil {
		return nil, fmt.Errorf("cannot scan %s: %w", root, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("cannot scan %s: not a directory", root)
	}

	result := &ScanResult{Root: absRoot}
	startTime := time.Now()

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			result.Errors = append(result.Errors, walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if s.excluded(d.Name()) && path != absRoot {
				return filepath.SkipDir
			}
			return nil
		}

		// Symlinks are skipped: following them would let one physical
		// file appear as several scan entries.
		if !d.Type().IsRegular() {
			return nil
		}

		if !s.extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if s.excluded(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			result.Errors = append(result.Errors, err)
			return nil
		}
		if info.Size() < s.minSize {
			return nil
		}

		result.Files = append(result.Files, NewFileEntry(path, info))
		result.TotalSize += info.Size()
		result.TotalCount++

		if result.TotalCount%100 == 0 {
			s.reporter.UpdateScanProgress(&progress.ScanProgress{
				Phase:       progress.PhaseScanning,
				Root:        absRoot,
				CurrentPath: path,
				FilesFound:  result.TotalCount,
				TotalSize:   result.TotalSize,
				StartTime:   startTime,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ScanAll scans every root in parallel. Results are returned in root
// order. A file reachable from more than one root is kept in the
// earliest root only, and each root's file list is path-sorted so
// downstream grouping is deterministic regardless of walk order.
func (s *Scanner) ScanAll(ctx context.Context, roots []string) ([]*ScanResult, error) {
	results := make([]*ScanResult, len(roots))
	errs := make([]error, len(roots))

	startTime := time.Now()
	var wg sync.WaitGroup
	for i, root := range roots {
		wg.Add(1)
		go func(i int, root string) {
			defer wg.Done()
			results[i], errs[i] = s.ScanDirectory(ctx, root)
		}(i, root)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var totalCount int
	var totalSize int64
	seen := make(map[string]bool)
	for _, r := range results {
		kept := r.Files[:0]
		r.TotalSize = 0
		for _, f := range r.Files {
			if seen[f.Path] {
				continue
			}
			seen[f.Path] = true
			kept = append(kept, f)
			r.TotalSize += f.Size
		}
		r.Files = kept
		r.TotalCount = len(kept)

		sort.Slice(r.Files, func(i, j int) bool {
			return r.Files[i].Path < r.Files[j].Path
		})

		totalCount += r.TotalCount
		totalSize += r.TotalSize
	}

	s.reporter.UpdateScanProgress(&progress.ScanProgress{
		Phase:      progress.PhaseComplete,
		FilesFound: totalCount,
		TotalSize:  totalSize,
		RootsTotal: len(roots),
		RootsDone:  len(roots),
		StartTime:  startTime,
	})

	return results, nil
}

func (s *Scanner) excluded(name string) bool {
	for _, pattern := range s.config.ExcludePatterns {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}
