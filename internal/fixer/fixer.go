// Package fixer replaces independent copies with hardlinks to the
// source file. It is the only mutating component: it processes one
// file at a time, re-validates state immediately before every
// replacement, and never touches a path inside the source tree.
package fixer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dupfind/internal/config"
	"dupfind/internal/detector"
	"dupfind/internal/progress"
	"dupfind/internal/scanner"
	"dupfind/pkg/utils"
)

// FixResult represents the result of a fix operation
type FixResult struct {
	ReplacedFiles []string
	ReclaimedSize int64
	SkippedFiles  []string
	SkippedReason map[string]string
	Errors        []*ReplaceError
	DryRun        bool
}

// ConfirmFunc decides per pair whether the replacement may proceed. A
// nil ConfirmFunc approves everything.
type ConfirmFunc func(set *detector.DuplicateSet, pair detector.FilePair) bool

// Fixer handles copy-to-hardlink replacement with safeguards
type Fixer struct {
	config   *config.Config
	reporter *progress.Reporter
	confirm  ConfirmFunc
}

// New creates a new Fixer
func New(cfg *config.Config) *Fixer {
	return &Fixer{
		config:   cfg,
		reporter: progress.NewReporter(),
	}
}

// SetConfirmFunc sets the per-pair confirmation callback
func (f *Fixer) SetConfirmFunc(confirm ConfirmFunc) {
	f.confirm = confirm
}

// SetProgressReporter sets a custom progress reporter
func (f *Fixer) SetProgressReporter(r *progress.Reporter) {
	f.reporter = r
}

// GetProgressReporter returns the fixer's progress reporter
func (f *Fixer) GetProgressReporter() *progress.Reporter {
	return f.reporter
}

// Fix walks every duplicate set and replaces copy-chain paths with
// hardlinks to the set's source file. NO_SOURCE sets and sets without
// copy chains are skipped. Space is counted as reclaimed only when
// every path of a copy chain has been replaced, matching how wasted
// space was computed.
func (f *Fixer) Fix(sourceRoot string, sets []*detector.DuplicateSet) (*FixResult, error) {
	result := &FixResult{
		SkippedReason: make(map[string]string),
		DryRun:        f.config.DryRun,
	}

	absSource, err := filepath.Abs(sourceRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source directory: %w", err)
	}

	totalFiles := 0
	var totalBytes int64
	for _, set := range sets {
		totalFiles += len(set.CopyPairs)
		totalBytes += set.WastedSpace
	}

	startTime := time.Now()
	f.reportProgress(progress.PhaseFixing, "", result, totalFiles, totalBytes, startTime)

	for _, set := range sets {
		if set.SourceFile == nil {
			for _, file := range set.AllFiles() {
				result.SkippedFiles = append(result.SkippedFiles, file.Path)
				result.SkippedReason[file.Path] = "no source file to link against"
			}
			continue
		}
		if len(set.Chains) <= 1 {
			// Already fully hardlinked
			continue
		}

		for _, chain := range set.Chains[1:] {
			chainComplete := true
			for _, other := range chain {
				f.reportProgress(progress.PhaseFixing, other.Path, result, totalFiles, totalBytes, startTime)

				if !f.replaceOne(set, other, absSource, result) {
					chainComplete = false
				}
			}
			if chainComplete {
				result.ReclaimedSize += chain[0].Size
			}
		}
	}

	f.reportProgress(progress.PhaseComplete, "", result, totalFiles, totalBytes, startTime)

	return result, nil
}

// replaceOne handles a single path and reports whether it ended up
// hardlinked to the source (replaced now or already linked)
func (f *Fixer) replaceOne(set *detector.DuplicateSet, other *scanner.FileEntry, absSource string, result *FixResult) bool {
	source := set.SourceFile

	if underDir(other.Path, absSource) {
		result.SkippedFiles = append(result.SkippedFiles, other.Path)
		result.SkippedReason[other.Path] = "inside the source directory"
		return false
	}

	if f.confirm != nil && !f.confirm(set, detector.FilePair{Source: source, Other: other}) {
		result.SkippedFiles = append(result.SkippedFiles, other.Path)
		result.SkippedReason[other.Path] = "declined"
		return false
	}

	alreadyLinked, repErr := f.validate(source, other)
	if repErr != nil {
		result.Errors = append(result.Errors, repErr)
		return false
	}
	if alreadyLinked {
		return true
	}

	if f.config.DryRun {
		result.ReplacedFiles = append(result.ReplacedFiles, other.Path)
		return true
	}

	if repErr := replaceWithLink(source.Path, other.Path); repErr != nil {
		result.Errors = append(result.Errors, repErr)
		return false
	}

	result.ReplacedFiles = append(result.ReplacedFiles, other.Path)
	return true
}

// validate re-checks both files immediately before replacement. The
// scan result may be stale: either file may have been modified,
// replaced or removed since. Any mismatch aborts this pair.
func (f *Fixer) validate(source, other *scanner.FileEntry) (alreadyLinked bool, repErr *ReplaceError) {
	sourceInfo, err := os.Stat(source.Path)
	if err != nil {
		return false, CategorizeError(source.Path, err)
	}
	otherInfo, err := os.Stat(other.Path)
	if err != nil {
		return false, CategorizeError(other.Path, err)
	}

	if os.SameFile(sourceInfo, otherInfo) {
		return true, nil
	}

	if sourceInfo.Size() != source.Size || otherInfo.Size() != other.Size {
		return false, &ReplaceError{
			Path:     other.Path,
			Reason:   ErrorFileModified,
			Original: fmt.Errorf("size changed since scan"),
		}
	}
	if sourceInfo.Size() != otherInfo.Size() {
		return false, &ReplaceError{
			Path:     other.Path,
			Reason:   ErrorFileModified,
			Original: fmt.Errorf("source and copy sizes differ"),
		}
	}

	if f.config.Fix.VerifyContent {
		sourceHash, err := f.fingerprint(source.Path)
		if err != nil {
			return false, CategorizeError(source.Path, err)
		}
		otherHash, err := f.fingerprint(other.Path)
		if err != nil {
			return false, CategorizeError(other.Path, err)
		}
		if sourceHash != otherHash {
			return false, &ReplaceError{
				Path:     other.Path,
				Reason:   ErrorFileModified,
				Original: fmt.Errorf("content fingerprint mismatch"),
			}
		}
	}

	return false, nil
}

func (f *Fixer) fingerprint(path string) (string, error) {
	if f.config.Fingerprint == config.FingerprintQuick {
		return utils.HashFileQuick(path, f.config.QuickHashChunkBytes())
	}
	return utils.HashFile(path)
}

// replaceWithLink links the source to a temporary name next to the
// copy, then renames it over the copy. The copy path always refers to
// a complete file: either the old copy or the new hardlink, never
// nothing.
func replaceWithLink(sourcePath, copyPath string) *ReplaceError {
	tmpPath := copyPath + ".dupfind.tmp"

	if err := os.Link(sourcePath, tmpPath); err != nil {
		return CategorizeError(copyPath, err)
	}
	if err := os.Rename(tmpPath, copyPath); err != nil {
		os.Remove(tmpPath)
		return CategorizeError(copyPath, err)
	}

	return nil
}

func underDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (f *Fixer) reportProgress(phase progress.Phase, currentFile string, result *FixResult, totalFiles int, totalBytes int64, startTime time.Time) {
	f.reporter.UpdateFixProgress(&progress.FixProgress{
		Phase:          phase,
		CurrentFile:    currentFile,
		ReplacedFiles:  len(result.ReplacedFiles),
		TotalFiles:     totalFiles,
		ReclaimedBytes: result.ReclaimedSize,
		TotalBytes:     totalBytes,
		SkippedFiles:   len(result.SkippedFiles),
		ErrorCount:     len(result.Errors),
		StartTime:      startTime,
	})
}
