// Package detector turns scanned file lists into classified duplicate
// sets. Matching is two-phase: name-based grouping on extracted
// identifiers, then an optional content-based fallback for files no
// name set claimed. Within each set, files are partitioned into
// same-storage chains so hardlinked paths are never double-counted.
package detector

import (
	"time"

	"dupfind/internal/analyzer"
	"dupfind/internal/progress"
	"dupfind/internal/scanner"
)

// Options controls one detection pass
type Options struct {
	// MinConfidence drops identifier matches below this score
	MinConfidence float64

	// ContentMatch enables the content-based fallback and the
	// name+content upgrade of name-matched sets
	ContentMatch bool
}

// Detector builds duplicate sets from scan results
type Detector struct {
	extractor *analyzer.IDExtractor
	parts     *analyzer.PartDetector
	opts      Options
	reporter  *progress.Reporter
}

// New creates a detector with the built-in pattern table
func New(opts Options) *Detector {
	return NewWithPatterns(analyzer.DefaultPatterns(), opts)
}

// NewWithPatterns creates a detector with a custom pattern table
func NewWithPatterns(table analyzer.PatternTable, opts Options) *Detector {
	return &Detector{
		extractor: analyzer.NewIDExtractor(table),
		parts:     analyzer.NewPartDetector(),
		opts:      opts,
		reporter:  progress.NewReporter(),
	}
}

// SetProgressReporter sets a custom progress reporter
func (d *Detector) SetProgressReporter(r *progress.Reporter) {
	d.reporter = r
}

// ScanMultiple builds the ordered duplicate-set list from one source
// scan and any number of target scans. Files claimed by a name set are
// excluded from content matching, so no file appears in two sets. The
// returned sets are fully assembled and must not be mutated.
func (d *Detector) ScanMultiple(source *scanner.ScanResult, targets []*scanner.ScanResult) *Result {
	startTime := time.Now()

	totalFiles := source.TotalCount
	var totalSize = source.TotalSize
	for _, t := range targets {
		totalFiles += t.TotalCount
		totalSize += t.TotalSize
	}
	d.reporter.UpdateScanProgress(&progress.ScanProgress{
		Phase:      progress.PhaseAnalyzing,
		FilesFound: totalFiles,
		TotalSize:  totalSize,
		StartTime:  startTime,
	})

	sets := d.nameMatch(source, targets)

	claimed := make(map[string]bool)
	for _, set := range sets {
		for _, f := range set.AllFiles() {
			claimed[f.Path] = true
		}
	}

	if d.opts.ContentMatch {
		for _, set := range sets {
			d.upgradeToContent(set)
		}

		contentSets := d.contentMatch(source, targets, claimed)
		for _, set := range contentSets {
			for _, f := range set.AllFiles() {
				claimed[f.Path] = true
			}
		}
		sets = append(sets, contentSets...)
	}

	for _, set := range sets {
		analyzeChains(set)
	}

	SortSets(sets)

	return &Result{
		Sets:           sets,
		UnmatchedFiles: UnmatchedFiles(source, targets, claimed),
	}
}

// UnmatchedFiles returns every scanned file whose path is not in
// matched, in scan order with the source root first
func UnmatchedFiles(source *scanner.ScanResult, targets []*scanner.ScanResult, matched map[string]bool) []*scanner.FileEntry {
	var unmatched []*scanner.FileEntry

	results := append([]*scanner.ScanResult{source}, targets...)
	for _, r := range results {
		for i := range r.Files {
			if !matched[r.Files[i].Path] {
				unmatched = append(unmatched, &r.Files[i])
			}
		}
	}

	return unmatched
}
