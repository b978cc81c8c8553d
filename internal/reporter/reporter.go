// Package reporter renders scan results for people and machines:
// per-set summary blocks, a compact table, and JSON/YAML documents.
package reporter

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"dupfind/internal/detector"
	"dupfind/internal/fixer"
	"dupfind/pkg/utils"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatSummary OutputFormat = "summary"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
)

// Options filters and enriches the report
type Options struct {
	// ShowCopiesOnly keeps sets that waste space; ShowHardlinksOnly
	// keeps sets with a hardlink relationship. Mutually exclusive.
	ShowCopiesOnly    bool
	ShowHardlinksOnly bool

	// Verbose adds unmatched-file listings
	Verbose bool
}

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
	opts   Options
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat, opts Options) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
		opts:   opts,
	}
}

// Report renders the detection result
func (r *Reporter) Report(result *detector.Result, sourceDir string, targetDirs []string) error {
	switch r.format {
	case FormatSummary:
		return r.reportSummary(result, sourceDir, targetDirs)
	case FormatTable:
		return r.reportTable(result)
	case FormatJSON:
		return r.reportJSON(result, sourceDir, targetDirs)
	case FormatYAML:
		return r.reportYAML(result, sourceDir, targetDirs)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// visibleSets applies the status filters. Without an explicit filter,
// fully hardlinked sets are hidden; they waste nothing and usually
// just add noise. The second return value is the hidden count.
func (r *Reporter) visibleSets(sets []*detector.DuplicateSet) ([]*detector.DuplicateSet, int) {
	var visible []*detector.DuplicateSet
	hidden := 0

	for _, set := range sets {
		status := set.Status()
		switch {
		case r.opts.ShowCopiesOnly:
			if status == detector.StatusHardlink {
				continue
			}
		case r.opts.ShowHardlinksOnly:
			if status != detector.StatusHardlink && status != detector.StatusMixed {
				continue
			}
		default:
			if status == detector.StatusHardlink {
				hidden++
				continue
			}
		}
		visible = append(visible, set)
	}

	return visible, hidden
}

func statusSymbol(status detector.Status) string {
	switch status {
	case detector.StatusHardlink:
		return "✓"
	case detector.StatusCopy:
		return "✗"
	case detector.StatusMixed:
		return "±"
	default:
		return "?"
	}
}

func (r *Reporter) reportSummary(result *detector.Result, sourceDir string, targetDirs []string) error {
	fmt.Fprintf(r.writer, "=== Duplicate Scan ===\n")
	fmt.Fprintf(r.writer, "Source:  %s\n", sourceDir)
	for _, dir := range targetDirs {
		fmt.Fprintf(r.writer, "Target:  %s\n", dir)
	}
	fmt.Fprintln(r.writer)

	visible, hidden := r.visibleSets(result.Sets)

	for _, set := range visible {
		r.printSet(set)
	}

	counts := result.CountByStatus()
	fmt.Fprintf(r.writer, "=== Summary ===\n")
	fmt.Fprintf(r.writer, "Duplicate sets: %d (%d copy, %d mixed, %d hardlink, %d no-source)\n",
		len(result.Sets),
		counts[detector.StatusCopy],
		counts[detector.StatusMixed],
		counts[detector.StatusHardlink],
		counts[detector.StatusNoSource])
	fmt.Fprintf(r.writer, "Wasted space: %s\n", utils.FormatBytes(result.TotalWasted()))

	if hidden > 0 {
		fmt.Fprintf(r.writer, "(%d fully hardlinked set(s) hidden; use --show-hardlinks-only to list them)\n", hidden)
	}

	if len(result.UnmatchedFiles) > 0 {
		fmt.Fprintf(r.writer, "Unmatched files: %d\n", len(result.UnmatchedFiles))
		if r.opts.Verbose {
			for _, f := range result.UnmatchedFiles {
				fmt.Fprintf(r.writer, "  %s (%s)\n", f.Path, utils.FormatBytes(f.Size))
			}
		}
	}

	return nil
}

func (r *Reporter) printSet(set *detector.DuplicateSet) {
	status := set.Status()

	fmt.Fprintf(r.writer, "%s %s  [%s]  %s  wasted %s",
		statusSymbol(status),
		set.Label(),
		set.MatchType,
		status,
		utils.FormatBytes(set.WastedSpace))
	if set.Identifier != "" {
		fmt.Fprintf(r.writer, "  (confidence %.2f)", set.Confidence)
	}
	fmt.Fprintln(r.writer)

	if set.Fingerprint != nil {
		fmt.Fprintf(r.writer, "    hash %.12s… (%s)\n",
			set.Fingerprint.Hash, utils.FormatBytes(set.Fingerprint.Size))
	}

	hardlinked := make(map[string]bool)
	if len(set.Chains) > 0 && set.SourceFile != nil {
		for _, f := range set.Chains[0] {
			hardlinked[f.Path] = true
		}
	}

	for _, dir := range set.Directories {
		fmt.Fprintf(r.writer, "  %s:\n", dir)
		for _, f := range set.FilesByDir[dir] {
			switch {
			case f == set.SourceFile:
				fmt.Fprintf(r.writer, "    ★ %s (%s)\n", f.Path, utils.FormatBytes(f.Size))
			case hardlinked[f.Path]:
				fmt.Fprintf(r.writer, "      %s (%s) [hardlink]\n", f.Path, utils.FormatBytes(f.Size))
			case set.SourceFile != nil:
				fmt.Fprintf(r.writer, "      %s (%s) [copy]\n", f.Path, utils.FormatBytes(f.Size))
			default:
				fmt.Fprintf(r.writer, "      %s (%s)\n", f.Path, utils.FormatBytes(f.Size))
			}
		}
	}
	fmt.Fprintln(r.writer)
}

func (r *Reporter) reportTable(result *detector.Result) error {
	visible, hidden := r.visibleSets(result.Sets)

	tw := table.NewWriter()
	tw.SetOutputMirror(r.writer)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Identifier", "Match", "Status", "Files", "Dirs", "Wasted", "Confidence"})

	for _, set := range visible {
		confidence := ""
		if set.Identifier != "" {
			confidence = fmt.Sprintf("%.2f", set.Confidence)
		}
		tw.AppendRow(table.Row{
			set.Label(),
			string(set.MatchType),
			string(set.Status()),
			set.FileCount(),
			len(set.Directories),
			utils.FormatBytes(set.WastedSpace),
			confidence,
		})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "", utils.FormatBytes(result.TotalWasted()), ""})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	tw.Render()

	if hidden > 0 {
		fmt.Fprintf(r.writer, "(%d fully hardlinked set(s) hidden)\n", hidden)
	}

	return nil
}

// ReportFix prints the outcome of a fix run
func (r *Reporter) ReportFix(result *fixer.FixResult) error {
	fmt.Fprintf(r.writer, "=== Fix Summary ===\n")
	if result.DryRun {
		fmt.Fprintf(r.writer, "Dry run: no files were modified\n")
	}
	fmt.Fprintf(r.writer, "Replaced: %d file(s)\n", len(result.ReplacedFiles))
	fmt.Fprintf(r.writer, "Reclaimed: %s\n", utils.FormatBytes(result.ReclaimedSize))

	if len(result.SkippedFiles) > 0 {
		fmt.Fprintf(r.writer, "Skipped: %d file(s)\n", len(result.SkippedFiles))
		if r.opts.Verbose {
			for _, path := range result.SkippedFiles {
				fmt.Fprintf(r.writer, "  %s: %s\n", path, result.SkippedReason[path])
			}
		}
	}

	if len(result.Errors) > 0 {
		fmt.Fprint(r.writer, fixer.FormatErrorSummary(result.Errors))
	}

	return nil
}
