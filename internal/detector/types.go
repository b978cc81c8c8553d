package detector

import (
	"fmt"
	"strings"

	"dupfind/internal/analyzer"
	"dupfind/internal/scanner"
)

// MatchType says how the files of a set were matched to each other
type MatchType string

const (
	MatchName        MatchType = "name"
	MatchContent     MatchType = "content"
	MatchNameContent MatchType = "name+content"
)

// Status classifies a duplicate set by its inode chains
type Status string

const (
	// StatusHardlink means every file shares the source's storage
	StatusHardlink Status = "HARDLINK"
	// StatusCopy means no file shares the source's storage
	StatusCopy Status = "COPY"
	// StatusMixed means the source has both hardlinks and independent copies
	StatusMixed Status = "MIXED"
	// StatusNoSource means the set has no file in the source directory
	StatusNoSource Status = "NO_SOURCE"
)

// Fingerprint identifies file content by exact size and hash
type Fingerprint struct {
	Size int64
	Hash string
}

// FilePair relates the source file to one other file of its set
type FilePair struct {
	Source *scanner.FileEntry
	Other  *scanner.FileEntry
}

// DuplicateSet is one group of files judged to be the same content.
// Sets are immutable after assembly.
type DuplicateSet struct {
	MatchType  MatchType
	Identifier string // Normalized; empty for content-only sets
	Part       analyzer.PartToken
	Confidence float64
	Category   analyzer.SourceType

	// Fingerprint is set for content and name+content matches
	Fingerprint *Fingerprint

	// Directories lists the scan roots contributing files, source root
	// first. FilesByDir is keyed by the same root paths.
	Directories []string
	FilesByDir  map[string][]*scanner.FileEntry

	// SourceFile is nil for NO_SOURCE sets
	SourceFile *scanner.FileEntry

	// Chains partitions every file of the set into same-storage
	// equivalence classes; the chain containing SourceFile is first.
	Chains [][]*scanner.FileEntry

	// HardlinkPairs joins SourceFile to each other member of its chain;
	// CopyPairs joins it to every file outside its chain. Both are
	// empty for NO_SOURCE sets.
	HardlinkPairs []FilePair
	CopyPairs     []FilePair

	// WastedSpace counts one representative size per non-keeper chain
	WastedSpace int64
}

// Status derives the set's classification from its chains
func (s *DuplicateSet) Status() Status {
	if s.SourceFile == nil {
		return StatusNoSource
	}
	if len(s.Chains) <= 1 {
		return StatusHardlink
	}
	if len(s.Chains[0]) > 1 {
		return StatusMixed
	}
	return StatusCopy
}

// Label returns the sort/display key: the identifier with a bracketed
// part suffix, or a fingerprint description for content-only sets
func (s *DuplicateSet) Label() string {
	if s.Identifier == "" {
		if s.Fingerprint != nil {
			return fmt.Sprintf("(content %d:%.12s)", s.Fingerprint.Size, s.Fingerprint.Hash)
		}
		return "(content)"
	}
	if s.Part.Present() {
		return fmt.Sprintf("%s [%s]", s.Identifier, strings.ToUpper(s.Part.String()))
	}
	return s.Identifier
}

// AllFiles returns every file of the set in directory order
func (s *DuplicateSet) AllFiles() []*scanner.FileEntry {
	var files []*scanner.FileEntry
	for _, dir := range s.Directories {
		files = append(files, s.FilesByDir[dir]...)
	}
	return files
}

// FileCount returns the number of paths in the set
func (s *DuplicateSet) FileCount() int {
	n := 0
	for _, files := range s.FilesByDir {
		n += len(files)
	}
	return n
}

// Result is the outcome of one detection pass
type Result struct {
	Sets []*DuplicateSet

	// UnmatchedFiles are scanned files claimed by no set, in scan
	// order (source root first)
	UnmatchedFiles []*scanner.FileEntry
}

// TotalWasted sums wasted space over all sets
func (r *Result) TotalWasted() int64 {
	var total int64
	for _, set := range r.Sets {
		total += set.WastedSpace
	}
	return total
}

// CountByStatus tallies sets per status
func (r *Result) CountByStatus() map[Status]int {
	counts := make(map[Status]int)
	for _, set := range r.Sets {
		counts[set.Status()]++
	}
	return counts
}
