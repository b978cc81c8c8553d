package detector

import (
	"dupfind/internal/scanner"
)

// analyzeChains partitions a set's files into same-storage equivalence
// classes and derives pairs and wasted space from the classes, never
// from raw path counts. Two hardlinked paths to one independent copy
// contribute that copy's size once.
//
// The identity test is scanner.SameFile over stat info captured at
// scan time; an entry without stat info matches nothing, so a racing
// deletion degrades to a conservative COPY classification instead of
// an error.
func analyzeChains(set *DuplicateSet) {
	files := set.AllFiles()

	var chains [][]*scanner.FileEntry
outer:
	for _, f := range files {
		for i, chain := range chains {
			if scanner.SameFile(chain[0], f) {
				chains[i] = append(chain, f)
				continue outer
			}
		}
		chains = append(chains, []*scanner.FileEntry{f})
	}

	// The chain holding the source file always sorts first; remaining
	// chains keep first-encounter order. Without a source file the
	// first chain is the keeper by convention.
	if set.SourceFile != nil {
		for i, chain := range chains {
			if !containsFile(chain, set.SourceFile) {
				continue
			}
			if i > 0 {
				sourceChain := chains[i]
				copy(chains[1:i+1], chains[:i])
				chains[0] = sourceChain
			}
			break
		}
	}
	set.Chains = chains

	if len(chains) == 0 {
		return
	}

	if set.SourceFile != nil {
		for _, other := range chains[0] {
			if other == set.SourceFile {
				continue
			}
			set.HardlinkPairs = append(set.HardlinkPairs, FilePair{Source: set.SourceFile, Other: other})
		}
		for _, chain := range chains[1:] {
			for _, other := range chain {
				set.CopyPairs = append(set.CopyPairs, FilePair{Source: set.SourceFile, Other: other})
			}
		}
	}

	for _, chain := range chains[1:] {
		set.WastedSpace += chain[0].Size
	}
}

func containsFile(chain []*scanner.FileEntry, f *scanner.FileEntry) bool {
	for _, member := range chain {
		if member == f {
			return true
		}
	}
	return false
}
