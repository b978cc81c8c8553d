package detector

import (
	"sort"

	"dupfind/internal/scanner"
	"dupfind/pkg/utils"
)

type candidate struct {
	root string
	file *scanner.FileEntry
}

// contentMatch groups files no name set claimed, first by exact size,
// then by full content fingerprint. Buckets and fingerprint groups
// must span at least two distinct roots; anything narrower cannot be a
// cross-directory duplicate. Files that cannot be read are silently
// dropped from consideration.
func (d *Detector) contentMatch(source *scanner.ScanResult, targets []*scanner.ScanResult, claimed map[string]bool) []*DuplicateSet {
	results := append([]*scanner.ScanResult{source}, targets...)

	buckets := make(map[int64][]candidate)
	for _, r := range results {
		for i := range r.Files {
			f := &r.Files[i]
			if claimed[f.Path] {
				continue
			}
			buckets[f.Size] = append(buckets[f.Size], candidate{root: r.Root, file: f})
		}
	}

	sizes := make([]int64, 0, len(buckets))
	for size := range buckets {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })

	var sets []*DuplicateSet
	for _, size := range sizes {
		bucket := buckets[size]
		if countRoots(bucket) < 2 {
			continue
		}

		byHash := make(map[string][]candidate)
		for _, c := range bucket {
			hash, err := utils.HashFile(c.file.Path)
			if err != nil {
				continue
			}
			byHash[hash] = append(byHash[hash], c)
		}

		hashes := make([]string, 0, len(byHash))
		for hash := range byHash {
			hashes = append(hashes, hash)
		}
		sort.Strings(hashes)

		for _, hash := range hashes {
			group := byHash[hash]
			if countRoots(group) < 2 {
				continue
			}
			sets = append(sets, d.assembleContentSet(source.Root, results, group, size, hash))
		}
	}

	return sets
}

func (d *Detector) assembleContentSet(sourceRoot string, results []*scanner.ScanResult, group []candidate, size int64, hash string) *DuplicateSet {
	set := &DuplicateSet{
		MatchType:   MatchContent,
		Fingerprint: &Fingerprint{Size: size, Hash: hash},
		FilesByDir:  make(map[string][]*scanner.FileEntry),
	}

	// Root order, source first, mirrors the scan argument order
	for _, r := range results {
		for _, c := range group {
			if c.root != r.Root {
				continue
			}
			if len(set.FilesByDir[c.root]) == 0 {
				set.Directories = append(set.Directories, c.root)
			}
			set.FilesByDir[c.root] = append(set.FilesByDir[c.root], c.file)
		}
	}

	if sourceFiles := set.FilesByDir[sourceRoot]; len(sourceFiles) > 0 {
		set.SourceFile = sourceFiles[0]
	}

	return set
}

// upgradeToContent promotes a name-matched set to name+content when
// every file has the source's exact size and full fingerprint. Any
// mismatch or read error leaves the set as a plain name match.
func (d *Detector) upgradeToContent(set *DuplicateSet) {
	if set.SourceFile == nil {
		return
	}

	size := set.SourceFile.Size
	for _, f := range set.AllFiles() {
		if f.Size != size {
			return
		}
	}

	sourceHash, err := utils.HashFile(set.SourceFile.Path)
	if err != nil {
		return
	}
	for _, f := range set.AllFiles() {
		if f == set.SourceFile {
			continue
		}
		hash, err := utils.HashFile(f.Path)
		if err != nil || hash != sourceHash {
			return
		}
	}

	set.MatchType = MatchNameContent
	set.Fingerprint = &Fingerprint{Size: size, Hash: sourceHash}
}

func countRoots(candidates []candidate) int {
	roots := make(map[string]bool)
	for _, c := range candidates {
		roots[c.root] = true
	}
	return len(roots)
}
