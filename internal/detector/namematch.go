package detector

import (
	"sort"

	"dupfind/internal/analyzer"
	"dupfind/internal/scanner"
)

// groupKey is the name-match join key. Files join a set only when both
// the normalized identifier and the part token agree, so different
// segments of one title are never conflated.
type groupKey struct {
	ID   string
	Part analyzer.PartToken
}

type idEntry struct {
	file       *scanner.FileEntry
	confidence float64
	category   analyzer.SourceType
}

// buildIDMap maps each file to its single best identifier match. The
// part token is split off the stem first so "TITLE-pt1" and "TITLE_1"
// extract the same identifier from the same remainder. Files with no
// match at or above the confidence floor are left out; they remain
// candidates for content matching.
//
// Only the filename is consulted, never the parent directory: folder
// names would pull unrelated sidecar files in a same-named folder into
// a set.
func (d *Detector) buildIDMap(files []scanner.FileEntry) map[groupKey][]*idEntry {
	m := make(map[groupKey][]*idEntry)

	for i := range files {
		f := &files[i]
		part, remainder := d.parts.Split(f.Stem)

		ids := d.extractor.ExtractIDs(remainder)
		if len(ids) == 0 {
			continue
		}
		best := ids[0]
		if best.Confidence < d.opts.MinConfidence {
			continue
		}

		key := groupKey{ID: analyzer.NormalizeID(best.ID), Part: part}
		m[key] = append(m[key], &idEntry{
			file:       f,
			confidence: best.Confidence,
			category:   best.Source,
		})
	}

	return m
}

// nameMatch joins the source map against every target map. A key
// produces a set only when the source has it and at least one target
// has it; source-only keys are not duplicates, and target-only keys
// are left to content matching.
func (d *Detector) nameMatch(source *scanner.ScanResult, targets []*scanner.ScanResult) []*DuplicateSet {
	sourceMap := d.buildIDMap(source.Files)

	targetMaps := make([]map[groupKey][]*idEntry, len(targets))
	for i, t := range targets {
		targetMaps[i] = d.buildIDMap(t.Files)
	}

	keys := make([]groupKey, 0, len(sourceMap))
	for key := range sourceMap {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ID != keys[j].ID {
			return keys[i].ID < keys[j].ID
		}
		if keys[i].Part.Kind != keys[j].Part.Kind {
			return keys[i].Part.Kind < keys[j].Part.Kind
		}
		return keys[i].Part.Value < keys[j].Part.Value
	})

	var sets []*DuplicateSet
	for _, key := range keys {
		set := &DuplicateSet{
			MatchType:  MatchName,
			Identifier: key.ID,
			Part:       key.Part,
			FilesByDir: make(map[string][]*scanner.FileEntry),
		}

		for i, t := range targets {
			entries := targetMaps[i][key]
			if len(entries) == 0 {
				continue
			}
			if _, ok := set.FilesByDir[t.Root]; ok {
				// Same root given twice on the command line
				continue
			}
			set.Directories = append(set.Directories, t.Root)
			for _, e := range entries {
				set.FilesByDir[t.Root] = append(set.FilesByDir[t.Root], e.file)
			}
		}
		if len(set.Directories) == 0 {
			continue
		}

		sourceEntries := sourceMap[key]
		set.Directories = append([]string{source.Root}, set.Directories...)
		for _, e := range sourceEntries {
			set.FilesByDir[source.Root] = append(set.FilesByDir[source.Root], e.file)
		}
		set.SourceFile = sourceEntries[0].file
		set.Confidence = sourceEntries[0].confidence
		set.Category = sourceEntries[0].category

		sets = append(sets, set)
	}

	return sets
}
