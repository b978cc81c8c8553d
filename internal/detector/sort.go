package detector

import (
	"sort"
)

// SortSets applies the final total order: sets with an identifier
// first, lexicographic by label (identifier plus bracketed part), then
// content-only sets ascending by size with the hash as tiebreak. The
// order depends only on set contents, never on filesystem iteration
// order.
func SortSets(sets []*DuplicateSet) {
	sort.SliceStable(sets, func(i, j int) bool {
		a, b := sets[i], sets[j]

		aNamed := a.Identifier != ""
		bNamed := b.Identifier != ""
		if aNamed != bNamed {
			return aNamed
		}

		if aNamed {
			return a.Label() < b.Label()
		}

		if a.Fingerprint.Size != b.Fingerprint.Size {
			return a.Fingerprint.Size < b.Fingerprint.Size
		}
		return a.Fingerprint.Hash < b.Fingerprint.Hash
	})
}
