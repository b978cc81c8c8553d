package analyzer

import (
	"regexp"
	"sort"
	"strings"
)

// SourceType identifies the naming scheme an identifier was extracted from
type SourceType string

const (
	SourceFC2     SourceType = "fc2"
	SourceDMM     SourceType = "dmm"
	SourceGeneric SourceType = "generic"
)

// IDMatch is one identifier extracted from a filename, with the
// confidence of the pattern that produced it
type IDMatch struct {
	ID         string
	Source     SourceType
	Confidence float64
}

// Pattern is a single extraction rule. Confidence is a property of the
// pattern itself, not of any particular match.
type Pattern struct {
	Regexp     *regexp.Regexp
	Source     SourceType
	Confidence float64
}

// PatternTable is an ordered, tiered set of extraction rules. A tier is
// only consulted when every earlier tier produced zero matches.
type PatternTable struct {
	Strong []Pattern
	Medium []Pattern
	Weak   []Pattern
}

// DefaultPatterns returns the built-in extraction grammar.
//
// Strong patterns are anchored to a specific provider's naming scheme.
// The date-coded provider IDs (six-digit date + release sequence) are
// \b-bounded so a trailing quality token like "1080p" can never extend
// the captured identifier.
func DefaultPatterns() PatternTable {
	return PatternTable{
		Strong: []Pattern{
			{regexp.MustCompile(`(?i)FC2-PPV-(\d{6,8})`), SourceFC2, 0.95},
			{regexp.MustCompile(`(?i)FC2PPV-(\d{6,8})`), SourceFC2, 0.90},
			{regexp.MustCompile(`(?i)PPV-(\d{6,8})`), SourceFC2, 0.80},
			{regexp.MustCompile(`(?i)(?:1pondo|1pon)[-_\s]*(\d{6}_\d{3,4})\b`), SourceGeneric, 0.92},
			{regexp.MustCompile(`(?i)\b(\d{6}_\d{3,4})[-_\s]*(?:1pondo|1pon)`), SourceGeneric, 0.92},
			{regexp.MustCompile(`(?i)(?:carib(?:bean)?(?:pr)?|carrib(?:ean)?(?:pr)?)[-_\s]*(\d{5,6}_\d{3,4})\b`), SourceGeneric, 0.90},
			{regexp.MustCompile(`(?i)\b(\d{5,6}_\d{3,4})[-_\s]*(?:carib(?:bean)?(?:pr)?|carrib(?:ean)?(?:pr)?)`), SourceGeneric, 0.90},
		},
		Medium: []Pattern{
			{regexp.MustCompile(`(?i)([A-Z]{2,5}-\d{3,4})\b`), SourceDMM, 0.75},
			{regexp.MustCompile(`(?i)([A-Z]{2,5}_\d{3,4})\b`), SourceDMM, 0.75},
			{regexp.MustCompile(`(?i)([A-Z]{3,5}\d{3,4})\b`), SourceDMM, 0.65},
			{regexp.MustCompile(`\b(\d{6}_\d{3,4})\b`), SourceDMM, 0.70},
		},
		Weak: []Pattern{
			{regexp.MustCompile(`(?i)([A-Z]+\d+)`), SourceGeneric, 0.50},
			{regexp.MustCompile(`(?i)\b([A-Z]{3,})\b`), SourceGeneric, 0.45},
			{regexp.MustCompile(`(\d{6,8})`), SourceGeneric, 0.40},
		},
	}
}

// IDExtractor extracts identifiers from text using a tiered pattern table
type IDExtractor struct {
	tiers [][]Pattern
}

// NewIDExtractor creates an extractor over the given pattern table
func NewIDExtractor(table PatternTable) *IDExtractor {
	return &IDExtractor{
		tiers: [][]Pattern{table.Strong, table.Medium, table.Weak},
	}
}

// ExtractIDs extracts all identifiers from text, highest confidence
// first. Lower tiers are only consulted when every earlier tier found
// nothing. Matches are deduplicated by normalized value, keeping the
// first (highest priority) occurrence. A text with no match of any
// tier returns an empty list.
func (e *IDExtractor) ExtractIDs(text string) []IDMatch {
	var ids []IDMatch

	for _, tier := range e.tiers {
		for _, pattern := range tier {
			for _, match := range pattern.Regexp.FindAllStringSubmatch(text, -1) {
				value := match[0]
				if len(match) > 1 && match[1] != "" {
					value = match[1]
				}
				ids = append(ids, IDMatch{
					ID:         value,
					Source:     pattern.Source,
					Confidence: pattern.Confidence,
				})
			}
		}
		if len(ids) > 0 {
			break
		}
	}

	seen := make(map[string]bool, len(ids))
	unique := ids[:0]
	for _, id := range ids {
		key := NormalizeID(id.ID)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, id)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Confidence > unique[j].Confidence
	})

	return unique
}

// NormalizeID normalizes an identifier for matching: uppercase with
// separators removed, so "MIDE-123", "mide_123" and "MIDE123" are all
// equivalent regardless of source scheme.
func NormalizeID(id string) string {
	normalized := strings.ToUpper(id)
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.ReplaceAll(normalized, "_", "")
	return normalized
}
