package analyzer

import (
	"regexp"
	"strings"
)

// PartKind discriminates the part-token variants
type PartKind int

const (
	// PartNone means no part marker was found; it is a valid grouping
	// key equal only to other part-less files of the same identifier
	PartNone PartKind = iota
	// PartValue is a numeric or letter part marker ("1", "A")
	PartValue
	// PartOption marks an alternate-cut "option" release; it is
	// distinct from every numeric or letter token
	PartOption
)

// PartToken is the optional part/segment marker of a filename. The
// zero value is the no-part token. PartToken is comparable and safe to
// use inside map keys.
type PartToken struct {
	Kind  PartKind
	Value string
}

// Present reports whether a part marker was found
func (t PartToken) Present() bool {
	return t.Kind != PartNone
}

// String returns the display form of the token
func (t PartToken) String() string {
	switch t.Kind {
	case PartValue:
		return t.Value
	case PartOption:
		return "option"
	default:
		return ""
	}
}

var (
	optionSuffixRe    = regexp.MustCompile(`(?i)(?:^|[\s._\-(\[])option[)\]]?\s*$`)
	labeledPartRe     = regexp.MustCompile(`(?i)(?:^|[\s._\-])(?:part|pt|cd|disc)[\s._\-]*(\d{1,3})`)
	trailingTokenRe   = regexp.MustCompile(`[\s._\-](\d{1,2}|[A-Za-z])$`)
	digitThenLetterRe = regexp.MustCompile(`\d([A-Za-z])$`)
	resolutionTailRe  = regexp.MustCompile(`(?i)\d{3,4}[pi]$`)
	separatorCutset   = " ._-"
)

// PartDetector extracts part/segment tokens from filename stems
type PartDetector struct{}

// NewPartDetector creates a new part detector
func NewPartDetector() *PartDetector {
	return &PartDetector{}
}

// Split extracts the part token from a filename stem and returns it
// together with the stem remainder (the stem with the matched part
// marker removed). Rules are tried in order, first match wins:
//
//  1. an explicit "option" suffix
//  2. a labeled part marker (part/pt/cd/disc + number) anywhere
//  3. a trailing separator followed by a 1-2 digit number or a letter
//  4. a trailing letter directly after a digit
//
// Rule 3 is limited to short digit runs so identifier tails like
// "ABC-123" are never misread as part numbers, and rule 4 skips
// resolution tails ("1080p", "720p", "480i") so a quality-suffixed name
// still groups with its plain-named twin. Numeric tokens drop leading
// zeros and letter tokens are upper-cased.
func (d *PartDetector) Split(stem string) (PartToken, string) {
	if loc := optionSuffixRe.FindStringIndex(stem); loc != nil {
		return PartToken{Kind: PartOption}, trimRemainder(stem[:loc[0]])
	}

	if loc := labeledPartRe.FindStringSubmatchIndex(stem); loc != nil {
		token := PartToken{Kind: PartValue, Value: normalizeNumber(stem[loc[2]:loc[3]])}
		remainder := stem[:loc[0]] + stem[loc[1]:]
		return token, trimRemainder(remainder)
	}

	if loc := trailingTokenRe.FindStringSubmatchIndex(stem); loc != nil {
		raw := stem[loc[2]:loc[3]]
		token := PartToken{Kind: PartValue, Value: normalizeToken(raw)}
		return token, trimRemainder(stem[:loc[0]])
	}

	if loc := digitThenLetterRe.FindStringSubmatchIndex(stem); loc != nil && !resolutionTailRe.MatchString(stem) {
		raw := stem[loc[2]:loc[3]]
		token := PartToken{Kind: PartValue, Value: strings.ToUpper(raw)}
		return token, trimRemainder(stem[:loc[2]])
	}

	return PartToken{}, stem
}

// ExtractPartToken extracts just the part token from a filename stem
func (d *PartDetector) ExtractPartToken(stem string) PartToken {
	token, _ := d.Split(stem)
	return token
}

func normalizeToken(raw string) string {
	if isDigits(raw) {
		return normalizeNumber(raw)
	}
	return strings.ToUpper(raw)
}

func normalizeNumber(raw string) string {
	trimmed := strings.TrimLeft(raw, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func trimRemainder(s string) string {
	return strings.TrimRight(s, separatorCutset)
}
