package detector

import (
	"context"
	"testing"

	"dupfind/internal/config"
	"dupfind/internal/scanner"
	"dupfind/internal/testutil"
)

func scanRoots(t *testing.T, roots ...string) (*scanner.ScanResult, []*scanner.ScanResult) {
	t.Helper()

	cfg := config.GetDefault()
	cfg.MinFileSize = ""
	s := scanner.New(cfg)

	results, err := s.ScanAll(context.Background(), roots)
	if err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}
	return results[0], results[1:]
}

func detect(t *testing.T, opts Options, roots ...string) *Result {
	t.Helper()

	source, targets := scanRoots(t, roots...)
	return New(opts).ScanMultiple(source, targets)
}

func TestHardlinkedPairIsOneSetWithNoWaste(t *testing.T) {
	f := testutil.NewFixture(t)
	src := f.CreateFile(f.SourceDir, "fc2-ppv-1234567.mp4", "video")
	f.CreateHardlink(src, f.TargetDir, "FC2-PPV-1234567.mp4")

	result := detect(t, Options{MinConfidence: 0.5}, f.SourceDir, f.TargetDir)

	if len(result.Sets) != 1 {
		t.Fatalf("got %d sets, want 1", len(result.Sets))
	}
	set := result.Sets[0]
	if set.Status() != StatusHardlink {
		t.Errorf("Status = %s, want %s", set.Status(), StatusHardlink)
	}
	if set.WastedSpace != 0 {
		t.Errorf("WastedSpace = %d, want 0", set.WastedSpace)
	}
	if len(set.Chains) != 1 || len(set.Chains[0]) != 2 {
		t.Errorf("Chains = %v, want one chain of two files", set.Chains)
	}
	if len(set.HardlinkPairs) != 1 || len(set.CopyPairs) != 0 {
		t.Errorf("pairs = %d hardlink / %d copy, want 1/0",
			len(set.HardlinkPairs), len(set.CopyPairs))
	}
	if set.SourceFile == nil || set.SourceFile.Path != src {
		t.Errorf("SourceFile = %v, want %s", set.SourceFile, src)
	}
}

func TestIndependentCopyIsOneSetWithWaste(t *testing.T) {
	f := testutil.NewFixture(t)
	content := make([]byte, 2000)
	f.CreateFile(f.SourceDir, "ABC-123.mp4", string(content))
	f.CreateFile(f.TargetDir, "abc-123.mp4", string(content))

	result := detect(t, Options{MinConfidence: 0.5}, f.SourceDir, f.TargetDir)

	if len(result.Sets) != 1 {
		t.Fatalf("got %d sets, want 1", len(result.Sets))
	}
	set := result.Sets[0]
	if set.Status() != StatusCopy {
		t.Errorf("Status = %s, want %s", set.Status(), StatusCopy)
	}
	if set.WastedSpace != 2000 {
		t.Errorf("WastedSpace = %d, want 2000", set.WastedSpace)
	}
	if set.Identifier != "ABC123" {
		t.Errorf("Identifier = %q, want ABC123", set.Identifier)
	}
	if len(set.CopyPairs) != 1 {
		t.Errorf("CopyPairs = %d, want 1", len(set.CopyPairs))
	}
}

func TestMixedHardlinkAndCopy(t *testing.T) {
	f := testutil.NewFixture(t)
	src := f.CreateFile(f.SourceDir, "ABC-789.mp4", "same length!")
	f.CreateHardlink(src, f.TargetDir, "ABC-789.mp4")
	f.CreateFile(f.TargetDir2, "abc_789.mp4", "same length!")

	result := detect(t, Options{MinConfidence: 0.5}, f.SourceDir, f.TargetDir, f.TargetDir2)

	if len(result.Sets) != 1 {
		t.Fatalf("got %d sets, want 1", len(result.Sets))
	}
	set := result.Sets[0]
	if set.Status() != StatusMixed {
		t.Errorf("Status = %s, want %s", set.Status(), StatusMixed)
	}
	if want := int64(len("same length!")); set.WastedSpace != want {
		t.Errorf("WastedSpace = %d, want %d (second chain only)", set.WastedSpace, want)
	}
	if len(set.Chains) != 2 {
		t.Errorf("got %d chains, want 2", len(set.Chains))
	}
	if len(set.HardlinkPairs) != 1 || len(set.CopyPairs) != 1 {
		t.Errorf("pairs = %d hardlink / %d copy, want 1/1",
			len(set.HardlinkPairs), len(set.CopyPairs))
	}
}

func TestContentOnlyMatch(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile(f.SourceDir, "a.mp4", "identical bytes")
	f.CreateFile(f.TargetDir, "b.mp4", "identical bytes")

	// Disabled: no identifier, no set.
	result := detect(t, Options{MinConfidence: 0.5}, f.SourceDir, f.TargetDir)
	if len(result.Sets) != 0 {
		t.Fatalf("content match disabled: got %d sets, want 0", len(result.Sets))
	}

	// Enabled: exactly one content-only set.
	result = detect(t, Options{MinConfidence: 0.5, ContentMatch: true}, f.SourceDir, f.TargetDir)
	if len(result.Sets) != 1 {
		t.Fatalf("got %d sets, want 1", len(result.Sets))
	}
	set := result.Sets[0]
	if set.MatchType != MatchContent {
		t.Errorf("MatchType = %s, want %s", set.MatchType, MatchContent)
	}
	if set.Identifier != "" {
		t.Errorf("Identifier = %q, want empty", set.Identifier)
	}
	if set.Fingerprint == nil || set.Fingerprint.Size != int64(len("identical bytes")) {
		t.Errorf("Fingerprint = %+v, want size %d", set.Fingerprint, len("identical bytes"))
	}
	if set.SourceFile == nil {
		t.Error("set with a source-directory file must carry SourceFile")
	}
}

func TestContentOnlyMatchWithoutSource(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile(f.TargetDir, "x.mp4", "shared payload")
	f.CreateFile(f.TargetDir2, "y.mp4", "shared payload")
	f.CreateFile(f.SourceDir, "unrelated.mp4", "something else entirely")

	result := detect(t, Options{MinConfidence: 0.5, ContentMatch: true},
		f.SourceDir, f.TargetDir, f.TargetDir2)

	if len(result.Sets) != 1 {
		t.Fatalf("got %d sets, want 1", len(result.Sets))
	}
	set := result.Sets[0]
	if set.Status() != StatusNoSource {
		t.Errorf("Status = %s, want %s", set.Status(), StatusNoSource)
	}
	if len(set.HardlinkPairs) != 0 || len(set.CopyPairs) != 0 {
		t.Error("NO_SOURCE sets must not carry pairs")
	}
	if want := int64(len("shared payload")); set.WastedSpace != want {
		t.Errorf("WastedSpace = %d, want %d (keeper chain excluded)", set.WastedSpace, want)
	}
}

func TestConfidenceThreshold(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile(f.SourceDir, "12345678.mp4", "data")
	f.CreateFile(f.TargetDir, "12345678.mp4", "data")

	// The bare 8-digit pattern scores 0.40.
	result := detect(t, Options{MinConfidence: 0.7}, f.SourceDir, f.TargetDir)
	if len(result.Sets) != 0 {
		t.Errorf("threshold 0.7: got %d sets, want 0", len(result.Sets))
	}

	result = detect(t, Options{MinConfidence: 0.3}, f.SourceDir, f.TargetDir)
	if len(result.Sets) != 1 {
		t.Errorf("threshold 0.3: got %d sets, want 1", len(result.Sets))
	}
}

func TestNormalizationMergesSpellings(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile(f.SourceDir, "MIDE-123.mp4", "aa")
	f.CreateFile(f.TargetDir, "mide_123.mp4", "bb")
	f.CreateFile(f.TargetDir2, "MIDE123.mp4", "cc")

	result := detect(t, Options{MinConfidence: 0.5}, f.SourceDir, f.TargetDir, f.TargetDir2)

	if len(result.Sets) != 1 {
		t.Fatalf("got %d sets, want 1", len(result.Sets))
	}
	set := result.Sets[0]
	if set.Identifier != "MIDE123" {
		t.Errorf("Identifier = %q, want MIDE123", set.Identifier)
	}
	if set.FileCount() != 3 {
		t.Errorf("FileCount = %d, want 3", set.FileCount())
	}
	if len(set.Directories) != 3 {
		t.Errorf("Directories = %v, want all three roots", set.Directories)
	}
}

func TestQualitySuffixGroupsWithPlainName(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile(f.SourceDir, "102116_410-1pon-1080p.mp4", "uncensored")
	f.CreateFile(f.TargetDir, "102116_410-1pon.mp4", "uncensored")

	result := detect(t, Options{MinConfidence: 0.5}, f.SourceDir, f.TargetDir)

	if len(result.Sets) != 1 {
		t.Fatalf("got %d sets, want 1", len(result.Sets))
	}
	set := result.Sets[0]
	if set.Identifier != "102116410" {
		t.Errorf("Identifier = %q, want 102116410", set.Identifier)
	}
	// The resolution tail is a quality marker, not a part marker.
	if set.Part.Present() {
		t.Errorf("Part = %+v, want none", set.Part)
	}
	if set.Label() != "102116410" {
		t.Errorf("Label = %q, want %q", set.Label(), "102116410")
	}
}

func TestPartIsolation(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile(f.SourceDir, "TITLE-1.mp4", "p1")
	f.CreateFile(f.SourceDir, "TITLE-2.mp4", "p2")
	f.CreateFile(f.TargetDir, "TITLE-1.mp4", "p1")
	f.CreateFile(f.TargetDir, "TITLE-2.mp4", "p2")

	// Bare-word identifiers score 0.45, below the default floor.
	result := detect(t, Options{MinConfidence: 0.4}, f.SourceDir, f.TargetDir)

	if len(result.Sets) != 2 {
		t.Fatalf("got %d sets, want 2 (one per part)", len(result.Sets))
	}
	for _, set := range result.Sets {
		if set.FileCount() != 2 {
			t.Errorf("set %s has %d files, want 2", set.Label(), set.FileCount())
		}
	}
	if result.Sets[0].Part == result.Sets[1].Part {
		t.Error("both sets carry the same part token")
	}
}

func TestPartSpellingsJoin(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile(f.SourceDir, "TITLE-pt1.mp4", "p1")
	f.CreateFile(f.TargetDir, "TITLE_1.mp4", "p1")

	result := detect(t, Options{MinConfidence: 0.4}, f.SourceDir, f.TargetDir)

	if len(result.Sets) != 1 {
		t.Fatalf("got %d sets, want 1", len(result.Sets))
	}
	if got := result.Sets[0].Label(); got != "TITLE [1]" {
		t.Errorf("Label = %q, want %q", got, "TITLE [1]")
	}
}

func TestSourceOnlyFileProducesNoSet(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile(f.SourceDir, "MIDE-123.mp4", "data")
	f.CreateFile(f.TargetDir, "SSIS-456.mp4", "data2")

	result := detect(t, Options{MinConfidence: 0.5}, f.SourceDir, f.TargetDir)

	if len(result.Sets) != 0 {
		t.Errorf("got %d sets, want 0", len(result.Sets))
	}
	if len(result.UnmatchedFiles) != 2 {
		t.Errorf("UnmatchedFiles = %d, want 2", len(result.UnmatchedFiles))
	}
}

func TestTargetOnlyKeyIsNotANameMatch(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile(f.TargetDir, "MIDE-123.mp4", "one")
	f.CreateFile(f.TargetDir2, "MIDE-123.mp4", "two bytes differ here")
	f.CreateFile(f.SourceDir, "other.mp4", "xx")

	// Same key in two targets but absent from source: only content
	// matching may discover it, and here the contents differ.
	result := detect(t, Options{MinConfidence: 0.5, ContentMatch: true},
		f.SourceDir, f.TargetDir, f.TargetDir2)

	if len(result.Sets) != 0 {
		t.Errorf("got %d sets, want 0", len(result.Sets))
	}
}

func TestHardlinkedCopyChainCountedOnce(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile(f.SourceDir, "XYZ-111.mp4", "payload")
	copyPath := f.CreateFile(f.TargetDir, "XYZ-111.mp4", "payload")
	f.CreateHardlink(copyPath, f.TargetDir2, "xyz_111.mp4")

	result := detect(t, Options{MinConfidence: 0.5}, f.SourceDir, f.TargetDir, f.TargetDir2)

	if len(result.Sets) != 1 {
		t.Fatalf("got %d sets, want 1", len(result.Sets))
	}
	set := result.Sets[0]
	if set.Status() != StatusCopy {
		t.Errorf("Status = %s, want %s", set.Status(), StatusCopy)
	}
	// Two paths, one independent copy: its size counts once.
	if want := int64(len("payload")); set.WastedSpace != want {
		t.Errorf("WastedSpace = %d, want %d", set.WastedSpace, want)
	}
	if len(set.Chains) != 2 || len(set.Chains[1]) != 2 {
		t.Errorf("Chains = %v, want source chain + one two-path copy chain", set.Chains)
	}
	if len(set.CopyPairs) != 2 {
		t.Errorf("CopyPairs = %d, want 2 (one per path)", len(set.CopyPairs))
	}
}

func TestNameContentUpgrade(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile(f.SourceDir, "MIDE-123.mp4", "identical")
	f.CreateFile(f.TargetDir, "mide-123.mp4", "identical")
	f.CreateFile(f.SourceDir, "SSIS-456.mp4", "original!")
	f.CreateFile(f.TargetDir, "ssis-456.mp4", "0riginal!") // Same size, different bytes

	result := detect(t, Options{MinConfidence: 0.5, ContentMatch: true}, f.SourceDir, f.TargetDir)

	if len(result.Sets) != 2 {
		t.Fatalf("got %d sets, want 2", len(result.Sets))
	}
	byID := make(map[string]*DuplicateSet)
	for _, set := range result.Sets {
		byID[set.Identifier] = set
	}

	if got := byID["MIDE123"].MatchType; got != MatchNameContent {
		t.Errorf("matching content: MatchType = %s, want %s", got, MatchNameContent)
	}
	if byID["MIDE123"].Fingerprint == nil {
		t.Error("upgraded set must carry a fingerprint")
	}
	if got := byID["SSIS456"].MatchType; got != MatchName {
		t.Errorf("differing content: MatchType = %s, want %s", got, MatchName)
	}
}

func TestContentMatchIsAdditive(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile(f.SourceDir, "MIDE-123.mp4", "abc")
	f.CreateFile(f.TargetDir, "MIDE-123.mp4", "xyz")
	f.CreateFile(f.SourceDir, "noid_a.mp4", "blob blob")
	f.CreateFile(f.TargetDir, "noid_b.mp4", "blob blob")

	without := detect(t, Options{MinConfidence: 0.5}, f.SourceDir, f.TargetDir)
	with := detect(t, Options{MinConfidence: 0.5, ContentMatch: true}, f.SourceDir, f.TargetDir)

	if len(without.Sets) != 1 {
		t.Fatalf("disabled: got %d sets, want 1", len(without.Sets))
	}
	if len(with.Sets) != 2 {
		t.Fatalf("enabled: got %d sets, want 2", len(with.Sets))
	}

	// The name set survives unchanged in membership.
	var named *DuplicateSet
	for _, set := range with.Sets {
		if set.Identifier == "MIDE123" {
			named = set
		}
	}
	if named == nil {
		t.Fatal("name set missing with content match enabled")
	}
	if named.FileCount() != without.Sets[0].FileCount() {
		t.Errorf("name set membership changed: %d vs %d",
			named.FileCount(), without.Sets[0].FileCount())
	}
}

func TestUnmatchedFiles(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile(f.SourceDir, "MIDE-123.mp4", "data")
	f.CreateFile(f.TargetDir, "MIDE-123.mp4", "data")
	f.CreateFile(f.TargetDir, "leftover.mp4", "other")

	result := detect(t, Options{MinConfidence: 0.5}, f.SourceDir, f.TargetDir)

	if len(result.UnmatchedFiles) != 1 {
		t.Fatalf("UnmatchedFiles = %d, want 1", len(result.UnmatchedFiles))
	}
	if result.UnmatchedFiles[0].Name != "leftover.mp4" {
		t.Errorf("unmatched = %s, want leftover.mp4", result.UnmatchedFiles[0].Name)
	}
}

func TestDeterministicOrdering(t *testing.T) {
	f := testutil.NewFixture(t)
	for _, name := range []string{"ZZZ-999.mp4", "AAA-111.mp4", "MMM-555.mp4"} {
		f.CreateFile(f.SourceDir, name, name)
		f.CreateFile(f.TargetDir, name, name+"x")
	}

	first := detect(t, Options{MinConfidence: 0.5}, f.SourceDir, f.TargetDir)
	second := detect(t, Options{MinConfidence: 0.5}, f.SourceDir, f.TargetDir)

	if len(first.Sets) != 3 {
		t.Fatalf("got %d sets, want 3", len(first.Sets))
	}
	for i := range first.Sets {
		if first.Sets[i].Label() != second.Sets[i].Label() {
			t.Fatalf("run order differs at %d: %s vs %s",
				i, first.Sets[i].Label(), second.Sets[i].Label())
		}
	}
	for i := 1; i < len(first.Sets); i++ {
		if first.Sets[i-1].Label() > first.Sets[i].Label() {
			t.Errorf("labels not sorted: %s > %s",
				first.Sets[i-1].Label(), first.Sets[i].Label())
		}
	}
}
