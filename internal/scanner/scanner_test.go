package scanner

import (
	"context"
	"path/filepath"
	"testing"

	"dupfind/internal/config"
	"dupfind/internal/testutil"
)

func testConfig() *config.Config {
	cfg := config.GetDefault()
	cfg.MinFileSize = "" // No size floor in tests
	return cfg
}

func TestScanDirectoryFilters(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile(f.TargetDir, "MIDE-123.mp4", "video data")
	f.CreateFile(f.TargetDir, "MIDE-123.MKV", "video data") // Upper-case extension
	f.CreateFile(f.TargetDir, "notes.txt", "not a video")
	f.CreateFile(f.TargetDir, "nested/SSIS-456.mp4", "more video data")

	s := New(testConfig())
	result, err := s.ScanDirectory(context.Background(), f.TargetDir)
	if err != nil {
		t.Fatalf("ScanDirectory failed: %v", err)
	}

	if result.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", result.TotalCount)
	}
	for _, file := range result.Files {
		if file.Ext == ".txt" {
			t.Errorf("non-video file scanned: %s", file.Path)
		}
		if file.Info == nil {
			t.Errorf("entry %s has no stat info", file.Path)
		}
	}
}

func TestScanDirectoryMinSize(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileWithSize(f.TargetDir, "big.mp4", 4096)
	f.CreateFileWithSize(f.TargetDir, "small.mp4", 10)

	cfg := testConfig()
	cfg.MinFileSize = "1KB"
	s := New(cfg)

	result, err := s.ScanDirectory(context.Background(), f.TargetDir)
	if err != nil {
		t.Fatalf("ScanDirectory failed: %v", err)
	}

	if result.TotalCount != 1 {
		t.Fatalf("TotalCount = %d, want 1", result.TotalCount)
	}
	if result.Files[0].Name != "big.mp4" {
		t.Errorf("kept file = %s, want big.mp4", result.Files[0].Name)
	}
}

func TestScanDirectoryExcludePatterns(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile(f.TargetDir, "keep.mp4", "data")
	f.CreateFile(f.TargetDir, "sample.mp4", "data")
	f.CreateFile(f.TargetDir, "extras/other.mp4", "data")

	cfg := testConfig()
	cfg.ExcludePatterns = []string{"sample.*", "extras"}
	s := New(cfg)

	result, err := s.ScanDirectory(context.Background(), f.TargetDir)
	if err != nil {
		t.Fatalf("ScanDirectory failed: %v", err)
	}

	if result.TotalCount != 1 {
		t.Fatalf("TotalCount = %d, want 1 (got %v)", result.TotalCount, result.Files)
	}
	if result.Files[0].Name != "keep.mp4" {
		t.Errorf("kept file = %s, want keep.mp4", result.Files[0].Name)
	}
}

func TestScanDirectoryNotADirectory(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFile(f.TargetDir, "file.mp4", "data")

	s := New(testConfig())
	if _, err := s.ScanDirectory(context.Background(), path); err == nil {
		t.Error("expected error scanning a regular file")
	}
	if _, err := s.ScanDirectory(context.Background(), filepath.Join(f.RootDir, "missing")); err == nil {
		t.Error("expected error scanning a missing directory")
	}
}

func TestScanAllMergesAndDeduplicates(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile(f.SourceDir, "MIDE-123.mp4", "source data")
	f.CreateFile(f.TargetDir, "MIDE-123.mp4", "target data")
	f.CreateFile(f.TargetDir2, "SSIS-456.mp4", "other data")

	s := New(testConfig())

	// TargetDir passed twice: its files stay with the first root.
	results, err := s.ScanAll(context.Background(), []string{f.SourceDir, f.TargetDir, f.TargetDir})
	if err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want one per root", len(results))
	}
	if results[0].TotalCount != 1 || results[1].TotalCount != 1 || results[2].TotalCount != 0 {
		t.Errorf("counts = %d/%d/%d, want 1/1/0",
			results[0].TotalCount, results[1].TotalCount, results[2].TotalCount)
	}

	// Each root's files are path-sorted for deterministic grouping.
	f.CreateFile(f.TargetDir, "AAA-111.mp4", "data")
	results, err = s.ScanAll(context.Background(), []string{f.TargetDir})
	if err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}
	files := results[0].Files
	for i := 1; i < len(files); i++ {
		if files[i-1].Path > files[i].Path {
			t.Errorf("files not sorted by path: %s > %s", files[i-1].Path, files[i].Path)
		}
	}
}

func TestScanAllCancellation(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile(f.TargetDir, "MIDE-123.mp4", "data")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(testConfig())
	if _, err := s.ScanAll(ctx, []string{f.TargetDir}); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestSameFile(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFile(f.TargetDir, "MIDE-123.mp4", "data")
	link := f.CreateHardlink(path, f.TargetDir, "MIDE-123 copy.mp4")
	other := f.CreateFile(f.TargetDir, "SSIS-456.mp4", "data")

	s := New(testConfig())
	result, err := s.ScanDirectory(context.Background(), f.TargetDir)
	if err != nil {
		t.Fatalf("ScanDirectory failed: %v", err)
	}

	byPath := make(map[string]*FileEntry)
	for i := range result.Files {
		byPath[result.Files[i].Path] = &result.Files[i]
	}

	if !SameFile(byPath[path], byPath[link]) {
		t.Error("hardlinked entries not identified as the same file")
	}
	if SameFile(byPath[path], byPath[other]) {
		t.Error("distinct files identified as the same file")
	}
	if SameFile(nil, byPath[path]) || SameFile(byPath[path], &FileEntry{}) {
		t.Error("entries without stat info must never compare identical")
	}
}
