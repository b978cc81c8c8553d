// Package testutil provides test helpers and fixtures for dupfind
// tests. All file operations use t.TempDir() for safe, isolated
// testing.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestFixture holds a source library tree and two target trees that
// mimic a typical scan setup
type TestFixture struct {
	T       *testing.T
	RootDir string // Root temp directory (auto-cleaned)

	SourceDir  string
	TargetDir  string
	TargetDir2 string
}

// NewFixture creates a new test fixture with the standard directory
// layout
func NewFixture(t *testing.T) *TestFixture {
	t.Helper()

	root := t.TempDir()

	f := &TestFixture{
		T:          t,
		RootDir:    root,
		SourceDir:  filepath.Join(root, "library"),
		TargetDir:  filepath.Join(root, "downloads"),
		TargetDir2: filepath.Join(root, "staging"),
	}

	for _, dir := range []string{f.SourceDir, f.TargetDir, f.TargetDir2} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	return f
}

// CreateFile creates a file with the given content and returns its
// path. Intermediate directories are created as needed.
func (f *TestFixture) CreateFile(dir, name, content string) string {
	f.T.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		f.T.Fatalf("Failed to create parent directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		f.T.Fatalf("Failed to create file %s: %v", path, err)
	}
	return path
}

// CreateFileWithSize creates a file of exactly size bytes filled with
// a repeating pattern derived from the name, so two files of the same
// size have equal content only when their names match
func (f *TestFixture) CreateFileWithSize(dir, name string, size int64) string {
	f.T.Helper()

	pattern := name
	if pattern == "" {
		pattern = "x"
	}
	content := strings.Repeat(pattern, int(size)/len(pattern)+1)[:size]
	return f.CreateFile(dir, name, content)
}

// CreateHardlink creates a hardlink to an existing file and returns
// the link path
func (f *TestFixture) CreateHardlink(existing, dir, name string) string {
	f.T.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		f.T.Fatalf("Failed to create parent directory for %s: %v", path, err)
	}
	if err := os.Link(existing, path); err != nil {
		f.T.Fatalf("Failed to hardlink %s -> %s: %v", path, existing, err)
	}
	return path
}

// ReadFile reads a file's content, failing the test on error
func (f *TestFixture) ReadFile(path string) string {
	f.T.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		f.T.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// SameInode reports whether two paths share an inode
func (f *TestFixture) SameInode(a, b string) bool {
	f.T.Helper()

	infoA, err := os.Stat(a)
	if err != nil {
		f.T.Fatalf("Failed to stat %s: %v", a, err)
	}
	infoB, err := os.Stat(b)
	if err != nil {
		f.T.Fatalf("Failed to stat %s: %v", b, err)
	}
	return os.SameFile(infoA, infoB)
}
