package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileEntry represents one video file found during scanning
type FileEntry struct {
	Path    string
	Dir     string
	Name    string
	Stem    string // Name without extension
	Ext     string // Lowercased, including the dot
	Size    int64
	ModTime time.Time
	Info    os.FileInfo // Retained for filesystem identity checks
}

// NewFileEntry builds a FileEntry from a path and its stat result
func NewFileEntry(path string, info os.FileInfo) FileEntry {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	return FileEntry{
		Path:    path,
		Dir:     filepath.Dir(path),
		Name:    name,
		Stem:    strings.TrimSuffix(name, ext),
		Ext:     strings.ToLower(ext),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Info:    info,
	}
}

// SameFile reports whether two entries refer to the same underlying
// file (same device and inode). Entries without stat information are
// never considered identical.
func SameFile(a, b *FileEntry) bool {
	if a == nil || b == nil || a.Info == nil || b.Info == nil {
		return false
	}
	return os.SameFile(a.Info, b.Info)
}

// ScanResult represents the result of scanning one root directory
type ScanResult struct {
	Root       string
	Files      []FileEntry
	TotalSize  int64
	TotalCount int
	Errors     []error
}
