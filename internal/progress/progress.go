package progress

import (
	"fmt"
	"sync"
	"time"

	"dupfind/pkg/utils"
)

// Phase represents the current phase of operation
type Phase string

const (
	PhaseScanning  Phase = "scanning"
	PhaseAnalyzing Phase = "analyzing"
	PhaseFixing    Phase = "fixing"
	PhaseComplete  Phase = "complete"
	PhaseError     Phase = "error"
)

// ScanProgress represents progress during directory scanning and
// duplicate analysis
type ScanProgress struct {
	Phase       Phase
	Root        string
	CurrentPath string
	FilesFound  int
	TotalSize   int64
	RootsTotal  int
	RootsDone   int
	StartTime   time.Time
	Error       error
}

// FixProgress represents progress while copies are replaced with
// hardlinks
type FixProgress struct {
	Phase          Phase
	CurrentFile    string
	ReplacedFiles  int
	TotalFiles     int
	ReclaimedBytes int64
	TotalBytes     int64
	SkippedFiles   int
	ErrorCount     int
	StartTime      time.Time
	Error          error
}

// Reporter provides thread-safe progress reporting with a simple
// publish/subscribe model. Updates never block the publisher; slow
// listeners miss intermediate updates.
type Reporter struct {
	scanProgress *ScanProgress
	fixProgress  *FixProgress
	mu           sync.RWMutex
	listeners    []chan interface{}
}

// NewReporter creates a new progress reporter
func NewReporter() *Reporter {
	return &Reporter{
		listeners: make([]chan interface{}, 0),
	}
}

// Subscribe returns a channel that receives progress updates
func (r *Reporter) Subscribe() <-chan interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan interface{}, 10)
	r.listeners = append(r.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel
func (r *Reporter) Unsubscribe(ch <-chan interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, listener := range r.listeners {
		if listener == ch {
			close(listener)
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// UpdateScanProgress updates scan progress and notifies listeners
func (r *Reporter) UpdateScanProgress(update *ScanProgress) {
	r.mu.Lock()
	r.scanProgress = update
	listeners := make([]chan interface{}, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, listener := range listeners {
		select {
		case listener <- update:
		default:
			// Skip if channel is full
		}
	}
}

// UpdateFixProgress updates fix progress and notifies listeners
func (r *Reporter) UpdateFixProgress(update *FixProgress) {
	r.mu.Lock()
	r.fixProgress = update
	listeners := make([]chan interface{}, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, listener := range listeners {
		select {
		case listener <- update:
		default:
			// Skip if channel is full
		}
	}
}

// GetScanProgress returns the current scan progress
func (r *Reporter) GetScanProgress() *ScanProgress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scanProgress
}

// GetFixProgress returns the current fix progress
func (r *Reporter) GetFixProgress() *FixProgress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fixProgress
}

// FormatScanProgress returns a human-readable scan progress string
func FormatScanProgress(p *ScanProgress) string {
	if p == nil {
		return "Initializing..."
	}

	elapsed := time.Since(p.StartTime)

	switch p.Phase {
	case PhaseScanning:
		return fmt.Sprintf("Scanning %s... Found %d files (%s) [%s]",
			p.Root,
			p.FilesFound,
			utils.FormatBytes(p.TotalSize),
			FormatDuration(elapsed))
	case PhaseAnalyzing:
		return fmt.Sprintf("Analyzing %d files (%s) [%s]",
			p.FilesFound,
			utils.FormatBytes(p.TotalSize),
			FormatDuration(elapsed))
	case PhaseComplete:
		return fmt.Sprintf("Scan complete: %d files (%s) in %s",
			p.FilesFound,
			utils.FormatBytes(p.TotalSize),
			FormatDuration(elapsed))
	case PhaseError:
		return fmt.Sprintf("Scan error: %v", p.Error)
	default:
		return "Scanning..."
	}
}

// FormatFixProgress returns a human-readable fix progress string
func FormatFixProgress(p *FixProgress) string {
	if p == nil {
		return "Preparing..."
	}

	switch p.Phase {
	case PhaseFixing:
		return fmt.Sprintf("Replacing %d/%d... Reclaimed %s",
			p.ReplacedFiles,
			p.TotalFiles,
			utils.FormatBytes(p.ReclaimedBytes))
	case PhaseComplete:
		return fmt.Sprintf("Done: %d replaced, %d skipped, %s reclaimed in %s",
			p.ReplacedFiles,
			p.SkippedFiles,
			utils.FormatBytes(p.ReclaimedBytes),
			FormatDuration(time.Since(p.StartTime)))
	case PhaseError:
		return fmt.Sprintf("Fix error: %v", p.Error)
	default:
		return "Preparing..."
	}
}

// FormatDuration formats a duration for progress display
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
