package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"dupfind/internal/progress"
	"dupfind/pkg/utils"
)

// LiveProgress renders a live terminal status area while directories
// are scanned and analyzed
type LiveProgress struct {
	mu          sync.Mutex
	root        string
	currentPath string
	filesFound  int
	totalSize   int64
	startTime   time.Time
	lastUpdate  time.Time
	termWidth   int
	enabled     bool
	statusLines int
	stop        chan struct{}
}

// NewLiveProgress creates a new live progress display. It is disabled
// automatically when stdout is not a terminal.
func NewLiveProgress() *LiveProgress {
	width := 80
	enabled := false
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
		enabled = true
	}

	return &LiveProgress{
		startTime:   time.Now(),
		termWidth:   width,
		enabled:     enabled,
		statusLines: 3,
		stop:        make(chan struct{}),
	}
}

// SetEnabled enables or disables live progress
func (lp *LiveProgress) SetEnabled(enabled bool) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.enabled = enabled
}

// Attach consumes scan updates from a progress reporter until Finish
// is called
func (lp *LiveProgress) Attach(r *progress.Reporter) {
	ch := r.Subscribe()
	go func() {
		for {
			select {
			case <-lp.stop:
				r.Unsubscribe(ch)
				return
			case update, ok := <-ch:
				if !ok {
					return
				}
				if sp, ok := update.(*progress.ScanProgress); ok {
					lp.Update(sp.Root, sp.CurrentPath, sp.FilesFound, sp.TotalSize)
				}
			}
		}
	}()
}

// Start initializes the progress display area
func (lp *LiveProgress) Start() {
	if !lp.enabled {
		return
	}
	// Reserve space for status lines
	fmt.Print("\n\n\n")
	fmt.Printf("\033[%dA", lp.statusLines)
}

// Update updates the progress display
func (lp *LiveProgress) Update(root, currentPath string, filesFound int, totalSize int64) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if !lp.enabled {
		return
	}

	// Throttle updates to avoid flickering (max 10 updates per second)
	now := time.Now()
	if now.Sub(lp.lastUpdate) < 100*time.Millisecond {
		return
	}
	lp.lastUpdate = now

	lp.root = root
	lp.currentPath = currentPath
	lp.filesFound = filesFound
	lp.totalSize = totalSize

	lp.render()
}

func (lp *LiveProgress) render() {
	// Save cursor position
	fmt.Print("\033[s")

	width := lp.termWidth - 2

	elapsed := time.Since(lp.startTime).Round(time.Second)
	line1 := fmt.Sprintf("📂 Scanning: %-30s | Found: %d files | Size: %s | Time: %s",
		shortenPath(lp.root, 30), lp.filesFound, utils.FormatBytes(lp.totalSize), elapsed)
	fmt.Printf("\033[K%s\n", truncate(line1, width))

	spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinIdx := int(time.Now().UnixMilli()/100) % len(spinner)
	path := lp.currentPath
	if len(path) > width-10 {
		path = "..." + path[len(path)-(width-13):]
	}
	line2 := fmt.Sprintf("%s %s", spinner[spinIdx], path)
	fmt.Printf("\033[K%s\n", truncate(line2, width))

	line3 := strings.Repeat("─", width)
	fmt.Printf("\033[K%s", line3)

	// Restore cursor position
	fmt.Print("\033[u")
}

// Finish completes the progress display and detaches from the reporter
func (lp *LiveProgress) Finish() {
	close(lp.stop)

	lp.mu.Lock()
	defer lp.mu.Unlock()

	if !lp.enabled {
		return
	}

	// Move past the status lines and clear
	fmt.Printf("\033[%dB", lp.statusLines)
	fmt.Print("\033[K\n")
}

func truncate(s string, width int) string {
	if width <= 3 || len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}

func shortenPath(path string, max int) string {
	if len(path) <= max {
		return path
	}
	return "..." + path[len(path)-(max-3):]
}
