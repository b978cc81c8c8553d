package progress

import (
	"strings"
	"testing"
	"time"
)

func TestSubscribeReceivesUpdates(t *testing.T) {
	r := NewReporter()
	ch := r.Subscribe()

	update := &ScanProgress{
		Phase:      PhaseScanning,
		Root:       "/media/library",
		FilesFound: 42,
		TotalSize:  1024,
	}
	r.UpdateScanProgress(update)

	select {
	case got := <-ch:
		sp, ok := got.(*ScanProgress)
		if !ok {
			t.Fatalf("expected *ScanProgress, got %T", got)
		}
		if sp.FilesFound != 42 || sp.Root != "/media/library" {
			t.Errorf("unexpected update: %+v", sp)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
	}

	if got := r.GetScanProgress(); got == nil || got.FilesFound != 42 {
		t.Errorf("GetScanProgress returned %+v", got)
	}
}

func TestFixProgressUpdates(t *testing.T) {
	r := NewReporter()
	ch := r.Subscribe()

	r.UpdateFixProgress(&FixProgress{
		Phase:          PhaseFixing,
		ReplacedFiles:  3,
		TotalFiles:     10,
		ReclaimedBytes: 2048,
	})

	select {
	case got := <-ch:
		fp, ok := got.(*FixProgress)
		if !ok {
			t.Fatalf("expected *FixProgress, got %T", got)
		}
		if fp.ReplacedFiles != 3 {
			t.Errorf("expected 3 replaced, got %d", fp.ReplacedFiles)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
	}

	if got := r.GetFixProgress(); got == nil || got.TotalFiles != 10 {
		t.Errorf("GetFixProgress returned %+v", got)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	r := NewReporter()
	ch := r.Subscribe()
	r.Unsubscribe(ch)

	select {
	case _, open := <-ch:
		if open {
			t.Error("expected channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after Unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	r.UpdateScanProgress(&ScanProgress{Phase: PhaseScanning})
}

func TestSlowListenerDoesNotBlockPublisher(t *testing.T) {
	r := NewReporter()
	r.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			r.UpdateScanProgress(&ScanProgress{Phase: PhaseScanning, FilesFound: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a full listener channel")
	}
}

func TestFormatScanProgress(t *testing.T) {
	if got := FormatScanProgress(nil); got != "Initializing..." {
		t.Errorf("nil progress: got %q", got)
	}

	scanning := FormatScanProgress(&ScanProgress{
		Phase:      PhaseScanning,
		Root:       "/media",
		FilesFound: 5,
		TotalSize:  2048,
		StartTime:  time.Now(),
	})
	if !strings.Contains(scanning, "Scanning /media") || !strings.Contains(scanning, "5 files") {
		t.Errorf("unexpected scanning format: %q", scanning)
	}

	complete := FormatScanProgress(&ScanProgress{
		Phase:      PhaseComplete,
		FilesFound: 5,
		StartTime:  time.Now(),
	})
	if !strings.Contains(complete, "Scan complete") {
		t.Errorf("unexpected complete format: %q", complete)
	}
}

func TestFormatFixProgress(t *testing.T) {
	if got := FormatFixProgress(nil); got != "Preparing..." {
		t.Errorf("nil progress: got %q", got)
	}

	fixing := FormatFixProgress(&FixProgress{
		Phase:          PhaseFixing,
		ReplacedFiles:  2,
		TotalFiles:     8,
		ReclaimedBytes: 4096,
	})
	if !strings.Contains(fixing, "Replacing 2/8") {
		t.Errorf("unexpected fixing format: %q", fixing)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "500ms"},
		{2500 * time.Millisecond, "2.5s"},
		{90 * time.Second, "1m30s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
