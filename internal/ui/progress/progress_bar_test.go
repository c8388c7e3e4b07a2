package progress

import (
	"strings"
	"sync"
	"testing"

	"charm.land/bubbles/v2/progress"
)

func TestProgressBar_New(t *testing.T) {
	t.Parallel()

	pb := NewProgressBar(8, "Applying")
	if pb.Total() != 8 || pb.Current() != 0 {
		t.Errorf("Total/Current = %d/%d, want 8/0", pb.Total(), pb.Current())
	}
}

func TestProgressBar_IncrementBeforeStart(t *testing.T) {
	t.Parallel()

	pb := NewProgressBar(8, "Applying")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pb.Increment("done")
		}()
	}
	wg.Wait()

	if pb.Current() != 8 {
		t.Errorf("Current() = %d, want 8", pb.Current())
	}
}

func TestProgressBar_StopBeforeStart(t *testing.T) {
	t.Parallel()

	pb := NewProgressBar(10, "Test")
	pb.Stop()
}

func TestProgressBarModel_View(t *testing.T) {
	t.Parallel()

	m := progressBarModel{
		progress: progress.New(progress.WithWidth(10), progress.WithoutPercentage()),
		total:    12,
		current:  3,
		message:  "api: Staged all changes",
	}
	got := m.View().Content
	if !strings.Contains(got, " 3/12 api: Staged all changes") {
		t.Errorf("View() = %q, want padded counter and message", got)
	}

	m.message = ""
	if m.View().Content != "" {
		t.Error("View() without message should be empty")
	}
}

func TestSpinner_UpdateBeforeStart(t *testing.T) {
	t.Parallel()

	s := NewSpinner("Scanning")
	s.UpdateMessage("Scanning /src")
	s.Stop()
	if s.lastMsg != "Scanning /src" {
		t.Errorf("lastMsg = %q, want updated message", s.lastMsg)
	}
}
