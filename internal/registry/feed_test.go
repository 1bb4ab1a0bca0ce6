package registry

import (
	"testing"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/domain"
)

func TestFeedAppendAndSnapshot(t *testing.T) {
	f := NewFeed()
	if f.Len() != 0 {
		t.Fatalf("new feed Len = %d, want 0", f.Len())
	}

	f.Append(domain.Event{"type": "log", "message": "one"})
	f.Append(domain.Event{"type": "log", "message": "two"})

	snap := f.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot len = %d, want 2", len(snap))
	}
	if got := domain.Str(snap[1], "message"); got != "two" {
		t.Errorf("second event message = %q, want %q", got, "two")
	}
	if f.Len() != 2 {
		t.Errorf("Len = %d, want 2", f.Len())
	}
}

func TestFeedOnAppendReportsTotal(t *testing.T) {
	f := NewFeed()
	var totals []int
	f.OnAppend(func(total int) { totals = append(totals, total) })

	f.Append(domain.Event{"type": "log"})
	f.Append(domain.Event{"type": "log"})
	f.Append(domain.Event{"type": "log"})

	if len(totals) != 3 {
		t.Fatalf("callback fired %d times, want 3", len(totals))
	}
	for i, total := range totals {
		if total != i+1 {
			t.Errorf("callback %d total = %d, want %d", i, total, i+1)
		}
	}
}

func TestFeedIDsAreDistinct(t *testing.T) {
	a := NewFeed()
	b := NewFeed()
	if a.ID() == "" {
		t.Fatal("feed ID is empty")
	}
	if a.ID() == b.ID() {
		t.Errorf("two feeds share ID %q", a.ID())
	}
}
