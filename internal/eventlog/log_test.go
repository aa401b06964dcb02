package eventlog

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func entryWithID(id string) Entry {
	return Entry{ID: id, Intent: "SAFE_BOILERPLATE", ActionTaken: "ALLOW"}
}

func TestLog_AppendAndList(t *testing.T) {
	l := New(DefaultCapacity)

	l.Append(entryWithID("a"))
	l.Append(entryWithID("b"))
	l.Append(entryWithID("c"))

	entries := l.List()
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	for i, want := range []string{"a", "b", "c"} {
		if entries[i].ID != want {
			t.Errorf("entries[%d].ID = %q, want %q (insertion order)", i, entries[i].ID, want)
		}
	}
}

func TestLog_EvictsOldestAtCapacity(t *testing.T) {
	l := New(50)

	for i := 1; i <= 51; i++ {
		l.Append(entryWithID(fmt.Sprintf("entry-%d", i)))
	}

	entries := l.List()
	if len(entries) != 50 {
		t.Fatalf("len = %d, want exactly 50", len(entries))
	}
	for _, e := range entries {
		if e.ID == "entry-1" {
			t.Error("first-appended entry should have been evicted")
		}
	}
	if entries[len(entries)-1].ID != "entry-51" {
		t.Errorf("newest entry = %q, want entry-51", entries[len(entries)-1].ID)
	}
	if entries[0].ID != "entry-2" {
		t.Errorf("oldest surviving entry = %q, want entry-2", entries[0].ID)
	}
}

func TestLog_ListReturnsSnapshot(t *testing.T) {
	l := New(10)
	l.Append(entryWithID("a"))

	snapshot := l.List()
	l.Append(entryWithID("b"))

	if len(snapshot) != 1 {
		t.Errorf("snapshot len = %d, want 1 (unaffected by later appends)", len(snapshot))
	}
}

func TestLog_ConcurrentAppends(t *testing.T) {
	l := New(50)

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Append(entryWithID(fmt.Sprintf("c-%d", n)))
		}(i)
	}
	wg.Wait()

	if got := l.Len(); got != 50 {
		t.Errorf("len = %d, want capacity (50) after 200 concurrent appends", got)
	}
}

func TestLog_CapacityFallback(t *testing.T) {
	l := New(0)
	for i := 0; i < DefaultCapacity+5; i++ {
		l.Append(entryWithID(fmt.Sprintf("x-%d", i)))
	}
	if got := l.Len(); got != DefaultCapacity {
		t.Errorf("len = %d, want DefaultCapacity", got)
	}
}

func TestTruncatePreview(t *testing.T) {
	short := "short snippet"
	if got := TruncatePreview(short); got != short {
		t.Errorf("TruncatePreview(%q) = %q, want unchanged", short, got)
	}

	long := strings.Repeat("x", 80)
	if got := TruncatePreview(long); len([]rune(got)) != PreviewLength {
		t.Errorf("preview length = %d, want %d", len([]rune(got)), PreviewLength)
	}

	// Multi-byte runes must not be split.
	wide := strings.Repeat("界", 60)
	got := TruncatePreview(wide)
	if len([]rune(got)) != PreviewLength {
		t.Errorf("wide preview rune count = %d, want %d", len([]rune(got)), PreviewLength)
	}
	for _, r := range got {
		if r != '界' {
			t.Fatalf("preview contains mangled rune %q", r)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens("12345678"); got != 2 {
		t.Errorf("EstimateTokens = %d, want 2", got)
	}
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("EstimateTokens(empty) = %d, want 0", got)
	}
}
