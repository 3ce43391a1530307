package core

import (
	"fmt"
	"testing"
)

func historyRecord(name string) TaskExecutionRecord {
	return TaskExecutionRecord{
		ID:    GenerateTaskID(),
		Name:  name,
		State: StateCompleted,
	}
}

// TestHistory_RecentNewestFirst verifies read ordering
// Given: Three outcomes added in order
// When: Recent is called
// Then: They come back newest first
func TestHistory_RecentNewestFirst(t *testing.T) {
	// Arrange
	h := NewHistory(10)
	for _, name := range []string{"first", "second", "third"} {
		h.Add(historyRecord(name))
	}

	// Act
	got := h.Recent(0)

	// Assert
	if len(got) != 3 {
		t.Fatalf("Recent(0) returned %d records, want 3", len(got))
	}
	want := []string{"third", "second", "first"}
	for i, rec := range got {
		if rec.Name != want[i] {
			t.Fatalf("Recent(0)[%d] = %q, want %q", i, rec.Name, want[i])
		}
	}
}

// TestHistory_RecentLimit verifies the limit argument
// Given: Five retained outcomes
// When: Recent is called with limit 2
// Then: Only the two newest are returned
func TestHistory_RecentLimit(t *testing.T) {
	h := NewHistory(10)
	for i := range 5 {
		h.Add(historyRecord(fmt.Sprintf("t%d", i)))
	}

	got := h.Recent(2)

	if len(got) != 2 || got[0].Name != "t4" || got[1].Name != "t3" {
		t.Fatalf("Recent(2) = %v, want [t4 t3]", got)
	}
}

// TestHistory_EvictsOldest verifies ring wraparound
// Given: A capacity-3 history fed five outcomes
// When: Recent is called
// Then: Only the newest three remain, in order
func TestHistory_EvictsOldest(t *testing.T) {
	// Arrange
	h := NewHistory(3)
	for i := range 5 {
		h.Add(historyRecord(fmt.Sprintf("t%d", i)))
	}

	// Assert
	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	got := h.Recent(0)
	want := []string{"t4", "t3", "t2"}
	for i, rec := range got {
		if rec.Name != want[i] {
			t.Fatalf("Recent(0)[%d] = %q, want %q", i, rec.Name, want[i])
		}
	}
}

// TestHistory_Last verifies the single-record accessor
// Given: An empty then a populated history
// When: Last is called
// Then: It reports absence, then the newest record
func TestHistory_Last(t *testing.T) {
	h := NewHistory(3)

	if _, ok := h.Last(); ok {
		t.Fatal("Last() on an empty history should report false")
	}

	h.Add(historyRecord("only"))
	h.Add(historyRecord("newest"))

	rec, ok := h.Last()
	if !ok || rec.Name != "newest" {
		t.Fatalf("Last() = %v, %v, want the newest record", rec, ok)
	}
}

// TestHistory_InvalidCapacity verifies the capacity fallback
// Given: A history constructed with a non-positive capacity
// When: More than one record is added
// Then: The default capacity applies and nothing is lost early
func TestHistory_InvalidCapacity(t *testing.T) {
	h := NewHistory(0)
	for i := range 10 {
		h.Add(historyRecord(fmt.Sprintf("t%d", i)))
	}

	if h.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", h.Len())
	}
}
