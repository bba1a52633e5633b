package prompt

import (
	"fmt"
	"testing"
)

func TestHistorySeenAndRemember(t *testing.T) {
	h := NewHistory(DefaultHistorySize)

	if h.Seen("fix the bug") {
		t.Error("empty history reports key as seen")
	}

	h.Remember("fix the bug")
	if !h.Seen("fix the bug") {
		t.Error("remembered key not seen")
	}
	if h.Seen("add a login form") {
		t.Error("unremembered key reported as seen")
	}
}

// Feeding 25 distinct keys leaves exactly the most recent 20; the 5 oldest
// fall out of the window and are no longer flagged.
func TestHistoryBoundedEviction(t *testing.T) {
	h := NewHistory(DefaultHistorySize)

	for i := 1; i <= 25; i++ {
		h.Remember(fmt.Sprintf("prompt %d", i))
	}

	if h.Len() != DefaultHistorySize {
		t.Fatalf("Len() = %d, want %d", h.Len(), DefaultHistorySize)
	}

	for i := 1; i <= 5; i++ {
		if h.Seen(fmt.Sprintf("prompt %d", i)) {
			t.Errorf("evicted key %d still seen", i)
		}
	}
	for i := 6; i <= 25; i++ {
		if !h.Seen(fmt.Sprintf("prompt %d", i)) {
			t.Errorf("recent key %d not seen", i)
		}
	}
}

func TestHistoryMostRecentFirst(t *testing.T) {
	h := NewHistory(3)

	h.Remember("a")
	h.Remember("b")
	h.Remember("c")
	h.Remember("d")

	if h.Seen("a") {
		t.Error("oldest key survived past the bound")
	}
	if !h.Seen("b") || !h.Seen("c") || !h.Seen("d") {
		t.Error("recent keys missing")
	}
}

// Remember enforces no uniqueness; duplicates occupy slots and age out
// independently.
func TestHistoryAllowsDuplicateInserts(t *testing.T) {
	h := NewHistory(2)

	h.Remember("a")
	h.Remember("a")
	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
	h.Remember("b")
	if !h.Seen("a") {
		t.Error("one duplicate copy of a should remain")
	}
	h.Remember("c")
	if h.Seen("a") {
		t.Error("both copies of a should be evicted")
	}
}

func TestHistoryForget(t *testing.T) {
	h := NewHistory(5)

	h.Remember("a")
	h.Remember("b")
	h.Forget("a")
	if h.Seen("a") {
		t.Error("forgotten key still seen")
	}
	if !h.Seen("b") {
		t.Error("unrelated key lost")
	}

	// Forgetting an absent key is a no-op.
	h.Forget("missing")
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}

func TestNewHistoryDefaultsBound(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < DefaultHistorySize+5; i++ {
		h.Remember(fmt.Sprintf("k%d", i))
	}
	if h.Len() != DefaultHistorySize {
		t.Errorf("Len() = %d, want %d", h.Len(), DefaultHistorySize)
	}
}
