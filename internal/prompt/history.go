package prompt

// DefaultHistorySize bounds the recent-prompt history.
const DefaultHistorySize = 20

// History is a bounded, most-recent-first list of normalized prompt keys.
// It only supports membership lookup of new entries before they are added;
// the sequence itself enforces no uniqueness. Lifetime is the process
// lifetime of the owning coordinator.
//
// History is not safe for concurrent use; the coordinator serializes access.
type History struct {
	max    int
	recent []string
}

// NewHistory creates a History bounded at max entries.
// A non-positive max falls back to DefaultHistorySize.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &History{max: max}
}

// Seen reports whether key is currently in the history.
// Exact-match only; no fuzzy comparison.
func (h *History) Seen(key string) bool {
	for _, k := range h.recent {
		if k == key {
			return true
		}
	}
	return false
}

// Remember pushes key to the front and evicts from the back once the bound
// is exceeded. It does not check for prior membership; callers call Seen
// first and own the gap between the two calls.
func (h *History) Remember(key string) {
	h.recent = append(h.recent, "")
	copy(h.recent[1:], h.recent)
	h.recent[0] = key
	if len(h.recent) > h.max {
		h.recent = h.recent[:h.max]
	}
}

// Forget removes the most recent occurrence of key, if present. Used to
// back out a Remember when the corresponding append never reached disk.
func (h *History) Forget(key string) {
	for i, k := range h.recent {
		if k == key {
			h.recent = append(h.recent[:i], h.recent[i+1:]...)
			return
		}
	}
}

// Len returns the number of keys currently held.
func (h *History) Len() int {
	return len(h.recent)
}
