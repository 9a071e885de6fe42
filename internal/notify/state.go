package notify

import "sync"

// State tracks which notification categories were already shown in
// this process run, plus the plugin ids found incompatible by earlier
// cycles. It is constructed explicitly and passed into the pipeline;
// concurrent check cycles (scheduled, manual, crash triggered) may
// race to post, so the sets are mutex guarded.
type State struct {
	mu           sync.Mutex
	shown        map[Category]bool
	incompatible map[string]bool
}

// NewState returns an empty state: every category is eligible.
func NewState() *State {
	return &State{
		shown:        make(map[Category]bool),
		incompatible: make(map[string]bool),
	}
}

// MarkShown records the category as shown and reports whether this
// call was the first to do so.
func (s *State) MarkShown(c Category) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shown[c] {
		return false
	}
	s.shown[c] = true
	return true
}

// Shown reports whether the category was already presented.
func (s *State) Shown(c Category) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown[c]
}

// Clear makes the category eligible again. Called when the user
// dismisses the corresponding notification.
func (s *State) Clear(c Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.shown, c)
}

// Reset clears all categories and the incompatible-plugin cache.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = make(map[Category]bool)
	s.incompatible = make(map[string]bool)
}

// RememberIncompatible records plugin ids a scan found incompatible
// and returns the ids not seen before this cycle, so repeated scans
// only surface newly broken plugins.
func (s *State) RememberIncompatible(ids []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var fresh []string
	for _, id := range ids {
		if s.incompatible[id] {
			continue
		}
		s.incompatible[id] = true
		fresh = append(fresh, id)
	}
	return fresh
}
