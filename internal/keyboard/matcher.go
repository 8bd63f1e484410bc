package keyboard

import "github.com/vinewz/gestura/internal/config"

// Event is a buffered key-press, assigned a monotonic id at ingest.
type Event struct {
	ID  uint64
	Key string
}

// Matcher recognizes strict contiguous tail sequences against a set
// of keyboard gesture definitions (spec.md §4.2).
type Matcher struct {
	byLastKey map[string][]config.KeyboardGestureDef
	lastEndID map[string]uint64
	seen      map[string]bool
}

// NewMatcher builds the last-key index used to restrict matching to
// gestures relevant to the trigger key.
func NewMatcher(defs []config.KeyboardGestureDef) *Matcher {
	m := &Matcher{
		byLastKey: make(map[string][]config.KeyboardGestureDef),
		lastEndID: make(map[string]uint64),
		seen:      make(map[string]bool),
	}
	for _, g := range defs {
		last := g.Conditions[len(g.Conditions)-1]
		m.byLastKey[last] = append(m.byLastKey[last], g)
	}
	return m
}

// ProcessForTrigger evaluates only the gestures whose last condition
// is triggerKey against the full buffered event sequence, returning
// newly triggered callbacks in registration order.
func (m *Matcher) ProcessForTrigger(triggerKey string, events []Event) []string {
	candidates, ok := m.byLastKey[triggerKey]
	if !ok {
		return nil
	}

	var triggered []string
	for _, g := range candidates {
		endID, ok := tailEndID(g.Conditions, events)
		if !ok {
			continue
		}

		if m.seen[g.Callback] && m.lastEndID[g.Callback] == endID {
			continue
		}

		m.lastEndID[g.Callback] = endID
		m.seen[g.Callback] = true
		triggered = append(triggered, g.Callback)
	}
	return triggered
}

// tailEndID reports the id of the last buffered event iff the tail of
// events, projected to keys, equals sequence elementwise.
func tailEndID(sequence []string, events []Event) (uint64, bool) {
	n := len(sequence)
	if len(events) < n {
		return 0, false
	}
	tail := events[len(events)-n:]
	for i, key := range sequence {
		if tail[i].Key != key {
			return 0, false
		}
	}
	return tail[n-1].ID, true
}
