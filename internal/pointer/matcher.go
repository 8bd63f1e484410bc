package pointer

import "github.com/vinewz/gestura/internal/config"

type condKey struct {
	axis  config.Axis
	trend config.Trend
}

// Matcher detects ordered pointer gesture occurrences from a move
// event buffer and suppresses duplicate reports (spec.md §4.5).
type Matcher struct {
	segmenter   *Segmenter
	byFirstCond map[condKey][]config.PointerGestureDef
	lastEndID   map[string]uint64
	seen        map[string]bool
}

// NewMatcher builds the first-condition index over defs.
func NewMatcher(defs []config.PointerGestureDef, segmentMinDelta uint32) *Matcher {
	m := &Matcher{
		segmenter:   NewSegmenter(segmentMinDelta, 0, 0),
		byFirstCond: make(map[condKey][]config.PointerGestureDef),
		lastEndID:   make(map[string]uint64),
		seen:        make(map[string]bool),
	}
	for _, g := range defs {
		first := g.Conditions[0]
		key := condKey{first.Axis, first.Trend}
		m.byFirstCond[key] = append(m.byFirstCond[key], g)
	}
	return m
}

// Detect extracts segments from events and returns newly-triggered
// callbacks, de-duplicated against prior occurrences.
func (m *Matcher) Detect(events []MoveEvent) []string {
	segments := m.segmenter.Extract(events)
	if len(segments) == 0 {
		return nil
	}

	var triggered []string
	for _, seg := range segments {
		candidates := m.byFirstCond[condKey{seg.Axis, seg.Trend}]
		for _, g := range candidates {
			first := g.Conditions[0]
			if seg.Delta < first.MinDelta {
				continue
			}
			endID, ok := matchGesture(g, segments, seg.EndID)
			if !ok {
				continue
			}
			if m.seen[g.Callback] && endID <= m.lastEndID[g.Callback] {
				continue
			}
			m.lastEndID[g.Callback] = endID
			m.seen[g.Callback] = true
			triggered = append(triggered, g.Callback)
		}
	}
	return triggered
}

// matchGesture walks the remaining conditions of g, each time scanning
// segments in original order for the first one satisfying the
// condition with end_id >= the running cursor.
func matchGesture(g config.PointerGestureDef, segments []Segment, startEndID uint64) (uint64, bool) {
	lastEndID := startEndID
	for _, cond := range g.Conditions[1:] {
		found := false
		for _, seg := range segments {
			if seg.EndID < lastEndID {
				continue
			}
			if seg.Axis == cond.Axis && seg.Trend == cond.Trend && seg.Delta >= cond.MinDelta {
				lastEndID = seg.EndID
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return lastEndID, true
}
