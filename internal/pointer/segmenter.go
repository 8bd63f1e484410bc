// Package pointer implements the axial segment extraction and ordered
// segment matching described in spec.md §4.4-§4.6.
package pointer

import (
	"golang.org/x/exp/slices"

	"github.com/vinewz/gestura/internal/config"
)

// MoveEvent is a buffered pointer sample, assigned a monotonic id at
// ingest.
type MoveEvent struct {
	ID   uint64
	X, Y int
}

// Segment is a maximal directed axial motion interval.
type Segment struct {
	StartID, EndID uint64
	Axis           config.Axis
	Trend          config.Trend
	Delta          uint32
}

// Segmenter converts a stream of move events into directed segments,
// tolerating jitter via a lookahead confirmation rule.
type Segmenter struct {
	segmentMinDelta uint32
	jitterMaxDelta  uint32
	lookahead       int
}

// NewSegmenter builds a Segmenter. A jitterMaxDelta of 0 defaults to
// segmentMinDelta, and a lookahead of 0 defaults to 2, matching the
// Python reference's constructor defaults.
func NewSegmenter(segmentMinDelta, jitterMaxDelta uint32, lookahead int) *Segmenter {
	if jitterMaxDelta == 0 {
		jitterMaxDelta = segmentMinDelta
	}
	if lookahead == 0 {
		lookahead = 2
	}
	return &Segmenter{
		segmentMinDelta: segmentMinDelta,
		jitterMaxDelta:  jitterMaxDelta,
		lookahead:       lookahead,
	}
}

func coord(axis config.Axis, e MoveEvent) int {
	if axis == config.AxisX {
		return e.X
	}
	return e.Y
}

func trendFor(axis config.Axis, delta int) (config.Trend, bool) {
	if delta == 0 {
		return "", false
	}
	if axis == config.AxisX {
		if delta > 0 {
			return config.TrendRight, true
		}
		return config.TrendLeft, true
	}
	if delta > 0 {
		return config.TrendDown, true
	}
	return config.TrendUp, true
}

// Extract runs the per-axis scan over events for both axes and
// returns the combined segment list, sorted ascending by start id.
func (s *Segmenter) Extract(events []MoveEvent) []Segment {
	if len(events) == 0 {
		return nil
	}

	segments := append(s.axisSegments(events, config.AxisX), s.axisSegments(events, config.AxisY)...)
	// Stable: ties on start_id keep x ahead of y, matching the x-then-y
	// concatenation order. spec.md §9 notes gesture authors should not
	// rely on this, but determinism here avoids flaky matches.
	slices.SortStableFunc(segments, func(a, b Segment) int {
		switch {
		case a.StartID < b.StartID:
			return -1
		case a.StartID > b.StartID:
			return 1
		default:
			return 0
		}
	})
	return segments
}

func (s *Segmenter) axisSegments(events []MoveEvent, axis config.Axis) []Segment {
	var segments []Segment

	startIndex := 0
	startValue := coord(axis, events[0])
	var currentTrend config.Trend
	haveTrend := false

	emit := func(endIdx int) {
		deltaTotal := abs(coord(axis, events[endIdx]) - startValue)
		if uint32(deltaTotal) >= s.segmentMinDelta {
			segments = append(segments, Segment{
				StartID: events[startIndex].ID,
				EndID:   events[endIdx].ID,
				Axis:    axis,
				Trend:   currentTrend,
				Delta:   uint32(deltaTotal),
			})
		}
	}

	for i := 1; i < len(events); i++ {
		delta := coord(axis, events[i]) - coord(axis, events[i-1])
		newTrend, ok := trendFor(axis, delta)
		if !ok {
			continue
		}

		if !haveTrend {
			currentTrend = newTrend
			haveTrend = true
			continue
		}

		if newTrend == currentTrend {
			continue
		}

		if !s.isRealReversal(events, axis, i, currentTrend, delta) {
			continue
		}

		emit(i - 1)
		startIndex = i - 1
		startValue = coord(axis, events[i-1])
		currentTrend = newTrend
	}

	if haveTrend {
		emit(len(events) - 1)
	}

	return segments
}

// isRealReversal distinguishes a real direction reversal from sensor
// noise (spec.md §4.4 "Reversal arbiter").
func (s *Segmenter) isRealReversal(events []MoveEvent, axis config.Axis, index int, currentTrend config.Trend, delta int) bool {
	if uint32(abs(delta)) >= s.jitterMaxDelta {
		return true
	}

	opposite, _ := trendFor(axis, delta)
	confirm := 0

	maxCheck := index + s.lookahead + 1
	if maxCheck > len(events) {
		maxCheck = len(events)
	}

	for j := index + 1; j < maxCheck; j++ {
		d := coord(axis, events[j]) - coord(axis, events[j-1])
		trend, ok := trendFor(axis, d)
		if !ok {
			continue
		}
		if trend == opposite {
			confirm++
		} else if trend == currentTrend {
			return false
		}
	}

	return confirm >= s.lookahead
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
