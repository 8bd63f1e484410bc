package pointer

import (
	"reflect"
	"sort"
	"testing"

	"github.com/vinewz/gestura/internal/config"
)

func pgesture(callback string, conds ...config.PointerCondition) config.PointerGestureDef {
	return config.PointerGestureDef{Conditions: conds, Callback: callback}
}

func cond(axis config.Axis, trend config.Trend, minDelta uint32) config.PointerCondition {
	return config.PointerCondition{Axis: axis, Trend: trend, MinDelta: minDelta}
}

func TestDetectSingleSegmentMatch(t *testing.T) {
	m := NewMatcher([]config.PointerGestureDef{pgesture("right", cond(config.AxisX, config.TrendRight, 10))}, 5)
	got := m.Detect([]MoveEvent{mv(1, 0, 0), mv(2, 20, 0)})
	if !reflect.DeepEqual(got, []string{"right"}) {
		t.Fatalf("got %v", got)
	}
}

func TestDetectBelowDeltaNotMatched(t *testing.T) {
	m := NewMatcher([]config.PointerGestureDef{pgesture("right", cond(config.AxisX, config.TrendRight, 50))}, 5)
	got := m.Detect([]MoveEvent{mv(1, 0, 0), mv(2, 20, 0)})
	if len(got) != 0 {
		t.Fatalf("expected no match, got %v", got)
	}
}

func TestDetectOrderMustBeRespected(t *testing.T) {
	m := NewMatcher([]config.PointerGestureDef{pgesture("combo",
		cond(config.AxisX, config.TrendRight, 10),
		cond(config.AxisX, config.TrendLeft, 10),
	)}, 5)
	got := m.Detect([]MoveEvent{mv(1, 0, 0), mv(2, 20, 0), mv(3, 5, 0)})
	if !reflect.DeepEqual(got, []string{"combo"}) {
		t.Fatalf("got %v", got)
	}
}

func TestDetectWrongOrderNotMatched(t *testing.T) {
	m := NewMatcher([]config.PointerGestureDef{pgesture("combo",
		cond(config.AxisX, config.TrendLeft, 10),
		cond(config.AxisX, config.TrendRight, 10),
	)}, 5)
	got := m.Detect([]MoveEvent{mv(1, 0, 0), mv(2, 20, 0), mv(3, 5, 0)})
	if len(got) != 0 {
		t.Fatalf("expected no match, got %v", got)
	}
}

func TestDetectMultipleGesturesCanTrigger(t *testing.T) {
	m := NewMatcher([]config.PointerGestureDef{
		pgesture("right", cond(config.AxisX, config.TrendRight, 10)),
		pgesture("down", cond(config.AxisY, config.TrendDown, 10)),
	}, 5)
	got := m.Detect([]MoveEvent{mv(1, 0, 0), mv(2, 20, 20)})
	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"down", "right"}) {
		t.Fatalf("got %v", got)
	}
}

func TestDetectSameOccurrenceNotReportedTwice(t *testing.T) {
	m := NewMatcher([]config.PointerGestureDef{pgesture("gesture", cond(config.AxisX, config.TrendRight, 100))}, 10)
	batch := []MoveEvent{mv(1, 0, 0), mv(2, 120, 0)}

	if got := m.Detect(batch); !reflect.DeepEqual(got, []string{"gesture"}) {
		t.Fatalf("first detect got %v", got)
	}
	if got := m.Detect(batch); len(got) != 0 {
		t.Fatalf("replaying the same batch should be suppressed, got %v", got)
	}
}

func TestDetectNewOccurrenceWithNewEndID(t *testing.T) {
	m := NewMatcher([]config.PointerGestureDef{pgesture("gesture", cond(config.AxisX, config.TrendRight, 100))}, 10)
	batch1 := []MoveEvent{mv(1, 0, 0), mv(2, 120, 0)}
	batch2 := []MoveEvent{mv(1, 0, 0), mv(2, 120, 0), mv(3, 200, 0)}

	if got := m.Detect(batch1); !reflect.DeepEqual(got, []string{"gesture"}) {
		t.Fatalf("got %v", got)
	}
	if got := m.Detect(batch2); !reflect.DeepEqual(got, []string{"gesture"}) {
		t.Fatalf("extended batch should report again, got %v", got)
	}
}

func TestDetectMultiSegmentGesture(t *testing.T) {
	m := NewMatcher([]config.PointerGestureDef{pgesture("complex",
		cond(config.AxisX, config.TrendRight, 50),
		cond(config.AxisY, config.TrendDown, 50),
	)}, 20)
	got := m.Detect([]MoveEvent{mv(1, 0, 0), mv(2, 80, 0), mv(3, 80, 80)})
	if !reflect.DeepEqual(got, []string{"complex"}) {
		t.Fatalf("got %v", got)
	}
}

func TestDetectOverlappingGesturesBothTrigger(t *testing.T) {
	m := NewMatcher([]config.PointerGestureDef{
		pgesture("right", cond(config.AxisX, config.TrendRight, 10)),
		pgesture("combo", cond(config.AxisX, config.TrendRight, 10), cond(config.AxisY, config.TrendDown, 10)),
	}, 5)
	got := m.Detect([]MoveEvent{mv(1, 0, 0), mv(2, 20, 20)})
	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"combo", "right"}) {
		t.Fatalf("got %v", got)
	}
}

func TestDetectLargeReverseJumpMatches(t *testing.T) {
	m := NewMatcher([]config.PointerGestureDef{pgesture("right_then_left",
		cond(config.AxisX, config.TrendRight, 50),
		cond(config.AxisX, config.TrendLeft, 50),
	)}, 5)
	got := m.Detect([]MoveEvent{mv(1, 0, 0), mv(2, 100, 0), mv(3, 0, 0)})
	if !reflect.DeepEqual(got, []string{"right_then_left"}) {
		t.Fatalf("got %v", got)
	}
}

func TestDetectRequiresCorrectFirstDirection(t *testing.T) {
	m := NewMatcher([]config.PointerGestureDef{pgesture("OK",
		cond(config.AxisY, config.TrendDown, 100),
		cond(config.AxisX, config.TrendRight, 100),
		cond(config.AxisY, config.TrendUp, 100),
		cond(config.AxisX, config.TrendLeft, 100),
	)}, 5)
	got := m.Detect([]MoveEvent{mv(1, 0, 0), mv(2, 100, 100), mv(3, 0, 0)})
	if !reflect.DeepEqual(got, []string{"OK"}) {
		t.Fatalf("got %v", got)
	}
}

func TestDetectLargeBatchDoesNotBreak(t *testing.T) {
	m := NewMatcher([]config.PointerGestureDef{pgesture("right", cond(config.AxisX, config.TrendRight, 10))}, 5)
	events := make([]MoveEvent, 100)
	for i := range events {
		events[i] = mv(uint64(i), i*5, 0)
	}
	got := m.Detect(events)
	if !reflect.DeepEqual(got, []string{"right"}) {
		t.Fatalf("got %v", got)
	}
}
