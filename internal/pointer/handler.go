package pointer

import (
	"log"

	"github.com/vinewz/gestura/internal/config"
	"github.com/vinewz/gestura/internal/eventbuffer"
)

// Button identifies which pointer button a click event reports.
type Button string

const (
	ButtonLeft   Button = "left"
	ButtonRight  Button = "right"
	ButtonMiddle Button = "middle"
)

func validButton(b string) bool {
	return Button(b) == ButtonLeft || Button(b) == ButtonRight || Button(b) == ButtonMiddle
}

// Handler owns the time-windowed buffer of pointer samples and the
// gesture matcher for one pointer input stream (spec.md §4.6).
type Handler struct {
	buf          *eventbuffer.Buffer[MoveEvent]
	matcher      *Matcher
	moveID       uint64
	moveCounter  uint64
	clickID      uint64
	samplingRate uint64
	onTrigger    func([]string)
	logger       *log.Logger
}

// NewHandler wires a Matcher over defs against a buffer windowed to
// windowS seconds. samplingRate of 0 is treated as 1 (accept all
// moves), matching spec.md §4.6's documented default.
func NewHandler(defs []config.PointerGestureDef, segmentMinDelta uint32, windowS float64, now eventbuffer.Clock, samplingRate uint64, onTrigger func([]string), logger *log.Logger) *Handler {
	if samplingRate == 0 {
		samplingRate = 1
	}
	return &Handler{
		buf:          eventbuffer.New[MoveEvent](windowS, now),
		matcher:      NewMatcher(defs, segmentMinDelta),
		samplingRate: samplingRate,
		onTrigger:    onTrigger,
		logger:       logger,
	}
}

// HandleMove ingests a raw (x, y) sample: negative coordinates are
// rejected, then the configured sampling rate is applied before the
// sample is buffered and gestures are evaluated.
func (h *Handler) HandleMove(x, y int) {
	if x < 0 || y < 0 {
		h.logger.Printf("gestura/pointer: dropped negative coordinate (%d, %d)", x, y)
		return
	}

	h.moveCounter++
	if h.moveCounter%h.samplingRate != 0 {
		return
	}

	id := h.moveID
	h.moveID++

	h.buf.Add(MoveEvent{ID: id, X: x, Y: y})
	triggered := h.matcher.Detect(h.buf.Snapshot())
	if len(triggered) > 0 {
		h.onTrigger(triggered)
	}
}

// HandleClick ingests a raw click. Clicks are validated and assigned
// an id but are not used for gesture matching in this version
// (spec.md §4.6: "reserved channel"). Negative coordinates and
// unsupported buttons are dropped silently, per spec.md §7's
// "unsupported input" error kind.
func (h *Handler) HandleClick(x, y int, button string, pressed bool) {
	if x < 0 || y < 0 {
		h.logger.Printf("gestura/pointer: dropped negative coordinate (%d, %d)", x, y)
		return
	}
	if !validButton(button) {
		h.logger.Printf("gestura/pointer: dropped unsupported button %q", button)
		return
	}
	h.clickID++
}
