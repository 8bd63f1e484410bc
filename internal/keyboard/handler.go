package keyboard

import (
	"log"

	"github.com/vinewz/gestura/internal/config"
	"github.com/vinewz/gestura/internal/eventbuffer"
)

// Handler owns the time-windowed buffer of pressed keys and the
// gesture matcher for one keyboard input stream (spec.md §4.3).
type Handler struct {
	buf       *eventbuffer.Buffer[Event]
	matcher   *Matcher
	nextID    uint64
	onTrigger func([]string)
	logger    *log.Logger
}

// NewHandler wires a Matcher over defs against a buffer windowed to
// windowS seconds, measured by now.
func NewHandler(defs []config.KeyboardGestureDef, windowS float64, now eventbuffer.Clock, onTrigger func([]string), logger *log.Logger) *Handler {
	return &Handler{
		buf:       eventbuffer.New[Event](windowS, now),
		matcher:   NewMatcher(defs),
		onTrigger: onTrigger,
		logger:    logger,
	}
}

// HandleRaw ingests a normalized (key, pressed) pair: it normalizes
// the key, assigns a monotonic id on acceptance, buffers presses, and
// evaluates gestures anchored on that trigger key.
func (h *Handler) HandleRaw(key string, pressed bool) {
	norm := Normalize(key)
	if norm == "" {
		h.logger.Printf("gestura/keyboard: dropped unsupported key %q", key)
		return
	}

	id := h.nextID
	h.nextID++

	if !pressed {
		return
	}

	h.buf.Add(Event{ID: id, Key: norm})
	triggered := h.matcher.ProcessForTrigger(norm, h.buf.Snapshot())
	if len(triggered) > 0 {
		h.onTrigger(triggered)
	}
}
