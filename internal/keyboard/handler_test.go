package keyboard

import (
	"log"
	"testing"

	"github.com/vinewz/gestura/internal/config"
)

type fakeClock struct{ t float64 }

func (c *fakeClock) now() float64 { return c.t }

func TestHandlerTriggersOnPressOnly(t *testing.T) {
	var triggered [][]string
	clock := &fakeClock{}
	h := NewHandler(
		[]config.KeyboardGestureDef{gesture([]string{"ctrl", "k"}, "save")},
		1.5, clock.now,
		func(cbs []string) { triggered = append(triggered, cbs) },
		log.Default(),
	)

	h.HandleRaw("ctrl", true)
	h.HandleRaw("k", true)

	if len(triggered) != 1 || triggered[0][0] != "save" {
		t.Fatalf("expected save to trigger once, got %v", triggered)
	}
}

func TestHandlerIgnoresReleases(t *testing.T) {
	var triggered [][]string
	clock := &fakeClock{}
	h := NewHandler(
		[]config.KeyboardGestureDef{gesture([]string{"esc"}, "exit")},
		1.5, clock.now,
		func(cbs []string) { triggered = append(triggered, cbs) },
		log.Default(),
	)

	h.HandleRaw("esc", false)
	if len(triggered) != 0 {
		t.Fatalf("release should not be buffered or trigger, got %v", triggered)
	}

	h.HandleRaw("esc", true)
	if len(triggered) != 1 {
		t.Fatalf("expected exit to trigger on press, got %v", triggered)
	}
}

func TestHandlerDropsUnsupportedKey(t *testing.T) {
	var triggered [][]string
	clock := &fakeClock{}
	h := NewHandler(nil, 1.5, clock.now, func(cbs []string) { triggered = append(triggered, cbs) }, log.Default())

	h.HandleRaw("", true)
	if len(triggered) != 0 {
		t.Fatalf("expected no trigger for dropped key")
	}
}
