package evdev

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	evdev "github.com/holoplot/go-evdev"
)

// MoveCallback receives an absolute (x, y) sample accumulated from
// relative motion deltas.
type MoveCallback func(x, y int)

// ClickCallback receives the last known (x, y) position, a button
// name ("left", "right", "middle"), and whether it was pressed (true)
// or released (false).
type ClickCallback func(x, y int, button string, pressed bool)

var buttonNames = map[evdev.EvCode]string{
	evdev.BTN_LEFT:   "left",
	evdev.BTN_RIGHT:  "right",
	evdev.BTN_MIDDLE: "middle",
}

// PointerListener scans for the first evdev device exposing relative
// motion capabilities and streams accumulated (x, y) samples and click
// events. Coordinates are clamped to zero: the pointer handler treats
// negative coordinates as unsupported input (spec.md §7), and a
// relative device has no natural origin, so clamping at zero avoids
// spurious drops from the startup accumulation settling below zero.
type PointerListener struct {
	onMove  MoveCallback
	onClick ClickCallback
	logger  *log.Logger

	mu       sync.Mutex
	dev      *evdev.InputDevice
	running  bool
	stopping int32
	wg       sync.WaitGroup

	x, y int
}

// NewPointerListener builds a listener that invokes onMove on every
// accumulated motion sample (flushed at each EV_SYN report) and
// onClick for every recognized button transition.
func NewPointerListener(onMove MoveCallback, onClick ClickCallback, logger *log.Logger) *PointerListener {
	return &PointerListener{onMove: onMove, onClick: onClick, logger: logger}
}

// findFirstPointer scans available evdev devices and returns the path
// of the first device that supports relative-motion pointer events.
func findFirstPointer() (string, error) {
	return findFirstDevice([]evdev.EvType{evdev.EV_REL, evdev.EV_KEY}, "mouse")
}

// Start opens the first detected pointer device and begins streaming
// its events on an internal goroutine. Re-entrant calls return an error.
func (l *PointerListener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return fmt.Errorf("pointer listener already started")
	}

	path, err := findFirstPointer()
	if err != nil {
		return err
	}
	dev, err := evdev.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	l.dev = dev
	l.running = true
	atomic.StoreInt32(&l.stopping, 0)
	l.wg.Add(1)
	go l.loop(dev)
	return nil
}

func (l *PointerListener) loop(dev *evdev.InputDevice) {
	defer l.wg.Done()
	var pendingDX, pendingDY int
	var dirty bool
	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if atomic.LoadInt32(&l.stopping) == 0 {
				l.logger.Printf("gestura/evdev: pointer read error: %v", err)
			}
			return
		}
		switch ev.Type {
		case evdev.EV_REL:
			switch ev.Code {
			case evdev.REL_X:
				pendingDX += int(ev.Value)
				dirty = true
			case evdev.REL_Y:
				pendingDY += int(ev.Value)
				dirty = true
			}
		case evdev.EV_KEY:
			if name, ok := buttonNames[ev.Code]; ok {
				l.mu.Lock()
				x, y := l.x, l.y
				l.mu.Unlock()
				l.onClick(x, y, name, ev.Value == 1)
			}
		case evdev.EV_SYN:
			if dirty {
				l.mu.Lock()
				l.x += pendingDX
				l.y += pendingDY
				if l.x < 0 {
					l.x = 0
				}
				if l.y < 0 {
					l.y = 0
				}
				x, y := l.x, l.y
				l.mu.Unlock()
				l.onMove(x, y)
				pendingDX, pendingDY = 0, 0
				dirty = false
			}
		}
	}
}

// Stop closes the device to unblock the read loop and waits up to one
// second for it to exit. Re-entrant calls are no-ops.
func (l *PointerListener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}
	atomic.StoreInt32(&l.stopping, 1)
	if l.dev != nil {
		l.dev.Close()
	}
	l.running = false

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(1 * time.Second):
		l.logger.Printf("gestura/evdev: pointer listener stop timed out")
	}
}
