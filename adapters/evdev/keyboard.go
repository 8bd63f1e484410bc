// Package evdev provides the Linux evdev input adapters: a keyboard
// listener and a pointer (relative-motion + click) listener, both
// implementing the gestura.Listener contract (spec.md §4.2, §4.3).
package evdev

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	evdev "github.com/holoplot/go-evdev"
)

// KeyCallback receives the evdev code name for a key and whether it
// was pressed (true) or released (false). Hold (auto-repeat) events
// are not forwarded; spec.md §3 keyboard gestures match on press only.
type KeyCallback func(key string, pressed bool)

// KeyboardListener scans for the first evdev device exposing keyboard
// capabilities and streams its press/release events to a callback.
type KeyboardListener struct {
	onEvent KeyCallback
	logger  *log.Logger

	mu       sync.Mutex
	dev      *evdev.InputDevice
	running  bool
	stopping int32
	wg       sync.WaitGroup
}

// NewKeyboardListener builds a listener that invokes onEvent for every
// recognized press or release.
func NewKeyboardListener(onEvent KeyCallback, logger *log.Logger) *KeyboardListener {
	return &KeyboardListener{onEvent: onEvent, logger: logger}
}

// findFirstKeyboard scans available evdev devices and returns the path
// of the first device that supports keyboard events.
func findFirstKeyboard() (string, error) {
	return findFirstDevice([]evdev.EvType{evdev.EV_KEY, evdev.EV_REP}, "keyboard")
}

// Start opens the first detected keyboard device and begins streaming
// its events on an internal goroutine. Re-entrant calls return an error.
func (l *KeyboardListener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return fmt.Errorf("keyboard listener already started")
	}

	path, err := findFirstKeyboard()
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

func (l *KeyboardListener) loop(dev *evdev.InputDevice) {
	defer l.wg.Done()
	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if atomic.LoadInt32(&l.stopping) == 0 {
				l.logger.Printf("gestura/evdev: keyboard read error: %v", err)
			}
			return
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}
		switch ev.Value {
		case 0:
			l.onEvent(readableKeyName(ev.CodeName()), false)
		case 1:
			l.onEvent(readableKeyName(ev.CodeName()), true)
		default:
			// Auto-repeat (hold); spec.md §3 matches on press, so ignore.
		}
	}
}

// Stop closes the device to unblock the read loop and waits up to one
// second for it to exit. Re-entrant calls are no-ops.
func (l *KeyboardListener) Stop() {
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
		l.logger.Printf("gestura/evdev: keyboard listener stop timed out")
	}
}

// readableKeyName strips evdev's "KEY_" prefix (and, for modifier
// keys, the "LEFT"/"RIGHT" side marker) so the key reaches
// keyboard.Normalize in the same shape as a config's condition
// strings — e.g. "KEY_LEFTCTRL" becomes "CTRL", "KEY_ESC" becomes
// "ESC".
func readableKeyName(code string) string {
	name := strings.TrimPrefix(code, "KEY_")
	if isModifierCode(code) {
		name = strings.TrimPrefix(name, "LEFT")
		name = strings.TrimPrefix(name, "RIGHT")
	}
	return name
}

func isModifierCode(code string) bool {
	switch code {
	case "KEY_LEFTCTRL", "KEY_RIGHTCTRL",
		"KEY_LEFTSHIFT", "KEY_RIGHTSHIFT",
		"KEY_LEFTALT", "KEY_RIGHTALT",
		"KEY_LEFTMETA", "KEY_RIGHTMETA":
		return true
	}
	return false
}
