package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

// Sentinel errors for the "configuration invalid" error kind
// (spec.md §7). Callers can match them with errors.Is.
var (
	ErrEmptyCallback     = errors.New("gestura/config: callback must not be empty")
	ErrEmptyKey          = errors.New("gestura/config: keyboard condition key must not be empty")
	ErrAxisTrendMismatch = errors.New("gestura/config: trend incompatible with axis")
	ErrUnknownAxis       = errors.New("gestura/config: unknown axis")
)

type rawCondition struct {
	Axis     Axis   `json:"axis"`
	Trend    Trend  `json:"trend"`
	MinDelta uint32 `json:"min_delta"`
}

type rawKeyboard struct {
	Conditions []string `json:"conditions"`
}

type rawMouse struct {
	Conditions []rawCondition `json:"conditions"`
}

type rawPolicy struct {
	CooldownSeconds   *float64 `json:"cooldown_seconds"`
	RateWindowSeconds *float64 `json:"rate_window_seconds"`
	MaxTriggers       *uint32  `json:"max_triggers"`
}

type rawRecord struct {
	Callback string       `json:"callback"`
	Keyboard *rawKeyboard `json:"keyboard"`
	Mouse    *rawMouse    `json:"mouse"`
	Policy   *rawPolicy   `json:"policy"`
}

// Parse decodes a JSON array of gesture/policy records (spec.md §6)
// into a Bundle. Unknown fields anywhere in a record are rejected —
// the mouse-condition level is the case spec.md calls out explicitly,
// but strict decoding end to end catches typos earlier.
func Parse(data []byte) (Bundle, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var records []rawRecord
	if err := dec.Decode(&records); err != nil {
		return Bundle{}, fmt.Errorf("gestura/config: decode: %w", err)
	}

	var keyboardGestures []KeyboardGestureDef
	var pointerGestures []PointerGestureDef
	policies := make(map[string]CallbackPolicy)

	for i, rec := range records {
		if rec.Callback == "" {
			return Bundle{}, fmt.Errorf("gestura/config: record %d: %w", i, ErrEmptyCallback)
		}

		if rec.Keyboard != nil && len(rec.Keyboard.Conditions) > 0 {
			for _, key := range rec.Keyboard.Conditions {
				if key == "" {
					return Bundle{}, fmt.Errorf("gestura/config: record %d (%s): %w", i, rec.Callback, ErrEmptyKey)
				}
			}
			keyboardGestures = append(keyboardGestures, KeyboardGestureDef{
				Conditions: append([]string(nil), rec.Keyboard.Conditions...),
				Callback:   rec.Callback,
			})
		}

		if rec.Mouse != nil && len(rec.Mouse.Conditions) > 0 {
			conds := make([]PointerCondition, len(rec.Mouse.Conditions))
			for j, c := range rec.Mouse.Conditions {
				if c.Axis != AxisX && c.Axis != AxisY {
					return Bundle{}, fmt.Errorf("gestura/config: record %d (%s) condition %d: %w %q", i, rec.Callback, j, ErrUnknownAxis, c.Axis)
				}
				if !c.Trend.ValidFor(c.Axis) {
					return Bundle{}, fmt.Errorf("gestura/config: record %d (%s) condition %d: %w (axis=%s trend=%s)", i, rec.Callback, j, ErrAxisTrendMismatch, c.Axis, c.Trend)
				}
				conds[j] = PointerCondition{Axis: c.Axis, Trend: c.Trend, MinDelta: c.MinDelta}
			}
			pointerGestures = append(pointerGestures, PointerGestureDef{
				Conditions: conds,
				Callback:   rec.Callback,
			})
		}

		policy := DefaultPolicy()
		if rec.Policy != nil {
			if rec.Policy.CooldownSeconds != nil {
				policy.CooldownSeconds = *rec.Policy.CooldownSeconds
			}
			if rec.Policy.RateWindowSeconds != nil {
				policy.RateWindowSeconds = *rec.Policy.RateWindowSeconds
			}
			if rec.Policy.MaxTriggers != nil {
				policy.MaxTriggers = *rec.Policy.MaxTriggers
			}
		}
		policies[rec.Callback] = policy
	}

	return Bundle{
		KeyboardGestures: keyboardGestures,
		PointerGestures:  pointerGestures,
		Policies:         policies,
		WorkerMap:        buildWorkerMap(keyboardGestures, pointerGestures),
	}, nil
}

func buildWorkerMap(kbd []KeyboardGestureDef, ptr []PointerGestureDef) WorkerMap {
	kbdCallbacks := make([]string, 0, len(kbd))
	for _, g := range kbd {
		if !slices.Contains(kbdCallbacks, g.Callback) {
			kbdCallbacks = append(kbdCallbacks, g.Callback)
		}
	}
	ptrCallbacks := make([]string, 0, len(ptr))
	for _, g := range ptr {
		if !slices.Contains(ptrCallbacks, g.Callback) {
			ptrCallbacks = append(ptrCallbacks, g.Callback)
		}
	}

	combined := make(map[string]struct{})
	for _, cb := range kbdCallbacks {
		if slices.Contains(ptrCallbacks, cb) {
			combined[cb] = struct{}{}
		}
	}

	keyboardOnly := make(map[string]struct{})
	for _, cb := range kbdCallbacks {
		if _, ok := combined[cb]; !ok {
			keyboardOnly[cb] = struct{}{}
		}
	}

	pointerOnly := make(map[string]struct{})
	for _, cb := range ptrCallbacks {
		if _, ok := combined[cb]; !ok {
			pointerOnly[cb] = struct{}{}
		}
	}

	return WorkerMap{
		KeyboardOnly: keyboardOnly,
		PointerOnly:  pointerOnly,
		Combined:     combined,
	}
}
