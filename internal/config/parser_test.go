package config

import (
	"strings"
	"testing"
)

func TestParseKeyboardAndMouseGestures(t *testing.T) {
	data := []byte(`[
		{
			"callback": "exit",
			"keyboard": {"conditions": ["esc"]},
			"policy": {"cooldown_seconds": 1.0, "max_triggers": 1, "rate_window_seconds": 5.0}
		},
		{
			"callback": "swipe-up",
			"mouse": {"conditions": [{"axis":"y","trend":"up","min_delta":100}]}
		},
		{
			"callback": "combo",
			"keyboard": {"conditions": ["ctrl"]},
			"mouse": {"conditions": [{"axis":"y","trend":"down","min_delta":20}]}
		}
	]`)

	bundle, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if len(bundle.KeyboardGestures) != 2 {
		t.Fatalf("expected 2 keyboard gestures, got %d", len(bundle.KeyboardGestures))
	}
	if len(bundle.PointerGestures) != 2 {
		t.Fatalf("expected 2 pointer gestures, got %d", len(bundle.PointerGestures))
	}

	policy, ok := bundle.Policies["exit"]
	if !ok {
		t.Fatalf("expected policy for exit callback")
	}
	if policy.CooldownSeconds != 1.0 || policy.MaxTriggers != 1 || policy.RateWindowSeconds != 5.0 {
		t.Fatalf("unexpected policy: %+v", policy)
	}

	swipePolicy := bundle.Policies["swipe-up"]
	if swipePolicy.RateWindowSeconds != 1.0 || swipePolicy.MaxTriggers != 1 {
		t.Fatalf("expected default policy for swipe-up, got %+v", swipePolicy)
	}

	if _, ok := bundle.WorkerMap.KeyboardOnly["exit"]; !ok {
		t.Fatalf("expected exit in keyboard_only")
	}
	if _, ok := bundle.WorkerMap.PointerOnly["swipe-up"]; !ok {
		t.Fatalf("expected swipe-up in pointer_only")
	}
	if _, ok := bundle.WorkerMap.Combined["combo"]; !ok {
		t.Fatalf("expected combo in combined")
	}

	total := len(bundle.WorkerMap.KeyboardOnly) + len(bundle.WorkerMap.PointerOnly) + len(bundle.WorkerMap.Combined)
	if total != 3 {
		t.Fatalf("expected partition to cover all 3 callbacks, got %d", total)
	}
}

func TestParseRejectsAxisTrendMismatch(t *testing.T) {
	data := []byte(`[{"callback":"bad","mouse":{"conditions":[{"axis":"x","trend":"up","min_delta":10}]}}]`)
	_, err := Parse(data)
	if err == nil {
		t.Fatalf("expected error for axis/trend mismatch")
	}
	if !strings.Contains(err.Error(), "incompatible") {
		t.Fatalf("expected incompatible-trend error, got %v", err)
	}
}

func TestParseRejectsUnknownMouseConditionField(t *testing.T) {
	data := []byte(`[{"callback":"bad","mouse":{"conditions":[{"axis":"x","trend":"left","min_delta":10,"extra":true}]}}]`)
	_, err := Parse(data)
	if err == nil {
		t.Fatalf("expected error for unknown mouse condition field")
	}
}

func TestParseNoopRecordIsSkipped(t *testing.T) {
	data := []byte(`[{"callback":"noop"}]`)
	bundle, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(bundle.KeyboardGestures) != 0 || len(bundle.PointerGestures) != 0 {
		t.Fatalf("expected no gestures for a no-op record")
	}
}

func TestParseRejectsEmptyCallback(t *testing.T) {
	data := []byte(`[{"callback":"","keyboard":{"conditions":["a"]}}]`)
	_, err := Parse(data)
	if err == nil {
		t.Fatalf("expected error for empty callback")
	}
}
