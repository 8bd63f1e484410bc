// Package policy enforces per-callback cooldown and sliding-window
// rate limits before a recognized trigger becomes an action
// (spec.md §4.8).
package policy

import "github.com/vinewz/gestura/internal/config"

type state struct {
	hasExecuted    bool
	lastExecutedAt float64
	history        []float64
}

// Engine is the central decision point: stateless externally,
// stateful internally per callback.
type Engine struct {
	policies map[string]config.CallbackPolicy
	states   map[string]*state
}

// New builds an Engine over the given per-callback policies.
func New(policies map[string]config.CallbackPolicy) *Engine {
	return &Engine{
		policies: policies,
		states:   make(map[string]*state),
	}
}

// Evaluate reports whether callback may fire at timestamp, updating
// internal state on acceptance. A callback with no configured policy
// is always allowed and never tracked.
func (e *Engine) Evaluate(callback string, timestamp float64) bool {
	p, ok := e.policies[callback]
	if !ok {
		return true
	}

	st, ok := e.states[callback]
	if !ok {
		st = &state{}
		e.states[callback] = st
	}

	if p.CooldownSeconds > 0 && st.hasExecuted && timestamp-st.lastExecutedAt < p.CooldownSeconds {
		return false
	}

	windowStart := timestamp - p.RateWindowSeconds
	i := 0
	for i < len(st.history) && st.history[i] < windowStart {
		i++
	}
	if i > 0 {
		st.history = append(st.history[:0], st.history[i:]...)
	}
	if uint32(len(st.history)) >= p.MaxTriggers {
		return false
	}

	st.hasExecuted = true
	st.lastExecutedAt = timestamp
	st.history = append(st.history, timestamp)
	return true
}
