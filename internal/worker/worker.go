// Package worker implements the single-consumer event loop that
// fuses keyboard and pointer trigger streams and routes surviving
// triggers through the policy engine (spec.md §4.7).
package worker

import (
	"log"
	"sync"
	"time"
)

// Source identifies which modality produced a TriggerEvent.
type Source int

const (
	SourceKeyboard Source = iota
	SourcePointer
	sourceStop
)

// TriggerEvent is an internal record that a gesture was recognized,
// awaiting policy evaluation.
type TriggerEvent struct {
	Source    Source
	Callback  string
	Timestamp float64
}

// ActionEvent is the external record emitted after policy acceptance.
type ActionEvent struct {
	Callback    string
	TriggeredAt float64
}

// PolicyEvaluator is the policy engine's contract as seen by Worker.
type PolicyEvaluator interface {
	Evaluate(callback string, timestamp float64) bool
}

// Worker is the MPSC coordinator: handlers submit trigger batches from
// their own goroutines, and a single internally-owned goroutine
// consumes them, resolves combined gestures, and publishes actions.
type Worker struct {
	policy          PolicyEvaluator
	publish         func(ActionEvent)
	keyboardOnly    map[string]struct{}
	pointerOnly     map[string]struct{}
	combined        map[string]struct{}
	combinedWindowS float64
	now             func() float64
	logger          *log.Logger

	recentKeyboard map[string]float64
	recentPointer  map[string]float64

	queue   chan TriggerEvent
	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

// New builds a Worker over the given worker-map partition and policy
// engine. queueCapacity bounds the trigger queue; submissions beyond
// capacity are dropped and logged rather than blocking the caller
// (spec.md §5: "Handlers never block").
func New(
	policy PolicyEvaluator,
	publish func(ActionEvent),
	keyboardOnly, pointerOnly, combined map[string]struct{},
	combinedWindowS float64,
	now func() float64,
	queueCapacity int,
	logger *log.Logger,
) *Worker {
	if queueCapacity <= 0 {
		queueCapacity = 4096
	}
	return &Worker{
		policy:          policy,
		publish:         publish,
		keyboardOnly:    keyboardOnly,
		pointerOnly:     pointerOnly,
		combined:        combined,
		combinedWindowS: combinedWindowS,
		now:             now,
		logger:          logger,
		recentKeyboard:  make(map[string]float64),
		recentPointer:   make(map[string]float64),
		queue:           make(chan TriggerEvent, queueCapacity),
	}
}

// Start launches the consumer goroutine. Re-entrant calls are no-ops.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.wg.Add(1)
	go w.loop()
}

// Stop enqueues the stop sentinel and waits up to one second for the
// consumer goroutine to drain and exit (spec.md §5). Re-entrant calls
// are no-ops.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	w.queue <- TriggerEvent{Source: sourceStop}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		w.logger.Printf("gestura/worker: shutdown timed out waiting for the consumer loop")
	}
}

// SubmitKeyboardTriggers timestamps and enqueues callbacks recognized
// by the keyboard handler.
func (w *Worker) SubmitKeyboardTriggers(callbacks []string) {
	w.submit(SourceKeyboard, callbacks)
}

// SubmitPointerTriggers timestamps and enqueues callbacks recognized
// by the pointer handler.
func (w *Worker) SubmitPointerTriggers(callbacks []string) {
	w.submit(SourcePointer, callbacks)
}

func (w *Worker) submit(source Source, callbacks []string) {
	now := w.now()
	for _, cb := range callbacks {
		ev := TriggerEvent{Source: source, Callback: cb, Timestamp: now}
		select {
		case w.queue <- ev:
		default:
			w.logger.Printf("gestura/worker: trigger queue full, dropped %+v", ev)
		}
	}
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for ev := range w.queue {
		if ev.Source == sourceStop {
			return
		}
		w.handleTrigger(ev)
	}
}

func (w *Worker) handleTrigger(ev TriggerEvent) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Printf("gestura/worker: recovered from panic handling trigger %+v: %v", ev, r)
		}
	}()

	if _, ok := w.keyboardOnly[ev.Callback]; ok {
		if ev.Source == SourceKeyboard {
			w.evaluateAndPublish(ev)
		}
		return
	}
	if _, ok := w.pointerOnly[ev.Callback]; ok {
		if ev.Source == SourcePointer {
			w.evaluateAndPublish(ev)
		}
		return
	}
	if _, ok := w.combined[ev.Callback]; ok {
		w.handleCombined(ev)
	}
}

func (w *Worker) handleCombined(ev TriggerEvent) {
	w.pruneOld(ev.Timestamp)

	switch ev.Source {
	case SourceKeyboard:
		w.recentKeyboard[ev.Callback] = ev.Timestamp
		if _, ok := w.recentPointer[ev.Callback]; ok {
			w.clearCombined(ev.Callback)
			w.evaluateAndPublish(ev)
		}
	case SourcePointer:
		w.recentPointer[ev.Callback] = ev.Timestamp
		if _, ok := w.recentKeyboard[ev.Callback]; ok {
			w.clearCombined(ev.Callback)
			w.evaluateAndPublish(ev)
		}
	}
}

func (w *Worker) clearCombined(callback string) {
	delete(w.recentKeyboard, callback)
	delete(w.recentPointer, callback)
}

func (w *Worker) pruneOld(now float64) {
	threshold := now - w.combinedWindowS
	for cb, ts := range w.recentKeyboard {
		if ts < threshold {
			delete(w.recentKeyboard, cb)
		}
	}
	for cb, ts := range w.recentPointer {
		if ts < threshold {
			delete(w.recentPointer, cb)
		}
	}
}

func (w *Worker) evaluateAndPublish(ev TriggerEvent) {
	if w.policy.Evaluate(ev.Callback, ev.Timestamp) {
		w.publish(ActionEvent{Callback: ev.Callback, TriggeredAt: ev.Timestamp})
	}
}
