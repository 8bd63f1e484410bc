// Package gestura recognizes keyboard and pointer gestures from
// normalized input events and dispatches policy-gated actions to an
// embedder-supplied sink. It owns no OS resources directly: device
// access is delegated to injected listener factories (see
// adapters/evdev for the Linux evdev implementation).
package gestura

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/vinewz/gestura/adapters/evdev"
	"github.com/vinewz/gestura/internal/config"
	"github.com/vinewz/gestura/internal/eventbuffer"
	"github.com/vinewz/gestura/internal/keyboard"
	"github.com/vinewz/gestura/internal/pointer"
	"github.com/vinewz/gestura/internal/policy"
	"github.com/vinewz/gestura/internal/worker"
)

// ActionEvent is the external record emitted after policy acceptance.
type ActionEvent struct {
	Callback    string
	TriggeredAt float64
}

// Listener is the contract an OS input source must satisfy. Start
// begins delivering normalized events to the callback supplied at
// construction; Stop releases OS resources and is idempotent. The
// Engine calls Start once on each listener it builds.
type Listener interface {
	Start() error
	Stop()
}

// KeyboardListenerFactory builds a Listener that reports every
// press/release through onEvent.
type KeyboardListenerFactory func(onEvent func(key string, pressed bool)) Listener

// PointerListenerFactory builds a Listener that reports motion samples
// through onMove and button transitions through onClick.
type PointerListenerFactory func(onMove func(x, y int), onClick func(x, y int, button string, pressed bool)) Listener

func defaultKeyboardFactory(onEvent func(key string, pressed bool)) Listener {
	return evdev.NewKeyboardListener(onEvent, log.Default())
}

func defaultPointerFactory(onMove func(x, y int), onClick func(x, y int, button string, pressed bool)) Listener {
	return evdev.NewPointerListener(onMove, onClick, log.Default())
}

const (
	defaultKeyboardWindowS = 1.5
	defaultPointerWindowS  = 4.0
	defaultCombinedWindowS = 4.0
	defaultSegmentMinDelta = 10
	defaultSamplingRate    = 1
	defaultQueueCapacity   = 4096
)

type settings struct {
	clock           eventbuffer.Clock
	keyboardWindowS float64
	pointerWindowS  float64
	combinedWindowS float64
	segmentMinDelta uint32
	samplingRate    uint64
	queueCapacity   int
	logger          *log.Logger
	keyboardFactory KeyboardListenerFactory
	pointerFactory  PointerListenerFactory
}

// Option configures an Engine at construction time.
type Option func(*settings)

// WithClock overrides the monotonic clock used for all time windows
// and policy decisions. Intended for deterministic testing.
func WithClock(now eventbuffer.Clock) Option {
	return func(s *settings) { s.clock = now }
}

// WithKeyboardWindow overrides the keyboard event buffer's window, in
// seconds.
func WithKeyboardWindow(seconds float64) Option {
	return func(s *settings) { s.keyboardWindowS = seconds }
}

// WithPointerWindow overrides the pointer event buffer's window, in
// seconds.
func WithPointerWindow(seconds float64) Option {
	return func(s *settings) { s.pointerWindowS = seconds }
}

// WithCombinedWindow overrides the coordination window within which
// both modalities of a combined gesture must arrive.
func WithCombinedWindow(seconds float64) Option {
	return func(s *settings) { s.combinedWindowS = seconds }
}

// WithSegmentMinDelta overrides the minimum per-axis displacement
// (evdev units) required for a pointer segment to be emitted.
func WithSegmentMinDelta(delta uint32) Option {
	return func(s *settings) { s.segmentMinDelta = delta }
}

// WithSamplingRate accepts only every Nth pointer move sample,
// trading gesture latency for CPU on constrained embedding hosts.
func WithSamplingRate(n uint64) Option {
	return func(s *settings) { s.samplingRate = n }
}

// WithQueueCapacity overrides the worker's bounded trigger queue size.
func WithQueueCapacity(n int) Option {
	return func(s *settings) { s.queueCapacity = n }
}

// WithLogger overrides the destination for the handlers' dropped-input
// and the worker's shutdown-timeout diagnostics. The default evdev
// listeners always log through log.Default().
func WithLogger(logger *log.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithKeyboardListenerFactory overrides how the keyboard OS listener
// is constructed. Defaults to the Linux evdev adapter.
func WithKeyboardListenerFactory(f KeyboardListenerFactory) Option {
	return func(s *settings) { s.keyboardFactory = f }
}

// WithPointerListenerFactory overrides how the pointer OS listener is
// constructed. Defaults to the Linux evdev adapter.
func WithPointerListenerFactory(f PointerListenerFactory) Option {
	return func(s *settings) { s.pointerFactory = f }
}

// Engine wires configuration, the two modality handlers, the policy
// engine, and the worker coordinator into the gesture recognition
// pipeline described by the core API (spec.md §6).
type Engine struct {
	sink func(ActionEvent)

	kbdHandler *keyboard.Handler
	ptrHandler *pointer.Handler
	worker     *worker.Worker

	kbdFactory KeyboardListenerFactory
	ptrFactory PointerListenerFactory
	kbdListen  Listener
	ptrListen  Listener

	mu      sync.Mutex
	running bool
}

// New parses a JSON gesture configuration and builds an Engine ready
// to Start. sink is invoked on the worker thread for every accepted
// action; it must not block indefinitely (spec.md §5).
func New(configJSON []byte, sink func(ActionEvent), opts ...Option) (*Engine, error) {
	bundle, err := config.Parse(configJSON)
	if err != nil {
		return nil, fmt.Errorf("gestura: invalid configuration: %w", err)
	}

	s := &settings{
		clock:           defaultClock,
		keyboardWindowS: defaultKeyboardWindowS,
		pointerWindowS:  defaultPointerWindowS,
		combinedWindowS: defaultCombinedWindowS,
		segmentMinDelta: defaultSegmentMinDelta,
		samplingRate:    defaultSamplingRate,
		queueCapacity:   defaultQueueCapacity,
		logger:          log.New(os.Stderr, "", log.LstdFlags),
		keyboardFactory: defaultKeyboardFactory,
		pointerFactory:  defaultPointerFactory,
	}
	for _, opt := range opts {
		opt(s)
	}

	e := &Engine{sink: sink, kbdFactory: s.keyboardFactory, ptrFactory: s.pointerFactory}

	policyEngine := policy.New(bundle.Policies)
	w := worker.New(
		policyEngine,
		func(ev worker.ActionEvent) { e.sink(ActionEvent{Callback: ev.Callback, TriggeredAt: ev.TriggeredAt}) },
		bundle.WorkerMap.KeyboardOnly,
		bundle.WorkerMap.PointerOnly,
		bundle.WorkerMap.Combined,
		s.combinedWindowS,
		s.clock,
		s.queueCapacity,
		s.logger,
	)
	e.worker = w

	e.kbdHandler = keyboard.NewHandler(
		bundle.KeyboardGestures,
		s.keyboardWindowS,
		s.clock,
		w.SubmitKeyboardTriggers,
		s.logger,
	)
	e.ptrHandler = pointer.NewHandler(
		bundle.PointerGestures,
		s.segmentMinDelta,
		s.pointerWindowS,
		s.clock,
		s.samplingRate,
		w.SubmitPointerTriggers,
		s.logger,
	)

	return e, nil
}

// clockBase anchors defaultClock: its wall-clock reading sets the epoch
// offset and its monotonic reading measures elapsed time.
var clockBase = time.Now()

func defaultClock() float64 {
	return float64(clockBase.UnixNano())/1e9 + time.Since(clockBase).Seconds()
}

// Start is idempotent: it starts the worker, then the OS listeners.
// A listener failure stops whatever was already started and returns
// the error; the worker is left stopped.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return nil
	}

	e.worker.Start()

	e.kbdListen = e.kbdFactory(e.kbdHandler.HandleRaw)
	if err := e.kbdListen.Start(); err != nil {
		e.worker.Stop()
		return fmt.Errorf("gestura: starting keyboard listener: %w", err)
	}

	e.ptrListen = e.ptrFactory(e.ptrHandler.HandleMove, e.ptrHandler.HandleClick)
	if err := e.ptrListen.Start(); err != nil {
		e.kbdListen.Stop()
		e.worker.Stop()
		return fmt.Errorf("gestura: starting pointer listener: %w", err)
	}

	e.running = true
	return nil
}

// Stop is idempotent: it stops the OS listeners, then the worker.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.kbdListen.Stop()
	e.ptrListen.Stop()
	e.worker.Stop()
	e.running = false
}
