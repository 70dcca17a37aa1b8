// Package tracker keeps the most recent position fix and fans it out to
// listeners.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/pkg/log"
)

type State int

const (
	Uninitialized State = iota
	Tracking
	Stale
)

func (s State) String() string {
	switch s {
	case Tracking:
		return "tracking"
	case Stale:
		return "stale"
	default:
		return "uninitialized"
	}
}

type (
	UpdateListener func(sample core.LocationSample)
	ErrorListener  func(err *core.LocationError)
)

type registration[T any] struct {
	id int
	fn T
}

// Tracker holds the last known LocationSample. Update and Fail are
// serialized and notify listeners synchronously in registration order.
// Listeners may read the tracker but must not call Update or Fail.
type Tracker struct {
	stream     core.PositionStream
	opts       core.PositionOptions
	staleAfter time.Duration
	now        func() time.Time

	mu         sync.RWMutex
	sample     *core.LocationSample
	receivedAt time.Time

	dispatchMu     sync.Mutex
	listenersMu    sync.Mutex
	nextID         int
	updateHandlers []registration[UpdateListener]
	errorHandlers  []registration[ErrorListener]

	subMu sync.Mutex
	subID core.SubscriptionID
}

func NewTracker(stream core.PositionStream, cfg core.PositionConfig) *Tracker {
	return &Tracker{
		stream:     stream,
		opts:       cfg.GetPositionOptions(),
		staleAfter: cfg.GetStaleAfter(),
		now:        time.Now,
	}
}

// Current returns the last sample, or false before the first fix.
func (t *Tracker) Current() (core.LocationSample, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.sample == nil {
		return core.LocationSample{}, false
	}
	return *t.sample, true
}

// Fresh is Current restricted to samples received within the staleness
// window. A zero window disables the check.
func (t *Tracker) Fresh() (core.LocationSample, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.sample == nil {
		return core.LocationSample{}, false
	}
	if t.staleAfter > 0 && t.now().Sub(t.receivedAt) > t.staleAfter {
		return core.LocationSample{}, false
	}
	return *t.sample, true
}

// Age returns how long ago the current sample arrived.
func (t *Tracker) Age() (time.Duration, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.sample == nil {
		return 0, false
	}
	return t.now().Sub(t.receivedAt), true
}

// State is Stale once the last sample is older than the staleness window.
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	switch {
	case t.sample == nil:
		return Uninitialized
	case t.staleAfter > 0 && t.now().Sub(t.receivedAt) > t.staleAfter:
		return Stale
	default:
		return Tracking
	}
}

// Update replaces the stored sample and notifies every update listener once.
func (t *Tracker) Update(sample core.LocationSample) {
	t.dispatchMu.Lock()
	defer t.dispatchMu.Unlock()

	t.mu.Lock()
	s := sample
	t.sample = &s
	t.receivedAt = t.now()
	t.mu.Unlock()

	for _, l := range t.updateListeners() {
		l.fn(sample)
	}
}

// Fail forwards a location error to error listeners. The last sample is kept.
func (t *Tracker) Fail(err *core.LocationError) {
	t.dispatchMu.Lock()
	defer t.dispatchMu.Unlock()

	for _, l := range t.errorListeners() {
		l.fn(err)
	}
}

// OnUpdate registers fn and returns a func that removes it.
func (t *Tracker) OnUpdate(fn UpdateListener) func() {
	t.listenersMu.Lock()
	defer t.listenersMu.Unlock()

	id := t.nextID
	t.nextID++
	t.updateHandlers = append(t.updateHandlers, registration[UpdateListener]{id: id, fn: fn})

	return func() {
		t.listenersMu.Lock()
		defer t.listenersMu.Unlock()
		t.updateHandlers = remove(t.updateHandlers, id)
	}
}

// OnError registers fn and returns a func that removes it.
func (t *Tracker) OnError(fn ErrorListener) func() {
	t.listenersMu.Lock()
	defer t.listenersMu.Unlock()

	id := t.nextID
	t.nextID++
	t.errorHandlers = append(t.errorHandlers, registration[ErrorListener]{id: id, fn: fn})

	return func() {
		t.listenersMu.Lock()
		defer t.listenersMu.Unlock()
		t.errorHandlers = remove(t.errorHandlers, id)
	}
}

func (t *Tracker) updateListeners() []registration[UpdateListener] {
	t.listenersMu.Lock()
	defer t.listenersMu.Unlock()
	out := make([]registration[UpdateListener], len(t.updateHandlers))
	copy(out, t.updateHandlers)
	return out
}

func (t *Tracker) errorListeners() []registration[ErrorListener] {
	t.listenersMu.Lock()
	defer t.listenersMu.Unlock()
	out := make([]registration[ErrorListener], len(t.errorHandlers))
	copy(out, t.errorHandlers)
	return out
}

func remove[T any](regs []registration[T], id int) []registration[T] {
	out := regs[:0:0]
	for _, r := range regs {
		if r.id != id {
			out = append(out, r)
		}
	}
	return out
}

// Start subscribes to the position stream. It returns immediately.
func (t *Tracker) Start(ctx context.Context) error {
	t.subMu.Lock()
	defer t.subMu.Unlock()

	if t.subID != "" {
		return nil
	}

	id, err := t.stream.Subscribe(t.opts, func(sample core.LocationSample, lerr *core.LocationError) {
		if lerr != nil {
			log.FromCtx(ctx).Warn().Int("code", int(lerr.Code)).Str("error", lerr.Error()).Msg("geolocation error")
			t.Fail(lerr)
			return
		}
		log.FromCtx(ctx).Debug().
			Float64("lat", sample.Latitude).
			Float64("lng", sample.Longitude).
			Float64("accuracy", sample.Accuracy).
			Msg("user location updated")
		t.Update(sample)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to position stream: %w", err)
	}

	t.subID = id
	log.FromCtx(ctx).Info().
		Bool("high_accuracy", t.opts.HighAccuracy).
		Dur("timeout", t.opts.Timeout).
		Dur("max_age", t.opts.MaximumAge).
		Msg("watching position")
	return nil
}

// Shutdown releases the stream subscription.
func (t *Tracker) Shutdown(ctx context.Context) error {
	t.subMu.Lock()
	defer t.subMu.Unlock()

	if t.subID == "" {
		return nil
	}
	t.stream.Unsubscribe(t.subID)
	t.subID = ""
	return nil
}
