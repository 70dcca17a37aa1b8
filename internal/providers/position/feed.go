// Package position provides the in-process position source. Transports push
// fixes into a Feed; trackers subscribe to it the way a browser page watches
// the device position.
package position

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/pkg/log"
)

var _ core.PositionStream = (*Feed)(nil)

type subscription struct {
	id       core.SubscriptionID
	opts     core.PositionOptions
	handler  core.PositionHandler
	watchdog *time.Timer
	fixed    bool
}

// Feed fans position fixes and failures out to every subscriber in
// subscription order. Handlers run synchronously and must not call back
// into the Feed.
type Feed struct {
	ctx      context.Context
	validate *validator.Validate
	now      func() time.Time

	// dispatchMu keeps deliveries from concurrent pushes in order
	dispatchMu sync.Mutex

	mu     sync.Mutex
	subs   map[core.SubscriptionID]*subscription
	order  []core.SubscriptionID
	last   *core.LocationSample
	lastAt time.Time
}

func NewFeed(ctx context.Context) *Feed {
	return &Feed{
		ctx:      ctx,
		validate: validator.New(),
		now:      time.Now,
		subs:     make(map[core.SubscriptionID]*subscription),
	}
}

// Subscribe registers handler. A cached fix no older than opts.MaximumAge is
// delivered before Subscribe returns. Otherwise, when opts.Timeout is set and
// no fix arrives in time, handler receives a single Timeout error.
func (f *Feed) Subscribe(opts core.PositionOptions, handler core.PositionHandler) (core.SubscriptionID, error) {
	if handler == nil {
		return "", fmt.Errorf("position handler is nil")
	}

	f.dispatchMu.Lock()
	defer f.dispatchMu.Unlock()

	sub := &subscription{
		id:      core.SubscriptionID(uuid.NewString()),
		opts:    opts,
		handler: handler,
	}

	f.mu.Lock()
	f.subs[sub.id] = sub
	f.order = append(f.order, sub.id)

	var cached *core.LocationSample
	if f.last != nil && opts.MaximumAge > 0 && f.now().Sub(f.lastAt) <= opts.MaximumAge {
		s := *f.last
		cached = &s
		sub.fixed = true
	} else if opts.Timeout > 0 {
		id := sub.id
		sub.watchdog = time.AfterFunc(opts.Timeout, func() { f.expire(id) })
	}
	f.mu.Unlock()

	log.FromCtx(f.ctx).Debug().
		Str("subscription", string(sub.id)).
		Bool("cached", cached != nil).
		Msg("position subscriber added")

	if cached != nil {
		handler(*cached, nil)
	}
	return sub.id, nil
}

// Unsubscribe stops deliveries to id. Unknown ids are ignored.
func (f *Feed) Unsubscribe(id core.SubscriptionID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub, ok := f.subs[id]
	if !ok {
		return
	}
	if sub.watchdog != nil {
		sub.watchdog.Stop()
	}
	delete(f.subs, id)
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

// Push delivers a fix to every subscriber. A sample with out-of-range
// coordinates is reported to subscribers as PositionUnavailable instead.
func (f *Feed) Push(sample core.LocationSample) error {
	if err := f.validate.Struct(sample); err != nil {
		lerr := core.NewLocationError(core.PositionUnavailable, "invalid coordinates")
		f.Fail(lerr)
		return fmt.Errorf("failed to accept position: %w", err)
	}

	f.dispatchMu.Lock()
	defer f.dispatchMu.Unlock()

	f.mu.Lock()
	f.last = &sample
	f.lastAt = f.now()
	handlers := f.handlersLocked(true)
	f.mu.Unlock()

	for _, h := range handlers {
		h(sample, nil)
	}
	return nil
}

// Fail delivers err to every subscriber.
func (f *Feed) Fail(err *core.LocationError) {
	f.dispatchMu.Lock()
	defer f.dispatchMu.Unlock()

	f.mu.Lock()
	handlers := f.handlersLocked(false)
	f.mu.Unlock()

	log.FromCtx(f.ctx).Debug().Int("code", int(err.Code)).Int("subscribers", len(handlers)).Msg("position failure")
	for _, h := range handlers {
		h(core.LocationSample{}, err)
	}
}

// handlersLocked must be called with mu held. A fix disarms the timeout
// watchdog of every subscriber.
func (f *Feed) handlersLocked(fix bool) []core.PositionHandler {
	out := make([]core.PositionHandler, 0, len(f.order))
	for _, id := range f.order {
		sub := f.subs[id]
		if fix && !sub.fixed {
			sub.fixed = true
			if sub.watchdog != nil {
				sub.watchdog.Stop()
			}
		}
		out = append(out, sub.handler)
	}
	return out
}

func (f *Feed) expire(id core.SubscriptionID) {
	f.dispatchMu.Lock()
	defer f.dispatchMu.Unlock()

	f.mu.Lock()
	sub, ok := f.subs[id]
	if !ok || sub.fixed {
		f.mu.Unlock()
		return
	}
	sub.fixed = true
	handler := sub.handler
	timeout := sub.opts.Timeout
	f.mu.Unlock()

	log.FromCtx(f.ctx).Warn().Str("subscription", string(id)).Dur("timeout", timeout).Msg("no position fix before timeout")
	handler(core.LocationSample{}, core.NewLocationError(core.Timeout, ""))
}
