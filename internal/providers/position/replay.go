package position

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/pkg/log"
)

// TrackPoint is one entry of a recorded track. A non-zero Error replays a
// location failure with that code instead of a fix.
type TrackPoint struct {
	Latitude  float64                `json:"latitude"`
	Longitude float64                `json:"longitude"`
	Accuracy  float64                `json:"accuracy"`
	Error     core.LocationErrorCode `json:"error,omitempty"`
}

// Replay pushes a recorded track into a Feed at a fixed interval. It stops
// at the end of the track or when its context ends.
type Replay struct {
	feed     *Feed
	path     string
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewReplay(feed *Feed, path string, interval time.Duration) *Replay {
	if interval <= 0 {
		interval = time.Second
	}
	return &Replay{feed: feed, path: path, interval: interval}
}

func LoadTrack(path string) ([]TrackPoint, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read track file: %w", err)
	}
	var points []TrackPoint
	if err := json.Unmarshal(raw, &points); err != nil {
		return nil, fmt.Errorf("failed to parse track file %s: %w", path, err)
	}
	return points, nil
}

// Start blocks until the track is exhausted or Shutdown is called.
func (r *Replay) Start(ctx context.Context) error {
	points, err := LoadTrack(r.path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.mu.Lock()
	r.cancel, r.done = cancel, done
	r.mu.Unlock()
	defer close(done)
	defer cancel()

	logger := log.FromCtx(ctx).With().Str("track", r.path).Logger()
	logger.Info().Int("points", len(points)).Dur("interval", r.interval).Msg("replaying position track")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for i, p := range points {
		if p.Error != 0 {
			r.feed.Fail(core.NewLocationError(p.Error, "replayed"))
		} else if err := r.feed.Push(core.LocationSample{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Accuracy:  p.Accuracy,
		}); err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("skipping track point")
		}

		if i == len(points)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}

	logger.Info().Msg("position track finished")
	return nil
}

func (r *Replay) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
	case <-ctx.Done():
	}
	return nil
}
