// Package geofence ties the content repository, the location tracker and
// the proximity policies together.
package geofence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/internal/service/tracker"
	"github.com/sandevgo/geodrop/pkg/log"
)

type repository interface {
	Load(ctx context.Context) []core.ContentRecord
	Append(ctx context.Context, record core.ContentRecord) error
	All() []core.ContentRecord
	NextID(now time.Time) int64
}

type locationSource interface {
	Current() (core.LocationSample, bool)
	Fresh() (core.LocationSample, bool)
	OnUpdate(fn tracker.UpdateListener) func()
}

// Store owns the nearby-content and landmark subsets. All mutations are
// serialized; renderers run synchronously under that lock and must not call
// back into the Store.
type Store struct {
	repo      repository
	location  locationSource
	renderers []core.Renderer
	validate  *validator.Validate
	now       func() time.Time

	nearbyRadius   float64
	landmarkRadius float64
	landmarkSet    []core.Landmark

	mu        sync.Mutex
	ctx       context.Context
	mode      core.ViewMode
	nearby    []core.ContentRecord
	landmarks []core.Landmark
	cancel    func()
}

func NewStore(repo repository, location locationSource, mode core.ViewMode, renderers ...core.Renderer) *Store {
	if !mode.Valid() {
		mode = core.ModeScan
	}
	return &Store{
		repo:           repo,
		location:       location,
		renderers:      renderers,
		validate:       validator.New(),
		now:            time.Now,
		nearbyRadius:   NearbyRadius,
		landmarkRadius: LandmarkRadius,
		landmarkSet:    Landmarks,
		ctx:            context.Background(),
		mode:           mode,
		nearby:         make([]core.ContentRecord, 0),
		landmarks:      make([]core.Landmark, 0),
	}
}

// AddRenderer registers r for subsequent publications.
func (s *Store) AddRenderer(r core.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderers = append(s.renderers, r)
}

// Start loads persisted content, subscribes to location updates and
// evaluates the current fix if there is one.
func (s *Store) Start(ctx context.Context) error {
	s.repo.Load(ctx)

	s.mu.Lock()
	s.ctx = ctx
	if s.cancel == nil {
		s.cancel = s.location.OnUpdate(func(sample core.LocationSample) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.recompute(s.ctx, sample)
		})
	}
	s.mu.Unlock()

	if sample, ok := s.location.Current(); ok {
		s.mu.Lock()
		s.recompute(ctx, sample)
		s.mu.Unlock()
	}

	log.FromCtx(ctx).Info().Str("mode", string(s.Mode())).Msg("geofence store started")
	return nil
}

func (s *Store) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return nil
}

// Recompute re-evaluates both policies against the current fix.
func (s *Store) Recompute(ctx context.Context) {
	sample, ok := s.location.Current()
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recompute(ctx, sample)
}

// recompute must be called with mu held.
func (s *Store) recompute(ctx context.Context, sample core.LocationSample) {
	ref := sample.Coordinates()
	s.nearby = FilterNearby(ref, s.repo.All(), s.nearbyRadius)
	s.landmarks = FilterLandmarks(ref, s.landmarkSet, s.landmarkRadius)

	log.FromCtx(ctx).Debug().
		Int("nearby", len(s.nearby)).
		Int("landmarks", len(s.landmarks)).
		Msg("recomputed nearby AR content")

	s.publish(ctx)
}

// publish must be called with mu held.
func (s *Store) publish(ctx context.Context) {
	if len(s.renderers) == 0 {
		return
	}
	snap := s.snapshot()
	for _, r := range s.renderers {
		r.Render(ctx, snap)
	}
}

// Drop turns req into a ContentRecord at the current location and persists
// it. It fails without any state change when req is invalid or no usable
// location is known.
func (s *Store) Drop(ctx context.Context, req core.DropRequest) (core.ContentRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return core.ContentRecord{}, fmt.Errorf("%w: %v", core.ErrInvalidContent, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.location.Current(); !ok {
		return core.ContentRecord{}, core.ErrLocationRequired
	}
	sample, ok := s.location.Fresh()
	if !ok {
		return core.ContentRecord{}, core.ErrLocationStale
	}

	now := s.now()
	record := core.ContentRecord{
		ID:        s.repo.NextID(now),
		Type:      core.ContentUserGenerated,
		Location:  sample.Coordinates(),
		CreatedAt: now.UTC(),
		Payload:   payloadFrom(req),
	}

	if err := s.repo.Append(ctx, record); err != nil {
		return core.ContentRecord{}, fmt.Errorf("failed to store AR content: %w", err)
	}

	if s.mode == core.ModeLocation {
		s.nearby = append(s.nearby, record)
		s.publish(ctx)
	}

	log.FromCtx(ctx).Info().
		Int64("id", record.ID).
		Float64("lat", record.Location.Latitude).
		Float64("lng", record.Location.Longitude).
		Msg("AR content dropped")
	return record, nil
}

func payloadFrom(req core.DropRequest) core.ContentPayload {
	p := core.ContentPayload{Text: req.Text, Color: req.Color, Author: req.Author}
	if p.Text == "" {
		p.Text = core.DefaultDropText
	}
	if p.Color == "" {
		p.Color = core.DefaultDropColor
	}
	if p.Author == "" {
		p.Author = core.DefaultDropAuthor
	}
	return p
}

// SetMode switches the active view mode and republishes.
func (s *Store) SetMode(ctx context.Context, mode core.ViewMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", core.ErrUnknownMode, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = mode
	log.FromCtx(ctx).Info().Str("mode", string(mode)).Msg("switched AR mode")
	s.publish(ctx)
	return nil
}

func (s *Store) Mode() core.ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Store) Nearby() []core.ContentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.ContentRecord, len(s.nearby))
	copy(out, s.nearby)
	return out
}

func (s *Store) Landmarks() []core.Landmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Landmark, len(s.landmarks))
	copy(out, s.landmarks)
	return out
}

// All returns every stored record regardless of distance.
func (s *Store) All() []core.ContentRecord {
	return s.repo.All()
}

func (s *Store) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// snapshot must be called with mu held.
func (s *Store) snapshot() core.Snapshot {
	snap := core.Snapshot{
		Mode:      s.mode,
		Nearby:    make([]core.ContentRecord, len(s.nearby)),
		Landmarks: make([]core.Landmark, len(s.landmarks)),
	}
	copy(snap.Nearby, s.nearby)
	copy(snap.Landmarks, s.landmarks)
	if sample, ok := s.location.Current(); ok {
		snap.Location = &sample
	}
	return snap
}
