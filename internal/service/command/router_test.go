package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/internal/service/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	snap    core.Snapshot
	all     []core.ContentRecord
	dropped []core.DropRequest
	dropErr error
}

func (f *fakeStore) Drop(ctx context.Context, req core.DropRequest) (core.ContentRecord, error) {
	if f.dropErr != nil {
		return core.ContentRecord{}, f.dropErr
	}
	f.dropped = append(f.dropped, req)
	return core.ContentRecord{ID: 7, Payload: core.ContentPayload{Text: req.Text}}, nil
}

func (f *fakeStore) SetMode(ctx context.Context, mode core.ViewMode) error {
	if !mode.Valid() {
		return core.ErrUnknownMode
	}
	f.snap.Mode = mode
	return nil
}

func (f *fakeStore) Snapshot() core.Snapshot   { return f.snap }
func (f *fakeStore) All() []core.ContentRecord { return f.all }

type fakeLocation struct {
	sample *core.LocationSample
	stale  bool
}

func (f fakeLocation) Current() (core.LocationSample, bool) {
	if f.sample == nil {
		return core.LocationSample{}, false
	}
	return *f.sample, true
}

func (f fakeLocation) Age() (time.Duration, bool) {
	return 3 * time.Second, f.sample != nil
}

func (f fakeLocation) State() tracker.State {
	switch {
	case f.sample == nil:
		return tracker.Uninitialized
	case f.stale:
		return tracker.Stale
	default:
		return tracker.Tracking
	}
}

type fakeSink struct {
	pushed []core.LocationSample
}

func (f *fakeSink) Push(s core.LocationSample) error {
	f.pushed = append(f.pushed, s)
	return nil
}

func newTestRouter(store *fakeStore, loc fakeLocation, sink *fakeSink) *Router {
	return New(NewCommands(store, loc, sink))
}

func TestRouter_IgnoresPlainText(t *testing.T) {
	r := newTestRouter(&fakeStore{}, fakeLocation{}, &fakeSink{})
	_, handled := r.Execute(context.Background(), "s", "hello there")
	assert.False(t, handled)
}

func TestRouter_UnknownCommand(t *testing.T) {
	r := newTestRouter(&fakeStore{}, fakeLocation{}, &fakeSink{})
	out, handled := r.Execute(context.Background(), "s", "/teleport")
	assert.True(t, handled)
	assert.Contains(t, out, "unknown command: /teleport")
}

func TestRouter_StripsBotSuffix(t *testing.T) {
	r := newTestRouter(&fakeStore{}, fakeLocation{}, &fakeSink{})
	out, handled := r.Execute(context.Background(), "s", "/HELP@geodrop_bot")
	assert.True(t, handled)
	assert.Contains(t, out, "/drop")
}

func TestRouter_ListCommandsSorted(t *testing.T) {
	r := newTestRouter(&fakeStore{}, fakeLocation{}, &fakeSink{})
	var names []string
	for _, c := range r.ListCommands() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"content", "drop", "help", "landmarks", "mode", "nearby", "pos", "where"}, names)
}

func TestDropCommand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		dropErr error
		want    core.DropRequest
		contain string
	}{
		{
			name:    "defaults",
			input:   "/drop",
			want:    core.DropRequest{},
			contain: "AR content dropped",
		},
		{
			name:    "color_author_text",
			input:   "/drop #ff0000 @ana hello world",
			want:    core.DropRequest{Color: "#ff0000", Author: "ana", Text: "hello world"},
			contain: "AR content dropped",
		},
		{
			name:    "no_location",
			input:   "/drop hi",
			dropErr: core.ErrLocationRequired,
			contain: "Location Access Required",
		},
		{
			name:    "other_error",
			input:   "/drop hi",
			dropErr: errors.New("boom"),
			contain: "Command Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := &fakeStore{dropErr: tt.dropErr}
			r := newTestRouter(store, fakeLocation{}, &fakeSink{})

			out, handled := r.Execute(context.Background(), "s", tt.input)
			require.True(t, handled)
			assert.Contains(t, out, tt.contain)
			if tt.dropErr == nil {
				require.Len(t, store.dropped, 1)
				assert.Equal(t, tt.want, store.dropped[0])
			}
		})
	}
}

func TestParseDropArgs_LeadingHashtagIsText(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want core.DropRequest
	}{
		{name: "hashtag", args: []string{"#party", "here"}, want: core.DropRequest{Text: "#party here"}},
		{name: "short_color", args: []string{"#f80", "hi"}, want: core.DropRequest{Color: "#f80", Text: "hi"}},
		{name: "long_color", args: []string{"#FF8800", "@ana", "hi"}, want: core.DropRequest{Color: "#FF8800", Author: "ana", Text: "hi"}},
		{name: "bare_hash", args: []string{"#"}, want: core.DropRequest{Text: "#"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDropArgs(tt.args))
		})
	}
}

func TestDropCommand_HashtagIsDropped(t *testing.T) {
	store := &fakeStore{}
	r := newTestRouter(store, fakeLocation{}, &fakeSink{})

	out, handled := r.Execute(context.Background(), "s", "/drop #party here")
	require.True(t, handled)
	assert.Contains(t, out, "AR content dropped")
	require.Len(t, store.dropped, 1)
	assert.Equal(t, "#party here", store.dropped[0].Text)
}

func TestParseDropArgs_TextMayContainHashes(t *testing.T) {
	req := ParseDropArgs([]string{"meet", "#here", "@ten"})
	assert.Equal(t, core.DropRequest{Text: "meet #here @ten"}, req)
}

func TestPosCommand(t *testing.T) {
	sink := &fakeSink{}
	r := newTestRouter(&fakeStore{}, fakeLocation{}, sink)

	out, _ := r.Execute(context.Background(), "s", "/pos 37.7749 -122.4194 15")
	assert.Contains(t, out, "Location set")
	require.Len(t, sink.pushed, 1)
	assert.Equal(t, core.LocationSample{Latitude: 37.7749, Longitude: -122.4194, Accuracy: 15}, sink.pushed[0])

	out, _ = r.Execute(context.Background(), "s", "/pos north 1")
	assert.Contains(t, out, "invalid number")
	out, _ = r.Execute(context.Background(), "s", "/pos 1")
	assert.Contains(t, out, "/pos <lat> <lng> [accuracy]")
	assert.Len(t, sink.pushed, 1)
}

func TestNearbyCommand(t *testing.T) {
	sf := core.LocationSample{Latitude: 37.7749, Longitude: -122.4194}

	r := newTestRouter(&fakeStore{}, fakeLocation{}, &fakeSink{})
	out, _ := r.Execute(context.Background(), "s", "/nearby")
	assert.Contains(t, out, "no location yet")

	store := &fakeStore{snap: core.Snapshot{
		Location: &sf,
		Nearby: []core.ContentRecord{{
			ID:       1,
			Location: sf.Coordinates(),
			Payload:  core.ContentPayload{Text: "hi", Author: "ana", Color: "#00ff88"},
		}},
	}}
	r = newTestRouter(store, fakeLocation{}, &fakeSink{})
	out, _ = r.Execute(context.Background(), "s", "/nearby")
	assert.Contains(t, out, "Nearby AR Content (1)")
	assert.Contains(t, out, `"hi" by _ana_`)
	assert.Contains(t, out, "0 m")
}

func TestModeCommand(t *testing.T) {
	store := &fakeStore{snap: core.Snapshot{Mode: core.ModeScan}}
	r := newTestRouter(store, fakeLocation{}, &fakeSink{})

	out, _ := r.Execute(context.Background(), "s", "/mode")
	assert.Contains(t, out, "`scan`")

	out, _ = r.Execute(context.Background(), "s", "/mode Location")
	assert.Contains(t, out, "Mode switched to location")
	assert.Equal(t, core.ModeLocation, store.snap.Mode)

	out, _ = r.Execute(context.Background(), "s", "/mode xray")
	assert.Contains(t, out, "Command Error")
}

func TestWhereCommand(t *testing.T) {
	r := newTestRouter(&fakeStore{}, fakeLocation{}, &fakeSink{})
	out, _ := r.Execute(context.Background(), "s", "/where")
	assert.Contains(t, out, "Location unknown")

	sample := core.LocationSample{Latitude: 51.5074, Longitude: -0.1278, Accuracy: 20}
	r = newTestRouter(&fakeStore{}, fakeLocation{sample: &sample}, &fakeSink{})
	out, _ = r.Execute(context.Background(), "s", "/where")
	assert.Contains(t, out, "51.507400, -0.127800 (±20 m)")
	assert.Contains(t, out, "3s")
	assert.Contains(t, out, "tracking")
	assert.NotContains(t, out, "fresh fix")

	r = newTestRouter(&fakeStore{}, fakeLocation{sample: &sample, stale: true}, &fakeSink{})
	out, _ = r.Execute(context.Background(), "s", "/where")
	assert.Contains(t, out, "stale")
	assert.Contains(t, out, "fresh fix")
}

func TestContentCommand_NewestFirstWithLimit(t *testing.T) {
	store := &fakeStore{all: []core.ContentRecord{
		{ID: 1, Payload: core.ContentPayload{Text: "old"}},
		{ID: 2, Payload: core.ContentPayload{Text: "mid"}},
		{ID: 3, Payload: core.ContentPayload{Text: "new"}},
	}}
	r := newTestRouter(store, fakeLocation{}, &fakeSink{})

	out, _ := r.Execute(context.Background(), "s", "/content 2")
	assert.Contains(t, out, "(2 of 3)")
	assert.Contains(t, out, `"new"`)
	assert.NotContains(t, out, `"old"`)

	out, _ = r.Execute(context.Background(), "s", "/content zero")
	assert.Contains(t, out, "limit must be a positive integer")
}

func TestLandmarksCommand(t *testing.T) {
	store := &fakeStore{snap: core.Snapshot{Landmarks: []core.Landmark{{Label: "London Marker", Latitude: 51.5074, Longitude: -0.1278}}}}
	r := newTestRouter(store, fakeLocation{}, &fakeSink{})
	out, _ := r.Execute(context.Background(), "s", "/landmarks")
	assert.Contains(t, out, "London Marker")
}
