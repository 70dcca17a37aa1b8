package ui

import (
	"bytes"
	"context"
	"testing"

	"github.com/sandevgo/geodrop/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestConsoleRenderer_SkipsUnchangedScenes(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleRenderer(&buf)
	ctx := context.Background()

	here := core.LocationSample{Latitude: 37.7749, Longitude: -122.4194}
	snap := core.Snapshot{
		Location: &here,
		Mode:     core.ModeLocation,
		Nearby: []core.ContentRecord{{
			ID:       1,
			Location: here.Coordinates(),
			Payload:  core.ContentPayload{Text: "Jetstreamin was here!", Color: "#00ff88", Author: "anonymous"},
		}},
		Landmarks: []core.Landmark{{Latitude: 37.7749, Longitude: -122.4194, Label: "San Francisco Marker"}},
	}

	r.Render(ctx, snap)
	out := buf.String()
	assert.Contains(t, out, "Jetstreamin was here!")
	assert.Contains(t, out, "San Francisco Marker")
	assert.Contains(t, out, "location mode")

	buf.Reset()
	moved := core.LocationSample{Latitude: 37.7750, Longitude: -122.4194}
	snap.Location = &moved
	r.Render(ctx, snap)
	assert.Empty(t, buf.String())

	snap.Mode = core.ModeScan
	r.Render(ctx, snap)
	assert.Contains(t, buf.String(), "scan mode")
}

func TestConsoleRenderer_EmptyScene(t *testing.T) {
	out := FormatScene(core.Snapshot{Mode: core.ModeScan})
	assert.Contains(t, out, "no AR content nearby")
}

func TestConsoleRenderer_LocationError(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleRenderer(&buf)
	r.RenderLocationError(core.NewLocationError(core.Timeout, ""))
	assert.Contains(t, buf.String(), "Location Access Required")
	assert.Contains(t, buf.String(), "Location request timeout")
	assert.Contains(t, buf.String(), "/pos <lat> <lng>")
}
