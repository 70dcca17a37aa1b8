package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/internal/providers/position"
	"github.com/sandevgo/geodrop/internal/service/content"
	"github.com/sandevgo/geodrop/internal/service/geofence"
	"github.com/sandevgo/geodrop/internal/service/tracker"
	"github.com/sandevgo/geodrop/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type positionConfig struct{}

func (positionConfig) GetPositionOptions() core.PositionOptions { return core.PositionOptions{} }
func (positionConfig) GetStaleAfter() time.Duration             { return 0 }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()
	feed := position.NewFeed(ctx)
	tr := tracker.NewTracker(feed, positionConfig{})
	repo := content.NewRepository(memory.NewKVStore(), core.DefaultStorageKey)
	store := geofence.NewStore(repo, tr, core.ModeLocation)
	require.NoError(t, store.Start(ctx))
	require.NoError(t, tr.Start(ctx))
	return NewServer(store, feed, tr, strings.NewReader(""), &strings.Builder{})
}

func call(t *testing.T, s *Server, name string, args map[string]any) *mcpproto.CallToolResult {
	t.Helper()
	tool := s.mcp.GetTool(name)
	require.NotNil(t, tool, "tool %s not registered", name)

	req := mcpproto.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *mcpproto.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcpproto.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestTools_Registered(t *testing.T) {
	s := newTestServer(t)
	for _, name := range []string{"report_position", "drop_content", "nearby_content", "landmarks", "current_location"} {
		assert.NotNil(t, s.mcp.GetTool(name), name)
	}
}

func TestDropBeforePosition(t *testing.T) {
	s := newTestServer(t)

	res := call(t, s, "drop_content", map[string]any{"text": "hi"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "report_position")

	res = call(t, s, "current_location", nil)
	assert.Equal(t, "location unknown", text(t, res))
}

func TestReportThenDrop(t *testing.T) {
	s := newTestServer(t)

	res := call(t, s, "report_position", map[string]any{"latitude": 51.5074, "longitude": -0.1278, "accuracy": 5.0})
	require.False(t, res.IsError, text(t, res))

	var snap core.Snapshot
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &snap))
	require.Len(t, snap.Landmarks, 1)
	assert.Equal(t, "London Marker", snap.Landmarks[0].Label)

	res = call(t, s, "drop_content", map[string]any{"text": "mind the gap", "color": "#ff0000"})
	require.False(t, res.IsError, text(t, res))

	res = call(t, s, "nearby_content", nil)
	var nearby []core.ContentRecord
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &nearby))
	require.Len(t, nearby, 1)
	assert.Equal(t, "mind the gap", nearby[0].Payload.Text)

	res = call(t, s, "current_location", nil)
	assert.Contains(t, text(t, res), `"latitude":51.5074`)
}

func TestReportPosition_Invalid(t *testing.T) {
	s := newTestServer(t)

	res := call(t, s, "report_position", map[string]any{"latitude": 10.0})
	assert.True(t, res.IsError)

	res = call(t, s, "report_position", map[string]any{"latitude": 100.0, "longitude": 0.0})
	assert.True(t, res.IsError)
}
