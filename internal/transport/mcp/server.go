// Package mcp exposes geodrop as Model Context Protocol tools over stdio so
// an agent can report positions and drop content.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/pkg/log"
)

type ContentStore interface {
	Drop(ctx context.Context, req core.DropRequest) (core.ContentRecord, error)
	Snapshot() core.Snapshot
}

type PositionSink interface {
	Push(sample core.LocationSample) error
}

type LocationReader interface {
	Current() (core.LocationSample, bool)
}

type Server struct {
	mcp      *server.MCPServer
	store    ContentStore
	sink     PositionSink
	location LocationReader
	in       io.Reader
	out      io.Writer
}

func NewServer(store ContentStore, sink PositionSink, location LocationReader, in io.Reader, out io.Writer) *Server {
	s := &Server{
		mcp:      server.NewMCPServer(core.AppName, core.AppVersion, server.WithToolCapabilities(false)),
		store:    store,
		sink:     sink,
		location: location,
		in:       in,
		out:      out,
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcpproto.NewTool("report_position",
		mcpproto.WithDescription("Report the device position. Nearby content and landmarks are recomputed."),
		mcpproto.WithNumber("latitude", mcpproto.Required(), mcpproto.Min(-90), mcpproto.Max(90)),
		mcpproto.WithNumber("longitude", mcpproto.Required(), mcpproto.Min(-180), mcpproto.Max(180)),
		mcpproto.WithNumber("accuracy", mcpproto.Description("Accuracy radius in meters"), mcpproto.Min(0)),
	), s.reportPosition)

	s.mcp.AddTool(mcpproto.NewTool("drop_content",
		mcpproto.WithDescription("Drop an AR text item at the current position"),
		mcpproto.WithString("text", mcpproto.MaxLength(280)),
		mcpproto.WithString("color", mcpproto.Description("Hex color like #00ff88")),
		mcpproto.WithString("author", mcpproto.MaxLength(64)),
	), s.dropContent)

	s.mcp.AddTool(mcpproto.NewTool("nearby_content",
		mcpproto.WithDescription("List AR content within 1000 m of the current position"),
	), s.nearbyContent)

	s.mcp.AddTool(mcpproto.NewTool("landmarks",
		mcpproto.WithDescription("List landmarks within 10 km of the current position"),
	), s.landmarks)

	s.mcp.AddTool(mcpproto.NewTool("current_location",
		mcpproto.WithDescription("Return the last known position"),
	), s.currentLocation)
}

func (s *Server) reportPosition(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	lat, err := req.RequireFloat("latitude")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	lng, err := req.RequireFloat("longitude")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	sample := core.LocationSample{Latitude: lat, Longitude: lng, Accuracy: req.GetFloat("accuracy", 0)}
	if err := s.sink.Push(sample); err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	return mcpproto.NewToolResultJSON(s.store.Snapshot())
}

func (s *Server) dropContent(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	rec, err := s.store.Drop(ctx, core.DropRequest{
		Text:   req.GetString("text", ""),
		Color:  req.GetString("color", ""),
		Author: req.GetString("author", ""),
	})
	if err != nil {
		if errors.Is(err, core.ErrLocationRequired) || errors.Is(err, core.ErrLocationStale) {
			return mcpproto.NewToolResultError(err.Error() + "; call report_position first"), nil
		}
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	return mcpproto.NewToolResultJSON(rec)
}

func (s *Server) nearbyContent(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	snap := s.store.Snapshot()
	if snap.Location == nil {
		return mcpproto.NewToolResultError(core.ErrLocationRequired.Error()), nil
	}
	return mcpproto.NewToolResultJSON(snap.Nearby)
}

func (s *Server) landmarks(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	return mcpproto.NewToolResultJSON(s.store.Snapshot().Landmarks)
}

func (s *Server) currentLocation(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	sample, ok := s.location.Current()
	if !ok {
		return mcpproto.NewToolResultText("location unknown"), nil
	}
	return mcpproto.NewToolResultJSON(sample)
}

// Start serves MCP over the configured streams until ctx ends or input
// closes.
func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("serving MCP tools over stdio")
	if err := server.NewStdioServer(s.mcp).Listen(ctx, s.in, s.out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve MCP: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}
