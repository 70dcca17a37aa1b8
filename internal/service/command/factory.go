package command

import (
	"context"
	"time"

	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/internal/service/tracker"
)

// ContentStore is the part of the geofence store the commands drive.
type ContentStore interface {
	Drop(ctx context.Context, req core.DropRequest) (core.ContentRecord, error)
	SetMode(ctx context.Context, mode core.ViewMode) error
	Snapshot() core.Snapshot
	All() []core.ContentRecord
}

// LocationReader reports the tracked position.
type LocationReader interface {
	Current() (core.LocationSample, bool)
	Age() (time.Duration, bool)
	State() tracker.State
}

// PositionSink accepts manually entered fixes.
type PositionSink interface {
	Push(sample core.LocationSample) error
}

func NewCommands(
	store ContentStore,
	location LocationReader,
	sink PositionSink,
) []core.Command {
	cmds := []core.Command{
		NewDropCommand(store),
		NewNearbyCommand(store),
		NewLandmarksCommand(store),
		NewWhereCommand(location),
		NewPosCommand(sink),
		NewModeCommand(store),
		NewContentCommand(store),
	}
	return append(cmds, NewHelpCommand(cmds))
}
