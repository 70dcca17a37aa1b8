package command

import (
	"context"
	"fmt"
)

type LandmarksCommand struct {
	store     ContentStore
	formatter *ResponseFormatter
}

func NewLandmarksCommand(store ContentStore) *LandmarksCommand {
	return &LandmarksCommand{store: store, formatter: NewResponseFormatter()}
}

func (c *LandmarksCommand) Name() string {
	return "landmarks"
}

func (c *LandmarksCommand) Description() string {
	return "List landmarks visible from here"
}

func (c *LandmarksCommand) Usage() string {
	return "/landmarks"
}

func (c *LandmarksCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	snap := c.store.Snapshot()
	if len(snap.Landmarks) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Landmarks"),
			"No landmarks in range.\n",
		), nil
	}

	items := make([]string, 0, len(snap.Landmarks))
	for _, l := range snap.Landmarks {
		items = append(items, c.formatter.Landmark(l, snap.Location))
	}
	return c.formatter.Combine(
		c.formatter.Info(fmt.Sprintf("Landmarks (%d)", len(items))),
		c.formatter.List(items),
	), nil
}
