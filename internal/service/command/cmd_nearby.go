package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/geodrop/internal/service/geofence"
)

type NearbyCommand struct {
	store     ContentStore
	formatter *ResponseFormatter
}

func NewNearbyCommand(store ContentStore) *NearbyCommand {
	return &NearbyCommand{store: store, formatter: NewResponseFormatter()}
}

func (c *NearbyCommand) Name() string {
	return "nearby"
}

func (c *NearbyCommand) Description() string {
	return fmt.Sprintf("List content within %.0f m", geofence.NearbyRadius)
}

func (c *NearbyCommand) Usage() string {
	return "/nearby"
}

func (c *NearbyCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	snap := c.store.Snapshot()
	if snap.Location == nil {
		return c.formatter.Combine(
			c.formatter.Info("Nearby AR Content"),
			c.formatter.Tip("no location yet, share it or use /pos <lat> <lng>"),
		), nil
	}

	if len(snap.Nearby) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Nearby AR Content"),
			"Nothing here yet. Be the first: /drop hello\n",
		), nil
	}

	items := make([]string, 0, len(snap.Nearby))
	for _, rec := range snap.Nearby {
		items = append(items, c.formatter.Record(rec, snap.Location))
	}
	return c.formatter.Combine(
		c.formatter.Info(fmt.Sprintf("Nearby AR Content (%d)", len(items))),
		c.formatter.List(items),
	), nil
}
