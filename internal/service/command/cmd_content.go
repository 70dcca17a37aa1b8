package command

import (
	"context"
	"fmt"
	"strconv"
)

const defaultContentLimit = 20

// ContentCommand lists every stored item, newest first.
type ContentCommand struct {
	store     ContentStore
	formatter *ResponseFormatter
}

func NewContentCommand(store ContentStore) *ContentCommand {
	return &ContentCommand{store: store, formatter: NewResponseFormatter()}
}

func (c *ContentCommand) Name() string {
	return "content"
}

func (c *ContentCommand) Description() string {
	return "List all stored AR content"
}

func (c *ContentCommand) Usage() string {
	return "/content [limit]"
}

func (c *ContentCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	limit := defaultContentLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return "", fmt.Errorf("limit must be a positive integer")
		}
		limit = n
	}

	all := c.store.All()
	if len(all) == 0 {
		return c.formatter.Combine(c.formatter.Info("Stored AR Content"), "Nothing stored yet.\n"), nil
	}

	ref := c.store.Snapshot().Location
	items := make([]string, 0, limit)
	for i := len(all) - 1; i >= 0 && len(items) < limit; i-- {
		items = append(items, c.formatter.Record(all[i], ref))
	}
	return c.formatter.Combine(
		c.formatter.Info(fmt.Sprintf("Stored AR Content (%d of %d)", len(items), len(all))),
		c.formatter.List(items),
	), nil
}
