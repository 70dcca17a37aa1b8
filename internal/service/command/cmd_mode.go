package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/geodrop/internal/core"
)

type ModeCommand struct {
	store     ContentStore
	formatter *ResponseFormatter
}

func NewModeCommand(store ContentStore) *ModeCommand {
	return &ModeCommand{store: store, formatter: NewResponseFormatter()}
}

func (c *ModeCommand) Name() string {
	return "mode"
}

func (c *ModeCommand) Description() string {
	return "Show or switch the AR view mode"
}

func (c *ModeCommand) Usage() string {
	return "/mode [" + strings.Join(modeNames(), "|") + "]"
}

func (c *ModeCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("AR Mode"),
			c.formatter.Label("Current", string(c.store.Snapshot().Mode)),
			c.formatter.Label("Available", strings.Join(modeNames(), ", ")),
		), nil
	}

	mode := core.ViewMode(strings.ToLower(args[0]))
	if err := c.store.SetMode(ctx, mode); err != nil {
		return "", err
	}
	return c.formatter.Success(fmt.Sprintf("Mode switched to %s", mode)), nil
}

func modeNames() []string {
	modes := core.ViewModes()
	out := make([]string, 0, len(modes))
	for _, m := range modes {
		out = append(out, string(m))
	}
	return out
}
