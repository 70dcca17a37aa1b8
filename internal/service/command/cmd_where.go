package command

import (
	"context"
	"time"

	"github.com/sandevgo/geodrop/internal/service/tracker"
)

type WhereCommand struct {
	location  LocationReader
	formatter *ResponseFormatter
}

func NewWhereCommand(location LocationReader) *WhereCommand {
	return &WhereCommand{location: location, formatter: NewResponseFormatter()}
}

func (c *WhereCommand) Name() string {
	return "where"
}

func (c *WhereCommand) Description() string {
	return "Show the tracked location"
}

func (c *WhereCommand) Usage() string {
	return "/where"
}

func (c *WhereCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	sample, ok := c.location.Current()
	if !ok {
		return c.formatter.Combine(
			c.formatter.Info("Current Location"),
			"Location unknown.\n",
			c.formatter.Tip("share your location or use /pos <lat> <lng>"),
		), nil
	}

	state := c.location.State()
	out := []string{
		c.formatter.Info("Current Location"),
		c.formatter.Label("Position", c.formatter.Location(sample)),
		c.formatter.Label("Status", state.String()),
	}
	if age, ok := c.location.Age(); ok {
		out = append(out, c.formatter.Label("Age", age.Round(time.Second).String()))
	}
	if state == tracker.Stale {
		out = append(out, c.formatter.Tip("drops need a fresh fix, share your location or use /pos <lat> <lng>"))
	}
	return c.formatter.Combine(out...), nil
}
