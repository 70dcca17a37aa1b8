package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sandevgo/geodrop/internal/core"
)

// PosCommand is the manual location entry fallback.
type PosCommand struct {
	sink      PositionSink
	formatter *ResponseFormatter
}

func NewPosCommand(sink PositionSink) *PosCommand {
	return &PosCommand{sink: sink, formatter: NewResponseFormatter()}
}

func (c *PosCommand) Name() string {
	return "pos"
}

func (c *PosCommand) Description() string {
	return "Set your location manually"
}

func (c *PosCommand) Usage() string {
	return "/pos <lat> <lng> [accuracy]"
}

func (c *PosCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	sample, err := ParsePosition(args)
	if err != nil {
		return "", err
	}
	if err := c.sink.Push(sample); err != nil {
		return "", err
	}
	return c.formatter.Success(fmt.Sprintf("Location set to %s", c.formatter.Location(sample))), nil
}

func ParsePosition(args []string) (core.LocationSample, error) {
	if len(args) < 2 || len(args) > 3 {
		return core.LocationSample{}, fmt.Errorf("expected latitude and longitude")
	}

	vals := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return core.LocationSample{}, fmt.Errorf("invalid number %q", a)
		}
		vals[i] = v
	}

	sample := core.LocationSample{Latitude: vals[0], Longitude: vals[1]}
	if len(vals) == 3 {
		sample.Accuracy = vals[2]
	}
	return sample, nil
}
