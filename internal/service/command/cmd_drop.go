package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sandevgo/geodrop/internal/core"
)

var colorCheck = validator.New()

type DropCommand struct {
	store     ContentStore
	formatter *ResponseFormatter
}

func NewDropCommand(store ContentStore) *DropCommand {
	return &DropCommand{store: store, formatter: NewResponseFormatter()}
}

func (c *DropCommand) Name() string {
	return "drop"
}

func (c *DropCommand) Description() string {
	return "Drop AR content at your current location"
}

func (c *DropCommand) Usage() string {
	return "/drop [#rrggbb] [@author] [text...]"
}

func (c *DropCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	rec, err := c.store.Drop(ctx, ParseDropArgs(args))
	if err != nil {
		return "", err
	}

	return c.formatter.Combine(
		c.formatter.Success("AR content dropped"),
		c.formatter.Label("ID", fmt.Sprintf("%d", rec.ID)),
		c.formatter.Label("Text", rec.Payload.Text),
		c.formatter.Label("At", fmt.Sprintf("%.6f, %.6f", rec.Location.Latitude, rec.Location.Longitude)),
	), nil
}

// ParseDropArgs reads a leading #color and @author, the rest is the text.
// A leading hashtag that is not a hex color starts the text.
func ParseDropArgs(args []string) core.DropRequest {
	var req core.DropRequest
	i := 0
	for ; i < len(args); i++ {
		a := args[i]
		switch {
		case req.Color == "" && isHexColor(a):
			req.Color = a
		case req.Author == "" && strings.HasPrefix(a, "@") && len(a) > 1:
			req.Author = a[1:]
		default:
			req.Text = strings.Join(args[i:], " ")
			return req
		}
	}
	return req
}

func isHexColor(s string) bool {
	return strings.HasPrefix(s, "#") && colorCheck.Var(s, "hexcolor") == nil
}
