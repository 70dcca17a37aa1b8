package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/pkg/log"
)

var _ core.CmdRouter = (*Router)(nil)

type Router struct {
	commands  map[string]core.Command
	formatter *ResponseFormatter
}

func New(commands []core.Command) *Router {
	c := &Router{
		commands:  make(map[string]core.Command),
		formatter: NewResponseFormatter(),
	}

	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
	}
	return c
}

// Execute runs input when it is a slash command. The bool result reports
// whether input was handled.
func (c *Router) Execute(ctx context.Context, sessionID, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	// Telegram appends the bot name in groups: /nearby@geodrop_bot
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	args := parts[1:]

	cmd, ok := c.commands[name]
	if !ok {
		return c.formatter.Combine(
			c.formatter.Error(fmt.Errorf("unknown command: /%s", name)),
			c.formatter.Tip("send /help to list commands"),
		), true
	}

	log.FromCtx(ctx).Debug().Str("session", sessionID).Str("command", name).Int("args", len(args)).Msg("executing command")

	result, err := cmd.Execute(ctx, sessionID, args)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("command", name).Msg("command failed")
		return c.formatter.Combine(
			c.formatter.Error(err),
			c.formatter.Usage(cmd.Usage()),
		), true
	}
	return result, true
}

// ListCommands returns the registered commands sorted by name.
func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}
