package command

import (
	"context"
	"fmt"
	"sort"

	"github.com/sandevgo/geodrop/internal/core"
)

type HelpCommand struct {
	commands  []commandInfo
	formatter *ResponseFormatter
}

type commandInfo struct {
	name, usage, description string
}

func NewHelpCommand(commands []core.Command) *HelpCommand {
	infos := make([]commandInfo, 0, len(commands)+1)
	for _, c := range commands {
		infos = append(infos, commandInfo{name: c.Name(), usage: c.Usage(), description: c.Description()})
	}
	infos = append(infos, commandInfo{name: "help", usage: "/help", description: "Show this list"})
	sort.Slice(infos, func(i, j int) bool { return infos[i].name < infos[j].name })
	return &HelpCommand{commands: infos, formatter: NewResponseFormatter()}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "Show this list"
}

func (c *HelpCommand) Usage() string {
	return "/help"
}

func (c *HelpCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	items := make([]string, 0, len(c.commands))
	for _, info := range c.commands {
		items = append(items, fmt.Sprintf("`%s` %s", info.usage, info.description))
	}
	return c.formatter.Combine(c.formatter.Info("Commands"), c.formatter.List(items)), nil
}
