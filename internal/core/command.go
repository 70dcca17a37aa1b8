package core

import "context"

type CmdRouter interface {
	Execute(ctx context.Context, sessionID, input string) (string, bool)
	ListCommands() []Command
}

// Command is a slash command shared by the interactive transports.
type Command interface {
	Name() string
	Description() string
	Usage() string
	Execute(ctx context.Context, sessionID string, args []string) (string, error)
}
