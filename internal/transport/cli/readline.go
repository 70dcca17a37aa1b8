package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/pkg/conv"
	"github.com/sandevgo/geodrop/pkg/log"
)

const defaultSessionID = "cli-local"

type ReadLine struct {
	router core.CmdRouter
	rl     *readline.Instance
}

func NewReadLine(router core.CmdRouter, historyFile string) (*ReadLine, error) {
	if err := os.MkdirAll(filepath.Dir(historyFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	items := make([]readline.PrefixCompleterInterface, 0)
	for _, cmd := range router.ListCommands() {
		items = append(items, readline.PcItem("/"+cmd.Name()))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "📍 ",
		HistoryFile:     historyFile,
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init readline: %w", err)
	}

	return &ReadLine{router: router, rl: rl}, nil
}

// Stdout is the terminal writer that does not clobber the prompt.
func (r *ReadLine) Stdout() io.Writer {
	return r.rl.Stdout()
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("geodrop console started. Type /help for commands, 'exit' to quit.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			return nil
		}
		if line == "" {
			continue
		}

		fmt.Fprintln(r.rl.Stdout(), Dispatch(ctx, r.router, line))
	}
}

// Dispatch runs line as a command. A bare command name gets its slash added.
func Dispatch(ctx context.Context, router core.CmdRouter, line string) string {
	if !strings.HasPrefix(line, "/") {
		line = "/" + line
	}
	out, _ := router.Execute(ctx, defaultSessionID, line)
	return conv.MarkdownToText([]byte(out))
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
