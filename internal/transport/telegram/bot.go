package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/internal/service/command"
	"github.com/sandevgo/geodrop/internal/service/ui"
	"github.com/sandevgo/geodrop/pkg/log"
	"github.com/sandevgo/geodrop/pkg/retry"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

var _ core.Renderer = (*Bot)(nil)

type PositionSink interface {
	Push(sample core.LocationSample) error
}

// Bot talks to the single owner. Shared and live locations feed the position
// stream, slash commands go to the router, and scene changes are pushed back
// to the owner's chat.
type Bot struct {
	bot       *tele.Bot
	router    core.CmdRouter
	sink      PositionSink
	ownerID   int64
	sender    *sender
	formatter *command.ResponseFormatter

	mu        sync.Mutex
	lastScene string
}

func NewBot(
	ctx context.Context,
	cfg core.TelegramConfig,
	router core.CmdRouter,
	sink PositionSink,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.GetTelegramToken(),
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	var b *tele.Bot
	err := retry.NewDefaultRetrier().Do(ctx, func() error {
		var err error
		b, err = tele.NewBot(pref)
		if errors.Is(err, tele.ErrUnauthorized) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:       b,
		router:    router,
		sink:      sink,
		ownerID:   cfg.GetTelegramOwnerID(),
		sender:    newSender(b),
		formatter: command.NewResponseFormatter(),
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Only the owner may talk to the bot
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleText)
	b.Handle(tele.OnLocation, bot.handleLocation)
	// Live location updates arrive as edits of the original message
	b.Handle(tele.OnEdited, bot.handleLocation)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Int64("owner", b.ownerID).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) baseCtx(c tele.Context) context.Context {
	if ctx, ok := c.Get(baseContextKey).(context.Context); ok {
		return ctx
	}
	return context.Background()
}

func (b *Bot) handleText(c tele.Context) error {
	ctx := b.baseCtx(c)
	sessionID := fmt.Sprintf("telegram-%d", c.Chat().ID)

	out, handled := b.router.Execute(ctx, sessionID, c.Text())
	if !handled {
		out = b.formatter.Combine(
			b.formatter.Info("geodrop"),
			"Share your location (📎 › Location) or send /help.\n",
		)
	}
	return b.sender.sendMarkdown(ctx, c.Chat(), out, false)
}

func (b *Bot) handleLocation(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Location == nil {
		return nil
	}
	ctx := b.baseCtx(c)

	if err := b.sink.Push(SampleFromLocation(msg.Location)); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("rejected telegram location")
		return b.sender.sendMarkdown(ctx, c.Chat(), b.formatter.Error(err), true)
	}
	return nil
}

func SampleFromLocation(l *tele.Location) core.LocationSample {
	s := core.LocationSample{
		Latitude:  float64(l.Lat),
		Longitude: float64(l.Lng),
	}
	if l.HorizontalAccuracy != nil {
		s.Accuracy = float64(*l.HorizontalAccuracy)
	}
	return s
}

// Render sends the scene to the owner when its contents change. Sending is
// asynchronous because Render runs under the store lock.
func (b *Bot) Render(ctx context.Context, snap core.Snapshot) {
	key := ui.SceneKey(snap)

	b.mu.Lock()
	if key == b.lastScene {
		b.mu.Unlock()
		return
	}
	b.lastScene = key
	b.mu.Unlock()

	md := b.formatter.Scene(snap)
	go func() {
		if err := b.sender.sendMarkdown(ctx, tele.ChatID(b.ownerID), md, true); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msg("failed to push AR scene")
		}
	}()
}

// RenderLocationError tells the owner how to recover from a location
// failure. It has the shape of a tracker error listener.
func (b *Bot) RenderLocationError(ctx context.Context) func(err *core.LocationError) {
	return func(err *core.LocationError) {
		md := b.formatter.Combine(
			"📡 **Location Access Required**\n",
			strings.TrimSpace(err.Error())+"\n",
			b.formatter.Tip("share your location or use /pos <lat> <lng>"),
		)
		go func() {
			if sendErr := b.sender.sendMarkdown(ctx, tele.ChatID(b.ownerID), md, false); sendErr != nil {
				log.FromCtx(ctx).Error().Err(sendErr).Msg("failed to send location hint")
			}
		}()
	}
}
