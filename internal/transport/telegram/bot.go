package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/loopbot/internal/config"
	"github.com/sandevgo/loopbot/internal/core"
	"github.com/sandevgo/loopbot/pkg/conv"
	"github.com/sandevgo/loopbot/pkg/log"
)

const baseContextKey = "base_context"

type Bot struct {
	bot    *tele.Bot
	cfg    *config.TelegramConfig
	conv   core.Conversation
	router core.CommandRouter
	sender *sender
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	conversation core.Conversation,
	router core.CommandRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:    b,
		cfg:    cfg,
		conv:   conversation,
		router: router,
		sender: newSender(b),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || !cfg.IsAllowed(c.Sender().ID) {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	sessionID := SessionID(c.Chat().ID)

	_ = c.Notify(tele.Typing)

	md := Reply(ctx, b.router, b.conv, sessionID, c.Text())
	if err := b.sender.sendMarkdown(ctx, c.Chat(), md, false); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("session_id", sessionID).Msg("failed to send telegram reply")
	}
	return nil
}

func SessionID(chatID int64) string {
	return fmt.Sprintf("telegram-%d", chatID)
}

// Reply routes slash commands and sends everything else to the
// conversation. The result is markdown for sendMarkdown.
func Reply(ctx context.Context, router core.CommandRouter, conversation core.Conversation, sessionID, text string) string {
	if router != nil {
		if out, ok := router.Execute(ctx, sessionID, text); ok {
			return out
		}
	}

	resp := conversation.Converse(ctx, core.Request{Text: text, SessionID: sessionID})
	return renderResponse(resp)
}

func renderResponse(resp core.Response) string {
	md := conv.EscapeMarkdown(resp.Speech)
	if resp.NeedsClarification != nil && *resp.NeedsClarification {
		md += "\n\n_Reply **yes** to see the rest._"
	}
	return strings.TrimSpace(md)
}
