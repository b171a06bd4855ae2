package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"
)

// StartTelegramBot registers the conversation handlers and starts long
// polling in the background. It returns nil without error when token is empty.
func StartTelegramBot(ctx context.Context, token string, conv *Conversation, log zerolog.Logger) (*tele.Bot, error) {
	log = log.With().Str("component", "telegram").Logger()
	if token == "" {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil, nil
	}

	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error().Err(err).Msg("telegram handler error")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	registerHandlers(ctx, b, conv)

	go func() {
		<-ctx.Done()
		b.Stop()
	}()
	log.Info().Str("bot", b.Me.Username).Msg("Telegram bot started")
	go b.Start()
	return b, nil
}

type handlerRegistrar interface {
	Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc)
}

func registerHandlers(ctx context.Context, b handlerRegistrar, conv *Conversation) {
	languageStart := func(c tele.Context) error {
		return conv.HandleLanguageStart(ctx, senderOf(c), teleResponder{c})
	}
	b.Handle("/start", languageStart)
	b.Handle("/language", languageStart)

	b.Handle("/forex", func(c tele.Context) error {
		return conv.HandleHorizonStart(ctx, senderOf(c), teleResponder{c})
	})

	b.Handle("/help", func(c tele.Context) error {
		return conv.HandleHelp(ctx, senderOf(c), teleResponder{c})
	})

	b.Handle(tele.OnText, func(c tele.Context) error {
		return conv.HandleText(ctx, senderOf(c), c.Text(), teleResponder{c})
	})

	b.Handle(tele.OnCallback, func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}
		return routeCallback(ctx, conv, senderOf(c), cb.Data, teleResponder{c})
	})
}

func routeCallback(ctx context.Context, conv *Conversation, u User, data string, r Responder) error {
	data = callbackData(data)
	switch {
	case strings.HasPrefix(data, languageCallbackPrefix):
		return conv.HandleLanguageChoice(ctx, u, data, r)
	case strings.HasPrefix(data, horizonCallbackPrefix):
		return conv.HandleHorizonChoice(ctx, u, data, r)
	}
	return r.Acknowledge("")
}

// callbackData strips the telebot unique-button marker and separator.
func callbackData(raw string) string {
	data := strings.TrimPrefix(strings.TrimSpace(raw), "\f")
	if i := strings.IndexByte(data, '|'); i >= 0 {
		data = data[:i]
	}
	return data
}

func senderOf(c tele.Context) User {
	s := c.Sender()
	if s == nil {
		return User{}
	}
	return User{ID: s.ID, Username: s.Username}
}

type teleResponder struct {
	c tele.Context
}

func (r teleResponder) Reply(text string, buttons []Button) error {
	if len(buttons) == 0 {
		return r.c.Send(text)
	}
	return r.c.Send(text, inlineKeyboard(buttons))
}

func (r teleResponder) Edit(text string, buttons []Button) error {
	if len(buttons) == 0 {
		return r.c.Edit(text)
	}
	return r.c.Edit(text, inlineKeyboard(buttons))
}

func (r teleResponder) Acknowledge(text string) error {
	if r.c.Callback() == nil {
		return nil
	}
	return r.c.Respond(&tele.CallbackResponse{Text: text})
}

// inlineKeyboard lays out one button per row.
func inlineKeyboard(buttons []Button) *tele.ReplyMarkup {
	rows := make([][]tele.InlineButton, 0, len(buttons))
	for _, btn := range buttons {
		rows = append(rows, []tele.InlineButton{{Text: btn.Text, Data: btn.Data}})
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}
