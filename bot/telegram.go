package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram is the Messenger and update source for the Telegram Bot API.
type Telegram struct {
	api *tgbotapi.BotAPI
}

func NewTelegram(token string) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	log.Printf("[BOT] authorized as @%s", api.Self.UserName)
	return &Telegram{api: api}, nil
}

func (t *Telegram) Send(_ context.Context, chatID int64, r Reply) (int, error) {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	msg.ParseMode = tgbotapi.ModeHTML
	if len(r.Keyboard) > 0 {
		msg.ReplyMarkup = inlineMarkup(r.Keyboard)
	}
	sent, err := t.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (t *Telegram) Edit(_ context.Context, chatID int64, messageID int, r Reply) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, r.Text)
	edit.ParseMode = tgbotapi.ModeHTML
	if len(r.Keyboard) > 0 {
		markup := inlineMarkup(r.Keyboard)
		edit.ReplyMarkup = &markup
	}
	_, err := t.api.Send(edit)
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}

func (t *Telegram) AnswerCallback(_ context.Context, callbackID, text string) error {
	_, err := t.api.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

// Run long-polls for updates and hands them to Dispatch. It returns after
// ctx is done and every in-flight handler has finished.
func (t *Telegram) Run(ctx context.Context, h Handler, workers int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 10
	u.AllowedUpdates = []string{"message", "callback_query"}
	updates := t.api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		t.api.StopReceivingUpdates()
	}()

	events := make(chan Event)
	go func() {
		defer close(events)
		for update := range updates {
			ev, ok := EventFromUpdate(update)
			if !ok {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return Dispatch(ctx, events, h, workers)
}

// EventFromUpdate converts a Telegram update into an Event. Updates the bot
// does not act on report false.
func EventFromUpdate(u tgbotapi.Update) (Event, bool) {
	if cq := u.CallbackQuery; cq != nil {
		if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil || cq.Data == "" {
			return Event{}, false
		}
		return Event{
			UserID:     cq.From.ID,
			ChatID:     cq.Message.Chat.ID,
			MessageID:  cq.Message.MessageID,
			CallbackID: cq.ID,
			Action:     cq.Data,
		}, true
	}

	m := u.Message
	if m == nil || m.From == nil || m.Chat == nil || m.Text == "" {
		return Event{}, false
	}
	ev := Event{
		UserID: m.From.ID,
		ChatID: m.Chat.ID,
	}
	if m.IsCommand() && m.Command() == "start" {
		ev.Start = true
		return ev, true
	}
	ev.Text = m.Text
	return ev, true
}

func inlineMarkup(kb Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Action))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
