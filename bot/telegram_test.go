package bot_test

import (
	"testing"

	"ecapbot/bot"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestEventFromUpdate(t *testing.T) {
	from := &tgbotapi.User{ID: 11}
	chat := &tgbotapi.Chat{ID: 22}

	tests := []struct {
		name   string
		update tgbotapi.Update
		want   bot.Event
		ok     bool
	}{
		{
			name: "Start command",
			update: tgbotapi.Update{Message: &tgbotapi.Message{
				From: from, Chat: chat, Text: "/start",
				Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
			}},
			want: bot.Event{UserID: 11, ChatID: 22, Start: true},
			ok:   true,
		},
		{
			name: "Free text",
			update: tgbotapi.Update{Message: &tgbotapi.Message{
				From: from, Chat: chat, Text: " john ",
			}},
			want: bot.Event{UserID: 11, ChatID: 22, Text: " john "},
			ok:   true,
		},
		{
			name: "Button press",
			update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
				ID: "cb1", From: from, Data: bot.ActionQuickCheck,
				Message: &tgbotapi.Message{MessageID: 5, Chat: chat},
			}},
			want: bot.Event{UserID: 11, ChatID: 22, MessageID: 5, CallbackID: "cb1", Action: bot.ActionQuickCheck},
			ok:   true,
		},
		{
			name: "Inline callback without a message is ignored",
			update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
				ID: "cb2", From: from, Data: bot.ActionCheckSaved,
			}},
			ok: false,
		},
		{
			name: "Message without text is ignored",
			update: tgbotapi.Update{Message: &tgbotapi.Message{
				From: from, Chat: chat,
			}},
			ok: false,
		},
		{
			name:   "Empty update is ignored",
			update: tgbotapi.Update{},
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := bot.EventFromUpdate(tt.update)
			if ok != tt.ok {
				t.Fatalf("EventFromUpdate() ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("EventFromUpdate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
