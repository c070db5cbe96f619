// Package bot runs the attendance conversation: it reads user events,
// advances the per-user session, and talks to the credential store and the
// report pipeline.
package bot

import (
	"context"
	"errors"
	"log"
	"strings"

	"ecapbot/credentials"
	"ecapbot/models"
	"ecapbot/report"
	"ecapbot/session"
)

// Bot implements Handler. It is safe for concurrent use across users.
type Bot struct {
	sessions *session.Manager
	store    credentials.Store
	pipeline *report.Pipeline
	msg      Messenger
}

func New(sessions *session.Manager, store credentials.Store, pipeline *report.Pipeline, msg Messenger) *Bot {
	return &Bot{
		sessions: sessions,
		store:    store,
		pipeline: pipeline,
		msg:      msg,
	}
}

// Handle dispatches one event.
func (b *Bot) Handle(ctx context.Context, ev Event) {
	switch {
	case ev.Start:
		b.handleStart(ctx, ev)
	case ev.Action != "":
		b.handleAction(ctx, ev)
	default:
		b.handleText(ctx, ev)
	}
}

func (b *Bot) handleStart(ctx context.Context, ev Event) {
	_, saved := b.store.Get(ctx, ev.UserID)
	b.send(ctx, ev.ChatID, welcomeReply(saved))
}

func (b *Bot) handleAction(ctx context.Context, ev Event) {
	notice := ""
	if _, status := b.sessions.Lookup(ev.UserID); status == session.Expired {
		notice = "⏰ Session expired. Starting over."
	}
	if err := b.msg.AnswerCallback(ctx, ev.CallbackID, notice); err != nil {
		log.Printf("[BOT] answer callback user=%d: %v", ev.UserID, err)
	}

	switch ev.Action {
	case ActionCheckSaved:
		b.checkSaved(ctx, ev)
	case ActionSaveCreds:
		b.sessions.Set(ev.UserID, models.StateWaitingUsername, nil)
		b.deliver(ctx, ev.ChatID, ev.MessageID, askUsernameReply)
	case ActionUpdateCreds:
		b.sessions.Set(ev.UserID, models.StateWaitingUsername, nil)
		b.deliver(ctx, ev.ChatID, ev.MessageID, askNewUsernameReply)
	case ActionQuickCheck:
		b.sessions.Set(ev.UserID, models.StateWaitingQuickCheckUsername, nil)
		b.deliver(ctx, ev.ChatID, ev.MessageID, askQuickUsernameReply)
	case ActionRemoveAccount:
		b.deliver(ctx, ev.ChatID, ev.MessageID, confirmRemoveReply)
	case ActionConfirmRemove:
		b.confirmRemove(ctx, ev)
	case ActionBackToMenu:
		b.sessions.Delete(ev.UserID)
		_, saved := b.store.Get(ctx, ev.UserID)
		b.deliver(ctx, ev.ChatID, ev.MessageID, menuReply(saved))
	default:
		log.Printf("[BOT] unknown action %q user=%d", ev.Action, ev.UserID)
	}
}

func (b *Bot) checkSaved(ctx context.Context, ev Event) {
	cred, ok := b.store.Get(ctx, ev.UserID)
	if !ok {
		b.deliver(ctx, ev.ChatID, ev.MessageID, noSavedReply)
		return
	}

	b.deliver(ctx, ev.ChatID, ev.MessageID, checkingSavedReply)
	gen := b.sessions.Generation(ev.UserID)
	if b.check(ctx, ev.UserID, ev.ChatID, ev.MessageID, gen, cred.Username, cred.Password) {
		b.store.TouchLastUsed(ctx, ev.UserID)
	}
}

func (b *Bot) confirmRemove(ctx context.Context, ev Event) {
	b.sessions.Delete(ev.UserID)
	if err := b.store.Delete(ctx, ev.UserID); err != nil {
		b.deliver(ctx, ev.ChatID, ev.MessageID, storeFailureReply(userMessage(err)))
		return
	}
	b.deliver(ctx, ev.ChatID, ev.MessageID, removedReply)
}

func (b *Bot) handleText(ctx context.Context, ev Event) {
	s, status := b.sessions.Lookup(ev.UserID)
	switch status {
	case session.Absent:
		b.send(ctx, ev.ChatID, idleReply)
		return
	case session.Expired:
		b.send(ctx, ev.ChatID, expiredReply)
		return
	}

	// Credentials are opaque: only boundary whitespace is removed.
	text := strings.TrimSpace(ev.Text)

	switch {
	case s.State == models.StateWaitingUsername:
		b.sessions.Set(ev.UserID, models.StateWaitingPassword, &models.PendingCredential{Username: text})
		b.send(ctx, ev.ChatID, askPasswordReply)

	case s.State == models.StateWaitingPassword && s.Data != nil:
		b.sessions.Delete(ev.UserID)
		if err := b.store.Save(ctx, ev.UserID, s.Data.Username, text); err != nil {
			b.send(ctx, ev.ChatID, storeFailureReply(userMessage(err)))
			return
		}
		b.send(ctx, ev.ChatID, savedReply)

	case s.State == models.StateWaitingQuickCheckUsername:
		b.sessions.Set(ev.UserID, models.StateWaitingQuickCheckPassword, &models.PendingCredential{Username: text})
		b.send(ctx, ev.ChatID, askPasswordReply)

	case s.State == models.StateWaitingQuickCheckPassword && s.Data != nil:
		b.sessions.Delete(ev.UserID)
		statusID := b.send(ctx, ev.ChatID, checkingReply)
		gen := b.sessions.Generation(ev.UserID)
		if b.check(ctx, ev.UserID, ev.ChatID, statusID, gen, s.Data.Username, text) {
			b.send(ctx, ev.ChatID, quickTipReply)
		}

	default:
		log.Printf("[BOT] unexpected input user=%d state=%s", ev.UserID, s.State)
		b.sessions.Delete(ev.UserID)
		b.send(ctx, ev.ChatID, unexpectedReply)
	}
}

// check fetches and delivers a report into messageID. The result is dropped
// if the user's session changed while the fetch was outstanding. It reports
// whether a report was delivered.
func (b *Bot) check(ctx context.Context, userID, chatID int64, messageID int, gen uint64, username, password string) bool {
	text, err := b.pipeline.FetchAndRender(ctx, username, password)

	if b.sessions.Generation(userID) != gen {
		log.Printf("[BOT] discarding attendance result user=%d: conversation moved on", userID)
		return false
	}
	if err != nil {
		log.Printf("[BOT] attendance check failed user=%d: %v", userID, err)
		b.deliver(ctx, chatID, messageID, failureReply(report.RenderFailure(err)))
		return false
	}
	b.deliver(ctx, chatID, messageID, reportReply(text))
	return true
}

// deliver edits messageID in place and falls back to a new message when
// there is nothing to edit or the edit fails.
func (b *Bot) deliver(ctx context.Context, chatID int64, messageID int, r Reply) {
	if messageID != 0 {
		err := b.msg.Edit(ctx, chatID, messageID, r)
		if err == nil {
			return
		}
		log.Printf("[BOT] edit message %d failed, sending new message: %v", messageID, err)
	}
	b.send(ctx, chatID, r)
}

func (b *Bot) send(ctx context.Context, chatID int64, r Reply) int {
	id, err := b.msg.Send(ctx, chatID, r)
	if err != nil {
		log.Printf("[BOT] send to chat %d failed: %v", chatID, err)
		return 0
	}
	return id
}

func userMessage(err error) string {
	var storeErr *credentials.StoreError
	if errors.As(err, &storeErr) {
		return storeErr.UserMessage()
	}
	return "Please try again."
}
