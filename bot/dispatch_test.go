package bot_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"ecapbot/bot"
)

func TestDispatchKeepsEachUserInOrder(t *testing.T) {
	h := newHarness()
	const users = 300

	events := make(chan bot.Event, users*3)
	for u := int64(1); u <= users; u++ {
		events <- bot.Event{UserID: u, ChatID: u, MessageID: 1, CallbackID: "cb", Action: bot.ActionSaveCreds}
	}
	for _, text := range []string{"john", "secret123"} {
		for u := int64(1); u <= users; u++ {
			events <- bot.Event{UserID: u, ChatID: u, Text: text}
		}
	}
	close(events)

	if err := bot.Dispatch(bg, events, h.bot, 16); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	for u := int64(1); u <= users; u++ {
		cred, ok := h.store.Get(bg, u)
		if !ok {
			t.Errorf("user %d: no credential saved", u)
			continue
		}
		if cred.Username != "john" || cred.Password != "secret123" {
			t.Errorf("user %d: saved %s/%s, want john/secret123", u, cred.Username, cred.Password)
		}
	}
}

type recordingHandler struct {
	mu       sync.Mutex
	seen     map[int64][]string
	released chan struct{}
}

func (r *recordingHandler) Handle(_ context.Context, ev bot.Event) {
	// User 1 waits until user 2 has been handled.
	if ev.UserID == 1 {
		select {
		case <-r.released:
		case <-time.After(2 * time.Second):
		}
	}
	r.mu.Lock()
	r.seen[ev.UserID] = append(r.seen[ev.UserID], ev.Text)
	r.mu.Unlock()
	if ev.UserID == 2 {
		close(r.released)
	}
}

func TestDispatchRunsUsersInParallel(t *testing.T) {
	r := &recordingHandler{seen: make(map[int64][]string), released: make(chan struct{})}
	events := make(chan bot.Event, 3)
	events <- bot.Event{UserID: 1, Text: "a"}
	events <- bot.Event{UserID: 1, Text: "b"}
	events <- bot.Event{UserID: 2, Text: "c"}
	close(events)

	start := time.Now()
	if err := bot.Dispatch(bg, events, r, 2); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Dispatch() took %s, user 2 was blocked behind user 1", elapsed)
	}
	if got := r.seen[1]; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("user 1 events = %q, want [a b]", got)
	}
}

func TestDispatchStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(bg)
	events := make(chan bot.Event)
	done := make(chan error, 1)
	go func() { done <- bot.Dispatch(ctx, events, newHarness().bot, 4) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Dispatch() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Dispatch() did not return after cancel")
	}
}
