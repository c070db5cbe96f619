package bot_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"ecapbot/bot"
	"ecapbot/credentials"
	"ecapbot/models"
	"ecapbot/report"
	"ecapbot/session"
)

type delivery struct {
	chatID    int64
	messageID int
	edit      bool
	reply     bot.Reply
}

type fakeMessenger struct {
	mu        sync.Mutex
	nextID    int
	out       []delivery
	answers   []string
	failEdits bool
}

func (m *fakeMessenger) Send(_ context.Context, chatID int64, r bot.Reply) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.out = append(m.out, delivery{chatID: chatID, messageID: m.nextID, reply: r})
	return m.nextID, nil
}

func (m *fakeMessenger) Edit(_ context.Context, chatID int64, messageID int, r bot.Reply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failEdits {
		return errors.New("message to edit not found")
	}
	m.out = append(m.out, delivery{chatID: chatID, messageID: messageID, edit: true, reply: r})
	return nil
}

func (m *fakeMessenger) AnswerCallback(_ context.Context, _, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, text)
	return nil
}

func (m *fakeMessenger) last() delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.out) == 0 {
		return delivery{}
	}
	return m.out[len(m.out)-1]
}

type memStore struct {
	mu        sync.Mutex
	creds     map[int64]models.Credential
	touched   map[int64]int
	saveErr   error
	deleteErr error
}

func newMemStore() *memStore {
	return &memStore{
		creds:   make(map[int64]models.Credential),
		touched: make(map[int64]int),
	}
}

func (s *memStore) Save(_ context.Context, userID int64, username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return &credentials.StoreError{Op: "save", UserID: userID, Err: s.saveErr}
	}
	s.creds[userID] = models.Credential{UserID: userID, Username: username, Password: password}
	return nil
}

func (s *memStore) Get(_ context.Context, userID int64) (*models.Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.creds[userID]
	if !ok {
		return nil, false
	}
	return &c, true
}

func (s *memStore) TouchLastUsed(_ context.Context, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched[userID]++
}

func (s *memStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return &credentials.StoreError{Op: "delete", UserID: userID, Err: s.deleteErr}
	}
	delete(s.creds, userID)
	return nil
}

func (s *memStore) Ping(context.Context) error { return nil }
func (s *memStore) Close() error               { return nil }

type fetchCall struct {
	username string
	password string
}

type fakeFetcher struct {
	mu     sync.Mutex
	calls  []fetchCall
	resp   *models.AttendanceReport
	err    error
	during func()
}

func (f *fakeFetcher) Fetch(_ context.Context, username, password string) (*models.AttendanceReport, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{username, password})
	during := f.during
	f.mu.Unlock()

	if during != nil {
		during()
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	return &models.AttendanceReport{
		StudentID:         username,
		TotalPresent:      40,
		TotalClasses:      50,
		OverallPercentage: 80,
	}, nil
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	bot      *bot.Bot
	msg      *fakeMessenger
	store    *memStore
	fetcher  *fakeFetcher
	sessions *session.Manager
	clock    *clock
}

func newHarness() *harness {
	c := &clock{now: time.Date(2024, 9, 2, 4, 30, 0, 0, time.UTC)}
	h := &harness{
		msg:      &fakeMessenger{},
		store:    newMemStore(),
		fetcher:  &fakeFetcher{},
		sessions: session.NewManager(session.TTL, c.Now),
		clock:    c,
	}
	h.bot = bot.New(h.sessions, h.store, report.NewPipeline(h.fetcher, c.Now), h.msg)
	return h
}

var bg = context.Background()

const (
	userID = int64(1001)
	chatID = int64(1001)
	menuID = 77
)

func (h *harness) action(action string) {
	h.bot.Handle(bg, bot.Event{
		UserID:     userID,
		ChatID:     chatID,
		MessageID:  menuID,
		CallbackID: "cb-" + action,
		Action:     action,
	})
}

func (h *harness) text(text string) {
	h.bot.Handle(bg, bot.Event{UserID: userID, ChatID: chatID, Text: text})
}

func (h *harness) start() {
	h.bot.Handle(bg, bot.Event{UserID: userID, ChatID: chatID, Start: true})
}
