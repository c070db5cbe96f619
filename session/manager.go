// Package session keeps the per-user conversation state of the bot. State is
// process-scoped and rebuilt empty on restart.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"ecapbot/models"
)

const (
	// TTL is how long a conversation step stays valid without activity.
	TTL = 5 * time.Minute
	// SweepInterval is how often abandoned sessions are removed.
	SweepInterval = time.Minute
)

// Status is the result of looking up a user's session.
type Status int

const (
	// Absent means the user is idle.
	Absent Status = iota
	Active
	// Expired means a session existed but outlived the TTL. It has been
	// removed by the lookup that reported it.
	Expired
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Expired:
		return "expired"
	default:
		return "absent"
	}
}

type generation struct {
	seq uint64
	at  time.Time
}

// Manager owns the session table. Every user has at most one session and the
// last write wins.
type Manager struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[int64]models.Session
	gens     map[int64]generation
	seq      uint64
}

// NewManager returns an empty table. A nil clock means time.Now.
func NewManager(ttl time.Duration, now func() time.Time) *Manager {
	if ttl <= 0 {
		ttl = TTL
	}
	if now == nil {
		now = time.Now
	}
	return &Manager{
		ttl:      ttl,
		now:      now,
		sessions: make(map[int64]models.Session),
		gens:     make(map[int64]generation),
	}
}

// Lookup returns the user's session. A session older than the TTL is
// deleted and reported as Expired whether or not the sweeper has run.
func (m *Manager) Lookup(userID int64) (models.Session, Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return models.Session{}, Absent
	}
	now := m.now()
	if now.Sub(s.Timestamp) > m.ttl {
		delete(m.sessions, userID)
		m.bump(userID, now)
		log.Printf("[SESSION] expired user=%d state=%s", userID, s.State)
		return s, Expired
	}
	return s, Active
}

// Set overwrites the user's session with a fresh timestamp.
func (m *Manager) Set(userID int64, state models.State, data *models.PendingCredential) models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	s := models.Session{
		UserID:    userID,
		State:     state,
		Data:      data,
		Timestamp: now,
	}
	m.sessions[userID] = s
	m.bump(userID, now)
	return s
}

// Delete returns the user to idle.
func (m *Manager) Delete(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	m.bump(userID, m.now())
}

// Generation identifies the user's latest transition. Work started under one
// generation is stale once the generation changes.
func (m *Manager) Generation(userID int64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gens[userID].seq
}

func (m *Manager) bump(userID int64, at time.Time) {
	m.seq++
	m.gens[userID] = generation{seq: m.seq, at: at}
}

// Len reports how many sessions are stored, expired ones included.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes every session older than the TTL and returns how many were
// removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for userID, s := range m.sessions {
		if now.Sub(s.Timestamp) > m.ttl {
			delete(m.sessions, userID)
			m.bump(userID, now)
			removed++
		}
	}
	for userID, g := range m.gens {
		if _, ok := m.sessions[userID]; !ok && now.Sub(g.at) > m.ttl {
			delete(m.gens, userID)
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done. Extra tasks run on
// the same tick after the sweep.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration, tasks ...func(context.Context)) {
	if interval <= 0 {
		interval = SweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.Printf("[SESSION] swept %d expired sessions", n)
			}
			for _, task := range tasks {
				task(ctx)
			}
		}
	}
}
