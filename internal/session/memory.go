package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

type memEntry struct {
	session  quiz.Session
	storedAt time.Time
	expires  time.Time
}

type MemoryStore struct {
	mu     sync.RWMutex
	items  map[string]memEntry
	policy Policy
	opts   options
}

func NewMemoryStore(p Policy, opts ...Option) *MemoryStore {
	return &MemoryStore{
		items:  map[string]memEntry{},
		policy: p,
		opts:   buildOptions(opts),
	}
}

func (m *MemoryStore) Put(_ context.Context, s quiz.Session) error {
	now := m.opts.now()
	var evicted []string

	m.mu.Lock()
	if _, exists := m.items[s.ID]; !exists && m.policy.MaxSessions > 0 {
		for len(m.items) >= m.policy.MaxSessions {
			id := m.oldestLocked()
			delete(m.items, id)
			evicted = append(evicted, id)
		}
	}
	m.items[s.ID] = memEntry{session: s, storedAt: now, expires: m.policy.expiresAt(now)}
	m.mu.Unlock()

	for _, id := range evicted {
		m.opts.onRemove(id)
	}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (quiz.Session, error) {
	now := m.opts.now()
	m.mu.RLock()
	e, ok := m.items[id]
	m.mu.RUnlock()
	if !ok {
		return quiz.Session{}, ErrNotFound
	}
	if expired(e.expires, now) {
		m.remove(id, e.storedAt)
		return quiz.Session{}, ErrNotFound
	}
	return e.session, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.items[id]
	delete(m.items, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	m.opts.onRemove(id)
	return nil
}

func (m *MemoryStore) List(_ context.Context, opts ListOpts) ([]quiz.Summary, error) {
	opts = normalizeList(opts)
	now := m.opts.now()

	m.mu.RLock()
	live := make([]memEntry, 0, len(m.items))
	for _, e := range m.items {
		if !expired(e.expires, now) {
			live = append(live, e)
		}
	}
	m.mu.RUnlock()

	sort.Slice(live, func(i, j int) bool { return newer(live[i], live[j]) })
	out := []quiz.Summary{}
	for i := opts.Offset; i < len(live) && len(out) < opts.Limit; i++ {
		out = append(out, live[i].session.Summary())
	}
	return out, nil
}

func (m *MemoryStore) Sweep(_ context.Context) (int, error) {
	now := m.opts.now()
	var gone []string
	m.mu.Lock()
	for id, e := range m.items {
		if expired(e.expires, now) {
			delete(m.items, id)
			gone = append(gone, id)
		}
	}
	m.mu.Unlock()
	for _, id := range gone {
		m.opts.onRemove(id)
	}
	return len(gone), nil
}

// Len counts stored entries, expired ones included until swept.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// remove drops id only if it still holds the entry stored at storedAt, so a
// concurrent Put of a fresh session is not lost.
func (m *MemoryStore) remove(id string, storedAt time.Time) {
	m.mu.Lock()
	e, ok := m.items[id]
	if ok && e.storedAt.Equal(storedAt) {
		delete(m.items, id)
	} else {
		ok = false
	}
	m.mu.Unlock()
	if ok {
		m.opts.onRemove(id)
	}
}

func (m *MemoryStore) oldestLocked() string {
	var (
		oldestID string
		oldest   memEntry
		first    = true
	)
	for id, e := range m.items {
		if first || newer(oldest, e) {
			oldestID, oldest, first = id, e, false
		}
	}
	return oldestID
}

func newer(a, b memEntry) bool {
	if !a.storedAt.Equal(b.storedAt) {
		return a.storedAt.After(b.storedAt)
	}
	return a.session.ID > b.session.ID
}
