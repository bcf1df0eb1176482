package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type removals struct {
	mu  sync.Mutex
	ids []string
}

func (r *removals) record(id string) {
	r.mu.Lock()
	r.ids = append(r.ids, id)
	r.mu.Unlock()
}

func (r *removals) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.ids...)
}

func sampleSession(id string) quiz.Session {
	return quiz.Session{
		ID: id,
		Questions: []quiz.Question{
			{Number: 1, Text: "2+2?", Kind: quiz.KindInteger, Correct: quiz.IntegerKey{Value: 4}},
			{Number: 2, Text: "pick", Kind: quiz.KindMultipleChoice, Options: map[string]string{"A": "a", "B": "b"}, Correct: quiz.NewMultiKey("A", "B")},
		},
		TotalQuestions: 2,
		CreatedAt:      1700000000,
	}
}

// storeContract runs the behaviour every Store implementation shares.
func storeContract(t *testing.T, mk func(p Policy, opts ...Option) Store) {
	ctx := context.Background()

	t.Run("put get delete", func(t *testing.T) {
		s := mk(Policy{})
		require.NoError(t, s.Put(ctx, sampleSession("a")))

		got, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, sampleSession("a"), got)

		require.NoError(t, s.Delete(ctx, "a"))
		_, err = s.Get(ctx, "a")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "a"), ErrNotFound)
	})

	t.Run("ttl expiry and sweep", func(t *testing.T) {
		clk := newFakeClock()
		rm := &removals{}
		s := mk(Policy{TTL: time.Minute}, WithClock(clk.Now), WithOnRemove(rm.record))
		require.NoError(t, s.Put(ctx, sampleSession("old")))
		clk.Advance(30 * time.Second)
		require.NoError(t, s.Put(ctx, sampleSession("new")))

		clk.Advance(45 * time.Second)
		_, err := s.Get(ctx, "old")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.Get(ctx, "new")
		assert.NoError(t, err)

		list, err := s.List(ctx, ListOpts{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "new", list[0].ID)

		n, err := s.Sweep(ctx)
		require.NoError(t, err)
		assert.LessOrEqual(t, n, 1)
		assert.Contains(t, rm.list(), "old")

		clk.Advance(time.Hour)
		_, err = s.Sweep(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"old", "new"}, rm.list())
	})

	t.Run("max sessions evicts oldest", func(t *testing.T) {
		clk := newFakeClock()
		rm := &removals{}
		s := mk(Policy{MaxSessions: 2}, WithClock(clk.Now), WithOnRemove(rm.record))
		for _, id := range []string{"s1", "s2", "s3"} {
			require.NoError(t, s.Put(ctx, sampleSession(id)))
			clk.Advance(time.Second)
		}
		_, err := s.Get(ctx, "s1")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, []string{"s1"}, rm.list())

		list, err := s.List(ctx, ListOpts{})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "s3", list[0].ID)
		assert.Equal(t, "s2", list[1].ID)
	})

	t.Run("list paging", func(t *testing.T) {
		clk := newFakeClock()
		s := mk(Policy{}, WithClock(clk.Now))
		for _, id := range []string{"p1", "p2", "p3"} {
			require.NoError(t, s.Put(ctx, sampleSession(id)))
			clk.Advance(time.Second)
		}
		page, err := s.List(ctx, ListOpts{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "p2", page[0].ID)
		assert.Equal(t, "p1", page[1].ID)
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, func(p Policy, opts ...Option) Store {
		return NewMemoryStore(p, opts...)
	})
}

func TestMemoryStoreReplaceDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(Policy{MaxSessions: 1})
	require.NoError(t, s.Put(ctx, sampleSession("x")))
	require.NoError(t, s.Put(ctx, sampleSession("x")))
	assert.Equal(t, 1, s.Len())
}

func TestRunSweeperStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunSweeper(ctx, NewMemoryStore(Policy{TTL: time.Millisecond}), time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
