package querycache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func counter(values ...[]string) (func(context.Context) ([]string, error), *int) {
	calls := 0
	return func(context.Context) ([]string, error) {
		v := values[calls%len(values)]
		calls++
		return v, nil
	}, &calls
}

func TestQuery_ServesFreshEntryFromCache(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(WithClock(clock.Now))
	fetch, calls := counter([]string{"a"}, []string{"a", "b"})

	got, err := Query(context.Background(), c, "submissions", fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)

	clock.Advance(4 * time.Minute)
	got, err = Query(context.Background(), c, "submissions", fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, 1, *calls)
}

func TestQuery_RefetchesAfterStaleTime(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(WithClock(clock.Now))
	fetch, calls := counter([]string{"a"}, []string{"a", "b"})

	_, err := Query(context.Background(), c, "submissions", fetch)
	require.NoError(t, err)
	assert.False(t, c.IsStale("submissions"))

	clock.Advance(DefaultStaleTime)
	assert.True(t, c.IsStale("submissions"))

	got, err := Query(context.Background(), c, "submissions", fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 2, *calls)
}

func TestInvalidate_MarksStaleButKeepsData(t *testing.T) {
	c := New()
	fetch, calls := counter([]string{"a"}, []string{"a", "b"})

	_, err := Query(context.Background(), c, "submissions", fetch)
	require.NoError(t, err)

	c.Invalidate("submissions")
	assert.True(t, c.IsStale("submissions"))
	require.Contains(t, c.entries, "submissions")
	assert.Equal(t, []string{"a"}, c.entries["submissions"].data)

	got, err := Query(context.Background(), c, "submissions", fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 2, *calls)
	assert.False(t, c.IsStale("submissions"))
}

func TestInvalidate_CoversChildKeys(t *testing.T) {
	c := New()
	c.store("submissions", 1, c.generation)
	c.store("submissions/42", 2, c.generation)
	c.store("submissionsx", 3, c.generation)

	c.Invalidate("submissions")

	assert.True(t, c.IsStale("submissions"))
	assert.True(t, c.IsStale("submissions/42"))
	assert.False(t, c.IsStale("submissionsx"))
}

func TestQuery_ErrorKeepsPreviousEntry(t *testing.T) {
	c := New()
	c.store("submissions", []string{"old"}, c.generation)
	c.Invalidate("submissions")

	_, err := Query(context.Background(), c, "submissions", func(context.Context) ([]string, error) {
		return nil, errors.New("backend down")
	})
	require.Error(t, err)

	require.Contains(t, c.entries, "submissions")
	assert.Equal(t, []string{"old"}, c.entries["submissions"].data)
	assert.True(t, c.IsStale("submissions"))
}

func TestIsStale_MissingKey(t *testing.T) {
	c := New(WithStaleTime(time.Second))
	assert.True(t, c.IsStale("nothing"))
	assert.Equal(t, time.Second, c.StaleTime())
}

func TestQuery_FetchOverlappingInvalidateStaysStale(t *testing.T) {
	c := New()
	calls := 0
	fetch := func(context.Context) ([]string, error) {
		calls++
		if calls == 1 {
			c.Invalidate("submissions")
			return []string{"a"}, nil
		}
		return []string{"a", "b"}, nil
	}

	got, err := Query(context.Background(), c, "submissions", fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
	assert.True(t, c.IsStale("submissions"))

	got, err = Query(context.Background(), c, "submissions", fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.False(t, c.IsStale("submissions"))
}
