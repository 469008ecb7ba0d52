package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_NavigateBackForward(t *testing.T) {
	h := NewHistory("/download/abc")
	ctx := context.Background()

	require.NoError(t, h.Navigate(ctx, "/download/abc/docs"))
	require.NoError(t, h.Navigate(ctx, "/download/abc/docs/sub"))
	assert.Equal(t, "/download/abc/docs/sub", h.Location())

	assert.True(t, h.Back())
	assert.Equal(t, "/download/abc/docs", h.Location())
	assert.True(t, h.CanGoForward())

	assert.True(t, h.Forward())
	assert.Equal(t, "/download/abc/docs/sub", h.Location())
	assert.False(t, h.Forward())

	assert.True(t, h.Back())
	assert.True(t, h.Back())
	assert.False(t, h.Back())
	assert.Equal(t, "/download/abc", h.Location())
}

func TestHistory_NavigateDropsForwardEntries(t *testing.T) {
	h := NewHistory("/a")
	ctx := context.Background()
	require.NoError(t, h.Navigate(ctx, "/b"))
	require.NoError(t, h.Navigate(ctx, "/c"))
	h.Back()
	h.Back()

	require.NoError(t, h.Navigate(ctx, "/d"))
	entries, index := h.Entries()
	assert.Equal(t, []string{"/a", "/d"}, entries)
	assert.Equal(t, 1, index)
	assert.False(t, h.CanGoForward())
}

func TestHistory_NavigateSameLocationDoesNotDuplicate(t *testing.T) {
	h := NewHistory("/a")
	require.NoError(t, h.Navigate(context.Background(), "/a"))
	entries, _ := h.Entries()
	assert.Len(t, entries, 1)
}

func TestHistory_PopStateListeners(t *testing.T) {
	h := NewHistory("/a")
	require.NoError(t, h.Navigate(context.Background(), "/b"))

	var seen []string
	remove := h.OnPopState(func(location string) {
		seen = append(seen, location)
	})

	h.Back()
	h.Forward()
	assert.Equal(t, []string{"/a", "/b"}, seen)

	remove()
	remove()
	h.Back()
	assert.Len(t, seen, 2)

	pop, before := h.Listeners()
	assert.Zero(t, pop)
	assert.Zero(t, before)
}

func TestHistory_BeforeNavigateIsAwaited(t *testing.T) {
	h := NewHistory("/a")

	var locationDuringHook string
	remove := h.OnBeforeNavigate(func(ctx context.Context, to string) error {
		locationDuringHook = h.Location()
		assert.Equal(t, "/b", to)
		return nil
	})
	defer remove()

	require.NoError(t, h.Navigate(context.Background(), "/b"))
	assert.Equal(t, "/a", locationDuringHook)
	assert.Equal(t, "/b", h.Location())
}

func TestHistory_BeforeNavigateErrorAborts(t *testing.T) {
	h := NewHistory("/a")
	boom := errors.New("boom")
	h.OnBeforeNavigate(func(ctx context.Context, to string) error {
		return boom
	})

	err := h.Navigate(context.Background(), "/b")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "/a", h.Location())
}

func TestHistory_RemoveKeepsOtherRegistrations(t *testing.T) {
	h := NewHistory("/a")
	calls := 0
	removeFirst := h.OnBeforeNavigate(func(ctx context.Context, to string) error {
		calls += 10
		return nil
	})
	h.OnBeforeNavigate(func(ctx context.Context, to string) error {
		calls++
		return nil
	})

	removeFirst()
	require.NoError(t, h.Navigate(context.Background(), "/b"))
	assert.Equal(t, 1, calls)

	_, before := h.Listeners()
	assert.Equal(t, 1, before)
}

func TestHistory_Replace(t *testing.T) {
	h := NewHistory("/a")
	called := false
	h.OnPopState(func(string) { called = true })
	h.Replace("/z")
	assert.Equal(t, "/z", h.Location())
	assert.False(t, called)
}

func TestHistory_BackDuringNavigateDropsTheNavigation(t *testing.T) {
	h := NewHistory("/a")
	require.NoError(t, h.Navigate(context.Background(), "/b"))

	release := make(chan struct{})
	entered := make(chan struct{})
	h.OnBeforeNavigate(func(ctx context.Context, to string) error {
		if to == "/c" {
			close(entered)
			<-release
		}
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- h.Navigate(context.Background(), "/c") }()
	<-entered

	require.True(t, h.Back())
	close(release)

	err := <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNavigationSuperseded)
	assert.Equal(t, "/a", h.Location())

	entries, index := h.Entries()
	assert.Equal(t, []string{"/a", "/b"}, entries)
	assert.Equal(t, 0, index)
}

func TestHistory_LaterNavigateWins(t *testing.T) {
	h := NewHistory("/a")

	release := make(chan struct{})
	entered := make(chan struct{})
	h.OnBeforeNavigate(func(ctx context.Context, to string) error {
		if to == "/slow" {
			close(entered)
			<-release
		}
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- h.Navigate(context.Background(), "/slow") }()
	<-entered

	require.NoError(t, h.Navigate(context.Background(), "/fast"))
	close(release)

	assert.ErrorIs(t, <-done, ErrNavigationSuperseded)
	assert.Equal(t, "/fast", h.Location())
}
