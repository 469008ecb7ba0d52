// Package routing keeps the in-process navigation history: the current
// location, back/forward movement and the hooks views use to follow it.
package routing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrNavigationSuperseded is returned by Navigate when another navigation or a
// back/forward move happened while its hooks were running.
var ErrNavigationSuperseded = errors.New("navigation superseded")

// PopStateFunc is called after Back/Forward moved to location.
type PopStateFunc func(location string)

// BeforeNavigateFunc runs before a Navigate call commits. Navigation waits for
// it and is aborted when it returns an error.
type BeforeNavigateFunc func(ctx context.Context, to string) error

type popListener struct {
	id int
	fn PopStateFunc
}

type navigateHook struct {
	id int
	fn BeforeNavigateFunc
}

// History is the process wide router. It is safe for concurrent use; hooks
// and listeners are invoked without holding the lock.
type History struct {
	mu        sync.Mutex
	entries   []string
	index     int
	gen       uint64
	nextID    int
	listeners []popListener
	hooks     []navigateHook
}

// NewHistory creates a history positioned at initial.
func NewHistory(initial string) *History {
	return &History{
		entries: []string{initial},
	}
}

// Location returns the current location.
func (h *History) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Entries returns a copy of the history and the current index.
func (h *History) Entries() ([]string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	entries := make([]string, len(h.entries))
	copy(entries, h.entries)
	return entries, h.index
}

// Navigate pushes to onto the history once every before-navigate hook has
// returned. Forward entries are dropped. A navigation that is overtaken by a
// later Navigate, Back or Forward does not commit.
func (h *History) Navigate(ctx context.Context, to string) error {
	h.mu.Lock()
	h.gen++
	gen := h.gen
	hooks := make([]navigateHook, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	for _, hook := range hooks {
		if err := hook.fn(ctx, to); err != nil {
			logrus.WithError(err).Warnf("History: navigation to %s aborted", to)
			return fmt.Errorf("navigation to %s aborted: %w", to, err)
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.gen != gen {
		logrus.Debugf("History: navigation to %s superseded", to)
		return fmt.Errorf("navigation to %s: %w", to, ErrNavigationSuperseded)
	}
	if h.index < len(h.entries)-1 {
		h.entries = h.entries[:h.index+1]
	}
	if h.entries[h.index] != to {
		h.entries = append(h.entries, to)
		h.index = len(h.entries) - 1
	}
	logrus.Debugf("History: navigated to %s (%d entries)", to, len(h.entries))
	return nil
}

// Replace swaps the current location without running hooks or listeners.
func (h *History) Replace(to string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = to
}

// Back moves one entry back and notifies pop-state listeners. It reports
// false when there is nothing to go back to.
func (h *History) Back() bool {
	return h.move(-1)
}

// Forward moves one entry forward and notifies pop-state listeners.
func (h *History) Forward() bool {
	return h.move(1)
}

// CanGoBack reports whether Back would move.
func (h *History) CanGoBack() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index > 0
}

// CanGoForward reports whether Forward would move.
func (h *History) CanGoForward() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index < len(h.entries)-1
}

func (h *History) move(delta int) bool {
	h.mu.Lock()
	target := h.index + delta
	if target < 0 || target >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = target
	h.gen++
	location := h.entries[target]
	listeners := make([]popListener, len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()

	logrus.Debugf("History: popstate to %s", location)
	for _, l := range listeners {
		l.fn(location)
	}
	return true
}

// OnPopState registers fn for back/forward movement. The returned function
// removes the registration and is safe to call more than once.
func (h *History) OnPopState(fn PopStateFunc) (remove func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.listeners = append(h.listeners, popListener{id: id, fn: fn})

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, l := range h.listeners {
			if l.id == id {
				h.listeners = append(h.listeners[:i:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

// OnBeforeNavigate registers fn to run before every Navigate.
func (h *History) OnBeforeNavigate(fn BeforeNavigateFunc) (remove func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.hooks = append(h.hooks, navigateHook{id: id, fn: fn})

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, hook := range h.hooks {
			if hook.id == id {
				h.hooks = append(h.hooks[:i:i], h.hooks[i+1:]...)
				return
			}
		}
	}
}

// Listeners returns the number of registered pop-state listeners and
// before-navigate hooks.
func (h *History) Listeners() (popState, beforeNavigate int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners), len(h.hooks)
}
