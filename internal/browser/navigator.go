package browser

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/pubdrop/internal/navpath"
	"github.com/HaiFongPan/pubdrop/internal/remote"
	"github.com/HaiFongPan/pubdrop/internal/routing"
)

// Directory lists a directory below a storage root.
type Directory interface {
	ListDirectory(ctx context.Context, storageID, path string) ([]remote.Entry, error)
}

// Router is the part of the navigation history the browser follows.
type Router interface {
	Location() string
	OnPopState(fn routing.PopStateFunc) (remove func())
	OnBeforeNavigate(fn routing.BeforeNavigateFunc) (remove func())
}

// Navigator owns the current path of a directory browser. Every Load takes a
// new sequence number and only the result of the latest one is applied, so a
// slow response can never overwrite a newer listing.
type Navigator struct {
	client    Directory
	router    Router
	storageID string
	basePath  string

	mu        sync.Mutex
	state     State
	lastSeq   uint64
	mounted   bool
	unmounted bool
	mountCtx  context.Context
	cancel    context.CancelFunc
	cleanup   []func()
}

// NewNavigator creates an idle navigator for storageID.
func NewNavigator(client Directory, router Router, storageID string) *Navigator {
	return &Navigator{
		client:    client,
		router:    router,
		storageID: storageID,
		basePath:  navpath.BrowseBase(storageID),
		state: State{
			StorageID: storageID,
			Status:    StatusIdle,
		},
	}
}

// StorageID returns the storage this navigator browses.
func (n *Navigator) StorageID() string {
	return n.storageID
}

// BasePath returns /download/{storageID}.
func (n *Navigator) BasePath() string {
	return n.basePath
}

// State returns a copy of the current state.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.clone()
}

// Mount starts following the router and loads the path of the current
// location. Calling Mount twice, or after Unmount, only returns the state.
func (n *Navigator) Mount(ctx context.Context) State {
	n.mu.Lock()
	if n.mounted || n.unmounted {
		state := n.state.clone()
		n.mu.Unlock()
		return state
	}
	n.mounted = true
	n.mountCtx, n.cancel = context.WithCancel(ctx)
	n.cleanup = []func(){
		n.router.OnPopState(n.onPopState),
		n.router.OnBeforeNavigate(n.onBeforeNavigate),
	}
	mountCtx := n.mountCtx
	n.mu.Unlock()

	initial, _ := navpath.Relative(n.basePath, n.router.Location())
	logrus.Debugf("Navigator: mounted %s at %q", n.basePath, initial)
	return n.Load(mountCtx, initial)
}

// Unmount removes the router registrations. Results arriving afterwards are
// dropped.
func (n *Navigator) Unmount() {
	n.mu.Lock()
	if n.unmounted {
		n.mu.Unlock()
		return
	}
	n.unmounted = true
	cleanup := n.cleanup
	n.cleanup = nil
	cancel := n.cancel
	n.mu.Unlock()

	for _, remove := range cleanup {
		remove()
	}
	if cancel != nil {
		cancel()
	}
	logrus.Debugf("Navigator: unmounted %s", n.basePath)
}

// Load fetches the listing of path and returns the resulting state. Failures
// end in StatusFailed with a generic message; Load never retries.
func (n *Navigator) Load(ctx context.Context, path string) State {
	path = navpath.Clean(path)

	seq, ok := n.begin(path)
	if !ok {
		return n.State()
	}

	entries, err := n.client.ListDirectory(ctx, n.storageID, path)
	n.finish(seq, path, entries, err)
	return n.State()
}

// Refresh reloads the current path.
func (n *Navigator) Refresh(ctx context.Context) State {
	return n.Load(ctx, n.State().Path)
}

func (n *Navigator) begin(path string) (uint64, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.unmounted {
		return 0, false
	}

	n.lastSeq++
	n.state.Seq = n.lastSeq
	n.state.Path = path
	n.state.Status = StatusLoading
	n.state.Error = ""
	return n.lastSeq, true
}

func (n *Navigator) finish(seq uint64, path string, entries []remote.Entry, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	log := logrus.WithFields(logrus.Fields{
		"storage": n.storageID,
		"path":    path,
		"seq":     seq,
	})

	if n.unmounted {
		log.Debug("Navigator: dropping listing after unmount")
		return
	}
	if seq != n.lastSeq {
		log.Debugf("Navigator: dropping stale listing, latest is %d", n.lastSeq)
		return
	}

	if err != nil {
		log.WithError(err).Error("Navigator: failed to load directory")
		n.state.Status = StatusFailed
		n.state.Error = ListFailedMessage
		return
	}

	n.state.Entries = withParentEntry(path, entries)
	n.state.Status = StatusLoaded
	log.Debugf("Navigator: loaded %d entries", len(n.state.Entries))
}

func (n *Navigator) onPopState(location string) {
	path, ok := navpath.Relative(n.basePath, location)
	if !ok {
		return
	}

	n.mu.Lock()
	ctx := n.mountCtx
	n.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	n.Load(ctx, path)
}

func (n *Navigator) onBeforeNavigate(ctx context.Context, to string) error {
	path, ok := navpath.Relative(n.basePath, to)
	if !ok {
		return nil
	}
	n.Load(ctx, path)
	return nil
}

// withParentEntry copies entries and prepends the ".." entry for non-root
// paths. The entry is rebuilt for every listing.
func withParentEntry(path string, entries []remote.Entry) []remote.Entry {
	if path == "" {
		out := make([]remote.Entry, len(entries))
		copy(out, entries)
		return out
	}

	out := make([]remote.Entry, 0, len(entries)+1)
	out = append(out, remote.Entry{
		Name:   navpath.ParentName,
		Path:   navpath.Parent(path),
		IsFile: false,
	})
	return append(out, entries...)
}
