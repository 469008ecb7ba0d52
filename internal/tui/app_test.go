package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/pubdrop/internal/browser"
	"github.com/HaiFongPan/pubdrop/internal/config"
	"github.com/HaiFongPan/pubdrop/internal/remote"
	"github.com/HaiFongPan/pubdrop/internal/routing"
)

type fakeClient struct {
	mu       sync.Mutex
	listings map[string][]remote.Entry
	files    map[string]remote.FileMetadata
	calls    map[string]int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		listings: map[string][]remote.Entry{
			"abc/": {
				{Name: "docs", Path: "docs"},
				{Name: "readme.txt", Path: "readme.txt", IsFile: true, Size: 10},
			},
			"abc/docs": {
				{Name: "a.pdf", Path: "docs/a.pdf", IsFile: true, Size: 1536},
			},
			"empty/": {},
		},
		files: map[string]remote.FileMetadata{
			"abc/readme.txt":  {Name: "readme.txt", Path: "readme.txt", Size: 10},
			"abc/docs/a.pdf": {Name: "a.pdf", Path: "docs/a.pdf", Size: 1536},
		},
		calls: map[string]int{},
	}
}

func (f *fakeClient) ListDirectory(ctx context.Context, storageID, path string) ([]remote.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := storageID + "/" + path
	if path == "" {
		k = storageID + "/"
	}
	f.calls[k]++
	entries, ok := f.listings[k]
	if !ok {
		return nil, remote.ErrNotFound
	}
	return entries, nil
}

func (f *fakeClient) FileMetadata(ctx context.Context, storageID, path string) (remote.FileMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	meta, ok := f.files[storageID+"/"+path]
	if !ok {
		return remote.FileMetadata{}, remote.ErrNotFound
	}
	return meta, nil
}

func (f *fakeClient) DownloadURL(storageID, path string) string {
	return "https://dl.example.com/public/files/" + storageID + "/download/" + path
}

func (f *fakeClient) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

type testApp struct {
	*AppModel
	client  *fakeClient
	history *routing.History
	visited []string
	opened  []string
	copied  []string
}

func newTestApp(t *testing.T, location string) *testApp {
	t.Helper()
	ta := &testApp{
		client:  newFakeClient(),
		history: routing.NewHistory(location),
	}
	cfg := &config.Config{
		UI: config.UIConfig{
			OpenLinks: true,
			Storages:  []config.StorageBookmark{{Name: "Team drop", ID: "abc"}},
		},
	}
	ta.AppModel = NewAppModel(context.Background(), ta.client, ta.history, cfg,
		WithStorageVisited(func(id string) { ta.visited = append(ta.visited, id) }),
		WithLinkActions(LinkActions{
			Open: func(url string) error {
				ta.opened = append(ta.opened, url)
				return nil
			},
			Copy: func(text string) error {
				ta.copied = append(ta.copied, text)
				return nil
			},
		}),
	)
	t.Cleanup(ta.Close)
	ta.drain(ta.syncRoute())
	return ta
}

// drain runs cmd and feeds the resulting messages back into the model.
// Timer based commands (cursor blink, ticks) are skipped.
func (ta *testApp) drain(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		done := make(chan tea.Msg, 1)
		go func() { done <- next() }()

		var msg tea.Msg
		select {
		case msg = <-done:
		case <-time.After(200 * time.Millisecond):
			continue
		}

		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case viewLoadedMsg, navigationDoneMsg, historyMovedMsg, linkActionMsg, statusMsg:
			_, follow := ta.Update(msg)
			queue = append(queue, follow)
		}
	}
}

func (ta *testApp) press(msg tea.KeyMsg) tea.Cmd {
	_, cmd := ta.Update(msg)
	ta.drain(cmd)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestApp_ShowsInitialDirectory(t *testing.T) {
	app := newTestApp(t, "/download/abc")

	view := app.View()
	assert.Contains(t, view, "Storage ID: Team drop (abc)")
	assert.Contains(t, view, "Path: /")
	assert.Contains(t, view, "docs")
	assert.Contains(t, view, "readme.txt")
	assert.Contains(t, view, "1 folders, 1 files")

	state := app.current.(*FileBrowserModel).nav.State()
	require.Len(t, state.Entries, 2)
	assert.Equal(t, "docs", state.Entries[0].Name)

	assert.Equal(t, 1, app.client.callCount("abc/"))
	assert.Equal(t, []string{"abc"}, app.visited)

	pop, before := app.history.Listeners()
	assert.Equal(t, 1, pop)
	assert.Equal(t, 1, before)
}

func TestApp_InitialSubdirectoryFromLocation(t *testing.T) {
	app := newTestApp(t, "/download/abc/docs")

	view := app.View()
	assert.Contains(t, view, "Path: /docs")
	assert.Contains(t, view, "..")
	assert.Contains(t, view, "a.pdf")
	assert.Equal(t, 0, app.client.callCount("abc/"))
	assert.Equal(t, 1, app.client.callCount("abc/docs"))
}

func TestApp_FolderNavigationAndHistory(t *testing.T) {
	app := newTestApp(t, "/download/abc")

	// cursor starts on "docs"
	app.press(enterKey)
	assert.Equal(t, "/download/abc/docs", app.Location())
	assert.Equal(t, 1, app.client.callCount("abc/docs"))
	assert.Contains(t, app.View(), "Path: /docs")

	// ".." is the first row of a sub directory
	app.press(enterKey)
	assert.Equal(t, "/download/abc", app.Location())
	assert.Equal(t, 2, app.client.callCount("abc/"))

	app.press(runes("b"))
	assert.Equal(t, "/download/abc/docs", app.Location())
	assert.Equal(t, 2, app.client.callCount("abc/docs"))
	assert.Equal(t, "docs", app.current.(*FileBrowserModel).nav.State().Path)

	app.press(runes("f"))
	assert.Equal(t, "/download/abc", app.Location())
	assert.Equal(t, 3, app.client.callCount("abc/"))

	// navigation inside one storage keeps the view and its registrations
	pop, before := app.history.Listeners()
	assert.Equal(t, 1, pop)
	assert.Equal(t, 1, before)
}

func TestApp_ParentKey(t *testing.T) {
	app := newTestApp(t, "/download/abc/docs")

	app.press(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "/download/abc", app.Location())

	// at the root the key does nothing
	calls := app.client.callCount("abc/")
	app.press(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "/download/abc", app.Location())
	assert.Equal(t, calls, app.client.callCount("abc/"))
}

func TestApp_HelpShowsBackForwardOnlyWhenAvailable(t *testing.T) {
	app := newTestApp(t, "/download/abc")
	view := app.View()
	assert.NotContains(t, view, "b/[")
	assert.NotContains(t, view, "f/]")

	app.press(enterKey)
	view = app.View()
	assert.Contains(t, view, "b/[")
	assert.NotContains(t, view, "f/]")

	app.press(runes("b"))
	view = app.View()
	assert.NotContains(t, view, "b/[")
	assert.Contains(t, view, "f/]")
}

func TestApp_BackWithoutHistory(t *testing.T) {
	app := newTestApp(t, "/download/abc")
	app.press(runes("b"))

	assert.Equal(t, "/download/abc", app.Location())
	assert.Contains(t, app.View(), "No more history")
}

func TestApp_OpenFileShowsCard(t *testing.T) {
	app := newTestApp(t, "/download/abc")

	app.press(downKey)
	app.press(enterKey)
	require.Equal(t, "/files/abc/readme.txt", app.Location())

	card, ok := app.current.(*FileCardModel)
	require.True(t, ok)
	assert.False(t, card.view.State().Loading)

	view := app.View()
	assert.Contains(t, view, "readme.txt")
	assert.Contains(t, view, "Size: 10 Bytes")
	assert.Contains(t, view, "https://dl.example.com/public/files/abc/download/readme.txt")

	// the directory browser released its registrations
	pop, before := app.history.Listeners()
	assert.Zero(t, pop)
	assert.Zero(t, before)

	app.press(runes("c"))
	assert.Equal(t, []string{"https://dl.example.com/public/files/abc/download/readme.txt"}, app.copied)
	assert.Contains(t, app.View(), "copied")

	app.press(runes("o"))
	assert.Equal(t, app.copied, app.opened)

	// back to the listing mounts a fresh browser
	app.press(runes("b"))
	assert.Equal(t, "/download/abc", app.Location())
	_, ok = app.current.(*FileBrowserModel)
	assert.True(t, ok)
	assert.Equal(t, 2, app.client.callCount("abc/"))
}

func TestApp_FileCardParentKey(t *testing.T) {
	app := newTestApp(t, "/files/abc/docs/a.pdf")
	assert.Contains(t, app.View(), "Size: 1.5 KB")

	app.press(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "/download/abc/docs", app.Location())
	assert.Equal(t, 1, app.client.callCount("abc/docs"))
}

func TestApp_MissingFile(t *testing.T) {
	app := newTestApp(t, "/files/abc/missing.txt")

	view := app.View()
	assert.Contains(t, view, browser.FileFailedMessage)
	assert.NotContains(t, view, "Download link")
}

func TestApp_LinkActionFailure(t *testing.T) {
	app := newTestApp(t, "/files/abc/readme.txt")
	app.actions.Copy = func(string) error { return errors.New("no clipboard utility available") }
	app.current.(*FileCardModel).actions = app.actions

	app.press(runes("c"))
	assert.Contains(t, app.View(), "no clipboard utility available")
}

func TestApp_FailedListing(t *testing.T) {
	app := newTestApp(t, "/download/nope")
	assert.Contains(t, app.View(), browser.ListFailedMessage)
}

func TestApp_FailedListingHidesPreviousRows(t *testing.T) {
	app := newTestApp(t, "/download/abc/docs")
	require.Contains(t, app.View(), "a.pdf")

	app.press(runes("g"))
	app.gotoInput.SetValue("/download/abc/missing")
	app.press(enterKey)
	require.Equal(t, "/download/abc/missing", app.Location())

	view := app.View()
	assert.Contains(t, view, "Path: /missing")
	assert.Contains(t, view, browser.ListFailedMessage)
	assert.NotContains(t, view, "a.pdf")
	assert.NotContains(t, view, "1 files")

	// the hidden rows cannot be opened
	app.press(enterKey)
	assert.Equal(t, "/download/abc/missing", app.Location())

	// the kept entries come back once a listing succeeds again
	app.press(runes("b"))
	assert.Equal(t, "/download/abc/docs", app.Location())
	assert.Contains(t, app.View(), "a.pdf")
}

func TestApp_EmptyListing(t *testing.T) {
	app := newTestApp(t, "/download/empty")
	assert.Contains(t, app.View(), "No files yet")
}

func TestApp_GotoPrompt(t *testing.T) {
	app := newTestApp(t, "/download/abc")

	app.press(runes("g"))
	require.True(t, app.showGoto)
	assert.Equal(t, "/download/abc", app.gotoInput.Value())
	assert.Contains(t, app.View(), "Go to location")

	app.gotoInput.SetValue("/nowhere/at/all")
	app.press(enterKey)
	assert.True(t, app.showGoto)
	assert.Contains(t, app.View(), "Unknown location")

	app.gotoInput.SetValue("abc/docs")
	app.press(enterKey)
	assert.False(t, app.showGoto)
	assert.Equal(t, "/download/abc/docs", app.Location())
	assert.Equal(t, 1, app.client.callCount("abc/docs"))

	app.press(runes("g"))
	app.press(escKey)
	assert.False(t, app.showGoto)
	assert.Equal(t, "/download/abc/docs", app.Location())
}

func TestApp_GotoOtherStorageRemounts(t *testing.T) {
	app := newTestApp(t, "/download/abc")

	app.press(runes("g"))
	app.gotoInput.SetValue("empty")
	app.press(enterKey)

	assert.Equal(t, "/download/empty", app.Location())
	assert.Equal(t, []string{"abc", "empty"}, app.visited)
	assert.Contains(t, app.View(), "No files yet")

	pop, before := app.history.Listeners()
	assert.Equal(t, 1, pop)
	assert.Equal(t, 1, before)
}

func TestApp_HelpDialog(t *testing.T) {
	app := newTestApp(t, "/download/abc")

	app.press(runes("?"))
	assert.True(t, app.showHelp)
	assert.Contains(t, app.View(), "Help")

	// keys do not reach the view while help is open
	app.press(enterKey)
	assert.Equal(t, "/download/abc", app.Location())

	app.press(escKey)
	assert.False(t, app.showHelp)
}

func TestApp_QuitReleasesRegistrations(t *testing.T) {
	app := newTestApp(t, "/download/abc")

	_, cmd := app.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	pop, before := app.history.Listeners()
	assert.Zero(t, pop)
	assert.Zero(t, before)
}

func TestApp_WindowResize(t *testing.T) {
	app := newTestApp(t, "/download/abc")
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	browserModel := app.current.(*FileBrowserModel)
	assert.Equal(t, 120, browserModel.windowWidth)
	assert.Equal(t, 40, browserModel.windowHeight)
}
