package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/pubdrop/internal/browser"
	"github.com/HaiFongPan/pubdrop/internal/navpath"
	"github.com/HaiFongPan/pubdrop/internal/remote"
	"github.com/HaiFongPan/pubdrop/internal/routing"
	tuiconfig "github.com/HaiFongPan/pubdrop/internal/tui/config"
	"github.com/HaiFongPan/pubdrop/internal/tui/theme"
	"github.com/HaiFongPan/pubdrop/internal/utils"
)

// KeyMap defines keybindings for the file browser
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Open     key.Binding
	Parent   key.Binding
	Refresh  key.Binding
}

// DefaultKeyMap returns default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "go to start"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "go to end"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter/l", "open"),
		),
		Parent: key.NewBinding(
			key.WithKeys("backspace", "h", "left"),
			key.WithHelp("⌫/h", "parent folder"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r/f5", "refresh"),
		),
	}
}

// FileBrowserModel renders a Navigator as a table. Activating a row goes
// through the history, so the navigator loads the target before the location
// changes.
type FileBrowserModel struct {
	ctx         context.Context
	nav         *browser.Navigator
	history     *routing.History
	storageName string

	fileTable table.Model
	keyMap    KeyMap
	entries   []remote.Entry
	lastSeq   uint64
	lastPath  string
	lastState browser.Status

	windowWidth  int
	windowHeight int
}

// NewFileBrowserModel creates a browser view for the navigator
func NewFileBrowserModel(ctx context.Context, nav *browser.Navigator, history *routing.History, storageName string) *FileBrowserModel {
	columns := []table.Column{
		{Title: "NAME", Width: tuiconfig.DefaultColumnNameWidth},
		{Title: "TYPE", Width: tuiconfig.DefaultColumnTypeWidth},
		{Title: "SIZE", Width: tuiconfig.DefaultColumnSizeWidth},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(tuiconfig.DefaultTableHeight),
		table.WithFocused(true),
		table.WithStyles(theme.TableStyles()),
	)

	if storageName == "" {
		storageName = nav.StorageID()
	}

	return &FileBrowserModel{
		ctx:          ctx,
		nav:          nav,
		history:      history,
		storageName:  storageName,
		fileTable:    t,
		keyMap:       DefaultKeyMap(),
		windowWidth:  80,
		windowHeight: 24,
	}
}

// Mount registers the navigator on the history and loads the current location
func (m *FileBrowserModel) Mount() tea.Cmd {
	nav := m.nav
	ctx := m.ctx
	return func() tea.Msg {
		nav.Mount(ctx)
		return viewLoadedMsg{}
	}
}

// Unmount releases the history registrations
func (m *FileBrowserModel) Unmount() {
	m.nav.Unmount()
}

// Matches reports whether route is rendered by this view
func (m *FileBrowserModel) Matches(route navpath.Route) bool {
	return route.Kind == navpath.KindBrowse && route.StorageID == m.nav.StorageID()
}

// ShortHelp returns keybindings to be shown in the footer
func (m *FileBrowserModel) ShortHelp() []key.Binding {
	return []key.Binding{m.keyMap.Open, m.keyMap.Parent, m.keyMap.Refresh}
}

// FullHelp returns keybindings for the help dialog
func (m *FileBrowserModel) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keyMap.Up, m.keyMap.Down, m.keyMap.PageUp, m.keyMap.PageDown},
		{m.keyMap.Home, m.keyMap.End},
		{m.keyMap.Open, m.keyMap.Parent, m.keyMap.Refresh},
	}
}

// SetSize updates the table to the window size
func (m *FileBrowserModel) SetSize(width, height int) {
	m.windowWidth = width
	m.windowHeight = height
	m.updateTableSize(width-2, height-tuiconfig.ReservedRows)
}

// Update handles keys for the listing
func (m *FileBrowserModel) Update(msg tea.Msg) tea.Cmd {
	m.syncTable()

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, m.keyMap.Open):
		entry, ok := m.selected()
		if !ok {
			return nil
		}
		return m.open(entry)

	case key.Matches(keyMsg, m.keyMap.Parent):
		current := m.nav.State().Path
		if navpath.IsRoot(current) {
			return nil
		}
		return navigateCmd(m.ctx, m.history, navpath.BrowseURL(m.nav.StorageID(), navpath.Parent(current)))

	case key.Matches(keyMsg, m.keyMap.Refresh):
		nav := m.nav
		ctx := m.ctx
		return func() tea.Msg {
			nav.Refresh(ctx)
			return viewLoadedMsg{}
		}

	case key.Matches(keyMsg, m.keyMap.Up, m.keyMap.Down, m.keyMap.PageUp, m.keyMap.PageDown,
		m.keyMap.Home, m.keyMap.End):
		var cmd tea.Cmd
		m.fileTable, cmd = m.fileTable.Update(keyMsg)
		return cmd
	}

	return nil
}

// open navigates to a directory listing or to the file view of entry
func (m *FileBrowserModel) open(entry remote.Entry) tea.Cmd {
	storageID := m.nav.StorageID()
	target := navpath.BrowseURL(storageID, entry.Path)
	if entry.IsFile {
		target = navpath.FileURL(storageID, entry.Path)
	}
	logrus.Debugf("FileBrowser: opening %s", target)
	return navigateCmd(m.ctx, m.history, target)
}

func (m *FileBrowserModel) selected() (remote.Entry, bool) {
	if m.nav.State().Status != browser.StatusLoaded {
		return remote.Entry{}, false
	}
	cursor := m.fileTable.Cursor()
	if cursor < 0 || cursor >= len(m.entries) {
		return remote.Entry{}, false
	}
	return m.entries[cursor], true
}

// syncTable rebuilds the rows when the navigator state changed
func (m *FileBrowserModel) syncTable() {
	state := m.nav.State()
	if state.Seq == m.lastSeq && state.Status == m.lastState && m.entries != nil {
		return
	}

	m.entries = state.Entries
	if m.entries == nil {
		m.entries = []remote.Entry{}
	}
	m.fileTable.SetRows(entryRows(m.entries))
	if state.Path != m.lastPath {
		m.fileTable.SetCursor(0)
	} else if m.fileTable.Cursor() >= len(m.entries) {
		m.fileTable.SetCursor(max(0, len(m.entries)-1))
	}

	m.lastSeq = state.Seq
	m.lastState = state.Status
	m.lastPath = state.Path
}

func entryRows(entries []remote.Entry) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		category := utils.CategoryOf(e.Name, e.IsFile)
		size := "-"
		if e.IsFile {
			size = utils.FormatSize(e.Size)
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%s %s", utils.CategoryIcon(category), truncateName(e.Name)),
			category,
			size,
		})
	}
	return rows
}

func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= tuiconfig.FileNameTruncateLength {
		return name
	}
	return string(runes[:tuiconfig.FileNameTruncateLength-3]) + "..."
}

func (m *FileBrowserModel) updateTableSize(width, height int) {
	if height < 3 {
		height = 3
	}
	nameWidth := width - tuiconfig.DefaultColumnTypeWidth - tuiconfig.DefaultColumnSizeWidth - 8
	if nameWidth < tuiconfig.MinColumnNameWidth {
		nameWidth = tuiconfig.MinColumnNameWidth
	}
	m.fileTable.SetColumns([]table.Column{
		{Title: "NAME", Width: nameWidth},
		{Title: "TYPE", Width: tuiconfig.DefaultColumnTypeWidth},
		{Title: "SIZE", Width: tuiconfig.DefaultColumnSizeWidth},
	})
	m.fileTable.SetHeight(height)
}

// View renders the header, the status line and the listing
func (m *FileBrowserModel) View(spinnerView string) string {
	m.syncTable()
	state := m.nav.State()

	var b strings.Builder
	label := theme.CreateLabelStyle()
	info := theme.CreateInfoTextStyle()

	storage := state.StorageID
	if m.storageName != state.StorageID {
		storage = fmt.Sprintf("%s (%s)", m.storageName, state.StorageID)
	}
	b.WriteString(label.Render("Storage ID: ") + info.Render(storage))
	b.WriteString("\n")
	b.WriteString(label.Render("Path: ") + info.Render("/"+state.Path))
	b.WriteString("\n\n")

	switch state.Status {
	case browser.StatusIdle:
		b.WriteString(theme.CreateLoadingStyle().Render(fmt.Sprintf("%s Preparing...", spinnerView)))
		return b.String()
	case browser.StatusLoading:
		b.WriteString(theme.CreateLoadingStyle().Render(fmt.Sprintf("%s Loading files...", spinnerView)))
		return b.String()
	case browser.StatusFailed:
		// entries of the previous path are kept but never shown under this one
		b.WriteString(theme.CreateErrorStyle().Render(state.Error))
		return b.String()
	default:
		b.WriteString("\n")
	}

	if len(m.entries) == 0 {
		if state.Status == browser.StatusLoaded {
			height := max(3, m.windowHeight-tuiconfig.ReservedRows)
			b.WriteString(theme.CreateEmptyStyle(max(20, m.windowWidth-2), height).Render("No files yet"))
		}
		return b.String()
	}

	b.WriteString(m.fileTable.View())
	b.WriteString("\n")
	b.WriteString(theme.CreateSecondaryTextStyle().Render(countLabel(m.entries)))
	return b.String()
}

func countLabel(entries []remote.Entry) string {
	dirs, files := 0, 0
	for _, e := range entries {
		switch {
		case e.Name == navpath.ParentName:
		case e.IsFile:
			files++
		default:
			dirs++
		}
	}
	return fmt.Sprintf("%d folders, %d files", dirs, files)
}
