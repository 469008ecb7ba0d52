package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HaiFongPan/pubdrop/internal/browser"
	"github.com/HaiFongPan/pubdrop/internal/navpath"
	"github.com/HaiFongPan/pubdrop/internal/routing"
	tuiconfig "github.com/HaiFongPan/pubdrop/internal/tui/config"
	"github.com/HaiFongPan/pubdrop/internal/tui/messaging"
	"github.com/HaiFongPan/pubdrop/internal/tui/theme"
	"github.com/HaiFongPan/pubdrop/internal/utils"
)

// FileCardKeyMap defines keybindings for the file card
type FileCardKeyMap struct {
	Open   key.Binding
	Copy   key.Binding
	Parent key.Binding
}

// DefaultFileCardKeyMap returns default keybindings
func DefaultFileCardKeyMap() FileCardKeyMap {
	return FileCardKeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter", "o"),
			key.WithHelp("enter/o", "open download link"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c", "y"),
			key.WithHelp("c", "copy link"),
		),
		Parent: key.NewBinding(
			key.WithKeys("backspace", "h", "left"),
			key.WithHelp("⌫/h", "containing folder"),
		),
	}
}

// LinkActions performs the side effects of the file card
type LinkActions struct {
	Open func(url string) error
	Copy func(text string) error
	// OpenDisabled turns Open into a hint
	OpenDisabled bool
}

// DefaultLinkActions uses the system browser and clipboard
func DefaultLinkActions(openLinks bool) LinkActions {
	return LinkActions{
		Open:         utils.OpenURL,
		Copy:         utils.CopyToClipboard,
		OpenDisabled: !openLinks,
	}
}

// FileCardModel renders a FileView: name, size and download link
type FileCardModel struct {
	ctx     context.Context
	view    *browser.FileView
	history *routing.History
	actions LinkActions
	keyMap  FileCardKeyMap

	windowWidth int
}

// NewFileCardModel creates the card for a file view
func NewFileCardModel(ctx context.Context, view *browser.FileView, history *routing.History, actions LinkActions) *FileCardModel {
	return &FileCardModel{
		ctx:         ctx,
		view:        view,
		history:     history,
		actions:     actions,
		keyMap:      DefaultFileCardKeyMap(),
		windowWidth: 80,
	}
}

// Mount fetches the file metadata
func (m *FileCardModel) Mount() tea.Cmd {
	view := m.view
	ctx := m.ctx
	return func() tea.Msg {
		view.Mount(ctx)
		return viewLoadedMsg{}
	}
}

// Unmount drops late results
func (m *FileCardModel) Unmount() {
	m.view.Unmount()
}

// Matches reports whether route is rendered by this view
func (m *FileCardModel) Matches(route navpath.Route) bool {
	return route.Kind == navpath.KindFile &&
		route.StorageID == m.view.StorageID() &&
		navpath.Clean(route.Path) == m.view.Path()
}

// ShortHelp returns keybindings to be shown in the footer
func (m *FileCardModel) ShortHelp() []key.Binding {
	return []key.Binding{m.keyMap.Open, m.keyMap.Copy, m.keyMap.Parent}
}

// FullHelp returns keybindings for the help dialog
func (m *FileCardModel) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.keyMap.Open, m.keyMap.Copy, m.keyMap.Parent}}
}

// SetSize records the window width
func (m *FileCardModel) SetSize(width, height int) {
	m.windowWidth = width
}

// Update handles the card keys
func (m *FileCardModel) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, m.keyMap.Open):
		if m.actions.OpenDisabled || m.actions.Open == nil {
			return statusCmd("Opening links is disabled, press c to copy", messaging.MessageInfo)
		}
		url := m.view.DownloadURL()
		open := m.actions.Open
		return func() tea.Msg {
			if err := open(url); err != nil {
				return linkActionMsg{err: err}
			}
			return linkActionMsg{text: "Opened download link"}
		}

	case key.Matches(keyMsg, m.keyMap.Copy):
		if m.actions.Copy == nil {
			return nil
		}
		url := m.view.DownloadURL()
		copyText := m.actions.Copy
		return func() tea.Msg {
			if err := copyText(url); err != nil {
				return linkActionMsg{err: err}
			}
			return linkActionMsg{text: "Download link copied to clipboard"}
		}

	case key.Matches(keyMsg, m.keyMap.Parent):
		parent := navpath.Parent(m.view.Path())
		return navigateCmd(m.ctx, m.history, navpath.BrowseURL(m.view.StorageID(), parent))
	}

	return nil
}

// View renders the file card
func (m *FileCardModel) View(spinnerView string) string {
	state := m.view.State()
	width := min(tuiconfig.FileCardWidth, max(30, m.windowWidth-4))

	var b strings.Builder
	category := utils.CategoryOf(state.Name, true)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.GetFileColor(category)))
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", utils.CategoryIcon(category), state.Name)))
	b.WriteString("\n\n")

	label := theme.CreateLabelStyle()
	info := theme.CreateInfoTextStyle()
	b.WriteString(label.Render("Storage ID: ") + info.Render(state.StorageID))
	b.WriteString("\n")
	b.WriteString(label.Render("Path: ") + info.Render("/"+state.Path))
	b.WriteString("\n")

	switch {
	case state.Loading:
		b.WriteString(theme.CreateLoadingStyle().Render(fmt.Sprintf("%s Loading file info...", spinnerView)))
		return theme.CreateCardStyle(width).Render(b.String())
	case state.Error != "":
		b.WriteString("\n")
		b.WriteString(theme.CreateErrorStyle().Render(state.Error))
		return theme.CreateCardStyle(width).Render(b.String())
	}

	b.WriteString(label.Render("Size: ") + info.Render(state.SizeLabel()))
	b.WriteString("\n\n")

	b.WriteString(theme.CreateURLSectionStyle().Render("🔗 Download link:"))
	b.WriteString("\n")
	for _, part := range theme.WrapURL(state.DownloadURL, width-8) {
		b.WriteString(theme.CreateURLBoxStyle().Render(theme.FormatClickableURL(part, state.DownloadURL)))
		b.WriteString("\n")
	}
	b.WriteString(theme.CreateHintStyle().Render("💡 Press enter to download in your browser, c to copy"))

	return theme.CreateCardStyle(width).Render(b.String())
}
