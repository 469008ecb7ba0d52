package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/pubdrop/internal/config"
	"github.com/HaiFongPan/pubdrop/internal/navpath"
	tuiconfig "github.com/HaiFongPan/pubdrop/internal/tui/config"
	"github.com/HaiFongPan/pubdrop/internal/tui/theme"
)

// StorageItem represents a storage in the selector
type StorageItem struct {
	Name     string
	ID       string
	IsLast   bool
	IsRecent bool
}

// StorageSelectorKeyMap defines keybindings for the storage selector
type StorageSelectorKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Input  key.Binding
	Help   key.Binding
	Quit   key.Binding
	Cancel key.Binding
}

// DefaultStorageSelectorKeyMap returns default keybindings
func DefaultStorageSelectorKeyMap() StorageSelectorKeyMap {
	return StorageSelectorKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open storage"),
		),
		Input: key.NewBinding(
			key.WithKeys("i", "/"),
			key.WithHelp("i", "enter a storage id"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ShortHelp returns the short help view
func (k StorageSelectorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Input, k.Quit}
}

// FullHelp returns the full help view
func (k StorageSelectorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Input, k.Cancel, k.Help, k.Quit},
	}
}

// StorageSelectorModel lets the user pick a bookmarked or recently used
// storage, or type a storage id or location.
type StorageSelectorModel struct {
	storages      []StorageItem
	selectedIndex int
	showHelp      bool
	inputMode     bool
	input         textinput.Model
	message       string
	keyMap        StorageSelectorKeyMap
	help          help.Model
	windowWidth   int
	windowHeight  int

	location string
}

// NewStorageSelectorModel creates a new storage selector model
func NewStorageSelectorModel(cfg *config.Config, userData *config.UserData) *StorageSelectorModel {
	input := textinput.New()
	input.Placeholder = "storage id or /download/... location"
	input.Prompt = "› "
	input.CharLimit = 1024
	input.Width = 44

	m := &StorageSelectorModel{
		storages:     buildStorageItems(cfg, userData),
		input:        input,
		keyMap:       DefaultStorageSelectorKeyMap(),
		help:         help.New(),
		windowWidth:  80,
		windowHeight: 24,
	}
	if len(m.storages) == 0 {
		m.inputMode = true
		m.input.Focus()
	}
	for i, s := range m.storages {
		if s.IsLast {
			m.selectedIndex = i
			break
		}
	}
	return m
}

func buildStorageItems(cfg *config.Config, userData *config.UserData) []StorageItem {
	var items []StorageItem
	seen := make(map[string]bool)
	last := ""
	if userData != nil {
		last = userData.LastStorage
	}

	if cfg != nil {
		for _, s := range cfg.UI.Storages {
			name := s.Name
			if name == "" {
				name = s.ID
			}
			items = append(items, StorageItem{Name: name, ID: s.ID, IsLast: s.ID == last})
			seen[s.ID] = true
		}
	}

	if userData != nil {
		recent := userData.Recent
		if len(recent) == 0 && last != "" {
			recent = []string{last}
		}
		for _, id := range recent {
			if id == "" || seen[id] {
				continue
			}
			items = append(items, StorageItem{Name: id, ID: id, IsLast: id == last, IsRecent: true})
			seen[id] = true
		}
	}
	return items
}

// Selected returns the location chosen by the user
func (m *StorageSelectorModel) Selected() (string, bool) {
	return m.location, m.location != ""
}

// Init initializes the storage selector
func (m *StorageSelectorModel) Init() tea.Cmd {
	if m.inputMode {
		return textinput.Blink
	}
	return nil
}

// Update handles messages in the storage selector
func (m *StorageSelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.inputMode {
			return m.handleInputKey(msg)
		}
		return m.handleKeyPress(msg)
	}

	if m.inputMode {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyPress processes keyboard input on the list
func (m *StorageSelectorModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		if m.selectedIndex < len(m.storages)-1 {
			m.selectedIndex++
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Select):
		if len(m.storages) == 0 {
			return m, nil
		}
		storage := m.storages[m.selectedIndex]
		logrus.Infof("StorageSelector: selected storage %s", storage.ID)
		m.location = navpath.BrowseURL(storage.ID, "")
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Input):
		m.inputMode = true
		m.message = ""
		return m, m.input.Focus()

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keyMap.Quit), key.Matches(msg, m.keyMap.Cancel):
		return m, tea.Quit
	}
	return m, nil
}

// handleInputKey processes keyboard input while typing a storage id
func (m *StorageSelectorModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Cancel):
		if len(m.storages) == 0 {
			return m, tea.Quit
		}
		m.inputMode = false
		m.input.Blur()
		m.input.Reset()
		return m, nil

	case key.Matches(msg, m.keyMap.Select):
		route, err := navpath.Resolve(m.input.Value())
		if err != nil {
			m.message = fmt.Sprintf("Unknown location: %s", strings.TrimSpace(m.input.Value()))
			return m, nil
		}
		m.location = route.Location()
		logrus.Infof("StorageSelector: entered %s", m.location)
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the storage selector
func (m *StorageSelectorModel) View() string {
	title := theme.CreatePromptStyle().Render("🗂️  Choose a storage")

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.JoinVertical(lipgloss.Left,
			title, "", m.help.FullHelpView(m.keyMap.FullHelp()))
	case m.inputMode:
		content = m.renderInput(title)
	default:
		content = m.renderStorageList(title)
	}

	return lipgloss.Place(
		m.windowWidth, m.windowHeight,
		lipgloss.Center, lipgloss.Center,
		theme.CreateDialogStyle(tuiconfig.DialogDefaultWidth+10, theme.ColorBrightYellow).Render(content),
	)
}

func (m *StorageSelectorModel) renderInput(title string) string {
	parts := []string{title, "", "Storage ID or location:", m.input.View()}
	if m.message != "" {
		parts = append(parts, "", theme.CreateErrorStyle().Render(m.message))
	}
	parts = append(parts, "", theme.CreateHintStyle().Render("enter to open • esc to go back"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderStorageList renders the storage list
func (m *StorageSelectorModel) renderStorageList(title string) string {
	var items []string
	for i, storage := range m.storages {
		prefix := "  "
		style := theme.CreateItemStyle()
		if i == m.selectedIndex {
			prefix = "▶ "
			style = theme.CreateSelectedItemStyle()
		}

		// Mark the last used storage
		if storage.IsLast {
			prefix += "* "
		} else {
			prefix += "  "
		}

		line := prefix + storage.Name
		if storage.Name != storage.ID {
			line += theme.CreateSecondaryTextStyle().Render(fmt.Sprintf(" (%s)", storage.ID))
		}
		if storage.IsRecent {
			line += theme.CreateSecondaryTextStyle().Render(" recent")
		}
		items = append(items, style.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		strings.Join(items, "\n"),
		"",
		m.help.ShortHelpView(m.keyMap.ShortHelp()),
	)
}
