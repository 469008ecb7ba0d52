package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/pubdrop/internal/browser"
	"github.com/HaiFongPan/pubdrop/internal/config"
	"github.com/HaiFongPan/pubdrop/internal/navpath"
	"github.com/HaiFongPan/pubdrop/internal/remote"
	"github.com/HaiFongPan/pubdrop/internal/routing"
	tuiconfig "github.com/HaiFongPan/pubdrop/internal/tui/config"
	"github.com/HaiFongPan/pubdrop/internal/tui/messaging"
	"github.com/HaiFongPan/pubdrop/internal/tui/theme"
)

// view is a screen bound to one route
type view interface {
	Mount() tea.Cmd
	Unmount()
	Matches(route navpath.Route) bool
	Update(msg tea.Msg) tea.Cmd
	View(spinnerView string) string
	SetSize(width, height int)
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

type viewLoadedMsg struct{}

type navigationDoneMsg struct {
	target string
	err    error
}

type historyMovedMsg struct {
	moved bool
}

type linkActionMsg struct {
	text string
	err  error
}

type statusMsg struct {
	text string
	kind messaging.MessageType
}

type statusTickMsg time.Time

// navigateCmd runs a navigation, which waits for the views to load the target
func navigateCmd(ctx context.Context, history *routing.History, to string) tea.Cmd {
	return func() tea.Msg {
		err := history.Navigate(ctx, to)
		return navigationDoneMsg{target: to, err: err}
	}
}

func statusCmd(text string, kind messaging.MessageType) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, kind: kind}
	}
}

func statusTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}

// AppKeyMap defines the keybindings available on every screen
type AppKeyMap struct {
	Back    key.Binding
	Forward key.Binding
	GoTo    key.Binding
	Help    key.Binding
	Quit    key.Binding
	Cancel  key.Binding
	Confirm key.Binding
}

// DefaultAppKeyMap returns default keybindings
func DefaultAppKeyMap() AppKeyMap {
	return AppKeyMap{
		Back: key.NewBinding(
			key.WithKeys("b", "[", "alt+left"),
			key.WithHelp("b/[", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("f", "]", "alt+right"),
			key.WithHelp("f/]", "forward"),
		),
		GoTo: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to location"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "go"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the footer
func (k AppKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Forward, k.GoTo, k.Help, k.Quit}
}

// FullHelp returns keybindings for the help dialog
func (k AppKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Back, k.Forward, k.GoTo}, {k.Help, k.Cancel, k.Quit}}
}

type combinedKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (c combinedKeyMap) ShortHelp() []key.Binding  { return c.short }
func (c combinedKeyMap) FullHelp() [][]key.Binding { return c.full }

// AppOption configures an AppModel
type AppOption func(*AppModel)

// WithLinkActions replaces the browser and clipboard actions of the file card
func WithLinkActions(actions LinkActions) AppOption {
	return func(m *AppModel) {
		m.actions = actions
	}
}

// WithStorageVisited registers fn to run whenever a new storage is shown
func WithStorageVisited(fn func(storageID string)) AppOption {
	return func(m *AppModel) {
		m.onStorage = fn
	}
}

// AppModel follows the history and shows the directory browser or the file
// card for the current location. Views are unmounted whenever the location
// leaves them, which releases their history registrations.
type AppModel struct {
	ctx       context.Context
	cancel    context.CancelFunc
	client    remote.Client
	history   *routing.History
	cfg       *config.Config
	actions   LinkActions
	onStorage func(storageID string)

	current  view
	route    navpath.Route
	routeErr string

	keyMap    AppKeyMap
	help      help.Model
	showHelp  bool
	gotoInput textinput.Model
	showGoto  bool
	spinner   spinner.Model
	status    messaging.StatusManager

	windowWidth  int
	windowHeight int
}

// NewAppModel creates the root model
func NewAppModel(ctx context.Context, client remote.Client, history *routing.History, cfg *config.Config, opts ...AppOption) *AppModel {
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.CreateLoadingStyle()

	input := textinput.New()
	input.Placeholder = "/download/{storageId}/path, /files/{storageId}/file or a storage id"
	input.Prompt = "› "
	input.CharLimit = 1024
	input.Width = tuiconfig.DialogLargeWidth - 8

	m := &AppModel{
		ctx:          ctx,
		cancel:       cancel,
		client:       client,
		history:      history,
		cfg:          cfg,
		actions:      DefaultLinkActions(cfg.UI.OpenLinks),
		keyMap:       DefaultAppKeyMap(),
		help:         help.New(),
		gotoInput:    input,
		spinner:      s,
		status:       messaging.NewStatusManager(),
		windowWidth:  80,
		windowHeight: 24,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init implements the bubbletea.Model interface
func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(m.syncRoute(), m.spinner.Tick, statusTick())
}

// Update implements the bubbletea.Model interface
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.help.Width = msg.Width
		if m.current != nil {
			m.current.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case navigationDoneMsg:
		switch {
		case errors.Is(msg.err, routing.ErrNavigationSuperseded):
			logrus.Debugf("App: navigation to %s was superseded", msg.target)
		case msg.err != nil:
			logrus.WithError(msg.err).Warnf("App: navigation to %s failed", msg.target)
			m.status.SetMessage("Navigation failed", messaging.MessageError)
		}
		return m, m.syncRoute()

	case historyMovedMsg:
		if !msg.moved {
			m.status.SetMessage("No more history in that direction", messaging.MessageInfo)
			return m, nil
		}
		return m, m.syncRoute()

	case viewLoadedMsg:
		if m.current != nil {
			return m, m.current.Update(msg)
		}
		return m, nil

	case linkActionMsg:
		if msg.err != nil {
			logrus.WithError(msg.err).Error("App: link action failed")
			m.status.SetMessage(msg.err.Error(), messaging.MessageError)
		} else {
			m.status.SetMessage(msg.text, messaging.MessageSuccess)
		}
		return m, nil

	case statusMsg:
		m.status.SetMessage(msg.text, msg.kind)
		return m, nil

	case statusTickMsg:
		m.status.Expire(time.Time(msg))
		return m, statusTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.showGoto {
		var cmd tea.Cmd
		m.gotoInput, cmd = m.gotoInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.showGoto {
		return m.handleGotoKey(msg)
	}

	if m.showHelp {
		switch {
		case key.Matches(msg, m.keyMap.Help), key.Matches(msg, m.keyMap.Cancel):
			m.showHelp = false
		case msg.String() == "ctrl+c":
			return m.quit()
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m.quit()

	case key.Matches(msg, m.keyMap.Back):
		history := m.history
		return func() tea.Msg {
			return historyMovedMsg{moved: history.Back()}
		}

	case key.Matches(msg, m.keyMap.Forward):
		history := m.history
		return func() tea.Msg {
			return historyMovedMsg{moved: history.Forward()}
		}

	case key.Matches(msg, m.keyMap.GoTo):
		m.showGoto = true
		m.gotoInput.SetValue(m.history.Location())
		m.gotoInput.CursorEnd()
		return m.gotoInput.Focus()

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = true
		return nil

	case key.Matches(msg, m.keyMap.Cancel):
		m.status.ClearMessage()
		return nil
	}

	if m.current != nil {
		return m.current.Update(msg)
	}
	return nil
}

func (m *AppModel) handleGotoKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		m.closeGoto()
		return nil

	case key.Matches(msg, m.keyMap.Confirm):
		value := m.gotoInput.Value()
		route, err := navpath.Resolve(value)
		if err != nil {
			logrus.WithError(err).Debug("App: rejected location")
			m.status.SetMessage(fmt.Sprintf("Unknown location: %s", strings.TrimSpace(value)), messaging.MessageError)
			return nil
		}
		m.closeGoto()
		return navigateCmd(m.ctx, m.history, route.Location())

	case msg.String() == "ctrl+c":
		return m.quit()
	}

	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return cmd
}

func (m *AppModel) closeGoto() {
	m.showGoto = false
	m.gotoInput.Blur()
	m.gotoInput.Reset()
}

func (m *AppModel) quit() tea.Cmd {
	m.Close()
	return tea.Quit
}

// Close unmounts the current view and cancels pending requests
func (m *AppModel) Close() {
	if m.current != nil {
		m.current.Unmount()
	}
	m.cancel()
}

// syncRoute makes the current view match the history location. A view that
// already renders the location is kept; it follows the history by itself.
func (m *AppModel) syncRoute() tea.Cmd {
	location := m.history.Location()
	route, err := navpath.ParseRoute(location)
	if err != nil {
		logrus.WithError(err).Warn("App: cannot show location")
		if m.current != nil {
			m.current.Unmount()
			m.current = nil
		}
		m.routeErr = fmt.Sprintf("Unknown location: %s", location)
		return nil
	}
	m.routeErr = ""

	if m.current != nil && m.current.Matches(route) {
		m.route = route
		return nil
	}
	if m.current != nil {
		m.current.Unmount()
	}

	switch route.Kind {
	case navpath.KindFile:
		fileView := browser.NewFileView(m.client, route.StorageID, route.Path)
		m.current = NewFileCardModel(m.ctx, fileView, m.history, m.actions)
	default:
		nav := browser.NewNavigator(m.client, m.history, route.StorageID)
		m.current = NewFileBrowserModel(m.ctx, nav, m.history, m.cfg.StorageName(route.StorageID))
	}
	m.current.SetSize(m.windowWidth, m.windowHeight)

	if route.StorageID != m.route.StorageID && m.onStorage != nil {
		m.onStorage(route.StorageID)
	}
	m.route = route
	logrus.Debugf("App: showing %s view for %s", route.Kind, location)
	return m.current.Mount()
}

// Location returns the current history location
func (m *AppModel) Location() string {
	return m.history.Location()
}

// View implements the bubbletea.Model interface
func (m *AppModel) View() string {
	header := theme.CreateHeaderStyle().Render("📂 pubdrop") + "  " +
		theme.CreateSecondaryTextStyle().Render(m.history.Location())

	var body string
	switch {
	case m.routeErr != "":
		body = theme.CreateErrorStyle().Render(m.routeErr)
	case m.current != nil:
		body = m.current.View(m.spinner.View())
	}
	body = lipgloss.NewStyle().MarginLeft(tuiconfig.DefaultMarginSize).Render(body)

	// back/forward are hidden from the help while there is nowhere to go
	appKeys := m.keyMap
	appKeys.Back.SetEnabled(m.history.CanGoBack())
	appKeys.Forward.SetEnabled(m.history.CanGoForward())
	keys := combinedKeyMap{short: appKeys.ShortHelp(), full: appKeys.FullHelp()}
	if m.current != nil {
		keys.short = append(m.current.ShortHelp(), keys.short...)
		keys.full = append(m.current.FullHelp(), keys.full...)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	if m.status.HasMessage() {
		b.WriteString(lipgloss.NewStyle().MarginLeft(tuiconfig.DefaultMarginSize).Render(m.status.RenderMessage()))
		b.WriteString("\n")
	}
	b.WriteString(theme.CreateFooterStyle().Render(m.help.ShortHelpView(keys.ShortHelp())))
	baseView := b.String()

	switch {
	case m.showGoto:
		return m.renderFloatingDialog(m.renderGotoDialog())
	case m.showHelp:
		return m.renderFloatingDialog(m.renderHelpDialog(keys))
	}
	return baseView
}

func (m *AppModel) renderFloatingDialog(dialog string) string {
	return lipgloss.Place(
		m.windowWidth,
		m.windowHeight,
		lipgloss.Center,
		lipgloss.Center,
		dialog,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("#222222")),
	)
}

func (m *AppModel) renderGotoDialog() string {
	var b strings.Builder
	b.WriteString(theme.CreatePromptStyle().Render("Go to location"))
	b.WriteString("\n\n")
	b.WriteString(m.gotoInput.View())
	b.WriteString("\n\n")
	b.WriteString(theme.CreateHintStyle().Render("enter to go • esc to cancel"))
	if m.status.HasMessage() {
		b.WriteString("\n")
		b.WriteString(m.status.RenderMessage())
	}
	return theme.CreateDialogStyle(min(tuiconfig.DialogLargeWidth, max(30, m.windowWidth-4)), "").Render(b.String())
}

func (m *AppModel) renderHelpDialog(keys combinedKeyMap) string {
	title := theme.CreatePromptStyle().Render("📂 pubdrop - Help")
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		m.help.FullHelpView(keys.FullHelp()),
		"",
		theme.CreateHintStyle().Render("Press ? or esc to close help"),
	)
	return theme.CreateDialogStyle(min(tuiconfig.DialogLargeWidth, max(30, m.windowWidth-4)), theme.ColorBrightYellow).Render(content)
}
