package messaging

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/pubdrop/internal/tui/theme"
)

// MessageType represents different message types for status display
type MessageType int

// Message type constants
const (
	MessageInfo    MessageType = theme.MessageInfo
	MessageSuccess MessageType = theme.MessageSuccess
	MessageWarning MessageType = theme.MessageWarning
	MessageError   MessageType = theme.MessageError
)

// DefaultTTL is how long a message stays visible
const DefaultTTL = 4 * time.Second

// StatusManager manages the transient status line
type StatusManager interface {
	SetMessage(message string, msgType MessageType)
	ClearMessage()
	GetMessage() (string, MessageType, bool)
	Expire(now time.Time) bool
	RenderMessage() string
	HasMessage() bool
}

// StatusManagerImpl implements the StatusManager interface
type StatusManagerImpl struct {
	statusMessage string
	messageType   MessageType
	messageTimer  time.Time
	ttl           time.Duration
}

// NewStatusManager creates a new status manager instance
func NewStatusManager() StatusManager {
	return &StatusManagerImpl{
		messageType: MessageInfo,
		ttl:         DefaultTTL,
	}
}

// SetMessage sets a status message with type
func (sm *StatusManagerImpl) SetMessage(message string, msgType MessageType) {
	sm.statusMessage = message
	sm.messageType = msgType
	sm.messageTimer = time.Now()

	logrus.Debugf("StatusManager: message=%q type=%d", message, msgType)
}

// ClearMessage clears the status message
func (sm *StatusManagerImpl) ClearMessage() {
	sm.statusMessage = ""
}

// GetMessage returns the current message, type, and whether a message exists
func (sm *StatusManagerImpl) GetMessage() (string, MessageType, bool) {
	return sm.statusMessage, sm.messageType, sm.statusMessage != ""
}

// Expire clears the message once it is older than the ttl. It reports
// whether a message was cleared.
func (sm *StatusManagerImpl) Expire(now time.Time) bool {
	if sm.statusMessage == "" || now.Sub(sm.messageTimer) < sm.ttl {
		return false
	}
	sm.ClearMessage()
	return true
}

// HasMessage returns whether there is currently a status message
func (sm *StatusManagerImpl) HasMessage() bool {
	return sm.statusMessage != ""
}

// RenderMessage renders the current status message with appropriate styling
func (sm *StatusManagerImpl) RenderMessage() string {
	if !sm.HasMessage() {
		return ""
	}

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.GetMessageColor(int(sm.messageType)))).
		Bold(true)

	return messageStyle.Render(fmt.Sprintf("%s %s", theme.GetMessageIcon(int(sm.messageType)), sm.statusMessage))
}
