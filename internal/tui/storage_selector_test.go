package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/pubdrop/internal/config"
)

func selectorConfig() *config.Config {
	return &config.Config{
		UI: config.UIConfig{
			Storages: []config.StorageBookmark{
				{Name: "Team drop", ID: "abc"},
				{ID: "xyz"},
			},
		},
	}
}

func TestStorageSelector_BuildsItemsFromBookmarksAndRecent(t *testing.T) {
	ud := &config.UserData{LastStorage: "xyz", Recent: []string{"xyz", "old", "abc"}}
	m := NewStorageSelectorModel(selectorConfig(), ud)

	require.Len(t, m.storages, 3)
	assert.Equal(t, StorageItem{Name: "Team drop", ID: "abc"}, m.storages[0])
	assert.Equal(t, StorageItem{Name: "xyz", ID: "xyz", IsLast: true}, m.storages[1])
	assert.Equal(t, StorageItem{Name: "old", ID: "old", IsRecent: true}, m.storages[2])

	// the last used storage is preselected
	assert.Equal(t, 1, m.selectedIndex)
	assert.False(t, m.inputMode)
}

func TestStorageSelector_SelectBookmark(t *testing.T) {
	m := NewStorageSelectorModel(selectorConfig(), nil)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.selectedIndex)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	location, ok := m.Selected()
	assert.True(t, ok)
	assert.Equal(t, "/download/xyz", location)
}

func TestStorageSelector_StartsInInputModeWithoutStorages(t *testing.T) {
	m := NewStorageSelectorModel(&config.Config{}, &config.UserData{})
	assert.True(t, m.inputMode)
	assert.Contains(t, m.View(), "Storage ID or location")

	m.input.SetValue("/files/abc/docs/a.pdf")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	location, ok := m.Selected()
	assert.True(t, ok)
	assert.Equal(t, "/files/abc/docs/a.pdf", location)
}

func TestStorageSelector_InputRejectsUnknownLocation(t *testing.T) {
	m := NewStorageSelectorModel(selectorConfig(), nil)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	require.True(t, m.inputMode)

	m.input.SetValue("/somewhere/else")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "Unknown location")

	// esc returns to the list while storages exist
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.inputMode)
	assert.Empty(t, m.input.Value())
}

func TestStorageSelector_QuitWithoutSelection(t *testing.T) {
	m := NewStorageSelectorModel(selectorConfig(), nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, ok := m.Selected()
	assert.False(t, ok)
}
