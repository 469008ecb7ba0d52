package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// maxRecentStorages bounds the recent list shown by the storage picker
const maxRecentStorages = 5

// UserData holds user-specific settings that are stored locally
type UserData struct {
	LastStorage string    `json:"last_storage"`
	Recent      []string  `json:"recent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoadUserData loads user data from $HOME/.pubdrop/user.data. A missing or
// unreadable file yields empty defaults.
func LoadUserData() (*UserData, error) {
	userDataPath, err := getUserDataPath()
	if err != nil {
		return createDefaultUserData(), nil
	}

	// Check if file exists
	if _, err := os.Stat(userDataPath); os.IsNotExist(err) {
		return createDefaultUserData(), nil
	}

	data, err := os.ReadFile(userDataPath)
	if err != nil {
		return createDefaultUserData(), nil
	}

	var userData UserData
	if err := json.Unmarshal(data, &userData); err != nil {
		// Invalid JSON, return default
		return createDefaultUserData(), nil
	}

	return &userData, nil
}

// SaveUserData saves user data to the user.data file
func (ud *UserData) SaveUserData() error {
	userDataPath, err := getUserDataPath()
	if err != nil {
		return err
	}

	// Update timestamp
	ud.UpdatedAt = time.Now()
	if ud.CreatedAt.IsZero() {
		ud.CreatedAt = ud.UpdatedAt
	}

	data, err := json.MarshalIndent(ud, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(userDataPath, data, 0600)
}

// SetLastStorage records storageID as the last used storage and saves to file
func (ud *UserData) SetLastStorage(storageID string) error {
	ud.LastStorage = storageID

	recent := []string{storageID}
	for _, id := range ud.Recent {
		if id != storageID && len(recent) < maxRecentStorages {
			recent = append(recent, id)
		}
	}
	ud.Recent = recent

	return ud.SaveUserData()
}

// createDefaultUserData creates a new UserData with default values
func createDefaultUserData() *UserData {
	now := time.Now()
	return &UserData{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// getUserDataPath returns the path to the user.data file
func getUserDataPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	// Use the same directory as config file
	configDir := filepath.Join(homeDir, ".pubdrop")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}

	return filepath.Join(configDir, "user.data"), nil
}
