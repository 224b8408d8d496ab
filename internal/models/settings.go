package models

// SettingsID keys the per-process settings singleton in the record store.
const SettingsID = "settings"

// Settings holds store-wide preferences. One record per profile.
type Settings struct {
	ID                 string `json:"id"`
	DarkMode           bool   `json:"darkMode"`
	EmailNotifications bool   `json:"emailNotifications"`
	PushNotifications  bool   `json:"pushNotifications"`
	StoreTimeZone      string `json:"storeTimeZone"`
	Currency           string `json:"currency"`
}

// DefaultSettings returns the settings used before the user saves any.
func DefaultSettings() *Settings {
	return &Settings{
		ID:                 SettingsID,
		DarkMode:           false,
		EmailNotifications: true,
		PushNotifications:  true,
		StoreTimeZone:      "Africa/Casablanca",
		Currency:           "MAD",
	}
}

// RecordID implements storage.Record.
func (s *Settings) RecordID() string {
	if s.ID == "" {
		return SettingsID
	}
	return s.ID
}
