package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/najihkids/backoffice/internal/models"
	"github.com/najihkids/backoffice/internal/storage"
	"github.com/najihkids/backoffice/internal/watch"
)

// SettingsService owns the per-profile settings singleton.
type SettingsService struct {
	store   storage.Store
	watcher *watch.Broadcaster
	logger  *slog.Logger
}

// NewSettingsService creates a settings service.
func NewSettingsService(store storage.Store, watcher *watch.Broadcaster, logger *slog.Logger) *SettingsService {
	return &SettingsService{store: store, watcher: watcher, logger: logger}
}

// Get returns the stored settings, or the defaults when none were ever
// saved or the store cannot be read. Settings failures never block the UI.
func (s *SettingsService) Get(ctx context.Context) *models.Settings {
	raws, err := s.store.GetAll(ctx, storage.Settings)
	if err != nil {
		s.logger.Warn("settings read failed, using defaults", "error", err)
		return models.DefaultSettings()
	}

	for _, raw := range raws {
		var settings models.Settings
		if err := json.Unmarshal(raw, &settings); err != nil {
			continue
		}
		if settings.RecordID() == models.SettingsID {
			return &settings
		}
	}
	return models.DefaultSettings()
}

// Save persists the settings singleton.
func (s *SettingsService) Save(ctx context.Context, settings *models.Settings) error {
	if settings.ID == "" {
		settings.ID = models.SettingsID
	}
	if err := s.store.Put(ctx, storage.Settings, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.watcher.Publish(storage.Settings)
	return nil
}
