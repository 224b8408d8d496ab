// Package migrate copies every collection of the legacy flat store into
// the transactional record store, exactly once per profile.
package migrate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/najihkids/backoffice/internal/models"
	"github.com/najihkids/backoffice/internal/storage"
	"github.com/najihkids/backoffice/internal/storage/legacy"
)

// Controller runs the one-shot migration. Completion is recorded durably
// under the legacy store's migrationComplete flag, so a finished migration
// never re-runs even across restarts.
type Controller struct {
	kv     *legacy.Store
	store  storage.Store
	logger *slog.Logger
}

// New creates a migration controller.
func New(kv *legacy.Store, store storage.Store, logger *slog.Logger) *Controller {
	return &Controller{kv: kv, store: store, logger: logger}
}

// Done reports whether a previous run completed.
func (c *Controller) Done() bool {
	v, _ := c.kv.Get(legacy.KeyMigrationComplete)
	return v == "true"
}

// Run migrates products, orders, users, notifications and the settings
// blob, then sets the completion flag. Records missing an owner are
// stamped with ownerID (the current session's user id, possibly empty when
// nobody is logged in at migration time); user records are never stamped.
//
// Any error aborts the rest of this run and leaves the flag unset, so the
// next start retries. Re-running a partially applied migration is safe:
// every write is an upsert by id.
func (c *Controller) Run(ctx context.Context, ownerID string) error {
	if c.Done() {
		return nil
	}

	if err := copyOwned[models.Product](ctx, c, storage.Products, ownerID); err != nil {
		return err
	}
	if err := copyOwned[models.Order](ctx, c, storage.Orders, ownerID); err != nil {
		return err
	}
	if err := c.copyUsers(ctx); err != nil {
		return err
	}
	if err := copyOwned[models.Notification](ctx, c, storage.Notifications, ownerID); err != nil {
		return err
	}
	if err := c.copySettings(ctx); err != nil {
		return err
	}

	if err := c.kv.Set(legacy.KeyMigrationComplete, "true"); err != nil {
		return fmt.Errorf("record migration completion: %w", err)
	}

	c.logger.Info("legacy migration complete")
	return nil
}

// copyOwned moves one ownable collection, stamping records that lack an
// owner. The legacy key equals the collection name.
func copyOwned[T any, P interface {
	*T
	models.Owned
}](ctx context.Context, c *Controller, col storage.Collection, ownerID string) error {
	raws, err := c.kv.ReadList(string(col))
	if err != nil {
		return fmt.Errorf("migrate %s: %w", col, err)
	}
	if len(raws) == 0 {
		return nil
	}

	items, err := storage.Decode[T](raws)
	if err != nil {
		return fmt.Errorf("migrate %s: %w", col, err)
	}

	recs := make([]storage.Record, 0, len(items))
	for _, item := range items {
		owned := P(item)
		if owned.OwnerID() == "" && ownerID != "" {
			owned.SetOwnerID(ownerID)
		}
		recs = append(recs, owned)
	}

	if err := c.store.PutMany(ctx, col, recs); err != nil {
		return fmt.Errorf("migrate %s: %w", col, err)
	}

	c.logger.Info("migrated collection", "collection", col, "count", len(recs))
	return nil
}

func (c *Controller) copyUsers(ctx context.Context) error {
	raws, err := c.kv.ReadList(string(storage.Users))
	if err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	if len(raws) == 0 {
		return nil
	}

	users, err := storage.Decode[models.User](raws)
	if err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}

	recs := make([]storage.Record, 0, len(users))
	for _, u := range users {
		recs = append(recs, u)
	}
	if err := c.store.PutMany(ctx, storage.Users, recs); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}

	c.logger.Info("migrated collection", "collection", storage.Users, "count", len(recs))
	return nil
}

func (c *Controller) copySettings(ctx context.Context) error {
	raw, ok := c.kv.Get(legacy.KeyUserSettings)
	if !ok || raw == "" {
		return nil
	}

	var settings models.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return fmt.Errorf("migrate settings: %w", err)
	}
	if settings.ID == "" {
		settings.ID = models.SettingsID
	}

	if err := c.store.Put(ctx, storage.Settings, &settings); err != nil {
		return fmt.Errorf("migrate settings: %w", err)
	}

	c.logger.Info("migrated settings")
	return nil
}
