package migrate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/najihkids/backoffice/internal/models"
	"github.com/najihkids/backoffice/internal/storage"
	"github.com/najihkids/backoffice/internal/storage/legacy"
	"github.com/najihkids/backoffice/internal/storage/sqlite"
)

func setup(t *testing.T) (*legacy.Store, *sqlite.Store) {
	t.Helper()
	dir := t.TempDir()
	kv, err := legacy.Open(filepath.Join(dir, "legacy.json"))
	if err != nil {
		t.Fatalf("open legacy store: %v", err)
	}
	store := sqlite.New(filepath.Join(dir, "test.db"))
	t.Cleanup(func() { store.Close() })
	return kv, store
}

func seedLegacy(t *testing.T, kv *legacy.Store, key, value string) {
	t.Helper()
	if err := kv.Set(key, value); err != nil {
		t.Fatalf("seed %s: %v", key, err)
	}
}

func decodeAll[T any](t *testing.T, store storage.Store, c storage.Collection) []*T {
	t.Helper()
	raws, err := store.GetAll(context.Background(), c)
	if err != nil {
		t.Fatalf("GetAll %s: %v", c, err)
	}
	out, err := storage.Decode[T](raws)
	if err != nil {
		t.Fatalf("decode %s: %v", c, err)
	}
	return out
}

func TestRunCopiesAndStampsCollections(t *testing.T) {
	kv, store := setup(t)
	ctx := context.Background()

	seedLegacy(t, kv, "products", `[
		{"id":"p1","name":"Headphones","price":"129.99","stock":5},
		{"id":"p2","name":"Case","price":24.99,"stock":2,"userId":"someone-else"}
	]`)
	seedLegacy(t, kv, "orders", `[{"id":"o1","orderNumber":"ORD-001","total":129.99}]`)
	seedLegacy(t, kv, "users", `[{"id":"u1","name":"Jane","username":"jane","password":"pw123","role":"user"}]`)
	seedLegacy(t, kv, "notifications", `[{"id":17,"title":"Low stock","read":false}]`)
	seedLegacy(t, kv, legacy.KeyUserSettings, `{"darkMode":true,"currency":"MAD"}`)

	c := New(kv, store, slog.Default())
	if err := c.Run(ctx, "jane-id"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	t.Run("products stamped unless already owned", func(t *testing.T) {
		products := decodeAll[models.Product](t, store, storage.Products)
		if len(products) != 2 {
			t.Fatalf("expected 2 products, got %d", len(products))
		}
		byID := map[string]*models.Product{}
		for _, p := range products {
			byID[p.ID] = p
		}
		if byID["p1"].OwnerUserID != "jane-id" {
			t.Errorf("p1 owner = %q, want jane-id", byID["p1"].OwnerUserID)
		}
		if byID["p2"].OwnerUserID != "someone-else" {
			t.Errorf("p2 owner overwritten: %q", byID["p2"].OwnerUserID)
		}
		// Legacy string price must decode.
		if float64(byID["p1"].Price) != 129.99 {
			t.Errorf("p1 price = %v, want 129.99", byID["p1"].Price)
		}
	})

	t.Run("orders stamped", func(t *testing.T) {
		orders := decodeAll[models.Order](t, store, storage.Orders)
		if len(orders) != 1 || orders[0].OwnerUserID != "jane-id" {
			t.Errorf("orders = %+v, want one order owned by jane-id", orders)
		}
	})

	t.Run("users never stamped", func(t *testing.T) {
		users := decodeAll[models.User](t, store, storage.Users)
		if len(users) != 1 || users[0].Username != "jane" {
			t.Fatalf("users = %+v", users)
		}
		var raw map[string]json.RawMessage
		raws, _ := store.GetAll(context.Background(), storage.Users)
		if err := json.Unmarshal(raws[0], &raw); err != nil {
			t.Fatalf("decode user raw: %v", err)
		}
		if _, ok := raw["userId"]; ok {
			t.Error("user record gained an owner stamp")
		}
	})

	t.Run("notifications and settings carried", func(t *testing.T) {
		notifications := decodeAll[models.Notification](t, store, storage.Notifications)
		if len(notifications) != 1 || notifications[0].OwnerUserID != "jane-id" {
			t.Errorf("notifications = %+v", notifications)
		}
		settings := decodeAll[models.Settings](t, store, storage.Settings)
		if len(settings) != 1 || !settings[0].DarkMode {
			t.Errorf("settings = %+v", settings)
		}
	})

	t.Run("completion flag set", func(t *testing.T) {
		if !c.Done() {
			t.Error("migration not marked complete")
		}
	})
}

func TestRunIsIdempotent(t *testing.T) {
	kv, store := setup(t)
	ctx := context.Background()

	seedLegacy(t, kv, "products", `[{"id":"p1","name":"Headphones","price":10,"stock":5}]`)

	c := New(kv, store, slog.Default())
	if err := c.Run(ctx, ""); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}

	// New legacy data after completion must never be picked up: the flag
	// short-circuits the second run entirely.
	seedLegacy(t, kv, "products", `[{"id":"p1"},{"id":"p2"}]`)
	if err := c.Run(ctx, ""); err != nil {
		t.Fatalf("second Run failed: %v", err)
	}

	products := decodeAll[models.Product](t, store, storage.Products)
	if len(products) != 1 {
		t.Errorf("second run copied data: %d products", len(products))
	}
}

func TestRunWithoutIdentityLeavesOwnerUnset(t *testing.T) {
	kv, store := setup(t)

	seedLegacy(t, kv, "products", `[{"id":"p1","name":"Headphones","price":10,"stock":5}]`)

	c := New(kv, store, slog.Default())
	if err := c.Run(context.Background(), ""); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	products := decodeAll[models.Product](t, store, storage.Products)
	if products[0].OwnerUserID != "" {
		t.Errorf("owner = %q, want unset", products[0].OwnerUserID)
	}
}

func TestRunFailureLeavesFlagUnset(t *testing.T) {
	dir := t.TempDir()
	kv, err := legacy.Open(filepath.Join(dir, "legacy.json"))
	if err != nil {
		t.Fatalf("open legacy store: %v", err)
	}
	seedLegacy(t, kv, "products", `[{"id":"p1","name":"Headphones","price":10,"stock":5}]`)

	c := New(kv, &failingStore{}, slog.Default())
	if err := c.Run(context.Background(), ""); err == nil {
		t.Fatal("expected Run to fail")
	}
	if c.Done() {
		t.Error("failed migration marked complete")
	}
}

// failingStore rejects every write, standing in for a store that cannot
// commit.
type failingStore struct{}

func (f *failingStore) GetAll(context.Context, storage.Collection) ([]json.RawMessage, error) {
	return nil, nil
}

func (f *failingStore) Put(context.Context, storage.Collection, storage.Record) error {
	return errors.New("refused")
}

func (f *failingStore) PutMany(context.Context, storage.Collection, []storage.Record) error {
	return errors.New("refused")
}

func (f *failingStore) Delete(context.Context, storage.Collection, string) error {
	return errors.New("refused")
}

func (f *failingStore) Close() error { return nil }
