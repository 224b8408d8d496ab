package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/najihkids/backoffice/internal/auth"
	"github.com/najihkids/backoffice/internal/models"
	"github.com/najihkids/backoffice/internal/storage/legacy"
	"github.com/najihkids/backoffice/internal/storage/sqlite"
	"github.com/najihkids/backoffice/internal/watch"
)

// fixture wires the full service stack against temp-dir stores.
type fixture struct {
	store         *sqlite.Store
	kv            *legacy.Store
	watcher       *watch.Broadcaster
	provider      *auth.Provider
	products      *ProductService
	orders        *OrderService
	notifications *NotificationService
	settings      *SettingsService
	stats         *StatsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	logger := slog.Default()

	kv, err := legacy.Open(filepath.Join(dir, "legacy.json"))
	if err != nil {
		t.Fatalf("open legacy store: %v", err)
	}
	store := sqlite.New(filepath.Join(dir, "test.db"))
	t.Cleanup(func() { store.Close() })

	watcher := watch.NewBroadcaster()
	products := NewProductService(store, watcher, logger)
	orders := NewOrderService(store, kv, watcher, logger)

	f := &fixture{
		store:         store,
		kv:            kv,
		watcher:       watcher,
		provider:      auth.NewProvider(store, kv, logger),
		products:      products,
		orders:        orders,
		notifications: NewNotificationService(store, watcher, logger),
		settings:      NewSettingsService(store, watcher, logger),
		stats:         NewStatsService(orders, products, logger),
	}

	if err := f.provider.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return f
}

// login authenticates an existing user, failing the test otherwise.
func (f *fixture) login(t *testing.T, username, password string) *auth.Session {
	t.Helper()
	sess, err := f.provider.Login(context.Background(), username, password)
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return sess
}

// addUser creates a regular user as the admin and returns their session.
func (f *fixture) addUser(t *testing.T, name, username, password string) *auth.Session {
	t.Helper()
	admin := f.login(t, auth.AdminUsername, auth.AdminPassword)
	if _, err := f.provider.CreateUser(context.Background(), admin, name, username, password, models.RoleUser); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return f.login(t, username, password)
}

// saveProduct persists a product as the given session.
func (f *fixture) saveProduct(t *testing.T, sess *auth.Session, p *models.Product) *models.Product {
	t.Helper()
	saved, err := f.products.Save(context.Background(), sess, p)
	if err != nil {
		t.Fatalf("save product: %v", err)
	}
	return saved
}

func boolPtr(b bool) *bool { return &b }
