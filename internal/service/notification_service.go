package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/najihkids/backoffice/internal/auth"
	"github.com/najihkids/backoffice/internal/models"
	"github.com/najihkids/backoffice/internal/scope"
	"github.com/najihkids/backoffice/internal/storage"
	"github.com/najihkids/backoffice/internal/watch"
)

// NotificationService owns in-app notifications.
type NotificationService struct {
	store   storage.Store
	watcher *watch.Broadcaster
	logger  *slog.Logger
}

// NewNotificationService creates a notification service.
func NewNotificationService(store storage.Store, watcher *watch.Broadcaster, logger *slog.Logger) *NotificationService {
	return &NotificationService{store: store, watcher: watcher, logger: logger}
}

// List returns the notifications visible to the session: all for admins,
// unowned plus own for regular users.
func (s *NotificationService) List(ctx context.Context, sess *auth.Session) ([]*models.Notification, error) {
	return scope.ListVisible[models.Notification, *models.Notification](ctx, s.store, sess, storage.Notifications)
}

// Save upserts a notification, assigning a timestamp id when unset and
// stamping a missing owner with the session's identity.
func (s *NotificationService) Save(ctx context.Context, sess *auth.Session, n *models.Notification) (*models.Notification, error) {
	if n.ID == 0 {
		n.ID = time.Now().UnixMilli()
	}
	if err := scope.SaveOwned(ctx, s.store, sess, storage.Notifications, n); err != nil {
		return nil, fmt.Errorf("save notification: %w", err)
	}
	s.watcher.Publish(storage.Notifications)
	return n, nil
}

// MarkRead flags a visible notification as read. Unknown or invisible ids
// are ignored; there is nothing actionable for the caller.
func (s *NotificationService) MarkRead(ctx context.Context, sess *auth.Session, id int64) error {
	visible, err := s.List(ctx, sess)
	if err != nil {
		return err
	}
	for _, n := range visible {
		if n.ID != id || n.Read {
			continue
		}
		n.Read = true
		if err := s.store.Put(ctx, storage.Notifications, n); err != nil {
			return fmt.Errorf("mark notification read: %w", err)
		}
		s.watcher.Publish(storage.Notifications)
		return nil
	}
	return nil
}
