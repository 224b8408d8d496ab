// Package service implements the business rules on top of the scoping
// layer: order intake with stock decrement, catalog maintenance,
// notifications, settings, and sales analytics.
//
// Services convert storage failures at this boundary; nothing below the
// error taxonomy leaks to callers unwrapped.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/najihkids/backoffice/internal/auth"
	"github.com/najihkids/backoffice/internal/models"
	"github.com/najihkids/backoffice/internal/scope"
	"github.com/najihkids/backoffice/internal/storage"
	"github.com/najihkids/backoffice/internal/watch"
)

// ProductService owns the product catalog.
type ProductService struct {
	store   storage.Store
	watcher *watch.Broadcaster
	logger  *slog.Logger
}

// NewProductService creates a product service.
func NewProductService(store storage.Store, watcher *watch.Broadcaster, logger *slog.Logger) *ProductService {
	return &ProductService{store: store, watcher: watcher, logger: logger}
}

// List returns the products visible to the session.
func (s *ProductService) List(ctx context.Context, sess *auth.Session) ([]*models.Product, error) {
	return scope.ListVisible[models.Product, *models.Product](ctx, s.store, sess, storage.Products)
}

// Save upserts a product, stamping a missing owner with the session's
// identity and recomputing the stored stock status.
func (s *ProductService) Save(ctx context.Context, sess *auth.Session, p *models.Product) (*models.Product, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.Status = models.StockStatusFor(p.Stock)

	if err := scope.SaveOwned(ctx, s.store, sess, storage.Products, p); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}

	s.logger.Info("product saved", "product_id", p.ID, "owner", p.OwnerUserID)
	s.watcher.Publish(storage.Products)
	return p, nil
}

// Delete removes a product by id. There is no ownership gate on product
// deletion; the catalog predates per-record ownership and the UI restricts
// the action by permission instead.
func (s *ProductService) Delete(ctx context.Context, sess *auth.Session, id string) error {
	if err := s.store.Delete(ctx, storage.Products, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.logger.Info("product deleted", "product_id", id, "by", sess.UserID())
	s.watcher.Publish(storage.Products)
	return nil
}

// FindByCode resolves a scanned code against the session's visible
// products, matching the product id or its barcode.
func (s *ProductService) FindByCode(ctx context.Context, sess *auth.Session, code string) (*models.Product, error) {
	products, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.ID == code || (p.Barcode != "" && p.Barcode == code) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: code %q", ErrProductNotFound, code)
}
