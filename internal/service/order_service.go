package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/najihkids/backoffice/internal/auth"
	"github.com/najihkids/backoffice/internal/models"
	"github.com/najihkids/backoffice/internal/scope"
	"github.com/najihkids/backoffice/internal/storage"
	"github.com/najihkids/backoffice/internal/storage/legacy"
	"github.com/najihkids/backoffice/internal/watch"
)

// Line is one (product, quantity) pair submitted at checkout.
type Line struct {
	Product  *models.Product
	Quantity int
}

// OrderService owns order intake and deletion.
type OrderService struct {
	store   storage.Store
	kv      *legacy.Store
	watcher *watch.Broadcaster
	logger  *slog.Logger
}

// NewOrderService creates an order service. kv holds the quick-scan code
// history, which still lives in the flat profile store.
func NewOrderService(store storage.Store, kv *legacy.Store, watcher *watch.Broadcaster, logger *slog.Logger) *OrderService {
	return &OrderService{store: store, kv: kv, watcher: watcher, logger: logger}
}

// List returns the orders visible to the session.
func (s *OrderService) List(ctx context.Context, sess *auth.Session) ([]*models.Order, error) {
	return scope.ListVisible[models.Order, *models.Order](ctx, s.store, sess, storage.Orders)
}

// Create places an order from a non-empty sequence of lines: the total is
// the sum of price*quantity, win eligibility is derived from the items, and
// each line decrements the product's stock, floored at zero. Products whose
// stock is already exhausted do not fail the order; the clamp absorbs it.
func (s *OrderService) Create(ctx context.Context, sess *auth.Session, customerName string, lines []Line) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	items := make([]models.OrderItem, 0, len(lines))
	total := 0.0
	for _, l := range lines {
		items = append(items, models.OrderItem{
			ProductID:   l.Product.ID,
			Name:        l.Product.Name,
			Quantity:    l.Quantity,
			Price:       l.Product.Price,
			WinEligible: l.Product.IsWinEligible(),
		})
		total += float64(l.Product.Price) * float64(l.Quantity)
	}

	name := strings.TrimSpace(customerName)
	if name == "" {
		name = "Guest"
	}

	order := &models.Order{
		ID:                     uuid.New().String(),
		OrderNumber:            fmt.Sprintf("ORD-%03d", rand.IntN(1000)),
		CustomerName:           name,
		Date:                   time.Now().UTC().Format(time.RFC3339),
		Status:                 models.OrderPending,
		Total:                  total,
		Items:                  items,
		HasWinEligibleProducts: models.HasWinEligible(items),
	}

	if err := scope.SaveOwned(ctx, s.store, sess, storage.Orders, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	for _, l := range lines {
		if err := s.decrementStock(ctx, l.Product.ID, l.Quantity); err != nil {
			// The order is already placed; a failed stock update is
			// logged and the counts self-correct on the next save.
			s.logger.Warn("stock update failed", "product_id", l.Product.ID, "error", err)
		}
	}

	s.logger.Info("order created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"total", order.Total,
		"owner", order.OwnerUserID,
	)
	s.watcher.Publish(storage.Orders)
	s.watcher.Publish(storage.Products)
	return order, nil
}

// Delete removes an order through the ownership gate: admins may delete
// any order, a regular user only their own. Denials surface to the caller.
func (s *OrderService) Delete(ctx context.Context, sess *auth.Session, id string) error {
	if err := scope.DeleteOwned(ctx, s.store, sess, storage.Orders, id); err != nil {
		if err == auth.ErrPermissionDenied {
			return err
		}
		return fmt.Errorf("delete order: %w", err)
	}
	s.logger.Info("order deleted", "order_id", id, "by", sess.UserID())
	s.watcher.Publish(storage.Orders)
	return nil
}

// QuickScan creates a single-unit order directly from a scanned code, with
// no cart-review step. Unlike Create, it refuses outright when the product
// has no stock left, mirroring the scan flow's precheck, and it records the
// code in the scan history.
func (s *OrderService) QuickScan(ctx context.Context, sess *auth.Session, products *ProductService, code string) (*models.Order, error) {
	s.recordScan(code)

	product, err := products.FindByCode(ctx, sess, code)
	if err != nil {
		return nil, err
	}
	if product.Stock <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrOutOfStock, product.Name)
	}

	return s.Create(ctx, sess, "", []Line{{Product: product, Quantity: 1}})
}

// ScanHistory returns the recorded quick-scan codes, oldest first.
func (s *OrderService) ScanHistory() []string {
	raw, ok := s.kv.Get(legacy.KeyScannedBarcodes)
	if !ok || raw == "" {
		return nil
	}
	var codes []string
	if err := json.Unmarshal([]byte(raw), &codes); err != nil {
		return nil
	}
	return codes
}

// ClearScanHistory forgets all recorded codes.
func (s *OrderService) ClearScanHistory() error {
	return s.kv.Delete(legacy.KeyScannedBarcodes)
}

// recordScan appends the code to the history, deduplicated.
func (s *OrderService) recordScan(code string) {
	codes := s.ScanHistory()
	for _, c := range codes {
		if c == code {
			return
		}
	}
	codes = append(codes, code)
	data, err := json.Marshal(codes)
	if err != nil {
		return
	}
	if err := s.kv.Set(legacy.KeyScannedBarcodes, string(data)); err != nil {
		s.logger.Warn("scan history write failed", "error", err)
	}
}

// decrementStock applies a clamped read-modify-write of the product's
// stock and bumps its sales counter. There is no cross-call locking, so two
// overlapping checkouts of the same product can lose one of the updates;
// accepted at this scale.
func (s *OrderService) decrementStock(ctx context.Context, productID string, qty int) error {
	raws, err := s.store.GetAll(ctx, storage.Products)
	if err != nil {
		return err
	}
	all, err := storage.Decode[models.Product](raws)
	if err != nil {
		return err
	}

	for _, p := range all {
		if p.ID != productID {
			continue
		}
		p.Stock = max(0, p.Stock-qty)
		p.Sales += qty
		p.Status = models.StockStatusFor(p.Stock)
		return s.store.Put(ctx, storage.Products, p)
	}

	return fmt.Errorf("%w: id %q", ErrProductNotFound, productID)
}
