package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/najihkids/backoffice/internal/auth"
	"github.com/najihkids/backoffice/internal/models"
)

// Totals is the dashboard headline: order count, revenue and catalog size
// over the caller's visible records.
type Totals struct {
	Orders   int
	Revenue  float64
	Products int
}

// MonthSales is one point of the sales chart.
type MonthSales struct {
	// Name is the short month name ("Jan").
	Name  string
	Sales float64
}

// StatsService computes the dashboard analytics. It reads through the
// order and product services so every figure respects visibility scoping.
type StatsService struct {
	orders   *OrderService
	products *ProductService
	logger   *slog.Logger
}

// NewStatsService creates a stats service.
func NewStatsService(orders *OrderService, products *ProductService, logger *slog.Logger) *StatsService {
	return &StatsService{orders: orders, products: products, logger: logger}
}

// Totals aggregates the session's visible orders and products. The
// optional from/to bounds filter orders by date, inclusive; zero times
// leave that side unbounded.
func (s *StatsService) Totals(ctx context.Context, sess *auth.Session, from, to time.Time) (Totals, error) {
	orders, err := s.orders.List(ctx, sess)
	if err != nil {
		return Totals{}, err
	}
	products, err := s.products.List(ctx, sess)
	if err != nil {
		return Totals{}, err
	}

	var t Totals
	t.Products = len(products)
	for _, o := range orders {
		when, ok := orderTime(o)
		if !from.IsZero() && (!ok || when.Before(from)) {
			continue
		}
		if !to.IsZero() && (!ok || when.After(to)) {
			continue
		}
		t.Orders++
		t.Revenue += o.Total
	}
	return t, nil
}

// MonthlySales returns the revenue per month for ref's month and the six
// months before it, oldest first. Orders with unparseable dates are
// skipped.
func (s *StatsService) MonthlySales(ctx context.Context, sess *auth.Session, ref time.Time) ([]MonthSales, error) {
	orders, err := s.orders.List(ctx, sess)
	if err != nil {
		return nil, err
	}

	type monthKey struct {
		year  int
		month time.Month
	}
	totals := make(map[monthKey]float64)
	for _, o := range orders {
		when, ok := orderTime(o)
		if !ok {
			continue
		}
		totals[monthKey{when.Year(), when.Month()}] += o.Total
	}

	// Anchor on the first of the month so stepping back from a day past
	// the 28th cannot skip a short month.
	base := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	out := make([]MonthSales, 0, 7)
	for i := 6; i >= 0; i-- {
		m := base.AddDate(0, -i, 0)
		out = append(out, MonthSales{
			Name:  m.Format("Jan"),
			Sales: totals[monthKey{m.Year(), m.Month()}],
		})
	}
	return out, nil
}

// PopularProducts returns up to n visible products sorted by units sold,
// best sellers first. Products that never sold sort last, in their stored
// order.
func (s *StatsService) PopularProducts(ctx context.Context, sess *auth.Session, n int) ([]*models.Product, error) {
	products, err := s.products.List(ctx, sess)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Sales > products[j].Sales
	})

	if n > 0 && len(products) > n {
		products = products[:n]
	}
	return products, nil
}

// orderTime parses the order's RFC 3339 date stamp.
func orderTime(o *models.Order) (time.Time, bool) {
	if o.Date == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, o.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
