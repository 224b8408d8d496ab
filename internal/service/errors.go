package service

import "errors"

var (
	// ErrEmptyOrder means an order was submitted with no line items.
	ErrEmptyOrder = errors.New("order has no items")

	// ErrProductNotFound means no visible product matched the id or code.
	ErrProductNotFound = errors.New("product not found")

	// ErrOutOfStock means the quick-scan flow hit a product with no
	// stock left. Regular checkout never raises this: it clamps instead,
	// because the UI is expected to block ordering beforehand and the
	// service does not trust it to.
	ErrOutOfStock = errors.New("product is out of stock")
)
