package models

// Order statuses. "completed" appears in older data written by a UI
// variant; it decodes fine since Status is a plain string, and new orders
// never use it.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// OrderItem is one line of an order: a snapshot of the product at order
// time plus the quantity. The snapshot is deliberate; later product edits
// must not rewrite history.
type OrderItem struct {
	ProductID   string `json:"id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Price       Price  `json:"price"`
	WinEligible bool   `json:"winEligible"`
}

// Order is a customer order. Immutable after creation except for status
// changes and deletion.
type Order struct {
	// ID is the unique identifier for the order (UUID format).
	ID string `json:"id"`

	// OrderNumber is the display code shown to staff (e.g. "ORD-042").
	// It is not guaranteed unique; ID is the key.
	OrderNumber string `json:"orderNumber"`

	// CustomerName defaults to "Guest" when left blank at checkout.
	CustomerName string `json:"customerName"`

	// Date is the creation time as an RFC 3339 timestamp.
	Date string `json:"date"`

	// Status is one of the Order* constants.
	Status string `json:"status"`

	// Total is the order amount: sum of price*quantity over the items.
	Total float64 `json:"total"`

	// Items are the order lines, in the order they were added.
	Items []OrderItem `json:"items"`

	// HasWinEligibleProducts is derived from the items via HasWinEligible
	// and recomputed wherever the items are (re)written.
	HasWinEligibleProducts bool `json:"hasWinEligibleProducts"`

	// OwnerUserID links the order to the user who placed it.
	OwnerUserID string `json:"userId,omitempty"`
}

// RecordID implements Owned.
func (o *Order) RecordID() string { return o.ID }

// OwnerID implements Owned.
func (o *Order) OwnerID() string { return o.OwnerUserID }

// SetOwnerID implements Owned.
func (o *Order) SetOwnerID(id string) { o.OwnerUserID = id }

// HasWinEligible reports whether any line item is win-eligible. The single
// derivation point for Order.HasWinEligibleProducts.
func HasWinEligible(items []OrderItem) bool {
	for _, it := range items {
		if it.WinEligible {
			return true
		}
	}
	return false
}
