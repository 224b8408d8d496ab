package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Stock status values derived from the stock count.
const (
	StockStatusOut = "out-of-stock"
	StockStatusLow = "low-stock"
	StockStatusIn  = "in-stock"
)

// LowStockThreshold is the stock count at or below which a product counts
// as low-stock (but above zero).
const LowStockThreshold = 10

// Price is a monetary amount that tolerates both JSON numbers and numeric
// strings on decode. The browser app stored prices in either form
// depending on which form wrote them.
type Price float64

// UnmarshalJSON accepts 12.5, "12.5" and "" (treated as zero).
func (p *Price) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			*p = 0
			return nil
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", str, err)
		}
		*p = Price(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Price(v)
	return nil
}

// MarshalJSON always writes the numeric form.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(p))
}

// Product is a catalog entry.
type Product struct {
	// ID is the unique identifier for the product (UUID format).
	ID string `json:"id"`

	// Name is the display name of the product.
	Name string `json:"name"`

	// Category groups products in the catalog views.
	Category string `json:"category,omitempty"`

	// Price is the unit price. Decodes from numbers or numeric strings.
	Price Price `json:"price"`

	// Stock is the units on hand. Never negative: decrements clamp at 0.
	Stock int `json:"stock"`

	// WinEligible marks the product for the promotional draw. Tri-state
	// on the wire: records written before the flag existed have it
	// absent, and absent means eligible. Read through IsWinEligible.
	WinEligible *bool `json:"winEligible,omitempty"`

	// Sales counts units sold, maintained on order creation.
	Sales int `json:"sales,omitempty"`

	// ImageURL points at the product image, if any.
	ImageURL string `json:"imageUrl,omitempty"`

	// Barcode is the scannable code used by the quick-scan flow.
	// Lookups also match on ID, so it is optional.
	Barcode string `json:"barcode,omitempty"`

	// Status is the stored stock status, recomputed from Stock at every
	// mutation via StockStatusFor. Kept for display compatibility only.
	Status string `json:"status,omitempty"`

	// OwnerUserID links the product to the user who created it.
	// Empty means visible to all regular users.
	OwnerUserID string `json:"userId,omitempty"`
}

// IsWinEligible resolves the tri-state flag: absent defaults to eligible.
func (p *Product) IsWinEligible() bool {
	return p.WinEligible == nil || *p.WinEligible
}

// RecordID implements Owned.
func (p *Product) RecordID() string { return p.ID }

// OwnerID implements Owned.
func (p *Product) OwnerID() string { return p.OwnerUserID }

// SetOwnerID implements Owned.
func (p *Product) SetOwnerID(id string) { p.OwnerUserID = id }

// StockStatusFor derives the display status from a stock count.
// This is the single source of truth for the derivation; callers must not
// reimplement the thresholds inline.
func StockStatusFor(stock int) string {
	switch {
	case stock <= 0:
		return StockStatusOut
	case stock <= LowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}
