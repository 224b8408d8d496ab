// Package models defines the core domain models for the back-office.
//
// # Records and ownership
//
// Every persisted record carries a unique string id and, for Products,
// Orders and Notifications, an optional owner user id. An empty owner means
// the record predates per-user ownership and is visible to every regular
// user; a set owner restricts visibility to that user (admins see all).
// Records implement the Owned interface so the scoping layer can enforce
// these rules without knowing the concrete type.
//
// # Derived fields
//
// Two fields are derived, never independently authoritative:
//   - Product stock status: computed from the stock count by StockStatusFor
//   - Order win eligibility: computed from the line items by HasWinEligible
//
// Both are still serialized for display, but every mutation site recomputes
// them through these shared functions so the stored copy cannot drift.
//
// # Wire compatibility
//
// JSON tags match the layout the browser app persisted ("userId",
// "winEligible", "orderNumber", ...) so migrated data round-trips unchanged.
package models
