package models

import "strconv"

// Notification is an in-app notification. Ids are numeric for historical
// reasons (the browser app assigned them from timestamps); the record store
// keys everything by string, so RecordID formats the number.
type Notification struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Time        string `json:"time"`
	Read        bool   `json:"read"`
	OwnerUserID string `json:"userId,omitempty"`
}

// RecordID implements Owned.
func (n *Notification) RecordID() string { return strconv.FormatInt(n.ID, 10) }

// OwnerID implements Owned.
func (n *Notification) OwnerID() string { return n.OwnerUserID }

// SetOwnerID implements Owned.
func (n *Notification) SetOwnerID(id string) { n.OwnerUserID = id }
