// Package storage defines the record-store contract: durable, transactional
// CRUD over five named collections of JSON documents keyed by record id.
package storage

import (
	"context"
	"encoding/json"
	"errors"
)

// Collection names one of the five record stores.
type Collection string

const (
	Products      Collection = "products"
	Orders        Collection = "orders"
	Users         Collection = "users"
	Notifications Collection = "notifications"
	Settings      Collection = "settings"
)

// Collections lists every known collection, in the order they are migrated.
var Collections = []Collection{Products, Orders, Users, Notifications, Settings}

// Known reports whether c is one of the five collections.
func (c Collection) Known() bool {
	switch c {
	case Products, Orders, Users, Notifications, Settings:
		return true
	}
	return false
}

var (
	// ErrUnavailable means the underlying store could not be opened.
	// Read paths must degrade to an empty result rather than propagate
	// this to the UI boundary.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrWrite means a put or delete transaction failed. Surfaced to the
	// caller; never retried automatically.
	ErrWrite = errors.New("storage write failed")

	// ErrUnknownCollection means a caller named a collection outside the
	// fixed five. Always a programming error.
	ErrUnknownCollection = errors.New("unknown collection")
)

// Record is anything the store can persist. The id is the upsert key.
type Record interface {
	RecordID() string
}

// Store is the transactional record store.
//
// Each call is atomic with respect to itself only; there is no
// cross-operation locking. Two overlapping read-modify-write sequences
// against the same record can lose an update (see DESIGN.md).
type Store interface {
	// GetAll returns every record in the collection as raw JSON, in no
	// meaningful order. Fails with ErrUnavailable if the store cannot
	// be opened.
	GetAll(ctx context.Context, c Collection) ([]json.RawMessage, error)

	// Put upserts a single record by id, overwriting silently.
	Put(ctx context.Context, c Collection, rec Record) error

	// PutMany upserts a batch in one transaction: all records are
	// applied or none are.
	PutMany(ctx context.Context, c Collection, recs []Record) error

	// Delete removes a record by id. Deleting an id that does not exist
	// is not an error at this layer.
	Delete(ctx context.Context, c Collection, id string) error

	// Close releases any resources held by the store.
	Close() error
}

// Decode unmarshals a batch of raw records into typed values, skipping
// nothing: a single malformed record fails the whole decode so corruption
// is noticed rather than silently dropped.
func Decode[T any](raws []json.RawMessage) ([]*T, error) {
	out := make([]*T, 0, len(raws))
	for _, raw := range raws {
		v := new(T)
		if err := json.Unmarshal(raw, v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
