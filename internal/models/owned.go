package models

// Owned is implemented by records that carry an optional owner user id.
// The scoping layer and the migration controller work against this
// interface rather than the concrete types.
type Owned interface {
	RecordID() string
	OwnerID() string
	SetOwnerID(id string)
}

var (
	_ Owned = (*Product)(nil)
	_ Owned = (*Order)(nil)
	_ Owned = (*Notification)(nil)
)
