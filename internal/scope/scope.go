// Package scope enforces identity- and role-based visibility on top of the
// record store. Admins see everything; a regular user sees unowned records
// plus their own (orders are stricter: own only); anonymous callers see
// nothing that can be owned.
//
// Every function takes the session explicitly. No ambient identity is ever
// consulted below this line.
package scope

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/najihkids/backoffice/internal/auth"
	"github.com/najihkids/backoffice/internal/models"
	"github.com/najihkids/backoffice/internal/storage"
)

// ListVisible returns the records of c the session may see. An unopenable
// store degrades to an empty result, per the record-store recovery
// contract; the UI renders "nothing" rather than crashing.
func ListVisible[T any, P interface {
	*T
	models.Owned
}](ctx context.Context, st storage.Store, sess *auth.Session, c storage.Collection) ([]*T, error) {
	raws, err := st.GetAll(ctx, c)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			return nil, nil
		}
		return nil, err
	}

	all, err := storage.Decode[T](raws)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", c, err)
	}

	if sess.IsAdmin() {
		return all, nil
	}

	uid := sess.UserID()
	if uid == "" {
		return nil, nil
	}

	visible := make([]*T, 0, len(all))
	for _, rec := range all {
		owner := P(rec).OwnerID()
		if owner == uid || (owner == "" && includesUnowned(c)) {
			visible = append(visible, rec)
		}
	}
	return visible, nil
}

// includesUnowned reports whether regular users see ownerless records in
// the collection. The asymmetry is deliberate and carried over from the
// prior storage generation: its order listing filtered strictly on the
// record's userId matching the caller, while the product and notification
// listings also returned records with no userId at all (pre-ownership
// data). Orders therefore have no unowned escape hatch.
func includesUnowned(c storage.Collection) bool {
	return c != storage.Orders
}

// SaveOwned stamps a missing owner with the session's identity and writes
// the record. An existing non-empty owner is never overwritten.
func SaveOwned(ctx context.Context, st storage.Store, sess *auth.Session, c storage.Collection, rec models.Owned) error {
	if rec.OwnerID() == "" && sess.UserID() != "" {
		rec.SetOwnerID(sess.UserID())
	}
	return st.Put(ctx, c, rec)
}

// DeleteOwned removes a record the session is allowed to remove: admins may
// delete anything, a regular user only a record they own. Everything else
// fails with auth.ErrPermissionDenied, loudly, not as a silent no-op.
func DeleteOwned(ctx context.Context, st storage.Store, sess *auth.Session, c storage.Collection, id string) error {
	if !sess.IsAdmin() {
		uid := sess.UserID()
		if uid == "" {
			return auth.ErrPermissionDenied
		}
		owner, found, err := ownerOf(ctx, st, c, id)
		if err != nil {
			return err
		}
		if !found || owner != uid {
			return auth.ErrPermissionDenied
		}
	}
	return st.Delete(ctx, c, id)
}

// ListAllUsers returns every user for admins and fails closed to an empty
// list for everyone else; user records are admin-only data and the UI
// treats an empty result as "nothing to show".
func ListAllUsers(ctx context.Context, st storage.Store, sess *auth.Session) ([]*models.User, error) {
	if !sess.IsAdmin() {
		return nil, nil
	}
	raws, err := st.GetAll(ctx, storage.Users)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			return nil, nil
		}
		return nil, err
	}
	return storage.Decode[models.User](raws)
}

// recordProbe extracts just the fields ownership checks need. The id is
// kept raw because notification ids are numbers while everything else uses
// strings.
type recordProbe struct {
	ID    json.RawMessage `json:"id"`
	Owner string          `json:"userId"`
}

func (p *recordProbe) id() string {
	var s string
	if err := json.Unmarshal(p.ID, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(p.ID, &n); err == nil {
		return n.String()
	}
	return ""
}

// ownerOf scans the collection for the record id and reports its owner.
func ownerOf(ctx context.Context, st storage.Store, c storage.Collection, id string) (owner string, found bool, err error) {
	raws, err := st.GetAll(ctx, c)
	if err != nil {
		return "", false, err
	}
	for _, raw := range raws {
		var p recordProbe
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		if p.id() == id {
			return p.Owner, true, nil
		}
	}
	return "", false, nil
}
