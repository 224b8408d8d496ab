package auth

import "github.com/najihkids/backoffice/internal/models"

// Session is the identity of the logged-in user. It is passed explicitly
// to every scoping and service call; nothing below the UI reads ambient
// session state. A nil *Session is the anonymous state.
//
// This is also the shape of the persisted session blob: the password is
// deliberately absent.
type Session struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// IsAdmin reports whether the session is an authenticated admin.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

// UserID returns the session's user id, or "" when anonymous.
func (s *Session) UserID() string {
	if s == nil {
		return ""
	}
	return s.ID
}

// sessionFor builds the persisted identity for a user, normalizing any
// unknown stored role down to the regular-user role.
func sessionFor(u *models.User) *Session {
	role := models.RoleUser
	if u.Role == models.RoleAdmin {
		role = models.RoleAdmin
	}
	return &Session{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Role:     role,
	}
}
