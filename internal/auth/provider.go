// Package auth owns the session lifecycle and user administration: login,
// logout, account management, the default-admin bootstrap, and the
// role/permission table.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/najihkids/backoffice/internal/models"
	"github.com/najihkids/backoffice/internal/storage"
	"github.com/najihkids/backoffice/internal/storage/legacy"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrProtectedAccount   = errors.New("the admin account cannot be modified")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
)

// Default administrator, created at bootstrap when absent. The fixed id
// and credentials are part of the persisted-state contract.
const (
	AdminID       = "admin-id"
	AdminName     = "Admin User"
	AdminUsername = "admin"
	AdminPassword = "password"
)

// Provider manages identities against the record store, persisting the
// active session in the flat profile store so a reload resumes it.
type Provider struct {
	store  storage.Store
	kv     *legacy.Store
	logger *slog.Logger
}

// NewProvider creates a session/identity provider.
func NewProvider(store storage.Store, kv *legacy.Store, logger *slog.Logger) *Provider {
	return &Provider{store: store, kv: kv, logger: logger}
}

// Bootstrap ensures the default administrator exists. It runs at process
// start, before any login can be attempted against a fresh store, and is
// idempotent: an existing "admin" username short-circuits it.
func (p *Provider) Bootstrap(ctx context.Context) error {
	users, err := p.allUsers(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	for _, u := range users {
		if u.Username == AdminUsername {
			return nil
		}
	}

	admin := &models.User{
		ID:       AdminID,
		Name:     AdminName,
		Username: AdminUsername,
		Password: AdminPassword,
		Role:     models.RoleAdmin,
	}
	if err := p.store.Put(ctx, storage.Users, admin); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	p.logger.Info("default admin created", "user_id", AdminID)
	return nil
}

// Login authenticates by exact, case-sensitive username match and plain
// password equality, then persists the session identity.
func (p *Provider) Login(ctx context.Context, username, password string) (*Session, error) {
	users, err := p.allUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	var found *models.User
	for _, u := range users {
		if u.Username == username {
			found = u
			break
		}
	}
	if found == nil || found.Password != password {
		p.logger.Warn("login failed", "username", username)
		return nil, ErrInvalidCredentials
	}

	sess := sessionFor(found)
	if err := p.persistSession(sess); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	p.logger.Info("login ok", "user_id", sess.ID, "role", sess.Role)
	return sess, nil
}

// Logout clears the persisted identity before returning, so a reload that
// races the logout can never resurrect the session.
func (p *Provider) Logout(sess *Session) error {
	if err := p.kv.Delete(legacy.KeyCurrentUser); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if err := p.kv.Set(legacy.KeyLoggedIn, "false"); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	p.logger.Info("logout", "user_id", sess.UserID())
	return nil
}

// Resume rehydrates the session persisted by a previous Login. Returns nil
// (anonymous) when no session is stored or the blob does not parse.
func (p *Provider) Resume() *Session {
	if v, _ := p.kv.Get(legacy.KeyLoggedIn); v != "true" {
		return nil
	}
	raw, ok := p.kv.Get(legacy.KeyCurrentUser)
	if !ok {
		return nil
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		p.logger.Warn("stored session did not parse, starting anonymous", "error", err)
		return nil
	}
	if sess.Role != models.RoleAdmin {
		sess.Role = models.RoleUser
	}
	return &sess
}

// CreateUser inserts a new account. Admin-only; usernames are unique by
// exact, case-sensitive match.
func (p *Provider) CreateUser(ctx context.Context, sess *Session, name, username, password string, role models.Role) (*models.User, error) {
	if !sess.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	users, err := p.allUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	for _, u := range users {
		if u.Username == username {
			return nil, ErrDuplicateUsername
		}
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Name:     name,
		Username: username,
		Password: password,
		Role:     role,
	}
	if err := p.store.Put(ctx, storage.Users, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	p.logger.Info("user created", "user_id", user.ID, "role", role, "by", sess.ID)
	return user, nil
}

// Register creates a regular-user account without requiring a session;
// the sign-up form runs before anyone is logged in. The role is always
// RoleUser, and usernames are unique by exact, case-sensitive match, same
// as CreateUser. Registration does not log the new user in; they proceed
// to the login form.
func (p *Provider) Register(ctx context.Context, name, username, password string) (*models.User, error) {
	users, err := p.allUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	for _, u := range users {
		if u.Username == username {
			return nil, ErrDuplicateUsername
		}
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Name:     name,
		Username: username,
		Password: password,
		Role:     models.RoleUser,
	}
	if err := p.store.Put(ctx, storage.Users, user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	p.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// ChangePassword replaces a user's password. Admin-only.
func (p *Provider) ChangePassword(ctx context.Context, sess *Session, userID, newPassword string) error {
	if !sess.IsAdmin() {
		return ErrPermissionDenied
	}

	target, err := p.userByID(ctx, userID)
	if err != nil {
		return err
	}
	target.Password = newPassword
	if err := p.store.Put(ctx, storage.Users, target); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	p.logger.Info("password changed", "user_id", userID, "by", sess.ID)
	return nil
}

// DeleteUser removes an account. The fixed admin account is protected from
// every caller, admin included.
func (p *Provider) DeleteUser(ctx context.Context, sess *Session, userID string) error {
	target, err := p.userByID(ctx, userID)
	if err == nil && target.Username == AdminUsername {
		return ErrProtectedAccount
	}
	if !sess.IsAdmin() {
		return ErrPermissionDenied
	}
	if err != nil {
		return err
	}

	if err := p.store.Delete(ctx, storage.Users, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	p.logger.Info("user deleted", "user_id", userID, "by", sess.ID)
	return nil
}

func (p *Provider) persistSession(sess *Session) error {
	blob, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := p.kv.Set(legacy.KeyCurrentUser, string(blob)); err != nil {
		return err
	}
	return p.kv.Set(legacy.KeyLoggedIn, "true")
}

func (p *Provider) allUsers(ctx context.Context) ([]*models.User, error) {
	raws, err := p.store.GetAll(ctx, storage.Users)
	if err != nil {
		return nil, err
	}
	return storage.Decode[models.User](raws)
}

func (p *Provider) userByID(ctx context.Context, id string) (*models.User, error) {
	users, err := p.allUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}
