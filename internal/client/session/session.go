// Package session holds the authenticated identity of the client: the JWT
// issued at login plus the identity decoded from its claims, persisted in
// the local metadata store so a restart keeps the user logged in.
//
// The decoded identity is for display only. No signature verification
// happens client-side; the backend re-validates the token on every
// authenticated call, and a 401 there forces a logout.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/fileshare/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fileshare/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Storage keys, fixed by contract.
const (
	tokenKey = "jwt_token"
	userKey  = "current_user"
)

// User is the identity decoded from JWT claims.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Manager is the injectable session context object with the lifecycle
// init (read storage) -> login (write) -> logout (clear). It is safe for
// concurrent use.
type Manager struct {
	repo metadata.Repository

	mu    sync.RWMutex
	token string
	user  *User
}

// NewManager builds a Manager over the given storage. Call Init before use.
func NewManager(repo metadata.Repository) *Manager {
	return &Manager{repo: repo}
}

// Init restores the session from storage. A missing token simply leaves the
// manager unauthenticated; a stored but undecodable user record is dropped.
func (m *Manager) Init(ctx context.Context) error {
	token, err := m.repo.Get(ctx, tokenKey)
	if err != nil {
		return fmt.Errorf("read stored token: %w", err)
	}
	if len(token) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = string(token)

	raw, err := m.repo.Get(ctx, userKey)
	if err != nil {
		return fmt.Errorf("read stored user: %w", err)
	}
	if len(raw) > 0 {
		var u User
		if err := json.Unmarshal(raw, &u); err == nil {
			m.user = &u
		}
	}
	return nil
}

// Login stores the token, decodes its claims into the current user, and
// persists both in one transaction: a failed login never leaves a token
// behind for the next Init to restore. The token signature is not verified
// here.
func (m *Manager) Login(ctx context.Context, token string) error {
	user, err := decodeUser(token)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	err = m.repo.Update(ctx, func(r metadata.Repository) error {
		if err := r.Set(ctx, tokenKey, []byte(token)); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
		if err := r.Set(ctx, userKey, raw); err != nil {
			return fmt.Errorf("store user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.user = user
	return nil
}

// Logout clears the persisted session and the in-memory state. The store
// holds nothing but the session, so the whole store is wiped in one
// statement. It is safe to call when not logged in.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.user = nil
	return nil
}

// Token returns the current JWT, or "" when unauthenticated. It satisfies
// the api.TokenProvider signature.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// IsAuthenticated reports whether a token is present. It never touches the
// network; token validity is judged lazily by the backend.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

// CurrentUser returns the decoded identity, or nil when unauthenticated.
func (m *Manager) CurrentUser() *User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// decodeUser extracts the identity from the token claims without verifying
// the signature. The backend uses "sub" for the login email.
func decodeUser(token string) (*User, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, common.ErrInvalidToken
	}
	return &User{ID: sub, Email: sub}, nil
}
