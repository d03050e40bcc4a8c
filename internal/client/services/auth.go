// Package services contains the application services of the fileshare
// client: authentication, the file list view-model with uploads and
// deletion, and the public download flow.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fileshare/internal/client/api"
	"github.com/dmitrijs2005/fileshare/internal/client/session"
)

// AuthService defines the authentication operations of the CLI.
//
// Contract:
//   - Register: create a new account on the server.
//   - Login: authenticate and persist the session.
//   - Logout: clear the persisted session.
//   - IsAuthenticated / CurrentUser: synchronous session state, no network.
//
// All blocking methods honor context cancellation.
type AuthService interface {
	Register(ctx context.Context, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context) error
	IsAuthenticated() bool
	CurrentUser() *session.User
}

type authService struct {
	client  api.Client
	session *session.Manager
}

// NewAuthService constructs an AuthService bound to the given API client and
// session manager.
func NewAuthService(client api.Client, sess *session.Manager) AuthService {
	return &authService{client: client, session: sess}
}

func (a *authService) Register(ctx context.Context, email string, password []byte) error {
	if _, err := a.client.Register(ctx, email, string(password)); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

// Login exchanges credentials for a token and persists the session. On a 401
// the error carries api.ErrInvalidCredentials and no token is stored.
func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	token, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	if err := a.session.Login(ctx, token); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

func (a *authService) IsAuthenticated() bool {
	return a.session.IsAuthenticated()
}

func (a *authService) CurrentUser() *session.User {
	return a.session.CurrentUser()
}
