package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fileshare/internal/client/api"
)

func TestAuthLogin(t *testing.T) {
	t.Run("success persists the session", func(t *testing.T) {
		sess := newTestSession(t)
		client := &fakeClient{LoginToken: testToken(t, "user@example.com")}
		svc := NewAuthService(client, sess)

		err := svc.Login(context.Background(), "user@example.com", []byte("secret123"))
		require.NoError(t, err)
		require.Equal(t, "user@example.com", client.LastLogin)

		require.True(t, svc.IsAuthenticated())
		u := svc.CurrentUser()
		require.NotNil(t, u)
		require.Equal(t, "user@example.com", u.Email)
		require.Equal(t, client.LoginToken, sess.Token())
	})

	t.Run("wrong password stores nothing", func(t *testing.T) {
		sess := newTestSession(t)
		client := &fakeClient{LoginErr: api.ErrInvalidCredentials}
		svc := NewAuthService(client, sess)

		err := svc.Login(context.Background(), "user@example.com", []byte("wrong"))
		require.ErrorIs(t, err, api.ErrInvalidCredentials)
		require.Equal(t, "incorrect email or password", api.UserMessage(err))

		require.False(t, svc.IsAuthenticated())
		require.Empty(t, sess.Token())
	})
}

func TestAuthRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := &fakeClient{RegisterResult: &api.RegisterResult{UserID: "u1", Email: "user@example.com"}}
		svc := NewAuthService(client, newTestSession(t))

		err := svc.Register(context.Background(), "user@example.com", []byte("secret123"))
		require.NoError(t, err)
		require.Equal(t, 1, client.RegisterCalls)
		require.Equal(t, "user@example.com", client.LastRegister)
	})

	t.Run("duplicate email", func(t *testing.T) {
		client := &fakeClient{RegisterErr: api.ErrConflict}
		svc := NewAuthService(client, newTestSession(t))

		err := svc.Register(context.Background(), "user@example.com", []byte("secret123"))
		require.ErrorIs(t, err, api.ErrConflict)
		require.Equal(t, "an account already exists with this email", api.UserMessage(err))
	})
}

func TestAuthLogout(t *testing.T) {
	sess := newTestSession(t)
	client := &fakeClient{LoginToken: testToken(t, "user@example.com")}
	svc := NewAuthService(client, sess)

	require.NoError(t, svc.Login(context.Background(), "user@example.com", []byte("secret123")))
	require.True(t, svc.IsAuthenticated())

	require.NoError(t, svc.Logout(context.Background()))
	require.False(t, svc.IsAuthenticated())
	require.Nil(t, svc.CurrentUser())
}
