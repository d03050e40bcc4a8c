// Package api implements the REST client for the fileshare backend.
//
// It is a thin wrapper over net/http: each method issues exactly one request
// against the fixed API contract and translates HTTP status codes into the
// sentinel errors of this package. Authentication state lives elsewhere; the
// client only pulls the current bearer token through a TokenProvider.
package api

import (
	"context"
	"io"
)

// TokenProvider returns the current JWT, or "" when the user is not logged
// in. Authenticated calls consult it on every request so a re-login is
// picked up without rebuilding the client.
type TokenProvider func() string

// Client is the surface the application services depend on. The production
// implementation is HTTPClient; tests substitute fakes.
type Client interface {
	// Register creates a new account. Conflicting emails yield ErrConflict.
	Register(ctx context.Context, login, password string) (*RegisterResult, error)

	// Login exchanges credentials for a JWT. Bad credentials yield
	// ErrInvalidCredentials, throttling yields ErrRateLimited.
	Login(ctx context.Context, login, password string) (string, error)

	// ListFiles fetches one page of the caller's files.
	ListFiles(ctx context.Context, params ListParams) (*FileListPage, error)

	// UploadFile streams one file to the server and reports progress
	// through req.Progress.
	UploadFile(ctx context.Context, req UploadRequest) (*FileMetadata, error)

	// DeleteFile removes a file by id. Foreign files yield ErrForbidden.
	DeleteFile(ctx context.Context, id string) error

	// FileInfo resolves a public download token to file metadata without
	// transferring any bytes. Unknown tokens yield ErrNotFound, expired
	// files ErrGone.
	FileInfo(ctx context.Context, token string) (*FileInfo, error)

	// DownloadFile performs the public, optionally password-gated transfer,
	// writing the payload to w. It returns the server-declared filename
	// (from Content-Disposition) when present. A wrong password yields
	// ErrWrongPassword.
	DownloadFile(ctx context.Context, token, password string, w io.Writer) (string, error)

	// OwnerDownload retrieves the caller's own file by token, bypassing
	// the password gate. Requires authentication.
	OwnerDownload(ctx context.Context, token string, w io.Writer) (string, error)
}
