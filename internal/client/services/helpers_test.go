package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fileshare/internal/client/api"
	"github.com/dmitrijs2005/fileshare/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fileshare/internal/client/session"
	"github.com/dmitrijs2005/fileshare/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestSession(t *testing.T) *session.Manager {
	t.Helper()
	db, err := session.OpenDatabase(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := session.NewManager(metadata.NewSQLiteMetadataRepository(db))
	require.NoError(t, m.Init(context.Background()))
	return m
}

func testToken(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

// fakeClient implements api.Client with canned results and Last* capture
// fields for asserting what the service sent.
type fakeClient struct {
	RegisterResult *api.RegisterResult
	RegisterErr    error
	LastRegister   string
	RegisterCalls  int

	LoginToken string
	LoginErr   error
	LastLogin  string
	LoginCalls int

	ListPage   *api.FileListPage
	ListErr    error
	LastParams api.ListParams
	ListCalls  int

	UploadMeta     *api.FileMetadata
	UploadErr      error
	UploadProgress []int
	LastUploadName string
	LastUploadPwd  string
	LastUploadDays int
	UploadCalls    int

	DeleteErr    error
	LastDeleteID string
	DeleteCalls  int

	InfoResult    *api.FileInfo
	InfoErr       error
	LastInfoToken string
	InfoCalls     int

	DownloadPayload []byte
	DownloadName    string
	DownloadErr     error
	LastDownloadTok string
	LastDownloadPwd string
	DownloadCalls   int

	OwnerPayload []byte
	OwnerName    string
	OwnerErr     error
	LastOwnerTok string
	OwnerCalls   int
}

func (f *fakeClient) Register(ctx context.Context, login, password string) (*api.RegisterResult, error) {
	f.RegisterCalls++
	f.LastRegister = login
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	return f.RegisterResult, nil
}

func (f *fakeClient) Login(ctx context.Context, login, password string) (string, error) {
	f.LoginCalls++
	f.LastLogin = login
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	return f.LoginToken, nil
}

func (f *fakeClient) ListFiles(ctx context.Context, params api.ListParams) (*api.FileListPage, error) {
	f.ListCalls++
	f.LastParams = params
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.ListPage, nil
}

func (f *fakeClient) UploadFile(ctx context.Context, req api.UploadRequest) (*api.FileMetadata, error) {
	f.UploadCalls++
	f.LastUploadName = req.Name
	f.LastUploadPwd = req.Password
	f.LastUploadDays = req.ExpirationDays
	if req.Content != nil {
		io.Copy(io.Discard, req.Content)
	}
	if req.Progress != nil {
		for _, pct := range f.UploadProgress {
			req.Progress(pct)
		}
	}
	if f.UploadErr != nil {
		return nil, f.UploadErr
	}
	return f.UploadMeta, nil
}

func (f *fakeClient) DeleteFile(ctx context.Context, id string) error {
	f.DeleteCalls++
	f.LastDeleteID = id
	return f.DeleteErr
}

func (f *fakeClient) FileInfo(ctx context.Context, token string) (*api.FileInfo, error) {
	f.InfoCalls++
	f.LastInfoToken = token
	if f.InfoErr != nil {
		return nil, f.InfoErr
	}
	return f.InfoResult, nil
}

func (f *fakeClient) DownloadFile(ctx context.Context, token, password string, w io.Writer) (string, error) {
	f.DownloadCalls++
	f.LastDownloadTok = token
	f.LastDownloadPwd = password
	if f.DownloadErr != nil {
		return "", f.DownloadErr
	}
	if _, err := w.Write(f.DownloadPayload); err != nil {
		return "", err
	}
	return f.DownloadName, nil
}

func (f *fakeClient) OwnerDownload(ctx context.Context, token string, w io.Writer) (string, error) {
	f.OwnerCalls++
	f.LastOwnerTok = token
	if f.OwnerErr != nil {
		return "", f.OwnerErr
	}
	if _, err := w.Write(f.OwnerPayload); err != nil {
		return "", err
	}
	return f.OwnerName, nil
}
