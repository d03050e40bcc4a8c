package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/fileshare/internal/client/api"
	"github.com/dmitrijs2005/fileshare/internal/client/session"
	"github.com/dmitrijs2005/fileshare/internal/filex"
	"github.com/dmitrijs2005/fileshare/internal/logging"
	"github.com/google/uuid"
)

// ErrPasswordRequired is the client-side refusal to attempt a transfer of a
// protected file without a password. No network call is made.
var ErrPasswordRequired = errors.New("password is required for this file")

// DownloadService drives the two-phase public download flow: token to
// metadata first, then the optionally password-gated byte transfer, saved
// under the server-declared original filename.
type DownloadService struct {
	client  api.Client
	session *session.Manager
	log     logging.Logger

	// now is a test seam for expiration arithmetic.
	now func() time.Time
}

// NewDownloadService constructs the download flow service.
func NewDownloadService(client api.Client, sess *session.Manager, log logging.Logger) *DownloadService {
	return &DownloadService{
		client:  client,
		session: sess,
		log:     log.With("component", "download"),
		now:     time.Now,
	}
}

// Info resolves a download token to file metadata (phase one). A token that
// is not even a UUID is reported like an unknown one, without a request.
func (s *DownloadService) Info(ctx context.Context, token string) (*api.FileInfo, error) {
	if uuid.Validate(token) != nil {
		return nil, fmt.Errorf("file info: %w", api.ErrNotFound)
	}
	return s.client.FileInfo(ctx, token)
}

// DaysUntilExpiration computes the calendar-day ceiling of the time left:
// a file expiring later today still counts as one day, never zero, so the
// message below says "tomorrow" rather than "today" for it.
func (s *DownloadService) DaysUntilExpiration(expirationDate time.Time) int {
	diff := expirationDate.Sub(s.now())
	return int(math.Ceil(diff.Hours() / 24))
}

// ExpirationMessage renders the display text for a number of days returned
// by DaysUntilExpiration.
func ExpirationMessage(days int) string {
	switch {
	case days <= 0:
		return "expired"
	case days == 1:
		return "expires tomorrow"
	default:
		return fmt.Sprintf("expires in %d days", days)
	}
}

// Download performs phase two against metadata previously fetched by Info.
// The expiration and password gates run before any network call; expiration
// is additionally re-checked by the server, which may answer 410 if the file
// expired between the two phases. The payload is written into dir under the
// server-declared filename and the final path is returned.
func (s *DownloadService) Download(ctx context.Context, token string, info *api.FileInfo, password, dir string) (string, error) {
	if info.IsExpired {
		return "", fmt.Errorf("download: %w", api.ErrGone)
	}
	if info.HasPassword && password == "" {
		return "", ErrPasswordRequired
	}
	if !info.HasPassword {
		password = ""
	}

	return s.saveTransfer(ctx, dir, info.OriginalFilename, func(f *os.File) (string, error) {
		return s.client.DownloadFile(ctx, token, password, f)
	})
}

// OwnerDownload retrieves the caller's own file, bypassing the password
// gate. Requires an authenticated session; a 401 clears it.
func (s *DownloadService) OwnerDownload(ctx context.Context, token, dir string) (string, error) {
	path, err := s.saveTransfer(ctx, dir, "", func(f *os.File) (string, error) {
		return s.client.OwnerDownload(ctx, token, f)
	})
	if err != nil {
		authFailed(ctx, s.session, err)
		return "", err
	}
	return path, nil
}

// saveTransfer streams a download into a temporary file in dir and renames
// it to the declared filename (header wins, fallback second, "download"
// last). The temporary file is removed on any failure.
func (s *DownloadService) saveTransfer(ctx context.Context, dir, fallbackName string, fetch func(f *os.File) (string, error)) (string, error) {
	absDir, err := filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(absDir, ".fileshare-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	declared, err := fetch(tmp)
	closeErr := tmp.Close()
	if err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	if closeErr != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("close temp file: %w", closeErr)
	}

	name := declared
	if name == "" {
		name = fallbackName
	}
	target := filex.UniquePath(filepath.Join(absDir, filex.SanitizeFilename(name)))
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("rename download: %w", err)
	}

	s.log.Info(ctx, "file saved", "path", target)
	return target, nil
}
