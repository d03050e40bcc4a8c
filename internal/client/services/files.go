package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/fileshare/internal/client/api"
	"github.com/dmitrijs2005/fileshare/internal/client/session"
	"github.com/dmitrijs2005/fileshare/internal/client/upload"
	"github.com/dmitrijs2005/fileshare/internal/logging"
)

// Filter selects which files the view-model exposes.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterActive  Filter = "active"
	FilterExpired Filter = "expired"
)

// ErrUploadRejected is returned when the upload guard refuses a submit
// (no file selected, an attempt already in flight, or invalid form values).
var ErrUploadRejected = errors.New("upload rejected by guard")

// FilesService is the view-model over the authenticated file listing: it
// caches the last fetched page, derives a filtered view, and drives uploads
// and deletions. Deletion is optimistic-on-confirmation: the cached list
// changes only after the backend confirms.
type FilesService struct {
	client  api.Client
	session *session.Manager
	log     logging.Logger

	mu     sync.Mutex
	page   *api.FileListPage
	filter Filter
}

// NewFilesService constructs the view-model with the "all" filter.
func NewFilesService(client api.Client, sess *session.Manager, log logging.Logger) *FilesService {
	return &FilesService{
		client:  client,
		session: sess,
		log:     log.With("component", "files"),
		filter:  FilterAll,
	}
}

// authFailed clears the session when an authenticated call came back 401.
// The login-time 401 (api.ErrInvalidCredentials) is deliberately excluded.
func authFailed(ctx context.Context, sess *session.Manager, err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		_ = sess.Logout(ctx)
	}
}

// Refresh fetches a page from the server and replaces the cached list.
// On failure the cached list is left unchanged.
func (s *FilesService) Refresh(ctx context.Context, params api.ListParams) (*api.FileListPage, error) {
	page, err := s.client.ListFiles(ctx, params)
	if err != nil {
		authFailed(ctx, s.session, err)
		return nil, err
	}

	s.mu.Lock()
	s.page = page
	s.mu.Unlock()
	return page, nil
}

// SetFilter switches the derived view. Unknown values fall back to "all".
func (s *FilesService) SetFilter(f Filter) {
	switch f {
	case FilterAll, FilterActive, FilterExpired:
	default:
		f = FilterAll
	}
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
}

// Filter returns the active filter.
func (s *FilesService) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Visible returns the cached files matching the active filter. The slice is
// recomputed on every call so it always reflects the latest list and filter.
func (s *FilesService) Visible() []api.FileMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page == nil {
		return nil
	}

	out := make([]api.FileMetadata, 0, len(s.page.Files))
	for _, f := range s.page.Files {
		switch s.filter {
		case FilterActive:
			if f.IsExpired {
				continue
			}
		case FilterExpired:
			if !f.IsExpired {
				continue
			}
		}
		out = append(out, f)
	}
	return out
}

// Page returns the last fetched page, or nil before the first Refresh.
func (s *FilesService) Page() *api.FileListPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Delete removes a file on the server and, only after a success response,
// drops it from the cached list. A failed delete leaves the list unchanged.
func (s *FilesService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteFile(ctx, id); err != nil {
		authFailed(ctx, s.session, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page == nil {
		return nil
	}
	files := s.page.Files[:0]
	for _, f := range s.page.Files {
		if f.ID != id {
			files = append(files, f)
		}
	}
	removed := len(s.page.Files) - len(files)
	s.page.Files = files
	s.page.TotalElements -= removed
	return nil
}

// Upload streams the file at path to the server, driving the given tracker
// through its states. The tracker must already carry the staged form values
// (password, expiration); Upload selects the file, runs the guard, and maps
// any failure to a user-facing message on the tracker.
//
// The pre-flight size check happens in the tracker: an oversized file lands
// in the error state and no network request is issued.
func (s *FilesService) Upload(ctx context.Context, path string, tracker *upload.Tracker) (*api.FileMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	tracker.SelectFile(upload.SelectedFile{Name: fi.Name(), Size: fi.Size()})
	if st := tracker.State(); st.Status == upload.StatusError {
		return nil, errors.New(st.Message)
	}

	gen, ok := tracker.Begin()
	if !ok {
		return nil, ErrUploadRejected
	}

	password, days := tracker.Form()
	meta, err := s.client.UploadFile(ctx, api.UploadRequest{
		Name:           fi.Name(),
		Size:           fi.Size(),
		Content:        f,
		Password:       password,
		ExpirationDays: days,
		Progress:       func(pct int) { tracker.Progress(gen, pct) },
	})
	if err != nil {
		authFailed(ctx, s.session, err)
		tracker.Fail(gen, api.UserMessage(err))
		return nil, err
	}

	tracker.Succeed(gen, meta.DownloadURL)
	s.log.Info(ctx, "file uploaded", "name", meta.Filename, "token", meta.DownloadToken)

	s.mu.Lock()
	if s.page != nil {
		s.page.Files = append([]api.FileMetadata{*meta}, s.page.Files...)
		s.page.TotalElements++
	}
	s.mu.Unlock()
	return meta, nil
}

// FileDisplayStatus classifies a file for list rendering: expired files as
// "expired", files within three days of their deadline as "expiring-soon",
// everything else as "active".
func FileDisplayStatus(f api.FileMetadata, now time.Time) string {
	if f.IsExpired {
		return "expired"
	}
	if f.ExpirationDate.Sub(now) < 3*24*time.Hour {
		return "expiring-soon"
	}
	return "active"
}
