package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fileshare/internal/client/api"
	"github.com/dmitrijs2005/fileshare/internal/client/upload"
)

func samplePage() *api.FileListPage {
	return &api.FileListPage{
		Files: []api.FileMetadata{
			{ID: "f1", Filename: "a.txt", IsExpired: false},
			{ID: "f2", Filename: "b.txt", IsExpired: true},
			{ID: "f3", Filename: "c.txt", IsExpired: false},
		},
		TotalElements: 3,
		TotalPages:    1,
	}
}

func TestFilesRefresh(t *testing.T) {
	t.Run("caches the fetched page", func(t *testing.T) {
		client := &fakeClient{ListPage: samplePage()}
		svc := NewFilesService(client, newTestSession(t), testLogger())

		page, err := svc.Refresh(context.Background(), api.ListParams{IncludeExpired: true})
		require.NoError(t, err)
		require.Len(t, page.Files, 3)
		require.True(t, client.LastParams.IncludeExpired)
		require.Equal(t, page, svc.Page())
	})

	t.Run("failure leaves the cache unchanged", func(t *testing.T) {
		client := &fakeClient{ListPage: samplePage()}
		svc := NewFilesService(client, newTestSession(t), testLogger())
		_, err := svc.Refresh(context.Background(), api.ListParams{})
		require.NoError(t, err)

		client.ListErr = api.ErrServer
		_, err = svc.Refresh(context.Background(), api.ListParams{})
		require.ErrorIs(t, err, api.ErrServer)
		require.Len(t, svc.Page().Files, 3)
	})

	t.Run("dead session is cleared on 401", func(t *testing.T) {
		sess := newTestSession(t)
		require.NoError(t, sess.Login(context.Background(), testToken(t, "user@example.com")))

		client := &fakeClient{ListErr: api.ErrUnauthorized}
		svc := NewFilesService(client, sess, testLogger())

		_, err := svc.Refresh(context.Background(), api.ListParams{})
		require.ErrorIs(t, err, api.ErrUnauthorized)
		require.False(t, sess.IsAuthenticated())
	})
}

func TestFilesFilter(t *testing.T) {
	client := &fakeClient{ListPage: samplePage()}
	svc := NewFilesService(client, newTestSession(t), testLogger())
	_, err := svc.Refresh(context.Background(), api.ListParams{IncludeExpired: true})
	require.NoError(t, err)

	t.Run("all", func(t *testing.T) {
		svc.SetFilter(FilterAll)
		require.Len(t, svc.Visible(), 3)
	})

	t.Run("active", func(t *testing.T) {
		svc.SetFilter(FilterActive)
		visible := svc.Visible()
		require.Len(t, visible, 2)
		for _, f := range visible {
			require.False(t, f.IsExpired)
		}
	})

	t.Run("expired", func(t *testing.T) {
		svc.SetFilter(FilterExpired)
		visible := svc.Visible()
		require.Len(t, visible, 1)
		require.Equal(t, "f2", visible[0].ID)
	})

	t.Run("unknown falls back to all", func(t *testing.T) {
		svc.SetFilter(Filter("bogus"))
		require.Equal(t, FilterAll, svc.Filter())
		require.Len(t, svc.Visible(), 3)
	})
}

func TestFilesDelete(t *testing.T) {
	t.Run("removes from cache only after server confirms", func(t *testing.T) {
		client := &fakeClient{ListPage: samplePage()}
		svc := NewFilesService(client, newTestSession(t), testLogger())
		_, err := svc.Refresh(context.Background(), api.ListParams{})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(context.Background(), "f2"))
		require.Equal(t, "f2", client.LastDeleteID)

		page := svc.Page()
		require.Len(t, page.Files, 2)
		require.Equal(t, 2, page.TotalElements)
		for _, f := range page.Files {
			require.NotEqual(t, "f2", f.ID)
		}
	})

	t.Run("failed delete leaves the list unchanged", func(t *testing.T) {
		client := &fakeClient{ListPage: samplePage(), DeleteErr: api.ErrNotFound}
		svc := NewFilesService(client, newTestSession(t), testLogger())
		_, err := svc.Refresh(context.Background(), api.ListParams{})
		require.NoError(t, err)

		err = svc.Delete(context.Background(), "f2")
		require.ErrorIs(t, err, api.ErrNotFound)
		require.Len(t, svc.Page().Files, 3)
		require.Equal(t, 3, svc.Page().TotalElements)
	})

	t.Run("foreign file is refused and kept", func(t *testing.T) {
		client := &fakeClient{ListPage: samplePage(), DeleteErr: api.ErrForbidden}
		svc := NewFilesService(client, newTestSession(t), testLogger())
		_, err := svc.Refresh(context.Background(), api.ListParams{})
		require.NoError(t, err)

		err = svc.Delete(context.Background(), "f1")
		require.ErrorIs(t, err, api.ErrForbidden)
		require.Len(t, svc.Page().Files, 3)
	})
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFilesUpload(t *testing.T) {
	t.Run("success drives the tracker and prepends to the cache", func(t *testing.T) {
		client := &fakeClient{
			ListPage: samplePage(),
			UploadMeta: &api.FileMetadata{
				ID:          "f9",
				Filename:    "new.txt",
				DownloadURL: "http://localhost:8080/api/download/tok-9",
			},
			UploadProgress: []int{30, 60, 100},
		}
		svc := NewFilesService(client, newTestSession(t), testLogger())
		_, err := svc.Refresh(context.Background(), api.ListParams{})
		require.NoError(t, err)

		tr := upload.NewTracker()
		tr.SetForm("secret123", 3)

		path := writeTempFile(t, "new.txt", "hello")
		meta, err := svc.Upload(context.Background(), path, tr)
		require.NoError(t, err)
		require.Equal(t, "f9", meta.ID)

		require.Equal(t, "new.txt", client.LastUploadName)
		require.Equal(t, "secret123", client.LastUploadPwd)
		require.Equal(t, 3, client.LastUploadDays)

		st := tr.State()
		require.Equal(t, upload.StatusSuccess, st.Status)
		require.Equal(t, 100, st.Progress)
		require.Equal(t, "http://localhost:8080/api/download/tok-9", st.DownloadURL)

		page := svc.Page()
		require.Equal(t, 4, page.TotalElements)
		require.Equal(t, "f9", page.Files[0].ID)
	})

	t.Run("server failure lands in the error state with a user message", func(t *testing.T) {
		client := &fakeClient{UploadErr: api.ErrTooLarge}
		svc := NewFilesService(client, newTestSession(t), testLogger())

		tr := upload.NewTracker()
		path := writeTempFile(t, "big.bin", "data")
		_, err := svc.Upload(context.Background(), path, tr)
		require.ErrorIs(t, err, api.ErrTooLarge)

		st := tr.State()
		require.Equal(t, upload.StatusError, st.Status)
		require.Equal(t, "file must not exceed 1 GB", st.Message)
	})

	t.Run("submit while an attempt is in flight issues no request", func(t *testing.T) {
		client := &fakeClient{}
		svc := NewFilesService(client, newTestSession(t), testLogger())

		tr := upload.NewTracker()
		tr.SelectFile(upload.SelectedFile{Name: "other.txt", Size: 10})
		_, ok := tr.Begin()
		require.True(t, ok)

		path := writeTempFile(t, "a.txt", "x")
		_, err := svc.Upload(context.Background(), path, tr)
		require.ErrorIs(t, err, ErrUploadRejected)
		require.Zero(t, client.UploadCalls)
		require.Equal(t, upload.StatusUploading, tr.State().Status)
	})

	t.Run("invalid form is refused before any request", func(t *testing.T) {
		client := &fakeClient{}
		svc := NewFilesService(client, newTestSession(t), testLogger())

		tr := upload.NewTracker()
		tr.SetForm("abc", 3)

		path := writeTempFile(t, "a.txt", "x")
		_, err := svc.Upload(context.Background(), path, tr)
		require.ErrorIs(t, err, ErrUploadRejected)
		require.Zero(t, client.UploadCalls)
	})

	t.Run("missing file", func(t *testing.T) {
		client := &fakeClient{}
		svc := NewFilesService(client, newTestSession(t), testLogger())

		_, err := svc.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), upload.NewTracker())
		require.Error(t, err)
		require.Zero(t, client.UploadCalls)
	})
}

func TestFileDisplayStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		file api.FileMetadata
		want string
	}{
		{"expired flag wins", api.FileMetadata{IsExpired: true, ExpirationDate: now.Add(24 * time.Hour)}, "expired"},
		{"under three days", api.FileMetadata{ExpirationDate: now.Add(2 * 24 * time.Hour)}, "expiring-soon"},
		{"just under the boundary", api.FileMetadata{ExpirationDate: now.Add(3*24*time.Hour - time.Minute)}, "expiring-soon"},
		{"at the boundary", api.FileMetadata{ExpirationDate: now.Add(3 * 24 * time.Hour)}, "active"},
		{"comfortably active", api.FileMetadata{ExpirationDate: now.Add(6 * 24 * time.Hour)}, "active"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FileDisplayStatus(tt.file, now))
		})
	}
}
