package devserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type fileInfoResponse struct {
	OriginalFilename string    `json:"originalFilename"`
	FileSize         int64     `json:"fileSize"`
	MimeType         string    `json:"mimeType"`
	ExpirationDate   time.Time `json:"expirationDate"`
	IsExpired        bool      `json:"isExpired"`
	HasPassword      bool      `json:"hasPassword"`
}

// byToken resolves a download token under the lock, returning a copy so
// handlers can work without holding the mutex.
func (s *Server) byToken(token string) (*storedFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	if !ok {
		return nil, false
	}
	f, ok := s.files[id]
	if !ok {
		return nil, false
	}
	cp := *f
	return &cp, true
}

func (s *Server) handleFileInfo(w http.ResponseWriter, r *http.Request) {
	f, ok := s.byToken(chi.URLParam(r, "token"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown download token")
		return
	}

	now := s.clock()
	if now.After(f.expiration) {
		s.writeError(w, http.StatusGone, "file has expired")
		return
	}

	writeJSON(w, http.StatusOK, fileInfoResponse{
		OriginalFilename: f.filename,
		FileSize:         f.size,
		MimeType:         f.mimeType,
		ExpirationDate:   f.expiration,
		IsExpired:        false,
		HasPassword:      f.password != "",
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	f, ok := s.byToken(chi.URLParam(r, "token"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown download token")
		return
	}

	if s.clock().After(f.expiration) {
		s.writeError(w, http.StatusGone, "file has expired")
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	if f.password != "" && body.Password != f.password {
		s.writeError(w, http.StatusUnauthorized, "wrong password")
		return
	}

	s.serveContent(w, f)
}

func (s *Server) handleOwnerDownload(w http.ResponseWriter, r *http.Request) {
	f, ok := s.byToken(chi.URLParam(r, "token"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown download token")
		return
	}
	if f.owner != userFrom(r.Context()) {
		s.writeError(w, http.StatusForbidden, "not your file")
		return
	}

	// the owner bypasses both the password gate and expiration
	s.serveContent(w, f)
}

func (s *Server) serveContent(w http.ResponseWriter, f *storedFile) {
	mimeType := f.mimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.content)
}
