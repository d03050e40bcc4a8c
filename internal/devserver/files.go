package devserver

import (
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type fileMetadata struct {
	ID             string    `json:"id"`
	Filename       string    `json:"filename"`
	FileSize       int64     `json:"fileSize"`
	DownloadToken  string    `json:"downloadToken"`
	DownloadURL    string    `json:"downloadUrl"`
	ExpirationDate time.Time `json:"expirationDate"`
	IsExpired      bool      `json:"isExpired"`
	HasPassword    bool      `json:"hasPassword"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (s *Server) metadataOf(f *storedFile, now time.Time) fileMetadata {
	return fileMetadata{
		ID:             f.id,
		Filename:       f.filename,
		FileSize:       f.size,
		DownloadToken:  f.downloadToken,
		DownloadURL:    s.cfg.BaseURL + "/api/download/" + f.downloadToken,
		ExpirationDate: f.expiration,
		IsExpired:      now.After(f.expiration),
		HasPassword:    f.password != "",
		CreatedAt:      f.createdAt,
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+64*1024)

	mr, err := r.MultipartReader()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "expected multipart form")
		return
	}

	var (
		content  []byte
		filename string
		mimeType string
		days     = -1
		password string
	)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.writeError(w, http.StatusRequestEntityTooLarge, "file exceeds the 1 GB limit")
			return
		}
		switch part.FormName() {
		case "file":
			filename = part.FileName()
			mimeType = part.Header.Get("Content-Type")
			data, err := io.ReadAll(io.LimitReader(part, s.cfg.MaxUploadBytes+1))
			if err != nil {
				s.writeError(w, http.StatusRequestEntityTooLarge, "file exceeds the 1 GB limit")
				return
			}
			if int64(len(data)) > s.cfg.MaxUploadBytes {
				s.writeError(w, http.StatusRequestEntityTooLarge, "file exceeds the 1 GB limit")
				return
			}
			content = data
		case "expirationDays":
			value, _ := io.ReadAll(part)
			days, err = strconv.Atoi(string(value))
			if err != nil {
				days = -1
			}
		case "password":
			value, _ := io.ReadAll(part)
			password = string(value)
		}
	}

	if filename == "" {
		s.writeError(w, http.StatusBadRequest, "file part is required")
		return
	}
	if days < 1 || days > 7 {
		s.writeError(w, http.StatusBadRequest, "expirationDays must be between 1 and 7")
		return
	}
	if password != "" && len(password) < 6 {
		s.writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	now := s.clock()
	f := &storedFile{
		id:            uuid.NewString(),
		owner:         userFrom(r.Context()),
		filename:      filename,
		size:          int64(len(content)),
		mimeType:      mimeType,
		downloadToken: uuid.NewString(),
		password:      password,
		expiration:    now.Add(time.Duration(days) * 24 * time.Hour),
		createdAt:     now,
		content:       content,
	}

	s.mu.Lock()
	s.files[f.id] = f
	s.tokens[f.downloadToken] = f.id
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, s.metadataOf(f, now))
}

type fileListResponse struct {
	Files         []fileMetadata `json:"files"`
	TotalElements int            `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	CurrentPage   int            `json:"currentPage"`
	PageSize      int            `json:"pageSize"`
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	owner := userFrom(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	includeExpired := r.URL.Query().Get("includeExpired") == "true"
	ascending := r.URL.Query().Get("sort") == "createdAt,asc"

	now := s.clock()

	s.mu.Lock()
	all := make([]fileMetadata, 0, len(s.files))
	for _, f := range s.files {
		if f.owner != owner {
			continue
		}
		meta := s.metadataOf(f, now)
		if meta.IsExpired && !includeExpired {
			continue
		}
		all = append(all, meta)
	}
	s.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		if ascending {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	totalPages := (total + size - 1) / size
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	writeJSON(w, http.StatusOK, fileListResponse{
		Files:         all[start:end],
		TotalElements: total,
		TotalPages:    totalPages,
		CurrentPage:   page,
		PageSize:      size,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok {
		s.writeError(w, http.StatusNotFound, "file not found")
		return
	}
	if f.owner != userFrom(r.Context()) {
		s.writeError(w, http.StatusForbidden, "not your file")
		return
	}

	delete(s.files, id)
	delete(s.tokens, f.downloadToken)
	w.WriteHeader(http.StatusNoContent)
}
