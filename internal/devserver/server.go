// Package devserver is an in-memory implementation of the fileshare REST
// contract, used by the end-to-end tests and as a local development
// backend. It keeps users, files and download tokens in maps and issues
// real HMAC-signed JWTs, so the client exercises the same code paths as
// against the production backend.
package devserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// DefaultMaxUploadBytes is the upload ceiling (1 GiB).
const DefaultMaxUploadBytes int64 = 1 << 30

// Config tunes the dev server. Zero values fall back to defaults; tests
// lower MaxUploadBytes so the 413 path does not need gigabyte payloads.
type Config struct {
	JWTSecret      string        `env:"FILESHARE_DEV_JWT_SECRET"`
	TokenTTL       time.Duration `env:"FILESHARE_DEV_TOKEN_TTL"`
	MaxUploadBytes int64         `env:"FILESHARE_DEV_MAX_UPLOAD"`
	BaseURL        string        `env:"FILESHARE_DEV_BASE_URL"`
}

type storedFile struct {
	id            string
	owner         string
	filename      string
	size          int64
	mimeType      string
	downloadToken string
	password      string
	expiration    time.Time
	createdAt     time.Time
	content       []byte
}

// Server holds all state behind one mutex; the dataset of a dev instance is
// small enough that contention is irrelevant.
type Server struct {
	cfg Config

	mu           sync.Mutex
	users         map[string]string // login -> password
	files         map[string]*storedFile
	tokens        map[string]string // download token -> file id
	loginFailures map[string][]time.Time

	// now is a test seam so expiration can be moved artificially. It has
	// its own mutex because handlers read the clock while holding s.mu.
	nowMu sync.Mutex
	now   func() time.Time
}

// New builds a dev server with the given config.
func New(cfg Config) *Server {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Server{
		cfg:           cfg,
		users:         make(map[string]string),
		files:         make(map[string]*storedFile),
		tokens:        make(map[string]string),
		loginFailures: make(map[string][]time.Time),
		now:           time.Now,
	}
}

// Handler returns the chi router implementing the REST contract.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/api/auth/register", s.handleRegister)
	r.Post("/api/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/api/files", s.handleListFiles)
		r.Post("/api/files", s.handleUpload)
		r.Delete("/api/files/{id}", s.handleDelete)
		r.Get("/api/download/owner/{token}", s.handleOwnerDownload)
	})

	r.Get("/api/download/{token}", s.handleFileInfo)
	r.Post("/api/download/{token}", s.handleDownload)

	return r
}

// SetNow replaces the clock, for tests that need files to expire.
func (s *Server) SetNow(now func() time.Time) {
	s.nowMu.Lock()
	defer s.nowMu.Unlock()
	s.now = now
}

func (s *Server) clock() time.Time {
	s.nowMu.Lock()
	f := s.now
	s.nowMu.Unlock()
	return f()
}

type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error:     http.StatusText(status),
		Message:   message,
		Timestamp: s.clock().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
