package api

import (
	"io"
	"net/url"
	"strconv"
	"time"
)

// FileMetadata is the canonical shape of a stored file as returned by
// the list and upload endpoints.
type FileMetadata struct {
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

// FileListPage is one page of the authenticated file listing.
type FileListPage struct {
	Files         []FileMetadata `json:"files"`
	TotalElements int            `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	CurrentPage   int            `json:"currentPage"`
	PageSize      int            `json:"pageSize"`
}

// ListParams are the query parameters of GET /api/files. Zero values are
// omitted from the query so the server applies its own defaults.
type ListParams struct {
	Page           int
	Size           int
	Sort           string
	IncludeExpired bool
}

func (p ListParams) query() string {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.IncludeExpired {
		q.Set("includeExpired", "true")
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// FileInfo is the public metadata of a shared file (GET /api/download/{token}).
// The public endpoint keeps the originalFilename field name.
type FileInfo struct {
	OriginalFilename string    `json:"originalFilename"`
	FileSize         int64     `json:"fileSize"`
	MimeType         string    `json:"mimeType"`
	ExpirationDate   time.Time `json:"expirationDate"`
	IsExpired        bool      `json:"isExpired"`
	HasPassword      bool      `json:"hasPassword"`
}

// RegisterResult is the 201 response of POST /api/auth/register.
type RegisterResult struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
	Email   string `json:"email"`
}

// UploadRequest describes one file upload. Content is streamed; Size must be
// the exact number of content bytes so progress percentages are meaningful.
// Progress, when non-nil, receives percentages in [0,100] computed as
// round(100*sent/total); callers that need monotonic values should clamp
// on their side (the upload tracker does).
type UploadRequest struct {
	Name           string
	Size           int64
	Content        io.Reader
	Password       string
	ExpirationDays int
	Progress       func(pct int)
}
