package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/fileshare/internal/logging"
)

// HTTPClient is the production Client implementation.
type HTTPClient struct {
	baseURL       string
	httpClient    *http.Client
	tokenProvider TokenProvider
	log           logging.Logger
}

// NewHTTPClient builds a client for the backend at baseURL (scheme://host[:port],
// with or without a trailing slash). timeout bounds every request including
// body transfer; zero means no client-side timeout, leaving deadlines to the
// caller's context.
func NewHTTPClient(baseURL string, timeout time.Duration, tokenProvider TokenProvider, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: timeout},
		tokenProvider: tokenProvider,
		log:           log.With("component", "api_client"),
	}
}

func (c *HTTPClient) url(path string) string {
	return c.baseURL + path
}

// setAuth attaches the bearer token, if any, to an outgoing request.
func (c *HTTPClient) setAuth(req *http.Request) {
	if c.tokenProvider == nil {
		return
	}
	if token := c.tokenProvider(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// mapStatus converts an unexpected HTTP status into a taxonomy error.
// on401 lets call sites distinguish the three different meanings a 401
// carries in this API (bad login, wrong download password, dead session).
func mapStatus(status int, on401 error) error {
	switch {
	case status == http.StatusBadRequest:
		return ErrValidation
	case status == http.StatusUnauthorized:
		return on401
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status == http.StatusGone:
		return ErrGone
	case status == http.StatusRequestEntityTooLarge:
		return ErrTooLarge
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("%w: unexpected status %d", ErrServer, status)
	}
}

// doJSON sends body (JSON-encoded when non-nil) and decodes the response
// into out (when non-nil). Responses with a status other than want are
// drained and converted via mapStatus.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, want int, on401 error, authed bool, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		c.setAuth(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		io.Copy(io.Discard, resp.Body)
		return mapStatus(resp.StatusCode, on401)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (c *HTTPClient) Register(ctx context.Context, login, password string) (*RegisterResult, error) {
	var result RegisterResult
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register",
		credentials{Login: login, Password: password},
		http.StatusCreated, ErrUnauthorized, false, &result)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &result, nil
}

func (c *HTTPClient) Login(ctx context.Context, login, password string) (string, error) {
	var result struct {
		Token string `json:"token"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login",
		credentials{Login: login, Password: password},
		http.StatusOK, ErrInvalidCredentials, false, &result)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return result.Token, nil
}

func (c *HTTPClient) ListFiles(ctx context.Context, params ListParams) (*FileListPage, error) {
	var page FileListPage
	err := c.doJSON(ctx, http.MethodGet, "/api/files"+params.query(),
		nil, http.StatusOK, ErrUnauthorized, true, &page)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return &page, nil
}

func (c *HTTPClient) UploadFile(ctx context.Context, req UploadRequest) (*FileMetadata, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		var err error
		defer func() { pw.CloseWithError(err) }()

		var part io.Writer
		if part, err = mw.CreateFormFile("file", req.Name); err != nil {
			return
		}
		src := req.Content
		if req.Progress != nil && req.Size > 0 {
			src = newProgressReader(req.Content, req.Size, req.Progress)
		}
		if _, err = io.Copy(part, src); err != nil {
			return
		}
		if err = mw.WriteField("expirationDays", strconv.Itoa(req.ExpirationDays)); err != nil {
			return
		}
		if req.Password != "" {
			if err = mw.WriteField("password", req.Password); err != nil {
				return
			}
		}
		err = mw.Close()
	}()

	c.log.Debug(ctx, "uploading file", "name", req.Name, "size", req.Size)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/files"), pr)
	if err != nil {
		return nil, fmt.Errorf("upload file: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	c.setAuth(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upload file: %w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("upload file: %w", mapStatus(resp.StatusCode, ErrUnauthorized))
	}

	var meta FileMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("upload file: decode response: %w", err)
	}
	return &meta, nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.url("/api/files/"+id), nil)
	if err != nil {
		return fmt.Errorf("delete file: create request: %w", err)
	}
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete file: %w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete file: %w", mapStatus(resp.StatusCode, ErrUnauthorized))
	}
	return nil
}

func (c *HTTPClient) FileInfo(ctx context.Context, token string) (*FileInfo, error) {
	var info FileInfo
	err := c.doJSON(ctx, http.MethodGet, "/api/download/"+token,
		nil, http.StatusOK, ErrUnauthorized, false, &info)
	if err != nil {
		return nil, fmt.Errorf("file info: %w", err)
	}
	return &info, nil
}

func (c *HTTPClient) DownloadFile(ctx context.Context, token, password string, w io.Writer) (string, error) {
	body := struct {
		Password string `json:"password,omitempty"`
	}{Password: password}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("download: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/download/"+token), bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("download: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.transfer(req, "download", ErrWrongPassword, w)
}

func (c *HTTPClient) OwnerDownload(ctx context.Context, token string, w io.Writer) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/api/download/owner/"+token), nil)
	if err != nil {
		return "", fmt.Errorf("owner download: create request: %w", err)
	}
	c.setAuth(req)

	return c.transfer(req, "owner download", ErrUnauthorized, w)
}

// transfer executes a byte-download request and streams the payload to w.
// It returns the filename declared in Content-Disposition, or "".
func (c *HTTPClient) transfer(req *http.Request, op string, on401 error, w io.Writer) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%s: %w", op, mapStatus(resp.StatusCode, on401))
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	return filenameFromDisposition(resp.Header.Get("Content-Disposition")), nil
}

// filenameFromDisposition extracts the filename parameter of a
// Content-Disposition header, returning "" for missing or malformed values.
func filenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
