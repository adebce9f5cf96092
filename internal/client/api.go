// Package client is a typed Go client for the storyhub HTTP API, plus the
// signed-in session state a front end keeps between calls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/storyhub/internal/domain/models"
	"github.com/gabriel-vasile/mimetype"
)

// Default per-request timeouts.
const (
	DefaultHealthTimeout  = 2 * time.Second
	DefaultRequestTimeout = 5 * time.Second
	DefaultUploadTimeout  = 5 * time.Minute
)

// API talks to one storyhub server.
type API struct {
	base   *url.URL
	http   *http.Client
	health time.Duration
	req    time.Duration
	upload time.Duration
}

// Option configures an API.
type Option func(*API)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *API) { a.http = c }
}

// WithTimeouts overrides the per-request timeouts. Zero keeps the default.
func WithTimeouts(health, request, upload time.Duration) Option {
	return func(a *API) {
		if health > 0 {
			a.health = health
		}
		if request > 0 {
			a.req = request
		}
		if upload > 0 {
			a.upload = upload
		}
	}
}

// New returns an API for the server at baseURL (e.g. http://localhost:3000).
func New(baseURL string, opts ...Option) (*API, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url must be http or https, got %q", baseURL)
	}
	a := &API{
		base:   u,
		http:   &http.Client{},
		health: DefaultHealthTimeout,
		req:    DefaultRequestTimeout,
		upload: DefaultUploadTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// BaseURL returns the server root.
func (a *API) BaseURL() string { return a.base.String() }

// MediaURL resolves a story's media path against the server root.
func (a *API) MediaURL(mediaPath string) string {
	if strings.HasPrefix(mediaPath, "http://") || strings.HasPrefix(mediaPath, "https://") {
		return mediaPath
	}
	return a.base.String() + "/" + strings.TrimLeft(mediaPath, "/")
}

// Health is the body of GET /api/health.
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Password string `json:"password"`
	Bio      string `json:"bio,omitempty"`
}

// ProfileUpdate is the body of PUT /api/profile. Empty fields are kept.
type ProfileUpdate struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Bio   string `json:"bio,omitempty"`
}

// NewStory describes a story upload. ContentType may be empty, in which
// case it is detected from the content.
type NewStory struct {
	Title       string
	Description string
	MediaType   string
	Genres      []string
	DirectorID  string

	FileName    string
	ContentType string
	Media       io.Reader
}

// Health probes the server.
func (a *API) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := a.doJSON(ctx, a.health, http.MethodGet, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account.
func (a *API) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	var out models.User
	if err := a.doJSON(ctx, a.req, http.MethodPost, "/api/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login checks credentials and returns the stored user.
func (a *API) Login(ctx context.Context, email, password string) (*models.User, error) {
	body := map[string]string{"email": email, "password": password}
	var out models.User
	if err := a.doJSON(ctx, a.req, http.MethodPost, "/api/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile changes name, phone or bio.
func (a *API) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*models.User, error) {
	var out models.User
	if err := a.doJSON(ctx, a.req, http.MethodPut, "/api/profile", upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListStories returns every story with its director joined in, in server
// order. Use the catalog package to filter and sort.
func (a *API) ListStories(ctx context.Context) ([]models.StoryView, error) {
	var out []models.StoryView
	if err := a.doJSON(ctx, a.req, http.MethodGet, "/api/stories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteStory removes a story and its media file.
func (a *API) DeleteStory(ctx context.Context, id string) error {
	return a.doJSON(ctx, a.req, http.MethodDelete, "/api/stories/"+url.PathEscape(id), nil, nil)
}

// UploadStory streams a new story to the server as multipart/form-data.
func (a *API) UploadStory(ctx context.Context, s NewStory) (*models.Story, error) {
	if s.Media == nil {
		return nil, fmt.Errorf("upload story: no media")
	}
	genres, err := json.Marshal(nonNil(s.Genres))
	if err != nil {
		return nil, fmt.Errorf("encode genres: %w", err)
	}

	contentType := s.ContentType
	if contentType == "" {
		contentType, s.Media, err = sniff(s.Media, s.MediaType)
		if err != nil {
			return nil, fmt.Errorf("read media: %w", err)
		}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeStoryForm(mw, s, string(genres), contentType))
	}()

	ctx, cancel := context.WithTimeout(ctx, a.upload)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint("/api/stories"), pr)
	if err != nil {
		pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out models.Story
	if err := a.send(ctx, req, &out); err != nil {
		pr.Close()
		return nil, err
	}
	return &out, nil
}

// writeStoryForm writes the text fields before the file so the server can
// check the declared media type while the file streams in.
func writeStoryForm(mw *multipart.Writer, s NewStory, genres, contentType string) error {
	fields := [][2]string{
		{"mediaType", s.MediaType},
		{"title", s.Title},
		{"description", s.Description},
		{"genres", genres},
		{"directorId", s.DirectorID},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media"; filename="%s"`, escapeQuotes(filepath.Base(s.FileName))))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, s.Media); err != nil {
		return err
	}
	return mw.Close()
}

// OpenMedia fetches a stored media file. The caller closes the body.
// A missing file is reported as an *APIError with status 404.
func (a *API) OpenMedia(ctx context.Context, mediaPath string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.MediaURL(mediaPath), nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp.Body, nil
}

func (a *API) endpoint(path string) string {
	return a.base.String() + path
}

func (a *API) doJSON(ctx context.Context, timeout time.Duration, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.endpoint(path), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return a.send(ctx, req, out)
}

func (a *API) send(ctx context.Context, req *http.Request, out any) error {
	resp, err := a.http.Do(req)
	if err != nil {
		return classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return classify(ctx, ctx.Err())
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		body.Error = statusMessage(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: body.Error, Details: body.Details}
}

// sniff detects the content type from the head of r and returns a reader
// that still yields all of r. Among the detected type's aliases, the one the
// server allows for mediaType wins.
func sniff(r io.Reader, mediaType string) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	head = head[:n]
	mt := mimetype.Detect(head)
	rest := io.MultiReader(bytes.NewReader(head), r)
	for _, allowed := range models.AllowedMIMETypes(mediaType) {
		if mt.Is(allowed) {
			return allowed, rest, nil
		}
	}
	ct, _, _ := mime.ParseMediaType(mt.String())
	if ct == "" {
		ct = "application/octet-stream"
	}
	return ct, rest, nil
}

const sniffLen = 3072

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }
