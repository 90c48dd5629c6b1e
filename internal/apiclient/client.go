// Package apiclient talks to the department pages API. Client implements the
// page store and object storage the editor works against.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/models"
	"github.com/viet-college/app-dept-pages/internal/utils/httpclient"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Client calls the API with a bearer token on every request
type Client struct {
	baseURL string
	token   string
	pool    *httpclient.HTTPClientPool
	logger  *logging.SafeLogger
}

// Option configures a Client
type Option func(*Client)

// WithToken sets the bearer token sent to admin routes
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithPool replaces the default client pool
func WithPool(pool *httpclient.HTTPClientPool) Option {
	return func(c *Client) { c.pool = pool }
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:8080/v1
func New(baseURL string, logger *logging.SafeLogger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pool == nil {
		c.pool = httpclient.NewHTTPClientPool(4, httpclient.DefaultTimeout)
	}
	return c
}

// Close releases pooled connections
func (c *Client) Close() {
	c.pool.Close()
}

type errorBody struct {
	Error string `json:"error"`
}

// sentinels that keep their identity across the wire
var wireErrors = []error{
	models.ErrPageNotFound,
	models.ErrProgramNotFound,
	models.ErrRegulationNotFound,
	models.ErrUnknownSection,
	models.ErrUnknownList,
	models.ErrUnknownField,
	models.ErrUnknownDepartment,
	models.ErrInvalidBucket,
	models.ErrAssetNotFound,
}

// apiError turns a non-2xx response into the error the handler started from.
// wrap builds the error used for server side failures.
func apiError(resp *http.Response, wrap func(error) error) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(data))
		if body.Error == "" {
			body.Error = http.StatusText(resp.StatusCode)
		}
	}

	for _, sentinel := range wireErrors {
		if strings.Contains(body.Error, sentinel.Error()) {
			return sentinel
		}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return models.ErrPageNotFound
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusRequestEntityTooLarge:
		return models.NewValidationError("", body.Error)
	}
	return wrap(fmt.Errorf("status %d: %s", resp.StatusCode, body.Error))
}

func persistence(op string) func(error) error {
	return func(err error) error { return &models.PersistenceError{Op: op, Err: err} }
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do sends req and decodes a JSON response into out when out is not nil
func (c *Client) do(req *http.Request, out interface{}, wrap func(error) error) error {
	start := time.Now()
	resp, err := c.pool.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return wrap(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api call",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp, wrap)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return wrap(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}, wrap func(error) error) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	return c.do(req, out, wrap)
}

func pagePath(slug string, rest string) string {
	return "/admin/pages/" + url.PathEscape(slug) + rest
}

// GetBySlug fetches the stored raw page, or ErrPageNotFound when it was never saved
func (c *Client) GetBySlug(ctx context.Context, slug string) (bson.M, error) {
	var raw bson.M
	if err := c.doJSON(ctx, http.MethodGet, "/pages/"+url.PathEscape(slug)+"/raw", nil, &raw, persistence("load page")); err != nil {
		return nil, err
	}
	return raw, nil
}

// GetDocument fetches the migrated document; an unsaved page comes back as defaults
func (c *Client) GetDocument(ctx context.Context, slug string) (models.Document, error) {
	var doc models.Document
	if err := c.doJSON(ctx, http.MethodGet, "/pages/"+url.PathEscape(slug), nil, &doc, persistence("load page")); err != nil {
		return models.DefaultDocument(), err
	}
	return models.Migrate(doc), nil
}

// UpdateSections overwrites the sections of the page
func (c *Client) UpdateSections(ctx context.Context, slug string, doc models.Document) error {
	return c.doJSON(ctx, http.MethodPut, pagePath(slug, "/sections"), models.SectionsRequest{Sections: doc}, nil, persistence("save sections"))
}

// UploadSyllabus registers an uploaded syllabus for a program regulation
func (c *Client) UploadSyllabus(ctx context.Context, slug string, in models.SyllabusRequest) ([]models.Program, error) {
	var out models.CurriculumResponse
	if err := c.doJSON(ctx, http.MethodPost, pagePath(slug, "/curriculum"), in, &out, persistence("upload syllabus")); err != nil {
		return nil, err
	}
	return models.CopyPrograms(out.Programs), nil
}

// DeleteRegulation removes one regulation of a program
func (c *Client) DeleteRegulation(ctx context.Context, slug, programName, regulationName string) ([]models.Program, error) {
	q := url.Values{}
	q.Set("program", programName)
	q.Set("regulation", regulationName)
	var out models.CurriculumResponse
	if err := c.doJSON(ctx, http.MethodDelete, pagePath(slug, "/curriculum?"+q.Encode()), nil, &out, persistence("delete regulation")); err != nil {
		return nil, err
	}
	return models.CopyPrograms(out.Programs), nil
}

// UploadHeroImage records the hero image URL on its own
func (c *Client) UploadHeroImage(ctx context.Context, slug, imageURL string) error {
	return c.doJSON(ctx, http.MethodPut, pagePath(slug, "/hero"), models.HeroAssetsRequest{Image: &imageURL}, nil, persistence("save hero image"))
}

// UploadHeroVideo records the hero video URL on its own
func (c *Client) UploadHeroVideo(ctx context.Context, slug, videoURL string) error {
	return c.doJSON(ctx, http.MethodPut, pagePath(slug, "/hero"), models.HeroAssetsRequest{Video: &videoURL}, nil, persistence("save hero video"))
}

// Upload sends file to the bucket and returns its public URL
func (c *Client) Upload(ctx context.Context, file models.File, bucket string) (string, error) {
	if !models.IsValidBucket(bucket) {
		return "", fmt.Errorf("%w: %s", models.ErrInvalidBucket, bucket)
	}
	if file.Empty() {
		return "", models.NewValidationError("file", "select a file first")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", file.BaseName())
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/admin/uploads/"+url.PathEscape(bucket), &buf, mw.FormDataContentType())
	if err != nil {
		return "", err
	}
	var out models.UploadResponse
	wrap := func(err error) error { return &models.UploadError{Bucket: bucket, Err: err} }
	if err := c.do(req, &out, wrap); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", wrap(fmt.Errorf("empty url in upload response"))
	}
	return out.URL, nil
}

// Departments lists the department catalog
func (c *Client) Departments(ctx context.Context) ([]models.Department, error) {
	var out models.DepartmentListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/departments", nil, &out, persistence("list departments")); err != nil {
		return nil, err
	}
	return out.Departments, nil
}
