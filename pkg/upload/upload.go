// Package upload resolves file attachments to URLs that form submissions can
// reference. Resolution strategies are tried in a fixed order: a custom
// callback, then an HTTP endpoint, then an inline data URL.
package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// File is one attachment submitted alongside a form.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Func is a custom upload strategy. It returns the URL the stored file is
// reachable at.
type Func func(ctx context.Context, file File) (string, error)

// Uploader stores files using the first configured strategy.
type Uploader struct {
	fn       Func
	endpoint string
	field    string
	client   *http.Client
	maxSize  int64
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithFunc installs a custom strategy. It takes precedence over the endpoint.
func WithFunc(fn Func) Option {
	return func(u *Uploader) {
		u.fn = fn
	}
}

// WithEndpoint posts files to an HTTP endpoint as multipart form data. The
// endpoint must respond with a JSON body carrying the stored URL under "url"
// or "data.url".
func WithEndpoint(endpoint string) Option {
	return func(u *Uploader) {
		u.endpoint = endpoint
	}
}

// WithFieldName overrides the multipart field name. Defaults to "file".
func WithFieldName(name string) Option {
	return func(u *Uploader) {
		if name != "" {
			u.field = name
		}
	}
}

// WithHTTPClient overrides the client used for endpoint uploads.
func WithHTTPClient(client *http.Client) Option {
	return func(u *Uploader) {
		if client != nil {
			u.client = client
		}
	}
}

// WithMaxSize rejects files larger than size bytes. Zero disables the check.
func WithMaxSize(size int64) Option {
	return func(u *Uploader) {
		u.maxSize = size
	}
}

// New creates an Uploader. With no options every file resolves to a data URL.
func New(options ...Option) *Uploader {
	u := &Uploader{
		field:  "file",
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range options {
		if opt != nil {
			opt(u)
		}
	}
	return u
}

// Upload stores the file and returns its URL.
func (u *Uploader) Upload(ctx context.Context, file File) (string, error) {
	if len(file.Data) == 0 {
		return "", fmt.Errorf("upload: file %q is empty", file.Name)
	}
	if u.maxSize > 0 && int64(len(file.Data)) > u.maxSize {
		return "", fmt.Errorf("upload: file %q exceeds %d bytes", file.Name, u.maxSize)
	}

	if u.fn != nil {
		url, err := u.fn(ctx, file)
		if err != nil {
			return "", fmt.Errorf("upload: %w", err)
		}
		return url, nil
	}
	if u.endpoint != "" {
		return u.post(ctx, file)
	}
	return dataURL(file), nil
}

func (u *Uploader) post(ctx context.Context, file File) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile(u.field, file.Name)
	if err != nil {
		return "", fmt.Errorf("upload: build request: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return "", fmt.Errorf("upload: build request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("upload: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("upload: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: post %s: %w", u.endpoint, err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("upload: read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("upload: endpoint returned %d", res.StatusCode)
	}

	for _, key := range []string{"url", "data.url"} {
		if value := gjson.GetBytes(payload, key); value.Exists() {
			return value.String(), nil
		}
	}
	return "", fmt.Errorf("upload: response missing url field")
}

func dataURL(file File) string {
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(file.Data)
}
