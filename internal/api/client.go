package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mdjaved24/mlplay/internal/session"
)

// ErrSessionExpired reports that an authenticated call came back 401 and
// the stored session has been cleared.
var ErrSessionExpired = errors.New("session expired")

// APIError carries the HTTP status and the backend-provided message of a
// failed call. Fields holds field-level validation errors when present.
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// FieldError returns the first backend message for a field, or "".
func (e *APIError) FieldError(name string) string {
	if msgs, ok := e.Fields[name]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Client issues JSON and multipart requests against the backend.
// It attaches the bearer token where a call requires auth, decodes the
// three backend error shapes uniformly, and never retries or caches.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store
	log     zerolog.Logger
}

// New constructs a client for the given base URL. The timeout bounds every
// request so a hung backend cannot leave a screen loading forever.
func New(baseURL string, timeout time.Duration, sess *session.Store, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
		log:     log,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) getJSON(ctx context.Context, path string, authed bool, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", authed, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body any, authed bool, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", authed, out)
}

func (c *Client) putJSON(ctx context.Context, path string, body any, authed bool, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return c.do(ctx, http.MethodPut, path, bytes.NewReader(data), "application/json", authed, out)
}

func (c *Client) delete(ctx context.Context, path string, authed bool) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", authed, nil)
}

// postMultipart sends form fields plus one file part named fileField.
func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, fileField, fileName string, file io.Reader, authed bool, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write form field: %w", err)
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			return fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return fmt.Errorf("failed to copy form file: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, &buf, writer.FormDataContentType(), authed, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, authed bool, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if authed {
		token := c.session.AccessToken()
		if token == "" {
			return ErrSessionExpired
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return fmt.Errorf("network error: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Msg("request")

	if resp.StatusCode == http.StatusUnauthorized && authed {
		// Central expiry handling: drop the session once so every screen
		// converges on the login route instead of re-mapping 401s ad hoc.
		if cerr := c.session.Clear(); cerr != nil {
			c.log.Error().Err(cerr).Msg("failed to clear session")
		}
		apiErr := decodeError(resp)
		return fmt.Errorf("%w: %s", ErrSessionExpired, apiErr.Error())
	}
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// downloadToWriter streams a binary response body into w.
func (c *Client) downloadToWriter(ctx context.Context, path string, w io.Writer) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	token := c.session.AccessToken()
	if token == "" {
		return "", ErrSessionExpired
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("network error: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusUnauthorized {
		if cerr := c.session.Clear(); cerr != nil {
			c.log.Error().Err(cerr).Msg("failed to clear session")
		}
		return "", fmt.Errorf("%w: %s", ErrSessionExpired, decodeError(resp).Error())
	}
	if resp.StatusCode >= 400 {
		return "", decodeError(resp)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("failed to download: %w", err)
	}
	return filenameFromDisposition(resp.Header.Get("Content-Disposition")), nil
}

// decodeError maps a non-2xx response to an *APIError, preferring the
// backend's error/message/detail text over generic wording.
func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(data) > 0 {
		var payload map[string]any
		if jerr := json.Unmarshal(data, &payload); jerr == nil {
			apiErr.Message, apiErr.Fields = extractErrorBody(payload)
		}
	}
	if apiErr.Message == "" {
		if resp.StatusCode >= 500 {
			apiErr.Message = "server error, please try again"
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}

func extractErrorBody(payload map[string]any) (string, map[string][]string) {
	var fields map[string][]string
	message := ""
	for _, key := range []string{"error", "message", "detail"} {
		if v, ok := payload[key].(string); ok && v != "" {
			message = v
			break
		}
	}
	for key, value := range payload {
		if key == "error" || key == "message" || key == "detail" {
			continue
		}
		msgs := stringList(value)
		if len(msgs) == 0 {
			continue
		}
		if fields == nil {
			fields = map[string][]string{}
		}
		fields[key] = msgs
	}
	if message == "" && len(fields) > 0 {
		for _, msgs := range fields {
			message = msgs[0]
			break
		}
	}
	return message, fields
}

func stringList(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func filenameFromDisposition(header string) string {
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "filename=") {
			name := strings.TrimPrefix(part, "filename=")
			return strings.Trim(name, `"`)
		}
	}
	return ""
}
