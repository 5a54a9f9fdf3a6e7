// Package backend is the HTTP client for the external catalog backend. It
// owns no state: every call is a plain JSON (or multipart) request.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"runtime"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

type Config struct {
	BaseURL   string        // e.g. https://api.example.com; empty disables every call
	Timeout   time.Duration // per-request timeout, defaults to 30s
	UserAgent string
	// HTTPClient overrides the transport (tests).
	HTTPClient *http.Client
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	token     string
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = fmt.Sprintf("silicon-bff,os:%s,arch:%s", runtime.GOOS, runtime.GOARCH)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.MaxConnsPerHost = 32
		hc = &http.Client{Transport: transport, Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		userAgent: cfg.UserAgent,
		http:      hc,
	}
}

// WithToken returns a copy that authenticates as the holder of token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) Configured() bool { return c.baseURL != "" }

func (c *Client) BaseURL() string { return c.baseURL }

// HeaderRequestID carries the caller's request id to the backend.
const HeaderRequestID = "X-Request-ID"

type requestIDKey struct{}

// WithRequestID tags ctx so backend calls made with it carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// FilePart is one file in a multipart request.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Body        io.Reader
}

// envelope is the backend response wrapper. Bare objects are accepted too.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}
	return c.do(ctx, method, path, body, "application/json", out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, file *FilePart, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Filename))
		ct := file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file.Body); err != nil {
			return fmt.Errorf("read %s: %w", file.Filename, err)
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}
	return c.do(ctx, method, path, &buf, mw.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(method, path, resp.StatusCode, raw)
	}
	return decode(method, path, raw, out)
}

// RawResponse is an undecoded backend answer.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Raw sends body as is and returns the answer without interpreting it.
func (c *Client) Raw(ctx context.Context, method, path string, body []byte, contentType string) (*RawResponse, error) {
	resp, err := c.send(ctx, method, path, bytes.NewReader(body), contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	return &RawResponse{StatusCode: resp.StatusCode, Header: resp.Header, Body: raw}, nil
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if rid := RequestID(ctx); rid != "" {
		req.Header.Set(HeaderRequestID, rid)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	return resp, nil
}

func decode(method, path string, raw []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		raw = env.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
