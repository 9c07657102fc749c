package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"jobmatch-engine/internal/errs"
)

const (
	// DesktopUA and MobileUA are sent to sites that serve bots a challenge.
	DesktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	MobileUA  = "Mozilla/5.0 (Linux; Android 14; Pixel 8 Pro) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Mobile Safari/537.36"
	AppUA     = "JobMatch/1.0"

	maxBodyBytes = 8 << 20
)

// BrowserHeaders mimics a real browser. Accept-Encoding is pinned to identity
// because some hosts send compressed bodies with mismatched headers.
func BrowserHeaders(ua string) http.Header {
	h := http.Header{}
	h.Set("User-Agent", ua)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Accept-Encoding", "identity")
	return h
}

func JSONHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("User-Agent", AppUA)
	return h
}

type Response struct {
	StatusCode  int
	Header      http.Header
	ContentType string
	Body        []byte
	URL         string
}

func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

func (r *Response) Text() string { return string(r.Body) }

// Client is the HTTP client every adapter shares. It follows redirects,
// keeps cookies per process and waits on the host limiter before each call.
type Client struct {
	hc      *http.Client
	limiter *HostLimiter
}

func NewClient(timeout time.Duration, limiter *HostLimiter) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		hc: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		limiter: limiter,
	}
}

// NewClientWith wraps an existing http.Client. Tests use it with httptest.
func NewClientWith(hc *http.Client, limiter *HostLimiter) *Client {
	return &Client{hc: hc, limiter: limiter}
}

// Do performs the request and reads the whole body. Any status is returned
// as a Response; only transport failures produce an error.
func (c *Client) Do(ctx context.Context, method, url string, header http.Header, body io.Reader) (*Response, error) {
	if err := c.limiter.WaitURL(ctx, url); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errs.InvalidInput("building request", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, errs.Unavailable(fmt.Sprintf("%s %s", method, redact(url)), err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errs.Unavailable("reading body", err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		Header:      resp.Header,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        b,
		URL:         resp.Request.URL.String(),
	}, nil
}

func (c *Client) Get(ctx context.Context, url string, header http.Header) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, header, nil)
}

// GetJSON decodes a 2xx JSON response into v. Non-2xx statuses are
// Unavailable; undecodable bodies are InvalidInput.
func (c *Client) GetJSON(ctx context.Context, url string, header http.Header, v any) error {
	if header == nil {
		header = JSONHeaders()
	}
	resp, err := c.Get(ctx, url, header)
	if err != nil {
		return err
	}
	return decodeJSON(resp, v)
}

func (c *Client) PostJSON(ctx context.Context, url string, header http.Header, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return errs.Internal("encoding request body", err)
	}
	if header == nil {
		header = JSONHeaders()
	}
	header = header.Clone()
	header.Set("Content-Type", "application/json")

	resp, err := c.Do(ctx, http.MethodPost, url, header, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

// StatusError is returned (wrapped in errs.Unavailable) for non-2xx replies.
type StatusError struct {
	StatusCode int
	Snippet    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Snippet)
}

func decodeJSON(resp *Response, v any) error {
	if !resp.OK() {
		return errs.Unavailable(fmt.Sprintf("unexpected status from %s", redact(resp.URL)),
			&StatusError{StatusCode: resp.StatusCode, Snippet: Truncate(resp.Text(), 200)})
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return errs.InvalidInput("decoding json", err)
	}
	return nil
}

// redact strips the query string so keys passed as parameters stay out of logs.
func redact(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		return url[:i]
	}
	return url
}
