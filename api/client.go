package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"escrowdesk/logger"
	"escrowdesk/session"
)

// Client talks to the escrow platform API. Every authenticated request
// carries a bearer token from the session store; an HTTP 401 clears the
// stored token pair immediately, with no refresh attempt and no retry.
type Client struct {
	baseURL string
	http    *http.Client
	session session.Store
	limiter *rate.Limiter
	cache   *gocache.Cache
	log     *slog.Logger
}

const profileCacheKey = "profile"

// NewClient constructs a client for the given base URL.
func NewClient(baseURL string, store session.Store) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("api: empty base URL")
	}
	if store == nil {
		return nil, fmt.Errorf("api: nil session store")
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: store,
		// Keeps an aggressive caller from hammering the platform; generous
		// enough to never throttle interactive use.
		limiter: rate.NewLimiter(rate.Limit(20), 40),
		cache:   gocache.New(30*time.Second, time.Minute),
		log:     logger.L,
	}, nil
}

// WithHTTPClient overrides the underlying HTTP client, for tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// WithLogger overrides the structured logger.
func (c *Client) WithLogger(l *slog.Logger) *Client {
	c.log = l
	return c
}

// detailBody is the error envelope the platform uses for rejections.
type detailBody struct {
	Detail string `json:"detail"`
}

// doJSON sends a JSON request and decodes a JSON response into out (out may
// be nil). It never lets a transport or HTTP failure escape untyped: every
// error is an *Error with a closed Kind.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindValidation, err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(encoded)
	}
	return c.do(ctx, method, path, reader, "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Kind: KindTransport, err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Kind: KindTransport, err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if token := c.session.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug("api request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		// Late completions after cancellation surface as context errors and
		// are dropped by callers; classify them as transport either way.
		c.log.Warn("api transport failure", "method", method, "path", path, "request_id", requestID, "error", err)
		return &Error{Kind: KindTransport, err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("api response", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode == http.StatusUnauthorized {
		// Authoritative rejection: drop both tokens locally. The next
		// protected-route check sees a logged-out session.
		if err := c.session.Clear(); err != nil {
			c.log.Warn("api clear session", "error", err)
		}
		c.cache.Delete(profileCacheKey)
		return &Error{Kind: KindUnauthorized, Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if resp.StatusCode >= 400 {
		kind := KindValidation
		if resp.StatusCode >= 500 {
			kind = KindServer
		}
		return &Error{Kind: kind, Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindServer, Status: resp.StatusCode, err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// readDetail extracts the server's detail message from an error body, if any.
func readDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var envelope detailBody
	if err := json.Unmarshal(data, &envelope); err != nil {
		return ""
	}
	return envelope.Detail
}
