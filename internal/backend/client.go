package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Client lists records from the backend's collections.
type Client interface {
	// List issues GET {BaseURL}/{collection}?{params} and returns the decoded JSON
	// body as-is. The envelope shape is collection-specific and left to the caller.
	List(ctx context.Context, collection string, params map[string]string) (any, error)
}

// Config holds the connection settings for the records backend.
type Config struct {
	BaseURL string
	Token   string

	Timeout time.Duration
	// CacheTTL keeps successful list responses for repeated identical queries.
	// Zero disables the cache.
	CacheTTL time.Duration
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// NewClient creates a new backend client based on the provided configuration.
func NewClient(cfg Config) Client {
	return NewRESTClient(cfg, nil)
}

func statusMessage(code int) string {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "Backend authentication failed (401/403). Please check REPORTS_API_TOKEN."
	case http.StatusNotFound:
		return "Requested collection was not found on the backend."
	case http.StatusTooManyRequests:
		return "Backend rate limit exceeded (429)."
	default:
		return fmt.Sprintf("Backend returned status %d. Please check backend availability.", code)
	}
}
