package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type restClient struct {
	cfg        Config
	httpClient *http.Client

	cache      map[string]*cacheEntry
	cacheMutex sync.Mutex
}

type cacheEntry struct {
	Value      any
	Expiration time.Time
}

// NewRESTClient builds a Client over net/http. A nil httpClient gets one with cfg.Timeout.
func NewRESTClient(cfg Config, httpClient *http.Client) Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &restClient{
		cfg:        cfg,
		httpClient: httpClient,
		cache:      make(map[string]*cacheEntry),
	}
}

func (c *restClient) List(ctx context.Context, collection string, params map[string]string) (any, error) {
	listURL := c.buildURL(collection, params)

	if c.cfg.CacheTTL > 0 {
		if val, ok := c.getFromCache(listURL); ok {
			return val, nil
		}
	}

	log.Debug().Str("url", listURL).Msg("Requesting collection from backend")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := bodyMessage(body)
		if msg == "" {
			msg = statusMessage(resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	var result any
	if len(bytes.TrimSpace(body)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode backend response: %w", err)
		}
	}

	if c.cfg.CacheTTL > 0 {
		c.addToCache(listURL, result, c.cfg.CacheTTL)
	}
	return result, nil
}

func (c *restClient) buildURL(collection string, params map[string]string) string {
	values := url.Values{}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values.Set(k, params[k])
	}

	u := fmt.Sprintf("%s/%s", strings.TrimRight(c.cfg.BaseURL, "/"), strings.TrimLeft(collection, "/"))
	if len(values) > 0 {
		u += "?" + values.Encode()
	}
	return u
}

// bodyMessage extracts a human-readable message from an error body, if it has one.
func bodyMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error", "msg"} {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func (c *restClient) getFromCache(key string) (any, bool) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	entry, ok := c.cache[key]
	if !ok {
		log.Debug().Str("key", key).Msg("Cache miss")
		return nil, false
	}
	if time.Now().After(entry.Expiration) {
		delete(c.cache, key)
		return nil, false
	}
	log.Debug().Str("key", key).Msg("Cache hit")
	return entry.Value, true
}

func (c *restClient) addToCache(key string, value any, ttl time.Duration) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	c.cache[key] = &cacheEntry{
		Value:      value,
		Expiration: time.Now().Add(ttl),
	}
	log.Debug().Str("key", key).Dur("ttl", ttl).Msg("Added to cache")
}
