package export

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

const maxLogoBytes = 2 << 20

// Logo is a decoded-once image placed in report headers.
type Logo struct {
	Data      []byte
	MIMEType  string
	ImageType string
}

// DataURI embeds the logo for self-contained documents.
func (l *Logo) DataURI() string {
	return "data:" + l.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(l.Data)
}

// LogoLoader loads a logo from a file path or an http(s) URL. A successful
// load is cached for the lifetime of the loader; failures are retried on the
// next Load.
type LogoLoader struct {
	source string
	client *http.Client

	mu   sync.Mutex
	logo *Logo
}

// NewLogoLoader creates a loader for source. An empty source means no logo.
func NewLogoLoader(source string, client *http.Client) *LogoLoader {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &LogoLoader{source: strings.TrimSpace(source), client: client}
}

// Load returns the logo, or nil with no error when none is configured.
func (l *LogoLoader) Load(ctx context.Context) (*Logo, error) {
	if l == nil || l.source == "" {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logo != nil {
		return l.logo, nil
	}
	logo, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	l.logo = logo
	return logo, nil
}

func (l *LogoLoader) load(ctx context.Context) (*Logo, error) {
	var data []byte
	var err error
	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		data, err = l.fetch(ctx)
	} else {
		data, err = os.ReadFile(l.source)
	}
	if err != nil {
		return nil, fmt.Errorf("load logo %s: %w", l.source, err)
	}
	return decodeLogo(data)
}

func (l *LogoLoader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
}

func decodeLogo(data []byte) (*Logo, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("logo is empty")
	}
	mime := http.DetectContentType(data)
	var imageType string
	switch mime {
	case "image/png":
		imageType = "PNG"
	case "image/jpeg":
		imageType = "JPG"
	case "image/gif":
		imageType = "GIF"
	default:
		return nil, fmt.Errorf("unsupported logo type %s", mime)
	}
	return &Logo{Data: data, MIMEType: mime, ImageType: imageType}, nil
}
