// Package csvsource reads the catalog CSV from disk or over HTTP and maps
// its rows to resources.
package csvsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/MrSnakeDoc/pnptools/internal/domain"
	"github.com/MrSnakeDoc/pnptools/internal/utils"
)

// maxCatalogBytes bounds a remote catalog download.
const maxCatalogBytes = 32 << 20

// Loader fetches the raw catalog text. Location is a file path or an
// http(s) URL.
type Loader struct {
	location string
	client   *http.Client
}

// NewLoader creates a loader for location. A nil client gets a 15s timeout.
func NewLoader(location string, client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Loader{location: location, client: client}
}

// Location returns what the loader reads from.
func (l *Loader) Location() string {
	return l.location
}

// IsRemote reports whether the loader fetches over HTTP.
func (l *Loader) IsRemote() bool {
	lower := strings.ToLower(l.location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Load returns the catalog text. Every failure wraps domain.ErrLoad.
func (l *Loader) Load(ctx context.Context) (string, error) {
	if l.IsRemote() {
		return l.fetch(ctx)
	}

	data, err := os.ReadFile(l.location)
	if err != nil {
		return "", fmt.Errorf("%w: read catalog file: %w", domain.ErrLoad, err)
	}
	return string(data), nil
}

func (l *Loader) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.location, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", domain.ErrLoad, err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrLoad, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: Failed to load CSV (%d)", domain.ErrLoad, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %w", domain.ErrLoad, err)
	}
	return string(data), nil
}
