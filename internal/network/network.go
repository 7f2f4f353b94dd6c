// Package network fetches remote JSON resources with an on-disk fallback
// cache so previously seen data stays available offline.
package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ErrNotCached indicates a resource could not be fetched and no cached
// copy exists.
var ErrNotCached = errors.New("resource not fetched and not cached")

var client = &http.Client{Timeout: 30 * time.Second}

// cacheTTL bounds how long a cached copy may satisfy a Get without a
// network round trip.
const cacheTTL = time.Hour

// Cache fetches a JSON document of type T from URL, persisting successful
// responses at Path. When the fetch fails the cached copy is served
// instead; when neither is available Get reports ErrNotCached.
type Cache[T any] struct {
	Path string
	URL  string

	// AlwaysFetch disables serving a fresh cached copy without hitting
	// the network first.
	AlwaysFetch bool
}

// Get fills dst from the remote resource or the cache.
func (c Cache[T]) Get(dst *T) error {
	if !c.AlwaysFetch && c.serveFresh(dst) {
		return nil
	}

	fetchErr := c.fetch(dst)
	if fetchErr == nil {
		return nil
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotCached, fetchErr)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: corrupt cache: %s", ErrNotCached, err)
	}
	return nil
}

// serveFresh fills dst from the cached copy when it is younger than
// cacheTTL, reporting whether it did.
func (c Cache[T]) serveFresh(dst *T) bool {
	info, err := os.Stat(c.Path)
	if err != nil || time.Since(info.ModTime()) >= cacheTTL {
		return false
	}
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (c Cache[T]) fetch(dst *T) error {
	resp, err := client.Get(c.URL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", c.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("parse %s: %w", c.URL, err)
	}

	// Cache write failures are not fatal; the fetched data is still good.
	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err == nil {
		os.WriteFile(c.Path, body, 0644)
	}
	return nil
}
