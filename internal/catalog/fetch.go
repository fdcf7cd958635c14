package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"lolmath/internal/logging"
)

// maxBodyBytes bounds a single catalog document (item.json is ~1MB).
const maxBodyBytes = 32 << 20

// fetch GETs url with a per-attempt timeout and bounded exponential backoff.
// Transport errors, 429 and 5xx are retried; other statuses are not.
func (s *Store) fetch(ctx context.Context, url string) ([]byte, error) {
	backoff := s.cfg.RetryBackoff
	var lastErr error

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			logging.CatalogWarn("retrying %s (attempt %d/%d) after %v: %v", url, attempt, s.cfg.MaxAttempts, backoff, lastErr)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w (last error: %v)", ctx.Err(), lastErr)
			case <-s.clock.After(backoff):
			}
			backoff *= 2
		}

		body, err := s.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}

	return nil, lastErr
}

func (s *Store) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return true
}

// fetchVersion returns the first (current) entry of versions.json.
func (s *Store) fetchVersion(ctx context.Context) (string, error) {
	body, err := s.fetch(ctx, s.cfg.BaseURL+"/api/versions.json")
	if err != nil {
		return "", err
	}

	var versions []string
	if err := json.Unmarshal(body, &versions); err != nil {
		return "", fmt.Errorf("failed to parse versions: %w", err)
	}
	if len(versions) == 0 || strings.TrimSpace(versions[0]) == "" {
		return "", errors.New("versions list is empty")
	}
	return versions[0], nil
}

// fetchDocument returns the body of a versioned data document, preferring the
// cache. decode is applied before the body is cached so a corrupt document
// is never persisted; a cached body that fails to decode is refetched.
func (s *Store) fetchDocument(ctx context.Context, version, kind string, decode func([]byte) error) error {
	if s.cache != nil {
		if body, ok := s.cache.Lookup(version, kind); ok {
			if err := decode(body); err == nil {
				logging.CatalogDebug("%s %s served from cache", kind, version)
				return nil
			}
			logging.CatalogWarn("cached %s for %s does not parse, refetching", kind, version)
		}
	}

	body, err := s.fetch(ctx, s.dataURL(version, kind))
	if err != nil {
		return err
	}
	if err := decode(body); err != nil {
		return fmt.Errorf("failed to parse %s: %w", kind, err)
	}

	if s.cache != nil {
		if err := s.cache.Save(version, kind, body); err != nil {
			logging.CatalogWarn("failed to cache %s for %s: %v", kind, version, err)
		}
	}
	return nil
}

func (s *Store) dataURL(version, kind string) string {
	return fmt.Sprintf("%s/cdn/%s/data/%s/%s.json", s.cfg.BaseURL, version, s.cfg.Locale, kind)
}
