// Package social fetches engagement counts (shares, likes, comments) for a
// business website from social graph providers.
package social

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeWebsite reduces a website to scheme and host so that
// "http://x.com", "http://x.com/" and "http://x.com/index.html" all map to
// the same key. A missing scheme defaults to http.
func NormalizeWebsite(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty website")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing website %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("website %q has no host", raw)
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host), nil
}
