package domain

import (
	"net/url"
	"strings"
)

// HostFilter is a cheap pre-filter for video URLs. The extractor does the
// authoritative validation.
type HostFilter struct {
	domains    []string
	shortHosts []string
}

// NewHostFilter creates a filter accepting domains (and their subdomains)
// plus exact short-link hosts.
func NewHostFilter(domains, shortHosts []string) *HostFilter {
	return &HostFilter{
		domains:    normalizeHosts(domains),
		shortHosts: normalizeHosts(shortHosts),
	}
}

// DefaultHostFilter accepts youtube.com, its subdomains and youtu.be.
func DefaultHostFilter() *HostFilter {
	return NewHostFilter([]string{"youtube.com"}, []string{"youtu.be"})
}

// Check parses raw and verifies its host. It returns ErrInvalidURL for
// unparsable or relative URLs and ErrUnsupportedHost for foreign hosts.
func (f *HostFilter) Check(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrInvalidURL
	}

	if !f.Allowed(u.Hostname()) {
		return nil, ErrUnsupportedHost
	}
	return u, nil
}

// Allowed reports whether host belongs to the platform.
func (f *HostFilter) Allowed(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return false
	}

	for _, h := range f.shortHosts {
		if host == h {
			return true
		}
	}
	for _, d := range f.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func normalizeHosts(hosts []string) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h)), ".")
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}
