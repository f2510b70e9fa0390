package siteaudit

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// schemeRun matches one or more leading http(s) schemes and captures the last.
var schemeRun = regexp.MustCompile(`(?i)^(?:https?://)*(https?://)`)

// NormalizeURL trims raw, collapses repeated protocol prefixes and defaults
// the scheme to https. A URL given without a scheme also gets a root path,
// so "example.com" becomes "https://example.com/". Internationalized host
// names are converted to their ASCII form.
//
// Returns EINVALID if the URL cannot be parsed or has no host.
func NormalizeURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", Errorf(EINVALID, "URL required")
	}

	hasScheme := schemeRun.MatchString(s)
	if hasScheme {
		s = schemeRun.ReplaceAllString(s, "$1")
	} else {
		if strings.Contains(s, "://") {
			return "", Errorf(EINVALID, "unsupported URL scheme: %s", s)
		}
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", raw, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", Errorf(EINVALID, "URL has no host: %q", raw)
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", Errorf(EINVALID, "invalid host %q: %v", host, err)
	}

	changed := false
	if ascii != host {
		if port := u.Port(); port != "" {
			u.Host = ascii + ":" + port
		} else {
			u.Host = ascii
		}
		changed = true
	}
	if !hasScheme && u.Path == "" {
		u.Path = "/"
		changed = true
	}
	if changed {
		return u.String(), nil
	}
	return s, nil
}

// Hostname returns the lowercased host of rawURL without port, or "" if
// rawURL cannot be parsed.
func Hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// SameSite reports whether two hosts belong to the same site, treating a
// leading "www." as insignificant.
func SameSite(a, b string) bool {
	a = strings.TrimPrefix(strings.ToLower(a), "www.")
	b = strings.TrimPrefix(strings.ToLower(b), "www.")
	return a != "" && a == b
}
