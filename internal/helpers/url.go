package helpers

import (
	"errors"
	"net/url"
	"path"
	"sort"
	"strings"
)

var trackingQueryParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"utm_id":       {},
	"gclid":        {},
	"dclid":        {},
	"fbclid":       {},
	"msclkid":      {},
	"igshid":       {},
}

// CanonicalURL normalises a URL string for identity comparison: lowercase
// scheme/host, default ports removed, fragment stripped, path cleaned,
// tracking query parameters (utm_*, fbclid, ...) dropped and the remaining
// parameters sorted deterministically. A missing scheme defaults to https.
func CanonicalURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty url")
	}

	parsed, err := parseWithHost(raw)
	if err != nil {
		return "", err
	}

	if parsed.Scheme == "" {
		parsed.Scheme = "https"
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)

	host := strings.ToLower(parsed.Host)
	if host == "" {
		return "", errors.New("url missing host")
	}
	if h, port, ok := strings.Cut(host, ":"); ok {
		if (parsed.Scheme == "http" && port == "80") || (parsed.Scheme == "https" && port == "443") {
			host = h
		}
	}
	parsed.Host = host

	cleanPath := path.Clean(parsed.Path)
	if cleanPath == "." || cleanPath == "" {
		cleanPath = "/"
	}
	parsed.Path = cleanPath

	parsed.Fragment = ""
	query := parsed.Query()
	for key := range query {
		if _, drop := trackingQueryParams[strings.ToLower(key)]; drop {
			query.Del(key)
		}
	}
	if len(query) == 0 {
		parsed.RawQuery = ""
	} else {
		keys := make([]string, 0, len(query))
		for key := range query {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, key := range keys {
			values := append([]string(nil), query[key]...)
			sort.Strings(values)
			for _, value := range values {
				if b.Len() > 0 {
					b.WriteByte('&')
				}
				b.WriteString(url.QueryEscape(key))
				b.WriteByte('=')
				b.WriteString(url.QueryEscape(value))
			}
		}
		parsed.RawQuery = b.String()
	}

	return parsed.String(), nil
}

// OutletDomain extracts the outlet domain from an article URL, without the
// leading www. Returns "" when the URL cannot be parsed.
func OutletDomain(raw string) string {
	parsed, err := parseWithHost(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}
	host := strings.ToLower(parsed.Host)
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	return strings.TrimPrefix(host, "www.")
}

// parseWithHost parses raw into a url.URL, tolerating schemeless input like
// example.com/path or //example.com/path.
func parseWithHost(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme == "" && parsed.Host == "" {
		if strings.HasPrefix(raw, "//") {
			return url.Parse("https:" + raw)
		}
		return url.Parse("https://" + raw)
	}
	return parsed, nil
}
