package utils

import (
	"net/url"
	"path"
	"strings"
	"unicode"
)

// NormalizePath turns a request path or absolute URL into the canonical
// form used for navigation lookups: leading slash, no trailing slash, no
// duplicate separators.
func NormalizePath(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "/"
	}

	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		if parsed, err := url.Parse(trimmed); err == nil {
			trimmed = parsed.Path
			if trimmed == "" {
				trimmed = "/"
			}
		}
	}

	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}

	cleaned := path.Clean(trimmed)
	if cleaned == "." || cleaned == "" {
		return "/"
	}
	return cleaned
}

// CanonicalHref normalizes the path of a local navigation href the same way
// request paths are normalized, so exact matching sees both sides alike.
// External URLs are returned unchanged; a query or fragment is kept.
func CanonicalHref(href string) string {
	trimmed := strings.TrimSpace(href)
	if !strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "//") {
		return href
	}
	pathPart, suffix := trimmed, ""
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		pathPart, suffix = trimmed[:i], trimmed[i:]
	}
	return NormalizePath(pathPart) + suffix
}

// IsLocalPath reports whether value is a same-site absolute path, which is
// the only kind of redirect target accepted from forms.
func IsLocalPath(value string) bool {
	if !strings.HasPrefix(value, "/") || strings.HasPrefix(value, "//") || strings.HasPrefix(value, "/\\") {
		return false
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	return parsed.Scheme == "" && parsed.Host == ""
}

// Initials returns up to two upper-case initials for an avatar fallback.
func Initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				out = append(out, unicode.ToUpper(r))
				break
			}
		}
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}
