package navigation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlugChars = regexp.MustCompile("[^a-z0-9]+")

// Slug turns a display name into a key segment.
func Slug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	text, _, err := transform.String(t, name)
	if err != nil {
		text = name
	}

	text = strings.ToLower(text)
	text = nonSlugChars.ReplaceAllString(text, "-")
	text = strings.Trim(text, "-")
	if text == "" {
		return "item"
	}
	return text
}

// JoinKey appends a segment to a parent key.
func JoinKey(parent, segment string) string {
	if parent == "" {
		return segment
	}
	return parent + "/" + segment
}

// siblingKeys derives one key per entry. Names are unique within a sibling
// group but their slugs may still collide, in which case later siblings get a
// numeric suffix.
func siblingKeys(parent string, entries []Entry) []string {
	keys := make([]string, len(entries))
	used := make(map[string]bool, len(entries))
	for i, entry := range entries {
		base := Slug(entry.Name)
		segment := base
		for n := 2; used[segment]; n++ {
			segment = base + "-" + strconv.Itoa(n)
		}
		used[segment] = true
		keys[i] = JoinKey(parent, segment)
	}
	return keys
}
