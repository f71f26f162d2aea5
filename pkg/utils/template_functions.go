package utils

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

type AssetModTimeFunc func(path string) (time.Time, error)

type IconFunc func(name string) template.HTML

// GetTemplateFuncs returns the helpers available to the dashboard layouts.
// A nil icon resolver renders every icon as empty markup.
func GetTemplateFuncs(assetModTime AssetModTimeFunc, icon IconFunc) template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("dict expects an even number of arguments")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"icon": func(name string) template.HTML {
			if icon == nil || name == "" {
				return ""
			}
			return icon(name)
		},
		"navPadding": NavPaddingClass,
		"initials":   Initials,
		"asset": func(path string) string {
			return AssetURL(path, assetModTime)
		},
	}
}

// MaxNavPadding is the largest pl-* class in the dashboard stylesheet.
// Deeper levels are indented by the nested list rule in the same file.
const MaxNavPadding = 12

// NavPaddingClass maps a navigation indent to its stylesheet utility class.
func NavPaddingClass(indent int) string {
	if indent < 0 {
		indent = 0
	}
	if indent > MaxNavPadding {
		indent = MaxNavPadding
	}
	return fmt.Sprintf("pl-%d", indent)
}

// AssetURL appends a modification-time version to local asset paths so
// browsers refetch stylesheets after a deploy. Remote URLs pass through.
func AssetURL(path string, modTime AssetModTimeFunc) string {
	if path == "" {
		return ""
	}
	lowerPath := strings.ToLower(path)
	if strings.HasPrefix(lowerPath, "http://") || strings.HasPrefix(lowerPath, "https://") || strings.HasPrefix(path, "//") {
		return path
	}
	if modTime == nil {
		return path
	}
	stamp, err := modTime(path)
	if err != nil || stamp.IsZero() {
		return path
	}
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	return fmt.Sprintf("%s%sv=%d", path, separator, stamp.Unix())
}
